package paymentgateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestCreatePayment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/payments" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer key-1" {
			t.Errorf("Authorization = %q", got)
		}
		if got := r.Header.Get("Idempotency-Key"); got != "idem-1" {
			t.Errorf("Idempotency-Key = %q", got)
		}
		var body CreatePaymentRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body.Reference != "pay_1" || !body.Amount.Equal(decimal.NewFromInt(42000)) {
			t.Errorf("unexpected body %+v", body)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"gw_1","status":"pending","checkout_url":"https://pay.example/gw_1"}`))
	}))
	defer srv.Close()

	client := NewClientWithBaseURL(srv.URL, "key-1")
	resp, err := client.CreatePayment(context.Background(), "idem-1", CreatePaymentRequest{
		Reference: "pay_1",
		Amount:    decimal.NewFromInt(42000),
		Currency:  "USD",
		Method:    "card",
	})
	if err != nil {
		t.Fatalf("CreatePayment: %v", err)
	}
	if resp.ID != "gw_1" || resp.CheckoutURL != "https://pay.example/gw_1" {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestCreatePaymentGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"amount too large"}`))
	}))
	defer srv.Close()

	client := NewClientWithBaseURL(srv.URL, "key-1")
	_, err := client.CreatePayment(context.Background(), "idem-2", CreatePaymentRequest{Reference: "pay_2"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "422") || !strings.Contains(err.Error(), "amount too large") {
		t.Errorf("unexpected error %v", err)
	}
}
