package paymentgateway

import (
	"context"
	"fmt"

	"evmarket.io/marketplace-api/app/utils/httpclients"
	"evmarket.io/marketplace-api/config/environment_variables"
	"github.com/shopspring/decimal"
	"resty.dev/v3"
)

type CreatePaymentRequest struct {
	Reference   string          `json:"reference"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Method      string          `json:"method"`
	Description string          `json:"description"`
	ReturnURL   string          `json:"return_url,omitempty"`
}

type CreatePaymentResponse struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	CheckoutURL string `json:"checkout_url"`
}

type RefundResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type errorResponse struct {
	Message string `json:"message"`
}

type Client struct {
	resty  *resty.Client
	apiKey string
}

func NewClient() *Client {
	envs := environment_variables.EnvironmentVariables
	return NewClientWithBaseURL(envs.PAYMENT_GATEWAY_URL, envs.PAYMENT_GATEWAY_API_KEY)
}

func NewClientWithBaseURL(baseURL string, apiKey string) *Client {
	client := httpclients.NewClient("PaymentGatewayClient")
	client.SetBaseURL(baseURL)
	return &Client{resty: client, apiKey: apiKey}
}

// CreatePayment registers a payment with the gateway. idempotencyKey makes retries safe.
func (c *Client) CreatePayment(ctx context.Context, idempotencyKey string, request CreatePaymentRequest) (*CreatePaymentResponse, error) {
	var result CreatePaymentResponse
	var failure errorResponse
	resp, err := c.resty.R().
		SetContext(ctx).
		SetAuthToken(c.apiKey).
		SetHeader("Idempotency-Key", idempotencyKey).
		SetBody(request).
		SetResult(&result).
		SetError(&failure).
		Post("/v1/payments")
	if err != nil {
		return nil, fmt.Errorf("payment gateway request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("payment gateway returned %d: %s", resp.StatusCode(), failure.Message)
	}
	return &result, nil
}

func (c *Client) Refund(ctx context.Context, gatewayRef string) (*RefundResponse, error) {
	var result RefundResponse
	var failure errorResponse
	resp, err := c.resty.R().
		SetContext(ctx).
		SetAuthToken(c.apiKey).
		SetResult(&result).
		SetError(&failure).
		Post(fmt.Sprintf("/v1/payments/%s/refund", gatewayRef))
	if err != nil {
		return nil, fmt.Errorf("payment gateway request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("payment gateway returned %d: %s", resp.StatusCode(), failure.Message)
	}
	return &result, nil
}
