package orders

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"evmarket.io/marketplace-api/app/domain/listing"
	"evmarket.io/marketplace-api/app/domain/order"
	"evmarket.io/marketplace-api/app/domain/user"
	"evmarket.io/marketplace-api/app/infrastructure/database/repository/orderrepo"
	"evmarket.io/marketplace-api/app/interfaces/http/routetest"
	"github.com/shopspring/decimal"
)

func newEnv(t *testing.T) *routetest.Env {
	t.Helper()
	env := routetest.New(t)
	env.AddUser(t, "usr_seller", user.RoleSeller)
	env.AddUser(t, "usr_buyer", user.RoleBuyer)
	env.AddUser(t, "usr_stranger", user.RoleBuyer)
	env.AddUser(t, "usr_admin", user.RoleAdmin)
	env.AddListing(t, "lst_1", "usr_seller", "31500.00")

	orders := order.NewService(orderrepo.NewOrderGormRepository(env.DB), env.Cache, env.Listings, nil)
	NewOrdersRoute(env.Auth, orders).RegisterRouter(env.Router)
	return env
}

func placeOrder(t *testing.T, env *routetest.Env) *order.Order {
	t.Helper()
	rec := env.Do(t, http.MethodPost, "/v1/orders", "usr_buyer", `{"listing_id":"lst_1","shipping_address":" 1 Main St "}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create = %d %s", rec.Code, rec.Body)
	}
	return routetest.Result[*order.Order](t, rec)
}

func TestCreateOrder(t *testing.T) {
	env := newEnv(t)
	o := placeOrder(t, env)
	if o.Status != order.StatusPending || o.SellerID != "usr_seller" || o.ShippingAddress != "1 Main St" {
		t.Errorf("order = %+v", o)
	}
	if !o.Amount.Equal(decimal.RequireFromString("31500")) {
		t.Errorf("Amount = %s", o.Amount)
	}

	tests := map[string]struct {
		as   string
		body string
		want int
	}{
		"anonymous":       {"", `{"listing_id":"lst_1","shipping_address":"x"}`, http.StatusUnauthorized},
		"missing address": {"usr_buyer", `{"listing_id":"lst_1"}`, http.StatusBadRequest},
		"own listing":     {"usr_seller", `{"listing_id":"lst_1","shipping_address":"x"}`, http.StatusBadRequest},
		"unknown listing": {"usr_buyer", `{"listing_id":"lst_missing","shipping_address":"x"}`, http.StatusNotFound},
		"malformed json":  {"usr_buyer", `{`, http.StatusBadRequest},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if rec := env.Do(t, http.MethodPost, "/v1/orders", tt.as, tt.body); rec.Code != tt.want {
				t.Errorf("status = %d, want %d: %s", rec.Code, tt.want, rec.Body)
			}
		})
	}
}

func TestOrderVisibility(t *testing.T) {
	env := newEnv(t)
	o := placeOrder(t, env)
	path := "/v1/orders/" + o.PublicID

	for who, want := range map[string]int{
		"usr_buyer":    http.StatusOK,
		"usr_seller":   http.StatusOK,
		"usr_admin":    http.StatusOK,
		"usr_stranger": http.StatusForbidden,
	} {
		if rec := env.Do(t, http.MethodGet, path, who, ""); rec.Code != want {
			t.Errorf("%s GET = %d, want %d", who, rec.Code, want)
		}
	}
	if rec := env.Do(t, http.MethodGet, "/v1/orders/ord_missing", "usr_buyer", ""); rec.Code != http.StatusNotFound {
		t.Errorf("missing order = %d", rec.Code)
	}

	rec := env.Do(t, http.MethodGet, "/v1/orders/me", "usr_buyer", "")
	mine := routetest.Result[[]*order.Order](t, rec)
	if rec.Code != http.StatusOK || len(mine) != 1 || mine[0].PublicID != o.PublicID {
		t.Errorf("me = %d %+v", rec.Code, mine)
	}
}

func TestOrderRoleGuards(t *testing.T) {
	env := newEnv(t)
	placeOrder(t, env)

	tests := []struct {
		path string
		as   string
		want int
	}{
		{"/v1/orders/sales", "usr_buyer", http.StatusForbidden},
		{"/v1/orders/sales", "usr_seller", http.StatusOK},
		{"/v1/orders/sales", "usr_admin", http.StatusOK},
		{"/v1/orders", "usr_seller", http.StatusForbidden},
		{"/v1/orders", "usr_admin", http.StatusOK},
		{"/v1/orders", "", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		if rec := env.Do(t, http.MethodGet, tt.path, tt.as, ""); rec.Code != tt.want {
			t.Errorf("%s as %q = %d, want %d", tt.path, tt.as, rec.Code, tt.want)
		}
	}
}

func TestListOrdersPagination(t *testing.T) {
	env := newEnv(t)
	placeOrder(t, env)

	rec := env.Do(t, http.MethodGet, "/v1/orders?page=1&limit=5&status=pending", "usr_admin", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list = %d %s", rec.Code, rec.Body)
	}
	var page struct {
		Page       int            `json:"page"`
		Limit      int            `json:"limit"`
		Total      int64          `json:"total"`
		TotalPages int            `json:"total_pages"`
		Results    []*order.Order `json:"results"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
		t.Fatal(err)
	}
	if page.Page != 1 || page.Limit != 5 || page.Total != 1 || page.TotalPages != 1 || len(page.Results) != 1 {
		t.Errorf("page = %+v", page)
	}

	rec = env.Do(t, http.MethodGet, "/v1/orders?status=shipped", "usr_admin", "")
	if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
		t.Fatal(err)
	}
	if page.Total != 0 || len(page.Results) != 0 {
		t.Errorf("shipped page = %+v", page)
	}

	for _, bad := range []string{"?page=0", "?limit=abc", "?order=sideways"} {
		if rec := env.Do(t, http.MethodGet, "/v1/orders"+bad, "usr_admin", ""); rec.Code != http.StatusBadRequest {
			t.Errorf("%s = %d, want 400", bad, rec.Code)
		}
	}
}

func TestUpdateStatus(t *testing.T) {
	env := newEnv(t)
	o := placeOrder(t, env)
	path := "/v1/orders/" + o.PublicID + "/status"

	steps := []struct {
		as   string
		body string
		want int
	}{
		{"usr_seller", `{"status":"shipped"}`, http.StatusConflict},
		{"usr_buyer", `{"status":"confirmed"}`, http.StatusForbidden},
		{"usr_seller", `{"status":"lost"}`, http.StatusBadRequest},
		{"usr_seller", `{}`, http.StatusBadRequest},
		{"usr_seller", `{"status":"confirmed"}`, http.StatusOK},
		{"usr_seller", `{"status":"shipped"}`, http.StatusOK},
		{"usr_admin", `{"status":"completed"}`, http.StatusOK},
	}
	for i, step := range steps {
		if rec := env.Do(t, http.MethodPatch, path, step.as, step.body); rec.Code != step.want {
			t.Fatalf("step %d %s %s = %d, want %d: %s", i, step.as, step.body, rec.Code, step.want, rec.Body)
		}
	}

	l, err := env.Listings.FindByID(context.Background(), "lst_1")
	if err != nil {
		t.Fatal(err)
	}
	if l.Status != listing.StatusSold {
		t.Errorf("listing status = %s, want sold", l.Status)
	}
	rec := env.Do(t, http.MethodGet, "/v1/orders/"+o.PublicID, "usr_buyer", "")
	if got := routetest.Result[*order.Order](t, rec); got.Status != order.StatusCompleted {
		t.Errorf("cached order status = %s", got.Status)
	}
}

func TestCancelOrder(t *testing.T) {
	env := newEnv(t)
	o := placeOrder(t, env)
	path := "/v1/orders/" + o.PublicID + "/cancel"

	if rec := env.Do(t, http.MethodPost, path, "usr_stranger", ""); rec.Code != http.StatusForbidden {
		t.Errorf("stranger cancel = %d", rec.Code)
	}
	rec := env.Do(t, http.MethodPost, path, "usr_buyer", "")
	if rec.Code != http.StatusOK || routetest.Result[*order.Order](t, rec).Status != order.StatusCancelled {
		t.Fatalf("buyer cancel = %d %s", rec.Code, rec.Body)
	}
	if rec := env.Do(t, http.MethodPost, path, "usr_seller", ""); rec.Code != http.StatusConflict {
		t.Errorf("second cancel = %d, want 409", rec.Code)
	}
}
