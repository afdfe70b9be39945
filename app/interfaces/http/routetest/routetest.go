// Package routetest wires real services over an in-memory database so route
// packages can be exercised end to end with httptest.
package routetest

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"evmarket.io/marketplace-api/app/domain/auth"
	"evmarket.io/marketplace-api/app/domain/listing"
	"evmarket.io/marketplace-api/app/domain/user"
	"evmarket.io/marketplace-api/app/infrastructure/cache"
	"evmarket.io/marketplace-api/app/infrastructure/database/databasetest"
	"evmarket.io/marketplace-api/app/infrastructure/database/repository/listingrepo"
	"evmarket.io/marketplace-api/app/infrastructure/database/repository/transaction"
	"evmarket.io/marketplace-api/app/infrastructure/database/repository/userrepo"
	"evmarket.io/marketplace-api/config/environment_variables"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const jwtSecret = "route-test"

type Env struct {
	Engine   *gin.Engine
	Router   gin.IRouter
	DB       *transaction.Database
	Cache    *cache.CacheService
	Auth     *auth.AuthService
	Listings *listing.ListingService

	users    user.UserRepository
	listings listing.ListingRepository
	tokens   map[string]string
}

func New(t testing.TB) *Env {
	t.Helper()
	gin.SetMode(gin.TestMode)
	prev := environment_variables.EnvironmentVariables.JWT_SECRET
	environment_variables.EnvironmentVariables.JWT_SECRET = []byte(jwtSecret)
	t.Cleanup(func() { environment_variables.EnvironmentVariables.JWT_SECRET = prev })

	store, err := cache.NewMemoryStore(cache.DefaultMemoryStoreConfig())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	cacheService := cache.NewCacheService(cache.Options{Store: store})
	db := databasetest.OpenDatabase(t)
	users := userrepo.NewUserGormRepository(db)
	listings := listingrepo.NewListingGormRepository(db)

	engine := gin.New()
	return &Env{
		Engine:   engine,
		Router:   engine.Group("/v1"),
		DB:       db,
		Cache:    cacheService,
		Auth:     auth.NewAuthService(user.NewService(users, cacheService)),
		Listings: listing.NewService(listings, cacheService),
		users:    users,
		listings: listings,
		tokens:   map[string]string{},
	}
}

// AddUser stores an enabled user and mints a token for it.
func (e *Env) AddUser(t testing.TB, publicID string, role user.Role) *user.User {
	t.Helper()
	u := &user.User{
		PublicID:     publicID,
		Name:         publicID,
		Email:        publicID + "@example.com",
		PasswordHash: "x",
		Role:         role,
		Enabled:      true,
	}
	if err := e.users.Create(context.Background(), u); err != nil {
		t.Fatal(err)
	}
	token, err := auth.CreateJwtSignedString(auth.NewUserClaim(u, time.Now()))
	if err != nil {
		t.Fatal(err)
	}
	e.tokens[publicID] = token
	return u
}

func (e *Env) Token(publicID string) string {
	return e.tokens[publicID]
}

// AddListing stores an active listing owned by sellerID.
func (e *Env) AddListing(t testing.TB, publicID, sellerID, price string) *listing.Listing {
	t.Helper()
	now := time.Now().UTC()
	l := &listing.Listing{
		PublicID:  publicID,
		SellerID:  sellerID,
		Title:     "Model 3 Long Range",
		Brand:     "Tesla",
		Model:     "Model 3",
		Year:      2022,
		Price:     decimal.RequireFromString(price),
		Status:    listing.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := e.listings.Create(context.Background(), l); err != nil {
		t.Fatal(err)
	}
	return l
}

// Do sends a JSON request as the user publicID; an empty publicID sends no token.
func (e *Env) Do(t testing.TB, method, path, publicID, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if publicID != "" {
		req.Header.Set("Authorization", "Bearer "+e.tokens[publicID])
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	e.Engine.ServeHTTP(rec, req)
	return rec
}

type general[T any] struct {
	Status string `json:"status"`
	Result T      `json:"result"`
}

// Result decodes the result field of a GeneralResponse body.
func Result[T any](t testing.TB, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var body general[T]
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode %s: %v", rec.Body.String(), err)
	}
	return body.Result
}
