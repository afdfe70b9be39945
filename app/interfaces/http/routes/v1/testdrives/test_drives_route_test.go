package testdrives

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"evmarket.io/marketplace-api/app/domain/booking"
	"evmarket.io/marketplace-api/app/domain/user"
	"evmarket.io/marketplace-api/app/infrastructure/cache"
	"evmarket.io/marketplace-api/app/infrastructure/database/repository/bookingrepo"
	"evmarket.io/marketplace-api/app/interfaces/http/routetest"
)

type fixture struct {
	env  *routetest.Env
	base time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	env := routetest.New(t)
	env.AddUser(t, "usr_seller", user.RoleSeller)
	env.AddUser(t, "usr_other_seller", user.RoleSeller)
	env.AddUser(t, "usr_alice", user.RoleBuyer)
	env.AddUser(t, "usr_bob", user.RoleBuyer)
	env.AddListing(t, "lst_1", "usr_seller", "42000")

	bookings := booking.NewService(
		bookingrepo.NewSlotGormRepository(env.DB),
		bookingrepo.NewBookingGormRepository(env.DB),
		env.Cache, cache.NewLocalLocker(), env.Listings, nil,
	)
	NewTestDrivesRoute(env.Auth, bookings).RegisterRouter(env.Router)
	return &fixture{env: env, base: time.Now().UTC().Add(48 * time.Hour).Truncate(time.Hour)}
}

func (f *fixture) at(hours int) string {
	return f.base.Add(time.Duration(hours) * time.Hour).Format(time.RFC3339)
}

func (f *fixture) slot(t *testing.T, capacity int) *booking.Slot {
	t.Helper()
	body := fmt.Sprintf(`{"listing_id":"lst_1","start_time":%q,"end_time":%q,"max_bookings":%d}`, f.at(0), f.at(4), capacity)
	rec := f.env.Do(t, http.MethodPost, "/v1/test-drives/slots", "usr_seller", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create slot = %d %s", rec.Code, rec.Body)
	}
	return routetest.Result[*booking.Slot](t, rec)
}

func (f *fixture) book(t *testing.T, as, slotID string, from, to int) (*booking.Booking, int) {
	t.Helper()
	body := fmt.Sprintf(`{"slot_id":%q,"start_time":%q,"end_time":%q}`, slotID, f.at(from), f.at(to))
	rec := f.env.Do(t, http.MethodPost, "/v1/test-drives/bookings", as, body)
	if rec.Code != http.StatusCreated {
		return nil, rec.Code
	}
	return routetest.Result[*booking.Booking](t, rec), rec.Code
}

func TestSlotWritesNeedOwningSeller(t *testing.T) {
	f := newFixture(t)
	body := fmt.Sprintf(`{"listing_id":"lst_1","start_time":%q,"end_time":%q}`, f.at(0), f.at(2))

	for as, want := range map[string]int{
		"":                 http.StatusUnauthorized,
		"usr_alice":        http.StatusForbidden,
		"usr_other_seller": http.StatusForbidden,
	} {
		if rec := f.env.Do(t, http.MethodPost, "/v1/test-drives/slots", as, body); rec.Code != want {
			t.Errorf("create as %q = %d, want %d", as, rec.Code, want)
		}
	}

	s := f.slot(t, 1)
	if s.MaxBookings != 1 || !s.Active || s.SellerID != "usr_seller" {
		t.Errorf("slot = %+v", s)
	}
	overlap := fmt.Sprintf(`{"listing_id":"lst_1","start_time":%q,"end_time":%q}`, f.at(3), f.at(5))
	if rec := f.env.Do(t, http.MethodPost, "/v1/test-drives/slots", "usr_seller", overlap); rec.Code != http.StatusConflict {
		t.Errorf("overlapping slot = %d, want 409", rec.Code)
	}
	if rec := f.env.Do(t, http.MethodDelete, "/v1/test-drives/slots/"+s.PublicID, "usr_other_seller", ""); rec.Code != http.StatusForbidden {
		t.Errorf("foreign delete = %d", rec.Code)
	}
}

func TestPublicSlotReads(t *testing.T) {
	f := newFixture(t)
	s := f.slot(t, 2)

	rec := f.env.Do(t, http.MethodGet, "/v1/test-drives/slots", "", "")
	active := routetest.Result[[]*booking.Slot](t, rec)
	if rec.Code != http.StatusOK || len(active) != 1 || active[0].PublicID != s.PublicID {
		t.Errorf("active = %d %+v", rec.Code, active)
	}
	if rec := f.env.Do(t, http.MethodGet, "/v1/test-drives/slots/"+s.PublicID, "", ""); rec.Code != http.StatusOK {
		t.Errorf("get slot = %d", rec.Code)
	}
	if rec := f.env.Do(t, http.MethodGet, "/v1/test-drives/slots/slot_missing", "", ""); rec.Code != http.StatusNotFound {
		t.Errorf("missing slot = %d", rec.Code)
	}
	rec = f.env.Do(t, http.MethodGet, "/v1/test-drives/slots/seller/usr_seller", "", "")
	if mine := routetest.Result[[]*booking.Slot](t, rec); len(mine) != 1 {
		t.Errorf("seller slots = %+v", mine)
	}
}

func TestBookingCapacityAndValidation(t *testing.T) {
	f := newFixture(t)
	s := f.slot(t, 1)

	first, code := f.book(t, "usr_alice", s.PublicID, 1, 2)
	if code != http.StatusCreated || first.Status != booking.StatusBooked {
		t.Fatalf("first booking = %d %+v", code, first)
	}

	tests := []struct {
		name     string
		as       string
		from, to int
		want     int
	}{
		{"slot full", "usr_bob", 1, 2, http.StatusConflict},
		{"outside slot", "usr_bob", 3, 5, http.StatusBadRequest},
		{"own slot", "usr_seller", 2, 3, http.StatusBadRequest},
		{"ends before start", "usr_bob", 3, 2, http.StatusBadRequest},
		{"anonymous", "", 2, 3, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		if _, code := f.book(t, tt.as, s.PublicID, tt.from, tt.to); code != tt.want {
			t.Errorf("%s = %d, want %d", tt.name, code, tt.want)
		}
	}
	if rec := f.env.Do(t, http.MethodPost, "/v1/test-drives/bookings", "usr_bob", `{"start_time":"`+f.at(1)+`"}`); rec.Code != http.StatusBadRequest {
		t.Errorf("missing fields = %d", rec.Code)
	}

	if _, code := f.book(t, "usr_bob", s.PublicID, 2, 3); code != http.StatusCreated {
		t.Errorf("non-overlapping booking = %d", code)
	}
}

func TestBookingLifecycle(t *testing.T) {
	f := newFixture(t)
	s := f.slot(t, 1)
	b, code := f.book(t, "usr_alice", s.PublicID, 1, 2)
	if code != http.StatusCreated {
		t.Fatalf("book = %d", code)
	}
	path := "/v1/test-drives/bookings/" + b.PublicID

	if rec := f.env.Do(t, http.MethodGet, path, "usr_bob", ""); rec.Code != http.StatusForbidden {
		t.Errorf("stranger GET = %d", rec.Code)
	}
	rec := f.env.Do(t, http.MethodGet, "/v1/test-drives/bookings/me", "usr_alice", "")
	if mine := routetest.Result[[]*booking.Booking](t, rec); len(mine) != 1 {
		t.Errorf("my bookings = %+v", mine)
	}
	rec = f.env.Do(t, http.MethodGet, "/v1/test-drives/slots/"+s.PublicID+"/bookings", "usr_seller", "")
	if inSlot := routetest.Result[[]*booking.Booking](t, rec); rec.Code != http.StatusOK || len(inSlot) != 1 {
		t.Errorf("slot bookings = %d %+v", rec.Code, inSlot)
	}
	if rec := f.env.Do(t, http.MethodGet, "/v1/test-drives/slots/"+s.PublicID+"/bookings", "usr_other_seller", ""); rec.Code != http.StatusForbidden {
		t.Errorf("foreign slot bookings = %d", rec.Code)
	}

	if rec := f.env.Do(t, http.MethodPost, path+"/cancel", "usr_bob", ""); rec.Code != http.StatusForbidden {
		t.Errorf("stranger cancel = %d", rec.Code)
	}
	rec = f.env.Do(t, http.MethodPost, path+"/cancel", "usr_alice", "")
	if got := routetest.Result[*booking.Booking](t, rec); rec.Code != http.StatusOK || got.Status != booking.StatusCancelled {
		t.Fatalf("cancel = %d %+v", rec.Code, got)
	}
	if rec := f.env.Do(t, http.MethodPost, path+"/complete", "usr_seller", ""); rec.Code != http.StatusConflict {
		t.Errorf("complete cancelled = %d, want 409", rec.Code)
	}

	// The cancelled booking no longer holds the capacity.
	if _, code := f.book(t, "usr_bob", s.PublicID, 1, 2); code != http.StatusCreated {
		t.Errorf("rebook freed capacity = %d", code)
	}
}
