package booking

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"evmarket.io/marketplace-api/app/domain/common"
	"evmarket.io/marketplace-api/app/domain/listing"
	"evmarket.io/marketplace-api/app/domain/user"
	"evmarket.io/marketplace-api/app/infrastructure/cache"
)

var baseTime = time.Date(2030, 5, 1, 9, 0, 0, 0, time.UTC)

type fakeSlotRepo struct {
	mu   sync.Mutex
	rows map[string]Slot
}

func (r *fakeSlotRepo) Create(_ context.Context, s *Slot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s.ID = uint(len(r.rows) + 1)
	r.rows[s.PublicID] = *s
	return nil
}

func (r *fakeSlotRepo) Update(_ context.Context, s *Slot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[s.PublicID] = *s
	return nil
}

func (r *fakeSlotRepo) FindByPublicID(_ context.Context, publicID string) (*Slot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.rows[publicID]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &s, nil
}

func (r *fakeSlotRepo) FindByFilter(_ context.Context, filter SlotFilter) ([]*Slot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Slot
	for _, s := range r.rows {
		if filter.SellerID != nil && s.SellerID != *filter.SellerID {
			continue
		}
		if filter.ListingID != nil && s.ListingID != *filter.ListingID {
			continue
		}
		if filter.Active != nil && s.Active != *filter.Active {
			continue
		}
		if filter.EndsAfter != nil && !s.EndTime.After(*filter.EndsAfter) {
			continue
		}
		s := s
		out = append(out, &s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

type fakeBookingRepo struct {
	mu         sync.Mutex
	rows       map[string]Booking
	failUpdate string
}

func (r *fakeBookingRepo) Create(_ context.Context, b *Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b.ID = uint(len(r.rows) + 1)
	r.rows[b.PublicID] = *b
	return nil
}

func (r *fakeBookingRepo) Update(_ context.Context, b *Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b.PublicID == r.failUpdate {
		return errors.New("write failed")
	}
	r.rows[b.PublicID] = *b
	return nil
}

func (r *fakeBookingRepo) FindByPublicID(_ context.Context, publicID string) (*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.rows[publicID]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &b, nil
}

func (r *fakeBookingRepo) FindByFilter(_ context.Context, filter BookingFilter) ([]*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Booking
	for _, b := range r.rows {
		if filter.SlotID != nil && b.SlotID != *filter.SlotID {
			continue
		}
		if filter.UserID != nil && b.UserID != *filter.UserID {
			continue
		}
		if filter.Status != nil && b.Status != *filter.Status {
			continue
		}
		if filter.EndedBefore != nil && !b.EndTime.Before(*filter.EndedBefore) {
			continue
		}
		b := b
		out = append(out, &b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

type fakeListings map[string]*listing.Listing

func (f fakeListings) FindByID(_ context.Context, publicID string) (*listing.Listing, error) {
	l, ok := f[publicID]
	if !ok {
		return nil, common.ErrNotFound
	}
	return l, nil
}

var (
	seller = &user.User{PublicID: "usr_seller", Role: user.RoleSeller}
	alice  = &user.User{PublicID: "usr_alice", Role: user.RoleBuyer}
	bob    = &user.User{PublicID: "usr_bob", Role: user.RoleBuyer}
	admin  = &user.User{PublicID: "usr_admin", Role: user.RoleAdmin}
)

type fixture struct {
	svc      *BookingService
	slots    *fakeSlotRepo
	bookings *fakeBookingRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store, err := cache.NewMemoryStore(cache.DefaultMemoryStoreConfig())
	if err != nil {
		t.Fatal(err)
	}
	f := &fixture{
		slots:    &fakeSlotRepo{rows: map[string]Slot{}},
		bookings: &fakeBookingRepo{rows: map[string]Booking{}},
	}
	listings := fakeListings{"lst_1": {PublicID: "lst_1", SellerID: seller.PublicID, Status: listing.StatusActive}}
	f.svc = NewService(f.slots, f.bookings, cache.NewCacheService(cache.Options{Store: store}), cache.NewLocalLocker(), listings, nil)
	f.svc.now = func() time.Time { return baseTime }
	return f
}

func (f *fixture) slot(t *testing.T, startHour, endHour int, capacity int) *Slot {
	t.Helper()
	s, err := f.svc.CreateSlot(context.Background(), seller, SlotInput{
		ListingID:   "lst_1",
		StartTime:   baseTime.Add(time.Duration(startHour) * time.Hour),
		EndTime:     baseTime.Add(time.Duration(endHour) * time.Hour),
		MaxBookings: capacity,
	})
	if err != nil {
		t.Fatalf("CreateSlot: %v", err)
	}
	return s
}

func at(hours float64) time.Time {
	return baseTime.Add(time.Duration(hours * float64(time.Hour)))
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name           string
		s1, e1, s2, e2 float64
		want           bool
	}{
		{"disjoint", 1, 2, 3, 4, false},
		{"touching", 1, 2, 2, 3, false},
		{"partial", 1, 3, 2, 4, true},
		{"contained", 1, 4, 2, 3, true},
		{"identical", 1, 2, 1, 2, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(at(tt.s1), at(tt.e1), at(tt.s2), at(tt.e2)); got != tt.want {
				t.Errorf("Overlaps = %v, want %v", got, tt.want)
			}
			if got := Overlaps(at(tt.s2), at(tt.e2), at(tt.s1), at(tt.e1)); got != tt.want {
				t.Errorf("Overlaps is not symmetric")
			}
		})
	}
}

func TestCreateSlotRejectsOverlapAndPast(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.slot(t, 1, 3, 1)

	_, err := f.svc.CreateSlot(ctx, seller, SlotInput{ListingID: "lst_1", StartTime: at(2), EndTime: at(4)})
	if !errors.Is(err, common.ErrConflict) {
		t.Errorf("overlap err = %v, want conflict", err)
	}
	_, err = f.svc.CreateSlot(ctx, seller, SlotInput{ListingID: "lst_1", StartTime: at(-2), EndTime: at(-1)})
	if !errors.Is(err, common.ErrInvalidArgument) {
		t.Errorf("past err = %v, want invalid argument", err)
	}
	_, err = f.svc.CreateSlot(ctx, alice, SlotInput{ListingID: "lst_1", StartTime: at(5), EndTime: at(6)})
	if !errors.Is(err, common.ErrForbidden) {
		t.Errorf("non-owner err = %v, want forbidden", err)
	}
	adjacent, err := f.svc.CreateSlot(ctx, seller, SlotInput{ListingID: "lst_1", StartTime: at(3), EndTime: at(4)})
	if err != nil {
		t.Fatalf("adjacent slot: %v", err)
	}
	if adjacent.MaxBookings != 1 {
		t.Errorf("MaxBookings = %d, want default 1", adjacent.MaxBookings)
	}
}

func TestCreateBookingCapacity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.slot(t, 1, 3, 1)

	if _, err := f.svc.CreateBooking(ctx, alice, BookingInput{SlotID: s.PublicID, StartTime: at(1), EndTime: at(2)}); err != nil {
		t.Fatal(err)
	}
	_, err := f.svc.CreateBooking(ctx, bob, BookingInput{SlotID: s.PublicID, StartTime: at(1.5), EndTime: at(2.5)})
	if !errors.Is(err, common.ErrConflict) {
		t.Errorf("overbooking err = %v, want conflict", err)
	}
	if _, err := f.svc.CreateBooking(ctx, bob, BookingInput{SlotID: s.PublicID, StartTime: at(2), EndTime: at(3)}); err != nil {
		t.Errorf("back-to-back booking: %v", err)
	}
}

func TestCreateBookingRejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.slot(t, 1, 3, 2)
	other := f.slot(t, 5, 7, 2)
	if _, err := f.svc.CreateBooking(ctx, alice, BookingInput{SlotID: s.PublicID, StartTime: at(1), EndTime: at(2)}); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		actor *user.User
		input BookingInput
		want  error
	}{
		{"outside slot", bob, BookingInput{SlotID: s.PublicID, StartTime: at(2), EndTime: at(4)}, common.ErrInvalidArgument},
		{"empty interval", bob, BookingInput{SlotID: s.PublicID, StartTime: at(2), EndTime: at(2)}, common.ErrInvalidArgument},
		{"own slot", seller, BookingInput{SlotID: s.PublicID, StartTime: at(2), EndTime: at(3)}, common.ErrInvalidArgument},
		{"same user twice", alice, BookingInput{SlotID: s.PublicID, StartTime: at(1.5), EndTime: at(2.5)}, common.ErrConflict},
		{"missing slot", bob, BookingInput{SlotID: "slt_missing", StartTime: at(1), EndTime: at(2)}, common.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.svc.CreateBooking(ctx, tt.actor, tt.input); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}

	if err := f.svc.DeleteSlot(ctx, seller, other.PublicID); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.CreateBooking(ctx, bob, BookingInput{SlotID: other.PublicID, StartTime: at(5), EndTime: at(6)}); !errors.Is(err, common.ErrConflict) {
		t.Errorf("inactive slot err = %v, want conflict", err)
	}
}

func TestConcurrentBookingsNeverExceedCapacity(t *testing.T) {
	f := newFixture(t)
	s := f.slot(t, 1, 2, 2)

	const attempts = 10
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			actor := &user.User{PublicID: "usr_" + string(rune('a'+i)), Role: user.RoleBuyer}
			_, err := f.svc.CreateBooking(context.Background(), actor, BookingInput{SlotID: s.PublicID, StartTime: at(1), EndTime: at(2)})
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			} else if !errors.Is(err, common.ErrConflict) {
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()
	if succeeded != 2 {
		t.Errorf("%d bookings succeeded, want 2", succeeded)
	}
}

func TestBookingTransitions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.slot(t, 1, 3, 3)
	b, err := f.svc.CreateBooking(ctx, alice, BookingInput{SlotID: s.PublicID, StartTime: at(1), EndTime: at(2)})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := f.svc.CancelBooking(ctx, bob, b.PublicID); !errors.Is(err, common.ErrForbidden) {
		t.Errorf("stranger cancel err = %v", err)
	}
	if _, err := f.svc.MarkBookingAsCompleted(ctx, alice, b.PublicID); !errors.Is(err, common.ErrForbidden) {
		t.Errorf("buyer complete err = %v", err)
	}
	done, err := f.svc.MarkBookingAsCompleted(ctx, seller, b.PublicID)
	if err != nil {
		t.Fatal(err)
	}
	if done.Status != StatusCompleted {
		t.Errorf("status = %s", done.Status)
	}
	if _, err := f.svc.CancelBooking(ctx, admin, b.PublicID); !errors.Is(err, common.ErrInvalidTransition) {
		t.Errorf("cancel after complete err = %v", err)
	}
}

func TestCancelledBookingFreesCapacity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.slot(t, 1, 2, 1)
	b, err := f.svc.CreateBooking(ctx, alice, BookingInput{SlotID: s.PublicID, StartTime: at(1), EndTime: at(2)})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.CancelBooking(ctx, alice, b.PublicID); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.CreateBooking(ctx, bob, BookingInput{SlotID: s.PublicID, StartTime: at(1), EndTime: at(2)}); err != nil {
		t.Errorf("booking after cancel: %v", err)
	}
}

func TestCompletePastBookings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.slot(t, 1, 4, 3)
	early, err := f.svc.CreateBooking(ctx, alice, BookingInput{SlotID: s.PublicID, StartTime: at(1), EndTime: at(2)})
	if err != nil {
		t.Fatal(err)
	}
	late, err := f.svc.CreateBooking(ctx, bob, BookingInput{SlotID: s.PublicID, StartTime: at(3), EndTime: at(4)})
	if err != nil {
		t.Fatal(err)
	}

	before, err := f.svc.FindBookingsByUser(ctx, alice.PublicID)
	if err != nil {
		t.Fatal(err)
	}
	if len(before) != 1 || before[0].Status != StatusBooked {
		t.Fatalf("before = %+v", before)
	}

	n, err := f.svc.CompletePastBookings(ctx, at(2.5))
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("completed %d, want 1", n)
	}
	after, err := f.svc.FindBookingsByUser(ctx, alice.PublicID)
	if err != nil {
		t.Fatal(err)
	}
	if len(after) != 1 || after[0].Status != StatusCompleted || after[0].PublicID != early.PublicID {
		t.Errorf("after = %+v", after)
	}
	stillBooked, err := f.svc.GetBooking(ctx, bob, late.PublicID)
	if err != nil {
		t.Fatal(err)
	}
	if stillBooked.Status != StatusBooked {
		t.Errorf("late booking status = %s", stillBooked.Status)
	}
}

func TestCompletePastBookingsInvalidatesPartialSweep(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.slot(t, 1, 4, 3)
	early, err := f.svc.CreateBooking(ctx, alice, BookingInput{SlotID: s.PublicID, StartTime: at(1), EndTime: at(2)})
	if err != nil {
		t.Fatal(err)
	}
	stuck, err := f.svc.CreateBooking(ctx, bob, BookingInput{SlotID: s.PublicID, StartTime: at(2), EndTime: at(3)})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.FindBookingsByUser(ctx, alice.PublicID); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.GetBooking(ctx, alice, early.PublicID); err != nil {
		t.Fatal(err)
	}

	f.bookings.failUpdate = stuck.PublicID
	n, err := f.svc.CompletePastBookings(ctx, at(3.5))
	if err == nil {
		t.Fatal("expected the failed update to be reported")
	}
	if n != 1 {
		t.Errorf("completed %d, want 1", n)
	}

	mine, err := f.svc.FindBookingsByUser(ctx, alice.PublicID)
	if err != nil {
		t.Fatal(err)
	}
	if len(mine) != 1 || mine[0].Status != StatusCompleted {
		t.Errorf("cached user view = %+v, want completed", mine)
	}
	one, err := f.svc.GetBooking(ctx, alice, early.PublicID)
	if err != nil {
		t.Fatal(err)
	}
	if one.Status != StatusCompleted {
		t.Errorf("cached booking status = %s, want completed", one.Status)
	}
}

func TestFindActiveSlotsSkipsInactive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	keep := f.slot(t, 1, 2, 1)
	drop := f.slot(t, 3, 4, 1)
	if err := f.svc.DeleteSlot(ctx, seller, drop.PublicID); err != nil {
		t.Fatal(err)
	}
	slots, err := f.svc.FindActiveSlots(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(slots) != 1 || slots[0].PublicID != keep.PublicID {
		t.Errorf("active slots = %+v", slots)
	}
}
