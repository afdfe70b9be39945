package booking

import (
	"context"
	"fmt"
	"time"

	"evmarket.io/marketplace-api/app/domain/common"
	"evmarket.io/marketplace-api/app/domain/listing"
	"evmarket.io/marketplace-api/app/domain/notification"
	"evmarket.io/marketplace-api/app/domain/user"
	"evmarket.io/marketplace-api/app/infrastructure/cache"
	"evmarket.io/marketplace-api/app/utils/idgen"
	"evmarket.io/marketplace-api/app/utils/logger"
	"github.com/sirupsen/logrus"
)

const slotLockTTL = 10 * time.Second

// ListingReader resolves the listing a slot is offered for.
type ListingReader interface {
	FindByID(ctx context.Context, publicID string) (*listing.Listing, error)
}

type BookingService struct {
	slots    SlotRepository
	bookings BookingRepository
	cache    *cache.CacheService
	locker   cache.Locker
	listings ListingReader
	notifier notification.Notifier
	now      func() time.Time
}

func NewService(slots SlotRepository, bookings BookingRepository, cacheService *cache.CacheService, locker cache.Locker, listings ListingReader, notifier notification.Notifier) *BookingService {
	return &BookingService{
		slots:    slots,
		bookings: bookings,
		cache:    cacheService,
		locker:   locker,
		listings: listings,
		notifier: notifier,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

type SlotInput struct {
	ListingID   string
	StartTime   time.Time
	EndTime     time.Time
	MaxBookings int
}

func (s *BookingService) CreateSlot(ctx context.Context, seller *user.User, input SlotInput) (*Slot, error) {
	l, err := s.listings.FindByID(ctx, input.ListingID)
	if err != nil {
		return nil, err
	}
	if !seller.Can(l.SellerID) {
		return nil, fmt.Errorf("listing %s: %w", l.PublicID, common.ErrForbidden)
	}
	if input.MaxBookings <= 0 {
		input.MaxBookings = 1
	}
	now := s.now()
	slot := &Slot{
		SellerID:    l.SellerID,
		ListingID:   l.PublicID,
		StartTime:   input.StartTime.UTC(),
		EndTime:     input.EndTime.UTC(),
		MaxBookings: input.MaxBookings,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.validateSlot(ctx, slot); err != nil {
		return nil, err
	}
	publicID, err := idgen.GenerateSecureID(idgen.PrefixSlot, idgen.DefaultLength)
	if err != nil {
		return nil, err
	}
	slot.PublicID = publicID
	if err := s.slots.Create(ctx, slot); err != nil {
		return nil, fmt.Errorf("failed to create slot: %w", err)
	}
	if err := s.invalidateSlot(ctx, slot.PublicID); err != nil {
		return nil, err
	}
	return slot, nil
}

func (s *BookingService) UpdateSlot(ctx context.Context, actor *user.User, publicID string, input SlotInput) (*Slot, error) {
	slot, err := s.slots.FindByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}
	if !actor.Can(slot.SellerID) {
		return nil, fmt.Errorf("slot %s: %w", publicID, common.ErrForbidden)
	}
	if !input.StartTime.IsZero() {
		slot.StartTime = input.StartTime.UTC()
	}
	if !input.EndTime.IsZero() {
		slot.EndTime = input.EndTime.UTC()
	}
	if input.MaxBookings > 0 {
		slot.MaxBookings = input.MaxBookings
	}
	if err := s.validateSlot(ctx, slot); err != nil {
		return nil, err
	}
	slot.UpdatedAt = s.now()
	if err := s.slots.Update(ctx, slot); err != nil {
		return nil, fmt.Errorf("failed to update slot: %w", err)
	}
	if err := s.invalidateSlot(ctx, publicID); err != nil {
		return nil, err
	}
	return slot, nil
}

// DeleteSlot deactivates the slot. Existing bookings stay as they are.
func (s *BookingService) DeleteSlot(ctx context.Context, actor *user.User, publicID string) error {
	slot, err := s.slots.FindByPublicID(ctx, publicID)
	if err != nil {
		return err
	}
	if !actor.Can(slot.SellerID) {
		return fmt.Errorf("slot %s: %w", publicID, common.ErrForbidden)
	}
	if !slot.Active {
		return nil
	}
	slot.Active = false
	slot.UpdatedAt = s.now()
	if err := s.slots.Update(ctx, slot); err != nil {
		return fmt.Errorf("failed to deactivate slot: %w", err)
	}
	return s.invalidateSlot(ctx, publicID)
}

// validateSlot checks the interval and that no other active slot of the same
// seller and listing overlaps it. slot itself is skipped by public id.
func (s *BookingService) validateSlot(ctx context.Context, slot *Slot) error {
	if !slot.StartTime.Before(slot.EndTime) {
		return fmt.Errorf("slot must start before it ends: %w", common.ErrInvalidArgument)
	}
	if !slot.StartTime.After(s.now()) {
		return fmt.Errorf("slot must start in the future: %w", common.ErrInvalidArgument)
	}
	active := true
	others, err := s.slots.FindByFilter(ctx, SlotFilter{
		SellerID:  &slot.SellerID,
		ListingID: &slot.ListingID,
		Active:    &active,
	})
	if err != nil {
		return err
	}
	for _, other := range others {
		if other.PublicID == slot.PublicID {
			continue
		}
		if Overlaps(slot.StartTime, slot.EndTime, other.StartTime, other.EndTime) {
			return fmt.Errorf("slot overlaps %s: %w", other.PublicID, common.ErrConflict)
		}
	}
	return nil
}

func (s *BookingService) GetSlot(ctx context.Context, publicID string) (*Slot, error) {
	return cache.GetOrSet(ctx, s.cache, cache.Slots.One(publicID), cache.TTLDefault, func(ctx context.Context) (*Slot, error) {
		return s.slots.FindByPublicID(ctx, publicID)
	})
}

// FindActiveSlots lists active slots that have not ended yet.
func (s *BookingService) FindActiveSlots(ctx context.Context) ([]*Slot, error) {
	return cache.GetOrSet(ctx, s.cache, cache.Slots.Named("active"), cache.TTLShort, func(ctx context.Context) ([]*Slot, error) {
		active := true
		now := s.now()
		return s.findSlots(ctx, SlotFilter{Active: &active, EndsAfter: &now})
	})
}

func (s *BookingService) FindSlotsBySeller(ctx context.Context, sellerID string) ([]*Slot, error) {
	return cache.GetOrSet(ctx, s.cache, cache.Slots.By("seller", sellerID), cache.TTLDefault, func(ctx context.Context) ([]*Slot, error) {
		return s.findSlots(ctx, SlotFilter{SellerID: &sellerID})
	})
}

func (s *BookingService) findSlots(ctx context.Context, filter SlotFilter) ([]*Slot, error) {
	items, err := s.slots.FindByFilter(ctx, filter)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*Slot{}
	}
	return items, nil
}

type BookingInput struct {
	SlotID    string
	StartTime time.Time
	EndTime   time.Time
	Note      string
}

// CreateBooking reserves part of a slot. The capacity and overlap checks run
// under the slot lock so concurrent requests, possibly on other replicas,
// cannot overbook it.
func (s *BookingService) CreateBooking(ctx context.Context, actor *user.User, input BookingInput) (*Booking, error) {
	start, end := input.StartTime.UTC(), input.EndTime.UTC()
	if !start.Before(end) {
		return nil, fmt.Errorf("booking must start before it ends: %w", common.ErrInvalidArgument)
	}
	if !start.After(s.now()) {
		return nil, fmt.Errorf("booking must start in the future: %w", common.ErrInvalidArgument)
	}

	unlock, err := s.locker.Lock(ctx, cache.Slots.One(input.SlotID).String(), slotLockTTL)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := unlock(context.WithoutCancel(ctx)); err != nil {
			logger.GetLogger().WithFields(logrus.Fields{
				"error_code": "f2a7c9d1-4b3e-4c8a-9d6f-7e1b0a2c3d45",
				"slot_id":    input.SlotID,
			}).Warn(err)
		}
	}()

	slot, err := s.slots.FindByPublicID(ctx, input.SlotID)
	if err != nil {
		return nil, err
	}
	if !slot.Active {
		return nil, fmt.Errorf("slot %s is not active: %w", slot.PublicID, common.ErrConflict)
	}
	if !slot.Contains(start, end) {
		return nil, fmt.Errorf("booking must lie within slot %s: %w", slot.PublicID, common.ErrInvalidArgument)
	}
	if slot.SellerID == actor.PublicID {
		return nil, fmt.Errorf("cannot book your own slot: %w", common.ErrInvalidArgument)
	}

	booked := StatusBooked
	inSlot, err := s.bookings.FindByFilter(ctx, BookingFilter{SlotID: &slot.PublicID, Status: &booked})
	if err != nil {
		return nil, err
	}
	if countOverlapping(inSlot, start, end) >= slot.MaxBookings {
		return nil, fmt.Errorf("slot %s is fully booked: %w", slot.PublicID, common.ErrConflict)
	}
	mine, err := s.bookings.FindByFilter(ctx, BookingFilter{UserID: &actor.PublicID, Status: &booked})
	if err != nil {
		return nil, err
	}
	if countOverlapping(mine, start, end) > 0 {
		return nil, fmt.Errorf("you already have a booking at this time: %w", common.ErrConflict)
	}

	publicID, err := idgen.GenerateSecureID(idgen.PrefixBooking, idgen.DefaultLength)
	if err != nil {
		return nil, err
	}
	now := s.now()
	b := &Booking{
		PublicID:  publicID,
		SlotID:    slot.PublicID,
		UserID:    actor.PublicID,
		ListingID: slot.ListingID,
		StartTime: start,
		EndTime:   end,
		Status:    StatusBooked,
		Note:      input.Note,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.bookings.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}
	if err := s.invalidateBooking(ctx, b); err != nil {
		return nil, err
	}
	s.notify(ctx, slot.SellerID, "New test drive booking",
		fmt.Sprintf("Booking %s for listing %s at %s.", b.PublicID, b.ListingID, b.StartTime.Format(time.RFC3339)))
	return b, nil
}

func countOverlapping(bookings []*Booking, start, end time.Time) int {
	n := 0
	for _, b := range bookings {
		if Overlaps(start, end, b.StartTime, b.EndTime) {
			n++
		}
	}
	return n
}

func (s *BookingService) GetBooking(ctx context.Context, actor *user.User, publicID string) (*Booking, error) {
	b, err := cache.GetOrSet(ctx, s.cache, cache.Bookings.One(publicID), cache.TTLDefault, func(ctx context.Context) (*Booking, error) {
		return s.bookings.FindByPublicID(ctx, publicID)
	})
	if err != nil {
		return nil, err
	}
	if !actor.Can(b.UserID) {
		return nil, fmt.Errorf("booking %s: %w", publicID, common.ErrForbidden)
	}
	return b, nil
}

func (s *BookingService) CancelBooking(ctx context.Context, actor *user.User, publicID string) (*Booking, error) {
	b, err := s.bookings.FindByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}
	if !actor.Can(b.UserID) {
		return nil, fmt.Errorf("booking %s: %w", publicID, common.ErrForbidden)
	}
	return s.transition(ctx, b, StatusCancelled)
}

func (s *BookingService) MarkBookingAsCompleted(ctx context.Context, actor *user.User, publicID string) (*Booking, error) {
	b, err := s.bookings.FindByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() {
		slot, err := s.slots.FindByPublicID(ctx, b.SlotID)
		if err != nil {
			return nil, err
		}
		if slot.SellerID != actor.PublicID {
			return nil, fmt.Errorf("booking %s: %w", publicID, common.ErrForbidden)
		}
	}
	return s.transition(ctx, b, StatusCompleted)
}

func (s *BookingService) transition(ctx context.Context, b *Booking, next Status) (*Booking, error) {
	if b.Status != StatusBooked {
		return nil, fmt.Errorf("booking %s %s -> %s: %w", b.PublicID, b.Status, next, common.ErrInvalidTransition)
	}
	b.Status = next
	b.UpdatedAt = s.now()
	if err := s.bookings.Update(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to update booking: %w", err)
	}
	if err := s.invalidateBooking(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *BookingService) FindBookingsByUser(ctx context.Context, userID string) ([]*Booking, error) {
	return cache.GetOrSet(ctx, s.cache, cache.Bookings.By("user", userID), cache.TTLDefault, func(ctx context.Context) ([]*Booking, error) {
		return s.findBookings(ctx, BookingFilter{UserID: &userID})
	})
}

func (s *BookingService) FindBookingsBySlot(ctx context.Context, slotID string) ([]*Booking, error) {
	return cache.GetOrSet(ctx, s.cache, cache.Bookings.By("slot", slotID), cache.TTLDefault, func(ctx context.Context) ([]*Booking, error) {
		return s.findBookings(ctx, BookingFilter{SlotID: &slotID})
	})
}

func (s *BookingService) findBookings(ctx context.Context, filter BookingFilter) ([]*Booking, error) {
	items, err := s.bookings.FindByFilter(ctx, filter)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*Booking{}
	}
	return items, nil
}

// CompletePastBookings marks every booked booking that ended before now as
// completed and returns how many were changed.
func (s *BookingService) CompletePastBookings(ctx context.Context, now time.Time) (int, error) {
	booked := StatusBooked
	past, err := s.bookings.FindByFilter(ctx, BookingFilter{Status: &booked, EndedBefore: &now})
	if err != nil {
		return 0, err
	}
	if len(past) == 0 {
		return 0, nil
	}
	// Bookings completed before a failure are already written, so their
	// views are invalidated whether or not the sweep finishes.
	keys := make([]cache.Key, 0, 2*len(past))
	completed := 0
	var updateErr error
	for _, b := range past {
		b.Status = StatusCompleted
		b.UpdatedAt = now.UTC()
		if err := s.bookings.Update(ctx, b); err != nil {
			updateErr = fmt.Errorf("failed to complete booking %s: %w", b.PublicID, err)
			break
		}
		completed++
		keys = append(keys, cache.Bookings.One(b.PublicID), cache.Slots.One(b.SlotID))
	}
	if completed > 0 {
		if err := s.cache.Invalidate(ctx, keys, cache.Bookings.All()); err != nil && updateErr == nil {
			return completed, err
		}
	}
	return completed, updateErr
}

func (s *BookingService) notify(ctx context.Context, userID string, title string, message string) {
	if s.notifier == nil {
		return
	}
	_, err := s.notifier.Notify(ctx, notification.NotifyInput{
		UserID:  userID,
		Type:    notification.TypeBooking,
		Title:   title,
		Message: message,
	})
	if err != nil {
		logger.GetLogger().WithField("error_code", "1d8c3b5a-9e2f-4a7d-8b6c-4f0e2a1d3c57").
			Warnf("failed to notify %s about booking: %v", userID, err)
	}
}

func (s *BookingService) invalidateSlot(ctx context.Context, publicID string) error {
	return s.cache.Invalidate(ctx, []cache.Key{cache.Slots.One(publicID)}, cache.Slots.All())
}

func (s *BookingService) invalidateBooking(ctx context.Context, b *Booking) error {
	return s.cache.Invalidate(ctx,
		[]cache.Key{cache.Bookings.One(b.PublicID), cache.Slots.One(b.SlotID)},
		cache.Bookings.All(),
	)
}
