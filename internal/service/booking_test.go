package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/SHOB1KK/ResNet/internal/model"
	"github.com/SHOB1KK/ResNet/internal/repository"
)

// fakeTables is an in-memory TableDirectory.
type fakeTables struct {
	tables map[uint64]*model.Table
}

func (f *fakeTables) GetTable(_ context.Context, id uint64) (*model.Table, error) {
	t, ok := f.tables[id]
	if !ok {
		return nil, repository.ErrTableNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTables) ListTables(_ context.Context, restaurantID uint64) ([]model.Table, error) {
	var out []model.Table
	for _, t := range f.tables {
		if t.RestaurantID == restaurantID {
			out = append(out, *t)
		}
	}
	return out, nil
}

// fakeStore is an in-memory BookingStore enforcing the same invariants
// as the MySQL repository: unique codes and no overlapping active
// bookings per table.
type fakeStore struct {
	bookings map[uint64]*model.Booking
	nextID   uint64
}

func newFakeStore() *fakeStore {
	return &fakeStore{bookings: make(map[uint64]*model.Booking)}
}

func (f *fakeStore) overlapExists(tableID uint64, from, to time.Time, excludeID uint64) bool {
	for _, b := range f.bookings {
		if b.TableID != tableID || b.Status == model.BookingStatusCancelled || b.ID == excludeID {
			continue
		}
		if b.BookingFrom.Before(to) && b.BookingTo.After(from) {
			return true
		}
	}
	return false
}

func (f *fakeStore) Insert(_ context.Context, b *model.Booking) error {
	for _, x := range f.bookings {
		if x.BookingCode == b.BookingCode {
			return repository.ErrDuplicateCode
		}
	}
	if f.overlapExists(b.TableID, b.BookingFrom, b.BookingTo, 0) {
		return repository.ErrOverlap
	}
	f.nextID++
	b.ID = f.nextID
	cp := *b
	f.bookings[b.ID] = &cp
	return nil
}

func (f *fakeStore) FindByID(_ context.Context, id uint64) (*model.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, repository.ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeStore) FindByCodeAndPhone(_ context.Context, code, phone string) (*model.Booking, error) {
	for _, b := range f.bookings {
		if b.BookingCode == code && b.PhoneNumber == phone {
			cp := *b
			return &cp, nil
		}
	}
	return nil, repository.ErrBookingNotFound
}

func (f *fakeStore) FindOverlapping(_ context.Context, tableID uint64, from, to time.Time, excludeID uint64) ([]model.Booking, error) {
	var out []model.Booking
	for _, b := range f.bookings {
		if b.TableID != tableID || b.Status == model.BookingStatusCancelled || (excludeID != 0 && b.ID == excludeID) {
			continue
		}
		if b.BookingFrom.Before(to) && b.BookingTo.After(from) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeStore) Update(_ context.Context, b *model.Booking) error {
	stored, ok := f.bookings[b.ID]
	if !ok {
		return repository.ErrBookingNotFound
	}
	// the stored status decides, not the caller's copy
	if stored.Status == model.BookingStatusCancelled {
		return repository.ErrBookingCancelled
	}
	if b.Status != model.BookingStatusCancelled &&
		f.overlapExists(b.TableID, b.BookingFrom, b.BookingTo, b.ID) {
		return repository.ErrOverlap
	}
	cp := *b
	f.bookings[b.ID] = &cp
	return nil
}

func (f *fakeStore) UpdateStatus(_ context.Context, id uint64, status string) error {
	b, ok := f.bookings[id]
	if !ok {
		return repository.ErrBookingNotFound
	}
	if b.Status == model.BookingStatusCancelled {
		return repository.ErrBookingCancelled
	}
	b.Status = status
	return nil
}

func (f *fakeStore) Delete(_ context.Context, id uint64) error {
	if _, ok := f.bookings[id]; !ok {
		return repository.ErrBookingNotFound
	}
	delete(f.bookings, id)
	return nil
}

func (f *fakeStore) ExistsByCode(_ context.Context, code string) (bool, error) {
	for _, b := range f.bookings {
		if b.BookingCode == code {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) BookedTableIDs(_ context.Context, restaurantID uint64, from, to time.Time) ([]uint64, error) {
	// restaurant membership is resolved by the caller's fixture; the
	// fake treats every booking as belonging to the one restaurant.
	var out []uint64
	for _, b := range f.bookings {
		if b.Status == model.BookingStatusCancelled {
			continue
		}
		if b.BookingFrom.Before(to) && b.BookingTo.After(from) {
			out = append(out, b.TableID)
		}
	}
	return out, nil
}

func (f *fakeStore) ListByTable(_ context.Context, tableID uint64) ([]model.Booking, error) {
	var out []model.Booking
	for _, b := range f.bookings {
		if b.TableID == tableID {
			out = append(out, *b)
		}
	}
	return out, nil
}

// testTables is the shared fixture: one restaurant holding table 1
// (4 seats) and table 2 (2 seats).
func testTables() *fakeTables {
	return &fakeTables{tables: map[uint64]*model.Table{
		1: {ID: 1, RestaurantID: 1, Seats: 4, Status: model.TableStatusAvailable},
		2: {ID: 2, RestaurantID: 1, Seats: 2, Status: model.TableStatusAvailable},
	}}
}

// newTestService wires the engine onto in-memory fakes.
func newTestService(t *testing.T) (*BookingService, *fakeStore) {
	t.Helper()
	store := newFakeStore()
	svc := NewBookingService(testTables(), store, NewCodeGenerator(1), zap.NewNop(), nil)
	return svc, store
}

// futureAt returns a stable future instant offset by the given hours.
func futureAt(hours int) time.Time {
	base := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Hour)
	return base.Add(time.Duration(hours) * time.Hour)
}

func createInput(tableID uint64, fromHour, toHour int) CreateBookingInput {
	return CreateBookingInput{
		TableID:     tableID,
		FullName:    "Alice Smith",
		PhoneNumber: "+15550100",
		BookingFrom: futureAt(fromHour),
		BookingTo:   futureAt(toHour),
		Guests:      2,
	}
}

func mustCreate(t *testing.T, svc *BookingService, in CreateBookingInput) *model.Booking {
	t.Helper()
	b, err := svc.CreateBooking(context.Background(), in)
	if err != nil {
		t.Fatalf("CreateBooking failed: %v", err)
	}
	return b
}

func TestCreateBooking_Success(t *testing.T) {
	svc, store := newTestService(t)
	b := mustCreate(t, svc, createInput(1, 10, 12))
	if b.Status != model.BookingStatusPending {
		t.Fatalf("expected status Pending, got %q", b.Status)
	}
	if len(b.BookingCode) != CodeLength {
		t.Fatalf("expected %d-character code, got %q", CodeLength, b.BookingCode)
	}
	if b.ID == 0 {
		t.Fatalf("expected assigned id")
	}
	if _, err := store.FindByID(context.Background(), b.ID); err != nil {
		t.Fatalf("booking not persisted: %v", err)
	}
}

func TestCreateBooking_OverlapRejected(t *testing.T) {
	svc, _ := newTestService(t)
	mustCreate(t, svc, createInput(1, 10, 12))
	_, err := svc.CreateBooking(context.Background(), createInput(1, 11, 13))
	if KindOf(err) != KindConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
	if err.Error() != "Table is already booked for the selected time range" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestCreateBooking_TouchingWindowsAllowed(t *testing.T) {
	svc, _ := newTestService(t)
	mustCreate(t, svc, createInput(1, 10, 12))
	// a window starting exactly where the previous one ends is free
	mustCreate(t, svc, createInput(1, 12, 14))
}

func TestCreateBooking_OtherTableUnaffected(t *testing.T) {
	svc, _ := newTestService(t)
	mustCreate(t, svc, createInput(1, 10, 12))
	mustCreate(t, svc, createInput(2, 10, 12))
}

func TestCreateBooking_CancelledDoesNotBlock(t *testing.T) {
	svc, _ := newTestService(t)
	b := mustCreate(t, svc, createInput(1, 10, 12))
	if _, err := svc.CancelBooking(context.Background(), b.ID); err != nil {
		t.Fatalf("CancelBooking failed: %v", err)
	}
	mustCreate(t, svc, createInput(1, 10, 12))
}

func TestCreateBooking_GuestsBoundedBySeats(t *testing.T) {
	svc, _ := newTestService(t)

	in := createInput(1, 10, 12)
	in.Guests = 4 // table 1 seats exactly 4
	mustCreate(t, svc, in)

	in = createInput(1, 14, 16)
	in.Guests = 5
	_, err := svc.CreateBooking(context.Background(), in)
	if KindOf(err) != KindInvalidArgument {
		t.Fatalf("expected invalid argument for too many guests, got %v", err)
	}
	if err.Error() != "Guests number must be between 1 and 4" {
		t.Fatalf("unexpected message %q", err.Error())
	}

	in.Guests = 0
	if _, err := svc.CreateBooking(context.Background(), in); KindOf(err) != KindInvalidArgument {
		t.Fatalf("expected invalid argument for zero guests, got %v", err)
	}
}

func TestCreateBooking_WindowValidation(t *testing.T) {
	svc, _ := newTestService(t)

	in := createInput(1, 10, 12)
	in.BookingFrom = time.Now().UTC().Add(-time.Hour)
	in.BookingTo = in.BookingFrom.Add(2 * time.Hour)
	_, err := svc.CreateBooking(context.Background(), in)
	if KindOf(err) != KindInvalidArgument || err.Error() != "Booking time must be in the future" {
		t.Fatalf("expected past-start rejection, got %v", err)
	}

	in = createInput(1, 12, 10)
	if _, err := svc.CreateBooking(context.Background(), in); KindOf(err) != KindInvalidArgument {
		t.Fatalf("expected rejection when end precedes start, got %v", err)
	}
}

func TestCreateBooking_ContactRequired(t *testing.T) {
	svc, _ := newTestService(t)
	in := createInput(1, 10, 12)
	in.FullName = "   "
	if _, err := svc.CreateBooking(context.Background(), in); KindOf(err) != KindInvalidArgument {
		t.Fatalf("expected rejection for blank name, got %v", err)
	}
	in = createInput(1, 10, 12)
	in.PhoneNumber = ""
	if _, err := svc.CreateBooking(context.Background(), in); KindOf(err) != KindInvalidArgument {
		t.Fatalf("expected rejection for blank phone, got %v", err)
	}
}

func TestCreateBooking_UnknownTable(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.CreateBooking(context.Background(), createInput(99, 10, 12))
	if KindOf(err) != KindNotFound {
		t.Fatalf("expected not found for unknown table, got %v", err)
	}
}

func TestCreateBooking_CodeCollisionRegenerates(t *testing.T) {
	svc, store := newTestService(t)
	// Occupy the exact code a fresh seed-1 generator draws first, on a
	// window far from the new booking so only the code collides.
	taken := NewCodeGenerator(1).next()
	occupied := createInput(2, 20, 22)
	seed := &model.Booking{
		TableID:     occupied.TableID,
		FullName:    occupied.FullName,
		PhoneNumber: occupied.PhoneNumber,
		BookingFrom: occupied.BookingFrom,
		BookingTo:   occupied.BookingTo,
		Guests:      occupied.Guests,
		Status:      model.BookingStatusPending,
		BookingCode: taken,
	}
	if err := store.Insert(context.Background(), seed); err != nil {
		t.Fatalf("seeding booking failed: %v", err)
	}

	b := mustCreate(t, svc, createInput(1, 10, 12))
	if b.BookingCode == taken {
		t.Fatalf("expected a regenerated code, got the taken one %q", b.BookingCode)
	}
	if len(b.BookingCode) != CodeLength {
		t.Fatalf("regenerated code has wrong length: %q", b.BookingCode)
	}
}

func TestGetBookingByCode_NormalizesCode(t *testing.T) {
	svc, _ := newTestService(t)
	b := mustCreate(t, svc, createInput(1, 10, 12))
	got, err := svc.GetBookingByCode(context.Background(), strings.ToLower(b.BookingCode), b.PhoneNumber)
	if err != nil {
		t.Fatalf("lookup with lower-cased code failed: %v", err)
	}
	if got.ID != b.ID {
		t.Fatalf("expected booking %d, got %d", b.ID, got.ID)
	}
}

func TestGetBookingByCode_WrongPhone(t *testing.T) {
	svc, _ := newTestService(t)
	b := mustCreate(t, svc, createInput(1, 10, 12))
	if _, err := svc.GetBookingByCode(context.Background(), b.BookingCode, "+15559999"); KindOf(err) != KindNotFound {
		t.Fatalf("expected not found for mismatched phone, got %v", err)
	}
}

func updateInput(b *model.Booking) UpdateBookingInput {
	return UpdateBookingInput{
		FullName:    b.FullName,
		PhoneNumber: b.PhoneNumber,
		BookingFrom: b.BookingFrom,
		BookingTo:   b.BookingTo,
		Guests:      b.Guests,
		Status:      b.Status,
	}
}

func TestUpdateBooking_KeepingSlotDoesNotConflictWithItself(t *testing.T) {
	svc, _ := newTestService(t)
	b := mustCreate(t, svc, createInput(1, 10, 12))
	in := updateInput(b)
	in.Guests = 3
	updated, err := svc.UpdateBooking(context.Background(), b.ID, in)
	if err != nil {
		t.Fatalf("update keeping the same window failed: %v", err)
	}
	if updated.Guests != 3 {
		t.Fatalf("expected guests updated to 3, got %d", updated.Guests)
	}
}

func TestUpdateBooking_MoveIntoOccupiedSlot(t *testing.T) {
	svc, _ := newTestService(t)
	mustCreate(t, svc, createInput(1, 10, 12))
	b := mustCreate(t, svc, createInput(1, 14, 16))
	in := updateInput(b)
	in.BookingFrom = futureAt(11)
	in.BookingTo = futureAt(13)
	if _, err := svc.UpdateBooking(context.Background(), b.ID, in); KindOf(err) != KindConflict {
		t.Fatalf("expected conflict moving into an occupied slot, got %v", err)
	}
}

func TestUpdateBooking_StatusTransitions(t *testing.T) {
	svc, _ := newTestService(t)
	b := mustCreate(t, svc, createInput(1, 10, 12))

	in := updateInput(b)
	in.Status = model.BookingStatusConfirmed
	confirmed, err := svc.UpdateBooking(context.Background(), b.ID, in)
	if err != nil {
		t.Fatalf("confirming a pending booking failed: %v", err)
	}
	if confirmed.Status != model.BookingStatusConfirmed {
		t.Fatalf("expected Confirmed, got %q", confirmed.Status)
	}

	// Confirmed cannot go back to Pending.
	in = updateInput(confirmed)
	in.Status = model.BookingStatusPending
	if _, err := svc.UpdateBooking(context.Background(), b.ID, in); KindOf(err) != KindInvalidState {
		t.Fatalf("expected invalid state reverting to Pending, got %v", err)
	}

	in = updateInput(confirmed)
	in.Status = "Eaten"
	if _, err := svc.UpdateBooking(context.Background(), b.ID, in); KindOf(err) != KindInvalidArgument {
		t.Fatalf("expected invalid argument for unknown status, got %v", err)
	}
}

func TestUpdateBooking_CancelledIsFrozen(t *testing.T) {
	svc, _ := newTestService(t)
	b := mustCreate(t, svc, createInput(1, 10, 12))
	if _, err := svc.CancelBooking(context.Background(), b.ID); err != nil {
		t.Fatalf("CancelBooking failed: %v", err)
	}
	in := updateInput(b)
	in.Guests = 3
	if _, err := svc.UpdateBooking(context.Background(), b.ID, in); KindOf(err) != KindInvalidState {
		t.Fatalf("expected invalid state updating a cancelled booking, got %v", err)
	}
}

// staleReadStore hands out active copies from FindByID even after the
// stored row was cancelled, simulating a cancel that lands between the
// engine's read and its write.
type staleReadStore struct {
	*fakeStore
}

func (s *staleReadStore) FindByID(ctx context.Context, id uint64) (*model.Booking, error) {
	b, err := s.fakeStore.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	b.Status = model.BookingStatusPending
	return b, nil
}

func TestUpdateBooking_ConcurrentCancelNotOverwritten(t *testing.T) {
	store := newFakeStore()
	svc := NewBookingService(testTables(), &staleReadStore{store}, NewCodeGenerator(1), zap.NewNop(), nil)
	b := mustCreate(t, svc, createInput(1, 10, 12))

	// the cancel lands after the update's read of the booking
	store.bookings[b.ID].Status = model.BookingStatusCancelled

	in := updateInput(b)
	in.Guests = 3
	_, err := svc.UpdateBooking(context.Background(), b.ID, in)
	if KindOf(err) != KindInvalidState {
		t.Fatalf("expected invalid state when the write races a cancel, got %v", err)
	}
	if got := store.bookings[b.ID].Status; got != model.BookingStatusCancelled {
		t.Fatalf("cancelled booking was resurrected, stored status %q", got)
	}
}

func TestCancelBooking_ConcurrentCancelLoserRejected(t *testing.T) {
	store := newFakeStore()
	svc := NewBookingService(testTables(), &staleReadStore{store}, NewCodeGenerator(1), zap.NewNop(), nil)
	b := mustCreate(t, svc, createInput(1, 10, 12))

	// the other cancel wins between our read and our write
	store.bookings[b.ID].Status = model.BookingStatusCancelled

	_, err := svc.CancelBooking(context.Background(), b.ID)
	if KindOf(err) != KindInvalidState || err.Error() != "Booking is already cancelled" {
		t.Fatalf("expected already-cancelled rejection for the losing cancel, got %v", err)
	}
	if got := store.bookings[b.ID].Status; got != model.BookingStatusCancelled {
		t.Fatalf("stored status changed to %q", got)
	}
}

func TestCancelBooking_DoubleCancelRejected(t *testing.T) {
	svc, _ := newTestService(t)
	b := mustCreate(t, svc, createInput(1, 10, 12))
	cancelled, err := svc.CancelBooking(context.Background(), b.ID)
	if err != nil {
		t.Fatalf("first cancel failed: %v", err)
	}
	if cancelled.Status != model.BookingStatusCancelled {
		t.Fatalf("expected Cancelled, got %q", cancelled.Status)
	}
	_, err = svc.CancelBooking(context.Background(), b.ID)
	if KindOf(err) != KindInvalidState || err.Error() != "Booking is already cancelled" {
		t.Fatalf("expected already-cancelled rejection, got %v", err)
	}
}

func TestCancelBookingByCode(t *testing.T) {
	svc, _ := newTestService(t)
	b := mustCreate(t, svc, createInput(1, 10, 12))
	cancelled, err := svc.CancelBookingByCode(context.Background(), b.BookingCode, b.PhoneNumber)
	if err != nil {
		t.Fatalf("cancel by code failed: %v", err)
	}
	if cancelled.Status != model.BookingStatusCancelled {
		t.Fatalf("expected Cancelled, got %q", cancelled.Status)
	}
	if _, err := svc.CancelBookingByCode(context.Background(), b.BookingCode, "+15559999"); KindOf(err) != KindNotFound {
		t.Fatalf("expected not found for wrong phone, got %v", err)
	}
}

func TestDeleteBooking_AnyStatus(t *testing.T) {
	svc, store := newTestService(t)
	b := mustCreate(t, svc, createInput(1, 10, 12))
	if _, err := svc.CancelBooking(context.Background(), b.ID); err != nil {
		t.Fatalf("CancelBooking failed: %v", err)
	}
	if err := svc.DeleteBooking(context.Background(), b.ID); err != nil {
		t.Fatalf("deleting a cancelled booking failed: %v", err)
	}
	if _, err := store.FindByID(context.Background(), b.ID); !errors.Is(err, repository.ErrBookingNotFound) {
		t.Fatalf("expected booking gone, got %v", err)
	}
	if err := svc.DeleteBooking(context.Background(), b.ID); KindOf(err) != KindNotFound {
		t.Fatalf("expected not found deleting twice, got %v", err)
	}
}

func TestIsTableAvailable_DefaultDuration(t *testing.T) {
	svc, _ := newTestService(t)
	mustCreate(t, svc, createInput(1, 10, 12))

	// with the default two-hour window a start one hour before collides
	free, err := svc.IsTableAvailable(context.Background(), 1, futureAt(9), 0)
	if err != nil {
		t.Fatalf("IsTableAvailable failed: %v", err)
	}
	if free {
		t.Fatalf("expected table busy for a window overlapping the booking")
	}

	// starting exactly at the booking's end is free
	free, err = svc.IsTableAvailable(context.Background(), 1, futureAt(12), 0)
	if err != nil {
		t.Fatalf("IsTableAvailable failed: %v", err)
	}
	if !free {
		t.Fatalf("expected table free when the windows only touch")
	}
}

func TestAvailableTables(t *testing.T) {
	svc, _ := newTestService(t)
	mustCreate(t, svc, createInput(1, 10, 12))

	at := futureAt(10)
	free, err := svc.AvailableTables(context.Background(), 1, &at, 2*time.Hour)
	if err != nil {
		t.Fatalf("AvailableTables failed: %v", err)
	}
	if len(free) != 1 || free[0].ID != 2 {
		t.Fatalf("expected only table 2 free, got %+v", free)
	}

	// without a timestamp every table of the restaurant is returned
	all, err := svc.AvailableTables(context.Background(), 1, nil, 0)
	if err != nil {
		t.Fatalf("AvailableTables without at failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected both tables, got %+v", all)
	}
}
