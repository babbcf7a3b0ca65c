package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/SHOB1KK/ResNet/internal/metrics"
	"github.com/SHOB1KK/ResNet/internal/model"
	"github.com/SHOB1KK/ResNet/internal/repository"
)

// DefaultBookingDuration is the window assumed by availability queries
// when the caller supplies no duration.  Reservation creation always
// requires an explicit end time; the default applies to availability
// checks only.
const DefaultBookingDuration = 2 * time.Hour

// TableDirectory is the read-only view of tables the engine needs:
// capacity and restaurant membership.
type TableDirectory interface {
	GetTable(ctx context.Context, id uint64) (*model.Table, error)
	ListTables(ctx context.Context, restaurantID uint64) ([]model.Table, error)
}

// BookingStore persists bookings.  Insert and Update enforce the
// non-overlap invariant at the storage layer and report a lost race as
// repository.ErrOverlap; Insert reports a code collision as
// repository.ErrDuplicateCode.  Update and UpdateStatus check the
// row's live status at write time and refuse to touch a cancelled
// booking with repository.ErrBookingCancelled, so the engine's own
// status pre-checks are fast paths, not the enforcement point.
type BookingStore interface {
	Insert(ctx context.Context, b *model.Booking) error
	FindByID(ctx context.Context, id uint64) (*model.Booking, error)
	FindByCodeAndPhone(ctx context.Context, code, phone string) (*model.Booking, error)
	FindOverlapping(ctx context.Context, tableID uint64, from, to time.Time, excludeID uint64) ([]model.Booking, error)
	Update(ctx context.Context, b *model.Booking) error
	UpdateStatus(ctx context.Context, id uint64, status string) error
	Delete(ctx context.Context, id uint64) error
	ExistsByCode(ctx context.Context, code string) (bool, error)
	BookedTableIDs(ctx context.Context, restaurantID uint64, from, to time.Time) ([]uint64, error)
	ListByTable(ctx context.Context, tableID uint64) ([]model.Booking, error)
}

// BookingService orchestrates the reservation lifecycle: validation,
// overlap checking, code generation and persistence.  It is safe for
// concurrent use; the storage layer serializes writers per table.
type BookingService struct {
	tables  TableDirectory
	store   BookingStore
	codes   *CodeGenerator
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewBookingService constructs the engine.  tables, store, codes and
// logger must be non-nil; metrics may be nil to disable counters.
func NewBookingService(tables TableDirectory, store BookingStore, codes *CodeGenerator, logger *zap.Logger, m *metrics.Metrics) *BookingService {
	if tables == nil || store == nil || codes == nil || logger == nil {
		panic("nil dependency passed to NewBookingService")
	}
	return &BookingService{
		tables:  tables,
		store:   store,
		codes:   codes,
		logger:  logger,
		metrics: m,
	}
}

// CreateBookingInput carries the fields a guest submits when booking a
// table.
type CreateBookingInput struct {
	TableID     uint64
	FullName    string
	PhoneNumber string
	BookingFrom time.Time
	BookingTo   time.Time
	Guests      int
}

// UpdateBookingInput carries the full replacement set of mutable
// booking fields.  The table and booking code cannot be changed; a
// booking on a different table is a new booking.
type UpdateBookingInput struct {
	FullName    string
	PhoneNumber string
	BookingFrom time.Time
	BookingTo   time.Time
	Guests      int
	Status      string
}

// CreateBooking validates the request, checks the slot, assigns a
// unique booking code and persists the booking with status Pending.
// The returned booking carries the code the guest needs for any later
// self-service operation.
func (s *BookingService) CreateBooking(ctx context.Context, in CreateBookingInput) (*model.Booking, error) {
	if err := validateContact(in.FullName, in.PhoneNumber); err != nil {
		return nil, err
	}
	if err := validateWindow(in.BookingFrom, in.BookingTo); err != nil {
		return nil, err
	}
	table, err := s.tables.GetTable(ctx, in.TableID)
	if err != nil {
		if errors.Is(err, repository.ErrTableNotFound) {
			return nil, notFound("Table not found")
		}
		return nil, storage(err)
	}
	if err := validateGuests(in.Guests, table.Seats); err != nil {
		return nil, err
	}
	// Fast path: reject obvious conflicts before taking the table lock.
	// The storage layer repeats this check atomically on insert.
	existing, err := s.store.FindOverlapping(ctx, in.TableID, in.BookingFrom, in.BookingTo, 0)
	if err != nil {
		return nil, storage(err)
	}
	if Conflicts(Interval{From: in.BookingFrom, To: in.BookingTo}, existing, 0) {
		return nil, s.conflictErr()
	}

	booking := &model.Booking{
		TableID:     in.TableID,
		FullName:    strings.TrimSpace(in.FullName),
		PhoneNumber: strings.TrimSpace(in.PhoneNumber),
		BookingFrom: in.BookingFrom.UTC(),
		BookingTo:   in.BookingTo.UTC(),
		Guests:      in.Guests,
		Status:      model.BookingStatusPending,
	}
	for {
		code, err := s.codes.Generate(ctx, s.store.ExistsByCode)
		if err != nil {
			return nil, storage(err)
		}
		booking.BookingCode = code
		err = s.store.Insert(ctx, booking)
		if err == nil {
			break
		}
		switch {
		case errors.Is(err, repository.ErrDuplicateCode):
			// A concurrent create won the code; draw another and reinsert.
			continue
		case errors.Is(err, repository.ErrOverlap):
			return nil, s.conflictErr()
		case errors.Is(err, repository.ErrTableNotFound):
			return nil, notFound("Table not found")
		default:
			return nil, storage(err)
		}
	}
	if s.metrics != nil {
		s.metrics.BookingsCreated.Inc()
	}
	s.logger.Info("Booking created",
		zap.Uint64("booking_id", booking.ID),
		zap.Uint64("table_id", booking.TableID),
		zap.String("booking_code", booking.BookingCode),
		zap.Time("booking_from", booking.BookingFrom),
		zap.Time("booking_to", booking.BookingTo),
	)
	return booking, nil
}

// GetBooking returns a booking by primary id (staff path).
func (s *BookingService) GetBooking(ctx context.Context, id uint64) (*model.Booking, error) {
	return s.findByID(ctx, id)
}

// GetBookingByCode returns a booking by its (code, phone) pair (guest
// self-service path).
func (s *BookingService) GetBookingByCode(ctx context.Context, code, phone string) (*model.Booking, error) {
	return s.findByCode(ctx, code, phone)
}

// ListBookingsByTable returns the booking history of one table for the
// staff surface.
func (s *BookingService) ListBookingsByTable(ctx context.Context, tableID uint64) ([]model.Booking, error) {
	if _, err := s.tables.GetTable(ctx, tableID); err != nil {
		if errors.Is(err, repository.ErrTableNotFound) {
			return nil, notFound("Table not found")
		}
		return nil, storage(err)
	}
	bookings, err := s.store.ListByTable(ctx, tableID)
	if err != nil {
		return nil, storage(err)
	}
	return bookings, nil
}

// UpdateBooking replaces all mutable fields of the booking identified
// by primary id (staff path).
func (s *BookingService) UpdateBooking(ctx context.Context, id uint64, in UpdateBookingInput) (*model.Booking, error) {
	booking, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.applyUpdate(ctx, booking, in)
}

// UpdateBookingByCode replaces all mutable fields of the booking
// identified by its (code, phone) pair (guest self-service path).
// Validation is identical to the staff path after resolution.
func (s *BookingService) UpdateBookingByCode(ctx context.Context, code, phone string, in UpdateBookingInput) (*model.Booking, error) {
	booking, err := s.findByCode(ctx, code, phone)
	if err != nil {
		return nil, err
	}
	return s.applyUpdate(ctx, booking, in)
}

// CancelBooking marks the booking identified by primary id as
// cancelled.  Cancelling an already cancelled booking is an error, not
// a no-op: callers that want idempotence must check the status first.
func (s *BookingService) CancelBooking(ctx context.Context, id uint64) (*model.Booking, error) {
	booking, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.cancel(ctx, booking)
}

// CancelBookingByCode cancels via the guest (code, phone) pair.
func (s *BookingService) CancelBookingByCode(ctx context.Context, code, phone string) (*model.Booking, error) {
	booking, err := s.findByCode(ctx, code, phone)
	if err != nil {
		return nil, err
	}
	return s.cancel(ctx, booking)
}

// DeleteBooking removes the record entirely.  Deletion is staff-only
// and always allowed regardless of status.
func (s *BookingService) DeleteBooking(ctx context.Context, id uint64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return notFound("Booking not found")
		}
		return storage(err)
	}
	s.logger.Info("Booking deleted", zap.Uint64("booking_id", id))
	return nil
}

// IsTableAvailable reports whether the table is free for the window
// starting at from.  A non-positive duration falls back to
// DefaultBookingDuration.  The read is advisory: it takes no lock and
// a create attempt re-validates atomically.
func (s *BookingService) IsTableAvailable(ctx context.Context, tableID uint64, from time.Time, duration time.Duration) (bool, error) {
	if duration <= 0 {
		duration = DefaultBookingDuration
	}
	to := from.Add(duration)
	existing, err := s.store.FindOverlapping(ctx, tableID, from, to, 0)
	if err != nil {
		return false, storage(err)
	}
	return !Conflicts(Interval{From: from, To: to}, existing, 0), nil
}

// AvailableTables lists the restaurant's tables that are free for the
// requested window.  When at is nil the time dimension is undefined
// and every table of the restaurant is returned.  A non-positive
// duration falls back to DefaultBookingDuration.
func (s *BookingService) AvailableTables(ctx context.Context, restaurantID uint64, at *time.Time, duration time.Duration) ([]model.Table, error) {
	tables, err := s.tables.ListTables(ctx, restaurantID)
	if err != nil {
		return nil, storage(err)
	}
	if at == nil {
		return tables, nil
	}
	if duration <= 0 {
		duration = DefaultBookingDuration
	}
	booked, err := s.store.BookedTableIDs(ctx, restaurantID, *at, at.Add(duration))
	if err != nil {
		return nil, storage(err)
	}
	taken := make(map[uint64]struct{}, len(booked))
	for _, id := range booked {
		taken[id] = struct{}{}
	}
	free := make([]model.Table, 0, len(tables))
	for _, t := range tables {
		if _, ok := taken[t.ID]; !ok {
			free = append(free, t)
		}
	}
	return free, nil
}

func (s *BookingService) findByID(ctx context.Context, id uint64) (*model.Booking, error) {
	booking, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return nil, notFound("Booking not found")
		}
		return nil, storage(err)
	}
	return booking, nil
}

func (s *BookingService) findByCode(ctx context.Context, code, phone string) (*model.Booking, error) {
	booking, err := s.store.FindByCodeAndPhone(ctx, strings.ToUpper(strings.TrimSpace(code)), strings.TrimSpace(phone))
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return nil, notFound("Booking not found")
		}
		return nil, storage(err)
	}
	return booking, nil
}

// applyUpdate re-runs the create-time validations against the table
// bound to the existing booking, checks the requested status
// transition, verifies the new window excluding the booking itself and
// replaces all mutable fields atomically.
func (s *BookingService) applyUpdate(ctx context.Context, booking *model.Booking, in UpdateBookingInput) (*model.Booking, error) {
	if booking.Status == model.BookingStatusCancelled {
		return nil, invalidState("Booking is already cancelled")
	}
	if err := validateContact(in.FullName, in.PhoneNumber); err != nil {
		return nil, err
	}
	if err := validateWindow(in.BookingFrom, in.BookingTo); err != nil {
		return nil, err
	}
	if err := validateTransition(booking.Status, in.Status); err != nil {
		return nil, err
	}
	table, err := s.tables.GetTable(ctx, booking.TableID)
	if err != nil {
		if errors.Is(err, repository.ErrTableNotFound) {
			return nil, notFound("Table not found")
		}
		return nil, storage(err)
	}
	if err := validateGuests(in.Guests, table.Seats); err != nil {
		return nil, err
	}
	// Fast path, excluding the booking's own prior record so an update
	// that keeps the current slot never conflicts with itself.
	existing, err := s.store.FindOverlapping(ctx, booking.TableID, in.BookingFrom, in.BookingTo, booking.ID)
	if err != nil {
		return nil, storage(err)
	}
	if in.Status != model.BookingStatusCancelled &&
		Conflicts(Interval{From: in.BookingFrom, To: in.BookingTo}, existing, booking.ID) {
		return nil, s.conflictErr()
	}

	booking.FullName = strings.TrimSpace(in.FullName)
	booking.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	booking.BookingFrom = in.BookingFrom.UTC()
	booking.BookingTo = in.BookingTo.UTC()
	booking.Guests = in.Guests
	booking.Status = in.Status
	if err := s.store.Update(ctx, booking); err != nil {
		switch {
		case errors.Is(err, repository.ErrOverlap):
			return nil, s.conflictErr()
		case errors.Is(err, repository.ErrBookingCancelled):
			// A concurrent cancel landed after our read; the terminal
			// state wins.
			return nil, invalidState("Booking is already cancelled")
		case errors.Is(err, repository.ErrBookingNotFound):
			return nil, notFound("Booking not found")
		default:
			return nil, storage(err)
		}
	}
	s.logger.Info("Booking updated",
		zap.Uint64("booking_id", booking.ID),
		zap.String("status", booking.Status),
	)
	return booking, nil
}

func (s *BookingService) cancel(ctx context.Context, booking *model.Booking) (*model.Booking, error) {
	if booking.Status == model.BookingStatusCancelled {
		return nil, invalidState("Booking is already cancelled")
	}
	if err := s.store.UpdateStatus(ctx, booking.ID, model.BookingStatusCancelled); err != nil {
		switch {
		case errors.Is(err, repository.ErrBookingCancelled):
			// Of two racing cancels the storage layer lets exactly one
			// through; the loser reports the same invalid state as a
			// plain double cancel.
			return nil, invalidState("Booking is already cancelled")
		case errors.Is(err, repository.ErrBookingNotFound):
			return nil, notFound("Booking not found")
		default:
			return nil, storage(err)
		}
	}
	booking.Status = model.BookingStatusCancelled
	if s.metrics != nil {
		s.metrics.BookingsCancelled.Inc()
	}
	s.logger.Info("Booking cancelled",
		zap.Uint64("booking_id", booking.ID),
		zap.Uint64("table_id", booking.TableID),
	)
	return booking, nil
}

func (s *BookingService) conflictErr() error {
	if s.metrics != nil {
		s.metrics.BookingConflicts.Inc()
	}
	return conflict("Table is already booked for the selected time range")
}

func validateContact(fullName, phone string) error {
	if strings.TrimSpace(fullName) == "" {
		return invalidArgument("Full name is required")
	}
	if strings.TrimSpace(phone) == "" {
		return invalidArgument("Phone number is required")
	}
	return nil
}

func validateWindow(from, to time.Time) error {
	if !from.After(time.Now().UTC()) {
		return invalidArgument("Booking time must be in the future")
	}
	if !to.After(from) {
		return invalidArgument("Booking end must be after booking start")
	}
	return nil
}

func validateGuests(guests, seats int) error {
	if guests < 1 || guests > seats {
		return invalidArgument(fmt.Sprintf("Guests number must be between 1 and %d", seats))
	}
	return nil
}

// validateTransition enforces the status machine: Pending may advance
// to Confirmed, any active status may be cancelled, and a status may
// be restated unchanged.  Everything else is rejected.
func validateTransition(current, next string) error {
	switch next {
	case model.BookingStatusPending, model.BookingStatusConfirmed, model.BookingStatusCancelled:
	default:
		return invalidArgument(fmt.Sprintf("Unknown booking status %q", next))
	}
	if next == current || next == model.BookingStatusCancelled {
		return nil
	}
	if current == model.BookingStatusPending && next == model.BookingStatusConfirmed {
		return nil
	}
	return invalidState(fmt.Sprintf("Cannot change booking status from %s to %s", current, next))
}
