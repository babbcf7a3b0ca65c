package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/SHOB1KK/ResNet/internal/model"
)

// BookingRepo persists table bookings.  It is the reservation store
// behind the booking service.
//
// Writes that can race on a time slot (Insert, Update) run inside a
// transaction that first locks the parent table row with SELECT ...
// FOR UPDATE and then re-checks overlap before writing.  MySQL has no
// exclusion constraints, so this row lock is the authoritative
// enforcement point of the non-overlap invariant; the pre-check the
// service performs outside the transaction is only a fast path.  All
// timestamp fields are stored in UTC.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingColumns = `id, table_id, full_name, phone_number, booking_from, booking_to, guests, status, booking_code, created_at, updated_at`

// Insert creates a new booking.  Within a single transaction it locks
// the table row, verifies that no active booking overlaps the
// requested interval, and inserts the record.  It returns
// ErrTableNotFound when the table does not exist, ErrOverlap when the
// slot is taken, and ErrDuplicateCode when the booking code collides
// with an existing one.  On success the generated ID and timestamps
// are populated on the provided model.
func (r *BookingRepo) Insert(ctx context.Context, b *model.Booking) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := lockTableTx(ctx, tx, b.TableID); err != nil {
		return err
	}
	overlap, err := overlapExistsTx(ctx, tx, b.TableID, b.BookingFrom, b.BookingTo, 0)
	if err != nil {
		return err
	}
	if overlap {
		return ErrOverlap
	}
	const q = `INSERT INTO bookings (table_id, full_name, phone_number, booking_from, booking_to, guests, status, booking_code)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, q,
		b.TableID, b.FullName, b.PhoneNumber, b.BookingFrom.UTC(), b.BookingTo.UTC(),
		b.Guests, b.Status, b.BookingCode)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicateCode
		}
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	// Query back the full row to populate timestamps and defaults
	const sel = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	if err := scanBooking(tx.QueryRowContext(ctx, sel, b.ID), b); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// FindByID returns a single booking by primary id.  When no booking
// exists, ErrBookingNotFound is returned.
func (r *BookingRepo) FindByID(ctx context.Context, id uint64) (*model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	var b model.Booking
	if err := scanBooking(r.db.QueryRowContext(ctx, q, id), &b); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

// FindByCodeAndPhone resolves the guest self-service pair.  The code
// is unique on its own; the phone number must also match so that a
// leaked code alone cannot manage a booking.  ErrBookingNotFound is
// returned when the pair matches nothing.
func (r *BookingRepo) FindByCodeAndPhone(ctx context.Context, code, phone string) (*model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE booking_code = ? AND phone_number = ?`
	var b model.Booking
	if err := scanBooking(r.db.QueryRowContext(ctx, q, code, phone), &b); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

// FindOverlapping returns all active (non-cancelled) bookings on the
// given table whose [booking_from, booking_to) interval intersects
// [from, to).  Touching endpoints do not intersect.  When excludeID is
// non-zero that booking is omitted, which lets updates skip their own
// prior record.
func (r *BookingRepo) FindOverlapping(ctx context.Context, tableID uint64, from, to time.Time, excludeID uint64) ([]model.Booking, error) {
	const q = `SELECT ` + bookingColumns + `
	           FROM bookings
	           WHERE table_id = ?
	             AND status <> ?
	             AND id <> ?
	             AND booking_from < ?
	             AND booking_to > ?
	           ORDER BY booking_from`
	rows, err := r.db.QueryContext(ctx, q, tableID, model.BookingStatusCancelled, excludeID, to.UTC(), from.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookings(rows)
}

// Update atomically replaces all mutable fields of a booking.  When
// the new status keeps the booking active, the overlap invariant is
// re-checked under the table row lock with the booking itself excluded
// from the comparison set; ErrOverlap is returned on collision.  The
// row's current status is re-read under the same lock so a concurrent
// cancel cannot be overwritten: ErrBookingCancelled is returned when
// the booking entered the terminal state after the caller's read.
// Table id and booking code are never altered here.  ErrBookingNotFound
// is returned when the booking does not exist.
func (r *BookingRepo) Update(ctx context.Context, b *model.Booking) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := lockTableTx(ctx, tx, b.TableID); err != nil {
		return err
	}
	// Lock the booking row and check the live status: the caller's
	// copy may predate a concurrent cancel.
	var current string
	const cur = `SELECT status FROM bookings WHERE id = ? FOR UPDATE`
	if err := tx.QueryRowContext(ctx, cur, b.ID).Scan(&current); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrBookingNotFound
		}
		return err
	}
	if current == model.BookingStatusCancelled {
		return ErrBookingCancelled
	}
	if b.Status != model.BookingStatusCancelled {
		overlap, err := overlapExistsTx(ctx, tx, b.TableID, b.BookingFrom, b.BookingTo, b.ID)
		if err != nil {
			return err
		}
		if overlap {
			return ErrOverlap
		}
	}
	const q = `UPDATE bookings
	           SET full_name = ?, phone_number = ?, booking_from = ?, booking_to = ?, guests = ?, status = ?
	           WHERE id = ?`
	if _, err := tx.ExecContext(ctx, q,
		b.FullName, b.PhoneNumber, b.BookingFrom.UTC(), b.BookingTo.UTC(),
		b.Guests, b.Status, b.ID); err != nil {
		return err
	}
	const sel = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	if err := scanBooking(tx.QueryRowContext(ctx, sel, b.ID), b); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrBookingNotFound
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// UpdateStatus changes only the lifecycle state of a booking, which
// never moves the time range and therefore needs no overlap check.
// The status predicate makes the write atomic with respect to the
// terminal state: Cancelled rows are never matched, so of two racing
// cancels exactly one succeeds and the loser gets ErrBookingCancelled.
// ErrBookingNotFound is returned when the booking does not exist.
func (r *BookingRepo) UpdateStatus(ctx context.Context, id uint64, status string) error {
	const q = `UPDATE bookings SET status = ? WHERE id = ? AND status <> ?`
	result, err := r.db.ExecContext(ctx, q, status, id, model.BookingStatusCancelled)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Zero affected rows: the booking is missing, already
		// cancelled, or the status is unchanged.
		var current string
		const chk = `SELECT status FROM bookings WHERE id = ?`
		if err := r.db.QueryRowContext(ctx, chk, id).Scan(&current); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrBookingNotFound
			}
			return err
		}
		if current == model.BookingStatusCancelled {
			return ErrBookingCancelled
		}
	}
	return nil
}

// Delete removes a booking record entirely, regardless of its status.
// ErrBookingNotFound is returned when no row was deleted.
func (r *BookingRepo) Delete(ctx context.Context, id uint64) error {
	const q = `DELETE FROM bookings WHERE id = ?`
	result, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrBookingNotFound
	}
	return nil
}

// ExistsByCode reports whether any booking, including cancelled ones,
// carries the given code.  Codes are never recycled.
func (r *BookingRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM bookings WHERE booking_code = ?)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, q, code).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// BookedTableIDs returns the ids of all tables in the restaurant that
// have at least one active booking intersecting [from, to).  The
// availability query subtracts this set from the restaurant's tables.
func (r *BookingRepo) BookedTableIDs(ctx context.Context, restaurantID uint64, from, to time.Time) ([]uint64, error) {
	const q = `SELECT DISTINCT b.table_id
	           FROM bookings b
	           JOIN tables t ON t.id = b.table_id
	           WHERE t.restaurant_id = ?
	             AND b.status <> ?
	             AND b.booking_from < ?
	             AND b.booking_to > ?`
	rows, err := r.db.QueryContext(ctx, q, restaurantID, model.BookingStatusCancelled, to.UTC(), from.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ids := make([]uint64, 0)
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

// ListByTable returns all bookings on a table ordered by start time
// descending (most recent slot first).  Cancelled bookings are
// included so staff can see the full history.
func (r *BookingRepo) ListByTable(ctx context.Context, tableID uint64) ([]model.Booking, error) {
	const q = `SELECT ` + bookingColumns + `
	           FROM bookings
	           WHERE table_id = ?
	           ORDER BY booking_from DESC`
	rows, err := r.db.QueryContext(ctx, q, tableID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookings(rows)
}

// lockTableTx takes a row lock on the table for the duration of the
// transaction.  All writers touching the same table serialize here,
// which makes the subsequent check-then-write sequence atomic.
func lockTableTx(ctx context.Context, tx *sql.Tx, tableID uint64) error {
	const q = `SELECT id FROM tables WHERE id = ? FOR UPDATE`
	var id uint64
	if err := tx.QueryRowContext(ctx, q, tableID).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrTableNotFound
		}
		return err
	}
	return nil
}

// overlapExistsTx runs the half-open interval intersection test inside
// the transaction: conflict iff booking_from < to AND booking_to > from.
func overlapExistsTx(ctx context.Context, tx *sql.Tx, tableID uint64, from, to time.Time, excludeID uint64) (bool, error) {
	const q = `SELECT EXISTS(
	               SELECT 1 FROM bookings
	               WHERE table_id = ?
	                 AND status <> ?
	                 AND id <> ?
	                 AND booking_from < ?
	                 AND booking_to > ?)`
	var exists bool
	err := tx.QueryRowContext(ctx, q, tableID, model.BookingStatusCancelled, excludeID, to.UTC(), from.UTC()).Scan(&exists)
	return exists, err
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanBooking(s scanner, b *model.Booking) error {
	return s.Scan(
		&b.ID, &b.TableID, &b.FullName, &b.PhoneNumber,
		&b.BookingFrom, &b.BookingTo, &b.Guests, &b.Status, &b.BookingCode,
		&b.CreatedAt, &b.UpdatedAt,
	)
}

func collectBookings(rows *sql.Rows) ([]model.Booking, error) {
	bookings := make([]model.Booking, 0)
	for rows.Next() {
		var b model.Booking
		if err := scanBooking(rows, &b); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return bookings, nil
}

// isDuplicateKey reports whether err is a MySQL duplicate-entry error
// (code 1062), raised when the unique booking_code index rejects an
// insert.
func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
