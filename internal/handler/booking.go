package handler // handler package contains booking handlers

import (
    "context"  // context carries deadlines into async event publishing
    "net/http" // http provides status code constants
    "time"     // time formats event timestamps

    "github.com/SHOB1KK/ResNet/internal/model"      // model holds persistence structs
    "github.com/SHOB1KK/ResNet/internal/queue"      // queue publishes booking lifecycle events
    "github.com/SHOB1KK/ResNet/internal/repository" // repository resolves the table's restaurant for events
    "github.com/SHOB1KK/ResNet/internal/service"    // service is the booking engine
    "github.com/labstack/echo/v4"                   // echo is the web framework used for handlers
)

// BookingHandler exposes the three booking surfaces: the public create
// endpoint, the guest self-service endpoints addressed by booking code
// plus phone, and the staff endpoints addressed by primary id.  All
// booking rules live in the engine; the handler translates HTTP.
type BookingHandler struct {
    Bookings *service.BookingService // Bookings is the reservation engine
    Tables   *repository.TableRepo   // Tables resolves restaurant ids for published events
}

// NewBookingHandler constructs a BookingHandler and panics if any
// dependency is nil.
func NewBookingHandler(bookings *service.BookingService, tables *repository.TableRepo) *BookingHandler {
    if bookings == nil || tables == nil {
        panic("nil dependency passed to NewBookingHandler")
    }
    return &BookingHandler{Bookings: bookings, Tables: tables}
}

// bookingBody is the JSON payload shared by create and update.
type bookingBody struct {
    TableID     uint64 `json:"table_id"`     // table to book (create only)
    FullName    string `json:"full_name"`    // guest full name
    PhoneNumber string `json:"phone_number"` // guest contact phone
    BookingFrom string `json:"booking_from"` // RFC3339 start of the window
    BookingTo   string `json:"booking_to"`   // RFC3339 end of the window
    Guests      int    `json:"guests"`       // number of guests
    Status      string `json:"status"`       // booking status (update only)
}

func (b *bookingBody) window() (from, to time.Time, ok bool) {
    from, okFrom := parseRFC3339(b.BookingFrom)
    to, okTo := parseRFC3339(b.BookingTo)
    if !okFrom || !okTo || b.BookingFrom == "" || b.BookingTo == "" {
        return time.Time{}, time.Time{}, false
    }
    return from, to, true
}

// CreateBooking handles POST /bookings.  It is open to unauthenticated
// guests; the response carries the booking code used for any later
// self-service operation.
func (h *BookingHandler) CreateBooking(c echo.Context) error {
    var body bookingBody
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if body.TableID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "table_id is required"})
    }
    from, to, ok := body.window()
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking_from and booking_to must be RFC3339 timestamps"})
    }
    booking, err := h.Bookings.CreateBooking(c.Request().Context(), service.CreateBookingInput{
        TableID:     body.TableID,
        FullName:    body.FullName,
        PhoneNumber: body.PhoneNumber,
        BookingFrom: from,
        BookingTo:   to,
        Guests:      body.Guests,
    })
    if err != nil {
        return serviceError(c, err)
    }
    h.publishEvent(queue.BookingCreatedQueue, booking)
    return c.JSON(http.StatusCreated, booking)
}

// GetBooking handles GET /v1/bookings/:id (staff).
func (h *BookingHandler) GetBooking(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    booking, err := h.Bookings.GetBooking(c.Request().Context(), id)
    if err != nil {
        return serviceError(c, err)
    }
    return c.JSON(http.StatusOK, booking)
}

// ListBookingsByTable handles GET /v1/tables/:id/bookings (staff).
func (h *BookingHandler) ListBookingsByTable(c echo.Context) error {
    tableID, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    items, err := h.Bookings.ListBookingsByTable(c.Request().Context(), tableID)
    if err != nil {
        return serviceError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// UpdateBooking handles PUT /v1/bookings/:id (staff).  The payload
// replaces every mutable field; the table and code are fixed.
func (h *BookingHandler) UpdateBooking(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    in, ok := h.bindUpdate(c)
    if !ok {
        return nil // response already written by bindUpdate
    }
    booking, err := h.Bookings.UpdateBooking(c.Request().Context(), id, in)
    if err != nil {
        return serviceError(c, err)
    }
    if booking.Status == model.BookingStatusCancelled {
        h.publishEvent(queue.BookingCancelledQueue, booking)
    }
    return c.JSON(http.StatusOK, booking)
}

// CancelBooking handles POST /v1/bookings/:id/cancel (staff).
// Cancelling twice is rejected, not ignored.
func (h *BookingHandler) CancelBooking(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    booking, err := h.Bookings.CancelBooking(c.Request().Context(), id)
    if err != nil {
        return serviceError(c, err)
    }
    h.publishEvent(queue.BookingCancelledQueue, booking)
    return c.JSON(http.StatusOK, booking)
}

// DeleteBooking handles DELETE /v1/bookings/:id (staff).  The record
// is removed regardless of its status.
func (h *BookingHandler) DeleteBooking(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    if err := h.Bookings.DeleteBooking(c.Request().Context(), id); err != nil {
        return serviceError(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}

// GetBookingByCode handles GET /bookings/code/:code?phone= (guest).
// Both the code and the phone it was created with must match.
func (h *BookingHandler) GetBookingByCode(c echo.Context) error {
    code, phone, ok := guestCredentials(c)
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "phone is required"})
    }
    booking, err := h.Bookings.GetBookingByCode(c.Request().Context(), code, phone)
    if err != nil {
        return serviceError(c, err)
    }
    return c.JSON(http.StatusOK, booking)
}

// UpdateBookingByCode handles PUT /bookings/code/:code?phone= (guest).
func (h *BookingHandler) UpdateBookingByCode(c echo.Context) error {
    code, phone, ok := guestCredentials(c)
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "phone is required"})
    }
    in, ok := h.bindUpdate(c)
    if !ok {
        return nil // response already written by bindUpdate
    }
    booking, err := h.Bookings.UpdateBookingByCode(c.Request().Context(), code, phone, in)
    if err != nil {
        return serviceError(c, err)
    }
    if booking.Status == model.BookingStatusCancelled {
        h.publishEvent(queue.BookingCancelledQueue, booking)
    }
    return c.JSON(http.StatusOK, booking)
}

// CancelBookingByCode handles POST /bookings/code/:code/cancel?phone=
// (guest).
func (h *BookingHandler) CancelBookingByCode(c echo.Context) error {
    code, phone, ok := guestCredentials(c)
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "phone is required"})
    }
    booking, err := h.Bookings.CancelBookingByCode(c.Request().Context(), code, phone)
    if err != nil {
        return serviceError(c, err)
    }
    h.publishEvent(queue.BookingCancelledQueue, booking)
    return c.JSON(http.StatusOK, booking)
}

// bindUpdate binds and validates the shared update payload.  When it
// reports false an error response has already been written.
func (h *BookingHandler) bindUpdate(c echo.Context) (service.UpdateBookingInput, bool) {
    var body bookingBody
    if err := c.Bind(&body); err != nil {
        _ = c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
        return service.UpdateBookingInput{}, false
    }
    from, to, ok := body.window()
    if !ok {
        _ = c.JSON(http.StatusBadRequest, echo.Map{"error": "booking_from and booking_to must be RFC3339 timestamps"})
        return service.UpdateBookingInput{}, false
    }
    return service.UpdateBookingInput{
        FullName:    body.FullName,
        PhoneNumber: body.PhoneNumber,
        BookingFrom: from,
        BookingTo:   to,
        Guests:      body.Guests,
        Status:      body.Status,
    }, true
}

// guestCredentials extracts the booking code path parameter and the
// phone query parameter used by the guest self-service endpoints.
func guestCredentials(c echo.Context) (code, phone string, ok bool) {
    code = c.Param("code")
    phone = c.QueryParam("phone")
    if code == "" || phone == "" {
        return "", "", false
    }
    return code, phone, true
}

// publishEvent emits a lifecycle event for the booking on the given
// queue.  Publishing runs in the background and never blocks or fails
// the HTTP response; broker errors are logged by the publisher.
func (h *BookingHandler) publishEvent(queueName string, b *model.Booking) {
    event := queue.BookingEvent{
        BookingID:   b.ID,
        TableID:     b.TableID,
        FullName:    b.FullName,
        BookingFrom: b.BookingFrom.Format(time.RFC3339),
        BookingTo:   b.BookingTo.Format(time.RFC3339),
        Guests:      b.Guests,
        Status:      b.Status,
        OccurredAt:  time.Now().UTC().Format(time.RFC3339),
    }
    if queueName == queue.BookingCreatedQueue {
        event.BookingCode = b.BookingCode
    }
    go func() {
        ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
        defer cancel()
        if table, err := h.Tables.GetTable(ctx, b.TableID); err == nil {
            event.RestaurantID = table.RestaurantID
        }
        if queueName == queue.BookingCreatedQueue {
            _ = queue.PublishBookingCreated(ctx, event)
        } else {
            _ = queue.PublishBookingCancelled(ctx, event)
        }
    }()
}
