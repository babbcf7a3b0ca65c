package handler // handler package contains table handlers

import (
    "errors"   // errors provides sentinel comparisons with errors.Is
    "net/http" // http provides status code constants
    "time"     // time parses availability windows

    "github.com/SHOB1KK/ResNet/internal/model"      // model holds persistence structs
    "github.com/SHOB1KK/ResNet/internal/repository" // repository holds the data access layer
    "github.com/SHOB1KK/ResNet/internal/service"    // service answers availability queries
    "github.com/labstack/echo/v4"                   // echo is the web framework used for handlers
)

// TableHandler exposes staff CRUD over tables plus the public
// availability queries.  Mutating methods assume JWT authentication
// and role validation has already been performed by middleware.
type TableHandler struct {
    Tables   *repository.TableRepo   // Tables provides table persistence
    Bookings *service.BookingService // Bookings answers window availability
}

// NewTableHandler constructs a TableHandler and panics if any
// dependency is nil.
func NewTableHandler(tables *repository.TableRepo, bookings *service.BookingService) *TableHandler {
    if tables == nil || bookings == nil {
        panic("nil dependency passed to NewTableHandler")
    }
    return &TableHandler{Tables: tables, Bookings: bookings}
}

// CreateTable handles POST /v1/restaurants/:id/tables.
func (h *TableHandler) CreateTable(c echo.Context) error {
    restaurantID, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid restaurant id"})
    }
    var body struct {
        Seats  int    `json:"seats"`  // seating capacity, must be positive
        Status string `json:"status"` // optional operational state
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if body.Seats < 1 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "seats must be positive"})
    }
    status := body.Status
    if status == "" {
        status = model.TableStatusAvailable
    }
    if status != model.TableStatusAvailable && status != model.TableStatusUnavailable {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid table status"})
    }
    table := &model.Table{
        RestaurantID: restaurantID,
        Seats:        body.Seats,
        Status:       status,
    }
    if err := h.Tables.Create(c.Request().Context(), table); err != nil {
        if errors.Is(err, repository.ErrRestaurantNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "restaurant not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create table"})
    }
    return c.JSON(http.StatusCreated, table)
}

// GetTable handles GET /tables/:id.
func (h *TableHandler) GetTable(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    table, err := h.Tables.GetTable(c.Request().Context(), id)
    if err != nil {
        if errors.Is(err, repository.ErrTableNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, table)
}

// ListTables handles GET /restaurants/:id/tables and returns every
// table of the venue regardless of booking state.
func (h *TableHandler) ListTables(c echo.Context) error {
    restaurantID, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid restaurant id"})
    }
    items, err := h.Tables.ListTables(c.Request().Context(), restaurantID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// UpdateTable handles PUT /v1/tables/:id and replaces seats and status.
func (h *TableHandler) UpdateTable(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var body struct {
        Seats  int    `json:"seats"`
        Status string `json:"status"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if body.Seats < 1 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "seats must be positive"})
    }
    if body.Status != model.TableStatusAvailable && body.Status != model.TableStatusUnavailable {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid table status"})
    }
    table := &model.Table{ID: id, Seats: body.Seats, Status: body.Status}
    if err := h.Tables.Update(c.Request().Context(), table); err != nil {
        if errors.Is(err, repository.ErrTableNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
    }
    updated, err := h.Tables.GetTable(c.Request().Context(), id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, updated)
}

// DeleteTable handles DELETE /v1/tables/:id.  Bookings on the table
// are removed by the cascading foreign key.
func (h *TableHandler) DeleteTable(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    if err := h.Tables.Delete(c.Request().Context(), id); err != nil {
        if errors.Is(err, repository.ErrTableNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
    }
    return c.NoContent(http.StatusNoContent)
}

// TableAvailability handles GET /tables/:id/availability?from=&duration=.
// The from timestamp is required and the duration is optional; when
// absent the engine assumes its default window.
func (h *TableHandler) TableAvailability(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    fromStr := c.QueryParam("from")
    if fromStr == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "from is required"})
    }
    from, okTime := parseRFC3339(fromStr)
    if !okTime {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid from format"})
    }
    duration, okDur := parseDuration(c.QueryParam("duration"))
    if !okDur {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid duration format"})
    }
    // make sure the table exists so a missing table is a 404, not "available"
    if _, err := h.Tables.GetTable(c.Request().Context(), id); err != nil {
        if errors.Is(err, repository.ErrTableNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    available, err := h.Bookings.IsTableAvailable(c.Request().Context(), id, from, duration)
    if err != nil {
        return serviceError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"table_id": id, "available": available})
}

// AvailableTables handles GET /restaurants/:id/tables/available?at=&duration=.
// Without an at timestamp every table of the venue is returned.
func (h *TableHandler) AvailableTables(c echo.Context) error {
    restaurantID, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid restaurant id"})
    }
    var at *time.Time
    if atStr := c.QueryParam("at"); atStr != "" {
        t, okTime := parseRFC3339(atStr)
        if !okTime {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid at format"})
        }
        at = &t
    }
    duration, okDur := parseDuration(c.QueryParam("duration"))
    if !okDur {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid duration format"})
    }
    items, err := h.Bookings.AvailableTables(c.Request().Context(), restaurantID, at, duration)
    if err != nil {
        return serviceError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// parseDuration parses an optional Go duration string such as "90m" or
// "2h".  The empty string reports ok with a zero duration.
func parseDuration(s string) (time.Duration, bool) {
    if s == "" {
        return 0, true
    }
    d, err := time.ParseDuration(s)
    if err != nil || d <= 0 {
        return 0, false
    }
    return d, true
}
