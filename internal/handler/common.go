package handler // handler defines http handlers

import (
    "net/http" // http provides status code constants
    "strconv"  // strconv parses string identifiers to numeric types
    "time"     // time parses booking timestamps

    "github.com/SHOB1KK/ResNet/internal/service" // service carries classified engine errors
    "github.com/labstack/echo/v4"                // echo defines request context types
)

// pathID parses the named path parameter as a positive uint64 id.
func pathID(c echo.Context, name string) (uint64, bool) {
    id, err := strconv.ParseUint(c.Param(name), 10, 64) // parse the path segment as an unsigned integer
    if err != nil || id == 0 {                          // zero is never a valid identifier
        return 0, false
    }
    return id, true
}

// parseRFC3339 parses a request timestamp.  The empty string reports ok
// with a zero time so optional fields can be detected by the caller.
func parseRFC3339(s string) (time.Time, bool) {
    if s == "" {
        return time.Time{}, true
    }
    t, err := time.Parse(time.RFC3339, s)
    if err != nil {
        return time.Time{}, false
    }
    return t, true
}

// serviceError maps a classified engine error onto an HTTP response.
// Missing resources map to 404, rejected requests (bad input, overlap
// conflicts, invalid status transitions) map to 400 and everything
// else is treated as a storage failure.
func serviceError(c echo.Context, err error) error {
    switch service.KindOf(err) {
    case service.KindNotFound:
        return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
    case service.KindInvalidArgument, service.KindConflict, service.KindInvalidState:
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    default:
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
}
