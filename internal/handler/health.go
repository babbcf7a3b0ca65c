package handler // declare the package name; contains HTTP handlers

import (
    "net/http"          // net/http provides status codes and response helpers

    "github.com/labstack/echo/v4" // echo is the web framework used for this project
)

// Health is the liveness endpoint used by load balancers and
// monitoring systems.  It reports nothing about MySQL, Redis or the
// broker; the service degrades gracefully without the latter two.
func Health(c echo.Context) error {
    return c.String(http.StatusOK, "ok") // plain text "ok" with a 200 OK status
}
