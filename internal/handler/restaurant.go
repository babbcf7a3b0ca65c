package handler // handler package contains staff restaurant handlers

import (
    "errors"   // errors provides sentinel comparisons with errors.Is
    "net/http" // http provides status code constants
    "strings"  // strings offers trimming utilities

    "github.com/SHOB1KK/ResNet/internal/model"      // model holds persistence structs
    "github.com/SHOB1KK/ResNet/internal/repository" // repository holds the data access layer
    "github.com/labstack/echo/v4"                   // echo is the web framework used for handlers
)

// RestaurantHandler exposes staff CRUD over restaurants.  All methods
// assume JWT authentication and role validation has already been
// performed by middleware.
type RestaurantHandler struct {
    Restaurants *repository.RestaurantRepo // Restaurants provides restaurant persistence
}

// NewRestaurantHandler constructs a RestaurantHandler and panics if the
// repository is nil.
func NewRestaurantHandler(restaurants *repository.RestaurantRepo) *RestaurantHandler {
    if restaurants == nil {
        panic("nil repository passed to NewRestaurantHandler")
    }
    return &RestaurantHandler{Restaurants: restaurants}
}

// restaurantBody is the JSON payload shared by create and update.
type restaurantBody struct {
    Name        string  `json:"name"`        // required display name
    Description *string `json:"description"` // optional description
    Cuisine     *string `json:"cuisine"`     // optional cuisine label
    Address     *string `json:"address"`     // optional street address
    Phone       *string `json:"phone"`       // optional contact phone
    Rating      float64 `json:"rating"`      // average rating, 0 to 5
}

func (b *restaurantBody) validate() (string, bool) {
    name := strings.TrimSpace(b.Name)
    if name == "" {
        return "name is required", false
    }
    if b.Rating < 0 || b.Rating > 5 {
        return "rating must be between 0 and 5", false
    }
    return name, true
}

// CreateRestaurant handles POST /v1/restaurants.
func (h *RestaurantHandler) CreateRestaurant(c echo.Context) error {
    var body restaurantBody
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    name, ok := body.validate()
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": name})
    }
    rest := &model.Restaurant{
        Name:        name,
        Description: body.Description,
        Cuisine:     body.Cuisine,
        Address:     body.Address,
        Phone:       body.Phone,
        Rating:      body.Rating,
    }
    if err := h.Restaurants.Create(c.Request().Context(), rest); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create restaurant"})
    }
    return c.JSON(http.StatusCreated, rest)
}

// GetRestaurant handles GET /restaurants/:id.
func (h *RestaurantHandler) GetRestaurant(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    rest, err := h.Restaurants.GetByID(c.Request().Context(), id)
    if err != nil {
        if errors.Is(err, repository.ErrRestaurantNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "restaurant not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, rest)
}

// ListRestaurants handles GET /restaurants and returns every venue.
func (h *RestaurantHandler) ListRestaurants(c echo.Context) error {
    items, err := h.Restaurants.List(c.Request().Context())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// UpdateRestaurant handles PUT /v1/restaurants/:id and replaces the
// descriptive fields of the venue.
func (h *RestaurantHandler) UpdateRestaurant(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var body restaurantBody
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    name, okBody := body.validate()
    if !okBody {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": name})
    }
    rest := &model.Restaurant{
        ID:          id,
        Name:        name,
        Description: body.Description,
        Cuisine:     body.Cuisine,
        Address:     body.Address,
        Phone:       body.Phone,
        Rating:      body.Rating,
    }
    if err := h.Restaurants.Update(c.Request().Context(), rest); err != nil {
        if errors.Is(err, repository.ErrRestaurantNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "restaurant not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
    }
    updated, err := h.Restaurants.GetByID(c.Request().Context(), id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, updated)
}

// DeleteRestaurant handles DELETE /v1/restaurants/:id.  Tables and
// bookings under the venue are removed by the cascading foreign keys.
func (h *RestaurantHandler) DeleteRestaurant(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    if err := h.Restaurants.Delete(c.Request().Context(), id); err != nil {
        if errors.Is(err, repository.ErrRestaurantNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "restaurant not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
    }
    return c.NoContent(http.StatusNoContent)
}
