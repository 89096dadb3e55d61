package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/cinetick/booking/internal/model"
)

type foodRequest struct {
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
	ImageURL string `json:"imageUrl"`
}

// CreateFood handles POST /v1/admin/foods.
func (h *AdminHandler) CreateFood(c echo.Context) error {
	var req foodRequest
	if err := c.Bind(&req); err != nil || req.Name == "" || req.Price <= 0 || req.Quantity < 0 {
		return badRequest(c, "name, positive price and non-negative quantity are required")
	}
	f := &model.Food{
		ID:       uuid.NewString(),
		Name:     req.Name,
		Price:    req.Price,
		Quantity: req.Quantity,
		ImageURL: req.ImageURL,
	}
	if err := h.FoodRepo.Create(c.Request().Context(), f); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, f)
}

// UpdateFood handles PUT /v1/admin/foods/:id and mutates display fields
// only. Stock never moves through this endpoint; use RestockFood so the
// quantity and sold counters stay consistent with sales.
func (h *AdminHandler) UpdateFood(c echo.Context) error {
	var req foodRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	fields := map[string]any{}
	if req.Name != "" {
		fields["name"] = req.Name
	}
	if req.Price > 0 {
		fields["price"] = req.Price
	}
	if req.ImageURL != "" {
		fields["imageUrl"] = req.ImageURL
	}
	if len(fields) == 0 {
		return badRequest(c, "no fields to update")
	}
	ctx := c.Request().Context()
	if err := h.FoodRepo.UpdateDetails(ctx, c.Param("id"), fields); err != nil {
		return fail(c, err)
	}
	f, err := h.FoodRepo.Get(ctx, c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, f)
}

// RestockFood handles POST /v1/admin/foods/:id/restock with a positive
// quantity to add.
func (h *AdminHandler) RestockFood(c echo.Context) error {
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil || req.Quantity <= 0 {
		return badRequest(c, "positive quantity is required")
	}
	ctx := c.Request().Context()
	if err := h.FoodRepo.Restock(ctx, c.Param("id"), req.Quantity); err != nil {
		return fail(c, err)
	}
	f, err := h.FoodRepo.Get(ctx, c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, f)
}

// DeleteFood handles DELETE /v1/admin/foods/:id.
func (h *AdminHandler) DeleteFood(c echo.Context) error {
	if err := h.FoodRepo.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
