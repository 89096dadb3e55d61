package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/cinetick/booking/internal/model"
)

type movieRequest struct {
	Name        string `json:"name"`
	Duration    int    `json:"duration"`
	AgeRating   string `json:"ageRating"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	Status      string `json:"status"`
}

// CreateMovie handles POST /v1/admin/movies. Duration is required since
// the showtime scheduler derives end times from it.
func (h *AdminHandler) CreateMovie(c echo.Context) error {
	var req movieRequest
	if err := c.Bind(&req); err != nil || req.Name == "" || req.Duration <= 0 {
		return badRequest(c, "name and positive duration are required")
	}
	status := req.Status
	if status == "" {
		status = model.MovieStatusComingSoon
	}
	if status != model.MovieStatusShowing && status != model.MovieStatusComingSoon {
		return badRequest(c, "unknown status")
	}
	m := &model.Movie{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Duration:    req.Duration,
		AgeRating:   req.AgeRating,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Status:      status,
	}
	if err := h.MovieRepo.Create(c.Request().Context(), m); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, m)
}

// UpdateMovie handles PUT /v1/admin/movies/:id with partial fields.
// Duration edits affect only future showtime creations; existing
// showtimes keep their computed end times.
func (h *AdminHandler) UpdateMovie(c echo.Context) error {
	var req movieRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	fields := map[string]any{}
	if req.Name != "" {
		fields["name"] = req.Name
	}
	if req.Duration > 0 {
		fields["duration"] = req.Duration
	}
	if req.AgeRating != "" {
		fields["ageRating"] = req.AgeRating
	}
	if req.Description != "" {
		fields["description"] = req.Description
	}
	if req.ImageURL != "" {
		fields["imageUrl"] = req.ImageURL
	}
	if req.Status != "" {
		if req.Status != model.MovieStatusShowing && req.Status != model.MovieStatusComingSoon {
			return badRequest(c, "unknown status")
		}
		fields["status"] = req.Status
	}
	if len(fields) == 0 {
		return badRequest(c, "no fields to update")
	}
	ctx := c.Request().Context()
	if err := h.MovieRepo.Update(ctx, c.Param("id"), fields); err != nil {
		return fail(c, err)
	}
	m, err := h.MovieRepo.Get(ctx, c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, m)
}

// DeleteMovie handles DELETE /v1/admin/movies/:id.
func (h *AdminHandler) DeleteMovie(c echo.Context) error {
	if err := h.MovieRepo.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
