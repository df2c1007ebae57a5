package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/selhaddad/sakanalert/internal/store"
	domain "github.com/selhaddad/sakanalert/pkg/types"
)

// AlertHandler handles Alert CRUD operations.
type AlertHandler struct {
	store store.Store
}

// NewAlertHandler creates a new AlertHandler.
func NewAlertHandler(s store.Store) *AlertHandler {
	return &AlertHandler{store: s}
}

// List handles GET /api/v1/alerts.
//
// @Summary List alerts
// @Description Returns all alerts for a user.
// @Tags alerts
// @Produce json
// @Param user_id query string true "Owning user ID"
// @Success 200 {array} domain.Alert
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/alerts [get]
func (h *AlertHandler) List(c echo.Context) error {
	userID := c.QueryParam("user_id")
	if userID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "user_id query parameter is required",
		})
	}

	alerts, err := h.store.ListAlerts(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "listing alerts: " + err.Error(),
		})
	}

	if alerts == nil {
		alerts = []domain.Alert{}
	}

	return c.JSON(http.StatusOK, alerts)
}

// Get handles GET /api/v1/alerts/:id.
//
// @Summary Get an alert by ID
// @Description Returns a single alert by its UUID.
// @Tags alerts
// @Produce json
// @Param id path string true "Alert UUID"
// @Success 200 {object} domain.Alert
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/alerts/{id} [get]
func (h *AlertHandler) Get(c echo.Context) error {
	id := c.Param("id")

	a, err := h.store.GetAlert(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{
			"error": "alert not found",
		})
	}

	return c.JSON(http.StatusOK, a)
}

// Create handles POST /api/v1/alerts.
//
// @Summary Create an alert
// @Description Creates a new alert. Missing filter fields default to wildcards.
// @Tags alerts
// @Accept json
// @Produce json
// @Param alert body domain.Alert true "Alert to create"
// @Success 201 {object} domain.Alert
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/alerts [post]
func (h *AlertHandler) Create(c echo.Context) error {
	a := domain.Alert{Filters: domain.DefaultFilters(), IsActive: true}
	if err := c.Bind(&a); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid request body: " + err.Error(),
		})
	}

	if a.UserID == "" || a.Name == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "user_id and name are required",
		})
	}

	a.Filters.Normalize()

	if err := h.store.CreateAlert(c.Request().Context(), &a); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "creating alert: " + err.Error(),
		})
	}

	return c.JSON(http.StatusCreated, a)
}

// Update handles PUT /api/v1/alerts/:id.
//
// @Summary Update an alert
// @Description Updates an existing alert by its UUID.
// @Tags alerts
// @Accept json
// @Produce json
// @Param id path string true "Alert UUID"
// @Param alert body domain.Alert true "Updated alert"
// @Success 200 {object} domain.Alert
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/alerts/{id} [put]
func (h *AlertHandler) Update(c echo.Context) error {
	id := c.Param("id")

	var a domain.Alert
	if err := c.Bind(&a); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid request body: " + err.Error(),
		})
	}

	a.ID = id
	a.Filters.Normalize()

	if err := h.store.UpdateAlert(c.Request().Context(), &a); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{
				"error": "alert not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "updating alert: " + err.Error(),
		})
	}

	return c.JSON(http.StatusOK, a)
}

type setActiveRequest struct {
	Active bool `json:"active" example:"true"`
}

// SetActive handles PUT /api/v1/alerts/:id/active.
//
// @Summary Activate or deactivate an alert
// @Description Sets the active status of an alert. Inactive alerts are
// excluded from matching runs.
// @Tags alerts
// @Accept json
// @Produce json
// @Param id path string true "Alert UUID"
// @Param body body setActiveRequest true "Active status"
// @Success 200 {object} StatusResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/alerts/{id}/active [put]
func (h *AlertHandler) SetActive(c echo.Context) error {
	id := c.Param("id")

	var req setActiveRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid request body: " + err.Error(),
		})
	}

	if err := h.store.SetAlertActive(c.Request().Context(), id, req.Active); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "setting alert active: " + err.Error(),
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "updated",
	})
}

// Delete handles DELETE /api/v1/alerts/:id.
//
// @Summary Delete an alert
// @Description Deletes an alert by its UUID.
// @Tags alerts
// @Param id path string true "Alert UUID"
// @Success 204
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/alerts/{id} [delete]
func (h *AlertHandler) Delete(c echo.Context) error {
	id := c.Param("id")

	if err := h.store.DeleteAlert(c.Request().Context(), id); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "deleting alert: " + err.Error(),
		})
	}

	return c.NoContent(http.StatusNoContent)
}
