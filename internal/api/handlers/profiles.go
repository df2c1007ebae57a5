package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/selhaddad/sakanalert/internal/store"
)

// ProfileHandler handles user profile operations.
type ProfileHandler struct {
	store store.Store
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(s store.Store) *ProfileHandler {
	return &ProfileHandler{store: s}
}

type setPushTokenRequest struct {
	Token string `json:"token" example:"fcm-device-token"`
}

// SetPushToken handles PUT /api/v1/profiles/:user_id/push-token.
//
// @Summary Register a push token
// @Description Stores the device push token used to notify the user's alerts.
// An empty token clears it; pushes for the user are then skipped.
// @Tags profiles
// @Accept json
// @Produce json
// @Param user_id path string true "User ID"
// @Param body body setPushTokenRequest true "Device token"
// @Success 200 {object} StatusResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/profiles/{user_id}/push-token [put]
func (h *ProfileHandler) SetPushToken(c echo.Context) error {
	userID := c.Param("user_id")

	var req setPushTokenRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid request body: " + err.Error(),
		})
	}

	if err := h.store.UpsertPushToken(c.Request().Context(), userID, req.Token); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "storing push token: " + err.Error(),
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "updated",
	})
}
