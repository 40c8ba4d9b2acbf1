package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/examready/identity-api/internal/api/middleware"
)

// IdentityHandler serves the caller's own identity.
type IdentityHandler struct{}

func NewIdentityHandler() *IdentityHandler {
	return &IdentityHandler{}
}

// Me returns the identity bound by the authentication middleware.
//
// @Summary      Current identity
// @Tags         identity
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.IdentityContext
// @Failure      401  {object}  map[string]string
// @Router       /api/me [get]
func (h *IdentityHandler) Me(c echo.Context) error {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
	}
	return c.JSON(http.StatusOK, id)
}

// AdminPing is a minimal ROLE_ADMIN-only endpoint.
//
// @Summary      Admin ping
// @Tags         identity
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /api/admin/ping [get]
func (h *IdentityHandler) AdminPing(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
