package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/examready/identity-api/internal/api/metrics"
	"github.com/examready/identity-api/internal/api/middleware"
	"github.com/examready/identity-api/internal/core/domain"
	"github.com/examready/identity-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type signUpRequest struct {
	Username string `json:"username" validate:"required,notblank,min=3,max=20"`
	Password string `json:"password" validate:"required,notblank,min=8,password_bytes"`
	Email    string `json:"email" validate:"required,email"`
}

type signInRequest struct {
	Username string `json:"username" validate:"required,notblank,min=3,max=20"`
	Password string `json:"password" validate:"required,min=8,max=30,password_charset"`
}

type userResponse struct {
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	CreatedAt time.Time   `json:"createdAt"`
}

// SignUp registers a new user account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signUpRequest  true  "User registration details"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/auth/sign-up [post]
func (h *AuthHandler) SignUp(c echo.Context) error {
	var req signUpRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.authService.Register(c.Request().Context(), req.Username, req.Password, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			metrics.SignUpsTotal.WithLabelValues("duplicate").Inc()
		} else {
			metrics.SignUpsTotal.WithLabelValues("error").Inc()
		}
		return err
	}

	metrics.SignUpsTotal.WithLabelValues("created").Inc()
	return c.JSON(http.StatusCreated, userResponse{
		Username:  user.Username,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	})
}

// SignIn authenticates a user. The token is returned in the Authorization
// response header; the body is empty.
//
// @Summary      Sign in
// @Tags         auth
// @Accept       json
// @Param        body  body      signInRequest  true  "Login credentials"
// @Success      200   {string}  string  "Authorization: Bearer <token>"
// @Failure      400   {object}  map[string]string
// @Failure      401   "invalid credentials or disabled account"
// @Failure      429   {object}  map[string]string
// @Router       /api/auth/sign-in [post]
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req signInRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			metrics.SignInsTotal.WithLabelValues("invalid_credentials").Inc()
		case errors.Is(err, domain.ErrAccountDisabled):
			metrics.SignInsTotal.WithLabelValues("disabled").Inc()
		default:
			metrics.SignInsTotal.WithLabelValues("error").Inc()
		}
		return err
	}

	metrics.SignInsTotal.WithLabelValues("success").Inc()
	c.Response().Header().Set(echo.HeaderAuthorization, middleware.BearerPrefix+token)
	return c.NoContent(http.StatusOK)
}
