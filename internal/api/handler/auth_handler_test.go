package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/examready/identity-api/internal/core/domain"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, username, password, email string) (*domain.User, error)
	loginFn    func(ctx context.Context, username, password string) (string, error)
}

func (s *stubAuthService) Register(ctx context.Context, username, password, email string) (*domain.User, error) {
	return s.registerFn(ctx, username, password, email)
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (string, error) {
	return s.loginFn(ctx, username, password)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func newJSONContext(e *echo.Echo, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func expectHTTPError(t *testing.T, err error, code int) *echo.HTTPError {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	if he.Code != code {
		t.Fatalf("expected %d, got %d (%v)", code, he.Code, he.Message)
	}
	return he
}

func TestAuthHandler_SignUp_Success(t *testing.T) {
	e := newTestEcho()
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, username, password, email string) (*domain.User, error) {
			if username != "alice" || password != "password123" || email != "a@x.com" {
				t.Fatalf("unexpected args: %s %s %s", username, password, email)
			}
			return &domain.User{
				ID:           "id-1",
				Username:     username,
				Email:        email,
				PasswordHash: "$2a$10$hash",
				Role:         domain.RoleUser,
				Enabled:      true,
				CreatedAt:    created,
			}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newJSONContext(e, "/api/auth/sign-up", `{"username":"alice","password":"password123","email":"a@x.com"}`)
	if err := handler.SignUp(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["username"] != "alice" || resp["email"] != "a@x.com" || resp["role"] != "USER" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if resp["createdAt"] != "2026-03-01T12:00:00Z" {
		t.Fatalf("unexpected createdAt: %v", resp["createdAt"])
	}
	for _, secret := range []string{"password", "passwordHash", "PasswordHash", "id"} {
		if _, ok := resp[secret]; ok {
			t.Fatalf("response must not contain %q", secret)
		}
	}
}

func TestAuthHandler_SignUp_Duplicate(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, username, password, email string) (*domain.User, error) {
			return nil, &domain.DuplicateUsernameError{Username: username}
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := newJSONContext(e, "/api/auth/sign-up", `{"username":"alice","password":"password123","email":"a@x.com"}`)
	err := handler.SignUp(c)
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthHandler_SignUp_Validation(t *testing.T) {
	cases := map[string]string{
		"invalid json":      `not-json`,
		"short username":    `{"username":"al","password":"password123","email":"a@x.com"}`,
		"long username":     `{"username":"abcdefghijklmnopqrstu","password":"password123","email":"a@x.com"}`,
		"short password":    `{"username":"alice","password":"short","email":"a@x.com"}`,
		"bad email":         `{"username":"alice","password":"password123","email":"not-an-email"}`,
		"missing email":     `{"username":"alice","password":"password123"}`,
		"blank username":    `{"username":"   ","password":"password123","email":"a@x.com"}`,
		"blank password":    `{"username":"alice","password":"          ","email":"a@x.com"}`,
		"password 73 bytes": `{"username":"alice","password":"` + strings.Repeat("a", 73) + `","email":"a@x.com"}`,
		"password 80 bytes": `{"username":"alice","password":"` + strings.Repeat("é", 40) + `","email":"a@x.com"}`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			e := newTestEcho()
			stub := &stubAuthService{
				registerFn: func(ctx context.Context, username, password, email string) (*domain.User, error) {
					t.Fatalf("should not be called")
					return nil, nil
				},
			}
			c, _ := newJSONContext(e, "/api/auth/sign-up", body)
			expectHTTPError(t, NewAuthHandler(stub).SignUp(c), http.StatusBadRequest)
		})
	}
}

func TestAuthHandler_SignIn_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, username, password string) (string, error) {
			if username != "alice" || password != "password123" {
				t.Fatalf("unexpected args: %s %s", username, password)
			}
			return "token123", nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newJSONContext(e, "/api/auth/sign-in", `{"username":"alice","password":"password123"}`)
	if err := handler.SignIn(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get(echo.HeaderAuthorization); got != "Bearer token123" {
		t.Fatalf("unexpected Authorization header: %q", got)
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("expected empty body, got %q", rec.Body.String())
	}
}

func TestAuthHandler_SignIn_Failures(t *testing.T) {
	for _, want := range []error{domain.ErrInvalidCredentials, domain.ErrAccountDisabled} {
		e := newTestEcho()
		stub := &stubAuthService{
			loginFn: func(ctx context.Context, username, password string) (string, error) {
				return "", want
			},
		}

		c, rec := newJSONContext(e, "/api/auth/sign-in", `{"username":"alice","password":"password123"}`)
		if err := NewAuthHandler(stub).SignIn(c); !errors.Is(err, want) {
			t.Fatalf("expected %v, got %v", want, err)
		}
		if rec.Header().Get(echo.HeaderAuthorization) != "" {
			t.Fatalf("no token may be issued on failure")
		}
	}
}

func TestAuthHandler_SignIn_Validation(t *testing.T) {
	cases := map[string]string{
		"invalid json":      `{`,
		"short username":    `{"username":"al","password":"password123"}`,
		"short password":    `{"username":"alice","password":"pass"}`,
		"long password":     `{"username":"alice","password":"` + strings.Repeat("a", 31) + `"}`,
		"unsupported chars": `{"username":"alice","password":"pässword123"}`,
		"whitespace":        `{"username":"alice","password":"pass word123"}`,
		"blank username":    `{"username":"    ","password":"password123"}`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			e := newTestEcho()
			stub := &stubAuthService{
				loginFn: func(ctx context.Context, username, password string) (string, error) {
					t.Fatalf("should not be called")
					return "", nil
				},
			}
			c, _ := newJSONContext(e, "/api/auth/sign-in", body)
			expectHTTPError(t, NewAuthHandler(stub).SignIn(c), http.StatusBadRequest)
		})
	}
}

func TestValidator_PasswordCharset(t *testing.T) {
	for _, ok := range []string{"password123", `P@ss!#$%^&*()_+-=[]{};':"\|,.<>/?`} {
		if !passwordCharset.MatchString(ok) {
			t.Fatalf("%q should be accepted", ok)
		}
	}
	for _, bad := range []string{"pass word", "pässword", "tab\tpass"} {
		if passwordCharset.MatchString(bad) {
			t.Fatalf("%q should be rejected", bad)
		}
	}
}

func TestAuthHandler_SignUp_PasswordAtBcryptLimit(t *testing.T) {
	e := newTestEcho()
	password := strings.Repeat("a", maxPasswordBytes)
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, username, pw, email string) (*domain.User, error) {
			if pw != password {
				t.Fatalf("password not passed through")
			}
			return &domain.User{Username: username, Email: email, Role: domain.RoleUser}, nil
		},
	}

	c, rec := newJSONContext(e, "/api/auth/sign-up", `{"username":"alice","password":"`+password+`","email":"a@x.com"}`)
	if err := NewAuthHandler(stub).SignUp(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestAuthHandler_SignUp_PasswordTooLongMessage(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{}

	c, _ := newJSONContext(e, "/api/auth/sign-up", `{"username":"alice","password":"`+strings.Repeat("a", 80)+`","email":"a@x.com"}`)
	he := expectHTTPError(t, NewAuthHandler(stub).SignUp(c), http.StatusBadRequest)
	if msg, _ := he.Message.(string); msg != "password must be at most 72 bytes" {
		t.Fatalf("unexpected message: %v", he.Message)
	}
}
