package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mangiato/internal/controllers"
	"mangiato/internal/jwt"
	"mangiato/internal/middleware"
	"mangiato/internal/models"
	"mangiato/internal/register"
	"mangiato/internal/service"
)

type stubUserService struct{}

func (stubUserService) Register(context.Context, *models.RegistrationRequest) (*models.MessageResponse, error) {
	return &models.MessageResponse{Response: models.MsgMailSent}, nil
}

func (stubUserService) Confirm(context.Context, string) (*models.ConfirmationResponse, error) {
	return &models.ConfirmationResponse{Response: models.MsgAlreadyConfirmed}, nil
}

func (stubUserService) Login(_ context.Context, username, password string) (*models.LoginResponse, error) {
	if username != "ann@example.com" || password != "pw123" {
		return nil, service.ErrInvalidCredentials
	}
	return &models.LoginResponse{Token: "token", Duration: 600}, nil
}

func (stubUserService) ConfirmationLink(token string) string { return "/v1/users/confirm/" + token }

func testRouter(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := stubUserService{}
	limiter := middleware.NewRateLimiter(100, 100, zap.NewNop())
	t.Cleanup(limiter.Stop)
	return newRouter(
		controllers.NewUserController(svc, zap.NewNop()),
		controllers.NewQRCodeController(svc, jwt.NewJWTService("secret", time.Hour, 10*time.Minute)),
		controllers.NewPageController("", register.DefaultConfig(), ""),
		limiter,
	)
}

func TestRoutes(t *testing.T) {
	router := testRouter(t)

	tests := []struct {
		method string
		path   string
		body   string
		want   int
	}{
		{http.MethodGet, "/health", "", http.StatusOK},
		{http.MethodGet, "/register", "", http.StatusOK},
		{http.MethodPost, "/v1/users/", `{"first_name":"Ann","last_name":"Lee","username":"ann@example.com","password":"pw123"}`, http.StatusCreated},
		{http.MethodGet, "/v1/users/confirm/abc", "", http.StatusOK},
		{http.MethodGet, "/v1/users/confirm/abc/qrcode", "", http.StatusNotFound},
		{http.MethodPost, "/v1/login/", "", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
		if tt.body != "" {
			req.Header.Set("Content-Type", register.ContentTypeJSON)
		}
		router.ServeHTTP(w, req)
		if w.Code != tt.want {
			t.Errorf("%s %s: status %d, want %d", tt.method, tt.path, w.Code, tt.want)
		}
	}
}

// The page and the form handler agree on the endpoint without the client
// computing anything.
func TestRegisterPageDrivesFormHandler(t *testing.T) {
	srv := httptest.NewServer(testRouter(t))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/register")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("page status %d", resp.StatusCode)
	}

	cfg := register.DefaultConfig()
	cfg.Endpoint = srv.URL + "/v1/users/"
	display := &register.MemoryDisplay{}
	fields := register.FieldMap{
		register.FieldFirstName: "Ann",
		register.FieldLastName:  "Lee",
		register.FieldUsername:  "ann@example.com",
		register.FieldPassword:  "pw123",
	}
	h := register.NewFormSubmitHandler(cfg, fields, register.NewClient(cfg, register.NewFastHTTPTransport(nil), nil), display, nil)

	h.HandleSubmit(nil)
	h.Wait()

	if display.Text() != models.MsgMailSent || !display.Visible() {
		t.Errorf("display = %q visible=%v", display.Text(), display.Visible())
	}
}

func TestLoginRoute(t *testing.T) {
	router := testRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/login/", nil)
	req.SetBasicAuth("ann@example.com", "pw123")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", w.Code, w.Body)
	}
	if !strings.Contains(w.Body.String(), `"duration":600`) {
		t.Errorf("body = %s", w.Body)
	}
}
