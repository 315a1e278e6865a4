package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mangiato/internal/jwt"
	"mangiato/internal/models"
	"mangiato/internal/register"
	"mangiato/internal/service"
)

type fakeUserService struct {
	registerErr error
	confirmResp *models.ConfirmationResponse
	confirmErr  error
	registered  []models.RegistrationRequest
	loginErr    error
}

func (f *fakeUserService) Register(_ context.Context, req *models.RegistrationRequest) (*models.MessageResponse, error) {
	f.registered = append(f.registered, *req)
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return &models.MessageResponse{Response: models.MsgMailSent}, nil
}

func (f *fakeUserService) Confirm(context.Context, string) (*models.ConfirmationResponse, error) {
	return f.confirmResp, f.confirmErr
}

func (f *fakeUserService) Login(context.Context, string, string) (*models.LoginResponse, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &models.LoginResponse{Token: "signed", Duration: 600}, nil
}

func (f *fakeUserService) ConfirmationLink(token string) string {
	return "https://mangiato.test/v1/users/confirm/" + token
}

func newTestRouter(svc service.UserService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	uc := NewUserController(svc, zap.NewNop())
	router := gin.New()
	router.POST("/v1/users/", uc.CreateUser)
	router.GET("/v1/users/confirm/:token", uc.ConfirmEmail)
	router.POST("/v1/login/", uc.Login)
	return router
}

func postJSON(router http.Handler, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/users/", strings.NewReader(body))
	req.Header.Set("Content-Type", register.ContentTypeJSON)
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("invalid JSON %q: %v", w.Body.String(), err)
	}
	return v
}

const validBody = `{"first_name":"Ann","last_name":"Lee","username":"ann@example.com","password":"pw123"}`

func TestCreateUser(t *testing.T) {
	svc := &fakeUserService{}
	w := postJSON(newTestRouter(svc), validBody)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body)
	}
	if got := decode[models.MessageResponse](t, w); got.Response != models.MsgMailSent {
		t.Errorf("response = %q", got.Response)
	}
	if len(svc.registered) != 1 || svc.registered[0].FirstName != "Ann" {
		t.Errorf("unexpected registrations %+v", svc.registered)
	}
}

func TestCreateUserAcceptsEmptyNames(t *testing.T) {
	svc := &fakeUserService{}
	w := postJSON(newTestRouter(svc), `{"first_name":"","last_name":"","username":"ann@example.com","password":"pw123"}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body)
	}
	if len(svc.registered) != 1 || svc.registered[0].FirstName != "" {
		t.Errorf("unexpected registrations %+v", svc.registered)
	}
}

func TestCreateUserErrors(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		svcErr    error
		wantCode  int
		wantError string
	}{
		{"malformed", `{"first_name":`, nil, http.StatusBadRequest, "Invalid request body"},
		{"empty fields", `{"first_name":"","last_name":"","username":"","password":""}`, nil, http.StatusBadRequest, "Invalid request body"},
		{"empty password", `{"first_name":"Ann","last_name":"Lee","username":"ann@example.com","password":""}`, nil, http.StatusBadRequest, "Invalid request body"},
		{"not an email", `{"first_name":"Ann","last_name":"Lee","username":"alee","password":"pw123"}`, nil, http.StatusNotAcceptable, models.MsgNoFormatEmail},
		{"conflict", validBody, service.ErrUserExists, http.StatusConflict, models.MsgExistingUser},
		{"internal", validBody, errors.New("boom"), http.StatusInternalServerError, models.MsgInternalError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(newTestRouter(&fakeUserService{registerErr: tt.svcErr}), tt.body)
			if w.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.wantCode, w.Body)
			}
			if got := decode[models.ErrorResponse](t, w); got.Error != tt.wantError {
				t.Errorf("error = %q, want %q", got.Error, tt.wantError)
			}
		})
	}
}

func TestConfirmEmail(t *testing.T) {
	tests := []struct {
		name     string
		svc      *fakeUserService
		wantCode int
		wantKey  string
		wantText string
	}{
		{"confirmed", &fakeUserService{confirmResp: &models.ConfirmationResponse{IDUser: 4, Response: "ok"}}, http.StatusOK, "response", "ok"},
		{"invalid", &fakeUserService{confirmErr: service.ErrInvalidToken}, http.StatusNotFound, "error", models.MsgInvalidLink},
		{"gone", &fakeUserService{confirmErr: service.ErrUserNotFound}, http.StatusNotFound, "error", models.MsgNoUserLink},
		{"internal", &fakeUserService{confirmErr: errors.New("boom")}, http.StatusInternalServerError, "error", models.MsgInternalError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			router := newTestRouter(tt.svc)
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/users/confirm/abc", nil))

			if w.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantCode)
			}
			body := decode[map[string]any](t, w)
			if body[tt.wantKey] != tt.wantText {
				t.Errorf("%s = %v, want %q", tt.wantKey, body[tt.wantKey], tt.wantText)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name      string
		basicAuth bool
		svcErr    error
		wantCode  int
		wantError string
		challenge bool
	}{
		{"ok", true, nil, http.StatusOK, "", false},
		{"no credentials", false, nil, http.StatusUnauthorized, models.MsgUnauthorized, true},
		{"bad credentials", true, service.ErrInvalidCredentials, http.StatusUnauthorized, models.MsgUnauthorized, true},
		{"not confirmed", true, service.ErrNotConfirmed, http.StatusUnauthorized, models.MsgNotConfirmed, false},
		{"internal", true, errors.New("boom"), http.StatusInternalServerError, models.MsgInternalError, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/login/", nil)
			if tt.basicAuth {
				req.SetBasicAuth("ann@example.com", "pw123")
			}
			w := httptest.NewRecorder()
			newTestRouter(&fakeUserService{loginErr: tt.svcErr}).ServeHTTP(w, req)

			if w.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.wantCode, w.Body)
			}
			if got := w.Header().Get("WWW-Authenticate") != ""; got != tt.challenge {
				t.Errorf("challenge header present = %v, want %v", got, tt.challenge)
			}
			if tt.wantError == "" {
				if got := decode[models.LoginResponse](t, w); got.Token != "signed" || got.Duration != 600 {
					t.Errorf("response = %+v", got)
				}
				return
			}
			if got := decode[models.ErrorResponse](t, w); got.Error != tt.wantError {
				t.Errorf("error = %q, want %q", got.Error, tt.wantError)
			}
		})
	}
}

func TestConfirmationQRCode(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tokens := jwt.NewJWTService("secret", time.Hour, 10*time.Minute)
	qc := NewQRCodeController(&fakeUserService{}, tokens)
	router := gin.New()
	router.GET("/v1/users/confirm/:token/qrcode", qc.ConfirmationQRCode)

	token, err := tokens.GenerateConfirmationToken("ann@example.com")
	if err != nil {
		t.Fatal(err)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/users/confirm/"+token+"/qrcode", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("content type = %q", ct)
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("\x89PNG")) {
		t.Error("body is not a PNG")
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/users/confirm/bogus/qrcode", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("bogus token status = %d", w.Code)
	}
}

func TestRegisterFormExpandsEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := register.DefaultConfig()
	cfg.ShowErrors = true
	pc := NewPageController("https://mangiato.test", cfg, "/static/register.js")
	router := gin.New()
	router.GET("/register", pc.RegisterForm)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/register", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	page := w.Body.String()
	for _, want := range []string{
		`data-endpoint="https://mangiato.test/v1/users/"`,
		`data-prevent-default="true"`,
		`data-response-mode="json"`,
		`data-show-errors="true"`,
		`id="firstname"`, `id="lastname"`, `id="username"`, `id="password"`,
		`id="response"`,
		`src="/static/register.js"`,
	} {
		if !strings.Contains(page, want) {
			t.Errorf("page missing %s", want)
		}
	}
}
