package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/anonto42/gammy/backend/internal/models"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret, role string, expires time.Time) string {
	t.Helper()
	claims := &models.JwtCustomClaims{
		UserID: 42,
		Email:  "u@example.com",
		Name:   "U",
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestParseToken(t *testing.T) {
	good := signToken(t, testSecret, models.RoleUser, time.Now().Add(time.Hour))
	claims, err := ParseToken(good, testSecret)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.UserID != 42 || claims.Role != models.RoleUser {
		t.Fatalf("claims = %+v", claims)
	}

	if _, err := ParseToken(good, "other-secret"); err == nil {
		t.Error("wrong secret accepted")
	}
	expired := signToken(t, testSecret, models.RoleUser, time.Now().Add(-time.Hour))
	if _, err := ParseToken(expired, testSecret); err == nil {
		t.Error("expired token accepted")
	}
	if _, err := ParseToken("garbage", testSecret); err == nil {
		t.Error("garbage accepted")
	}
}

// run executes handler behind mw and returns the status and the handler's context.
func run(t *testing.T, req *http.Request, mw ...echo.MiddlewareFunc) (int, echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	var seen echo.Context
	h := func(c echo.Context) error {
		seen = c
		return c.NoContent(http.StatusNoContent)
	}
	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}
	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec.Code, seen, rec
}

func TestJWTAuthMiddleware(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"invalid", "Bearer nope", http.StatusUnauthorized},
		{"valid", "Bearer " + signToken(t, testSecret, models.RoleUser, time.Now().Add(time.Hour)), http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			code, _, _ := run(t, req, JWTAuthMiddleware(testSecret))
			if code != tt.want {
				t.Fatalf("status = %d, want %d", code, tt.want)
			}
		})
	}
}

func TestOptionalJWTAuthIgnoresBadTokens(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer nope")
	code, c, _ := run(t, req, OptionalJWTAuth(testSecret))
	if code != http.StatusNoContent || c.Get(UserContextKey) != nil {
		t.Fatalf("status %d, claims %v", code, c.Get(UserContextKey))
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, models.RoleUser, time.Now().Add(time.Hour)))
	_, c, _ = run(t, req, OptionalJWTAuth(testSecret))
	if claims, ok := c.Get(UserContextKey).(*models.JwtCustomClaims); !ok || claims.UserID != 42 {
		t.Fatal("valid token must attach claims")
	}
}

func TestRequireAdmin(t *testing.T) {
	for role, want := range map[string]int{models.RoleUser: http.StatusForbidden, models.RoleAdmin: http.StatusNoContent} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, role, time.Now().Add(time.Hour)))
		if code, _, _ := run(t, req, JWTAuthMiddleware(testSecret), RequireAdmin()); code != want {
			t.Errorf("role %s: status = %d, want %d", role, code, want)
		}
	}
}

func TestAnonymousKey(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.RemoteAddr = "203.0.113.9:5555"
	_, c, _ := run(t, req, AnonymousKey(AnonKeyFuncFor(AnonKeyIP)))
	if got := c.Get(AnonKeyContextKey); got != "ip:203.0.113.9" {
		t.Fatalf("ip key = %v", got)
	}

	req = httptest.NewRequest(http.MethodPost, "/", nil)
	_, c, rec := run(t, req, AnonymousKey(AnonKeyFuncFor(AnonKeyToken)))
	key, _ := c.Get(AnonKeyContextKey).(string)
	if !strings.HasPrefix(key, "token:") {
		t.Fatalf("token key = %q", key)
	}
	cookie := rec.Result().Cookies()
	if len(cookie) != 1 || cookie[0].Name != ClientTokenCookie || "token:"+cookie[0].Value != key {
		t.Fatalf("issued cookies = %v", cookie)
	}

	req = httptest.NewRequest(http.MethodPost, "/", nil)
	req.AddCookie(&http.Cookie{Name: ClientTokenCookie, Value: cookie[0].Value})
	_, c, _ = run(t, req, AnonymousKey(TokenKey))
	if c.Get(AnonKeyContextKey) != key {
		t.Fatal("returning client must keep its key")
	}

	req = httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, models.RoleUser, time.Now().Add(time.Hour)))
	_, c, _ = run(t, req, OptionalJWTAuth(testSecret), AnonymousKey(IPKey))
	if c.Get(AnonKeyContextKey) != nil {
		t.Fatal("authenticated requests get no anonymous key")
	}
}
