package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/andreafabbri97/restaurant-manager/internal/utils"
)

const testSecret = "test-secret"

func runProtected(t *testing.T, authHeader string, mw ...echo.MiddlewareFunc) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	e := echo.New()
	captured := map[string]interface{}{}
	h := func(c echo.Context) error {
		captured["user_id"] = c.Get("user_id")
		captured["role"] = c.Get("role")
		return c.String(http.StatusOK, "ok")
	}
	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, captured
}

func TestJWTAuthAcceptsValidToken(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, 42, "STAFF", 5)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	rec, captured := runProtected(t, "Bearer "+tok.Token, JWTAuth(testSecret))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if uid, _ := captured["user_id"].(uint64); uid != 42 {
		t.Fatalf("expected user_id 42, got %v", captured["user_id"])
	}
	if role, _ := captured["role"].(string); role != "STAFF" {
		t.Fatalf("expected role STAFF, got %v", captured["role"])
	}
}

func TestJWTAuthRejectsMissingAndBadTokens(t *testing.T) {
	if rec, _ := runProtected(t, "", JWTAuth(testSecret)); rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing header: expected 401, got %d", rec.Code)
	}
	if rec, _ := runProtected(t, "Bearer not-a-token", JWTAuth(testSecret)); rec.Code != http.StatusUnauthorized {
		t.Fatalf("garbage token: expected 401, got %d", rec.Code)
	}
	tok, err := utils.NewAccessToken("other-secret", 42, "STAFF", 5)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	if rec, _ := runProtected(t, "Bearer "+tok.Token, JWTAuth(testSecret)); rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong secret: expected 401, got %d", rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	staff, err := utils.NewAccessToken(testSecret, 1, "STAFF", 5)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}

	rec, _ := runProtected(t, "Bearer "+staff.Token, JWTAuth(testSecret), RequireRole("ADMIN", "STAFF"))
	if rec.Code != http.StatusOK {
		t.Fatalf("staff on staff route: expected 200, got %d", rec.Code)
	}

	rec, _ = runProtected(t, "Bearer "+staff.Token, JWTAuth(testSecret), RequireRole("ADMIN"))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("staff on admin route: expected 403, got %d", rec.Code)
	}
}
