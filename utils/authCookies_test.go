package utils

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestSetAuthCookies(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/login", nil)

	SetAuthCookies(c, "access-value", "refresh-value")

	cookies := rec.Result().Cookies()
	if len(cookies) != 2 {
		t.Fatalf("got %d cookies, want 2", len(cookies))
	}
	byName := map[string]*http.Cookie{}
	for _, ck := range cookies {
		byName[ck.Name] = ck
	}

	access, ok := byName["accessToken"]
	if !ok || access.Value != "access-value" {
		t.Fatalf("accessToken cookie missing or wrong: %+v", access)
	}
	if !access.HttpOnly {
		t.Error("accessToken cookie is not httpOnly")
	}
	if access.MaxAge != int(AccessTokenExpiry.Seconds()) {
		t.Errorf("accessToken MaxAge = %d, want %d", access.MaxAge, int(AccessTokenExpiry.Seconds()))
	}

	refresh, ok := byName["refreshToken"]
	if !ok || refresh.Value != "refresh-value" {
		t.Fatalf("refreshToken cookie missing or wrong: %+v", refresh)
	}
	if refresh.MaxAge != int(RefreshTokenExpiry.Seconds()) {
		t.Errorf("refreshToken MaxAge = %d, want %d", refresh.MaxAge, int(RefreshTokenExpiry.Seconds()))
	}
}

func TestClearAuthCookies(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/logoff", nil)

	ClearAuthCookies(c)

	for _, ck := range rec.Result().Cookies() {
		if !strings.HasSuffix(ck.Name, "Token") {
			continue
		}
		if ck.Value != "" || ck.MaxAge >= 0 {
			t.Errorf("cookie %s not cleared: value=%q maxAge=%d", ck.Name, ck.Value, ck.MaxAge)
		}
	}
	if got := len(rec.Result().Cookies()); got != 2 {
		t.Fatalf("got %d cookies, want 2", got)
	}
}
