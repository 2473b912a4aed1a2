package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aloks98/devconnector/token"
)

func TestExtractFromHeader(t *testing.T) {
	tests := []struct {
		name   string
		header string
		value  string
		scheme string
		want   string
	}{
		{"raw header", "x-auth-token", "abc", "", "abc"},
		{"raw header trimmed", "x-auth-token", "  abc ", "", "abc"},
		{"bearer", "Authorization", "Bearer abc", "Bearer", "abc"},
		{"bearer case insensitive", "Authorization", "bearer abc", "Bearer", "abc"},
		{"wrong scheme", "Authorization", "Basic abc", "Bearer", ""},
		{"scheme only", "Authorization", "Bearer ", "Bearer", ""},
		{"missing", "Authorization", "", "Bearer", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.value != "" {
				r.Header.Set(tt.header, tt.value)
			}
			assert.Equal(t, tt.want, ExtractFromHeader(tt.header, tt.scheme)(r))
		})
	}
}

func TestExtractFromQueryAndCookie(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?token=q", nil)
	r.AddCookie(&http.Cookie{Name: "session", Value: "c"})

	assert.Equal(t, "q", ExtractFromQuery("token")(r))
	assert.Equal(t, "c", ExtractFromCookie("session")(r))
	assert.Empty(t, ExtractFromCookie("other")(r))
}

func TestDefaultConfig_PrefersAuthTokenHeader(t *testing.T) {
	extract := DefaultConfig().TokenExtractor

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer from-bearer")
	assert.Equal(t, "from-bearer", extract(r))

	r.Header.Set(DefaultTokenHeader, "from-header")
	assert.Equal(t, "from-header", extract(r))
}

func TestDefaultErrorHandler(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{ErrMissingToken, `{"msg":"No token, authorization denied"}`},
		{token.ErrInvalidToken, `{"msg":"Token is not valid"}`},
		{token.ErrExpiredToken, `{"msg":"Token is not valid"}`},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		DefaultErrorHandler(rec, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.JSONEq(t, tt.want, rec.Body.String())
	}
}

func TestErrorToHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusOK, ErrorToHTTPStatus(nil))
	assert.Equal(t, http.StatusUnauthorized, ErrorToHTTPStatus(ErrMissingToken))
	assert.Equal(t, http.StatusUnauthorized, ErrorToHTTPStatus(token.ErrExpiredToken))
}

func TestDefaultExtractor_ExtraSourcesComeLast(t *testing.T) {
	extract := DefaultExtractor(ExtractFromQuery("token"), ExtractFromCookie("session"))

	r := httptest.NewRequest(http.MethodGet, "/?token=from-query", nil)
	r.AddCookie(&http.Cookie{Name: "session", Value: "from-cookie"})
	assert.Equal(t, "from-query", extract(r))

	r.Header.Set("Authorization", "Bearer from-bearer")
	assert.Equal(t, "from-bearer", extract(r))

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "session", Value: "from-cookie"})
	assert.Equal(t, "from-cookie", extract(r))
}

func TestIdentityContext(t *testing.T) {
	_, ok := IdentityFrom(context.Background())
	assert.False(t, ok)

	ctx := WithIdentity(context.Background(), token.Identity{UserID: "u-1"})
	id, ok := IdentityFrom(ctx)
	assert.True(t, ok)
	assert.Equal(t, "u-1", id.UserID)
}
