package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/anonto42/recipe-share/backend/pkg/token"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTAuthMiddleware(t *testing.T) {
	tokens, err := token.NewManager("secret", time.Hour)
	require.NoError(t, err)
	valid, err := tokens.Issue("user-1", "cook@example.com")
	require.NoError(t, err)

	expiredMgr, err := token.NewManager("secret", -time.Hour)
	require.NoError(t, err)
	expired, err := expiredMgr.Issue("user-1", "cook@example.com")
	require.NoError(t, err)

	otherMgr, err := token.NewManager("other", time.Hour)
	require.NoError(t, err)
	forged, err := otherMgr.Issue("user-1", "cook@example.com")
	require.NoError(t, err)

	tests := []struct {
		name    string
		header  string
		status  int
		message string
	}{
		{name: "valid", header: "Bearer " + valid, status: http.StatusOK},
		{name: "lowercase scheme", header: "bearer " + valid, status: http.StatusOK},
		{name: "missing header", header: "", status: http.StatusUnauthorized, message: "Access denied"},
		{name: "wrong scheme", header: "Basic abc", status: http.StatusUnauthorized, message: "Access denied"},
		{name: "scheme only", header: "Bearer", status: http.StatusUnauthorized, message: "Access denied"},
		{name: "malformed", header: "Bearer nonsense", status: http.StatusUnauthorized, message: "Invalid token"},
		{name: "expired", header: "Bearer " + expired, status: http.StatusUnauthorized, message: "Invalid token"},
		{name: "bad signature", header: "Bearer " + forged, status: http.StatusUnauthorized, message: "Invalid token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			called := false
			h := JWTAuthMiddleware(tokens)(func(c echo.Context) error {
				called = true
				identity, ok := IdentityFrom(c)
				require.True(t, ok)
				assert.Equal(t, "user-1", identity.ID)
				return c.NoContent(http.StatusOK)
			})

			err := h(c)
			if tt.status == http.StatusOK {
				require.NoError(t, err)
				assert.True(t, called)
				return
			}

			assert.False(t, called)
			var he *echo.HTTPError
			require.ErrorAs(t, err, &he)
			assert.Equal(t, tt.status, he.Code)
			assert.Equal(t, tt.message, he.Message)
		})
	}
}

func TestIdentityFromMissing(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	_, ok := IdentityFrom(c)
	assert.False(t, ok)
}
