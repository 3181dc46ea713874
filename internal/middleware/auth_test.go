package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propcover/insurance-master/internal/utils"
)

const testSecret = "test-secret"

func echoRequest(t *testing.T, authHeader string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/board", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func okHandler(c echo.Context) error { return c.NoContent(http.StatusOK) }

func TestJWTAuthAcceptsValidToken(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, 42, "STAFF", 5)
	require.NoError(t, err)

	c, rec := echoRequest(t, "Bearer "+tok.Token)
	err = JWTAuth(testSecret)(okHandler)(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "STAFF", c.Get("role"))
	assert.EqualValues(t, 42, c.Get("user_id"))
}

func TestJWTAuthRejectsMissingHeader(t *testing.T) {
	c, rec := echoRequest(t, "")
	require.NoError(t, JWTAuth(testSecret)(okHandler)(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthRejectsWrongSecret(t *testing.T) {
	tok, err := utils.NewAccessToken("other-secret", 42, "STAFF", 5)
	require.NoError(t, err)

	c, rec := echoRequest(t, "Bearer "+tok.Token)
	require.NoError(t, JWTAuth(testSecret)(okHandler)(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole(t *testing.T) {
	cases := []struct {
		role     any
		allowed  []string
		wantCode int
	}{
		{"ADMIN", []string{"ADMIN"}, http.StatusOK},
		{"STAFF", []string{"ADMIN", "STAFF"}, http.StatusOK},
		{"STAFF", []string{"ADMIN"}, http.StatusForbidden},
		{nil, []string{"ADMIN", "STAFF"}, http.StatusForbidden},
		{42, []string{"ADMIN"}, http.StatusForbidden},
	}
	for _, tc := range cases {
		c, rec := echoRequest(t, "")
		if tc.role != nil {
			c.Set("role", tc.role)
		}
		require.NoError(t, RequireRole(tc.allowed...)(okHandler)(c))
		assert.Equal(t, tc.wantCode, rec.Code, "role=%v allowed=%v", tc.role, tc.allowed)
	}
}
