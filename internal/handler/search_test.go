package handler

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propcover/insurance-master/internal/config"
	"github.com/propcover/insurance-master/internal/repository"
)

// The policy repo lives in the Policies field, so the endpoint methods
// carry their own names and both must stay reachable on the handler.
func TestSearchHandlerSurface(t *testing.T) {
	h := NewSearchHandler(config.Config{ExpiringSoonDays: 30}, repository.NewPolicyRepo(nil))
	require.NotNil(t, h.Policies)

	var search echo.HandlerFunc = h.SearchPolicies
	var suggest echo.HandlerFunc = h.Suggestions
	assert.NotNil(t, search)
	assert.NotNil(t, suggest)
}

// A query under two characters answers with an empty list before any
// repository call, so a nil DB here proves the short circuit.
func TestSuggestionsShortQuery(t *testing.T) {
	h := NewSearchHandler(config.Config{}, repository.NewPolicyRepo(nil))
	e := echo.New()

	for _, q := range []string{"", "a", " a "} {
		req := httptest.NewRequest(http.MethodGet, "/v1/search/suggestions?q="+url.QueryEscape(q), nil)
		rec := httptest.NewRecorder()

		require.NoError(t, h.Suggestions(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"suggestions":[]}`, rec.Body.String())
	}
}

func TestAtoiDefault(t *testing.T) {
	assert.Equal(t, 7, atoiDefault("", 7))
	assert.Equal(t, 3, atoiDefault("3", 7))
	assert.Equal(t, 7, atoiDefault("three", 7))
	assert.Equal(t, -1, atoiDefault("-1", 7))
}
