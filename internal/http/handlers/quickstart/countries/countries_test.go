package countries

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountriesHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	New(slog.New(slog.NewTextHandler(io.Discard, nil))).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/quickstart/countries", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var got struct {
		Data []Item `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	require.NotEmpty(t, got.Data)

	byCode := map[string]Item{}
	for _, it := range got.Data {
		byCode[it.Code] = it
	}
	assert.True(t, byCode["es-mx"].HasCities)
	assert.Len(t, byCode["es-mx"].Cities, 10)
	assert.False(t, byCode["es-ar"].HasCities)
	assert.NotNil(t, byCode["es-ar"].Cities)
}
