package google_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/golfkart/golfkart/internal/adapters/google"
	"github.com/golfkart/golfkart/internal/core/domain"
)

func TestWeatherClient_Current(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/currentConditions:lookup", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		assert.Equal(t, "59.95", r.URL.Query().Get("location.latitude"))
		assert.Equal(t, "10.65", r.URL.Query().Get("location.longitude"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"temperature": {"degrees": 14.2, "unit": "CELSIUS"},
			"feelsLikeTemperature": {"degrees": 12.9},
			"weatherCondition": {"description": {"text": "Partly cloudy"}, "type": "PARTLY_CLOUDY"},
			"wind": {"speed": {"value": 11, "unit": "KILOMETERS_PER_HOUR"}, "direction": {"degrees": 225, "cardinal": "SOUTHWEST"}},
			"relativeHumidity": 71,
			"precipitation": {"probability": {"percent": 20}},
			"uvIndex": 3,
			"visibility": {"distance": 16}
		}`))
	}))
	defer srv.Close()

	c := google.NewWeatherClient(srv.URL+"/v1", "test-key", time.Second)
	w, err := c.Current(context.Background(), domain.Coordinate{Latitude: 59.95, Longitude: 10.65})
	require.NoError(t, err)

	assert.Equal(t, 14.2, w.Temperature)
	assert.Equal(t, 12.9, w.FeelsLike)
	assert.Equal(t, "Partly cloudy", w.Condition)
	assert.Equal(t, "PARTLY_CLOUDY", w.Icon)
	assert.Equal(t, 225.0, w.WindDirection)
	assert.Equal(t, 71.0, w.Humidity)
	assert.Equal(t, 20.0, w.PrecipitationChance)
	assert.Equal(t, 16.0, w.Visibility)
	assert.False(t, w.UpdatedAt.IsZero())
}

func TestWeatherClient_EmptyResponseDefaults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	w, err := google.NewWeatherClient(srv.URL, "k", time.Second).Current(context.Background(), domain.Coordinate{Latitude: 60, Longitude: 10})
	require.NoError(t, err)
	assert.Equal(t, "Unknown", w.Condition)
	assert.Equal(t, "unknown", w.Icon)
	assert.Zero(t, w.Temperature)
}

func TestWeatherClient_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"status":"PERMISSION_DENIED"}}`, http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := google.NewWeatherClient(srv.URL, "k", time.Second).Current(context.Background(), domain.Coordinate{Latitude: 60, Longitude: 10})
	require.Error(t, err)

	var se *google.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusForbidden, se.StatusCode)
	assert.Contains(t, se.Body, "PERMISSION_DENIED")
}

func TestWeatherClient_MissingKey(t *testing.T) {
	_, err := google.NewWeatherClient("http://127.0.0.1:1", "", time.Second).Current(context.Background(), domain.Coordinate{})
	assert.ErrorContains(t, err, "api key not configured")
}

func placesServer(t *testing.T, failMedia bool) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("X-Goog-Api-Key"))
		assert.Empty(t, r.URL.Query().Get("key"))

		if strings.HasSuffix(r.URL.Path, "/media") {
			assert.Equal(t, "true", r.URL.Query().Get("skipHttpRedirect"))
			assert.Equal(t, "1200", r.URL.Query().Get("maxWidthPx"))
			assert.Equal(t, "800", r.URL.Query().Get("maxHeightPx"))
			if failMedia {
				w.WriteHeader(http.StatusForbidden)
				return
			}
			photo := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/v1/places/ChIJ-oslo/photos/"), "/media")
			_, _ = w.Write([]byte(`{"name": "` + r.URL.Path + `", "photoUri": "https://lh3.example/` + photo + `"}`))
			return
		}

		assert.Equal(t, "/v1/places/ChIJ-oslo", r.URL.Path)
		assert.Equal(t, "photos", r.Header.Get("X-Goog-FieldMask"))
		_, _ = w.Write([]byte(`{"photos": [
			{"name": "places/ChIJ-oslo/photos/a", "widthPx": 4032, "heightPx": 3024,
			 "authorAttributions": [{"displayName": "Kari <N>", "uri": "https://maps.example/kari"}]},
			{"name": "places/ChIJ-oslo/photos/b", "widthPx": 1600, "heightPx": 1200, "authorAttributions": []},
			{"name": "places/ChIJ-oslo/photos/c", "widthPx": 800, "heightPx": 600}
		]}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestPlacesClient_PlacePhotos(t *testing.T) {
	srv := placesServer(t, false)

	c := google.NewPlacesClient(srv.URL+"/v1", "test-key", time.Second)
	photos, err := c.PlacePhotos(context.Background(), "ChIJ-oslo", 2)
	require.NoError(t, err)
	require.Len(t, photos, 2)

	assert.Equal(t, "https://lh3.example/a", photos[0].URL)
	assert.Equal(t, "https://lh3.example/b", photos[1].URL)
	assert.Equal(t, `<a href="https://maps.example/kari" target="_blank" rel="noopener">Kari &lt;N&gt;</a>`, photos[0].AttributionHTML)
	assert.Equal(t, 4032, photos[0].Width)
	assert.Equal(t, "Google", photos[1].AttributionHTML)
}

func TestPlacesClient_PhotoURLsCarryNoKey(t *testing.T) {
	srv := placesServer(t, false)

	photos, err := google.NewPlacesClient(srv.URL+"/v1", "test-key", time.Second).
		PlacePhotos(context.Background(), "ChIJ-oslo", 4)
	require.NoError(t, err)
	require.Len(t, photos, 3)
	for _, p := range photos {
		assert.NotContains(t, p.URL, "test-key")
		assert.NotContains(t, p.URL, "key=")
	}
}

func TestPlacesClient_MediaLookupFails(t *testing.T) {
	srv := placesServer(t, true)

	_, err := google.NewPlacesClient(srv.URL+"/v1", "test-key", time.Second).
		PlacePhotos(context.Background(), "ChIJ-oslo", 2)
	var se *google.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusForbidden, se.StatusCode)
}

func TestPlacesClient_NoPhotos(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	photos, err := google.NewPlacesClient(srv.URL, "k", time.Second).PlacePhotos(context.Background(), "x", 4)
	require.NoError(t, err)
	assert.Empty(t, photos)
}
