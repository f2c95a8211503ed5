package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/svitsai-vanhu/service-estimates/internal/domain/estimate"
)

var (
	coordFixture  = estimate.Coordinate{Latitude: -17.8252, Longitude: 31.0335}
	coordFixture2 = estimate.Coordinate{Latitude: -17.9, Longitude: 31.05}
)

const autocompleteBody = `{
	"features": [
		{
			"properties": {"formatted": "Samora Machel Ave, Harare", "place_id": "p1"},
			"geometry": {"coordinates": [31.0335, -17.8252]}
		},
		{
			"properties": {"name": "Evelyn Mall", "place_id": "p2"},
			"geometry": {"coordinates": [31.05, -17.9]}
		},
		{
			"properties": {"formatted": "No geometry", "place_id": "p3"},
			"geometry": {"coordinates": []}
		}
	]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "test-key", 2*time.Second, zap.NewNop(), opts...), srv
}

func TestAutocomplete_ParsesFeatureCollection(t *testing.T) {
	var gotQuery string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("text")
		assert.Equal(t, "test-key", r.URL.Query().Get("apiKey"))
		_, _ = w.Write([]byte(autocompleteBody))
	})

	suggestions := client.Autocomplete(context.Background(), "samora")
	require.Len(t, suggestions, 2, "coordinate-less feature is skipped")
	assert.Equal(t, "samora", gotQuery)

	assert.Equal(t, "Samora Machel Ave, Harare", suggestions[0].Label)
	assert.Equal(t, "p1", suggestions[0].PlaceID)
	// GeoJSON order is [lon, lat]; the suggestion must swap it.
	assert.Equal(t, -17.8252, suggestions[0].Coordinate.Latitude)
	assert.Equal(t, 31.0335, suggestions[0].Coordinate.Longitude)

	// Label falls back to the feature name.
	assert.Equal(t, "Evelyn Mall", suggestions[1].Label)
}

func TestAutocomplete_DegradesSilently(t *testing.T) {
	t.Run("short query", func(t *testing.T) {
		called := false
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) { called = true })
		assert.Empty(t, client.Autocomplete(context.Background(), "h"))
		assert.False(t, called, "no request for a sub-two-character query")
	})

	t.Run("missing api key", func(t *testing.T) {
		client := NewClient("http://unused", "", time.Second, zap.NewNop())
		assert.Empty(t, client.Autocomplete(context.Background(), "harare"))
	})

	t.Run("upstream 500", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})
		assert.Empty(t, client.Autocomplete(context.Background(), "harare"))
	})

	t.Run("malformed body", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("not json"))
		})
		assert.Empty(t, client.Autocomplete(context.Background(), "harare"))
	})
}

// mapCache is an in-memory Cache for tests.
type mapCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (m *mapCache) Get(ctx context.Context, key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok
}

func (m *mapCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		m.data = map[string][]byte{}
	}
	m.data[key] = value
}

func TestAutocomplete_ReadThroughCache(t *testing.T) {
	hits := 0
	cache := &mapCache{}
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
		_, _ = w.Write([]byte(autocompleteBody))
	}, WithCache(cache, time.Minute))

	first := client.Autocomplete(context.Background(), "Samora")
	second := client.Autocomplete(context.Background(), "samora") // key is case-insensitive

	assert.Equal(t, 1, hits, "second call served from cache")
	assert.Equal(t, first, second)
}

func TestTravelTime_RoundsSecondsUpToMinutes(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "drive", r.URL.Query().Get("mode"))
		assert.Contains(t, r.URL.Query().Get("waypoints"), "|")
		_, _ = w.Write([]byte(`{"features":[{"properties":{"time":601.2}}]}`))
	})

	pickup := &coordFixture
	dropoff := &coordFixture2
	got := client.TravelTime(context.Background(), pickup, dropoff)
	require.True(t, got.Present)
	assert.Equal(t, 11, got.TravelTimeMin)
}

func TestTravelTime_AbsentOnDegradedInput(t *testing.T) {
	client, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"features":[{"properties":{}}]}`))
	})

	t.Run("missing coordinate", func(t *testing.T) {
		got := client.TravelTime(context.Background(), nil, &coordFixture)
		assert.False(t, got.Present)
	})

	t.Run("missing time field", func(t *testing.T) {
		got := client.TravelTime(context.Background(), &coordFixture, &coordFixture2)
		assert.False(t, got.Present)
	})

	t.Run("non-numeric time", func(t *testing.T) {
		srv.Config.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"features":[{"properties":{"time":"soon"}}]}`))
		})
		got := client.TravelTime(context.Background(), &coordFixture, &coordFixture2)
		assert.False(t, got.Present)
	})
}

func TestLocateIP(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "203.0.113.7", r.URL.Query().Get("ip"))
		_, _ = w.Write([]byte(`{
			"city": {"name": "Harare"},
			"country": {"name": "Zimbabwe"},
			"location": {"latitude": -17.83, "longitude": 31.05}
		}`))
	})

	loc, ok := client.LocateIP(context.Background(), "203.0.113.7")
	require.True(t, ok)
	assert.Equal(t, "Harare, Zimbabwe", loc.Label)
	assert.Equal(t, -17.83, loc.Coordinate.Latitude)

	_, ok = client.LocateIP(context.Background(), "")
	assert.False(t, ok)
}
