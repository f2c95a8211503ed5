package geocode

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/svitsai-vanhu/service-estimates/internal/domain/estimate"
)

// Suggestion is one address candidate from the autocomplete upstream.
type Suggestion struct {
	Label      string              `json:"label"`
	PlaceID    string              `json:"place_id"`
	Coordinate estimate.Coordinate `json:"coordinate"`
}

// featureCollection mirrors the subset of the Geoapify geocode response the
// service reads.
type featureCollection struct {
	Features []struct {
		Properties struct {
			Formatted    string `json:"formatted"`
			AddressLine1 string `json:"address_line1"`
			Name         string `json:"name"`
			PlaceID      string `json:"place_id"`
		} `json:"properties"`
		Geometry struct {
			// GeoJSON order: [longitude, latitude].
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// Autocomplete returns address candidates for a free-text query. It returns
// an empty slice when the query is shorter than two characters, no API key
// is configured, or the upstream call fails in any way. One request per
// call, no retries.
func (c *Client) Autocomplete(ctx context.Context, text string) []Suggestion {
	text = strings.TrimSpace(text)
	if c.apiKey == "" || len(text) < 2 {
		return nil
	}

	cacheKey := "autocomplete:" + strings.ToLower(text)
	if c.cache != nil {
		if raw, ok := c.cache.Get(ctx, cacheKey); ok {
			var cached []Suggestion
			if err := json.Unmarshal(raw, &cached); err == nil {
				return cached
			}
		}
	}

	endpoint := c.baseURL + "/v1/geocode/autocomplete?" + url.Values{
		"text":   {text},
		"apiKey": {c.apiKey},
	}.Encode()

	var collection featureCollection
	if !c.getJSON(ctx, endpoint, &collection) {
		return nil
	}

	suggestions := make([]Suggestion, 0, len(collection.Features))
	for _, f := range collection.Features {
		if len(f.Geometry.Coordinates) < 2 {
			continue
		}
		label := f.Properties.Formatted
		if label == "" {
			label = f.Properties.AddressLine1
		}
		if label == "" {
			label = f.Properties.Name
		}
		suggestions = append(suggestions, Suggestion{
			Label:   label,
			PlaceID: f.Properties.PlaceID,
			Coordinate: estimate.Coordinate{
				Latitude:  f.Geometry.Coordinates[1],
				Longitude: f.Geometry.Coordinates[0],
			},
		})
	}

	if c.cache != nil && len(suggestions) > 0 {
		if raw, err := json.Marshal(suggestions); err == nil {
			c.cache.Set(ctx, cacheKey, raw, c.cacheTTL)
		}
	}
	return suggestions
}

// getJSON issues one GET and decodes the body. False means degrade.
func (c *Client) getJSON(ctx context.Context, endpoint string, out any) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("geocode upstream call failed", zap.Error(err))
		return false
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Debug("geocode upstream returned non-success status",
			zap.Int("status", resp.StatusCode),
		)
		return false
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.logger.Debug("geocode upstream body malformed", zap.Error(err))
		return false
	}
	return true
}
