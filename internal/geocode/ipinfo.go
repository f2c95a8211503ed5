package geocode

import (
	"context"
	"net/url"
	"strings"

	"github.com/svitsai-vanhu/service-estimates/internal/domain/estimate"
)

// Location is a resolved current-position result.
type Location struct {
	Label      string              `json:"label"`
	Coordinate estimate.Coordinate `json:"coordinate"`
}

type ipinfoResponse struct {
	City struct {
		Name string `json:"name"`
	} `json:"city"`
	Country struct {
		Name string `json:"name"`
	} `json:"country"`
	Location struct {
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
	} `json:"location"`
}

// LocateIP resolves the caller's approximate position from its IP address.
// This is the service-side stand-in for the device's one-shot GPS query;
// failure means the position stays undetermined, never an error.
func (c *Client) LocateIP(ctx context.Context, ip string) (Location, bool) {
	if c.apiKey == "" || ip == "" {
		return Location{}, false
	}

	endpoint := c.baseURL + "/v1/ipinfo?" + url.Values{
		"ip":     {ip},
		"apiKey": {c.apiKey},
	}.Encode()

	var resp ipinfoResponse
	if !c.getJSON(ctx, endpoint, &resp) {
		return Location{}, false
	}
	if resp.Location.Latitude == nil || resp.Location.Longitude == nil {
		return Location{}, false
	}

	coord := estimate.Coordinate{
		Latitude:  *resp.Location.Latitude,
		Longitude: *resp.Location.Longitude,
	}
	if !coord.Valid() {
		return Location{}, false
	}

	var parts []string
	if resp.City.Name != "" {
		parts = append(parts, resp.City.Name)
	}
	if resp.Country.Name != "" {
		parts = append(parts, resp.Country.Name)
	}
	return Location{
		Label:      strings.Join(parts, ", "),
		Coordinate: coord,
	}, true
}
