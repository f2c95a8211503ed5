package geocode

import (
	"context"
	"fmt"
	"math"
	"net/url"

	"github.com/svitsai-vanhu/service-estimates/internal/domain/estimate"
)

// routingResponse mirrors the subset of the Geoapify routing response the
// service reads. Time is the drive duration in seconds.
type routingResponse struct {
	Features []struct {
		Properties struct {
			Time *float64 `json:"time"`
		} `json:"properties"`
	} `json:"features"`
}

// TravelTime fetches the drive duration between two points, in whole minutes
// rounded up. The result is absent when the API key or either coordinate is
// missing, the request fails, or the response carries no numeric time.
func (c *Client) TravelTime(ctx context.Context, pickup, dropoff *estimate.Coordinate) estimate.RoutingEstimate {
	if c.apiKey == "" || pickup == nil || !pickup.Valid() || dropoff == nil || !dropoff.Valid() {
		return estimate.RoutingEstimate{}
	}

	waypoints := fmt.Sprintf("%f,%f|%f,%f",
		pickup.Latitude, pickup.Longitude,
		dropoff.Latitude, dropoff.Longitude)
	endpoint := c.baseURL + "/v1/routing?" + url.Values{
		"waypoints": {waypoints},
		"mode":      {"drive"},
		"apiKey":    {c.apiKey},
	}.Encode()

	var resp routingResponse
	if !c.getJSON(ctx, endpoint, &resp) {
		return estimate.RoutingEstimate{}
	}
	if len(resp.Features) == 0 || resp.Features[0].Properties.Time == nil {
		return estimate.RoutingEstimate{}
	}

	seconds := *resp.Features[0].Properties.Time
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		return estimate.RoutingEstimate{}
	}
	return estimate.RoutingEstimate{
		TravelTimeMin: int(math.Ceil(seconds / 60.0)),
		Present:       true,
	}
}
