package handler

import (
	"context"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/svitsai-vanhu/service-estimates/internal/application"
	"github.com/svitsai-vanhu/service-estimates/internal/domain"
	"github.com/svitsai-vanhu/service-estimates/internal/domain/estimate"
	"github.com/svitsai-vanhu/service-estimates/internal/geocode"
	"github.com/svitsai-vanhu/service-estimates/internal/response"
)

// Estimator abstracts the estimation service for testability.
type Estimator interface {
	Estimate(ctx context.Context, q estimate.RouteQuery) *application.EstimateResult
}

// Geocoder abstracts the place-resolution upstream for testability.
type Geocoder interface {
	Autocomplete(ctx context.Context, text string) []geocode.Suggestion
	LocateIP(ctx context.Context, ip string) (geocode.Location, bool)
}

// EstimateHandler handles HTTP requests for the estimation flow.
type EstimateHandler struct {
	estimator Estimator
	geocoder  Geocoder
}

// NewEstimateHandler creates a new EstimateHandler.
func NewEstimateHandler(estimator Estimator, geocoder Geocoder) *EstimateHandler {
	return &EstimateHandler{estimator: estimator, geocoder: geocoder}
}

// RegisterRoutes registers all estimation routes on the given router group.
func (h *EstimateHandler) RegisterRoutes(r *gin.RouterGroup) {
	api := r.Group("/api/v1")
	{
		api.GET("/places/autocomplete", h.Autocomplete)
		api.GET("/locate", h.Locate)
		api.POST("/estimates", h.CreateEstimate)
		api.GET("/providers/:id/link", h.ProviderLink)
	}
}

type coordinateDTO struct {
	Lat *float64 `json:"lat"`
	Lon *float64 `json:"lon"`
}

func (d *coordinateDTO) toCoordinate() *estimate.Coordinate {
	if d == nil || d.Lat == nil || d.Lon == nil {
		return nil
	}
	return &estimate.Coordinate{Latitude: *d.Lat, Longitude: *d.Lon}
}

type estimateRequest struct {
	Pickup    *coordinateDTO `json:"pickup"`
	Dropoff   *coordinateDTO `json:"dropoff"`
	Providers []string       `json:"providers"`
}

type providerEstimateDTO struct {
	ProviderID  string   `json:"provider_id"`
	DisplayName string   `json:"display_name"`
	Service     string   `json:"service"`
	PriceUSD    *float64 `json:"price_usd"`
	ETAMin      *int     `json:"eta_min"`
	Available   bool     `json:"available"`
}

type estimateResponse struct {
	RequestID  string                `json:"request_id"`
	DistanceKm *float64              `json:"distance_km"`
	Source     string                `json:"source"`
	Results    []providerEstimateDTO `json:"results"`
}

// CreateEstimate handles POST /api/v1/estimates. Estimation never fails:
// a request with unresolvable coordinates still returns 200 with every
// provider marked unavailable.
func (h *EstimateHandler) CreateEstimate(c *gin.Context) {
	var req estimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	providers := make([]estimate.ProviderID, 0, len(req.Providers))
	for _, raw := range req.Providers {
		id := estimate.ProviderID(strings.ToLower(strings.TrimSpace(raw)))
		if id == "" {
			continue
		}
		providers = append(providers, id)
	}
	if len(providers) == 0 {
		providers = estimate.KnownProviders()
	}

	result := h.estimator.Estimate(c.Request.Context(), estimate.RouteQuery{
		Pickup:    req.Pickup.toCoordinate(),
		Dropoff:   req.Dropoff.toCoordinate(),
		Providers: providers,
	})

	rows := make([]providerEstimateDTO, len(result.Results))
	for i, row := range result.Results {
		rows[i] = providerEstimateDTO{
			ProviderID:  string(row.ProviderID),
			DisplayName: row.DisplayName,
			Service:     row.ServiceName,
			PriceUSD:    row.PriceUSD,
			ETAMin:      row.ETAMin,
			Available:   row.Available(),
		}
	}

	response.Success(c, estimateResponse{
		RequestID:  result.RequestID.String(),
		DistanceKm: result.DistanceKm,
		Source:     result.Source,
		Results:    rows,
	})
}

type suggestionDTO struct {
	Label   string  `json:"label"`
	PlaceID string  `json:"place_id"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// Autocomplete handles GET /api/v1/places/autocomplete. Upstream failure
// and short queries both yield an empty list, never an error.
func (h *EstimateHandler) Autocomplete(c *gin.Context) {
	suggestions := h.geocoder.Autocomplete(c.Request.Context(), c.Query("text"))

	dtos := make([]suggestionDTO, len(suggestions))
	for i, s := range suggestions {
		dtos[i] = suggestionDTO{
			Label:   s.Label,
			PlaceID: s.PlaceID,
			Lat:     s.Coordinate.Latitude,
			Lon:     s.Coordinate.Longitude,
		}
	}
	response.Success(c, gin.H{"suggestions": dtos})
}

// Locate handles GET /api/v1/locate, resolving the caller's approximate
// position from its IP address.
func (h *EstimateHandler) Locate(c *gin.Context) {
	loc, ok := h.geocoder.LocateIP(c.Request.Context(), c.ClientIP())
	if !ok {
		response.Error(c, domain.NewUnavailableError("current position could not be determined"))
		return
	}
	response.Success(c, gin.H{
		"label": loc.Label,
		"lat":   loc.Coordinate.Latitude,
		"lon":   loc.Coordinate.Longitude,
	})
}

type deepLinkResponse struct {
	AppURL *string `json:"app_url"`
	WebURL *string `json:"web_url"`
}

// ProviderLink handles GET /api/v1/providers/:id/link. The id is matched
// tolerantly (raw display names from older clients still resolve); a
// provider with no launchable URL yields 404 LINK_UNAVAILABLE.
func (h *EstimateHandler) ProviderLink(c *gin.Context) {
	id := estimate.ParseProvider(c.Param("id"))

	pickup := queryCoordinate(c, "pickup_lat", "pickup_lon")
	dropoff := queryCoordinate(c, "dropoff_lat", "dropoff_lon")

	link := estimate.ResolveDeepLink(id, pickup, dropoff)
	if len(link.Candidates()) == 0 {
		response.Error(c, domain.ErrLinkUnavailable)
		return
	}

	resp := deepLinkResponse{}
	if link.AppURL != "" {
		resp.AppURL = &link.AppURL
	}
	if link.WebURL != "" {
		resp.WebURL = &link.WebURL
	}
	response.Success(c, resp)
}

func queryCoordinate(c *gin.Context, latKey, lonKey string) *estimate.Coordinate {
	latRaw, lonRaw := c.Query(latKey), c.Query(lonKey)
	if latRaw == "" || lonRaw == "" {
		return nil
	}
	lat, err := strconv.ParseFloat(latRaw, 64)
	if err != nil {
		return nil
	}
	lon, err := strconv.ParseFloat(lonRaw, 64)
	if err != nil {
		return nil
	}
	return &estimate.Coordinate{Latitude: lat, Longitude: lon}
}
