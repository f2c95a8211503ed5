package application

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/svitsai-vanhu/service-estimates/internal/domain/estimate"
	"github.com/svitsai-vanhu/service-estimates/internal/fareapi"
)

// Source labels where an estimate's numbers came from.
const (
	SourceBackend     = "backend"
	SourceFallback    = "fallback"
	SourceUnavailable = "unavailable"
)

// RoutingService is the best-effort travel-duration lookup.
type RoutingService interface {
	TravelTime(ctx context.Context, pickup, dropoff *estimate.Coordinate) estimate.RoutingEstimate
}

// FareBackend is the optional remote aggregation backend.
type FareBackend interface {
	Configured() bool
	Estimates(ctx context.Context, q estimate.RouteQuery) (map[estimate.ProviderID]fareapi.Quote, error)
}

// Analytics receives completed-estimate notifications, fire-and-forget.
type Analytics interface {
	EstimateCompleted(ctx context.Context, result *EstimateResult, providers []estimate.ProviderID)
}

// EstimateResult is the response representation of one estimation request.
type EstimateResult struct {
	RequestID  uuid.UUID
	DistanceKm *float64
	Source     string
	Results    []estimate.ProviderEstimate
}

// EstimateService orchestrates one estimation request: the routing lookup
// and the backend call run concurrently, any failure degrades to the local
// heuristic, and the caller never sees an error.
type EstimateService struct {
	routing   RoutingService
	backend   FareBackend
	profiles  *estimate.ProfileSet
	analytics Analytics
	logger    *zap.Logger
}

// NewEstimateService creates an EstimateService. analytics may be nil.
func NewEstimateService(
	routing RoutingService,
	backend FareBackend,
	profiles *estimate.ProfileSet,
	analytics Analytics,
	logger *zap.Logger,
) *EstimateService {
	return &EstimateService{
		routing:   routing,
		backend:   backend,
		profiles:  profiles,
		analytics: analytics,
		logger:    logger,
	}
}

// Estimate produces one ProviderEstimate per requested provider. It builds a
// fresh result set per call and shares no state across concurrent requests.
func (s *EstimateService) Estimate(ctx context.Context, q estimate.RouteQuery) *EstimateResult {
	result := &EstimateResult{RequestID: uuid.New()}

	// Missing or non-finite coordinates short-circuit to all-unavailable
	// without a single network call.
	if !q.Resolvable() {
		result.Source = SourceUnavailable
		for _, id := range q.Providers {
			result.Results = append(result.Results, estimate.Unavailable(id))
		}
		s.publish(ctx, result, q.Providers)
		return result
	}

	distanceKm := estimate.HaversineKm(*q.Pickup, *q.Dropoff)
	result.DistanceKm = &distanceKm

	// The routing lookup is independent of the aggregation path; kick it
	// off first so both are in flight together.
	routingCh := make(chan estimate.RoutingEstimate, 1)
	go func() {
		routingCh <- s.routing.TravelTime(ctx, q.Pickup, q.Dropoff)
	}()

	backendAttempted := s.backend != nil && s.backend.Configured()
	if backendAttempted {
		quotes, err := s.backend.Estimates(ctx, q)
		if err == nil {
			result.Source = SourceBackend
			result.Results = normalizeQuotes(q.Providers, quotes)
			s.publish(ctx, result, q.Providers)
			return result
		}
		// Any backend failure abandons the remote response for every
		// provider; there is no partial merge between remote and local.
		s.logger.Warn("fare backend call failed, using local heuristic",
			zap.String("request_id", result.RequestID.String()),
			zap.Error(err),
		)
	}

	// The fallback ETA prefers the fetched travel duration. When a backend
	// call was attempted the routing result is taken as-is once that call
	// settles; when it was skipped, nothing else bounds the wait, so block
	// until the lookup resolves or the request context ends.
	var routing estimate.RoutingEstimate
	if backendAttempted {
		select {
		case routing = <-routingCh:
		default:
		}
	} else {
		select {
		case routing = <-routingCh:
		case <-ctx.Done():
		}
	}

	result.Source = SourceFallback
	result.Results = estimate.FallbackEstimates(q, s.profiles, routing)
	s.publish(ctx, result, q.Providers)
	return result
}

// normalizeQuotes converts raw backend entries into display estimates. A
// provider whose entry is missing or carries a non-finite or non-positive
// field becomes unavailable; it is never heuristic-filled.
func normalizeQuotes(providers []estimate.ProviderID, quotes map[estimate.ProviderID]fareapi.Quote) []estimate.ProviderEstimate {
	results := make([]estimate.ProviderEstimate, 0, len(providers))
	for _, id := range providers {
		row := estimate.Unavailable(id)
		quote, ok := quotes[id]
		if ok && finitePositive(quote.PriceUSD) && finitePositive(quote.ETAMin) {
			price := *quote.PriceUSD
			eta := int(math.Round(*quote.ETAMin))
			row.PriceUSD = &price
			row.ETAMin = &eta
		}
		results = append(results, row)
	}
	return results
}

func finitePositive(f *float64) bool {
	return f != nil && !math.IsNaN(*f) && !math.IsInf(*f, 0) && *f > 0
}

func (s *EstimateService) publish(ctx context.Context, result *EstimateResult, providers []estimate.ProviderID) {
	if s.analytics == nil {
		return
	}
	// Detach from request cancellation so a superseded request still gets
	// its analytics event delivered.
	publishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	s.analytics.EstimateCompleted(publishCtx, result, providers)
}
