package application

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/svitsai-vanhu/service-estimates/internal/domain/estimate"
	"github.com/svitsai-vanhu/service-estimates/internal/fareapi"
)

var (
	testPickup  = estimate.Coordinate{Latitude: -17.8252, Longitude: 31.0335}
	testDropoff = estimate.Coordinate{Latitude: -17.9, Longitude: 31.05}
)

// fakeRouting returns a scripted routing estimate and counts calls.
type fakeRouting struct {
	result estimate.RoutingEstimate
	calls  atomic.Int64
}

func (f *fakeRouting) TravelTime(ctx context.Context, pickup, dropoff *estimate.Coordinate) estimate.RoutingEstimate {
	f.calls.Add(1)
	return f.result
}

// fakeBackend answers from a scripted quote map or error and counts calls.
type fakeBackend struct {
	configured bool
	quotes     map[estimate.ProviderID]fareapi.Quote
	err        error
	calls      atomic.Int64
	// block, when non-nil, holds each call until the channel closes.
	block chan struct{}
}

func (f *fakeBackend) Configured() bool { return f.configured }

func (f *fakeBackend) Estimates(ctx context.Context, q estimate.RouteQuery) (map[estimate.ProviderID]fareapi.Quote, error) {
	f.calls.Add(1)
	if f.block != nil {
		<-f.block
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.quotes, nil
}

func floatPtr(f float64) *float64 { return &f }

func newService(routing *fakeRouting, backend *fakeBackend) *EstimateService {
	return NewEstimateService(routing, backend, estimate.DefaultProfiles(), nil, zap.NewNop())
}

func TestEstimate_MissingCoordinateShortCircuits(t *testing.T) {
	routing := &fakeRouting{}
	backend := &fakeBackend{configured: true}
	svc := newService(routing, backend)

	result := svc.Estimate(context.Background(), estimate.RouteQuery{
		Dropoff:   &testDropoff,
		Providers: estimate.KnownProviders(),
	})

	assert.Equal(t, SourceUnavailable, result.Source)
	assert.Nil(t, result.DistanceKm)
	require.Len(t, result.Results, 4)
	for _, row := range result.Results {
		assert.False(t, row.Available())
	}

	// No upstream call of any kind was attempted.
	assert.Zero(t, backend.calls.Load())
	assert.Zero(t, routing.calls.Load())
}

func TestEstimate_BackendPrecedence(t *testing.T) {
	routing := &fakeRouting{result: estimate.RoutingEstimate{TravelTimeMin: 25, Present: true}}
	backend := &fakeBackend{
		configured: true,
		quotes: map[estimate.ProviderID]fareapi.Quote{
			estimate.ProviderUber: {PriceUSD: floatPtr(5.5), ETAMin: floatPtr(5)},
			estimate.ProviderBolt: {PriceUSD: floatPtr(4.8)}, // missing eta
		},
	}
	svc := newService(routing, backend)

	result := svc.Estimate(context.Background(), estimate.RouteQuery{
		Pickup:    &testPickup,
		Dropoff:   &testDropoff,
		Providers: []estimate.ProviderID{estimate.ProviderUber, estimate.ProviderBolt, estimate.ProviderInDrive},
	})

	assert.Equal(t, SourceBackend, result.Source)
	require.Len(t, result.Results, 3)

	uber := result.Results[0]
	require.NotNil(t, uber.PriceUSD)
	assert.Equal(t, 5.5, *uber.PriceUSD)
	assert.Equal(t, 5, *uber.ETAMin)

	// A provider with a partial backend entry is unavailable, never
	// heuristic-filled.
	bolt := result.Results[1]
	assert.Nil(t, bolt.PriceUSD)
	assert.Nil(t, bolt.ETAMin)

	// Same for one missing from the response entirely.
	indrive := result.Results[2]
	assert.False(t, indrive.Available())
}

func TestEstimate_BackendRejectsNonPositiveValues(t *testing.T) {
	backend := &fakeBackend{
		configured: true,
		quotes: map[estimate.ProviderID]fareapi.Quote{
			estimate.ProviderUber: {PriceUSD: floatPtr(0), ETAMin: floatPtr(5)},
			estimate.ProviderBolt: {PriceUSD: floatPtr(-2.5), ETAMin: floatPtr(4)},
		},
	}
	svc := newService(&fakeRouting{}, backend)

	result := svc.Estimate(context.Background(), estimate.RouteQuery{
		Pickup:    &testPickup,
		Dropoff:   &testDropoff,
		Providers: []estimate.ProviderID{estimate.ProviderUber, estimate.ProviderBolt},
	})

	for _, row := range result.Results {
		assert.False(t, row.Available(), "provider %s", row.ProviderID)
	}
}

func TestEstimate_BackendFailureFallsBackForAllProviders(t *testing.T) {
	routing := &fakeRouting{}
	backend := &fakeBackend{configured: true, err: errors.New("upstream 503")}
	svc := newService(routing, backend)

	result := svc.Estimate(context.Background(), estimate.RouteQuery{
		Pickup:    &testPickup,
		Dropoff:   &testDropoff,
		Providers: estimate.KnownProviders(),
	})

	assert.Equal(t, SourceFallback, result.Source)
	require.NotNil(t, result.DistanceKm)
	assert.InDelta(t, 8.7, *result.DistanceKm, 0.5)
	for _, row := range result.Results {
		require.NotNil(t, row.PriceUSD, "provider %s", row.ProviderID)
		assert.GreaterOrEqual(t, *row.PriceUSD, 1.00)
	}
}

func TestEstimate_FallbackAppliesRoutingDuration(t *testing.T) {
	// No backend configured: the fallback waits for the routing lookup.
	routing := &fakeRouting{result: estimate.RoutingEstimate{TravelTimeMin: 31, Present: true}}
	backend := &fakeBackend{configured: false}
	svc := newService(routing, backend)

	result := svc.Estimate(context.Background(), estimate.RouteQuery{
		Pickup:    &testPickup,
		Dropoff:   &testDropoff,
		Providers: estimate.KnownProviders(),
	})

	assert.Equal(t, SourceFallback, result.Source)
	assert.Zero(t, backend.calls.Load())
	for _, row := range result.Results {
		require.NotNil(t, row.ETAMin)
		assert.Equal(t, 31, *row.ETAMin)
	}
}

func TestEstimate_FallbackUsesMinimumWhenRoutingAbsent(t *testing.T) {
	routing := &fakeRouting{} // absent
	svc := newService(routing, &fakeBackend{configured: false})

	result := svc.Estimate(context.Background(), estimate.RouteQuery{
		Pickup:    &testPickup,
		Dropoff:   &testDropoff,
		Providers: []estimate.ProviderID{estimate.ProviderBolt},
	})

	require.Len(t, result.Results, 1)
	require.NotNil(t, result.Results[0].ETAMin)
	assert.Equal(t, 4, *result.Results[0].ETAMin)
}
