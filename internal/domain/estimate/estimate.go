package estimate

// RoutingEstimate is the best-effort travel duration fetched independently
// of the price aggregation path. Present is false when the lookup failed,
// was never attempted, or had not resolved in time.
type RoutingEstimate struct {
	TravelTimeMin int
	Present       bool
}

// ProviderEstimate is the normalized per-provider result of one estimation
// request. Nil price or ETA means that field could not be determined; the
// caller renders unavailability as a distinct state, never as zero.
type ProviderEstimate struct {
	ProviderID  ProviderID
	DisplayName string
	ServiceName string
	PriceUSD    *float64
	ETAMin      *int
}

// Available reports whether both fields were determined.
func (e ProviderEstimate) Available() bool {
	return e.PriceUSD != nil && e.ETAMin != nil
}

// Unavailable builds the neutral all-unknown estimate for a provider. Every
// failure path in the aggregator degrades to this shape.
func Unavailable(id ProviderID) ProviderEstimate {
	return ProviderEstimate{
		ProviderID:  id,
		DisplayName: id.DisplayName(),
		ServiceName: id.ServiceName(),
	}
}

// FallbackEstimates prices every requested provider with the local
// heuristic. It is a pure function of its inputs: identical queries yield
// identical results. A query with a missing or non-finite endpoint produces
// all-unavailable rows.
func FallbackEstimates(q RouteQuery, profiles *ProfileSet, routing RoutingEstimate) []ProviderEstimate {
	results := make([]ProviderEstimate, 0, len(q.Providers))
	if !q.Resolvable() {
		for _, id := range q.Providers {
			results = append(results, Unavailable(id))
		}
		return results
	}

	distanceKm := HaversineKm(*q.Pickup, *q.Dropoff)
	for _, id := range q.Providers {
		profile := profiles.For(id)
		price := profile.PriceFor(distanceKm)
		eta := profile.ETAFor(routing)

		row := Unavailable(id)
		row.PriceUSD = &price
		row.ETAMin = &eta
		results = append(results, row)
	}
	return results
}
