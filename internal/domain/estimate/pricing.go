package estimate

import "math"

// minimumFareUSD is the absolute floor for any computed price. A heuristic
// fare is never zero or negative regardless of profile values.
const minimumFareUSD = 1.00

// PricingProfile is the static per-provider tariff used by the local
// fallback heuristic when no fare backend is reachable. Profiles are loaded
// once at startup and never mutated.
type PricingProfile struct {
	StartingFareUSD float64
	PerKilometerUSD float64
	MinimumETAMin   int
}

// PriceFor computes the heuristic fare for a trip of the given length,
// floored at the minimum fare.
func (p PricingProfile) PriceFor(distanceKm float64) float64 {
	price := p.StartingFareUSD + p.PerKilometerUSD*distanceKm
	return math.Max(minimumFareUSD, price)
}

// ETAFor picks the larger of the provider's stated minimum pickup time and
// the independently fetched travel duration, when one resolved.
func (p PricingProfile) ETAFor(routing RoutingEstimate) int {
	eta := p.MinimumETAMin
	if routing.Present && routing.TravelTimeMin > eta {
		eta = routing.TravelTimeMin
	}
	return eta
}

// ProfileSet maps provider ids onto pricing profiles, with a generic profile
// for providers outside the table.
type ProfileSet struct {
	profiles map[ProviderID]PricingProfile
	generic  PricingProfile
}

// NewProfileSet builds a ProfileSet from explicit per-provider profiles. The
// map is copied; the set is immutable afterwards.
func NewProfileSet(profiles map[ProviderID]PricingProfile, generic PricingProfile) *ProfileSet {
	copied := make(map[ProviderID]PricingProfile, len(profiles))
	for id, p := range profiles {
		copied[id] = p
	}
	return &ProfileSet{profiles: copied, generic: generic}
}

// DefaultProfiles returns the compiled-in tariffs, used when no profile
// store is configured.
func DefaultProfiles() *ProfileSet {
	return NewProfileSet(map[ProviderID]PricingProfile{
		ProviderUber:     {StartingFareUSD: 2.00, PerKilometerUSD: 1.10, MinimumETAMin: 5},
		ProviderBolt:     {StartingFareUSD: 1.50, PerKilometerUSD: 0.95, MinimumETAMin: 4},
		ProviderInDrive:  {StartingFareUSD: 1.20, PerKilometerUSD: 1.00, MinimumETAMin: 6},
		ProviderTapAndGo: {StartingFareUSD: 1.80, PerKilometerUSD: 1.05, MinimumETAMin: 5},
	}, PricingProfile{StartingFareUSD: 1.50, PerKilometerUSD: 1.00, MinimumETAMin: 5})
}

// For returns the profile for the given provider, or the generic profile for
// providers without one.
func (s *ProfileSet) For(id ProviderID) PricingProfile {
	if p, ok := s.profiles[id]; ok {
		return p
	}
	return s.generic
}
