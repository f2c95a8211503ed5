package estimate

import "strings"

// ProviderID is the stable identifier of a ride-hailing provider. Display
// names are presentation data; everything downstream (pricing profiles, deep
// links, backend responses) is keyed by this id.
type ProviderID string

const (
	ProviderUber     ProviderID = "uber"
	ProviderBolt     ProviderID = "bolt"
	ProviderInDrive  ProviderID = "indrive"
	ProviderTapAndGo ProviderID = "tapgo"
	ProviderUnknown  ProviderID = "unknown"
)

// providerInfo is one row of the provider capability table.
type providerInfo struct {
	DisplayName string
	ServiceName string
}

var providerTable = map[ProviderID]providerInfo{
	ProviderUber:     {DisplayName: "Uber", ServiceName: "Standard"},
	ProviderBolt:     {DisplayName: "Bolt", ServiceName: "Bolt"},
	ProviderInDrive:  {DisplayName: "inDrive", ServiceName: "Standard"},
	ProviderTapAndGo: {DisplayName: "Tap&Go", ServiceName: "Standard"},
}

// KnownProviders returns the ids of all providers in the capability table,
// in display order.
func KnownProviders() []ProviderID {
	return []ProviderID{ProviderUber, ProviderBolt, ProviderInDrive, ProviderTapAndGo}
}

// Known reports whether the id has a row in the capability table.
func (p ProviderID) Known() bool {
	_, ok := providerTable[p]
	return ok
}

// DisplayName returns the user-facing provider name, or the raw id for
// providers outside the table.
func (p ProviderID) DisplayName() string {
	if info, ok := providerTable[p]; ok {
		return info.DisplayName
	}
	return string(p)
}

// ServiceName returns the provider's default service tier label.
func (p ProviderID) ServiceName() string {
	if info, ok := providerTable[p]; ok {
		return info.ServiceName
	}
	return "Standard"
}

// ParseProvider maps a raw identifier or display string onto a stable id.
// Exact id matches win; the case-insensitive substring match exists only for
// tolerance toward free-text display names arriving at the API boundary.
func ParseProvider(raw string) ProviderID {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if ProviderID(normalized).Known() {
		return ProviderID(normalized)
	}
	switch {
	case strings.Contains(normalized, "uber"):
		return ProviderUber
	case strings.Contains(normalized, "bolt"):
		return ProviderBolt
	case strings.Contains(normalized, "indrive"):
		return ProviderInDrive
	case strings.Contains(normalized, "tap"):
		return ProviderTapAndGo
	default:
		return ProviderUnknown
	}
}
