package estimate

import (
	"fmt"
	"strconv"

	"github.com/svitsai-vanhu/service-estimates/internal/domain"
)

// DeepLink holds the ordered launch candidates for a provider: the native
// app scheme first, then the HTTPS fallback. Empty string means no candidate
// of that kind exists.
type DeepLink struct {
	AppURL string
	WebURL string
}

// Candidates returns the non-empty launch URLs in resolution order.
func (l DeepLink) Candidates() []string {
	var urls []string
	if l.AppURL != "" {
		urls = append(urls, l.AppURL)
	}
	if l.WebURL != "" {
		urls = append(urls, l.WebURL)
	}
	return urls
}

// Opener abstracts the platform's ability to launch a URL. Supports mirrors
// the scheme-registration check (app installed) the mobile platform exposes.
type Opener interface {
	Supports(url string) bool
	Open(url string) error
}

// Open walks the candidates in order and launches the first one the opener
// supports and opens without error. When every candidate fails, or none
// exists, it returns ErrLinkUnavailable. It never returns any other error.
func (l DeepLink) Open(opener Opener) error {
	for _, url := range l.Candidates() {
		if !opener.Supports(url) {
			continue
		}
		if err := opener.Open(url); err != nil {
			continue
		}
		return nil
	}
	return domain.ErrLinkUnavailable
}

// ResolveDeepLink builds the launch candidates for a provider. When both
// coordinates are present they are embedded per-provider; otherwise Uber
// gets its current-location variant and the rest a coordinate-free scheme.
// Providers outside the capability table, and TapAndGo which registers no
// scheme and runs no web app, resolve to an empty link.
func ResolveDeepLink(id ProviderID, pickup, dropoff *Coordinate) DeepLink {
	hasCoords := pickup != nil && pickup.Valid() && dropoff != nil && dropoff.Valid()

	switch id {
	case ProviderUber:
		if hasCoords {
			coords := fmt.Sprintf("pickup[latitude]=%s&pickup[longitude]=%s&dropoff[latitude]=%s&dropoff[longitude]=%s",
				coord(pickup.Latitude), coord(pickup.Longitude),
				coord(dropoff.Latitude), coord(dropoff.Longitude))
			return DeepLink{
				AppURL: "uber://?action=setPickup&" + coords,
				WebURL: "https://m.uber.com/ul/?action=setPickup&" + coords,
			}
		}
		return DeepLink{
			AppURL: "uber://?action=setPickup&pickup=my_location",
			WebURL: "https://m.uber.com/ul/?action=setPickup&pickup=my_location",
		}

	case ProviderBolt:
		if hasCoords {
			return DeepLink{
				AppURL: fmt.Sprintf("bolt://ride?pickup_latitude=%s&pickup_longitude=%s&destination_latitude=%s&destination_longitude=%s",
					coord(pickup.Latitude), coord(pickup.Longitude),
					coord(dropoff.Latitude), coord(dropoff.Longitude)),
				WebURL: "https://bolt.eu",
			}
		}
		return DeepLink{AppURL: "bolt://ride", WebURL: "https://bolt.eu"}

	case ProviderInDrive:
		return DeepLink{AppURL: "indrive://", WebURL: "https://indrive.com"}

	default:
		// TapAndGo has no published scheme or web app; unknown providers
		// have nothing to launch.
		return DeepLink{}
	}
}

func coord(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
