package estimate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseProvider(t *testing.T) {
	tests := []struct {
		raw  string
		want ProviderID
	}{
		{"uber", ProviderUber},
		{"Uber", ProviderUber},
		{"  BOLT ", ProviderBolt},
		{"inDrive", ProviderInDrive},
		{"Tap&Go", ProviderTapAndGo},
		{"tapgo", ProviderTapAndGo},
		{"City Cab", ProviderUnknown},
		{"", ProviderUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseProvider(tt.raw), "raw=%q", tt.raw)
	}
}

func TestProviderDisplayMetadata(t *testing.T) {
	assert.Equal(t, "inDrive", ProviderInDrive.DisplayName())
	assert.Equal(t, "Bolt", ProviderBolt.ServiceName())
	assert.Equal(t, "Standard", ProviderUber.ServiceName())

	// Providers outside the table fall back to their raw id.
	assert.Equal(t, "citycab", ProviderID("citycab").DisplayName())
	assert.False(t, ProviderID("citycab").Known())
}
