package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/svitsai-vanhu/service-estimates/internal/domain/estimate"
)

// ProfileModel is the GORM model for the provider_pricing_profiles table.
type ProfileModel struct {
	ProviderID      string  `gorm:"primaryKey;size:40"`
	StartingFareUSD float64 `gorm:"not null"`
	PerKilometerUSD float64 `gorm:"not null"`
	MinimumETAMin   int     `gorm:"not null"`
	// Generic marks the row used for providers without a profile of
	// their own. At most one row should carry it.
	Generic bool `gorm:"not null;default:false"`
}

// TableName returns the table name for the GORM model.
func (ProfileModel) TableName() string {
	return "provider_pricing_profiles"
}

// GormProfileRepository reads pricing profiles from Postgres.
type GormProfileRepository struct {
	db *gorm.DB
}

// NewGormProfileRepository creates a new GormProfileRepository.
func NewGormProfileRepository(db *gorm.DB) *GormProfileRepository {
	return &GormProfileRepository{db: db}
}

// LoadProfiles reads the full tariff table. Profiles are static
// configuration: this runs once at startup and the result is immutable for
// the process lifetime. An empty table yields (nil, nil) so the caller can
// fall back to the compiled-in defaults.
func (r *GormProfileRepository) LoadProfiles(ctx context.Context) (*estimate.ProfileSet, error) {
	var models []ProfileModel
	if err := r.db.WithContext(ctx).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to load pricing profiles: %w", err)
	}
	if len(models) == 0 {
		return nil, nil
	}

	profiles := make(map[estimate.ProviderID]estimate.PricingProfile, len(models))
	generic, hasGeneric := estimate.PricingProfile{}, false
	for _, m := range models {
		p := estimate.PricingProfile{
			StartingFareUSD: m.StartingFareUSD,
			PerKilometerUSD: m.PerKilometerUSD,
			MinimumETAMin:   m.MinimumETAMin,
		}
		if m.Generic {
			generic, hasGeneric = p, true
			continue
		}
		profiles[estimate.ProviderID(m.ProviderID)] = p
	}
	if !hasGeneric {
		generic = estimate.PricingProfile{StartingFareUSD: 1.50, PerKilometerUSD: 1.00, MinimumETAMin: 5}
	}
	return estimate.NewProfileSet(profiles, generic), nil
}

// Seed inserts the compiled-in default tariffs when the table is empty.
// Used by development auto-migration so a fresh database behaves like the
// no-database configuration.
func (r *GormProfileRepository) Seed(ctx context.Context) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&ProfileModel{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count pricing profiles: %w", err)
	}
	if count > 0 {
		return nil
	}

	defaults := []ProfileModel{
		{ProviderID: "uber", StartingFareUSD: 2.00, PerKilometerUSD: 1.10, MinimumETAMin: 5},
		{ProviderID: "bolt", StartingFareUSD: 1.50, PerKilometerUSD: 0.95, MinimumETAMin: 4},
		{ProviderID: "indrive", StartingFareUSD: 1.20, PerKilometerUSD: 1.00, MinimumETAMin: 6},
		{ProviderID: "tapgo", StartingFareUSD: 1.80, PerKilometerUSD: 1.05, MinimumETAMin: 5},
		{ProviderID: "generic", StartingFareUSD: 1.50, PerKilometerUSD: 1.00, MinimumETAMin: 5, Generic: true},
	}
	if err := r.db.WithContext(ctx).Create(&defaults).Error; err != nil {
		return fmt.Errorf("failed to seed pricing profiles: %w", err)
	}
	return nil
}
