package trait

import "github.com/polishedworld/simcore/internal/config"

// HungerThresholds is the standard hunger descriptor table.
var HungerThresholds = []Threshold{
	{15, "starving"},
	{35, "very hungry"},
	{55, "hungry"},
	{75, "peckish"},
	{95, "satisfied"},
	{100, "full"},
}

// ThirstThresholds is the standard thirst descriptor table.
var ThirstThresholds = []Threshold{
	{15, "dehydrated"},
	{35, "parched"},
	{55, "thirsty"},
	{75, "slightly thirsty"},
	{95, "refreshed"},
	{100, "quenched"},
}

// FatigueThresholds is the standard fatigue descriptor table. Higher values
// mean more rested.
var FatigueThresholds = []Threshold{
	{15, "exhausted"},
	{35, "very tired"},
	{55, "tired"},
	{75, "a bit tired"},
	{95, "rested"},
	{100, "energetic"},
}

// HealthThresholds is the standard health descriptor table.
var HealthThresholds = []Threshold{
	{15, "critically injured"},
	{35, "badly injured"},
	{55, "injured"},
	{75, "bruised"},
	{100, "healthy"},
}

// NewSurvivalGauges builds a set with the four standard gauges using the
// configured passive decay rates. Health has no passive rate; it changes
// only through explicit drain and recovery.
//
// Postcondition: All gauges start at 100 with bounds [0, 100].
func NewSurvivalGauges(cfg config.SurvivalConfig) *GaugeSet {
	return NewGaugeSet(map[Kind]*Gauge{
		Hunger:  MustGauge(Hunger.String(), 0, 100, cfg.HungerRate, HungerThresholds),
		Thirst:  MustGauge(Thirst.String(), 0, 100, cfg.ThirstRate, ThirstThresholds),
		Fatigue: MustGauge(Fatigue.String(), 0, 100, cfg.FatigueRate, FatigueThresholds),
		Health:  MustGauge(Health.String(), 0, 100, 0, HealthThresholds),
	})
}
