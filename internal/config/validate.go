package config

import (
	"fmt"
	"math"
	"strings"

	"github.com/packlab/booster-backend/internal/booster"
)

const weightTolerance = 1e-6

// ValidateRaw checks semantic constraints of a merged RawSet. It collects
// every defect so a bad config surfaces all its problems at once.
func ValidateRaw(cfg RawSet) error {
	var errs []string

	if len(cfg.Slots) == 0 {
		errs = append(errs, "slots must define at least one pack position")
	}
	for i, slot := range cfg.Slots {
		switch {
		case slot.Fixed != "" && len(slot.Weights) > 0:
			errs = append(errs, fmt.Sprintf("slots[%d] must set either fixed or weights, not both", i))
		case slot.Fixed != "":
			if _, err := booster.ParseRarity(slot.Fixed); err != nil {
				errs = append(errs, fmt.Sprintf("slots[%d].fixed: %v", i, err))
			}
		case len(slot.Weights) > 0:
			var sum float64
			for name, w := range slot.Weights {
				if _, err := booster.ParseRarity(name); err != nil {
					errs = append(errs, fmt.Sprintf("slots[%d].weights: %v", i, err))
				}
				if w < 0 || w > 1 {
					errs = append(errs, fmt.Sprintf("slots[%d].weights[%s] must be in [0,1]", i, name))
				}
				sum += w
			}
			if math.Abs(sum-1) > weightTolerance {
				errs = append(errs, fmt.Sprintf("slots[%d].weights must sum to 1, got %g", i, sum))
			}
		default:
			errs = append(errs, fmt.Sprintf("slots[%d] must set fixed or weights", i))
		}
	}

	if len(cfg.Holo) == 0 {
		errs = append(errs, "holo ladder must not be empty")
	}
	errs = append(errs, checkLadder("holo", cfg.Holo, func(name string) error {
		_, err := booster.ParseHolo(name)
		return err
	})...)
	if len(cfg.Designs) > 0 {
		errs = append(errs, checkLadder("designs", cfg.Designs, nil)...)
	}

	seen := map[string]bool{}
	for i, rule := range cfg.Pity {
		tier, err := booster.ParseRarity(rule.Tier)
		if err != nil {
			errs = append(errs, fmt.Sprintf("pity[%d].tier: %v", i, err))
			continue
		}
		if tier != booster.Epic && tier != booster.Legendary && tier != booster.Mythic {
			errs = append(errs, fmt.Sprintf("pity[%d].tier must be epic, legendary or mythic", i))
		}
		if seen[rule.Tier] {
			errs = append(errs, fmt.Sprintf("pity[%d]: duplicate rule for tier %s", i, rule.Tier))
		}
		seen[rule.Tier] = true
		if rule.Hard < 1 {
			errs = append(errs, fmt.Sprintf("pity[%d].hard must be >= 1", i))
		}
		if rule.SoftStart != nil && (*rule.SoftStart < 0 || *rule.SoftStart >= rule.Hard) {
			errs = append(errs, fmt.Sprintf("pity[%d].soft_start must satisfy 0 <= soft_start < hard", i))
		}
		if rule.MaxBoost != nil && (*rule.MaxBoost < 0 || *rule.MaxBoost >= 1) {
			errs = append(errs, fmt.Sprintf("pity[%d].max_boost must be in [0,1)", i))
		}
		switch booster.Easing(rule.Easing) {
		case "", booster.EaseLinear, booster.EaseOutQuad, booster.EaseInOutCubic:
		default:
			errs = append(errs, fmt.Sprintf("pity[%d].easing must be one of: linear, easeOutQuad, easeInOutCubic", i))
		}
	}

	if cfg.HoloPity != nil && cfg.HoloPity.Hard < 0 {
		errs = append(errs, "holo_pity.hard must be >= 0")
	}

	if len(errs) > 0 {
		return &booster.ConfigError{Reason: strings.Join(errs, "; ")}
	}
	return nil
}

func checkLadder(section string, rungs []RawWeight, parseName func(string) error) []string {
	var errs []string
	var sum float64
	for i, rung := range rungs {
		if rung.Name == "" {
			errs = append(errs, fmt.Sprintf("%s[%d].name must not be empty", section, i))
		} else if parseName != nil {
			if err := parseName(rung.Name); err != nil {
				errs = append(errs, fmt.Sprintf("%s[%d].name: %v", section, i, err))
			}
		}
		if rung.Weight < 0 || rung.Weight > 1 {
			errs = append(errs, fmt.Sprintf("%s[%d].weight must be in [0,1]", section, i))
		}
		sum += rung.Weight
	}
	if len(rungs) > 0 && math.Abs(sum-1) > weightTolerance {
		errs = append(errs, fmt.Sprintf("%s weights must sum to 1, got %g", section, sum))
	}
	return errs
}
