package booster

import (
	"fmt"
	"math"
)

// weightTolerance bounds the floating-point drift allowed when a probability
// table is checked against 1.0.
const weightTolerance = 1e-6

// DesignWeight is one rung of the cosmetic pack-design table. Designs carry
// no gating constraints.
type DesignWeight struct {
	Name   string
	Weight float64
}

// Config is the immutable recipe for one pack opening. The generator never
// mutates it.
type Config struct {
	SetCode  string
	Slots    []SlotSpec
	Holo     []HoloWeight
	Designs  []DesignWeight // optional; empty means no design roll
	Pity     []PityRule
	HoloPity HoloRule
}

// CheckConfig verifies config shape before any RNG draw. It returns a
// *ConfigError describing the first defect found.
func CheckConfig(cfg Config) error {
	if len(cfg.Slots) == 0 {
		return &ConfigError{Reason: "config defines no slots"}
	}
	for i, slot := range cfg.Slots {
		if err := checkSlot(i, slot); err != nil {
			return err
		}
	}
	if len(cfg.Holo) == 0 {
		return &ConfigError{Reason: "holo ladder is empty"}
	}
	if err := checkLadder("holo", holoSum(cfg.Holo)); err != nil {
		return err
	}
	if len(cfg.Designs) > 0 {
		var sum float64
		for _, d := range cfg.Designs {
			if d.Name == "" {
				return &ConfigError{Reason: "design with empty name"}
			}
			if d.Weight < 0 {
				return &ConfigError{Reason: fmt.Sprintf("design %q has negative weight", d.Name)}
			}
			sum += d.Weight
		}
		if err := checkLadder("designs", sum); err != nil {
			return err
		}
	}
	seen := map[Rarity]bool{}
	for _, rule := range cfg.Pity {
		if rule.Tier != Epic && rule.Tier != Legendary && rule.Tier != Mythic {
			return &ConfigError{Reason: fmt.Sprintf("pity rule for unsupported tier %s", rule.Tier)}
		}
		if seen[rule.Tier] {
			return &ConfigError{Reason: fmt.Sprintf("duplicate pity rule for tier %s", rule.Tier)}
		}
		seen[rule.Tier] = true
		if rule.Hard <= 0 {
			return &ConfigError{Reason: fmt.Sprintf("pity rule for %s: hard threshold must be >= 1", rule.Tier)}
		}
		if rule.SoftStart < 0 || rule.SoftStart >= rule.Hard {
			return &ConfigError{Reason: fmt.Sprintf("pity rule for %s: soft start must satisfy 0 <= soft < hard", rule.Tier)}
		}
		if rule.MaxBoost < 0 || rule.MaxBoost >= 1 {
			return &ConfigError{Reason: fmt.Sprintf("pity rule for %s: max boost must be in [0, 1)", rule.Tier)}
		}
	}
	if cfg.HoloPity.Hard < 0 {
		return &ConfigError{Reason: "holo pity hard threshold must be >= 0"}
	}
	return nil
}

func checkSlot(i int, slot SlotSpec) error {
	if r, ok := slot.FixedRarity(); ok {
		if !r.Valid() {
			return &ConfigError{Reason: fmt.Sprintf("slot %d: invalid fixed rarity", i)}
		}
		return nil
	}
	rows := slot.Weights()
	if len(rows) == 0 {
		return &ConfigError{Reason: fmt.Sprintf("slot %d: neither fixed nor weighted", i)}
	}
	var sum float64
	prev := Rarity(-1)
	for _, row := range rows {
		if !row.Tier.Valid() {
			return &ConfigError{Reason: fmt.Sprintf("slot %d: invalid rarity in weight table", i)}
		}
		if row.Tier <= prev {
			return &ConfigError{Reason: fmt.Sprintf("slot %d: weight rows must be unique and in ascending tier order", i)}
		}
		prev = row.Tier
		if row.Weight < 0 || row.Weight > 1 {
			return &ConfigError{Reason: fmt.Sprintf("slot %d: weight for %s out of [0, 1]", i, row.Tier)}
		}
		sum += row.Weight
	}
	if math.Abs(sum-1) > weightTolerance {
		return &ConfigError{Reason: fmt.Sprintf("slot %d: weights sum to %g, want 1", i, sum)}
	}
	return nil
}

func checkLadder(name string, sum float64) error {
	if math.Abs(sum-1) > weightTolerance {
		return &ConfigError{Reason: fmt.Sprintf("%s weights sum to %g, want 1", name, sum)}
	}
	return nil
}

func holoSum(ladder []HoloWeight) float64 {
	var sum float64
	for _, rung := range ladder {
		sum += rung.Weight
	}
	return sum
}
