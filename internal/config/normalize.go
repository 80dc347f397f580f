package config

import (
	"sort"

	"github.com/packlab/booster-backend/internal/booster"
)

// Normalize turns a validated RawSet into the engine's typed config. It
// assumes ValidateRaw has passed; parse failures here mean the two drifted
// apart and are returned as errors rather than ignored.
func Normalize(raw RawSet) (booster.Config, error) {
	cfg := booster.Config{SetCode: raw.Set}

	for _, slot := range raw.Slots {
		if slot.Fixed != "" {
			tier, err := booster.ParseRarity(slot.Fixed)
			if err != nil {
				return booster.Config{}, err
			}
			cfg.Slots = append(cfg.Slots, booster.FixedSlot(tier))
			continue
		}
		rows := make([]booster.RarityWeight, 0, len(slot.Weights))
		for name, w := range slot.Weights {
			tier, err := booster.ParseRarity(name)
			if err != nil {
				return booster.Config{}, err
			}
			rows = append(rows, booster.RarityWeight{Tier: tier, Weight: w})
		}
		sort.Slice(rows, func(i, j int) bool { return rows[i].Tier < rows[j].Tier })
		cfg.Slots = append(cfg.Slots, booster.WeightedSlot(rows...))
	}

	for _, rung := range raw.Holo {
		v, err := booster.ParseHolo(rung.Name)
		if err != nil {
			return booster.Config{}, err
		}
		cfg.Holo = append(cfg.Holo, booster.HoloWeight{Variant: v, Weight: rung.Weight})
	}

	for _, d := range raw.Designs {
		cfg.Designs = append(cfg.Designs, booster.DesignWeight{Name: d.Name, Weight: d.Weight})
	}

	for _, rule := range raw.Pity {
		tier, err := booster.ParseRarity(rule.Tier)
		if err != nil {
			return booster.Config{}, err
		}
		r := booster.PityRule{Tier: tier, Hard: rule.Hard, Easing: booster.EaseLinear}
		if rule.SoftStart != nil {
			r.SoftStart = *rule.SoftStart
		}
		if rule.MaxBoost != nil {
			r.MaxBoost = *rule.MaxBoost
		}
		if rule.Easing != "" {
			r.Easing = booster.Easing(rule.Easing)
		}
		cfg.Pity = append(cfg.Pity, r)
	}

	if raw.HoloPity != nil {
		cfg.HoloPity = booster.HoloRule{Hard: raw.HoloPity.Hard}
	}

	return cfg, nil
}
