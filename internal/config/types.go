package config

// RawSet mirrors the pack-set YAML schema before validation and
// normalization. Layering is default -> set -> box; later layers override
// earlier ones wholesale per section.
type RawSet struct {
	Version  string       `yaml:"version"`
	Set      string       `yaml:"set"`
	Slots    []RawSlot    `yaml:"slots"`
	Holo     []RawWeight  `yaml:"holo"`
	Designs  []RawWeight  `yaml:"designs,omitempty"`
	Pity     []RawPity    `yaml:"pity,omitempty"`
	HoloPity *RawHoloPity `yaml:"holo_pity,omitempty"`
	Notes    string       `yaml:"notes,omitempty"`
}

// RawSlot is one pack position: exactly one of Fixed or Weights must be set.
type RawSlot struct {
	Fixed   string             `yaml:"fixed,omitempty"`
	Weights map[string]float64 `yaml:"weights,omitempty"`
}

// RawWeight is one named rung of a probability ladder (holo variants, pack
// designs).
type RawWeight struct {
	Name   string  `yaml:"name"`
	Weight float64 `yaml:"weight"`
}

// RawPity configures bad-luck protection for one rarity tier.
type RawPity struct {
	Tier      string   `yaml:"tier"`
	Hard      int      `yaml:"hard"`
	SoftStart *int     `yaml:"soft_start,omitempty"`
	MaxBoost  *float64 `yaml:"max_boost,omitempty"`
	Easing    string   `yaml:"easing,omitempty"`
}

// RawHoloPity configures the packs-without-any-holo guarantee.
type RawHoloPity struct {
	Hard int `yaml:"hard"`
}
