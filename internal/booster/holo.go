package booster

import "fmt"

// HoloVariant is the cosmetic foil treatment layered onto a pulled card.
type HoloVariant int

const (
	HoloNone HoloVariant = iota
	HoloStandard
	HoloReverse
	HoloFullArt
	HoloPrismatic
)

var holoNames = [...]string{"none", "standard", "reverse", "full_art", "prismatic"}

func (v HoloVariant) Valid() bool {
	return v >= HoloNone && v <= HoloPrismatic
}

func (v HoloVariant) String() string {
	if !v.Valid() {
		return fmt.Sprintf("holo(%d)", int(v))
	}
	return holoNames[v]
}

// ParseHolo maps a lowercase variant name to its HoloVariant.
func ParseHolo(s string) (HoloVariant, error) {
	for i, name := range holoNames {
		if s == name {
			return HoloVariant(i), nil
		}
	}
	return HoloNone, fmt.Errorf("unknown holo variant %q", s)
}

func (v HoloVariant) MarshalText() ([]byte, error) {
	if !v.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid holo variant %d", int(v))
	}
	return []byte(holoNames[v]), nil
}

func (v *HoloVariant) UnmarshalText(b []byte) error {
	parsed, err := ParseHolo(string(b))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// holoMinRarity gates the premium variants: full_art needs legendary or
// better, prismatic is mythic-only.
func holoMinRarity(v HoloVariant) Rarity {
	switch v {
	case HoloFullArt:
		return Legendary
	case HoloPrismatic:
		return Mythic
	default:
		return Common
	}
}

// holoDemotions is the ordered fallback chain walked when a drawn variant is
// not allowed on the rolled rarity. Demotion only ever moves downward.
var holoDemotions = map[HoloVariant][]HoloVariant{
	HoloPrismatic: {HoloFullArt, HoloReverse},
	HoloFullArt:   {HoloReverse},
}

// HoloWeight is one rung of the holo probability ladder.
type HoloWeight struct {
	Variant HoloVariant
	Weight  float64
}

// GateHolo applies the rarity gate to a drawn variant, walking the demotion
// chain until an eligible variant is found. Deterministic: same inputs, same
// demotion.
func GateHolo(rarity Rarity, v HoloVariant) HoloVariant {
	if rarity >= holoMinRarity(v) {
		return v
	}
	for _, fb := range holoDemotions[v] {
		if rarity >= holoMinRarity(fb) {
			return fb
		}
	}
	return HoloNone
}

// RollHolo resolves a holo variant for a rolled rarity: one cumulative draw
// against the ladder, then the rarity gate.
func RollHolo(rarity Rarity, ladder []HoloWeight, rng RandomSource) HoloVariant {
	r := rng.Float64()
	var cum float64
	for _, rung := range ladder {
		cum += rung.Weight
		if r < cum {
			return GateHolo(rarity, rung.Variant)
		}
	}
	// floating-point drift: fall back to the heaviest rung
	if len(ladder) == 0 {
		return HoloNone
	}
	best := ladder[0]
	for _, rung := range ladder[1:] {
		if rung.Weight > best.Weight {
			best = rung
		}
	}
	return GateHolo(rarity, best.Variant)
}
