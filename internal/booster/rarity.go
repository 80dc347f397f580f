package booster

import "fmt"

// Rarity is an ordered card tier. The numeric order is load-bearing:
// "at least" comparisons and pity overrides rely on it.
type Rarity int

const (
	Common Rarity = iota
	Uncommon
	Rare
	Epic
	Legendary
	Mythic
)

var rarityNames = [...]string{"common", "uncommon", "rare", "epic", "legendary", "mythic"}

// AllRarities returns every rarity from lowest to highest.
func AllRarities() []Rarity {
	return []Rarity{Common, Uncommon, Rare, Epic, Legendary, Mythic}
}

// Valid reports whether r is one of the defined tiers.
func (r Rarity) Valid() bool {
	return r >= Common && r <= Mythic
}

func (r Rarity) String() string {
	if !r.Valid() {
		return fmt.Sprintf("rarity(%d)", int(r))
	}
	return rarityNames[r]
}

// AtLeast reports whether r is the given tier or higher.
func (r Rarity) AtLeast(o Rarity) bool { return r >= o }

// ParseRarity maps a lowercase tier name to its Rarity.
func ParseRarity(s string) (Rarity, error) {
	for i, name := range rarityNames {
		if s == name {
			return Rarity(i), nil
		}
	}
	return Common, fmt.Errorf("unknown rarity %q", s)
}

func (r Rarity) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid rarity %d", int(r))
	}
	return []byte(rarityNames[r]), nil
}

func (r *Rarity) UnmarshalText(b []byte) error {
	v, err := ParseRarity(string(b))
	if err != nil {
		return err
	}
	*r = v
	return nil
}
