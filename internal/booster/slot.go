package booster

// RarityWeight is one row of a weighted slot table. Rows are kept in
// ascending tier order so a cumulative walk resolves lowest-first.
type RarityWeight struct {
	Tier   Rarity
	Weight float64
}

// SlotSpec defines how one pack position resolves its rarity: either a fixed
// guarantee or a weighted table. The zero value is not a usable slot;
// CheckConfig rejects it.
type SlotSpec struct {
	fixed   *Rarity
	weights []RarityWeight
}

// FixedSlot guarantees the given rarity. Fixed slots never consume or reset
// pity.
func FixedSlot(r Rarity) SlotSpec {
	rr := r
	return SlotSpec{fixed: &rr}
}

// WeightedSlot draws from the given table. Rows must be in ascending tier
// order and sum to 1 within tolerance; CheckConfig enforces this.
func WeightedSlot(rows ...RarityWeight) SlotSpec {
	return SlotSpec{weights: append([]RarityWeight(nil), rows...)}
}

// IsFixed reports whether the slot carries a fixed guarantee.
func (s SlotSpec) IsFixed() bool { return s.fixed != nil }

// FixedRarity returns the guaranteed rarity and whether one is set.
func (s SlotSpec) FixedRarity() (Rarity, bool) {
	if s.fixed == nil {
		return Common, false
	}
	return *s.fixed, true
}

// Weights returns a copy of the weighted table.
func (s SlotSpec) Weights() []RarityWeight {
	return append([]RarityWeight(nil), s.weights...)
}
