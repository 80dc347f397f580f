package booster

// resolveSlot resolves one slot's rarity. Fixed slots pass through without
// touching pity; weighted slots draw once against the soft-pity-adjusted
// cumulative table.
func resolveSlot(slot SlotSpec, rng RandomSource, counters PityCounters, rules []PityRule) Rarity {
	if r, ok := slot.FixedRarity(); ok {
		return r
	}
	return drawRarity(adjustWeights(slot.Weights(), counters, rules), rng)
}

// adjustWeights applies soft pity: for every rule past its soft start, shift
// probability mass from tiers below the protected tier onto the tier and
// above. Gradually improving odds, no hard cliff.
func adjustWeights(rows []RarityWeight, counters PityCounters, rules []PityRule) []RarityWeight {
	for _, rule := range rules {
		if b := rule.boost(counters.counter(rule.Tier)); b > 0 {
			rows = shiftMass(rows, rule.Tier, b)
		}
	}
	return rows
}

// shiftMass moves up to amount probability mass from tiers below tier onto
// tier and above. Below-tier rows shrink proportionally; the moved mass lands
// proportionally on the at-or-above rows, or on a new row for the tier itself
// when the table has no mass there yet.
func shiftMass(rows []RarityWeight, tier Rarity, amount float64) []RarityWeight {
	var below, above float64
	for _, row := range rows {
		if row.Tier < tier {
			below += row.Weight
		} else {
			above += row.Weight
		}
	}
	if below <= 0 {
		return rows
	}
	if amount > below {
		amount = below
	}
	out := make([]RarityWeight, len(rows))
	copy(out, rows)
	scale := (below - amount) / below
	for i := range out {
		if out[i].Tier < tier {
			out[i].Weight *= scale
		}
	}
	if above > 0 {
		factor := 1 + amount/above
		for i := range out {
			if out[i].Tier >= tier {
				out[i].Weight *= factor
			}
		}
		return out
	}
	// the table had no row at or above the protected tier; rows stay in
	// ascending order because every existing tier is below it
	return append(out, RarityWeight{Tier: tier, Weight: amount})
}

// drawRarity walks the cumulative table in ascending tier order and returns
// the first tier whose cumulative weight exceeds the draw. If floating-point
// drift leaves the draw uncovered, the heaviest row wins; a weighted slot
// never resolves to "no rarity".
func drawRarity(rows []RarityWeight, rng RandomSource) Rarity {
	r := rng.Float64()
	var cum float64
	for _, row := range rows {
		cum += row.Weight
		if r < cum {
			return row.Tier
		}
	}
	best := rows[0]
	for _, row := range rows[1:] {
		if row.Weight > best.Weight {
			best = row
		}
	}
	return best.Tier
}
