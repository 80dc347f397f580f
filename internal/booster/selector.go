package booster

// Card is one immutable catalog entry.
type Card struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Rarity Rarity `json:"rarity"`
	Artist string `json:"artist,omitempty"`
	Flavor string `json:"flavor,omitempty"`
}

// Catalog is the read-only card lookup the engine draws from. The returned
// slices must stay stable and unmodified for the lifetime of a generate call;
// hot reloads must swap whole catalogs, not mutate one in place.
type Catalog interface {
	CardsByRarity(r Rarity) []Card
}

// selectCard picks one card of the given rarity that is not already in the
// pack. When every eligible card is used it falls back to the full rarity
// pool and reports the duplicate rather than failing the pack. A rarity with
// zero catalog cards at all is a *CatalogError.
func selectCard(cat Catalog, rarity Rarity, used map[string]bool, rng RandomSource) (Card, bool, error) {
	pool := cat.CardsByRarity(rarity)
	if len(pool) == 0 {
		return Card{}, false, &CatalogError{Rarity: rarity}
	}
	fresh := make([]Card, 0, len(pool))
	for _, c := range pool {
		if !used[c.ID] {
			fresh = append(fresh, c)
		}
	}
	if len(fresh) > 0 {
		return Pick(rng, fresh), false, nil
	}
	return Pick(rng, pool), true, nil
}
