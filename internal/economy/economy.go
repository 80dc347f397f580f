// Package economy prices pack openings in soft currency and credits dust for
// duplicate pulls, feeding the crafting loop.
package economy

import "github.com/packlab/booster-backend/internal/booster"

// PriceTable defines how many coins a pack opening costs.
type PriceTable struct {
	CoinsPerPack   int // coins per single opening, e.g. 100
	CoinsPerBundle int // bundle price; 0 means no bundle discount
	BundleSize     int // openings per bundle; <= 1 disables bundles
}

// CoinsForPacks returns the coin cost of opening n packs, charging whole
// bundles at the bundle price and the remainder at the single price.
func (t PriceTable) CoinsForPacks(n int) int {
	if n <= 0 || t.CoinsPerPack <= 0 {
		return 0
	}
	if t.BundleSize > 1 && t.CoinsPerBundle > 0 && n >= t.BundleSize {
		bundles := n / t.BundleSize
		rem := n % t.BundleSize
		return bundles*t.CoinsPerBundle + rem*t.CoinsPerPack
	}
	return n * t.CoinsPerPack
}

// DustTable maps rarity to the dust credited when a pull duplicates a card
// already in the same pack.
type DustTable map[booster.Rarity]int

// DefaultDust is the crafting economy's refund ladder.
func DefaultDust() DustTable {
	return DustTable{
		booster.Common:    5,
		booster.Uncommon:  10,
		booster.Rare:      20,
		booster.Epic:      100,
		booster.Legendary: 400,
		booster.Mythic:    1600,
	}
}

// DustCredit sums the credit owed for duplicate-flagged cards in a pack.
func (d DustTable) DustCredit(p booster.Pack) int {
	total := 0
	for _, c := range p.Cards {
		if c.Duplicate {
			total += d[c.Rarity]
		}
	}
	return total
}
