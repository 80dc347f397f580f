package booster

import (
	"time"

	"github.com/google/uuid"
)

// PackCard is a catalog card decorated with per-pull instance data. The
// generator never mutates it after construction; ownership passes to the
// caller on return.
type PackCard struct {
	Card
	Holo      HoloVariant `json:"holo"`
	Duplicate bool        `json:"duplicate,omitempty"` // duplicate fallback fired for this pull
}

// Pack is one immutable opening result. The card sequence is already in
// final, validated, shuffled display order.
type Pack struct {
	ID         string      `json:"id"`
	SetCode    string      `json:"set"`
	Seed       uint64      `json:"seed"`
	Cards      []PackCard  `json:"cards"`
	BestRarity Rarity      `json:"best_rarity"`
	Design     string      `json:"design,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}

// Generator composes sampler, selector, holo roll and validation into one
// atomic opening pipeline. It holds no per-call state; concurrent Open calls
// are safe as long as the catalog is immutable.
type Generator struct {
	Catalog Catalog
	Strict  bool             // re-check holo gating in the validator
	Now     func() time.Time // test seam; nil means time.Now
}

func NewGenerator(cat Catalog) *Generator {
	return &Generator{Catalog: cat}
}

// Open generates one pack. It is a pure function of (cfg, seed, counters):
// the same inputs reproduce the same pack, card order and design roll
// included. Counters are committed once, at pack level, and returned
// alongside the pack; any error aborts the whole generation with no partial
// pack and untouched counters.
func (g *Generator) Open(cfg Config, seed uint64, counters PityCounters) (Pack, PityCounters, error) {
	if err := CheckConfig(cfg); err != nil {
		return Pack{}, counters, err
	}
	rng := NewSeededRNG(seed)

	forceTier, forceDue := duePityTarget(cfg.Pity, counters)

	used := make(map[string]bool, len(cfg.Slots))
	cards := make([]PackCard, 0, len(cfg.Slots))
	weighted := 0
	weightedBest := Common
	for _, slot := range cfg.Slots {
		rarity := resolveSlot(slot, rng, counters, cfg.Pity)
		if !slot.IsFixed() {
			if forceDue && rarity < forceTier {
				rarity = forceTier
				forceDue = false
			}
			weighted++
			if rarity > weightedBest {
				weightedBest = rarity
			}
		}
		card, dup, err := selectCard(g.Catalog, rarity, used, rng)
		if err != nil {
			return Pack{}, counters, err
		}
		used[card.ID] = true
		holo := RollHolo(rarity, cfg.Holo, rng)
		cards = append(cards, PackCard{Card: card, Holo: holo, Duplicate: dup})
	}

	sawHolo := false
	for _, c := range cards {
		if c.Holo != HoloNone {
			sawHolo = true
			break
		}
	}
	// holo bad-luck protection: if the streak is due and the pack rolled
	// nothing, upgrade one card to the baseline variant
	if weighted > 0 && !sawHolo && cfg.HoloPity.due(counters.Holo) {
		cards[PickIndex(rng, len(cards))].Holo = HoloStandard
		sawHolo = true
	}

	// validate the pre-shuffle list so slot guarantees line up by index
	if err := ValidatePack(cards, cfg, g.Strict); err != nil {
		return Pack{}, counters, err
	}

	shuffled := Shuffle(rng, cards)
	design := rollDesign(cfg.Designs, rng)

	now := time.Now
	if g.Now != nil {
		now = g.Now
	}

	pack := Pack{
		ID:         packID(rng),
		SetCode:    cfg.SetCode,
		Seed:       seed,
		Cards:      shuffled,
		BestRarity: bestRarity(shuffled),
		Design:     design,
		CreatedAt:  now().UTC(),
	}
	out := commitPity(counters, cfg.Pity, weightedBest, weighted > 0, sawHolo)
	return pack, out, nil
}

// OpenRandom opens a pack with a fresh crypto-derived seed. The seed is
// recorded on the pack so any pull can be replayed.
func (g *Generator) OpenRandom(cfg Config, counters PityCounters) (Pack, PityCounters, error) {
	return g.Open(cfg, NewSeed(), counters)
}

// rollDesign picks the cosmetic pack design: one cumulative draw, no gating.
// An empty table skips the roll.
func rollDesign(designs []DesignWeight, rng RandomSource) string {
	if len(designs) == 0 {
		return ""
	}
	r := rng.Float64()
	var cum float64
	for _, d := range designs {
		cum += d.Weight
		if r < cum {
			return d.Name
		}
	}
	best := designs[0]
	for _, d := range designs[1:] {
		if d.Weight > best.Weight {
			best = d
		}
	}
	return best.Name
}

func bestRarity(cards []PackCard) Rarity {
	best := Common
	for _, c := range cards {
		if c.Rarity > best {
			best = c.Rarity
		}
	}
	return best
}

// packID derives a UUID from the pack's own random stream, so replaying a
// seed reproduces the identity too.
func packID(rng RandomSource) string {
	id, err := uuid.NewRandomFromReader(rngReader{rng})
	if err != nil {
		// rngReader never fails; keep the compiler honest
		return uuid.NewString()
	}
	return id.String()
}

// rngReader adapts a RandomSource to io.Reader for uuid generation.
type rngReader struct{ rng RandomSource }

func (r rngReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(PickIndex(r.rng, 256))
	}
	return len(p), nil
}
