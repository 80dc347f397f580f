package booster

import "fmt"

// ValidatePack is the last gate before a generated pack is accepted. It
// checks the pre-shuffle card list against the config, slot by slot, and
// fails fast on the first violation. Strict mode re-checks holo gating as
// defense in depth even though RollHolo already enforces it.
func ValidatePack(cards []PackCard, cfg Config, strict bool) error {
	if len(cards) != len(cfg.Slots) {
		return &ValidationError{
			Slot:   -1,
			Reason: fmt.Sprintf("pack has %d cards, config defines %d slots", len(cards), len(cfg.Slots)),
		}
	}
	for i, slot := range cfg.Slots {
		want, ok := slot.FixedRarity()
		if !ok {
			continue
		}
		// a pity override may only ever upgrade, never downgrade
		if cards[i].Rarity < want {
			return &ValidationError{
				Slot:   i,
				Reason: fmt.Sprintf("slot guarantees %s, card %q is %s", want, cards[i].ID, cards[i].Rarity),
			}
		}
	}
	for _, tier := range AllRarities() {
		want := 0
		for _, slot := range cfg.Slots {
			if r, ok := slot.FixedRarity(); ok && r >= tier {
				want++
			}
		}
		if want == 0 {
			continue
		}
		got := 0
		for _, c := range cards {
			if c.Rarity >= tier {
				got++
			}
		}
		if got < want {
			return &ValidationError{
				Slot:   -1,
				Reason: fmt.Sprintf("config guarantees %d cards at or above %s, pack has %d", want, tier, got),
			}
		}
	}
	if strict {
		for i, c := range cards {
			if GateHolo(c.Rarity, c.Holo) != c.Holo {
				return &ValidationError{
					Slot:   i,
					Reason: fmt.Sprintf("card %q: %s holo is not allowed on %s", c.ID, c.Holo, c.Rarity),
				}
			}
		}
	}
	return nil
}
