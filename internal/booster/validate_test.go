package booster

import (
	"strings"
	"testing"
)

func testConfigTwoSlots() Config {
	return Config{
		SetCode: "test",
		Slots:   []SlotSpec{FixedSlot(Common), WeightedSlot(standardRows()...)},
		Holo:    defaultLadder(),
	}
}

func card(id string, r Rarity, holo HoloVariant) PackCard {
	return PackCard{Card: Card{ID: id, Name: id, Rarity: r}, Holo: holo}
}

func TestValidatePackCount(t *testing.T) {
	cfg := testConfigTwoSlots()
	err := ValidatePack([]PackCard{card("a", Common, HoloNone)}, cfg, false)
	if err == nil {
		t.Fatal("short pack must fail validation")
	}
	if !strings.Contains(err.Error(), "2 slots") {
		t.Fatalf("diagnostic should name the slot count: %v", err)
	}
}

func TestValidatePackFixedSlotFloor(t *testing.T) {
	cfg := Config{
		Slots: []SlotSpec{FixedSlot(Rare), WeightedSlot(standardRows()...)},
		Holo:  defaultLadder(),
	}
	cards := []PackCard{card("a", Common, HoloNone), card("b", Uncommon, HoloNone)}
	err := ValidatePack(cards, cfg, false)
	verr, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Slot != 0 {
		t.Fatalf("error names slot %d, want 0", verr.Slot)
	}
}

func TestValidatePackAllowsPityUpgrade(t *testing.T) {
	cfg := testConfigTwoSlots()
	// slot 0 guarantees common; a higher-rarity card there is fine
	cards := []PackCard{card("a", Legendary, HoloNone), card("b", Uncommon, HoloNone)}
	if err := ValidatePack(cards, cfg, false); err != nil {
		t.Fatalf("upgrade must pass validation: %v", err)
	}
}

func TestValidatePackStrictHoloGate(t *testing.T) {
	cfg := testConfigTwoSlots()
	cards := []PackCard{card("a", Common, HoloPrismatic), card("b", Uncommon, HoloNone)}
	if err := ValidatePack(cards, cfg, false); err != nil {
		t.Fatalf("non-strict mode should not check holo: %v", err)
	}
	err := ValidatePack(cards, cfg, true)
	if err == nil {
		t.Fatal("strict mode must reject prismatic on common")
	}
	if !strings.Contains(err.Error(), "prismatic") {
		t.Fatalf("diagnostic should name the variant: %v", err)
	}
}

func TestValidatePackPasses(t *testing.T) {
	cfg := testConfigTwoSlots()
	cards := []PackCard{card("a", Common, HoloStandard), card("b", Mythic, HoloPrismatic)}
	if err := ValidatePack(cards, cfg, true); err != nil {
		t.Fatalf("valid pack rejected: %v", err)
	}
}
