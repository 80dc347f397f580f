// Package catalog loads the static card catalog and serves immutable,
// rarity-indexed snapshots to the pack engine.
package catalog

import (
	"fmt"
	"os"
	"sync/atomic"

	"gopkg.in/yaml.v3"

	"github.com/packlab/booster-backend/internal/booster"
)

// RawCard mirrors one catalog YAML entry.
type RawCard struct {
	ID     string `yaml:"id"`
	Name   string `yaml:"name"`
	Rarity string `yaml:"rarity"`
	Artist string `yaml:"artist,omitempty"`
	Flavor string `yaml:"flavor,omitempty"`
}

type rawFile struct {
	Version string    `yaml:"version"`
	Cards   []RawCard `yaml:"cards"`
}

// Snapshot is an immutable, rarity-indexed view of the card catalog. It
// implements booster.Catalog. The indexed slices are shared: callers must
// treat them as read-only, which the engine does.
type Snapshot struct {
	version  string
	byRarity map[booster.Rarity][]booster.Card
	count    int
}

// CardsByRarity returns the catalog entries of the given rarity.
func (s *Snapshot) CardsByRarity(r booster.Rarity) []booster.Card {
	return s.byRarity[r]
}

// Len returns the total number of catalog entries.
func (s *Snapshot) Len() int { return s.count }

// Version returns the catalog file's version string.
func (s *Snapshot) Version() string { return s.version }

// Load reads and indexes a catalog YAML file.
func Load(path string) (*Snapshot, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var raw rawFile
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return build(raw)
}

func build(raw rawFile) (*Snapshot, error) {
	if len(raw.Cards) == 0 {
		return nil, fmt.Errorf("catalog defines no cards")
	}
	snap := &Snapshot{
		version:  raw.Version,
		byRarity: make(map[booster.Rarity][]booster.Card),
	}
	seen := make(map[string]bool, len(raw.Cards))
	for i, rc := range raw.Cards {
		if rc.ID == "" {
			return nil, fmt.Errorf("cards[%d]: id must not be empty", i)
		}
		if seen[rc.ID] {
			return nil, fmt.Errorf("cards[%d]: duplicate id %q", i, rc.ID)
		}
		seen[rc.ID] = true
		tier, err := booster.ParseRarity(rc.Rarity)
		if err != nil {
			return nil, fmt.Errorf("cards[%d] (%s): %w", i, rc.ID, err)
		}
		snap.byRarity[tier] = append(snap.byRarity[tier], booster.Card{
			ID:     rc.ID,
			Name:   rc.Name,
			Rarity: tier,
			Artist: rc.Artist,
			Flavor: rc.Flavor,
		})
		snap.count++
	}
	return snap, nil
}

// Provider hands out the current catalog snapshot and supports atomic
// replacement under concurrent readers. Reloads swap the whole snapshot;
// nothing is ever mutated in place.
type Provider struct {
	cur atomic.Pointer[Snapshot]
}

func NewProvider(s *Snapshot) *Provider {
	p := &Provider{}
	p.cur.Store(s)
	return p
}

// Snapshot returns the current immutable catalog view. Callers that need a
// consistent catalog across several draws hold onto the returned pointer.
func (p *Provider) Snapshot() *Snapshot { return p.cur.Load() }

// Replace atomically swaps in a new snapshot.
func (p *Provider) Replace(s *Snapshot) { p.cur.Store(s) }
