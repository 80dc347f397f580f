package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/packlab/booster-backend/internal/booster"
)

// Paths helper for default/set/box files.
type Paths struct {
	BaseDir string // base directory, e.g., ./configs
}

func (p Paths) DefaultPath() string {
	return filepath.Join(p.BaseDir, "sets", "default.yaml")
}
func (p Paths) SetPath(set string) string {
	return filepath.Join(p.BaseDir, "sets", set+".yaml")
}
func (p Paths) BoxPath(set, box string) string {
	return filepath.Join(p.BaseDir, "sets", set, "boxes", box+".yaml")
}

// Loader reads YAML pack-set configs and merges default -> set -> box.
type Loader struct {
	paths Paths

	mu    sync.RWMutex
	cache map[string]RawSet // key: "set" or "set/box" or "$default"
}

// NewLoader creates a config loader with the given base directory.
func NewLoader(baseDir string) *Loader {
	return &Loader{
		paths: Paths{BaseDir: baseDir},
		cache: make(map[string]RawSet),
	}
}

// LoadMerged loads and merges default -> set -> box (box optional). It
// returns the merged RawSet without validation or normalization.
func (l *Loader) LoadMerged(set, box string) (RawSet, error) {
	key := set
	if box != "" {
		key = set + "/" + box
	}
	l.mu.RLock()
	if cfg, ok := l.cache[key]; ok {
		l.mu.RUnlock()
		return cfg, nil
	}
	l.mu.RUnlock()

	defCfg, err := readYAML(l.paths.DefaultPath())
	if err != nil {
		return RawSet{}, fmt.Errorf("read default: %w", err)
	}
	setCfg, err := readYAML(l.paths.SetPath(set))
	if err != nil {
		return RawSet{}, fmt.Errorf("read set %q: %w", set, err)
	}
	var boxCfg RawSet
	if box != "" {
		boxCfg, err = readYAML(l.paths.BoxPath(set, box))
		if err != nil {
			return RawSet{}, fmt.Errorf("read box %q: %w", box, err)
		}
	}

	merged := mergeRaw(mergeRaw(defCfg, setCfg), boxCfg)
	if merged.Set == "" {
		merged.Set = set
	}

	l.mu.Lock()
	l.cache[key] = merged
	l.cache["$default"] = defCfg
	l.mu.Unlock()

	return merged, nil
}

// Resolve returns the engine config for a set/box pair: merged, validated,
// normalized.
func (l *Loader) Resolve(set, box string) (booster.Config, error) {
	raw, err := l.LoadMerged(set, box)
	if err != nil {
		return booster.Config{}, err
	}
	if err := ValidateRaw(raw); err != nil {
		return booster.Config{}, err
	}
	return Normalize(raw)
}

// Invalidate clears the loader's cache. Call after hot-reload detects
// changes.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache = make(map[string]RawSet)
}

// readYAML loads a YAML file into RawSet. Missing files return zero cfg, no
// error, so optional layers just fall through.
func readYAML(path string) (RawSet, error) {
	var cfg RawSet
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return RawSet{}, nil
		}
		return RawSet{}, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return RawSet{}, err
	}
	return cfg, nil
}

// mergeRaw overlays b on a. Sections are replaced wholesale when b provides
// them: a box that redefines slots owns the whole slot list.
func mergeRaw(a, b RawSet) RawSet {
	out := a
	if b.Version != "" {
		out.Version = b.Version
	}
	if b.Set != "" {
		out.Set = b.Set
	}
	if b.Notes != "" {
		out.Notes = b.Notes
	}
	if len(b.Slots) > 0 {
		out.Slots = append([]RawSlot(nil), b.Slots...)
	}
	if len(b.Holo) > 0 {
		out.Holo = append([]RawWeight(nil), b.Holo...)
	}
	if len(b.Designs) > 0 {
		out.Designs = append([]RawWeight(nil), b.Designs...)
	}
	if len(b.Pity) > 0 {
		out.Pity = append([]RawPity(nil), b.Pity...)
	}
	if b.HoloPity != nil {
		c := *b.HoloPity
		out.HoloPity = &c
	}
	return out
}
