package booster

import "fmt"

// CatalogError reports a rarity the catalog cannot satisfy at all. This is a
// content defect: retrying with another seed cannot help, the catalog or the
// config has to change upstream.
type CatalogError struct {
	Rarity Rarity
}

func (e *CatalogError) Error() string {
	return fmt.Sprintf("catalog has no cards of rarity %s", e.Rarity)
}

// ValidationError reports a generated pack that failed a post-generation
// invariant check. Callers may retry with a fresh seed, but repeated failures
// indicate a structural config problem and should be surfaced.
type ValidationError struct {
	Slot   int // offending slot index, -1 when not slot-specific
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Slot >= 0 {
		return fmt.Sprintf("pack validation failed at slot %d: %s", e.Slot, e.Reason)
	}
	return "pack validation failed: " + e.Reason
}

// ConfigError reports a malformed pack configuration. Detected before any RNG
// draw so bad configs fail fast and cheaply.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "invalid pack config: " + e.Reason
}
