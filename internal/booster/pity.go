package booster

// Easing specifies how the soft-pity boost ramps up toward the hard
// threshold.
type Easing string

const (
	EaseLinear     Easing = "linear"
	EaseOutQuad    Easing = "easeOutQuad"
	EaseInOutCubic Easing = "easeInOutCubic"
)

func (e Easing) apply(t float64) float64 {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	switch e {
	case EaseOutQuad:
		// f(t) = 1 - (1 - t)^2
		return 1 - (1-t)*(1-t)
	case EaseInOutCubic:
		if t < 0.5 {
			return 4 * t * t * t
		}
		return 1 - (-2*t+2)*(-2*t+2)*(-2*t+2)/2
	default:
		return t
	}
}

// PityCounters records how many consecutive packs missed each protected
// outcome. The caller owns the value; Open returns an updated copy and never
// persists anything itself.
type PityCounters struct {
	Epic      int `json:"epic"`
	Legendary int `json:"legendary"`
	Mythic    int `json:"mythic"`
	Holo      int `json:"holo"`
}

func (c PityCounters) counter(tier Rarity) int {
	switch tier {
	case Epic:
		return c.Epic
	case Legendary:
		return c.Legendary
	case Mythic:
		return c.Mythic
	}
	return 0
}

func (c *PityCounters) setCounter(tier Rarity, v int) {
	switch tier {
	case Epic:
		c.Epic = v
	case Legendary:
		c.Legendary = v
	case Mythic:
		c.Mythic = v
	}
}

// PityRule protects one rarity tier. SoftStart is the counter value where the
// boost ramp begins; Hard is the pack count at which the guarantee fires.
// MaxBoost is the probability mass shifted onto Tier-and-above at Hard-1.
type PityRule struct {
	Tier      Rarity
	SoftStart int
	Hard      int
	MaxBoost  float64
	Easing    Easing
}

// boost returns the probability mass to shift for the given counter value.
func (r PityRule) boost(counter int) float64 {
	if r.Hard <= 0 || r.MaxBoost <= 0 || counter < r.SoftStart {
		return 0
	}
	span := float64(r.Hard - 1 - r.SoftStart)
	if span <= 0 {
		return r.MaxBoost
	}
	t := float64(counter-r.SoftStart) / span
	return r.MaxBoost * r.Easing.apply(t)
}

// due reports whether the hard guarantee fires at the given counter value.
// Inclusive at the threshold: counter == Hard triggers.
func (r PityRule) due(counter int) bool { return r.Hard > 0 && counter >= r.Hard }

// HoloRule protects against long streaks of packs with no holographic pull.
type HoloRule struct {
	Hard int
}

func (r HoloRule) due(counter int) bool { return r.Hard > 0 && counter >= r.Hard }

// duePityTarget returns the single highest tier owed by a hard guarantee, if
// any rule is due for these counters.
func duePityTarget(rules []PityRule, counters PityCounters) (Rarity, bool) {
	var tier Rarity
	due := false
	for _, rule := range rules {
		if rule.due(counters.counter(rule.Tier)) && (!due || rule.Tier > tier) {
			tier = rule.Tier
			due = true
		}
	}
	return tier, due
}

// commitPity produces the post-pack counters. One pack-opening event moves
// every tracked counter by exactly one step: reset when the pack's weighted
// slots produced the protected outcome, increment otherwise. Packs built
// entirely from fixed slots neither consume nor reset pity.
func commitPity(in PityCounters, rules []PityRule, weightedBest Rarity, hadWeighted, sawHolo bool) PityCounters {
	if !hadWeighted {
		return in
	}
	out := in
	for _, rule := range rules {
		if weightedBest >= rule.Tier {
			out.setCounter(rule.Tier, 0)
		} else {
			out.setCounter(rule.Tier, in.counter(rule.Tier)+1)
		}
	}
	if sawHolo {
		out.Holo = 0
	} else {
		out.Holo = in.Holo + 1
	}
	return out
}
