package booster

import (
	"math"
	"sort"
)

// SimGoal selects what the simulation measures per trial.
type SimGoal string

const (
	// Packs opened until the first pack containing the target tier or above.
	GoalFirstAtLeast SimGoal = "first_at_least"
	// Packs containing the target tier or above within a fixed opening budget.
	GoalFixedBudget SimGoal = "fixed_budget"
)

// trialCap bounds a first_at_least trial; any sane config hits hard pity
// long before this.
const trialCap = 100000

// SimParams describes one simulation run. Each trial opens packs
// sequentially, threading the returned counters into the next opening, which
// is exactly how batch opening composes in production.
type SimParams struct {
	Config Config
	Target Rarity
	Goal   SimGoal
	Trials int
	Budget int          // openings per trial for GoalFixedBudget
	Seed   uint64       // base seed; each trial derives its own stream
	Start  PityCounters // carried-over counters entering each trial
}

// Stats summarizes simulation results.
type Stats struct {
	Mean   float64
	Var    float64
	StdDev float64
	P50    float64
	P90    float64
	P99    float64
	// Optional: raw samples if caller needs histograms/exports
	Samples []int `json:"-"`
}

// calcStats computes mean/variance/percentiles for integer samples.
func calcStats(xs []int) Stats {
	n := len(xs)
	if n == 0 {
		return Stats{}
	}
	var sum float64
	for _, v := range xs {
		sum += float64(v)
	}
	mean := sum / float64(n)

	var acc float64
	for _, v := range xs {
		d := float64(v) - mean
		acc += d * d
	}
	variance := acc / float64(n)

	cp := append([]int(nil), xs...)
	sort.Ints(cp)
	percentile := func(p float64) float64 {
		if n == 1 || p <= 0 {
			return float64(cp[0])
		}
		if p >= 1 {
			return float64(cp[n-1])
		}
		pos := p * float64(n-1)
		i := int(math.Floor(pos))
		f := pos - float64(i)
		if i+1 >= n {
			return float64(cp[i])
		}
		return float64(cp[i])*(1-f) + float64(cp[i+1])*f
	}

	return Stats{
		Mean:    mean,
		Var:     variance,
		StdDev:  math.Sqrt(variance),
		P50:     percentile(0.50),
		P90:     percentile(0.90),
		P99:     percentile(0.99),
		Samples: xs,
	}
}

// RunMonteCarlo repeats trials and returns summary stats. The run is fully
// deterministic for a given SimParams.Seed.
func RunMonteCarlo(gen *Generator, p SimParams) (Stats, error) {
	if p.Trials <= 0 {
		return Stats{}, nil
	}
	samples := make([]int, p.Trials)
	for i := range samples {
		base := p.Seed ^ (uint64(i+1) * 0x9E3779B97F4A7C15)
		v, err := simulateOne(gen, p, base)
		if err != nil {
			return Stats{}, err
		}
		samples[i] = v
	}
	return calcStats(samples), nil
}

// simulateOne returns the trial metric: openings until the first pack at or
// above the target, or hits within a fixed budget.
func simulateOne(gen *Generator, p SimParams, base uint64) (int, error) {
	counters := p.Start

	if p.Goal == GoalFixedBudget {
		if p.Budget <= 0 {
			return 0, nil
		}
		hits := 0
		for n := 0; n < p.Budget; n++ {
			pack, next, err := gen.Open(p.Config, base+uint64(n), counters)
			if err != nil {
				return 0, err
			}
			counters = next
			if pack.BestRarity >= p.Target {
				hits++
			}
		}
		return hits, nil
	}

	for n := 1; n <= trialCap; n++ {
		pack, next, err := gen.Open(p.Config, base+uint64(n), counters)
		if err != nil {
			return 0, err
		}
		counters = next
		if pack.BestRarity >= p.Target {
			return n, nil
		}
	}
	return trialCap, nil
}
