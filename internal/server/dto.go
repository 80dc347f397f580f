package server

import (
	"time"

	"github.com/packlab/booster-backend/internal/booster"
)

// PackCardResponse is one pulled card in the JSON API shape.
type PackCardResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Rarity    string `json:"rarity"`
	Holo      string `json:"holo"`
	Duplicate bool   `json:"duplicate,omitempty"`
}

// PackResponse is one opened pack.
type PackResponse struct {
	ID         string             `json:"id"`
	Set        string             `json:"set"`
	Seed       string             `json:"seed"`
	Design     string             `json:"design,omitempty"`
	BestRarity string             `json:"best_rarity"`
	Cards      []PackCardResponse `json:"cards"`
	CreatedAt  time.Time          `json:"created_at"`
}

// CountersResponse mirrors booster.PityCounters on the wire.
type CountersResponse struct {
	Epic      int `json:"epic"`
	Legendary int `json:"legendary"`
	Mythic    int `json:"mythic"`
	Holo      int `json:"holo"`
}

// OpenResponse is the result of POST /v1/packs/open.
type OpenResponse struct {
	Packs      []PackResponse   `json:"packs"`
	Counters   CountersResponse `json:"counters"`
	CoinsCost  int              `json:"coins_cost"`
	DustCredit int              `json:"dust_credit"`
}

// PityResponse is the result of GET /v1/pity.
type PityResponse struct {
	Player   string           `json:"player"`
	Counters CountersResponse `json:"counters"`
}

// SimulateResponse summarizes a Monte Carlo run.
type SimulateResponse struct {
	Set    string  `json:"set"`
	Target string  `json:"target"`
	Goal   string  `json:"goal"`
	Trials int     `json:"trials"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
	P50    float64 `json:"p50"`
	P90    float64 `json:"p90"`
	P99    float64 `json:"p99"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func toPackResponse(p booster.Pack) PackResponse {
	cards := make([]PackCardResponse, len(p.Cards))
	for i, c := range p.Cards {
		cards[i] = PackCardResponse{
			ID:        c.ID,
			Name:      c.Name,
			Rarity:    c.Rarity.String(),
			Holo:      c.Holo.String(),
			Duplicate: c.Duplicate,
		}
	}
	return PackResponse{
		ID:         p.ID,
		Set:        p.SetCode,
		Seed:       formatSeed(p.Seed),
		Design:     p.Design,
		BestRarity: p.BestRarity.String(),
		Cards:      cards,
		CreatedAt:  p.CreatedAt,
	}
}

func toCountersResponse(c booster.PityCounters) CountersResponse {
	return CountersResponse{Epic: c.Epic, Legendary: c.Legendary, Mythic: c.Mythic, Holo: c.Holo}
}
