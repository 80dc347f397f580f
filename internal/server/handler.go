package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/packlab/booster-backend/internal/booster"
	"github.com/packlab/booster-backend/internal/catalog"
	"github.com/packlab/booster-backend/internal/config"
	"github.com/packlab/booster-backend/internal/economy"
	"github.com/packlab/booster-backend/internal/store"
)

const (
	defaultSet      = "core"
	maxPacksPerOpen = 10
	maxSimTrials    = 100000
	// validation failures may be low-probability sampling flukes against a
	// tight guarantee; retry a few fresh seeds before surfacing
	validationRetries = 3
)

// Handler wires the pack engine, config layering, catalog, economy and store
// behind the HTTP API.
type Handler struct {
	cfgs        *config.Loader
	cards       *catalog.Provider
	db          *store.Store
	prices      economy.PriceTable
	dust        economy.DustTable
	strict      bool
	catalogPath string
}

func NewHandler(cfgs *config.Loader, cards *catalog.Provider, db *store.Store, prices economy.PriceTable, strict bool, catalogPath string) *Handler {
	return &Handler{
		cfgs:        cfgs,
		cards:       cards,
		db:          db,
		prices:      prices,
		dust:        economy.DefaultDust(),
		strict:      strict,
		catalogPath: catalogPath,
	}
}

func (h *Handler) Register(e *echo.Echo) {
	e.GET("/healthz", h.Healthz)
	e.POST("/v1/packs/open", h.OpenPacks)
	e.GET("/v1/packs/recent", h.RecentPacks)
	e.GET("/v1/pity", h.Pity)
	e.GET("/v1/simulate", h.Simulate)
	e.POST("/v1/admin/reload", h.Reload)
}

func (h *Handler) Healthz(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// OpenPacks opens count packs for a player, threading pity counters from one
// opening into the next and persisting each result.
func (h *Handler) OpenPacks(c echo.Context) error {
	player := c.QueryParam("player")
	if player == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "player is required"})
	}
	set := c.QueryParam("set")
	if set == "" {
		set = defaultSet
	}
	box := c.QueryParam("box")

	count := 1
	if raw := c.QueryParam("count"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxPacksPerOpen {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "count must be an integer between 1 and 10"})
		}
		count = parsed
	}

	var seed uint64
	pinned := false
	if raw := c.QueryParam("seed"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "seed must be an unsigned integer"})
		}
		seed = parsed
		pinned = true
	}

	cfg, err := h.cfgs.Resolve(set, box)
	if err != nil {
		return h.mapError(c, err)
	}

	ctx := c.Request().Context()
	counters, err := h.db.LoadCounters(ctx, player)
	if err != nil {
		return h.mapError(c, err)
	}

	gen := booster.NewGenerator(h.cards.Snapshot())
	gen.Strict = h.strict

	resp := OpenResponse{Packs: make([]PackResponse, 0, count)}
	for i := 0; i < count; i++ {
		var pack booster.Pack
		var next booster.PityCounters
		if pinned {
			pack, next, err = gen.Open(cfg, seed+uint64(i), counters)
		} else {
			pack, next, err = h.openWithRetry(gen, cfg, counters)
		}
		if err != nil {
			return h.mapError(c, err)
		}

		credit := h.dust.DustCredit(pack)
		if err := h.db.SaveOpening(ctx, player, pack, next, credit); err != nil {
			return h.mapError(c, err)
		}

		counters = next
		resp.DustCredit += credit
		resp.Packs = append(resp.Packs, toPackResponse(pack))
	}
	resp.Counters = toCountersResponse(counters)
	resp.CoinsCost = h.prices.CoinsForPacks(count)

	return c.JSON(http.StatusOK, resp)
}

// openWithRetry retries validation failures with fresh seeds, capped. Only
// used when the caller did not pin a seed.
func (h *Handler) openWithRetry(gen *booster.Generator, cfg booster.Config, counters booster.PityCounters) (booster.Pack, booster.PityCounters, error) {
	var lastErr error
	for attempt := 0; attempt < validationRetries; attempt++ {
		pack, next, err := gen.OpenRandom(cfg, counters)
		if err == nil {
			return pack, next, nil
		}
		var verr *booster.ValidationError
		if !errors.As(err, &verr) {
			return booster.Pack{}, counters, err
		}
		slog.Warn("pack validation failed, retrying with fresh seed",
			"attempt", attempt+1, "error", err)
		lastErr = err
	}
	return booster.Pack{}, counters, lastErr
}

// RecentPacks returns a player's newest openings.
func (h *Handler) RecentPacks(c echo.Context) error {
	player := c.QueryParam("player")
	if player == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "player is required"})
	}
	limit := 10
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 100 {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "limit must be an integer between 1 and 100"})
		}
		limit = parsed
	}
	packs, err := h.db.RecentPacks(c.Request().Context(), player, limit)
	if err != nil {
		return h.mapError(c, err)
	}
	out := make([]PackResponse, len(packs))
	for i, p := range packs {
		out[i] = toPackResponse(p)
	}
	return c.JSON(http.StatusOK, out)
}

// Pity returns a player's stored counters.
func (h *Handler) Pity(c echo.Context) error {
	player := c.QueryParam("player")
	if player == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "player is required"})
	}
	counters, err := h.db.LoadCounters(c.Request().Context(), player)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(http.StatusOK, PityResponse{Player: player, Counters: toCountersResponse(counters)})
}

// Simulate runs a Monte Carlo estimate of packs-until-target (or hits within
// a budget) for a set's config.
func (h *Handler) Simulate(c echo.Context) error {
	set := c.QueryParam("set")
	if set == "" {
		set = defaultSet
	}
	target := booster.Legendary
	if raw := c.QueryParam("target"); raw != "" {
		parsed, err := booster.ParseRarity(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		}
		target = parsed
	}
	trials := 1000
	if raw := c.QueryParam("trials"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxSimTrials {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "trials must be an integer between 1 and 100000"})
		}
		trials = parsed
	}
	budget := 0
	if raw := c.QueryParam("budget"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "budget must be a positive integer"})
		}
		budget = parsed
	}
	seed := booster.NewSeed()
	if raw := c.QueryParam("seed"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "seed must be an unsigned integer"})
		}
		seed = parsed
	}

	cfg, err := h.cfgs.Resolve(set, c.QueryParam("box"))
	if err != nil {
		return h.mapError(c, err)
	}

	goal := booster.GoalFirstAtLeast
	if budget > 0 {
		goal = booster.GoalFixedBudget
	}
	gen := booster.NewGenerator(h.cards.Snapshot())
	stats, err := booster.RunMonteCarlo(gen, booster.SimParams{
		Config: cfg,
		Target: target,
		Goal:   goal,
		Trials: trials,
		Budget: budget,
		Seed:   seed,
	})
	if err != nil {
		return h.mapError(c, err)
	}

	return c.JSON(http.StatusOK, SimulateResponse{
		Set:    set,
		Target: target.String(),
		Goal:   string(goal),
		Trials: trials,
		Mean:   stats.Mean,
		StdDev: stats.StdDev,
		P50:    stats.P50,
		P90:    stats.P90,
		P99:    stats.P99,
	})
}

// Reload invalidates the config cache and swaps in a freshly loaded catalog.
func (h *Handler) Reload(c echo.Context) error {
	h.cfgs.Invalidate()
	snap, err := catalog.Load(h.catalogPath)
	if err != nil {
		slog.Error("catalog reload failed", "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "catalog reload failed"})
	}
	h.cards.Replace(snap)
	slog.Info("configuration reloaded", "catalog_cards", snap.Len())
	return c.NoContent(http.StatusNoContent)
}

// mapError translates engine errors into HTTP statuses. Content defects and
// invariant breaches are server-side problems; malformed configs are
// unprocessable.
func (h *Handler) mapError(c echo.Context, err error) error {
	requestID, _ := c.Get("request_id").(string)

	var cfgErr *booster.ConfigError
	var catErr *booster.CatalogError
	var valErr *booster.ValidationError
	switch {
	case errors.As(err, &cfgErr):
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
	case errors.As(err, &catErr):
		slog.Error("catalog cannot satisfy config", "request_id", requestID, "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	case errors.As(err, &valErr):
		slog.Error("pack failed validation", "request_id", requestID, "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	default:
		slog.Error("internal error", "request_id", requestID, "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}

func formatSeed(seed uint64) string {
	return strconv.FormatUint(seed, 10)
}
