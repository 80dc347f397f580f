package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/packlab/booster-backend/internal/catalog"
	"github.com/packlab/booster-backend/internal/config"
	"github.com/packlab/booster-backend/internal/economy"
	"github.com/packlab/booster-backend/internal/store"
)

const testSetYAML = `version: "1"
slots:
  - fixed: common
  - weights:
      uncommon: 0.9
      rare: 0.08
      epic: 0.015
      legendary: 0.004
      mythic: 0.001
holo:
  - name: none
    weight: 0.8
  - name: standard
    weight: 0.2
pity:
  - tier: legendary
    hard: 50
    soft_start: 30
    max_boost: 0.5
holo_pity:
  hard: 10
`

const testCatalogYAML = `version: "1"
cards:
  - {id: c1, name: C One, rarity: common}
  - {id: c2, name: C Two, rarity: common}
  - {id: c3, name: C Three, rarity: common}
  - {id: u1, name: U One, rarity: uncommon}
  - {id: u2, name: U Two, rarity: uncommon}
  - {id: r1, name: R One, rarity: rare}
  - {id: r2, name: R Two, rarity: rare}
  - {id: e1, name: E One, rarity: epic}
  - {id: l1, name: L One, rarity: legendary}
  - {id: m1, name: M One, rarity: mythic}
`

type testEnv struct {
	e           *echo.Echo
	handler     *Handler
	catalogPath string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()

	cfgPath := filepath.Join(dir, "configs", "sets", "default.yaml")
	if err := os.MkdirAll(filepath.Dir(cfgPath), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(cfgPath, []byte(testSetYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	catPath := filepath.Join(dir, "catalog.yaml")
	if err := os.WriteFile(catPath, []byte(testCatalogYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	snap, err := catalog.Load(catPath)
	if err != nil {
		t.Fatal(err)
	}

	db, err := store.Open(filepath.Join(dir, "packs.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })

	prices := economy.PriceTable{CoinsPerPack: 100, CoinsPerBundle: 900, BundleSize: 10}
	h := NewHandler(config.NewLoader(filepath.Join(dir, "configs")), catalog.NewProvider(snap), db, prices, true, catPath)

	e := echo.New()
	h.Register(e)
	return &testEnv{e: e, handler: h, catalogPath: catPath}
}

func (env *testEnv) do(method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(http.MethodGet, "/healthz")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestOpenPacksRequiresPlayer(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(http.MethodPost, "/v1/packs/open")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestOpenPacksSingle(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(http.MethodPost, "/v1/packs/open?player=alice&set=default")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	var resp OpenResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Packs) != 1 {
		t.Fatalf("%d packs, want 1", len(resp.Packs))
	}
	pack := resp.Packs[0]
	if len(pack.Cards) != 2 {
		t.Fatalf("%d cards, want 2 slots", len(pack.Cards))
	}
	if pack.ID == "" || pack.Seed == "" {
		t.Errorf("pack identity missing: %+v", pack)
	}
	if resp.CoinsCost != 100 {
		t.Errorf("coins = %d, want 100", resp.CoinsCost)
	}
}

func TestOpenPacksPinnedSeedReproduces(t *testing.T) {
	env := newTestEnv(t)

	first := env.do(http.MethodPost, "/v1/packs/open?player=p1&set=default&seed=424242")
	second := env.do(http.MethodPost, "/v1/packs/open?player=p2&set=default&seed=424242")
	if first.Code != http.StatusOK || second.Code != http.StatusOK {
		t.Fatalf("statuses = %d, %d", first.Code, second.Code)
	}
	var a, b OpenResponse
	if err := json.Unmarshal(first.Body.Bytes(), &a); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(second.Body.Bytes(), &b); err != nil {
		t.Fatal(err)
	}
	// fresh players with equal counters and a pinned seed pull identical cards
	pa, pb := a.Packs[0], b.Packs[0]
	if pa.ID != pb.ID || pa.Seed != pb.Seed {
		t.Fatalf("pack identity differs: %s/%s vs %s/%s", pa.ID, pa.Seed, pb.ID, pb.Seed)
	}
	for i := range pa.Cards {
		if pa.Cards[i] != pb.Cards[i] {
			t.Fatalf("card %d differs: %+v vs %+v", i, pa.Cards[i], pb.Cards[i])
		}
	}
}

func TestOpenPacksBatchChargesBundle(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(http.MethodPost, "/v1/packs/open?player=alice&set=default&count=10")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	var resp OpenResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Packs) != 10 {
		t.Fatalf("%d packs, want 10", len(resp.Packs))
	}
	if resp.CoinsCost != 900 {
		t.Errorf("coins = %d, want bundle price 900", resp.CoinsCost)
	}
}

func TestOpenPacksRejectsBadCount(t *testing.T) {
	env := newTestEnv(t)
	for _, q := range []string{"count=0", "count=11", "count=abc"} {
		rec := env.do(http.MethodPost, "/v1/packs/open?player=a&set=default&"+q)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", q, rec.Code)
		}
	}
}

func TestOpenPacksPersistsCounters(t *testing.T) {
	env := newTestEnv(t)
	if rec := env.do(http.MethodPost, "/v1/packs/open?player=alice&set=default&count=3"); rec.Code != http.StatusOK {
		t.Fatalf("open failed: %d %s", rec.Code, rec.Body)
	}

	rec := env.do(http.MethodGet, "/v1/pity?player=alice")
	if rec.Code != http.StatusOK {
		t.Fatalf("pity status = %d", rec.Code)
	}
	var pity PityResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &pity); err != nil {
		t.Fatal(err)
	}
	if pity.Player != "alice" {
		t.Errorf("player = %q", pity.Player)
	}
	// three openings move the legendary counter by three unless a legendary
	// dropped, which resets it; either way it stays within [0, 3]
	if pity.Counters.Legendary < 0 || pity.Counters.Legendary > 3 {
		t.Errorf("legendary counter = %d after 3 packs", pity.Counters.Legendary)
	}
}

func TestRecentPacksRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	if rec := env.do(http.MethodPost, "/v1/packs/open?player=bob&set=default&count=2"); rec.Code != http.StatusOK {
		t.Fatalf("open failed: %d %s", rec.Code, rec.Body)
	}

	rec := env.do(http.MethodGet, "/v1/packs/recent?player=bob&limit=5")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var packs []PackResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &packs); err != nil {
		t.Fatal(err)
	}
	if len(packs) != 2 {
		t.Fatalf("%d packs, want 2", len(packs))
	}
	for _, p := range packs {
		if len(p.Cards) != 2 {
			t.Errorf("pack %s has %d cards", p.ID, len(p.Cards))
		}
	}
}

func TestPityUnknownPlayerIsZero(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(http.MethodGet, "/v1/pity?player=ghost")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var pity PityResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &pity); err != nil {
		t.Fatal(err)
	}
	if pity.Counters != (CountersResponse{}) {
		t.Errorf("counters = %+v, want zero", pity.Counters)
	}
}

func TestSimulateDeterministicWithSeed(t *testing.T) {
	env := newTestEnv(t)
	const q = "/v1/simulate?set=default&target=legendary&trials=50&seed=7"

	recA := env.do(http.MethodGet, q)
	recB := env.do(http.MethodGet, q)
	if recA.Code != http.StatusOK || recB.Code != http.StatusOK {
		t.Fatalf("statuses = %d, %d: %s", recA.Code, recB.Code, recA.Body)
	}
	var a, b SimulateResponse
	if err := json.Unmarshal(recA.Body.Bytes(), &a); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(recB.Body.Bytes(), &b); err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Fatalf("seeded simulations differ:\n%+v\n%+v", a, b)
	}
	// hard pity at 50 bounds the tail
	if a.P99 > 51 {
		t.Errorf("p99 = %v, want <= 51", a.P99)
	}
	if a.Goal != "first_at_least" {
		t.Errorf("goal = %q", a.Goal)
	}
}

func TestSimulateRejectsBadTarget(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(http.MethodGet, "/v1/simulate?set=default&target=ultrarare")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestOpenPacksUnknownSetFallsBackToDefaultLayer(t *testing.T) {
	// a set with no file of its own still resolves: the default layer covers
	// it
	env := newTestEnv(t)
	rec := env.do(http.MethodPost, "/v1/packs/open?player=x&set=promo")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	if !strings.Contains(rec.Body.String(), `"set":"promo"`) {
		t.Errorf("response should carry the requested set code: %s", rec.Body)
	}
}

func TestReloadSwapsCatalog(t *testing.T) {
	env := newTestEnv(t)

	// shrink the catalog on disk, then reload
	smaller := `cards:
  - {id: c1, rarity: common}
  - {id: u1, rarity: uncommon}
  - {id: r1, rarity: rare}
  - {id: e1, rarity: epic}
  - {id: l1, rarity: legendary}
  - {id: m1, rarity: mythic}
`
	if err := os.WriteFile(env.catalogPath, []byte(smaller), 0o644); err != nil {
		t.Fatal(err)
	}
	rec := env.do(http.MethodPost, "/v1/admin/reload")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := env.handler.cards.Snapshot().Len(); got != 6 {
		t.Errorf("catalog len = %d after reload, want 6", got)
	}
}

func TestReloadBadCatalogKeepsServing(t *testing.T) {
	env := newTestEnv(t)
	if err := os.WriteFile(env.catalogPath, []byte("cards: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	rec := env.do(http.MethodPost, "/v1/admin/reload")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	// the old snapshot stays live
	if got := env.handler.cards.Snapshot().Len(); got != 10 {
		t.Errorf("catalog len = %d, want untouched 10", got)
	}
}
