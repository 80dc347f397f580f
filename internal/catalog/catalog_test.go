package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/packlab/booster-backend/internal/booster"
)

const catalogYAML = `version: "2026.1"
cards:
  - id: c-test-sprite
    name: Test Sprite
    rarity: common
  - id: c-test-golem
    name: Test Golem
    rarity: common
  - id: r-test-drake
    name: Test Drake
    rarity: rare
    artist: A. Painter
  - id: m-test-devourer
    name: Test Devourer
    rarity: mythic
    flavor: It hungers.
`

func writeCatalog(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadIndexesByRarity(t *testing.T) {
	snap, err := Load(writeCatalog(t, catalogYAML))
	if err != nil {
		t.Fatal(err)
	}
	if snap.Len() != 4 {
		t.Errorf("len = %d, want 4", snap.Len())
	}
	if snap.Version() != "2026.1" {
		t.Errorf("version = %q", snap.Version())
	}
	if got := len(snap.CardsByRarity(booster.Common)); got != 2 {
		t.Errorf("%d commons, want 2", got)
	}
	rares := snap.CardsByRarity(booster.Rare)
	if len(rares) != 1 || rares[0].Artist != "A. Painter" {
		t.Errorf("rare entry = %+v", rares)
	}
	if got := snap.CardsByRarity(booster.Legendary); got != nil {
		t.Errorf("absent rarity should index to nil, got %+v", got)
	}
}

func TestLoadRejectsDuplicateIDs(t *testing.T) {
	_, err := Load(writeCatalog(t, `cards:
  - id: dup
    rarity: common
  - id: dup
    rarity: rare
`))
	if err == nil || !strings.Contains(err.Error(), "duplicate id") {
		t.Fatalf("expected duplicate id error, got %v", err)
	}
}

func TestLoadRejectsUnknownRarity(t *testing.T) {
	_, err := Load(writeCatalog(t, `cards:
  - id: x
    rarity: ultrarare
`))
	if err == nil || !strings.Contains(err.Error(), "x") {
		t.Fatalf("error should name the offending card, got %v", err)
	}
}

func TestLoadRejectsEmptyCatalog(t *testing.T) {
	if _, err := Load(writeCatalog(t, `version: "1"`)); err == nil {
		t.Fatal("empty catalog must fail to load")
	}
}

func TestProviderAtomicSwap(t *testing.T) {
	a, err := Load(writeCatalog(t, catalogYAML))
	if err != nil {
		t.Fatal(err)
	}
	b, err := Load(writeCatalog(t, `version: "2026.2"
cards:
  - id: only
    rarity: common
`))
	if err != nil {
		t.Fatal(err)
	}

	p := NewProvider(a)
	held := p.Snapshot()
	p.Replace(b)

	if p.Snapshot().Version() != "2026.2" {
		t.Errorf("provider serves %q after swap", p.Snapshot().Version())
	}
	// a reader that grabbed the old snapshot keeps a consistent view
	if held.Len() != 4 {
		t.Errorf("held snapshot mutated: len = %d", held.Len())
	}
}

func TestFileWatcherFiresOnChange(t *testing.T) {
	path := writeCatalog(t, catalogYAML)

	changed := make(chan string, 1)
	w := NewFileWatcher([]string{path}, 10*time.Millisecond, func(p string) {
		select {
		case changed <- p:
		default:
		}
	})
	w.Start()
	defer w.Stop()

	// let the watcher prime its mtime cache
	time.Sleep(30 * time.Millisecond)

	if err := os.WriteFile(path, []byte(catalogYAML+"# touched\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	// mtime granularity on some filesystems is a full second; force it forward
	future := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatal(err)
	}

	select {
	case p := <-changed:
		if p != path {
			t.Errorf("callback got %q, want %q", p, path)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("watcher never reported the change")
	}
}
