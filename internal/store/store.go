// Package store persists pity counters and opened packs in SQLite.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/packlab/booster-backend/internal/booster"
)

const timeFormat = time.RFC3339Nano

const schema = `
CREATE TABLE IF NOT EXISTS pity_counters (
	player_id  TEXT PRIMARY KEY,
	epic       INTEGER NOT NULL DEFAULT 0,
	legendary  INTEGER NOT NULL DEFAULT 0,
	mythic     INTEGER NOT NULL DEFAULT 0,
	holo       INTEGER NOT NULL DEFAULT 0,
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS packs (
	id          TEXT PRIMARY KEY,
	player_id   TEXT NOT NULL,
	set_code    TEXT NOT NULL,
	seed        TEXT NOT NULL,
	design      TEXT NOT NULL DEFAULT '',
	best_rarity TEXT NOT NULL,
	dust_credit INTEGER NOT NULL DEFAULT 0,
	created_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS pack_cards (
	pack_id   TEXT NOT NULL,
	position  INTEGER NOT NULL,
	card_id   TEXT NOT NULL,
	rarity    TEXT NOT NULL,
	holo      TEXT NOT NULL,
	duplicate INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (pack_id, position)
);

CREATE INDEX IF NOT EXISTS idx_packs_player ON packs(player_id, created_at);
`

// Store provides a SQLite-backed record of openings and per-player pity
// state.
type Store struct {
	db *sql.DB
}

// Open opens (and if needed initializes) a SQLite store at the provided
// path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying SQLite database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// LoadCounters returns the player's pity counters, or the zero value for a
// player with no recorded openings.
func (s *Store) LoadCounters(ctx context.Context, playerID string) (booster.PityCounters, error) {
	var c booster.PityCounters
	row := s.db.QueryRowContext(ctx,
		`SELECT epic, legendary, mythic, holo FROM pity_counters WHERE player_id = ?`, playerID)
	err := row.Scan(&c.Epic, &c.Legendary, &c.Mythic, &c.Holo)
	if err == sql.ErrNoRows {
		return booster.PityCounters{}, nil
	}
	if err != nil {
		return booster.PityCounters{}, fmt.Errorf("load counters: %w", err)
	}
	return c, nil
}

// SaveOpening persists one opened pack and the player's updated counters in
// a single transaction.
func (s *Store) SaveOpening(ctx context.Context, playerID string, pack booster.Pack, counters booster.PityCounters, dust int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(timeFormat)
	_, err = tx.ExecContext(ctx, `
		INSERT INTO pity_counters (player_id, epic, legendary, mythic, holo, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (player_id) DO UPDATE SET
			epic = excluded.epic,
			legendary = excluded.legendary,
			mythic = excluded.mythic,
			holo = excluded.holo,
			updated_at = excluded.updated_at`,
		playerID, counters.Epic, counters.Legendary, counters.Mythic, counters.Holo, now)
	if err != nil {
		return fmt.Errorf("save counters: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO packs (id, player_id, set_code, seed, design, best_rarity, dust_credit, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		pack.ID, playerID, pack.SetCode, strconv.FormatUint(pack.Seed, 10),
		pack.Design, pack.BestRarity.String(), dust, pack.CreatedAt.Format(timeFormat))
	if err != nil {
		return fmt.Errorf("save pack: %w", err)
	}

	for i, c := range pack.Cards {
		dup := 0
		if c.Duplicate {
			dup = 1
		}
		_, err = tx.ExecContext(ctx, `
			INSERT OR REPLACE INTO pack_cards (pack_id, position, card_id, rarity, holo, duplicate)
			VALUES (?, ?, ?, ?, ?, ?)`,
			pack.ID, i, c.ID, c.Rarity.String(), c.Holo.String(), dup)
		if err != nil {
			return fmt.Errorf("save pack card %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// RecentPacks returns the player's newest openings, newest first. Card
// display metadata lives in the catalog; rows carry identity, rarity and
// holo only.
func (s *Store) RecentPacks(ctx context.Context, playerID string, limit int) ([]booster.Pack, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, set_code, seed, design, best_rarity, created_at
		FROM packs WHERE player_id = ?
		ORDER BY created_at DESC LIMIT ?`, playerID, limit)
	if err != nil {
		return nil, fmt.Errorf("query packs: %w", err)
	}
	defer rows.Close()

	var packs []booster.Pack
	for rows.Next() {
		var p booster.Pack
		var seed, best, created string
		if err := rows.Scan(&p.ID, &p.SetCode, &seed, &p.Design, &best, &created); err != nil {
			return nil, fmt.Errorf("scan pack: %w", err)
		}
		if p.Seed, err = strconv.ParseUint(seed, 10, 64); err != nil {
			return nil, fmt.Errorf("pack %s: bad seed: %w", p.ID, err)
		}
		if p.BestRarity, err = booster.ParseRarity(best); err != nil {
			return nil, fmt.Errorf("pack %s: %w", p.ID, err)
		}
		if p.CreatedAt, err = time.Parse(timeFormat, created); err != nil {
			return nil, fmt.Errorf("pack %s: bad timestamp: %w", p.ID, err)
		}
		if p.Cards, err = s.packCards(ctx, p.ID); err != nil {
			return nil, err
		}
		packs = append(packs, p)
	}
	return packs, rows.Err()
}

func (s *Store) packCards(ctx context.Context, packID string) ([]booster.PackCard, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT card_id, rarity, holo, duplicate
		FROM pack_cards WHERE pack_id = ? ORDER BY position`, packID)
	if err != nil {
		return nil, fmt.Errorf("query pack cards: %w", err)
	}
	defer rows.Close()

	var cards []booster.PackCard
	for rows.Next() {
		var c booster.PackCard
		var rarity, holo string
		var dup int
		if err := rows.Scan(&c.Card.ID, &rarity, &holo, &dup); err != nil {
			return nil, fmt.Errorf("scan pack card: %w", err)
		}
		if c.Card.Rarity, err = booster.ParseRarity(rarity); err != nil {
			return nil, err
		}
		if c.Holo, err = booster.ParseHolo(holo); err != nil {
			return nil, err
		}
		c.Duplicate = dup != 0
		cards = append(cards, c)
	}
	return cards, rows.Err()
}
