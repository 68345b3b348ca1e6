package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/medex/pkg/medex/catalog"
	"github.com/cognicore/medex/pkg/medex/internalerr"
	"github.com/cognicore/medex/pkg/medex/store"
)

// sqliteStore implements store.CatalogStore using SQLite
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite database with WAL mode enabled.
func OpenSQLite(ctx context.Context, path string) (store.CatalogStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS catalog_meta (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS symptoms (
	position INTEGER PRIMARY KEY,
	name TEXT UNIQUE NOT NULL
);

CREATE TABLE IF NOT EXISTS illnesses (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	position INTEGER UNIQUE NOT NULL,
	name TEXT UNIQUE NOT NULL
);

CREATE TABLE IF NOT EXISTS illness_symptoms (
	illness_id INTEGER NOT NULL,
	position INTEGER NOT NULL,
	symptom TEXT NOT NULL,
	PRIMARY KEY(illness_id, position),
	UNIQUE(illness_id, symptom),
	FOREIGN KEY(illness_id) REFERENCES illnesses(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS rules (
	position INTEGER PRIMARY KEY,
	text TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_illness_symptoms_symptom ON illness_symptoms(symptom);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// SaveCatalog replaces the stored catalog in a single transaction
func (s *sqliteStore) SaveCatalog(ctx context.Context, c *catalog.Catalog) error {
	if err := c.Validate(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// illness_symptoms goes with illnesses via ON DELETE CASCADE
	for _, table := range []string{"symptoms", "illnesses", "rules"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}

	for i, name := range c.Symptoms {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO symptoms(position, name) VALUES(?, ?)", i, name); err != nil {
			return err
		}
	}

	for i, ill := range c.Illnesses {
		res, err := tx.ExecContext(ctx,
			"INSERT INTO illnesses(position, name) VALUES(?, ?)", i, ill.Name)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		for j, sym := range ill.Symptoms {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO illness_symptoms(illness_id, position, symptom) VALUES(?, ?, ?)",
				id, j, sym); err != nil {
				return err
			}
		}
	}

	for i, text := range c.Rules {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO rules(position, text) VALUES(?, ?)", i, text); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx, `
INSERT INTO catalog_meta(key, value) VALUES('saved_at', ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value
`, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return err
	}

	return tx.Commit()
}

// LoadCatalog reads the stored catalog back in its saved order
func (s *sqliteStore) LoadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	var savedAt string
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM catalog_meta WHERE key = 'saved_at'").Scan(&savedAt)
	if err == sql.ErrNoRows {
		return nil, internalerr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	c := &catalog.Catalog{}

	c.Symptoms, err = s.loadStringColumn(ctx, "SELECT name FROM symptoms ORDER BY position")
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, "SELECT id, name FROM illnesses ORDER BY position")
	if err != nil {
		return nil, err
	}
	var ids []int64
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			rows.Close()
			return nil, err
		}
		ids = append(ids, id)
		c.Illnesses = append(c.Illnesses, catalog.Illness{Name: name})
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}

	for i, id := range ids {
		syms, err := s.loadStringColumn(ctx,
			"SELECT symptom FROM illness_symptoms WHERE illness_id = ? ORDER BY position", id)
		if err != nil {
			return nil, err
		}
		c.Illnesses[i].Symptoms = syms
	}

	c.Rules, err = s.loadStringColumn(ctx, "SELECT text FROM rules ORDER BY position")
	if err != nil {
		return nil, err
	}

	return c, nil
}

// GetIllness returns a single illness by name
func (s *sqliteStore) GetIllness(ctx context.Context, name string) (catalog.Illness, bool, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, "SELECT id FROM illnesses WHERE name = ?", name).Scan(&id)
	if err == sql.ErrNoRows {
		return catalog.Illness{}, false, nil
	}
	if err != nil {
		return catalog.Illness{}, false, err
	}

	syms, err := s.loadStringColumn(ctx,
		"SELECT symptom FROM illness_symptoms WHERE illness_id = ? ORDER BY position", id)
	if err != nil {
		return catalog.Illness{}, false, err
	}
	return catalog.Illness{Name: name, Symptoms: syms}, true, nil
}

func (s *sqliteStore) loadStringColumn(ctx context.Context, query string, args ...interface{}) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
