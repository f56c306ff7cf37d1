/*
Package catalog keeps encoded feature grids in a SQLite database so runs can
be archived and retrieved by name.

Identical encodings are stored once; several names may refer to the same
grid.
*/
package catalog

import (
	"crypto/sha1"
	"database/sql"
	"errors"
	"fmt"

	"github.com/manifest-destiny/mapgrid/grid"
	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when no grid is stored under a name.
var ErrNotFound = errors.New("catalog: grid not found")

// Catalog is a SQLite backed store of grids.
type Catalog struct {
	db *sql.DB
}

// Entry describes a stored grid.
type Entry struct {
	Name   string
	SHA1   string
	Width  int
	Height int
	Bands  int
}

// Open opens (or creates) the catalog in the named file.
func Open(file string) (*Catalog, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS grid (id INTEGER PRIMARY KEY NOT NULL, sha1 TEXT NOT NULL UNIQUE, width INTEGER NOT NULL, height INTEGER NOT NULL, bands INTEGER NOT NULL, data BLOB NOT NULL)"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS name (name TEXT PRIMARY KEY NOT NULL, grid_id INTEGER NOT NULL, FOREIGN KEY(grid_id) REFERENCES grid(id))"); err != nil {
		db.Close()
		return nil, err
	}

	return &Catalog{
		db: db,
	}, nil
}

// Close closes the underlying database
func (c *Catalog) Close() error {
	return c.db.Close()
}

func (c *Catalog) addGrid(g *grid.Grid) (int64, error) {
	b, err := g.MarshalBinary()
	if err != nil {
		return 0, err
	}
	sha := fmt.Sprintf("%X", sha1.Sum(b))

	var id int64
	switch err := c.db.QueryRow("SELECT id FROM grid WHERE sha1 = ?", sha).Scan(&id); err {
	case sql.ErrNoRows:
		result, err := c.db.Exec("INSERT INTO grid (sha1, width, height, bands, data) VALUES (?, ?, ?, ?, ?)", sha, g.Width(), g.Height(), g.Bands(), b)
		if err != nil {
			return 0, err
		}
		return result.LastInsertId()
	case nil:
		return id, nil
	default:
		return 0, err
	}
}

// Put stores g under name, replacing anything previously stored under it.
func (c *Catalog) Put(name string, g *grid.Grid) error {
	if name == "" {
		return errors.New("catalog: empty name")
	}

	id, err := c.addGrid(g)
	if err != nil {
		return err
	}

	if _, err := c.db.Exec("INSERT OR REPLACE INTO name (name, grid_id) VALUES (?, ?)", name, id); err != nil {
		return err
	}

	_, err = c.db.Exec("DELETE FROM grid WHERE id NOT IN (SELECT grid_id FROM name)")
	return err
}

// Get returns the grid stored under name.
func (c *Catalog) Get(name string) (*grid.Grid, error) {
	var b []byte
	switch err := c.db.QueryRow("SELECT g.data FROM name AS n JOIN grid AS g ON n.grid_id = g.id WHERE n.name = ?", name).Scan(&b); err {
	case sql.ErrNoRows:
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	case nil:
		g := new(grid.Grid)
		if err := g.UnmarshalBinary(b); err != nil {
			return nil, err
		}
		return g, nil
	default:
		return nil, err
	}
}

// Delete removes name from the catalog.
func (c *Catalog) Delete(name string) error {
	result, err := c.db.Exec("DELETE FROM name WHERE name = ?", name)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}

	_, err = c.db.Exec("DELETE FROM grid WHERE id NOT IN (SELECT grid_id FROM name)")
	return err
}

// List returns every stored name in order.
func (c *Catalog) List() ([]Entry, error) {
	rows, err := c.db.Query("SELECT n.name, g.sha1, g.width, g.height, g.bands FROM name AS n JOIN grid AS g ON n.grid_id = g.id ORDER BY n.name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Name, &e.SHA1, &e.Width, &e.Height, &e.Bands); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
