package archive

import (
	"database/sql"
	"errors"
	"fmt"
	"os"

	_ "modernc.org/sqlite"
)

const digestSchema = `CREATE TABLE digests (
	digest     TEXT PRIMARY KEY,
	record_id  TEXT NOT NULL,
	date       TEXT NOT NULL,
	target_uri TEXT NOT NULL
) WITHOUT ROWID;`

// SQLiteIndex is an Index kept in a temporary SQLite file so that the number
// of distinct digests is bounded by disk, not memory. The file belongs to one
// pass and is removed by Close.
type SQLiteIndex struct {
	path   string
	db     *sql.DB
	lookup *sql.Stmt
	insert *sql.Stmt
	n      int
}

// NewSQLiteIndex creates the database file in dir ("" = os.TempDir()).
func NewSQLiteIndex(dir string) (*SQLiteIndex, error) {
	f, err := os.CreateTemp(dir, "warc-digests-*.db")
	if err != nil {
		return nil, fmt.Errorf("create index file: %w", err)
	}
	path := f.Name()
	f.Close()

	x := &SQLiteIndex{path: path}
	if err := x.open(); err != nil {
		x.Close()
		return nil, err
	}
	return x, nil
}

func (x *SQLiteIndex) open() error {
	db, err := sql.Open("sqlite", x.path)
	if err != nil {
		return fmt.Errorf("open index: %w", err)
	}
	db.SetMaxOpenConns(1)
	x.db = db

	// The file is scratch space thrown away after the pass: no journal, no fsync.
	for _, stmt := range []string{
		"PRAGMA journal_mode = OFF",
		"PRAGMA synchronous = OFF",
		"PRAGMA temp_store = MEMORY",
		digestSchema,
	} {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("init index: %w", err)
		}
	}

	if x.lookup, err = db.Prepare(`SELECT record_id, date, target_uri FROM digests WHERE digest = ?`); err != nil {
		return fmt.Errorf("prepare lookup: %w", err)
	}
	if x.insert, err = db.Prepare(`INSERT INTO digests (digest, record_id, date, target_uri) VALUES (?, ?, ?, ?) ON CONFLICT(digest) DO NOTHING`); err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	return nil
}

// Path returns the backing file path.
func (x *SQLiteIndex) Path() string { return x.path }

func (x *SQLiteIndex) Lookup(digest string) (Occurrence, bool, error) {
	var occ Occurrence
	err := x.lookup.QueryRow(digest).Scan(&occ.RecordID, &occ.Date, &occ.TargetURI)
	if errors.Is(err, sql.ErrNoRows) {
		return Occurrence{}, false, nil
	}
	if err != nil {
		return Occurrence{}, false, fmt.Errorf("index lookup: %w", err)
	}
	return occ, true, nil
}

func (x *SQLiteIndex) Insert(digest string, occ Occurrence) error {
	res, err := x.insert.Exec(digest, occ.RecordID, occ.Date, occ.TargetURI)
	if err != nil {
		return fmt.Errorf("index insert: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("index insert: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrDigestExists, digest)
	}
	x.n++
	return nil
}

func (x *SQLiteIndex) Len() int { return x.n }

// Close closes the database and removes its file.
func (x *SQLiteIndex) Close() error {
	var firstErr error
	for _, st := range []*sql.Stmt{x.lookup, x.insert} {
		if st != nil {
			if err := st.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	x.lookup, x.insert = nil, nil
	if x.db != nil {
		if err := x.db.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close index: %w", err)
		}
		x.db = nil
	}
	if x.path != "" {
		if err := os.Remove(x.path); err != nil && !os.IsNotExist(err) && firstErr == nil {
			firstErr = fmt.Errorf("remove index: %w", err)
		}
		x.path = ""
	}
	return firstErr
}
