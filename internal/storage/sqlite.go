// Package storage persists harvested record sets in a local SQLite
// database so deduplication can be re-run without re-fetching from PubMed.
package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/kinleydh/syrev/internal/record"
)

// DB wraps a SQLite database connection.
type DB struct {
	db *sql.DB
}

// recordColumns is the standard column list for the records table, in
// record.Columns order.
const recordColumns = `pmid, doi, title, authors, journal,
	pub_year, full_pub_date, volume, issue, pages,
	article_type, language, abstract, keywords,
	grants, pub_status, pubmed_link, full_text_link`

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// createSchema creates the database schema if it doesn't exist.
func createSchema(db *sql.DB) error {
	schema := `
		-- One row per named harvest
		CREATE TABLE IF NOT EXISTS record_sets (
			name TEXT PRIMARY KEY,
			query TEXT NOT NULL,
			created_at INTEGER NOT NULL
		);

		-- Harvested records, ordered by seq within a set
		CREATE TABLE IF NOT EXISTS records (
			set_name TEXT NOT NULL,
			seq INTEGER NOT NULL,
			pmid TEXT, doi TEXT, title TEXT, authors TEXT, journal TEXT,
			pub_year TEXT, full_pub_date TEXT, volume TEXT, issue TEXT, pages TEXT,
			article_type TEXT, language TEXT, abstract TEXT, keywords TEXT,
			grants TEXT, pub_status TEXT, pubmed_link TEXT, full_text_link TEXT,
			PRIMARY KEY (set_name, seq)
		);

		-- Index for identifier lookups across sets
		CREATE INDEX IF NOT EXISTS idx_records_pmid ON records(pmid) WHERE pmid != '';
	`

	_, err := db.Exec(schema)
	return err
}

// SetInfo describes a stored record set.
type SetInfo struct {
	Name      string
	Query     string
	Records   int
	CreatedAt time.Time
}

// SaveSet stores records under name, replacing any previous set with the
// same name. Record order is preserved through the seq column.
func (d *DB) SaveSet(name, query string, records []record.Record) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM records WHERE set_name = ?", name); err != nil {
		return fmt.Errorf("clearing records: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM record_sets WHERE name = ?", name); err != nil {
		return fmt.Errorf("clearing set: %w", err)
	}

	if _, err := tx.Exec(
		"INSERT INTO record_sets (name, query, created_at) VALUES (?, ?, ?)",
		name, query, time.Now().Unix(),
	); err != nil {
		return fmt.Errorf("inserting set: %w", err)
	}

	stmt, err := tx.Prepare(fmt.Sprintf(`
		INSERT INTO records (set_name, seq, %s)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, recordColumns))
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		if _, err := stmt.Exec(
			name, i,
			r.PMID, r.DOI, r.Title, r.Authors, r.Journal,
			r.PublicationYear, r.FullPublicationDate, r.Volume, r.Issue, r.Pages,
			r.ArticleType, r.Language, r.Abstract, r.Keywords,
			r.Grants, r.PublicationStatus, r.PubMedLink, r.FullTextLink,
		); err != nil {
			return fmt.Errorf("inserting record %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// LoadSet returns the records stored under name in their original order.
// An unknown name returns ErrSetNotFound.
func (d *DB) LoadSet(name string) ([]record.Record, error) {
	var exists int
	err := d.db.QueryRow("SELECT COUNT(*) FROM record_sets WHERE name = ?", name).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("checking set: %w", err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("%w: %s", ErrSetNotFound, name)
	}

	rows, err := d.db.Query(fmt.Sprintf(
		"SELECT %s FROM records WHERE set_name = ? ORDER BY seq", recordColumns,
	), name)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var records []record.Record
	for rows.Next() {
		var r record.Record
		if err := rows.Scan(
			&r.PMID, &r.DOI, &r.Title, &r.Authors, &r.Journal,
			&r.PublicationYear, &r.FullPublicationDate, &r.Volume, &r.Issue, &r.Pages,
			&r.ArticleType, &r.Language, &r.Abstract, &r.Keywords,
			&r.Grants, &r.PublicationStatus, &r.PubMedLink, &r.FullTextLink,
		); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// ListSets returns metadata for every stored set, oldest first.
func (d *DB) ListSets() ([]SetInfo, error) {
	rows, err := d.db.Query(`
		SELECT s.name, s.query, s.created_at, COUNT(r.seq)
		FROM record_sets s
		LEFT JOIN records r ON r.set_name = s.name
		GROUP BY s.name, s.query, s.created_at
		ORDER BY s.created_at, s.name
	`)
	if err != nil {
		return nil, fmt.Errorf("querying sets: %w", err)
	}
	defer rows.Close()

	var sets []SetInfo
	for rows.Next() {
		var info SetInfo
		var createdAt int64
		if err := rows.Scan(&info.Name, &info.Query, &createdAt, &info.Records); err != nil {
			return nil, fmt.Errorf("scanning set: %w", err)
		}
		info.CreatedAt = time.Unix(createdAt, 0)
		sets = append(sets, info)
	}
	return sets, rows.Err()
}

// DeleteSet removes a set and its records. Deleting an unknown set is not
// an error.
func (d *DB) DeleteSet(name string) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM records WHERE set_name = ?", name); err != nil {
		return fmt.Errorf("deleting records: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM record_sets WHERE name = ?", name); err != nil {
		return fmt.Errorf("deleting set: %w", err)
	}
	return tx.Commit()
}
