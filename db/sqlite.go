package db

import (
	"errors"
	"fmt"

	"studenteval/evaluation"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

var ErrNotFound = errors.New("record not found")

const schema = `
    CREATE TABLE IF NOT EXISTS evaluations (
        id INTEGER PRIMARY KEY,
        student_name TEXT NOT NULL,
        attendance INTEGER,
        classwork INTEGER,
        socialization INTEGER,
        neatness INTEGER,
        evaluation_result TEXT
    );
    `

// Store persists evaluation records in a single SQLite file.
// Every call opens its own connection and closes it before returning.
type Store struct {
	path string
}

// NewStore checks that the database at path can be opened and initialized.
func NewStore(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("database path required")
	}
	s := &Store{path: path}
	conn, err := s.connect()
	if err != nil {
		return nil, err
	}
	conn.Close()
	return s, nil
}

func (s *Store) Path() string {
	return s.path
}

// connect opens the database and creates the table if absent.
func (s *Store) connect() (*sqlx.DB, error) {
	conn, err := sqlx.Open("sqlite3", s.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.path, err)
	}
	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return conn, nil
}

// Create inserts rec and returns the identifier assigned by SQLite.
// rec.ID is ignored.
func (s *Store) Create(rec evaluation.Record) (int64, error) {
	if !rec.Result.Valid() {
		return 0, fmt.Errorf("create: %w: %q", evaluation.ErrUnknownLabel, rec.Result)
	}
	conn, err := s.connect()
	if err != nil {
		return 0, err
	}
	defer conn.Close()

	res, err := conn.NamedExec(`
        INSERT INTO evaluations (
            student_name, attendance, classwork, socialization, neatness, evaluation_result
        ) VALUES (
            :student_name, :attendance, :classwork, :socialization, :neatness, :evaluation_result
        )`, rec)
	if err != nil {
		return 0, fmt.Errorf("create: %w", err)
	}
	return res.LastInsertId()
}

// ListAll returns every record ordered by identifier.
func (s *Store) ListAll() ([]evaluation.Record, error) {
	conn, err := s.connect()
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	records := make([]evaluation.Record, 0)
	err = conn.Select(&records, `
        SELECT id, student_name,
               COALESCE(attendance, 0) AS attendance,
               COALESCE(classwork, 0) AS classwork,
               COALESCE(socialization, 0) AS socialization,
               COALESCE(neatness, 0) AS neatness,
               COALESCE(evaluation_result, '') AS evaluation_result
        FROM evaluations
        ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	return records, nil
}

// Delete removes the record with the given identifier.
func (s *Store) Delete(id int64) error {
	conn, err := s.connect()
	if err != nil {
		return err
	}
	defer conn.Close()

	res, err := conn.Exec(`DELETE FROM evaluations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("delete %d: %w", id, ErrNotFound)
	}
	return nil
}

func (s *Store) Count() (int, error) {
	conn, err := s.connect()
	if err != nil {
		return 0, err
	}
	defer conn.Close()

	var n int
	if err := conn.Get(&n, `SELECT COUNT(*) FROM evaluations`); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}
