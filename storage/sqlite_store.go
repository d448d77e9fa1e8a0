package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"vermlog/internal/timeutil"
	"vermlog/worklog"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

var ErrEntryNotFound = errors.New("entry not found")

// Columns accepted by DistinctValues.
const (
	ColumnSite       = "site_name"
	ColumnCostCenter = "kst"
	ColumnActivity   = "activity"
	ColumnEmployee   = "employee"
)

const selectColumns = `
	id,
	date,
	employee,
	site_name,
	kst,
	activity,
	start_time,
	end_time,
	direct_fraction,
	day_fraction,
	duration_hours,
	result,
	notes,
	created_at,
	updated_at`

func OpenSQLite(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// One writer; keeps the file lock simple for a single-user tool.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &SQLiteStore{db: db, path: path, now: time.Now}
	if err := store.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}

	log.Debug().Str("path", path).Msg("opened entry database")
	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string {
	return s.path
}

func (s *SQLiteStore) ensureSchema() error {
	const schema = `
CREATE TABLE IF NOT EXISTS entries (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	date TEXT NOT NULL,
	employee TEXT NOT NULL,
	site_name TEXT NOT NULL,
	kst TEXT NOT NULL,
	activity TEXT NOT NULL,
	start_time TEXT,
	end_time TEXT,
	direct_fraction REAL,
	day_fraction REAL,
	duration_hours REAL,
	result TEXT NOT NULL,
	notes TEXT,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_entries_date ON entries(date);
`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if err := s.ensureDirectFractionColumn(); err != nil {
		return err
	}

	return nil
}

// Databases written by the desktop version have no direct_fraction column; a
// fraction-only entry there is one without start and end time.
func (s *SQLiteStore) ensureDirectFractionColumn() error {
	rows, err := s.db.Query(`PRAGMA table_info(entries);`)
	if err != nil {
		return fmt.Errorf("query table info: %w", err)
	}
	defer rows.Close()

	hasDirectFraction := false
	for rows.Next() {
		var (
			cid       int
			name      string
			colType   string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			return fmt.Errorf("scan table info: %w", err)
		}
		if strings.EqualFold(name, "direct_fraction") {
			hasDirectFraction = true
			break
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate table info: %w", err)
	}

	if hasDirectFraction {
		return nil
	}

	if _, err := s.db.Exec(`ALTER TABLE entries ADD COLUMN direct_fraction REAL;`); err != nil {
		return fmt.Errorf("add direct_fraction column: %w", err)
	}
	if _, err := s.db.Exec(`
UPDATE entries
SET direct_fraction = day_fraction
WHERE (start_time IS NULL OR start_time = '') AND (end_time IS NULL OR end_time = '');`); err != nil {
		return fmt.Errorf("backfill direct_fraction column: %w", err)
	}
	log.Info().Str("path", s.path).Msg("migrated entries table: added direct_fraction column")

	return nil
}

const insertStmt = `
INSERT INTO entries (
	date,
	employee,
	site_name,
	kst,
	activity,
	start_time,
	end_time,
	direct_fraction,
	day_fraction,
	duration_hours,
	result,
	notes,
	created_at,
	updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// InsertEntry persists a prepared entry and returns its new row ID.
func (s *SQLiteStore) InsertEntry(entry worklog.Entry) (int64, error) {
	return s.insert(s.db, entry)
}

// InsertEntries persists all entries in one transaction.
func (s *SQLiteStore) InsertEntries(entries []worklog.Entry) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}

	inserted := 0
	for _, entry := range entries {
		if _, err := s.insert(tx, entry); err != nil {
			_ = tx.Rollback()
			return 0, err
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}

	return inserted, nil
}

func (s *SQLiteStore) insert(exec execer, entry worklog.Entry) (int64, error) {
	now := s.now()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	if entry.UpdatedAt.IsZero() {
		entry.UpdatedAt = entry.CreatedAt
	}

	res, err := exec.Exec(
		insertStmt,
		entry.DateString(),
		entry.Employee,
		entry.Site,
		entry.CostCenter,
		entry.Activity,
		nullableClock(entry.Start),
		nullableClock(entry.End),
		nullableDecimal(entry.DirectFraction),
		entry.DayFraction.InexactFloat64(),
		entry.DurationHours.Round(3).InexactFloat64(),
		entry.Result,
		nullableString(entry.Notes),
		entry.CreatedAt.Format(time.RFC3339),
		entry.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("insert entry: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read inserted row id: %w", err)
	}
	if id <= 0 {
		return 0, fmt.Errorf("invalid inserted row id %d", id)
	}
	return id, nil
}

// GetEntry returns one entry by ID.
func (s *SQLiteStore) GetEntry(id int64) (worklog.Entry, bool, error) {
	if id <= 0 {
		return worklog.Entry{}, false, fmt.Errorf("entry id must be > 0")
	}

	row := s.db.QueryRow(`SELECT`+selectColumns+` FROM entries WHERE id = ?;`, id)
	entry, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return worklog.Entry{}, false, nil
		}
		return worklog.Entry{}, false, fmt.Errorf("query entry %d: %w", id, err)
	}
	return entry, true, nil
}

// UpdateEntry replaces all user-editable fields for the row with the given ID.
func (s *SQLiteStore) UpdateEntry(entry worklog.Entry) error {
	if entry.ID <= 0 {
		return fmt.Errorf("entry id must be > 0")
	}

	const updateStmt = `
UPDATE entries
SET date = ?,
	employee = ?,
	site_name = ?,
	kst = ?,
	activity = ?,
	start_time = ?,
	end_time = ?,
	direct_fraction = ?,
	day_fraction = ?,
	duration_hours = ?,
	result = ?,
	notes = ?,
	updated_at = ?
WHERE id = ?;`

	res, err := s.db.Exec(
		updateStmt,
		entry.DateString(),
		entry.Employee,
		entry.Site,
		entry.CostCenter,
		entry.Activity,
		nullableClock(entry.Start),
		nullableClock(entry.End),
		nullableDecimal(entry.DirectFraction),
		entry.DayFraction.InexactFloat64(),
		entry.DurationHours.Round(3).InexactFloat64(),
		entry.Result,
		nullableString(entry.Notes),
		s.now().Format(time.RFC3339),
		entry.ID,
	)
	if err != nil {
		return fmt.Errorf("update entry %d: %w", entry.ID, err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read updated row count: %w", err)
	}
	if rowsAffected == 0 {
		return ErrEntryNotFound
	}

	return nil
}

// DeleteEntry removes the row with the given ID.
func (s *SQLiteStore) DeleteEntry(id int64) (bool, error) {
	if id <= 0 {
		return false, fmt.Errorf("entry id must be > 0")
	}

	res, err := s.db.Exec(`DELETE FROM entries WHERE id = ?;`, id)
	if err != nil {
		return false, fmt.Errorf("delete entry %d: %w", id, err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("read deleted row count: %w", err)
	}
	return rowsAffected > 0, nil
}

// DuplicateEntry copies the entry with the given ID to date and returns the new ID.
func (s *SQLiteStore) DuplicateEntry(id int64, date time.Time) (int64, error) {
	existing, found, err := s.GetEntry(id)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, ErrEntryNotFound
	}
	if date.IsZero() {
		date = existing.Date
	}
	return s.InsertEntry(existing.Copy(date))
}

// ListEntries returns all entries ordered by date and ID.
func (s *SQLiteStore) ListEntries() ([]worklog.Entry, error) {
	return s.queryEntries(`SELECT` + selectColumns + ` FROM entries ORDER BY date, id;`)
}

// ListEntriesForDate returns one day ordered by start time; fraction-only
// entries follow in creation order.
func (s *SQLiteStore) ListEntriesForDate(day time.Time) ([]worklog.Entry, error) {
	return s.queryEntries(
		`SELECT`+selectColumns+` FROM entries WHERE date = ?
ORDER BY start_time IS NULL, start_time, created_at, id;`,
		day.Format(timeutil.DayLayout),
	)
}

// ListEntriesInRange returns entries with from <= date <= to.
func (s *SQLiteStore) ListEntriesInRange(from, to time.Time) ([]worklog.Entry, error) {
	return s.queryEntries(
		`SELECT`+selectColumns+` FROM entries WHERE date >= ? AND date <= ?
ORDER BY date, kst, site_name, id;`,
		from.Format(timeutil.DayLayout),
		to.Format(timeutil.DayLayout),
	)
}

// ListEntriesForMonth returns the entries of the given calendar month.
func (s *SQLiteStore) ListEntriesForMonth(year int, month time.Month) ([]worklog.Entry, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	return s.ListEntriesInRange(start, timeutil.MonthEnd(start))
}

// LatestEntry returns the most recently created entry.
func (s *SQLiteStore) LatestEntry() (worklog.Entry, bool, error) {
	row := s.db.QueryRow(`SELECT` + selectColumns + ` FROM entries ORDER BY created_at DESC, id DESC LIMIT 1;`)
	entry, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return worklog.Entry{}, false, nil
		}
		return worklog.Entry{}, false, fmt.Errorf("query latest entry: %w", err)
	}
	return entry, true, nil
}

// DistinctValues returns the sorted distinct non-empty values of one column.
func (s *SQLiteStore) DistinctValues(column string) ([]string, error) {
	switch column {
	case ColumnSite, ColumnCostCenter, ColumnActivity, ColumnEmployee:
	default:
		return nil, fmt.Errorf("unsupported column for distinct values: %s", column)
	}

	query := fmt.Sprintf(
		`SELECT DISTINCT %[1]s FROM entries WHERE %[1]s IS NOT NULL AND %[1]s != '' ORDER BY %[1]s;`,
		column,
	)
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("query distinct %s: %w", column, err)
	}
	defer rows.Close()

	values := make([]string, 0, 32)
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, fmt.Errorf("scan distinct %s: %w", column, err)
		}
		values = append(values, value)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate distinct %s: %w", column, err)
	}
	return values, nil
}

func (s *SQLiteStore) queryEntries(query string, args ...any) ([]worklog.Entry, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	entries := make([]worklog.Entry, 0, 64)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}

	return entries, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (worklog.Entry, error) {
	var (
		entry          worklog.Entry
		dateRaw        string
		startRaw       sql.NullString
		endRaw         sql.NullString
		directFraction sql.NullFloat64
		dayFraction    sql.NullFloat64
		durationHours  sql.NullFloat64
		notes          sql.NullString
		createdRaw     string
		updatedRaw     string
	)

	if err := row.Scan(
		&entry.ID,
		&dateRaw,
		&entry.Employee,
		&entry.Site,
		&entry.CostCenter,
		&entry.Activity,
		&startRaw,
		&endRaw,
		&directFraction,
		&dayFraction,
		&durationHours,
		&entry.Result,
		&notes,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return worklog.Entry{}, err
	}

	var err error
	entry.Date, err = timeutil.ParseDay(dateRaw)
	if err != nil {
		return worklog.Entry{}, fmt.Errorf("parse date of entry %d: %w", entry.ID, err)
	}
	if entry.Start, err = parseNullableClock(startRaw); err != nil {
		return worklog.Entry{}, fmt.Errorf("parse start time of entry %d: %w", entry.ID, err)
	}
	if entry.End, err = parseNullableClock(endRaw); err != nil {
		return worklog.Entry{}, fmt.Errorf("parse end time of entry %d: %w", entry.ID, err)
	}
	if directFraction.Valid {
		value := decimal.NewFromFloat(directFraction.Float64)
		entry.DirectFraction = &value
	}
	if dayFraction.Valid {
		entry.DayFraction = decimal.NewFromFloat(dayFraction.Float64)
	}
	if durationHours.Valid {
		entry.DurationHours = decimal.NewFromFloat(durationHours.Float64)
	}
	entry.Notes = notes.String
	entry.CreatedAt = parseTimestamp(createdRaw)
	entry.UpdatedAt = parseTimestamp(updatedRaw)

	return entry, nil
}

func parseNullableClock(value sql.NullString) (*worklog.Clock, error) {
	if !value.Valid {
		return nil, nil
	}
	return worklog.ParseOptionalClock(value.String)
}

// Timestamps written by the desktop version carry no zone offset.
func parseTimestamp(value string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if parsed, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

func nullableClock(value *worklog.Clock) any {
	if value == nil {
		return nil
	}
	return value.String()
}

func nullableDecimal(value *decimal.Decimal) any {
	if value == nil {
		return nil
	}
	return value.InexactFloat64()
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
