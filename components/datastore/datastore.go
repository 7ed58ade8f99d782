// Package datastore reads the user's structured personal records.
package datastore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Supported database/sql driver names
const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite"
)

var (
	ErrInvalidIdentifier = errors.New("invalid identifier")
	ErrNotReadOnly       = errors.New("only SELECT or WITH statements are allowed")
)

var identifierRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// Row is one result row keyed by column name
type Row map[string]any

// Store is the structured data service
type Store interface {
	// Select returns rows of table whose columns equal every value in filters
	Select(ctx context.Context, table string, columns []string, filters map[string]any) ([]Row, error)
	// Query runs a read-only statement
	Query(ctx context.Context, query string, args ...any) ([]Row, error)
}

// SQLStore implements Store over database/sql
type SQLStore struct {
	db     *sql.DB
	driver string
}

var _ Store = (*SQLStore)(nil)

// Open connects to dsn with driver, pgx for Postgres or sqlite
func Open(ctx context.Context, driver string, dsn string) (*SQLStore, error) {
	switch driver {
	case DriverPostgres, DriverSQLite:
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}
	db, err := openDB(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	return New(db, driver), nil
}

func New(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver}
}

func (s *SQLStore) DB() *sql.DB {
	return s.db
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (s *SQLStore) placeholder(n int) string {
	if s.driver == DriverPostgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

func (s *SQLStore) Select(ctx context.Context, table string, columns []string, filters map[string]any) ([]Row, error) {
	if !identifierRegex.MatchString(table) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidIdentifier, table)
	}
	projection := "*"
	if len(columns) > 0 && !(len(columns) == 1 && columns[0] == "*") {
		for _, col := range columns {
			if !identifierRegex.MatchString(col) {
				return nil, fmt.Errorf("%w: %q", ErrInvalidIdentifier, col)
			}
		}
		projection = strings.Join(columns, ", ")
	}
	keys := make([]string, 0, len(filters))
	for k := range filters {
		if !identifierRegex.MatchString(k) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidIdentifier, k)
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	sb := new(strings.Builder)
	fmt.Fprintf(sb, "SELECT %s FROM %s", projection, table)
	args := make([]any, 0, len(keys))
	for i, k := range keys {
		if i == 0 {
			sb.WriteString(" WHERE ")
		} else {
			sb.WriteString(" AND ")
		}
		fmt.Fprintf(sb, "%s = %s", k, s.placeholder(i+1))
		args = append(args, filters[k])
	}
	return s.rows(ctx, sb.String(), args...)
}

func (s *SQLStore) Query(ctx context.Context, query string, args ...any) ([]Row, error) {
	if !IsReadOnly(query) {
		return nil, ErrNotReadOnly
	}
	return s.rows(ctx, query, args...)
}

// Insert adds one row to table and is used for seeding
func (s *SQLStore) Insert(ctx context.Context, table string, values map[string]any) error {
	if !identifierRegex.MatchString(table) {
		return fmt.Errorf("%w: %q", ErrInvalidIdentifier, table)
	}
	if len(values) == 0 {
		return errors.New("no values to insert")
	}
	cols := make([]string, 0, len(values))
	for k := range values {
		if !identifierRegex.MatchString(k) {
			return fmt.Errorf("%w: %q", ErrInvalidIdentifier, k)
		}
		cols = append(cols, k)
	}
	sort.Strings(cols)
	holders := make([]string, 0, len(cols))
	args := make([]any, 0, len(cols))
	for i, col := range cols {
		holders = append(holders, s.placeholder(i+1))
		args = append(args, values[col])
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(cols, ", "), strings.Join(holders, ", "))
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert into %s: %w", table, err)
	}
	return nil
}

func (s *SQLStore) rows(ctx context.Context, query string, args ...any) ([]Row, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	var ret []Row
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(Row, len(cols))
		for i, col := range cols {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
				continue
			}
			row[col] = values[i]
		}
		ret = append(ret, row)
	}
	return ret, rows.Err()
}

// IsReadOnly reports whether query is a single SELECT or WITH statement
func IsReadOnly(query string) bool {
	q := strings.TrimSpace(query)
	q = strings.TrimSuffix(q, ";")
	if strings.Contains(q, ";") {
		return false
	}
	fields := strings.Fields(q)
	if len(fields) == 0 {
		return false
	}
	switch strings.ToUpper(fields[0]) {
	case "SELECT", "WITH":
		return true
	}
	return false
}
