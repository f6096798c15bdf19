package content

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/vbonduro/atelier/internal/db"
)

// Store is the SQL row-store for every content schema. Table and column
// names come from Schema definitions only, never from request input.
type Store struct {
	db      *sql.DB
	dialect db.Dialect
}

func NewStore(conn *sql.DB, dialect db.Dialect) *Store {
	return &Store{db: conn, dialect: dialect}
}

func (s *Store) List(ctx context.Context, schema *Schema) ([]*Record, error) {
	rows, err := s.db.QueryContext(ctx, s.dialect.Rebind(
		"SELECT "+schema.selectList()+" FROM "+schema.Table+" ORDER BY "+schema.orderClause(),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", schema.Name, err)
	}
	defer rows.Close()

	records := make([]*Record, 0)
	for rows.Next() {
		rec, err := scanRecord(schema, rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", schema.Name, err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s: %w", schema.Name, err)
	}

	return records, nil
}

// Get returns nil, nil when no row has the id.
func (s *Store) Get(ctx context.Context, schema *Schema, id int64) (*Record, error) {
	row := s.db.QueryRowContext(ctx, s.dialect.Rebind(
		"SELECT "+schema.selectList()+" FROM "+schema.Table+" WHERE id = ?",
	), id)
	rec, err := scanRecord(schema, row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", schema.Name, err)
	}
	return rec, nil
}

// Top returns the first row in schema order, or nil, nil for an empty table.
func (s *Store) Top(ctx context.Context, schema *Schema) (*Record, error) {
	row := s.db.QueryRowContext(ctx, s.dialect.Rebind(
		"SELECT "+schema.selectList()+" FROM "+schema.Table+" ORDER BY "+schema.orderClause()+" LIMIT 1",
	))
	rec, err := scanRecord(schema, row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get first %s: %w", schema.Name, err)
	}
	return rec, nil
}

func (s *Store) Insert(ctx context.Context, schema *Schema, values map[string]any) (*Record, error) {
	cols := schema.Columns()
	args, err := columnArgs(schema, cols, values)
	if err != nil {
		return nil, err
	}

	query := "INSERT INTO " + schema.Table + " (" + strings.Join(cols, ", ") + ") VALUES (" +
		placeholders(len(cols)) + ") RETURNING id"

	var id int64
	if err := s.db.QueryRowContext(ctx, s.dialect.Rebind(query), args...).Scan(&id); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", schema.Name, err)
	}

	return s.Get(ctx, schema, id)
}

// Update replaces every data column of row id. A non-zero version makes the
// write conditional on the stored version; a mismatch yields
// ErrVersionConflict. A missing row yields ErrNotFound.
func (s *Store) Update(ctx context.Context, schema *Schema, id, version int64, values map[string]any) (*Record, error) {
	cols := schema.Columns()
	args, err := columnArgs(schema, cols, values)
	if err != nil {
		return nil, err
	}

	sets := make([]string, len(cols))
	for i, c := range cols {
		sets[i] = c + " = ?"
	}
	query := "UPDATE " + schema.Table + " SET " + strings.Join(sets, ", ") +
		", version = version + 1, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	args = append(args, id)
	if version > 0 {
		query += " AND version = ?"
		args = append(args, version)
	}

	result, err := s.db.ExecContext(ctx, s.dialect.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update %s: %w", schema.Name, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}

	rec, err := s.Get(ctx, schema, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrNotFound
	}
	if rowsAffected == 0 {
		return nil, ErrVersionConflict
	}
	return rec, nil
}

// Delete removes row id and returns it as it was. A missing row yields
// ErrNotFound.
func (s *Store) Delete(ctx context.Context, schema *Schema, id int64) (*Record, error) {
	rec, err := s.Get(ctx, schema, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrNotFound
	}

	result, err := s.db.ExecContext(ctx, s.dialect.Rebind("DELETE FROM "+schema.Table+" WHERE id = ?"), id)
	if err != nil {
		return nil, fmt.Errorf("failed to delete %s: %w", schema.Name, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return nil, ErrNotFound
	}

	return rec, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(schema *Schema, row scanner) (*Record, error) {
	cols := schema.Columns()
	rec := &Record{Values: make(map[string]any, len(cols))}

	texts := make([]sql.NullString, len(cols))
	ints := make([]sql.NullInt64, len(cols))
	dest := make([]any, 0, len(cols)+4)
	dest = append(dest, &rec.ID, &rec.Version)
	for i, c := range cols {
		if schema.kindOf(c) == Int {
			dest = append(dest, &ints[i])
		} else {
			dest = append(dest, &texts[i])
		}
	}
	dest = append(dest, &rec.CreatedAt, &rec.UpdatedAt)

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	for i, c := range cols {
		switch schema.kindOf(c) {
		case Int:
			rec.Values[c] = ints[i].Int64
		case List:
			list := []string{}
			if texts[i].Valid && texts[i].String != "" {
				if err := json.Unmarshal([]byte(texts[i].String), &list); err != nil {
					return nil, fmt.Errorf("failed to decode %s: %w", c, err)
				}
			}
			rec.Values[c] = list
		default:
			if texts[i].Valid {
				rec.Values[c] = texts[i].String
			} else {
				rec.Values[c] = nil
			}
		}
	}
	return rec, nil
}

func columnArgs(schema *Schema, cols []string, values map[string]any) ([]any, error) {
	args := make([]any, len(cols))
	for i, c := range cols {
		v := values[c]
		switch schema.kindOf(c) {
		case Int:
			n, _ := v.(int64)
			args[i] = n
		case List:
			list, _ := v.([]string)
			if list == nil {
				list = []string{}
			}
			encoded, err := json.Marshal(list)
			if err != nil {
				return nil, fmt.Errorf("failed to encode %s: %w", c, err)
			}
			args[i] = string(encoded)
		default:
			if v == nil {
				if schema.nullable(c) {
					args[i] = nil
				} else {
					args[i] = ""
				}
				continue
			}
			args[i] = v
		}
	}
	return args, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
