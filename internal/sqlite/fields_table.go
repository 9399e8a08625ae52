package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/mesh-intelligence/grid/pkg/types"
)

var _ types.Table = (*fieldsTable)(nil)

// fieldsTable implements the Table interface for *types.FieldMeta.
type fieldsTable struct {
	backend *Backend
}

const selectFields = "SELECT field_id, name, field_type, type_options, created_at FROM fields"

// Get retrieves a field by ID.
func (ft *fieldsTable) Get(id string) (any, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	db, _, err := ft.backend.conn()
	if err != nil {
		return nil, err
	}

	field, err := hydrateField(db.QueryRow(selectFields+" WHERE field_id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("getting field %s: %w", id, err)
	}
	return field, nil
}

// Set persists a field. If id is empty, generates a UUID v7 and creates the
// field. If id is provided, inserts or updates the field with that ID.
// Names are unique; every type-option key must be a known field type and
// every value valid JSON.
func (ft *fieldsTable) Set(id string, data any) (string, error) {
	field, ok := data.(*types.FieldMeta)
	if !ok || field == nil {
		return "", types.ErrInvalidData
	}
	field.Name = strings.TrimSpace(field.Name)
	if field.Name == "" {
		return "", types.ErrInvalidName
	}
	if !field.FieldType.IsValid() {
		return "", fmt.Errorf("%w: %q", types.ErrInvalidFieldType, field.FieldType)
	}
	optionsJSON, err := encodeTypeOptions(field.TypeOptions)
	if err != nil {
		return "", err
	}

	ft.backend.writeMu.Lock()
	defer ft.backend.writeMu.Unlock()

	db, dataDir, err := ft.backend.conn()
	if err != nil {
		return "", err
	}

	if id == "" {
		if id, err = generateUUID(); err != nil {
			return "", err
		}
		field.CreatedAt = time.Now().UTC().Truncate(time.Second)
	}
	if field.CreatedAt.IsZero() {
		field.CreatedAt = time.Now().UTC().Truncate(time.Second)
	}
	field.FieldID = id

	var dupID string
	err = db.QueryRow(
		"SELECT field_id FROM fields WHERE name = ? AND field_id != ?",
		field.Name, id,
	).Scan(&dupID)
	if err == nil {
		return "", types.ErrDuplicateName
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("checking field name uniqueness: %w", err)
	}

	_, err = db.Exec(
		`INSERT INTO fields (field_id, name, field_type, type_options, created_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(field_id) DO UPDATE SET name = excluded.name, field_type = excluded.field_type,
		type_options = excluded.type_options`,
		id, field.Name, string(field.FieldType), optionsJSON, field.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return "", fmt.Errorf("persisting field: %w", err)
	}

	if err := persistFieldsJSONL(db, dataDir); err != nil {
		return "", fmt.Errorf("persisting %s: %w", fieldsJSONL, err)
	}
	return id, nil
}

// Delete removes a field and every cell stored under it.
func (ft *fieldsTable) Delete(id string) error {
	if id == "" {
		return types.ErrInvalidID
	}

	ft.backend.writeMu.Lock()
	defer ft.backend.writeMu.Unlock()

	db, dataDir, err := ft.backend.conn()
	if err != nil {
		return err
	}

	var exists bool
	err = db.QueryRow("SELECT 1 FROM fields WHERE field_id = ?", id).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.ErrNotFound
		}
		return fmt.Errorf("checking field existence: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM row_cells WHERE field_id = ?", id); err != nil {
		return fmt.Errorf("deleting field cells: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM fields WHERE field_id = ?", id); err != nil {
		return fmt.Errorf("deleting field: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing field deletion: %w", err)
	}

	if err := persistFieldsJSONL(db, dataDir); err != nil {
		return fmt.Errorf("persisting %s: %w", fieldsJSONL, err)
	}
	if err := persistTableJSONL(db, dataDir, "row_cells", rowCellsJSONL, "row_id, field_id"); err != nil {
		return fmt.Errorf("persisting %s: %w", rowCellsJSONL, err)
	}
	return nil
}

// Fetch queries fields matching the filter, ordered by creation time.
// Supported keys: field_type (types.FieldType or string), name, limit, offset.
func (ft *fieldsTable) Fetch(filter types.Filter) ([]any, error) {
	db, _, err := ft.backend.conn()
	if err != nil {
		return nil, err
	}

	query := selectFields
	var conditions []string
	var args []any

	if v, ok := filter["field_type"]; ok {
		switch t := v.(type) {
		case types.FieldType:
			args = append(args, string(t))
		case string:
			args = append(args, t)
		default:
			return nil, types.ErrInvalidFilter
		}
		conditions = append(conditions, "field_type = ?")
	}
	if v, ok := filter["name"]; ok {
		s, ok := v.(string)
		if !ok {
			return nil, types.ErrInvalidFilter
		}
		conditions = append(conditions, "name = ?")
		args = append(args, s)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at ASC, field_id ASC"

	page, err := pageClause(filter)
	if err != nil {
		return nil, err
	}
	query += page

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching fields: %w", err)
	}
	defer rows.Close()

	results := []any{}
	for rows.Next() {
		field, err := hydrateField(rows)
		if err != nil {
			return nil, fmt.Errorf("hydrating field: %w", err)
		}
		results = append(results, field)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating fields: %w", err)
	}
	return results, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// hydrateField converts a fields row into a *types.FieldMeta.
func hydrateField(row rowScanner) (*types.FieldMeta, error) {
	var (
		f         types.FieldMeta
		fieldType string
		options   sql.NullString
		createdAt string
	)
	if err := row.Scan(&f.FieldID, &f.Name, &fieldType, &options, &createdAt); err != nil {
		return nil, err
	}
	f.FieldType = types.FieldType(fieldType)

	if options.Valid && options.String != "" {
		var raw map[string]string
		if err := json.Unmarshal([]byte(options.String), &raw); err != nil {
			return nil, fmt.Errorf("parsing type_options: %w", err)
		}
		if len(raw) > 0 {
			f.TypeOptions = make(map[types.FieldType]string, len(raw))
			for k, v := range raw {
				f.TypeOptions[types.FieldType(k)] = v
			}
		}
	}

	var err error
	f.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &f, nil
}

// encodeTypeOptions validates and serializes a field's type-option map.
func encodeTypeOptions(options map[types.FieldType]string) (string, error) {
	for ft, raw := range options {
		if !ft.IsValid() {
			return "", fmt.Errorf("%w: unknown field type %q", types.ErrInvalidTypeOption, ft)
		}
		if !json.Valid([]byte(raw)) {
			return "", fmt.Errorf("%w: %s options are not JSON", types.ErrInvalidTypeOption, ft)
		}
	}
	byName := make(map[string]string, len(options))
	for ft, raw := range options {
		byName[string(ft)] = raw
	}
	b, err := json.Marshal(byName)
	if err != nil {
		return "", fmt.Errorf("encoding type options: %w", err)
	}
	return string(b), nil
}

// fieldJSONLRecord is one line of fields.jsonl. Type options are kept as a
// nested object keyed by field type.
type fieldJSONLRecord struct {
	FieldID     string            `json:"field_id"`
	Name        string            `json:"name"`
	FieldType   string            `json:"field_type"`
	TypeOptions map[string]string `json:"type_options"`
	CreatedAt   string            `json:"created_at"`
}

// persistFieldsJSONL writes all fields to fields.jsonl atomically.
func persistFieldsJSONL(db querier, dataDir string) error {
	rows, err := db.Query(selectFields + " ORDER BY created_at ASC, field_id ASC")
	if err != nil {
		return fmt.Errorf("querying fields for JSONL: %w", err)
	}
	defer rows.Close()

	var records [][]byte
	for rows.Next() {
		field, err := hydrateField(rows)
		if err != nil {
			return fmt.Errorf("scanning field for JSONL: %w", err)
		}
		rec := fieldJSONLRecord{
			FieldID:     field.FieldID,
			Name:        field.Name,
			FieldType:   string(field.FieldType),
			TypeOptions: make(map[string]string, len(field.TypeOptions)),
			CreatedAt:   field.CreatedAt.Format(time.RFC3339),
		}
		keys := make([]string, 0, len(field.TypeOptions))
		for ft := range field.TypeOptions {
			keys = append(keys, string(ft))
		}
		sort.Strings(keys)
		for _, k := range keys {
			rec.TypeOptions[k] = field.TypeOptions[types.FieldType(k)]
		}
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshaling field for JSONL: %w", err)
		}
		records = append(records, data)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating fields for JSONL: %w", err)
	}

	return writeJSONL(filepath.Join(dataDir, fieldsJSONL), records)
}

// pageClause renders the limit and offset filter keys.
func pageClause(filter types.Filter) (string, error) {
	var clause string
	limit, offset := -1, 0
	if v, ok := filter["limit"]; ok {
		n, ok := v.(int)
		if !ok {
			return "", types.ErrInvalidFilter
		}
		if n > 0 {
			limit = n
		}
	}
	if v, ok := filter["offset"]; ok {
		n, ok := v.(int)
		if !ok {
			return "", types.ErrInvalidFilter
		}
		if n > 0 {
			offset = n
		}
	}
	if limit > 0 || offset > 0 {
		clause = fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset)
	}
	return clause, nil
}
