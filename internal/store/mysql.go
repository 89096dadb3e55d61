package store

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
)

// MySQL persists documents in a single `documents` table keyed by
// (collection, id) with the body held in a JSON column.  Partial updates
// use JSON_MERGE_PATCH so concurrent writers to different fields do not
// clobber each other's documents wholesale; the version guard in UpdateIf
// compares the document's own "version" field inside the WHERE clause so
// the check and the write are one statement.
type MySQL struct {
	db *sql.DB
}

// NewMySQL returns a MySQL-backed store bound to the given database handle.
func NewMySQL(db *sql.DB) *MySQL { return &MySQL{db: db} }

// EnsureSchema creates the documents table when it does not exist yet.
func (s *MySQL) EnsureSchema(ctx context.Context) error {
	const ddl = `CREATE TABLE IF NOT EXISTS documents (
	    collection VARCHAR(64)  NOT NULL,
	    id         VARCHAR(191) NOT NULL,
	    doc        JSON         NOT NULL,
	    PRIMARY KEY (collection, id)
	)`
	_, err := s.db.ExecContext(ctx, ddl)
	return err
}

// fieldName restricts query fields to plain identifiers so they can be
// spliced into a JSON path without escaping concerns.
var fieldName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func (s *MySQL) Get(ctx context.Context, collection, id string, out any) error {
	const q = `SELECT doc FROM documents WHERE collection = ? AND id = ?`
	var raw []byte
	err := s.db.QueryRowContext(ctx, q, collection, id).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return json.Unmarshal(raw, out)
}

func (s *MySQL) Set(ctx context.Context, collection, id string, doc any) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	const q = `INSERT INTO documents (collection, id, doc) VALUES (?, ?, ?)
	           ON DUPLICATE KEY UPDATE doc = VALUES(doc)`
	_, err = s.db.ExecContext(ctx, q, collection, id, body)
	return err
}

func (s *MySQL) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	patch, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	const q = `UPDATE documents SET doc = JSON_MERGE_PATCH(doc, CAST(? AS JSON))
	           WHERE collection = ? AND id = ?`
	res, err := s.db.ExecContext(ctx, q, patch, collection, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Either the document is missing or the patch was a no-op.
		return s.exists(ctx, collection, id)
	}
	return nil
}

func (s *MySQL) UpdateIf(ctx context.Context, collection, id string, fields map[string]any, expectedVersion uint64) error {
	patch, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	const q = `UPDATE documents SET doc = JSON_MERGE_PATCH(doc, CAST(? AS JSON))
	           WHERE collection = ? AND id = ?
	             AND CAST(JSON_UNQUOTE(JSON_EXTRACT(doc, '$.version')) AS UNSIGNED) = ?`
	res, err := s.db.ExecContext(ctx, q, patch, collection, id, expectedVersion)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	if err := s.exists(ctx, collection, id); err != nil {
		return err
	}
	return ErrVersionMismatch
}

func (s *MySQL) Delete(ctx context.Context, collection, id string) error {
	const q = `DELETE FROM documents WHERE collection = ? AND id = ?`
	res, err := s.db.ExecContext(ctx, q, collection, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MySQL) QueryByField(ctx context.Context, collection, field string, value any, out any) error {
	if !fieldName.MatchString(field) {
		return fmt.Errorf("store: invalid query field %q", field)
	}
	want, err := json.Marshal(value)
	if err != nil {
		return err
	}
	// JSON-to-JSON comparison keeps string/number/bool equality uniform.
	q := fmt.Sprintf(`SELECT doc FROM documents
	                  WHERE collection = ? AND JSON_EXTRACT(doc, '$.%s') = CAST(? AS JSON)
	                  ORDER BY id`, field)
	rows, err := s.db.QueryContext(ctx, q, collection, want)
	if err != nil {
		return err
	}
	defer rows.Close()
	var docs [][]byte
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return err
		}
		docs = append(docs, raw)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	return decodeList(docs, out)
}

func (s *MySQL) All(ctx context.Context, collection string, out any) error {
	const q = `SELECT doc FROM documents WHERE collection = ? ORDER BY id`
	rows, err := s.db.QueryContext(ctx, q, collection)
	if err != nil {
		return err
	}
	defer rows.Close()
	var docs [][]byte
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return err
		}
		docs = append(docs, raw)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	return decodeList(docs, out)
}

// exists maps a zero-row UPDATE/DELETE to ErrNotFound or success.
func (s *MySQL) exists(ctx context.Context, collection, id string) error {
	const q = `SELECT 1 FROM documents WHERE collection = ? AND id = ? LIMIT 1`
	var one int
	if err := s.db.QueryRowContext(ctx, q, collection, id).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// decodeList joins raw documents into one JSON array and unmarshals it into
// the caller's slice pointer in a single pass.
func decodeList(docs [][]byte, out any) error {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, d := range docs {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(d)
	}
	buf.WriteByte(']')
	return json.Unmarshal(buf.Bytes(), out)
}
