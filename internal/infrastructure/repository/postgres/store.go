package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/petanque-league/internal/infrastructure/repository/document"
)

const documentsTable = "league_documents"

type documentRow struct {
	Name string `db:"name"`
	Body []byte `db:"body"`
	ETag string `db:"etag"`
}

// DocumentStore keeps documents in the league_documents table. The etag
// column makes compare-and-swap hold across processes.
type DocumentStore struct {
	db *sqlx.DB
}

var _ document.Store = (*DocumentStore)(nil)

func NewDocumentStore(db *sqlx.DB) *DocumentStore {
	return &DocumentStore{db: db}
}

func (s *DocumentStore) Read(ctx context.Context, name string) ([]byte, string, error) {
	var row documentRow
	err := s.db.GetContext(ctx, &row, `SELECT name, body, etag FROM `+documentsTable+` WHERE name = $1`, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("select document %s: %w", name, err)
	}
	return row.Body, row.ETag, nil
}

func (s *DocumentStore) Write(ctx context.Context, name string, body []byte, expectedToken string) (string, error) {
	token := document.ETag(body)
	params := map[string]any{
		"name":     name,
		"body":     string(body),
		"etag":     token,
		"expected": expectedToken,
	}

	query := `
UPDATE ` + documentsTable + `
SET body = CAST(:body AS JSONB), etag = :etag, updated_at = NOW()
WHERE name = :name AND etag = :expected`
	if expectedToken == "" {
		query = `
INSERT INTO ` + documentsTable + ` (name, body, etag, updated_at)
VALUES (:name, CAST(:body AS JSONB), :etag, NOW())
ON CONFLICT (name) DO NOTHING`
	}

	sqlQuery, args, err := sqlx.Named(query, params)
	if err != nil {
		return "", fmt.Errorf("bind document %s query: %w", name, err)
	}
	res, err := s.db.ExecContext(ctx, s.db.Rebind(sqlQuery), args...)
	if err != nil {
		return "", fmt.Errorf("write document %s: %w", name, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return "", fmt.Errorf("write document %s rows affected: %w", name, err)
	}
	if affected == 0 {
		_, current, readErr := s.Read(ctx, name)
		if readErr != nil {
			return "", readErr
		}
		return "", document.Conflict(name, expectedToken, current)
	}

	return token, nil
}

func (s *DocumentStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping postgres: %w", err)
	}
	return nil
}
