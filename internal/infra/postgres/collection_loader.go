package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"english-quiz-app/internal/domain"
	"english-quiz-app/internal/infra/filestore"
	"english-quiz-app/internal/quiz"
)

// CollectionLoader loads imported quiz documents from Postgres.
type CollectionLoader struct {
	pool *pgxpool.Pool
}

func NewCollectionLoader(pool *pgxpool.Pool) *CollectionLoader {
	return &CollectionLoader{pool: pool}
}

func (l *CollectionLoader) LoadCollection(ctx context.Context, name string) (*quiz.Collection, error) {
	var document string
	err := l.pool.QueryRow(ctx, `SELECT document FROM quiz_collections WHERE name=$1`, name).Scan(&document)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%q: %w", name, domain.ErrCollectionNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load collection: %w", err)
	}
	c, err := filestore.DecodeStored([]byte(document), name)
	if err != nil {
		return nil, fmt.Errorf("decode collection %q: %w", name, err)
	}
	return c, nil
}

// ListCollections implements app.Catalog.
func (l *CollectionLoader) ListCollections(ctx context.Context) ([]domain.CatalogEntry, error) {
	rows, err := l.pool.Query(ctx, `SELECT name, title FROM quiz_collections ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	defer rows.Close()

	out := []domain.CatalogEntry{}
	for rows.Next() {
		var e domain.CatalogEntry
		if err := rows.Scan(&e.Name, &e.Title); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
