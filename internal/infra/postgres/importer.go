package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"

	"english-quiz-app/internal/infra/filestore"
	pgmigrations "english-quiz-app/internal/infra/postgres/migrations"
	"english-quiz-app/internal/quiz"
)

// CollectionRow is one imported quiz document.
type CollectionRow struct {
	bun.BaseModel `bun:"table:quiz_collections"`

	Name       string    `bun:"name,pk"`
	Title      string    `bun:"title,notnull"`
	Document   string    `bun:"document,notnull"`
	ImportedAt time.Time `bun:"imported_at,notnull"`
}

// OpenBun opens a bun handle over the pgdriver connector.
func OpenBun(dsn string) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return bun.NewDB(sqldb, pgdialect.New())
}

// Migrate applies every pending migration.
func Migrate(ctx context.Context, db *bun.DB) (*migrate.MigrationGroup, error) {
	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		return nil, err
	}
	return migrator.Migrate(ctx)
}

// Importer writes validated collections into quiz_collections.
type Importer struct {
	db  *bun.DB
	now func() time.Time
}

func NewImporter(db *bun.DB) *Importer {
	return &Importer{db: db, now: time.Now}
}

// Import upserts c under name. The stored document is re-encoded from the
// validated collection.
func (i *Importer) Import(ctx context.Context, name string, c *quiz.Collection) error {
	document, err := filestore.Encode(c)
	if err != nil {
		return err
	}
	row := &CollectionRow{
		Name:       name,
		Title:      c.Title(),
		Document:   string(document),
		ImportedAt: i.now().UTC(),
	}
	_, err = i.db.NewInsert().
		Model(row).
		On("CONFLICT (name) DO UPDATE").
		Set("title = EXCLUDED.title").
		Set("document = EXCLUDED.document").
		Set("imported_at = EXCLUDED.imported_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("import %q: %w", name, err)
	}
	return nil
}

// Remove deletes name. Removing a missing collection is not an error.
func (i *Importer) Remove(ctx context.Context, name string) error {
	_, err := i.db.NewDelete().Model((*CollectionRow)(nil)).Where("name = ?", name).Exec(ctx)
	return err
}
