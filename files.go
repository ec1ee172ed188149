package board

import (
	"context"
	"embed"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

//go:embed data/sql/migrations
var migrationsFS embed.FS

// GetMigrationsFS returns the migration files for this package
func GetMigrationsFS() embed.FS {
	return migrationsFS
}

// RunMigrations executes the embedded schema files in lexical order. The
// statements are idempotent so running on an existing database is safe.
func RunMigrations(ctx context.Context, db *bun.DB) error {
	root := "data/sql/migrations"

	entries, err := fs.ReadDir(migrationsFS, root)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to read migrations")
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		payload, err := fs.ReadFile(migrationsFS, root+"/"+name)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to read migration "+name)
		}

		if _, err := db.ExecContext(ctx, string(payload)); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to apply migration "+name)
		}
	}

	return nil
}

var uploadExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// SaveUpload writes raw image bytes under dir with a random filename and
// returns the stored path. Unsupported content types are rejected.
func SaveUpload(dir, contentType string, payload []byte) (string, error) {
	ext, ok := uploadExtensions[contentType]
	if !ok {
		return "", goerrors.New("unsupported upload content type", goerrors.CategoryBadInput).
			WithCode(goerrors.CodeBadRequest)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to prepare upload dir")
	}

	path := filepath.Join(dir, uuid.New().String()+ext)
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to store upload")
	}

	return path, nil
}
