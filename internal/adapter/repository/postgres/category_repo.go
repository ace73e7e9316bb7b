package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/draftledger/internal/domain"
	"github.com/iho/draftledger/internal/infrastructure/postgres/generated"
)

// CategoryRepository implements usecase.CategoryRepository.
type CategoryRepository struct {
	queries *generated.Queries
}

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return newCategoryRepository(pool)
}

func newCategoryRepository(db generated.DBTX) *CategoryRepository {
	return &CategoryRepository{queries: generated.New(db)}
}

// likeEscaper makes LIKE wildcards in a fragment match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// FindByNameContains returns the shortest category whose name contains
// fragment, case-insensitively. It returns nil when nothing matches.
func (r *CategoryRepository) FindByNameContains(ctx context.Context, fragment string) (*domain.Category, error) {
	row, err := r.queries.FindCategoryByNameContains(ctx, likeEscaper.Replace(fragment))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &domain.Category{ID: row.ID, Name: row.Name}, nil
}
