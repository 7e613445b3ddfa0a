package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"ridemarket/internal/repository"
)

// SequenceRepository issues city-prefixed serial IDs from per-city
// counters (e.g. "BLR-RIDE-00042").
type SequenceRepository struct {
	db *sql.DB
}

// NewSequenceRepository creates a new PostgreSQL sequence repository.
func NewSequenceRepository(db *sql.DB) *SequenceRepository {
	return &SequenceRepository{db: db}
}

// Next atomically increments the (city, entity) counter and returns the
// formatted custom ID.
func (r *SequenceRepository) Next(ctx context.Context, cityCode, entityType string) (string, error) {
	query := `
		INSERT INTO city_sequences (city_code, entity_type, value)
		VALUES ($1, $2, 1)
		ON CONFLICT (city_code, entity_type)
		DO UPDATE SET value = city_sequences.value + 1
		RETURNING value
	`

	var value int64
	if err := r.db.QueryRowContext(ctx, query, cityCode, entityType).Scan(&value); err != nil {
		return "", err
	}

	return fmt.Sprintf("%s-%s-%05d", strings.ToUpper(cityCode), strings.ToUpper(entityType), value), nil
}

// Ensure interface is satisfied.
var _ repository.CustomIDGenerator = (*SequenceRepository)(nil)
