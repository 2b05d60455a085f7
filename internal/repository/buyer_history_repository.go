package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spec-kit/buyer-leads-service/internal/domain"
	"github.com/spec-kit/buyer-leads-service/internal/persistence"
)

// BuyerHistoryRepository stores append-only audit entries.
type BuyerHistoryRepository interface {
	Create(ctx context.Context, history *domain.BuyerHistory) error
	ListByBuyer(ctx context.Context, buyerID string, limit int) ([]domain.BuyerHistory, error)
}

type buyerHistoryRepository struct {
	db *persistence.Postgres
}

// NewBuyerHistoryRepository builds repository.
func NewBuyerHistoryRepository(db *persistence.Postgres) BuyerHistoryRepository {
	return &buyerHistoryRepository{db: db}
}

func (r *buyerHistoryRepository) Create(ctx context.Context, history *domain.BuyerHistory) error {
	diff, err := json.Marshal(history.Diff)
	if err != nil {
		return fmt.Errorf("marshal history diff: %w", err)
	}

	const query = `
        INSERT INTO buyer_history (buyer_id, changed_by, diff)
        VALUES ($1,$2,$3)
        RETURNING id, changed_at`
	return r.db.Querier(ctx).QueryRow(ctx, query,
		history.BuyerID,
		history.ChangedBy,
		diff,
	).Scan(&history.ID, &history.ChangedAt)
}

func (r *buyerHistoryRepository) ListByBuyer(ctx context.Context, buyerID string, limit int) ([]domain.BuyerHistory, error) {
	query := `
        SELECT id, buyer_id, changed_by, changed_at, diff
        FROM buyer_history WHERE buyer_id=$1 ORDER BY changed_at DESC`
	args := []any{buyerID}
	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.db.Querier(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.BuyerHistory
	for rows.Next() {
		var history domain.BuyerHistory
		var diff []byte
		if err := rows.Scan(
			&history.ID,
			&history.BuyerID,
			&history.ChangedBy,
			&history.ChangedAt,
			&diff,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(diff, &history.Diff); err != nil {
			return nil, fmt.Errorf("unmarshal history diff: %w", err)
		}
		result = append(result, history)
	}
	return result, rows.Err()
}
