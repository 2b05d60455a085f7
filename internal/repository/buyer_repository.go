package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/buyer-leads-service/internal/domain"
	"github.com/spec-kit/buyer-leads-service/internal/persistence"
)

// BuyerFilter captures list/export parameters. Enum filters carry storage
// literals; SearchTerm matches fullName/email case-insensitively and phone
// as a plain substring.
type BuyerFilter struct {
	City         *domain.City
	PropertyType *domain.PropertyType
	Status       *domain.LeadStatus
	Timeline     *domain.Timeline
	SearchTerm   *string
	SortField    string
	SortDesc     bool
	Limit        int
	Offset       int
}

// BuyerRepository encapsulates buyer lead persistence.
type BuyerRepository interface {
	Create(ctx context.Context, lead *domain.BuyerLead) error
	// Update persists new field values only if the stored updated_at still
	// equals expectedUpdatedAt; a stale token surfaces as pgx.ErrNoRows.
	Update(ctx context.Context, lead *domain.BuyerLead, expectedUpdatedAt time.Time) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.BuyerLead, error)
	Count(ctx context.Context, filter BuyerFilter) (int64, error)
	ListWithFilter(ctx context.Context, filter BuyerFilter) ([]domain.BuyerLead, error)
}

type buyerRepository struct {
	db *persistence.Postgres
}

// NewBuyerRepository instantiates repository.
func NewBuyerRepository(db *persistence.Postgres) BuyerRepository {
	return &buyerRepository{db: db}
}

const buyerColumns = `id, full_name, email, phone, city, property_type, bhk, purpose,
               budget_min, budget_max, timeline, source, notes, tags, status, owner_id,
               created_at, updated_at`

func (r *buyerRepository) Create(ctx context.Context, lead *domain.BuyerLead) error {
	const query = `
        INSERT INTO buyers (full_name, email, phone, city, property_type, bhk, purpose,
                            budget_min, budget_max, timeline, source, notes, tags, status, owner_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
        RETURNING id, created_at, updated_at`
	return r.db.Querier(ctx).QueryRow(ctx, query,
		lead.FullName,
		lead.Email,
		lead.Phone,
		lead.City,
		lead.PropertyType,
		lead.BHK,
		lead.Purpose,
		lead.BudgetMin,
		lead.BudgetMax,
		lead.Timeline,
		lead.Source,
		lead.Notes,
		lead.Tags,
		lead.Status,
		lead.OwnerID,
	).Scan(&lead.ID, &lead.CreatedAt, &lead.UpdatedAt)
}

func (r *buyerRepository) Update(ctx context.Context, lead *domain.BuyerLead, expectedUpdatedAt time.Time) error {
	// clock_timestamp() rather than NOW() so the token always moves, even
	// inside a transaction that also created the row.
	const query = `
        UPDATE buyers SET full_name=$1, email=$2, phone=$3, city=$4, property_type=$5,
            bhk=$6, purpose=$7, budget_min=$8, budget_max=$9, timeline=$10, source=$11,
            notes=$12, tags=$13, status=$14, updated_at=clock_timestamp()
        WHERE id=$15 AND updated_at=$16
        RETURNING updated_at`
	return r.db.Querier(ctx).QueryRow(ctx, query,
		lead.FullName,
		lead.Email,
		lead.Phone,
		lead.City,
		lead.PropertyType,
		lead.BHK,
		lead.Purpose,
		lead.BudgetMin,
		lead.BudgetMax,
		lead.Timeline,
		lead.Source,
		lead.Notes,
		lead.Tags,
		lead.Status,
		lead.ID,
		expectedUpdatedAt,
	).Scan(&lead.UpdatedAt)
}

func (r *buyerRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Querier(ctx).Exec(ctx, `DELETE FROM buyers WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *buyerRepository) GetByID(ctx context.Context, id string) (*domain.BuyerLead, error) {
	query := `SELECT ` + buyerColumns + ` FROM buyers WHERE id=$1`
	var lead domain.BuyerLead
	if err := scanBuyer(r.db.Querier(ctx).QueryRow(ctx, query, id), &lead); err != nil {
		return nil, err
	}
	return &lead, nil
}

func (r *buyerRepository) Count(ctx context.Context, filter BuyerFilter) (int64, error) {
	where, args := buildBuyerWhere(filter)
	query := `SELECT COUNT(*) FROM buyers WHERE ` + where
	var total int64
	if err := r.db.Querier(ctx).QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

var buyerSortColumns = map[string]string{
	"updatedAt":    "updated_at",
	"createdAt":    "created_at",
	"fullName":     "full_name",
	"city":         "city",
	"propertyType": "property_type",
	"status":       "status",
	"timeline":     "timeline",
}

func (r *buyerRepository) ListWithFilter(ctx context.Context, filter BuyerFilter) ([]domain.BuyerLead, error) {
	where, args := buildBuyerWhere(filter)

	sortColumn, ok := buyerSortColumns[filter.SortField]
	if !ok {
		sortColumn = "updated_at"
	}
	direction := "ASC"
	if filter.SortDesc {
		direction = "DESC"
	}

	query := fmt.Sprintf(`SELECT %s FROM buyers WHERE %s ORDER BY %s %s`,
		buyerColumns, where, sortColumn, direction)
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", filter.Limit, max(filter.Offset, 0))
	}

	rows, err := r.db.Querier(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBuyers(rows)
}

func buildBuyerWhere(filter BuyerFilter) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.City != nil {
		args = append(args, *filter.City)
		clauses = append(clauses, fmt.Sprintf("city=$%d", len(args)))
	}
	if filter.PropertyType != nil {
		args = append(args, *filter.PropertyType)
		clauses = append(clauses, fmt.Sprintf("property_type=$%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.Timeline != nil {
		args = append(args, *filter.Timeline)
		clauses = append(clauses, fmt.Sprintf("timeline=$%d", len(args)))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		term := strings.TrimSpace(*filter.SearchTerm)
		args = append(args, "%"+strings.ToLower(term)+"%")
		lowered := fmt.Sprintf("$%d", len(args))
		args = append(args, "%"+term+"%")
		plain := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf(
			"(LOWER(full_name) LIKE %s OR LOWER(COALESCE(email, '')) LIKE %s OR phone LIKE %s)",
			lowered, lowered, plain))
	}

	return strings.Join(clauses, " AND "), args
}

func scanBuyer(row pgx.Row, lead *domain.BuyerLead) error {
	return row.Scan(
		&lead.ID,
		&lead.FullName,
		&lead.Email,
		&lead.Phone,
		&lead.City,
		&lead.PropertyType,
		&lead.BHK,
		&lead.Purpose,
		&lead.BudgetMin,
		&lead.BudgetMax,
		&lead.Timeline,
		&lead.Source,
		&lead.Notes,
		&lead.Tags,
		&lead.Status,
		&lead.OwnerID,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	)
}

func scanBuyers(rows pgx.Rows) ([]domain.BuyerLead, error) {
	var result []domain.BuyerLead
	for rows.Next() {
		var lead domain.BuyerLead
		if err := scanBuyer(rows, &lead); err != nil {
			return nil, err
		}
		result = append(result, lead)
	}
	return result, rows.Err()
}
