package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/buyer-leads-service/internal/domain"
	"github.com/spec-kit/buyer-leads-service/internal/events"
	"github.com/spec-kit/buyer-leads-service/internal/ratelimit"
	"github.com/spec-kit/buyer-leads-service/internal/repository"
	"github.com/spec-kit/buyer-leads-service/internal/validation"
	apperrors "github.com/spec-kit/buyer-leads-service/pkg/util"
)

const (
	maxImportRows         = 200
	historyPreviewEntries = 5
	defaultPageSize       = 10
	maxPageSize           = 50
)

// Caller is the resolved identity performing an operation. FallbackKey is
// used for rate limiting when no identity could be resolved (forwarded IP
// or "anon").
type Caller struct {
	ID          string
	Email       string
	FallbackKey string
}

func (c Caller) rateKey() string {
	if c.ID != "" {
		return c.ID
	}
	if c.FallbackKey != "" {
		return c.FallbackKey
	}
	return "anon"
}

// ListQuery captures list/export parameters with UI-facing literals.
type ListQuery struct {
	Page         int
	PageSize     int
	City         string
	PropertyType string
	Status       string
	Timeline     string
	Search       string
	SortField    string
	SortOrder    string
}

// ListResult is one page of leads.
type ListResult struct {
	Page     int                `json:"page"`
	PageSize int                `json:"pageSize"`
	Total    int64              `json:"total"`
	Items    []domain.BuyerLead `json:"items"`
}

// LeadService orchestrates authorization, rate limiting, validation, enum
// mapping and atomic persistence plus audit logging for buyer leads.
type LeadService struct {
	leads      repository.BuyerRepository
	history    repository.BuyerHistoryRepository
	tx         repository.TxManager
	limiter    ratelimit.Limiter
	dispatcher events.Dispatcher
}

// LeadDependencies bundles collaborators for the lead service.
type LeadDependencies struct {
	LeadRepo    repository.BuyerRepository
	HistoryRepo repository.BuyerHistoryRepository
	Tx          repository.TxManager
	Limiter     ratelimit.Limiter
	Dispatcher  events.Dispatcher
}

// NewLeadService constructs the service.
func NewLeadService(deps LeadDependencies) *LeadService {
	return &LeadService{
		leads:      deps.LeadRepo,
		history:    deps.HistoryRepo,
		tx:         deps.Tx,
		limiter:    deps.Limiter,
		dispatcher: deps.Dispatcher,
	}
}

// Create validates and persists a new lead owned by the caller, writing
// the audit entry in the same transaction.
func (s *LeadService) Create(ctx context.Context, caller Caller, in validation.BuyerInput) (*domain.BuyerLead, error) {
	if caller.ID == "" {
		return nil, apperrors.NewUnauthorized("login required")
	}
	if err := s.checkRateLimit(ctx, caller); err != nil {
		return nil, err
	}

	normalized, fieldErrs := validation.ValidateBuyer(in)
	if fieldErrs != nil {
		return nil, validationFailed(fieldErrs)
	}

	lead := mapToLead(normalized, caller.ID)
	lead.Status = domain.StatusNew

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.leads.Create(ctx, lead); err != nil {
			return err
		}
		return s.history.Create(ctx, &domain.BuyerHistory{
			BuyerID:   lead.ID,
			ChangedBy: caller.Email,
			Diff:      domain.ChangeDiff{Op: domain.ChangeOpCreate, After: lead},
		})
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:   events.EventLeadCreated,
		LeadID: lead.ID,
		Actor:  events.Actor{UserID: caller.ID, Email: caller.Email},
		Payload: events.LeadCreatedPayload{
			City:         lead.City,
			PropertyType: lead.PropertyType,
			Status:       lead.Status,
		},
	})
	return lead, nil
}

// Update applies a candidate field set to an existing lead. The caller must
// own the record and present the updatedAt value it last observed; a stale
// token is rejected with a conflict and nothing is written.
func (s *LeadService) Update(ctx context.Context, caller Caller, id string, observedUpdatedAt time.Time, in validation.BuyerInput) (*domain.BuyerLead, error) {
	if caller.ID == "" {
		return nil, apperrors.NewUnauthorized("login required")
	}
	if err := s.checkRateLimit(ctx, caller); err != nil {
		return nil, err
	}

	existing, err := s.getLead(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.OwnerID != caller.ID {
		return nil, apperrors.NewForbidden("not the owner")
	}
	if !observedUpdatedAt.Equal(existing.UpdatedAt) {
		return nil, apperrors.NewConflict("record changed, please refresh", nil)
	}

	normalized, fieldErrs := validation.ValidateBuyer(in)
	if fieldErrs != nil {
		return nil, validationFailed(fieldErrs)
	}

	before := *existing
	updated := mapToLead(normalized, existing.OwnerID)
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	updated.Status = existing.Status
	if normalized.Status != nil {
		status, _ := domain.StatusFromUI(*normalized.Status)
		updated.Status = status
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.leads.Update(ctx, updated, existing.UpdatedAt); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewConflict("record changed, please refresh", nil)
			}
			return err
		}
		return s.history.Create(ctx, &domain.BuyerHistory{
			BuyerID:   updated.ID,
			ChangedBy: caller.Email,
			Diff:      domain.ChangeDiff{Op: domain.ChangeOpUpdate, Before: &before, After: updated},
		})
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:   events.EventLeadUpdated,
		LeadID: updated.ID,
		Actor:  events.Actor{UserID: caller.ID, Email: caller.Email},
		Payload: events.LeadUpdatedPayload{
			OldStatus: before.Status,
			NewStatus: updated.Status,
		},
	})
	return updated, nil
}

// Delete removes an owned lead. The trailing audit entry is written in the
// same transaction and survives the record's removal.
func (s *LeadService) Delete(ctx context.Context, caller Caller, id string) error {
	if caller.ID == "" {
		return apperrors.NewUnauthorized("login required")
	}

	existing, err := s.getLead(ctx, id)
	if err != nil {
		return err
	}
	if existing.OwnerID != caller.ID {
		return apperrors.NewForbidden("not the owner")
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.leads.Delete(ctx, id); err != nil {
			return err
		}
		return s.history.Create(ctx, &domain.BuyerHistory{
			BuyerID:   id,
			ChangedBy: caller.Email,
			Diff:      domain.ChangeDiff{Op: domain.ChangeOpDelete, Before: existing},
		})
	})
	if err != nil {
		return err
	}

	s.publishEvent(ctx, events.Event{
		Type:    events.EventLeadDeleted,
		LeadID:  id,
		Actor:   events.Actor{UserID: caller.ID, Email: caller.Email},
		Payload: events.LeadDeletedPayload{FullName: existing.FullName},
	})
	return nil
}

// Import validates a batch of candidate rows and inserts them all, or none.
// Row errors are reported together, keyed by 1-based row number. Lead
// inserts and their audit entries share a single transaction so a crash
// cannot leave leads without history.
func (s *LeadService) Import(ctx context.Context, caller Caller, rows []validation.BuyerInput) (int, error) {
	if caller.ID == "" {
		return 0, apperrors.NewUnauthorized("login required")
	}
	if len(rows) > maxImportRows {
		return 0, apperrors.NewPayloadTooLarge("max 200 rows allowed", map[string]any{"rows": len(rows)})
	}

	normalized := make([]*validation.NormalizedBuyer, 0, len(rows))
	var rowErrors []map[string]any
	for i, row := range rows {
		n, fieldErrs := validation.ValidateBuyer(row)
		if fieldErrs != nil {
			rowErrors = append(rowErrors, map[string]any{"row": i + 1, "errors": fieldErrs})
			continue
		}
		normalized = append(normalized, n)
	}
	if len(rowErrors) > 0 {
		return 0, apperrors.NewValidationError("import rejected", map[string]any{"rows": rowErrors})
	}

	created := 0
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		for _, n := range normalized {
			lead := mapToLead(n, caller.ID)
			if lead.Status == "" {
				lead.Status = domain.StatusNew
			}
			if err := s.leads.Create(ctx, lead); err != nil {
				return err
			}
			if err := s.history.Create(ctx, &domain.BuyerHistory{
				BuyerID:   lead.ID,
				ChangedBy: caller.Email,
				Diff:      domain.ChangeDiff{Op: domain.ChangeOpImportCreate, After: lead},
			}); err != nil {
				return err
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.publishEvent(ctx, events.Event{
		Type:    events.EventLeadImported,
		Actor:   events.Actor{UserID: caller.ID, Email: caller.Email},
		Payload: events.LeadImportedPayload{Count: created},
	})
	return created, nil
}

// Get fetches one lead plus its most recent audit entries, newest first.
func (s *LeadService) Get(ctx context.Context, id string) (*domain.BuyerLead, []domain.BuyerHistory, error) {
	lead, err := s.getLead(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	history, err := s.history.ListByBuyer(ctx, id, historyPreviewEntries)
	if err != nil {
		return nil, nil, err
	}
	return lead, history, nil
}

// List returns one filtered, sorted page of leads with the total count.
func (s *LeadService) List(ctx context.Context, q ListQuery) (*ListResult, error) {
	page := q.Page
	if page < 1 {
		page = 1
	}
	pageSize := q.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	filter := buildFilter(q)
	filter.Limit = pageSize
	filter.Offset = (page - 1) * pageSize

	total, err := s.leads.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	items, err := s.leads.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.BuyerLead{}
	}

	return &ListResult{Page: page, PageSize: pageSize, Total: total, Items: items}, nil
}

func (s *LeadService) getLead(ctx context.Context, id string) (*domain.BuyerLead, error) {
	lead, err := s.leads.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("buyer", nil)
		}
		return nil, err
	}
	return lead, nil
}

func (s *LeadService) checkRateLimit(ctx context.Context, caller Caller) error {
	allowed, err := s.limiter.Allow(ctx, caller.rateKey())
	if err != nil {
		return err
	}
	if !allowed {
		return apperrors.NewRateLimited("rate limit exceeded")
	}
	return nil
}

func (s *LeadService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func validationFailed(fieldErrs validation.FieldErrors) error {
	return apperrors.NewValidationError("validation failed", map[string]any{"fieldErrors": fieldErrs})
}

// mapToLead turns a validated value object into its stored form. The
// validator has already established enum membership, so the lookups here
// cannot miss.
func mapToLead(n *validation.NormalizedBuyer, ownerID string) *domain.BuyerLead {
	city, _ := domain.CityFromUI(n.City)
	propertyType, _ := domain.PropertyTypeFromUI(n.PropertyType)
	purpose, _ := domain.PurposeFromUI(n.Purpose)
	timeline, _ := domain.TimelineFromUI(n.Timeline)
	source, _ := domain.SourceFromUI(n.Source)

	lead := &domain.BuyerLead{
		FullName:     n.FullName,
		Email:        n.Email,
		Phone:        n.Phone,
		City:         city,
		PropertyType: propertyType,
		Purpose:      purpose,
		BudgetMin:    n.BudgetMin,
		BudgetMax:    n.BudgetMax,
		Timeline:     timeline,
		Source:       source,
		Notes:        n.Notes,
		Tags:         n.Tags,
		OwnerID:      ownerID,
	}
	if n.BHK != nil {
		bhk, _ := domain.BHKFromUI(*n.BHK)
		lead.BHK = &bhk
	}
	if n.Status != nil {
		status, _ := domain.StatusFromUI(*n.Status)
		lead.Status = status
	}
	return lead
}

func buildFilter(q ListQuery) repository.BuyerFilter {
	filter := repository.BuyerFilter{
		SortField: q.SortField,
		SortDesc:  q.SortOrder != "asc",
	}
	if q.City != "" {
		city := domain.City(q.City)
		filter.City = &city
	}
	if q.PropertyType != "" {
		propertyType := domain.PropertyType(q.PropertyType)
		filter.PropertyType = &propertyType
	}
	if q.Status != "" {
		status := domain.LeadStatus(q.Status)
		filter.Status = &status
	}
	if q.Timeline != "" {
		// accept the UI literal, falling back to the stored one
		timeline, ok := domain.TimelineFromUI(q.Timeline)
		if !ok {
			timeline = domain.Timeline(q.Timeline)
		}
		filter.Timeline = &timeline
	}
	if q.Search != "" {
		search := q.Search
		filter.SearchTerm = &search
	}
	return filter
}
