package service

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/buyer-leads-service/internal/domain"
	"github.com/spec-kit/buyer-leads-service/internal/repository"
	"github.com/spec-kit/buyer-leads-service/internal/validation"
	apperrors "github.com/spec-kit/buyer-leads-service/pkg/util"
)

type mockBuyerRepo struct{ mock.Mock }

func (m *mockBuyerRepo) Create(ctx context.Context, lead *domain.BuyerLead) error {
	return m.Called(ctx, lead).Error(0)
}

func (m *mockBuyerRepo) Update(ctx context.Context, lead *domain.BuyerLead, expectedUpdatedAt time.Time) error {
	return m.Called(ctx, lead, expectedUpdatedAt).Error(0)
}

func (m *mockBuyerRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockBuyerRepo) GetByID(ctx context.Context, id string) (*domain.BuyerLead, error) {
	args := m.Called(ctx, id)
	lead, _ := args.Get(0).(*domain.BuyerLead)
	return lead, args.Error(1)
}

func (m *mockBuyerRepo) Count(ctx context.Context, filter repository.BuyerFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockBuyerRepo) ListWithFilter(ctx context.Context, filter repository.BuyerFilter) ([]domain.BuyerLead, error) {
	args := m.Called(ctx, filter)
	items, _ := args.Get(0).([]domain.BuyerLead)
	return items, args.Error(1)
}

type mockHistoryRepo struct{ mock.Mock }

func (m *mockHistoryRepo) Create(ctx context.Context, history *domain.BuyerHistory) error {
	return m.Called(ctx, history).Error(0)
}

func (m *mockHistoryRepo) ListByBuyer(ctx context.Context, buyerID string, limit int) ([]domain.BuyerHistory, error) {
	args := m.Called(ctx, buyerID, limit)
	items, _ := args.Get(0).([]domain.BuyerHistory)
	return items, args.Error(1)
}

// passthroughTx runs the callback directly, standing in for a real
// transaction in service-level tests.
type passthroughTx struct{}

func (passthroughTx) WithinTx(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

type stubLimiter struct{ allowed bool }

func (s stubLimiter) Allow(context.Context, string) (bool, error) { return s.allowed, nil }

func newTestService(leads *mockBuyerRepo, history *mockHistoryRepo, allowed bool) *LeadService {
	return NewLeadService(LeadDependencies{
		LeadRepo:    leads,
		HistoryRepo: history,
		Tx:          passthroughTx{},
		Limiter:     stubLimiter{allowed: allowed},
	})
}

func testCaller() Caller {
	return Caller{ID: "user-1", Email: "agent@example.com"}
}

func validInput() validation.BuyerInput {
	return validation.BuyerInput{
		FullName:     "Rina Sharma",
		Phone:        "9876543210",
		City:         "Mohali",
		PropertyType: "Plot",
		Purpose:      "Buy",
		Timeline:     "Exploring",
		Source:       "Referral",
	}
}

func existingLead(updatedAt time.Time) *domain.BuyerLead {
	return &domain.BuyerLead{
		ID:           "lead-1",
		FullName:     "Rina Sharma",
		Phone:        "9876543210",
		City:         domain.CityMohali,
		PropertyType: domain.PropertyPlot,
		Purpose:      domain.PurposeBuy,
		Timeline:     domain.TimelineExploring,
		Source:       domain.SourceReferral,
		Tags:         []string{},
		Status:       domain.StatusNew,
		OwnerID:      "user-1",
		CreatedAt:    updatedAt.Add(-time.Hour),
		UpdatedAt:    updatedAt,
	}
}

func asDomainError(t *testing.T, err error) *apperrors.DomainError {
	t.Helper()
	var de *apperrors.DomainError
	require.ErrorAs(t, err, &de)
	return de
}

func TestCreate_PersistsLeadWithAuditEntry(t *testing.T) {
	leads := new(mockBuyerRepo)
	history := new(mockHistoryRepo)
	svc := newTestService(leads, history, true)

	leads.On("Create", mock.Anything, mock.AnythingOfType("*domain.BuyerLead")).
		Run(func(args mock.Arguments) {
			lead := args.Get(1).(*domain.BuyerLead)
			lead.ID = "lead-1"
			lead.CreatedAt = time.Now()
			lead.UpdatedAt = lead.CreatedAt
		}).
		Return(nil)

	var audit *domain.BuyerHistory
	history.On("Create", mock.Anything, mock.AnythingOfType("*domain.BuyerHistory")).
		Run(func(args mock.Arguments) { audit = args.Get(1).(*domain.BuyerHistory) }).
		Return(nil)

	lead, err := svc.Create(context.Background(), testCaller(), validInput())
	require.NoError(t, err)
	require.NotNil(t, lead)

	assert.Equal(t, domain.StatusNew, lead.Status, "new leads always start as New")
	assert.Equal(t, "user-1", lead.OwnerID)
	assert.Equal(t, domain.SourceReferral, lead.Source)

	require.NotNil(t, audit)
	assert.Equal(t, "lead-1", audit.BuyerID)
	assert.Equal(t, "agent@example.com", audit.ChangedBy)
	assert.Equal(t, domain.ChangeOpCreate, audit.Diff.Op)
	assert.Nil(t, audit.Diff.Before)
	assert.Equal(t, lead, audit.Diff.After)

	leads.AssertExpectations(t)
	history.AssertExpectations(t)
}

func TestCreate_Unauthenticated(t *testing.T) {
	svc := newTestService(new(mockBuyerRepo), new(mockHistoryRepo), true)

	_, err := svc.Create(context.Background(), Caller{FallbackKey: "10.0.0.1"}, validInput())
	assert.Equal(t, "UNAUTHORIZED", asDomainError(t, err).Code)
}

func TestCreate_RateLimited(t *testing.T) {
	svc := newTestService(new(mockBuyerRepo), new(mockHistoryRepo), false)

	_, err := svc.Create(context.Background(), testCaller(), validInput())
	assert.Equal(t, "RATE_LIMITED", asDomainError(t, err).Code)
}

func TestCreate_ValidationFailureWritesNothing(t *testing.T) {
	leads := new(mockBuyerRepo)
	history := new(mockHistoryRepo)
	svc := newTestService(leads, history, true)

	in := validInput()
	in.PropertyType = "Apartment" // residential without bhk

	_, err := svc.Create(context.Background(), testCaller(), in)
	de := asDomainError(t, err)
	assert.Equal(t, "VALIDATION_FAILED", de.Code)

	fieldErrs, ok := de.Details["fieldErrors"].(validation.FieldErrors)
	require.True(t, ok)
	assert.NotEmpty(t, fieldErrs["bhk"])

	leads.AssertExpectations(t)
	history.AssertExpectations(t)
}

func TestUpdate_AppliesFieldsAndRecordsDiff(t *testing.T) {
	observed := time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)
	leads := new(mockBuyerRepo)
	history := new(mockHistoryRepo)
	svc := newTestService(leads, history, true)

	leads.On("GetByID", mock.Anything, "lead-1").Return(existingLead(observed), nil)
	leads.On("Update", mock.Anything, mock.AnythingOfType("*domain.BuyerLead"), observed).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.BuyerLead).UpdatedAt = observed.Add(time.Second)
		}).
		Return(nil)

	var audit *domain.BuyerHistory
	history.On("Create", mock.Anything, mock.AnythingOfType("*domain.BuyerHistory")).
		Run(func(args mock.Arguments) { audit = args.Get(1).(*domain.BuyerHistory) }).
		Return(nil)

	in := validInput()
	in.City = "Zirakpur"
	in.Status = "Qualified"

	lead, err := svc.Update(context.Background(), testCaller(), "lead-1", observed, in)
	require.NoError(t, err)

	assert.Equal(t, "lead-1", lead.ID)
	assert.Equal(t, domain.CityZirakpur, lead.City)
	assert.Equal(t, domain.StatusQualified, lead.Status)
	assert.True(t, lead.UpdatedAt.After(observed))

	require.NotNil(t, audit)
	assert.Equal(t, domain.ChangeOpUpdate, audit.Diff.Op)
	require.NotNil(t, audit.Diff.Before)
	require.NotNil(t, audit.Diff.After)
	assert.Equal(t, domain.StatusNew, audit.Diff.Before.Status)
	assert.Equal(t, domain.StatusQualified, audit.Diff.After.Status)

	leads.AssertExpectations(t)
	history.AssertExpectations(t)
}

func TestUpdate_KeepsStatusWhenOmitted(t *testing.T) {
	observed := time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)
	leads := new(mockBuyerRepo)
	history := new(mockHistoryRepo)
	svc := newTestService(leads, history, true)

	existing := existingLead(observed)
	existing.Status = domain.StatusContacted
	leads.On("GetByID", mock.Anything, "lead-1").Return(existing, nil)
	leads.On("Update", mock.Anything, mock.AnythingOfType("*domain.BuyerLead"), observed).Return(nil)
	history.On("Create", mock.Anything, mock.AnythingOfType("*domain.BuyerHistory")).Return(nil)

	lead, err := svc.Update(context.Background(), testCaller(), "lead-1", observed, validInput())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusContacted, lead.Status)
}

func TestUpdate_StaleTokenConflict(t *testing.T) {
	observed := time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)
	leads := new(mockBuyerRepo)
	history := new(mockHistoryRepo)
	svc := newTestService(leads, history, true)

	leads.On("GetByID", mock.Anything, "lead-1").Return(existingLead(observed.Add(time.Minute)), nil)

	_, err := svc.Update(context.Background(), testCaller(), "lead-1", observed, validInput())
	de := asDomainError(t, err)
	assert.Equal(t, "CONFLICT", de.Code)
	assert.Equal(t, "record changed, please refresh", de.Message)

	leads.AssertExpectations(t)
	history.AssertExpectations(t)
}

func TestUpdate_LostRaceSurfacesConflict(t *testing.T) {
	observed := time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)
	leads := new(mockBuyerRepo)
	history := new(mockHistoryRepo)
	svc := newTestService(leads, history, true)

	leads.On("GetByID", mock.Anything, "lead-1").Return(existingLead(observed), nil)
	leads.On("Update", mock.Anything, mock.AnythingOfType("*domain.BuyerLead"), observed).Return(pgx.ErrNoRows)

	_, err := svc.Update(context.Background(), testCaller(), "lead-1", observed, validInput())
	assert.Equal(t, "CONFLICT", asDomainError(t, err).Code)
	history.AssertExpectations(t)
}

func TestUpdate_NotOwnerForbidden(t *testing.T) {
	observed := time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)
	leads := new(mockBuyerRepo)
	svc := newTestService(leads, new(mockHistoryRepo), true)

	existing := existingLead(observed)
	existing.OwnerID = "user-2"
	leads.On("GetByID", mock.Anything, "lead-1").Return(existing, nil)

	_, err := svc.Update(context.Background(), testCaller(), "lead-1", observed, validInput())
	assert.Equal(t, "FORBIDDEN", asDomainError(t, err).Code)
}

func TestUpdate_NotFound(t *testing.T) {
	leads := new(mockBuyerRepo)
	svc := newTestService(leads, new(mockHistoryRepo), true)

	leads.On("GetByID", mock.Anything, "missing").Return(nil, pgx.ErrNoRows)

	_, err := svc.Update(context.Background(), testCaller(), "missing", time.Now(), validInput())
	assert.Equal(t, "NOT_FOUND", asDomainError(t, err).Code)
}

func TestDelete_WritesTrailingAuditEntry(t *testing.T) {
	observed := time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)
	leads := new(mockBuyerRepo)
	history := new(mockHistoryRepo)
	svc := newTestService(leads, history, true)

	existing := existingLead(observed)
	leads.On("GetByID", mock.Anything, "lead-1").Return(existing, nil)
	leads.On("Delete", mock.Anything, "lead-1").Return(nil)

	var audit *domain.BuyerHistory
	history.On("Create", mock.Anything, mock.AnythingOfType("*domain.BuyerHistory")).
		Run(func(args mock.Arguments) { audit = args.Get(1).(*domain.BuyerHistory) }).
		Return(nil)

	require.NoError(t, svc.Delete(context.Background(), testCaller(), "lead-1"))

	require.NotNil(t, audit)
	assert.Equal(t, domain.ChangeOpDelete, audit.Diff.Op)
	assert.Equal(t, existing, audit.Diff.Before)
	assert.Nil(t, audit.Diff.After)

	leads.AssertExpectations(t)
	history.AssertExpectations(t)
}

func TestDelete_NotOwnerForbidden(t *testing.T) {
	leads := new(mockBuyerRepo)
	svc := newTestService(leads, new(mockHistoryRepo), true)

	existing := existingLead(time.Now())
	existing.OwnerID = "user-2"
	leads.On("GetByID", mock.Anything, "lead-1").Return(existing, nil)

	err := svc.Delete(context.Background(), testCaller(), "lead-1")
	assert.Equal(t, "FORBIDDEN", asDomainError(t, err).Code)
}

func TestImport_AllOrNothingOnRowError(t *testing.T) {
	leads := new(mockBuyerRepo)
	history := new(mockHistoryRepo)
	svc := newTestService(leads, history, true)

	bad := validInput()
	bad.FullName = ""
	rows := []validation.BuyerInput{validInput(), bad, validInput()}

	created, err := svc.Import(context.Background(), testCaller(), rows)
	assert.Zero(t, created)

	de := asDomainError(t, err)
	assert.Equal(t, "VALIDATION_FAILED", de.Code)

	rowErrors, ok := de.Details["rows"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, rowErrors, 1, "only the bad row is reported")
	assert.Equal(t, 2, rowErrors[0]["row"], "row numbers are 1-based")

	leads.AssertExpectations(t)
	history.AssertExpectations(t)
}

func TestImport_RowCapEnforced(t *testing.T) {
	svc := newTestService(new(mockBuyerRepo), new(mockHistoryRepo), true)

	rows := make([]validation.BuyerInput, 201)
	for i := range rows {
		rows[i] = validInput()
	}

	_, err := svc.Import(context.Background(), testCaller(), rows)
	assert.Equal(t, "PAYLOAD_TOO_LARGE", asDomainError(t, err).Code)
}

func TestImport_InsertsEveryRowWithAudit(t *testing.T) {
	leads := new(mockBuyerRepo)
	history := new(mockHistoryRepo)
	svc := newTestService(leads, history, true)

	id := 0
	leads.On("Create", mock.Anything, mock.AnythingOfType("*domain.BuyerLead")).
		Run(func(args mock.Arguments) {
			id++
			args.Get(1).(*domain.BuyerLead).ID = string(rune('a' + id))
		}).
		Return(nil).Times(2)

	var ops []domain.ChangeOp
	history.On("Create", mock.Anything, mock.AnythingOfType("*domain.BuyerHistory")).
		Run(func(args mock.Arguments) {
			ops = append(ops, args.Get(1).(*domain.BuyerHistory).Diff.Op)
		}).
		Return(nil).Times(2)

	withStatus := validInput()
	withStatus.Status = "Visited"

	created, err := svc.Import(context.Background(), testCaller(), []validation.BuyerInput{validInput(), withStatus})
	require.NoError(t, err)
	assert.Equal(t, 2, created)
	assert.Equal(t, []domain.ChangeOp{domain.ChangeOpImportCreate, domain.ChangeOpImportCreate}, ops)

	leads.AssertExpectations(t)
	history.AssertExpectations(t)
}

func TestGet_ReturnsLeadWithRecentHistory(t *testing.T) {
	observed := time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)
	leads := new(mockBuyerRepo)
	history := new(mockHistoryRepo)
	svc := newTestService(leads, history, true)

	existing := existingLead(observed)
	entries := []domain.BuyerHistory{{ID: "h2"}, {ID: "h1"}}
	leads.On("GetByID", mock.Anything, "lead-1").Return(existing, nil)
	history.On("ListByBuyer", mock.Anything, "lead-1", 5).Return(entries, nil)

	lead, got, err := svc.Get(context.Background(), "lead-1")
	require.NoError(t, err)
	assert.Equal(t, existing, lead)
	assert.Equal(t, entries, got)
}

func TestList_ClampsPagingAndMapsFilters(t *testing.T) {
	leads := new(mockBuyerRepo)
	svc := newTestService(leads, new(mockHistoryRepo), true)

	match := mock.MatchedBy(func(f repository.BuyerFilter) bool {
		return f.Limit == 50 && f.Offset == 0 &&
			f.City != nil && *f.City == domain.CityMohali &&
			f.Timeline != nil && *f.Timeline == domain.TimelineOver6M &&
			f.SortField == "updatedAt" && f.SortDesc
	})
	leads.On("Count", mock.Anything, match).Return(int64(7), nil)
	leads.On("ListWithFilter", mock.Anything, match).Return(nil, nil)

	result, err := svc.List(context.Background(), ListQuery{
		Page:      0,
		PageSize:  500,
		City:      "Mohali",
		Timeline:  ">6m",
		SortField: "updatedAt",
		SortOrder: "desc",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Page)
	assert.Equal(t, 50, result.PageSize)
	assert.Equal(t, int64(7), result.Total)
	assert.NotNil(t, result.Items)
	assert.Empty(t, result.Items)

	leads.AssertExpectations(t)
}
