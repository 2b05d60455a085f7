package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/buyer-leads-service/internal/domain"
	"github.com/spec-kit/buyer-leads-service/internal/repository"
)

func TestWriteCSV_RendersUILiteralsFullyQuoted(t *testing.T) {
	email := "rina@example.com"
	bhk := domain.BHKTwo
	notes := `said "maybe", call back`
	budgetMin := float64(500000)
	budgetMax := float64(750000)

	leads := new(mockBuyerRepo)
	leads.On("ListWithFilter", mock.Anything, mock.MatchedBy(func(f repository.BuyerFilter) bool {
		return f.SortField == "updatedAt" && f.SortDesc && f.Limit == 0
	})).Return([]domain.BuyerLead{
		{
			FullName:     "Rina Sharma",
			Email:        &email,
			Phone:        "9876543210",
			City:         domain.CityMohali,
			PropertyType: domain.PropertyApartment,
			BHK:          &bhk,
			Purpose:      domain.PurposeBuy,
			BudgetMin:    &budgetMin,
			BudgetMax:    &budgetMax,
			Timeline:     domain.TimelineOver6M,
			Source:       domain.SourceWalkIn,
			Notes:        &notes,
			Tags:         []string{"hot", "follow-up"},
			Status:       domain.StatusNew,
			UpdatedAt:    time.Date(2025, 7, 1, 10, 30, 0, 0, time.UTC),
		},
		{
			FullName:     "Tom Verma",
			Phone:        "9876500000",
			City:         domain.CityZirakpur,
			PropertyType: domain.PropertyPlot,
			Purpose:      domain.PurposeBuy,
			Timeline:     domain.TimelineExploring,
			Source:       domain.SourceReferral,
			Tags:         []string{},
			Status:       domain.StatusContacted,
			UpdatedAt:    time.Date(2025, 7, 2, 8, 0, 0, 0, time.UTC),
		},
	}, nil)

	svc := NewExportService(leads)
	var out strings.Builder
	require.NoError(t, svc.WriteCSV(context.Background(), &out, ListQuery{}))

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 3)

	assert.Equal(t,
		`"fullName","email","phone","city","propertyType","bhk","purpose","budgetMin","budgetMax","timeline","source","notes","tags","status","updatedAt"`,
		lines[0])
	assert.Equal(t,
		`"Rina Sharma","rina@example.com","9876543210","Mohali","Apartment","2","Buy","500000","750000",">6m","Walk-in","said ""maybe"", call back","hot,follow-up","New","2025-07-01T10:30:00Z"`,
		lines[1])
	assert.Equal(t,
		`"Tom Verma","","9876500000","Zirakpur","Plot","","Buy","","","Exploring","Referral","","","Contacted","2025-07-02T08:00:00Z"`,
		lines[2])

	leads.AssertExpectations(t)
}

func TestWriteCSV_EmptyResultStillWritesHeader(t *testing.T) {
	leads := new(mockBuyerRepo)
	leads.On("ListWithFilter", mock.Anything, mock.Anything).Return([]domain.BuyerLead{}, nil)

	svc := NewExportService(leads)
	var out strings.Builder
	require.NoError(t, svc.WriteCSV(context.Background(), &out, ListQuery{}))

	assert.Equal(t, 1, strings.Count(out.String(), "\n"))
	assert.True(t, strings.HasPrefix(out.String(), `"fullName",`))
}
