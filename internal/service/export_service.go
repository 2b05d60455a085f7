package service

import (
	"context"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spec-kit/buyer-leads-service/internal/domain"
	"github.com/spec-kit/buyer-leads-service/internal/repository"
)

// exportColumns is the fixed CSV column order.
var exportColumns = []string{
	"fullName", "email", "phone", "city", "propertyType", "bhk", "purpose",
	"budgetMin", "budgetMax", "timeline", "source", "notes", "tags", "status",
	"updatedAt",
}

// ExportService renders filtered leads as CSV with UI-facing enum literals.
type ExportService struct {
	leads repository.BuyerRepository
}

// NewExportService constructs the service.
func NewExportService(leads repository.BuyerRepository) *ExportService {
	return &ExportService{leads: leads}
}

// WriteCSV streams every lead matching the query, newest first, one row per
// lead. All fields are quoted with embedded quotes doubled.
func (s *ExportService) WriteCSV(ctx context.Context, w io.Writer, q ListQuery) error {
	filter := buildFilter(q)
	filter.SortField = "updatedAt"
	filter.SortDesc = true
	filter.Limit = 0

	items, err := s.leads.ListWithFilter(ctx, filter)
	if err != nil {
		return err
	}

	if _, err := io.WriteString(w, csvLine(exportColumns)); err != nil {
		return err
	}
	for i := range items {
		if _, err := io.WriteString(w, csvLine(exportRow(&items[i]))); err != nil {
			return err
		}
	}
	return nil
}

// csvLine quotes every field unconditionally, doubling embedded quotes.
func csvLine(fields []string) string {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
	}
	return strings.Join(quoted, ",") + "\n"
}

func exportRow(lead *domain.BuyerLead) []string {
	bhk := ""
	if lead.BHK != nil {
		bhk = domain.BHKToUI(*lead.BHK)
	}
	return []string{
		lead.FullName,
		stringOrEmpty(lead.Email),
		lead.Phone,
		string(lead.City),
		string(lead.PropertyType),
		bhk,
		string(lead.Purpose),
		budgetString(lead.BudgetMin),
		budgetString(lead.BudgetMax),
		domain.TimelineToUI(lead.Timeline),
		domain.SourceToUI(lead.Source),
		stringOrEmpty(lead.Notes),
		strings.Join(lead.Tags, ","),
		string(lead.Status),
		lead.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func stringOrEmpty(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func budgetString(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
