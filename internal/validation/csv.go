package validation

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// ParseCSVRows decodes a headered CSV body into candidate rows. Column names
// match the export header; unknown columns are ignored. Rows are returned
// raw so every constraint is still checked by ValidateBuyer.
func ParseCSVRows(r io.Reader) ([]BuyerInput, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("csv body is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}

	field := func(record []string, name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	var rows []BuyerInput
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", len(rows)+1, err)
		}

		row := BuyerInput{
			FullName:     field(record, "fullName"),
			Email:        field(record, "email"),
			Phone:        field(record, "phone"),
			City:         field(record, "city"),
			PropertyType: field(record, "propertyType"),
			BHK:          field(record, "bhk"),
			Purpose:      field(record, "purpose"),
			Timeline:     field(record, "timeline"),
			Source:       field(record, "source"),
			Notes:        field(record, "notes"),
			Status:       field(record, "status"),
		}
		if raw := field(record, "budgetMin"); raw != "" {
			_ = row.BudgetMin.setFromString(raw)
		}
		if raw := field(record, "budgetMax"); raw != "" {
			_ = row.BudgetMax.setFromString(raw)
		}
		if raw := field(record, "tags"); raw != "" {
			row.Tags = TagList{Present: true, Values: SplitTags(raw)}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
