package validation

import (
	"encoding/json"
	"net/mail"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/spec-kit/buyer-leads-service/internal/domain"
)

// FieldErrors maps a field name to the list of messages recorded against it.
type FieldErrors map[string][]string

// Add records a message for a field.
func (fe FieldErrors) Add(field, message string) {
	fe[field] = append(fe[field], message)
}

// FlexNumber decodes a JSON number or a numeric string, so form posts and
// CSV-derived rows validate through the same path.
type FlexNumber struct {
	Present bool
	Valid   bool
	Value   float64
}

func (n *FlexNumber) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			n.Present = true
			return nil
		}
		return n.setFromString(raw)
	}
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		n.Present = true
		return nil
	}
	n.Present, n.Valid, n.Value = true, true, v
	return nil
}

func (n *FlexNumber) setFromString(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	n.Present = true
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	n.Valid, n.Value = true, v
	return nil
}

// TagList decodes either a comma-separated string or a string array. Values
// are trimmed and empties dropped; duplicates are preserved.
type TagList struct {
	Present bool
	Values  []string
}

func (t *TagList) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		return nil
	}
	t.Present = true
	if strings.HasPrefix(trimmed, `"`) {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		t.Values = SplitTags(raw)
		return nil
	}
	var arr []string
	if err := json.Unmarshal(data, &arr); err != nil {
		return err
	}
	t.Values = normalizeTags(arr)
	return nil
}

// SplitTags turns a comma-separated string into a normalized tag list.
func SplitTags(raw string) []string {
	return normalizeTags(strings.Split(raw, ","))
}

func normalizeTags(in []string) []string {
	out := make([]string, 0, len(in))
	for _, tag := range in {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			out = append(out, tag)
		}
	}
	return out
}

// BuyerInput is a candidate field set from a form post, an update, or one
// bulk-import row.
type BuyerInput struct {
	FullName     string     `json:"fullName"`
	Email        string     `json:"email"`
	Phone        string     `json:"phone"`
	City         string     `json:"city"`
	PropertyType string     `json:"propertyType"`
	BHK          string     `json:"bhk"`
	Purpose      string     `json:"purpose"`
	BudgetMin    FlexNumber `json:"budgetMin"`
	BudgetMax    FlexNumber `json:"budgetMax"`
	Timeline     string     `json:"timeline"`
	Source       string     `json:"source"`
	Notes        string     `json:"notes"`
	Tags         TagList    `json:"tags"`
	Status       string     `json:"status"`
}

// NormalizedBuyer is the validated value object. Enum fields still carry
// their UI literals; mapping to storage form happens at the write pipeline.
type NormalizedBuyer struct {
	FullName     string
	Email        *string
	Phone        string
	City         string
	PropertyType string
	BHK          *string
	Purpose      string
	BudgetMin    *float64
	BudgetMax    *float64
	Timeline     string
	Source       string
	Notes        *string
	Tags         []string
	Status       *string
}

// ValidateBuyer checks every constraint and collects all violations rather
// than failing on the first, so import callers can report per-row problems
// in one pass. A non-empty FieldErrors means the input was rejected.
func ValidateBuyer(in BuyerInput) (*NormalizedBuyer, FieldErrors) {
	fe := FieldErrors{}
	out := &NormalizedBuyer{}

	fullName := strings.TrimSpace(in.FullName)
	switch {
	case fullName == "":
		fe.Add("fullName", "fullName is required")
	case utf8.RuneCountInString(fullName) < 2 || utf8.RuneCountInString(fullName) > 80:
		fe.Add("fullName", "fullName must be between 2 and 80 characters")
	default:
		out.FullName = fullName
	}

	if email := strings.TrimSpace(in.Email); email != "" {
		if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
			fe.Add("email", "email must be a valid email address")
		} else {
			out.Email = &email
		}
	}

	phone := strings.TrimSpace(in.Phone)
	switch {
	case phone == "":
		fe.Add("phone", "phone is required")
	case len(phone) < 10 || len(phone) > 15:
		fe.Add("phone", "phone must be between 10 and 15 characters")
	default:
		out.Phone = phone
	}

	if in.City == "" {
		fe.Add("city", "city is required")
	} else if _, ok := domain.CityFromUI(in.City); !ok {
		fe.Add("city", "invalid city")
	} else {
		out.City = in.City
	}

	propertyTypeOK := false
	if in.PropertyType == "" {
		fe.Add("propertyType", "propertyType is required")
	} else if _, ok := domain.PropertyTypeFromUI(in.PropertyType); !ok {
		fe.Add("propertyType", "invalid propertyType")
	} else {
		out.PropertyType = in.PropertyType
		propertyTypeOK = true
	}

	if bhk := strings.TrimSpace(in.BHK); bhk != "" {
		if _, ok := domain.BHKFromUI(bhk); !ok {
			fe.Add("bhk", "invalid bhk")
		} else {
			out.BHK = &bhk
		}
	}
	// bhk is only syntactically optional: residential property types need it.
	if propertyTypeOK && out.BHK == nil && len(fe["bhk"]) == 0 &&
		(in.PropertyType == string(domain.PropertyApartment) || in.PropertyType == string(domain.PropertyVilla)) {
		fe.Add("bhk", "BHK is required for Apartment or Villa")
	}

	if in.Purpose == "" {
		fe.Add("purpose", "purpose is required")
	} else if _, ok := domain.PurposeFromUI(in.Purpose); !ok {
		fe.Add("purpose", "invalid purpose")
	} else {
		out.Purpose = in.Purpose
	}

	if in.BudgetMin.Present {
		if !in.BudgetMin.Valid || in.BudgetMin.Value < 0 {
			fe.Add("budgetMin", "budgetMin must be a non-negative number")
		} else {
			v := in.BudgetMin.Value
			out.BudgetMin = &v
		}
	}
	if in.BudgetMax.Present {
		if !in.BudgetMax.Valid || in.BudgetMax.Value < 0 {
			fe.Add("budgetMax", "budgetMax must be a non-negative number")
		} else {
			v := in.BudgetMax.Value
			out.BudgetMax = &v
		}
	}
	if out.BudgetMin != nil && out.BudgetMax != nil && *out.BudgetMax < *out.BudgetMin {
		fe.Add("budgetMax", "budgetMax must be >= budgetMin")
	}

	if in.Timeline == "" {
		fe.Add("timeline", "timeline is required")
	} else if _, ok := domain.TimelineFromUI(in.Timeline); !ok {
		fe.Add("timeline", "invalid timeline")
	} else {
		out.Timeline = in.Timeline
	}

	if in.Source == "" {
		fe.Add("source", "source is required")
	} else if _, ok := domain.SourceFromUI(in.Source); !ok {
		fe.Add("source", "invalid source")
	} else {
		out.Source = in.Source
	}

	if notes := strings.TrimSpace(in.Notes); notes != "" {
		if utf8.RuneCountInString(notes) > 1000 {
			fe.Add("notes", "notes must be at most 1000 characters")
		} else {
			out.Notes = &notes
		}
	}

	if in.Tags.Present {
		out.Tags = in.Tags.Values
	} else {
		out.Tags = []string{}
	}

	if status := strings.TrimSpace(in.Status); status != "" {
		if _, ok := domain.StatusFromUI(status); !ok {
			fe.Add("status", "invalid status")
		} else {
			out.Status = &status
		}
	}

	if len(fe) > 0 {
		return nil, fe
	}
	return out, nil
}
