package domain

// Mapping between the literals shown in forms/CSV (UI) and the literals
// persisted in storage. The forward maps report membership so callers can
// reject unknown input instead of silently defaulting it; the reverse maps
// return "" for literals they do not recognize.

var bhkFromUI = map[string]BHK{
	"1":      BHKOne,
	"2":      BHKTwo,
	"3":      BHKThree,
	"4":      BHKFour,
	"Studio": BHKStudio,
}

// BHKFromUI maps a UI bhk literal to its stored form.
func BHKFromUI(v string) (BHK, bool) {
	b, ok := bhkFromUI[v]
	return b, ok
}

// BHKToUI maps a stored bhk back to its UI literal.
func BHKToUI(v BHK) string {
	switch v {
	case BHKOne:
		return "1"
	case BHKTwo:
		return "2"
	case BHKThree:
		return "3"
	case BHKFour:
		return "4"
	case BHKStudio:
		return "Studio"
	}
	return ""
}

var timelineFromUI = map[string]Timeline{
	"0-3m":      TimelineZeroTo3M,
	"3-6m":      TimelineThreeTo6M,
	">6m":       TimelineOver6M,
	"Exploring": TimelineExploring,
}

// TimelineFromUI maps a UI timeline literal to its stored form.
func TimelineFromUI(v string) (Timeline, bool) {
	t, ok := timelineFromUI[v]
	return t, ok
}

// TimelineToUI maps a stored timeline back to its UI literal.
func TimelineToUI(v Timeline) string {
	switch v {
	case TimelineZeroTo3M:
		return "0-3m"
	case TimelineThreeTo6M:
		return "3-6m"
	case TimelineOver6M:
		return ">6m"
	case TimelineExploring:
		return "Exploring"
	}
	return ""
}

var sourceFromUI = map[string]Source{
	"Website":  SourceWebsite,
	"Referral": SourceReferral,
	"Walk-in":  SourceWalkIn,
	"Call":     SourceCall,
	"Other":    SourceOther,
}

// SourceFromUI maps a UI source literal to its stored form. Only "Walk-in"
// differs from its stored spelling; the rest pass through unchanged.
func SourceFromUI(v string) (Source, bool) {
	s, ok := sourceFromUI[v]
	return s, ok
}

// SourceToUI maps a stored source back to its UI literal.
func SourceToUI(v Source) string {
	switch v {
	case SourceWebsite:
		return "Website"
	case SourceReferral:
		return "Referral"
	case SourceWalkIn:
		return "Walk-in"
	case SourceCall:
		return "Call"
	case SourceOther:
		return "Other"
	}
	return ""
}

var cityFromUI = map[string]City{
	"Chandigarh": CityChandigarh,
	"Mohali":     CityMohali,
	"Zirakpur":   CityZirakpur,
	"Panchkula":  CityPanchkula,
	"Other":      CityOther,
}

// CityFromUI validates a city literal. Stored and UI forms are identical.
func CityFromUI(v string) (City, bool) {
	c, ok := cityFromUI[v]
	return c, ok
}

var propertyTypeFromUI = map[string]PropertyType{
	"Apartment": PropertyApartment,
	"Villa":     PropertyVilla,
	"Plot":      PropertyPlot,
	"Office":    PropertyOffice,
	"Retail":    PropertyRetail,
}

// PropertyTypeFromUI validates a property type literal.
func PropertyTypeFromUI(v string) (PropertyType, bool) {
	p, ok := propertyTypeFromUI[v]
	return p, ok
}

var purposeFromUI = map[string]Purpose{
	"Buy":  PurposeBuy,
	"Rent": PurposeRent,
}

// PurposeFromUI validates a purpose literal.
func PurposeFromUI(v string) (Purpose, bool) {
	p, ok := purposeFromUI[v]
	return p, ok
}

var statusFromUI = map[string]LeadStatus{
	"New":         StatusNew,
	"Qualified":   StatusQualified,
	"Contacted":   StatusContacted,
	"Visited":     StatusVisited,
	"Negotiation": StatusNegotiation,
	"Converted":   StatusConverted,
	"Dropped":     StatusDropped,
}

// StatusFromUI validates a lead status literal.
func StatusFromUI(v string) (LeadStatus, bool) {
	s, ok := statusFromUI[v]
	return s, ok
}
