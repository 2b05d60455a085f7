package domain

import "time"

// City enumerates the intake regions served by the demo.
type City string

const (
	CityChandigarh City = "Chandigarh"
	CityMohali     City = "Mohali"
	CityZirakpur   City = "Zirakpur"
	CityPanchkula  City = "Panchkula"
	CityOther      City = "Other"
)

// PropertyType enumerates property categories.
type PropertyType string

const (
	PropertyApartment PropertyType = "Apartment"
	PropertyVilla     PropertyType = "Villa"
	PropertyPlot      PropertyType = "Plot"
	PropertyOffice    PropertyType = "Office"
	PropertyRetail    PropertyType = "Retail"
)

// BHK is the stored bedroom-hall-kitchen descriptor.
type BHK string

const (
	BHKOne    BHK = "ONE"
	BHKTwo    BHK = "TWO"
	BHKThree  BHK = "THREE"
	BHKFour   BHK = "FOUR"
	BHKStudio BHK = "STUDIO"
)

// Purpose distinguishes buy vs rent intent.
type Purpose string

const (
	PurposeBuy  Purpose = "Buy"
	PurposeRent Purpose = "Rent"
)

// Timeline is the stored purchase-horizon descriptor.
type Timeline string

const (
	TimelineZeroTo3M  Timeline = "ZERO_3M"
	TimelineThreeTo6M Timeline = "THREE_6M"
	TimelineOver6M    Timeline = "GT_6M"
	TimelineExploring Timeline = "Exploring"
)

// Source is the stored acquisition channel.
type Source string

const (
	SourceWebsite  Source = "Website"
	SourceReferral Source = "Referral"
	SourceWalkIn   Source = "WalkIn"
	SourceCall     Source = "Call"
	SourceOther    Source = "Other"
)

// LeadStatus enumerates lifecycle states for a lead.
type LeadStatus string

const (
	StatusNew         LeadStatus = "New"
	StatusQualified   LeadStatus = "Qualified"
	StatusContacted   LeadStatus = "Contacted"
	StatusVisited     LeadStatus = "Visited"
	StatusNegotiation LeadStatus = "Negotiation"
	StatusConverted   LeadStatus = "Converted"
	StatusDropped     LeadStatus = "Dropped"
)

// BuyerLead is the aggregate for buyer intake records. UpdatedAt doubles
// as the optimistic-concurrency token: every mutation refreshes it and
// updates must present the value they last observed.
type BuyerLead struct {
	ID           string       `json:"id"`
	FullName     string       `json:"fullName"`
	Email        *string      `json:"email"`
	Phone        string       `json:"phone"`
	City         City         `json:"city"`
	PropertyType PropertyType `json:"propertyType"`
	BHK          *BHK         `json:"bhk"`
	Purpose      Purpose      `json:"purpose"`
	BudgetMin    *float64     `json:"budgetMin"`
	BudgetMax    *float64     `json:"budgetMax"`
	Timeline     Timeline     `json:"timeline"`
	Source       Source       `json:"source"`
	Notes        *string      `json:"notes"`
	Tags         []string     `json:"tags"`
	Status       LeadStatus   `json:"status"`
	OwnerID      string       `json:"ownerId"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}
