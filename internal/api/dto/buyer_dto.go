package dto

import (
	"time"

	"github.com/spec-kit/buyer-leads-service/internal/domain"
	"github.com/spec-kit/buyer-leads-service/internal/validation"
)

// UpdateBuyerRequest is a candidate field set plus the concurrency token
// the client last observed.
type UpdateBuyerRequest struct {
	validation.BuyerInput
	UpdatedAt string `json:"updatedAt"`
}

// ImportRequest wraps bulk import rows.
type ImportRequest struct {
	Rows []validation.BuyerInput `json:"rows"`
}

// ImportResponse reports how many leads the batch created.
type ImportResponse struct {
	Created int `json:"created"`
}

// BuyerHistoryResponse is one audit entry.
type BuyerHistoryResponse struct {
	ID        string            `json:"id"`
	BuyerID   string            `json:"buyerId"`
	ChangedBy string            `json:"changedBy"`
	ChangedAt time.Time         `json:"changedAt"`
	Diff      domain.ChangeDiff `json:"diff"`
}

// BuyerDetailResponse is a lead with its recent audit entries.
type BuyerDetailResponse struct {
	domain.BuyerLead
	History []BuyerHistoryResponse `json:"history"`
}

// HistoryResponses converts domain audit entries.
func HistoryResponses(entries []domain.BuyerHistory) []BuyerHistoryResponse {
	out := make([]BuyerHistoryResponse, 0, len(entries))
	for _, entry := range entries {
		out = append(out, BuyerHistoryResponse{
			ID:        entry.ID,
			BuyerID:   entry.BuyerID,
			ChangedBy: entry.ChangedBy,
			ChangedAt: entry.ChangedAt,
			Diff:      entry.Diff,
		})
	}
	return out
}
