package domain

import "time"

// ChangeOp tags the kind of mutation an audit entry records.
type ChangeOp string

const (
	ChangeOpCreate       ChangeOp = "create"
	ChangeOpUpdate       ChangeOp = "update"
	ChangeOpDelete       ChangeOp = "delete"
	ChangeOpImportCreate ChangeOp = "import_create"
)

// ChangeDiff is the structured audit payload. Which snapshots are present
// depends on the operation: create/import_create carry After, delete carries
// Before, update carries both.
type ChangeDiff struct {
	Op     ChangeOp   `json:"op"`
	Before *BuyerLead `json:"before,omitempty"`
	After  *BuyerLead `json:"after,omitempty"`
}

// BuyerHistory is an immutable audit trail entry. One row is written in the
// same transaction as every lead mutation; rows are never updated or deleted
// and deliberately survive deletion of their parent lead.
type BuyerHistory struct {
	ID        string     `json:"id"`
	BuyerID   string     `json:"buyerId"`
	ChangedBy string     `json:"changedBy"`
	ChangedAt time.Time  `json:"changedAt"`
	Diff      ChangeDiff `json:"diff"`
}
