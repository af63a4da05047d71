package transfers

import (
	"time"

	"ITAM-backend/internal/platform/ref"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusApproved  Status = "APPROVED"
	StatusRejected  Status = "REJECTED"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

var Statuses = []Status{StatusPending, StatusApproved, StatusRejected, StatusCompleted, StatusCancelled}

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// Transfer is a request to move an asset to another user and/or location.
// Rows are never deleted.
type Transfer struct {
	ID              string     `json:"id"`
	AssetID         string     `json:"asset_id"`
	RequesterID     string     `json:"requester_id"`
	FromUserID      ref.Ref    `json:"from_user_id"`
	FromLocationID  ref.Ref    `json:"from_location_id"`
	ToUserID        ref.Ref    `json:"to_user_id"`
	ToLocationID    ref.Ref    `json:"to_location_id"`
	ApproverID      ref.Ref    `json:"approver_id"`
	Status          Status     `json:"status"`
	Reason          string     `json:"reason"`
	Notes           *string    `json:"notes"`
	RejectionReason *string    `json:"rejection_reason"`
	RequestedAt     time.Time  `json:"requested_at"`
	ApprovedAt      *time.Time `json:"approved_at"`
	CompletedAt     *time.Time `json:"completed_at"`
	CancelledAt     *time.Time `json:"cancelled_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type Filter struct {
	AssetID     *string
	RequesterID *string
	Status      *Status
	Skip        int
	Limit       int
}

const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

// MonthCount is the number of transfers requested in one "YYYY-MM" month.
type MonthCount struct {
	Month string `json:"month"`
	Count int64  `json:"count"`
}
