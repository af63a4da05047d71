package transfers

import "ITAM-backend/internal/platform/ref"

// ===== Requests =====

// CreateTransferRequest: to_user_id / to_location_id のどちらか一方は必須
type CreateTransferRequest struct {
	AssetID      string  `json:"asset_id" binding:"required,ulid"`
	Reason       string  `json:"reason" binding:"notblank"`
	Notes        *string `json:"notes,omitempty"`
	ToUserID     ref.Ref `json:"to_user_id"`
	ToLocationID ref.Ref `json:"to_location_id"`
}

// UpdateTransferRequest drives a transition through PUT /transfers/{id}.
type UpdateTransferRequest struct {
	Status          Status  `json:"status" binding:"required,transfer_status"`
	RejectionReason *string `json:"rejection_reason,omitempty"`
	Notes           *string `json:"notes,omitempty"`
}

// Decision is the optional body of the per-action POST routes.
type Decision struct {
	RejectionReason string  `json:"rejection_reason"`
	Notes           *string `json:"notes,omitempty"`
}

type ListTransfersQuery struct {
	AssetID     string `form:"asset_id" binding:"omitempty,ulid"`
	Status      string `form:"status" binding:"omitempty,transfer_status"`
	RequesterID string `form:"requester_id" binding:"omitempty,ulid"`
	UserID      string `form:"userId" binding:"omitempty,ulid"`
	Skip        int    `form:"skip,default=0" binding:"min=0"`
	Limit       int    `form:"limit,default=100" binding:"min=1,max=1000"`
}

func (q ListTransfersQuery) Filter() Filter {
	f := Filter{Skip: q.Skip, Limit: q.Limit}
	if q.AssetID != "" {
		f.AssetID = &q.AssetID
	}
	if q.Status != "" {
		st := Status(q.Status)
		f.Status = &st
	}
	// userId は旧クライアント互換
	if q.RequesterID != "" {
		f.RequesterID = &q.RequesterID
	} else if q.UserID != "" {
		f.RequesterID = &q.UserID
	}
	return f
}

// ===== Responses =====

type PendingCountResponse struct {
	PendingCount int64 `json:"pending_count"`
}
