package assets

import (
	"time"

	"ITAM-backend/internal/platform/apperr"
	"ITAM-backend/internal/platform/ref"
)

// ===== Requests =====

type CreateAssetRequest struct {
	AssetTag       *string    `json:"asset_tag,omitempty"`
	Category       string     `json:"category" binding:"notblank"`
	Make           string     `json:"make" binding:"notblank"`
	Model          string     `json:"model" binding:"notblank"`
	SerialNumber   string     `json:"serial_number" binding:"notblank"`
	OSVersion      *string    `json:"os_version,omitempty"`
	PurchaseDate   *time.Time `json:"purchase_date,omitempty"`
	WarrantyExpiry *time.Time `json:"warranty_expiry,omitempty"`
	Notes          *string    `json:"notes,omitempty"`
	AssignedUserID ref.Ref    `json:"assigned_user_id"`
	LocationID     ref.Ref    `json:"location_id"`
}

// UpdateAssetRequest is a partial patch. For the two references an explicit
// null clears the value; an absent field leaves it alone.
type UpdateAssetRequest struct {
	AssetTag       *string    `json:"asset_tag,omitempty"`
	Category       *string    `json:"category,omitempty" binding:"omitempty,notblank"`
	Make           *string    `json:"make,omitempty" binding:"omitempty,notblank"`
	Model          *string    `json:"model,omitempty" binding:"omitempty,notblank"`
	SerialNumber   *string    `json:"serial_number,omitempty" binding:"omitempty,notblank"`
	OSVersion      *string    `json:"os_version,omitempty"`
	PurchaseDate   *time.Time `json:"purchase_date,omitempty"`
	WarrantyExpiry *time.Time `json:"warranty_expiry,omitempty"`
	Notes          *string    `json:"notes,omitempty"`
	Status         *Status    `json:"status,omitempty" binding:"omitempty,asset_status"`
	AssignedUserID ref.Patch  `json:"assigned_user_id"`
	LocationID     ref.Patch  `json:"location_id"`
}

type BulkStatusRequest struct {
	AssetIDs []string `json:"asset_ids" binding:"required,min=1"`
	Status   Status   `json:"status" binding:"required,asset_status"`
}

type BulkLocationRequest struct {
	AssetIDs   []string `json:"asset_ids" binding:"required,min=1"`
	LocationID ref.Ref  `json:"location_id"`
}

type ListAssetsQuery struct {
	Status         string `form:"status" binding:"omitempty,asset_status"`
	LocationID     string `form:"location_id" binding:"omitempty,ulid"`
	AssignedUserID string `form:"assigned_user_id" binding:"omitempty,ulid"`
	Category       string `form:"category"`
	SearchQuery    string `form:"search_query"`
	SortBy         string `form:"sort_by"`
	SortOrder      string `form:"sort_order" binding:"omitempty,oneof=asc desc"`
	Skip           int    `form:"skip,default=0" binding:"min=0"`
	Limit          int    `form:"limit,default=100" binding:"min=1,max=1000"`
}

func (q ListAssetsQuery) Filter() Filter {
	f := Filter{
		Search:    q.SearchQuery,
		SortBy:    q.SortBy,
		SortOrder: q.SortOrder,
		Skip:      q.Skip,
		Limit:     q.Limit,
	}
	if q.Status != "" {
		st := Status(q.Status)
		f.Status = &st
	}
	if q.LocationID != "" {
		f.LocationID = &q.LocationID
	}
	if q.AssignedUserID != "" {
		f.AssignedUserID = &q.AssignedUserID
	}
	if q.Category != "" {
		f.Category = &q.Category
	}
	return f
}

// ===== Responses =====

type ListAssetsResponse struct {
	Assets     []Asset `json:"assets"`
	TotalCount int64   `json:"total_count"`
}

type BulkOutcome struct {
	ID    string `json:"id"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

type BulkResult struct {
	Results []BulkOutcome `json:"results"`
	Total   int           `json:"total"`
	OKCount int           `json:"ok_count"`
	NGCount int           `json:"ng_count"`
}

func (r *BulkResult) add(id string, err error) {
	o := BulkOutcome{ID: id, OK: err == nil}
	if err != nil {
		o.Error = apperr.BodyFrom(err).Error.Message
		r.NGCount++
	} else {
		r.OKCount++
	}
	r.Results = append(r.Results, o)
	r.Total++
}
