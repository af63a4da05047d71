package assets

import (
	"time"

	"ITAM-backend/internal/platform/ref"
)

type Status string

const (
	StatusInService   Status = "in-service"
	StatusRetired     Status = "retired"
	StatusMaintenance Status = "maintenance"
	StatusRepair      Status = "repair"
)

var Statuses = []Status{StatusInService, StatusRetired, StatusMaintenance, StatusRepair}

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// Asset is one tracked hardware item. The name fields are resolved on read.
type Asset struct {
	ID               string     `json:"id"`
	AssetTag         *string    `json:"asset_tag"`
	Category         string     `json:"category"`
	Make             string     `json:"make"`
	Model            string     `json:"model"`
	SerialNumber     string     `json:"serial_number"`
	OSVersion        *string    `json:"os_version"`
	PurchaseDate     *time.Time `json:"purchase_date"`
	WarrantyExpiry   *time.Time `json:"warranty_expiry"`
	Notes            *string    `json:"notes"`
	Status           Status     `json:"status"`
	AssignedUserID   ref.Ref    `json:"assigned_user_id"`
	AssignedUserName *string    `json:"assigned_user_name,omitempty"`
	LocationID       ref.Ref    `json:"location_id"`
	LocationName     *string    `json:"location_name,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// Assignment is what the transfer workflow applies on approval.
// Only Valid refs are written; the other field keeps its current value.
type Assignment struct {
	User     ref.Ref
	Location ref.Ref
}

// DeriveStatus: user と location が両方揃っていれば in-service、それ以外は retired
func DeriveStatus(user, location ref.Ref) Status {
	if user.Valid && location.Valid {
		return StatusInService
	}
	return StatusRetired
}

type Filter struct {
	Status         *Status
	LocationID     *string
	AssignedUserID *string
	Category       *string
	Search         string
	SortBy         string
	SortOrder      string
	Skip           int
	Limit          int
}

const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

// list の並び替えキー。値は MySQL のカラム
var sortColumns = map[string]string{
	"asset_tag":     "a.asset_tag",
	"category":      "a.category",
	"make":          "a.make",
	"model":         "a.model",
	"serial_number": "a.serial_number",
	"status":        "a.status",
	"created_at":    "a.created_at",
	"updated_at":    "a.updated_at",
}

type GroupKey string

const (
	GroupStatus   GroupKey = "status"
	GroupCategory GroupKey = "category"
	GroupLocation GroupKey = "location"
	GroupUser     GroupKey = "user"
)

// GroupCount is one bucket of an aggregate over assets. Label is the resolved
// name for location and user buckets.
type GroupCount struct {
	Key   string
	Label string
	Count int64
}
