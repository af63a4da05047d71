package analytics

import (
	"time"

	"ITAM-backend/internal/asset_mgmt/assets"
)

type DashboardStats struct {
	TotalAssets      int64 `json:"total_assets"`
	ActiveAssets     int64 `json:"active_assets"`
	InactiveAssets   int64 `json:"inactive_assets"`
	PendingTransfers int64 `json:"pending_transfers"`
	TotalUsers       int64 `json:"total_users"`
	TotalLocations   int64 `json:"total_locations"`
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

type TypeCount struct {
	AssetType string `json:"asset_type"`
	Count     int64  `json:"count"`
}

type LocationCount struct {
	LocationID   string `json:"location_id"`
	LocationName string `json:"location_name"`
	AssetCount   int64  `json:"asset_count"`
}

type UserAllocation struct {
	UserID     string `json:"user_id"`
	Name       string `json:"name"`
	AssetCount int64  `json:"asset_count"`
}

type MonthlyTransfers struct {
	Year          int   `json:"year"`
	Month         int   `json:"month"`
	TransferCount int64 `json:"transfer_count"`
}

type WarrantyReport struct {
	Assets        []assets.Asset `json:"assets_with_expiring_warranty"`
	Count         int            `json:"count"`
	DaysThreshold int            `json:"days_threshold"`
}

const (
	ActivityTransferred = "asset_transferred"
	ActivityAdded       = "asset_added"
)

type Activity struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
	Ago         string    `json:"ago"`
	User        string    `json:"user"`
}

// ===== Queries =====

type WarrantyQuery struct {
	Days int `form:"days,default=30" binding:"min=1,max=3650"`
}

type RecentQuery struct {
	Limit int `form:"limit,default=10" binding:"min=1,max=100"`
}
