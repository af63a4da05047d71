package locations

import "time"

type Location struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Address     *string   `json:"address"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// ===== Requests =====

type CreateLocationRequest struct {
	Name        string  `json:"name" binding:"notblank"`
	Address     *string `json:"address,omitempty"`
	Description *string `json:"description,omitempty"`
}

type UpdateLocationRequest struct {
	Name        *string `json:"name,omitempty" binding:"omitempty,notblank"`
	Address     *string `json:"address,omitempty"`
	Description *string `json:"description,omitempty"`
}
