package model

import "time"

// WatchEntry is one followed ticker in the watchlist.
// Removal is a soft delete: IsActive is cleared, the row stays.
type WatchEntry struct {
	Ticker      string    `json:"ticker"`
	CompanyName string    `json:"company_name"`
	Sector      string    `json:"sector"`
	AddedDate   time.Time `json:"added_date"`
	Notes       string    `json:"notes,omitempty"`
	TargetPrice *float64  `json:"target_price,omitempty"`
	StopLoss    *float64  `json:"stop_loss,omitempty"`
	IsActive    bool      `json:"is_active"`
	Priority    int       `json:"priority"` // 1 (highest) to 5
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// WatchUpdate carries the sparse set of mutable watchlist fields.
// Nil means "leave unchanged".
type WatchUpdate struct {
	Notes       *string  `json:"notes,omitempty"`
	TargetPrice *float64 `json:"target_price,omitempty"`
	StopLoss    *float64 `json:"stop_loss,omitempty"`
	Priority    *int     `json:"priority,omitempty"`
	IsActive    *bool    `json:"is_active,omitempty"`
}

// Empty reports whether the update changes nothing.
func (u WatchUpdate) Empty() bool {
	return u.Notes == nil && u.TargetPrice == nil && u.StopLoss == nil &&
		u.Priority == nil && u.IsActive == nil
}
