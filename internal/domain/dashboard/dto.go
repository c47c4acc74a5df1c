package dashboard

// ========== TODAY STATS ==========

// TodayStats is the attendance snapshot of one date across all active users.
type TodayStats struct {
	Date             string `json:"date"` // Format: "YYYY-MM-DD"
	TotalActiveUsers int    `json:"total_active_users"`
	CheckedIn        int    `json:"checked_in"`
	NotCheckedIn     int    `json:"not_checked_in"`
	Late             int    `json:"late"`
	Incomplete       int    `json:"incomplete"`
	OnLeave          int    `json:"on_leave"` // leave tracking is not implemented; always 0
}
