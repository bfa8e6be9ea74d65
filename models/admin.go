package models

// DashboardStats feeds the admin dashboard.
type DashboardStats struct {
	Users              int64 `json:"users"`
	Admins             int64 `json:"admins"`
	Courses            int64 `json:"courses"`
	CompletedPurchases int64 `json:"completedPurchases"`
	PendingPurchases   int64 `json:"pendingPurchases"`
	RevenueCents       int64 `json:"revenueCents"`
	Posts              int64 `json:"posts"`
	UpcomingEvents     int64 `json:"upcomingEvents"`
	Files              int64 `json:"files"`
}

// LegalSection is one published policy document.
type LegalSection struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Summary string `json:"summary"`
	Content string `json:"content"`
	Version string `json:"version"`
	Updated string `json:"updated"`
}
