package models

// Option is one entry of a read-only lookup list (courses, franchisees),
// a label/value pair for selection inputs.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Profile is the signed-in user's profile record.
type Profile struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Franchisee string `json:"franchisee"`
}

// DashboardStats is the aggregate counters shown on the dashboard.
type DashboardStats struct {
	TotalEnquiries     int    `json:"total_enquiries"`
	TotalRegistrations int    `json:"total_registrations"`
	TotalCollection    Amount `json:"total_collection"`
	PendingDues        Amount `json:"pending_dues"`
}
