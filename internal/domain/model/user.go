package model

// User is a vault account as seen by the admin dashboard.
type User struct {
	ID        string   `json:"id"`
	Username  string   `json:"username"`
	Email     string   `json:"email,omitempty"`
	Role      string   `json:"role,omitempty"`
	Groups    []string `json:"groups,omitempty"`
	CreatedAt string   `json:"created_at"`
}
