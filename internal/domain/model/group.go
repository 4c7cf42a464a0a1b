package model

// Group is a named collection of users that can share vault items.
// Membership is many-to-many: a user may belong to several groups.
// Both the self-service listing and the admin listing return this shape.
type Group struct {
	Name        string `json:"name"`
	MemberCount int64  `json:"member_count"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
}
