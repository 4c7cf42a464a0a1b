package model

// Account is a stored credential record: a site login plus its secret.
// Secret fields hold whatever the backend delivered; the client never
// transforms them.
type Account struct {
	ID              string `json:"id"`
	Username        string `json:"username"`
	Title           string `json:"title"`
	UserAccount     string `json:"user_account"`
	PasswordAccount string `json:"password_account"`
	URL             string `json:"url"`
	CreatedAt       string `json:"created_at"`
}

// APIKey is a stored API key record. The backend serializes the secret
// field as "apiKey".
type APIKey struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Title     string `json:"title"`
	Key       string `json:"apiKey"`
	CreatedAt string `json:"created_at"`
}

// GroupAccount is an account shared within a group. Group-scoped listings
// carry no record ID; items are keyed by group and title.
type GroupAccount struct {
	GroupName       string `json:"group_name"`
	Title           string `json:"title"`
	UserAccount     string `json:"user_account"`
	PasswordAccount string `json:"password_account"`
	URL             string `json:"url"`
}

// GroupAPIKey is an API key shared within a group.
type GroupAPIKey struct {
	GroupName string `json:"group_name"`
	Title     string `json:"title"`
	Key       string `json:"api_key"`
}

// NewAccount carries the form fields for creating a user-owned account.
type NewAccount struct {
	Username        string
	Title           string
	UserAccount     string
	PasswordAccount string
	URL             string
}

// NewAPIKey carries the form fields for creating a user-owned API key.
type NewAPIKey struct {
	Username string
	Title    string
	Key      string
}

// NewGroupAccount carries the form fields for creating a group-shared account.
type NewGroupAccount struct {
	GroupName       string
	Title           string
	UserAccount     string
	PasswordAccount string
	URL             string
}

// NewGroupAPIKey carries the form fields for creating a group-shared API key.
type NewGroupAPIKey struct {
	GroupName string
	Title     string
	Key       string
}
