package web

import (
	"strings"

	"github.com/frozpass/vaultpanel/internal/domain/model"
)

// maskedSecret is what a hidden secret renders as. The mask length is fixed
// so the real length leaks nothing.
const maskedSecret = "••••••••"

// AccountView is the presentation form of one account row.
type AccountView struct {
	ID        string
	Title     string
	User      string
	Secret    string
	Revealed  bool
	URL       string
	CreatedAt string
}

// APIKeyView is the presentation form of one API key row.
type APIKeyView struct {
	ID        string
	Title     string
	Secret    string
	Revealed  bool
	CreatedAt string
}

// GroupView is the presentation form of one group row. Description is
// rendered as sanitized markdown by the template.
type GroupView struct {
	Name        string
	MemberCount int64
	Description string
	CreatedAt   string
}

// GroupAccountView is the presentation form of one shared account row.
// Group items carry no ID; the reveal key combines group and title.
type GroupAccountView struct {
	Title    string
	User     string
	Secret   string
	Revealed bool
	URL      string
	Key      string
}

// GroupAPIKeyView is the presentation form of one shared API key row.
type GroupAPIKeyView struct {
	Title    string
	Secret   string
	Revealed bool
	Key      string
}

// Reveal key constructors. Kinds are distinct so an account and an API key
// with the same ID never share a flag.
func accountKey(id string) string                { return "account:" + id }
func apiKeyKey(id string) string                 { return "apikey:" + id }
func groupAccountKey(group, title string) string { return "gacct:" + group + ":" + title }
func groupAPIKeyKey(group, title string) string  { return "gkey:" + group + ":" + title }

func secretOr(secret string, revealed bool) string {
	if revealed {
		return secret
	}
	return maskedSecret
}

// normalizeURL makes a stored site address clickable. Addresses saved
// without a scheme get https; empty stays empty.
func normalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw
	}
	return "https://" + raw
}

// matchesSearch does a case-insensitive substring match over the given
// fields. An empty query matches everything.
func matchesSearch(query string, fields ...string) bool {
	if query == "" {
		return true
	}
	query = strings.ToLower(query)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), query) {
			return true
		}
	}
	return false
}

func accountViews(items []model.Account, state *ViewState) []AccountView {
	views := make([]AccountView, 0, len(items))
	for _, a := range items {
		if !matchesSearch(state.Search, a.Title, a.UserAccount, a.URL) {
			continue
		}
		revealed := state.IsRevealed(accountKey(a.ID))
		views = append(views, AccountView{
			ID:        a.ID,
			Title:     a.Title,
			User:      a.UserAccount,
			Secret:    secretOr(a.PasswordAccount, revealed),
			Revealed:  revealed,
			URL:       normalizeURL(a.URL),
			CreatedAt: a.CreatedAt,
		})
	}
	return views
}

func apiKeyViews(items []model.APIKey, state *ViewState) []APIKeyView {
	views := make([]APIKeyView, 0, len(items))
	for _, k := range items {
		if !matchesSearch(state.Search, k.Title) {
			continue
		}
		revealed := state.IsRevealed(apiKeyKey(k.ID))
		views = append(views, APIKeyView{
			ID:        k.ID,
			Title:     k.Title,
			Secret:    secretOr(k.Key, revealed),
			Revealed:  revealed,
			CreatedAt: k.CreatedAt,
		})
	}
	return views
}

func groupViews(items []model.Group, state *ViewState) []GroupView {
	views := make([]GroupView, 0, len(items))
	for _, g := range items {
		if !matchesSearch(state.Search, g.Name, g.Description) {
			continue
		}
		views = append(views, GroupView{
			Name:        g.Name,
			MemberCount: g.MemberCount,
			Description: g.Description,
			CreatedAt:   g.CreatedAt,
		})
	}
	return views
}

func groupAccountViews(items []model.GroupAccount, state *ViewState) []GroupAccountView {
	views := make([]GroupAccountView, 0, len(items))
	for _, a := range items {
		if !matchesSearch(state.Search, a.Title, a.UserAccount, a.URL) {
			continue
		}
		key := groupAccountKey(a.GroupName, a.Title)
		revealed := state.IsRevealed(key)
		views = append(views, GroupAccountView{
			Title:    a.Title,
			User:     a.UserAccount,
			Secret:   secretOr(a.PasswordAccount, revealed),
			Revealed: revealed,
			URL:      normalizeURL(a.URL),
			Key:      key,
		})
	}
	return views
}

func groupAPIKeyViews(items []model.GroupAPIKey, state *ViewState) []GroupAPIKeyView {
	views := make([]GroupAPIKeyView, 0, len(items))
	for _, k := range items {
		if !matchesSearch(state.Search, k.Title) {
			continue
		}
		key := groupAPIKeyKey(k.GroupName, k.Title)
		revealed := state.IsRevealed(key)
		views = append(views, GroupAPIKeyView{
			Title:    k.Title,
			Secret:   secretOr(k.Key, revealed),
			Revealed: revealed,
			Key:      key,
		})
	}
	return views
}
