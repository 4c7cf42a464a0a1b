package web

import (
	"net/http"
	"strings"

	"github.com/frozpass/vaultpanel/internal/domain/model"
)

// AdminDashboard renders the active tab of the admin console: overview
// tiles, the user table, or the group table.
func (h *Handler) AdminDashboard(w http.ResponseWriter, r *http.Request) {
	sess, _ := h.sessions.Current(r)
	state := h.sessions.State(r)

	data := map[string]any{
		"Username":         sess.Username,
		"ActiveTab":        state.ActiveTab,
		"Search":           state.Search,
		"SidebarCollapsed": state.SidebarCollapsed,
	}

	switch state.ActiveTab {
	case TabStats:
		// Refresh both lists so the tiles reflect the backend, then read
		// the counts from the snapshots they just replaced.
		if _, err := h.admin.FetchUsers(r.Context(), sess.Token); h.fetchFailed(w, r, err) {
			return
		}
		if _, err := h.admin.FetchGroups(r.Context(), sess.Token); h.fetchFailed(w, r, err) {
			return
		}
		data["Stats"] = h.admin.Stats(r.Context())

	case TabAdminUsers:
		result, err := h.admin.FetchUsers(r.Context(), sess.Token)
		if h.fetchFailed(w, r, err) {
			return
		}
		data["Users"] = userViews(result.Items, state)
		data["Stale"] = result.Stale

	case TabAdminGrps:
		result, err := h.admin.FetchGroups(r.Context(), sess.Token)
		if h.fetchFailed(w, r, err) {
			return
		}
		data["Groups"] = groupViews(result.Items, state)
		data["Stale"] = result.Stale
	}

	h.render(w, r, "admin.html", data)
}

// UserView is the presentation form of one admin user row.
type UserView struct {
	ID        string
	Username  string
	Email     string
	Groups    string
	CreatedAt string
}

func userViews(items []model.User, state *ViewState) []UserView {
	views := make([]UserView, 0, len(items))
	for _, u := range items {
		if !matchesSearch(state.Search, u.Username, u.Email) {
			continue
		}
		views = append(views, UserView{
			ID:        u.ID,
			Username:  u.Username,
			Email:     u.Email,
			Groups:    strings.Join(u.Groups, ", "),
			CreatedAt: u.CreatedAt,
		})
	}
	return views
}

// CreateGroup creates a group with an optional comma-separated initial
// member list and surfaces the backend's confirmation message.
func (h *Handler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	sess, _ := h.sessions.Current(r)

	var members []string
	for _, name := range strings.Split(r.FormValue("usernames"), ",") {
		if name = strings.TrimSpace(name); name != "" {
			members = append(members, name)
		}
	}

	msg, _, err := h.admin.CreateGroup(r.Context(), sess.Token, r.FormValue("group_name"), members)
	if err != nil {
		h.failVault(w, r, err, "/admin")
		return
	}
	h.sessions.Notify(w, r, model.NoticeSuccess, msg)
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// AddGroupMember adds one user to an existing group.
func (h *Handler) AddGroupMember(w http.ResponseWriter, r *http.Request) {
	sess, _ := h.sessions.Current(r)

	msg, _, err := h.admin.AddGroupMember(r.Context(), sess.Token,
		r.FormValue("username"), r.FormValue("group_name"))
	if err != nil {
		h.failVault(w, r, err, "/admin")
		return
	}
	h.sessions.Notify(w, r, model.NoticeSuccess, msg)
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// RequestDeleteUser stages the deletion of one user behind a confirmation
// step. The user's vault items go with them; the message says so.
func (h *Handler) RequestDeleteUser(w http.ResponseWriter, r *http.Request) {
	state := h.sessions.State(r)
	username := r.FormValue("username")
	state.RequestConfirm(PendingConfirm{
		Title:   "Delete user",
		Message: "Delete the user \"" + username + "\" and all of their vault items? This cannot be undone.",
		Action:  actionDeleteUser,
		Args:    map[string]string{"id": r.FormValue("id")},
	})
	h.saveStateAndGo(w, r, state, "/admin/confirm")
}

// RequestDeleteGroup stages the deletion of one group. Members keep their
// own items; only the shared ones go.
func (h *Handler) RequestDeleteGroup(w http.ResponseWriter, r *http.Request) {
	state := h.sessions.State(r)
	name := r.FormValue("group_name")
	state.RequestConfirm(PendingConfirm{
		Title:   "Delete group",
		Message: "Delete the group \"" + name + "\" and its shared items? Members keep their own accounts and keys.",
		Action:  actionDeleteGroup,
		Args:    map[string]string{"group_name": name},
	})
	h.saveStateAndGo(w, r, state, "/admin/confirm")
}
