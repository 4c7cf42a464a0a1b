package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/frozpass/vaultpanel/internal/domain/model"
	"github.com/frozpass/vaultpanel/internal/domain/port/driven"
)

// Dashboard renders the active tab of the user dashboard. Every render
// re-fetches all three top-level lists, so the profile tiles and the tab
// tables always reflect the same refresh; a failed fetch shows the
// last-known snapshot with one warning notice per list.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	sess, _ := h.sessions.Current(r)
	state := h.sessions.State(r)

	data := map[string]any{
		"Username":         sess.Username,
		"ActiveTab":        state.ActiveTab,
		"Search":           state.Search,
		"SidebarCollapsed": state.SidebarCollapsed,
		"CurrentGroup":     state.CurrentGroup,
	}

	accounts, err := h.vault.FetchAccounts(r.Context(), sess.Token, sess.Username)
	if h.fetchFailed(w, r, err) {
		return
	}
	keys, err := h.vault.FetchAPIKeys(r.Context(), sess.Token, sess.Username)
	if h.fetchFailed(w, r, err) {
		return
	}
	groups, err := h.vault.FetchGroups(r.Context(), sess.Token, sess.Username)
	if h.fetchFailed(w, r, err) {
		return
	}

	switch state.ActiveTab {
	case TabAccounts:
		data["Accounts"] = accountViews(accounts.Items, state)
		data["Stale"] = accounts.Stale

	case TabAPIKeys:
		data["APIKeys"] = apiKeyViews(keys.Items, state)
		data["Stale"] = keys.Stale

	case TabGroups:
		if state.CurrentGroup != "" {
			h.renderGroupDetail(w, r, sess, state, data)
			return
		}
		data["Groups"] = groupViews(groups.Items, state)
		data["Stale"] = groups.Stale

	case TabProfile:
		data["Counts"] = h.vault.Counts(r.Context(), sess.Username)
	}

	h.render(w, r, "dashboard.html", data)
}

// renderGroupDetail renders the drill-in view of one group: its shared
// accounts and API keys side by side.
func (h *Handler) renderGroupDetail(w http.ResponseWriter, r *http.Request, sess model.Session, state *ViewState, data map[string]any) {
	accounts, err := h.vault.FetchGroupAccounts(r.Context(), sess.Token, state.CurrentGroup)
	if h.fetchFailed(w, r, err) {
		return
	}
	keys, err := h.vault.FetchGroupAPIKeys(r.Context(), sess.Token, state.CurrentGroup)
	if h.fetchFailed(w, r, err) {
		return
	}

	data["GroupAccounts"] = groupAccountViews(accounts.Items, state)
	data["GroupAPIKeys"] = groupAPIKeyViews(keys.Items, state)
	data["Stale"] = accounts.Stale || keys.Stale
	h.render(w, r, "dashboard.html", data)
}

// fetchFailed handles the outcome of a list refresh. A 401 ends the
// session and reports true (the caller stops); any other failure queues
// one notice and reports false so the page renders the stale fallback.
func (h *Handler) fetchFailed(w http.ResponseWriter, r *http.Request, err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driven.ErrUnauthorized) {
		h.expireSession(w, r)
		return true
	}
	h.staleNotice(w, r, err)
	return false
}

// SwitchTab activates a dashboard tab and clears the search query.
func (h *Handler) SwitchTab(w http.ResponseWriter, r *http.Request) {
	sess, _ := h.sessions.Current(r)
	state := h.sessions.State(r)
	state.SwitchTab(sess.Kind, r.FormValue("tab"))
	h.saveStateAndGo(w, r, state, h.backTo(sess))
}

// Search stores the tab's search query. Filtering happens at render time
// against whatever list the tab holds.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	sess, _ := h.sessions.Current(r)
	state := h.sessions.State(r)
	state.Search = strings.TrimSpace(r.FormValue("q"))
	h.saveStateAndGo(w, r, state, h.backTo(sess))
}

// ToggleSidebar flips the sidebar collapse flag.
func (h *Handler) ToggleSidebar(w http.ResponseWriter, r *http.Request) {
	sess, _ := h.sessions.Current(r)
	state := h.sessions.State(r)
	state.SidebarCollapsed = !state.SidebarCollapsed
	h.saveStateAndGo(w, r, state, h.backTo(sess))
}

// ToggleReveal flips one secret between masked and clear text.
func (h *Handler) ToggleReveal(w http.ResponseWriter, r *http.Request) {
	sess, _ := h.sessions.Current(r)
	state := h.sessions.State(r)
	if key := r.FormValue("key"); key != "" {
		state.ToggleReveal(key)
	}
	h.saveStateAndGo(w, r, state, h.backTo(sess))
}

// EnterGroup drills into a group's shared items.
func (h *Handler) EnterGroup(w http.ResponseWriter, r *http.Request) {
	state := h.sessions.State(r)
	if name := r.FormValue("group"); name != "" {
		state.EnterGroup(name)
	}
	h.saveStateAndGo(w, r, state, "/app")
}

// LeaveGroup returns from a group drill-in to the group list.
func (h *Handler) LeaveGroup(w http.ResponseWriter, r *http.Request) {
	state := h.sessions.State(r)
	state.LeaveGroup()
	h.saveStateAndGo(w, r, state, "/app")
}

// AddAccount creates an account from the form and re-renders with the
// re-fetched list.
func (h *Handler) AddAccount(w http.ResponseWriter, r *http.Request) {
	sess, _ := h.sessions.Current(r)
	_, err := h.vault.AddAccount(r.Context(), sess.Token, model.NewAccount{
		Username:        sess.Username,
		Title:           r.FormValue("title"),
		UserAccount:     r.FormValue("user_account"),
		PasswordAccount: r.FormValue("password_account"),
		URL:             r.FormValue("url"),
	})
	if err != nil {
		h.failVault(w, r, err, "/app")
		return
	}
	h.sessions.Notify(w, r, model.NoticeSuccess, "Account saved")
	http.Redirect(w, r, "/app", http.StatusSeeOther)
}

// AddAPIKey creates an API key from the form.
func (h *Handler) AddAPIKey(w http.ResponseWriter, r *http.Request) {
	sess, _ := h.sessions.Current(r)
	_, err := h.vault.AddAPIKey(r.Context(), sess.Token, model.NewAPIKey{
		Username: sess.Username,
		Title:    r.FormValue("title"),
		Key:      r.FormValue("api_key"),
	})
	if err != nil {
		h.failVault(w, r, err, "/app")
		return
	}
	h.sessions.Notify(w, r, model.NoticeSuccess, "API key saved")
	http.Redirect(w, r, "/app", http.StatusSeeOther)
}

// AddGroupAccount creates a shared account in the current group.
func (h *Handler) AddGroupAccount(w http.ResponseWriter, r *http.Request) {
	sess, _ := h.sessions.Current(r)
	state := h.sessions.State(r)
	_, err := h.vault.AddGroupAccount(r.Context(), sess.Token, model.NewGroupAccount{
		GroupName:       state.CurrentGroup,
		Title:           r.FormValue("title"),
		UserAccount:     r.FormValue("user_account"),
		PasswordAccount: r.FormValue("password_account"),
		URL:             r.FormValue("url"),
	})
	if err != nil {
		h.failVault(w, r, err, "/app")
		return
	}
	h.sessions.Notify(w, r, model.NoticeSuccess, "Shared account saved")
	http.Redirect(w, r, "/app", http.StatusSeeOther)
}

// AddGroupAPIKey creates a shared API key in the current group.
func (h *Handler) AddGroupAPIKey(w http.ResponseWriter, r *http.Request) {
	sess, _ := h.sessions.Current(r)
	state := h.sessions.State(r)
	_, err := h.vault.AddGroupAPIKey(r.Context(), sess.Token, model.NewGroupAPIKey{
		GroupName: state.CurrentGroup,
		Title:     r.FormValue("title"),
		Key:       r.FormValue("api_key"),
	})
	if err != nil {
		h.failVault(w, r, err, "/app")
		return
	}
	h.sessions.Notify(w, r, model.NoticeSuccess, "Shared API key saved")
	http.Redirect(w, r, "/app", http.StatusSeeOther)
}

// RequestDeleteAccount stages the deletion of one account behind an
// explicit confirmation step. Nothing is deleted yet.
func (h *Handler) RequestDeleteAccount(w http.ResponseWriter, r *http.Request) {
	state := h.sessions.State(r)
	title := r.FormValue("title")
	state.RequestConfirm(PendingConfirm{
		Title:   "Delete account",
		Message: "Delete the account \"" + title + "\"? This cannot be undone.",
		Action:  actionDeleteAccount,
		Args:    map[string]string{"id": r.FormValue("id")},
	})
	h.saveStateAndGo(w, r, state, "/app/confirm")
}

// RequestDeleteAPIKey stages the deletion of one API key.
func (h *Handler) RequestDeleteAPIKey(w http.ResponseWriter, r *http.Request) {
	state := h.sessions.State(r)
	title := r.FormValue("title")
	state.RequestConfirm(PendingConfirm{
		Title:   "Delete API key",
		Message: "Delete the API key \"" + title + "\"? This cannot be undone.",
		Action:  actionDeleteAPIKey,
		Args:    map[string]string{"id": r.FormValue("id")},
	})
	h.saveStateAndGo(w, r, state, "/app/confirm")
}

// saveStateAndGo persists the view state and redirects.
func (h *Handler) saveStateAndGo(w http.ResponseWriter, r *http.Request, state *ViewState, target string) {
	if err := h.sessions.SaveState(w, r, state); err != nil {
		h.logger.Error("view state save failed", "error", err)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// backTo is the dashboard a session returns to after a state change.
func (h *Handler) backTo(sess model.Session) string {
	if sess.IsAdmin() {
		return "/admin"
	}
	return "/app"
}
