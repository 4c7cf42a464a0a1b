package web

import (
	"net/http"

	"github.com/frozpass/vaultpanel/internal/domain/model"
)

// Confirmable actions. Each destructive operation routes through here;
// there is no delete without a staged confirmation.
const (
	actionDeleteAccount = "delete-account"
	actionDeleteAPIKey  = "delete-apikey"
	actionDeleteUser    = "delete-user"
	actionDeleteGroup   = "delete-group"
)

// ConfirmPage shows the staged destructive action. With nothing pending it
// bounces back to the dashboard; refreshing after a confirm re-runs
// nothing.
func (h *Handler) ConfirmPage(w http.ResponseWriter, r *http.Request) {
	sess, _ := h.sessions.Current(r)
	state := h.sessions.State(r)
	if state.Pending == nil {
		http.Redirect(w, r, h.backTo(sess), http.StatusSeeOther)
		return
	}
	confirmPath, cancelPath := "/app/confirm", "/app/cancel"
	if sess.IsAdmin() {
		confirmPath, cancelPath = "/admin/confirm", "/admin/cancel"
	}
	h.render(w, r, "confirm.html", map[string]any{
		"Title":       state.Pending.Title,
		"Message":     state.Pending.Message,
		"ConfirmPath": confirmPath,
		"CancelPath":  cancelPath,
	})
}

// ConfirmSubmit executes the pending action exactly once. Taking the
// pending entry clears it, so a re-submit finds nothing and redirects.
func (h *Handler) ConfirmSubmit(w http.ResponseWriter, r *http.Request) {
	sess, _ := h.sessions.Current(r)
	state := h.sessions.State(r)

	pending := state.TakePending()
	if err := h.sessions.SaveState(w, r, state); err != nil {
		h.logger.Error("view state save failed", "error", err)
	}
	if pending == nil {
		http.Redirect(w, r, h.backTo(sess), http.StatusSeeOther)
		return
	}

	var err error
	switch pending.Action {
	case actionDeleteAccount:
		id := pending.Args["id"]
		_, err = h.vault.DeleteAccount(r.Context(), sess.Token, sess.Username, id)
		if err == nil {
			state.ForgetReveal(accountKey(id))
			_ = h.sessions.SaveState(w, r, state)
		}
	case actionDeleteAPIKey:
		id := pending.Args["id"]
		_, err = h.vault.DeleteAPIKey(r.Context(), sess.Token, sess.Username, id)
		if err == nil {
			state.ForgetReveal(apiKeyKey(id))
			_ = h.sessions.SaveState(w, r, state)
		}
	case actionDeleteUser:
		if !sess.IsAdmin() {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		_, err = h.admin.DeleteUser(r.Context(), sess.Token, pending.Args["id"])
	case actionDeleteGroup:
		if !sess.IsAdmin() {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		_, err = h.admin.DeleteGroup(r.Context(), sess.Token, pending.Args["group_name"])
	default:
		h.logger.Error("unknown pending action", "action", pending.Action)
		http.Redirect(w, r, h.backTo(sess), http.StatusSeeOther)
		return
	}

	if err != nil {
		h.failVault(w, r, err, h.backTo(sess))
		return
	}
	h.sessions.Notify(w, r, model.NoticeSuccess, "Deleted")
	http.Redirect(w, r, h.backTo(sess), http.StatusSeeOther)
}

// ConfirmCancel discards the pending action without executing it.
func (h *Handler) ConfirmCancel(w http.ResponseWriter, r *http.Request) {
	sess, _ := h.sessions.Current(r)
	state := h.sessions.State(r)
	state.CancelPending()
	h.saveStateAndGo(w, r, state, h.backTo(sess))
}
