// Package web is the HTML driving adapter: server-rendered pages over the
// application services, with session, view state, and notification handling.
package web

import (
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/gorilla/csrf"

	"github.com/frozpass/vaultpanel/internal/application"
	"github.com/frozpass/vaultpanel/internal/domain/model"
	"github.com/frozpass/vaultpanel/internal/domain/port/driven"
)

// Handler serves the HTML GUI. It owns no vault data; every page render
// pulls from the application services, which in turn consult the backend
// or the snapshot store.
type Handler struct {
	vault     *application.VaultService
	admin     *application.AdminService
	sessions  *SessionStore
	snapshots driven.SnapshotStore
	logger    *slog.Logger
	templates *template.Template
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(
	vault *application.VaultService,
	admin *application.AdminService,
	sessions *SessionStore,
	snapshots driven.SnapshotStore,
	logger *slog.Logger,
) (*Handler, error) {
	funcMap := template.FuncMap{
		"markdown": func(src string) template.HTML {
			return template.HTML(RenderMarkdown(src))
		},
	}

	tmpl, err := template.New("").Funcs(funcMap).ParseFS(TemplateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	return &Handler{
		vault:     vault,
		admin:     admin,
		sessions:  sessions,
		snapshots: snapshots,
		logger:    logger,
		templates: tmpl,
	}, nil
}

// render executes a page template inside the layout. data must be a map;
// the notices, CSRF field, and view state are merged in here so every page
// gets them without each handler repeating the plumbing.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, name string, data map[string]any) {
	if data == nil {
		data = map[string]any{}
	}
	if _, ok := data["Notices"]; !ok {
		data["Notices"] = h.sessions.Notices(w, r)
	}
	data["CSRFField"] = csrf.TemplateField(r)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		h.logger.Error("template render failed", "template", name, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

// failVault translates an application error into the user-visible outcome:
// a 401 tears the session down and bounces to login, a validation error or
// backend error becomes exactly one error notice on the page the user is
// already on.
func (h *Handler) failVault(w http.ResponseWriter, r *http.Request, err error, backTo string) {
	if errors.Is(err, driven.ErrUnauthorized) {
		h.expireSession(w, r)
		return
	}

	var verr *application.ValidationError
	if errors.As(err, &verr) {
		h.sessions.Notify(w, r, model.NoticeError, "Please fill in the "+verr.Field+" field")
		http.Redirect(w, r, backTo, http.StatusSeeOther)
		return
	}

	var apiErr *driven.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		h.sessions.Notify(w, r, model.NoticeError, apiErr.Message)
	} else {
		h.sessions.Notify(w, r, model.NoticeError, "The vault server could not be reached")
	}
	http.Redirect(w, r, backTo, http.StatusSeeOther)
}

// expireSession is the single teardown path for logout, expiry, and 401s.
// Cached snapshots for the session's owner are dropped along with the
// cookie so secrets do not outlive the login that fetched them.
func (h *Handler) expireSession(w http.ResponseWriter, r *http.Request) {
	if sess, ok := h.sessions.Current(r); ok && sess.Username != "" {
		if err := h.snapshots.DeleteOwner(r.Context(), sess.Username); err != nil {
			h.logger.Error("snapshot purge failed", "owner", sess.Username, "error", err)
		}
	}
	h.sessions.Clear(w, r)
	h.sessions.Notify(w, r, model.NoticeInfo, "Your session has ended, please sign in again")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// staleNotice adds the single warning shown when a refresh failed and the
// page is rendering last-known data instead.
func (h *Handler) staleNotice(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *driven.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		h.sessions.Notify(w, r, model.NoticeError, apiErr.Message)
		return
	}
	h.sessions.Notify(w, r, model.NoticeError, "Could not refresh from the vault server, showing last-known data")
}

// Home routes the bare domain to the right place for the session at hand.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.sessions.Current(r)
	switch {
	case !ok:
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	case sess.IsAdmin():
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
	default:
		http.Redirect(w, r, "/app", http.StatusSeeOther)
	}
}

// Health reports liveness for the container healthcheck probe.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
