package web

import (
	"io/fs"
	"net/http"

	"github.com/dchest/captcha"
	"github.com/gorilla/mux"
)

// Routes builds the router with logging and recovery applied. CSRF
// protection wraps the whole router in the composition root.
func (h *Handler) Routes() http.Handler {
	r := mux.NewRouter()

	staticFS, _ := fs.Sub(StaticFS, "static")
	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.FS(staticFS)))).Methods(http.MethodGet)
	r.PathPrefix("/captcha/").Handler(captcha.Server(captcha.StdWidth, captcha.StdHeight)).Methods(http.MethodGet)

	r.HandleFunc("/", h.Home).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/health", h.Health).Methods(http.MethodGet)

	r.HandleFunc("/login", h.LoginPage).Methods(http.MethodGet)
	r.HandleFunc("/login", h.LoginSubmit).Methods(http.MethodPost)
	r.HandleFunc("/register", h.RegisterPage).Methods(http.MethodGet)
	r.HandleFunc("/register", h.RegisterSubmit).Methods(http.MethodPost)
	r.HandleFunc("/admin/login", h.AdminLoginPage).Methods(http.MethodGet)
	r.HandleFunc("/admin/login", h.AdminLoginSubmit).Methods(http.MethodPost)
	r.HandleFunc("/logout", h.requireUser(h.Logout)).Methods(http.MethodPost)

	r.HandleFunc("/app", h.requireUser(h.Dashboard)).Methods(http.MethodGet)
	r.HandleFunc("/app/tab", h.requireUser(h.SwitchTab)).Methods(http.MethodPost)
	r.HandleFunc("/app/search", h.requireUser(h.Search)).Methods(http.MethodPost)
	r.HandleFunc("/app/sidebar", h.requireUser(h.ToggleSidebar)).Methods(http.MethodPost)
	r.HandleFunc("/app/reveal", h.requireUser(h.ToggleReveal)).Methods(http.MethodPost)
	r.HandleFunc("/app/group/enter", h.requireUser(h.EnterGroup)).Methods(http.MethodPost)
	r.HandleFunc("/app/group/leave", h.requireUser(h.LeaveGroup)).Methods(http.MethodPost)

	r.HandleFunc("/app/accounts", h.requireUser(h.AddAccount)).Methods(http.MethodPost)
	r.HandleFunc("/app/apikeys", h.requireUser(h.AddAPIKey)).Methods(http.MethodPost)
	r.HandleFunc("/app/group/accounts", h.requireUser(h.AddGroupAccount)).Methods(http.MethodPost)
	r.HandleFunc("/app/group/apikeys", h.requireUser(h.AddGroupAPIKey)).Methods(http.MethodPost)
	r.HandleFunc("/app/accounts/delete", h.requireUser(h.RequestDeleteAccount)).Methods(http.MethodPost)
	r.HandleFunc("/app/apikeys/delete", h.requireUser(h.RequestDeleteAPIKey)).Methods(http.MethodPost)

	r.HandleFunc("/app/confirm", h.requireUser(h.ConfirmPage)).Methods(http.MethodGet)
	r.HandleFunc("/app/confirm", h.requireUser(h.ConfirmSubmit)).Methods(http.MethodPost)
	r.HandleFunc("/app/cancel", h.requireUser(h.ConfirmCancel)).Methods(http.MethodPost)

	r.HandleFunc("/admin", h.requireAdmin(h.AdminDashboard)).Methods(http.MethodGet)
	r.HandleFunc("/admin/groups", h.requireAdmin(h.CreateGroup)).Methods(http.MethodPost)
	r.HandleFunc("/admin/groups/members", h.requireAdmin(h.AddGroupMember)).Methods(http.MethodPost)
	r.HandleFunc("/admin/users/delete", h.requireAdmin(h.RequestDeleteUser)).Methods(http.MethodPost)
	r.HandleFunc("/admin/groups/delete", h.requireAdmin(h.RequestDeleteGroup)).Methods(http.MethodPost)
	r.HandleFunc("/admin/confirm", h.requireAdmin(h.ConfirmPage)).Methods(http.MethodGet)
	r.HandleFunc("/admin/confirm", h.requireAdmin(h.ConfirmSubmit)).Methods(http.MethodPost)
	r.HandleFunc("/admin/cancel", h.requireAdmin(h.ConfirmCancel)).Methods(http.MethodPost)

	return loggingMiddleware(h.logger, recoveryMiddleware(h.logger, r))
}
