package web

import (
	"errors"
	"net/http"

	"github.com/dchest/captcha"

	"github.com/frozpass/vaultpanel/internal/domain/model"
	"github.com/frozpass/vaultpanel/internal/domain/port/driven"
)

// failLogin reports a failed sign-in. A 401 here means wrong credentials,
// not an expired session, so it gets its own message instead of the
// teardown path.
func (h *Handler) failLogin(w http.ResponseWriter, r *http.Request, err error, backTo string) {
	if errors.Is(err, driven.ErrUnauthorized) {
		h.sessions.Notify(w, r, model.NoticeError, "Wrong username or password")
		http.Redirect(w, r, backTo, http.StatusSeeOther)
		return
	}
	h.failVault(w, r, err, backTo)
}

// LoginPage renders the sign-in form.
func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if sess, ok := h.sessions.Current(r); ok {
		target := "/app"
		if sess.IsAdmin() {
			target = "/admin"
		}
		http.Redirect(w, r, target, http.StatusSeeOther)
		return
	}
	h.render(w, r, "login.html", nil)
}

// LoginSubmit authenticates against the backend and establishes the session.
func (h *Handler) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	sess, err := h.vault.Login(r.Context(), r.FormValue("username"), r.FormValue("password"))
	if err != nil {
		h.failLogin(w, r, err, "/login")
		return
	}

	if err := h.sessions.Set(w, r, sess); err != nil {
		h.logger.Error("session save failed", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/app", http.StatusSeeOther)
}

// RegisterPage renders the registration form with a fresh captcha.
func (h *Handler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "register.html", map[string]any{
		"CaptchaID": captcha.New(),
	})
}

// RegisterSubmit verifies the captcha, registers the user, and sends them
// to the login form on success.
func (h *Handler) RegisterSubmit(w http.ResponseWriter, r *http.Request) {
	if !captcha.VerifyString(r.FormValue("captcha_id"), r.FormValue("captcha_solution")) {
		h.sessions.Notify(w, r, model.NoticeError, "The captcha answer was wrong, please try again")
		http.Redirect(w, r, "/register", http.StatusSeeOther)
		return
	}

	err := h.vault.Register(r.Context(),
		r.FormValue("username"),
		r.FormValue("password"),
		r.FormValue("confirm_password"),
	)
	if err != nil {
		h.failVault(w, r, err, "/register")
		return
	}

	h.sessions.Notify(w, r, model.NoticeSuccess, "Account created, you can sign in now")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// AdminLoginPage renders the administrator sign-in form.
func (h *Handler) AdminLoginPage(w http.ResponseWriter, r *http.Request) {
	if sess, ok := h.sessions.Current(r); ok && sess.IsAdmin() {
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}
	h.render(w, r, "admin_login.html", nil)
}

// AdminLoginSubmit authenticates an administrator.
func (h *Handler) AdminLoginSubmit(w http.ResponseWriter, r *http.Request) {
	sess, err := h.admin.Login(r.Context(), r.FormValue("username"), r.FormValue("password"))
	if err != nil {
		h.failLogin(w, r, err, "/admin/login")
		return
	}

	if err := h.sessions.Set(w, r, sess); err != nil {
		h.logger.Error("session save failed", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// Logout ends the session explicitly.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if sess, ok := h.sessions.Current(r); ok && sess.Username != "" {
		if err := h.snapshots.DeleteOwner(r.Context(), sess.Username); err != nil {
			h.logger.Error("snapshot purge failed", "owner", sess.Username, "error", err)
		}
	}
	h.sessions.Clear(w, r)
	h.sessions.Notify(w, r, model.NoticeSuccess, "Signed out")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
