package handlers

import (
	"net/http"

	"finance/src/utils"
)

func (h *Handler) GetLogin(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "login", nil)
}

// PostLogin forgets any current session before checking the credentials.
func (h *Handler) PostLogin(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	if err := h.Sessions.End(ctx, w, r); err != nil {
		utils.LoggerFromContext(ctx).WithError(err).Warn("failed to clear previous session")
	}

	account, err := h.AuthService.Login(ctx, r.PostFormValue("username"), r.PostFormValue("password"))
	if err != nil {
		h.HandleErrors(w, r, err)
		return
	}
	if err := h.Sessions.Start(ctx, w, account.ID); err != nil {
		h.HandleErrors(w, r, err)
		return
	}
	redirectHome(w, r)
}

func (h *Handler) GetRegister(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "register", nil)
}

// PostRegister creates the account and logs it in.
func (h *Handler) PostRegister(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	if err := h.Sessions.End(ctx, w, r); err != nil {
		utils.LoggerFromContext(ctx).WithError(err).Warn("failed to clear previous session")
	}

	account, err := h.AuthService.Register(ctx,
		r.PostFormValue("username"),
		r.PostFormValue("password"),
		r.PostFormValue("confirmation"),
	)
	if err != nil {
		h.HandleErrors(w, r, err)
		return
	}
	if err := h.Sessions.Start(ctx, w, account.ID); err != nil {
		h.HandleErrors(w, r, err)
		return
	}
	redirectHome(w, r)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	if err := h.Sessions.End(ctx, w, r); err != nil {
		utils.LoggerFromContext(ctx).WithError(err).Warn("failed to delete session")
	}
	redirectHome(w, r)
}
