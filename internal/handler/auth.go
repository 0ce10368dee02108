package handler

import (
	"net/http"

	"github.com/templui/hoaxify/internal/ctxkeys"
	"github.com/templui/hoaxify/internal/service"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthHandler struct {
	authService *service.AuthService
	responder   *Responder
}

func NewAuthHandler(authService *service.AuthService, responder *Responder) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		responder:   responder,
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := decodeJSON(w, r, &req, maxJSONBody); err != nil {
		h.responder.Error(w, r, service.AuthenticationError(service.MsgAuthenticationFailure))
		return
	}

	session, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}

	h.responder.JSON(w, http.StatusOK, session)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	err := h.authService.Logout(r.Context(), ctxkeys.Token(r.Context()))
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}

	h.responder.Message(w, r, "logout_success")
}
