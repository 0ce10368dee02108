package handler

import (
	"errors"
	"net/http"

	"github.com/templui/hoaxify/internal/ctxkeys"
	"github.com/templui/hoaxify/internal/service"
	"github.com/templui/hoaxify/internal/validation"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateUserRequest struct {
	Username string  `json:"username"`
	Image    *string `json:"image"`
}

type passwordResetRequest struct {
	Email string `json:"email"`
}

// passwordUpdateRequest accepts the token as resetToken or passwordResetToken.
type passwordUpdateRequest struct {
	ResetToken         string `json:"resetToken"`
	PasswordResetToken string `json:"passwordResetToken"`
	Password           string `json:"password"`
}

func (req passwordUpdateRequest) token() string {
	if req.ResetToken != "" {
		return req.ResetToken
	}
	return req.PasswordResetToken
}

type UserHandler struct {
	userService *service.UserService
	responder   *Responder
}

func NewUserHandler(userService *service.UserService, responder *Responder) *UserHandler {
	return &UserHandler{
		userService: userService,
		responder:   responder,
	}
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req, maxJSONBody); err != nil {
		h.responder.Fail(w, r, http.StatusBadRequest, msgMalformedRequest)
		return
	}

	_, err := h.userService.Register(r.Context(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	}, ctxkeys.Locale(r.Context()))
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}

	h.responder.Message(w, r, "user_create_success")
}

func (h *UserHandler) Activate(w http.ResponseWriter, r *http.Request) {
	err := h.userService.Activate(r.Context(), r.PathValue("token"))
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}

	h.responder.Message(w, r, "account_activation_success")
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	page, size := pagination(r)

	users, err := h.userService.Users(r.Context(), page, size, ctxkeys.User(r.Context()))
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}

	h.responder.JSON(w, http.StatusOK, users)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.userService.ByID(r.Context(), pathID(r, "id"))
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}

	h.responder.JSON(w, http.StatusOK, user)
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	authUser := ctxkeys.User(r.Context())
	id := pathID(r, "id")

	// Ownership goes first so strangers learn nothing from validation errors.
	if authUser == nil || authUser.ID != id {
		h.responder.Error(w, r, service.ForbiddenError(service.MsgUnauthorizedUserUpdate))
		return
	}

	var req updateUserRequest
	if err := decodeJSON(w, r, &req, maxUserUpdateBody); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.responder.Error(w, r, validation.Errors{{Field: validation.FieldImage, Key: validation.ProfileImageSize}})
			return
		}
		h.responder.Fail(w, r, http.StatusBadRequest, msgMalformedRequest)
		return
	}

	user, err := h.userService.Update(r.Context(), authUser, id, service.UpdateInput{
		Username: req.Username,
		Image:    req.Image,
	})
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}

	h.responder.JSON(w, http.StatusOK, user)
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.userService.Delete(r.Context(), ctxkeys.User(r.Context()), pathID(r, "id"))
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}

	h.responder.Message(w, r, "user_delete_success")
}

func (h *UserHandler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req passwordResetRequest
	if err := decodeJSON(w, r, &req, maxJSONBody); err != nil {
		h.responder.Fail(w, r, http.StatusBadRequest, msgMalformedRequest)
		return
	}

	if err := validation.Email(req.Email); err != nil {
		h.responder.Error(w, r, validation.Errors{{Field: validation.FieldEmail, Key: err.Error()}})
		return
	}

	err := h.userService.RequestPasswordReset(r.Context(), req.Email, ctxkeys.Locale(r.Context()))
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}

	h.responder.Message(w, r, "password_reset_request_success")
}

func (h *UserHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req passwordUpdateRequest
	if err := decodeJSON(w, r, &req, maxJSONBody); err != nil {
		h.responder.Fail(w, r, http.StatusBadRequest, msgMalformedRequest)
		return
	}

	err := h.userService.ResetPassword(r.Context(), req.token(), req.Password)
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}

	h.responder.Message(w, r, "password_update_success")
}
