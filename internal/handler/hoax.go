package handler

import (
	"net/http"

	"github.com/templui/hoaxify/internal/ctxkeys"
	"github.com/templui/hoaxify/internal/service"
)

type hoaxRequest struct {
	Content        string `json:"content"`
	FileAttachment *int64 `json:"fileAttachment"`
}

type HoaxHandler struct {
	hoaxService *service.HoaxService
	responder   *Responder
}

func NewHoaxHandler(hoaxService *service.HoaxService, responder *Responder) *HoaxHandler {
	return &HoaxHandler{
		hoaxService: hoaxService,
		responder:   responder,
	}
}

func (h *HoaxHandler) Create(w http.ResponseWriter, r *http.Request) {
	authUser := ctxkeys.User(r.Context())
	if authUser == nil {
		h.responder.Error(w, r, service.AuthenticationError(service.MsgUnauthorizedHoaxSubmit))
		return
	}

	var req hoaxRequest
	if err := decodeJSON(w, r, &req, maxJSONBody); err != nil {
		h.responder.Fail(w, r, http.StatusBadRequest, msgMalformedRequest)
		return
	}

	_, err := h.hoaxService.Create(r.Context(), authUser, req.Content, req.FileAttachment)
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}

	h.responder.Message(w, r, "hoax_submit_success")
}

func (h *HoaxHandler) List(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, nil)
}

func (h *HoaxHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID := pathID(r, "userId")
	h.list(w, r, &userID)
}

func (h *HoaxHandler) list(w http.ResponseWriter, r *http.Request, ownerID *int64) {
	page, size := pagination(r)

	hoaxes, err := h.hoaxService.List(r.Context(), page, size, ownerID)
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}

	h.responder.JSON(w, http.StatusOK, hoaxes)
}
