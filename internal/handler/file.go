package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/templui/hoaxify/internal/service"
)

// multipart framing allowance on top of the file itself
const uploadOverhead = 1 << 20

type attachmentResponse struct {
	ID       int64  `json:"id"`
	Filename string `json:"filename"`
	FileType string `json:"fileType"`
}

type FileHandler struct {
	fileService *service.FileService
	responder   *Responder
}

func NewFileHandler(fileService *service.FileService, responder *Responder) *FileHandler {
	return &FileHandler{
		fileService: fileService,
		responder:   responder,
	}
}

// UploadAttachment stores the multipart "file" part as an unassociated attachment.
func (h *FileHandler) UploadAttachment(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, service.MaxAttachmentSize+uploadOverhead)

	file, _, err := r.FormFile("file")
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.responder.Error(w, r, service.FileSizeError())
			return
		}
		h.responder.Fail(w, r, http.StatusBadRequest, msgMalformedRequest)
		return
	}
	defer func() {
		closeErr := file.Close()
		if closeErr != nil {
			slog.Error("failed to close file", "error", closeErr)
		}
	}()

	attachment, err := h.fileService.SaveAttachment(r.Context(), file)
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}

	h.responder.JSON(w, http.StatusOK, attachmentResponse{
		ID:       attachment.ID,
		Filename: attachment.Filename,
		FileType: attachment.FileType,
	})
}
