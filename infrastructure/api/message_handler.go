package api

import (
	"chat-relay/auth"
	"chat-relay/domain/chat"
	"chat-relay/errors"
	"chat-relay/services"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/samber/lo"
)

const (
	attachmentsField = "attachments"
	contentField     = "content"
	multipartMemory  = 1 << 20
)

type UploadConfig struct {
	TmpDir         string
	MaxFileSize    int64
	MaxAttachments int
}

type MessageHandler struct {
	log        *slog.Logger
	messages   services.IMessageService
	uploads    UploadConfig
	writeError func(w http.ResponseWriter, err error)
}

func NewMessageHandler(log *slog.Logger, messages services.IMessageService, uploads UploadConfig) *MessageHandler {
	return &MessageHandler{
		log:        log,
		messages:   messages,
		uploads:    uploads,
		writeError: ErrorWriter(log),
	}
}

func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.writeError(w, errors.Unauthorized("Unauthorized request"))
		return
	}
	views, err := h.messages.List(r.Context(), chat.ListMessagesCommand{
		ChatID: chat.ChatID(chi.URLParam(r, "chatId")),
		UserID: identity.ID,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	respond(w, http.StatusOK, views, "Messages fetched successfully")
}

func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.writeError(w, errors.Unauthorized("Unauthorized request"))
		return
	}
	content, files, err := h.readMessage(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	view, err := h.messages.Send(r.Context(), chat.SendMessageCommand{
		ChatID:    chat.ChatID(chi.URLParam(r, "chatId")),
		UserID:    identity.ID,
		Content:   content,
		Files:     files,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		h.discard(files)
		h.writeError(w, err)
		return
	}
	respond(w, http.StatusCreated, view, "Message saved successfully")
}

func (h *MessageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.writeError(w, errors.Unauthorized("Unauthorized request"))
		return
	}
	message, err := h.messages.Delete(r.Context(), chat.DeleteMessageCommand{
		ChatID:    chat.ChatID(chi.URLParam(r, "chatId")),
		MessageID: chat.MessageID(chi.URLParam(r, "messageId")),
		UserID:    identity.ID,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	respond(w, http.StatusOK, message, "Message deleted successfully")
}

// readMessage accepts a multipart form (content + attachments) or a JSON body {"content": "..."}.
// Attachments are spooled into the upload directory before the handler runs.
func (h *MessageHandler) readMessage(r *http.Request) (string, []chat.UploadedFile, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		var body struct {
			Content string `json:"content"`
		}
		if r.ContentLength == 0 {
			return "", nil, nil
		}
		if err := json.NewDecoder(io.LimitReader(r.Body, multipartMemory)).Decode(&body); err != nil {
			return "", nil, errors.Validation("Invalid request body")
		}
		return body.Content, nil, nil
	}

	maxBody := int64(h.uploads.MaxAttachments)*h.uploads.MaxFileSize + multipartMemory
	r.Body = http.MaxBytesReader(nil, r.Body, maxBody)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return "", nil, errors.Validation("Invalid multipart body")
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	headers := r.MultipartForm.File[attachmentsField]
	if len(headers) > h.uploads.MaxAttachments {
		return "", nil, errors.Validation(fmt.Sprintf("At most %d attachments are allowed", h.uploads.MaxAttachments))
	}
	if tooLarge, found := lo.Find(headers, func(fh *multipart.FileHeader) bool {
		return fh.Size > h.uploads.MaxFileSize
	}); found {
		return "", nil, errors.Validation(fmt.Sprintf("Attachment %s exceeds the size limit", tooLarge.Filename))
	}

	files := make([]chat.UploadedFile, 0, len(headers))
	for _, fh := range headers {
		file, err := h.spool(fh)
		if err != nil {
			h.discard(files)
			return "", nil, errors.Upstream("Unable to receive attachments", err)
		}
		files = append(files, file)
	}
	return r.FormValue(contentField), files, nil
}

func (h *MessageHandler) spool(fh *multipart.FileHeader) (chat.UploadedFile, error) {
	src, err := fh.Open()
	if err != nil {
		return chat.UploadedFile{}, err
	}
	defer func() { _ = src.Close() }()

	dst, err := os.CreateTemp(h.uploads.TmpDir, "upload-*"+filepath.Ext(fh.Filename))
	if err != nil {
		return chat.UploadedFile{}, err
	}
	defer func() { _ = dst.Close() }()

	size, err := io.Copy(dst, src)
	if err != nil {
		_ = os.Remove(dst.Name())
		return chat.UploadedFile{}, err
	}
	return chat.UploadedFile{Name: fh.Filename, TmpPath: dst.Name(), Size: size}, nil
}

// discard removes spooled files nobody will offload.
func (h *MessageHandler) discard(files []chat.UploadedFile) {
	for _, f := range files {
		if err := os.Remove(f.TmpPath); err != nil && !os.IsNotExist(err) {
			h.log.Warn("Unable to remove spooled file", "path", f.TmpPath, "error", err)
		}
	}
}
