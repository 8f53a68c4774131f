package handlers

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/originlabs/ipminter/internal/models"
)

// maxUploadBytes caps request bodies; the mint step enforces the real limit
const maxUploadBytes = 64 << 20

// HandleConnect moves past the wallet step once a wallet and identity are present
func (h *Handler) HandleConnect(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.getSessionOrError(w, r)
	if !ok {
		return
	}

	if sess.WalletAddress() == "" || !sess.Authenticated() {
		h.writeNotice(w, http.StatusPreconditionFailed, "Please connect your wallet and authenticate first.", "")
		return
	}
	if err := sess.Wizard.WalletConnected(); err != nil {
		h.writeErrorNotice(w, err)
		return
	}
	sess.SetNotice(nil)
	h.writeJSON(w, sess.View())
}

// HandleUploadFile selects the file to mint
func (h *Handler) HandleUploadFile(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.getSessionOrError(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes+1<<20)
	file, header, err := r.FormFile("file")
	if err != nil {
		h.writeError(w, "Failed to read file: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		h.writeError(w, "Failed to read file contents: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if len(data) > maxUploadBytes {
		h.writeError(w, fmt.Sprintf("File too large (max %dMB)", maxUploadBytes>>20), http.StatusRequestEntityTooLarge)
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}

	selected := &models.File{
		Name: filepath.Base(header.Filename),
		Type: contentType,
		Size: int64(len(data)),
		Data: data,
	}
	if err := sess.Wizard.SelectFile(selected); err != nil {
		h.writeErrorNotice(w, err)
		return
	}
	h.writeJSON(w, sess.View())
}

// HandleGetFile serves the selected file for preview
func (h *Handler) HandleGetFile(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.getSessionOrError(w, r)
	if !ok {
		return
	}

	file := sess.Wizard.Snapshot().File
	if file == nil {
		h.writeError(w, "No file selected", http.StatusNotFound)
		return
	}

	contentType := file.Type
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", strings.ReplaceAll(file.Name, `"`, "")))
	w.Header().Set("X-Content-Type-Options", "nosniff")
	_, _ = w.Write(file.Data)
}

// HandleBack returns to the previous step
func (h *Handler) HandleBack(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.getSessionOrError(w, r)
	if !ok {
		return
	}
	if err := sess.Wizard.Back(); err != nil {
		h.writeErrorNotice(w, err)
		return
	}
	h.writeJSON(w, sess.View())
}

// HandleHome returns from the success step to the start, clearing the file and result
func (h *Handler) HandleHome(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.getSessionOrError(w, r)
	if !ok {
		return
	}
	if err := sess.Wizard.BackToHome(); err != nil {
		h.writeErrorNotice(w, err)
		return
	}
	sess.SetNotice(nil)
	h.writeJSON(w, sess.View())
}
