package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/originlabs/ipminter/internal/gallery"
	"github.com/originlabs/ipminter/internal/guard"
	"github.com/originlabs/ipminter/internal/ipfs"
	"github.com/originlabs/ipminter/internal/minting"
	"github.com/originlabs/ipminter/internal/models"
	"github.com/originlabs/ipminter/internal/session"
	"github.com/originlabs/ipminter/internal/storage"
	"github.com/originlabs/ipminter/internal/validate"
	"github.com/originlabs/ipminter/internal/wizard"
)

// Options wires the handler to its collaborators
type Options struct {
	Minting     *minting.Service
	Providers   guard.Factory
	GuardDelay  time.Duration
	Handles     session.HandleSource
	Gallery     *gallery.Client
	ExplorerURL string
}

type Handler struct {
	sessionStore *storage.SessionStore
	opts         Options

	// background mint calls, so shutdown can wait for them
	inflight sync.WaitGroup
}

func New(opts Options) *Handler {
	if opts.GuardDelay <= 0 {
		opts.GuardDelay = guard.DefaultDelay
	}
	return &Handler{
		sessionStore: storage.New(),
		opts:         opts,
	}
}

// Routes registers the API on mux
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/sessions", h.HandleCreateSession)
	mux.HandleFunc("GET /api/sessions", h.HandleListSessions)
	mux.HandleFunc("GET /api/sessions/{id}", h.HandleGetSession)
	mux.HandleFunc("DELETE /api/sessions/{id}", h.HandleDeleteSession)
	mux.HandleFunc("PUT /api/sessions/{id}/wallet", h.HandleSetWallet)
	mux.HandleFunc("PUT /api/sessions/{id}/identity", h.HandleSetIdentity)
	mux.HandleFunc("POST /api/sessions/{id}/connect", h.HandleConnect)
	mux.HandleFunc("POST /api/sessions/{id}/file", h.HandleUploadFile)
	mux.HandleFunc("GET /api/sessions/{id}/file", h.HandleGetFile)
	mux.HandleFunc("POST /api/sessions/{id}/back", h.HandleBack)
	mux.HandleFunc("POST /api/sessions/{id}/mint", h.HandleMint)
	mux.HandleFunc("POST /api/sessions/{id}/home", h.HandleHome)
	mux.HandleFunc("GET /api/sessions/{id}/receipt", h.HandleReceipt)
	mux.HandleFunc("GET /api/gallery", h.HandleGallery)
}

// Wait blocks until background mint calls have finished
func (h *Handler) Wait() {
	h.inflight.Wait()
}

// Close waits for background mints and tears down every session
func (h *Handler) Close() {
	h.Wait()
	h.sessionStore.CloseAll()
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	h.writeJSONStatus(w, http.StatusOK, data)
}

func (h *Handler) writeJSONStatus(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	slog.Error(message)
	http.Error(w, message, code)
}

// writeNotice reports a user-facing failure
func (h *Handler) writeNotice(w http.ResponseWriter, code int, title, description string) {
	slog.Warn("Request failed", "status", code, "title", title, "description", description)
	h.writeJSONStatus(w, code, models.Notice{Level: "error", Title: title, Description: description})
}

// writeErrorNotice maps domain errors to a status and notice
func (h *Handler) writeErrorNotice(w http.ResponseWriter, err error) {
	var (
		validationErr   *validate.ValidationError
		preconditionErr *minting.PreconditionError
		configErr       *ipfs.ConfigError
		uploadErr       *ipfs.UploadError
		mintErr         *minting.MintError
	)

	switch {
	case errors.As(err, &validationErr):
		h.writeNotice(w, http.StatusUnprocessableEntity, validationErr.Title(), validationErr.Description())
	case errors.As(err, &preconditionErr):
		h.writeNotice(w, http.StatusPreconditionFailed, preconditionErr.Reason, "")
	case errors.As(err, &configErr):
		h.writeNotice(w, http.StatusInternalServerError, "Configuration error", configErr.Error())
	case errors.As(err, &uploadErr):
		h.writeNotice(w, http.StatusBadGateway, "Failed to upload file to IPFS", uploadErr.Error())
	case errors.As(err, &mintErr):
		h.writeNotice(w, http.StatusBadGateway, mintErr.Title, mintErr.Description)
	case errors.Is(err, wizard.ErrInvalidTransition):
		h.writeNotice(w, http.StatusConflict, "Action not available at this step", err.Error())
	default:
		h.writeNotice(w, http.StatusInternalServerError, "Something went wrong", err.Error())
	}
}

// Session helpers
func (h *Handler) getSessionOrError(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, exists := h.sessionStore.Get(r.PathValue("id"))
	if !exists {
		h.writeError(w, "Session not found", http.StatusNotFound)
		return nil, false
	}
	return sess, true
}
