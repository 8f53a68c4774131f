package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/originlabs/ipminter/internal/guard"
	"github.com/originlabs/ipminter/internal/session"
)

func (h *Handler) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	id := uuid.NewString()
	sess := session.New(id, guard.New(h.opts.Providers, h.opts.GuardDelay), h.opts.Handles)
	h.sessionStore.Set(id, sess)

	slog.Info("Session created", "session_id", id)
	h.writeJSONStatus(w, http.StatusCreated, sess.View())
}

func (h *Handler) HandleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions := h.sessionStore.List()
	views := make([]session.View, 0, len(sessions))
	for _, sess := range sessions {
		views = append(views, sess.View())
	}
	h.writeJSON(w, views)
}

func (h *Handler) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.getSessionOrError(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, sess.View())
}

func (h *Handler) HandleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if !h.sessionStore.Delete(r.PathValue("id")) {
		h.writeError(w, "Session not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type walletRequest struct {
	Address string `json:"address"`
}

// HandleSetWallet records the connected wallet; an empty address disconnects
func (h *Handler) HandleSetWallet(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.getSessionOrError(w, r)
	if !ok {
		return
	}

	var req walletRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	address := strings.TrimSpace(req.Address)
	if address != "" && !common.IsHexAddress(address) {
		h.writeError(w, "Invalid wallet address", http.StatusBadRequest)
		return
	}

	sess.SetWallet(address)
	h.writeJSON(w, sess.View())
}

type identityRequest struct {
	Address string `json:"address"`
	Token   string `json:"token"`
}

// HandleSetIdentity authenticates the session with Origin; an empty address logs out
func (h *Handler) HandleSetIdentity(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.getSessionOrError(w, r)
	if !ok {
		return
	}

	var req identityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	address := strings.TrimSpace(req.Address)
	if address == "" {
		sess.Logout()
		h.writeJSON(w, sess.View())
		return
	}
	if !common.IsHexAddress(address) {
		h.writeError(w, "Invalid identity address", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Token) == "" {
		h.writeError(w, "Missing authentication token", http.StatusBadRequest)
		return
	}

	sess.Authenticate(address, req.Token)
	h.writeJSON(w, sess.View())
}
