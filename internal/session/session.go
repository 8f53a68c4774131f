package session

import (
	"strings"
	"sync"
	"time"

	"github.com/originlabs/ipminter/internal/guard"
	"github.com/originlabs/ipminter/internal/ipfs"
	"github.com/originlabs/ipminter/internal/minting"
	"github.com/originlabs/ipminter/internal/mintresult"
	"github.com/originlabs/ipminter/internal/models"
	"github.com/originlabs/ipminter/internal/wizard"
)

// HandleSource turns an authentication token into a minting SDK handle
type HandleSource func(token string) minting.Minter

// Identity is the authenticated Origin identity
type Identity struct {
	Address string `json:"address"`
	token   string
}

// MintRecord is the last successful mint of a session
type MintRecord struct {
	Outcome  mintresult.Outcome    `json:"outcome"`
	Metadata models.UploadMetadata `json:"metadata"`
	Pin      *ipfs.Pin             `json:"pin,omitempty"`
	MintedAt time.Time             `json:"minted_at"`
}

// Session is one user's run through the minting wizard
type Session struct {
	ID        string
	CreatedAt time.Time
	Wizard    *wizard.Wizard

	guard   *guard.Guard
	handles HandleSource

	mu       sync.RWMutex
	wallet   string
	identity *Identity
	notice   *models.Notice
	lastMint *MintRecord
}

// View is the JSON representation of a session
type View struct {
	ID            string              `json:"id"`
	CreatedAt     time.Time           `json:"created_at"`
	Step          string              `json:"step"`
	StepIndex     int                 `json:"step_index"`
	WalletAddress string              `json:"wallet_address,omitempty"`
	Identity      *Identity           `json:"identity,omitempty"`
	ProviderReady bool                `json:"provider_ready"`
	File          *models.File        `json:"file,omitempty"`
	Result        *mintresult.Outcome `json:"result,omitempty"`
	Notice        *models.Notice      `json:"notice,omitempty"`
}

// New creates a session at the wallet-connect step
func New(id string, g *guard.Guard, handles HandleSource) *Session {
	return &Session{
		ID:        id,
		CreatedAt: time.Now(),
		Wizard:    wizard.New(),
		guard:     g,
		handles:   handles,
	}
}

// SetWallet records the connected wallet address; empty disconnects
func (s *Session) SetWallet(address string) {
	s.mu.Lock()
	s.wallet = strings.TrimSpace(address)
	s.guard.Update(s.addressesLocked())
	s.mu.Unlock()
}

// Authenticate records the Origin identity for address
func (s *Session) Authenticate(address, token string) {
	s.mu.Lock()
	s.identity = &Identity{Address: strings.TrimSpace(address), token: token}
	s.guard.Update(s.addressesLocked())
	s.mu.Unlock()
}

// Logout drops the Origin identity
func (s *Session) Logout() {
	s.mu.Lock()
	s.identity = nil
	s.guard.Update(s.addressesLocked())
	s.mu.Unlock()
}

// addressesLocked returns the wallet and identity addresses; callers hold
// s.mu so guard updates are applied in the order the addresses changed.
func (s *Session) addressesLocked() (string, string) {
	if s.identity == nil {
		return s.wallet, ""
	}
	return s.wallet, s.identity.Address
}

// WalletAddress returns the connected wallet address
func (s *Session) WalletAddress() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.wallet
}

// Authenticated reports whether an Origin identity is present
func (s *Session) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity != nil
}

// Origin returns the minting handle for the authenticated identity, or nil
func (s *Session) Origin() minting.Minter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil || s.handles == nil {
		return nil
	}
	return s.handles(s.identity.token)
}

// Provider returns the reconciled signing provider, or nil
func (s *Session) Provider() guard.Provider {
	return s.guard.Provider()
}

// SetNotice replaces the pending notification
func (s *Session) SetNotice(n *models.Notice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notice = n
}

// Notice returns the pending notification
func (s *Session) Notice() *models.Notice {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.notice
}

// RecordMint stores a successful mint
func (s *Session) RecordMint(rec *MintRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastMint = rec
}

// LastMint returns the last successful mint, or nil
func (s *Session) LastMint() *MintRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastMint
}

// View snapshots the session
func (s *Session) View() View {
	state := s.Wizard.Snapshot()

	s.mu.RLock()
	defer s.mu.RUnlock()

	v := View{
		ID:            s.ID,
		CreatedAt:     s.CreatedAt,
		Step:          state.Step.String(),
		StepIndex:     int(state.Step),
		WalletAddress: s.wallet,
		ProviderReady: s.guard.Provider() != nil,
		File:          state.File,
		Result:        state.Result,
		Notice:        s.notice,
	}
	if s.identity != nil {
		id := *s.identity
		v.Identity = &id
	}
	return v
}

// Close tears down the signing provider and any pending reconciliation
func (s *Session) Close() {
	s.guard.Close()
}
