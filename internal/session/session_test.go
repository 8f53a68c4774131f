package session

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"testing"
	"time"

	"github.com/originlabs/ipminter/internal/guard"
	"github.com/originlabs/ipminter/internal/license"
	"github.com/originlabs/ipminter/internal/minting"
	"github.com/originlabs/ipminter/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	address string
	closed  atomic.Bool
}

func (p *stubProvider) Address() string { return p.address }
func (p *stubProvider) Close()          { p.closed.Store(true) }

type tokenMinter struct {
	token string
}

func (m tokenMinter) MintFile(context.Context, *models.File, models.UploadMetadata, license.Terms) (json.RawMessage, error) {
	return json.RawMessage(`{}`), nil
}

func newTestSession() *Session {
	factory := guard.FactoryFunc(func(_ context.Context, address string) (guard.Provider, error) {
		return &stubProvider{address: address}, nil
	})
	handles := func(token string) minting.Minter { return tokenMinter{token: token} }
	return New("test", guard.New(factory, 10*time.Millisecond), handles)
}

func TestProviderFollowsAddresses(t *testing.T) {
	s := newTestSession()
	defer s.Close()

	s.SetWallet("0xABC")
	assert.Nil(t, s.Origin())

	s.Authenticate("0xabc", "jwt-1")
	require.Eventually(t, func() bool { return s.Provider() != nil }, time.Second, 5*time.Millisecond)

	origin := s.Origin()
	require.NotNil(t, origin)
	assert.Equal(t, "jwt-1", origin.(tokenMinter).token)

	provider := s.Provider().(*stubProvider)
	s.SetWallet("0xDEF")
	assert.Nil(t, s.Provider(), "mismatch clears the provider synchronously")
	assert.True(t, provider.closed.Load())
}

func TestLogout(t *testing.T) {
	s := newTestSession()
	defer s.Close()

	s.SetWallet("0xABC")
	s.Authenticate("0xABC", "jwt")
	require.Eventually(t, func() bool { return s.Provider() != nil }, time.Second, 5*time.Millisecond)

	s.Logout()
	assert.False(t, s.Authenticated())
	assert.Nil(t, s.Origin())
	assert.Nil(t, s.Provider())
	assert.Equal(t, "0xABC", s.WalletAddress())
}

func TestViewHidesToken(t *testing.T) {
	s := newTestSession()
	defer s.Close()

	s.SetWallet("0xABC")
	s.Authenticate("0xABC", "secret-jwt")
	s.SetNotice(&models.Notice{Level: "error", Title: "Storage error."})

	data, err := json.Marshal(s.View())
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secret-jwt")

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "wallet_connect", decoded["step"])
	assert.Equal(t, "0xABC", decoded["wallet_address"])
	assert.Equal(t, "Storage error.", decoded["notice"].(map[string]any)["title"])
}

func TestCloseStopsReconciliation(t *testing.T) {
	s := newTestSession()
	s.SetWallet("0xABC")
	s.Authenticate("0xABC", "jwt")
	s.Close()

	time.Sleep(30 * time.Millisecond)
	assert.Nil(t, s.Provider())
}
