package guard

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// DefaultDelay is how long address changes must settle before a provider is created
const DefaultDelay = 200 * time.Millisecond

// Provider is a live signing provider
type Provider interface {
	Address() string
	Close()
}

// Factory creates a signing provider for an address
type Factory interface {
	NewProvider(ctx context.Context, address string) (Provider, error)
}

// FactoryFunc adapts a function to Factory
type FactoryFunc func(ctx context.Context, address string) (Provider, error)

func (f FactoryFunc) NewProvider(ctx context.Context, address string) (Provider, error) {
	return f(ctx, address)
}

// Guard keeps a signing provider alive only while the connected wallet
// address and the authenticated address match case-insensitively.
//
// Creation is debounced by Delay; teardown is immediate. At most one
// creation timer is pending at any time.
type Guard struct {
	factory Factory
	delay   time.Duration

	mu       sync.Mutex
	wallet   string
	identity string
	provider Provider
	pending  *time.Timer
	gen      uint64
	closed   bool
}

// New returns a guard that creates providers with factory after delay
func New(factory Factory, delay time.Duration) *Guard {
	return &Guard{factory: factory, delay: delay}
}

// Update reconciles the guard with the latest wallet and authenticated addresses
func (g *Guard) Update(walletAddress, authenticatedAddress string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return
	}

	g.wallet, g.identity = walletAddress, authenticatedAddress
	g.cancelPendingLocked()
	g.gen++

	if !addressesMatch(walletAddress, authenticatedAddress) {
		g.clearLocked()
		return
	}

	gen := g.gen
	g.pending = time.AfterFunc(g.delay, func() { g.create(gen, walletAddress) })
}

// Provider returns the live provider, or nil
func (g *Guard) Provider() Provider {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.provider
}

// Close cancels any pending creation and closes the live provider
func (g *Guard) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.closed = true
	g.gen++
	g.cancelPendingLocked()
	g.clearLocked()
}

func (g *Guard) create(gen uint64, address string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	provider, err := g.factory.NewProvider(ctx, address)
	if err != nil {
		slog.Error("Failed to create signing provider", "address", address, "err", err)
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if gen != g.gen {
		// superseded while the factory was running
		provider.Close()
		return
	}
	g.pending = nil
	if g.provider != nil {
		g.provider.Close()
	}
	g.provider = provider
	slog.Info("Signing provider ready", "address", address)
}

func (g *Guard) cancelPendingLocked() {
	if g.pending != nil {
		g.pending.Stop()
		g.pending = nil
	}
}

func (g *Guard) clearLocked() {
	if g.provider != nil {
		g.provider.Close()
		g.provider = nil
		slog.Info("Signing provider cleared", "wallet", g.wallet, "identity", g.identity)
	}
}

func addressesMatch(wallet, identity string) bool {
	return wallet != "" && identity != "" && strings.EqualFold(wallet, identity)
}
