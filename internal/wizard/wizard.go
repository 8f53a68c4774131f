package wizard

import (
	"errors"
	"fmt"
	"sync"

	"github.com/originlabs/ipminter/internal/mintresult"
	"github.com/originlabs/ipminter/internal/models"
)

// Step is the wizard's current screen
type Step int

const (
	StepWalletConnect Step = iota
	StepFileUpload
	StepMetadataEntry
	StepMinting
	StepSuccess
)

var stepNames = [...]string{"wallet_connect", "file_upload", "metadata_entry", "minting", "success"}

func (s Step) String() string {
	if s < 0 || int(s) >= len(stepNames) {
		return fmt.Sprintf("step(%d)", int(s))
	}
	return stepNames[s]
}

// ErrInvalidTransition is wrapped by every TransitionError
var ErrInvalidTransition = errors.New("invalid wizard transition")

// TransitionError reports an event that is not allowed in the current step
type TransitionError struct {
	From  Step
	Event string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s from %s", e.Event, e.From)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// State is a point-in-time copy of the wizard
type State struct {
	Step   Step
	File   *models.File
	Result *mintresult.Outcome
}

// Wizard holds the step index and the state shared between steps.
// It starts at StepWalletConnect and is never persisted.
type Wizard struct {
	mu    sync.RWMutex
	state State
}

// New returns a wizard at the wallet-connect step
func New() *Wizard {
	return &Wizard{}
}

// Snapshot returns a copy of the current state
func (w *Wizard) Snapshot() State {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.state
}

// Step returns the current step
func (w *Wizard) Step() Step {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.state.Step
}

func (w *Wizard) transition(event string, from Step, apply func(*State)) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state.Step != from {
		return &TransitionError{From: w.state.Step, Event: event}
	}
	apply(&w.state)
	return nil
}

// WalletConnected moves from wallet connect to file upload
func (w *Wizard) WalletConnected() error {
	return w.transition("connect wallet", StepWalletConnect, func(s *State) {
		s.Step = StepFileUpload
	})
}

// SelectFile stores the chosen file and moves to metadata entry
func (w *Wizard) SelectFile(file *models.File) error {
	if file == nil {
		return fmt.Errorf("no file selected")
	}
	return w.transition("select file", StepFileUpload, func(s *State) {
		s.File = file
		s.Step = StepMetadataEntry
	})
}

// BeginMint enters the minting step as soon as a mint is initiated,
// before the minting call resolves. MintFailed rewinds it.
func (w *Wizard) BeginMint() error {
	return w.transition("begin mint", StepMetadataEntry, func(s *State) {
		s.Step = StepMinting
	})
}

// MintSucceeded records the outcome and moves to the success step
func (w *Wizard) MintSucceeded(outcome mintresult.Outcome) error {
	return w.transition("complete mint", StepMinting, func(s *State) {
		s.Result = &outcome
		s.Step = StepSuccess
	})
}

// MintFailed returns to metadata entry so the user can retry
func (w *Wizard) MintFailed() error {
	return w.transition("fail mint", StepMinting, func(s *State) {
		s.Step = StepMetadataEntry
	})
}

// BackToHome starts over, dropping the file and the mint result
func (w *Wizard) BackToHome() error {
	return w.transition("go back to home", StepSuccess, func(s *State) {
		*s = State{Step: StepWalletConnect}
	})
}

// Back returns to the previous input step
func (w *Wizard) Back() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	switch w.state.Step {
	case StepMetadataEntry:
		w.state.Step = StepFileUpload
	case StepFileUpload:
		w.state.Step = StepWalletConnect
	default:
		return &TransitionError{From: w.state.Step, Event: "go back"}
	}
	return nil
}
