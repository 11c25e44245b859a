// Package installer drives the client install: it validates the platform,
// checks for an existing client and otherwise runs the platform strategy,
// reporting progress and exactly one terminal outcome per call.
package installer

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/clientup/internal/exec"
	"github.com/smykla-skalski/clientup/internal/platform"
	"github.com/smykla-skalski/clientup/internal/presence"
	"github.com/smykla-skalski/clientup/internal/strategy"
	"github.com/smykla-skalski/clientup/pkg/logger"
)

// Options configures an Installer.
type Options struct {
	Kind       platform.Kind
	DataDir    string
	ClientName string

	// Runner backs the default Linux presence checker.
	Runner exec.CommandRunner
	// Checker overrides the profile's default presence checker.
	Checker presence.Checker
	// Strategy installs the client; required on supported platforms.
	Strategy strategy.Strategy

	Sink   Sink
	Logger logger.Logger

	// Timeout bounds a whole Install call. Zero means no limit beyond ctx.
	Timeout time.Duration
}

// Installer is the facade over presence checking and installation. Install
// must not overlap with itself; overlapping calls get ErrInstallInProgress.
type Installer struct {
	profile  platform.Profile
	checker  presence.Checker
	strategy strategy.Strategy
	sink     Sink
	logger   logger.Logger
	timeout  time.Duration

	running atomic.Bool

	mu    sync.Mutex
	state State
}

// New binds the platform profile to its checker and strategy. An unsupported
// platform is not an error here; Install reports it.
func New(opts Options) (*Installer, error) {
	profile := platform.NewProfile(opts.Kind, opts.DataDir, opts.ClientName)

	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	sink := opts.Sink
	if sink == nil {
		sink = func(Event) {}
	}

	inst := &Installer{
		profile:  profile,
		checker:  opts.Checker,
		strategy: opts.Strategy,
		sink:     sink,
		logger:   log.With("platform", profile.Kind.String()),
		timeout:  opts.Timeout,
	}

	if !profile.Kind.Supported() {
		return inst, nil
	}

	if opts.ClientName == "" {
		return nil, errors.New("client name is required")
	}

	if profile.Kind.UsesArchive() && opts.DataDir == "" {
		return nil, errors.Newf("data directory is required on %s", profile.Kind)
	}

	if inst.checker == nil {
		if profile.Kind == platform.KindLinux && opts.Runner == nil {
			return nil, errors.New("command runner is required for the shell presence check")
		}

		checker, err := presence.ForProfile(profile, opts.Runner)
		if err != nil {
			return nil, err
		}

		inst.checker = checker
	}

	if inst.strategy == nil {
		return nil, errors.New("install strategy is required")
	}

	return inst, nil
}

// Profile returns the bound platform profile.
func (i *Installer) Profile() platform.Profile {
	return i.profile
}

// ClientPath returns where the client lives once installed. On Linux this is
// the bare command name.
func (i *Installer) ClientPath() string {
	return i.profile.ClientPath
}

// State returns the last state reached by Install.
func (i *Installer) State() State {
	i.mu.Lock()
	defer i.mu.Unlock()

	return i.state
}

// Check reports whether the client is installed, without side effects.
func (i *Installer) Check(ctx context.Context) (bool, error) {
	if !i.profile.Kind.Supported() {
		return false, errors.Wrapf(ErrUnsupportedPlatform, "platform %s", i.profile.Kind)
	}

	installed, err := i.checker.CheckInstalled(ctx)
	if err != nil {
		return false, errors.Mark(err, ErrPresenceCheck)
	}

	return installed, nil
}

// Install runs the install state machine to a terminal state. secret is the
// elevation credential for the Linux package manager and is ignored
// elsewhere. The returned error is the payload of the terminal error event,
// or nil after the end event.
func (i *Installer) Install(ctx context.Context, secret string) error {
	if !i.running.CompareAndSwap(false, true) {
		i.logger.Error("install rejected", "err", ErrInstallInProgress)
		i.sink(Event{Kind: EventError, Err: ErrInstallInProgress})

		return ErrInstallInProgress
	}
	defer i.running.Store(false)

	if i.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, i.timeout)
		defer cancel()
	}

	state := StateUnknown

	var err error

	for {
		i.setState(state)

		if state.Terminal() {
			break
		}

		state, err = i.next(ctx, state, secret)
		if err != nil {
			state = StateFailed
		}
	}

	if err != nil {
		i.logger.Error("install failed", "err", err.Error())
		i.sink(Event{Kind: EventError, Err: err})

		return err
	}

	i.logger.Info("install finished", "state", state.String())
	i.sink(Event{Kind: EventEnd})

	return nil
}

// next performs the work of state and returns the state to move to.
func (i *Installer) next(ctx context.Context, state State, secret string) (State, error) {
	switch state {
	case StateUnknown:
		if !i.profile.Kind.Supported() {
			return StateFailed, errors.Wrapf(ErrUnsupportedPlatform, "platform %s", i.profile.Kind)
		}

		return StateChecking, nil
	case StateChecking:
		installed, err := i.checker.CheckInstalled(ctx)
		if err != nil {
			return StateFailed, errors.Mark(err, ErrPresenceCheck)
		}

		if installed {
			i.status("Client already installed at " + i.profile.ClientPath)

			return StateInstalled, nil
		}

		return StateNotInstalled, nil
	case StateNotInstalled:
		i.status("Client not found, installing")

		return StateInstalling, nil
	case StateInstalling:
		if err := i.strategy.Install(ctx, secret, i.status); err != nil {
			return StateFailed, err
		}

		i.status("Client installed at " + i.profile.ClientPath)

		return StateInstallSucceeded, nil
	default:
		return StateFailed, errors.Newf("no transition from state %s", state)
	}
}

func (i *Installer) setState(s State) {
	i.mu.Lock()
	i.state = s
	i.mu.Unlock()

	i.logger.Debug("state", "state", s.String())
}

func (i *Installer) status(msg string) {
	i.logger.Info("status", "msg", msg)
	i.sink(Event{Kind: EventStatus, Message: msg})
}
