package installer

//go:generate enumer -type=State -trimprefix=State -transform=kebab -text
//go:generate go run github.com/smykla-skalski/clientup/tools/enumerfix state_enumer.go

// State is the position of an Install call in the install state machine.
type State int

const (
	// StateUnknown is the entry state, before the platform is validated.
	StateUnknown State = iota
	// StateChecking runs the presence checker.
	StateChecking
	// StateInstalled means the client was already present. Terminal.
	StateInstalled
	// StateNotInstalled means the checker reported the client missing.
	StateNotInstalled
	// StateInstalling runs the platform strategy.
	StateInstalling
	// StateInstallSucceeded means the strategy finished. Terminal.
	StateInstallSucceeded
	// StateFailed is reached on any error. Terminal.
	StateFailed
)

// Terminal reports whether no further transition leaves s.
func (s State) Terminal() bool {
	switch s {
	case StateInstalled, StateInstallSucceeded, StateFailed:
		return true
	default:
		return false
	}
}
