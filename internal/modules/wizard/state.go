package wizard

// State is where a module stands in the submodule generation flow.
type State int

const (
	// Ungenerated: no submodule version is cached for the module.
	Ungenerated State = iota
	// Generating: a generation request for the module is in flight.
	Generating
	// ReadyUnverified: a version is cached but not yet seen to hold submodules.
	ReadyUnverified
	// Ready: the cached version was seen to hold submodules.
	Ready
)

func (s State) String() string {
	switch s {
	case Ungenerated:
		return "ungenerated"
	case Generating:
		return "generating"
	case ReadyUnverified:
		return "ready (unverified)"
	case Ready:
		return "ready"
	default:
		return "unknown"
	}
}

// HasVersion reports whether a submodule version is cached in this state.
func (s State) HasVersion() bool {
	return s == ReadyUnverified || s == Ready
}
