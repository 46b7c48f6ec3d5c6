package renderer

// State is the lifecycle state of a renderer
type State int32

const (
	Ready State = iota
	Running
	Finished
	Stopped
)

func (s State) String() string {
	switch s {
	case Ready:
		return "ready"
	case Running:
		return "running"
	case Finished:
		return "finished"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Terminal reports whether a pass in this state has ended
func (s State) Terminal() bool {
	return s == Finished || s == Stopped
}
