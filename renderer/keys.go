package renderer

// Action is a control the key-state table tracks.
type Action int

const (
	ActionUp Action = iota
	ActionDown
	ActionLeft
	ActionRight
	ActionUpCam
	ActionDownCam
	ActionLeftCam
	ActionRightCam
	ActionFlashLight
)

var actionNames = [...]string{
	ActionUp:         "up",
	ActionDown:       "down",
	ActionLeft:       "left",
	ActionRight:      "right",
	ActionUpCam:      "upCam",
	ActionDownCam:    "downCam",
	ActionLeftCam:    "leftCam",
	ActionRightCam:   "rightCam",
	ActionFlashLight: "flashLight",
}

func (a Action) String() string {
	if a >= 0 && int(a) < len(actionNames) {
		return actionNames[a]
	}
	return "unknown"
}

// KeyMap binds key codes to actions. Letter codes match their upper-case
// ASCII value, as GLFW key codes do.
type KeyMap map[int]Action

// DefaultKeyMap is W/S/A/D to move, I/K/J/L to look and F for the flashlight.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		'W': ActionUp,
		'S': ActionDown,
		'A': ActionLeft,
		'D': ActionRight,
		'I': ActionUpCam,
		'K': ActionDownCam,
		'J': ActionLeftCam,
		'L': ActionRightCam,
		'F': ActionFlashLight,
	}
}

// KeyState holds 1 for every held action and 0 otherwise.
type KeyState map[Action]int

func newKeyState() KeyState {
	s := make(KeyState, len(actionNames))
	for a := range actionNames {
		s[Action(a)] = 0
	}
	return s
}

// axis is pos - neg as a float: -1, 0 or 1.
func (s KeyState) axis(pos, neg Action) float32 {
	return float32(s[pos] - s[neg])
}
