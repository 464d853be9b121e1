package gymhttp

import "strings"

// FullActionSet holds the meanings of the 18 actions of the Atari
// 2600 joystick in ALE order
var FullActionSet = []string{
	"NOOP", "FIRE", "UP", "RIGHT", "LEFT", "DOWN",
	"UPRIGHT", "UPLEFT", "DOWNRIGHT", "DOWNLEFT",
	"UPFIRE", "RIGHTFIRE", "LEFTFIRE", "DOWNFIRE",
	"UPRIGHTFIRE", "UPLEFTFIRE", "DOWNRIGHTFIRE", "DOWNLEFTFIRE",
}

// minimal holds the ALE minimal action set of common games. Games not
// listed here use the full action set.
var minimal = map[string][]string{
	"Pong":          {"NOOP", "FIRE", "RIGHT", "LEFT", "RIGHTFIRE", "LEFTFIRE"},
	"Breakout":      {"NOOP", "FIRE", "RIGHT", "LEFT"},
	"SpaceInvaders": {"NOOP", "FIRE", "RIGHT", "LEFT", "RIGHTFIRE", "LEFTFIRE"},
	"Qbert":         {"NOOP", "FIRE", "UP", "RIGHT", "LEFT", "DOWN"},
	"MsPacman": {"NOOP", "UP", "RIGHT", "LEFT", "DOWN", "UPRIGHT", "UPLEFT",
		"DOWNRIGHT", "DOWNLEFT"},
	"BeamRider": {"NOOP", "FIRE", "UP", "RIGHT", "LEFT", "UPRIGHT", "UPLEFT",
		"RIGHTFIRE", "LEFTFIRE"},
	"Enduro": {"NOOP", "FIRE", "RIGHT", "LEFT", "DOWN", "DOWNRIGHT",
		"DOWNLEFT", "RIGHTFIRE", "LEFTFIRE"},
	"Asteroids": {"NOOP", "FIRE", "UP", "RIGHT", "LEFT", "DOWN", "UPRIGHT",
		"UPLEFT", "UPFIRE", "RIGHTFIRE", "LEFTFIRE", "DOWNFIRE",
		"UPRIGHTFIRE", "UPLEFTFIRE"},
	"Freeway":  {"NOOP", "UP", "DOWN"},
	"Seaquest": FullActionSet,
	"Boxing":   FullActionSet,
}

// Game returns the name of the game of an Atari environment name, for
// example "Pong" for "PongNoFrameskip-v4"
func Game(name string) string {
	if i := strings.Index(name, "-v"); i >= 0 {
		name = name[:i]
	}
	for _, suffix := range []string{"NoFrameskip", "Deterministic", "-ram"} {
		name = strings.TrimSuffix(name, suffix)
	}
	return name
}

// IsAtari returns whether name refers to an Atari game
func IsAtari(name string) bool {
	if _, ok := minimal[Game(name)]; ok {
		return true
	}
	return strings.Contains(name, "NoFrameskip") ||
		strings.Contains(name, "Deterministic")
}

// ActionMeanings returns the action meanings of the Atari game name
// with n actions. If n is zero, the number of actions is not checked.
// Unknown games are assumed to use the full action set.
func ActionMeanings(name string, n int) ([]string, bool) {
	meanings, ok := minimal[Game(name)]
	if !ok {
		if n != len(FullActionSet) {
			return nil, false
		}
		meanings = FullActionSet
	}
	if n != 0 && n != len(meanings) {
		return nil, false
	}

	out := make([]string, len(meanings))
	copy(out, meanings)
	return out, true
}
