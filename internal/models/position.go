package models

import "strings"

const (
	PositionForward = "forward"
	PositionDefence = "defence"
	PositionGoalie  = "goalie"
)

var Positions = []string{PositionForward, PositionDefence, PositionGoalie}

var positionAliases = map[string]string{
	"forward":    PositionForward,
	"f":          PositionForward,
	"fwd":        PositionForward,
	"defence":    PositionDefence,
	"defense":    PositionDefence,
	"d":          PositionDefence,
	"def":        PositionDefence,
	"goalie":     PositionGoalie,
	"g":          PositionGoalie,
	"goalkeeper": PositionGoalie,
}

// NormalizePosition maps a user-entered position to its canonical name.
func NormalizePosition(raw string) (string, bool) {
	position, ok := positionAliases[strings.ToLower(strings.TrimSpace(raw))]
	return position, ok
}
