package vmix

import (
	"path"
	"strings"

	"github.com/preston-bernstein/scoreboard-gateway/internal/domain/match"
)

// FoulImages maps a side's foul count to the image shown in its foul input.
// Files are indexed by foul count 0..5.
type FoulImages struct {
	BasePath         string
	HomeSelectedName string
	AwaySelectedName string
	HomeFiles        []string
	AwayFiles        []string
}

// Select returns the selected name and image path for a side, clamping fouls to 0..5.
// ok is false when the side has no input or no image for that count.
func (f FoulImages) Select(side match.Side, fouls int) (selectedName, path string, ok bool) {
	fouls = match.ClampFouls(fouls)
	files, selectedName := f.HomeFiles, f.HomeSelectedName
	if side == match.SideAway {
		files, selectedName = f.AwayFiles, f.AwaySelectedName
	}
	if selectedName == "" || fouls >= len(files) || files[fouls] == "" {
		return "", "", false
	}
	return selectedName, joinImagePath(f.BasePath, files[fouls]), true
}

// joinImagePath joins with the separator the base already uses. vMix usually runs on
// Windows, so a backslash base is kept as is whatever the gateway's own OS.
func joinImagePath(base, name string) string {
	if base == "" {
		return name
	}
	if strings.Contains(base, `\`) && !strings.Contains(base, "/") {
		return strings.TrimRight(base, `\`) + `\` + strings.TrimLeft(name, `\`)
	}
	return path.Join(base, name)
}
