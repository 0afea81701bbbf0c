package speech

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// knownPlayers are tried in order when no player command is configured.
var knownPlayers = [][]string{
	{"afplay"},
	{"paplay"},
	{"aplay", "-q"},
	{"ffplay", "-nodisp", "-autoexit", "-loglevel", "quiet"},
	{"mpv", "--no-video", "--really-quiet"},
}

// CommandPlayer returns a Player that runs command with the clip path
// appended. An empty command picks the first known player on PATH; if none
// is found CommandPlayer returns nil.
func CommandPlayer(command string) Player {
	args := strings.Fields(command)
	if len(args) == 0 {
		args = detectPlayer()
	}
	if len(args) == 0 {
		return nil
	}
	return func(ctx context.Context, path string) error {
		cmd := exec.CommandContext(ctx, args[0], append(args[1:], path)...)
		if out, err := cmd.CombinedOutput(); err != nil {
			return fmt.Errorf("%s: %w: %s", args[0], err, strings.TrimSpace(string(out)))
		}
		return nil
	}
}

func detectPlayer() []string {
	for _, p := range knownPlayers {
		if _, err := exec.LookPath(p[0]); err == nil {
			return p
		}
	}
	return nil
}
