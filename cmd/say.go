package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizy/internal/speech"
)

var sayCmd = &cobra.Command{
	Use:   "say <text...>",
	Short: "Speak text with the configured narration voice",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("output")
		play, _ := cmd.Flags().GetBool("play")

		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.close()

		n, err := d.narrator(cmd.Context(), false)
		if err != nil {
			return fmt.Errorf("start speech: %w", err)
		}
		if n == nil {
			return errors.New("speech is off; set QUIZY_SPEECH_BACKEND or GEMINI_API_KEY")
		}

		path, err := n.Clip(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}

		if out != "" {
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read clip: %w", err)
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			path = out
		}
		fmt.Println(path)

		if play {
			player := speech.CommandPlayer(cfg.Speech.Player)
			if player == nil {
				return errors.New("no audio player found; set QUIZY_AUDIO_PLAYER")
			}
			return player(cmd.Context(), path)
		}
		return nil
	},
}

func init() {
	sayCmd.Flags().StringP("output", "o", "", "Copy the audio clip to this file")
	sayCmd.Flags().BoolP("play", "p", false, "Play the clip")
}
