package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizy/internal/app"
	"github.com/abhisek/quizy/internal/progression"
)

var playCmd = &cobra.Command{
	Use:   "play [subject]",
	Short: "Start a quiz",
	Long: "Start a quiz. With a subject the quiz begins right away; without one\n" +
		"the home screen opens. Subjects: " + strings.Join(progression.SubjectNames(), ", ") + ".",
	Args: cobra.MaximumNArgs(1),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return progression.SubjectNames(), cobra.ShellCompDirectiveNoFileComp
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := app.Options{SkipWelcome: true}
		if len(args) == 1 {
			subj, ok := progression.FindSubject(args[0])
			if !ok {
				return fmt.Errorf("unknown subject %q (choose from: %s)",
					args[0], strings.Join(progression.SubjectNames(), ", "))
			}
			opts.Subject = &subj
		}
		return runApp(cmd, opts)
	},
}
