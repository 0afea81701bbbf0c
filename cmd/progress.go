package cmd

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/abhisek/quizy/internal/progression"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show level, XP, streak and badges",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.close()

		p := d.rewards.Current()
		lp := d.rewards.LevelProgress()

		fmt.Printf("Level:     %s\n", lp.Current.Label())
		fmt.Printf("XP:        %s  %s\n", humanize.Comma(int64(p.XP)), textBar(lp.Fraction(), 20))
		if lp.AtMax {
			fmt.Println("           max level reached")
		} else {
			fmt.Printf("           %s XP to %s\n", humanize.Comma(int64(lp.Remaining())), lp.Next.Label())
		}
		fmt.Printf("Streak:    🔥 %d\n", p.Streak)
		if p.TotalQuestions > 0 {
			fmt.Printf("Accuracy:  %.0f%% (%d/%d)\n", p.Accuracy()*100, p.CorrectAnswers, p.TotalQuestions)
		} else {
			fmt.Println("Accuracy:  no answers yet")
		}

		fmt.Println()
		fmt.Println("Badges")
		fmt.Println(strings.Repeat("─", 48))
		pending := progression.PendingBadges(d.rewards.Badges(), p)
		for _, b := range d.rewards.Badges() {
			mark := "🔒"
			switch {
			case p.HasBadge(b.ID):
				mark = "🏅"
			case containsBadge(pending, b.ID):
				mark = "✨"
			}
			fmt.Printf("%s %-16s %s\n", mark, b.Name, b.Description)
		}
		return nil
	},
}

func containsBadge(badges []progression.Badge, id string) bool {
	_, ok := progression.FindBadge(badges, id)
	return ok
}

func textBar(fraction float64, width int) string {
	filled := min(max(int(fraction*float64(width)), 0), width)
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}
