package cmd

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/abhisek/quizy/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recently completed quizzes",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		quizzes, err := s.EventRepo().QueryQuizSummaries(ctx, store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query quizzes: %w", err)
		}
		if len(quizzes) == 0 {
			fmt.Println("No quizzes completed yet.")
			return nil
		}

		fmt.Printf("%-16s  %-18s  %5s  %6s  %6s  %s\n",
			"When", "Subject", "Score", "XP", "Streak", "Level")
		fmt.Println(strings.Repeat("─", 72))
		for _, q := range quizzes {
			xp := fmt.Sprintf("+%d", q.XPGained)
			if q.Multiplier > 1 {
				xp += "*"
			}
			fmt.Printf("%-16s  %-18s  %2d/%-2d  %6s  %6d  %s\n",
				humanize.Time(q.Timestamp),
				truncate(q.Subject, 18),
				q.Score, q.Questions, xp, q.NewStreak, q.Level)
		}

		if stats, err := s.EventRepo().SubjectAccuracy(ctx); err == nil && len(stats) > 0 {
			fmt.Println()
			for _, st := range stats {
				fmt.Printf("%-18s  %.0f%% of %d answers\n", st.Subject, st.Accuracy()*100, st.Answered)
			}
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of quizzes to show")
}
