package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/abhisek/quizy/internal/llm"
	"github.com/abhisek/quizy/internal/store"
)

const ruleWidth = 72

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect logged LLM calls and their cost",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM calls",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")
		subject, _ := cmd.Flags().GetString("subject")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().QueryLLMEvents(cmd.Context(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		printLLMEvents(cmd.OutOrStdout(), filterEvents(events, purpose, subject))
		return nil
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show one LLM call with its request and response",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID %q", args[0])
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		e, err := s.EventRepo().GetLLMEvent(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if e == nil {
			return fmt.Errorf("event %d not found", id)
		}
		printLLMEvent(cmd.OutOrStdout(), e)
		return nil
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show token usage by purpose, cost by quiz subject and cost by model",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		byPurpose, err := s.EventRepo().LLMUsageByPurpose(ctx)
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		bySubject, err := s.EventRepo().LLMUsageBySubject(ctx)
		if err != nil {
			return fmt.Errorf("query subject usage: %w", err)
		}
		byModel, err := s.EventRepo().LLMUsageByModel(ctx)
		if err != nil {
			return fmt.Errorf("query model usage: %w", err)
		}

		w := cmd.OutOrStdout()
		if len(byPurpose) == 0 {
			fmt.Fprintln(w, "No LLM usage recorded yet.")
			return nil
		}
		printPurposeUsage(w, byPurpose)
		if len(bySubject) > 0 {
			fmt.Fprintln(w)
			printSubjectUsage(w, bySubject)
		}
		if len(byModel) > 0 {
			fmt.Fprintln(w)
			printModelCosts(w, byModel)
		}
		return nil
	},
}

// filterEvents keeps the events matching purpose and subject. Empty
// filters match everything; subjects compare case-insensitively.
func filterEvents(events []store.LLMRequestEventRecord, purpose, subject string) []store.LLMRequestEventRecord {
	if purpose == "" && subject == "" {
		return events
	}
	var out []store.LLMRequestEventRecord
	for _, e := range events {
		if purpose != "" && e.Purpose != purpose {
			continue
		}
		if subject != "" && !strings.EqualFold(e.Subject, subject) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// eventCost prefers the cost recorded with the call and falls back to the
// current price table for older rows.
func eventCost(e *store.LLMRequestEventRecord) (float64, bool) {
	if e.CostUSD > 0 {
		return e.CostUSD, true
	}
	return llm.EstimateCost(e.Model, e.InputTokens, e.OutputTokens)
}

func rule(w io.Writer) {
	fmt.Fprintln(w, strings.Repeat("─", ruleWidth))
}

func printLLMEvents(w io.Writer, events []store.LLMRequestEventRecord) {
	if len(events) == 0 {
		fmt.Fprintln(w, "No LLM events found.")
		return
	}

	fmt.Fprintf(w, "%-5s  %-14s  %-12s  %-16s  %-24s  %7s  %6s  %s\n",
		"ID", "When", "Purpose", "Subject", "Model", "Tokens", "Ms", "OK")
	rule(w)
	for _, e := range events {
		ok := "✓"
		if !e.Success {
			ok = "✗"
		}
		subject := e.Subject
		if subject == "" {
			subject = "-"
		}
		fmt.Fprintf(w, "%-5d  %-14s  %-12s  %-16s  %-24s  %7s  %6d  %s\n",
			e.ID, humanize.Time(e.Timestamp), e.Purpose, truncate(subject, 16), truncate(e.Model, 24),
			humanize.Comma(int64(e.InputTokens+e.OutputTokens)), e.LatencyMs, ok)
	}
}

func printLLMEvent(w io.Writer, e *store.LLMRequestEventRecord) {
	field := func(name, value string) {
		fmt.Fprintf(w, "%-10s %s\n", name+":", value)
	}
	field("ID", strconv.Itoa(e.ID))
	field("Time", e.Timestamp.Local().Format("2006-01-02 15:04:05"))
	field("Provider", e.Provider)
	field("Model", e.Model)
	field("Purpose", e.Purpose)
	if e.Subject != "" {
		field("Subject", e.Subject)
	}
	field("Tokens", fmt.Sprintf("%s in / %s out",
		humanize.Comma(int64(e.InputTokens)), humanize.Comma(int64(e.OutputTokens))))
	if c, ok := eventCost(e); ok {
		field("Cost", formatCost(c))
	}
	field("Latency", fmt.Sprintf("%dms", e.LatencyMs))
	if e.Success {
		field("Status", "ok")
	} else {
		field("Status", "failed: "+e.ErrorMessage)
	}

	for _, body := range []struct{ title, text string }{
		{"REQUEST", e.RequestBody},
		{"RESPONSE", e.ResponseBody},
	} {
		fmt.Fprintln(w)
		fmt.Fprintln(w, body.title)
		rule(w)
		if body.text == "" {
			fmt.Fprintln(w, "(not captured)")
			continue
		}
		fmt.Fprintln(w, body.text)
	}
}

func printPurposeUsage(w io.Writer, usage []store.PurposeUsage) {
	fmt.Fprintln(w, "Usage by purpose")
	rule(w)
	fmt.Fprintf(w, "%-14s  %6s  %10s  %10s  %8s  %9s\n", "Purpose", "Calls", "Input", "Output", "Avg ms", "Cost")
	rule(w)

	var calls, in, out int
	var cost float64
	for _, u := range usage {
		fmt.Fprintf(w, "%-14s  %6d  %10s  %10s  %8d  %9s\n",
			u.Purpose, u.Calls, humanize.Comma(int64(u.InputTokens)),
			humanize.Comma(int64(u.OutputTokens)), u.AvgLatencyMs, formatCost(u.CostUSD))
		calls += u.Calls
		in += u.InputTokens
		out += u.OutputTokens
		cost += u.CostUSD
	}
	rule(w)
	fmt.Fprintf(w, "%-14s  %6d  %10s  %10s  %8s  %9s\n", "TOTAL", calls,
		humanize.Comma(int64(in)), humanize.Comma(int64(out)), "", formatCost(cost))
}

// printSubjectUsage prints what question generation cost per quiz subject,
// using the cost recorded with each call.
func printSubjectUsage(w io.Writer, usage []store.SubjectUsage) {
	fmt.Fprintln(w, "Question generation by subject")
	rule(w)
	fmt.Fprintf(w, "%-30s  %6s  %8s  %9s\n", "Subject", "Calls", "Failed", "Cost")
	rule(w)

	var total float64
	for _, u := range usage {
		fmt.Fprintf(w, "%-30s  %6d  %8d  %9s\n",
			truncate(u.Subject, 30), u.Calls, u.Failures, formatCost(u.CostUSD))
		total += u.CostUSD
	}
	rule(w)
	fmt.Fprintf(w, "%-30s  %6s  %8s  %9s\n", "TOTAL", "", "", formatCost(total))
}

// printModelCosts prints the estimated USD cost per model. Models without a
// pricing entry are listed with "?" and make the total partial.
func printModelCosts(w io.Writer, usage []store.ModelUsage) {
	fmt.Fprintln(w, "Estimated cost (USD)")
	rule(w)
	fmt.Fprintf(w, "%-30s  %6s  %10s  %10s  %9s\n", "Model", "Calls", "Input", "Output", "Cost")
	rule(w)

	var total float64
	var unpriced []string
	for _, u := range usage {
		cost := "?"
		if c, ok := llm.EstimateCost(u.Model, u.InputTokens, u.OutputTokens); ok {
			total += c
			cost = formatCost(c)
		} else {
			unpriced = append(unpriced, u.Model)
		}
		fmt.Fprintf(w, "%-30s  %6d  %10s  %10s  %9s\n",
			truncate(u.Model, 30), u.Calls, humanize.Comma(int64(u.InputTokens)),
			humanize.Comma(int64(u.OutputTokens)), cost)
	}
	rule(w)

	label := "TOTAL"
	if len(unpriced) > 0 {
		label = "TOTAL (partial)"
	}
	fmt.Fprintf(w, "%-30s  %6s  %10s  %10s  %9s\n", label, "", "", "", formatCost(total))
	if len(unpriced) > 0 {
		fmt.Fprintf(w, "\nNo pricing for: %s\n", strings.Join(unpriced, ", "))
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Only show calls for this purpose (question-gen or chat)")
	llmListCmd.Flags().StringP("subject", "s", "", "Only show calls for this quiz subject")

	llmCmd.AddCommand(llmListCmd, llmViewCmd, llmStatsCmd)
}
