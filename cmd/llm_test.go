package cmd

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/abhisek/quizy/internal/store"
)

func TestFilterEvents(t *testing.T) {
	events := []store.LLMRequestEventRecord{
		{ID: 1, Purpose: "question-gen", Subject: "Volcanoes"},
		{ID: 2, Purpose: "chat"},
		{ID: 3, Purpose: "question-gen", Subject: "Fractions"},
	}
	assert.Len(t, filterEvents(events, "", ""), 3)

	got := filterEvents(events, "question-gen", "")
	assert.Len(t, got, 2)
	assert.Equal(t, 3, got[1].ID)
	assert.Empty(t, filterEvents(events, "lesson", ""))

	got = filterEvents(events, "", "volcanoes")
	if assert.Len(t, got, 1) {
		assert.Equal(t, 1, got[0].ID)
	}
	assert.Empty(t, filterEvents(events, "chat", "Fractions"))
}

func TestPrintLLMEvents(t *testing.T) {
	var buf bytes.Buffer
	printLLMEvents(&buf, nil)
	assert.Equal(t, "No LLM events found.\n", buf.String())

	buf.Reset()
	printLLMEvents(&buf, []store.LLMRequestEventRecord{{
		ID: 7, Timestamp: time.Now(), Purpose: "chat", Model: "gemini-2.5-flash",
		InputTokens: 1200, OutputTokens: 300, LatencyMs: 850, Success: false,
	}})
	out := buf.String()
	assert.Contains(t, out, "gemini-2.5-flash")
	assert.Contains(t, out, "1,500")
	assert.Contains(t, out, "✗")
	assert.Contains(t, out, "  -  ")
}

func TestPrintLLMEvent(t *testing.T) {
	var buf bytes.Buffer
	printLLMEvent(&buf, &store.LLMRequestEventRecord{
		ID: 3, Model: "gpt-4o-mini", Provider: "openai", Purpose: "question-gen",
		InputTokens: 1_000_000, OutputTokens: 0, Success: true,
		RequestBody: `{"subject":"Math"}`,
	})
	out := buf.String()
	assert.Contains(t, out, "Cost:      $0.15")
	assert.Contains(t, out, "Status:    ok")
	assert.Contains(t, out, `{"subject":"Math"}`)
	assert.Contains(t, out, "(not captured)")
	assert.NotContains(t, out, "Subject:")
}

func TestPrintLLMEventPrefersRecordedCost(t *testing.T) {
	var buf bytes.Buffer
	printLLMEvent(&buf, &store.LLMRequestEventRecord{
		ID: 4, Model: "gpt-4o-mini", Provider: "openai", Purpose: "question-gen", Subject: "Volcanoes",
		InputTokens: 1_000_000, CostUSD: 0.42, Success: true,
	})
	out := buf.String()
	assert.Contains(t, out, "Subject:   Volcanoes")
	assert.Contains(t, out, "Cost:      $0.42")
}

func TestPrintSubjectUsage(t *testing.T) {
	var buf bytes.Buffer
	printSubjectUsage(&buf, []store.SubjectUsage{
		{Subject: "Volcanoes", Calls: 3, Failures: 1, CostUSD: 0.006},
		{Subject: "Fractions", Calls: 1, CostUSD: 0.003},
	})
	out := buf.String()
	assert.Contains(t, out, "Question generation by subject")
	assert.Contains(t, out, "Volcanoes")
	assert.Contains(t, out, "$0.0060")
	assert.Contains(t, out, "$0.0090")
}

func TestPrintPurposeUsageShowsCost(t *testing.T) {
	var buf bytes.Buffer
	printPurposeUsage(&buf, []store.PurposeUsage{
		{Purpose: "question-gen", Calls: 2, InputTokens: 4000, OutputTokens: 1000, CostUSD: 1.25},
		{Purpose: "chat", Calls: 5, InputTokens: 500, OutputTokens: 500, CostUSD: 0.25},
	})
	out := buf.String()
	assert.Contains(t, out, "$1.25")
	assert.Contains(t, out, "$1.50")
	assert.Contains(t, out, "4,500")
}

func TestPrintModelCosts(t *testing.T) {
	var buf bytes.Buffer
	printModelCosts(&buf, []store.ModelUsage{
		{Model: "gemini-2.5-flash", Calls: 2, InputTokens: 1_000_000, OutputTokens: 1_000_000},
		{Model: "homebrew-llm", Calls: 1, InputTokens: 10, OutputTokens: 10},
	})
	out := buf.String()
	assert.Contains(t, out, "$2.80")
	assert.Contains(t, out, "TOTAL (partial)")
	assert.Contains(t, out, "No pricing for: homebrew-llm")
}

func TestFormatCost(t *testing.T) {
	assert.Equal(t, "$0.0012", formatCost(0.00123))
	assert.Equal(t, "$1.50", formatCost(1.5))
}

func TestTextBar(t *testing.T) {
	assert.Equal(t, "[██░░]", textBar(0.5, 4))
	assert.Equal(t, "[░░░░]", textBar(-1, 4))
	assert.Equal(t, "[████]", textBar(2, 4))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab", truncate("abc", 2))
}
