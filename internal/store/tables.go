package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table names.
const (
	tableProgressSnapshots = "progress_snapshots"
	tableQuizEvents        = "quiz_events"
	tableAnswerEvents      = "answer_events"
	tableBadgeEvents       = "badge_events"
	tableMediaEvents       = "media_events"
	tableLLMRequestEvents  = "llm_request_events"
)

// eventTable creates a table with the columns shared by every event type:
// an auto-increment id, the global sequence number, and a UTC timestamp.
func eventTable(name string) *schema.Table {
	t := schema.NewTable(name).
		AddPrimary(&schema.Column{Name: "id", Type: field.TypeInt, Increment: true}).
		AddColumn(&schema.Column{Name: "sequence", Type: field.TypeInt64}).
		AddColumn(&schema.Column{Name: "timestamp", Type: field.TypeTime})
	t.AddIndex(name+"_sequence", true, []string{"sequence"})
	t.AddIndex(name+"_timestamp", false, []string{"timestamp"})
	return t
}

func stringCol(name string) *schema.Column {
	return &schema.Column{Name: name, Type: field.TypeString, Default: ""}
}

func textCol(name string) *schema.Column {
	return &schema.Column{Name: name, Type: field.TypeString, Size: 1 << 20, Default: ""}
}

func intCol(name string) *schema.Column {
	return &schema.Column{Name: name, Type: field.TypeInt, Default: 0}
}

// Tables returns the schema for every table managed by the store.
func Tables() []*schema.Table {
	snapshots := schema.NewTable(tableProgressSnapshots).
		AddPrimary(&schema.Column{Name: "id", Type: field.TypeInt, Increment: true}).
		AddColumn(&schema.Column{Name: "sequence", Type: field.TypeInt64}).
		AddColumn(&schema.Column{Name: "timestamp", Type: field.TypeTime}).
		AddColumn(&schema.Column{Name: "data", Type: field.TypeJSON})
	snapshots.AddIndex("progress_snapshots_timestamp", false, []string{"timestamp"})

	quiz := eventTable(tableQuizEvents).
		AddColumn(stringCol("session_id")).
		AddColumn(stringCol("subject")).
		AddColumn(stringCol("action")).
		AddColumn(intCol("score")).
		AddColumn(intCol("questions")).
		AddColumn(intCol("xp_gained")).
		AddColumn(intCol("new_streak")).
		AddColumn(&schema.Column{Name: "multiplier", Type: field.TypeFloat64, Default: 1.0}).
		AddColumn(stringCol("level"))
	quiz.AddIndex("quiz_events_session_id", false, []string{"session_id"})
	quiz.AddIndex("quiz_events_action", false, []string{"action"})

	answers := eventTable(tableAnswerEvents).
		AddColumn(stringCol("session_id")).
		AddColumn(stringCol("subject")).
		AddColumn(intCol("question_index")).
		AddColumn(textCol("question_text")).
		AddColumn(intCol("selected")).
		AddColumn(intCol("correct_index")).
		AddColumn(&schema.Column{Name: "correct", Type: field.TypeBool})
	answers.AddIndex("answer_events_subject", false, []string{"subject"})

	badges := eventTable(tableBadgeEvents).
		AddColumn(stringCol("badge_id")).
		AddColumn(stringCol("badge_name")).
		AddColumn(stringCol("session_id")).
		AddColumn(intCol("xp")).
		AddColumn(intCol("streak"))
	badges.AddIndex("badge_events_badge_id", false, []string{"badge_id"})

	media := eventTable(tableMediaEvents).
		AddColumn(stringCol("kind")).
		AddColumn(stringCol("backend")).
		AddColumn(textCol("subject")).
		AddColumn(stringCol("path")).
		AddColumn(&schema.Column{Name: "bytes", Type: field.TypeInt64, Default: 0}).
		AddColumn(&schema.Column{Name: "latency_ms", Type: field.TypeInt64, Default: 0}).
		AddColumn(&schema.Column{Name: "success", Type: field.TypeBool}).
		AddColumn(stringCol("error_message"))
	media.AddIndex("media_events_kind", false, []string{"kind"})

	llm := eventTable(tableLLMRequestEvents).
		AddColumn(stringCol("provider")).
		AddColumn(stringCol("model")).
		AddColumn(stringCol("purpose")).
		AddColumn(stringCol("subject")).
		AddColumn(intCol("input_tokens")).
		AddColumn(intCol("output_tokens")).
		AddColumn(&schema.Column{Name: "cost_usd", Type: field.TypeFloat64, Default: 0}).
		AddColumn(&schema.Column{Name: "latency_ms", Type: field.TypeInt64, Default: 0}).
		AddColumn(&schema.Column{Name: "success", Type: field.TypeBool}).
		AddColumn(stringCol("error_message")).
		AddColumn(textCol("request_body")).
		AddColumn(textCol("response_body"))
	llm.AddIndex("llm_request_events_purpose", false, []string{"purpose"})
	llm.AddIndex("llm_request_events_provider", false, []string{"provider"})
	llm.AddIndex("llm_request_events_subject", false, []string{"subject"})

	return []*schema.Table{snapshots, quiz, answers, badges, media, llm}
}

// eventTableNames lists tables wiped by Reset.
var eventTableNames = []string{
	tableQuizEvents,
	tableAnswerEvents,
	tableBadgeEvents,
	tableMediaEvents,
	tableLLMRequestEvents,
}
