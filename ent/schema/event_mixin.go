package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
	"entgo.io/ent/schema/mixin"
)

// EventMixin provides the sequence and timestamp shared by every event.
type EventMixin struct {
	mixin.Schema
}

func (EventMixin) Fields() []ent.Field {
	return []ent.Field{
		field.Int64("sequence").
			Unique().
			Immutable().
			Comment("Global sequence number, never reused after a reset"),
		field.Time("timestamp").
			Default(time.Now).
			Immutable().
			Comment("UTC wall-clock time of the event"),
	}
}

func (EventMixin) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("sequence").Unique(),
		index.Fields("timestamp"),
	}
}

// All returns every schema in the order the store creates its tables.
func All() []ent.Interface {
	return []ent.Interface{
		ProgressSnapshot{},
		QuizEvent{},
		AnswerEvent{},
		BadgeEvent{},
		MediaEvent{},
		LLMRequestEvent{},
	}
}
