package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// QuizEvent records a quiz starting, finishing or being abandoned.
type QuizEvent struct {
	ent.Schema
}

func (QuizEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (QuizEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id").
			NotEmpty(),
		field.String("subject"),
		field.Enum("action").
			Values("start", "complete", "abandon"),
		field.Int("score").
			Default(0),
		field.Int("questions").
			Default(0),
		field.Int("xp_gained").
			Default(0),
		field.Int("new_streak").
			Default(0).
			Comment("Streak carried into the next quiz"),
		field.Float("multiplier").
			Default(1.0),
		field.String("level").
			Default("").
			Comment("Level name after the quiz was applied"),
	}
}

func (QuizEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("session_id"),
		index.Fields("action"),
	}
}
