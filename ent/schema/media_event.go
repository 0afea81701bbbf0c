package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// MediaEvent records a speech or artwork generation attempt.
type MediaEvent struct {
	ent.Schema
}

func (MediaEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (MediaEvent) Fields() []ent.Field {
	return []ent.Field{
		field.Enum("kind").
			Values("speech", "artwork"),
		field.String("backend"),
		field.Text("subject").
			Comment("Spoken text or badge id"),
		field.String("path").
			Default(""),
		field.Int64("bytes").
			Default(0),
		field.Int64("latency_ms").
			Default(0),
		field.Bool("success"),
		field.String("error_message").
			Default(""),
	}
}

func (MediaEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("kind"),
	}
}
