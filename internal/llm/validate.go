package llm

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

var errBadSchema = errors.New("schema does not compile")

// validate checks raw against the schema, compiling it on first use.
func (s *Schema) validate(raw json.RawMessage) error {
	s.once.Do(s.compile)
	if s.compileErr != nil {
		return s.compileErr
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("reply is not JSON: %w", err)
	}
	return s.compiled.Validate(doc)
}

func (s *Schema) compile() {
	def, err := json.Marshal(s.Definition)
	if err != nil {
		s.compileErr = fmt.Errorf("%w: %v", errBadSchema, err)
		return
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(def))
	if err != nil {
		s.compileErr = fmt.Errorf("%w: %v", errBadSchema, err)
		return
	}

	name := s.Name
	if name == "" {
		name = "reply"
	}
	url := "schema://" + name + ".json"

	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, doc); err != nil {
		s.compileErr = fmt.Errorf("%w: %v", errBadSchema, err)
		return
	}
	if s.compiled, err = c.Compile(url); err != nil {
		s.compileErr = fmt.Errorf("%w: %v", errBadSchema, err)
	}
}
