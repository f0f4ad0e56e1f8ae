// Package content loads question sets for timed assessments from JSON
// files.
package content

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/abhisek/fluentz/internal/assessment"
)

// QuestionSet is one assessment's worth of questions.
type QuestionSet struct {
	Kind            assessment.Kind       `json:"kind"`
	Title           string                `json:"title,omitempty"`
	DurationSeconds int                   `json:"duration_seconds"`
	Questions       []assessment.Question `json:"questions"`
}

const schemaURL = "schema://question-set.json"

const questionSetSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["kind", "duration_seconds", "questions"],
  "properties": {
    "kind": {"enum": ["exam", "listening", "reading", "ordering"]},
    "title": {"type": "string"},
    "duration_seconds": {"type": "integer", "minimum": 1},
    "questions": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["ordinal", "prompt", "options", "correct_key", "category"],
        "properties": {
          "ordinal": {"type": "integer", "minimum": 1},
          "prompt": {"type": "string"},
          "passage": {"type": "string"},
          "category": {"type": "string", "minLength": 1},
          "correct_key": {"type": "string", "minLength": 1},
          "options": {
            "type": "array",
            "minItems": 1,
            "items": {
              "type": "object",
              "required": ["key", "text"],
              "properties": {
                "key": {"type": "string", "minLength": 1},
                "text": {"type": "string"}
              }
            }
          }
        }
      }
    }
  }
}`

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(questionSetSchema))
	if err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, doc); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	return c.Compile(schemaURL)
})

// Parse decodes and validates a question set. Every validation failure
// wraps assessment.ErrInvalidInput.
func Parse(data []byte) (*QuestionSet, error) {
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid JSON: %v", assessment.ErrInvalidInput, err)
	}

	schema, err := compiledSchema()
	if err != nil {
		return nil, fmt.Errorf("compile question set schema: %w", err)
	}
	if err := schema.Validate(inst); err != nil {
		return nil, fmt.Errorf("%w: schema validation failed: %v", assessment.ErrInvalidInput, err)
	}

	var set QuestionSet
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("%w: decode question set: %v", assessment.ErrInvalidInput, err)
	}
	if err := assessment.ValidateQuestions(set.Questions); err != nil {
		return nil, err
	}
	return &set, nil
}

// LoadFile reads and parses a question set from path.
func LoadFile(path string) (*QuestionSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read question set: %w", err)
	}
	set, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return set, nil
}
