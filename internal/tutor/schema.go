package tutor

import "github.com/abhisek/numinary/internal/llm"

// ExplanationSchema is the structured output of Explain.
var ExplanationSchema = &llm.Schema{
	Name:        "worked-explanation",
	Description: "Step by step solution of a short math practice problem",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"steps": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"minItems":    1,
				"maxItems":    6,
				"description": "Ordered solution steps, one short sentence or equation each",
			},
			"answer": map[string]any{
				"type":        "string",
				"description": "Final answer only, as a plain number",
			},
			"tip": map[string]any{
				"type":        "string",
				"description": "One sentence to remember for similar problems",
			},
		},
		"required":             []any{"steps", "answer", "tip"},
		"additionalProperties": false,
	},
}

// HintSchema is the structured output of Hint.
var HintSchema = &llm.Schema{
	Name:        "problem-hint",
	Description: "A single hint that does not give away the answer",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"hint": map[string]any{"type": "string"},
		},
		"required":             []any{"hint"},
		"additionalProperties": false,
	},
}
