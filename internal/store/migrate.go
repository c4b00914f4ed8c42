package store

import (
	"context"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

var (
	// KVEntriesColumns holds the columns for the "kv_entries" table.
	KVEntriesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "key", Type: field.TypeString, Unique: true, Size: 255},
		{Name: "value", Type: field.TypeJSON},
		{Name: "updated_at", Type: field.TypeTime},
	}
	// KVEntriesTable holds the schema information for the "kv_entries" table.
	KVEntriesTable = &schema.Table{
		Name:       "kv_entries",
		Columns:    KVEntriesColumns,
		PrimaryKey: []*schema.Column{KVEntriesColumns[0]},
	}

	// CalculationEventsColumns holds the columns for the "calculation_events" table.
	CalculationEventsColumns = eventColumns(
		&schema.Column{Name: "expression", Type: field.TypeString, Size: 2147483647},
		&schema.Column{Name: "result", Type: field.TypeString, Default: ""},
		&schema.Column{Name: "success", Type: field.TypeBool},
	)
	// CalculationEventsTable holds the schema information for the "calculation_events" table.
	CalculationEventsTable = eventTable("calculation_events", CalculationEventsColumns)

	// AnswerEventsColumns holds the columns for the "answer_events" table.
	AnswerEventsColumns = eventColumns(
		&schema.Column{Name: "session_id", Type: field.TypeString},
		&schema.Column{Name: "mode", Type: field.TypeString},
		&schema.Column{Name: "problem_id", Type: field.TypeString},
		&schema.Column{Name: "topic", Type: field.TypeString},
		&schema.Column{Name: "question", Type: field.TypeString, Size: 2147483647},
		&schema.Column{Name: "expected", Type: field.TypeString},
		&schema.Column{Name: "given", Type: field.TypeString},
		&schema.Column{Name: "correct", Type: field.TypeBool},
		&schema.Column{Name: "streak", Type: field.TypeInt, Default: 0},
	)
	// AnswerEventsTable holds the schema information for the "answer_events" table.
	AnswerEventsTable = eventTable("answer_events", AnswerEventsColumns, "topic", "session_id")

	// SessionEventsColumns holds the columns for the "session_events" table.
	SessionEventsColumns = eventColumns(
		&schema.Column{Name: "session_id", Type: field.TypeString},
		&schema.Column{Name: "action", Type: field.TypeString},
		&schema.Column{Name: "completed", Type: field.TypeInt, Default: 0},
		&schema.Column{Name: "streak", Type: field.TypeInt, Default: 0},
		&schema.Column{Name: "duration_secs", Type: field.TypeInt, Default: 0},
	)
	// SessionEventsTable holds the schema information for the "session_events" table.
	SessionEventsTable = eventTable("session_events", SessionEventsColumns, "session_id")

	// LlmRequestEventsColumns holds the columns for the "llm_request_events" table.
	LlmRequestEventsColumns = eventColumns(
		&schema.Column{Name: "provider", Type: field.TypeString},
		&schema.Column{Name: "model", Type: field.TypeString},
		&schema.Column{Name: "purpose", Type: field.TypeString},
		&schema.Column{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		&schema.Column{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		&schema.Column{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		&schema.Column{Name: "success", Type: field.TypeBool},
		&schema.Column{Name: "error_message", Type: field.TypeString, Default: ""},
		&schema.Column{Name: "request_body", Type: field.TypeString, Size: 2147483647, Default: ""},
		&schema.Column{Name: "response_body", Type: field.TypeString, Size: 2147483647, Default: ""},
	)
	// LlmRequestEventsTable holds the schema information for the "llm_request_events" table.
	LlmRequestEventsTable = eventTable("llm_request_events", LlmRequestEventsColumns, "purpose")

	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		KVEntriesTable,
		CalculationEventsTable,
		AnswerEventsTable,
		SessionEventsTable,
		LlmRequestEventsTable,
	}
)

// eventColumns prepends the columns every event table shares: the row id,
// the global sequence number, a UTC timestamp and the namespace of the
// session that produced the event.
func eventColumns(cols ...*schema.Column) []*schema.Column {
	return append([]*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "namespace", Type: field.TypeString, Default: ""},
	}, cols...)
}

func eventTable(name string, cols []*schema.Column, indexed ...string) *schema.Table {
	t := &schema.Table{
		Name:       name,
		Columns:    cols,
		PrimaryKey: []*schema.Column{cols[0]},
		Indexes: []*schema.Index{
			{Name: name + "_timestamp", Columns: []*schema.Column{cols[2]}},
			{Name: name + "_namespace", Columns: []*schema.Column{cols[3]}},
		},
	}
	for _, colName := range indexed {
		for _, c := range cols {
			if c.Name == colName {
				t.Indexes = append(t.Indexes, &schema.Index{
					Name:    name + "_" + colName,
					Columns: []*schema.Column{c},
				})
			}
		}
	}
	return t
}

// migrate creates missing tables, columns and indexes.
func migrate(ctx context.Context, drv dialect.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return err
	}
	return m.Create(ctx, Tables...)
}
