package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// eventRepo implements EventRepo on the event tables and the global
// sequence counter.
type eventRepo struct {
	db  *sql.DB
	b   *entsql.DialectBuilder
	seq *sequenceCounter
}

// insert stamps the row with the next sequence number and the current
// time and inserts it.
func (r *eventRepo) insert(ctx context.Context, table string, namespace *string, cols []string, vals []any) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	allCols := append([]string{"sequence", "timestamp"}, cols...)
	allVals := append([]any{seqNum, time.Now().UTC()}, vals...)
	if namespace != nil {
		allCols = append(allCols, "namespace")
		allVals = append(allVals, *namespace)
	}

	query, args := r.b.Insert(table).Columns(allCols...).Values(allVals...).Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert into %s: %w", table, err)
	}
	return nil
}

func (r *eventRepo) AppendCalculation(ctx context.Context, data CalculationEventData) error {
	err := r.insert(ctx, CalculationEventsTable.Name, &data.Namespace,
		[]string{"expression", "result", "success"},
		[]any{data.Expression, data.Result, data.Success},
	)
	if err != nil {
		return fmt.Errorf("save calculation event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendAnswer(ctx context.Context, data AnswerEventData) error {
	err := r.insert(ctx, AnswerEventsTable.Name, &data.Namespace,
		[]string{"session_id", "mode", "problem_id", "topic", "question", "expected", "given", "correct", "streak"},
		[]any{data.SessionID, data.Mode, data.ProblemID, data.Topic, data.Question, data.Expected, data.Given, data.Correct, data.Streak},
	)
	if err != nil {
		return fmt.Errorf("save answer event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendSession(ctx context.Context, data SessionEventData) error {
	err := r.insert(ctx, SessionEventsTable.Name, &data.Namespace,
		[]string{"session_id", "action", "completed", "streak", "duration_secs"},
		[]any{data.SessionID, data.Action, data.Completed, data.Streak, data.DurationSecs},
	)
	if err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	err := r.insert(ctx, LlmRequestEventsTable.Name, nil,
		[]string{"provider", "model", "purpose", "input_tokens", "output_tokens", "latency_ms", "success", "error_message", "request_body", "response_body"},
		[]any{data.Provider, data.Model, data.Purpose, data.InputTokens, data.OutputTokens, data.LatencyMs, data.Success, data.ErrorMessage, data.RequestBody, data.ResponseBody},
	)
	if err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

// selectEvents builds a newest-first query over table honoring opts.
func (r *eventRepo) selectEvents(table string, opts QueryOpts, cols ...string) *entsql.Selector {
	t := entsql.Table(table)
	sel := r.b.Select(append([]string{"id", "sequence", "timestamp"}, cols...)...).
		From(t).
		OrderExprFunc(func(b *entsql.Builder) {
			b.Ident("sequence").WriteString(" DESC")
		})

	var preds []*entsql.Predicate
	if opts.After > 0 {
		preds = append(preds, entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		preds = append(preds, entsql.LT("sequence", opts.Before))
	}
	if !opts.From.IsZero() {
		preds = append(preds, entsql.GTE("timestamp", opts.From.UTC()))
	}
	if !opts.To.IsZero() {
		preds = append(preds, entsql.LTE("timestamp", opts.To.UTC()))
	}
	if opts.Namespace != nil {
		preds = append(preds, entsql.EQ("namespace", *opts.Namespace))
	}
	if len(preds) > 0 {
		sel = sel.Where(entsql.And(preds...))
	}
	if opts.Limit > 0 {
		sel = sel.Limit(opts.Limit)
	}
	return sel
}

// scanEvents runs sel and calls scan for every row.
func (r *eventRepo) scanEvents(ctx context.Context, sel *entsql.Selector, scan func(*sql.Rows) error) error {
	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (r *eventRepo) QueryCalculations(ctx context.Context, opts QueryOpts) ([]CalculationEvent, error) {
	sel := r.selectEvents(CalculationEventsTable.Name, opts, "namespace", "expression", "result", "success")

	var out []CalculationEvent
	err := r.scanEvents(ctx, sel, func(rows *sql.Rows) error {
		var e CalculationEvent
		if err := rows.Scan(&e.ID, &e.Sequence, &e.Timestamp,
			&e.Namespace, &e.Expression, &e.Result, &e.Success); err != nil {
			return err
		}
		out = append(out, e)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query calculation events: %w", err)
	}
	return out, nil
}

func (r *eventRepo) QueryAnswers(ctx context.Context, opts QueryOpts) ([]AnswerEvent, error) {
	sel := r.selectEvents(AnswerEventsTable.Name, opts,
		"namespace", "session_id", "mode", "problem_id", "topic", "question", "expected", "given", "correct", "streak")

	var out []AnswerEvent
	err := r.scanEvents(ctx, sel, func(rows *sql.Rows) error {
		var e AnswerEvent
		if err := rows.Scan(&e.ID, &e.Sequence, &e.Timestamp,
			&e.Namespace, &e.SessionID, &e.Mode, &e.ProblemID, &e.Topic,
			&e.Question, &e.Expected, &e.Given, &e.Correct, &e.Streak); err != nil {
			return err
		}
		out = append(out, e)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query answer events: %w", err)
	}
	return out, nil
}

var llmEventColumns = []string{
	"provider", "model", "purpose", "input_tokens", "output_tokens", "latency_ms", "success", "error_message",
	"request_body", "response_body",
}

func scanLLMEvent(rows *sql.Rows) (LLMRequestEvent, error) {
	var e LLMRequestEvent
	err := rows.Scan(&e.ID, &e.Sequence, &e.Timestamp,
		&e.Provider, &e.Model, &e.Purpose, &e.InputTokens, &e.OutputTokens,
		&e.LatencyMs, &e.Success, &e.ErrorMessage, &e.RequestBody, &e.ResponseBody)
	return e, err
}

func (r *eventRepo) QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error) {
	sel := r.selectEvents(LlmRequestEventsTable.Name, opts, llmEventColumns...)

	var out []LLMRequestEvent
	err := r.scanEvents(ctx, sel, func(rows *sql.Rows) error {
		e, err := scanLLMEvent(rows)
		if err != nil {
			return err
		}
		out = append(out, e)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query LLM events: %w", err)
	}
	return out, nil
}

func (r *eventRepo) GetLLMEvent(ctx context.Context, id int) (*LLMRequestEvent, error) {
	sel := r.selectEvents(LlmRequestEventsTable.Name, QueryOpts{Limit: 1}, llmEventColumns...).
		Where(entsql.EQ("id", id))

	var out *LLMRequestEvent
	err := r.scanEvents(ctx, sel, func(rows *sql.Rows) error {
		e, err := scanLLMEvent(rows)
		if err != nil {
			return err
		}
		out = &e
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("get LLM event %d: %w", id, err)
	}
	return out, nil
}
