package store

import (
	"context"
	"database/sql"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

// sumTrue counts rows where a boolean column is set. Works for SQLite
// integers and PostgreSQL booleans alike.
func sumTrue(col string) string {
	return fmt.Sprintf("COALESCE(SUM(CASE WHEN %s THEN 1 ELSE 0 END), 0)", col)
}

func (r *eventRepo) Stats(ctx context.Context, namespace *string) (*Stats, error) {
	var st Stats

	where := func(sel *entsql.Selector) *entsql.Selector {
		if namespace != nil {
			return sel.Where(entsql.EQ("namespace", *namespace))
		}
		return sel
	}
	scalar := func(sel *entsql.Selector, dest ...any) error {
		query, args := sel.Query()
		return r.db.QueryRowContext(ctx, query, args...).Scan(dest...)
	}

	var ok int
	err := scalar(where(r.b.Select(entsql.Count("*"), sumTrue("success")).
		From(entsql.Table(CalculationEventsTable.Name))), &st.Calculations, &ok)
	if err != nil {
		return nil, fmt.Errorf("count calculations: %w", err)
	}
	st.FailedCalculations = st.Calculations - ok

	err = scalar(where(r.b.Select(entsql.Count("*"), sumTrue("correct")).
		From(entsql.Table(AnswerEventsTable.Name))), &st.Answers, &st.CorrectAnswers)
	if err != nil {
		return nil, fmt.Errorf("count answers: %w", err)
	}

	err = scalar(where(r.b.Select(entsql.Count("*")).
		From(entsql.Table(SessionEventsTable.Name)).
		Where(entsql.EQ("action", "start"))), &st.Sessions)
	if err != nil {
		return nil, fmt.Errorf("count sessions: %w", err)
	}

	err = scalar(r.b.Select(entsql.Count("*")).
		From(entsql.Table(LlmRequestEventsTable.Name)), &st.LLMRequests)
	if err != nil {
		return nil, fmt.Errorf("count LLM requests: %w", err)
	}

	topics, err := r.topicStats(ctx, where(r.b.Select("topic", entsql.Count("*"), sumTrue("correct")).
		From(entsql.Table(AnswerEventsTable.Name)).
		GroupBy("topic").
		OrderBy("topic")))
	if err != nil {
		return nil, fmt.Errorf("topic stats: %w", err)
	}
	st.Topics = topics

	return &st, nil
}

func (r *eventRepo) topicStats(ctx context.Context, sel *entsql.Selector) ([]TopicStats, error) {
	var out []TopicStats
	err := r.scanEvents(ctx, sel, func(rows *sql.Rows) error {
		var t TopicStats
		if err := rows.Scan(&t.Topic, &t.Answered, &t.Correct); err != nil {
			return err
		}
		out = append(out, t)
		return nil
	})
	return out, err
}
