package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit     int       // max results (0 = unlimited)
	After     int64     // sequence > After
	Before    int64     // sequence < Before
	From      time.Time // timestamp >= From
	To        time.Time // timestamp <= To
	Namespace *string   // exact namespace match when non-nil
}

// KVRepo stores small JSON documents under string keys.
type KVRepo interface {
	// Get returns the raw value for key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Set inserts or replaces the value for key.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// DeletePrefix removes every key starting with prefix and returns the
	// number of keys removed.
	DeletePrefix(ctx context.Context, prefix string) (int64, error)

	// Keys lists the keys starting with prefix in lexical order.
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// CalculationEventData captures one calculator evaluation.
type CalculationEventData struct {
	Namespace  string
	Expression string
	Result     string
	Success    bool
}

// AnswerEventData captures one submitted answer.
type AnswerEventData struct {
	Namespace string
	SessionID string
	Mode      string
	ProblemID string
	Topic     string
	Question  string
	Expected  string
	Given     string
	Correct   bool
	Streak    int
}

// SessionEventData captures a session start or end.
type SessionEventData struct {
	Namespace    string
	SessionID    string
	Action       string // "start" or "end"
	Completed    int
	Streak       int
	DurationSecs int
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// EventMeta holds the fields every stored event carries.
type EventMeta struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
}

// CalculationEvent is a stored calculation.
type CalculationEvent struct {
	EventMeta
	CalculationEventData
}

// AnswerEvent is a stored answer submission.
type AnswerEvent struct {
	EventMeta
	AnswerEventData
}

// LLMRequestEvent is a stored LLM request.
type LLMRequestEvent struct {
	EventMeta
	LLMRequestEventData
}

// TopicStats aggregates answers for one topic.
type TopicStats struct {
	Topic    string
	Answered int
	Correct  int
}

// Accuracy returns Correct/Answered, or 0 when nothing was answered.
func (t TopicStats) Accuracy() float64 {
	if t.Answered == 0 {
		return 0
	}
	return float64(t.Correct) / float64(t.Answered)
}

// Stats summarizes the event log.
type Stats struct {
	Calculations       int
	FailedCalculations int
	Answers            int
	CorrectAnswers     int
	Sessions           int
	LLMRequests        int
	Topics             []TopicStats
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	AppendCalculation(ctx context.Context, data CalculationEventData) error
	AppendAnswer(ctx context.Context, data AnswerEventData) error
	AppendSession(ctx context.Context, data SessionEventData) error

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// Query methods return events newest first.
	QueryCalculations(ctx context.Context, opts QueryOpts) ([]CalculationEvent, error)
	QueryAnswers(ctx context.Context, opts QueryOpts) ([]AnswerEvent, error)
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)

	// GetLLMEvent returns the LLM event with id, or nil if there is none.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEvent, error)

	// Stats aggregates the whole log, or one namespace when namespace
	// is non-nil.
	Stats(ctx context.Context, namespace *string) (*Stats, error)
}
