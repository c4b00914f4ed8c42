// Package session holds the calculator workspace state machine: the input
// buffer, the bounded history, the current mode and problem, and progress.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/abhisek/numinary/internal/evaluator"
	"github.com/abhisek/numinary/internal/problemgen"
	"github.com/abhisek/numinary/internal/store"
	"github.com/google/uuid"
)

// MaxLessons is the size of the lesson shelf.
const MaxLessons = 5

// ErrorBuffer replaces the buffer after a failed calculation.
const ErrorBuffer = "Error"

// Evaluator evaluates an expression to a number.
type Evaluator interface {
	Evaluate(text string) (float64, error)
}

// ProblemGenerator produces practice problems.
type ProblemGenerator interface {
	Generate(topic problemgen.Topic) *problemgen.Problem
}

// Config holds the collaborators of a State. Only Generator is required.
type Config struct {
	Generator ProblemGenerator
	Evaluator Evaluator // defaults to evaluator.New()
	Persister Persister // defaults to an in-memory persister
	Notifier  Notifier  // defaults to discarding notifications

	// Events, when set, receives calculation, answer and session events.
	Events store.EventRepo

	// Namespace tags events from this session ("" for the local user).
	Namespace string
}

// State is one user's workspace. All methods are safe for concurrent use;
// each action runs to completion before the next starts.
type State struct {
	mu sync.Mutex

	gen       ProblemGenerator
	eval      Evaluator
	persister Persister
	notifier  Notifier
	events    store.EventRepo
	namespace string
	sessionID string
	started   time.Time

	buffer      string
	history     []HistoryEntry
	mode        Mode
	active      *problemgen.Problem
	progress    Progress
	lessons     []*problemgen.Problem
	topicFilter problemgen.Topic
}

// Outcome describes a submission. For answers, Correct and Expected report
// the verdict and Next is the follow-up practice problem, if any. For
// calculations only Expression and Result are set.
type Outcome struct {
	Mode       Mode
	Expression string
	Result     string
	Correct    bool
	Expected   string
	Problem    *problemgen.Problem
	Next       *problemgen.Problem

	// Milestone is the streak milestone this answer reached, or 0.
	Milestone int
}

// New builds a State and loads its snapshot. Load failures are logged and
// the session starts empty. A missing lesson shelf is seeded.
func New(ctx context.Context, cfg Config) *State {
	s := &State{
		gen:         cfg.Generator,
		eval:        cfg.Evaluator,
		persister:   cfg.Persister,
		notifier:    cfg.Notifier,
		events:      cfg.Events,
		namespace:   cfg.Namespace,
		sessionID:   uuid.NewString(),
		started:     time.Now(),
		mode:        ModeCalculate,
		topicFilter: problemgen.TopicAll,
	}
	if s.eval == nil {
		s.eval = evaluator.New()
	}
	if s.persister == nil {
		s.persister = NewMemoryPersister(Snapshot{})
	}
	if s.notifier == nil {
		s.notifier = nopNotifier{}
	}

	snap, err := s.persister.Load(ctx)
	if err != nil {
		log.Printf("session: load snapshot: %v", err)
	}
	s.history = snap.History
	if len(s.history) > MaxHistory {
		s.history = s.history[len(s.history)-MaxHistory:]
	}
	s.progress = snap.Progress
	if s.progress.Completed < 0 || s.progress.Streak < 0 {
		s.progress = Progress{}
	}
	s.lessons = snap.Lessons
	if s.lessons == nil {
		for range MaxLessons {
			s.lessons = append(s.lessons, s.gen.Generate(problemgen.TopicAll))
		}
		s.save()
	} else if len(s.lessons) > MaxLessons {
		s.lessons = s.lessons[len(s.lessons)-MaxLessons:]
	}

	s.recordSession(ctx, "start")
	return s
}

// SessionID returns the UUID of this session.
func (s *State) SessionID() string {
	return s.sessionID
}

// AppendToken appends v to the input buffer.
func (s *State) AppendToken(v string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buffer += v
}

// SetInput replaces the input buffer. Front-ends without per-key input
// use it before Submit.
func (s *State) SetInput(v string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buffer = v
}

// Backspace removes the last character of the buffer.
func (s *State) Backspace() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.buffer == "" {
		return
	}
	_, size := utf8.DecodeLastRuneInString(s.buffer)
	s.buffer = s.buffer[:len(s.buffer)-size]
}

// Clear empties the buffer and drops the active problem. The mode stays.
func (s *State) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buffer = ""
	s.active = nil
	s.notify(LevelInfo, MsgCleared)
}

// Calculate evaluates the buffer. On success the buffer holds the result
// and the calculation is added to the history. On failure the buffer reads
// "Error".
func (s *State) Calculate() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calculate()
}

func (s *State) calculate() (string, error) {
	if s.mode != ModeCalculate {
		s.notify(LevelError, MsgWrongMode)
		return "", fmt.Errorf("%w: calculate in %s mode", ErrWrongMode, s.mode)
	}
	expr := s.buffer
	if strings.TrimSpace(expr) == "" {
		s.notify(LevelError, MsgEnterExpression)
		return "", ErrEmptyInput
	}

	v, err := s.eval.Evaluate(expr)
	if err != nil {
		s.buffer = ErrorBuffer
		s.recordCalculation(expr, "", false)
		s.notify(LevelError, MsgInvalidExpression)
		return "", fmt.Errorf("%w: %w", ErrInvalidExpression, err)
	}

	result := evaluator.Format(v)
	s.buffer = result
	s.history = appendBounded(s.history, HistoryEntry{Expression: expr, Result: result}, MaxHistory)
	s.recordCalculation(expr, result, true)
	s.save()
	s.notify(LevelSuccess, MsgCalculated)
	return result, nil
}

// SubmitAnswer checks the buffer against the active problem. The answer
// is evaluated first, so "2*2" answers "4". An incorrect answer resets the
// streak and leaves the buffer for another try.
func (s *State) SubmitAnswer() (*Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitAnswer()
}

func (s *State) submitAnswer() (*Outcome, error) {
	given := s.buffer
	if s.active == nil || strings.TrimSpace(given) == "" {
		s.notify(LevelError, MsgEnterAnswer)
		if s.active == nil {
			return nil, fmt.Errorf("%w: no active problem", ErrEmptyInput)
		}
		return nil, ErrEmptyInput
	}

	v, err := s.eval.Evaluate(given)
	if err != nil {
		s.notify(LevelError, MsgInvalidInput)
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	result := evaluator.Format(v)

	p := s.active
	out := &Outcome{
		Mode:       s.mode,
		Expression: given,
		Result:     result,
		Expected:   p.Answer,
		Problem:    p,
		Correct:    problemgen.CheckAnswer(result, p.Answer),
	}

	if !out.Correct {
		s.progress.Streak = 0
		s.recordAnswer(p, given, false)
		s.save()
		s.notify(LevelError, IncorrectMessage(p.Answer))
		return out, nil
	}

	s.progress.Completed++
	s.progress.Streak++
	s.buffer = ""
	s.recordAnswer(p, given, true)

	switch s.mode {
	case ModePractice:
		s.active = s.gen.Generate(s.topicFilter)
		out.Next = s.active
	case ModeLearn:
		s.active = nil
		s.mode = ModeCalculate
		s.lessons = appendBounded(s.lessons, s.gen.Generate(s.topicFilter), MaxLessons)
	case ModeCalculate:
		// unreachable: Calculate mode never holds an active problem
	}
	s.save()

	s.notify(LevelSuccess, MsgCorrect)
	if IsStreakMilestone(s.progress.Streak) {
		out.Milestone = s.progress.Streak
		s.notify(LevelSuccess, StreakMessage(s.progress.Streak))
	}
	return out, nil
}

// Submit runs Calculate in Calculate mode and SubmitAnswer otherwise.
func (s *State) Submit() (*Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.mode {
	case ModeCalculate:
		expr := s.buffer
		result, err := s.calculate()
		if err != nil {
			return nil, err
		}
		return &Outcome{Mode: ModeCalculate, Expression: expr, Result: result}, nil
	case ModeLearn, ModePractice:
		return s.submitAnswer()
	}
	return nil, fmt.Errorf("%w: %s", ErrWrongMode, s.mode)
}

// StartLesson makes p the active problem in Learn mode. A nil p is ignored.
func (s *State) StartLesson(p *problemgen.Problem) {
	if p == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = p
	s.mode = ModeLearn
	s.buffer = ""
}

// StartLessonByID starts the shelf lesson with the given id.
func (s *State) StartLessonByID(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.lessons {
		if p.ID == id {
			s.active = p
			s.mode = ModeLearn
			s.buffer = ""
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownLesson, id)
}

// StartPractice generates a problem for filter and enters Practice mode.
// The filter is remembered for the problems that follow.
func (s *State) StartPractice(filter problemgen.Topic) *problemgen.Problem {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.topicFilter = normalizeFilter(filter)
	s.active = s.gen.Generate(s.topicFilter)
	s.mode = ModePractice
	s.buffer = ""
	return s.active
}

// SwitchMode changes mode, dropping the active problem and the buffer.
func (s *State) SwitchMode(m Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = m
	s.active = nil
	s.buffer = ""
}

// SetTopicFilter sets the topic used for practice and new lessons.
func (s *State) SetTopicFilter(t problemgen.Topic) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.topicFilter = normalizeFilter(t)
}

// GenerateLesson adds a lesson for the current topic filter to the shelf,
// evicting the oldest when full.
func (s *State) GenerateLesson() *problemgen.Problem {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.gen.Generate(s.topicFilter)
	s.lessons = appendBounded(s.lessons, p, MaxLessons)
	s.save()
	return p
}

// ExportHistory renders the history one "<expr> = <result>" per line.
func (s *State) ExportHistory() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ExportHistory(s.history)
}

// View is a read-only copy of the whole state.
type View struct {
	Buffer      string
	Mode        Mode
	Active      *problemgen.Problem
	TopicFilter problemgen.Topic
	History     []HistoryEntry
	Progress    Progress
	Lessons     []*problemgen.Problem
}

// View returns a copy of the current state.
func (s *State) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return View{
		Buffer:      s.buffer,
		Mode:        s.mode,
		Active:      s.active,
		TopicFilter: s.topicFilter,
		History:     append([]HistoryEntry(nil), s.history...),
		Progress:    s.progress,
		Lessons:     append([]*problemgen.Problem(nil), s.lessons...),
	}
}

// Snapshot returns the persisted part of the state.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *State) snapshot() Snapshot {
	return Snapshot{
		History:  append([]HistoryEntry{}, s.history...),
		Progress: s.progress,
		Lessons:  append([]*problemgen.Problem{}, s.lessons...),
	}
}

// Close records the end of the session.
func (s *State) Close(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recordSession(ctx, "end")
}

func (s *State) notify(level Level, msg string) {
	s.notifier.Notify(Notification{Level: level, Message: msg})
}

// save persists the snapshot. Failures are logged, never returned.
func (s *State) save() {
	if err := s.persister.Save(context.Background(), s.snapshot()); err != nil {
		log.Printf("session: save snapshot: %v", err)
	}
}

func (s *State) recordCalculation(expr, result string, ok bool) {
	if s.events == nil {
		return
	}
	err := s.events.AppendCalculation(context.Background(), store.CalculationEventData{
		Namespace:  s.namespace,
		Expression: expr,
		Result:     result,
		Success:    ok,
	})
	if err != nil {
		log.Printf("session: record calculation: %v", err)
	}
}

func (s *State) recordAnswer(p *problemgen.Problem, given string, correct bool) {
	if s.events == nil {
		return
	}
	err := s.events.AppendAnswer(context.Background(), store.AnswerEventData{
		Namespace: s.namespace,
		SessionID: s.sessionID,
		Mode:      s.mode.String(),
		ProblemID: p.ID,
		Topic:     string(p.Topic),
		Question:  p.Question,
		Expected:  p.Answer,
		Given:     given,
		Correct:   correct,
		Streak:    s.progress.Streak,
	})
	if err != nil {
		log.Printf("session: record answer: %v", err)
	}
}

func (s *State) recordSession(ctx context.Context, action string) {
	if s.events == nil {
		return
	}
	err := s.events.AppendSession(ctx, store.SessionEventData{
		Namespace:    s.namespace,
		SessionID:    s.sessionID,
		Action:       action,
		Completed:    s.progress.Completed,
		Streak:       s.progress.Streak,
		DurationSecs: int(time.Since(s.started).Seconds()),
	})
	if err != nil {
		log.Printf("session: record %s: %v", action, err)
	}
}

func normalizeFilter(t problemgen.Topic) problemgen.Topic {
	if t.Valid() {
		return t
	}
	return problemgen.TopicAll
}

// IsInputError reports whether err is one of the user-input errors this
// package returns, as opposed to an internal failure.
func IsInputError(err error) bool {
	return errors.Is(err, ErrEmptyInput) ||
		errors.Is(err, ErrInvalidExpression) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrWrongMode) ||
		errors.Is(err, ErrUnknownLesson)
}
