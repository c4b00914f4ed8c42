package tutor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/abhisek/numinary/internal/llm"
	"github.com/abhisek/numinary/internal/problemgen"
)

var (
	// ErrNoProblem is returned when there is no active problem to talk about.
	ErrNoProblem = errors.New("tutor: no active problem")

	// ErrHintRevealsAnswer is returned when the model's hint gives the answer away.
	ErrHintRevealsAnswer = errors.New("tutor: hint reveals the answer")
)

var numberPattern = regexp.MustCompile(`-?\d+(?:\.\d+)?`)

// Service asks a language model to explain practice problems.
type Service struct {
	provider llm.Provider
	cfg      Config

	mu    sync.Mutex
	cache map[string]*Explanation
	order []string
}

func NewService(provider llm.Provider, cfg Config) *Service {
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = 1
	}
	return &Service{provider: provider, cfg: cfg, cache: make(map[string]*Explanation)}
}

// Provider returns the model the service talks to.
func (s *Service) Provider() llm.Provider { return s.provider }

// Explain returns a worked solution for p. Results are cached by problem id.
func (s *Service) Explain(ctx context.Context, p *problemgen.Problem) (*Explanation, error) {
	if p == nil {
		return nil, ErrNoProblem
	}
	if e := s.cached(p.ID); e != nil {
		return e, nil
	}

	ctx, cancel := s.withTimeout(llm.WithPurpose(ctx, llm.PurposeExplain))
	defer cancel()

	req := llm.UserPrompt(explainSystemPrompt, explainPrompt(*p), ExplanationSchema, s.cfg.ExplainMaxTokens)
	req.Temperature = s.cfg.Temperature
	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("explain %q: %w", p.Question, err)
	}

	var out struct {
		Steps  []string `json:"steps"`
		Answer string   `json:"answer"`
		Tip    string   `json:"tip"`
	}
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("explain %q: decode: %w", p.Question, err)
	}

	e := &Explanation{
		ProblemID: p.ID,
		Steps:     out.Steps,
		Answer:    strings.TrimSpace(out.Answer),
		Tip:       strings.TrimSpace(out.Tip),
		Agrees:    problemgen.CheckAnswer(out.Answer, p.Answer),
	}
	s.remember(e)
	return e, nil
}

// Hint returns one nudge for p. attempt is the student's last wrong answer
// and may be empty. Hints are not cached.
func (s *Service) Hint(ctx context.Context, p *problemgen.Problem, attempt string) (*Hint, error) {
	if p == nil {
		return nil, ErrNoProblem
	}

	ctx, cancel := s.withTimeout(llm.WithPurpose(ctx, llm.PurposeHint))
	defer cancel()

	req := llm.UserPrompt(hintSystemPrompt, hintPrompt(*p, attempt), HintSchema, s.cfg.HintMaxTokens)
	req.Temperature = s.cfg.Temperature
	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("hint %q: %w", p.Question, err)
	}

	var out struct {
		Hint string `json:"hint"`
	}
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("hint %q: decode: %w", p.Question, err)
	}
	if revealsAnswer(out.Hint, p) {
		return nil, ErrHintRevealsAnswer
	}
	return &Hint{ProblemID: p.ID, Text: strings.TrimSpace(out.Hint)}, nil
}

// revealsAnswer reports whether text contains a number equal to the answer
// that the question itself does not already show.
func revealsAnswer(text string, p *problemgen.Problem) bool {
	shown := make(map[string]bool)
	for _, n := range numberPattern.FindAllString(p.Question, -1) {
		shown[strings.TrimPrefix(n, "-")] = true
	}
	for _, n := range numberPattern.FindAllString(text, -1) {
		if shown[strings.TrimPrefix(n, "-")] {
			continue
		}
		if problemgen.CheckAnswer(n, p.Answer) {
			return true
		}
	}
	return false
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.cfg.Timeout)
}

func (s *Service) cached(id string) *Explanation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache[id]
}

func (s *Service) remember(e *Explanation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cache[e.ProblemID]; ok {
		return
	}
	if len(s.order) >= s.cfg.CacheSize {
		delete(s.cache, s.order[0])
		s.order = s.order[1:]
	}
	s.cache[e.ProblemID] = e
	s.order = append(s.order, e.ProblemID)
}
