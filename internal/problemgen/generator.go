package problemgen

import (
	"fmt"
	"log"
	"math/rand/v2"
	"sync"

	"github.com/abhisek/numinary/internal/evaluator"
	"github.com/google/uuid"
)

// Evaluator evaluates an expression to a number.
type Evaluator interface {
	Evaluate(text string) (float64, error)
}

var (
	arithmeticOps = []string{"+", "-", "*"}
	trigAngles    = []int{0, 30, 45, 60, 90}
	trigFuncs     = []string{"sin", "cos"}
)

// Generator produces practice problems from fixed templates. It holds no
// state besides its random source and is safe for concurrent use.
type Generator struct {
	eval Evaluator

	mu  sync.Mutex
	rng *rand.Rand
}

// New returns a Generator drawing from rng. A nil rng means a randomly
// seeded source; a nil eval means the shared evaluator.
func New(rng *rand.Rand, eval Evaluator) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if eval == nil {
		eval = evaluator.New()
	}
	return &Generator{eval: eval, rng: rng}
}

// NewSeeded returns a Generator whose sequence of problems is fully
// determined by seed.
func NewSeeded(seed uint64, eval Evaluator) *Generator {
	return New(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)), eval)
}

// Generate returns a new problem for topic. TopicAll (or any unknown
// topic) picks one of the concrete topics uniformly.
func (g *Generator) Generate(topic Topic) *Problem {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !topic.Valid() {
		topics := Topics()
		topic = topics[g.rng.IntN(len(topics))]
	}

	var (
		p   *Problem
		err error
	)
	switch topic {
	case TopicArithmetic:
		p, err = g.arithmetic()
	case TopicAlgebra:
		p = g.algebra()
	case TopicTrigonometry:
		p, err = g.trigonometry()
	}
	if err != nil {
		log.Printf("problemgen: %s template failed, using fallback: %v", topic, err)
		return Fallback()
	}
	p.ID = uuid.NewString()
	p.Topic = topic
	p.Title = topic.Title()
	return p
}

// GenerateN returns n problems for topic.
func (g *Generator) GenerateN(topic Topic, n int) []*Problem {
	out := make([]*Problem, 0, n)
	for range n {
		out = append(out, g.Generate(topic))
	}
	return out
}

// between returns a uniform integer in [lo, hi].
func (g *Generator) between(lo, hi int) int {
	return lo + g.rng.IntN(hi-lo+1)
}

func (g *Generator) arithmetic() (*Problem, error) {
	a := g.between(1, 10)
	d := g.between(1, 10)
	op := arithmeticOps[g.rng.IntN(len(arithmeticOps))]

	expr := fmt.Sprintf("%d %s %d", a, op, d)
	v, err := g.eval.Evaluate(expr)
	if err != nil {
		return nil, err
	}
	return &Problem{
		Question: "Solve: " + expr,
		Answer:   evaluator.Format(v),
	}, nil
}

func (g *Generator) algebra() *Problem {
	x := g.between(1, 10)
	b := g.between(1, 10)
	c := g.between(-10, 9)
	return &Problem{
		Question: "Solve for x: " + linearEquation(b, c, b*x+c),
		Answer:   fmt.Sprint(x),
	}
}

// linearEquation renders bx + c = rhs with a negative c folded into the
// operator.
func linearEquation(b, c, rhs int) string {
	if c < 0 {
		return fmt.Sprintf("%dx - %d = %d", b, -c, rhs)
	}
	return fmt.Sprintf("%dx + %d = %d", b, c, rhs)
}

func (g *Generator) trigonometry() (*Problem, error) {
	angle := trigAngles[g.rng.IntN(len(trigAngles))]
	fn := trigFuncs[g.rng.IntN(len(trigFuncs))]

	v, err := g.eval.Evaluate(trigExpression(fn, angle))
	if err != nil {
		return nil, err
	}
	return &Problem{
		Question: fmt.Sprintf("Find: %s(%d°)", fn, angle),
		Answer:   evaluator.FormatFixed(v),
	}, nil
}

func trigExpression(fn string, angle int) string {
	return fmt.Sprintf("%s(%d * pi / 180)", fn, angle)
}

// Fallback returns the problem used when a template cannot be evaluated.
func Fallback() *Problem {
	return &Problem{
		ID:       uuid.NewString(),
		Topic:    TopicArithmetic,
		Title:    TopicArithmetic.Title(),
		Question: "Solve: 2 + 2",
		Answer:   "4",
	}
}
