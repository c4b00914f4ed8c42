package problemgen

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/abhisek/numinary/internal/evaluator"
)

func TestGenerate_Arithmetic(t *testing.T) {
	gen := NewSeeded(1, nil)
	re := regexp.MustCompile(`^Solve: (\d+) ([+\-*]) (\d+)$`)

	for i := 0; i < 200; i++ {
		p := gen.Generate(TopicArithmetic)
		m := re.FindStringSubmatch(p.Question)
		if m == nil {
			t.Fatalf("Question = %q, want arithmetic format", p.Question)
		}
		a, _ := strconv.Atoi(m[1])
		d, _ := strconv.Atoi(m[3])
		if a < 1 || a > 10 || d < 1 || d > 10 {
			t.Errorf("operands %d, %d out of [1,10]", a, d)
		}

		var want int
		switch m[2] {
		case "+":
			want = a + d
		case "-":
			want = a - d
		case "*":
			want = a * d
		}
		if p.Answer != strconv.Itoa(want) {
			t.Errorf("%s: Answer = %q, want %d", p.Question, p.Answer, want)
		}
		if p.Title != "Arithmetic" || p.Topic != TopicArithmetic {
			t.Errorf("Topic/Title = %s/%s", p.Topic, p.Title)
		}
	}
}

func TestGenerate_Algebra(t *testing.T) {
	gen := NewSeeded(2, nil)
	re := regexp.MustCompile(`^Solve for x: (\d+)x ([+-]) (\d+) = (-?\d+)$`)

	for i := 0; i < 200; i++ {
		p := gen.Generate(TopicAlgebra)
		m := re.FindStringSubmatch(p.Question)
		if m == nil {
			t.Fatalf("Question = %q, want linear equation format", p.Question)
		}
		b, _ := strconv.Atoi(m[1])
		c, _ := strconv.Atoi(m[3])
		if m[2] == "-" {
			c = -c
		}
		rhs, _ := strconv.Atoi(m[4])
		x, err := strconv.Atoi(p.Answer)
		if err != nil {
			t.Fatalf("Answer %q is not an integer", p.Answer)
		}

		if x < 1 || x > 10 || b < 1 || b > 10 || c < -10 || c > 9 {
			t.Errorf("%s: parameters out of range (x=%d b=%d c=%d)", p.Question, x, b, c)
		}
		if b*x+c != rhs {
			t.Errorf("%s: %d*%d + %d != %d", p.Question, b, x, c, rhs)
		}
		if p.Title != "Linear Equations" {
			t.Errorf("Title = %q, want Linear Equations", p.Title)
		}
	}
}

func TestLinearEquation(t *testing.T) {
	tests := []struct {
		b, c, rhs int
		want      string
	}{
		{3, 4, 10, "3x + 4 = 10"},
		{3, -4, 2, "3x - 4 = 2"},
		{3, 0, 3, "3x + 0 = 3"},
		{1, -10, -9, "1x - 10 = -9"},
	}
	for _, tt := range tests {
		if got := linearEquation(tt.b, tt.c, tt.rhs); got != tt.want {
			t.Errorf("linearEquation(%d, %d, %d) = %q, want %q", tt.b, tt.c, tt.rhs, got, tt.want)
		}
	}
}

func TestGenerate_Trigonometry(t *testing.T) {
	gen := NewSeeded(3, nil)
	re := regexp.MustCompile(`^Find: (sin|cos)\((0|30|45|60|90)°\)$`)
	fixed := regexp.MustCompile(`^-?\d+\.\d{4}$`)

	want := map[string]string{
		"sin(0°)": "0.0000", "sin(30°)": "0.5000", "sin(45°)": "0.7071",
		"sin(60°)": "0.8660", "sin(90°)": "1.0000",
		"cos(0°)": "1.0000", "cos(30°)": "0.8660", "cos(45°)": "0.7071",
		"cos(60°)": "0.5000", "cos(90°)": "0.0000",
	}

	for i := 0; i < 200; i++ {
		p := gen.Generate(TopicTrigonometry)
		if !re.MatchString(p.Question) {
			t.Fatalf("Question = %q, want trig format", p.Question)
		}
		if !fixed.MatchString(p.Answer) {
			t.Errorf("Answer = %q, want four decimals", p.Answer)
		}
		key := strings.TrimPrefix(p.Question, "Find: ")
		if p.Answer != want[key] {
			t.Errorf("%s: Answer = %q, want %q", key, p.Answer, want[key])
		}
	}
}

func TestGenerate_AllCoversEveryTopic(t *testing.T) {
	gen := NewSeeded(4, nil)
	seen := map[Topic]int{}
	for i := 0; i < 300; i++ {
		p := gen.Generate(TopicAll)
		if !p.Topic.Valid() {
			t.Fatalf("Topic = %q, want a concrete topic", p.Topic)
		}
		seen[p.Topic]++
	}
	for _, topic := range Topics() {
		if seen[topic] < 50 {
			t.Errorf("topic %s generated %d times out of 300", topic, seen[topic])
		}
	}
}

func TestGenerate_UniqueIDs(t *testing.T) {
	gen := NewSeeded(5, nil)
	ids := map[string]bool{}
	for _, p := range gen.GenerateN(TopicAll, 100) {
		if p.ID == "" || ids[p.ID] {
			t.Fatalf("duplicate or empty ID %q", p.ID)
		}
		ids[p.ID] = true
	}
}

func TestGenerate_SeedIsDeterministic(t *testing.T) {
	a := NewSeeded(42, nil).GenerateN(TopicAll, 20)
	b := NewSeeded(42, nil).GenerateN(TopicAll, 20)
	for i := range a {
		if a[i].Question != b[i].Question || a[i].Answer != b[i].Answer {
			t.Errorf("problem %d differs: %q/%q vs %q/%q",
				i, a[i].Question, a[i].Answer, b[i].Question, b[i].Answer)
		}
	}
}

type failingEvaluator struct{}

func (failingEvaluator) Evaluate(string) (float64, error) {
	return 0, errors.New("boom")
}

func TestGenerate_FallbackOnEvaluatorFailure(t *testing.T) {
	gen := NewSeeded(6, failingEvaluator{})
	for _, topic := range []Topic{TopicArithmetic, TopicTrigonometry} {
		p := gen.Generate(topic)
		if p.Question != "Solve: 2 + 2" || p.Answer != "4" {
			t.Errorf("Generate(%s) = %q/%q, want fallback", topic, p.Question, p.Answer)
		}
		if p.ID == "" {
			t.Error("fallback problem should have an ID")
		}
	}
}

// The right-hand side of a linear equation is computed in integer
// arithmetic rather than by the evaluator. Both must agree for every
// problem the generator can produce.
func TestGenerate_LinearRHSMatchesEvaluator(t *testing.T) {
	ev := evaluator.New()
	validators := DefaultValidators(ev)
	for seed := uint64(0); seed < 50; seed++ {
		gen := NewSeeded(seed, ev)
		for _, p := range gen.GenerateN(TopicAlgebra, 20) {
			if err := Verify(p, validators...); err != nil {
				t.Fatalf("seed %d: %s: %v", seed, p.Question, err)
			}
		}
	}
}

func TestParseTopic(t *testing.T) {
	tests := []struct {
		in      string
		want    Topic
		wantErr bool
	}{
		{"", TopicAll, false},
		{"all", TopicAll, false},
		{"Arithmetic", TopicArithmetic, false},
		{"algebra", TopicAlgebra, false},
		{"linear", TopicAlgebra, false},
		{"trig", TopicTrigonometry, false},
		{"calculus", "", true},
	}
	for _, tt := range tests {
		got, err := ParseTopic(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseTopic(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseTopic(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
