package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/abhisek/numinary/internal/evaluator"
	"github.com/abhisek/numinary/internal/problemgen"
	"github.com/abhisek/numinary/internal/session"
	"github.com/abhisek/numinary/internal/tutor"
)

const helpText = `Numinary practice bot

/calc <expression> evaluate, e.g. /calc 2*sin(pi/6)
/practice [topic] endless problems (arithmetic, algebra, trig)
/learn pick a lesson
/newlesson add a lesson for the current topic
/skip next practice problem
/hint a nudge for the current problem
/explain the full solution
/history your last calculations
/stats your progress
/clear clear the input and the current problem

While a problem is open, just send your answer.`

func (b *Bot) handleCommand(ctx context.Context, c *chat, cmd, args string) reply {
	st := c.state
	switch cmd {
	case "start", "help":
		return reply{text: helpText}

	case "calc":
		if args == "" {
			return reply{text: "Usage: /calc <expression>"}
		}
		if v := st.View(); v.Active != nil {
			return scratchCalc(args, v.Active)
		}
		st.SwitchMode(session.ModeCalculate)
		st.SetInput(args)
		result, err := st.Calculate()
		if err != nil {
			return reply{text: c.drain()}
		}
		c.drain()
		return reply{text: fmt.Sprintf("%s = %s", args, result)}

	case "practice":
		topic, err := problemgen.ParseTopic(args)
		if err != nil {
			kb := topicKeyboard()
			return reply{text: fmt.Sprintf("Unknown topic %q. Pick one:", args), keyboard: &kb}
		}
		c.lastWrong = ""
		p := st.StartPractice(topic)
		return b.problemReply(p)

	case "skip":
		v := st.View()
		if v.Mode != session.ModePractice {
			return reply{text: "Nothing to skip. Start with /practice."}
		}
		c.lastWrong = ""
		return b.problemReply(st.StartPractice(v.TopicFilter))

	case "learn":
		return lessonsReply(st.View().Lessons)

	case "newlesson":
		st.GenerateLesson()
		return lessonsReply(st.View().Lessons)

	case "answer":
		if args == "" {
			return reply{text: "Usage: /answer <value>"}
		}
		return b.handleText(c, args)

	case "hint":
		return b.hint(ctx, c)

	case "explain":
		return b.explain(ctx, c)

	case "history":
		text := st.ExportHistory()
		if text == "" {
			return reply{text: "No calculations yet. Try /calc 1+2"}
		}
		return reply{text: text}

	case "stats":
		return b.stats(ctx, c)

	case "clear":
		c.lastWrong = ""
		st.Clear()
		return reply{text: c.drain()}
	}
	return reply{text: "Unknown command. Try /help"}
}

func (b *Bot) handleCallback(ctx context.Context, c *chat, data string) reply {
	switch {
	case data == cbHint:
		return b.hint(ctx, c)
	case data == cbExplain:
		return b.explain(ctx, c)
	case data == cbSkip:
		return b.handleCommand(ctx, c, "skip", "")
	case strings.HasPrefix(data, cbLessonPrefix):
		if err := c.state.StartLessonByID(strings.TrimPrefix(data, cbLessonPrefix)); err != nil {
			return reply{text: "That lesson is gone. Try /learn again."}
		}
		c.lastWrong = ""
		return b.problemReply(c.state.View().Active)
	case strings.HasPrefix(data, cbTopicPrefix):
		return b.handleCommand(ctx, c, "practice", strings.TrimPrefix(data, cbTopicPrefix))
	}
	return reply{}
}

// handleText submits text as input: a calculation in Calculate mode, an
// answer otherwise.
func (b *Bot) handleText(c *chat, text string) reply {
	text = strings.TrimSpace(text)
	if text == "" {
		return reply{}
	}
	st := c.state
	st.SetInput(text)
	out, err := st.Submit()
	notes := c.drain()
	if err != nil {
		if errors.Is(err, session.ErrEmptyInput) && st.View().Active == nil {
			return reply{text: joinLines(notes, "Start a problem with /practice or /learn.")}
		}
		return reply{text: notes}
	}

	switch {
	case out.Mode == session.ModeCalculate:
		return reply{text: fmt.Sprintf("%s = %s", out.Expression, out.Result)}
	case !out.Correct:
		c.lastWrong = out.Expression
		kb := problemKeyboard(b.opts.Tutor != nil)
		return reply{text: notes, keyboard: &kb}
	case out.Next != nil:
		c.lastWrong = ""
		r := b.problemReply(out.Next)
		r.text = joinLines(notes, r.text)
		return r
	}
	c.lastWrong = ""
	return reply{text: joinLines(notes, "Lesson complete! Pick another with /learn.")}
}

func (b *Bot) problemReply(p *problemgen.Problem) reply {
	if p == nil {
		return reply{text: "No problem is open."}
	}
	kb := problemKeyboard(b.opts.Tutor != nil)
	return reply{
		text:     fmt.Sprintf("%s\n%s\n\nSend your answer.", p.Title, p.Question),
		keyboard: &kb,
	}
}

func lessonsReply(lessons []*problemgen.Problem) reply {
	if len(lessons) == 0 {
		return reply{text: "No lessons yet. Add one with /newlesson."}
	}
	kb := lessonKeyboard(lessons)
	return reply{text: "Pick a lesson:", keyboard: &kb}
}

func (b *Bot) hint(ctx context.Context, c *chat) reply {
	if b.opts.Tutor == nil {
		return reply{text: "Hints need an LLM provider."}
	}
	p := c.state.View().Active
	if p == nil {
		return reply{text: "No problem is open."}
	}
	h, err := b.opts.Tutor.Hint(ctx, p, c.lastWrong)
	switch {
	case errors.Is(err, tutor.ErrHintRevealsAnswer):
		return reply{text: "No hint this time. Try /explain for the full solution."}
	case err != nil:
		return reply{text: fmt.Sprintf("The tutor is unavailable: %v", err)}
	}
	return reply{text: "Hint: " + h.Text}
}

func (b *Bot) explain(ctx context.Context, c *chat) reply {
	if b.opts.Tutor == nil {
		return reply{text: "Explanations need an LLM provider."}
	}
	p := c.state.View().Active
	if p == nil {
		return reply{text: "No problem is open."}
	}
	e, err := b.opts.Tutor.Explain(ctx, p)
	if err != nil {
		return reply{text: fmt.Sprintf("The tutor is unavailable: %v", err)}
	}
	return reply{text: p.Question + "\n\n" + e.Text()}
}

func (b *Bot) stats(ctx context.Context, c *chat) reply {
	p := c.state.View().Progress
	lines := []string{fmt.Sprintf("Completed: %d\nStreak: %d", p.Completed, p.Streak)}
	if p.MathWhiz() {
		lines = append(lines, "🏅 Math Whiz")
	}
	if next := session.NextStreakMilestone(p.Streak); p.Streak > 0 {
		lines = append(lines, fmt.Sprintf("%d more for a %d streak", next-p.Streak, next))
	}

	if b.opts.Events != nil {
		ns := c.namespace
		s, err := b.opts.Events.Stats(ctx, &ns)
		if err != nil {
			log.Printf("bot: stats for %s: %v", ns, err)
		} else {
			for _, t := range s.Topics {
				lines = append(lines, fmt.Sprintf("%s: %d/%d correct", topicTitle(t.Topic), t.Correct, t.Answered))
			}
		}
	}
	return reply{text: strings.Join(lines, "\n")}
}

func topicTitle(s string) string {
	return problemgen.Topic(s).Title()
}

// scratchCalc evaluates expr on the side, leaving the open problem and the
// chat's history untouched.
func scratchCalc(expr string, open *problemgen.Problem) reply {
	v, err := evaluator.Evaluate(expr)
	if err != nil {
		return reply{text: session.MsgInvalidExpression}
	}
	return reply{text: fmt.Sprintf("%s = %s\n\nStill open: %s\nSend your answer when ready, or /clear to drop it.",
		expr, evaluator.Format(v), open.Question)}
}
