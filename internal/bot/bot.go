// Package bot runs the Telegram practice bot. Each chat gets its own
// session, stored under the "chat:<id>" namespace.
package bot

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/abhisek/numinary/internal/session"
	"github.com/abhisek/numinary/internal/store"
	"github.com/abhisek/numinary/internal/tutor"
)

// API is the part of *tgbotapi.BotAPI the bot uses.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdates(config tgbotapi.UpdateConfig) ([]tgbotapi.Update, error)
}

// Options are the bot's collaborators.
type Options struct {
	KV        store.KVRepo
	Events    store.EventRepo // may be nil
	Generator session.ProblemGenerator
	Tutor     *tutor.Service // nil disables /hint and /explain
}

// Bot routes Telegram updates to per-chat sessions.
type Bot struct {
	api  API
	cfg  Config
	opts Options

	mu    sync.Mutex
	chats map[int64]*chat
}

// chat is one conversation. mu serializes handlers for the chat.
type chat struct {
	mu        sync.Mutex
	namespace string
	state     *session.State
	notices   *session.Queue

	// lastWrong is the latest incorrect answer, used for hints.
	lastWrong string
}

func New(api API, cfg Config, opts Options) *Bot {
	return &Bot{api: api, cfg: cfg, opts: opts, chats: make(map[int64]*chat)}
}

// Namespace returns the storage namespace of a chat.
func Namespace(chatID int64) string {
	return fmt.Sprintf("chat:%d", chatID)
}

func (b *Bot) chat(ctx context.Context, chatID int64) *chat {
	b.mu.Lock()
	defer b.mu.Unlock()
	if c, ok := b.chats[chatID]; ok {
		return c
	}
	ns := Namespace(chatID)
	q := &session.Queue{}
	c := &chat{
		namespace: ns,
		notices:   q,
		state: session.New(ctx, session.Config{
			Generator: b.opts.Generator,
			Persister: session.NewStorePersister(b.opts.KV, session.NamespacePrefix(ns)),
			Notifier:  q,
			Events:    b.opts.Events,
			Namespace: ns,
		}),
	}
	q.Drain()
	b.chats[chatID] = c
	return c
}

// Close ends every open chat session.
func (b *Bot) Close(ctx context.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, c := range b.chats {
		c.mu.Lock()
		c.state.Close(ctx)
		c.mu.Unlock()
	}
}

// reply is what a handler sends back.
type reply struct {
	text     string
	keyboard *tgbotapi.InlineKeyboardMarkup
}

// HandleUpdate processes one update. It blocks while another update for
// the same chat is being handled.
func (b *Bot) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	switch {
	case upd.CallbackQuery != nil && upd.CallbackQuery.Message != nil:
		cb := upd.CallbackQuery
		if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
			log.Printf("bot: ack callback: %v", err)
		}
		b.dispatch(ctx, cb.Message.Chat.ID, func(c *chat) reply {
			return b.handleCallback(ctx, c, cb.Data)
		})
	case upd.Message != nil:
		msg := upd.Message
		b.dispatch(ctx, msg.Chat.ID, func(c *chat) reply {
			if msg.IsCommand() {
				return b.handleCommand(ctx, c, msg.Command(), strings.TrimSpace(msg.CommandArguments()))
			}
			return b.handleText(c, msg.Text)
		})
	}
}

func (b *Bot) dispatch(ctx context.Context, chatID int64, handle func(*chat) reply) {
	c := b.chat(ctx, chatID)
	c.mu.Lock()
	r := handle(c)
	c.mu.Unlock()

	if r.text == "" {
		return
	}
	b.send(chatID, r)
}

func (b *Bot) send(chatID int64, r reply) {
	text := r.text
	if n := b.cfg.MaxMessageLen; n > 0 && len(text) > n {
		text = strings.ToValidUTF8(text[:n], "") + "…"
	}
	msg := tgbotapi.NewMessage(chatID, text)
	if r.keyboard != nil {
		msg.ReplyMarkup = *r.keyboard
	}
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("bot: send to %d: %v", chatID, err)
	}
}

// drain renders the queued notifications, one per line.
func (c *chat) drain() string {
	var lines []string
	for _, n := range c.notices.Drain() {
		lines = append(lines, n.Message)
	}
	return strings.Join(lines, "\n")
}

func joinLines(parts ...string) string {
	var out []string
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, "\n\n")
}
