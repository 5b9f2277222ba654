// Package companion is the chat companion "Paz". A Companion turns the
// conversation so far plus a new user message into one assistant reply by
// asking a Model; Conversation keeps the history in a kv.Store.
package companion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

var (
	ErrEmptyMessage = errors.New("companion: empty message")
	ErrEmptyReply   = errors.New("companion: model returned no text")
	ErrBlocked      = errors.New("companion: reply blocked")
)

// Role identifies the author of a message.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Message is one turn of a conversation.
type Message struct {
	Role      Role      `json:"role" msgpack:"role"`
	Text      string    `json:"text" msgpack:"text"`
	CreatedAt time.Time `json:"created_at,omitzero" msgpack:"created_at"`
}

// Model produces the next assistant message for a conversation. history
// always ends with the user message to answer.
type Model interface {
	Generate(ctx context.Context, system string, history []Message) (string, error)
}

var systemPrompts = map[string]string{
	"en": "You are Paz, a compassionate and empathetic spiritual guide. Always respond in English. Keep it brief (1-2 sentences), empathetic and understanding. Focus on mental and emotional wellness.",
	"es": "Eres Paz, una guía espiritual compasiva y empática. Responde SIEMPRE en Español. Sé breve (1-2 frases), empático y comprensivo. Enfócate en el bienestar mental y emocional.",
}

var fallbacks = map[string]string{
	"en": "I'm sorry, can we try again?",
	"es": "Lo siento, ¿podemos intentar de nuevo?",
}

var greetings = map[string]string{
	"en": "Understood. How can I help you today?",
	"es": "Entendido. ¿Cómo te puedo ayudar hoy?",
}

func localized(m map[string]string, lang string) string {
	if s, ok := m[lang]; ok {
		return s
	}
	return m["en"]
}

// SystemPrompt returns the persona instruction for lang.
func SystemPrompt(lang string) string { return localized(systemPrompts, lang) }

// Fallback returns the text shown when a reply could not be produced.
func Fallback(lang string) string { return localized(fallbacks, lang) }

// Greeting returns the opening line of a new conversation.
func Greeting(lang string) string { return localized(greetings, lang) }

// DefaultHistoryLimit is the number of stored messages sent with each turn.
const DefaultHistoryLimit = 40

// Option configures a Companion.
type Option func(*Companion)

// WithLanguage selects the persona language. The default is "en".
func WithLanguage(lang string) Option {
	return func(c *Companion) { c.lang = lang }
}

// WithHistoryLimit caps the stored messages Chat sends to the model.
func WithHistoryLimit(n int) Option {
	return func(c *Companion) { c.historyLimit = n }
}

// WithClock overrides time.Now for message timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Companion) { c.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Companion) { c.logger = l }
}

// Companion answers user messages through a Model. It never retries.
type Companion struct {
	model        Model
	lang         string
	historyLimit int
	now          func() time.Time
	logger       *slog.Logger
}

// New creates a Companion.
func New(model Model, opts ...Option) *Companion {
	c := &Companion{
		model:        model,
		lang:         "en",
		historyLimit: DefaultHistoryLimit,
		now:          time.Now,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Language returns the persona language.
func (c *Companion) Language() string {
	return c.lang
}

// SendMessage asks the model for the reply to text given the earlier turns.
func (c *Companion) SendMessage(ctx context.Context, history []Message, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyMessage
	}
	msgs := make([]Message, 0, len(history)+1)
	for _, m := range history {
		if strings.TrimSpace(m.Text) != "" {
			msgs = append(msgs, m)
		}
	}
	msgs = append(msgs, Message{Role: RoleUser, Text: text, CreatedAt: c.now()})

	reply, err := c.model.Generate(ctx, SystemPrompt(c.lang), msgs)
	if err != nil {
		return "", fmt.Errorf("companion: generate: %w", err)
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return "", ErrEmptyReply
	}
	return reply, nil
}

// Chat sends text in conv. The user turn is stored before the model is
// asked and the reply is stored only on success. On failure the returned
// string is the localized fallback for display.
func (c *Companion) Chat(ctx context.Context, conv *Conversation, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyMessage
	}
	history, err := conv.Recent(ctx, c.historyLimit)
	if err != nil {
		return Fallback(c.lang), err
	}
	if err := conv.Append(ctx, Message{Role: RoleUser, Text: text, CreatedAt: c.now()}); err != nil {
		return Fallback(c.lang), err
	}
	reply, err := c.SendMessage(ctx, history, text)
	if err != nil {
		c.logger.Warn("companion: no reply", "conversation", conv.ID(), "error", err)
		return Fallback(c.lang), err
	}
	if err := conv.Append(ctx, Message{Role: RoleModel, Text: reply, CreatedAt: c.now()}); err != nil {
		return reply, err
	}
	return reply, nil
}
