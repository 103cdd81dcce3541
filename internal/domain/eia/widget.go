package eia

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"github.com/adolbicare/clinic/internal/platform/llm"
)

var (
	ErrChatInFlight = errors.New("a reply is still being generated")
	ErrEmptyMessage = errors.New("message is required")
	ErrWidgetClosed = errors.New("assistant widget is not open")
)

type Message = llm.Message

// Widget is the assistant panel of one session. It remembers the last
// module and page it greeted so re-renders without navigation stay silent.
type Widget struct {
	mu         sync.Mutex
	open       bool
	pending    bool
	prevModule string
	prevPage   string
	transcript []Message
}

// WidgetView is a point-in-time copy of a widget.
type WidgetView struct {
	Open     bool      `json:"open"`
	Pending  bool      `json:"pending"`
	Messages []Message `json:"messages"`
}

// observe appends at most one assistant message for s. Nothing happens while
// the widget is closed or when neither module nor page changed.
func (w *Widget) observe(s Snapshot) []Message {
	if !w.open {
		return nil
	}
	moduleChanged := w.prevModule != s.Module
	pageChanged := w.prevPage != s.Page
	if !moduleChanged && !pageChanged {
		return nil
	}

	var msg Message
	if len(w.transcript) > 0 {
		msg = Message{Role: llm.RoleAssistant, Content: NavigationNotice(s.Module, s.Page)}
	} else {
		msg = Message{Role: llm.RoleAssistant, Content: Compose(s.Module, s.Page, s.Data)}
	}
	w.transcript = append(w.transcript, msg)
	w.prevModule, w.prevPage = s.Module, s.Page
	return []Message{msg}
}

func (w *Widget) Observe(s Snapshot) []Message {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.observe(s)
}

// Open shows the widget and evaluates s as the open state changed.
func (w *Widget) Open(s Snapshot) []Message {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.open {
		return nil
	}
	w.open = true
	return w.observe(s)
}

// Close hides the widget. The transcript and the last greeted module and
// page survive, so reopening on the same page adds nothing.
func (w *Widget) Close() {
	w.mu.Lock()
	w.open = false
	w.mu.Unlock()
}

// Reset tears the widget down: closed, empty transcript, no greeted page.
func (w *Widget) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.open = false
	w.pending = false
	w.prevModule, w.prevPage = "", ""
	w.transcript = nil
}

func (w *Widget) View() WidgetView {
	w.mu.Lock()
	defer w.mu.Unlock()
	msgs := make([]Message, len(w.transcript))
	copy(msgs, w.transcript)
	return WidgetView{Open: w.open, Pending: w.pending, Messages: msgs}
}

func (w *Widget) beginChat(text string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.open {
		return ErrWidgetClosed
	}
	if w.pending {
		return ErrChatInFlight
	}
	w.pending = true
	w.transcript = append(w.transcript, Message{Role: llm.RoleUser, Content: text})
	return nil
}

func (w *Widget) endChat(reply string, ok bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending = false
	if ok {
		w.transcript = append(w.transcript, Message{Role: llm.RoleAssistant, Content: reply})
	}
}

// Chatter answers a question asked from a page.
type Chatter interface {
	Chat(ctx context.Context, message string, pageContext map[string]any) (string, error)
}

// Widgets holds one widget per session and keeps each in step with the
// session's navigation context.
type Widgets struct {
	cache    *cache.Cache
	mu       sync.Mutex
	contexts *Broadcaster
	chat     Chatter
	logger   zerolog.Logger
}

// NewWidgets registers the widget store as a listener on contexts. Idle
// widgets are dropped after ttl.
func NewWidgets(contexts *Broadcaster, chat Chatter, ttl time.Duration, logger zerolog.Logger) *Widgets {
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}
	ws := &Widgets{
		cache:    cache.New(ttl, 10*time.Minute),
		contexts: contexts,
		chat:     chat,
		logger:   logger,
	}
	contexts.Subscribe(ws.onContextChange)
	return ws
}

func (ws *Widgets) lookup(sessionID string) (*Widget, bool) {
	if x, found := ws.cache.Get(sessionID); found {
		w := x.(*Widget)
		ws.cache.Set(sessionID, w, cache.DefaultExpiration)
		return w, true
	}
	return nil, false
}

func (ws *Widgets) widget(sessionID string) *Widget {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	if w, ok := ws.lookup(sessionID); ok {
		return w
	}
	w := &Widget{}
	ws.cache.Set(sessionID, w, cache.DefaultExpiration)
	return w
}

func (ws *Widgets) onContextChange(_ context.Context, sessionID string, s Snapshot) {
	w, ok := ws.lookup(sessionID)
	if !ok {
		return
	}
	if added := w.Observe(s); len(added) > 0 {
		ws.logger.Debug().Str("session_id", sessionID).Str("module", s.Module).Msg("assistant followed navigation")
	}
}

func (ws *Widgets) Open(ctx context.Context, sessionID string) (WidgetView, error) {
	s, err := ws.contexts.Current(ctx, sessionID)
	if err != nil {
		return WidgetView{}, err
	}
	w := ws.widget(sessionID)
	w.Open(s)
	return w.View(), nil
}

func (ws *Widgets) Close(sessionID string) WidgetView {
	w := ws.widget(sessionID)
	w.Close()
	return w.View()
}

func (ws *Widgets) Reset(sessionID string) WidgetView {
	w := ws.widget(sessionID)
	w.Reset()
	return w.View()
}

func (ws *Widgets) View(sessionID string) WidgetView {
	return ws.widget(sessionID).View()
}

// Send appends text to the transcript, asks the chatter and appends its
// reply. The widget must be open, so the greeting always comes first;
// otherwise Send fails with ErrWidgetClosed. A second Send while a reply is
// pending fails with ErrChatInFlight. On failure the user message stays and
// no reply is added.
func (ws *Widgets) Send(ctx context.Context, sessionID, text string) (Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Message{}, ErrEmptyMessage
	}
	s, err := ws.contexts.Current(ctx, sessionID)
	if err != nil {
		return Message{}, err
	}

	w := ws.widget(sessionID)
	if err := w.beginChat(text); err != nil {
		return Message{}, err
	}

	pageContext := map[string]any{"module": s.Module, "page": s.Page}
	for k, v := range s.Data {
		pageContext[k] = v
	}
	reply, err := ws.chat.Chat(ctx, text, pageContext)
	w.endChat(reply, err == nil)
	if err != nil {
		return Message{}, err
	}
	return Message{Role: llm.RoleAssistant, Content: reply}, nil
}
