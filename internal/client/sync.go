package client

import (
	"context"
	"encoding/json"
	"log"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/jdudgeon1993/chefs-kiss/internal/models"
)

const (
	// debounceWindow coalesces a burst of change events for one resource
	// class into a single refetch.
	debounceWindow = 500 * time.Millisecond
	// suppressWindow ignores notifications for a class right after we
	// wrote to it ourselves; our own mutation responses already carry the
	// fresh data.
	suppressWindow = 2 * time.Second

	reconnectDelay = 3 * time.Second
)

// Notifier listens to the server's change stream and triggers debounced
// per-class refetches on a Session.
type Notifier struct {
	session *Session
	wsURL   string

	debounce time.Duration
	suppress time.Duration

	mu         sync.Mutex
	timers     map[models.ResourceClass]*time.Timer
	localWrite map[models.ResourceClass]time.Time
}

// NewNotifier builds a Notifier for the given API base URL (http/https;
// the scheme is rewritten for the websocket dial).
func NewNotifier(session *Session, baseURL string) *Notifier {
	wsURL := strings.Replace(baseURL, "http", "ws", 1) + "/api/events"
	return &Notifier{
		session:    session,
		wsURL:      wsURL,
		debounce:   debounceWindow,
		suppress:   suppressWindow,
		timers:     make(map[models.ResourceClass]*time.Timer),
		localWrite: make(map[models.ResourceClass]time.Time),
	}
}

// MarkLocalWrite records that this client just mutated a class, starting
// its suppression window.
func (n *Notifier) MarkLocalWrite(class models.ResourceClass) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.localWrite[class] = time.Now()
}

// Handle processes one change event: suppressed if we caused it,
// otherwise a refetch is scheduled after the debounce window, resetting
// any pending timer for the class.
func (n *Notifier) Handle(ctx context.Context, event models.ChangeEvent) {
	class := event.ResourceClass

	n.mu.Lock()
	defer n.mu.Unlock()

	if wrote, ok := n.localWrite[class]; ok && time.Since(wrote) < n.suppress {
		return
	}

	if timer, ok := n.timers[class]; ok {
		timer.Stop()
	}
	n.timers[class] = time.AfterFunc(n.debounce, func() {
		n.mu.Lock()
		delete(n.timers, class)
		n.mu.Unlock()

		if err := n.session.Refresh(ctx, class); err != nil {
			log.Printf("Failed to refresh %s after change event: %v", class, err)
		}
	})
}

// Run connects to the change stream and dispatches events until the
// context is cancelled, redialing on connection loss.
func (n *Notifier) Run(ctx context.Context) {
	for {
		if err := n.listen(ctx); err != nil && ctx.Err() == nil {
			log.Printf("Change stream disconnected: %v", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(reconnectDelay):
		}
	}
}

func (n *Notifier) listen(ctx context.Context) error {
	u := n.wsURL + "?token=" + url.QueryEscape(n.session.api.AccessToken())
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	// The watcher must not outlive this call, or reconnect attempts on a
	// flaky link would each leave one behind.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		var event models.ChangeEvent
		if err := json.Unmarshal(data, &event); err != nil {
			log.Printf("Skipping malformed change event: %v", err)
			continue
		}
		n.Handle(ctx, event)
	}
}
