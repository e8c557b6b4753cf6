package api

import (
	"io"
	"sync"

	"github.com/gin-gonic/gin"
)

// subscriberBuffer bounds how many undelivered notifications a slow
// stream may hold before new ones displace the oldest.
const subscriberBuffer = 8

type Notification struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// notifier fans event-bus notifications out to the SSE streams watching
// a game. It is the in-process stand-in for an external pubsub broker.
type notifier struct {
	mu   sync.RWMutex
	subs map[string]map[chan Notification]struct{}
}

func newNotifier() *notifier {
	return &notifier{
		subs: make(map[string]map[chan Notification]struct{}),
	}
}

func (n *notifier) subscribe(gameID string) (<-chan Notification, func()) {
	ch := make(chan Notification, subscriberBuffer)

	n.mu.Lock()
	if n.subs[gameID] == nil {
		n.subs[gameID] = make(map[chan Notification]struct{})
	}
	n.subs[gameID][ch] = struct{}{}
	n.mu.Unlock()

	cancel := func() {
		n.mu.Lock()
		if set, ok := n.subs[gameID]; ok {
			if _, ok := set[ch]; ok {
				delete(set, ch)
				close(ch)
			}
			if len(set) == 0 {
				delete(n.subs, gameID)
			}
		}
		n.mu.Unlock()
	}
	return ch, cancel
}

func (n *notifier) publish(gameID string, notification Notification) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	for ch := range n.subs[gameID] {
		select {
		case ch <- notification:
		default:
			// Slow stream: drop the oldest so the latest state wins. The
			// retry must not block either: a concurrent publish may have
			// refilled the slot, and a blocked send under the read lock
			// would wedge every other stream's publish and cancel.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- notification:
			default:
			}
		}
	}
}

// StreamEvents streams round/guess notifications for one game as
// server-sent events until the client disconnects.
func (a *API) StreamEvents(c *gin.Context) {
	g, err := a.ss.Get(c.Param("id"))
	if err != nil {
		abortError(c, err)
		return
	}

	ch, cancel := a.notifier.subscribe(g.ID)
	defer cancel()

	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Stream(func(w io.Writer) bool {
		select {
		case n, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent(n.Event, n.Data)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
