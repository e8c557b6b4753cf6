package api

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// A stream that stopped reading must never block publishers: concurrent
// publishes against a full buffer race the drain-then-retry fallback,
// and a blocking retry would hold the notifier's read lock forever.
func TestNotifier_PublishNeverBlocks(t *testing.T) {
	n := newNotifier()
	_, cancel := n.subscribe("g1")

	done := make(chan struct{})
	go func() {
		defer close(done)

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				for j := 0; j < 200; j++ {
					n.publish("g1", Notification{
						Event: "round.started",
						Data:  fmt.Sprintf("p%d-%d", i, j),
					})
				}
			}(i)
		}
		wg.Wait()
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("publish blocked with no one reading the stream")
	}

	// The abandoned stream can still tear down.
	cancel()
}

func TestNotifier_SlowSubscriberKeepsLatest(t *testing.T) {
	n := newNotifier()
	ch, cancel := n.subscribe("g1")
	defer cancel()

	// Overfill the buffer; older notifications give way to newer ones.
	for i := 0; i < subscriberBuffer+3; i++ {
		n.publish("g1", Notification{Event: "round.started", Data: i})
	}

	require.Len(t, ch, subscriberBuffer)

	var last Notification
	for len(ch) > 0 {
		last = <-ch
	}
	require.Equal(t, subscriberBuffer+2, last.Data, "the newest notification survives")
}

func TestNotifier_CancelTwice(t *testing.T) {
	n := newNotifier()
	_, cancel := n.subscribe("g1")

	cancel()
	cancel()

	// Publishing to a game with no streams left is a no-op.
	n.publish("g1", Notification{Event: "round.started"})
}
