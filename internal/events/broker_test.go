package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karasi-sonica/PawzIO/internal/domain"
)

func transition(id string) Transition {
	return Transition{
		RequestID: id,
		OldState:  domain.StatePending,
		NewState:  domain.StateClaimed,
		Category:  domain.CategoryWalk,
		Timestamp: time.Now(),
	}
}

func TestBroker_FanOut(t *testing.T) {
	b := NewBroker()
	defer b.Close()

	ch1, unsub1 := b.Subscribe(4)
	ch2, unsub2 := b.Subscribe(4)
	defer unsub1()
	defer unsub2()

	b.Publish(transition("req-1"))

	for _, ch := range []<-chan Transition{ch1, ch2} {
		select {
		case got := <-ch:
			assert.Equal(t, "req-1", got.RequestID)
		case <-time.After(time.Second):
			t.Fatal("subscriber did not receive the transition")
		}
	}
}

func TestBroker_SlowSubscriberDoesNotBlock(t *testing.T) {
	b := NewBroker()
	defer b.Close()

	_, unsub := b.Subscribe(1)
	defer unsub()

	// Nobody drains the channel; publishing must still return immediately.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			b.Publish(transition("req-flood"))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full subscriber")
	}
}

func TestBroker_UnsubscribeClosesChannel(t *testing.T) {
	b := NewBroker()
	defer b.Close()

	ch, unsub := b.Subscribe(4)
	unsub()

	_, open := <-ch
	assert.False(t, open)

	// Publishing after unsubscribe must not panic.
	b.Publish(transition("req-2"))
}

func TestBroker_CloseStopsDelivery(t *testing.T) {
	b := NewBroker()

	ch, _ := b.Subscribe(4)
	b.Close()

	_, open := <-ch
	require.False(t, open)

	b.Publish(transition("req-3"))

	// Subscribing after close yields a closed channel.
	late, _ := b.Subscribe(4)
	_, open = <-late
	assert.False(t, open)
}
