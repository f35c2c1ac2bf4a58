package messaging

import (
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/mr1hm/disaster-relief/internal/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestHub_SubscribeUnsubscribe(t *testing.T) {
	h := NewHub()

	id, ch := h.Subscribe(7)
	if h.SubscriberCount(7) != 1 {
		t.Errorf("expected 1 subscriber, got %d", h.SubscriberCount(7))
	}

	h.Unsubscribe(id)
	if h.SubscriberCount(7) != 0 {
		t.Errorf("expected 0 subscribers, got %d", h.SubscriberCount(7))
	}

	select {
	case _, ok := <-ch:
		if ok {
			t.Error("expected channel to be closed")
		}
	default:
		t.Error("channel should be closed and readable")
	}

	// Unknown ids are ignored.
	h.Unsubscribe(id)
}

func TestHub_PublishScopedToThread(t *testing.T) {
	h := NewHub()

	id1, thread1 := h.Subscribe(1)
	defer h.Unsubscribe(id1)
	id2, thread2 := h.Subscribe(2)
	defer h.Unsubscribe(id2)

	h.Publish(models.Message{ID: 100, DisasterID: 1, Content: "hello"})

	select {
	case m := <-thread1:
		if m.ID != 100 {
			t.Errorf("expected message 100, got %d", m.ID)
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("timeout waiting for publish")
	}

	select {
	case m := <-thread2:
		t.Errorf("thread 2 received message from thread 1: %+v", m)
	default:
	}
}

func TestHub_ConcurrentSubscribeUnsubscribe(t *testing.T) {
	h := NewHub()
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id, _ := h.Subscribe(int64(n % 3))
			time.Sleep(time.Millisecond)
			h.Unsubscribe(id)
		}(i)
	}
	wg.Wait()

	for d := int64(0); d < 3; d++ {
		if h.SubscriberCount(d) != 0 {
			t.Errorf("expected 0 subscribers on thread %d, got %d", d, h.SubscriberCount(d))
		}
	}
}

func TestHub_SlowSubscriberDoesNotBlock(t *testing.T) {
	h := NewHub()
	id, _ := h.Subscribe(1)
	defer h.Unsubscribe(id)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			h.Publish(models.Message{ID: int64(i), DisasterID: 1})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
}

func TestHub_Close(t *testing.T) {
	h := NewHub()
	id, ch := h.Subscribe(1)
	h.Subscribe(2)

	h.Close()

	if _, ok := <-ch; ok {
		t.Error("expected channel to be closed")
	}
	if h.SubscriberCount(1) != 0 || h.SubscriberCount(2) != 0 {
		t.Error("expected no subscribers after Close")
	}
	// Unsubscribing after Close must not double-close.
	h.Unsubscribe(id)
}
