package notify

import (
	"context"
	"log/slog"
	"sync"
)

// Dispatcher is a fixed pool of workers draining a bounded queue into a
// Sender.
type Dispatcher struct {
	numWorkers int
	jobs       chan Notification
	sender     Sender
	wg         sync.WaitGroup

	mu      sync.RWMutex
	stopped bool
}

var _ Notifier = (*Dispatcher)(nil)

func NewDispatcher(numWorkers int, bufferSize int, sender Sender) *Dispatcher {
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &Dispatcher{
		numWorkers: numWorkers,
		jobs:       make(chan Notification, bufferSize),
		sender:     sender,
	}
}

func (d *Dispatcher) Start(ctx context.Context) {
	for i := 1; i <= d.numWorkers; i++ {
		d.wg.Add(1)
		go d.worker(ctx, i)
	}
}

func (d *Dispatcher) worker(ctx context.Context, id int) {
	defer d.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-d.jobs:
			if !ok {
				return
			}
			if err := d.sender.Send(ctx, n); err != nil {
				slog.Error("notification failed", "worker", id, "to", n.To, "subject", n.Subject, "error", err)
			}
		}
	}
}

// Notify queues n. When the queue is full or the dispatcher has stopped the
// notification is dropped.
func (d *Dispatcher) Notify(n Notification) {
	if n.To == "" {
		return
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		return
	}

	select {
	case d.jobs <- n:
	default:
		slog.Warn("notification queue full, dropping", "to", n.To, "subject", n.Subject)
	}
}

// Stop closes the queue and waits for in-flight notifications.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	close(d.jobs)
	d.mu.Unlock()

	d.wg.Wait()
}
