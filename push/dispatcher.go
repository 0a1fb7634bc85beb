package push

import (
	"context"
	"sync"
	"time"

	"complaint-service/metrics"

	"github.com/apex/log"
)

// Sender delivers a single push message
type Sender interface {
	Send(ctx context.Context, token, title, body string) error
}

type notification struct {
	token string
	title string
	body  string
}

// Dispatcher delivers notifications asynchronously through a bounded queue
// and a fixed pool of workers, so the request path never waits on the push
// gateway. A consecutive-failure circuit breaker stops calls to the gateway
// while it is unavailable.
type Dispatcher struct {
	sender      Sender
	sendTimeout time.Duration
	queue       chan notification
	wg          sync.WaitGroup

	breakerThreshold int
	breakerCooldown  time.Duration

	mu           sync.Mutex
	failureCount int
	openUntil    time.Time
}

// NewDispatcher creates a dispatcher with the given worker count and queue
// size. The breaker opens after breakerThreshold consecutive delivery
// failures and closes again after breakerCooldown.
func NewDispatcher(sender Sender, workers, queueSize int, sendTimeout time.Duration, breakerThreshold int, breakerCooldown time.Duration) *Dispatcher {
	d := &Dispatcher{
		sender:           sender,
		sendTimeout:      sendTimeout,
		queue:            make(chan notification, queueSize),
		breakerThreshold: breakerThreshold,
		breakerCooldown:  breakerCooldown,
	}

	d.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go d.worker()
	}

	return d
}

// Enqueue queues a notification for delivery. Returns false if the
// notification was dropped because the queue is full; delivery failure is
// never reported back to the caller.
func (d *Dispatcher) Enqueue(token, title, body string) bool {
	if token == "" {
		return true
	}
	select {
	case d.queue <- notification{token: token, title: title, body: body}:
		metrics.NotificationsEnqueuedTotal.Inc()
		return true
	default:
		metrics.NotificationsDroppedTotal.WithLabelValues("queue_full").Inc()
		log.Warnf("Push queue full, dropping notification for %s", token)
		return false
	}
}

// Stop drains the queue and waits for the workers to finish
func (d *Dispatcher) Stop() {
	close(d.queue)
	d.wg.Wait()
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for n := range d.queue {
		if !d.allow() {
			metrics.NotificationsDroppedTotal.WithLabelValues("breaker_open").Inc()
			log.Warnf("Push breaker open, dropping notification for %s", n.token)
			continue
		}

		metrics.NotificationsInFlight.Inc()
		ctx, cancel := context.WithTimeout(context.Background(), d.sendTimeout)
		err := d.sender.Send(ctx, n.token, n.title, n.body)
		cancel()
		metrics.NotificationsInFlight.Dec()

		d.record(err)
		if err != nil {
			metrics.NotificationsSentTotal.WithLabelValues("error").Inc()
			log.WithError(err).Warnf("Failed to deliver push notification to %s", n.token)
		} else {
			metrics.NotificationsSentTotal.WithLabelValues("ok").Inc()
		}
	}
}

// allow reports whether the breaker currently permits delivery attempts
func (d *Dispatcher) allow() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.openUntil.IsZero() {
		return true
	}
	if time.Now().Before(d.openUntil) {
		return false
	}
	// Cooldown elapsed, half-open: let the next attempt probe the gateway.
	d.openUntil = time.Time{}
	metrics.BreakerOpen.Set(0)
	return true
}

func (d *Dispatcher) record(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err == nil {
		d.failureCount = 0
		return
	}
	d.failureCount++
	if d.failureCount >= d.breakerThreshold {
		d.openUntil = time.Now().Add(d.breakerCooldown)
		d.failureCount = 0
		metrics.BreakerOpen.Set(1)
		log.Warnf("Push breaker opened for %s after consecutive failures", d.breakerCooldown)
	}
}
