package pubsub

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// ErrClosed is returned when subscribing to a feed that was shut down
var ErrClosed = errors.New("pubsub: feed is shut down")

// DefaultBuffer is the per-subscription channel capacity
const DefaultBuffer = 100

// Feed delivers published values to subscribers of a topic.
// Delivery never blocks the publisher: a subscriber whose buffer is full
// misses the value and the feed counts it as dropped.
type Feed[T any] struct {
	subscribers map[string]map[*Subscription[T]]struct{}
	buffer      int
	mu          sync.RWMutex
	shutdown    chan struct{}
	isShutdown  bool
	dropped     atomic.Uint64
}

// Subscription represents a subscription to a topic
type Subscription[T any] struct {
	topic     string
	channel   chan T
	feed      *Feed[T]
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// NewFeed creates a feed whose subscriptions buffer up to buffer values
func NewFeed[T any](buffer int) *Feed[T] {
	if buffer < 1 {
		buffer = DefaultBuffer
	}
	return &Feed[T]{
		subscribers: make(map[string]map[*Subscription[T]]struct{}),
		buffer:      buffer,
		shutdown:    make(chan struct{}),
	}
}

// Subscribe creates a subscription to topic that ends when ctx is done
func (f *Feed[T]) Subscribe(ctx context.Context, topic string) (*Subscription[T], error) {
	subCtx, cancel := context.WithCancel(ctx)
	sub := &Subscription[T]{
		topic:   topic,
		channel: make(chan T, f.buffer),
		feed:    f,
		cancel:  cancel,
	}

	f.mu.Lock()
	if f.isShutdown {
		f.mu.Unlock()
		cancel()
		return nil, ErrClosed
	}
	if f.subscribers[topic] == nil {
		f.subscribers[topic] = make(map[*Subscription[T]]struct{})
	}
	f.subscribers[topic][sub] = struct{}{}
	f.mu.Unlock()

	go func() {
		select {
		case <-subCtx.Done():
			sub.Unsubscribe()
		case <-f.shutdown:
		}
	}()

	return sub, nil
}

// Publish sends value to every subscriber of topic.
// Sends happen under the read lock so no channel is closed mid-send;
// they are non-blocking so the lock is held briefly.
func (f *Feed[T]) Publish(topic string, value T) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.isShutdown {
		return
	}
	for sub := range f.subscribers[topic] {
		select {
		case sub.channel <- value:
		default:
			f.dropped.Add(1)
		}
	}
}

// SubscriberCount returns the number of subscribers for a topic
func (f *Feed[T]) SubscriberCount(topic string) int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.subscribers[topic])
}

// Dropped returns how many deliveries were skipped because a buffer was full
func (f *Feed[T]) Dropped() uint64 {
	return f.dropped.Load()
}

// Shutdown closes all subscriptions. Further publishes are ignored.
func (f *Feed[T]) Shutdown() {
	f.mu.Lock()
	if f.isShutdown {
		f.mu.Unlock()
		return
	}
	f.isShutdown = true
	close(f.shutdown)

	var subs []*Subscription[T]
	for topic, set := range f.subscribers {
		for sub := range set {
			subs = append(subs, sub)
		}
		delete(f.subscribers, topic)
	}
	f.mu.Unlock()

	for _, sub := range subs {
		sub.cancel()
		sub.close()
	}
}

// Channel returns the subscription's value channel.
// It is closed on Unsubscribe, context cancellation or feed shutdown.
func (s *Subscription[T]) Channel() <-chan T {
	return s.channel
}

// Topic returns the subscribed topic
func (s *Subscription[T]) Topic() string {
	return s.topic
}

// Unsubscribe removes the subscription. Idempotent.
func (s *Subscription[T]) Unsubscribe() {
	s.cancel()

	s.feed.mu.Lock()
	if set := s.feed.subscribers[s.topic]; set != nil {
		delete(set, s)
		if len(set) == 0 {
			delete(s.feed.subscribers, s.topic)
		}
	}
	s.feed.mu.Unlock()

	s.close()
}

// close must only run once the subscription is unreachable from Publish
func (s *Subscription[T]) close() {
	s.closeOnce.Do(func() {
		close(s.channel)
	})
}
