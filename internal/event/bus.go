package event

import (
	"sync/atomic"
	"time"
)

// MarketEvent signals that one unit of new data has been revealed for
// every tracked symbol.
type MarketEvent struct {
	Seq  int64
	Time time.Time
}

// Bus is a bounded queue between the replay engine and its consumers.
// Post never blocks the replay path; events are dropped when the buffer
// is full.
type Bus struct {
	ch      chan MarketEvent
	seq     int64
	dropped int64
}

// NewBus creates a bus with the given buffer size.
func NewBus(buffer int) *Bus {
	if buffer <= 0 {
		buffer = 64
	}
	return &Bus{ch: make(chan MarketEvent, buffer)}
}

// NotifyNewData implements feed.Notifier.
func (b *Bus) NotifyNewData() {
	evt := MarketEvent{
		Seq:  atomic.AddInt64(&b.seq, 1),
		Time: time.Now(),
	}
	select {
	case b.ch <- evt:
	default:
		atomic.AddInt64(&b.dropped, 1)
	}
}

// Events returns the consumer side of the bus.
func (b *Bus) Events() <-chan MarketEvent { return b.ch }

// TryNext pops one event without blocking.
func (b *Bus) TryNext() (MarketEvent, bool) {
	select {
	case evt := <-b.ch:
		return evt, true
	default:
		return MarketEvent{}, false
	}
}

// Dropped returns how many events were lost to a full buffer.
func (b *Bus) Dropped() int64 { return atomic.LoadInt64(&b.dropped) }
