package ability

import "sync"

// InputEventKind distinguishes press and release edges.
type InputEventKind uint8

const (
	InputPress InputEventKind = iota + 1
	InputRelease
)

func (k InputEventKind) String() string {
	switch k {
	case InputPress:
		return "press"
	case InputRelease:
		return "release"
	default:
		return "unknown"
	}
}

// InputEvent is one buffered input edge.
type InputEvent struct {
	Tag  Tag
	Kind InputEventKind
}

// DefaultInputQueueCapacity bounds the events staged between two ticks.
const DefaultInputQueueCapacity = 256

// InputQueue stages input events in a fixed-size ring. It is safe for
// concurrent producers and a single consumer, which drains it once per tick.
type InputQueue struct {
	mu      sync.Mutex
	data    []InputEvent
	head    int
	tail    int
	count   int
	dropped uint64
}

// NewInputQueue constructs a queue with the provided capacity.
func NewInputQueue(capacity int) *InputQueue {
	if capacity < 1 {
		capacity = 1
	}
	return &InputQueue{data: make([]InputEvent, capacity)}
}

// Push stages ev, returning false if the queue is full.
func (q *InputQueue) Push(ev InputEvent) bool {
	if q == nil || !ev.Tag.Valid() {
		return false
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.count == len(q.data) {
		q.dropped++
		return false
	}
	q.data[q.tail] = ev
	q.tail = (q.tail + 1) % len(q.data)
	q.count++
	return true
}

// Press stages a press of tag.
func (q *InputQueue) Press(tag Tag) bool {
	return q.Push(InputEvent{Tag: tag, Kind: InputPress})
}

// Release stages a release of tag.
func (q *InputQueue) Release(tag Tag) bool {
	return q.Push(InputEvent{Tag: tag, Kind: InputRelease})
}

// Drain returns every staged event in FIFO order and empties the queue.
func (q *InputQueue) Drain() []InputEvent {
	if q == nil {
		return nil
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.count == 0 {
		return nil
	}
	events := make([]InputEvent, q.count)
	for i := 0; i < q.count; i++ {
		events[i] = q.data[(q.head+i)%len(q.data)]
	}
	q.head = 0
	q.tail = 0
	q.count = 0
	return events
}

// Len reports the number of staged events.
func (q *InputQueue) Len() int {
	if q == nil {
		return 0
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.count
}

// Dropped reports how many events were rejected because the queue was full.
func (q *InputQueue) Dropped() uint64 {
	if q == nil {
		return 0
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dropped
}
