// Package progress tracks the state of one import run: a cooperative
// running flag, item counters, an error counter, and a bounded log queue
// whose updates are pushed to a notifier at most twice per second. The
// single import worker writes; a concurrent poller may read.
package progress

import (
	"sync"
	"time"
)

// Log levels, matching the severity values shown to users.
const (
	LevelInfo  = 0
	LevelError = 3
)

const (
	defaultQueueCapacity = 1000
	defaultPushInterval  = 500 * time.Millisecond
)

// Notifier receives push events. Delivery is fire-and-forget; a nil
// notifier is valid and drops everything.
type Notifier interface {
	Send(event string)
}

// LogMessage is one entry of the run's log history.
type LogMessage struct {
	Message string
	Level   int
	Time    time.Time
}

// State is the mutable state of one import run.
type State struct {
	mu sync.RWMutex

	running     bool
	itemCurrent int
	itemsTotal  int
	errors      int
	percent     int

	queue    []LogMessage
	capacity int

	notifier     Notifier
	pushInterval time.Duration
	lastPush     time.Time
}

// NewState returns a fresh run state. Progress starts at -1 (no run yet).
func NewState(notifier Notifier) *State {
	return &State{
		percent:      -1,
		capacity:     defaultQueueCapacity,
		notifier:     notifier,
		pushInterval: defaultPushInterval,
	}
}

// Start marks the run as running and resets all counters.
func (s *State) Start(itemsTotal int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = true
	s.itemsTotal = itemsTotal
	s.itemCurrent = 0
	s.errors = 0
	s.percent = 0
}

// Cancel clears the running flag. The worker observes it at the next year
// or issue boundary.
func (s *State) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
}

// Finish clears the running flag when the worker is done.
func (s *State) Finish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
}

// Running reports whether the run is still active.
func (s *State) Running() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Advance adds processed items and recomputes the percent value.
func (s *State) Advance(items int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.itemCurrent += items
	if s.itemsTotal > 0 {
		s.percent = 100 * s.itemCurrent / s.itemsTotal
	}
}

// Percent returns the 0-100 completion value, or -1 before the first run.
func (s *State) Percent() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.percent
}

// Counts returns processed and total item counts.
func (s *State) Counts() (current, total int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.itemCurrent, s.itemsTotal
}

// Errors returns the accumulated error count.
func (s *State) Errors() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errors
}

// Log appends an info message and pushes an "update" event, throttled to
// one push per interval. The oldest entry is evicted once the queue is
// full.
func (s *State) Log(message string) {
	s.append(LogMessage{Message: message, Level: LevelInfo, Time: time.Now()}, false)
}

// Error appends an error message, increments the error counter, and pushes
// an "error" event immediately (errors bypass the throttle).
func (s *State) Error(message string) {
	s.mu.Lock()
	s.errors++
	s.mu.Unlock()
	s.append(LogMessage{Message: message, Level: LevelError, Time: time.Now()}, true)
}

// History returns a copy of the queued log messages, oldest first.
func (s *State) History() []LogMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]LogMessage, len(s.queue))
	copy(out, s.queue)
	return out
}

func (s *State) append(m LogMessage, immediate bool) {
	s.mu.Lock()
	if len(s.queue) >= s.capacity {
		s.queue = s.queue[1:]
	}
	s.queue = append(s.queue, m)

	notifier := s.notifier
	event := "update"
	send := false
	now := time.Now()
	if notifier != nil {
		if immediate {
			event = "error"
			send = true
			s.lastPush = now
		} else if now.Sub(s.lastPush) > s.pushInterval {
			send = true
			s.lastPush = now
		}
	}
	s.mu.Unlock()

	if send {
		notifier.Send(event)
	}
}
