package progress

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []string
}

func (n *recordingNotifier) Send(event string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) Events() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.events))
	copy(out, n.events)
	return out
}

func TestState_Lifecycle(t *testing.T) {
	s := NewState(nil)

	assert.False(t, s.Running())
	assert.Equal(t, -1, s.Percent())

	s.Start(10)
	assert.True(t, s.Running())
	assert.Equal(t, 0, s.Percent())

	s.Advance(4)
	assert.Equal(t, 40, s.Percent())
	current, total := s.Counts()
	assert.Equal(t, 4, current)
	assert.Equal(t, 10, total)

	s.Advance(6)
	assert.Equal(t, 100, s.Percent())

	s.Finish()
	assert.False(t, s.Running())
}

func TestState_Cancel(t *testing.T) {
	s := NewState(nil)
	s.Start(5)

	s.Cancel()

	assert.False(t, s.Running())
}

func TestState_ErrorCounter(t *testing.T) {
	s := NewState(nil)
	s.Start(1)

	s.Error("first")
	s.Error("second")

	assert.Equal(t, 2, s.Errors())

	// Start resets the counter.
	s.Start(1)
	assert.Equal(t, 0, s.Errors())
}

func TestState_QueueEviction(t *testing.T) {
	s := NewState(nil)
	s.capacity = 3

	for i := 0; i < 5; i++ {
		s.Log(fmt.Sprintf("message %d", i))
	}

	history := s.History()
	assert.Len(t, history, 3)
	assert.Equal(t, "message 2", history[0].Message)
	assert.Equal(t, "message 4", history[2].Message)
}

func TestState_Notifications(t *testing.T) {
	t.Run("updates are throttled", func(t *testing.T) {
		n := &recordingNotifier{}
		s := NewState(n)
		s.pushInterval = time.Hour

		s.Log("one")
		s.Log("two")
		s.Log("three")

		// Only the first log gets through the throttle window.
		assert.Equal(t, []string{"update"}, n.Events())
	})

	t.Run("errors bypass the throttle", func(t *testing.T) {
		n := &recordingNotifier{}
		s := NewState(n)
		s.pushInterval = time.Hour

		s.Log("one")
		s.Error("boom")
		s.Error("boom again")

		assert.Equal(t, []string{"update", "error", "error"}, n.Events())
	})

	t.Run("nil notifier drops everything", func(t *testing.T) {
		s := NewState(nil)
		s.Log("one")
		s.Error("two")
		assert.Len(t, s.History(), 2)
	})
}

func TestState_ConcurrentReaders(t *testing.T) {
	s := NewState(nil)
	s.Start(100)

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			s.Advance(1)
			s.Log("tick")
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			s.Percent()
			s.History()
			s.Running()
		}
	}()

	wg.Wait()
	assert.Equal(t, 100, s.Percent())
}
