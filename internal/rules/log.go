package rules

import (
	"sync"
)

// Log is the append-only record of plays for one game. Sequence numbers are
// assigned on append and total-order the history; nothing is ever edited or
// deleted. Reads return copies, so a snapshot of the log never tears.
type Log struct {
	mu     sync.RWMutex
	gameID int64
	events []Event
	frozen bool
}

func NewLog(gameID int64) *Log {
	return &Log{gameID: gameID}
}

// Append assigns the next sequence number and records the event. A non-zero
// Seq on the event is treated as a compare-and-append guard: it must equal
// the next expected number or the append fails with ErrOutOfOrder.
func (l *Log) Append(ev Event) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.frozen {
		return 0, ErrGameClosed
	}

	want := int64(len(l.events)) + 1
	if ev.Seq != 0 && ev.Seq != want {
		return 0, ErrOutOfOrder
	}
	ev.Seq = want
	ev.GameID = l.gameID

	l.events = append(l.events, ev)
	return want, nil
}

// Read returns the ordered events from fromSeq on (0 and 1 both mean the
// whole log). Repeated reads from the same offset return identical results.
func (l *Log) Read(fromSeq int64) []Event {
	l.mu.RLock()
	defer l.mu.RUnlock()

	start := fromSeq - 1
	if start < 0 {
		start = 0
	}
	if start >= int64(len(l.events)) {
		return []Event{}
	}

	out := make([]Event, int64(len(l.events))-start)
	copy(out, l.events[start:])
	return out
}

func (l *Log) Len() int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return int64(len(l.events))
}

// Freeze permanently rejects further appends. Called when the game
// completes.
func (l *Log) Freeze() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.frozen = true
}

func (l *Log) Frozen() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.frozen
}
