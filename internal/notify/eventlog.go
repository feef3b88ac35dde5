package notify

import (
	"fmt"
	"os"
	"sync"
	"time"
)

// EventLog is the durable append-only log, one line per event:
// [YYYY-MM-DD HH:MM:SS] message
type EventLog struct {
	path string
	mu   sync.Mutex
}

func NewEventLog(path string) *EventLog {
	return &EventLog{path: path}
}

func (l *EventLog) Append(message string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open event log: %w", err)
	}
	defer f.Close()

	line := fmt.Sprintf("[%s] %s\n", time.Now().Format("2006-01-02 15:04:05"), message)
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("failed to write event log line: %w", err)
	}

	return nil
}
