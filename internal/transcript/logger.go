// Package transcript provides optional NDJSON logging of chat events,
// one file per user session plus an optional global stream.
package transcript

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sanjit-mathur/mindmate/internal/domain"
)

// Config controls transcript logging.
type Config struct {
	Enabled       bool
	Dir           string
	GlobalEnabled bool
	GlobalPath    string
	QueueSize     int
}

// Event is one logged chat event.
type Event struct {
	Time      time.Time         `json:"time"`
	UserID    string            `json:"user_id"`
	SessionID string            `json:"session_id"`
	EventType string            `json:"event_type"`
	Role      string            `json:"role,omitempty"`
	Text      string            `json:"text,omitempty"`
	Flag      domain.FlagResult `json:"flag,omitempty"`
}

// Event types.
const (
	EventUserMessage      = "user_message"
	EventAssistantMessage = "assistant_message"
	EventCrisisReply      = "crisis_reply"
	EventSessionReset     = "session_reset"
	EventDashboardDone    = "dashboard_generated"
)

// Logger records chat events. Implementations must be safe for
// concurrent use and must never block the chat turn.
type Logger interface {
	Log(ev Event)
	Close() error
}

// New returns a file-backed logger, or a no-op logger when disabled.
func New(cfg Config, log *slog.Logger) (Logger, error) {
	if !cfg.Enabled {
		return noopLogger{}, nil
	}
	if cfg.Dir == "" {
		return nil, fmt.Errorf("transcript: log dir is empty")
	}
	if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
		return nil, fmt.Errorf("transcript: create log dir: %w", err)
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1000
	}
	if log == nil {
		log = slog.Default()
	}

	l := &fileLogger{
		cfg:    cfg,
		log:    log,
		events: make(chan Event, cfg.QueueSize),
		done:   make(chan struct{}),
	}
	go l.run()
	return l, nil
}

// NewNoop returns a logger that discards every event.
func NewNoop() Logger {
	return noopLogger{}
}

type noopLogger struct{}

func (noopLogger) Log(Event)    {}
func (noopLogger) Close() error { return nil }

type fileLogger struct {
	cfg     Config
	log     *slog.Logger
	events  chan Event
	done    chan struct{}
	dropped atomic.Int64
	closeMu sync.Mutex
	closed  bool
}

// Log enqueues an event. When the queue is full, or the logger has been
// closed, the event is dropped and counted rather than blocking or
// panicking; in-flight turns may still log during shutdown.
func (l *fileLogger) Log(ev Event) {
	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}
	l.closeMu.Lock()
	defer l.closeMu.Unlock()
	if l.closed {
		l.dropped.Add(1)
		return
	}
	select {
	case l.events <- ev:
	default:
		l.dropped.Add(1)
		l.log.Debug("Transcript event dropped, queue full", "dropped_total", l.dropped.Load())
	}
}

// Close stops the writer after draining queued events.
func (l *fileLogger) Close() error {
	l.closeMu.Lock()
	defer l.closeMu.Unlock()
	if l.closed {
		return nil
	}
	l.closed = true
	close(l.events)
	<-l.done
	if n := l.dropped.Load(); n > 0 {
		l.log.Warn("Transcript logger dropped events", "count", n)
	}
	return nil
}

func (l *fileLogger) run() {
	defer close(l.done)
	for ev := range l.events {
		line, err := json.Marshal(ev)
		if err != nil {
			l.log.Warn("Failed to marshal transcript event", "error", err)
			continue
		}
		line = append(line, '\n')

		path := filepath.Join(l.cfg.Dir, ev.UserID, ev.SessionID+".ndjson")
		if err := appendLine(path, line); err != nil {
			l.log.Warn("Failed to write transcript event", "path", path, "error", err)
		}
		if l.cfg.GlobalEnabled && l.cfg.GlobalPath != "" {
			if err := appendLine(l.cfg.GlobalPath, line); err != nil {
				l.log.Warn("Failed to write global transcript event", "path", l.cfg.GlobalPath, "error", err)
			}
		}
	}
}

func appendLine(path string, line []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.Write(line)
	return err
}
