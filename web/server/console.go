package server

import (
	"regexp"
	"strings"
	"sync"
	"time"
)

// DefaultConsoleSize is the number of log lines kept by a console
const DefaultConsoleSize = 200

// ansiEscape matches the color codes emitted by the log formatter
var ansiEscape = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// ConsoleMessage represents a console message with timestamp
type ConsoleMessage struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Console keeps the most recent log lines for the web preview. It is an
// io.Writer so it can be installed next to stderr as the log sink.
type Console struct {
	mu       sync.Mutex
	limit    int
	messages []ConsoleMessage
}

// NewConsole creates a console holding at most limit lines
func NewConsole(limit int) *Console {
	if limit <= 0 {
		limit = DefaultConsoleSize
	}
	return &Console{limit: limit}
}

// Write records every non-empty line of p. It never fails.
func (c *Console) Write(p []byte) (int, error) {
	now := time.Now()
	text := ansiEscape.ReplaceAllString(string(p), "")

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimRight(line, "\r"); line == "" {
			continue
		}
		c.messages = append(c.messages, ConsoleMessage{Message: line, Timestamp: now})
	}
	if over := len(c.messages) - c.limit; over > 0 {
		c.messages = append(c.messages[:0:0], c.messages[over:]...)
	}
	return len(p), nil
}

// Messages returns a copy of the buffered lines, oldest first
func (c *Console) Messages() []ConsoleMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	messages := make([]ConsoleMessage, len(c.messages))
	copy(messages, c.messages)
	return messages
}
