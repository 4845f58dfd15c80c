package arena

import "time"

// ChatEntry is a single human-readable narration line.
type ChatEntry struct {
	At   time.Time `json:"at"`
	Text string    `json:"text"`
}

// ChatLog is an ordered, size-capped sequence of narration entries. The
// core only ever appends; it is purely observational.
type ChatLog struct {
	max     int
	entries []ChatEntry
}

// NewChatLog creates a chat log retaining at most max entries; older
// entries are discarded first.
func NewChatLog(max int) *ChatLog {
	return &ChatLog{max: max}
}

// Add appends a narration line, evicting the oldest entry when full.
func (c *ChatLog) Add(at time.Time, text string) {
	c.entries = append(c.entries, ChatEntry{At: at, Text: text})
	if c.max > 0 && len(c.entries) > c.max {
		c.entries = c.entries[len(c.entries)-c.max:]
	}
}

// Entries returns a copy of the log in order.
func (c *ChatLog) Entries() []ChatEntry {
	out := make([]ChatEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Len returns the number of retained entries.
func (c *ChatLog) Len() int {
	return len(c.entries)
}
