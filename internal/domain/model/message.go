// File: internal/domain/model/message.go
package model

const UnknownSender = "Unknown"

// InboundMessage is one update pulled from the chat platform. It lives for a
// single dispatch iteration only.
type InboundMessage struct {
	UpdateID int
	Sender   string // display name, UnknownSender when absent
	ChatID   int64  // 0 when the update carried no chat
	Text     string // empty when the update carried no text
}

// HasText reports whether the message can be used as a generation prompt.
func (m InboundMessage) HasText() bool { return m.Text != "" }
