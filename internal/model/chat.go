package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// PaymentMethod is how the buyer intends to pay the seller.
type PaymentMethod string

const (
	PaymentCredits PaymentMethod = "CREDITS"
	PaymentRobux   PaymentMethod = "ROBUX"
)

// Valid reports whether m is a known payment method.
func (m PaymentMethod) Valid() bool {
	return m == PaymentCredits || m == PaymentRobux
}

// ParsePaymentMethod accepts the enum value in any case.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(strings.ToUpper(strings.TrimSpace(s))) {
	case PaymentCredits:
		return PaymentCredits, nil
	case PaymentRobux:
		return PaymentRobux, nil
	}
	return "", fmt.Errorf("unknown payment method %q", s)
}

// ChatStatus is the lifecycle state of a Chat.
type ChatStatus string

const (
	ChatOpen      ChatStatus = "OPEN"
	ChatClaimed   ChatStatus = "CLAIMED"
	ChatCompleted ChatStatus = "COMPLETED"
)

// ErrInvalidTransition is returned when a chat cannot move to the requested status.
var ErrInvalidTransition = errors.New("invalid chat status transition")

// rank orders statuses along OPEN -> CLAIMED -> COMPLETED.
func (s ChatStatus) rank() int {
	switch s {
	case ChatOpen:
		return 0
	case ChatClaimed:
		return 1
	case ChatCompleted:
		return 2
	}
	return -1
}

// Message is a single chat line.
type Message struct {
	From      string    `json:"from"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Chat models the handoff of exactly one purchased unit.
type Chat struct {
	ID            string        `json:"id"`
	BuyerUsername string        `json:"buyerUsername"`
	BuyerDisplay  string        `json:"buyerDisplay"`
	ItemID        string        `json:"itemId"`
	ItemName      string        `json:"itemName"`
	OrderID       string        `json:"orderId,omitempty"`
	Messages      []Message     `json:"messages"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	Status        ChatStatus    `json:"status"`
}

// Claimed reports whether a seller has picked up the chat.
func (c *Chat) Claimed() bool {
	return c.Status == ChatClaimed || c.Status == ChatCompleted
}

// Completed reports whether the sale was confirmed.
func (c *Chat) Completed() bool {
	return c.Status == ChatCompleted
}

// Transition moves the chat forward to status to. Moving to the current
// status or backwards from COMPLETED to CLAIMED is ignored and reports false.
// Reopening is rejected.
func (c *Chat) Transition(to ChatStatus) (bool, error) {
	from := c.Status
	if to.rank() < 0 || from.rank() < 0 {
		return false, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	if to == ChatOpen && from != ChatOpen {
		return false, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	if to.rank() <= from.rank() {
		return false, nil
	}
	c.Status = to
	return true, nil
}

type messageAlias Message

// UnmarshalJSON also reads the epoch-millisecond "time" key of older records.
func (m *Message) UnmarshalJSON(data []byte) error {
	var raw struct {
		messageAlias
		Time *float64 `json:"time"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*m = Message(raw.messageAlias)
	if m.Timestamp.IsZero() && raw.Time != nil {
		m.Timestamp = time.UnixMilli(int64(*raw.Time)).UTC()
	}
	return nil
}

// Append adds a message to the thread.
func (c *Chat) Append(from, text string, at time.Time) {
	c.Messages = append(c.Messages, Message{From: from, Text: text, Timestamp: at})
}

type chatAlias Chat

type chatJSON struct {
	chatAlias
	Claimed   bool `json:"claimed"`
	Completed bool `json:"completed"`
}

// MarshalJSON writes the status together with the derived claimed/completed flags.
func (c Chat) MarshalJSON() ([]byte, error) {
	return json.Marshal(chatJSON{
		chatAlias: chatAlias(c),
		Claimed:   c.Claimed(),
		Completed: c.Completed(),
	})
}

// legacyChatJSON holds the keys older records used for buyer and payment.
type legacyChatJSON struct {
	User        string `json:"user"`
	UserDisplay string `json:"userDisplay"`
	Robux       bool   `json:"robux"`
}

// UnmarshalJSON derives Status from the boolean flags when a record has none,
// and fills buyer and payment method from the older user/userDisplay/robux keys.
func (c *Chat) UnmarshalJSON(data []byte) error {
	var raw chatJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var legacy legacyChatJSON
	if err := json.Unmarshal(data, &legacy); err != nil {
		return err
	}
	*c = Chat(raw.chatAlias)
	if c.BuyerUsername == "" {
		c.BuyerUsername = legacy.User
	}
	if c.BuyerDisplay == "" {
		c.BuyerDisplay = legacy.UserDisplay
	}
	if c.PaymentMethod == "" && legacy.Robux {
		c.PaymentMethod = PaymentRobux
	}
	if c.Status == "" {
		switch {
		case raw.Completed:
			c.Status = ChatCompleted
		case raw.Claimed:
			c.Status = ChatClaimed
		default:
			c.Status = ChatOpen
		}
	}
	if c.PaymentMethod == "" {
		c.PaymentMethod = PaymentCredits
	}
	return nil
}
