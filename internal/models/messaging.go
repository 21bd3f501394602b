package models

import "context"

// MessageFormat selects how the transport renders the message text.
type MessageFormat int

const (
	FormatPlain MessageFormat = iota
	FormatMarkdown
)

// MessageAction is an inline button attached to an outbound message.
// Exactly one of URL and CallbackToken is set.
type MessageAction struct {
	Label         string
	URL           string
	CallbackToken string
}

// OutboundMessage is what the core hands to the messaging boundary.
// The core never depends on transport-specific message ids.
type OutboundMessage struct {
	Text    string
	Format  MessageFormat
	Actions []MessageAction
}

// Messenger is the external messaging boundary.
type Messenger interface {
	Send(ctx context.Context, chatID int64, msg OutboundMessage) error
}

// PositionLookup is the external position index, used only by the watch
// wizard's address step.
type PositionLookup interface {
	ListPositions(ctx context.Context, address string) ([]Position, error)
}

// Reply is a state machine's answer to one input: the text to show and the
// affordances to offer next.
type Reply struct {
	Text     string
	Markdown bool
	Buttons  [][]Button
	// RequestChat asks the transport to present its chat selection UI.
	RequestChat bool
}

// Button is a single reply affordance. Callback and URL are mutually exclusive.
type Button struct {
	Label    string
	Callback string
	URL      string
}
