// Package transport defines the messaging-platform boundary the game speaks
// through. The core consumes these contracts; concrete platforms implement
// them.
package transport

import "context"

// Event is one inbound chat message.
type Event struct {
	ChannelID int64
	Text      string
}

// ImagePayload carries either raw image bytes or a platform handle to a
// previously delivered image. Exactly one of the two is set.
type ImagePayload struct {
	Bytes  []byte
	Handle string
}

// Messenger sends outbound messages. Implementations must be safe for
// concurrent use; the notification fanout sends from many goroutines.
type Messenger interface {
	// SendText delivers a text message, optionally with a reply keyboard.
	SendText(ctx context.Context, channelID int64, text string, keyboard [][]string) error
	// SendImage delivers an image and returns the platform's reusable
	// delivery handle for it, when the platform provides one.
	SendImage(ctx context.Context, channelID int64, image ImagePayload, caption string, keyboard [][]string) (string, error)
}

// Source yields inbound events until the context is canceled.
type Source interface {
	Events(ctx context.Context) (<-chan Event, error)
}
