package pubsub

import "context"

// Pack is a single published message. Key routes the message inside the
// topic, Msg carries the json payload.
type Pack struct {
	Key []byte
	Msg []byte
}

type Publisher interface {
	Publish(context.Context, string, *Pack) error
}
