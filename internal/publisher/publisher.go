package publisher

import (
	"context"
)

// Client publishes an ordered sequence of text parts as one reply-chain
// thread. On success the returned id is the last post of the chain. On
// failure the id of the last part that did get out is returned alongside
// the error; already published parts are not retracted.
type Client interface {
	Publish(ctx context.Context, parts []string) (lastPostID string, err error)
}
