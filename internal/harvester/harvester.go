package harvester

import (
	"context"
)

// Client ingests posts from the platform into storage.
type Client interface {
	// HarvestListPosts pulls the configured list feed and upserts every
	// post into the harvested collection.
	HarvestListPosts(ctx context.Context) error

	// SyncPublishedPosts pulls the bot account's own timeline and upserts
	// it into the published collection, keeping the dedup index complete
	// even for posts sent outside this process.
	SyncPublishedPosts(ctx context.Context) error
}
