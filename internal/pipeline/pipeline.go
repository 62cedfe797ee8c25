package pipeline

import (
	"context"
)

// Client is the long-running orchestrator: it registers the recurring
// jobs and drives the scheduler tick loop until ctx is cancelled.
type Client interface {
	Run(ctx context.Context) error
}
