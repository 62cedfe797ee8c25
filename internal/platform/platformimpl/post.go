package platformimpl

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dghubble/go-twitter/twitter"
	"github.com/panoramablock/zico-x-bot/internal/domain"
	apperrors "github.com/panoramablock/zico-x-bot/pkg/errors"
)

// CreatePost publishes a post, optionally as a reply to an existing post.
// Failures are reported as transient: the caller owns the retry policy.
func (i *Impl) CreatePost(ctx context.Context, text string, replyToID string) (*domain.Post, error) {
	if err := i.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := &twitter.StatusUpdateParams{}
	if replyToID != "" {
		numericID, err := strconv.ParseInt(replyToID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid reply-to id %q: %w", replyToID, err)
		}
		params.InReplyToStatusID = numericID
	}

	tweet, _, err := i.client.Statuses.Update(text, params)
	if err != nil {
		return nil, fmt.Errorf("%w: create post: %v", apperrors.ErrTransientPublish, err)
	}

	post := toDomain(tweet)
	i.logger.Debug("Created post", "post_id", post.ID, "reply_to", replyToID)
	return &post, nil
}
