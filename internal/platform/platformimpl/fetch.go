package platformimpl

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dghubble/go-twitter/twitter"
	"github.com/panoramablock/zico-x-bot/internal/domain"
)

const fetchBatchSize = 100

// FetchListPosts returns the most recent posts of a platform list.
func (i *Impl) FetchListPosts(ctx context.Context, listID int64) ([]domain.Post, error) {
	if err := i.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	tweets, _, err := i.client.Lists.Statuses(&twitter.ListsStatusesParams{
		ListID:          listID,
		Count:           fetchBatchSize,
		IncludeEntities: twitter.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("fetch list %d: %w", listID, err)
	}

	posts := make([]domain.Post, 0, len(tweets))
	for idx := range tweets {
		posts = append(posts, toDomain(&tweets[idx]))
	}
	return posts, nil
}

// FetchUserPosts returns the most recent posts of a platform user.
func (i *Impl) FetchUserPosts(ctx context.Context, userID int64) ([]domain.Post, error) {
	if err := i.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	tweets, _, err := i.client.Timelines.UserTimeline(&twitter.UserTimelineParams{
		UserID:          userID,
		Count:           fetchBatchSize,
		IncludeRetweets: twitter.Bool(false),
		TweetMode:       "extended",
	})
	if err != nil {
		return nil, fmt.Errorf("fetch user %d timeline: %w", userID, err)
	}

	posts := make([]domain.Post, 0, len(tweets))
	for idx := range tweets {
		posts = append(posts, toDomain(&tweets[idx]))
	}
	return posts, nil
}

// FetchPostByID returns one post by its platform id.
func (i *Impl) FetchPostByID(ctx context.Context, id string) (*domain.Post, error) {
	if err := i.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	numericID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid post id %q: %w", id, err)
	}

	tweet, _, err := i.client.Statuses.Show(numericID, &twitter.StatusShowParams{
		TweetMode: "extended",
	})
	if err != nil {
		return nil, fmt.Errorf("fetch post %s: %w", id, err)
	}

	post := toDomain(tweet)
	return &post, nil
}

func toDomain(t *twitter.Tweet) domain.Post {
	text := t.FullText
	if text == "" {
		text = t.Text
	}

	// Parse failures leave the zero time; the raw value is kept either way.
	created, _ := t.CreatedAtTime()

	id := t.IDStr
	if id == "" && t.ID != 0 {
		id = strconv.FormatInt(t.ID, 10)
	}

	var media []string
	if t.ExtendedEntities != nil {
		for _, m := range t.ExtendedEntities.Media {
			media = append(media, m.MediaURLHttps)
		}
	} else if t.Entities != nil {
		for _, m := range t.Entities.Media {
			media = append(media, m.MediaURLHttps)
		}
	}

	post := domain.Post{
		ID:            id,
		Text:          text,
		FavoriteCount: t.FavoriteCount,
		Media:         media,
		CreatedAtRaw:  t.CreatedAt,
		CreatedAt:     created,
	}
	if t.User != nil {
		post.Username = t.User.Name
		post.UserImage = t.User.ProfileImageURLHttps
	}
	return post
}
