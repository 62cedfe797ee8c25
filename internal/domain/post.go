package domain

import "time"

// Post is a single post as seen on the platform. The same shape is stored
// both for harvested posts (the ingestion feed) and for published posts
// (the audit log and dedup index); the tables differ, not the record.
type Post struct {
	ID            string    // Platform-assigned post id
	Username      string    // Author display name
	UserImage     string    // Author avatar URL
	Text          string    // Full post text
	FavoriteCount int       // Like count at harvest time
	Media         []string  // Attached media URLs
	CreatedAtRaw  string    // Creation time as the platform reports it
	CreatedAt     time.Time // Parsed creation time
}
