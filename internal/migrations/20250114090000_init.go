package migrations

import (
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigration(upInit, downInit)
}

func upInit(tx *sql.Tx) error {
	_, err := tx.Exec(`
	CREATE TABLE harvested_posts (
		id SERIAL PRIMARY KEY,
		post_id TEXT NOT NULL UNIQUE,
		username TEXT NOT NULL DEFAULT '',
		user_image TEXT NOT NULL DEFAULT '',
		text TEXT NOT NULL DEFAULT '',
		favorite_count INTEGER NOT NULL DEFAULT 0,
		media TEXT[] NOT NULL DEFAULT '{}',
		created_at_raw TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ,
		harvested_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE TABLE published_posts (
		id SERIAL PRIMARY KEY,
		post_id TEXT NOT NULL UNIQUE,
		username TEXT NOT NULL DEFAULT '',
		user_image TEXT NOT NULL DEFAULT '',
		text TEXT NOT NULL DEFAULT '',
		favorite_count INTEGER NOT NULL DEFAULT 0,
		media TEXT[] NOT NULL DEFAULT '{}',
		created_at_raw TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ,
		recorded_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE INDEX published_posts_text_idx ON published_posts (text);

	CREATE TABLE pending_items (
		id SERIAL PRIMARY KEY,
		parts TEXT[] NOT NULL,
		posted BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE INDEX pending_items_unposted_idx ON pending_items (created_at DESC) WHERE NOT posted;
	`)
	if err != nil {
		return err
	}
	return nil
}

func downInit(tx *sql.Tx) error {
	_, err := tx.Exec(`
	DROP TABLE pending_items;
	DROP TABLE published_posts;
	DROP TABLE harvested_posts;
	`)
	if err != nil {
		return err
	}
	return nil
}
