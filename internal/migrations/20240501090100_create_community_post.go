package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateCommunityPost, downCreateCommunityPost)
}

func upCreateCommunityPost(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
	CREATE TABLE IF NOT EXISTS community_post (
		id BIGSERIAL PRIMARY KEY,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now(),
		post_content TEXT NOT NULL,
		image VARCHAR,
		profile_image VARCHAR,
		user_id UUID NOT NULL REFERENCES users (id)
	);
	CREATE INDEX IF NOT EXISTS community_post_created_at_idx ON community_post (created_at DESC);
	`)
	return err
}

func downCreateCommunityPost(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS community_post;`)
	return err
}
