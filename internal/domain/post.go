package domain

import "time"

// Post is a persisted community_post row.
type Post struct {
	ID           int64     `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	Content      string    `json:"post_content"`
	Image        *string   `json:"image"`
	ProfileImage *string   `json:"profile_image"`
	UserID       string    `json:"user_id"`
}

// NewPost is the body of a post-create request.
type NewPost struct {
	Content      string  `json:"postContent"`
	ProfileImage *string `json:"profileImage"`
	Image        *string `json:"image"`
	UserID       string  `json:"user_id"`
}
