package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateCommentRequest struct {
	Text      string     `json:"text"`
	ParentID  *uuid.UUID `json:"parent_comment_id,omitempty"`
	GuestName string     `json:"guest_name,omitempty"`
}

type CommentResponse struct {
	ID          uuid.UUID     `json:"id"`
	ReelID      uuid.UUID     `json:"reel_id"`
	ParentID    *uuid.UUID    `json:"parent_comment_id,omitempty"`
	Text        string        `json:"text"`
	DisplayName string        `json:"display_name"`
	User        *UserBriefDTO `json:"user,omitempty"`
	LikeCount   int64         `json:"like_count"`
	ReplyCount  int64         `json:"reply_count"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

type DeleteCommentResponse struct {
	DeletedCount int64 `json:"deleted_count"`
}
