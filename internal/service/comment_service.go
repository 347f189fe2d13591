package service

import (
	"errors"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/Vishnu072004/Chess-App/internal/domain"
	"github.com/Vishnu072004/Chess-App/internal/dto"
	"github.com/Vishnu072004/Chess-App/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const maxCommentLength = 1000

var (
	ErrReelNotFound    = errors.New("reel not found")
	ErrCommentNotFound = errors.New("comment not found")
	ErrParentNotFound  = errors.New("parent comment not found")
	ErrNotCommentOwner = errors.New("not the comment owner")
	ErrTextRequired    = errors.New("comment text is required")
	ErrTextTooLong     = errors.New("comment text exceeds maximum length")
)

// CommentService owns the comment thread lifecycle: creation with reply
// linking, cascading deletion, and the denormalized counters on the parent
// comment and the owning reel. The multi-step flows are not transactional;
// each counter update is a single atomic relative increment and the
// reconcile job repairs any drift left by mid-flight failures.
type CommentService struct {
	commentRepo *repository.CommentRepository
	reelRepo    *repository.ReelRepository
}

func NewCommentService(commentRepo *repository.CommentRepository, reelRepo *repository.ReelRepository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		reelRepo:    reelRepo,
	}
}

// Create posts a comment or reply on a reel. UserID is nil for guest
// comments, which carry only a display name. Effect order: parent reply
// counter first, then the insert, then the reel counter. A failure after
// the first step leaves an orphaned increment, which is logged for the
// reconciliation pass instead of rolled back.
func (s *CommentService) Create(reelID uuid.UUID, userID *uuid.UUID, req dto.CreateCommentRequest) (*domain.Comment, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, ErrTextRequired
	}
	if utf8.RuneCountInString(text) > maxCommentLength {
		return nil, ErrTextTooLong
	}

	exists, err := s.reelRepo.Exists(reelID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrReelNotFound
	}

	if req.ParentID != nil {
		if _, err := s.commentRepo.FindByID(*req.ParentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrParentNotFound
			}
			return nil, err
		}
		if err := s.commentRepo.IncrementReplyCount(*req.ParentID, 1); err != nil {
			return nil, err
		}
	}

	guestName := strings.TrimSpace(req.GuestName)
	if guestName == "" {
		guestName = "Anonymous"
	}

	comment := &domain.Comment{
		ReelID:    reelID,
		UserID:    userID,
		GuestName: guestName,
		ParentID:  req.ParentID,
		Text:      text,
	}

	if err := s.commentRepo.Create(comment); err != nil {
		if req.ParentID != nil {
			log.Printf("orphaned reply-count increment on comment %s after failed create: %v", *req.ParentID, err)
		}
		return nil, err
	}

	if err := s.reelRepo.IncrementCommentCount(reelID, 1); err != nil {
		log.Printf("comment %s created but reel %s counter update failed: %v", comment.ID, reelID, err)
		return nil, err
	}

	// Attach author metadata for the response.
	created, err := s.commentRepo.FindByID(comment.ID)
	if err != nil {
		return comment, nil
	}
	return created, nil
}

// Delete removes a comment and every descendant reply, then settles the
// counters. Only the comment's author may delete it; guest comments have no
// owner and cannot be deleted through this path.
//
// The descendant set is enumerated with an explicit stack so arbitrarily
// deep threads cannot exhaust the call stack. Deletion runs bottom-up
// (deepest parents first) and the counter adjustments run last: a failure
// mid-cascade undercounts visibly rather than double-decrementing.
func (s *CommentService) Delete(commentID uuid.UUID, userID uuid.UUID) (int64, error) {
	comment, err := s.commentRepo.FindByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrCommentNotFound
		}
		return 0, err
	}

	if comment.UserID == nil || *comment.UserID != userID {
		return 0, ErrNotCommentOwner
	}

	// Collect every node whose children must be removed, in discovery
	// (top-down) order. parents[0] is the target comment itself.
	parents := []uuid.UUID{commentID}
	var repliesCount int64
	for i := 0; i < len(parents); i++ {
		children, err := s.commentRepo.FindChildren(parents[i])
		if err != nil {
			return 0, err
		}
		repliesCount += int64(len(children))
		for _, child := range children {
			parents = append(parents, child.ID)
		}
	}

	// Delete children-of-deepest first.
	for i := len(parents) - 1; i >= 0; i-- {
		if _, err := s.commentRepo.DeleteChildren(parents[i]); err != nil {
			return 0, err
		}
	}

	deleted, err := s.commentRepo.DeleteOne(commentID)
	if err != nil {
		return 0, err
	}
	if !deleted {
		return 0, ErrCommentNotFound
	}

	totalDeleted := repliesCount + 1

	if err := s.reelRepo.IncrementCommentCount(comment.ReelID, -totalDeleted); err != nil {
		log.Printf("deleted %d comments under %s but reel %s counter update failed: %v",
			totalDeleted, commentID, comment.ReelID, err)
		return totalDeleted, err
	}

	if comment.ParentID != nil {
		if err := s.commentRepo.IncrementReplyCount(*comment.ParentID, -1); err != nil {
			log.Printf("reply-count decrement on parent %s failed after deleting %s: %v",
				*comment.ParentID, commentID, err)
			return totalDeleted, err
		}
	}

	return totalDeleted, nil
}

// ListByReel returns the live comments of a reel, newest first.
func (s *CommentService) ListByReel(reelID uuid.UUID) ([]dto.CommentResponse, error) {
	comments, err := s.commentRepo.ListByReel(reelID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		responses = append(responses, toCommentResponse(&comments[i]))
	}
	return responses, nil
}

func toCommentResponse(c *domain.Comment) dto.CommentResponse {
	resp := dto.CommentResponse{
		ID:          c.ID,
		ReelID:      c.ReelID,
		ParentID:    c.ParentID,
		Text:        c.Text,
		DisplayName: c.DisplayName(),
		LikeCount:   c.LikeCount,
		ReplyCount:  c.ReplyCount,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
	if c.User != nil {
		resp.User = &dto.UserBriefDTO{
			ID:        c.User.ID,
			Username:  c.User.Username,
			AvatarURL: c.User.AvatarURL,
			Role:      string(c.User.Role),
		}
	}
	return resp
}
