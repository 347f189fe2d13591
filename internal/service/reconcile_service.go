package service

import (
	"log"

	"github.com/Vishnu072004/Chess-App/internal/domain"
	"github.com/Vishnu072004/Chess-App/internal/repository"
)

// ReconcileService rewrites denormalized counters from authoritative rows.
// It shares the liveness definition (is_deleted = false) with the request
// path, so a run settles any drift the non-transactional comment cascade
// left behind. Idempotent; meant to run from a schedule or by hand.
type ReconcileService struct {
	commentRepo *repository.CommentRepository
	reelRepo    *repository.ReelRepository
}

func NewReconcileService(commentRepo *repository.CommentRepository, reelRepo *repository.ReelRepository) *ReconcileService {
	return &ReconcileService{
		commentRepo: commentRepo,
		reelRepo:    reelRepo,
	}
}

type ReconcileReport struct {
	ReelsUpdated    int
	CommentsUpdated int
}

// ReconcileEngagement overwrites every reel's engagement counters with
// counts aggregated from the comment, like, save, and view tables.
func (s *ReconcileService) ReconcileEngagement() (int, error) {
	reelIDs, err := s.reelRepo.AllIDs()
	if err != nil {
		return 0, err
	}

	commentCounts, err := s.commentRepo.LiveCountsByReel()
	if err != nil {
		return 0, err
	}
	likeCounts, err := s.reelRepo.LikeCountsByReel()
	if err != nil {
		return 0, err
	}
	saveCounts, err := s.reelRepo.SaveCountsByReel()
	if err != nil {
		return 0, err
	}
	viewCounts, err := s.reelRepo.ViewCountsByReel()
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, id := range reelIDs {
		engagement := domain.Engagement{
			Likes:    likeCounts[id],
			Comments: commentCounts[id],
			Views:    viewCounts[id],
			Saves:    saveCounts[id],
		}
		if err := s.reelRepo.SetEngagement(id, engagement); err != nil {
			log.Printf("reconcile: failed to update reel %s: %v", id, err)
			continue
		}
		updated++
	}
	return updated, nil
}

// ReconcileReplyCounts overwrites every live comment's reply counter with
// its live direct-children count.
func (s *ReconcileService) ReconcileReplyCounts() (int, error) {
	ids, err := s.commentRepo.AllIDs()
	if err != nil {
		return 0, err
	}
	childCounts, err := s.commentRepo.LiveChildCounts()
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, id := range ids {
		if err := s.commentRepo.SetReplyCount(id, childCounts[id]); err != nil {
			log.Printf("reconcile: failed to update comment %s: %v", id, err)
			continue
		}
		updated++
	}
	return updated, nil
}

// Run performs a full reconciliation pass.
func (s *ReconcileService) Run() (ReconcileReport, error) {
	reels, err := s.ReconcileEngagement()
	if err != nil {
		return ReconcileReport{}, err
	}
	comments, err := s.ReconcileReplyCounts()
	if err != nil {
		return ReconcileReport{ReelsUpdated: reels}, err
	}
	return ReconcileReport{ReelsUpdated: reels, CommentsUpdated: comments}, nil
}
