package repository

import (
	"github.com/Vishnu072004/Chess-App/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CommentRepository is the comment store used by the thread service. The
// increment operations are relative updates executed in a single statement;
// they silently match zero rows when the target is gone, which is what the
// non-transactional cascade relies on.
type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(comment *domain.Comment) error {
	return r.db.Create(comment).Error
}

func (r *CommentRepository) FindByID(id uuid.UUID) (*domain.Comment, error) {
	var comment domain.Comment
	err := r.db.Preload("User").First(&comment, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// FindChildren returns the direct replies of a comment, in creation order.
func (r *CommentRepository) FindChildren(parentID uuid.UUID) ([]domain.Comment, error) {
	var children []domain.Comment
	err := r.db.Where("parent_id = ?", parentID).
		Order("created_at ASC").
		Find(&children).Error
	return children, err
}

// DeleteOne removes a single comment. Reports whether a row existed.
func (r *CommentRepository) DeleteOne(id uuid.UUID) (bool, error) {
	res := r.db.Delete(&domain.Comment{}, "id = ?", id)
	return res.RowsAffected > 0, res.Error
}

// DeleteChildren removes all direct replies of a parent in one statement and
// returns the number of rows removed.
func (r *CommentRepository) DeleteChildren(parentID uuid.UUID) (int64, error) {
	res := r.db.Delete(&domain.Comment{}, "parent_id = ?", parentID)
	return res.RowsAffected, res.Error
}

// IncrementReplyCount applies a relative delta to a comment's reply counter.
// A missing id is a no-op, not an error: a parent may be deleted while a
// reply to it is still in flight.
func (r *CommentRepository) IncrementReplyCount(id uuid.UUID, delta int64) error {
	return r.db.Model(&domain.Comment{}).
		Where("id = ?", id).
		UpdateColumn("reply_count", gorm.Expr("reply_count + ?", delta)).Error
}

// ListByReel returns the live comments of a reel, newest first, with author
// data attached.
func (r *CommentRepository) ListByReel(reelID uuid.UUID) ([]domain.Comment, error) {
	var comments []domain.Comment
	err := r.db.Preload("User").
		Where("reel_id = ? AND is_deleted = ?", reelID, false).
		Order("created_at DESC").
		Find(&comments).Error
	return comments, err
}

// CountByReel is the authoritative definition of a reel's comment count:
// live comments at every reply depth.
func (r *CommentRepository) CountByReel(reelID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&domain.Comment{}).
		Where("reel_id = ? AND is_deleted = ?", reelID, false).
		Count(&count).Error
	return count, err
}

func (r *CommentRepository) CountAll() (int64, error) {
	var count int64
	err := r.db.Model(&domain.Comment{}).Where("is_deleted = ?", false).Count(&count).Error
	return count, err
}

// LiveCountsByReel aggregates live comment counts grouped by reel, for the
// reconciliation job.
func (r *CommentRepository) LiveCountsByReel() (map[uuid.UUID]int64, error) {
	type row struct {
		ReelID uuid.UUID
		Count  int64
	}
	var rows []row
	err := r.db.Model(&domain.Comment{}).
		Select("reel_id, COUNT(*) as count").
		Where("is_deleted = ?", false).
		Group("reel_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[uuid.UUID]int64, len(rows))
	for _, r := range rows {
		counts[r.ReelID] = r.Count
	}
	return counts, nil
}

// LiveChildCounts aggregates direct-reply counts grouped by parent, for
// reply-count reconciliation.
func (r *CommentRepository) LiveChildCounts() (map[uuid.UUID]int64, error) {
	type row struct {
		ParentID uuid.UUID
		Count    int64
	}
	var rows []row
	err := r.db.Model(&domain.Comment{}).
		Select("parent_id, COUNT(*) as count").
		Where("parent_id IS NOT NULL AND is_deleted = ?", false).
		Group("parent_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[uuid.UUID]int64, len(rows))
	for _, r := range rows {
		counts[r.ParentID] = r.Count
	}
	return counts, nil
}

// SetReplyCount overwrites a comment's reply counter (reconciliation only).
func (r *CommentRepository) SetReplyCount(id uuid.UUID, count int64) error {
	return r.db.Model(&domain.Comment{}).
		Where("id = ?", id).
		UpdateColumn("reply_count", count).Error
}

// AllIDs returns every live comment id (reconciliation only).
func (r *CommentRepository) AllIDs() ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.Model(&domain.Comment{}).
		Where("is_deleted = ?", false).
		Pluck("id", &ids).Error
	return ids, err
}

// DeleteByReel removes every comment of a reel (admin reel deletion).
func (r *CommentRepository) DeleteByReel(reelID uuid.UUID) (int64, error) {
	res := r.db.Delete(&domain.Comment{}, "reel_id = ?", reelID)
	return res.RowsAffected, res.Error
}
