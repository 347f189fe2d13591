package repository

import (
	"fmt"
	"time"

	"github.com/Vishnu072004/Chess-App/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReelRepository struct {
	db *gorm.DB
}

func NewReelRepository(db *gorm.DB) *ReelRepository {
	return &ReelRepository{db: db}
}

func (r *ReelRepository) Create(reel *domain.Reel) error {
	return r.db.Create(reel).Error
}

func (r *ReelRepository) FindByID(id uuid.UUID) (*domain.Reel, error) {
	var reel domain.Reel
	err := r.db.First(&reel, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &reel, nil
}

func (r *ReelRepository) Exists(id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&domain.Reel{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *ReelRepository) Update(reel *domain.Reel) error {
	return r.db.Save(reel).Error
}

func (r *ReelRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&domain.Reel{}, "id = ?", id).Error
}

// ListPublished returns the chronological feed page.
func (r *ReelRepository) ListPublished(page, limit int) ([]domain.Reel, int64, error) {
	var reels []domain.Reel
	var total int64

	query := r.db.Model(&domain.Reel{}).Where("status = ?", domain.ReelPublished)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&reels).Error
	return reels, total, err
}

// ListAll returns reels of any status for the admin panel, optionally
// filtered by status.
func (r *ReelRepository) ListAll(status *domain.ReelStatus, page, limit int) ([]domain.Reel, int64, error) {
	var reels []domain.Reel
	var total int64

	query := r.db.Model(&domain.Reel{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&reels).Error
	return reels, total, err
}

// Search filters published reels by title/description substring, tags, and
// difficulty. Matches the original case-insensitive regex search.
func (r *ReelRepository) Search(search string, tags []string, difficulty string, page, limit int) ([]domain.Reel, int64, error) {
	var reels []domain.Reel
	var total int64

	query := r.db.Model(&domain.Reel{}).Where("status = ?", domain.ReelPublished)

	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("LOWER(content_title) LIKE LOWER(?) OR LOWER(content_description) LIKE LOWER(?)", pattern, pattern)
	}
	if difficulty != "" {
		query = query.Where("content_difficulty = ?", difficulty)
	}
	// Tags are stored as an array literal; match any requested tag.
	if len(tags) > 0 {
		tagQuery := r.db
		for _, tag := range tags {
			tagQuery = tagQuery.Or(`content_tags LIKE ?`, `%"`+tag+`"%`)
		}
		query = query.Where(tagQuery)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&reels).Error
	return reels, total, err
}

// Trending returns published reels ordered by engagement.
func (r *ReelRepository) Trending(limit int) ([]domain.Reel, error) {
	var reels []domain.Reel
	err := r.db.Where("status = ?", domain.ReelPublished).
		Order("engagement_views DESC, engagement_likes DESC, created_at DESC").
		Limit(limit).
		Find(&reels).Error
	return reels, err
}

// ByDifficulty returns published reels of one difficulty, newest first.
func (r *ReelRepository) ByDifficulty(difficulty domain.Difficulty, page, limit int) ([]domain.Reel, int64, error) {
	var reels []domain.Reel
	var total int64

	query := r.db.Model(&domain.Reel{}).
		Where("status = ? AND content_difficulty = ?", domain.ReelPublished, difficulty)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&reels).Error
	return reels, total, err
}

// Random returns up to limit published reels in random order, for the
// discover surface.
func (r *ReelRepository) Random(limit int) ([]domain.Reel, error) {
	var reels []domain.Reel
	err := r.db.Where("status = ?", domain.ReelPublished).
		Order("RANDOM()").
		Limit(limit).
		Find(&reels).Error
	return reels, err
}

// FolderCounts returns published reel counts per folder.
func (r *ReelRepository) FolderCounts() (map[domain.ReelFolder]int64, error) {
	type row struct {
		Folder domain.ReelFolder
		Count  int64
	}
	var rows []row
	err := r.db.Model(&domain.Reel{}).
		Select("folder, COUNT(*) as count").
		Where("status = ?", domain.ReelPublished).
		Group("folder").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[domain.ReelFolder]int64, len(rows))
	for _, row := range rows {
		counts[row.Folder] = row.Count
	}
	return counts, nil
}

// GrandmasterStat is one entry of the grandmaster browse list.
type GrandmasterStat struct {
	Grandmaster string `json:"grandmaster"`
	ReelCount   int64  `json:"reel_count"`
}

// Grandmasters lists grandmasters that have published reels, most reels
// first.
func (r *ReelRepository) Grandmasters() ([]GrandmasterStat, error) {
	var stats []GrandmasterStat
	err := r.db.Model(&domain.Reel{}).
		Select("grandmaster, COUNT(*) as reel_count").
		Where("status = ? AND folder = ? AND grandmaster IS NOT NULL",
			domain.ReelPublished, domain.FolderGrandmaster).
		Group("grandmaster").
		Order("reel_count DESC, grandmaster ASC").
		Scan(&stats).Error
	return stats, err
}

// ByFolder returns published reels in one folder, optionally narrowed to a
// single grandmaster, newest first.
func (r *ReelRepository) ByFolder(folder domain.ReelFolder, grandmaster string, page, limit int) ([]domain.Reel, int64, error) {
	var reels []domain.Reel
	var total int64

	query := r.db.Model(&domain.Reel{}).
		Where("status = ? AND folder = ?", domain.ReelPublished, folder)
	if grandmaster != "" {
		query = query.Where("grandmaster = ?", grandmaster)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&reels).Error
	return reels, total, err
}

var engagementColumns = map[string]string{
	"likes":    "engagement_likes",
	"comments": "engagement_comments",
	"views":    "engagement_views",
	"saves":    "engagement_saves",
}

// incrementEngagement applies a relative delta to one counter column in a
// single statement. Missing reels match zero rows and are not an error.
func (r *ReelRepository) incrementEngagement(id uuid.UUID, counter string, delta int64) error {
	column, ok := engagementColumns[counter]
	if !ok {
		return fmt.Errorf("unknown engagement counter %q", counter)
	}
	return r.db.Model(&domain.Reel{}).
		Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + ?", delta)).Error
}

// IncrementCommentCount is the reel counter contract used by the thread
// service. Delta may be negative with large magnitude on cascade deletes.
func (r *ReelRepository) IncrementCommentCount(id uuid.UUID, delta int64) error {
	return r.incrementEngagement(id, "comments", delta)
}

func (r *ReelRepository) IncrementViews(id uuid.UUID, delta int64) error {
	return r.incrementEngagement(id, "views", delta)
}

func (r *ReelRepository) IncrementLikes(id uuid.UUID, delta int64) error {
	return r.incrementEngagement(id, "likes", delta)
}

func (r *ReelRepository) IncrementSaves(id uuid.UUID, delta int64) error {
	return r.incrementEngagement(id, "saves", delta)
}

// SetEngagement overwrites all counters (reconciliation only).
func (r *ReelRepository) SetEngagement(id uuid.UUID, e domain.Engagement) error {
	return r.db.Model(&domain.Reel{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"engagement_likes":    e.Likes,
			"engagement_comments": e.Comments,
			"engagement_views":    e.Views,
			"engagement_saves":    e.Saves,
		}).Error
}

// Like records a like row; duplicate likes are ignored. Reports whether a
// new row was created so the caller can bump the counter exactly once.
func (r *ReelRepository) Like(userID, reelID uuid.UUID) (bool, error) {
	res := r.db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&domain.ReelLike{UserID: userID, ReelID: reelID})
	return res.RowsAffected > 0, res.Error
}

func (r *ReelRepository) Unlike(userID, reelID uuid.UUID) (bool, error) {
	res := r.db.Where("user_id = ? AND reel_id = ?", userID, reelID).
		Delete(&domain.ReelLike{})
	return res.RowsAffected > 0, res.Error
}

func (r *ReelRepository) Save(userID, reelID uuid.UUID) (bool, error) {
	res := r.db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&domain.ReelSave{UserID: userID, ReelID: reelID})
	return res.RowsAffected > 0, res.Error
}

func (r *ReelRepository) Unsave(userID, reelID uuid.UUID) (bool, error) {
	res := r.db.Where("user_id = ? AND reel_id = ?", userID, reelID).
		Delete(&domain.ReelSave{})
	return res.RowsAffected > 0, res.Error
}

// RecordView upserts a unique view record per user or guest session and
// reports whether the viewer is new to this reel. The insert and the
// duplicate check are one statement, so two racing first views cannot both
// count as new.
func (r *ReelRepository) RecordView(reelID uuid.UUID, userID *uuid.UUID, sessionID *string) (bool, error) {
	var conflict clause.OnConflict
	switch {
	case userID != nil:
		conflict = clause.OnConflict{
			Columns:   []clause.Column{{Name: "reel_id"}, {Name: "user_id"}},
			DoNothing: true,
		}
	case sessionID != nil:
		conflict = clause.OnConflict{
			Columns:   []clause.Column{{Name: "reel_id"}, {Name: "session_id"}},
			DoNothing: true,
		}
	default:
		// No identity at all still counts as a view, as in the original
		// anonymous endpoint.
		return true, nil
	}

	view := &domain.ReelView{ReelID: reelID, UserID: userID, SessionID: sessionID, ViewedAt: time.Now()}
	res := r.db.Clauses(conflict).Create(view)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return true, nil
	}

	// Repeat viewer: refresh the timestamp on the existing row.
	query := r.db.Model(&domain.ReelView{}).Where("reel_id = ?", reelID)
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	} else {
		query = query.Where("session_id = ?", *sessionID)
	}
	return false, query.UpdateColumn("viewed_at", gorm.Expr("CURRENT_TIMESTAMP")).Error
}

// Per-reel aggregate counts over authoritative rows, for reconciliation.

func (r *ReelRepository) LikeCountsByReel() (map[uuid.UUID]int64, error) {
	return r.groupCounts(&domain.ReelLike{})
}

func (r *ReelRepository) SaveCountsByReel() (map[uuid.UUID]int64, error) {
	return r.groupCounts(&domain.ReelSave{})
}

func (r *ReelRepository) ViewCountsByReel() (map[uuid.UUID]int64, error) {
	return r.groupCounts(&domain.ReelView{})
}

func (r *ReelRepository) groupCounts(model interface{}) (map[uuid.UUID]int64, error) {
	type row struct {
		ReelID uuid.UUID
		Count  int64
	}
	var rows []row
	err := r.db.Model(model).
		Select("reel_id, COUNT(*) as count").
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

func (r *ReelRepository) AllIDs() ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.Model(&domain.Reel{}).Pluck("id", &ids).Error
	return ids, err
}

func (r *ReelRepository) CountAll() (int64, error) {
	var count int64
	err := r.db.Model(&domain.Reel{}).Count(&count).Error
	return count, err
}

func (r *ReelRepository) CountByStatus(status domain.ReelStatus) (int64, error) {
	var count int64
	err := r.db.Model(&domain.Reel{}).Where("status = ?", status).Count(&count).Error
	return count, err
}
