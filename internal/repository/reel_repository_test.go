package repository

import (
	"testing"
	"time"

	"github.com/Vishnu072004/Chess-App/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedReel(t *testing.T, db *gorm.DB, status domain.ReelStatus) *domain.Reel {
	reel := &domain.Reel{
		Video:  domain.Video{URL: "https://cdn.example.com/reels/videos/test.mp4"},
		Status: status,
	}
	reel.Content.Title = "Back Rank Tactics"
	require.NoError(t, db.Create(reel).Error)
	return reel
}

// Counter updates are relative, so interleaved deltas never lose increments
func TestIncrementCommentCount_Relative(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReelRepository(db)
	reel := seedReel(t, db, domain.ReelPublished)

	require.NoError(t, repo.IncrementCommentCount(reel.ID, 1))
	require.NoError(t, repo.IncrementCommentCount(reel.ID, 1))
	require.NoError(t, repo.IncrementCommentCount(reel.ID, -3))

	var got domain.Reel
	require.NoError(t, db.First(&got, "id = ?", reel.ID).Error)
	assert.Equal(t, int64(-1), got.Engagement.Comments)
}

func TestIncrementCommentCount_MissingReelIsNoop(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReelRepository(db)

	assert.NoError(t, repo.IncrementCommentCount(uuid.New(), 5))
}

// A second like from the same user creates no row
func TestLike_Deduplicates(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReelRepository(db)
	reel := seedReel(t, db, domain.ReelPublished)
	userID := uuid.New()

	created, err := repo.Like(userID, reel.ID)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.Like(userID, reel.ID)
	require.NoError(t, err)
	assert.False(t, created)

	var count int64
	db.Model(&domain.ReelLike{}).Where("reel_id = ?", reel.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestUnlike_ReportsExistence(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReelRepository(db)
	reel := seedReel(t, db, domain.ReelPublished)
	userID := uuid.New()

	removed, err := repo.Unlike(userID, reel.ID)
	require.NoError(t, err)
	assert.False(t, removed)

	_, err = repo.Like(userID, reel.ID)
	require.NoError(t, err)

	removed, err = repo.Unlike(userID, reel.ID)
	require.NoError(t, err)
	assert.True(t, removed)
}

// Repeat views from the same viewer create exactly one record
func TestRecordView_UniquePerUser(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReelRepository(db)
	reel := seedReel(t, db, domain.ReelPublished)
	userID := uuid.New()

	isNew, err := repo.RecordView(reel.ID, &userID, nil)
	require.NoError(t, err)
	assert.True(t, isNew)

	for i := 0; i < 3; i++ {
		isNew, err = repo.RecordView(reel.ID, &userID, nil)
		require.NoError(t, err)
		assert.False(t, isNew)
	}

	var count int64
	db.Model(&domain.ReelView{}).Where("reel_id = ? AND user_id = ?", reel.ID, userID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestRecordView_UniquePerSession(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReelRepository(db)
	reel := seedReel(t, db, domain.ReelPublished)
	sessionID := "guest-session-42"

	isNew, err := repo.RecordView(reel.ID, nil, &sessionID)
	require.NoError(t, err)
	assert.True(t, isNew)

	isNew, err = repo.RecordView(reel.ID, nil, &sessionID)
	require.NoError(t, err)
	assert.False(t, isNew)

	var count int64
	db.Model(&domain.ReelView{}).Where("reel_id = ? AND session_id = ?", reel.ID, sessionID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestListPublished_ExcludesDraftsAndArchived(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReelRepository(db)

	seedReel(t, db, domain.ReelPublished)
	seedReel(t, db, domain.ReelPublished)
	seedReel(t, db, domain.ReelDraft)
	seedReel(t, db, domain.ReelArchived)

	reels, total, err := repo.ListPublished(1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, reels, 2)
}

func TestSearch_MatchesTitleAndDifficulty(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReelRepository(db)

	beginner := seedReel(t, db, domain.ReelPublished)
	beginner.Content.Title = "Opposition Basics"
	beginner.Content.Difficulty = domain.DifficultyBeginner
	require.NoError(t, db.Save(beginner).Error)

	advanced := seedReel(t, db, domain.ReelPublished)
	advanced.Content.Title = "Advanced Opposition Ideas"
	advanced.Content.Difficulty = domain.DifficultyAdvanced
	require.NoError(t, db.Save(advanced).Error)

	reels, total, err := repo.Search("opposition", nil, string(domain.DifficultyBeginner), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, reels, 1)
	assert.Equal(t, beginner.ID, reels[0].ID)
}

func TestSetEngagement_OverwritesAllCounters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReelRepository(db)
	reel := seedReel(t, db, domain.ReelPublished)

	want := domain.Engagement{Likes: 4, Comments: 3, Views: 2, Saves: 1}
	require.NoError(t, repo.SetEngagement(reel.ID, want))

	var got domain.Reel
	require.NoError(t, db.First(&got, "id = ?", reel.ID).Error)
	assert.Equal(t, want, got.Engagement)
}

func seedGrandmasterReel(t *testing.T, db *gorm.DB, name string) *domain.Reel {
	reel := &domain.Reel{
		Video:       domain.Video{URL: "https://cdn.example.com/reels/videos/gm.mp4"},
		Status:      domain.ReelPublished,
		Folder:      domain.FolderGrandmaster,
		Grandmaster: &name,
	}
	reel.Content.Title = name + " Classics"
	require.NoError(t, db.Create(reel).Error)
	return reel
}

// Difficulty browse returns only published reels of the requested level
func TestByDifficulty_FiltersStatusAndLevel(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReelRepository(db)

	match := seedReel(t, db, domain.ReelPublished)
	require.NoError(t, db.Model(match).UpdateColumn("content_difficulty", domain.DifficultyBeginner).Error)
	draft := seedReel(t, db, domain.ReelDraft)
	require.NoError(t, db.Model(draft).UpdateColumn("content_difficulty", domain.DifficultyBeginner).Error)
	advanced := seedReel(t, db, domain.ReelPublished)
	require.NoError(t, db.Model(advanced).UpdateColumn("content_difficulty", domain.DifficultyAdvanced).Error)

	reels, total, err := repo.ByDifficulty(domain.DifficultyBeginner, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, reels, 1)
	assert.Equal(t, match.ID, reels[0].ID)
}

// Random sampling never leaks unpublished reels
func TestRandom_OnlyPublished(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReelRepository(db)

	a := seedReel(t, db, domain.ReelPublished)
	b := seedReel(t, db, domain.ReelPublished)
	seedReel(t, db, domain.ReelDraft)

	reels, err := repo.Random(10)
	require.NoError(t, err)
	require.Len(t, reels, 2)
	got := []uuid.UUID{reels[0].ID, reels[1].ID}
	assert.Contains(t, got, a.ID)
	assert.Contains(t, got, b.ID)

	one, err := repo.Random(1)
	require.NoError(t, err)
	assert.Len(t, one, 1)
}

// Folder stats count published reels per folder
func TestFolderCounts_GroupsByFolder(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReelRepository(db)

	seedReel(t, db, domain.ReelPublished)
	seedReel(t, db, domain.ReelDraft)
	seedGrandmasterReel(t, db, "Tal")
	seedGrandmasterReel(t, db, "Tal")

	counts, err := repo.FolderCounts()
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[domain.FolderRandom])
	assert.Equal(t, int64(2), counts[domain.FolderGrandmaster])
}

// Grandmaster list aggregates published reels per name, most reels first
func TestGrandmasters_CountsPerName(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReelRepository(db)

	seedGrandmasterReel(t, db, "Tal")
	seedGrandmasterReel(t, db, "Tal")
	seedGrandmasterReel(t, db, "Fischer")
	seedReel(t, db, domain.ReelPublished)

	stats, err := repo.Grandmasters()
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, "Tal", stats[0].Grandmaster)
	assert.Equal(t, int64(2), stats[0].ReelCount)
	assert.Equal(t, "Fischer", stats[1].Grandmaster)
	assert.Equal(t, int64(1), stats[1].ReelCount)
}

// Folder browse narrows to one grandmaster when requested
func TestByFolder_GrandmasterFilter(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReelRepository(db)

	tal := seedGrandmasterReel(t, db, "Tal")
	seedGrandmasterReel(t, db, "Fischer")
	seedReel(t, db, domain.ReelPublished)

	reels, total, err := repo.ByFolder(domain.FolderGrandmaster, "Tal", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, reels, 1)
	assert.Equal(t, tal.ID, reels[0].ID)

	all, total, err := repo.ByFolder(domain.FolderGrandmaster, "", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, all, 2)
}

// A repeat view refreshes the timestamp on the existing row
func TestRecordView_RepeatRefreshesTimestamp(t *testing.T) {
	db := setupTestDB(t)
	repo := NewReelRepository(db)
	reel := seedReel(t, db, domain.ReelPublished)
	userID := uuid.New()

	isNew, err := repo.RecordView(reel.ID, &userID, nil)
	require.NoError(t, err)
	require.True(t, isNew)

	stale := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, db.Model(&domain.ReelView{}).
		Where("reel_id = ? AND user_id = ?", reel.ID, userID).
		UpdateColumn("viewed_at", stale).Error)

	isNew, err = repo.RecordView(reel.ID, &userID, nil)
	require.NoError(t, err)
	assert.False(t, isNew)

	var view domain.ReelView
	require.NoError(t, db.First(&view, "reel_id = ? AND user_id = ?", reel.ID, userID).Error)
	assert.True(t, view.ViewedAt.After(stale))
}
