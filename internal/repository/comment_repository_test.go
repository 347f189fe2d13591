package repository

import (
	"testing"

	"github.com/Vishnu072004/Chess-App/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&domain.User{}, &domain.Reel{}, &domain.ReelLike{}, &domain.ReelSave{}, &domain.ReelView{}, &domain.Comment{})
	require.NoError(t, err)

	return db
}

func seedComment(t *testing.T, db *gorm.DB, reelID uuid.UUID, parentID *uuid.UUID) *domain.Comment {
	comment := &domain.Comment{
		ReelID:    reelID,
		GuestName: "Anonymous",
		ParentID:  parentID,
		Text:      "test comment",
	}
	require.NoError(t, db.Create(comment).Error)
	return comment
}

// Incrementing a missing comment matches zero rows and is not an error
func TestIncrementReplyCount_MissingIDIsNoop(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)

	err := repo.IncrementReplyCount(uuid.New(), 1)
	assert.NoError(t, err)
}

func TestIncrementReplyCount_RelativeDelta(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)

	c := seedComment(t, db, uuid.New(), nil)

	require.NoError(t, repo.IncrementReplyCount(c.ID, 3))
	require.NoError(t, repo.IncrementReplyCount(c.ID, -1))

	var got domain.Comment
	require.NoError(t, db.First(&got, "id = ?", c.ID).Error)
	assert.Equal(t, int64(2), got.ReplyCount)
}

func TestDeleteOne_ReportsExistence(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)

	c := seedComment(t, db, uuid.New(), nil)

	deleted, err := repo.DeleteOne(c.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.DeleteOne(c.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

// DeleteChildren removes only direct replies and returns the removed count
func TestDeleteChildren_DirectOnly(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)

	reelID := uuid.New()
	parent := seedComment(t, db, reelID, nil)
	child1 := seedComment(t, db, reelID, &parent.ID)
	seedComment(t, db, reelID, &parent.ID)
	grandchild := seedComment(t, db, reelID, &child1.ID)

	count, err := repo.DeleteChildren(parent.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	// The grandchild's row survives a single-level delete
	var got domain.Comment
	assert.NoError(t, db.First(&got, "id = ?", grandchild.ID).Error)
}

func TestFindChildren_CreationOrder(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)

	reelID := uuid.New()
	parent := seedComment(t, db, reelID, nil)
	first := seedComment(t, db, reelID, &parent.ID)
	second := seedComment(t, db, reelID, &parent.ID)

	children, err := repo.FindChildren(parent.ID)
	require.NoError(t, err)
	require.Len(t, children, 2)
	assert.Equal(t, first.ID, children[0].ID)
	assert.Equal(t, second.ID, children[1].ID)
}

// CountByReel counts live comments at every depth
func TestCountByReel_AllDepths(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)

	reelID := uuid.New()
	root := seedComment(t, db, reelID, nil)
	reply := seedComment(t, db, reelID, &root.ID)
	seedComment(t, db, reelID, &reply.ID)
	seedComment(t, db, uuid.New(), nil) // other reel

	count, err := repo.CountByReel(reelID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestLiveChildCounts_GroupsByParent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)

	reelID := uuid.New()
	a := seedComment(t, db, reelID, nil)
	b := seedComment(t, db, reelID, nil)
	seedComment(t, db, reelID, &a.ID)
	seedComment(t, db, reelID, &a.ID)
	seedComment(t, db, reelID, &b.ID)

	counts, err := repo.LiveChildCounts()
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[a.ID])
	assert.Equal(t, int64(1), counts[b.ID])
}

func TestDeleteByReel_RemovesWholeBoard(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)

	reelID := uuid.New()
	root := seedComment(t, db, reelID, nil)
	seedComment(t, db, reelID, &root.ID)
	other := seedComment(t, db, uuid.New(), nil)

	removed, err := repo.DeleteByReel(reelID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	var got domain.Comment
	assert.NoError(t, db.First(&got, "id = ?", other.ID).Error)
}
