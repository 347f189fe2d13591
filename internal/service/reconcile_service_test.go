package service

import (
	"testing"

	"github.com/Vishnu072004/Chess-App/internal/domain"
	"github.com/Vishnu072004/Chess-App/internal/dto"
	"github.com/Vishnu072004/Chess-App/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newReconcileService(t *testing.T) (*ReconcileService, *CommentService, *repository.ReelRepository, *gorm.DB) {
	db := setupTestDB(t)
	commentRepo := repository.NewCommentRepository(db)
	reelRepo := repository.NewReelRepository(db)
	return NewReconcileService(commentRepo, reelRepo), NewCommentService(commentRepo, reelRepo), reelRepo, db
}

// Drifted counters are rewritten from the authoritative rows
func TestReconcile_RepairsDriftedCounters(t *testing.T) {
	reconciler, comments, reelRepo, db := newReconcileService(t)
	reel := createTestReel(t, db)
	user := createTestUser(t, db, "pinandwin")

	root, err := comments.Create(reel.ID, &user.ID, dto.CreateCommentRequest{Text: "root"})
	require.NoError(t, err)
	_, err = comments.Create(reel.ID, &user.ID, dto.CreateCommentRequest{Text: "reply", ParentID: &root.ID})
	require.NoError(t, err)

	liked, err := reelRepo.Like(user.ID, reel.ID)
	require.NoError(t, err)
	require.True(t, liked)

	// Simulate drift left by a mid-flight failure
	require.NoError(t, reelRepo.SetEngagement(reel.ID, domain.Engagement{Likes: 99, Comments: 99, Views: 99, Saves: 99}))
	require.NoError(t, db.Model(&domain.Comment{}).Where("id = ?", root.ID).UpdateColumn("reply_count", 42).Error)

	report, err := reconciler.Run()
	require.NoError(t, err)
	assert.Equal(t, 1, report.ReelsUpdated)
	assert.Equal(t, 2, report.CommentsUpdated)

	var got domain.Reel
	require.NoError(t, db.First(&got, "id = ?", reel.ID).Error)
	assert.Equal(t, int64(2), got.Engagement.Comments)
	assert.Equal(t, int64(1), got.Engagement.Likes)
	assert.Equal(t, int64(0), got.Engagement.Views)
	assert.Equal(t, int64(0), got.Engagement.Saves)

	assert.Equal(t, int64(1), commentReplyCount(t, db, root.ID))
}

// Running twice changes nothing the second time
func TestReconcile_Idempotent(t *testing.T) {
	reconciler, comments, _, db := newReconcileService(t)
	reel := createTestReel(t, db)
	user := createTestUser(t, db, "forkmaster")

	root, err := comments.Create(reel.ID, &user.ID, dto.CreateCommentRequest{Text: "root"})
	require.NoError(t, err)
	_, err = comments.Create(reel.ID, &user.ID, dto.CreateCommentRequest{Text: "reply", ParentID: &root.ID})
	require.NoError(t, err)

	_, err = reconciler.Run()
	require.NoError(t, err)

	var first domain.Reel
	require.NoError(t, db.First(&first, "id = ?", reel.ID).Error)

	_, err = reconciler.Run()
	require.NoError(t, err)

	var second domain.Reel
	require.NoError(t, db.First(&second, "id = ?", reel.ID).Error)
	assert.Equal(t, first.Engagement, second.Engagement)
	assert.Equal(t, int64(1), commentReplyCount(t, db, root.ID))
}

// A reel with no activity reconciles to zeroes, not stale values
func TestReconcile_EmptyReelZeroes(t *testing.T) {
	reconciler, _, reelRepo, db := newReconcileService(t)
	reel := createTestReel(t, db)

	require.NoError(t, reelRepo.SetEngagement(reel.ID, domain.Engagement{Likes: 7, Comments: 7, Views: 7, Saves: 7}))

	_, err := reconciler.Run()
	require.NoError(t, err)

	var got domain.Reel
	require.NoError(t, db.First(&got, "id = ?", reel.ID).Error)
	assert.Equal(t, domain.Engagement{}, got.Engagement)
}
