package service

import (
	"strings"
	"testing"
	"time"

	"github.com/Vishnu072004/Chess-App/internal/domain"
	"github.com/Vishnu072004/Chess-App/internal/dto"
	"github.com/Vishnu072004/Chess-App/internal/repository"
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

func newCommentService(t *testing.T) (*CommentService, *repository.CommentRepository, *repository.ReelRepository, *gorm.DB) {
	db := setupTestDB(t)
	commentRepo := repository.NewCommentRepository(db)
	reelRepo := repository.NewReelRepository(db)
	return NewCommentService(commentRepo, reelRepo), commentRepo, reelRepo, db
}

func createTestReel(t *testing.T, db *gorm.DB) *domain.Reel {
	reel := &domain.Reel{
		Video:  domain.Video{URL: "https://cdn.example.com/reels/videos/test.mp4", DurationSec: 30},
		Status: domain.ReelPublished,
	}
	reel.Content.Title = "Smothered Mate Pattern"
	require.NoError(t, db.Create(reel).Error)
	return reel
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *domain.User {
	user := &domain.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Role:         domain.RoleUser,
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func reelCommentCount(t *testing.T, db *gorm.DB, reelID uuid.UUID) int64 {
	var reel domain.Reel
	require.NoError(t, db.First(&reel, "id = ?", reelID).Error)
	return reel.Engagement.Comments
}

func commentReplyCount(t *testing.T, db *gorm.DB, commentID uuid.UUID) int64 {
	var comment domain.Comment
	require.NoError(t, db.First(&comment, "id = ?", commentID).Error)
	return comment.ReplyCount
}

// Property 1: Creating a top-level comment increments the reel counter by 1
func TestCreate_TopLevelIncrementsReelCounter(t *testing.T) {
	svc, _, _, db := newCommentService(t)
	reel := createTestReel(t, db)
	user := createTestUser(t, db, "magnusfan")

	comment, err := svc.Create(reel.ID, &user.ID, dto.CreateCommentRequest{Text: "Great video"})
	require.NoError(t, err)
	assert.Nil(t, comment.ParentID)

	assert.Equal(t, int64(1), reelCommentCount(t, db, reel.ID))
}

// Property 1 (continued): N roots plus M replies leave the counter at N+M
func TestCreate_CumulativeCounts(t *testing.T) {
	svc, _, _, db := newCommentService(t)
	reel := createTestReel(t, db)
	user := createTestUser(t, db, "knightrider")

	var rootIDs []uuid.UUID
	for i := 0; i < 3; i++ {
		c, err := svc.Create(reel.ID, &user.ID, dto.CreateCommentRequest{Text: "root comment"})
		require.NoError(t, err)
		rootIDs = append(rootIDs, c.ID)
	}
	for i := 0; i < 4; i++ {
		parent := rootIDs[i%len(rootIDs)]
		_, err := svc.Create(reel.ID, &user.ID, dto.CreateCommentRequest{Text: "a reply", ParentID: &parent})
		require.NoError(t, err)
	}

	assert.Equal(t, int64(7), reelCommentCount(t, db, reel.ID))
}

// Property 2: Creating a reply increments the parent's reply counter by 1
func TestCreate_ReplyIncrementsParentReplyCount(t *testing.T) {
	svc, _, _, db := newCommentService(t)
	reel := createTestReel(t, db)
	user := createTestUser(t, db, "pawnstorm")

	parent, err := svc.Create(reel.ID, &user.ID, dto.CreateCommentRequest{Text: "root"})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := svc.Create(reel.ID, &user.ID, dto.CreateCommentRequest{Text: "reply", ParentID: &parent.ID})
		require.NoError(t, err)
	}

	assert.Equal(t, int64(3), commentReplyCount(t, db, parent.ID))
}

func TestCreate_MissingReel(t *testing.T) {
	svc, _, _, db := newCommentService(t)
	user := createTestUser(t, db, "endgamewiz")

	_, err := svc.Create(uuid.New(), &user.ID, dto.CreateCommentRequest{Text: "hello"})
	assert.ErrorIs(t, err, ErrReelNotFound)
}

func TestCreate_MissingParent(t *testing.T) {
	svc, _, _, db := newCommentService(t)
	reel := createTestReel(t, db)
	user := createTestUser(t, db, "tacticsguru")

	ghost := uuid.New()
	_, err := svc.Create(reel.ID, &user.ID, dto.CreateCommentRequest{Text: "reply to nothing", ParentID: &ghost})
	assert.ErrorIs(t, err, ErrParentNotFound)

	// No counter movement on a rejected create
	assert.Equal(t, int64(0), reelCommentCount(t, db, reel.ID))
}

func TestCreate_TextValidation(t *testing.T) {
	svc, _, _, db := newCommentService(t)
	reel := createTestReel(t, db)
	user := createTestUser(t, db, "blunderprone")

	_, err := svc.Create(reel.ID, &user.ID, dto.CreateCommentRequest{Text: "   "})
	assert.ErrorIs(t, err, ErrTextRequired)

	_, err = svc.Create(reel.ID, &user.ID, dto.CreateCommentRequest{Text: strings.Repeat("x", 1001)})
	assert.ErrorIs(t, err, ErrTextTooLong)

	// Exactly at the limit is accepted
	_, err = svc.Create(reel.ID, &user.ID, dto.CreateCommentRequest{Text: strings.Repeat("x", 1000)})
	assert.NoError(t, err)

	assert.Equal(t, int64(1), reelCommentCount(t, db, reel.ID))
}

// Guest comments get the default display name
func TestCreate_GuestComment(t *testing.T) {
	svc, _, _, db := newCommentService(t)
	reel := createTestReel(t, db)

	comment, err := svc.Create(reel.ID, nil, dto.CreateCommentRequest{Text: "nice one"})
	require.NoError(t, err)

	assert.Nil(t, comment.UserID)
	assert.Equal(t, "Anonymous", comment.GuestName)
	assert.Equal(t, int64(1), reelCommentCount(t, db, reel.ID))
}

// Property 3: Deleting a leaf removes one row and settles both counters
func TestDelete_Leaf(t *testing.T) {
	svc, _, _, db := newCommentService(t)
	reel := createTestReel(t, db)
	user := createTestUser(t, db, "sicilianlover")

	parent, err := svc.Create(reel.ID, &user.ID, dto.CreateCommentRequest{Text: "root"})
	require.NoError(t, err)
	reply, err := svc.Create(reel.ID, &user.ID, dto.CreateCommentRequest{Text: "reply", ParentID: &parent.ID})
	require.NoError(t, err)

	deleted, err := svc.Delete(reply.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	assert.Equal(t, int64(1), reelCommentCount(t, db, reel.ID))
	assert.Equal(t, int64(0), commentReplyCount(t, db, parent.ID))
}

// Property 4: Deleting a comment with K descendants removes K+1 rows and the
// reel counter drops by K+1
func TestDelete_SubtreeCascade(t *testing.T) {
	svc, _, _, db := newCommentService(t)
	reel := createTestReel(t, db)
	user := createTestUser(t, db, "rookandroll")

	// A -> B -> C chain
	a, err := svc.Create(reel.ID, &user.ID, dto.CreateCommentRequest{Text: "A"})
	require.NoError(t, err)
	b, err := svc.Create(reel.ID, &user.ID, dto.CreateCommentRequest{Text: "B", ParentID: &a.ID})
	require.NoError(t, err)
	_, err = svc.Create(reel.ID, &user.ID, dto.CreateCommentRequest{Text: "C", ParentID: &b.ID})
	require.NoError(t, err)

	require.Equal(t, int64(3), reelCommentCount(t, db, reel.ID))

	deleted, err := svc.Delete(a.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)

	var remaining int64
	db.Model(&domain.Comment{}).Where("reel_id = ?", reel.ID).Count(&remaining)
	assert.Equal(t, int64(0), remaining)
	assert.Equal(t, int64(0), reelCommentCount(t, db, reel.ID))
}

// Property 5: An unrelated thread on the same reel is untouched by a cascade
func TestDelete_UnrelatedThreadIsolated(t *testing.T) {
	svc, _, _, db := newCommentService(t)
	reel := createTestReel(t, db)
	user := createTestUser(t, db, "queensgambit")

	a, err := svc.Create(reel.ID, &user.ID, dto.CreateCommentRequest{Text: "A"})
	require.NoError(t, err)
	_, err = svc.Create(reel.ID, &user.ID, dto.CreateCommentRequest{Text: "B", ParentID: &a.ID})
	require.NoError(t, err)

	d, err := svc.Create(reel.ID, &user.ID, dto.CreateCommentRequest{Text: "D"})
	require.NoError(t, err)
	dReply, err := svc.Create(reel.ID, &user.ID, dto.CreateCommentRequest{Text: "D reply", ParentID: &d.ID})
	require.NoError(t, err)

	deleted, err := svc.Delete(a.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	// D's thread survives with its counters intact
	var survivor domain.Comment
	require.NoError(t, db.First(&survivor, "id = ?", dReply.ID).Error)
	assert.Equal(t, int64(1), commentReplyCount(t, db, d.ID))
	assert.Equal(t, int64(2), reelCommentCount(t, db, reel.ID))
}

// Property 6: Deleting twice fails the second time and moves nothing
func TestDelete_DoubleDelete(t *testing.T) {
	svc, _, _, db := newCommentService(t)
	reel := createTestReel(t, db)
	user := createTestUser(t, db, "castlelong")

	c, err := svc.Create(reel.ID, &user.ID, dto.CreateCommentRequest{Text: "once"})
	require.NoError(t, err)

	_, err = svc.Delete(c.ID, user.ID)
	require.NoError(t, err)

	_, err = svc.Delete(c.ID, user.ID)
	assert.ErrorIs(t, err, ErrCommentNotFound)
	assert.Equal(t, int64(0), reelCommentCount(t, db, reel.ID))
}

// Property 7: A non-owner cannot delete, and the refusal mutates nothing
func TestDelete_NotOwner(t *testing.T) {
	svc, _, _, db := newCommentService(t)
	reel := createTestReel(t, db)
	owner := createTestUser(t, db, "enpassant")
	intruder := createTestUser(t, db, "zugzwanged")

	c, err := svc.Create(reel.ID, &owner.ID, dto.CreateCommentRequest{Text: "mine"})
	require.NoError(t, err)
	_, err = svc.Create(reel.ID, &owner.ID, dto.CreateCommentRequest{Text: "reply", ParentID: &c.ID})
	require.NoError(t, err)

	_, err = svc.Delete(c.ID, intruder.ID)
	assert.ErrorIs(t, err, ErrNotCommentOwner)

	var count int64
	db.Model(&domain.Comment{}).Where("reel_id = ?", reel.ID).Count(&count)
	assert.Equal(t, int64(2), count)
	assert.Equal(t, int64(2), reelCommentCount(t, db, reel.ID))
	assert.Equal(t, int64(1), commentReplyCount(t, db, c.ID))
}

// Property 8: Guest comments have no owner, so nobody can delete them
func TestDelete_GuestCommentHasNoOwner(t *testing.T) {
	svc, _, _, db := newCommentService(t)
	reel := createTestReel(t, db)
	user := createTestUser(t, db, "fiancheto")

	guest, err := svc.Create(reel.ID, nil, dto.CreateCommentRequest{Text: "drive-by comment"})
	require.NoError(t, err)

	_, err = svc.Delete(guest.ID, user.ID)
	assert.ErrorIs(t, err, ErrNotCommentOwner)
	assert.Equal(t, int64(1), reelCommentCount(t, db, reel.ID))
}

func TestDelete_MissingComment(t *testing.T) {
	svc, _, _, db := newCommentService(t)
	user := createTestUser(t, db, "backrank")

	_, err := svc.Delete(uuid.New(), user.ID)
	assert.ErrorIs(t, err, ErrCommentNotFound)
}

// Listing returns live comments newest first with author data
func TestListByReel(t *testing.T) {
	svc, _, _, db := newCommentService(t)
	reel := createTestReel(t, db)
	user := createTestUser(t, db, "smotheredm8")

	_, err := svc.Create(reel.ID, &user.ID, dto.CreateCommentRequest{Text: "first"})
	require.NoError(t, err)
	_, err = svc.Create(reel.ID, nil, dto.CreateCommentRequest{Text: "second", GuestName: "Visitor"})
	require.NoError(t, err)

	list, err := svc.ListByReel(reel.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)

	names := []string{list[0].DisplayName, list[1].DisplayName}
	assert.Contains(t, names, "smotheredm8")
	assert.Contains(t, names, "Visitor")
}

// Listing orders by creation time, newest first
func TestListByReel_NewestFirst(t *testing.T) {
	svc, _, _, db := newCommentService(t)
	reel := createTestReel(t, db)

	older, err := svc.Create(reel.ID, nil, dto.CreateCommentRequest{Text: "older", GuestName: "Visitor"})
	require.NoError(t, err)
	newer, err := svc.Create(reel.ID, nil, dto.CreateCommentRequest{Text: "newer", GuestName: "Visitor"})
	require.NoError(t, err)

	// Force unambiguous timestamps; in-process creates can share one.
	base := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, db.Model(&domain.Comment{}).Where("id = ?", older.ID).
		UpdateColumn("created_at", base).Error)
	require.NoError(t, db.Model(&domain.Comment{}).Where("id = ?", newer.ID).
		UpdateColumn("created_at", base.Add(5*time.Minute)).Error)

	list, err := svc.ListByReel(reel.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "newer", list[0].Text)
	assert.Equal(t, "older", list[1].Text)
}
