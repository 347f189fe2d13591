package handler

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/Vishnu072004/Chess-App/internal/domain"
	"github.com/Vishnu072004/Chess-App/internal/repository"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupReelApp(t *testing.T) (*fiber.App, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.User{}, &domain.Reel{}, &domain.ReelLike{},
		&domain.ReelSave{}, &domain.ReelView{}, &domain.Comment{},
	))

	h := NewReelHandler(repository.NewReelRepository(db), repository.NewCommentRepository(db))

	app := fiber.New()
	app.Get("/reels/difficulty/:difficulty", h.ByDifficulty)
	return app, db
}

// The difficulty path parameter is bound and filters the result set
func TestByDifficulty_RouteParamBinding(t *testing.T) {
	app, db := setupReelApp(t)

	reel := &domain.Reel{
		Video:  domain.Video{URL: "https://cdn.example.com/reels/videos/test.mp4"},
		Status: domain.ReelPublished,
	}
	reel.Content.Title = "Opposition Basics"
	reel.Content.Difficulty = domain.DifficultyBeginner
	require.NoError(t, db.Create(reel).Error)

	resp, err := app.Test(httptest.NewRequest("GET", "/reels/difficulty/beginner", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Success bool          `json:"success"`
		Data    []domain.Reel `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Success)
	require.Len(t, body.Data, 1)
	assert.Equal(t, reel.ID, body.Data[0].ID)
}

// Unknown difficulty values are rejected
func TestByDifficulty_InvalidLevel(t *testing.T) {
	app, _ := setupReelApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/reels/difficulty/master", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
