package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/Vishnu072004/Chess-App/internal/domain"
	"github.com/Vishnu072004/Chess-App/internal/dto"
	"github.com/Vishnu072004/Chess-App/internal/middleware"
	"github.com/Vishnu072004/Chess-App/internal/repository"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReelHandler struct {
	reelRepo    *repository.ReelRepository
	commentRepo *repository.CommentRepository
}

func NewReelHandler(reelRepo *repository.ReelRepository, commentRepo *repository.CommentRepository) *ReelHandler {
	return &ReelHandler{
		reelRepo:    reelRepo,
		commentRepo: commentRepo,
	}
}

func parsePaging(c *fiber.Ctx) (int, int) {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	return page, limit
}

// Feed returns the paginated published feed, newest first.
func (h *ReelHandler) Feed(c *fiber.Ctx) error {
	page, limit := parsePaging(c)

	reels, total, err := h.reelRepo.ListPublished(page, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse("INTERNAL_ERROR", "Failed to fetch reels"))
	}

	return c.JSON(dto.SuccessWithMeta(reels, dto.NewMeta(page, limit, total)))
}

func (h *ReelHandler) GetByID(c *fiber.Ctx) error {
	reelID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse("VALIDATION_ERROR", "Invalid reel ID"))
	}

	reel, err := h.reelRepo.FindByID(reelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse("NOT_FOUND", "Reel not found"))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse("INTERNAL_ERROR", "Failed to fetch reel"))
	}

	return c.JSON(dto.SuccessResponse(reel, ""))
}

// Search filters published reels by free text, tags, and difficulty.
func (h *ReelHandler) Search(c *fiber.Ctx) error {
	var q dto.SearchReelsQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse("VALIDATION_ERROR", "Invalid query parameters"))
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 || q.Limit > 100 {
		q.Limit = 10
	}

	if q.Difficulty != "" && !domain.ValidDifficulty(q.Difficulty) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse(
			"VALIDATION_ERROR", "Difficulty must be one of: beginner, intermediate, advanced"))
	}

	var tags []string
	for _, t := range strings.Split(q.Tags, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}

	reels, total, err := h.reelRepo.Search(q.Query, tags, q.Difficulty, q.Page, q.Limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse("INTERNAL_ERROR", "Failed to search reels"))
	}

	return c.JSON(dto.SuccessWithMeta(reels, dto.NewMeta(q.Page, q.Limit, total)))
}

// Trending returns published reels ordered by engagement.
func (h *ReelHandler) Trending(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	if limit < 1 || limit > 100 {
		limit = 10
	}

	reels, err := h.reelRepo.Trending(limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse("INTERNAL_ERROR", "Failed to fetch trending reels"))
	}

	return c.JSON(dto.SuccessResponse(reels, ""))
}

// Random returns a shuffled sample of published reels for the discover
// section.
func (h *ReelHandler) Random(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	if limit < 1 || limit > 50 {
		limit = 10
	}

	reels, err := h.reelRepo.Random(limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse("INTERNAL_ERROR", "Failed to fetch reels"))
	}

	return c.JSON(dto.SuccessResponse(reels, ""))
}

// Folders reports how many published reels sit in each folder.
func (h *ReelHandler) Folders(c *fiber.Ctx) error {
	counts, err := h.reelRepo.FolderCounts()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse("INTERNAL_ERROR", "Failed to fetch folder stats"))
	}

	return c.JSON(dto.SuccessResponse(dto.FolderStatsResponse{
		Random:      counts[domain.FolderRandom],
		Grandmaster: counts[domain.FolderGrandmaster],
	}, ""))
}

// Grandmasters lists grandmasters with published reels and their counts.
func (h *ReelHandler) Grandmasters(c *fiber.Ctx) error {
	stats, err := h.reelRepo.Grandmasters()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse("INTERNAL_ERROR", "Failed to fetch grandmasters"))
	}

	return c.JSON(dto.SuccessResponse(stats, ""))
}

// ByFolder lists published reels in one folder, optionally narrowed to a
// grandmaster.
func (h *ReelHandler) ByFolder(c *fiber.Ctx) error {
	folder := c.Query("folder", string(domain.FolderRandom))
	if !domain.ValidFolder(folder) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse(
			"VALIDATION_ERROR", "Folder must be one of: random, grandmaster"))
	}

	page, limit := parsePaging(c)
	reels, total, err := h.reelRepo.ByFolder(domain.ReelFolder(folder), c.Query("grandmaster"), page, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse("INTERNAL_ERROR", "Failed to fetch reels"))
	}

	return c.JSON(dto.SuccessWithMeta(reels, dto.NewMeta(page, limit, total)))
}

func (h *ReelHandler) ByDifficulty(c *fiber.Ctx) error {
	difficulty := c.Params("difficulty")
	if !domain.ValidDifficulty(difficulty) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse(
			"VALIDATION_ERROR", "Difficulty must be one of: beginner, intermediate, advanced"))
	}

	page, limit := parsePaging(c)
	reels, total, err := h.reelRepo.ByDifficulty(domain.Difficulty(difficulty), page, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse("INTERNAL_ERROR", "Failed to fetch reels"))
	}

	return c.JSON(dto.SuccessWithMeta(reels, dto.NewMeta(page, limit, total)))
}

// Stats returns engagement numbers. The comment count is read live from the
// comment store rather than the denormalized counter, as the original
// stats endpoint does.
func (h *ReelHandler) Stats(c *fiber.Ctx) error {
	reelID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse("VALIDATION_ERROR", "Invalid reel ID"))
	}

	reel, err := h.reelRepo.FindByID(reelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse("NOT_FOUND", "Reel not found"))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse("INTERNAL_ERROR", "Failed to fetch reel stats"))
	}

	commentCount, err := h.commentRepo.CountByReel(reelID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse("INTERNAL_ERROR", "Failed to fetch reel stats"))
	}

	return c.JSON(dto.SuccessResponse(dto.ReelStatsResponse{
		Likes:    reel.Engagement.Likes,
		Comments: commentCount,
		Views:    reel.Engagement.Views,
		Saves:    reel.Engagement.Saves,
	}, ""))
}

// View records a view, deduplicated per user or guest session.
func (h *ReelHandler) View(c *fiber.Ctx) error {
	reelID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse("VALIDATION_ERROR", "Invalid reel ID"))
	}

	exists, err := h.reelRepo.Exists(reelID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse("INTERNAL_ERROR", "Failed to record view"))
	}
	if !exists {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse("NOT_FOUND", "Reel not found"))
	}

	userID := middleware.GetUserID(c)
	var sessionID *string
	if userID == nil {
		if sid := c.Get("X-Session-ID"); sid != "" {
			sessionID = &sid
		}
	}

	isNew, err := h.reelRepo.RecordView(reelID, userID, sessionID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse("INTERNAL_ERROR", "Failed to record view"))
	}

	if isNew {
		if err := h.reelRepo.IncrementViews(reelID, 1); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse("INTERNAL_ERROR", "Failed to record view"))
		}
	}

	reel, err := h.reelRepo.FindByID(reelID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse("INTERNAL_ERROR", "Failed to record view"))
	}

	return c.JSON(dto.SuccessResponse(dto.ViewResponse{Views: reel.Engagement.Views}, "View recorded"))
}

// Like adds the caller's like and bumps the counter once per user.
func (h *ReelHandler) Like(c *fiber.Ctx) error {
	return h.setLike(c, true)
}

func (h *ReelHandler) Unlike(c *fiber.Ctx) error {
	return h.setLike(c, false)
}

func (h *ReelHandler) setLike(c *fiber.Ctx, like bool) error {
	userID := middleware.GetUserID(c)
	if userID == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse("UNAUTHORIZED", "Unauthorized"))
	}

	reelID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse("VALIDATION_ERROR", "Invalid reel ID"))
	}

	exists, err := h.reelRepo.Exists(reelID)
	if err != nil || !exists {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse("NOT_FOUND", "Reel not found"))
	}

	var changed bool
	if like {
		changed, err = h.reelRepo.Like(*userID, reelID)
	} else {
		changed, err = h.reelRepo.Unlike(*userID, reelID)
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse("INTERNAL_ERROR", "Failed to update like"))
	}

	if changed {
		delta := int64(1)
		if !like {
			delta = -1
		}
		if err := h.reelRepo.IncrementLikes(reelID, delta); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse("INTERNAL_ERROR", "Failed to update like"))
		}
	}

	reel, err := h.reelRepo.FindByID(reelID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse("INTERNAL_ERROR", "Failed to update like"))
	}

	return c.JSON(dto.SuccessResponse(dto.LikeResponse{Likes: reel.Engagement.Likes, Liked: like}, ""))
}

// Save bookmarks a reel for the caller.
func (h *ReelHandler) Save(c *fiber.Ctx) error {
	return h.setSave(c, true)
}

func (h *ReelHandler) Unsave(c *fiber.Ctx) error {
	return h.setSave(c, false)
}

func (h *ReelHandler) setSave(c *fiber.Ctx, save bool) error {
	userID := middleware.GetUserID(c)
	if userID == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse("UNAUTHORIZED", "Unauthorized"))
	}

	reelID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse("VALIDATION_ERROR", "Invalid reel ID"))
	}

	exists, err := h.reelRepo.Exists(reelID)
	if err != nil || !exists {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse("NOT_FOUND", "Reel not found"))
	}

	var changed bool
	if save {
		changed, err = h.reelRepo.Save(*userID, reelID)
	} else {
		changed, err = h.reelRepo.Unsave(*userID, reelID)
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse("INTERNAL_ERROR", "Failed to update save"))
	}

	if changed {
		delta := int64(1)
		if !save {
			delta = -1
		}
		if err := h.reelRepo.IncrementSaves(reelID, delta); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse("INTERNAL_ERROR", "Failed to update save"))
		}
	}

	return c.JSON(dto.SuccessResponse(nil, "Save updated"))
}
