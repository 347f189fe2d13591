package handler

import (
	"log"
	"strings"

	"github.com/Vishnu072004/Chess-App/internal/domain"
	"github.com/Vishnu072004/Chess-App/internal/dto"
	"github.com/Vishnu072004/Chess-App/internal/middleware"
	"github.com/Vishnu072004/Chess-App/internal/repository"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AdminHandler struct {
	reelRepo    *repository.ReelRepository
	commentRepo *repository.CommentRepository
	userRepo    *repository.UserRepository
}

func NewAdminHandler(reelRepo *repository.ReelRepository, commentRepo *repository.CommentRepository, userRepo *repository.UserRepository) *AdminHandler {
	return &AdminHandler{
		reelRepo:    reelRepo,
		commentRepo: commentRepo,
		userRepo:    userRepo,
	}
}

func (h *AdminHandler) GetStats(c *fiber.Ctx) error {
	totalReels, err := h.reelRepo.CountAll()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse("INTERNAL_ERROR", "Failed to load stats"))
	}
	published, _ := h.reelRepo.CountByStatus(domain.ReelPublished)
	totalUsers, _ := h.userRepo.CountAll()
	totalComments, _ := h.commentRepo.CountAll()

	return c.JSON(dto.SuccessResponse(dto.AdminStatsResponse{
		TotalReels:     totalReels,
		PublishedReels: published,
		TotalUsers:     totalUsers,
		TotalComments:  totalComments,
	}, ""))
}

func (h *AdminHandler) ListReels(c *fiber.Ctx) error {
	page, limit := parsePaging(c)

	var status *domain.ReelStatus
	if s := c.Query("status"); s != "" {
		st := domain.ReelStatus(s)
		switch st {
		case domain.ReelDraft, domain.ReelPublished, domain.ReelArchived:
			status = &st
		default:
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse(
				"VALIDATION_ERROR", "Status must be draft, published, or archived",
			))
		}
	}

	reels, total, err := h.reelRepo.ListAll(status, page, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse("INTERNAL_ERROR", "Failed to load reels"))
	}

	return c.JSON(dto.SuccessWithMeta(reels, dto.NewMeta(page, limit, total)))
}

func (h *AdminHandler) CreateReel(c *fiber.Ctx) error {
	var req dto.UpsertReelRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse("VALIDATION_ERROR", "Invalid request body"))
	}

	reel := &domain.Reel{}
	if msg := applyUpsert(reel, &req); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse("VALIDATION_ERROR", msg))
	}
	reel.UploadedBy = middleware.GetUserID(c)

	if err := h.reelRepo.Create(reel); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse("INTERNAL_ERROR", "Failed to create reel"))
	}

	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse(reel, "Reel created successfully"))
}

func (h *AdminHandler) UpdateReel(c *fiber.Ctx) error {
	reelID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse("VALIDATION_ERROR", "Invalid reel ID"))
	}

	var req dto.UpsertReelRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse("VALIDATION_ERROR", "Invalid request body"))
	}

	reel, err := h.reelRepo.FindByID(reelID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse("NOT_FOUND", "Reel not found"))
	}

	if msg := applyUpsert(reel, &req); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse("VALIDATION_ERROR", msg))
	}

	if err := h.reelRepo.Update(reel); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse("INTERNAL_ERROR", "Failed to update reel"))
	}

	return c.JSON(dto.SuccessResponse(reel, "Reel updated successfully"))
}

// DeleteReel removes a reel together with every comment in its threads.
func (h *AdminHandler) DeleteReel(c *fiber.Ctx) error {
	reelID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse("VALIDATION_ERROR", "Invalid reel ID"))
	}

	if _, err := h.reelRepo.FindByID(reelID); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse("NOT_FOUND", "Reel not found"))
	}

	removed, err := h.commentRepo.DeleteByReel(reelID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse("INTERNAL_ERROR", "Failed to delete reel comments"))
	}
	if removed > 0 {
		log.Printf("deleted %d comments with reel %s", removed, reelID)
	}

	if err := h.reelRepo.Delete(reelID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse("INTERNAL_ERROR", "Failed to delete reel"))
	}

	return c.JSON(dto.SuccessResponse(nil, "Reel deleted successfully"))
}

func (h *AdminHandler) PublishReel(c *fiber.Ctx) error {
	return h.setStatus(c, domain.ReelPublished, "Reel published successfully")
}

func (h *AdminHandler) ArchiveReel(c *fiber.Ctx) error {
	return h.setStatus(c, domain.ReelArchived, "Reel archived successfully")
}

func (h *AdminHandler) setStatus(c *fiber.Ctx, status domain.ReelStatus, message string) error {
	reelID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse("VALIDATION_ERROR", "Invalid reel ID"))
	}

	reel, err := h.reelRepo.FindByID(reelID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse("NOT_FOUND", "Reel not found"))
	}

	reel.Status = status
	if err := h.reelRepo.Update(reel); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse("INTERNAL_ERROR", "Failed to update reel"))
	}

	return c.JSON(dto.SuccessResponse(reel, message))
}

func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	page, limit := parsePaging(c)
	search := strings.TrimSpace(c.Query("search"))

	users, total, err := h.userRepo.List(search, page, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse("INTERNAL_ERROR", "Failed to load users"))
	}

	return c.JSON(dto.SuccessWithMeta(users, dto.NewMeta(page, limit, total)))
}

func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse("VALIDATION_ERROR", "Invalid user ID"))
	}

	if caller := middleware.GetUserID(c); caller != nil && *caller == userID {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse("VALIDATION_ERROR", "You cannot delete your own account here"))
	}

	if _, err := h.userRepo.FindByID(userID); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse("NOT_FOUND", "User not found"))
	}

	if err := h.userRepo.Delete(userID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse("INTERNAL_ERROR", "Failed to delete user"))
	}

	return c.JSON(dto.SuccessResponse(nil, "User deleted successfully"))
}

// applyUpsert copies a validated request onto a reel. Returns a validation
// message on bad input, empty string on success.
func applyUpsert(reel *domain.Reel, req *dto.UpsertReelRequest) string {
	req.Content.Title = strings.TrimSpace(req.Content.Title)
	req.Video.URL = strings.TrimSpace(req.Video.URL)

	if req.Video.URL == "" {
		return "Video URL is required"
	}
	if req.Content.Title == "" {
		return "Title is required"
	}
	if req.Content.Difficulty != "" && !domain.ValidDifficulty(req.Content.Difficulty) {
		return "Difficulty must be beginner, intermediate, or advanced"
	}

	status := domain.ReelStatus(req.Status)
	if req.Status == "" {
		status = domain.ReelDraft
	}
	switch status {
	case domain.ReelDraft, domain.ReelPublished, domain.ReelArchived:
	default:
		return "Status must be draft, published, or archived"
	}

	folder := domain.ReelFolder(req.Folder)
	if req.Folder == "" {
		folder = domain.FolderRandom
	}
	switch folder {
	case domain.FolderRandom, domain.FolderGrandmaster:
	default:
		return "Folder must be random or grandmaster"
	}

	reel.Video = domain.Video{
		URL:          req.Video.URL,
		ThumbnailURL: req.Video.Thumbnail,
		DurationSec:  req.Video.DurationSec,
	}
	reel.Content = domain.Content{
		Title:       req.Content.Title,
		Description: req.Content.Description,
		Tags:        domain.StringArray(req.Content.Tags),
		Difficulty:  domain.Difficulty(req.Content.Difficulty),
		WhitePlayer: req.Content.WhitePlayer,
		BlackPlayer: req.Content.BlackPlayer,
	}
	if req.Content.Difficulty == "" {
		reel.Content.Difficulty = domain.DifficultyBeginner
	}
	reel.ChessData = domain.ChessData{
		FEN:         req.ChessData.FEN,
		PGN:         req.ChessData.PGN,
		Orientation: req.ChessData.Orientation,
	}
	if reel.ChessData.Orientation == "" {
		reel.ChessData.Orientation = "white"
	}
	reel.Status = status
	reel.Folder = folder
	reel.Grandmaster = req.Grandmaster

	return ""
}
