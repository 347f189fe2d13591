package handler

import (
	"errors"

	"github.com/Vishnu072004/Chess-App/internal/dto"
	"github.com/Vishnu072004/Chess-App/internal/middleware"
	"github.com/Vishnu072004/Chess-App/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CommentHandler struct {
	service *service.CommentService
}

func NewCommentHandler(service *service.CommentService) *CommentHandler {
	return &CommentHandler{service: service}
}

// Create posts a comment on a reel. Runs behind optional auth: logged-in
// users comment under their account, everyone else as a named guest.
func (h *CommentHandler) Create(c *fiber.Ctx) error {
	reelID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse("VALIDATION_ERROR", "Invalid reel ID"))
	}

	var req dto.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse("VALIDATION_ERROR", "Invalid request body"))
	}

	userID := middleware.GetUserID(c)

	comment, err := h.service.Create(reelID, userID, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTextRequired):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse("VALIDATION_ERROR", "Comment text is required"))
		case errors.Is(err, service.ErrTextTooLong):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse("VALIDATION_ERROR", "Comment text exceeds 1000 characters"))
		case errors.Is(err, service.ErrReelNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse("NOT_FOUND", "Reel not found"))
		case errors.Is(err, service.ErrParentNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse("NOT_FOUND", "Parent comment not found"))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse("INTERNAL_ERROR", "Failed to create comment"))
	}

	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse(comment, "Comment created successfully"))
}

// Delete removes a comment and all of its replies.
func (h *CommentHandler) Delete(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse("UNAUTHORIZED", "Unauthorized"))
	}

	commentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse("VALIDATION_ERROR", "Invalid comment ID"))
	}

	deletedCount, err := h.service.Delete(commentID, *userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCommentNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse("NOT_FOUND", "Comment not found"))
		case errors.Is(err, service.ErrNotCommentOwner):
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse("FORBIDDEN", "You can only delete your own comments"))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse("INTERNAL_ERROR", "Failed to delete comment"))
	}

	return c.JSON(dto.SuccessResponse(dto.DeleteCommentResponse{DeletedCount: deletedCount}, "Comment and replies deleted successfully"))
}

// ListByReel returns the comments of a reel, newest first.
func (h *CommentHandler) ListByReel(c *fiber.Ctx) error {
	reelID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse("VALIDATION_ERROR", "Invalid reel ID"))
	}

	comments, err := h.service.ListByReel(reelID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse("INTERNAL_ERROR", "Failed to fetch comments"))
	}

	return c.JSON(dto.SuccessResponse(comments, ""))
}
