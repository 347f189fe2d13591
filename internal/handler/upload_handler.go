package handler

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/Vishnu072004/Chess-App/internal/dto"
	"github.com/Vishnu072004/Chess-App/internal/storage"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const presignExpiry = 15 * time.Minute

type uploadLimit struct {
	maxSize      int64
	allowedTypes map[string]string // content type -> extension
	keyPrefix    string
}

var uploadLimits = map[string]uploadLimit{
	"video": {
		maxSize: 200 << 20,
		allowedTypes: map[string]string{
			"video/mp4":       ".mp4",
			"video/webm":      ".webm",
			"video/quicktime": ".mov",
		},
		keyPrefix: "reels/videos",
	},
	"thumbnail": {
		maxSize: 5 << 20,
		allowedTypes: map[string]string{
			"image/jpeg": ".jpg",
			"image/png":  ".png",
			"image/webp": ".webp",
		},
		keyPrefix: "reels/thumbnails",
	},
}

type pendingUpload struct {
	objectKey string
	expiresAt time.Time
}

type UploadHandler struct {
	minio *storage.MinIOClient

	mu      sync.Mutex
	pending map[string]pendingUpload
}

func NewUploadHandler(minio *storage.MinIOClient) *UploadHandler {
	return &UploadHandler{
		minio:   minio,
		pending: make(map[string]pendingUpload),
	}
}

// Presign issues a direct-to-storage PUT URL so video bytes never pass
// through the API server.
func (h *UploadHandler) Presign(c *fiber.Ctx) error {
	var req dto.PresignRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse("VALIDATION_ERROR", "Invalid request body"))
	}

	limit, ok := uploadLimits[req.UploadType]
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse(
			"VALIDATION_ERROR", "Upload type must be video or thumbnail",
		))
	}

	ext, ok := limit.allowedTypes[req.ContentType]
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse(
			"VALIDATION_ERROR", fmt.Sprintf("Content type %s is not allowed for %s uploads", req.ContentType, req.UploadType),
		))
	}

	if req.FileSize <= 0 || req.FileSize > limit.maxSize {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse(
			"VALIDATION_ERROR", fmt.Sprintf("File size must be between 1 byte and %d MB", limit.maxSize>>20),
		))
	}

	if fromName := strings.ToLower(filepath.Ext(req.Filename)); fromName != "" && fromName != ext && !(ext == ".jpg" && fromName == ".jpeg") {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse(
			"VALIDATION_ERROR", "Filename extension does not match content type",
		))
	}

	uploadID := uuid.New().String()
	objectKey := fmt.Sprintf("%s/%s%s", limit.keyPrefix, uploadID, ext)

	uploadURL, err := h.minio.GetPresignedPutURL(objectKey, presignExpiry)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse("INTERNAL_ERROR", "Failed to create upload URL"))
	}

	h.mu.Lock()
	h.pending[uploadID] = pendingUpload{objectKey: objectKey, expiresAt: time.Now().Add(presignExpiry)}
	expired := h.prunePendingLocked()
	h.mu.Unlock()

	// Never-confirmed uploads are removed from storage once their URL
	// expires, so abandoned PUTs cannot accumulate.
	if len(expired) > 0 {
		go h.deleteOrphans(expired)
	}

	return c.JSON(dto.SuccessResponse(dto.PresignResponse{
		UploadID:  uploadID,
		UploadURL: uploadURL,
		ObjectKey: objectKey,
		PublicURL: h.minio.GetPublicURL(objectKey),
		ExpiresIn: int64(presignExpiry.Seconds()),
	}, ""))
}

// Confirm verifies the object actually arrived before the client can
// reference it from a reel.
func (h *UploadHandler) Confirm(c *fiber.Ctx) error {
	var req dto.ConfirmUploadRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse("VALIDATION_ERROR", "Invalid request body"))
	}

	h.mu.Lock()
	entry, ok := h.pending[req.UploadID]
	h.mu.Unlock()
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse("NOT_FOUND", "Unknown or expired upload"))
	}

	exists, err := h.minio.ObjectExists(entry.objectKey)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse("INTERNAL_ERROR", "Failed to verify upload"))
	}
	if !exists {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse(
			"UPLOAD_INCOMPLETE", "Object was not uploaded. Request a new upload URL.",
		))
	}

	h.mu.Lock()
	delete(h.pending, req.UploadID)
	h.mu.Unlock()

	// Short-lived GET URL so the admin UI can preview the object before
	// the reel is published.
	previewURL, err := h.minio.GetPresignedGetURL(entry.objectKey, presignExpiry)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse("INTERNAL_ERROR", "Failed to create preview URL"))
	}

	return c.JSON(dto.SuccessResponse(dto.ConfirmUploadResponse{
		ObjectKey:  entry.objectKey,
		PublicURL:  h.minio.GetPublicURL(entry.objectKey),
		PreviewURL: previewURL,
	}, "Upload confirmed"))
}

// prunePendingLocked drops expired entries and returns their object keys.
// Caller must hold mu.
func (h *UploadHandler) prunePendingLocked() []string {
	now := time.Now()
	var expired []string
	for id, p := range h.pending {
		if now.After(p.expiresAt) {
			expired = append(expired, p.objectKey)
			delete(h.pending, id)
		}
	}
	return expired
}

func (h *UploadHandler) deleteOrphans(objectKeys []string) {
	for _, key := range objectKeys {
		if err := h.minio.DeleteObject(key); err != nil {
			log.Printf("Failed to delete orphaned upload %s: %v", key, err)
		}
	}
}
