package handler

import (
	"strings"
	"time"

	"github.com/Vishnu072004/Chess-App/internal/auth"
	"github.com/Vishnu072004/Chess-App/internal/domain"
	"github.com/Vishnu072004/Chess-App/internal/dto"
	"github.com/Vishnu072004/Chess-App/internal/middleware"
	"github.com/Vishnu072004/Chess-App/internal/repository"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthHandler struct {
	userRepo *repository.UserRepository
	authRepo *repository.AuthRepository
	jwt      *auth.JWTService
}

func NewAuthHandler(userRepo *repository.UserRepository, authRepo *repository.AuthRepository, jwt *auth.JWTService) *AuthHandler {
	return &AuthHandler{
		userRepo: userRepo,
		authRepo: authRepo,
		jwt:      jwt,
	}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse(
			"VALIDATION_ERROR", "Invalid request body",
		))
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	if req.Username == "" || req.Email == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse(
			"VALIDATION_ERROR", "Username, email, and password are required",
		))
	}

	if taken, _ := h.userRepo.UsernameExists(req.Username); taken {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse(
			"ALREADY_EXISTS", "User with this username already exists",
		))
	}
	if taken, _ := h.userRepo.EmailExists(req.Email); taken {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse(
			"ALREADY_EXISTS", "User with this email already exists",
		))
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse(
			"INTERNAL_ERROR", "Failed to hash password",
		))
	}

	user := &domain.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hashed),
		Role:         domain.RoleUser,
		IsActive:     true,
	}
	if err := h.userRepo.Create(user); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse(
			"INTERNAL_ERROR", "Failed to create user",
		))
	}

	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse(dto.UserBriefDTO{
		ID:        user.ID,
		Username:  user.Username,
		AvatarURL: user.AvatarURL,
		Role:      string(user.Role),
	}, "User registered successfully"))
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse(
			"VALIDATION_ERROR", "Invalid request body",
		))
	}

	user, err := h.userRepo.FindByUsernameOrEmail(req.Email)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse(
			"INVALID_CREDENTIALS", "Invalid email or password",
		))
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse(
			"INVALID_CREDENTIALS", "Invalid email or password",
		))
	}

	if !user.IsActive {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse(
			"ACCOUNT_DISABLED", "Your account has been disabled",
		))
	}

	accessToken, _, err := h.jwt.GenerateAccessToken(user.ID, string(user.Role))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse(
			"INTERNAL_ERROR", "Failed to generate token",
		))
	}

	refreshToken, tokenHash, expiresAt := h.jwt.GenerateRefreshToken()
	familyID := uuid.New()

	deviceInfo := domain.JSONB{
		"user_agent": c.Get("User-Agent"),
	}
	ipAddress := c.IP()

	rt := &domain.RefreshToken{
		UserID:     user.ID,
		TokenHash:  tokenHash,
		FamilyID:   familyID,
		DeviceInfo: deviceInfo,
		IPAddress:  &ipAddress,
		ExpiresAt:  expiresAt,
	}
	if err := h.authRepo.CreateRefreshToken(rt); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse(
			"INTERNAL_ERROR", "Failed to store token",
		))
	}

	now := time.Now()
	user.LastLoginAt = &now
	h.userRepo.Update(user)

	h.setRefreshCookie(c, refreshToken, expiresAt)

	return c.JSON(dto.SuccessResponse(dto.LoginResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int64(h.jwt.GetAccessExpiry().Seconds()),
		User: dto.UserBriefDTO{
			ID:        user.ID,
			Username:  user.Username,
			AvatarURL: user.AvatarURL,
			Role:      string(user.Role),
		},
	}, ""))
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	refreshToken := c.Cookies("refresh_token")
	if refreshToken == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse(
			"TOKEN_EXPIRED", "No refresh token. Please log in again.",
		))
	}

	tokenHash := auth.HashToken(refreshToken)
	storedToken, err := h.authRepo.FindRefreshTokenByHash(tokenHash)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse(
			"TOKEN_EXPIRED", "Invalid refresh token. Please log in again.",
		))
	}

	// A rotated token being replayed means the family is compromised.
	if storedToken.IsRevoked {
		h.authRepo.RevokeTokenFamily(storedToken.FamilyID, "token_reuse_detected")
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse(
			"TOKEN_REUSE_DETECTED", "Suspicious activity detected. All sessions have been ended.",
		))
	}

	if time.Now().After(storedToken.ExpiresAt) {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse(
			"TOKEN_EXPIRED", "Refresh token has expired. Please log in again.",
		))
	}

	user, err := h.userRepo.FindByID(storedToken.UserID)
	if err != nil || !user.IsActive {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse(
			"UNAUTHORIZED", "Account not available",
		))
	}

	// Rotate: revoke the presented token and issue a new one in its family.
	h.authRepo.UpdateLastUsed(storedToken.ID)
	h.authRepo.RevokeRefreshToken(storedToken.ID, "rotated")

	accessToken, _, err := h.jwt.GenerateAccessToken(user.ID, string(user.Role))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse(
			"INTERNAL_ERROR", "Failed to generate token",
		))
	}

	newRefreshToken, newHash, expiresAt := h.jwt.GenerateRefreshToken()
	ipAddress := c.IP()
	rt := &domain.RefreshToken{
		UserID:     user.ID,
		TokenHash:  newHash,
		FamilyID:   storedToken.FamilyID,
		DeviceInfo: storedToken.DeviceInfo,
		IPAddress:  &ipAddress,
		ExpiresAt:  expiresAt,
	}
	if err := h.authRepo.CreateRefreshToken(rt); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse(
			"INTERNAL_ERROR", "Failed to store token",
		))
	}

	h.setRefreshCookie(c, newRefreshToken, expiresAt)

	return c.JSON(dto.SuccessResponse(dto.LoginResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int64(h.jwt.GetAccessExpiry().Seconds()),
		User: dto.UserBriefDTO{
			ID:        user.ID,
			Username:  user.Username,
			AvatarURL: user.AvatarURL,
			Role:      string(user.Role),
		},
	}, ""))
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse("UNAUTHORIZED", "You are not logged in"))
	}

	// Blacklist the current access token for the rest of its lifetime.
	if jti := middleware.GetJTI(c); jti != "" {
		h.authRepo.BlacklistToken(jti, userID, time.Now().Add(h.jwt.GetAccessExpiry()), "logout")
	}

	if refreshToken := c.Cookies("refresh_token"); refreshToken != "" {
		if stored, err := h.authRepo.FindRefreshTokenByHash(auth.HashToken(refreshToken)); err == nil {
			h.authRepo.RevokeRefreshToken(stored.ID, "logout")
		}
	}

	c.ClearCookie("refresh_token")
	return c.JSON(dto.SuccessResponse(nil, "Logout successful"))
}

// Me returns introspection data for the presented token.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse("UNAUTHORIZED", "Please log in to see your session info"))
	}

	user, err := h.userRepo.FindByID(*userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse("NOT_FOUND", "User not found"))
	}

	return c.JSON(dto.SuccessResponse(dto.UserBriefDTO{
		ID:        user.ID,
		Username:  user.Username,
		AvatarURL: user.AvatarURL,
		Role:      string(user.Role),
	}, ""))
}

// DeleteAccount removes the caller's account and ends all their sessions.
func (h *AuthHandler) DeleteAccount(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse("UNAUTHORIZED", "You must be logged in to delete your account"))
	}

	if _, err := h.userRepo.FindByID(*userID); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse("NOT_FOUND", "User not found"))
	}

	if err := h.userRepo.Delete(*userID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse("INTERNAL_ERROR", "Failed to delete account"))
	}

	h.authRepo.RevokeAllUserTokens(*userID, "account_deleted")
	if jti := middleware.GetJTI(c); jti != "" {
		h.authRepo.BlacklistToken(jti, userID, time.Now().Add(h.jwt.GetAccessExpiry()), "account_deleted")
	}

	c.ClearCookie("refresh_token")
	return c.JSON(dto.SuccessResponse(nil, "Account deleted successfully"))
}

func (h *AuthHandler) setRefreshCookie(c *fiber.Ctx, token string, expiresAt time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     "refresh_token",
		Value:    token,
		Path:     "/api/v1/auth",
		Expires:  expiresAt,
		HTTPOnly: true,
		Secure:   c.Protocol() == "https",
		SameSite: "Strict",
	})
}
