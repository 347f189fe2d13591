package repository

import (
	"time"

	"github.com/Vishnu072004/Chess-App/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuthRepository struct {
	db *gorm.DB
}

func NewAuthRepository(db *gorm.DB) *AuthRepository {
	return &AuthRepository{db: db}
}

func (r *AuthRepository) CreateRefreshToken(token *domain.RefreshToken) error {
	return r.db.Create(token).Error
}

func (r *AuthRepository) FindRefreshTokenByHash(hash string) (*domain.RefreshToken, error) {
	var token domain.RefreshToken
	err := r.db.First(&token, "token_hash = ?", hash).Error
	if err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *AuthRepository) RevokeRefreshToken(id uuid.UUID, reason string) error {
	now := time.Now()
	return r.db.Model(&domain.RefreshToken{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_revoked":    true,
			"revoked_at":    now,
			"revoke_reason": reason,
		}).Error
}

// RevokeTokenFamily revokes every token descended from one login. Used when
// a rotated token is replayed.
func (r *AuthRepository) RevokeTokenFamily(familyID uuid.UUID, reason string) error {
	now := time.Now()
	return r.db.Model(&domain.RefreshToken{}).
		Where("family_id = ? AND is_revoked = ?", familyID, false).
		Updates(map[string]interface{}{
			"is_revoked":    true,
			"revoked_at":    now,
			"revoke_reason": reason,
		}).Error
}

func (r *AuthRepository) RevokeAllUserTokens(userID uuid.UUID, reason string) (int64, error) {
	now := time.Now()
	res := r.db.Model(&domain.RefreshToken{}).
		Where("user_id = ? AND is_revoked = ?", userID, false).
		Updates(map[string]interface{}{
			"is_revoked":    true,
			"revoked_at":    now,
			"revoke_reason": reason,
		})
	return res.RowsAffected, res.Error
}

func (r *AuthRepository) UpdateLastUsed(id uuid.UUID) error {
	now := time.Now()
	return r.db.Model(&domain.RefreshToken{}).
		Where("id = ?", id).
		UpdateColumn("last_used_at", now).Error
}

func (r *AuthRepository) BlacklistToken(jti string, userID *uuid.UUID, expiresAt time.Time, reason string) error {
	return r.db.Create(&domain.TokenBlacklist{
		JTI:       jti,
		UserID:    userID,
		ExpiresAt: expiresAt,
		Reason:    reason,
	}).Error
}

// CleanupExpiredTokens prunes expired refresh tokens and blacklist entries.
func (r *AuthRepository) CleanupExpiredTokens() error {
	now := time.Now()
	if err := r.db.Delete(&domain.RefreshToken{}, "expires_at < ?", now).Error; err != nil {
		return err
	}
	return r.db.Delete(&domain.TokenBlacklist{}, "expires_at < ?", now).Error
}
