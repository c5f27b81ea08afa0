package repositories

import (
	"context"
	"time"

	"campus-identity/internal/adapters/persistence/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// revokedTokenRepository implements RevokedTokenRepository interface
type revokedTokenRepository struct {
	db *gorm.DB
}

// NewRevokedTokenRepository creates a new revoked token repository
func NewRevokedTokenRepository(db *gorm.DB) RevokedTokenRepository {
	return &revokedTokenRepository{db: db}
}

// Revoke inserts the token id into the blacklist. ON CONFLICT DO NOTHING
// keeps the operation idempotent for already-revoked ids.
func (r *revokedTokenRepository) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	token := &models.RevokedToken{
		TokenID:   tokenID,
		ExpiresAt: expiresAt,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "token_id"}}, DoNothing: true}).
		Create(token).Error
}

// IsRevoked checks the blacklist by token id (unique indexed)
func (r *revokedTokenRepository) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.RevokedToken{}).
		Where("token_id = ?", tokenID).
		Count(&count).Error
	return count > 0, err
}

// DeleteExpired removes blacklist entries for tokens past their own expiry
func (r *revokedTokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at < ?", time.Now()).
		Delete(&models.RevokedToken{})
	return res.RowsAffected, res.Error
}
