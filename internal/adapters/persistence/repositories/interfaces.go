package repositories

import (
	"context"
	"time"

	"campus-identity/internal/adapters/persistence/models"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	// CreateWithProfile creates the user and its role-specific profile in a
	// single transaction. Exactly one of student/teacher may be non-nil.
	CreateWithProfile(ctx context.Context, user *models.User, student *models.StudentProfile, teacher *models.TeacherProfile) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByIDWithProfile(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, offset, limit int) ([]*models.User, int64, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByStudentID(ctx context.Context, studentID string) (bool, error)
	ExistsByEmployeeID(ctx context.Context, employeeID string) (bool, error)
}

// RevokedTokenRepository defines the refresh-token blacklist interface
type RevokedTokenRepository interface {
	// Revoke records a token id as revoked. Idempotent: revoking an already
	// revoked id is a no-op, not an error.
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
	// DeleteExpired removes entries whose underlying token has expired and
	// can no longer be presented anyway.
	DeleteExpired(ctx context.Context) (int64, error)
}
