package services

import (
	"context"
	"errors"
	"log"
	"time"

	"campus-identity/internal/adapters/persistence/models"
	"campus-identity/internal/adapters/persistence/repositories"
	"campus-identity/internal/config"
	"campus-identity/internal/pkg/jwt"
	"campus-identity/internal/pkg/password"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Auth errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrInvalidRole        = errors.New("invalid role")
	ErrMissingStudentID   = errors.New("student_id is required for students")
	ErrMissingEmployeeID  = errors.New("employee_id is required for teachers")
	ErrStudentIDTaken     = errors.New("student_id already registered")
	ErrEmployeeIDTaken    = errors.New("employee_id already registered")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenRevoked       = errors.New("token revoked")
)

// AuthService handles authentication business logic
type AuthService struct {
	userRepo    repositories.UserRepository
	revokedRepo repositories.RevokedTokenRepository
	cfg         *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repositories.UserRepository,
	revokedRepo repositories.RevokedTokenRepository,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		revokedRepo: revokedRepo,
		cfg:         cfg,
	}
}

// RegisterInput represents registration input
type RegisterInput struct {
	Username    string
	Email       string
	Password    string
	Password2   string
	FirstName   string
	LastName    string
	Role        string
	Phone       *string
	Address     *string
	DateOfBirth *time.Time

	// Role-specific fields
	StudentID      string
	EmployeeID     string
	Department     string
	Specialization string
	HireDate       *time.Time
}

// LoginInput represents login input
type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// TokenPair represents access and refresh tokens
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	User         *models.UserResponse `json:"user"`
	AccessToken  string               `json:"access_token"`
	RefreshToken string               `json:"refresh_token"`
}

// Register registers a new user with its role-specific profile and logs it
// in. The user row and the profile row are written in one transaction: a
// duplicate student_id/employee_id rolls the whole registration back.
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*AuthResponse, error) {
	if input.Password != input.Password2 {
		return nil, ErrPasswordMismatch
	}
	if !models.ValidRole(input.Role) {
		return nil, ErrInvalidRole
	}

	exists, err := s.userRepo.ExistsByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUserAlreadyExists
	}

	exists, err = s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUserAlreadyExists
	}

	// Role dispatch: exactly one profile shape per role
	var student *models.StudentProfile
	var teacher *models.TeacherProfile

	switch input.Role {
	case models.RoleStudent:
		if input.StudentID == "" {
			return nil, ErrMissingStudentID
		}
		taken, err := s.userRepo.ExistsByStudentID(ctx, input.StudentID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrStudentIDTaken
		}
		student = &models.StudentProfile{
			StudentID:   input.StudentID,
			CurrentYear: 1,
			Status:      models.StudentStatusActive,
		}
	case models.RoleTeacher:
		if input.EmployeeID == "" {
			return nil, ErrMissingEmployeeID
		}
		taken, err := s.userRepo.ExistsByEmployeeID(ctx, input.EmployeeID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrEmployeeIDTaken
		}
		teacher = &models.TeacherProfile{
			EmployeeID:     input.EmployeeID,
			Department:     input.Department,
			Specialization: input.Specialization,
			HireDate:       input.HireDate,
			Status:         models.TeacherStatusActive,
		}
	case models.RoleAdmin:
		// Admins carry no extended profile
	}

	hashedPassword, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:    input.Username,
		Email:       input.Email,
		Password:    hashedPassword,
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		Role:        input.Role,
		Phone:       input.Phone,
		Address:     input.Address,
		DateOfBirth: input.DateOfBirth,
	}

	if err := s.userRepo.CreateWithProfile(ctx, user, student, teacher); err != nil {
		return nil, err
	}

	// Auto-login after registration
	tokens, err := s.generateTokens(user)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ User registered: %s (role: %s)", user.Username, user.Role)

	return &AuthResponse{
		User:         user.ToResponse(),
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

// Login authenticates a user
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*AuthResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !password.Verify(input.Password, user.Password) {
		return nil, ErrInvalidCredentials
	}

	tokens, err := s.generateTokens(user)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ User logged in: %s", user.Username)

	return &AuthResponse{
		User:         user.ToResponse(),
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

// Refresh rotates a token pair. The presented refresh token is revoked
// before the new pair is issued, so it can never be replayed.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := jwt.ValidateRefreshToken(refreshToken, s.cfg.JWT.RefreshSecret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	revoked, err := s.revokedRepo.IsRevoked(ctx, claims.TokenID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrTokenRevoked
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	// Rotation: retire the presented token into the ledger
	if err := s.revokedRepo.Revoke(ctx, claims.TokenID, claims.ExpiresAt.Time); err != nil {
		return nil, err
	}

	tokens, err := s.generateTokens(user)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Token refreshed for user: %s", user.Username)

	return &AuthResponse{
		User:         user.ToResponse(),
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

// Logout revokes the refresh token. Already-issued access tokens stay valid
// until their natural expiry.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := jwt.ValidateRefreshToken(refreshToken, s.cfg.JWT.RefreshSecret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrTokenExpired
		}
		return ErrInvalidToken
	}

	if err := s.revokedRepo.Revoke(ctx, claims.TokenID, claims.ExpiresAt.Time); err != nil {
		return err
	}

	log.Printf("✅ User logged out")
	return nil
}

// ValidateAccessToken validates an access token
func (s *AuthService) ValidateAccessToken(accessToken string) (*jwt.Claims, error) {
	return jwt.ValidateAccessToken(accessToken, s.cfg.JWT.Secret)
}

// generateTokens generates access and refresh tokens
func (s *AuthService) generateTokens(user *models.User) (*TokenPair, error) {
	accessToken, err := jwt.GenerateAccessToken(
		user.ID,
		user.Username,
		user.Role,
		user.FullName(),
		s.cfg.JWT.Secret,
		s.cfg.JWT.AccessTokenMins,
	)
	if err != nil {
		return nil, err
	}

	tokenID := uuid.New().String()

	refreshToken, err := jwt.GenerateRefreshToken(
		user.ID,
		tokenID,
		s.cfg.JWT.RefreshSecret,
		s.cfg.JWT.RefreshTokenDays,
	)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
