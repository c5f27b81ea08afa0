package services

import (
	"context"
	"errors"
	"time"

	"campus-identity/internal/adapters/persistence/models"
	"campus-identity/internal/adapters/persistence/repositories"
	"campus-identity/internal/core/policy"
	"campus-identity/internal/pkg/pagination"
	"campus-identity/internal/pkg/password"

	"gorm.io/gorm"
)

// User service errors
var (
	ErrUserNotFoundSvc     = errors.New("user not found")
	ErrEmailAlreadyExists  = errors.New("email already exists")
	ErrOldPasswordWrong    = errors.New("old password is incorrect")
	ErrForbidden           = errors.New("insufficient privilege")
	ErrCannotChangeOwnRole = errors.New("cannot change your own role")
)

// UserService handles user management business logic
type UserService struct {
	userRepo repositories.UserRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo repositories.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// ListUsersOutput represents list users output
type ListUsersOutput struct {
	Users []*models.UserResponse `json:"users"`
	Meta  *pagination.Meta       `json:"meta"`
}

// UpdateUserInput represents a partial user update. Nil fields are left
// untouched, which serves both PUT and PATCH.
type UpdateUserInput struct {
	Email        *string    `json:"email"`
	FirstName    *string    `json:"first_name"`
	LastName     *string    `json:"last_name"`
	Phone        *string    `json:"phone"`
	Address      *string    `json:"address"`
	DateOfBirth  *time.Time `json:"date_of_birth"`
	ProfileImage *string    `json:"profile_image"`
	Role         *string    `json:"role"`
}

// ChangePasswordInput represents change password input
type ChangePasswordInput struct {
	OldPassword  string `json:"old_password"`
	NewPassword  string `json:"new_password"`
	NewPassword2 string `json:"new_password2"`
}

// ListUsers lists users scoped by the actor's role: admins see every user,
// everyone else gets a result set holding only themselves.
func (s *UserService) ListUsers(ctx context.Context, actor policy.Actor, params *pagination.Params) (*ListUsersOutput, error) {
	all, selfID := policy.ListScope(actor)
	if !all {
		user, err := s.userRepo.GetByIDWithProfile(ctx, selfID)
		if err != nil {
			return nil, ErrUserNotFoundSvc
		}
		return &ListUsersOutput{
			Users: []*models.UserResponse{user.ToResponse()},
			Meta:  pagination.GetMeta(params, 1),
		}, nil
	}

	users, total, err := s.userRepo.List(ctx, params.Offset, params.Limit)
	if err != nil {
		return nil, err
	}

	userResponses := make([]*models.UserResponse, len(users))
	for i, user := range users {
		userResponses[i] = user.ToResponse()
	}

	return &ListUsersOutput{
		Users: userResponses,
		Meta:  pagination.GetMeta(params, total),
	}, nil
}

// GetUser gets a user by ID, allowed for the owner or an admin
func (s *UserService) GetUser(ctx context.Context, actor policy.Actor, id uint) (*models.UserResponse, error) {
	if !(policy.OwnerOrAdmin{}).Allow(actor, id, policy.ActionRead) {
		return nil, ErrForbidden
	}

	user, err := s.userRepo.GetByIDWithProfile(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFoundSvc
		}
		return nil, err
	}

	return user.ToResponse(), nil
}

// UpdateUser updates a user's identity fields, allowed for the owner or an
// admin. Role changes are admin-only and never on the admin's own record.
func (s *UserService) UpdateUser(ctx context.Context, actor policy.Actor, id uint, input *UpdateUserInput) (*models.UserResponse, error) {
	if !(policy.OwnerOrAdmin{}).Allow(actor, id, policy.ActionWrite) {
		return nil, ErrForbidden
	}

	user, err := s.userRepo.GetByIDWithProfile(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFoundSvc
		}
		return nil, err
	}

	if input.Role != nil && *input.Role != user.Role {
		if actor.Role != models.RoleAdmin {
			return nil, ErrForbidden
		}
		if actor.UserID == id {
			return nil, ErrCannotChangeOwnRole
		}
		if !models.ValidRole(*input.Role) {
			return nil, ErrInvalidRole
		}
		user.Role = *input.Role
	}

	if err := s.applyUserFields(ctx, user, input); err != nil {
		return nil, err
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user.ToResponse(), nil
}

// DeleteUser soft deletes a user, allowed for the owner or an admin
func (s *UserService) DeleteUser(ctx context.Context, actor policy.Actor, id uint) error {
	if !(policy.OwnerOrAdmin{}).Allow(actor, id, policy.ActionDelete) {
		return ErrForbidden
	}

	if _, err := s.userRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFoundSvc
		}
		return err
	}

	return s.userRepo.Delete(ctx, id)
}

// GetProfile gets own profile with the role-specific profile embedded
func (s *UserService) GetProfile(ctx context.Context, userID uint) (*models.UserResponse, error) {
	user, err := s.userRepo.GetByIDWithProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFoundSvc
		}
		return nil, err
	}
	return user.ToResponse(), nil
}

// UpdateProfile updates own profile
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, input *UpdateUserInput) (*models.UserResponse, error) {
	user, err := s.userRepo.GetByIDWithProfile(ctx, userID)
	if err != nil {
		return nil, ErrUserNotFoundSvc
	}

	// Role is not updatable through the profile endpoint
	if err := s.applyUserFields(ctx, user, input); err != nil {
		return nil, err
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user.ToResponse(), nil
}

// ChangePassword changes user's password. Outstanding tokens are left
// untouched; the caller logs out separately.
func (s *UserService) ChangePassword(ctx context.Context, userID uint, input *ChangePasswordInput) error {
	if input.NewPassword != input.NewPassword2 {
		return ErrPasswordMismatch
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return ErrUserNotFoundSvc
	}

	if !password.Verify(input.OldPassword, user.Password) {
		return ErrOldPasswordWrong
	}

	hashedPassword, err := password.Hash(input.NewPassword)
	if err != nil {
		return err
	}

	user.Password = hashedPassword
	return s.userRepo.Update(ctx, user)
}

// applyUserFields copies the non-nil identity fields onto user
func (s *UserService) applyUserFields(ctx context.Context, user *models.User, input *UpdateUserInput) error {
	if input.Email != nil && *input.Email != user.Email {
		exists, err := s.userRepo.ExistsByEmail(ctx, *input.Email)
		if err != nil {
			return err
		}
		if exists {
			return ErrEmailAlreadyExists
		}
		user.Email = *input.Email
	}

	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Phone != nil {
		user.Phone = input.Phone
	}
	if input.Address != nil {
		user.Address = input.Address
	}
	if input.DateOfBirth != nil {
		user.DateOfBirth = input.DateOfBirth
	}
	if input.ProfileImage != nil {
		user.ProfileImage = input.ProfileImage
	}

	return nil
}
