package handlers

import (
	"errors"
	"strconv"

	"campus-identity/internal/adapters/http/middleware"
	"campus-identity/internal/core/services"
	"campus-identity/internal/pkg/pagination"
	"campus-identity/internal/pkg/password"
	"campus-identity/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles profile and user management endpoints
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// UpdateUserRequest represents a user/profile update body. Absent fields
// stay untouched, so the same shape serves PUT and PATCH.
type UpdateUserRequest struct {
	Email        *string `json:"email"`
	FirstName    *string `json:"first_name"`
	LastName     *string `json:"last_name"`
	Phone        *string `json:"phone"`
	Address      *string `json:"address"`
	DateOfBirth  *string `json:"date_of_birth"`
	ProfileImage *string `json:"profile_image"`
	Role         *string `json:"role"`
}

func (r *UpdateUserRequest) toInput() (*services.UpdateUserInput, error) {
	input := &services.UpdateUserInput{
		Email:        r.Email,
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		Phone:        r.Phone,
		Address:      r.Address,
		ProfileImage: r.ProfileImage,
		Role:         r.Role,
	}

	if r.DateOfBirth != nil {
		dob, err := parseDate(*r.DateOfBirth)
		if err != nil {
			return nil, err
		}
		input.DateOfBirth = dob
	}

	return input, nil
}

// GetProfile handles getting own profile with the role-specific profile
// GET /api/auth/profile
func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	actor, ok := middleware.Actor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	user, err := h.userService.GetProfile(c.Context(), actor.UserID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFoundSvc) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to get profile")
	}

	return response.Success(c, "Profile retrieved successfully", fiber.Map{
		"user": user,
	})
}

// UpdateProfile handles updating own profile
// PUT/PATCH /api/auth/profile
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	actor, ok := middleware.Actor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Role != nil {
		return response.ValidationError(c, map[string]string{"role": "Role cannot be changed through the profile endpoint"})
	}

	input, err := req.toInput()
	if err != nil {
		return response.ValidationError(c, map[string]string{"date_of_birth": "Invalid date, expected YYYY-MM-DD"})
	}

	user, err := h.userService.UpdateProfile(c.Context(), actor.UserID, input)
	if err != nil {
		if errors.Is(err, services.ErrEmailAlreadyExists) {
			return response.ValidationError(c, map[string]string{"email": "Email already exists"})
		}
		return response.InternalServerError(c, "Failed to update profile")
	}

	return response.Success(c, "Profile updated successfully", fiber.Map{
		"user": user,
	})
}

// ChangePasswordRequest represents change password request body
type ChangePasswordRequest struct {
	OldPassword  string `json:"old_password"`
	NewPassword  string `json:"new_password"`
	NewPassword2 string `json:"new_password2"`
}

// ChangePassword rotates the caller's password. Tokens already issued stay
// valid until expiry; logout is a separate call.
// POST /api/auth/change-password
func (h *UserHandler) ChangePassword(c *fiber.Ctx) error {
	actor, ok := middleware.Actor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.OldPassword == "" {
		return response.ValidationError(c, map[string]string{"old_password": "Old password is required"})
	}
	if req.NewPassword == "" {
		return response.ValidationError(c, map[string]string{"new_password": "New password is required"})
	}
	if !password.ValidatePassword(req.NewPassword) {
		return response.ValidationError(c, map[string]string{"new_password": "New password must be at least 8 characters"})
	}

	input := &services.ChangePasswordInput{
		OldPassword:  req.OldPassword,
		NewPassword:  req.NewPassword,
		NewPassword2: req.NewPassword2,
	}

	err := h.userService.ChangePassword(c.Context(), actor.UserID, input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPasswordMismatch):
			return response.ValidationError(c, map[string]string{"new_password": "New passwords do not match"})
		case errors.Is(err, services.ErrOldPasswordWrong):
			return response.Unauthorized(c, "Old password is incorrect")
		default:
			return response.InternalServerError(c, "Failed to change password")
		}
	}

	return response.Success(c, "Password changed successfully", nil)
}

// ListUsers lists users: admins get everyone, others get only themselves
// GET /api/auth/users
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	actor, ok := middleware.Actor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	params := pagination.GetParams(c)

	result, err := h.userService.ListUsers(c.Context(), actor, params)
	if err != nil {
		return response.InternalServerError(c, "Failed to list users")
	}

	return response.Success(c, "Users retrieved successfully", result)
}

// GetUser handles getting a user by ID (owner or admin)
// GET /api/auth/users/:id
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	actor, ok := middleware.Actor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	user, err := h.userService.GetUser(c.Context(), actor, uint(id))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrForbidden):
			return response.Forbidden(c, "You don't have permission to access this user")
		case errors.Is(err, services.ErrUserNotFoundSvc):
			return response.NotFound(c, "User not found")
		default:
			return response.InternalServerError(c, "Failed to get user")
		}
	}

	return response.Success(c, "User retrieved successfully", fiber.Map{
		"user": user,
	})
}

// UpdateUser handles updating a user (owner or admin)
// PUT/PATCH /api/auth/users/:id
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	actor, ok := middleware.Actor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	var req UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	input, err := req.toInput()
	if err != nil {
		return response.ValidationError(c, map[string]string{"date_of_birth": "Invalid date, expected YYYY-MM-DD"})
	}

	user, err := h.userService.UpdateUser(c.Context(), actor, uint(id), input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrForbidden):
			return response.Forbidden(c, "You don't have permission to modify this user")
		case errors.Is(err, services.ErrUserNotFoundSvc):
			return response.NotFound(c, "User not found")
		case errors.Is(err, services.ErrEmailAlreadyExists):
			return response.ValidationError(c, map[string]string{"email": "Email already exists"})
		case errors.Is(err, services.ErrCannotChangeOwnRole):
			return response.ValidationError(c, map[string]string{"role": "Cannot change your own role"})
		case errors.Is(err, services.ErrInvalidRole):
			return response.ValidationError(c, map[string]string{"role": "Role must be student, teacher or admin"})
		default:
			return response.InternalServerError(c, "Failed to update user")
		}
	}

	return response.Success(c, "User updated successfully", fiber.Map{
		"user": user,
	})
}

// DeleteUser handles deleting a user (owner or admin, soft delete)
// DELETE /api/auth/users/:id
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	actor, ok := middleware.Actor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	err = h.userService.DeleteUser(c.Context(), actor, uint(id))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrForbidden):
			return response.Forbidden(c, "You don't have permission to delete this user")
		case errors.Is(err, services.ErrUserNotFoundSvc):
			return response.NotFound(c, "User not found")
		default:
			return response.InternalServerError(c, "Failed to delete user")
		}
	}

	return response.Success(c, "User deleted successfully", nil)
}
