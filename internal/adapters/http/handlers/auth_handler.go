package handlers

import (
	"errors"
	"strings"
	"time"

	"campus-identity/internal/core/services"
	"campus-identity/internal/pkg/response"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
	}
}

// RegisterRequest represents registration request body
type RegisterRequest struct {
	Username    string  `json:"username" validate:"required,min=3,max=50"`
	Email       string  `json:"email" validate:"required,email"`
	Password    string  `json:"password" validate:"required,min=8"`
	Password2   string  `json:"password2" validate:"required"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	Role        string  `json:"role" validate:"required,oneof=student teacher admin"`
	Phone       *string `json:"phone"`
	Address     *string `json:"address"`
	DateOfBirth string  `json:"date_of_birth"`

	StudentID      string `json:"student_id"`
	EmployeeID     string `json:"employee_id"`
	Department     string `json:"department"`
	Specialization string `json:"specialization"`
	HireDate       string `json:"hire_date"`
}

// LoginRequest represents login request body
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest represents the refresh/logout request body
type RefreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

// Register handles user registration with role-specific profile creation
// POST /api/auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validate.Struct(&req); err != nil {
		return response.ValidationError(c, validationFields(err))
	}

	dob, err := parseDate(req.DateOfBirth)
	if err != nil {
		return response.ValidationError(c, map[string]string{"date_of_birth": "Invalid date, expected YYYY-MM-DD"})
	}
	hireDate, err := parseDate(req.HireDate)
	if err != nil {
		return response.ValidationError(c, map[string]string{"hire_date": "Invalid date, expected YYYY-MM-DD"})
	}

	input := &services.RegisterInput{
		Username:       strings.TrimSpace(req.Username),
		Email:          strings.TrimSpace(req.Email),
		Password:       req.Password,
		Password2:      req.Password2,
		FirstName:      strings.TrimSpace(req.FirstName),
		LastName:       strings.TrimSpace(req.LastName),
		Role:           req.Role,
		Phone:          req.Phone,
		Address:        req.Address,
		DateOfBirth:    dob,
		StudentID:      strings.TrimSpace(req.StudentID),
		EmployeeID:     strings.TrimSpace(req.EmployeeID),
		Department:     strings.TrimSpace(req.Department),
		Specialization: strings.TrimSpace(req.Specialization),
		HireDate:       hireDate,
	}

	result, err := h.authService.Register(c.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPasswordMismatch):
			return response.ValidationError(c, map[string]string{"password": "Passwords do not match"})
		case errors.Is(err, services.ErrMissingStudentID):
			return response.ValidationError(c, map[string]string{"student_id": "Student ID is required for students"})
		case errors.Is(err, services.ErrMissingEmployeeID):
			return response.ValidationError(c, map[string]string{"employee_id": "Employee ID is required for teachers"})
		case errors.Is(err, services.ErrStudentIDTaken):
			return response.ValidationError(c, map[string]string{"student_id": "Student ID already registered"})
		case errors.Is(err, services.ErrEmployeeIDTaken):
			return response.ValidationError(c, map[string]string{"employee_id": "Employee ID already registered"})
		case errors.Is(err, services.ErrUserAlreadyExists):
			return response.ValidationError(c, map[string]string{"username": "Username or email already exists"})
		case errors.Is(err, services.ErrInvalidRole):
			return response.ValidationError(c, map[string]string{"role": "Role must be student, teacher or admin"})
		default:
			return response.InternalServerError(c, "Failed to register user")
		}
	}

	return response.Created(c, "User registered successfully", fiber.Map{
		"user":    result.User,
		"access":  result.AccessToken,
		"refresh": result.RefreshToken,
	})
}

// Login handles user login
// POST /api/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validate.Struct(&req); err != nil {
		return response.ValidationError(c, validationFields(err))
	}

	input := &services.LoginInput{
		Username: strings.TrimSpace(req.Username),
		Password: req.Password,
	}

	result, err := h.authService.Login(c.Context(), input)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return response.Unauthorized(c, "Invalid username or password")
		}
		return response.InternalServerError(c, "Failed to login")
	}

	return response.Success(c, "Login successful", fiber.Map{
		"user":    result.User,
		"access":  result.AccessToken,
		"refresh": result.RefreshToken,
	})
}

// Refresh handles token rotation
// POST /api/auth/token/refresh
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Refresh == "" {
		return response.ValidationError(c, map[string]string{"refresh": "Refresh token is required"})
	}

	result, err := h.authService.Refresh(c.Context(), req.Refresh)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTokenRevoked):
			return response.Unauthorized(c, "Refresh token revoked, please login again")
		case errors.Is(err, services.ErrTokenExpired):
			return response.Unauthorized(c, "Refresh token expired, please login again")
		case errors.Is(err, services.ErrInvalidToken), errors.Is(err, services.ErrUserNotFound):
			return response.Unauthorized(c, "Invalid refresh token")
		default:
			return response.InternalServerError(c, "Failed to refresh token")
		}
	}

	return response.Success(c, "Token refreshed successfully", fiber.Map{
		"user":    result.User,
		"access":  result.AccessToken,
		"refresh": result.RefreshToken,
	})
}

// Logout revokes the presented refresh token. Access tokens already in the
// wild stay valid until they expire on their own.
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var req RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Refresh == "" {
		return response.ValidationError(c, map[string]string{"refresh": "Refresh token is required"})
	}

	if err := h.authService.Logout(c.Context(), req.Refresh); err != nil {
		switch {
		case errors.Is(err, services.ErrTokenExpired), errors.Is(err, services.ErrInvalidToken):
			return response.Unauthorized(c, "Invalid refresh token")
		default:
			return response.InternalServerError(c, "Failed to logout")
		}
	}

	return response.Success(c, "Logged out successfully", nil)
}

// Verify confirms the bearer access token is valid and echoes its identity
// GET /api/auth/verify
func (h *AuthHandler) Verify(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	return response.Success(c, "Token is valid", fiber.Map{
		"valid": true,
		"user": fiber.Map{
			"id":       userID,
			"username": c.Locals("username"),
			"role":     c.Locals("role"),
		},
	})
}

// parseDate parses an optional YYYY-MM-DD field
func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// validationFields flattens validator errors into field-level messages
func validationFields(err error) map[string]string {
	fields := make(map[string]string)

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			fields[strings.ToLower(fe.Field())] = "failed on '" + fe.Tag() + "' validation"
		}
		return fields
	}

	fields["body"] = err.Error()
	return fields
}
