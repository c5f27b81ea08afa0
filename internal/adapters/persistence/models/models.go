package models

import (
	"time"

	"gorm.io/gorm"
)

// Roles
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

// ValidRole reports whether role is one of the known roles
func ValidRole(role string) bool {
	return role == RoleStudent || role == RoleTeacher || role == RoleAdmin
}

// User represents users table
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Username     string         `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Email        string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password     string         `gorm:"size:255;not null" json:"-"`
	FirstName    string         `gorm:"size:50" json:"first_name"`
	LastName     string         `gorm:"size:50" json:"last_name"`
	Role         string         `gorm:"size:20;not null;default:'student'" json:"role"`
	Phone        *string        `gorm:"size:20" json:"phone"`
	Address      *string        `gorm:"type:text" json:"address"`
	DateOfBirth  *time.Time     `gorm:"type:date" json:"date_of_birth"`
	ProfileImage *string        `gorm:"size:255" json:"profile_image"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Role-specific profiles (at most one is set)
	StudentProfile *StudentProfile `gorm:"foreignKey:UserID" json:"-"`
	TeacherProfile *TeacherProfile `gorm:"foreignKey:UserID" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// FullName returns first and last name joined
func (u *User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// UserResponse DTO
type UserResponse struct {
	ID             uint                    `json:"id"`
	Username       string                  `json:"username"`
	Email          string                  `json:"email"`
	FirstName      string                  `json:"first_name"`
	LastName       string                  `json:"last_name"`
	Role           string                  `json:"role"`
	Phone          *string                 `json:"phone,omitempty"`
	Address        *string                 `json:"address,omitempty"`
	DateOfBirth    *time.Time              `json:"date_of_birth,omitempty"`
	ProfileImage   *string                 `json:"profile_image,omitempty"`
	CreatedAt      time.Time               `json:"created_at"`
	UpdatedAt      time.Time               `json:"updated_at"`
	StudentProfile *StudentProfileResponse `json:"student_profile,omitempty"`
	TeacherProfile *TeacherProfileResponse `json:"teacher_profile,omitempty"`
}

func (u *User) ToResponse() *UserResponse {
	resp := &UserResponse{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Role:         u.Role,
		Phone:        u.Phone,
		Address:      u.Address,
		DateOfBirth:  u.DateOfBirth,
		ProfileImage: u.ProfileImage,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}

	if u.StudentProfile != nil {
		resp.StudentProfile = u.StudentProfile.ToResponse()
	}
	if u.TeacherProfile != nil {
		resp.TeacherProfile = u.TeacherProfile.ToResponse()
	}

	return resp
}

// Student statuses
const (
	StudentStatusActive    = "active"
	StudentStatusInactive  = "inactive"
	StudentStatusGraduated = "graduated"
	StudentStatusSuspended = "suspended"
)

// StudentProfile represents students table (1:1 with a student User)
type StudentProfile struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	StudentID      string    `gorm:"uniqueIndex;size:20;not null" json:"student_id"`
	EnrollmentDate time.Time `gorm:"type:date;autoCreateTime" json:"enrollment_date"`
	CurrentYear    int       `gorm:"default:1" json:"current_year"`
	Status         string    `gorm:"size:20;not null;default:'active'" json:"status"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}

func (StudentProfile) TableName() string {
	return "students"
}

// StudentProfileResponse DTO
type StudentProfileResponse struct {
	ID             uint      `json:"id"`
	StudentID      string    `json:"student_id"`
	EnrollmentDate time.Time `json:"enrollment_date"`
	CurrentYear    int       `json:"current_year"`
	Status         string    `json:"status"`
}

func (p *StudentProfile) ToResponse() *StudentProfileResponse {
	return &StudentProfileResponse{
		ID:             p.ID,
		StudentID:      p.StudentID,
		EnrollmentDate: p.EnrollmentDate,
		CurrentYear:    p.CurrentYear,
		Status:         p.Status,
	}
}

// Teacher statuses
const (
	TeacherStatusActive   = "active"
	TeacherStatusInactive = "inactive"
	TeacherStatusOnLeave  = "on_leave"
)

// TeacherProfile represents teachers table (1:1 with a teacher User)
type TeacherProfile struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	UserID         uint       `gorm:"uniqueIndex;not null" json:"user_id"`
	EmployeeID     string     `gorm:"uniqueIndex;size:20;not null" json:"employee_id"`
	Department     string     `gorm:"size:100" json:"department"`
	Specialization string     `gorm:"size:200" json:"specialization"`
	HireDate       *time.Time `gorm:"type:date" json:"hire_date"`
	Status         string     `gorm:"size:20;not null;default:'active'" json:"status"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}

func (TeacherProfile) TableName() string {
	return "teachers"
}

// TeacherProfileResponse DTO
type TeacherProfileResponse struct {
	ID             uint       `json:"id"`
	EmployeeID     string     `json:"employee_id"`
	Department     string     `json:"department"`
	Specialization string     `json:"specialization"`
	HireDate       *time.Time `json:"hire_date,omitempty"`
	Status         string     `json:"status"`
}

func (p *TeacherProfile) ToResponse() *TeacherProfileResponse {
	return &TeacherProfileResponse{
		ID:             p.ID,
		EmployeeID:     p.EmployeeID,
		Department:     p.Department,
		Specialization: p.Specialization,
		HireDate:       p.HireDate,
		Status:         p.Status,
	}
}

// RevokedToken represents revoked_tokens table.
// Append-only blacklist keyed by the refresh token's jti. Rows are only
// deleted once the token they name has expired on its own.
type RevokedToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TokenID   string    `gorm:"uniqueIndex;size:36;not null" json:"token_id"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
	RevokedAt time.Time `gorm:"autoCreateTime" json:"revoked_at"`
}

func (RevokedToken) TableName() string {
	return "revoked_tokens"
}

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&StudentProfile{},
		&TeacherProfile{},
		&RevokedToken{},
	)
}
