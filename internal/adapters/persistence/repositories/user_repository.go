package repositories

import (
	"context"

	"campus-identity/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// userRepository implements UserRepository interface
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create creates a new user
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// CreateWithProfile creates user and profile atomically.
// If the profile insert fails (e.g. duplicate student_id) the user insert
// is rolled back, leaving no orphan user row behind.
func (r *userRepository) CreateWithProfile(ctx context.Context, user *models.User, student *models.StudentProfile, teacher *models.TeacherProfile) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}

		if student != nil {
			student.UserID = user.ID
			if err := tx.Create(student).Error; err != nil {
				return err
			}
			user.StudentProfile = student
		}

		if teacher != nil {
			teacher.UserID = user.ID
			if err := tx.Create(teacher).Error; err != nil {
				return err
			}
			user.TeacherProfile = teacher
		}

		return nil
	})
}

// GetByID gets a user by ID
func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByIDWithProfile gets a user by ID with its role-specific profile preloaded
func (r *userRepository) GetByIDWithProfile(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Preload("StudentProfile").
		Preload("TeacherProfile").
		Where("id = ?", id).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByUsername gets a user by username
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Update updates a user
func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// Delete soft deletes a user
func (r *userRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.User{}, id).Error
}

// List lists users with pagination
func (r *userRepository) List(ctx context.Context, offset, limit int) ([]*models.User, int64, error) {
	var users []*models.User
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).Offset(offset).Limit(limit).Order("id").Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// ExistsByUsername checks if username exists
func (r *userRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

// ExistsByEmail checks if email exists
func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// ExistsByStudentID checks if a student_id is already taken
func (r *userRepository) ExistsByStudentID(ctx context.Context, studentID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.StudentProfile{}).Where("student_id = ?", studentID).Count(&count).Error
	return count > 0, err
}

// ExistsByEmployeeID checks if an employee_id is already taken
func (r *userRepository) ExistsByEmployeeID(ctx context.Context, employeeID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.TeacherProfile{}).Where("employee_id = ?", employeeID).Count(&count).Error
	return count > 0, err
}
