package services

import (
	"context"
	"time"

	"campus-identity/internal/adapters/persistence/models"
	"campus-identity/internal/adapters/persistence/repositories"
	"campus-identity/internal/pkg/password"

	"gorm.io/gorm"
)

// fakeUserRepo is an in-memory UserRepository for service tests
type fakeUserRepo struct {
	nextID   uint
	users    map[uint]*models.User
	students map[uint]*models.StudentProfile
	teachers map[uint]*models.TeacherProfile
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:    make(map[uint]*models.User),
		students: make(map[uint]*models.StudentProfile),
		teachers: make(map[uint]*models.TeacherProfile),
	}
}

var _ repositories.UserRepository = (*fakeUserRepo)(nil)

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	r.nextID++
	user.ID = r.nextID
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) CreateWithProfile(ctx context.Context, user *models.User, student *models.StudentProfile, teacher *models.TeacherProfile) error {
	// Emulates the transactional unique checks: a duplicate profile id
	// fails the whole create, storing nothing.
	if student != nil {
		for _, p := range r.students {
			if p.StudentID == student.StudentID {
				return gorm.ErrDuplicatedKey
			}
		}
	}
	if teacher != nil {
		for _, p := range r.teachers {
			if p.EmployeeID == teacher.EmployeeID {
				return gorm.ErrDuplicatedKey
			}
		}
	}

	if err := r.Create(ctx, user); err != nil {
		return err
	}

	if student != nil {
		student.UserID = user.ID
		r.students[user.ID] = student
		user.StudentProfile = student
	}
	if teacher != nil {
		teacher.UserID = user.ID
		r.teachers[user.ID] = teacher
		user.TeacherProfile = teacher
	}
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uint) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) GetByIDWithProfile(ctx context.Context, id uint) (*models.User, error) {
	user, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.StudentProfile = r.students[id]
	user.TeacherProfile = r.teachers[id]
	return user, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	for _, user := range r.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uint) error {
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) List(_ context.Context, offset, limit int) ([]*models.User, int64, error) {
	var all []*models.User
	for id := uint(1); id <= r.nextID; id++ {
		if user, ok := r.users[id]; ok {
			all = append(all, user)
		}
	}

	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (r *fakeUserRepo) ExistsByUsername(_ context.Context, username string) (bool, error) {
	for _, user := range r.users {
		if user.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, user := range r.users {
		if user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) ExistsByStudentID(_ context.Context, studentID string) (bool, error) {
	for _, p := range r.students {
		if p.StudentID == studentID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) ExistsByEmployeeID(_ context.Context, employeeID string) (bool, error) {
	for _, p := range r.teachers {
		if p.EmployeeID == employeeID {
			return true, nil
		}
	}
	return false, nil
}

// fakeRevokedRepo is an in-memory revocation ledger
type fakeRevokedRepo struct {
	revoked map[string]time.Time
}

func newFakeRevokedRepo() *fakeRevokedRepo {
	return &fakeRevokedRepo{revoked: make(map[string]time.Time)}
}

var _ repositories.RevokedTokenRepository = (*fakeRevokedRepo)(nil)

func (r *fakeRevokedRepo) Revoke(_ context.Context, tokenID string, expiresAt time.Time) error {
	if _, ok := r.revoked[tokenID]; ok {
		return nil // idempotent
	}
	r.revoked[tokenID] = expiresAt
	return nil
}

func (r *fakeRevokedRepo) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	_, ok := r.revoked[tokenID]
	return ok, nil
}

func (r *fakeRevokedRepo) DeleteExpired(_ context.Context) (int64, error) {
	var n int64
	now := time.Now()
	for id, expiresAt := range r.revoked {
		if expiresAt.Before(now) {
			delete(r.revoked, id)
			n++
		}
	}
	return n, nil
}

// mustSeedUser inserts a user with a bcrypt-hashed password
func mustSeedUser(repo *fakeUserRepo, username, plain, role string) *models.User {
	hash, err := password.Hash(plain)
	if err != nil {
		panic(err)
	}
	user := &models.User{
		Username: username,
		Email:    username + "@campus.local",
		Password: hash,
		Role:     role,
	}
	if err := repo.Create(context.Background(), user); err != nil {
		panic(err)
	}
	return user
}
