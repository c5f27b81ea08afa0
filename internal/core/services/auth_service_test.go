package services

import (
	"context"
	"testing"

	"campus-identity/internal/adapters/persistence/models"
	"campus-identity/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:           "test-access-secret",
			RefreshSecret:    "test-refresh-secret",
			AccessTokenMins:  60,
			RefreshTokenDays: 7,
		},
	}
}

func newTestAuthService() (*AuthService, *fakeUserRepo, *fakeRevokedRepo) {
	users := newFakeUserRepo()
	revoked := newFakeRevokedRepo()
	return NewAuthService(users, revoked, testConfig()), users, revoked
}

func studentInput(username, studentID string) *RegisterInput {
	return &RegisterInput{
		Username:  username,
		Email:     username + "@campus.local",
		Password:  "secret123456",
		Password2: "secret123456",
		FirstName: "Nina",
		LastName:  "Barlow",
		Role:      models.RoleStudent,
		StudentID: studentID,
	}
}

func TestRegisterStudent(t *testing.T) {
	svc, users, _ := newTestAuthService()

	resp, err := svc.Register(context.Background(), studentInput("nina", "STU-1001"))
	require.NoError(t, err)
	require.NotNil(t, resp.User)

	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, models.RoleStudent, resp.User.Role)
	require.NotNil(t, resp.User.StudentProfile)
	assert.Equal(t, "STU-1001", resp.User.StudentProfile.StudentID)

	stored, err := users.GetByIDWithProfile(context.Background(), resp.User.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.StudentProfile)
	assert.Nil(t, stored.TeacherProfile)
}

func TestRegisterTeacherRequiresEmployeeID(t *testing.T) {
	svc, _, _ := newTestAuthService()

	input := studentInput("marta", "")
	input.Role = models.RoleTeacher
	input.StudentID = ""

	_, err := svc.Register(context.Background(), input)
	assert.ErrorIs(t, err, ErrMissingEmployeeID)
}

func TestRegisterPasswordMismatch(t *testing.T) {
	svc, _, _ := newTestAuthService()

	input := studentInput("nina", "STU-1001")
	input.Password2 = "different12345"

	_, err := svc.Register(context.Background(), input)
	assert.ErrorIs(t, err, ErrPasswordMismatch)
}

func TestRegisterInvalidRole(t *testing.T) {
	svc, _, _ := newTestAuthService()

	input := studentInput("nina", "STU-1001")
	input.Role = "janitor"

	_, err := svc.Register(context.Background(), input)
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc, _, _ := newTestAuthService()

	_, err := svc.Register(context.Background(), studentInput("nina", "STU-1001"))
	require.NoError(t, err)

	input := studentInput("nina", "STU-2002")
	input.Email = "other@campus.local"
	_, err = svc.Register(context.Background(), input)
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestRegisterDuplicateStudentIDLeavesNoUser(t *testing.T) {
	svc, users, _ := newTestAuthService()

	_, err := svc.Register(context.Background(), studentInput("nina", "STU-1001"))
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), studentInput("olaf", "STU-1001"))
	assert.ErrorIs(t, err, ErrStudentIDTaken)

	exists, err := users.ExistsByUsername(context.Background(), "olaf")
	require.NoError(t, err)
	assert.False(t, exists, "failed registration must not leave a user behind")
}

func TestLogin(t *testing.T) {
	svc, users, _ := newTestAuthService()
	mustSeedUser(users, "nina", "secret123456", models.RoleStudent)

	resp, err := svc.Login(context.Background(), &LoginInput{
		Username: "nina",
		Password: "secret123456",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "nina", resp.User.Username)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, users, _ := newTestAuthService()
	mustSeedUser(users, "nina", "secret123456", models.RoleStudent)

	_, err := svc.Login(context.Background(), &LoginInput{
		Username: "nina",
		Password: "wrong-password",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownUser(t *testing.T) {
	svc, _, _ := newTestAuthService()

	_, err := svc.Login(context.Background(), &LoginInput{
		Username: "ghost",
		Password: "secret123456",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshRotation(t *testing.T) {
	svc, users, _ := newTestAuthService()
	mustSeedUser(users, "nina", "secret123456", models.RoleStudent)

	login, err := svc.Login(context.Background(), &LoginInput{
		Username: "nina",
		Password: "secret123456",
	})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	// The presented token was retired during rotation
	_, err = svc.Refresh(context.Background(), login.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)

	// The freshly issued one still works
	_, err = svc.Refresh(context.Background(), refreshed.RefreshToken)
	assert.NoError(t, err)
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	svc, users, _ := newTestAuthService()
	mustSeedUser(users, "nina", "secret123456", models.RoleStudent)

	login, err := svc.Login(context.Background(), &LoginInput{
		Username: "nina",
		Password: "secret123456",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), login.RefreshToken))

	_, err = svc.Refresh(context.Background(), login.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)

	// Logging out twice is harmless
	assert.NoError(t, svc.Logout(context.Background(), login.RefreshToken))
}

func TestRefreshGarbageToken(t *testing.T) {
	svc, _, _ := newTestAuthService()

	_, err := svc.Refresh(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	svc, users, _ := newTestAuthService()
	mustSeedUser(users, "nina", "secret123456", models.RoleStudent)

	login, err := svc.Login(context.Background(), &LoginInput{
		Username: "nina",
		Password: "secret123456",
	})
	require.NoError(t, err)

	// Access tokens are signed with a different secret and must not pass
	_, err = svc.Refresh(context.Background(), login.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateAccessToken(t *testing.T) {
	svc, users, _ := newTestAuthService()
	seeded := mustSeedUser(users, "nina", "secret123456", models.RoleStudent)

	login, err := svc.Login(context.Background(), &LoginInput{
		Username: "nina",
		Password: "secret123456",
	})
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(login.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, claims.UserID)
	assert.Equal(t, "nina", claims.Username)
	assert.Equal(t, models.RoleStudent, claims.Role)
}
