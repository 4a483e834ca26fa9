package user

import (
	"context"
	"testing"

	"FoodBridge-Backend/domain"
	"FoodBridge-Backend/entities"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fakeUserRepository struct {
	users map[string]*entities.User
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{users: make(map[string]*entities.User)}
}

func (f *fakeUserRepository) CreateUser(_ context.Context, user *entities.User) error {
	f.users[user.ID.String()] = user
	return nil
}

func (f *fakeUserRepository) GetUserByID(_ context.Context, id string) (*entities.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (f *fakeUserRepository) GetUserByEmail(_ context.Context, email string) (*entities.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepository) UpdateUser(_ context.Context, user *entities.User) error {
	f.users[user.ID.String()] = user
	return nil
}

type fakeJWTService struct{}

func (fakeJWTService) GenerateTokenUser(userId string, role string) string {
	return "token-" + userId + "-" + role
}

func (fakeJWTService) ValidateTokenUser(string) (*jwt.Token, error) {
	return nil, nil
}

func (fakeJWTService) GetUserIDByToken(string) (string, string, error) {
	return "", "", nil
}

func newTestService() (UserService, *fakeUserRepository) {
	repo := newFakeUserRepository()
	return NewUserService(repo, fakeJWTService{}), repo
}

func TestRegister(t *testing.T) {
	service, repo := newTestService()

	res, err := service.Register(context.Background(), domain.RegisterRequest{
		Name:     "Maya",
		Email:    "maya@example.com",
		Password: "hunter2hunter2",
		Role:     domain.RoleReceiver,
	})

	require.NoError(t, err)
	assert.Equal(t, "Maya", res.Name)

	stored := repo.users[res.ID]
	require.NotNil(t, stored)
	assert.True(t, stored.EmailNotifications)
	// stored password must be a hash, not the plaintext
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("hunter2hunter2")))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()

	req := domain.RegisterRequest{
		Name:     "Maya",
		Email:    "maya@example.com",
		Password: "hunter2hunter2",
		Role:     domain.RoleReceiver,
	}
	_, err := service.Register(ctx, req)
	require.NoError(t, err)

	_, err = service.Register(ctx, req)
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestLogin(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()

	_, err := service.Register(ctx, domain.RegisterRequest{
		Name:     "Maya",
		Email:    "maya@example.com",
		Password: "hunter2hunter2",
		Role:     domain.RoleReceiver,
	})
	require.NoError(t, err)

	res, err := service.Login(ctx, domain.LoginRequest{
		Email:    "maya@example.com",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleReceiver, res.Role)
	assert.NotEmpty(t, res.Token)
}

func TestLoginWrongPassword(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()

	_, err := service.Register(ctx, domain.RegisterRequest{
		Name:     "Maya",
		Email:    "maya@example.com",
		Password: "hunter2hunter2",
		Role:     domain.RoleReceiver,
	})
	require.NoError(t, err)

	_, err = service.Login(ctx, domain.LoginRequest{
		Email:    "maya@example.com",
		Password: "wrong",
	})
	assert.ErrorIs(t, err, domain.ErrCredentialsInvalid)
}

func TestLoginUnknownEmail(t *testing.T) {
	service, _ := newTestService()

	_, err := service.Login(context.Background(), domain.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	assert.ErrorIs(t, err, domain.ErrCredentialsInvalid)
}

func TestLoginBannedUser(t *testing.T) {
	service, repo := newTestService()
	ctx := context.Background()

	res, err := service.Register(ctx, domain.RegisterRequest{
		Name:     "Maya",
		Email:    "maya@example.com",
		Password: "hunter2hunter2",
		Role:     domain.RoleReceiver,
	})
	require.NoError(t, err)
	repo.users[res.ID].IsBanned = true

	_, err = service.Login(ctx, domain.LoginRequest{
		Email:    "maya@example.com",
		Password: "hunter2hunter2",
	})
	assert.ErrorIs(t, err, domain.ErrUserBanned)
}

func TestUpdateProfilePatchesOnlyProvidedFields(t *testing.T) {
	service, repo := newTestService()
	ctx := context.Background()

	res, err := service.Register(ctx, domain.RegisterRequest{
		Name:     "Maya",
		Email:    "maya@example.com",
		Password: "hunter2hunter2",
		Role:     domain.RoleReceiver,
		Phone:    "555-0001",
	})
	require.NoError(t, err)

	bio := "Community kitchen volunteer"
	optOut := false
	updated, err := service.UpdateProfile(ctx, domain.UpdateProfileRequest{
		Bio:                &bio,
		EmailNotifications: &optOut,
	}, res.ID)
	require.NoError(t, err)

	assert.Equal(t, "Maya", updated.Name)
	assert.Equal(t, "555-0001", updated.Phone)
	assert.Equal(t, bio, updated.Bio)
	assert.False(t, updated.EmailNotifications)
	assert.False(t, repo.users[res.ID].EmailNotifications)
}

func TestMeUnknownUser(t *testing.T) {
	service, _ := newTestService()

	_, err := service.Me(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
