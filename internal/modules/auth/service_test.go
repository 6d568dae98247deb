package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"roomledger/internal/domain"
	"roomledger/internal/repository"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	if u != nil {
		u.ID = 42
	}
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type fakeJWT struct{}

func (fakeJWT) GenerateToken(userID int64, address, role string) (string, error) {
	return "token-" + address, nil
}

func TestRegisterMintsAddress(t *testing.T) {
	users := new(MockUserRepository)
	users.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil).Once()

	svc := NewService(users, fakeJWT{})

	u, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "User@Example.com",
		Password: "secret-password",
		Name:     "User",
	})
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", u.Email)
	assert.NotEmpty(t, u.Address)
	assert.Equal(t, domain.RoleClient, u.Role)
	assert.NotEqual(t, "secret-password", u.PasswordHash)
	users.AssertExpectations(t)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	users := new(MockUserRepository)
	users.On("Create", mock.Anything, mock.Anything).Return(repository.ErrDuplicateEmail).Once()

	svc := NewService(users, fakeJWT{})

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "user@example.com",
		Password: "secret-password",
		Name:     "User",
	})
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestRegisterShortPassword(t *testing.T) {
	svc := NewService(new(MockUserRepository), fakeJWT{})

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "user@example.com",
		Password: "short",
		Name:     "User",
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestLoginSuccess(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret-password"), bcrypt.DefaultCost)
	require.NoError(t, err)

	users := new(MockUserRepository)
	users.On("GetByEmail", mock.Anything, "user@example.com").Return(&domain.User{
		ID:           7,
		Email:        "user@example.com",
		PasswordHash: string(hash),
		Address:      "addr-7",
		Role:         domain.RoleClient,
	}, nil).Once()

	svc := NewService(users, fakeJWT{})

	res, err := svc.Login(context.Background(), LoginRequest{Email: "user@example.com", Password: "secret-password"})
	require.NoError(t, err)
	assert.Equal(t, "token-addr-7", res.AccessToken)
	assert.Equal(t, "addr-7", res.User.Address)
}

func TestLoginWrongPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret-password"), bcrypt.DefaultCost)
	require.NoError(t, err)

	users := new(MockUserRepository)
	users.On("GetByEmail", mock.Anything, "user@example.com").Return(&domain.User{
		Email:        "user@example.com",
		PasswordHash: string(hash),
	}, nil).Once()

	svc := NewService(users, fakeJWT{})

	_, err = svc.Login(context.Background(), LoginRequest{Email: "user@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	users := new(MockUserRepository)
	users.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, gorm.ErrRecordNotFound).Once()

	svc := NewService(users, fakeJWT{})

	_, err := svc.Login(context.Background(), LoginRequest{Email: "ghost@example.com", Password: "whatever"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
