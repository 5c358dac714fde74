package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Jotadose/palelu-app/internal/dto"
	"github.com/Jotadose/palelu-app/internal/model"
	"github.com/Jotadose/palelu-app/internal/repository"
	"github.com/Jotadose/palelu-app/internal/service"
)

type stubUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newStubUserRepo(users ...*model.User) *stubUserRepo {
	r := &stubUserRepo{users: make(map[uuid.UUID]*model.User)}
	for _, u := range users {
		if u.ID == uuid.Nil {
			u.ID = uuid.New()
		}
		r.users[u.ID] = u
	}
	return r
}

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email && u.Active {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *stubUserRepo) List(_ context.Context) ([]model.User, error) {
	var out []model.User
	for _, u := range r.users {
		if u.Active {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *stubUserRepo) ListAll(_ context.Context) ([]model.User, error) {
	var out []model.User
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, u *model.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if u, ok := r.users[id]; ok {
		u.Active = false
	}
	return nil
}

func (r *stubUserRepo) Reactivate(_ context.Context, id uuid.UUID) error {
	if u, ok := r.users[id]; ok {
		u.Active = true
	}
	return nil
}

var _ repository.UserRepository = (*stubUserRepo)(nil)

func seededUser(t *testing.T, email, password, role string) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &model.User{
		Email:        email,
		Name:         "Test User",
		PasswordHash: string(hash),
		Role:         role,
		Active:       true,
	}
}

func TestLogin(t *testing.T) {
	user := seededUser(t, "vendedor@palelu.app", "secreta1", model.RoleSeller)
	svc := service.NewAuthService(newStubUserRepo(user), "test-secret", 1, 24)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{
		Email:    "vendedor@palelu.app",
		Password: "secreta1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, model.RoleSeller, resp.User.Role)

	_, err = svc.Login(context.Background(), dto.LoginRequest{
		Email:    "vendedor@palelu.app",
		Password: "equivocada",
	})
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), dto.LoginRequest{
		Email:    "nadie@palelu.app",
		Password: "secreta1",
	})
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestRefresh_RejectsAccessToken(t *testing.T) {
	user := seededUser(t, "admin@palelu.app", "secreta1", model.RoleAdmin)
	svc := service.NewAuthService(newStubUserRepo(user), "test-secret", 1, 24)

	login, err := svc.Login(context.Background(), dto.LoginRequest{
		Email:    "admin@palelu.app",
		Password: "secreta1",
	})
	require.NoError(t, err)

	// Only a refresh token can mint a new pair.
	_, err = svc.Refresh(context.Background(), dto.RefreshRequest{RefreshToken: login.AccessToken})
	assert.ErrorIs(t, err, service.ErrInvalidToken)

	resp, err := svc.Refresh(context.Background(), dto.RefreshRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
}

func TestCreateUser_HashesPasswordAndRejectsDuplicates(t *testing.T) {
	repo := newStubUserRepo()
	svc := service.NewAuthService(repo, "test-secret", 1, 24)

	resp, err := svc.CreateUser(context.Background(), dto.CreateUserRequest{
		Email:    "nuevo@palelu.app",
		Name:     "Nuevo Vendedor",
		Password: "secreta1",
		Role:     model.RoleSeller,
	})
	require.NoError(t, err)

	created, err := repo.FindByEmail(context.Background(), "nuevo@palelu.app")
	require.NoError(t, err)
	assert.NotEqual(t, "secreta1", created.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("secreta1")))
	assert.True(t, resp.Active)

	_, err = svc.CreateUser(context.Background(), dto.CreateUserRequest{
		Email:    "nuevo@palelu.app",
		Name:     "Otro",
		Password: "secreta2",
		Role:     model.RoleSeller,
	})
	assert.ErrorIs(t, err, service.ErrEmailTaken)
}

func TestDeactivatedUserCannotLogin(t *testing.T) {
	user := seededUser(t, "baja@palelu.app", "secreta1", model.RoleSeller)
	repo := newStubUserRepo(user)
	svc := service.NewAuthService(repo, "test-secret", 1, 24)

	require.NoError(t, svc.DeactivateUser(context.Background(), user.ID))

	_, err := svc.Login(context.Background(), dto.LoginRequest{
		Email:    "baja@palelu.app",
		Password: "secreta1",
	})
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}
