package users

import (
	"context"
	"testing"

	"commute-watch/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepo struct {
	byEmail map[string]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{byEmail: map[string]*models.User{}}
	for _, u := range users {
		r.byEmail[u.Email] = u
	}
	return r
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, models.ErrNotFound
}

func (f *fakeUserRepo) Create(ctx context.Context, email, passwordHash string) (*models.User, error) {
	u := &models.User{ID: "user-" + email, Email: email, PasswordHash: passwordHash}
	f.byEmail[email] = u
	return u, nil
}

func hashed(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestSignup_IssuesToken(t *testing.T) {
	repo := newFakeUserRepo()
	s := NewService(repo, nil, nil, "test-secret", "http://localhost:5173")

	resp, err := s.Signup(context.Background(), models.SignupRequest{Email: "a@example.com", Password: "hunter22"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.AccessToken)
	require.Empty(t, resp.User.PasswordHash)

	claims := &models.JwtCustomClaims{}
	_, err = jwt.ParseWithClaims(resp.AccessToken, claims, func(_ *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	require.Equal(t, resp.User.ID, claims.UserID)
	require.Equal(t, "a@example.com", claims.Email)
}

func TestSignup_DuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo(&models.User{ID: "user-1", Email: "a@example.com"})
	s := NewService(repo, nil, nil, "test-secret", "")

	_, err := s.Signup(context.Background(), models.SignupRequest{Email: "a@example.com", Password: "hunter22"})
	require.ErrorIs(t, err, models.ErrConflict)
}

func TestLogin(t *testing.T) {
	// A fresh repo per subtest: a successful login blanks the stored hash on
	// the response user, which shares the fake's pointer.
	newService := func() ServiceInterface {
		repo := newFakeUserRepo(&models.User{ID: "user-1", Email: "a@example.com", PasswordHash: hashed(t, "hunter22")})
		return NewService(repo, nil, nil, "test-secret", "")
	}

	t.Run("valid credentials", func(t *testing.T) {
		resp, err := newService().Login(context.Background(), models.LoginRequest{Email: "a@example.com", Password: "hunter22"})
		require.NoError(t, err)
		require.NotEmpty(t, resp.AccessToken)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := newService().Login(context.Background(), models.LoginRequest{Email: "a@example.com", Password: "wrong"})
		require.ErrorIs(t, err, models.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := newService().Login(context.Background(), models.LoginRequest{Email: "b@example.com", Password: "hunter22"})
		require.ErrorIs(t, err, models.ErrInvalidCredentials)
	})
}
