package services

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/nimasrn/bizledger/internal/model"
	"github.com/nimasrn/bizledger/internal/repository"
	"github.com/nimasrn/bizledger/pkg/pg"
	"github.com/nimasrn/bizledger/pkg/token"
	"github.com/nimasrn/bizledger/test/fixtures"
	"github.com/nimasrn/bizledger/test/helpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testLoginWindow = 15 * time.Minute

type authFixture struct {
	svc    *AuthService
	db     *pg.DB
	mr     *miniredis.Miniredis
	issuer *token.Issuer
}

func setupAuthService(t *testing.T, maxAttempts int) authFixture {
	db := helpers.SetupTestDB(t)
	mr, store := helpers.SetupTestRedis(t)
	issuer := token.NewIssuer("test-secret", time.Hour)

	svc := NewAuthService(
		repository.NewUserRepository(db),
		issuer,
		NewLoginThrottle(store, maxAttempts, testLoginWindow),
	).WithBcryptCost(bcrypt.MinCost)

	return authFixture{svc: svc, db: db, mr: mr, issuer: issuer}
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()
	f := setupAuthService(t, 5)

	res, err := f.svc.Register(ctx, fixtures.NewTestRegisterRequest("Jane", "  Jane@Example.COM "))
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "jane@example.com", res.User.Email)
	assert.Equal(t, "Jane", res.User.Name)

	id, err := f.issuer.Verify(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.UserID, id)

	t.Run("duplicate email in any case", func(t *testing.T) {
		_, err := f.svc.Register(ctx, fixtures.NewTestRegisterRequest("Other", "JANE@example.com"))
		assert.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("invalid input", func(t *testing.T) {
		_, err := f.svc.Register(ctx, model.RegisterRequest{Name: "", Email: "nope", Password: "123"})
		var ve *model.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Len(t, ve.Fields, 3)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	f := setupAuthService(t, 5)
	user := helpers.CreateTestUser(t, f.db, fixtures.TestUserEmail, fixtures.TestUserPassword)

	t.Run("success", func(t *testing.T) {
		res, err := f.svc.Login(ctx, model.LoginRequest{Email: "OWNER@example.com", Password: fixtures.TestUserPassword})
		require.NoError(t, err)
		assert.Equal(t, user.ID, res.User.UserID)
	})

	t.Run("wrong password and unknown email look the same", func(t *testing.T) {
		_, err := f.svc.Login(ctx, model.LoginRequest{Email: fixtures.TestUserEmail, Password: "wrong-pass"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)

		_, err = f.svc.Login(ctx, model.LoginRequest{Email: "ghost@example.com", Password: "whatever"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("inactive user", func(t *testing.T) {
		inactive := helpers.CreateTestUser(t, f.db, "inactive@example.com", fixtures.TestUserPassword)
		require.NoError(t, f.db.Write(ctx).Model(inactive).Update("is_active", false).Error)

		_, err := f.svc.Login(ctx, model.LoginRequest{Email: "inactive@example.com", Password: fixtures.TestUserPassword})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("missing password", func(t *testing.T) {
		_, err := f.svc.Login(ctx, model.LoginRequest{Email: fixtures.TestUserEmail})
		var ve *model.ValidationError
		assert.ErrorAs(t, err, &ve)
	})
}

func TestAuthService_LoginThrottle(t *testing.T) {
	ctx := context.Background()
	f := setupAuthService(t, 3)
	helpers.CreateTestUser(t, f.db, fixtures.TestUserEmail, fixtures.TestUserPassword)

	bad := model.LoginRequest{Email: fixtures.TestUserEmail, Password: "wrong-pass"}
	good := model.LoginRequest{Email: fixtures.TestUserEmail, Password: fixtures.TestUserPassword}

	for i := 0; i < 3; i++ {
		_, err := f.svc.Login(ctx, bad)
		require.ErrorIs(t, err, ErrInvalidCredentials)
	}

	_, err := f.svc.Login(ctx, good)
	assert.ErrorIs(t, err, ErrTooManyAttempts)

	f.mr.FastForward(testLoginWindow + time.Second)

	_, err = f.svc.Login(ctx, good)
	require.NoError(t, err)
	assert.False(t, f.mr.Exists(loginFailKeyPrefix+fixtures.TestUserEmail))
}

func TestAuthService_LoginSucceedsResetCounter(t *testing.T) {
	ctx := context.Background()
	f := setupAuthService(t, 3)
	helpers.CreateTestUser(t, f.db, fixtures.TestUserEmail, fixtures.TestUserPassword)

	_, err := f.svc.Login(ctx, model.LoginRequest{Email: fixtures.TestUserEmail, Password: "wrong-pass"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
	assert.True(t, f.mr.Exists(loginFailKeyPrefix+fixtures.TestUserEmail))

	_, err = f.svc.Login(ctx, model.LoginRequest{Email: fixtures.TestUserEmail, Password: fixtures.TestUserPassword})
	require.NoError(t, err)
	assert.False(t, f.mr.Exists(loginFailKeyPrefix+fixtures.TestUserEmail))
}

func TestAuthService_ThrottleFailsOpen(t *testing.T) {
	ctx := context.Background()
	f := setupAuthService(t, 1)
	helpers.CreateTestUser(t, f.db, fixtures.TestUserEmail, fixtures.TestUserPassword)

	f.mr.Close()

	_, err := f.svc.Login(ctx, model.LoginRequest{Email: fixtures.TestUserEmail, Password: "wrong-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.svc.Login(ctx, model.LoginRequest{Email: fixtures.TestUserEmail, Password: fixtures.TestUserPassword})
	assert.NoError(t, err)
}

func TestAuthService_Authenticate(t *testing.T) {
	ctx := context.Background()
	f := setupAuthService(t, 5)
	user := helpers.CreateTestUser(t, f.db, fixtures.TestUserEmail, fixtures.TestUserPassword)

	t.Run("valid token", func(t *testing.T) {
		raw, err := f.issuer.Issue(user.ID)
		require.NoError(t, err)

		identity, err := f.svc.Authenticate(ctx, raw)
		require.NoError(t, err)
		assert.Equal(t, user.ID, identity.UserID)
		assert.Equal(t, fixtures.TestUserEmail, identity.Email)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := f.svc.Authenticate(ctx, "not-a-token")
		assert.ErrorIs(t, err, ErrNotAuthorized)
	})

	t.Run("token for a deleted user", func(t *testing.T) {
		raw, err := f.issuer.Issue(uuid.New())
		require.NoError(t, err)

		_, err = f.svc.Authenticate(ctx, raw)
		assert.ErrorIs(t, err, ErrNotAuthorized)
	})

	t.Run("inactive user", func(t *testing.T) {
		require.NoError(t, f.db.Write(ctx).Model(user).Update("is_active", false).Error)
		raw, err := f.issuer.Issue(user.ID)
		require.NoError(t, err)

		_, err = f.svc.Authenticate(ctx, raw)
		assert.ErrorIs(t, err, ErrNotAuthorized)
	})
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func TestHealthService_Check(t *testing.T) {
	svc := NewHealthService(map[string]Pinger{
		"database": stubPinger{},
		"redis":    stubPinger{err: assert.AnError},
	})

	status, healthy := svc.Check(context.Background())
	assert.False(t, healthy)
	assert.Equal(t, "ok", status["database"])
	assert.Equal(t, assert.AnError.Error(), status["redis"])
}
