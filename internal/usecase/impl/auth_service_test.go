package impl

import (
	"context"
	"sync"
	"testing"

	"identity/config"
	"identity/internal/infra/auth"
	"identity/internal/usecase"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authServiceFixtures struct {
	service  usecase.AuthUsecase
	userRepo *fakeUserRepo
}

func createTestAuthService(t *testing.T) authServiceFixtures {
	t.Helper()

	cfg := &config.Config{}
	cfg.JWT = &config.JWTConfig{
		Secret:            "test_signing_secret_key_very_long_for_testing",
		Issuer:            "identity-test",
		Audience:          "identity-clients",
		ExpirationMinutes: 60,
	}

	tokenSvc, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	userRepo := newFakeUserRepo()
	service := NewAuthService(AuthServiceParams{
		UserRepo: userRepo,
		Hasher:   auth.NewHMACHasher(),
		TokenSvc: tokenSvc,
		Logger:   newDiscardLogger(),
	})

	return authServiceFixtures{service: service, userRepo: userRepo}
}

func registerInput() *usecase.RegisterInput {
	return &usecase.RegisterInput{
		Username:  "alice",
		Email:     "alice@example.com",
		Password:  "Password123!",
		FirstName: "Alice",
		LastName:  "Liddell",
	}
}

func TestAuthService_Register_Success(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	result, err := fx.service.Register(ctx, registerInput())
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, "User registered successfully", result.Message)
	assert.NotEmpty(t, result.Token)
	require.NotNil(t, result.User)
	assert.Equal(t, "alice", result.User.Username)
	assert.Equal(t, "alice@example.com", result.User.Email)
	assert.Equal(t, "USER", result.User.Role.String())

	stored := fx.userRepo.byUsername("alice")
	require.NotNil(t, stored)
	assert.Len(t, stored.PasswordHash, auth.HashLength)
	assert.Len(t, stored.PasswordSalt, auth.SaltLength)
	assert.False(t, stored.CreatedAt.IsZero())
	assert.Nil(t, stored.LastLoginAt)
}

func TestAuthService_Register_DuplicateUsername(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	_, err := fx.service.Register(ctx, registerInput())
	require.NoError(t, err)

	second := registerInput()
	second.Email = "other@example.com"
	result, err := fx.service.Register(ctx, second)
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, "Username already exists", result.Message)
	assert.Empty(t, result.Token)
	assert.Nil(t, result.User)
	assert.Equal(t, 1, fx.userRepo.count())
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	_, err := fx.service.Register(ctx, registerInput())
	require.NoError(t, err)

	second := registerInput()
	second.Username = "bob"
	result, err := fx.service.Register(ctx, second)
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, "Email already exists", result.Message)
	assert.Equal(t, 1, fx.userRepo.count())
}

func TestAuthService_Register_InsertRaceMapsToBusinessFailure(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	_, err := fx.service.Register(ctx, registerInput())
	require.NoError(t, err)

	// Make the advisory pre-checks blind so the second attempt reaches the
	// store's uniqueness constraint, as a concurrent registration would.
	fx.userRepo.skipExists = true

	result, err := fx.service.Register(ctx, registerInput())
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "Username already exists", result.Message)
	assert.Equal(t, 1, fx.userRepo.count())
}

func TestAuthService_Register_StoreFailurePropagates(t *testing.T) {
	fx := createTestAuthService(t)
	fx.userRepo.failInsert = errors.New("connection reset")

	result, err := fx.service.Register(context.Background(), registerInput())
	require.Error(t, err)
	assert.Nil(t, result)
}

func TestAuthService_Register_Concurrent_ExactlyOneSucceeds(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	const attempts = 8

	var wg sync.WaitGroup
	results := make([]*usecase.AuthResult, attempts)
	for i := range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := fx.service.Register(ctx, registerInput())
			assert.NoError(t, err)
			results[i] = result
		}()
	}
	wg.Wait()

	successes := 0
	for _, result := range results {
		require.NotNil(t, result)
		if result.Success {
			successes++
		} else {
			assert.Contains(t, []string{"Username already exists", "Email already exists"}, result.Message)
		}
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, fx.userRepo.count())
}

func TestAuthService_Login_Success(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	registered, err := fx.service.Register(ctx, registerInput())
	require.NoError(t, err)
	require.True(t, registered.Success)

	result, err := fx.service.Login(ctx, &usecase.LoginInput{Username: "alice", Password: "Password123!"})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, "Login successful", result.Message)
	assert.NotEmpty(t, result.Token)
	require.NotNil(t, result.User)
	assert.Equal(t, registered.User.ID, result.User.ID)

	stored := fx.userRepo.byUsername("alice")
	require.NotNil(t, stored)
	require.NotNil(t, stored.LastLoginAt)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	_, err := fx.service.Register(ctx, registerInput())
	require.NoError(t, err)

	result, err := fx.service.Login(ctx, &usecase.LoginInput{Username: "alice", Password: "WrongPassword!"})
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, "Invalid username or password", result.Message)
	assert.Empty(t, result.Token)
	assert.Nil(t, result.User)

	stored := fx.userRepo.byUsername("alice")
	require.NotNil(t, stored)
	assert.Nil(t, stored.LastLoginAt)
}

func TestAuthService_Login_UnknownUsernameIndistinguishable(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	_, err := fx.service.Register(ctx, registerInput())
	require.NoError(t, err)

	wrongPassword, err := fx.service.Login(ctx, &usecase.LoginInput{Username: "alice", Password: "WrongPassword!"})
	require.NoError(t, err)

	unknownUser, err := fx.service.Login(ctx, &usecase.LoginInput{Username: "nobody", Password: "WrongPassword!"})
	require.NoError(t, err)

	// Both failure paths produce byte-identical results so responses cannot
	// be used to enumerate usernames.
	assert.Equal(t, wrongPassword, unknownUser)
}

func TestAuthService_Login_RepeatedFailuresAreStable(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	first, err := fx.service.Login(ctx, &usecase.LoginInput{Username: "ghost", Password: "nope"})
	require.NoError(t, err)
	second, err := fx.service.Login(ctx, &usecase.LoginInput{Username: "ghost", Password: "nope"})
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAuthService_Login_UpdateFailurePropagates(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	_, err := fx.service.Register(ctx, registerInput())
	require.NoError(t, err)

	fx.userRepo.failUpdate = errors.New("connection reset")

	result, err := fx.service.Login(ctx, &usecase.LoginInput{Username: "alice", Password: "Password123!"})
	require.Error(t, err)
	assert.Nil(t, result)
}

func TestAuthService_Register_TokenClaimsMatchAccount(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	result, err := fx.service.Register(ctx, registerInput())
	require.NoError(t, err)
	require.True(t, result.Success)

	cfg := &config.Config{}
	cfg.JWT = &config.JWTConfig{
		Secret:            "test_signing_secret_key_very_long_for_testing",
		Issuer:            "identity-test",
		Audience:          "identity-clients",
		ExpirationMinutes: 60,
	}
	tokenSvc, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	claims, err := tokenSvc.Validate(result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, claims.UserID)
	assert.Equal(t, result.User.Username, claims.Username)
	assert.Equal(t, result.User.Email, claims.Email)
	assert.Equal(t, result.User.Role, claims.Role)
}
