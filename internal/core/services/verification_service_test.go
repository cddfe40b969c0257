package services

import (
	"GuildVerify/internal/adapters/registry"
	"GuildVerify/internal/core/domain"
	"GuildVerify/internal/core/ports"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mocks ---

type MockGuildRepository struct {
	mock.Mock
}

var _ ports.GuildRepository = (*MockGuildRepository)(nil)

func (m *MockGuildRepository) ListAll(ctx context.Context) ([]domain.Guild, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Guild), args.Error(1)
}
func (m *MockGuildRepository) UpdateStatus(ctx context.Context, userID, status string) error {
	args := m.Called(ctx, userID, status)
	return args.Error(0)
}

type MockIdentityLookup struct {
	mock.Mock
}

func (m *MockIdentityLookup) Lookup(ctx context.Context, username string) (*domain.Profile, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Send(ctx context.Context, req domain.VerificationRequest) (int, error) {
	args := m.Called(ctx, req)
	return args.Int(0), args.Error(1)
}

type fixture struct {
	svc      VerificationService
	guilds   *MockGuildRepository
	identity *MockIdentityLookup
	notifier *MockNotifier
	registry ports.VerificationRegistry
}

func newFixture() *fixture {
	nopLogger := zerolog.Nop()
	f := &fixture{
		guilds:   new(MockGuildRepository),
		identity: new(MockIdentityLookup),
		notifier: new(MockNotifier),
		registry: registry.NewMemoryRegistry(&nopLogger),
	}
	f.svc = NewVerificationService(f.guilds, f.identity, f.registry, f.notifier, &nopLogger)
	return f
}

// --- Tests ---

func TestListGuilds(t *testing.T) {
	f := newFixture()
	want := []domain.Guild{{ID: "g1", Name: "Alpha"}}
	f.guilds.On("ListAll", mock.Anything).Return(want, nil).Once()

	got, err := f.svc.ListGuilds(context.Background())

	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestListGuilds_EmptyIsNotNil(t *testing.T) {
	f := newFixture()
	f.guilds.On("ListAll", mock.Anything).Return(nil, nil).Once()

	got, err := f.svc.ListGuilds(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestListGuilds_StoreFailure(t *testing.T) {
	f := newFixture()
	f.guilds.On("ListAll", mock.Anything).Return(nil, errors.New("connection refused")).Once()

	_, err := f.svc.ListGuilds(context.Background())

	assert.ErrorIs(t, err, domain.ErrUpstream)
}

func TestCheckUsername_EmptyIsValidationError(t *testing.T) {
	for _, username := range []string{"", "   "} {
		f := newFixture()

		profile, err := f.svc.CheckUsername(context.Background(), username)

		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.Nil(t, profile)
		f.identity.AssertNotCalled(t, "Lookup", mock.Anything, mock.Anything)
	}
}

func TestCheckUsername_Outcomes(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		f := newFixture()
		f.identity.On("Lookup", mock.Anything, "Ghost").Return(nil, nil).Once()

		profile, err := f.svc.CheckUsername(context.Background(), "Ghost")

		require.NoError(t, err)
		assert.Nil(t, profile)
	})

	t.Run("found", func(t *testing.T) {
		f := newFixture()
		want := &domain.Profile{UUID: "069a79f4", Username: "Notch"}
		f.identity.On("Lookup", mock.Anything, "notch").Return(want, nil).Once()

		profile, err := f.svc.CheckUsername(context.Background(), " notch ")

		require.NoError(t, err)
		assert.Equal(t, want, profile)
	})

	t.Run("upstream failure", func(t *testing.T) {
		f := newFixture()
		f.identity.On("Lookup", mock.Anything, "Notch").Return(nil, errors.New("timeout")).Once()

		profile, err := f.svc.CheckUsername(context.Background(), "Notch")

		assert.ErrorIs(t, err, domain.ErrUpstream)
		assert.NotErrorIs(t, err, domain.ErrNotFound)
		assert.Nil(t, profile)
	})
}

func TestRequestVerification_Success(t *testing.T) {
	f := newFixture()
	f.notifier.On("Send", mock.Anything, mock.MatchedBy(func(req domain.VerificationRequest) bool {
		return req.Username == "Notch" && req.UserID == "user-42" && req.Status == domain.VerificationPending
	})).Return(10, nil).Once()

	id, err := f.svc.RequestVerification(context.Background(), "Notch", "user-42", "777")

	require.NoError(t, err)
	req, ok := f.registry.Resolve(id)
	require.True(t, ok)
	assert.Equal(t, "777", req.TelegramChatID)
	f.notifier.AssertExpectations(t)
}

func TestRequestVerification_MissingFields(t *testing.T) {
	testCases := []struct {
		name     string
		username string
		userID   string
		chatID   string
		field    string
	}{
		{name: "username omitted", userID: "user-42", chatID: "777", field: "username"},
		{name: "userId omitted", username: "Notch", chatID: "777", field: "userId"},
		{name: "telegramChatId omitted", username: "Notch", userID: "user-42", field: "telegramChatId"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()

			_, err := f.svc.RequestVerification(context.Background(), tc.username, tc.userID, tc.chatID)

			var vErr *domain.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tc.field, vErr.Field)
			assert.Equal(t, 0, f.registry.Len(), "no registry entry may be created")
			f.notifier.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
		})
	}
}

func TestRequestVerification_NotifyFailureWithdrawsRequest(t *testing.T) {
	f := newFixture()
	f.notifier.On("Send", mock.Anything, mock.Anything).Return(0, errors.New("bot blocked")).Once()

	id, err := f.svc.RequestVerification(context.Background(), "Notch", "user-42", "777")

	assert.ErrorIs(t, err, domain.ErrUpstream)
	assert.Empty(t, id)
	assert.Equal(t, 0, f.registry.Len())
}
