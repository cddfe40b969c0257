package registry

import (
	"GuildVerify/internal/core/domain"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T) *memoryRegistry {
	t.Helper()
	nopLogger := zerolog.Nop()
	return NewMemoryRegistry(&nopLogger).(*memoryRegistry)
}

func TestMemoryRegistry_CreateThenResolve(t *testing.T) {
	reg := newTestRegistry(t)

	id, err := reg.Create("Notch", "user-42", "777")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	_, err = uuid.Parse(id)
	assert.NoError(t, err, "request ID should be a UUID")

	req, ok := reg.Resolve(id)
	require.True(t, ok)
	assert.Equal(t, id, req.ID)
	assert.Equal(t, "Notch", req.Username)
	assert.Equal(t, "user-42", req.UserID)
	assert.Equal(t, "777", req.TelegramChatID)
	assert.Equal(t, domain.VerificationPending, req.Status)
	assert.Equal(t, 1, reg.Len())
}

func TestMemoryRegistry_ResolveDoesNotRemove(t *testing.T) {
	reg := newTestRegistry(t)
	id, _ := reg.Create("Notch", "user-42", "777")

	_, first := reg.Resolve(id)
	_, second := reg.Resolve(id)

	assert.True(t, first)
	assert.True(t, second)
	assert.Equal(t, 1, reg.Len())
}

func TestMemoryRegistry_FinalizeRemovesEntry(t *testing.T) {
	testCases := []struct {
		name    string
		outcome domain.VerificationStatus
	}{
		{name: "approved", outcome: domain.VerificationApproved},
		{name: "rejected", outcome: domain.VerificationRejected},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			reg := newTestRegistry(t)
			id, _ := reg.Create("Notch", "user-42", "777")

			req, ok := reg.Finalize(id, tc.outcome)
			require.True(t, ok)
			assert.Equal(t, tc.outcome, req.Status)
			assert.Equal(t, "user-42", req.UserID)

			_, ok = reg.Resolve(id)
			assert.False(t, ok, "resolve after finalize must be absent")

			_, ok = reg.Finalize(id, tc.outcome)
			assert.False(t, ok, "second finalize must be absent")
			assert.Equal(t, 0, reg.Len())
		})
	}
}

func TestMemoryRegistry_FinalizeUnknownID(t *testing.T) {
	reg := newTestRegistry(t)

	req, ok := reg.Finalize("forged-id", domain.VerificationApproved)

	assert.False(t, ok)
	assert.Equal(t, domain.VerificationRequest{}, req)
}

func TestMemoryRegistry_FinalizeRequiresTerminalStatus(t *testing.T) {
	reg := newTestRegistry(t)
	id, err := reg.Create("Notch", "user-42", "777")
	require.NoError(t, err)

	_, ok := reg.Finalize(id, domain.VerificationPending)
	assert.False(t, ok)

	stored, ok := reg.Resolve(id)
	require.True(t, ok, "entry must survive a non-terminal finalize")
	assert.Equal(t, domain.VerificationPending, stored.Status)

	final, ok := reg.Finalize(id, domain.VerificationRejected)
	assert.True(t, ok)
	assert.Equal(t, domain.VerificationRejected, final.Status)
}

func TestMemoryRegistry_ConcurrentFinalizeExactlyOnce(t *testing.T) {
	reg := newTestRegistry(t)
	id, _ := reg.Create("Notch", "user-42", "777")

	const callers = 64
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners int
	)
	start := make(chan struct{})
	for i := 0; i < callers; i++ {
		outcome := domain.VerificationApproved
		if i%2 == 1 {
			outcome = domain.VerificationRejected
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if _, ok := reg.Finalize(id, outcome); ok {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, 1, winners)
	assert.Equal(t, 0, reg.Len())
}

func TestMemoryRegistry_ConcurrentCreateUniqueIDs(t *testing.T) {
	reg := newTestRegistry(t)

	const creators = 200
	ids := make([]string, creators)
	var wg sync.WaitGroup
	for i := 0; i < creators; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id, err := reg.Create("player", "user", "chat")
			assert.NoError(t, err)
			ids[i] = id
		}(i)
	}
	wg.Wait()

	seen := make(map[string]struct{}, creators)
	for _, id := range ids {
		seen[id] = struct{}{}
	}
	assert.Len(t, seen, creators)
	assert.Equal(t, creators, reg.Len())
}

func TestMemoryRegistry_CreateRetriesOnLiveCollision(t *testing.T) {
	reg := newTestRegistry(t)
	fixed := uuid.MustParse("11111111-1111-4111-8111-111111111111")
	fresh := uuid.MustParse("22222222-2222-4222-8222-222222222222")

	calls := 0
	reg.newID = func() (uuid.UUID, error) {
		calls++
		if calls <= 2 {
			return fixed, nil
		}
		return fresh, nil
	}

	first, err := reg.Create("a", "1", "c")
	require.NoError(t, err)
	second, err := reg.Create("b", "2", "c")
	require.NoError(t, err)

	assert.Equal(t, fixed.String(), first)
	assert.Equal(t, fresh.String(), second)
	assert.Equal(t, 3, calls)
}

func TestMemoryRegistry_CreateGeneratorFailure(t *testing.T) {
	reg := newTestRegistry(t)
	reg.newID = func() (uuid.UUID, error) {
		return uuid.Nil, errors.New("entropy exhausted")
	}

	id, err := reg.Create("Notch", "user-42", "777")

	assert.Error(t, err)
	assert.Empty(t, id)
	assert.Equal(t, 0, reg.Len())
}

func TestMemoryRegistry_Expire(t *testing.T) {
	reg := newTestRegistry(t)
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	reg.now = func() time.Time { return base }
	oldID, _ := reg.Create("old", "1", "c")
	reg.now = func() time.Time { return base.Add(time.Hour) }
	newID, _ := reg.Create("new", "2", "c")

	expired := reg.Expire(base.Add(30 * time.Minute))

	require.Len(t, expired, 1)
	assert.Equal(t, oldID, expired[0].ID)
	_, ok := reg.Resolve(oldID)
	assert.False(t, ok)
	_, ok = reg.Resolve(newID)
	assert.True(t, ok)
}
