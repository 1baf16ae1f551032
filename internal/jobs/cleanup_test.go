package jobs

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/shegergsm/lookup-gateway/internal/model"
)

type mockAdminSessionRepo struct {
	deleteExpiredCalls atomic.Int64
}

func (m *mockAdminSessionRepo) Create(ctx context.Context, params model.CreateAdminSessionParams) (*model.AdminSession, error) {
	return nil, nil
}

func (m *mockAdminSessionRepo) FindByTokenHash(ctx context.Context, tokenHash string) (*model.AdminSession, error) {
	return nil, nil
}

func (m *mockAdminSessionRepo) DeleteByTokenHash(ctx context.Context, tokenHash string) error {
	return nil
}

func (m *mockAdminSessionRepo) DeleteExpired(ctx context.Context) (int64, error) {
	m.deleteExpiredCalls.Add(1)
	return 2, nil
}

func TestCleanupJob(t *testing.T) {
	t.Run("runs cleanup immediately on start", func(t *testing.T) {
		repo := &mockAdminSessionRepo{}
		job := NewCleanupJob(repo, time.Hour)

		job.Start()
		defer job.Stop()

		assert.Eventually(t, func() bool {
			return repo.deleteExpiredCalls.Load() >= 1
		}, time.Second, 10*time.Millisecond)
	})

	t.Run("stop terminates the loop", func(t *testing.T) {
		repo := &mockAdminSessionRepo{}
		job := NewCleanupJob(repo, 10*time.Millisecond)

		job.Start()
		time.Sleep(50 * time.Millisecond)
		job.Stop()

		countAtStop := repo.deleteExpiredCalls.Load()
		time.Sleep(50 * time.Millisecond)
		assert.Equal(t, countAtStop, repo.deleteExpiredCalls.Load())
	})
}
