package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/LiuTengYing/AI-Support-Widget/internal/models"
)

type fakeUsageStore struct {
	mu         sync.Mutex
	counts     map[int64]int
	countErr   error
	incrErr    error
	increments int
}

func newFakeUsageStore() *fakeUsageStore {
	return &fakeUsageStore{counts: make(map[int64]int)}
}

func (f *fakeUsageStore) TodayCount(ctx context.Context, userID int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.countErr != nil {
		return 0, f.countErr
	}
	return f.counts[userID], nil
}

func (f *fakeUsageStore) Increment(ctx context.Context, userID int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.incrErr != nil {
		return 0, f.incrErr
	}
	f.increments++
	f.counts[userID]++
	return f.counts[userID], nil
}

func (f *fakeUsageStore) Stats(ctx context.Context, period string) (*models.UsageStats, error) {
	return &models.UsageStats{Period: period}, nil
}

func (f *fakeUsageStore) DeleteOlderThan(ctx context.Context, days int) (int64, error) {
	return 0, nil
}

func TestCheckAndConsumeDeniesAtLimit(t *testing.T) {
	store := newFakeUsageStore()
	store.counts[1] = 3
	ledger := NewUsageLedger(store, zap.NewNop())

	decision := ledger.CheckAndConsume(context.Background(), 1, 3, false)
	if decision.Allowed {
		t.Error("Expected denial at the daily limit")
	}
	if store.increments != 0 {
		t.Errorf("A denied request must not consume quota, got %d increments", store.increments)
	}
}

func TestCheckAndConsumeAllowsUnderLimit(t *testing.T) {
	store := newFakeUsageStore()
	ledger := NewUsageLedger(store, zap.NewNop())

	decision := ledger.CheckAndConsume(context.Background(), 1, 3, false)
	if !decision.Allowed {
		t.Error("Expected the first request of the day to be allowed")
	}
	if decision.Count != 1 {
		t.Errorf("Expected count 1 after consuming, got %d", decision.Count)
	}
}

func TestCheckAndConsumeFloorsLimitToOne(t *testing.T) {
	store := newFakeUsageStore()
	ledger := NewUsageLedger(store, zap.NewNop())

	// Limit zero behaves as limit one: first request passes, second is denied.
	first := ledger.CheckAndConsume(context.Background(), 1, 0, false)
	if !first.Allowed {
		t.Error("Expected the first request to pass with a zero limit")
	}
	second := ledger.CheckAndConsume(context.Background(), 1, 0, false)
	if second.Allowed {
		t.Error("Expected the second request to be denied with a zero limit")
	}
}

func TestCheckAndConsumePrivilegedBypassesButIsCounted(t *testing.T) {
	store := newFakeUsageStore()
	store.counts[1] = 10
	ledger := NewUsageLedger(store, zap.NewNop())

	decision := ledger.CheckAndConsume(context.Background(), 1, 3, true)
	if !decision.Allowed {
		t.Error("Expected privileged user to bypass the limit")
	}
	if store.counts[1] != 11 {
		t.Errorf("Privileged usage must still be counted, got %d", store.counts[1])
	}
}

func TestCheckAndConsumeDegradesOnStoreErrors(t *testing.T) {
	store := newFakeUsageStore()
	store.countErr = errors.New("db down")
	ledger := NewUsageLedger(store, zap.NewNop())

	if decision := ledger.CheckAndConsume(context.Background(), 1, 3, false); !decision.Allowed {
		t.Error("Expected allow when the count lookup fails")
	}

	store.countErr = nil
	store.incrErr = errors.New("db down")
	if decision := ledger.CheckAndConsume(context.Background(), 1, 3, false); !decision.Allowed {
		t.Error("Expected allow when the increment fails")
	}
}

func TestCheckAndConsumeConcurrent(t *testing.T) {
	store := newFakeUsageStore()
	ledger := NewUsageLedger(store, zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ledger.CheckAndConsume(context.Background(), 1, 100, false)
		}()
	}
	wg.Wait()

	if store.counts[1] != 20 {
		t.Errorf("Expected 20 recorded requests, got %d", store.counts[1])
	}
}
