package recommend

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// blockingProvider parks every Embed call until release is closed.
type blockingProvider struct {
	release chan struct{}
	vec     []float64
	calls   int32
}

func (p *blockingProvider) Embed(ctx context.Context, text string) ([]float64, error) {
	atomic.AddInt32(&p.calls, 1)
	<-p.release
	return p.vec, nil
}

func TestEmbeddingCache_RoundTrip(t *testing.T) {
	t.Parallel()

	provider := &mockEmbeddingProvider{vectors: map[string][]float64{
		"course: advanced python": {0.1, 0.2, 0.3, 0.4},
	}}
	cache := NewEmbeddingCache(provider, testDim, time.Second)

	first, err := cache.Get(context.Background(), "Course: Advanced Python")
	if err != nil {
		t.Fatalf("first Get() error = %v", err)
	}
	second, err := cache.Get(context.Background(), "  course: ADVANCED python  ")
	if err != nil {
		t.Fatalf("second Get() error = %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("vectors differ: %v vs %v", first, second)
	}
	if got := atomic.LoadInt32(&provider.calls); got != 1 {
		t.Errorf("provider calls = %d, want 1", got)
	}
	if cache.Len() != 1 {
		t.Errorf("Len() = %d, want 1", cache.Len())
	}
}

func TestEmbeddingCache_SingleFlight(t *testing.T) {
	t.Parallel()

	provider := &blockingProvider{
		release: make(chan struct{}),
		vec:     []float64{1, 0, 0, 0},
	}
	cache := NewEmbeddingCache(provider, testDim, time.Second)

	const callers = 10
	var wg sync.WaitGroup
	errs := make([]error, callers)
	vecs := make([][]float64, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			vecs[i], errs[i] = cache.Get(context.Background(), "shared text")
		}(i)
	}

	// Give every caller time to join the flight before releasing it.
	time.Sleep(50 * time.Millisecond)
	close(provider.release)
	wg.Wait()

	for i := 0; i < callers; i++ {
		if errs[i] != nil {
			t.Fatalf("caller %d error = %v", i, errs[i])
		}
		if !reflect.DeepEqual(vecs[i], provider.vec) {
			t.Errorf("caller %d vector = %v, want %v", i, vecs[i], provider.vec)
		}
	}
	if got := atomic.LoadInt32(&provider.calls); got != 1 {
		t.Errorf("provider calls = %d, want 1", got)
	}
}

func TestEmbeddingCache_DimensionMismatch(t *testing.T) {
	t.Parallel()

	provider := &mockEmbeddingProvider{vectors: map[string][]float64{
		"stub": {1, 2},
	}}
	cache := NewEmbeddingCache(provider, testDim, time.Second)

	_, err := cache.Get(context.Background(), "stub")
	if err == nil {
		t.Fatal("Get() error = nil, want dimension error")
	}
	if !strings.Contains(err.Error(), "dimensions") {
		t.Errorf("error = %v, want dimension complaint", err)
	}
	if cache.Len() != 0 {
		t.Errorf("Len() = %d, want 0 after rejected vector", cache.Len())
	}

	// The failure is not cached; the next Get tries the provider again.
	if _, err := cache.Get(context.Background(), "stub"); err == nil {
		t.Fatal("second Get() error = nil, want dimension error")
	}
	if got := atomic.LoadInt32(&provider.calls); got != 2 {
		t.Errorf("provider calls = %d, want 2", got)
	}
}

func TestEmbeddingCache_ProviderError(t *testing.T) {
	t.Parallel()

	provider := &mockEmbeddingProvider{err: ErrProviderUnavailable}
	cache := NewEmbeddingCache(provider, testDim, time.Second)

	_, err := cache.Get(context.Background(), "anything")
	if !errors.Is(err, ErrProviderUnavailable) {
		t.Errorf("error = %v, want ErrProviderUnavailable", err)
	}
	if cache.Len() != 0 {
		t.Errorf("Len() = %d, want 0", cache.Len())
	}
}

func TestEmbeddingCache_CancelledCallerStillWarms(t *testing.T) {
	t.Parallel()

	provider := &blockingProvider{
		release: make(chan struct{}),
		vec:     []float64{0.5, 0.5, 0, 0},
	}
	cache := NewEmbeddingCache(provider, testDim, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := cache.Get(ctx, "slow text")
		done <- err
	}()

	// Let the flight start, then abandon it.
	time.Sleep(20 * time.Millisecond)
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("Get() error = %v, want context.Canceled", err)
	}

	// The detached flight finishes and must still warm the cache.
	close(provider.release)
	deadline := time.After(2 * time.Second)
	for cache.Len() == 0 {
		select {
		case <-deadline:
			t.Fatal("cache never warmed after caller cancellation")
		case <-time.After(5 * time.Millisecond):
		}
	}

	vec, err := cache.Get(context.Background(), "slow text")
	if err != nil {
		t.Fatalf("warm Get() error = %v", err)
	}
	if !reflect.DeepEqual(vec, provider.vec) {
		t.Errorf("vector = %v, want %v", vec, provider.vec)
	}
	if got := atomic.LoadInt32(&provider.calls); got != 1 {
		t.Errorf("provider calls = %d, want 1", got)
	}
}
