package resilience

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sourcegraph/conc"
)

func TestGroup_ConcurrentCallersShareOneFetch(t *testing.T) {
	t.Parallel()

	var (
		g       Group[[]string]
		fetches atomic.Int32
		shared  atomic.Int32
		wg      conc.WaitGroup
	)
	release := make(chan struct{})

	for range 8 {
		wg.Go(func() {
			got, wasShared, err := g.Do("page", func() ([]string, error) {
				fetches.Add(1)
				<-release
				return []string{"100101", "100102"}, nil
			})
			if err != nil || len(got) != 2 {
				t.Errorf("unexpected result %v err=%v", got, err)
			}
			if wasShared {
				shared.Add(1)
			}
		})
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	if fetches.Load() != 1 {
		t.Fatalf("expected one fetch, got %d", fetches.Load())
	}
	if shared.Load() == 0 {
		t.Fatalf("expected callers to observe a shared result")
	}
}

func TestGroup_ErrorPassesThroughUntilForget(t *testing.T) {
	t.Parallel()

	var g Group[int]
	boom := errors.New("boom")
	got, _, err := g.Do("k", func() (int, error) { return 7, boom })
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if got != 7 {
		t.Fatalf("expected value passed through with error, got %d", got)
	}

	g.Forget("k")
	got, _, err = g.Do("k", func() (int, error) { return 9, nil })
	if err != nil || got != 9 {
		t.Fatalf("expected fresh call after Forget, got %d err=%v", got, err)
	}
}
