package session

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/athebyme/pidash/internal/adapters/secondary/logger"
	"github.com/athebyme/pidash/internal/core/domain"
)

func discardLogger() *logger.SlogAdapter {
	return logger.NewSlogAdapterWriter(io.Discard, "error", false)
}

func TestMemoryStore_GetSet(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(discardLogger())

	got, err := store.Get(ctx, "pi")
	if err != nil || !got.IsAbsent() {
		t.Fatalf("expected absent session, got %+v, %v", got, err)
	}

	if err := store.Set(ctx, "pi", domain.TokenSession("a")); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := store.Set(ctx, "pi", domain.TokenSession("b")); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if got, _ := store.Get(ctx, "pi"); got != domain.TokenSession("b") {
		t.Errorf("expected last write to win, got %+v", got)
	}
	if got, _ := store.Get(ctx, "other"); !got.IsAbsent() {
		t.Errorf("sessions must be per backend, got %+v", got)
	}
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(discardLogger())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = store.Set(ctx, "pi", domain.TokenSession("sid"))
		}()
		go func() {
			defer wg.Done()
			_, _ = store.Get(ctx, "pi")
		}()
	}
	wg.Wait()

	if got, _ := store.Get(ctx, "pi"); got.SID != "sid" {
		t.Errorf("unexpected session %+v", got)
	}
}
