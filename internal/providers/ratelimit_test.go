package providers

import (
	"context"
	"testing"
	"time"
)

func TestRateLimiter(t *testing.T) {
	t.Run("unlimited", func(t *testing.T) {
		r := NewRateLimiter(0)
		for i := 0; i < 100; i++ {
			if err := r.Wait(context.Background()); err != nil {
				t.Fatalf("Wait() error = %v", err)
			}
		}
		if got := r.Status().TotalConsumed; got != 100 {
			t.Errorf("TotalConsumed = %d, want 100", got)
		}
	})

	t.Run("paces requests", func(t *testing.T) {
		r := NewRateLimiter(20)
		start := time.Now()
		for i := 0; i < 25; i++ {
			if err := r.Wait(context.Background()); err != nil {
				t.Fatalf("Wait() error = %v", err)
			}
		}
		// 20 burst tokens, then 5 more at 20/s.
		if elapsed := time.Since(start); elapsed < 200*time.Millisecond {
			t.Errorf("expected pacing, 25 requests took %v", elapsed)
		}
	})

	t.Run("429 pauses callers", func(t *testing.T) {
		r := NewRateLimiter(0)
		r.Record429(50 * time.Millisecond)

		start := time.Now()
		if err := r.Wait(context.Background()); err != nil {
			t.Fatalf("Wait() error = %v", err)
		}
		if elapsed := time.Since(start); elapsed < 40*time.Millisecond {
			t.Errorf("expected pause after 429, waited %v", elapsed)
		}
		if r.Status().Last429Time.IsZero() {
			t.Error("Last429Time not recorded")
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		r := NewRateLimiter(0)
		r.Record429(time.Minute)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()
		if err := r.Wait(ctx); err == nil {
			t.Error("expected error for cancelled context")
		}
	})
}
