package measure

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestHeuristic(t *testing.T) {
	tests := []struct {
		name  string
		ratio float64
		text  string
		size  float64
		want  float64
	}{
		{"default ratio", 0, "abcd", 10, 4 * 10 * 0.55},
		{"custom ratio", 0.5, "abcd", 10, 4 * 10 * 0.5},
		{"negative ratio uses default", -1, "ab", 12, 2 * 12 * 0.55},
		{"counts runes not bytes", 0.5, "äöü", 10, 3 * 10 * 0.5},
		{"empty text", 0.5, "", 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Heuristic(tt.ratio)(tt.text, tt.size)
			if got != tt.want {
				t.Errorf("Heuristic(%v)(%q, %v) = %v, want %v", tt.ratio, tt.text, tt.size, got, tt.want)
			}
		})
	}
}

func TestFaceFallsBackWithoutFont(t *testing.T) {
	fn := Face("/nonexistent/font.ttf")

	got := fn("hello", 12)
	want := Heuristic(0)("hello", 12)
	if got != want {
		t.Errorf("Face fallback = %v, want heuristic %v", got, want)
	}
}

func TestCachedMemoizes(t *testing.T) {
	var calls int
	fn := Cached(func(text string, size float64) float64 {
		calls++
		return float64(len(text)) * size
	}, 0)

	if got := fn("abc", 10); got != 30 {
		t.Fatalf("first call = %v, want 30", got)
	}
	if got := fn("abc", 10); got != 30 {
		t.Fatalf("second call = %v, want 30", got)
	}
	if calls != 1 {
		t.Errorf("underlying measurer called %d times, want 1", calls)
	}

	// A different size is a different key.
	fn("abc", 12)
	if calls != 2 {
		t.Errorf("underlying measurer called %d times, want 2", calls)
	}
}

func TestCachedClearsWhenFull(t *testing.T) {
	var calls int
	fn := Cached(func(text string, size float64) float64 {
		calls++
		return size
	}, 2)

	fn("a", 1)
	fn("b", 1)
	fn("c", 1) // cache at capacity, cleared before storing
	fn("a", 1) // recomputed after the clear

	if calls != 4 {
		t.Errorf("underlying measurer called %d times, want 4", calls)
	}
}

func TestCachedConcurrent(t *testing.T) {
	var calls atomic.Int64
	fn := Cached(func(text string, size float64) float64 {
		calls.Add(1)
		return float64(len(text)) * size
	}, 64)

	var wg sync.WaitGroup
	texts := []string{"alpha", "beta", "gamma", "delta"}
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				text := texts[j%len(texts)]
				if got := fn(text, 10); got != float64(len(text))*10 {
					t.Errorf("fn(%q, 10) = %v, want %v", text, got, float64(len(text))*10)
				}
			}
		}()
	}
	wg.Wait()

	// Concurrent misses may compute a key more than once, but the cache
	// must still have absorbed the bulk of the 800 calls.
	if n := calls.Load(); n > 32 {
		t.Errorf("underlying measurer called %d times, want <= 32", n)
	}
}

func TestForFont(t *testing.T) {
	// Empty path selects the heuristic.
	if got, want := ForFont("")("abcd", 10), 4*10*0.55; got != want {
		t.Errorf("ForFont(\"\") = %v, want %v", got, want)
	}

	// A missing font file still measures via the heuristic fallback.
	if got, want := ForFont("/nonexistent/font.ttf")("abcd", 10), 4*10*0.55; got != want {
		t.Errorf("ForFont(missing) = %v, want %v", got, want)
	}
}
