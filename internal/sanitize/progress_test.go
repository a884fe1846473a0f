package sanitize

import "testing"

func TestProgressSequenceOfSix(t *testing.T) {
	want := []int{17, 34, 50, 67, 84, 100}
	for i := range want {
		if got := Progress(i, 6); got != want[i] {
			t.Errorf("Progress(%d, 6) = %d, want %d", i, got, want[i])
		}
	}
}

func TestProgressSingleItem(t *testing.T) {
	if got := Progress(0, 1); got != ProgressMax {
		t.Fatalf("Progress(0, 1) = %d, want %d", got, ProgressMax)
	}
}

func TestProgressMonotonicAndComplete(t *testing.T) {
	for total := 1; total <= 50; total++ {
		prev := 0
		for i := 0; i < total; i++ {
			got := Progress(i, total)
			if got < prev {
				t.Fatalf("Progress(%d, %d) = %d decreased from %d", i, total, got, prev)
			}
			prev = got
		}
		if prev != ProgressMax {
			t.Fatalf("last progress for total %d = %d, want %d", total, prev, ProgressMax)
		}
	}
}
