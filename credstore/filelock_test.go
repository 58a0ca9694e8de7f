package credstore

import (
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestFileLock_AcquireRelease(t *testing.T) {
	target := filepath.Join(t.TempDir(), "tokens.json")
	lockPath := target + ".lock"

	lock, err := acquireFileLock(target)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if _, err := os.Stat(lockPath); os.IsNotExist(err) {
		t.Errorf("lock file was not created")
	}

	if err := lock.release(); err != nil {
		t.Errorf("release: %v", err)
	}
	if _, err := os.Stat(lockPath); !os.IsNotExist(err) {
		t.Errorf("lock file still present after release")
	}
}

func TestFileLock_SerializesGoroutines(t *testing.T) {
	target := filepath.Join(t.TempDir(), "tokens.json")

	const goroutines = 8
	const iterations = 4

	var (
		holders atomic.Int32
		done    atomic.Int32
		wg      sync.WaitGroup
	)

	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func(id int) {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				lock, err := acquireFileLock(target)
				if err != nil {
					t.Errorf("goroutine %d: acquire: %v", id, err)
					return
				}
				if n := holders.Add(1); n != 1 {
					t.Errorf("goroutine %d: %d holders at once", id, n)
				}
				time.Sleep(5 * time.Millisecond)
				holders.Add(-1)
				done.Add(1)
				if err := lock.release(); err != nil {
					t.Errorf("goroutine %d: release: %v", id, err)
					return
				}
			}
		}(i)
	}
	wg.Wait()

	if got, want := done.Load(), int32(goroutines*iterations); got != want {
		t.Errorf("completed %d critical sections, want %d", got, want)
	}
	if _, err := os.Stat(target + ".lock"); !os.IsNotExist(err) {
		t.Errorf("lock file left behind")
	}
}

func TestFileLock_RemovesStaleLock(t *testing.T) {
	target := filepath.Join(t.TempDir(), "tokens.json")
	lockPath := target + ".lock"

	if err := os.WriteFile(lockPath, []byte("12345"), 0o600); err != nil {
		t.Fatal(err)
	}
	old := time.Now().Add(-staleLockAge - 5*time.Second)
	if err := os.Chtimes(lockPath, old, old); err != nil {
		t.Fatal(err)
	}

	lock, err := acquireFileLock(target)
	if err != nil {
		t.Fatalf("acquire over stale lock: %v", err)
	}
	defer lock.release()

	if lock.file == nil {
		t.Errorf("lock handle is nil")
	}
}

func TestFileLock_WaitsForHolder(t *testing.T) {
	target := filepath.Join(t.TempDir(), "tokens.json")

	first, err := acquireFileLock(target)
	if err != nil {
		t.Fatalf("acquire first: %v", err)
	}

	acquired := make(chan error, 1)
	go func() {
		second, err := acquireFileLock(target)
		if err == nil {
			err = second.release()
		}
		acquired <- err
	}()

	select {
	case <-acquired:
		t.Fatal("second lock acquired while first was held")
	case <-time.After(200 * time.Millisecond):
	}

	if err := first.release(); err != nil {
		t.Fatalf("release first: %v", err)
	}

	select {
	case err := <-acquired:
		if err != nil {
			t.Errorf("second lock: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Error("second lock not acquired after release")
	}
}

func TestFileLock_Timeout(t *testing.T) {
	prevAttempts, prevDelay := lockAttempts, lockRetryDelay
	lockAttempts, lockRetryDelay = 5, 10*time.Millisecond
	t.Cleanup(func() { lockAttempts, lockRetryDelay = prevAttempts, prevDelay })

	target := filepath.Join(t.TempDir(), "tokens.json")
	if err := os.WriteFile(target+".lock", []byte("1"), 0o600); err != nil {
		t.Fatal(err)
	}

	start := time.Now()
	_, err := acquireFileLock(target)
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if elapsed := time.Since(start); elapsed < 40*time.Millisecond {
		t.Errorf("gave up after %v, expected about 50ms", elapsed)
	}
}

func TestFileLock_DoubleRelease(t *testing.T) {
	target := filepath.Join(t.TempDir(), "tokens.json")

	lock, err := acquireFileLock(target)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if err := lock.release(); err != nil {
		t.Fatalf("first release: %v", err)
	}
	if err := lock.release(); err == nil {
		t.Error("second release should report the missing lock file")
	}
}

func BenchmarkFileLock_AcquireRelease(b *testing.B) {
	target := filepath.Join(b.TempDir(), "tokens.json")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		lock, err := acquireFileLock(target)
		if err != nil {
			b.Fatalf("acquire: %v", err)
		}
		if err := lock.release(); err != nil {
			b.Fatalf("release: %v", err)
		}
	}
}
