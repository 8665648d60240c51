package auth

import (
	"sync"
	"testing"
	"time"
)

func TestReauthSignalSingleShot(t *testing.T) {
	s := NewReauthSignal(time.Hour)

	if !s.Fire() {
		t.Fatal("first Fire() must return true")
	}
	if s.Fire() {
		t.Error("second Fire() inside the reset window must return false")
	}
}

func TestReauthSignalRearms(t *testing.T) {
	s := NewReauthSignal(10 * time.Millisecond)

	if !s.Fire() {
		t.Fatal("first Fire() must return true")
	}
	time.Sleep(50 * time.Millisecond)
	if !s.Fire() {
		t.Error("Fire() after the reset delay must return true again")
	}
}

func TestReauthSignalConcurrentFire(t *testing.T) {
	s := NewReauthSignal(time.Hour)

	const n = 32
	var wg sync.WaitGroup
	results := make(chan bool, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- s.Fire()
		}()
	}
	wg.Wait()
	close(results)

	fired := 0
	for ok := range results {
		if ok {
			fired++
		}
	}
	if fired != 1 {
		t.Errorf("%d goroutines carried the prompt, want exactly 1", fired)
	}
}
