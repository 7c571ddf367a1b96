package dronesuc

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDroneLocksSerializeSameID(t *testing.T) {
	dl := newDroneLocks()
	unlock := dl.Lock(1)
	acquired := make(chan struct{})
	go func() {
		u := dl.Lock(1)
		close(acquired)
		u()
	}()
	select {
	case <-acquired:
		t.Fatal("second Lock(1) did not block")
	case <-time.After(50 * time.Millisecond):
	}

	// other ids are independent
	u2 := dl.Lock(2)
	u2()

	unlock()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second Lock(1) was not released")
	}
}

func TestDroneLocksAreReleased(t *testing.T) {
	dl := newDroneLocks()
	var wg sync.WaitGroup
	counter := 0
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := dl.Lock(7)
			counter++
			unlock()
		}()
	}
	wg.Wait()
	assert.Equal(t, 100, counter)
	assert.Zero(t, dl.size(), "unused locks are kept")
}
