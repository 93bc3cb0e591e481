// internal/service/walletlock_test.go
package service

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWalletLockerSerializesSameWallet(t *testing.T) {
	locker := NewWalletLocker()

	const goroutines = 50
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locker.Lock(1)
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, goroutines, counter)
}

func TestWalletLockerIndependentWallets(t *testing.T) {
	locker := NewWalletLocker()

	unlock1 := locker.Lock(1)
	defer unlock1()

	// A different wallet must not block behind wallet 1's lock.
	done := make(chan struct{})
	go func() {
		unlock2 := locker.Lock(2)
		unlock2()
		close(done)
	}()

	<-done
}
