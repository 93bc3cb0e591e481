// internal/service/walletlock.go
package service

import "sync"

// WalletLocker serializes ledger mutations per wallet. Spends, purchases and
// sweep decrements against the same wallet take the same named lock for the
// duration of batch-read + batch-write + wallet-write, so two concurrent
// spends can never consume the same batch state. Different wallets do not
// contend.
type WalletLocker struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

// NewWalletLocker creates an empty lock registry.
func NewWalletLocker() *WalletLocker {
	return &WalletLocker{locks: make(map[int64]*sync.Mutex)}
}

// Lock acquires the lock for a wallet and returns the unlock function.
// Locks are never removed from the registry; the set of wallets an instance
// touches is small and stable.
func (l *WalletLocker) Lock(walletID int64) func() {
	l.mu.Lock()
	m, ok := l.locks[walletID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[walletID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
