package runtime

import "sync"

// KeyedLocker hands out one RWMutex per key and forgets it once nobody holds or waits on it.
type KeyedLocker[K comparable] struct {
	mu    sync.Mutex
	locks map[K]*keyedLock
}

type keyedLock struct {
	sync.RWMutex
	refs int
}

func NewKeyedLocker[K comparable]() *KeyedLocker[K] {
	return &KeyedLocker[K]{locks: make(map[K]*keyedLock)}
}

// Lock takes the key exclusively and returns its release function.
func (k *KeyedLocker[K]) Lock(key K) func() {
	l := k.acquire(key)
	l.Lock()
	return func() {
		l.Unlock()
		k.release(key, l)
	}
}

// RLock takes the key in shared mode and returns its release function.
func (k *KeyedLocker[K]) RLock(key K) func() {
	l := k.acquire(key)
	l.RLock()
	return func() {
		l.RUnlock()
		k.release(key, l)
	}
}

func (k *KeyedLocker[K]) acquire(key K) *keyedLock {
	k.mu.Lock()
	defer k.mu.Unlock()
	l, ok := k.locks[key]
	if !ok {
		l = &keyedLock{}
		k.locks[key] = l
	}
	l.refs++
	return l
}

func (k *KeyedLocker[K]) release(key K, l *keyedLock) {
	k.mu.Lock()
	defer k.mu.Unlock()
	l.refs--
	if l.refs == 0 {
		delete(k.locks, key)
	}
}

// Len is the number of keys currently held or awaited.
func (k *KeyedLocker[K]) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}
