package service

import "sync"

// keyedMutex serializes operations per entity ID: no two reconciliations of
// the same plan or template run concurrently, while different IDs proceed in
// parallel. Mutexes are retained for the process lifetime; the population is
// bounded by the number of plans and templates.
type keyedMutex struct {
	locks sync.Map // string -> *sync.Mutex
}

// Lock acquires the mutex for key and returns its unlock function.
func (k *keyedMutex) Lock(key string) func() {
	v, _ := k.locks.LoadOrStore(key, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
