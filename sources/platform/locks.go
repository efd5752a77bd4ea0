package platform

import "sync"

// ChatLocks serializes mutations of a single chat's durable state. The
// transport may dispatch two updates for the same chat concurrently;
// preference writes must not interleave.
type ChatLocks struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func NewChatLocks() *ChatLocks {
	return &ChatLocks{locks: make(map[int64]*sync.Mutex)}
}

func (x *ChatLocks) Lock(chatID int64) func() {
	x.mu.Lock()
	lock, ok := x.locks[chatID]
	if !ok {
		lock = &sync.Mutex{}
		x.locks[chatID] = lock
	}
	x.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
