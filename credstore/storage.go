package credstore

import "sync"

// Slot names one durable string value.
type Slot string

const (
	AccessTokenSlot  Slot = "accessToken"
	RefreshTokenSlot Slot = "refreshToken"
)

// Storage is the durable side of the Store. Read reports ok=false for a slot that was
// never written or was deleted.
type Storage interface {
	Read(slot Slot) (value string, ok bool, err error)
	Write(slot Slot, value string) error
	Delete(slot Slot) error
}

// MemoryStorage keeps slots in process memory.
type MemoryStorage struct {
	mu    sync.Mutex
	slots map[Slot]string
}

// NewMemoryStorage returns an empty MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{slots: make(map[Slot]string)}
}

func (m *MemoryStorage) Read(slot Slot) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.slots[slot]
	return v, ok, nil
}

func (m *MemoryStorage) Write(slot Slot, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[slot] = value
	return nil
}

func (m *MemoryStorage) Delete(slot Slot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.slots, slot)
	return nil
}
