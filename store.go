package bitwise

import "sync"

// RawStore is the host side storage of a single flag group raw value
type RawStore interface {
	GetRaw() (Raw, error)
	SetRaw(value Raw) error
}

// FieldOf binds a raw value field of a host struct
func FieldOf(field *Raw) RawStore {
	return &fieldStore{field: field}
}

type fieldStore struct {
	field *Raw
	mu    sync.RWMutex
}

func (s *fieldStore) GetRaw() (Raw, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return *s.field, nil
}

func (s *fieldStore) SetRaw(value Raw) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	*s.field = value
	return nil
}

// a record inside a repository, records that are not stored yet read as zero
type record[TKey comparable] struct {
	repository *Repository[TKey]
	key        TKey
}

func (s *record[TKey]) GetRaw() (Raw, error) {
	value, err := s.repository.Load(s.key)
	if err != nil {
		if IsNotFound[TKey](err) {
			return 0, nil
		}
		return 0, err
	}
	return value, nil
}

func (s *record[TKey]) SetRaw(value Raw) error {
	return s.repository.Set(s.key, value)
}
