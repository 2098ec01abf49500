package memory

import (
	"context"
	"sync"

	"github.com/VitaminP8/memberhub/internal/apperror"
	"github.com/VitaminP8/memberhub/internal/storage"
	"github.com/VitaminP8/memberhub/models"
	"github.com/google/uuid"
)

// Store - in-memory хранилище одного вида сущностей.
// Порядок перечисления - порядок вставки; наружу отдаются только копии.
type Store[T storage.Entity[T]] struct {
	mu      sync.RWMutex
	kind    string
	records map[string]T
	keys    []string
}

func NewStore[T storage.Entity[T]](kind string) *Store[T] {
	return &Store[T]{
		kind:    kind,
		records: make(map[string]T),
	}
}

// NewStores собирает набор хранилищ для storage.DB
func NewStores() storage.Stores {
	return storage.Stores{
		Users:       NewStore[models.User]("user"),
		Profiles:    NewStore[models.Profile]("profile"),
		Posts:       NewStore[models.Post]("post"),
		MemberTypes: NewStore[models.MemberType]("member type"),
	}
}

func (s *Store[T]) FindMany(ctx context.Context, filter *storage.Filter) ([]T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]T, 0, len(s.keys))
	for _, id := range s.keys {
		rec := s.records[id]
		if filter != nil && !filter.Match(rec) {
			continue
		}
		result = append(result, rec.Clone())
	}
	return result, nil
}

func (s *Store[T]) FindOne(ctx context.Context, filter storage.Filter) (T, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// поиск по id без перебора
	if filter.Field == models.FieldID && filter.Mode == storage.Equals {
		rec, ok := s.records[filter.Value]
		if !ok {
			var zero T
			return zero, false, nil
		}
		return rec.Clone(), true, nil
	}

	for _, id := range s.keys {
		rec := s.records[id]
		if filter.Match(rec) {
			return rec.Clone(), true, nil
		}
	}
	var zero T
	return zero, false, nil
}

func (s *Store[T]) Create(ctx context.Context, rec T) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	for {
		if _, exists := s.records[id]; !exists {
			break
		}
		id = uuid.NewString()
	}

	rec = rec.WithID(id)
	s.put(rec)
	return rec.Clone(), nil
}

func (s *Store[T]) Insert(ctx context.Context, rec T) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.insertAt(rec, len(s.keys))
}

// InsertAt ставит запись на позицию pos в порядке перечисления.
// pos за пределами списка означает конец.
func (s *Store[T]) InsertAt(ctx context.Context, rec T, pos int) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.insertAt(rec, pos)
}

func (s *Store[T]) Position(id string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.position(id)
}

func (s *Store[T]) insertAt(rec T, pos int) (T, error) {
	id := rec.GetID()
	if id == "" {
		var zero T
		return zero, apperror.Validation("%s id is empty", s.kind)
	}
	if _, exists := s.records[id]; exists {
		var zero T
		return zero, apperror.Conflict("%s %s already exists", s.kind, id)
	}
	if pos < 0 || pos > len(s.keys) {
		pos = len(s.keys)
	}

	rec = rec.Clone()
	s.records[id] = rec
	s.keys = append(s.keys, "")
	copy(s.keys[pos+1:], s.keys[pos:])
	s.keys[pos] = id
	return rec.Clone(), nil
}

func (s *Store[T]) Change(ctx context.Context, id string, patch storage.Patch[T]) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok {
		var zero T
		return zero, apperror.NotFound("%s %s not found", s.kind, id)
	}

	// патч не может поменять id записи
	updated := patch.Apply(rec.Clone()).WithID(id)
	s.records[id] = updated
	return updated.Clone(), nil
}

func (s *Store[T]) Delete(ctx context.Context, id string) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok {
		var zero T
		return zero, apperror.NotFound("%s %s not found", s.kind, id)
	}

	delete(s.records, id)
	if i := s.position(id); i >= 0 {
		s.keys = append(s.keys[:i], s.keys[i+1:]...)
	}
	return rec, nil
}

func (s *Store[T]) position(id string) int {
	for i, key := range s.keys {
		if key == id {
			return i
		}
	}
	return -1
}

func (s *Store[T]) put(rec T) {
	s.records[rec.GetID()] = rec
	s.keys = append(s.keys, rec.GetID())
}
