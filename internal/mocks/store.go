package mocks

import (
	"context"

	"github.com/VitaminP8/memberhub/internal/storage"
)

// Store оборачивает настоящее хранилище. Заданная Fn-функция подменяет
// соответствующую операцию, остальные уходят во вложенное хранилище.
type Store[T storage.Entity[T]] struct {
	Next storage.Store[T]

	FindManyFn func(ctx context.Context, filter *storage.Filter) ([]T, error)
	FindOneFn  func(ctx context.Context, filter storage.Filter) (T, bool, error)
	CreateFn   func(ctx context.Context, rec T) (T, error)
	ChangeFn   func(ctx context.Context, id string, patch storage.Patch[T]) (T, error)
	DeleteFn   func(ctx context.Context, id string) (T, error)
	InsertFn   func(ctx context.Context, rec T) (T, error)

	PositionFn func(id string) int
	InsertAtFn func(ctx context.Context, rec T, pos int) (T, error)
}

func Wrap[T storage.Entity[T]](next storage.Store[T]) *Store[T] {
	return &Store[T]{Next: next}
}

func (s *Store[T]) FindMany(ctx context.Context, filter *storage.Filter) ([]T, error) {
	if s.FindManyFn != nil {
		return s.FindManyFn(ctx, filter)
	}
	return s.Next.FindMany(ctx, filter)
}

func (s *Store[T]) FindOne(ctx context.Context, filter storage.Filter) (T, bool, error) {
	if s.FindOneFn != nil {
		return s.FindOneFn(ctx, filter)
	}
	return s.Next.FindOne(ctx, filter)
}

func (s *Store[T]) Create(ctx context.Context, rec T) (T, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, rec)
	}
	return s.Next.Create(ctx, rec)
}

func (s *Store[T]) Change(ctx context.Context, id string, patch storage.Patch[T]) (T, error) {
	if s.ChangeFn != nil {
		return s.ChangeFn(ctx, id, patch)
	}
	return s.Next.Change(ctx, id, patch)
}

func (s *Store[T]) Delete(ctx context.Context, id string) (T, error) {
	if s.DeleteFn != nil {
		return s.DeleteFn(ctx, id)
	}
	return s.Next.Delete(ctx, id)
}

func (s *Store[T]) Insert(ctx context.Context, rec T) (T, error) {
	if s.InsertFn != nil {
		return s.InsertFn(ctx, rec)
	}
	return s.Next.Insert(ctx, rec)
}

// Position отдает позицию из вложенного хранилища, если оно ее знает
func (s *Store[T]) Position(id string) int {
	if s.PositionFn != nil {
		return s.PositionFn(id)
	}
	if r, ok := s.Next.(storage.Restorer[T]); ok {
		return r.Position(id)
	}
	return -1
}

func (s *Store[T]) InsertAt(ctx context.Context, rec T, pos int) (T, error) {
	if s.InsertAtFn != nil {
		return s.InsertAtFn(ctx, rec, pos)
	}
	if r, ok := s.Next.(storage.Restorer[T]); ok {
		return r.InsertAt(ctx, rec, pos)
	}
	return s.Next.Insert(ctx, rec)
}

// FailDeletesAfter пропускает n удалений во вложенное хранилище, следующие завершаются ошибкой err
func (s *Store[T]) FailDeletesAfter(n int, err error) *Store[T] {
	calls := 0
	s.DeleteFn = func(ctx context.Context, id string) (T, error) {
		calls++
		if calls > n {
			var zero T
			return zero, err
		}
		return s.Next.Delete(ctx, id)
	}
	return s
}

// FailChangesAfter - то же для Change. Откат тоже идет через Change и тоже упадет.
func (s *Store[T]) FailChangesAfter(n int, err error) *Store[T] {
	calls := 0
	s.ChangeFn = func(ctx context.Context, id string, patch storage.Patch[T]) (T, error) {
		calls++
		if calls > n {
			var zero T
			return zero, err
		}
		return s.Next.Change(ctx, id, patch)
	}
	return s
}
