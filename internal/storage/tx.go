package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/VitaminP8/memberhub/internal/apperror"
	"github.com/VitaminP8/memberhub/models"
	"go.uber.org/zap"
)

// Tx - открытая секция записи. Каждая мутация через ее хранилища
// запоминает обратный шаг, изменения индекса копятся до коммита.
type Tx struct {
	Users       Store[models.User]
	Profiles    Store[models.Profile]
	Posts       Store[models.Post]
	MemberTypes Store[models.MemberType]

	undo     []undoStep
	onCommit []func(ix *FollowerIndex)
	log      *zap.Logger
}

type undoStep struct {
	desc string
	fn   func(ctx context.Context) error
}

func (tx *Tx) record(desc string, fn func(ctx context.Context) error) {
	tx.undo = append(tx.undo, undoStep{desc: desc, fn: fn})
}

func (tx *Tx) steps() int {
	return len(tx.undo)
}

// rollback проходит журнал целиком, даже если отдельные шаги падают
func (tx *Tx) rollback(ctx context.Context) error {
	var errs []error
	for i := len(tx.undo) - 1; i >= 0; i-- {
		step := tx.undo[i]
		if err := step.fn(ctx); err != nil {
			tx.log.Error("undo step failed", zap.String("step", step.desc), zap.Error(err))
			errs = append(errs, fmt.Errorf("undo %s: %w", step.desc, err))
		}
	}
	tx.undo = nil
	tx.onCommit = nil
	return errors.Join(errs...)
}

func (tx *Tx) observeUser(before, after *models.User) {
	var id string
	var was, now []string
	if before != nil {
		id = before.ID
		was = before.SubscribedToUserIds.Clone()
	}
	if after != nil {
		id = after.ID
		now = after.SubscribedToUserIds.Clone()
	}
	tx.onCommit = append(tx.onCommit, func(ix *FollowerIndex) {
		ix.update(id, was, now)
	})
}

// txStore оборачивает хранилище бэкенда и пишет журнал отката
type txStore[T Entity[T]] struct {
	Store[T]
	tx      *Tx
	kind    string
	observe func(before, after *T)
}

func (s *txStore[T]) notify(before, after *T) {
	if s.observe != nil {
		s.observe(before, after)
	}
}

func (s *txStore[T]) Create(ctx context.Context, rec T) (T, error) {
	created, err := s.Store.Create(ctx, rec)
	if err != nil {
		return created, err
	}

	id := created.GetID()
	s.tx.record(s.kind+" create "+id, func(ctx context.Context) error {
		_, err := s.Store.Delete(ctx, id)
		return err
	})
	s.notify(nil, &created)
	return created, nil
}

func (s *txStore[T]) Insert(ctx context.Context, rec T) (T, error) {
	inserted, err := s.Store.Insert(ctx, rec)
	if err != nil {
		return inserted, err
	}

	id := inserted.GetID()
	s.tx.record(s.kind+" insert "+id, func(ctx context.Context) error {
		_, err := s.Store.Delete(ctx, id)
		return err
	})
	s.notify(nil, &inserted)
	return inserted, nil
}

func (s *txStore[T]) Change(ctx context.Context, id string, patch Patch[T]) (T, error) {
	prev, ok, err := s.Store.FindOne(ctx, ByID(id))
	if err != nil {
		return prev, err
	}
	if !ok {
		var zero T
		return zero, apperror.NotFound("%s %s not found", s.kind, id)
	}

	updated, err := s.Store.Change(ctx, id, patch)
	if err != nil {
		return updated, err
	}

	s.tx.record(s.kind+" change "+id, func(ctx context.Context) error {
		_, err := s.Store.Change(ctx, id, restore[T]{rec: prev})
		return err
	})
	s.notify(&prev, &updated)
	return updated, nil
}

func (s *txStore[T]) Delete(ctx context.Context, id string) (T, error) {
	pos := -1
	restorer, ok := s.Store.(Restorer[T])
	if ok {
		pos = restorer.Position(id)
	}

	deleted, err := s.Store.Delete(ctx, id)
	if err != nil {
		return deleted, err
	}

	s.tx.record(s.kind+" delete "+id, func(ctx context.Context) error {
		if pos >= 0 {
			_, err := restorer.InsertAt(ctx, deleted, pos)
			return err
		}
		_, err := s.Store.Insert(ctx, deleted)
		return err
	})
	s.notify(&deleted, nil)
	return deleted, nil
}

// restore подменяет запись целиком сохраненной копией
type restore[T Entity[T]] struct {
	rec T
}

func (r restore[T]) Apply(T) T {
	return r.rec.Clone()
}
