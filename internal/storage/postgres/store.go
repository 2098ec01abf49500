package postgres

import (
	"context"
	"fmt"

	"github.com/VitaminP8/memberhub/internal/apperror"
	"github.com/VitaminP8/memberhub/internal/storage"
	"github.com/VitaminP8/memberhub/models"
	"github.com/google/uuid"
	"github.com/jinzhu/gorm"
)

// Store - хранилище одного вида сущностей в таблице gorm.
// Порядок перечисления - по id.
type Store[T storage.Entity[T]] struct {
	db   *gorm.DB
	kind string
}

func NewStore[T storage.Entity[T]](db *gorm.DB, kind string) *Store[T] {
	return &Store[T]{db: db, kind: kind}
}

// NewStores собирает набор хранилищ для storage.DB поверх одного соединения
func NewStores(db *gorm.DB) storage.Stores {
	return storage.Stores{
		Users:       NewStore[models.User](db, "user"),
		Profiles:    NewStore[models.Profile](db, "profile"),
		Posts:       NewStore[models.Post](db, "post"),
		MemberTypes: NewStore[models.MemberType](db, "member type"),
	}
}

// column переводит имя поля фильтра в имя колонки
func column(field string) string {
	switch field {
	case models.FieldID:
		return "id"
	case models.FieldUserID:
		return "user_id"
	case models.FieldMemberTypeID:
		return "member_type_id"
	}
	return gorm.ToColumnName(field)
}

func (s *Store[T]) FindMany(ctx context.Context, filter *storage.Filter) ([]T, error) {
	query := s.db.Order("id")
	if filter != nil && filter.Mode == storage.Equals {
		query = query.Where(column(filter.Field)+" = ?", filter.Value)
	}

	var recs []T
	err := query.Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("could not get %s list: %w", s.kind, err)
	}

	// списки хранятся JSON-строкой, вхождение проверяем в процессе
	result := make([]T, 0, len(recs))
	for _, rec := range recs {
		if filter != nil && filter.Mode == storage.ElementOf && !filter.Match(rec) {
			continue
		}
		result = append(result, rec)
	}
	return result, nil
}

func (s *Store[T]) FindOne(ctx context.Context, filter storage.Filter) (T, bool, error) {
	if filter.Mode == storage.ElementOf {
		recs, err := s.FindMany(ctx, &filter)
		if err != nil || len(recs) == 0 {
			var zero T
			return zero, false, err
		}
		return recs[0], true, nil
	}
	return s.first(s.db, filter)
}

func (s *Store[T]) first(db *gorm.DB, filter storage.Filter) (T, bool, error) {
	var rec T
	err := db.Where(column(filter.Field)+" = ?", filter.Value).Order("id").First(&rec).Error
	if gorm.IsRecordNotFoundError(err) {
		var zero T
		return zero, false, nil
	}
	if err != nil {
		var zero T
		return zero, false, fmt.Errorf("could not get %s: %w", s.kind, err)
	}
	return rec, true, nil
}

func (s *Store[T]) Create(ctx context.Context, rec T) (T, error) {
	rec = rec.WithID(uuid.NewString())

	err := s.db.Create(&rec).Error
	if err != nil {
		var zero T
		return zero, fmt.Errorf("could not create %s: %w", s.kind, err)
	}
	return rec, nil
}

func (s *Store[T]) Insert(ctx context.Context, rec T) (T, error) {
	var zero T
	if rec.GetID() == "" {
		return zero, apperror.Validation("%s id is empty", s.kind)
	}

	tx := s.db.Begin()
	if tx.Error != nil {
		return zero, fmt.Errorf("could not begin transaction: %w", tx.Error)
	}

	_, exists, err := s.first(tx, storage.ByID(rec.GetID()))
	if err != nil {
		tx.Rollback()
		return zero, err
	}
	if exists {
		tx.Rollback()
		return zero, apperror.Conflict("%s %s already exists", s.kind, rec.GetID())
	}

	if err := tx.Create(&rec).Error; err != nil {
		tx.Rollback()
		return zero, fmt.Errorf("could not insert %s: %w", s.kind, err)
	}
	if err := tx.Commit().Error; err != nil {
		return zero, fmt.Errorf("could not commit %s insert: %w", s.kind, err)
	}
	return rec, nil
}

func (s *Store[T]) Change(ctx context.Context, id string, patch storage.Patch[T]) (T, error) {
	var zero T

	tx := s.db.Begin()
	if tx.Error != nil {
		return zero, fmt.Errorf("could not begin transaction: %w", tx.Error)
	}

	rec, ok, err := s.first(tx, storage.ByID(id))
	if err != nil {
		tx.Rollback()
		return zero, err
	}
	if !ok {
		tx.Rollback()
		return zero, apperror.NotFound("%s %s not found", s.kind, id)
	}

	updated := patch.Apply(rec).WithID(id)
	if err := tx.Save(&updated).Error; err != nil {
		tx.Rollback()
		return zero, fmt.Errorf("could not update %s: %w", s.kind, err)
	}
	if err := tx.Commit().Error; err != nil {
		return zero, fmt.Errorf("could not commit %s update: %w", s.kind, err)
	}
	return updated, nil
}

func (s *Store[T]) Delete(ctx context.Context, id string) (T, error) {
	var zero T

	tx := s.db.Begin()
	if tx.Error != nil {
		return zero, fmt.Errorf("could not begin transaction: %w", tx.Error)
	}

	rec, ok, err := s.first(tx, storage.ByID(id))
	if err != nil {
		tx.Rollback()
		return zero, err
	}
	if !ok {
		tx.Rollback()
		return zero, apperror.NotFound("%s %s not found", s.kind, id)
	}

	// условие по id обязательно: gorm v1 без него удалит всю таблицу
	if err := tx.Where("id = ?", id).Delete(&rec).Error; err != nil {
		tx.Rollback()
		return zero, fmt.Errorf("could not delete %s: %w", s.kind, err)
	}
	if err := tx.Commit().Error; err != nil {
		return zero, fmt.Errorf("could not commit %s delete: %w", s.kind, err)
	}
	return rec, nil
}
