package membertype

import (
	"context"
	"fmt"

	"github.com/VitaminP8/memberhub/internal/apperror"
	"github.com/VitaminP8/memberhub/internal/metrics"
	"github.com/VitaminP8/memberhub/internal/storage"
	"github.com/VitaminP8/memberhub/models"
	"go.uber.org/zap"
)

// Service - каталог типов членства. Создания и удаления нет, каталог заливается Seed.
type Service struct {
	db      *storage.DB
	log     *zap.Logger
	metrics metrics.Observer
}

func NewService(db *storage.DB, log *zap.Logger, m metrics.Observer) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{db: db, log: log, metrics: m}
}

func Find(ctx context.Context, store storage.Store[models.MemberType], id string) (models.MemberType, error) {
	mt, ok, err := store.FindOne(ctx, storage.ByID(id))
	if err != nil {
		return mt, fmt.Errorf("get member type: %w", err)
	}
	if !ok {
		return mt, apperror.NotFound("member type %s not found", id)
	}
	return mt, nil
}

func (s *Service) List(ctx context.Context) ([]models.MemberType, error) {
	var list []models.MemberType
	err := s.db.Read(ctx, func(v *storage.View) error {
		var err error
		list, err = v.MemberTypes.FindMany(ctx, nil)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list member types: %w", err)
	}
	return list, nil
}

func (s *Service) Get(ctx context.Context, id string) (models.MemberType, error) {
	var mt models.MemberType
	err := s.db.Read(ctx, func(v *storage.View) error {
		var err error
		mt, err = Find(ctx, v.MemberTypes, id)
		return err
	})
	return mt, err
}

func (s *Service) Update(ctx context.Context, id string, patch models.MemberTypePatch) (mt models.MemberType, err error) {
	defer func() {
		if s.metrics != nil {
			s.metrics.ObserveMutation("updateMemberType", metrics.Result(err))
		}
	}()

	err = s.db.Write(ctx, func(tx *storage.Tx) error {
		var err error
		mt, err = tx.MemberTypes.Change(ctx, id, patch)
		if err != nil {
			return fmt.Errorf("update member type: %w", err)
		}
		return nil
	})
	return mt, err
}

// Seed добавляет отсутствующие записи каталога. Существующие не трогает.
func (s *Service) Seed(ctx context.Context, catalog []models.MemberType) error {
	return s.db.Write(ctx, func(tx *storage.Tx) error {
		for _, mt := range catalog {
			_, ok, err := tx.MemberTypes.FindOne(ctx, storage.ByID(mt.ID))
			if err != nil {
				return fmt.Errorf("seed member types: %w", err)
			}
			if ok {
				continue
			}
			if _, err := tx.MemberTypes.Insert(ctx, mt); err != nil {
				return fmt.Errorf("seed member type %s: %w", mt.ID, err)
			}
			s.log.Info("member type seeded", zap.String("member_type_id", mt.ID))
		}
		return nil
	})
}
