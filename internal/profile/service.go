package profile

import (
	"context"
	"fmt"

	"github.com/VitaminP8/memberhub/internal/apperror"
	"github.com/VitaminP8/memberhub/internal/membertype"
	"github.com/VitaminP8/memberhub/internal/metrics"
	"github.com/VitaminP8/memberhub/internal/storage"
	"github.com/VitaminP8/memberhub/internal/user"
	"github.com/VitaminP8/memberhub/models"
	"go.uber.org/zap"
)

// Service - профили пользователей. У пользователя не больше одного профиля.
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

func (s *Service) observe(op string, err error) {
	if s.metrics != nil {
		s.metrics.ObserveMutation(op, metrics.Result(err))
	}
}

func Find(ctx context.Context, store storage.Store[models.Profile], id string) (models.Profile, error) {
	p, ok, err := store.FindOne(ctx, storage.ByID(id))
	if err != nil {
		return p, fmt.Errorf("get profile: %w", err)
	}
	if !ok {
		return p, apperror.NotFound("profile %s not found", id)
	}
	return p, nil
}

func (s *Service) List(ctx context.Context) ([]models.Profile, error) {
	var list []models.Profile
	err := s.db.Read(ctx, func(v *storage.View) error {
		var err error
		list, err = v.Profiles.FindMany(ctx, nil)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return list, nil
}

func (s *Service) Get(ctx context.Context, id string) (models.Profile, error) {
	var p models.Profile
	err := s.db.Read(ctx, func(v *storage.View) error {
		var err error
		p, err = Find(ctx, v.Profiles, id)
		return err
	})
	return p, err
}

func (s *Service) Create(ctx context.Context, in models.Profile) (p models.Profile, err error) {
	defer func() { s.observe("createProfile", err) }()

	if in.UserID == "" {
		return models.Profile{}, apperror.Validation("userId is required")
	}
	if in.MemberTypeID == "" {
		return models.Profile{}, apperror.Validation("memberTypeId is required")
	}
	in.ID = ""

	err = s.db.Write(ctx, func(tx *storage.Tx) error {
		if err := s.checkOwner(ctx, tx, in.UserID, ""); err != nil {
			return err
		}
		if _, err := membertype.Find(ctx, tx.MemberTypes, in.MemberTypeID); err != nil {
			return err
		}

		var err error
		p, err = tx.Profiles.Create(ctx, in)
		if err != nil {
			return fmt.Errorf("create profile: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.Profile{}, err
	}
	s.log.Debug("profile created", zap.String("profile_id", p.ID), zap.String("user_id", p.UserID))
	return p, nil
}

// Update проверяет внешние ключи, присутствующие в патче, теми же правилами, что и Create
func (s *Service) Update(ctx context.Context, id string, patch models.ProfilePatch) (p models.Profile, err error) {
	defer func() { s.observe("updateProfile", err) }()

	err = s.db.Write(ctx, func(tx *storage.Tx) error {
		if _, err := Find(ctx, tx.Profiles, id); err != nil {
			return err
		}
		if patch.UserID != nil {
			if *patch.UserID == "" {
				return apperror.Validation("userId must not be empty")
			}
			if err := s.checkOwner(ctx, tx, *patch.UserID, id); err != nil {
				return err
			}
		}
		if patch.MemberTypeID != nil {
			if *patch.MemberTypeID == "" {
				return apperror.Validation("memberTypeId must not be empty")
			}
			if _, err := membertype.Find(ctx, tx.MemberTypes, *patch.MemberTypeID); err != nil {
				return err
			}
		}

		var err error
		p, err = tx.Profiles.Change(ctx, id, patch)
		if err != nil {
			return fmt.Errorf("update profile: %w", err)
		}
		return nil
	})
	return p, err
}

func (s *Service) Delete(ctx context.Context, id string) (p models.Profile, err error) {
	defer func() { s.observe("deleteProfile", err) }()

	err = s.db.Write(ctx, func(tx *storage.Tx) error {
		var err error
		p, err = tx.Profiles.Delete(ctx, id)
		if err != nil {
			return fmt.Errorf("delete profile: %w", err)
		}
		return nil
	})
	return p, err
}

// checkOwner - пользователь существует и не владеет другим профилем, кроме self
func (s *Service) checkOwner(ctx context.Context, tx *storage.Tx, userID, self string) error {
	if _, err := user.Find(ctx, tx.Users, userID); err != nil {
		return err
	}

	owned, ok, err := tx.Profiles.FindOne(ctx, *storage.FieldEquals(models.FieldUserID, userID))
	if err != nil {
		return fmt.Errorf("find profile by user: %w", err)
	}
	if ok && owned.ID != self {
		return apperror.Conflict("user %s already has profile %s", userID, owned.ID)
	}
	return nil
}
