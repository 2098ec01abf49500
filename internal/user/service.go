package user

import (
	"context"
	"fmt"

	"github.com/VitaminP8/memberhub/internal/apperror"
	"github.com/VitaminP8/memberhub/internal/metrics"
	"github.com/VitaminP8/memberhub/internal/storage"
	"github.com/VitaminP8/memberhub/models"
	"go.uber.org/zap"
)

// Service - операции над пользователями с каскадным удалением.
// Методы с суффиксом Tx работают внутри уже открытой секции записи.
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

func (s *Service) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.db.Read(ctx, func(v *storage.View) error {
		var err error
		users, err = v.Users.FindMany(ctx, nil)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *Service) Get(ctx context.Context, id string) (models.User, error) {
	var u models.User
	err := s.db.Read(ctx, func(v *storage.View) error {
		var err error
		u, err = Find(ctx, v.Users, id)
		return err
	})
	return u, err
}

// Find достает пользователя из хранилища, отсутствие - NotFound
func Find(ctx context.Context, users storage.Store[models.User], id string) (models.User, error) {
	u, ok, err := users.FindOne(ctx, storage.ByID(id))
	if err != nil {
		return u, fmt.Errorf("get user: %w", err)
	}
	if !ok {
		return u, apperror.NotFound("user %s not found", id)
	}
	return u, nil
}

// Create сохраняет нового пользователя с пустым списком подписок
func (s *Service) Create(ctx context.Context, in models.User) (u models.User, err error) {
	defer func() { s.observe("createUser", err) }()

	in.ID = ""
	in.SubscribedToUserIds = models.IDList{}

	err = s.db.Write(ctx, func(tx *storage.Tx) error {
		var err error
		u, err = tx.Users.Create(ctx, in)
		if err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.User{}, err
	}
	s.log.Debug("user created", zap.String("user_id", u.ID))
	return u, nil
}

// Update меняет поля профиля пользователя. Список подписок меняется только через subscription.
func (s *Service) Update(ctx context.Context, id string, patch models.UserPatch) (u models.User, err error) {
	defer func() { s.observe("updateUser", err) }()

	err = s.db.Write(ctx, func(tx *storage.Tx) error {
		if _, err := Find(ctx, tx.Users, id); err != nil {
			return err
		}
		if patch.SubscribedToUserIds != nil {
			return apperror.Validation("subscribedToUserIds can only be changed by subscribe and unsubscribe")
		}

		var err error
		u, err = s.UpdateTx(ctx, tx, id, patch)
		return err
	})
	return u, err
}

func (s *Service) UpdateTx(ctx context.Context, tx *storage.Tx, id string, patch models.UserPatch) (models.User, error) {
	u, err := tx.Users.Change(ctx, id, patch)
	if err != nil {
		return models.User{}, fmt.Errorf("update user: %w", err)
	}
	return u, nil
}

func (s *Service) Delete(ctx context.Context, id string) (u models.User, err error) {
	defer func() { s.observe("deleteUser", err) }()

	err = s.db.Write(ctx, func(tx *storage.Tx) error {
		var err error
		u, err = s.DeleteTx(ctx, tx, id)
		return err
	})
	return u, err
}

// DeleteTx удаляет пользователя вместе с профилем, постами и входящими подписками.
// Ошибка любого шага каскада - Internal, секция записи откатит уже сделанные шаги.
func (s *Service) DeleteTx(ctx context.Context, tx *storage.Tx, id string) (models.User, error) {
	if _, err := Find(ctx, tx.Users, id); err != nil {
		return models.User{}, err
	}

	profile, ok, err := tx.Profiles.FindOne(ctx, *storage.FieldEquals(models.FieldUserID, id))
	if err != nil {
		return models.User{}, apperror.Internal("delete user: find profile", err)
	}
	if ok {
		if _, err := tx.Profiles.Delete(ctx, profile.ID); err != nil {
			return models.User{}, apperror.Internal("delete user: delete profile", err)
		}
	}

	posts, err := tx.Posts.FindMany(ctx, storage.FieldEquals(models.FieldUserID, id))
	if err != nil {
		return models.User{}, apperror.Internal("delete user: find posts", err)
	}
	for _, p := range posts {
		if _, err := tx.Posts.Delete(ctx, p.ID); err != nil {
			return models.User{}, apperror.Internal("delete user: delete post "+p.ID, err)
		}
	}

	followers, err := tx.Users.FindMany(ctx, storage.FieldContains(models.FieldSubscribedToUserIds, id))
	if err != nil {
		return models.User{}, apperror.Internal("delete user: find followers", err)
	}
	for _, f := range followers {
		if f.ID == id {
			continue
		}
		list := f.SubscribedToUserIds.Without(id)
		if _, err := s.UpdateTx(ctx, tx, f.ID, models.UserPatch{SubscribedToUserIds: &list}); err != nil {
			return models.User{}, apperror.Internal("delete user: unsubscribe "+f.ID, err)
		}
	}

	deleted, err := tx.Users.Delete(ctx, id)
	if err != nil {
		return models.User{}, apperror.Internal("delete user", err)
	}

	s.log.Debug("user deleted with cascade",
		zap.String("user_id", id),
		zap.Bool("profile", ok),
		zap.Int("posts", len(posts)),
		zap.Int("followers", len(followers)),
	)
	return deleted, nil
}
