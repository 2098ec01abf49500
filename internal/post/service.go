package post

import (
	"context"
	"fmt"

	"github.com/VitaminP8/memberhub/internal/apperror"
	"github.com/VitaminP8/memberhub/internal/metrics"
	"github.com/VitaminP8/memberhub/internal/storage"
	"github.com/VitaminP8/memberhub/internal/user"
	"github.com/VitaminP8/memberhub/models"
	"go.uber.org/zap"
)

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

func Find(ctx context.Context, store storage.Store[models.Post], id string) (models.Post, error) {
	p, ok, err := store.FindOne(ctx, storage.ByID(id))
	if err != nil {
		return p, fmt.Errorf("get post: %w", err)
	}
	if !ok {
		return p, apperror.NotFound("post %s not found", id)
	}
	return p, nil
}

func (s *Service) List(ctx context.Context) ([]models.Post, error) {
	var list []models.Post
	err := s.db.Read(ctx, func(v *storage.View) error {
		var err error
		list, err = v.Posts.FindMany(ctx, nil)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return list, nil
}

func (s *Service) Get(ctx context.Context, id string) (models.Post, error) {
	var p models.Post
	err := s.db.Read(ctx, func(v *storage.View) error {
		var err error
		p, err = Find(ctx, v.Posts, id)
		return err
	})
	return p, err
}

func (s *Service) Create(ctx context.Context, in models.Post) (p models.Post, err error) {
	defer func() { s.observe("createPost", err) }()

	if in.UserID == "" {
		return models.Post{}, apperror.Validation("userId is required")
	}
	in.ID = ""

	err = s.db.Write(ctx, func(tx *storage.Tx) error {
		if _, err := user.Find(ctx, tx.Users, in.UserID); err != nil {
			return err
		}

		var err error
		p, err = tx.Posts.Create(ctx, in)
		if err != nil {
			return fmt.Errorf("create post: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.Post{}, err
	}
	s.log.Debug("post created", zap.String("post_id", p.ID), zap.String("user_id", p.UserID))
	return p, nil
}

// Update при смене автора проверяет, что новый автор существует
func (s *Service) Update(ctx context.Context, id string, patch models.PostPatch) (p models.Post, err error) {
	defer func() { s.observe("updatePost", err) }()

	err = s.db.Write(ctx, func(tx *storage.Tx) error {
		if _, err := Find(ctx, tx.Posts, id); err != nil {
			return err
		}
		if patch.UserID != nil {
			if *patch.UserID == "" {
				return apperror.Validation("userId must not be empty")
			}
			if _, err := user.Find(ctx, tx.Users, *patch.UserID); err != nil {
				return err
			}
		}

		var err error
		p, err = tx.Posts.Change(ctx, id, patch)
		if err != nil {
			return fmt.Errorf("update post: %w", err)
		}
		return nil
	})
	return p, err
}

func (s *Service) Delete(ctx context.Context, id string) (p models.Post, err error) {
	defer func() { s.observe("deletePost", err) }()

	err = s.db.Write(ctx, func(tx *storage.Tx) error {
		var err error
		p, err = tx.Posts.Delete(ctx, id)
		if err != nil {
			return fmt.Errorf("delete post: %w", err)
		}
		return nil
	})
	return p, err
}
