package aggregate

import (
	"context"
	"fmt"

	"github.com/VitaminP8/memberhub/internal/storage"
	"github.com/VitaminP8/memberhub/internal/user"
	"github.com/VitaminP8/memberhub/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// fanOut - сколько пользователей собирается параллельно
const fanOut = 16

// Resolver собирает составные представления. Каждое представление читается
// в одной секции DB.Read, поэтому не видит наполовину примененных записей.
type Resolver struct {
	db  *storage.DB
	log *zap.Logger
}

func NewResolver(db *storage.DB, log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{db: db, log: log}
}

func (r *Resolver) GetAllAboutUser(ctx context.Context, id string) (models.AllAboutUser, error) {
	var out models.AllAboutUser
	err := r.db.Read(ctx, func(v *storage.View) error {
		u, err := user.Find(ctx, v.Users, id)
		if err != nil {
			return err
		}
		out, err = allAbout(ctx, v, u)
		return err
	})
	return out, err
}

func (r *Resolver) GetAllAboutUsers(ctx context.Context) ([]models.AllAboutUser, error) {
	var out []models.AllAboutUser
	err := r.db.Read(ctx, func(v *storage.View) error {
		var err error
		out, err = eachUser(ctx, v, func(ctx context.Context, u models.User) (models.AllAboutUser, error) {
			return allAbout(ctx, v, u)
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("get all about users: %w", err)
	}
	return out, nil
}

func (r *Resolver) GetUsersWithSubs(ctx context.Context) ([]models.UserWithSubs, error) {
	var out []models.UserWithSubs
	err := r.db.Read(ctx, func(v *storage.View) error {
		var err error
		out, err = eachUser(ctx, v, func(ctx context.Context, u models.User) (models.UserWithSubs, error) {
			return models.UserWithSubs{
				User:             u,
				UserSubscribedTo: v.Followers(u.ID),
				SubscribedToUser: u.SubscribedToUserIds.Clone(),
			}, nil
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("get users with subs: %w", err)
	}
	return out, nil
}

func (r *Resolver) GetUsersSubsAndProfile(ctx context.Context) ([]models.UserSubsAndProfile, error) {
	var out []models.UserSubsAndProfile
	err := r.db.Read(ctx, func(v *storage.View) error {
		var err error
		out, err = eachUser(ctx, v, func(ctx context.Context, u models.User) (models.UserSubsAndProfile, error) {
			profile, err := findProfile(ctx, v, u.ID)
			if err != nil {
				return models.UserSubsAndProfile{}, err
			}
			return models.UserSubsAndProfile{
				User:             u,
				UserSubscribedTo: v.Followers(u.ID),
				Profile:          profile,
			}, nil
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("get users subs and profile: %w", err)
	}
	return out, nil
}

func (r *Resolver) GetUserPostsSubs(ctx context.Context, id string) (models.UserPostsSubs, error) {
	var out models.UserPostsSubs
	err := r.db.Read(ctx, func(v *storage.View) error {
		u, err := user.Find(ctx, v.Users, id)
		if err != nil {
			return err
		}
		posts, err := findPosts(ctx, v, u.ID)
		if err != nil {
			return err
		}
		out = models.UserPostsSubs{
			User:             u,
			SubscribedToUser: u.SubscribedToUserIds.Clone(),
			Posts:            posts,
		}
		return nil
	})
	return out, err
}

// eachUser применяет build к каждому пользователю параллельно.
// Результат идет в порядке перечисления пользователей хранилищем.
func eachUser[R any](ctx context.Context, v *storage.View, build func(ctx context.Context, u models.User) (R, error)) ([]R, error) {
	users, err := v.Users.FindMany(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	results := make([]R, len(users))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fanOut)
	for i, u := range users {
		i, u := i, u
		g.Go(func() error {
			res, err := build(gctx, u)
			if err != nil {
				return fmt.Errorf("user %s: %w", u.ID, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// allAbout параллельно достает профиль с типом членства и посты пользователя
func allAbout(ctx context.Context, v *storage.View, u models.User) (models.AllAboutUser, error) {
	out := models.AllAboutUser{User: u}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		profile, err := findProfile(gctx, v, u.ID)
		if err != nil || profile == nil {
			return err
		}
		out.Profile = profile

		mt, ok, err := v.MemberTypes.FindOne(gctx, storage.ByID(profile.MemberTypeID))
		if err != nil {
			return fmt.Errorf("get member type: %w", err)
		}
		if ok {
			out.MemberType = &mt
		}
		return nil
	})
	g.Go(func() error {
		posts, err := findPosts(gctx, v, u.ID)
		if err != nil {
			return err
		}
		out.Posts = posts
		return nil
	})

	if err := g.Wait(); err != nil {
		return models.AllAboutUser{}, err
	}
	return out, nil
}

func findProfile(ctx context.Context, v *storage.View, userID string) (*models.Profile, error) {
	p, ok, err := v.Profiles.FindOne(ctx, *storage.FieldEquals(models.FieldUserID, userID))
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func findPosts(ctx context.Context, v *storage.View, userID string) ([]models.Post, error) {
	posts, err := v.Posts.FindMany(ctx, storage.FieldEquals(models.FieldUserID, userID))
	if err != nil {
		return nil, fmt.Errorf("get posts: %w", err)
	}
	return posts, nil
}
