package user_test

import (
	"context"
	"errors"
	"testing"

	"github.com/VitaminP8/memberhub/internal/apperror"
	"github.com/VitaminP8/memberhub/internal/membertype"
	"github.com/VitaminP8/memberhub/internal/mocks"
	"github.com/VitaminP8/memberhub/internal/post"
	"github.com/VitaminP8/memberhub/internal/profile"
	"github.com/VitaminP8/memberhub/internal/storage"
	"github.com/VitaminP8/memberhub/internal/storage/memory"
	"github.com/VitaminP8/memberhub/internal/subscription"
	"github.com/VitaminP8/memberhub/internal/user"
	"github.com/VitaminP8/memberhub/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	db       *storage.DB
	stores   storage.Stores
	users    *user.Service
	profiles *profile.Service
	posts    *post.Service
	subs     *subscription.SubscriptionManager
}

func newFixture(t *testing.T, stores storage.Stores) *fixture {
	t.Helper()

	db := storage.NewDB(stores, nil)
	users := user.NewService(db, nil, nil)
	f := &fixture{
		db:       db,
		stores:   stores,
		users:    users,
		profiles: profile.NewService(db, nil, nil),
		posts:    post.NewService(db, nil, nil),
		subs:     subscription.NewSubscriptionManager(db, users, nil, nil),
	}
	require.NoError(t, membertype.NewService(db, nil, nil).Seed(context.Background(), models.DefaultMemberTypes()))
	return f
}

func strPtr(s string) *string { return &s }

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, memory.NewStores())

	t.Run("Starts with empty subscriptions", func(t *testing.T) {
		u, err := f.users.Create(ctx, models.User{
			ID:                  "ignored",
			FirstName:           "Ann",
			Email:               "ann@example.com",
			SubscribedToUserIds: models.IDList{"someone"},
		})
		require.NoError(t, err)
		assert.NotEqual(t, "ignored", u.ID)
		assert.Equal(t, "Ann", u.FirstName)
		assert.NotNil(t, u.SubscribedToUserIds)
		assert.Empty(t, u.SubscribedToUserIds)

		got, err := f.users.Get(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, u, got)
	})

	t.Run("Get missing user", func(t *testing.T) {
		_, err := f.users.Get(ctx, "missing")
		assert.True(t, apperror.Is(err, apperror.KindNotFound))
	})
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, memory.NewStores())

	u, err := f.users.Create(ctx, models.User{FirstName: "Ann", LastName: "Lee"})
	require.NoError(t, err)

	t.Run("Partial update", func(t *testing.T) {
		updated, err := f.users.Update(ctx, u.ID, models.UserPatch{LastName: strPtr("Park")})
		require.NoError(t, err)
		assert.Equal(t, "Ann", updated.FirstName)
		assert.Equal(t, "Park", updated.LastName)
	})

	t.Run("Missing user", func(t *testing.T) {
		_, err := f.users.Update(ctx, "missing", models.UserPatch{FirstName: strPtr("x")})
		assert.True(t, apperror.Is(err, apperror.KindNotFound))
	})

	t.Run("Subscriptions are not editable directly", func(t *testing.T) {
		list := models.IDList{u.ID}
		_, err := f.users.Update(ctx, u.ID, models.UserPatch{SubscribedToUserIds: &list})
		assert.True(t, apperror.Is(err, apperror.KindValidation))
	})

	t.Run("Missing user wins over subscription list check", func(t *testing.T) {
		list := models.IDList{u.ID}
		_, err := f.users.Update(ctx, "missing", models.UserPatch{SubscribedToUserIds: &list})
		assert.True(t, apperror.Is(err, apperror.KindNotFound))
	})
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("Cascade removes profile, posts and incoming subscriptions", func(t *testing.T) {
		f := newFixture(t, memory.NewStores())

		u, _ := f.users.Create(ctx, models.User{FirstName: "victim"})
		a, _ := f.users.Create(ctx, models.User{FirstName: "a"})
		b, _ := f.users.Create(ctx, models.User{FirstName: "b"})

		p, err := f.profiles.Create(ctx, models.Profile{UserID: u.ID, MemberTypeID: "basic"})
		require.NoError(t, err)
		post1, err := f.posts.Create(ctx, models.Post{UserID: u.ID, Title: "1"})
		require.NoError(t, err)
		post2, err := f.posts.Create(ctx, models.Post{UserID: u.ID, Title: "2"})
		require.NoError(t, err)
		other, err := f.posts.Create(ctx, models.Post{UserID: a.ID, Title: "other"})
		require.NoError(t, err)

		_, err = f.subs.Subscribe(ctx, a.ID, u.ID)
		require.NoError(t, err)
		_, err = f.subs.Subscribe(ctx, a.ID, b.ID)
		require.NoError(t, err)
		_, err = f.subs.Subscribe(ctx, b.ID, u.ID)
		require.NoError(t, err)
		_, err = f.subs.Subscribe(ctx, u.ID, a.ID)
		require.NoError(t, err)

		deleted, err := f.users.Delete(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, u.ID, deleted.ID)

		_, err = f.users.Get(ctx, u.ID)
		assert.True(t, apperror.Is(err, apperror.KindNotFound))
		_, err = f.profiles.Get(ctx, p.ID)
		assert.True(t, apperror.Is(err, apperror.KindNotFound))
		_, err = f.posts.Get(ctx, post1.ID)
		assert.True(t, apperror.Is(err, apperror.KindNotFound))
		_, err = f.posts.Get(ctx, post2.ID)
		assert.True(t, apperror.Is(err, apperror.KindNotFound))

		_, err = f.posts.Get(ctx, other.ID)
		assert.NoError(t, err)

		gotA, err := f.users.Get(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, models.IDList{b.ID}, gotA.SubscribedToUserIds)
		gotB, err := f.users.Get(ctx, b.ID)
		require.NoError(t, err)
		assert.Empty(t, gotB.SubscribedToUserIds)

		followers, err := f.subs.Followers(ctx, a.ID)
		require.NoError(t, err)
		assert.Empty(t, followers)
	})

	t.Run("Missing user", func(t *testing.T) {
		f := newFixture(t, memory.NewStores())

		_, err := f.users.Delete(ctx, "missing")
		assert.True(t, apperror.Is(err, apperror.KindNotFound))
	})

	t.Run("Failed cascade step rolls everything back", func(t *testing.T) {
		stores := memory.NewStores()
		posts := mocks.Wrap(stores.Posts)
		stores.Posts = posts
		f := newFixture(t, stores)

		u, _ := f.users.Create(ctx, models.User{})
		a, _ := f.users.Create(ctx, models.User{})
		_, err := f.profiles.Create(ctx, models.Profile{UserID: u.ID, MemberTypeID: "business"})
		require.NoError(t, err)
		_, _ = f.posts.Create(ctx, models.Post{UserID: u.ID, Title: "1"})
		_, _ = f.posts.Create(ctx, models.Post{UserID: a.ID, Title: "other"})
		_, _ = f.posts.Create(ctx, models.Post{UserID: u.ID, Title: "3"})
		_, err = f.subs.Subscribe(ctx, a.ID, u.ID)
		require.NoError(t, err)

		// первый пост удалится, на втором хранилище упадет
		posts.FailDeletesAfter(1, errors.New("storage is down"))

		_, err = f.users.Delete(ctx, u.ID)
		assert.True(t, apperror.Is(err, apperror.KindInternal))

		_, err = f.users.Get(ctx, u.ID)
		assert.NoError(t, err)

		list, err := f.profiles.List(ctx)
		require.NoError(t, err)
		assert.Len(t, list, 1)

		// восстановленный пост возвращается на свое место в перечислении
		all, err := f.posts.List(ctx)
		require.NoError(t, err)
		titles := make([]string, 0, len(all))
		for _, p := range all {
			titles = append(titles, p.Title)
		}
		assert.Equal(t, []string{"1", "other", "3"}, titles)

		users, err := f.users.List(ctx)
		require.NoError(t, err)
		require.Len(t, users, 2)
		assert.Equal(t, u.ID, users[0].ID)
		assert.Equal(t, a.ID, users[1].ID)

		gotA, err := f.users.Get(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, models.IDList{u.ID}, gotA.SubscribedToUserIds)

		followers, err := f.subs.Followers(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{a.ID}, followers)
	})
}
