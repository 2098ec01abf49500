package postgres

import (
	"context"
	"testing"

	"github.com/VitaminP8/memberhub/internal/apperror"
	"github.com/VitaminP8/memberhub/internal/storage"
	"github.com/VitaminP8/memberhub/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestStore_Users(t *testing.T) {
	ctx := context.Background()

	t.Run("Create and find by id", func(t *testing.T) {
		store := NewStore[models.User](setupTestDB(t), "user")

		u, err := store.Create(ctx, models.User{FirstName: "Ann", Email: "ann@example.com"})
		require.NoError(t, err)
		assert.NotEmpty(t, u.ID)

		found, ok, err := store.FindOne(ctx, storage.ByID(u.ID))
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "Ann", found.FirstName)
		assert.Empty(t, found.SubscribedToUserIds)
	})

	t.Run("Subscription list survives round trip", func(t *testing.T) {
		store := NewStore[models.User](setupTestDB(t), "user")

		u, err := store.Create(ctx, models.User{SubscribedToUserIds: models.IDList{"b", "a", "c"}})
		require.NoError(t, err)

		found, ok, err := store.FindOne(ctx, storage.ByID(u.ID))
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, models.IDList{"b", "a", "c"}, found.SubscribedToUserIds)
	})

	t.Run("ElementOf filter", func(t *testing.T) {
		store := NewStore[models.User](setupTestDB(t), "user")

		a, _ := store.Create(ctx, models.User{FirstName: "a", SubscribedToUserIds: models.IDList{"x"}})
		_, _ = store.Create(ctx, models.User{FirstName: "b"})

		users, err := store.FindMany(ctx, storage.FieldContains(models.FieldSubscribedToUserIds, "x"))
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, a.ID, users[0].ID)

		one, ok, err := store.FindOne(ctx, *storage.FieldContains(models.FieldSubscribedToUserIds, "x"))
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, a.ID, one.ID)
	})

	t.Run("Change merges patch", func(t *testing.T) {
		store := NewStore[models.User](setupTestDB(t), "user")
		u, _ := store.Create(ctx, models.User{FirstName: "Ann", LastName: "Lee"})

		list := models.IDList{"x"}
		updated, err := store.Change(ctx, u.ID, models.UserPatch{LastName: strPtr("Park"), SubscribedToUserIds: &list})
		require.NoError(t, err)
		assert.Equal(t, "Ann", updated.FirstName)
		assert.Equal(t, "Park", updated.LastName)

		found, _, err := store.FindOne(ctx, storage.ByID(u.ID))
		require.NoError(t, err)
		assert.Equal(t, "Park", found.LastName)
		assert.Equal(t, models.IDList{"x"}, found.SubscribedToUserIds)

		_, err = store.Change(ctx, "missing", models.UserPatch{})
		assert.True(t, apperror.Is(err, apperror.KindNotFound))
	})
}

func TestStore_Posts(t *testing.T) {
	ctx := context.Background()

	t.Run("Equals filter by owner", func(t *testing.T) {
		store := NewStore[models.Post](setupTestDB(t), "post")
		_, _ = store.Create(ctx, models.Post{Title: "1", UserID: "u1"})
		_, _ = store.Create(ctx, models.Post{Title: "2", UserID: "u2"})
		_, _ = store.Create(ctx, models.Post{Title: "3", UserID: "u1"})

		posts, err := store.FindMany(ctx, storage.FieldEquals(models.FieldUserID, "u1"))
		require.NoError(t, err)
		assert.Len(t, posts, 2)
		for _, p := range posts {
			assert.Equal(t, "u1", p.UserID)
		}
	})

	t.Run("Delete removes only one row", func(t *testing.T) {
		store := NewStore[models.Post](setupTestDB(t), "post")
		p1, _ := store.Create(ctx, models.Post{Title: "1"})
		_, _ = store.Create(ctx, models.Post{Title: "2"})

		deleted, err := store.Delete(ctx, p1.ID)
		require.NoError(t, err)
		assert.Equal(t, "1", deleted.Title)

		posts, err := store.FindMany(ctx, nil)
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.Equal(t, "2", posts[0].Title)

		_, err = store.Delete(ctx, p1.ID)
		assert.True(t, apperror.Is(err, apperror.KindNotFound))
	})
}

func TestStore_Insert(t *testing.T) {
	ctx := context.Background()
	store := NewStore[models.MemberType](setupTestDB(t), "member type")

	t.Run("Insert keeps own id", func(t *testing.T) {
		mt, err := store.Insert(ctx, models.MemberType{ID: "business", Discount: 5, MonthPostsLimit: 100})
		require.NoError(t, err)
		assert.Equal(t, "business", mt.ID)

		found, ok, err := store.FindOne(ctx, storage.ByID("business"))
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, 100, found.MonthPostsLimit)
	})

	t.Run("Duplicate id", func(t *testing.T) {
		_, err := store.Insert(ctx, models.MemberType{ID: "business"})
		assert.True(t, apperror.Is(err, apperror.KindConflict))
	})
}

func TestStore_WithDB(t *testing.T) {
	ctx := context.Background()

	t.Run("Failed write is rolled back", func(t *testing.T) {
		db := storage.NewDB(NewStores(setupTestDB(t)), nil)

		var created models.User
		err := db.Write(ctx, func(tx *storage.Tx) error {
			var err error
			created, err = tx.Users.Create(ctx, models.User{FirstName: "temp"})
			require.NoError(t, err)
			_, err = tx.Posts.Create(ctx, models.Post{UserID: created.ID})
			require.NoError(t, err)
			return apperror.Conflict("abort")
		})
		assert.True(t, apperror.Is(err, apperror.KindConflict))

		err = db.Read(ctx, func(v *storage.View) error {
			users, err := v.Users.FindMany(ctx, nil)
			require.NoError(t, err)
			assert.Empty(t, users)
			posts, err := v.Posts.FindMany(ctx, nil)
			require.NoError(t, err)
			assert.Empty(t, posts)
			return nil
		})
		require.NoError(t, err)
	})
}
