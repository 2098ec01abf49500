package storage_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/VitaminP8/memberhub/internal/apperror"
	"github.com/VitaminP8/memberhub/internal/mocks"
	"github.com/VitaminP8/memberhub/internal/storage"
	"github.com/VitaminP8/memberhub/internal/storage/memory"
	"github.com/VitaminP8/memberhub/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listPtr(ids ...string) *models.IDList {
	l := models.IDList(ids)
	return &l
}

func TestFilter_Match(t *testing.T) {
	u := models.User{ID: "u1", SubscribedToUserIds: models.IDList{"a", "b"}}

	t.Run("Equals", func(t *testing.T) {
		assert.True(t, storage.ByID("u1").Match(u))
		assert.False(t, storage.ByID("u2").Match(u))
	})

	t.Run("ElementOf", func(t *testing.T) {
		assert.True(t, storage.FieldContains(models.FieldSubscribedToUserIds, "b").Match(u))
		assert.False(t, storage.FieldContains(models.FieldSubscribedToUserIds, "c").Match(u))
	})

	t.Run("Mode does not fit field type", func(t *testing.T) {
		assert.False(t, storage.FieldEquals(models.FieldSubscribedToUserIds, "a").Match(u))
		assert.False(t, storage.FieldContains(models.FieldID, "u1").Match(u))
	})

	t.Run("Unknown field", func(t *testing.T) {
		assert.False(t, storage.FieldEquals("nickname", "u1").Match(u))
	})
}

func TestDB_Write(t *testing.T) {
	ctx := context.Background()

	t.Run("Commit keeps changes", func(t *testing.T) {
		db := storage.NewDB(memory.NewStores(), nil)

		err := db.Write(ctx, func(tx *storage.Tx) error {
			_, err := tx.Users.Create(ctx, models.User{FirstName: "Ann"})
			return err
		})
		require.NoError(t, err)

		err = db.Read(ctx, func(v *storage.View) error {
			users, err := v.Users.FindMany(ctx, nil)
			require.NoError(t, err)
			assert.Len(t, users, 1)
			return nil
		})
		require.NoError(t, err)
	})

	t.Run("Error rolls back every step", func(t *testing.T) {
		db := storage.NewDB(memory.NewStores(), nil)

		var seeded models.User
		require.NoError(t, db.Write(ctx, func(tx *storage.Tx) error {
			var err error
			seeded, err = tx.Users.Create(ctx, models.User{FirstName: "Ann"})
			if err != nil {
				return err
			}
			_, err = tx.Posts.Create(ctx, models.Post{Title: "keep", UserID: seeded.ID})
			return err
		}))

		abort := apperror.Conflict("abort")
		err := db.Write(ctx, func(tx *storage.Tx) error {
			if _, err := tx.Users.Change(ctx, seeded.ID, models.UserPatch{FirstName: strPtr("Bob")}); err != nil {
				return err
			}
			posts, err := tx.Posts.FindMany(ctx, nil)
			if err != nil {
				return err
			}
			if _, err := tx.Posts.Delete(ctx, posts[0].ID); err != nil {
				return err
			}
			if _, err := tx.Users.Create(ctx, models.User{FirstName: "Temp"}); err != nil {
				return err
			}
			return abort
		})
		assert.ErrorIs(t, err, abort)

		require.NoError(t, db.Read(ctx, func(v *storage.View) error {
			users, err := v.Users.FindMany(ctx, nil)
			require.NoError(t, err)
			require.Len(t, users, 1)
			assert.Equal(t, "Ann", users[0].FirstName)

			posts, err := v.Posts.FindMany(ctx, nil)
			require.NoError(t, err)
			require.Len(t, posts, 1)
			assert.Equal(t, "keep", posts[0].Title)
			return nil
		}))
	})

	t.Run("Rolled back deletes keep enumeration order", func(t *testing.T) {
		db := storage.NewDB(memory.NewStores(), nil)

		var ids []string
		require.NoError(t, db.Write(ctx, func(tx *storage.Tx) error {
			for _, title := range []string{"a", "b", "c", "d"} {
				p, err := tx.Posts.Create(ctx, models.Post{Title: title})
				if err != nil {
					return err
				}
				ids = append(ids, p.ID)
			}
			return nil
		}))

		boom := errors.New("boom")
		err := db.Write(ctx, func(tx *storage.Tx) error {
			if _, err := tx.Posts.Delete(ctx, ids[0]); err != nil {
				return err
			}
			if _, err := tx.Posts.Delete(ctx, ids[2]); err != nil {
				return err
			}
			return boom
		})
		require.ErrorIs(t, err, boom)

		require.NoError(t, db.Read(ctx, func(v *storage.View) error {
			posts, err := v.Posts.FindMany(ctx, nil)
			require.NoError(t, err)
			got := make([]string, 0, len(posts))
			for _, p := range posts {
				got = append(got, p.ID)
			}
			assert.Equal(t, ids, got)
			return nil
		}))
	})

	t.Run("Failed undo step is internal", func(t *testing.T) {
		stores := memory.NewStores()
		users := mocks.Wrap(stores.Users)
		stores.Users = users
		db := storage.NewDB(stores, nil)

		var u models.User
		require.NoError(t, db.Write(ctx, func(tx *storage.Tx) error {
			var err error
			u, err = tx.Users.Create(ctx, models.User{FirstName: "Ann"})
			return err
		}))

		users.FailChangesAfter(1, errors.New("disk is gone"))
		err := db.Write(ctx, func(tx *storage.Tx) error {
			if _, err := tx.Users.Change(ctx, u.ID, models.UserPatch{FirstName: strPtr("Bob")}); err != nil {
				return err
			}
			return apperror.Validation("abort")
		})
		assert.True(t, apperror.Is(err, apperror.KindInternal))
		assert.Contains(t, err.Error(), "disk is gone")
	})
}

func TestDB_FollowerIndex(t *testing.T) {
	ctx := context.Background()

	t.Run("Index follows committed user changes", func(t *testing.T) {
		db := storage.NewDB(memory.NewStores(), nil)

		var a, b, c models.User
		require.NoError(t, db.Write(ctx, func(tx *storage.Tx) error {
			a, _ = tx.Users.Create(ctx, models.User{FirstName: "a"})
			b, _ = tx.Users.Create(ctx, models.User{FirstName: "b"})
			c, _ = tx.Users.Create(ctx, models.User{FirstName: "c"})
			_, err := tx.Users.Change(ctx, a.ID, models.UserPatch{SubscribedToUserIds: listPtr(c.ID)})
			if err != nil {
				return err
			}
			_, err = tx.Users.Change(ctx, b.ID, models.UserPatch{SubscribedToUserIds: listPtr(c.ID, a.ID)})
			return err
		}))

		require.NoError(t, db.Read(ctx, func(v *storage.View) error {
			assert.ElementsMatch(t, []string{a.ID, b.ID}, v.Followers(c.ID))
			assert.Equal(t, []string{b.ID}, v.Followers(a.ID))
			assert.Empty(t, v.Followers(b.ID))
			return nil
		}))

		require.NoError(t, db.Write(ctx, func(tx *storage.Tx) error {
			_, err := tx.Users.Delete(ctx, b.ID)
			return err
		}))

		require.NoError(t, db.Read(ctx, func(v *storage.View) error {
			assert.Equal(t, []string{a.ID}, v.Followers(c.ID))
			assert.Empty(t, v.Followers(a.ID))
			return nil
		}))
	})

	t.Run("Rolled back changes do not reach index", func(t *testing.T) {
		db := storage.NewDB(memory.NewStores(), nil)

		var a, b models.User
		require.NoError(t, db.Write(ctx, func(tx *storage.Tx) error {
			a, _ = tx.Users.Create(ctx, models.User{})
			b, _ = tx.Users.Create(ctx, models.User{})
			return nil
		}))

		_ = db.Write(ctx, func(tx *storage.Tx) error {
			_, _ = tx.Users.Change(ctx, a.ID, models.UserPatch{SubscribedToUserIds: listPtr(b.ID)})
			return apperror.Conflict("abort")
		})

		require.NoError(t, db.Read(ctx, func(v *storage.View) error {
			assert.Empty(t, v.Followers(b.ID))
			return nil
		}))
	})

	t.Run("Rebuild from store", func(t *testing.T) {
		stores := memory.NewStores()
		_, _ = stores.Users.Insert(ctx, models.User{ID: "a", SubscribedToUserIds: models.IDList{"b"}})
		_, _ = stores.Users.Insert(ctx, models.User{ID: "b"})
		_, _ = stores.Users.Insert(ctx, models.User{ID: "c", SubscribedToUserIds: models.IDList{"b", "a"}})

		db := storage.NewDB(stores, nil)
		require.NoError(t, db.RebuildIndex(ctx))

		require.NoError(t, db.Read(ctx, func(v *storage.View) error {
			assert.Equal(t, []string{"a", "c"}, v.Followers("b"))
			assert.Equal(t, []string{"c"}, v.Followers("a"))
			return nil
		}))
	})
}

func TestDB_ConcurrentWriters(t *testing.T) {
	ctx := context.Background()
	db := storage.NewDB(memory.NewStores(), nil)

	var u models.User
	require.NoError(t, db.Write(ctx, func(tx *storage.Tx) error {
		var err error
		u, err = tx.Users.Create(ctx, models.User{})
		return err
	}))

	// чтение-изменение-запись списка под Write не теряет обновлений
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = db.Write(ctx, func(tx *storage.Tx) error {
				cur, _, err := tx.Users.FindOne(ctx, storage.ByID(u.ID))
				if err != nil {
					return err
				}
				list := append(cur.SubscribedToUserIds.Clone(), string(rune('A'+i)))
				_, err = tx.Users.Change(ctx, u.ID, models.UserPatch{SubscribedToUserIds: &list})
				return err
			})
		}(i)
	}
	wg.Wait()

	require.NoError(t, db.Read(ctx, func(v *storage.View) error {
		got, _, err := v.Users.FindOne(ctx, storage.ByID(u.ID))
		require.NoError(t, err)
		assert.Len(t, got.SubscribedToUserIds, 50)
		return nil
	}))
}

func strPtr(s string) *string { return &s }
