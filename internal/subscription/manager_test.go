package subscription

import (
	"context"
	"sync"
	"testing"

	"github.com/VitaminP8/memberhub/internal/apperror"
	"github.com/VitaminP8/memberhub/internal/storage"
	"github.com/VitaminP8/memberhub/internal/storage/memory"
	"github.com/VitaminP8/memberhub/internal/user"
	"github.com/VitaminP8/memberhub/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*SubscriptionManager, *user.Service, *storage.DB) {
	t.Helper()

	db := storage.NewDB(memory.NewStores(), nil)
	users := user.NewService(db, nil, nil)
	return NewSubscriptionManager(db, users, nil, nil), users, db
}

func TestSubscriptionManager_Subscribe(t *testing.T) {
	ctx := context.Background()

	t.Run("Appends target to actor list", func(t *testing.T) {
		m, users, _ := setup(t)
		u1, _ := users.Create(ctx, models.User{})
		u2, _ := users.Create(ctx, models.User{})
		u3, _ := users.Create(ctx, models.User{})

		actor, err := m.Subscribe(ctx, u1.ID, u2.ID)
		require.NoError(t, err)
		assert.Equal(t, models.IDList{u2.ID}, actor.SubscribedToUserIds)

		actor, err = m.Subscribe(ctx, u1.ID, u3.ID)
		require.NoError(t, err)
		assert.Equal(t, models.IDList{u2.ID, u3.ID}, actor.SubscribedToUserIds)

		// список цели не меняется
		target, err := users.Get(ctx, u2.ID)
		require.NoError(t, err)
		assert.Empty(t, target.SubscribedToUserIds)
	})

	t.Run("Duplicate edge is a conflict", func(t *testing.T) {
		m, users, _ := setup(t)
		a, _ := users.Create(ctx, models.User{})
		b, _ := users.Create(ctx, models.User{})

		_, err := m.Subscribe(ctx, a.ID, b.ID)
		require.NoError(t, err)
		_, err = m.Subscribe(ctx, a.ID, b.ID)
		assert.True(t, apperror.Is(err, apperror.KindConflict))

		got, err := users.Get(ctx, a.ID)
		require.NoError(t, err)
		assert.Len(t, got.SubscribedToUserIds, 1)
	})

	t.Run("Self subscription is invalid", func(t *testing.T) {
		m, users, _ := setup(t)
		a, _ := users.Create(ctx, models.User{})

		_, err := m.Subscribe(ctx, a.ID, a.ID)
		assert.True(t, apperror.Is(err, apperror.KindValidation))
		assert.Contains(t, err.Error(), "cannot subscribe to themselves")

		_, err = m.Unsubscribe(ctx, a.ID, a.ID)
		assert.True(t, apperror.Is(err, apperror.KindValidation))
		assert.Contains(t, err.Error(), "cannot unsubscribe from themselves")
	})

	t.Run("Missing users", func(t *testing.T) {
		m, users, _ := setup(t)
		a, _ := users.Create(ctx, models.User{})

		_, err := m.Subscribe(ctx, a.ID, "missing")
		assert.True(t, apperror.Is(err, apperror.KindNotFound))
		_, err = m.Subscribe(ctx, "missing", a.ID)
		assert.True(t, apperror.Is(err, apperror.KindNotFound))
	})

	t.Run("Concurrent subscribes do not lose updates", func(t *testing.T) {
		m, users, _ := setup(t)
		actor, _ := users.Create(ctx, models.User{})

		var targets []string
		for i := 0; i < 20; i++ {
			u, _ := users.Create(ctx, models.User{})
			targets = append(targets, u.ID)
		}

		var wg sync.WaitGroup
		for _, id := range targets {
			wg.Add(1)
			go func(id string) {
				defer wg.Done()
				_, err := m.Subscribe(ctx, actor.ID, id)
				assert.NoError(t, err)
			}(id)
		}
		wg.Wait()

		got, err := users.Get(ctx, actor.ID)
		require.NoError(t, err)
		assert.ElementsMatch(t, targets, []string(got.SubscribedToUserIds))
	})
}

func TestSubscriptionManager_Unsubscribe(t *testing.T) {
	ctx := context.Background()

	t.Run("Round trip restores list", func(t *testing.T) {
		m, users, _ := setup(t)
		a, _ := users.Create(ctx, models.User{})
		b, _ := users.Create(ctx, models.User{})
		c, _ := users.Create(ctx, models.User{})
		d, _ := users.Create(ctx, models.User{})

		_, _ = m.Subscribe(ctx, a.ID, c.ID)
		_, _ = m.Subscribe(ctx, a.ID, d.ID)
		before, _ := users.Get(ctx, a.ID)

		_, err := m.Subscribe(ctx, a.ID, b.ID)
		require.NoError(t, err)
		after, err := m.Unsubscribe(ctx, a.ID, b.ID)
		require.NoError(t, err)
		assert.Equal(t, before.SubscribedToUserIds, after.SubscribedToUserIds)
	})

	t.Run("Removal keeps order of the rest", func(t *testing.T) {
		m, users, _ := setup(t)
		a, _ := users.Create(ctx, models.User{})
		b, _ := users.Create(ctx, models.User{})
		c, _ := users.Create(ctx, models.User{})
		d, _ := users.Create(ctx, models.User{})

		_, _ = m.Subscribe(ctx, a.ID, b.ID)
		_, _ = m.Subscribe(ctx, a.ID, c.ID)
		_, _ = m.Subscribe(ctx, a.ID, d.ID)

		got, err := m.Unsubscribe(ctx, a.ID, c.ID)
		require.NoError(t, err)
		assert.Equal(t, models.IDList{b.ID, d.ID}, got.SubscribedToUserIds)
	})

	t.Run("Absent edge is a conflict", func(t *testing.T) {
		m, users, _ := setup(t)
		a, _ := users.Create(ctx, models.User{})
		b, _ := users.Create(ctx, models.User{})

		_, err := m.Unsubscribe(ctx, a.ID, b.ID)
		assert.True(t, apperror.Is(err, apperror.KindConflict))
	})

	t.Run("Missing users", func(t *testing.T) {
		m, users, _ := setup(t)
		a, _ := users.Create(ctx, models.User{})

		_, err := m.Unsubscribe(ctx, a.ID, "missing")
		assert.True(t, apperror.Is(err, apperror.KindNotFound))
	})
}

func TestSubscriptionManager_Followers(t *testing.T) {
	ctx := context.Background()
	m, users, db := setup(t)

	a, _ := users.Create(ctx, models.User{})
	b, _ := users.Create(ctx, models.User{})
	c, _ := users.Create(ctx, models.User{})
	_, _ = m.Subscribe(ctx, a.ID, c.ID)
	_, _ = m.Subscribe(ctx, b.ID, c.ID)
	_, _ = m.Subscribe(ctx, c.ID, a.ID)

	t.Run("Index matches scan", func(t *testing.T) {
		for _, id := range []string{a.ID, b.ID, c.ID} {
			indexed, err := m.Followers(ctx, id)
			require.NoError(t, err)

			var scanned []string
			err = db.Read(ctx, func(v *storage.View) error {
				var err error
				scanned, err = ScanFollowers(ctx, v.Users, id)
				return err
			})
			require.NoError(t, err)
			assert.ElementsMatch(t, scanned, indexed)
		}
	})

	t.Run("Scan keeps store order", func(t *testing.T) {
		err := db.Read(ctx, func(v *storage.View) error {
			scanned, err := ScanFollowers(ctx, v.Users, c.ID)
			require.NoError(t, err)
			assert.Equal(t, []string{a.ID, b.ID}, scanned)
			return nil
		})
		require.NoError(t, err)
	})

	t.Run("Unsubscribe updates index", func(t *testing.T) {
		_, err := m.Unsubscribe(ctx, a.ID, c.ID)
		require.NoError(t, err)

		followers, err := m.Followers(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{b.ID}, followers)
	})

	t.Run("Missing user", func(t *testing.T) {
		_, err := m.Followers(ctx, "missing")
		assert.True(t, apperror.Is(err, apperror.KindNotFound))
	})
}

func TestSubscriptionManager_ImplementsManager(t *testing.T) {
	var _ Manager = (*SubscriptionManager)(nil)
}
