package subscription

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

type SubscriptionManager struct {
	db      *storage.DB
	users   *user.Service
	log     *zap.Logger
	metrics metrics.Observer
}

func NewSubscriptionManager(db *storage.DB, users *user.Service, log *zap.Logger, m metrics.Observer) *SubscriptionManager {
	if log == nil {
		log = zap.NewNop()
	}
	return &SubscriptionManager{db: db, users: users, log: log, metrics: m}
}

func (m *SubscriptionManager) observe(op string, err error) {
	if m.metrics != nil {
		m.metrics.ObserveMutation(op, metrics.Result(err))
	}
}

// Subscribe добавляет targetID в конец списка подписок actorID
func (m *SubscriptionManager) Subscribe(ctx context.Context, actorID, targetID string) (u models.User, err error) {
	defer func() { m.observe("subscribeTo", err) }()

	err = m.db.Write(ctx, func(tx *storage.Tx) error {
		actor, err := m.loadPair(ctx, tx, "subscribe to", actorID, targetID)
		if err != nil {
			return err
		}
		if actor.SubscribedToUserIds.Contains(targetID) {
			return apperror.Conflict("user %s is already subscribed to %s", actorID, targetID)
		}

		list := append(actor.SubscribedToUserIds.Clone(), targetID)
		u, err = m.users.UpdateTx(ctx, tx, actorID, models.UserPatch{SubscribedToUserIds: &list})
		return err
	})
	if err != nil {
		return models.User{}, err
	}
	m.log.Debug("subscribed", zap.String("actor_id", actorID), zap.String("target_id", targetID))
	return u, nil
}

// Unsubscribe убирает targetID из списка, порядок остальных сохраняется
func (m *SubscriptionManager) Unsubscribe(ctx context.Context, actorID, targetID string) (u models.User, err error) {
	defer func() { m.observe("unsubscribeFrom", err) }()

	err = m.db.Write(ctx, func(tx *storage.Tx) error {
		actor, err := m.loadPair(ctx, tx, "unsubscribe from", actorID, targetID)
		if err != nil {
			return err
		}
		if !actor.SubscribedToUserIds.Contains(targetID) {
			return apperror.Conflict("user %s is not subscribed to %s", actorID, targetID)
		}

		list := actor.SubscribedToUserIds.Without(targetID)
		u, err = m.users.UpdateTx(ctx, tx, actorID, models.UserPatch{SubscribedToUserIds: &list})
		return err
	})
	if err != nil {
		return models.User{}, err
	}
	m.log.Debug("unsubscribed", zap.String("actor_id", actorID), zap.String("target_id", targetID))
	return u, nil
}

// Followers - кто подписан на пользователя, по обратному индексу
func (m *SubscriptionManager) Followers(ctx context.Context, id string) ([]string, error) {
	var followers []string
	err := m.db.Read(ctx, func(v *storage.View) error {
		if _, err := user.Find(ctx, v.Users, id); err != nil {
			return err
		}
		followers = v.Followers(id)
		return nil
	})
	return followers, err
}

// ScanFollowers вычисляет подписчиков перебором всех пользователей, в порядке хранилища
func ScanFollowers(ctx context.Context, users storage.Store[models.User], id string) ([]string, error) {
	list, err := users.FindMany(ctx, storage.FieldContains(models.FieldSubscribedToUserIds, id))
	if err != nil {
		return nil, fmt.Errorf("scan followers: %w", err)
	}

	ids := make([]string, 0, len(list))
	for _, u := range list {
		ids = append(ids, u.ID)
	}
	return ids, nil
}

// loadPair проверяет ребро actor -> target до любых изменений. action попадает в текст ошибки.
func (m *SubscriptionManager) loadPair(ctx context.Context, tx *storage.Tx, action, actorID, targetID string) (models.User, error) {
	if actorID == targetID {
		return models.User{}, apperror.Validation("user %s cannot %s themselves", actorID, action)
	}

	actor, err := user.Find(ctx, tx.Users, actorID)
	if err != nil {
		return models.User{}, err
	}
	if _, err := user.Find(ctx, tx.Users, targetID); err != nil {
		return models.User{}, err
	}
	return actor, nil
}
