package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/VitaminP8/memberhub/internal/apperror"
	"github.com/VitaminP8/memberhub/models"
	"go.uber.org/zap"
)

// Stores - хранилища четырех видов сущностей одного бэкенда
type Stores struct {
	Users       Store[models.User]
	Profiles    Store[models.Profile]
	Posts       Store[models.Post]
	MemberTypes Store[models.MemberType]
}

// DB - единая точка сериализации записей над всеми хранилищами.
// Записи идут по одной под эксклюзивной блокировкой, чтения - под разделяемой.
type DB struct {
	mu        sync.RWMutex
	stores    Stores
	followers *FollowerIndex
	log       *zap.Logger
}

func NewDB(stores Stores, log *zap.Logger) *DB {
	if log == nil {
		log = zap.NewNop()
	}
	return &DB{
		stores:    stores,
		followers: NewFollowerIndex(),
		log:       log,
	}
}

// View - доступ на чтение внутри DB.Read. Не должен использоваться после возврата из fn.
type View struct {
	Users       Store[models.User]
	Profiles    Store[models.Profile]
	Posts       Store[models.Post]
	MemberTypes Store[models.MemberType]

	followers *FollowerIndex
}

// Followers - кто подписан на пользователя, по обратному индексу
func (v *View) Followers(id string) []string {
	return v.followers.Followers(id)
}

// Read выполняет fn под разделяемой блокировкой: ни одна запись не применена в нем наполовину.
// Внутри fn нельзя вызывать Read и Write этого же DB.
func (db *DB) Read(ctx context.Context, fn func(v *View) error) error {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return fn(&View{
		Users:       db.stores.Users,
		Profiles:    db.stores.Profiles,
		Posts:       db.stores.Posts,
		MemberTypes: db.stores.MemberTypes,
		followers:   db.followers,
	})
}

// Write выполняет fn эксклюзивно. Если fn вернула ошибку, все изменения,
// сделанные через Tx, откатываются в обратном порядке.
func (db *DB) Write(ctx context.Context, fn func(tx *Tx) error) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	tx := db.begin()
	if err := fn(tx); err != nil {
		steps := tx.steps()
		if rbErr := tx.rollback(ctx); rbErr != nil {
			db.log.Error("rollback failed, store may be inconsistent",
				zap.Error(rbErr),
				zap.NamedError("cause", err),
			)
			return apperror.Internal("rollback failed", errors.Join(err, rbErr))
		}
		if steps > 0 {
			db.log.Debug("write rolled back", zap.Int("steps", steps), zap.Error(err))
		}
		return err
	}

	for _, apply := range tx.onCommit {
		apply(db.followers)
	}
	return nil
}

// RebuildIndex пересчитывает обратный индекс подписок по хранилищу пользователей
func (db *DB) RebuildIndex(ctx context.Context) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	users, err := db.stores.Users.FindMany(ctx, nil)
	if err != nil {
		return fmt.Errorf("rebuild follower index: %w", err)
	}

	ix := NewFollowerIndex()
	for _, u := range users {
		ix.update(u.ID, nil, u.SubscribedToUserIds)
	}
	db.followers = ix
	db.log.Debug("follower index rebuilt", zap.Int("users", len(users)))
	return nil
}

func (db *DB) begin() *Tx {
	tx := &Tx{log: db.log}
	tx.Users = &txStore[models.User]{Store: db.stores.Users, tx: tx, kind: "user", observe: tx.observeUser}
	tx.Profiles = &txStore[models.Profile]{Store: db.stores.Profiles, tx: tx, kind: "profile"}
	tx.Posts = &txStore[models.Post]{Store: db.stores.Posts, tx: tx, kind: "post"}
	tx.MemberTypes = &txStore[models.MemberType]{Store: db.stores.MemberTypes, tx: tx, kind: "member type"}
	return tx
}
