package subscription

import (
	"context"

	"github.com/VitaminP8/memberhub/models"
)

// Manager - граф подписок. actorID - тот, чей список меняется, targetID - на кого он подписывается.
type Manager interface {
	Subscribe(ctx context.Context, actorID, targetID string) (models.User, error)
	Unsubscribe(ctx context.Context, actorID, targetID string) (models.User, error)
	Followers(ctx context.Context, id string) ([]string, error)
}
