package graph

import (
	"github.com/VitaminP8/memberhub/internal/aggregate"
	"github.com/VitaminP8/memberhub/internal/membertype"
	"github.com/VitaminP8/memberhub/internal/post"
	"github.com/VitaminP8/memberhub/internal/profile"
	"github.com/VitaminP8/memberhub/internal/subscription"
	"github.com/VitaminP8/memberhub/internal/user"
)

// Resolver служит корневой точкой для всех резолверов.
// Здесь внедряются сервисы, общие с REST.
type Resolver struct {
	Users         *user.Service
	Profiles      *profile.Service
	Posts         *post.Service
	MemberTypes   *membertype.Service
	Subscriptions subscription.Manager
	Views         *aggregate.Resolver
}
