package rest

import (
	"github.com/VitaminP8/memberhub/internal/aggregate"
	"github.com/VitaminP8/memberhub/internal/membertype"
	"github.com/VitaminP8/memberhub/internal/post"
	"github.com/VitaminP8/memberhub/internal/profile"
	"github.com/VitaminP8/memberhub/internal/subscription"
	"github.com/VitaminP8/memberhub/internal/user"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Services struct {
	Users         *user.Service
	Profiles      *profile.Service
	Posts         *post.Service
	MemberTypes   *membertype.Service
	Subscriptions subscription.Manager
	Views         *aggregate.Resolver
}

// Install вешает все контроллеры и обработчик ошибок на группу маршрутов
func Install(r gin.IRouter, s Services, log *zap.Logger) {
	g := r.Group("/", ErrorHandler(log))

	(&UserController{Users: s.Users, Subscriptions: s.Subscriptions}).InstallTo(g)
	(&ProfileController{Profiles: s.Profiles}).InstallTo(g)
	(&PostController{Posts: s.Posts}).InstallTo(g)
	(&MemberTypeController{MemberTypes: s.MemberTypes}).InstallTo(g)
	(&ViewController{Resolver: s.Views}).InstallTo(g)
}
