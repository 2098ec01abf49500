package rest

import (
	"net/http"

	"github.com/VitaminP8/memberhub/internal/aggregate"
	"github.com/gin-gonic/gin"
)

// ViewController отдает составные представления только для чтения
type ViewController struct {
	Resolver *aggregate.Resolver
}

func (ctl *ViewController) InstallTo(r gin.IRouter) {
	r.GET("/views/all-about-users", ctl.allAboutUsers)
	r.GET("/views/all-about-users/:id", ctl.allAboutUser)
	r.GET("/views/users-with-subs", ctl.usersWithSubs)
	r.GET("/views/users-subs-and-profile", ctl.usersSubsAndProfile)
	r.GET("/views/user-posts-subs/:id", ctl.userPostsSubs)
}

func (ctl *ViewController) allAboutUsers(c *gin.Context) {
	list, err := ctl.Resolver.GetAllAboutUsers(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (ctl *ViewController) allAboutUser(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	view, err := ctl.Resolver.GetAllAboutUser(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (ctl *ViewController) usersWithSubs(c *gin.Context) {
	list, err := ctl.Resolver.GetUsersWithSubs(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (ctl *ViewController) usersSubsAndProfile(c *gin.Context) {
	list, err := ctl.Resolver.GetUsersSubsAndProfile(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (ctl *ViewController) userPostsSubs(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	view, err := ctl.Resolver.GetUserPostsSubs(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
