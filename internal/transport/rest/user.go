package rest

import (
	"net/http"

	"github.com/VitaminP8/memberhub/internal/subscription"
	"github.com/VitaminP8/memberhub/internal/user"
	"github.com/VitaminP8/memberhub/models"
	"github.com/gin-gonic/gin"
)

type UserController struct {
	Users         *user.Service
	Subscriptions subscription.Manager
}

func (ctl *UserController) InstallTo(r gin.IRouter) {
	r.GET("/users", ctl.list)
	r.GET("/users/:id", ctl.get)
	r.POST("/users", ctl.create)
	r.PATCH("/users/:id", ctl.update)
	r.DELETE("/users/:id", ctl.delete)
	r.POST("/users/:id/subscribeTo", ctl.subscribe)
	r.POST("/users/:id/unsubscribeFrom", ctl.unsubscribe)
	r.GET("/users/:id/followers", ctl.followers)
}

type userBody struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Email     *string `json:"email" binding:"omitempty,email"`
}

// subscriptionBody - цель подписки, актор берется из пути
type subscriptionBody struct {
	UserID string `json:"userId" binding:"required,uuid"`
}

func (ctl *UserController) list(c *gin.Context) {
	users, err := ctl.Users.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (ctl *UserController) get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	u, err := ctl.Users.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (ctl *UserController) create(c *gin.Context) {
	var body userBody
	if !bind(c, &body) {
		return
	}
	u, err := ctl.Users.Create(c.Request.Context(), models.User{
		FirstName: deref(body.FirstName),
		LastName:  deref(body.LastName),
		Email:     deref(body.Email),
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

func (ctl *UserController) update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var body userBody
	if !bind(c, &body) {
		return
	}
	u, err := ctl.Users.Update(c.Request.Context(), id, models.UserPatch{
		FirstName: body.FirstName,
		LastName:  body.LastName,
		Email:     body.Email,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (ctl *UserController) delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	u, err := ctl.Users.Delete(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (ctl *UserController) subscribe(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var body subscriptionBody
	if !bind(c, &body) {
		return
	}
	u, err := ctl.Subscriptions.Subscribe(c.Request.Context(), id, body.UserID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (ctl *UserController) unsubscribe(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var body subscriptionBody
	if !bind(c, &body) {
		return
	}
	u, err := ctl.Subscriptions.Unsubscribe(c.Request.Context(), id, body.UserID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (ctl *UserController) followers(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	ids, err := ctl.Subscriptions.Followers(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ids)
}
