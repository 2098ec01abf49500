package rest

import (
	"net/http"

	"github.com/VitaminP8/memberhub/internal/profile"
	"github.com/VitaminP8/memberhub/models"
	"github.com/gin-gonic/gin"
)

type ProfileController struct {
	Profiles *profile.Service
}

func (ctl *ProfileController) InstallTo(r gin.IRouter) {
	r.GET("/profiles", ctl.list)
	r.GET("/profiles/:id", ctl.get)
	r.POST("/profiles", ctl.create)
	r.PATCH("/profiles/:id", ctl.update)
	r.DELETE("/profiles/:id", ctl.delete)
}

type profileBody struct {
	Avatar       *string `json:"avatar"`
	Sex          *string `json:"sex"`
	Birthday     *int    `json:"birthday"`
	Country      *string `json:"country"`
	Street       *string `json:"street"`
	City         *string `json:"city"`
	MemberTypeID *string `json:"memberTypeId"`
	UserID       *string `json:"userId" binding:"omitempty,uuid"`
}

func (b profileBody) patch() models.ProfilePatch {
	return models.ProfilePatch{
		Avatar:       b.Avatar,
		Sex:          b.Sex,
		Birthday:     b.Birthday,
		Country:      b.Country,
		Street:       b.Street,
		City:         b.City,
		MemberTypeID: b.MemberTypeID,
		UserID:       b.UserID,
	}
}

func (ctl *ProfileController) list(c *gin.Context) {
	list, err := ctl.Profiles.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (ctl *ProfileController) get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	p, err := ctl.Profiles.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (ctl *ProfileController) create(c *gin.Context) {
	var body profileBody
	if !bind(c, &body) {
		return
	}
	p, err := ctl.Profiles.Create(c.Request.Context(), body.patch().Apply(models.Profile{}))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (ctl *ProfileController) update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var body profileBody
	if !bind(c, &body) {
		return
	}
	p, err := ctl.Profiles.Update(c.Request.Context(), id, body.patch())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (ctl *ProfileController) delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	p, err := ctl.Profiles.Delete(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}
