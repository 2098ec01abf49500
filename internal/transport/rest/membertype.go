package rest

import (
	"net/http"

	"github.com/VitaminP8/memberhub/internal/membertype"
	"github.com/VitaminP8/memberhub/models"
	"github.com/gin-gonic/gin"
)

// MemberTypeController - каталог только читается и правится, id - короткие строки вроде "basic"
type MemberTypeController struct {
	MemberTypes *membertype.Service
}

func (ctl *MemberTypeController) InstallTo(r gin.IRouter) {
	r.GET("/member-types", ctl.list)
	r.GET("/member-types/:id", ctl.get)
	r.PATCH("/member-types/:id", ctl.update)
}

type memberTypeBody struct {
	Discount        *int `json:"discount" binding:"omitempty,min=0,max=100"`
	MonthPostsLimit *int `json:"monthPostsLimit" binding:"omitempty,min=0"`
}

func (ctl *MemberTypeController) list(c *gin.Context) {
	list, err := ctl.MemberTypes.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (ctl *MemberTypeController) get(c *gin.Context) {
	mt, err := ctl.MemberTypes.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, mt)
}

func (ctl *MemberTypeController) update(c *gin.Context) {
	var body memberTypeBody
	if !bind(c, &body) {
		return
	}
	mt, err := ctl.MemberTypes.Update(c.Request.Context(), c.Param("id"), models.MemberTypePatch{
		Discount:        body.Discount,
		MonthPostsLimit: body.MonthPostsLimit,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, mt)
}
