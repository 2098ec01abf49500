package rest

import (
	"net/http"

	"github.com/VitaminP8/memberhub/internal/post"
	"github.com/VitaminP8/memberhub/models"
	"github.com/gin-gonic/gin"
)

type PostController struct {
	Posts *post.Service
}

func (ctl *PostController) InstallTo(r gin.IRouter) {
	r.GET("/posts", ctl.list)
	r.GET("/posts/:id", ctl.get)
	r.POST("/posts", ctl.create)
	r.PATCH("/posts/:id", ctl.update)
	r.DELETE("/posts/:id", ctl.delete)
}

type postBody struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
	UserID  *string `json:"userId" binding:"omitempty,uuid"`
}

func (b postBody) patch() models.PostPatch {
	return models.PostPatch{Title: b.Title, Content: b.Content, UserID: b.UserID}
}

func (ctl *PostController) list(c *gin.Context) {
	list, err := ctl.Posts.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (ctl *PostController) get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	p, err := ctl.Posts.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (ctl *PostController) create(c *gin.Context) {
	var body postBody
	if !bind(c, &body) {
		return
	}
	p, err := ctl.Posts.Create(c.Request.Context(), body.patch().Apply(models.Post{}))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (ctl *PostController) update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var body postBody
	if !bind(c, &body) {
		return
	}
	p, err := ctl.Posts.Update(c.Request.Context(), id, body.patch())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (ctl *PostController) delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	p, err := ctl.Posts.Delete(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}
