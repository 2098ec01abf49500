package graph

import (
	"net/http"

	"github.com/99designs/gqlgen/graphql/playground"
	"github.com/gin-gonic/gin"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

// Handler принимает POST-запросы GraphQL.
// Ошибки разбора и валидации отдаются с 422, ошибки полей - вместе с данными и 200.
func Handler(e *Executor) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req Request
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, Response{
				Errors: gqlerror.List{gqlerror.Errorf("invalid request body: %v", err)},
			})
			return
		}

		resp := e.Execute(c.Request.Context(), req)
		status := http.StatusOK
		if resp.Data == nil {
			status = http.StatusUnprocessableEntity
		}
		c.JSON(status, resp)
	}
}

// Install вешает endpoint и страницу Playground
func Install(r gin.IRouter, e *Executor, endpoint string) {
	r.POST(endpoint, Handler(e))
	r.GET("/", gin.WrapH(playground.Handler("GraphQL Playground", endpoint)))
}
