// Package adapters mounts extractors on third-party routers
package adapters

import (
	"github.com/gin-gonic/gin"

	"github.com/toyz/extractgen/pkg/extract"
)

// Gin adapts a handler taking an extracted T to gin. Route parameters are
// visible to extract.Path and rejections abort with a problem detail.
func Gin[T any, P extract.Pointer[T]](state any, fn func(*gin.Context, T)) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := extract.WithPathParams(c.Request.Context(), ginParams(c.Params))

		value, err := extract.Extract[T, P](ctx, c.Request, state)
		if err != nil {
			problem := extract.Problem(err)
			c.Header("Content-Type", "application/problem+json")
			c.AbortWithStatusJSON(problem.Status, problem)
			return
		}
		fn(c, value)
	}
}

func ginParams(params gin.Params) map[string]string {
	values := make(map[string]string, len(params))
	for _, param := range params {
		values[param.Key] = param.Value
	}
	return values
}
