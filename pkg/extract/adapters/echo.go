package adapters

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/toyz/extractgen/pkg/extract"
)

// Echo adapts a handler taking an extracted T to echo. Rejections are returned
// to echo's error handler, see EchoErrorHandler.
func Echo[T any, P extract.Pointer[T]](state any, fn func(echo.Context, T) error) echo.HandlerFunc {
	return func(c echo.Context) error {
		params := make(map[string]string, len(c.ParamNames()))
		values := c.ParamValues()
		for i, name := range c.ParamNames() {
			if i < len(values) {
				params[name] = values[i]
			}
		}

		req := c.Request()
		value, err := extract.Extract[T, P](extract.WithPathParams(req.Context(), params), req, state)
		if err != nil {
			return err
		}
		return fn(c, value)
	}
}

// EchoErrorHandler renders errors as problem details. echo's own HTTPError
// keeps its status code.
func EchoErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		_ = c.JSON(httpErr.Code, &extract.ProblemDetail{
			Title:  http.StatusText(httpErr.Code),
			Status: httpErr.Code,
			Detail: errorDetail(httpErr),
		})
		return
	}

	problem := extract.Problem(err)
	c.Response().Header().Set(echo.HeaderContentType, "application/problem+json")
	_ = c.JSON(problem.Status, problem)
}

func errorDetail(err *echo.HTTPError) string {
	if msg, ok := err.Message.(string); ok {
		return msg
	}
	return http.StatusText(err.Code)
}
