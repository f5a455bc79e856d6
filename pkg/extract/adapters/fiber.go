package adapters

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/toyz/extractgen/pkg/extract"
)

// Fiber adapts a handler taking an extracted T to fiber. The fasthttp request
// is converted to net/http before extraction. Rejections are returned to the
// app's error handler, see FiberErrorHandler.
func Fiber[T any, P extract.Pointer[T]](state any, fn func(*fiber.Ctx, T) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req, err := adaptor.ConvertRequest(c, false)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		ctx := extract.WithPathParams(c.UserContext(), c.AllParams())
		value, err := extract.Extract[T, P](ctx, req.WithContext(ctx), state)
		if err != nil {
			return err
		}
		return fn(c, value)
	}
}

// FiberErrorHandler renders errors as problem details. Use it as
// fiber.Config.ErrorHandler.
func FiberErrorHandler(c *fiber.Ctx, err error) error {
	var e *fiber.Error
	if errors.As(err, &e) {
		return c.Status(e.Code).JSON(&extract.ProblemDetail{
			Title:  http.StatusText(e.Code),
			Status: e.Code,
			Detail: e.Message,
		}, "application/problem+json")
	}

	problem := extract.Problem(err)
	return c.Status(problem.Status).JSON(problem, "application/problem+json")
}

// NewFiberApp creates a fiber app that renders rejections as problem details
func NewFiberApp() *fiber.App {
	return fiber.New(fiber.Config{ErrorHandler: FiberErrorHandler})
}
