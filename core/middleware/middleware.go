package middleware

import (
	"meetsync/core/constants"
	"meetsync/core/controller"
	"meetsync/core/errors"
	"meetsync/core/utils"

	"github.com/labstack/echo/v4"
)

// Middleware bundles the route middlewares shared by module routers
type Middleware struct {
	base controller.BaseController
}

func NewMiddleware() *Middleware {
	return &Middleware{
		base: controller.NewBaseController(),
	}
}

// AuthMiddleware validates the bearer token and stores its claims in the
// request context under constants.ContextTokenData.
func (m *Middleware) AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)

			token, err := utils.GetTokenFromHeader(header)
			if err != nil {
				return m.base.Unauthorized(errors.ErrMissingAuthorizationHeader, "Missing or malformed authorization header")
			}

			claims, err := utils.ValidateAndParseToken(token)
			if err != nil {
				return m.base.Unauthorized(errors.ErrInvalidTokenFormat, "Invalid or expired token")
			}

			if claims.Scope != constants.ScopeTokenAccess {
				return m.base.Unauthorized(errors.ErrUnauthorized, "Token scope not permitted")
			}

			c.Set(constants.ContextTokenData, claims)
			return next(c)
		}
	}
}
