// Package endpoints wires the admin routes: login, settings, location and
// custom audio uploads.
package endpoints

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/minaretlabs/minaret/internal/http/api"
	"github.com/minaretlabs/minaret/internal/http/api/admin/packets"
	"github.com/minaretlabs/minaret/internal/http/middleware"
)

// NewAuthModule carries the login endpoint. Mounted without the JWT
// middleware; everything else on the admin surface sits behind it.
func NewAuthModule(secretKey, passwordHash string) api.Module {
	return api.ModuleFunc(func(c *api.Controller) {
		c.Group.POST("/auth/login", api.ResolveEndpoint(login(secretKey, passwordHash)))
	})
}

func login(secretKey, passwordHash string) api.HandlerFunc {
	return func(ctx *gin.Context) (any, *api.Error) {
		var req packets.LoginRequest
		if err := ctx.ShouldBindJSON(&req); err != nil {
			return nil, &api.Error{Code: http.StatusBadRequest, Message: "invalid request body"}
		}

		if !middleware.CheckPassword(passwordHash, req.Password) {
			log.Warn().Str("remote", ctx.ClientIP()).Msg("admin login rejected")
			return nil, &api.Error{Code: http.StatusUnauthorized, Message: "invalid credentials"}
		}

		token, err := middleware.GenerateJWT(secretKey)
		if err != nil {
			log.Error().Err(err).Msg("token generation failed")
			return nil, &api.Error{Code: http.StatusInternalServerError, Message: "token generation failed"}
		}
		return packets.LoginResponse{Token: token}, nil
	}
}
