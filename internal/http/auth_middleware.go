package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"accounthub/internal/domain"
	"accounthub/internal/repository"
	"accounthub/internal/service"
)

const authUserKey = "auth_user"

// tokenCookieName es la cookie HTTP-only que transporta el token de sesion.
const tokenCookieName = "token"

// AuthRequired valida el token de la cookie, resuelve el usuario
// completo desde el repositorio y lo deja en el contexto.
func AuthRequired(tokenSvc *service.TokenService, users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenSvc == nil || users == nil {
			abortError(c, http.StatusInternalServerError, "auth not configured")
			return
		}

		token, err := c.Cookie(tokenCookieName)
		if err != nil || token == "" {
			abortError(c, http.StatusUnauthorized, "Please login to access this resource")
			return
		}

		claims, err := tokenSvc.Verify(token)
		if err != nil {
			abortError(c, http.StatusUnauthorized, "Please login to access this resource")
			return
		}

		user, err := users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				abortError(c, http.StatusUnauthorized, "Please login to access this resource")
				return
			}
			abortError(c, http.StatusInternalServerError, "could not resolve user")
			return
		}

		c.Set(authUserKey, user)
		c.Next()
	}
}

// GetAuthUser obtiene el usuario autenticado desde el contexto.
func GetAuthUser(c *gin.Context) (domain.User, bool) {
	val, ok := c.Get(authUserKey)
	if !ok {
		return domain.User{}, false
	}
	user, ok := val.(domain.User)
	return user, ok
}

// RequireRoles exige que el rol del usuario resuelto en el contexto
// pertenezca al conjunto permitido. El rol sale exclusivamente de la
// identidad resuelta por el servidor, nunca de un header del cliente.
func RequireRoles(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(c *gin.Context) {
		user, ok := GetAuthUser(c)
		if !ok {
			abortError(c, http.StatusForbidden, "Role: role is missing for this resource")
			return
		}
		if _, ok := allowed[user.Role]; !ok {
			abortError(c, http.StatusForbidden, fmt.Sprintf("Role: %s is not allowed to access this resource", user.Role))
			return
		}
		c.Next()
	}
}
