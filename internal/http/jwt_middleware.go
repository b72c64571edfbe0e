package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"connect-support/internal/service"
)

const (
	authClaimsKey = "auth_claims"
	anonymousUser = "anonymous"
)

// JWTAuthMiddleware exige un bearer token valido cuando hay secreto configurado.
// Sin secreto las rutas quedan abiertas y el usuario se registra como anonimo.
func JWTAuthMiddleware(jwtSvc *service.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !jwtSvc.Enabled() {
			c.Next()
			return
		}

		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}
		claims, err := jwtSvc.ParseAccessToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(authClaimsKey, claims)
		c.Next()
	}
}

// bearerToken extrae el token de un header "Bearer <token>".
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// GetAuthClaims obtiene los claims que dejo el middleware en el contexto.
func GetAuthClaims(c *gin.Context) (service.Claims, bool) {
	val, ok := c.Get(authClaimsKey)
	if !ok {
		return service.Claims{}, false
	}
	claims, ok := val.(service.Claims)
	return claims, ok
}

// requestUserID es el uid que se anota en los logs de los gateways.
func requestUserID(c *gin.Context) string {
	if claims, ok := GetAuthClaims(c); ok && claims.UserID != "" {
		return claims.UserID
	}
	return anonymousUser
}
