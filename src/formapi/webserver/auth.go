package webserver

import (
	"crypto/subtle"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

type Auth struct {
	jwtSecret []byte
	apiToken  string
}

func NewAuth(secret []byte, apiToken string) Auth {
	return Auth{jwtSecret: secret, apiToken: apiToken}
}

// Token exchanges the shared API token for a short-lived JWT.
func (a Auth) Token(c *gin.Context) {
	var req struct {
		Token   string `json:"token" binding:"required"`
		Service string `json:"service" binding:"required,min=1,max=64"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	if subtle.ConstantTimeCompare([]byte(req.Token), []byte(a.apiToken)) != 1 {
		log.Printf("Rejected token request for service %s from %s", req.Service, c.ClientIP())
		c.JSON(http.StatusUnauthorized, gin.H{"err": "bad token"})
		return
	}

	signed, err := issueJWT(req.Service, a.jwtSecret)
	if err != nil {
		log.Printf("Failed to issue JWT for %s: %v", req.Service, err)
		c.JSON(http.StatusInternalServerError, gin.H{"err": "failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": signed})
}

func issueJWT(service string, secret []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"svc": service,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	return token.SignedString(secret)
}

func JWTMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		bearer := c.GetHeader("Authorization")
		if !strings.HasPrefix(bearer, "Bearer ") {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		tokenStr := bearer[7:]
		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
			return secret, nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		claims := token.Claims.(jwt.MapClaims)
		c.Set("svc", claims["svc"])
		c.Next()
	}
}
