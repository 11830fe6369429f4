package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/osmane/billiards-sub001/internal/config"
)

// IssueToken exchanges the configured API key for a short-lived HS256 bearer
// token. The key itself is only ever stored as a bcrypt hash in config.
func IssueToken(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			APIKey  string `json:"api_key" binding:"required"`
			Subject string `json:"subject,omitempty"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "API key required"})
			return
		}

		if cfg.APIKeyHash == "" {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "token issuing not configured"})
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(cfg.APIKeyHash), []byte(req.APIKey)); err != nil {
			log.Printf("[AUTH] rejected API key from %s", c.ClientIP())
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid API key"})
			return
		}

		subject := req.Subject
		if subject == "" {
			subject = "worker"
		}
		exp := time.Now().Add(time.Duration(cfg.TokenTTLMin) * time.Minute)
		claims := jwt.MapClaims{"sub": subject, "exp": exp.Unix()}
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

		signed, err := token.SignedString([]byte(cfg.JWTSecret))
		if err != nil {
			log.Printf("[AUTH] failed to sign token: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"token":      signed,
			"expires_at": exp.UTC(),
		})
	}
}
