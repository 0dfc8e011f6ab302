package middleware

import (
  "fmt"
  "net/http"
  "strings"
  "github.com/gin-gonic/gin"
  "github.com/golang-jwt/jwt/v5"
  "github.com/google/uuid"
  "github.com/hyodolabs/story-recall-backend/internal/apperr"
  "github.com/hyodolabs/story-recall-backend/internal/clients/userservice"
  "github.com/hyodolabs/story-recall-backend/internal/logger"
  "github.com/hyodolabs/story-recall-backend/internal/requestdata"
)

type AuthMiddleware struct {
  log       *logger.Logger
  secret    []byte
  verifier  userservice.Verifier
}

func NewAuthMiddleware(log *logger.Logger, secret string, verifier userservice.Verifier) *AuthMiddleware {
  middlewareLog := log.With("middleware", "AuthMiddleware")
  return &AuthMiddleware{log: middlewareLog, secret: []byte(secret), verifier: verifier}
}

// RequireAuth resolves the bearer token to a user id and confirms the id
// against the user service. An id the user service cannot confirm is a hard
// failure, not a new user.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
  return func(c *gin.Context) {
    tokenString := extractToken(c)
    if tokenString == "" {
      c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "인증 정보가 없습니다."})
      return
    }

    userID, err := am.parseUserID(tokenString)
    if err != nil {
      am.log.Debug("Token rejected", "error", err)
      c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "토큰이 유효하지 않습니다."})
      return
    }

    if err := am.verifier.Verify(c.Request.Context(), userID); err != nil {
      ae := apperr.From(err)
      c.AbortWithStatusJSON(ae.Status, gin.H{"error": ae.Error(), "code": ae.Code})
      return
    }

    ctx := requestdata.WithRequestData(c.Request.Context(), &requestdata.RequestData{
      TokenString: tokenString,
      UserID:      userID,
    })
    c.Request = c.Request.WithContext(ctx)
    c.Next()
  }
}

func (am *AuthMiddleware) parseUserID(tokenString string) (uuid.UUID, error) {
  token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
    if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
      return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
    }
    return am.secret, nil
  })
  if err != nil {
    return uuid.Nil, err
  }
  claims, ok := token.Claims.(jwt.MapClaims)
  if !ok || !token.Valid {
    return uuid.Nil, fmt.Errorf("invalid claims")
  }
  sub, err := claims.GetSubject()
  if err != nil || sub == "" {
    return uuid.Nil, fmt.Errorf("missing sub claim")
  }
  return uuid.Parse(sub)
}

func extractToken(c *gin.Context) string {
  authHeader := c.GetHeader("Authorization")
  if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
    return authHeader[7:]
  }
  return c.Query("token")
}
