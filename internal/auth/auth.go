package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidPassword 密码错误
	ErrInvalidPassword = errors.New("invalid password")
	// ErrInvalidToken 令牌无效或过期
	ErrInvalidToken = errors.New("invalid token")
)

const issuer = "leasemeter"

// Gate 共享密码访问控制：密码换取短期 JWT
type Gate struct {
	passwordHash []byte
	secret       []byte
	ttl          time.Duration
	now          func() time.Time
}

// NewGate 创建访问控制，password 为空表示不启用
func NewGate(password, secret string, ttl time.Duration) (*Gate, error) {
	g := &Gate{secret: []byte(secret), ttl: ttl, now: time.Now}
	if password == "" {
		return g, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	g.passwordHash = hash
	return g, nil
}

// Enabled 是否启用密码
func (g *Gate) Enabled() bool {
	return len(g.passwordHash) > 0
}

// Login 校验密码并签发令牌
func (g *Gate) Login(password string) (string, time.Time, error) {
	if !g.Enabled() {
		return "", time.Time{}, nil
	}
	if err := bcrypt.CompareHashAndPassword(g.passwordHash, []byte(password)); err != nil {
		return "", time.Time{}, ErrInvalidPassword
	}

	now := g.now()
	expires := now.Add(g.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	})

	signed, err := token.SignedString(g.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expires, nil
}

// Verify 校验令牌
func (g *Gate) Verify(tokenString string) error {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return g.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(g.now))
	if err != nil || !token.Valid {
		return ErrInvalidToken
	}
	return nil
}

// Middleware 要求 Authorization: Bearer <token>，未启用密码时直接放行
func (g *Gate) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !g.Enabled() {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			// WebSocket 无法自定义请求头，允许使用 query 参数
			tokenString = c.Query("token")
		}
		if tokenString == "" || g.Verify(tokenString) != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		c.Next()
	}
}
