package jwt

import (
	"time"

	"sports-activity-platform/config"
	"sports-activity-platform/tools"

	"github.com/golang-jwt/jwt"
)

// Payload 令牌中携带的用户身份
type Payload struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
}

type Claims struct {
	Payload
	jwt.StandardClaims
}

// CreateToken 签发访问令牌
func CreateToken(payload Payload) string {
	now := time.Now()
	claims := Claims{
		Payload: payload,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(time.Duration(config.Get().JWT.AccessExpire) * time.Second).Unix(),
			Issuer:    "sports-activity-platform",
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(config.Get().JWT.AccessSecret))
	tools.PanicOnErr(err)
	return token
}

// ParseToken 解析并校验令牌，无效时 valid 为 false
func ParseToken(tokenString string) (claims *Claims, valid bool) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(config.Get().JWT.AccessSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, false
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, false
	}
	return claims, true
}
