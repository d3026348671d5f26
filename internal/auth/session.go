package auth

import (
	"fmt"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
)

// parseSession extracts and verifies the session JWT from a raw Cookie
// header.
func (h *AuthHandler) parseSession(cookieHeader string) (jwt.MapClaims, error) {
	if cookieHeader == "" {
		return nil, fmt.Errorf("no session cookie")
	}

	// Reuse net/http cookie parsing rather than splitting the header by
	// hand.
	header := http.Header{}
	header.Add("Cookie", cookieHeader)
	req := http.Request{Header: header}
	cookie, err := req.Cookie(CookieName)
	if err != nil {
		return nil, fmt.Errorf("no session cookie")
	}

	token, err := jwt.Parse(cookie.Value, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(h.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}
