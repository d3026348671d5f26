package auth

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

// SessionRenewal is a huma middleware for the dashboard operations. Sessions
// past the halfway point of their lifetime get a fresh cookie (sliding
// session). Requests without a valid session pass through untouched; Authorize
// rejects those inside the operation.
func (h *AuthHandler) SessionRenewal(ctx huma.Context, next func(huma.Context)) {
	if cookie := h.renewedCookie(ctx.Header("Cookie")); cookie != "" {
		ctx.AppendHeader("Set-Cookie", cookie)
	}
	next(ctx)
}

func (h *AuthHandler) renewedCookie(cookieHeader string) string {
	claims, err := h.parseSession(cookieHeader)
	if err != nil {
		return ""
	}
	profileID, ok := claims["sub"].(string)
	if !ok || profileID == "" {
		return ""
	}
	exp, ok := claims["exp"].(float64)
	if !ok {
		return ""
	}
	if time.Until(time.Unix(int64(exp), 0)) >= TokenDuration/2 {
		return ""
	}

	newToken, err := h.GenerateToken(profileID)
	if err != nil {
		return ""
	}
	cookie := http.Cookie{
		Name:     CookieName,
		Value:    newToken,
		Expires:  time.Now().Add(TokenDuration),
		HttpOnly: true,
		Path:     "/",
	}
	return cookie.String()
}
