package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"ITAM-backend/internal/platform/apperr"
)

const (
	CtxUserIDKey = "user_id"
	CtxRoleKey   = "role"
)

// RequireAuth: Authorization: Bearer <token> を検証して context に sub/role を詰める
// The account is re-read on every request; role comes from the stored record,
// and deleted or deactivated accounts are rejected even with a valid token.
func RequireAuth(secret []byte, accounts AccountStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" {
			apperr.Abort(c, apperr.Unauthenticated("missing Authorization header"))
			return
		}

		parts := strings.SplitN(h, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			apperr.Abort(c, apperr.Unauthenticated("invalid Authorization header"))
			return
		}

		tokenStr := strings.TrimSpace(parts[1])
		if tokenStr == "" {
			apperr.Abort(c, apperr.Unauthenticated("empty token"))
			return
		}

		claims, err := ParseToken(secret, tokenStr)
		if err != nil {
			apperr.Abort(c, apperr.Unauthenticated("invalid token"))
			return
		}

		acct, err := accounts.AccountByID(c.Request.Context(), claims.Subject)
		if err != nil {
			apperr.Abort(c, err)
			return
		}
		if acct == nil || !acct.IsActive {
			apperr.Abort(c, apperr.Unauthenticated("account is no longer active"))
			return
		}

		c.Set(CtxUserIDKey, acct.ID)
		c.Set(CtxRoleKey, acct.Role)
		c.Next()
	}
}

// ParseToken verifies an HS256 token and returns its claims. sub is mandatory.
func ParseToken(secret []byte, tokenStr string) (*Claims, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		// alg 固定（none攻撃とか回避）
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if token == nil || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	if claims.Subject == "" {
		return nil, jwt.ErrTokenRequiredClaimMissing
	}
	return &claims, nil
}

// RequireRole: 例) admin のみ許可したい時に追加
func RequireRole(roles ...string) gin.HandlerFunc {
	roleSet := make(map[string]struct{})
	for _, r := range roles {
		if r == "" {
			continue
		}
		roleSet[r] = struct{}{}
	}

	return func(c *gin.Context) {
		role := c.GetString(CtxRoleKey)
		if role == "" {
			apperr.Abort(c, apperr.Forbidden("missing role"))
			return
		}

		if _, allowed := roleSet[role]; !allowed {
			apperr.Abort(c, apperr.Forbidden("forbidden"))
			return
		}

		c.Next()
	}
}
