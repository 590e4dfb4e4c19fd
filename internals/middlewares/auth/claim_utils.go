package auth

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"newsroom_backend/internals/constants"
)

const (
	LocUserRole = "userRole"
	LocUserID   = "user_id"
	LocUserName = "user_name"
)

// extractBearerToken returns "" when the request carries no token at all.
func extractBearerToken(c *fiber.Ctx) (string, error) {
	auth := strings.TrimSpace(c.Get("Authorization"))
	if auth == "" {
		if cookieTok := c.Cookies("access_token"); cookieTok != "" {
			auth = "Bearer " + cookieTok
		}
	}
	if auth == "" {
		return "", nil
	}

	fields := strings.Fields(auth)
	if len(fields) < 2 || !strings.EqualFold(fields[0], "Bearer") {
		return "", fmt.Errorf("invalid token format")
	}
	tok := strings.Trim(strings.TrimSpace(fields[1]), "\"'")
	if tok == "" {
		return "", fmt.Errorf("empty token")
	}
	return tok, nil
}

func validateTokenExpiry(claims jwt.MapClaims, skew time.Duration) error {
	expVal, ok := claims["exp"]
	if !ok {
		return fmt.Errorf("token has no exp")
	}

	var expUnix int64
	switch t := expVal.(type) {
	case float64:
		expUnix = int64(t)
	case int64:
		expUnix = t
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid exp format")
		}
		expUnix = n
	default:
		return fmt.Errorf("invalid exp type")
	}

	expTime := time.Unix(expUnix, 0).UTC()
	if time.Now().UTC().After(expTime.Add(skew)) {
		return fmt.Errorf("token expired at %v", expTime)
	}
	return nil
}

func roleFromClaims(claims jwt.MapClaims) string {
	role, _ := claims["role"].(string)
	role = strings.ToLower(strings.TrimSpace(role))
	for _, r := range constants.AllRoles {
		if r == role {
			return role
		}
	}
	return constants.RoleGuest
}

func storeClaimsToLocals(c *fiber.Ctx, claims jwt.MapClaims) {
	c.Locals(LocUserRole, roleFromClaims(claims))
	if id, ok := claims["id"].(string); ok {
		c.Locals(LocUserID, strings.TrimSpace(id))
	}
	if name, ok := claims["user_name"].(string); ok {
		c.Locals(LocUserName, name)
	}
}

// CurrentRole falls back to guest when no auth middleware ran.
func CurrentRole(c *fiber.Ctx) string {
	if r, ok := c.Locals(LocUserRole).(string); ok && r != "" {
		return r
	}
	return constants.RoleGuest
}
