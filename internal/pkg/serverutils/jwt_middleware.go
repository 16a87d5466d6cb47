package serverutils

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	RoleAdmin  = "admin"
	RoleVendor = "vendor"

	actorKey = "actor"
)

// Actor is the authenticated caller. VendorId is set only for vendor tokens.
type Actor struct {
	Id       string
	Role     string
	VendorId uuid.UUID
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// CanAccessVendor reports whether the actor may read or change vendorId's data.
func (a Actor) CanAccessVendor(vendorId uuid.UUID) bool {
	return a.IsAdmin() || (a.Role == RoleVendor && a.VendorId == vendorId)
}

// IssueToken signs an HS256 token for actor.
func IssueToken(secret string, actor Actor, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": actor.Id,
		"role":    actor.Role,
		"exp":     time.Now().Add(ttl).Unix(),
	}
	if actor.VendorId != uuid.Nil {
		claims["vendor_id"] = actor.VendorId.String()
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseToken verifies tokenStr and resolves its actor. The returned
// *fiber.Error carries 401 for bad tokens and 403 for roles outside roles.
func ParseToken(secret, tokenStr string, roles ...string) (Actor, *fiber.Error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || token == nil || !token.Valid {
		return Actor{}, fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Actor{}, fiber.NewError(fiber.StatusUnauthorized, "Invalid token claims")
	}

	role, _ := claims["role"].(string)
	if !allowed(role, roles) {
		return Actor{}, fiber.NewError(fiber.StatusForbidden, "Access denied")
	}

	actor := Actor{Role: role}
	actor.Id, _ = claims["user_id"].(string)
	if actor.Id == "" {
		return Actor{}, fiber.NewError(fiber.StatusUnauthorized, "Token has no subject")
	}
	if role == RoleVendor {
		raw, _ := claims["vendor_id"].(string)
		vendorId, err := uuid.Parse(raw)
		if err != nil {
			return Actor{}, fiber.NewError(fiber.StatusForbidden, "Vendor token without vendor_id")
		}
		actor.VendorId = vendorId
	}
	return actor, nil
}

// JwtMiddleware authenticates the Bearer token and requires one of roles.
// The resolved Actor is stored for handlers, see ActorFrom.
func JwtMiddleware(secret string, roles ...string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		authHeader := ctx.Get("Authorization")
		if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(401, "Missing or invalid authorization header"))
		}

		actor, ferr := ParseToken(secret, authHeader[7:], roles...)
		if ferr != nil {
			return ctx.Status(ferr.Code).JSON(ErrorResponse(ferr.Code, ferr.Message))
		}

		ctx.Locals(actorKey, actor)
		ctx.Locals("user_id", actor.Id)
		return ctx.Next()
	}
}

// ActorFrom returns the actor stored by JwtMiddleware.
func ActorFrom(ctx *fiber.Ctx) Actor {
	actor, _ := ctx.Locals(actorKey).(Actor)
	return actor
}

func allowed(role string, roles []string) bool {
	if len(roles) == 0 {
		return role != ""
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
