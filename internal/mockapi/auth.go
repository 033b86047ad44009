package mockapi

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/aldoetobex/legal-mp-client/pkg/models"
	"github.com/aldoetobex/legal-mp-client/pkg/validation"
)

/* ============================== JWT Claims ============================== */

// Claims is the JWT payload issued on signup/signin.
type Claims struct {
	Sub  string `json:"sub"`  // user ID
	Role string `json:"role"` // "client" | "lawyer"
	jwt.RegisteredClaims
}

func (s *Server) issueToken(userID, role string) (string, error) {
	claims := &Claims{
		Sub:  userID,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

/* ============================== Middleware ============================== */

// requireAuth validates a Bearer JWT and injects userID and role into the
// request context. Anything wrong with the credential is a plain 401; the
// client treats that as fatal to the session no matter which endpoint it
// came from.
func (s *Server) requireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		h := c.Get("Authorization")
		if !strings.HasPrefix(h, "Bearer ") {
			return fiber.ErrUnauthorized
		}
		tokenStr := strings.TrimPrefix(h, "Bearer ")

		token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
			return []byte(s.jwtSecret), nil
		})
		if err != nil || !token.Valid {
			return fiber.ErrUnauthorized
		}
		claims, ok := token.Claims.(*Claims)
		if !ok {
			return fiber.ErrUnauthorized
		}

		c.Locals("userID", claims.Sub)
		c.Locals("role", claims.Role)
		return c.Next()
	}
}

func mustUserID(c *fiber.Ctx) string {
	return c.Locals("userID").(string)
}

func mustRole(c *fiber.Ctx) string {
	return c.Locals("role").(string)
}

// requireRole ensures the authenticated user has the expected role.
func requireRole(role models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if mustRole(c) != string(role) {
			return fiber.ErrForbidden
		}
		return c.Next()
	}
}

/* =============================== Handlers =============================== */

func (s *Server) signup(c *fiber.Ctx) error {
	var in models.SignUpRequest
	if err := c.BodyParser(&in); err != nil {
		return fiber.ErrBadRequest
	}
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if errs, _ := validation.Validate(in); errs != nil {
		return validation.Respond(c, errs)
	}

	hash, _ := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	u := models.User{
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         models.Role(in.Role),
		Name:         in.Name,
		Jurisdiction: in.Jurisdiction,
		BarNumber:    in.BarNumber,
	}
	if err := s.db.Create(&u).Error; err != nil {
		return fiber.NewError(fiber.StatusConflict, "email already exists")
	}

	token, err := s.issueToken(u.ID.String(), string(u.Role))
	if err != nil {
		return fiber.ErrInternalServerError
	}
	return c.Status(fiber.StatusCreated).JSON(models.AuthResponse{AccessToken: token, User: u})
}

func (s *Server) signin(c *fiber.Ctx) error {
	var in models.SignInRequest
	if err := c.BodyParser(&in); err != nil {
		return fiber.ErrBadRequest
	}
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if errs, _ := validation.Validate(in); errs != nil {
		return validation.Respond(c, errs)
	}

	var u models.User
	if err := s.db.Where("email = ?", in.Email).First(&u).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
		}
		return fiber.ErrInternalServerError
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)) != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
	}

	token, err := s.issueToken(u.ID.String(), string(u.Role))
	if err != nil {
		return fiber.ErrInternalServerError
	}
	return c.JSON(models.AuthResponse{AccessToken: token, User: u})
}
