package mockapi

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/aldoetobex/legal-mp-client/pkg/models"
)

// fileTokenTTL bounds how long a secure-download grant stays valid.
const fileTokenTTL = 60 * time.Second

// secureURL is the secondary authorization step for downloads: the owner, or
// the accepted lawyer on an engaged case, gets a short-lived token to append
// to the retrieval path.
func (s *Server) secureURL(c *fiber.Ctx) error {
	userID := mustUserID(c)
	role := mustRole(c)
	fileID := c.Params("id")

	var cf models.CaseFile
	if err := s.db.Preload("Case").First(&cf, "id = ?", fileID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.ErrNotFound
		}
		return fiber.ErrInternalServerError
	}

	allowed := false
	if role == string(models.RoleClient) && cf.Case.ClientID.String() == userID {
		allowed = true
	}
	if role == string(models.RoleLawyer) && s.isAcceptedLawyer(cf.Case, userID) {
		allowed = true
	}
	if !allowed {
		return fiber.ErrForbidden
	}

	claims := jwt.RegisteredClaims{
		Subject:   cf.ID.String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(fileTokenTTL)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtSecret))
	if err != nil {
		return fiber.ErrInternalServerError
	}

	return c.JSON(fiber.Map{
		"token":      token,
		"expires_in": int(fileTokenTTL.Seconds()),
	})
}

// secureDownload serves file bytes against a valid grant token. The token
// itself is the authorization; no session check here, matching signed-URL
// semantics.
func (s *Server) secureDownload(c *fiber.Ctx) error {
	fileID := c.Params("id")
	tokenStr := c.Query("token")
	if tokenStr == "" {
		return fiber.ErrUnauthorized
	}

	token, err := jwt.ParseWithClaims(tokenStr, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return fiber.ErrUnauthorized
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject != fileID {
		return fiber.ErrUnauthorized
	}

	var cf models.CaseFile
	if err := s.db.First(&cf, "id = ?", fileID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.ErrNotFound
		}
		return fiber.ErrInternalServerError
	}
	var blob fileBlob
	if err := s.db.First(&blob, "id = ?", fileID).Error; err != nil {
		return fiber.ErrNotFound
	}

	c.Set(fiber.HeaderContentType, cf.Mimetype)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+cf.OriginalName+`"`)
	return c.Send(blob.Data)
}
