package mockapi

import (
	"errors"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aldoetobex/legal-mp-client/pkg/models"
	"github.com/aldoetobex/legal-mp-client/pkg/sanitize"
	"github.com/aldoetobex/legal-mp-client/pkg/validation"
)

func (s *Server) createCase(c *fiber.Ctx) error {
	var in models.CreateCaseRequest
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}
	if errs, _ := validation.Validate(in); errs != nil {
		return validation.Respond(c, errs)
	}

	clientID, _ := uuid.Parse(mustUserID(c))
	cs := models.Case{
		ClientID:    clientID,
		Title:       strings.TrimSpace(in.Title),
		Category:    strings.TrimSpace(in.Category),
		Description: strings.TrimSpace(in.Description),
		Status:      models.CaseOpen,
	}
	if err := s.db.Create(&cs).Error; err != nil {
		return fiber.ErrInternalServerError
	}
	return c.Status(fiber.StatusCreated).JSON(cs)
}

// listCases serves both sides of the marketplace: clients get their own
// cases, lawyers browse open cases with category/date filters and redacted
// descriptions.
func (s *Server) listCases(c *fiber.Ctx) error {
	userID := mustUserID(c)
	page, limit := parsePage(c)

	q := s.db.Model(&models.Case{})
	if mustRole(c) == string(models.RoleClient) {
		q = q.Where("client_id = ?", userID)
	} else {
		q = q.Where("status = ?", models.CaseOpen)
		if category := strings.TrimSpace(c.Query("category")); category != "" {
			q = q.Where("category = ?", category)
		}
		if since := c.Query("createdSince"); since != "" {
			if t, err := time.Parse(time.RFC3339, since); err == nil {
				q = q.Where("created_at >= ?", t)
			}
		}
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return fiber.ErrInternalServerError
	}

	var list []models.Case
	if err := q.Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Preload("Quotes").
		Find(&list).Error; err != nil {
		return fiber.ErrInternalServerError
	}
	if list == nil {
		list = []models.Case{}
	}

	if mustRole(c) == string(models.RoleLawyer) {
		for i := range list {
			list[i].Description = sanitize.Summary(sanitize.RedactPII(list[i].Description), 240)
		}
	}

	return c.JSON(fiber.Map{
		"data":  list,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

func (s *Server) getCase(c *fiber.Ctx) error {
	userID := mustUserID(c)
	role := mustRole(c)
	id := c.Params("id")

	var cs models.Case
	err := s.db.
		Preload("Files", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Quotes", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") }).
		First(&cs, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.ErrNotFound
		}
		return fiber.ErrInternalServerError
	}

	switch role {
	case string(models.RoleClient):
		if cs.ClientID.String() != userID {
			return fiber.ErrNotFound
		}
	case string(models.RoleLawyer):
		// Lawyers without an accepted quote on an engaged case get a
		// redacted description; the file list stays visible as metadata
		// (downloads are gated separately).
		if !s.isAcceptedLawyer(cs, userID) {
			cs.Description = sanitize.RedactPII(cs.Description)
		}
	}

	if cs.Files == nil {
		cs.Files = []models.CaseFile{}
	}
	if cs.Quotes == nil {
		cs.Quotes = []models.Quote{}
	}
	return c.JSON(cs)
}

// isAcceptedLawyer reports whether lawyerID holds an accepted quote on an
// engaged case.
func (s *Server) isAcceptedLawyer(cs models.Case, lawyerID string) bool {
	if cs.Status != models.CaseEngaged {
		return false
	}
	var cnt int64
	s.db.Model(&models.Quote{}).
		Where("case_id = ? AND lawyer_id = ? AND status = ?", cs.ID, lawyerID, models.QuoteAccepted).
		Count(&cnt)
	return cnt > 0
}

func (s *Server) updateCase(c *fiber.Ctx) error {
	userID := mustUserID(c)
	id := c.Params("id")

	var in models.UpdateCaseRequest
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}
	if errs, _ := validation.Validate(in); errs != nil {
		return validation.Respond(c, errs)
	}

	var cs models.Case
	if err := s.db.First(&cs, "id = ? AND client_id = ?", id, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.ErrNotFound
		}
		return fiber.ErrInternalServerError
	}
	if cs.Status != models.CaseOpen {
		return fiber.NewError(fiber.StatusConflict, "case is not open")
	}

	updates := map[string]any{}
	if in.Title != nil {
		updates["title"] = strings.TrimSpace(*in.Title)
	}
	if in.Category != nil {
		updates["category"] = strings.TrimSpace(*in.Category)
	}
	if in.Description != nil {
		updates["description"] = strings.TrimSpace(*in.Description)
	}
	if len(updates) > 0 {
		if err := s.db.Model(&cs).Updates(updates).Error; err != nil {
			return fiber.ErrInternalServerError
		}
	}
	return c.JSON(cs)
}

func (s *Server) uploadFiles(c *fiber.Ctx) error {
	userID := mustUserID(c)
	caseID := c.Params("id")

	var cs models.Case
	if err := s.db.First(&cs, "id = ? AND client_id = ?", caseID, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.ErrForbidden
		}
		return fiber.ErrInternalServerError
	}

	form, err := c.MultipartForm()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "multipart form required; use field: files")
	}
	uploads := form.File["files"]
	if len(uploads) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "files are required (field: files)")
	}
	if len(uploads) > 10 {
		return fiber.NewError(fiber.StatusBadRequest, "max 10 files allowed")
	}

	created := make([]models.CaseFile, 0, len(uploads))
	for _, fh := range uploads {
		if fh.Size <= 0 || fh.Size > 10*1024*1024 {
			return fiber.NewError(fiber.StatusBadRequest, "files must be between 1 byte and 10MB")
		}
		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = mime.TypeByExtension(filepath.Ext(fh.Filename))
		}

		f, err := fh.Open()
		if err != nil {
			return fiber.ErrInternalServerError
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return fiber.ErrInternalServerError
		}

		rec := models.CaseFile{
			CaseID:       cs.ID,
			OriginalName: fh.Filename,
			Filename:     uuid.NewString() + filepath.Ext(fh.Filename),
			Mimetype:     ct,
			Size:         fh.Size,
		}
		if err := s.db.Create(&rec).Error; err != nil {
			return fiber.ErrInternalServerError
		}
		if err := s.db.Create(&fileBlob{ID: rec.ID, Data: data}).Error; err != nil {
			return fiber.ErrInternalServerError
		}
		created = append(created, rec)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}
