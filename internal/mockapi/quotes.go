package mockapi

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aldoetobex/legal-mp-client/pkg/models"
	"github.com/aldoetobex/legal-mp-client/pkg/validation"
)

// createQuote submits a new quote against an open case. One quote per
// (lawyer, case): a second submission is a conflict, the client edits via
// PATCH instead.
func (s *Server) createQuote(c *fiber.Ctx) error {
	lawyerID, _ := uuid.Parse(mustUserID(c))
	caseID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid case id")
	}

	var in models.QuoteRequest
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}
	if errs, _ := validation.Validate(in); errs != nil {
		return validation.Respond(c, errs)
	}

	var cs models.Case
	if err := s.db.First(&cs, "id = ?", caseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.ErrNotFound
		}
		return fiber.ErrInternalServerError
	}
	if cs.Status != models.CaseOpen {
		return fiber.NewError(fiber.StatusConflict, "case is not open")
	}

	var existing models.Quote
	err = s.db.Where("case_id = ? AND lawyer_id = ?", caseID, lawyerID).First(&existing).Error
	if err == nil {
		return fiber.NewError(fiber.StatusConflict, "quote already exists for this case; edit it instead")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fiber.ErrInternalServerError
	}

	q := models.Quote{
		CaseID:       caseID,
		LawyerID:     lawyerID,
		Amount:       in.Amount,
		ExpectedDays: in.ExpectedDays,
		Note:         strings.TrimSpace(in.Note),
		Status:       models.QuoteProposed,
	}
	if err := s.db.Create(&q).Error; err != nil {
		return fiber.ErrInternalServerError
	}
	return c.Status(fiber.StatusCreated).JSON(q)
}

// listMyQuotes returns the lawyer's quotes in the classic page envelope
// ({items, total, ...}); the client must normalize it like any other shape.
func (s *Server) listMyQuotes(c *fiber.Ctx) error {
	lawyerID := mustUserID(c)
	page, limit := parsePage(c)

	q := s.db.Model(&models.Quote{}).Where("lawyer_id = ?", lawyerID)
	if status := strings.TrimSpace(c.Query("status")); status != "" {
		switch models.QuoteStatus(status) {
		case models.QuoteProposed, models.QuoteAccepted, models.QuoteRejected:
			q = q.Where("status = ?", status)
		default:
			return fiber.NewError(fiber.StatusBadRequest, "invalid status filter")
		}
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return fiber.ErrInternalServerError
	}

	var rows []models.Quote
	if err := q.Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&rows).Error; err != nil {
		return fiber.ErrInternalServerError
	}
	if rows == nil {
		rows = []models.Quote{}
	}

	return c.JSON(fiber.Map{
		"items": rows,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// listCaseQuotes returns the quotes on a case as a bare array: everything
// for the owning client, only the lawyer's own otherwise.
func (s *Server) listCaseQuotes(c *fiber.Ctx) error {
	userID := mustUserID(c)
	caseID := c.Params("caseId")
	if _, err := uuid.Parse(caseID); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid case id")
	}

	var cs models.Case
	if err := s.db.First(&cs, "id = ?", caseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.ErrNotFound
		}
		return fiber.ErrInternalServerError
	}

	q := s.db.Model(&models.Quote{}).Where("case_id = ?", caseID)
	if mustRole(c) == string(models.RoleLawyer) {
		q = q.Where("lawyer_id = ?", userID)
	} else if cs.ClientID.String() != userID {
		return fiber.ErrForbidden
	}

	var rows []models.Quote
	if err := q.Order("created_at DESC").Find(&rows).Error; err != nil {
		return fiber.ErrInternalServerError
	}
	if rows == nil {
		rows = []models.Quote{}
	}
	return c.JSON(rows)
}

func (s *Server) loadOwnQuote(c *fiber.Ctx) (*models.Quote, error) {
	id := c.Params("id")
	var q models.Quote
	if err := s.db.First(&q, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.ErrNotFound
		}
		return nil, fiber.ErrInternalServerError
	}
	if mustRole(c) == string(models.RoleLawyer) && q.LawyerID.String() != mustUserID(c) {
		return nil, fiber.ErrNotFound
	}
	return &q, nil
}

func (s *Server) getQuote(c *fiber.Ctx) error {
	q, err := s.loadOwnQuote(c)
	if err != nil {
		return err
	}
	return c.JSON(q)
}

// updateQuote edits the lawyer's own quote in place, only while proposed
// and only while the parent case is still open.
func (s *Server) updateQuote(c *fiber.Ctx) error {
	q, err := s.loadOwnQuote(c)
	if err != nil {
		return err
	}
	if q.LawyerID.String() != mustUserID(c) {
		return fiber.ErrForbidden
	}
	if q.Status != models.QuoteProposed {
		return fiber.NewError(fiber.StatusConflict, "quote is immutable (already accepted/rejected)")
	}

	var cs models.Case
	if err := s.db.First(&cs, "id = ?", q.CaseID).Error; err != nil {
		return fiber.ErrInternalServerError
	}
	if cs.Status != models.CaseOpen {
		return fiber.NewError(fiber.StatusConflict, "case is not open")
	}

	var in models.QuoteRequest
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}
	if errs, _ := validation.Validate(in); errs != nil {
		return validation.Respond(c, errs)
	}

	if err := s.db.Model(q).Updates(map[string]any{
		"amount":        in.Amount,
		"expected_days": in.ExpectedDays,
		"note":          strings.TrimSpace(in.Note),
	}).Error; err != nil {
		return fiber.ErrInternalServerError
	}
	return c.JSON(q)
}

func (s *Server) deleteQuote(c *fiber.Ctx) error {
	q, err := s.loadOwnQuote(c)
	if err != nil {
		return err
	}
	if q.LawyerID.String() != mustUserID(c) {
		return fiber.ErrForbidden
	}
	if q.Status != models.QuoteProposed {
		return fiber.NewError(fiber.StatusConflict, "quote is immutable (already accepted/rejected)")
	}
	if err := s.db.Delete(q).Error; err != nil {
		return fiber.ErrInternalServerError
	}
	return c.SendStatus(fiber.StatusNoContent)
}
