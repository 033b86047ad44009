package mockapi

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aldoetobex/legal-mp-client/pkg/models"
)

// createIntent sets up a payment for an accept-eligible quote and hands the
// client a setup handle ({clientSecret, paymentId}).
func (s *Server) createIntent(c *fiber.Ctx) error {
	clientID := mustUserID(c)

	quoteID, err := uuid.Parse(c.Params("quoteId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid quote id")
	}

	var q models.Quote
	if err := s.db.First(&q, "id = ?", quoteID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.ErrNotFound
		}
		return fiber.ErrInternalServerError
	}
	var cs models.Case
	if err := s.db.First(&cs, "id = ?", q.CaseID).Error; err != nil {
		return fiber.ErrInternalServerError
	}

	if cs.ClientID.String() != clientID {
		return fiber.ErrForbidden
	}
	if cs.Status != models.CaseOpen {
		return fiber.NewError(fiber.StatusConflict, "case is not open")
	}
	if q.Status != models.QuoteProposed {
		return fiber.NewError(fiber.StatusConflict, "quote is not proposed")
	}

	// One payment per quote; re-entering checkout reuses the pending row.
	var pay models.Payment
	err = s.db.First(&pay, "quote_id = ?", q.ID).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		pay = models.Payment{
			CaseID:                cs.ID,
			QuoteID:               q.ID,
			ClientID:              cs.ClientID,
			LawyerID:              q.LawyerID,
			Amount:                q.Amount,
			StripePaymentIntentID: "pi_mock_" + strings.ReplaceAll(uuid.NewString(), "-", ""),
			Status:                models.PaymentPending,
		}
		if err := s.db.Create(&pay).Error; err != nil {
			return fiber.ErrInternalServerError
		}
	case err != nil:
		return fiber.ErrInternalServerError
	case pay.Status == models.PaymentCompleted:
		return fiber.NewError(fiber.StatusConflict, "quote already paid")
	}

	return c.Status(fiber.StatusCreated).JSON(models.PaymentIntentResponse{
		ClientSecret: pay.StripePaymentIntentID + "_secret_" + uuid.NewString(),
		PaymentID:    pay.ID.String(),
	})
}

// confirmPayment finalizes a captured intent: single winner: the quote is
// accepted, every other proposed quote rejected, the case engaged, the
// payment completed. Idempotent for an already-completed payment.
func (s *Server) confirmPayment(c *fiber.Ctx) error {
	clientID := mustUserID(c)
	intentID := c.Params("paymentIntentId")

	var pay models.Payment
	if err := s.db.First(&pay, "stripe_payment_intent_id = ?", intentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.ErrNotFound
		}
		return fiber.ErrInternalServerError
	}
	if pay.ClientID.String() != clientID {
		return fiber.ErrForbidden
	}
	if pay.Status == models.PaymentCompleted {
		return c.JSON(pay)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var cs models.Case
		if err := tx.First(&cs, "id = ?", pay.CaseID).Error; err != nil {
			return err
		}
		var q models.Quote
		if err := tx.First(&q, "id = ?", pay.QuoteID).Error; err != nil {
			return err
		}

		if cs.Status == models.CaseOpen {
			if err := tx.Model(&models.Quote{}).Where("id = ?", q.ID).
				Update("status", models.QuoteAccepted).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.Quote{}).
				Where("case_id = ? AND id <> ? AND status = ?", cs.ID, q.ID, models.QuoteProposed).
				Update("status", models.QuoteRejected).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.Case{}).Where("id = ?", cs.ID).
				Update("status", models.CaseEngaged).Error; err != nil {
				return err
			}
		}

		return tx.Model(&models.Payment{}).Where("id = ?", pay.ID).
			Update("status", models.PaymentCompleted).Error
	})
	if err != nil {
		return fiber.ErrInternalServerError
	}

	if err := s.db.First(&pay, "id = ?", pay.ID).Error; err != nil {
		return fiber.ErrInternalServerError
	}
	return c.JSON(pay)
}

// paymentStatus returns the backend's view of a payment to either party.
func (s *Server) paymentStatus(c *fiber.Ctx) error {
	userID := mustUserID(c)

	var pay models.Payment
	if err := s.db.First(&pay, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.ErrNotFound
		}
		return fiber.ErrInternalServerError
	}
	if pay.ClientID.String() != userID && pay.LawyerID.String() != userID {
		return fiber.ErrForbidden
	}
	return c.JSON(pay)
}
