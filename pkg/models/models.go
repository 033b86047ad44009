package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* =============================== Enums ================================== */

// Role defines the type of user in the system.
type Role string

const (
	RoleClient Role = "client"
	RoleLawyer Role = "lawyer"
)

// CaseStatus defines lifecycle states for a case.
type CaseStatus string

const (
	CaseOpen      CaseStatus = "open"
	CaseEngaged   CaseStatus = "engaged"
	CaseClosed    CaseStatus = "closed"
	CaseCancelled CaseStatus = "cancelled"
)

// QuoteStatus defines lifecycle states for a quote.
type QuoteStatus string

const (
	QuoteProposed QuoteStatus = "proposed"
	QuoteAccepted QuoteStatus = "accepted"
	QuoteRejected QuoteStatus = "rejected"
)

// PaymentStatus defines lifecycle states for a payment.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

/* =============================== Entities =============================== */

// The JSON tags below are the backend's wire contract (camelCase); the gorm
// tags exist so the same types back the in-process stub store used by the
// dev server and the integration tests.

// User represents a client or lawyer.
type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Role         Role      `json:"role" gorm:"type:varchar(20);not null"`
	Name         string    `json:"name,omitempty"`
	Jurisdiction string    `json:"jurisdiction,omitempty"`
	BarNumber    string    `json:"barNumber,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Case represents a legal case posted by a client.
type Case struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	ClientID    uuid.UUID  `json:"clientId" gorm:"type:uuid;not null;index"`
	Title       string     `json:"title" gorm:"not null"`
	Category    string     `json:"category" gorm:"not null"`
	Description string     `json:"description"`
	Status      CaseStatus `json:"status" gorm:"type:varchar(20);default:'open'"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`

	// Relations; the backend may omit either on list endpoints.
	Quotes []Quote    `json:"quotes,omitempty" gorm:"foreignKey:CaseID"`
	Files  []CaseFile `json:"files,omitempty" gorm:"foreignKey:CaseID"`
}

// Quote represents a lawyer's priced, timed proposal against a case.
type Quote struct {
	ID           uuid.UUID   `json:"id" gorm:"type:uuid;primaryKey"`
	CaseID       uuid.UUID   `json:"caseId" gorm:"type:uuid;not null;index:idx_case_lawyer,unique"`
	LawyerID     uuid.UUID   `json:"lawyerId" gorm:"type:uuid;not null;index:idx_case_lawyer,unique"`
	Amount       float64     `json:"amount" gorm:"not null"`
	ExpectedDays int         `json:"expectedDays" gorm:"not null"`
	Note         string      `json:"note,omitempty"`
	Status       QuoteStatus `json:"status" gorm:"type:varchar(20);default:'proposed'"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// CaseFile represents a document attached to a case.
type CaseFile struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	CaseID       uuid.UUID `json:"caseId" gorm:"type:uuid;not null;index"`
	OriginalName string    `json:"originalName" gorm:"not null"`
	Filename     string    `json:"filename" gorm:"not null"` // stored name
	Mimetype     string    `json:"mimetype" gorm:"not null"`
	Size         int64     `json:"size" gorm:"not null"`
	Path         string    `json:"path,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`

	Case Case `json:"-" gorm:"foreignKey:CaseID;references:ID"`
}

// Payment represents a payment attempt for a quote on a case.
type Payment struct {
	ID                    uuid.UUID     `json:"id" gorm:"type:uuid;primaryKey"`
	CaseID                uuid.UUID     `json:"caseId" gorm:"type:uuid;not null"`
	QuoteID               uuid.UUID     `json:"quoteId" gorm:"type:uuid;not null;uniqueIndex"`
	ClientID              uuid.UUID     `json:"clientId" gorm:"type:uuid;not null"`
	LawyerID              uuid.UUID     `json:"lawyerId" gorm:"type:uuid;not null"`
	Amount                float64       `json:"amount" gorm:"not null"`
	StripePaymentIntentID string        `json:"stripePaymentIntentId,omitempty" gorm:"index"`
	Status                PaymentStatus `json:"status" gorm:"type:varchar(20);default:'pending'"`
	CreatedAt             time.Time     `json:"createdAt"`
	UpdatedAt             time.Time     `json:"updatedAt"`
}

/* ============================ GORM hooks ================================ */

// UUIDs are assigned in BeforeCreate hooks because the stub store's default
// driver (sqlite) has no gen_random_uuid().

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (c *Case) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (q *Quote) BeforeCreate(*gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

func (f *CaseFile) BeforeCreate(*gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

func (p *Payment) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
