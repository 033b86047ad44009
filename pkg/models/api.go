package models

/* ============================ Error envelopes =========================== */

// ValidationErrorResponse is the Laravel-style shape the backend returns for
// field validation failures.
type ValidationErrorResponse struct {
	Message string              `json:"message" example:"Validation failed"`
	Errors  map[string][]string `json:"errors"`
}

// ErrorResponse is the backend's generic error shape (401/403/404/409/500).
type ErrorResponse struct {
	Error   bool   `json:"error" example:"true"`
	Message string `json:"message" example:"Forbidden"`
	Code    string `json:"code,omitempty" example:"FORBIDDEN"`
}

/* ================================ Auth ================================== */

// AuthResponse is returned by /auth/signup and /auth/signin.
type AuthResponse struct {
	AccessToken string `json:"access_token"`
	User        User   `json:"user"`
}

// SignUpRequest is the registration payload. Lawyer-only fields are tagged
// omitempty so an empty bar number never reaches the wire; the session store
// additionally drops them entirely for client signups.
type SignUpRequest struct {
	Role     string `json:"role" validate:"required,oneof=client lawyer"`
	Name     string `json:"name,omitempty" validate:"omitempty,min=2,max=80"`
	Email    string `json:"email" validate:"required,email,max=120"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	// Form-only; never serialized.
	ConfirmPassword string `json:"-" validate:"omitempty,eqfield=Password"`
	// Optional for lawyers
	Jurisdiction string `json:"jurisdiction,omitempty" validate:"omitempty,jurisdiction"`
	BarNumber    string `json:"barNumber,omitempty" validate:"omitempty,barnum"`
}

// SignInRequest is the credential payload for /auth/signin.
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email,max=120"`
	Password string `json:"password" validate:"required"`
}

/* ============================ Case requests ============================= */

type CreateCaseRequest struct {
	Title       string `json:"title" validate:"required,max=120"`
	Category    string `json:"category" validate:"required,max=40"`
	Description string `json:"description" validate:"max=2000"`
}

// UpdateCaseRequest carries a partial update; nil fields are left untouched.
type UpdateCaseRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,max=120"`
	Category    *string `json:"category,omitempty" validate:"omitempty,max=40"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
}

/* ============================ Quote requests ============================ */

// QuoteRequest is used both for submitting a new quote and editing an
// existing one.
type QuoteRequest struct {
	Amount       float64 `json:"amount" validate:"required,gt=0"`
	ExpectedDays int     `json:"expectedDays" validate:"required,gte=1,lte=365"`
	Note         string  `json:"note,omitempty" validate:"max=1000"`
}

/* ============================== Payments ================================ */

// PaymentIntentResponse is returned by POST /payments/create-intent/:quoteId.
type PaymentIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
	PaymentID    string `json:"paymentId"`
}

/* =========================== List parameters ============================ */

// CaseListParams filters GET /cases.
type CaseListParams struct {
	Category     string
	CreatedSince string // ISO timestamp lower bound
	Page         int
	Limit        int
}

// QuoteListParams filters GET /quotes.
type QuoteListParams struct {
	Status string
	Page   int
	Limit  int
}

/* ============================= List results ============================= */

// Page is a normalized page of items plus the backend-reported (or derived)
// total. The raw envelope varies; see the api package's extraction helpers.
type Page[T any] struct {
	Items []T
	Total int
}
