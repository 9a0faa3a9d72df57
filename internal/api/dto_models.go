package api

// ErrorResponse is a generic structure for returning errors via API.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// SuccessResponse is a generic structure for simple success messages.
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// CreateCheckoutSessionRequest is the body of
// POST /api/v1/billing/create-checkout-session.
type CreateCheckoutSessionRequest struct {
	PriceID    string `json:"priceId" binding:"required"`
	SuccessURL string `json:"successUrl" binding:"required"`
	CancelURL  string `json:"cancelUrl" binding:"required"`
	BookID     string `json:"bookId,omitempty"`
}

// CheckoutSessionResponse returns the created Checkout Session for client
// redirection.
type CheckoutSessionResponse struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

// CreatePortalSessionRequest is the body of
// POST /api/v1/billing/create-portal-session.
type CreatePortalSessionRequest struct {
	ReturnURL string `json:"returnUrl" binding:"required"`
}

// PortalSessionResponse returns the Billing Portal URL.
type PortalSessionResponse struct {
	URL string `json:"url"`
}

// InitializeUserResponse is returned by POST /api/v1/users/initialize.
type InitializeUserResponse struct {
	Created bool        `json:"created"`
	User    interface{} `json:"user"`
}
