package api

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"summarist-backend-go/internal/core"
)

// BillingHandler handles billing-related API endpoints: plans, checkout,
// the billing portal, premium status and the Stripe webhook.
type BillingHandler struct {
	billingService     core.BillingService
	entitlementService core.EntitlementService
	logger             *zap.Logger
}

// NewBillingHandler creates a new BillingHandler.
func NewBillingHandler(billingService core.BillingService, entitlementService core.EntitlementService, logger *zap.Logger) *BillingHandler {
	return &BillingHandler{
		billingService:     billingService,
		entitlementService: entitlementService,
		logger:             logger,
	}
}

// ListPlans handles GET /api/v1/billing/plans. The catalog is public;
// pricing pages render before sign-in.
func (h *BillingHandler) ListPlans(c *gin.Context) {
	c.JSON(http.StatusOK, h.billingService.Plans())
}

// CreateCheckoutSession handles POST /api/v1/billing/create-checkout-session.
func (h *BillingHandler) CreateCheckoutSession(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req CreateCheckoutSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	session, err := h.billingService.CreateCheckoutSession(c.Request.Context(), userID, core.CheckoutRequest{
		PriceID:    req.PriceID,
		SuccessURL: req.SuccessURL,
		CancelURL:  req.CancelURL,
		BookID:     req.BookID,
	})
	if err != nil {
		respondWithError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, CheckoutSessionResponse{SessionID: session.ID, URL: session.URL})
}

// CreatePortalSession handles POST /api/v1/billing/create-portal-session.
func (h *BillingHandler) CreatePortalSession(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req CreatePortalSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	url, err := h.billingService.CreatePortalSession(c.Request.Context(), userID, req.ReturnURL)
	if err != nil {
		respondWithError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, PortalSessionResponse{URL: url})
}

// PremiumStatus handles GET /api/v1/billing/premium-status.
func (h *BillingHandler) PremiumStatus(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	status, err := h.entitlementService.PremiumStatus(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// HandleStripeWebhook handles POST /api/v1/billing/webhooks/stripe. The
// endpoint is public; Stripe authenticates itself with the
// Stripe-Signature header, verified in the service.
func (h *BillingHandler) HandleStripeWebhook(c *gin.Context) {
	signature := c.GetHeader("Stripe-Signature")
	if signature == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Missing Stripe-Signature header"})
		return
	}

	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.logger.Error("failed to read webhook payload", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to read webhook payload"})
		return
	}

	if err := h.billingService.HandleStripeWebhook(c.Request.Context(), payload, signature); err != nil {
		h.logger.Error("failed to handle stripe webhook", zap.Error(err))
		respondWithError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Webhook received successfully"})
}
