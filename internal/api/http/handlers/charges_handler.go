package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/recupera/collections-service/internal/api/dto"
	"github.com/recupera/collections-service/internal/auth"
	"github.com/recupera/collections-service/internal/domain"
	"github.com/recupera/collections-service/internal/repository"
	"github.com/recupera/collections-service/internal/service"
	apperrors "github.com/recupera/collections-service/pkg/util/errorutil"
)

// ChargesHandler manages debts and the payments collected against them.
type ChargesHandler struct {
	service *service.PortfolioService
}

// NewChargesHandler constructs handler.
func NewChargesHandler(portfolio *service.PortfolioService) *ChargesHandler {
	return &ChargesHandler{service: portfolio}
}

// CreateCharge POST /charges.
func (h *ChargesHandler) CreateCharge(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("invalid or expired token")
	}
	var req dto.ChargeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := req.Validate(); err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}

	dueDate, _ := time.Parse("2006-01-02", req.DueDate)
	charge := &domain.Charge{
		ClientID:    req.ClientID,
		CreditorID:  req.CreditorID,
		Description: req.Description,
		AmountCents: req.AmountCents,
		DueDate:     dueDate,
	}
	if err := h.service.CreateCharge(c.Context(), principal, charge); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": chargeResponse(charge)})
}

// UpdateCharge PUT /charges/:id. Paid totals and status transitions driven
// by payments are untouchable here; only descriptive fields change.
func (h *ChargesHandler) UpdateCharge(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("invalid or expired token")
	}
	var req dto.ChargeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := req.Validate(); err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}

	charge, err := h.service.GetCharge(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	charge.Description = req.Description
	charge.AmountCents = req.AmountCents
	charge.DueDate, _ = time.Parse("2006-01-02", req.DueDate)
	if err := h.service.UpdateCharge(c.Context(), principal, charge); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": chargeResponse(charge)})
}

// CancelCharge POST /charges/:id/cancel.
func (h *ChargesHandler) CancelCharge(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("invalid or expired token")
	}
	charge, err := h.service.GetCharge(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	if charge.Status == domain.ChargeStatusPaid {
		return apperrors.NewConflict("paid charges cannot be cancelled", nil)
	}
	charge.Status = domain.ChargeStatusCancelled
	if err := h.service.UpdateCharge(c.Context(), principal, charge); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": chargeResponse(charge)})
}

// GetCharge GET /charges/:id.
func (h *ChargesHandler) GetCharge(c *fiber.Ctx) error {
	charge, err := h.service.GetCharge(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": chargeResponse(charge)})
}

// ListCharges GET /charges.
func (h *ChargesHandler) ListCharges(c *fiber.Ctx) error {
	filter := parseChargeQuery(c)
	charges, err := h.service.ListCharges(c.Context(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.ChargeResponse, 0, len(charges))
	for i := range charges {
		items = append(items, chargeResponse(&charges[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// RecordPayment POST /charges/:id/payments.
func (h *ChargesHandler) RecordPayment(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("invalid or expired token")
	}
	var req dto.PaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := req.Validate(); err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}

	paidAt := time.Now()
	if t := parseTime(req.PaidAt); t != nil {
		paidAt = *t
	}
	charge, err := h.service.RecordPayment(c.Context(), principal, c.Params("id"), req.AmountCents, req.Method, paidAt)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": chargeResponse(charge)})
}

// ListPayments GET /charges/:id/payments.
func (h *ChargesHandler) ListPayments(c *fiber.Ctx) error {
	payments, err := h.service.ListPayments(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.PaymentResponse, 0, len(payments))
	for i := range payments {
		items = append(items, paymentResponse(&payments[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

func parseChargeQuery(c *fiber.Ctx) repository.ChargeFilter {
	filter := repository.ChargeFilter{}
	if clientID := c.Query("client_id"); clientID != "" {
		filter.ClientID = &clientID
	}
	if creditorID := c.Query("creditor_id"); creditorID != "" {
		filter.CreditorID = &creditorID
	}
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			filter.Statuses = append(filter.Statuses, domain.ChargeStatus(strings.TrimSpace(part)))
		}
	}
	filter.DueFrom = parseDate(c.Query("due_from"))
	filter.DueTo = parseDate(c.Query("due_to"))
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize
	return filter
}

func chargeResponse(charge *domain.Charge) dto.ChargeResponse {
	return dto.ChargeResponse{
		ID:               charge.ID,
		ClientID:         charge.ClientID,
		CreditorID:       charge.CreditorID,
		Description:      charge.Description,
		AmountCents:      charge.AmountCents,
		PaidCents:        charge.PaidCents,
		OutstandingCents: charge.Outstanding(),
		Status:           string(charge.Status),
		DueDate:          charge.DueDate.Format("2006-01-02"),
		CreatedAt:        charge.CreatedAt,
		UpdatedAt:        charge.UpdatedAt,
	}
}

func paymentResponse(payment *domain.Payment) dto.PaymentResponse {
	return dto.PaymentResponse{
		ID:          payment.ID,
		ChargeID:    payment.ChargeID,
		AmountCents: payment.AmountCents,
		Method:      payment.Method,
		RecordedBy:  payment.RecordedBy,
		PaidAt:      payment.PaidAt,
	}
}
