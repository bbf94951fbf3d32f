package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/recupera/collections-service/internal/api/dto"
	"github.com/recupera/collections-service/internal/auth"
	"github.com/recupera/collections-service/internal/domain"
	"github.com/recupera/collections-service/internal/repository"
	"github.com/recupera/collections-service/internal/service"
	apperrors "github.com/recupera/collections-service/pkg/util/errorutil"
)

// FinanceHandler exposes commissions and remittance batches. The remittance
// routes sit behind the admin guard.
type FinanceHandler struct {
	service *service.FinanceService
}

// NewFinanceHandler constructs handler.
func NewFinanceHandler(finance *service.FinanceService) *FinanceHandler {
	return &FinanceHandler{service: finance}
}

// ListCommissions GET /commissions.
func (h *FinanceHandler) ListCommissions(c *fiber.Ctx) error {
	filter := repository.CommissionFilter{}
	if creditorID := c.Query("creditor_id"); creditorID != "" {
		filter.CreditorID = &creditorID
	}
	filter.From = parseDate(c.Query("from"))
	filter.To = parseDate(c.Query("to"))
	filter.Unremitted = c.QueryBool("unremitted")
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize

	commissions, err := h.service.ListCommissions(c.Context(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.CommissionResponse, 0, len(commissions))
	for i := range commissions {
		items = append(items, commissionResponse(&commissions[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// CommissionSummary GET /commissions/summary.
func (h *FinanceHandler) CommissionSummary(c *fiber.Ctx) error {
	from := parseDate(c.Query("from"))
	to := parseDate(c.Query("to"))
	if from == nil || to == nil {
		return apperrors.NewValidationError("from and to are required (YYYY-MM-DD)", nil)
	}
	summary, err := h.service.CommissionSummary(c.Context(), *from, *to)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"total_cents": summary.TotalCents,
		"count":       summary.Count,
	}})
}

// CloseRemittance POST /remittances.
func (h *FinanceHandler) CloseRemittance(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("invalid or expired token")
	}
	var req dto.RemittanceRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := req.Validate(); err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}

	from, _ := time.Parse("2006-01-02", req.PeriodFrom)
	to, _ := time.Parse("2006-01-02", req.PeriodTo)
	remittance, err := h.service.CloseRemittance(c.Context(), principal, req.Reference, from, to)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": remittanceResponse(remittance)})
}

// GetRemittance GET /remittances/:id.
func (h *FinanceHandler) GetRemittance(c *fiber.Ctx) error {
	remittance, err := h.service.GetRemittance(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": remittanceResponse(remittance)})
}

// ListRemittances GET /remittances.
func (h *FinanceHandler) ListRemittances(c *fiber.Ctx) error {
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	remittances, err := h.service.ListRemittances(c.Context(), pageSize, (page-1)*pageSize)
	if err != nil {
		return err
	}
	items := make([]dto.RemittanceResponse, 0, len(remittances))
	for i := range remittances {
		items = append(items, remittanceResponse(&remittances[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

func commissionResponse(commission *domain.Commission) dto.CommissionResponse {
	return dto.CommissionResponse{
		ID:           commission.ID,
		CreditorID:   commission.CreditorID,
		ChargeID:     commission.ChargeID,
		PaymentID:    commission.PaymentID,
		AmountCents:  commission.AmountCents,
		RateBps:      commission.RateBps,
		RemittanceID: commission.RemittanceID,
		CreatedAt:    commission.CreatedAt,
	}
}

func remittanceResponse(remittance *domain.Remittance) dto.RemittanceResponse {
	return dto.RemittanceResponse{
		ID:              remittance.ID,
		Reference:       remittance.Reference,
		PeriodFrom:      remittance.PeriodFrom.Format("2006-01-02"),
		PeriodTo:        remittance.PeriodTo.Format("2006-01-02"),
		TotalCents:      remittance.TotalCents,
		CommissionCount: remittance.CommissionCount,
		CreatedBy:       remittance.CreatedBy,
		CreatedAt:       remittance.CreatedAt,
	}
}
