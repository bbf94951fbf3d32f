package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/recupera/collections-service/internal/api/dto"
	"github.com/recupera/collections-service/internal/auth"
	"github.com/recupera/collections-service/internal/domain"
	"github.com/recupera/collections-service/internal/service"
	apperrors "github.com/recupera/collections-service/pkg/util/errorutil"
)

// AgreementsHandler manages installment plans negotiated over charges.
type AgreementsHandler struct {
	service *service.AgreementService
}

// NewAgreementsHandler constructs handler.
func NewAgreementsHandler(agreements *service.AgreementService) *AgreementsHandler {
	return &AgreementsHandler{service: agreements}
}

// CreateAgreement POST /agreements.
func (h *AgreementsHandler) CreateAgreement(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("invalid or expired token")
	}
	var req dto.AgreementRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := req.Validate(); err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}

	startDate, _ := time.Parse("2006-01-02", req.StartDate)
	agreement, installments, err := h.service.Create(c.Context(), principal, req.ChargeID, req.TotalCents, req.InstallmentCount, startDate)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": agreementResponse(agreement, installments)})
}

// GetAgreement GET /agreements/:id.
func (h *AgreementsHandler) GetAgreement(c *fiber.Ctx) error {
	agreement, installments, err := h.service.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": agreementResponse(agreement, installments)})
}

// ListAgreements GET /agreements.
func (h *AgreementsHandler) ListAgreements(c *fiber.Ctx) error {
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	agreements, err := h.service.List(c.Context(), pageSize, (page-1)*pageSize)
	if err != nil {
		return err
	}
	items := make([]dto.AgreementResponse, 0, len(agreements))
	for i := range agreements {
		items = append(items, agreementResponse(&agreements[i], nil))
	}
	return c.JSON(fiber.Map{"data": items})
}

// ListByCharge GET /charges/:id/agreements.
func (h *AgreementsHandler) ListByCharge(c *fiber.Ctx) error {
	agreements, err := h.service.ListByCharge(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.AgreementResponse, 0, len(agreements))
	for i := range agreements {
		items = append(items, agreementResponse(&agreements[i], nil))
	}
	return c.JSON(fiber.Map{"data": items})
}

// PayInstallment POST /agreements/:id/installments/:number/pay.
func (h *AgreementsHandler) PayInstallment(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("invalid or expired token")
	}
	number, err := c.ParamsInt("number")
	if err != nil || number < 1 {
		return apperrors.NewValidationError("installment number must be a positive integer", nil)
	}
	var req dto.PayInstallmentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	installment, err := h.service.PayInstallment(c.Context(), principal, c.Params("id"), number, req.Method)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": installmentResponse(installment)})
}

func agreementResponse(agreement *domain.Agreement, installments []domain.Installment) dto.AgreementResponse {
	resp := dto.AgreementResponse{
		ID:               agreement.ID,
		ChargeID:         agreement.ChargeID,
		TotalCents:       agreement.TotalCents,
		InstallmentCount: agreement.InstallmentCount,
		Status:           string(agreement.Status),
		StartDate:        agreement.StartDate.Format("2006-01-02"),
		CreatedAt:        agreement.CreatedAt,
	}
	for i := range installments {
		resp.Installments = append(resp.Installments, installmentResponse(&installments[i]))
	}
	return resp
}

func installmentResponse(installment *domain.Installment) dto.InstallmentResponse {
	return dto.InstallmentResponse{
		Number:      installment.Number,
		AmountCents: installment.AmountCents,
		DueDate:     installment.DueDate.Format("2006-01-02"),
		PaidAt:      installment.PaidAt,
	}
}
