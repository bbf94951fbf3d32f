package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/recupera/collections-service/internal/api/dto"
	"github.com/recupera/collections-service/internal/auth"
	"github.com/recupera/collections-service/internal/domain"
	"github.com/recupera/collections-service/internal/service"
	apperrors "github.com/recupera/collections-service/pkg/util/errorutil"
)

// CreditorsHandler manages the companies whose debts the agency collects.
type CreditorsHandler struct {
	service *service.PortfolioService
}

// NewCreditorsHandler constructs handler.
func NewCreditorsHandler(portfolio *service.PortfolioService) *CreditorsHandler {
	return &CreditorsHandler{service: portfolio}
}

// CreateCreditor POST /creditors.
func (h *CreditorsHandler) CreateCreditor(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("invalid or expired token")
	}
	var req dto.CreditorRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := req.Validate(); err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}

	creditor := creditorFromRequest(req)
	if err := h.service.CreateCreditor(c.Context(), principal, creditor); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": creditorResponse(creditor)})
}

// UpdateCreditor PUT /creditors/:id.
func (h *CreditorsHandler) UpdateCreditor(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("invalid or expired token")
	}
	var req dto.CreditorRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := req.Validate(); err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}

	creditor := creditorFromRequest(req)
	creditor.ID = c.Params("id")
	if err := h.service.UpdateCreditor(c.Context(), principal, creditor); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": creditorResponse(creditor)})
}

// DeleteCreditor DELETE /creditors/:id.
func (h *CreditorsHandler) DeleteCreditor(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("invalid or expired token")
	}
	if err := h.service.DeleteCreditor(c.Context(), principal, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetCreditor GET /creditors/:id.
func (h *CreditorsHandler) GetCreditor(c *fiber.Ctx) error {
	creditor, err := h.service.GetCreditor(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": creditorResponse(creditor)})
}

// ListCreditors GET /creditors.
func (h *CreditorsHandler) ListCreditors(c *fiber.Ctx) error {
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	creditors, err := h.service.ListCreditors(c.Context(), pageSize, (page-1)*pageSize)
	if err != nil {
		return err
	}
	items := make([]dto.CreditorResponse, 0, len(creditors))
	for i := range creditors {
		items = append(items, creditorResponse(&creditors[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

func creditorFromRequest(req dto.CreditorRequest) *domain.Creditor {
	return &domain.Creditor{
		Name:              req.Name,
		Document:          req.Document,
		Email:             req.Email,
		Phone:             req.Phone,
		CommissionRateBps: req.CommissionRateBps,
	}
}

func creditorResponse(creditor *domain.Creditor) dto.CreditorResponse {
	return dto.CreditorResponse{
		ID:                creditor.ID,
		Name:              creditor.Name,
		Document:          creditor.Document,
		Email:             creditor.Email,
		Phone:             creditor.Phone,
		CommissionRateBps: creditor.CommissionRateBps,
		CreatedAt:         creditor.CreatedAt,
		UpdatedAt:         creditor.UpdatedAt,
	}
}
