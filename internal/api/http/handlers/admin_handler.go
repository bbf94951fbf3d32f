package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/recupera/collections-service/internal/api/dto"
	"github.com/recupera/collections-service/internal/auth"
	"github.com/recupera/collections-service/internal/domain"
	"github.com/recupera/collections-service/internal/service"
	apperrors "github.com/recupera/collections-service/pkg/util/errorutil"
)

// AdminHandler covers companies and runtime settings. All routes sit behind
// the admin guard.
type AdminHandler struct {
	service *service.AdminService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(admin *service.AdminService) *AdminHandler {
	return &AdminHandler{service: admin}
}

// CreateCompany POST /companies.
func (h *AdminHandler) CreateCompany(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("invalid or expired token")
	}
	var req dto.CompanyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := req.Validate(); err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}

	company := companyFromRequest(req)
	if err := h.service.CreateCompany(c.Context(), principal, company); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": companyResponse(company)})
}

// UpdateCompany PUT /companies/:id.
func (h *AdminHandler) UpdateCompany(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("invalid or expired token")
	}
	var req dto.CompanyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := req.Validate(); err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}

	company := companyFromRequest(req)
	company.ID = c.Params("id")
	if err := h.service.UpdateCompany(c.Context(), principal, company); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": companyResponse(company)})
}

// DeleteCompany DELETE /companies/:id.
func (h *AdminHandler) DeleteCompany(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("invalid or expired token")
	}
	if err := h.service.DeleteCompany(c.Context(), principal, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetCompany GET /companies/:id.
func (h *AdminHandler) GetCompany(c *fiber.Ctx) error {
	company, err := h.service.GetCompany(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": companyResponse(company)})
}

// ListCompanies GET /companies.
func (h *AdminHandler) ListCompanies(c *fiber.Ctx) error {
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	companies, err := h.service.ListCompanies(c.Context(), pageSize, (page-1)*pageSize)
	if err != nil {
		return err
	}
	items := make([]dto.CompanyResponse, 0, len(companies))
	for i := range companies {
		items = append(items, companyResponse(&companies[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// ListSettings GET /settings.
func (h *AdminHandler) ListSettings(c *fiber.Ctx) error {
	settings, err := h.service.ListSettings(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.SettingResponse, 0, len(settings))
	for i := range settings {
		items = append(items, settingResponse(&settings[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetSetting GET /settings/:key.
func (h *AdminHandler) GetSetting(c *fiber.Ctx) error {
	setting, err := h.service.GetSetting(c.Context(), c.Params("key"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": settingResponse(setting)})
}

// PutSetting PUT /settings/:key.
func (h *AdminHandler) PutSetting(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("invalid or expired token")
	}
	var req dto.SettingRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := req.Validate(); err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}

	setting, err := h.service.PutSetting(c.Context(), principal, c.Params("key"), req.Value)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": settingResponse(setting)})
}

func companyFromRequest(req dto.CompanyRequest) *domain.Company {
	return &domain.Company{
		LegalName: req.LegalName,
		TradeName: req.TradeName,
		Document:  req.Document,
		Email:     req.Email,
		Phone:     req.Phone,
	}
}

func companyResponse(company *domain.Company) dto.CompanyResponse {
	return dto.CompanyResponse{
		ID:        company.ID,
		LegalName: company.LegalName,
		TradeName: company.TradeName,
		Document:  company.Document,
		Email:     company.Email,
		Phone:     company.Phone,
		CreatedAt: company.CreatedAt,
		UpdatedAt: company.UpdatedAt,
	}
}

func settingResponse(setting *domain.Setting) dto.SettingResponse {
	return dto.SettingResponse{
		Key:       setting.Key,
		Value:     setting.Value,
		UpdatedBy: setting.UpdatedBy,
		UpdatedAt: setting.UpdatedAt,
	}
}
