package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/recupera/collections-service/internal/api/dto"
	"github.com/recupera/collections-service/internal/auth"
	"github.com/recupera/collections-service/internal/domain"
	"github.com/recupera/collections-service/internal/service"
	apperrors "github.com/recupera/collections-service/pkg/util/errorutil"
)

// ClientsHandler manages debtor records.
type ClientsHandler struct {
	service *service.PortfolioService
}

// NewClientsHandler constructs handler.
func NewClientsHandler(portfolio *service.PortfolioService) *ClientsHandler {
	return &ClientsHandler{service: portfolio}
}

// CreateClient POST /clients.
func (h *ClientsHandler) CreateClient(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("invalid or expired token")
	}
	var req dto.ClientRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := req.Validate(); err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}

	client := clientFromRequest(req)
	if err := h.service.CreateClient(c.Context(), principal, client); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": clientResponse(client)})
}

// UpdateClient PUT /clients/:id.
func (h *ClientsHandler) UpdateClient(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("invalid or expired token")
	}
	var req dto.ClientRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := req.Validate(); err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}

	client := clientFromRequest(req)
	client.ID = c.Params("id")
	if err := h.service.UpdateClient(c.Context(), principal, client); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": clientResponse(client)})
}

// DeleteClient DELETE /clients/:id.
func (h *ClientsHandler) DeleteClient(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("invalid or expired token")
	}
	if err := h.service.DeleteClient(c.Context(), principal, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetClient GET /clients/:id.
func (h *ClientsHandler) GetClient(c *fiber.Ctx) error {
	client, err := h.service.GetClient(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": clientResponse(client)})
}

// ListClients GET /clients.
func (h *ClientsHandler) ListClients(c *fiber.Ctx) error {
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	clients, err := h.service.ListClients(c.Context(), c.Query("search"), pageSize, (page-1)*pageSize)
	if err != nil {
		return err
	}
	items := make([]dto.ClientResponse, 0, len(clients))
	for i := range clients {
		items = append(items, clientResponse(&clients[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// WhatsAppLink GET /clients/:id/whatsapp-link. Returns a click-to-chat URL
// for the client's phone so operators can open a conversation directly.
func (h *ClientsHandler) WhatsAppLink(c *fiber.Ctx) error {
	link, err := h.service.ClientWhatsAppLink(c.Context(), c.Params("id"), c.Query("message"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"link": link}})
}

func clientFromRequest(req dto.ClientRequest) *domain.Client {
	return &domain.Client{
		Name:     req.Name,
		Document: req.Document,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
		Notes:    req.Notes,
	}
}

func clientResponse(client *domain.Client) dto.ClientResponse {
	return dto.ClientResponse{
		ID:        client.ID,
		Name:      client.Name,
		Document:  client.Document,
		Email:     client.Email,
		Phone:     client.Phone,
		Address:   client.Address,
		Notes:     client.Notes,
		CreatedAt: client.CreatedAt,
		UpdatedAt: client.UpdatedAt,
	}
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func parseTime(val string) *time.Time {
	if val == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return nil
	}
	return &t
}

func parseDate(val string) *time.Time {
	if val == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", val)
	if err != nil {
		return nil
	}
	return &t
}
