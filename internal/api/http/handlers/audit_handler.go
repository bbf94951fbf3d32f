package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/recupera/collections-service/internal/domain"
	"github.com/recupera/collections-service/internal/repository"
	"github.com/recupera/collections-service/internal/service"
)

// AuditHandler reads the append-only audit log. Admin only.
type AuditHandler struct {
	service *service.AuditService
}

// NewAuditHandler constructs handler.
func NewAuditHandler(audit *service.AuditService) *AuditHandler {
	return &AuditHandler{service: audit}
}

// ListEntries GET /audit.
func (h *AuditHandler) ListEntries(c *fiber.Ctx) error {
	filter := repository.AuditFilter{}
	if actorID := c.Query("actor_id"); actorID != "" {
		filter.ActorID = &actorID
	}
	if entity := c.Query("entity"); entity != "" {
		filter.Entity = &entity
	}
	filter.From = parseTime(c.Query("from"))
	filter.To = parseTime(c.Query("to"))
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 50)
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize

	entries, err := h.service.List(c.Context(), filter)
	if err != nil {
		return err
	}
	items := make([]fiber.Map, 0, len(entries))
	for i := range entries {
		items = append(items, auditEntryResponse(&entries[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

func auditEntryResponse(entry *domain.AuditEntry) fiber.Map {
	return fiber.Map{
		"id":          entry.ID,
		"actor_id":    entry.ActorID,
		"actor_email": entry.ActorEmail,
		"action":      entry.Action,
		"entity":      entry.Entity,
		"entity_id":   entry.EntityID,
		"detail":      entry.Detail,
		"created_at":  entry.CreatedAt,
	}
}
