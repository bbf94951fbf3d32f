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

// AppointmentsHandler manages collection visits and calls.
type AppointmentsHandler struct {
	service *service.ScheduleService
}

// NewAppointmentsHandler constructs handler.
func NewAppointmentsHandler(schedule *service.ScheduleService) *AppointmentsHandler {
	return &AppointmentsHandler{service: schedule}
}

// CreateAppointment POST /appointments.
func (h *AppointmentsHandler) CreateAppointment(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("invalid or expired token")
	}
	var req dto.AppointmentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := req.Validate(); err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}

	scheduledAt, _ := time.Parse(time.RFC3339, req.ScheduledAt)
	appointment := &domain.Appointment{
		ClientID:    req.ClientID,
		Kind:        domain.AppointmentKind(req.Kind),
		ScheduledAt: scheduledAt,
		Notes:       req.Notes,
	}
	if err := h.service.Create(c.Context(), principal, appointment); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": appointmentResponse(appointment)})
}

// UpdateStatus PATCH /appointments/:id.
func (h *AppointmentsHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("invalid or expired token")
	}
	var req dto.AppointmentStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := req.Validate(); err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}

	appointment, err := h.service.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	appointment.Status = domain.AppointmentStatus(req.Status)
	if req.Notes != "" {
		appointment.Notes = req.Notes
	}
	if err := h.service.Update(c.Context(), principal, appointment); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": appointmentResponse(appointment)})
}

// DeleteAppointment DELETE /appointments/:id.
func (h *AppointmentsHandler) DeleteAppointment(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("invalid or expired token")
	}
	if err := h.service.Delete(c.Context(), principal, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetAppointment GET /appointments/:id.
func (h *AppointmentsHandler) GetAppointment(c *fiber.Ctx) error {
	appointment, err := h.service.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": appointmentResponse(appointment)})
}

// ListAppointments GET /appointments. Without a day filter the upcoming
// schedule is returned.
func (h *AppointmentsHandler) ListAppointments(c *fiber.Ctx) error {
	var day time.Time
	if d := parseDate(c.Query("day")); d != nil {
		day = *d
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	appointments, err := h.service.ListByDay(c.Context(), day, pageSize, (page-1)*pageSize)
	if err != nil {
		return err
	}
	items := make([]dto.AppointmentResponse, 0, len(appointments))
	for i := range appointments {
		items = append(items, appointmentResponse(&appointments[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

func appointmentResponse(appointment *domain.Appointment) dto.AppointmentResponse {
	return dto.AppointmentResponse{
		ID:          appointment.ID,
		ClientID:    appointment.ClientID,
		UserID:      appointment.UserID,
		Kind:        string(appointment.Kind),
		Status:      string(appointment.Status),
		ScheduledAt: appointment.ScheduledAt,
		Notes:       appointment.Notes,
		CreatedAt:   appointment.CreatedAt,
	}
}
