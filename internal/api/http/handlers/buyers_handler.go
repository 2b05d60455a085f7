package handlers

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/buyer-leads-service/internal/api/dto"
	"github.com/spec-kit/buyer-leads-service/internal/auth"
	"github.com/spec-kit/buyer-leads-service/internal/service"
	"github.com/spec-kit/buyer-leads-service/internal/validation"
	apperrors "github.com/spec-kit/buyer-leads-service/pkg/util"
)

// BuyersHandler manages buyer lead endpoints.
type BuyersHandler struct {
	leads  *service.LeadService
	export *service.ExportService
}

// NewBuyersHandler constructs handler.
func NewBuyersHandler(leadService *service.LeadService, exportService *service.ExportService) *BuyersHandler {
	return &BuyersHandler{leads: leadService, export: exportService}
}

// List GET /buyers.
func (h *BuyersHandler) List(c *fiber.Ctx) error {
	result, err := h.leads.List(c.UserContext(), parseListQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// Create POST /buyers.
func (h *BuyersHandler) Create(c *fiber.Ctx) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	var input validation.BuyerInput
	if err := c.BodyParser(&input); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	lead, err := h.leads.Create(c.UserContext(), caller, input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(lead)
}

// Get GET /buyers/:id.
func (h *BuyersHandler) Get(c *fiber.Ctx) error {
	lead, history, err := h.leads.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.BuyerDetailResponse{
		BuyerLead: *lead,
		History:   dto.HistoryResponses(history),
	})
}

// Update PATCH /buyers/:id.
func (h *BuyersHandler) Update(c *fiber.Ctx) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	var req dto.UpdateBuyerRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	observed, err := time.Parse(time.RFC3339Nano, req.UpdatedAt)
	if err != nil {
		return apperrors.NewValidationError("validation failed", map[string]any{
			"fieldErrors": map[string][]string{"updatedAt": {"updatedAt must be a valid timestamp"}},
		})
	}

	lead, err := h.leads.Update(c.UserContext(), caller, c.Params("id"), observed, req.BuyerInput)
	if err != nil {
		return err
	}
	return c.JSON(lead)
}

// Delete DELETE /buyers/:id.
func (h *BuyersHandler) Delete(c *fiber.Ctx) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	if err := h.leads.Delete(c.UserContext(), caller, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"ok": true})
}

// Import POST /buyers/import. Accepts {"rows":[...]} or a raw CSV body.
func (h *BuyersHandler) Import(c *fiber.Ctx) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}

	var rows []validation.BuyerInput
	if strings.Contains(c.Get(fiber.HeaderContentType), "text/csv") {
		rows, err = validation.ParseCSVRows(bytes.NewReader(c.Body()))
		if err != nil {
			return apperrors.NewValidationError("invalid csv body", map[string]any{"reason": err.Error()})
		}
	} else {
		var req dto.ImportRequest
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewValidationError("invalid payload", nil)
		}
		rows = req.Rows
	}

	created, err := h.leads.Import(c.UserContext(), caller, rows)
	if err != nil {
		return err
	}
	return c.JSON(dto.ImportResponse{Created: created})
}

// Export GET /buyers/export.
func (h *BuyersHandler) Export(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := h.export.WriteCSV(c.UserContext(), &buf, parseListQuery(c)); err != nil {
		return err
	}

	filename := fmt.Sprintf("buyers-export-%s.csv", time.Now().UTC().Format(time.RFC3339))
	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(buf.Bytes())
}

func callerFrom(c *fiber.Ctx) (service.Caller, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.ID == "" {
		return service.Caller{}, apperrors.NewUnauthorized("login required")
	}
	fallback := c.Get("X-Forwarded-For")
	if fallback == "" {
		fallback = c.Get("X-Real-IP")
	}
	return service.Caller{ID: principal.ID, Email: principal.Email, FallbackKey: fallback}, nil
}

func parseListQuery(c *fiber.Ctx) service.ListQuery {
	return service.ListQuery{
		Page:         parseInt(c.Query("page"), 1),
		PageSize:     parseInt(c.Query("pageSize"), 10),
		City:         c.Query("city"),
		PropertyType: c.Query("propertyType"),
		Status:       c.Query("status"),
		Timeline:     c.Query("timeline"),
		Search:       c.Query("q"),
		SortField:    c.Query("sort", "updatedAt"),
		SortOrder:    c.Query("order", "desc"),
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
