package instituicao

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/labore-tech/instituicoes-api/services"
	"github.com/labore-tech/instituicoes-api/utils/query"
	"github.com/labore-tech/instituicoes-api/utils/response"
	"github.com/labore-tech/instituicoes-api/utils/validation"
)

// InstituicaoHandler handles institution-related requests
type InstituicaoHandler struct {
	service   *services.InstituicaoService
	validator *validation.Validator
}

// NewInstituicaoHandler creates a new institution handler
func NewInstituicaoHandler(service *services.InstituicaoService) *InstituicaoHandler {
	return &InstituicaoHandler{
		service:   service,
		validator: validation.NewValidator(),
	}
}

// CreateInstituicaoRequest represents the request body for creating an institution
type CreateInstituicaoRequest struct {
	Nome      string `json:"nome" validate:"required,min=1,max=255"`
	UF        string `json:"uf" validate:"required,uf"`
	QtdAlunos *int64 `json:"qtdAlunos" validate:"required,gte=0"`
}

// UpdateInstituicaoRequest represents the request body for a partial update.
// Only these three fields are updatable; a nil pointer means the field was
// absent from the body.
type UpdateInstituicaoRequest struct {
	Nome      *string `json:"nome" validate:"omitempty,min=1,max=255"`
	UF        *string `json:"uf" validate:"omitempty,uf"`
	QtdAlunos *int64  `json:"qtdAlunos" validate:"omitempty,gte=0"`
}

// List handles GET /instituicoes
func (h *InstituicaoHandler) List(c *fiber.Ctx) error {
	spec, err := query.BuildListSpec(query.ListParams{
		OrderBy:      c.Query("orderBy"),
		Order:        c.Query("order"),
		FilterByNome: c.Query("filterByNome"),
		FilterByUf:   c.Query("filterByUf"),
		Page:         c.Query("page"),
		Limit:        c.Query("limit"),
	})
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	list, err := h.service.List(c.UserContext(), spec)
	if err != nil {
		return storeFailure(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(list)
}

// Aggregate handles GET /instituicoes/aggregated
func (h *InstituicaoHandler) Aggregate(c *fiber.Ctx) error {
	rows, err := h.service.Aggregate(c.UserContext())
	if err != nil {
		return storeFailure(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(rows)
}

// Create handles POST /instituicoes
func (h *InstituicaoHandler) Create(c *fiber.Ctx) error {
	var req CreateInstituicaoRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	req.Nome = validation.SanitizeString(req.Nome)
	req.UF = strings.ToUpper(strings.TrimSpace(req.UF))

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	instituicao, err := h.service.Create(c.UserContext(), services.CreateInput{
		Nome:      req.Nome,
		UF:        req.UF,
		QtdAlunos: *req.QtdAlunos,
	})
	if err != nil {
		return mutationFailure(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(instituicao)
}

// Update handles PUT /instituicoes/:id
func (h *InstituicaoHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid id")
	}

	// Strict decode: any key outside {nome, uf, qtdAlunos} rejects the update.
	var req UpdateInstituicaoRequest
	decoder := json.NewDecoder(bytes.NewReader(c.Body()))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		return response.BadRequest(c, "Invalid update fields")
	}

	if req.Nome != nil {
		*req.Nome = validation.SanitizeString(*req.Nome)
	}
	if req.UF != nil {
		*req.UF = strings.ToUpper(strings.TrimSpace(*req.UF))
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	instituicao, err := h.service.Update(c.UserContext(), id, services.UpdateInput{
		Nome:      req.Nome,
		UF:        req.UF,
		QtdAlunos: req.QtdAlunos,
	})
	if err != nil {
		return mutationFailure(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(instituicao)
}

// Delete handles DELETE /instituicoes/:id and returns the removed record
func (h *InstituicaoHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid id")
	}

	instituicao, err := h.service.Delete(c.UserContext(), id)
	if err != nil {
		return mutationFailure(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(instituicao)
}

func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// storeFailure maps read-path store errors; bodies carry no detail
func storeFailure(c *fiber.Ctx, err error) error {
	if errors.Is(err, services.ErrStoreUnavailable) {
		return response.ServiceUnavailable(c, "")
	}
	return response.InternalServerError(c, "")
}

// mutationFailure maps write-path service errors onto statuses. The 404 body
// stays empty, matching the legacy API.
func mutationFailure(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrDuplicateName):
		return response.DuplicateName(c)
	case errors.Is(err, services.ErrNotFound):
		return c.SendStatus(fiber.StatusNotFound)
	case errors.Is(err, services.ErrStoreUnavailable):
		return response.ServiceUnavailable(c, "")
	default:
		return response.InternalServerError(c, "")
	}
}
