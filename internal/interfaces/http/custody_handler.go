package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/custodia-api/internal/application/custody"
	"github.com/tu-usuario/custodia-api/internal/application/dto"
	"github.com/tu-usuario/custodia-api/internal/domain"
)

// CustodyHandler maneja las consultas de custodia (protegido).
type CustodyHandler struct {
	uc *custody.UseCase
}

// NewCustodyHandler construye el handler.
func NewCustodyHandler(uc *custody.UseCase) *CustodyHandler {
	return &CustodyHandler{uc: uc}
}

// PersonCustody godoc
// @Summary      Custodia actual de una persona
// @Description  Concilia todos los vales de la persona y devuelve solo los
//
//	materiales con restante mayor que cero.
//
// @Tags         custody
// @Security     Bearer
// @Produce      json
// @Param        name    query  string  true  "Nombre del receptor"
// @Param        rank    query  string  true  "Rango"
// @Param        number  query  string  true  "Número personal"
// @Success      200  {array}   dto.CustodyLineDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/custody/person [get]
func (h *CustodyHandler) PersonCustody(c *fiber.Ctx) error {
	lines, err := h.uc.CustodyForPerson(c.Query("name"), c.Query("rank"), c.Query("number"))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(lines)
}

// ListPeople godoc
// @Summary      Listado paginado de personas con su custodia
// @Tags         custody
// @Security     Bearer
// @Produce      json
// @Param        search  query  string  false  "Filtro por nombre o número"
// @Param        page    query  int     false  "Página (por defecto 1)"
// @Param        limit   query  int     false  "Tamaño de página (por defecto 10)"
// @Success      200  {object}  dto.PeopleCustodyResponse
// @Router       /api/custody/people [get]
func (h *CustodyHandler) ListPeople(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parámetros de paginación inválidos"})
	}
	out, err := h.uc.ListPeopleWithCustody(c.Query("search"), page)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// SearchReceivers godoc
// @Summary      Autocompletar receptores por nombre
// @Description  Devuelve hasta 10 receptores distintos cuyos vales de entrega
//
//	coinciden con el texto. Requiere al menos 2 caracteres.
//
// @Tags         custody
// @Security     Bearer
// @Produce      json
// @Param        q  query  string  true  "Prefijo del nombre (mínimo 2 caracteres)"
// @Success      200  {array}   dto.ReceiverSummaryDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/receivers/search [get]
func (h *CustodyHandler) SearchReceivers(c *fiber.Ctx) error {
	out, err := h.uc.SearchReceivers(c.Query("q"))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}
