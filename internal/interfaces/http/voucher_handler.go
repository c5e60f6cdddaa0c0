package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/custodia-api/internal/application/dto"
	"github.com/tu-usuario/custodia-api/internal/application/vouchers"
	"github.com/tu-usuario/custodia-api/internal/domain"
	"github.com/tu-usuario/custodia-api/internal/domain/entity"
)

// VoucherHandler maneja el registro y consulta de vales de entrega y
// devolución (protegido).
type VoucherHandler struct {
	uc *vouchers.RecordVoucherUseCase
}

// NewVoucherHandler construye el handler.
func NewVoucherHandler(uc *vouchers.RecordVoucherUseCase) *VoucherHandler {
	return &VoucherHandler{uc: uc}
}

// RecordReceipt godoc
// @Summary      Registrar vale de entrega de material
// @Description  Descuenta del stock cada línea y confirma el vale de forma
//
//	atómica. El PDF se genera y sube después de confirmar; si falla,
//	la respuesta incluye document_error pero el vale queda registrado.
//
// @Tags         vouchers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordReceiptRequest  true  "receiver, items, receiver_signature"
// @Success      201   {object}  dto.RecordVoucherResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/receipts [post]
func (h *VoucherHandler) RecordReceipt(c *fiber.Ctx) error {
	var in dto.RecordReceiptRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.RecordReceipt(c.Context(), in)
	if err != nil {
		return voucherError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// RecordDelivery godoc
// @Summary      Registrar vale de devolución de material
// @Description  Suma cada línea al stock (creando el material si no existe) y
//
//	confirma el vale de forma atómica.
//
// @Tags         vouchers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordDeliveryRequest  true  "receiver, items, receiver_signature"
// @Success      201   {object}  dto.RecordVoucherResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/deliveries [post]
func (h *VoucherHandler) RecordDelivery(c *fiber.Ctx) error {
	var in dto.RecordDeliveryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.RecordDelivery(c.Context(), in)
	if err != nil {
		return voucherError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListReceipts godoc
// @Summary      Listar vales de entrega
// @Tags         vouchers
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.TransactionResponse
// @Router       /api/receipts [get]
func (h *VoucherHandler) ListReceipts(c *fiber.Ctx) error {
	return h.listByKind(c, entity.TransactionKindReceipt)
}

// ListDeliveries godoc
// @Summary      Listar vales de devolución
// @Tags         vouchers
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.TransactionResponse
// @Router       /api/deliveries [get]
func (h *VoucherHandler) ListDeliveries(c *fiber.Ctx) error {
	return h.listByKind(c, entity.TransactionKindDelivery)
}

func (h *VoucherHandler) listByKind(c *fiber.Ctx, kind string) error {
	list, err := h.uc.ListByKind(kind)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(list)
}

// GetByID godoc
// @Summary      Consultar un vale
// @Tags         vouchers
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del vale"
// @Success      200  {object}  dto.TransactionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/vouchers/{id} [get]
func (h *VoucherHandler) GetByID(c *fiber.Ctx) error {
	tx, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "vale no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(tx)
}

// DownloadDocument godoc
// @Summary      Descargar el documento PDF de un vale
// @Description  Redirige a la URL del documento almacenado.
// @Tags         vouchers
// @Security     Bearer
// @Param        id  path  string  true  "ID del vale"
// @Success      302
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/vouchers/{id}/document [get]
func (h *VoucherHandler) DownloadDocument(c *fiber.Ctx) error {
	tx, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "vale no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if tx.DocumentURL == "" {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NO_DOCUMENT", Message: "el vale no tiene documento adjunto"})
	}
	return c.Redirect(tx.DocumentURL, fiber.StatusFound)
}

// voucherError mapea los errores de dominio del registro de vales a HTTP.
func voucherError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
