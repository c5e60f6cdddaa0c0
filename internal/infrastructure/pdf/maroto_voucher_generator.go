// Package pdf implementa la generación del vale impreso de entrega y
// devolución de material.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Tipo de vale + N° de vale │ Fecha                   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RECEPTOR: Nombre + Rango + Número                          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: # | Material | N° Material | Tipo | Cantidad        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  DECLARACIÓN                                                │
//	│  FIRMAS: Encargado de almacén │ Receptor                    │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/tu-usuario/custodia-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorReceipt  = &props.Color{Red: 37, Green: 90, Blue: 235}
	colorDelivery = &props.Color{Red: 235, Green: 85, Blue: 37}
	colorGray     = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoVoucherGenerator implementa vouchers.VoucherPDFGenerator usando Maroto v2.
type MarotoVoucherGenerator struct{}

// NewMarotoVoucherGenerator construye el generador.
func NewMarotoVoucherGenerator() *MarotoVoucherGenerator { return &MarotoVoucherGenerator{} }

// GenerateVoucherPDF genera el PDF del vale y devuelve sus bytes.
func (g *MarotoVoucherGenerator) GenerateVoucherPDF(
	_ context.Context,
	tx *entity.Transaction,
) ([]byte, error) {
	accent := colorReceipt
	title := "VALE DE ENTREGA DE MATERIAL"
	declaration := "El receptor declara haber recibido del almacén el material " +
		"relacionado arriba, en las cantidades indicadas, y asume su custodia."
	if tx.Kind == entity.TransactionKindDelivery {
		accent = colorDelivery
		title = "VALE DE DEVOLUCIÓN DE MATERIAL"
		declaration = "El encargado de almacén declara haber recibido del receptor " +
			"el material relacionado arriba, en las cantidades indicadas."
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(tx, title, accent))
	m.AddRows(line.NewRow(1, props.Line{Color: accent, Thickness: 0.5}))
	m.AddRows(receiverRow(tx.Receiver, accent))
	m.AddRows(line.NewRow(1, props.Line{Color: accent, Thickness: 0.3}))

	m.AddRows(tableHeaderRow(accent))
	for _, r := range tableItemRows(tx.Items) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: accent, Thickness: 0.3}))
	m.AddRows(declarationRow(declaration))
	m.AddRows(line.NewRow(4))
	m.AddRows(signaturesRow(tx))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título + id corto del vale (izq) y fecha (der).
func headerRow(tx *entity.Transaction, title string, accent *props.Color) core.Row {
	fecha := tx.CreatedAt.Format("02/01/2006 15:04")

	return row.New(16).Add(
		col.New(8).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: accent, Top: 1,
			}),
			text.New("Vale N°: "+shortID(tx.ID), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("Fecha: "+fecha, props.Text{
				Size: 9, Align: align.Right, Top: 2, Color: colorGray,
			}),
		),
	)
}

// receiverRow: datos de la persona que entrega o recibe el material.
func receiverRow(r entity.Receiver, accent *props.Color) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("RECEPTOR", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: accent, Top: 1,
			}),
			text.New(r.Name, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("Rango: %s   |   Número: %s", r.Rank, r.Number),
				props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de materiales.
func tableHeaderRow(accent *props.Color) core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: accent, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("#", 1, align.Center),
		h("Material", 5, align.Left),
		h("N° Material", 2, align.Center),
		h("Tipo", 2, align.Center),
		h("Cantidad", 2, align.Right),
	)
}

// tableItemRows: una fila por línea del vale.
func tableItemRows(items []entity.TransactionItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	for i, it := range items {
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				strconv.Itoa(i+1),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(5).Add(text.New(
				it.ItemName,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				it.ItemNumber,
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(2).Add(text.New(
				nonEmpty(it.ItemType, "—"),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(2).Add(text.New(
				strconv.Itoa(it.Quantity),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// declarationRow: texto legal del vale.
func declarationRow(declaration string) core.Row {
	return row.New(10).Add(col.New(12).Add(
		text.New(declaration, props.Text{Size: 8, Color: colorGray, Top: 2}),
	))
}

// signaturesRow: dos columnas de firma. Si la referencia es un data URL
// base64 se incrusta la imagen; si no, se deja el espacio en blanco sobre
// la línea de firma.
func signaturesRow(tx *entity.Transaction) core.Row {
	return row.New(36).Add(
		signatureCol("Encargado de almacén", tx.ManagerSignatureRef),
		col.New(2), // espacio central
		signatureCol("Receptor", tx.ReceiverSignatureRef),
	)
}

func signatureCol(label, ref string) core.Col {
	c := col.New(5)
	if data, ext, ok := decodeSignature(ref); ok {
		c.Add(image.NewFromBytes(data, ext, props.Rect{
			Percent: 70,
			Center:  true,
		}))
	}
	c.Add(
		text.New("_______________________", props.Text{
			Size: 9, Align: align.Center, Top: 26,
		}),
		text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: align.Center,
			Top: 31, Color: colorGray,
		}),
	)
	return c
}

// ── helpers ───────────────────────────────────────────────────────────────────

// decodeSignature interpreta referencias "data:image/png;base64,...".
func decodeSignature(ref string) ([]byte, extension.Type, bool) {
	var ext extension.Type
	switch {
	case strings.HasPrefix(ref, "data:image/png;base64,"):
		ext = extension.Png
	case strings.HasPrefix(ref, "data:image/jpeg;base64,"):
		ext = extension.Jpg
	default:
		return nil, "", false
	}
	payload := ref[strings.IndexByte(ref, ',')+1:]
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", false
	}
	return data, ext, true
}

// shortID reduce el UUID al primer bloque, suficiente como folio legible.
func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return strings.ToUpper(id[:i])
	}
	return strings.ToUpper(id)
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
