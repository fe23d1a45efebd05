package services

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ellie2222222/jewelry-workshop-api/models"
	"github.com/jung-kurt/gofpdf"
	"github.com/skip2/go-qrcode"
)

// GenerateInvoicePDF renders a printable invoice with a QR code carrying
// the payment reference, so the document can be matched back to the
// gateway record.
func GenerateInvoicePDF(invoice *models.Invoice, request *models.Request, customer *models.User) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(0, 10, "Jewelry Workshop")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Invoice %s", invoice.Number))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Issued %s", invoice.CreatedAt.Format("2006-01-02")))
	pdf.Ln(12)

	// Customer block
	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 6, "Billed to")
	pdf.Ln(6)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 5, customer.Name)
	pdf.Ln(5)
	pdf.Cell(0, 5, customer.Email)
	if customer.Address != "" {
		pdf.Ln(5)
		pdf.Cell(0, 5, customer.Address)
	}
	pdf.Ln(12)

	// Line item
	stage := strings.ReplaceAll(invoice.Type, "_", " ")
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(120, 8, "Description", "B", 0, "L", false, 0, "")
	pdf.CellFormat(50, 8, "Amount", "B", 1, "R", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(120, 8, fmt.Sprintf("Request #%d - %s payment", request.ID, stage), "", 0, "L", false, 0, "")
	pdf.CellFormat(50, 8, fmt.Sprintf("%.2f", invoice.TotalAmount), "", 1, "R", false, 0, "")
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(120, 10, "Total", "T", 0, "L", false, 0, "")
	pdf.CellFormat(50, 10, fmt.Sprintf("%.2f", invoice.TotalAmount), "T", 1, "R", false, 0, "")
	pdf.Ln(8)

	// Payment-reference QR
	if ref := invoice.Transaction.PaymentReference; ref != "" {
		qrPng, err := qrcode.Encode(ref, qrcode.Medium, 256)
		if err != nil {
			return nil, err
		}

		opts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}
		pdf.RegisterImageOptionsReader("payment_qr", opts, bytes.NewReader(qrPng))
		pdf.ImageOptions("payment_qr", 20, pdf.GetY(), 30, 30, false, opts, 0, "")

		pdf.SetXY(55, pdf.GetY()+12)
		pdf.SetFont("Arial", "", 8)
		pdf.Cell(0, 5, fmt.Sprintf("Payment reference: %s", ref))
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
