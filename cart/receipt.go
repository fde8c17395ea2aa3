package cart

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"shophub/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	qrcode "github.com/skip2/go-qrcode"
)

// Receipt renders the caller's current cart as a PDF with a QR code of the
// receipt id.
func Receipt(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	cartDoc, err := fetchCart(ctx, userID)
	if err != nil {
		http.Error(w, "Could not retrieve cart", http.StatusInternalServerError)
		return
	}
	view, err := Materialize(ctx, cartDoc)
	if err != nil {
		http.Error(w, "Could not resolve cart items", http.StatusInternalServerError)
		return
	}

	receiptID := "RCT" + strconv.FormatInt(time.Now().UnixNano()%1e6, 10)

	qrPNG, err := qrcode.Encode(receiptID, qrcode.Medium, 256)
	if err != nil {
		http.Error(w, "Failed to generate QR code", http.StatusInternalServerError)
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Cart Receipt")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 10, fmt.Sprintf("Receipt ID: %s", receiptID))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Issued: %s", time.Now().Format("02 Jan 2006 15:04")))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(100, 8, "Item")
	pdf.Cell(20, 8, "Qty")
	pdf.Cell(30, 8, "Price")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 12)
	for _, line := range view.Lines {
		title := line.Title
		if line.Unavailable {
			title = line.ItemID + " (unavailable)"
		}
		pdf.Cell(100, 8, title)
		pdf.Cell(20, 8, strconv.Itoa(line.Quantity))
		pdf.Cell(30, 8, fmt.Sprintf("%.2f", line.Price))
		pdf.Ln(8)
	}
	pdf.Ln(4)

	pdf.Cell(0, 8, fmt.Sprintf("Subtotal: %.2f", view.Subtotal))
	pdf.Ln(8)
	if view.Shipping == 0 {
		pdf.Cell(0, 8, "Shipping: FREE")
	} else {
		pdf.Cell(0, 8, fmt.Sprintf("Shipping: %.2f", view.Shipping))
	}
	pdf.Ln(8)
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Total: %.2f", view.Total))

	// Add QR image
	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 150, 40, 40, 40, false, imageOpts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		http.Error(w, "Failed to generate PDF", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=receipt-"+receiptID+".pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
