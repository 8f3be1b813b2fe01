package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/greenleaf/plant-notes/internal/model"
)

const dateLayout = "January 2, 2006"

// Generate renders one customer's full note history as a PDF: title, customer
// info, counts by status, then one block per note, newest first. Images are
// excluded on purpose. Any failure, including a malformed stored timestamp,
// aborts the whole document.
func Generate(customer model.Customer, notes []model.PlantNote) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, "Plant Care Report", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 7, "Customer", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	infoRow(pdf, "Name", customer.Name)
	infoRow(pdf, "Email", deref(customer.Email))
	infoRow(pdf, "Phone", deref(customer.Phone))
	infoRow(pdf, "Address", deref(customer.Address))
	since, err := formatDate(customer.DateCreated)
	if err != nil {
		return nil, fmt.Errorf("customer %s: %w", customer.ID, err)
	}
	infoRow(pdf, "Customer since", since)
	pdf.Ln(4)

	counts := map[model.NoteStatus]int{}
	for _, n := range notes {
		counts[n.Status]++
	}
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 7, "Summary", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf(
		"Total notes: %d    Healthy: %d    Unhealthy: %d    Treated: %d",
		len(notes),
		counts[model.StatusHealthy],
		counts[model.StatusUnhealthy],
		counts[model.StatusTreated],
	), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	for _, n := range notes {
		if err := noteBlock(pdf, n); err != nil {
			return nil, fmt.Errorf("note %s: %w", n.ID, err)
		}
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(0, 5, "Generated "+time.Now().Format(dateLayout+" 15:04"), "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func noteBlock(pdf *gofpdf.Fpdf, n model.PlantNote) error {
	created, err := formatDate(n.DateCreated)
	if err != nil {
		return err
	}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 7, fmt.Sprintf("%s - %s (%s)", created, n.PlantName, n.Status), "T", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(0, 5, "Condition: "+n.Condition, "", "L", false)
	pdf.MultiCell(0, 5, "Recommended treatment: "+n.Treatment, "", "L", false)

	if n.DateUpdated != n.DateCreated {
		updated, err := formatDate(n.DateUpdated)
		if err != nil {
			return err
		}
		pdf.SetFont("Helvetica", "I", 9)
		pdf.CellFormat(0, 5, "Last updated: "+updated, "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)
	return nil
}

func infoRow(pdf *gofpdf.Fpdf, label, value string) {
	if value == "" {
		value = "-"
	}
	pdf.CellFormat(40, 6, label, "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 6, value, "", 1, "L", false, 0, "")
}

func formatDate(s string) (string, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return "", fmt.Errorf("malformed timestamp %q: %w", s, err)
	}
	return t.Format(dateLayout), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
