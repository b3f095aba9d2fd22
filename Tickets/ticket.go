package Tickets

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// TicketData is the shape a weigh ticket renders from. Weights are in
// pounds as read off the scale.
type TicketData struct {
	TicketNumber   string
	VRNumber       string
	ClientName     string
	Material       string
	Source         string
	Date           time.Time
	GrossWeightLbs float64
	TareWeightLbs  float64
	NetWeightLbs   float64
	WeighedBy      string
}

// Net returns the net weight in pounds, computing gross minus tare when the
// scale operator did not key a net figure directly.
func (t TicketData) Net() float64 {
	if t.NetWeightLbs != 0 {
		return t.NetWeightLbs
	}
	return t.GrossWeightLbs - t.TareWeightLbs
}

// NetTons converts the net weight to tons for the diversion figures.
func (t TicketData) NetTons() float64 {
	return t.Net() / 2000.0
}

// Render produces the printable weigh ticket.
func Render(t TicketData) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Weigh Ticket "+t.TicketNumber, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "Verdant Organics Recovery")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 8, "Certified Weigh Ticket")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(60, 8, "Ticket No:")
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, t.TicketNumber)
	pdf.Ln(8)

	rows := [][2]string{
		{"VR Number", t.VRNumber},
		{"Client", t.ClientName},
		{"Material", t.Material},
		{"Source", t.Source},
		{"Date", t.Date.Format("January 2, 2006 3:04 PM")},
		{"Weighed By", t.WeighedBy},
	}
	for _, row := range rows {
		if row[1] == "" {
			continue
		}
		pdf.SetFont("Helvetica", "B", 11)
		pdf.Cell(60, 7, row[0])
		pdf.SetFont("Helvetica", "", 11)
		pdf.Cell(0, 7, row[1])
		pdf.Ln(7)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Weights")
	pdf.Ln(8)

	weights := [][2]string{
		{"Gross", fmt.Sprintf("%.0f lbs", t.GrossWeightLbs)},
		{"Tare", fmt.Sprintf("%.0f lbs", t.TareWeightLbs)},
		{"Net", fmt.Sprintf("%.0f lbs (%.2f tons)", t.Net(), t.NetTons())},
	}
	for _, row := range weights {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.Cell(60, 7, row[0])
		pdf.SetFont("Helvetica", "", 11)
		pdf.Cell(0, 7, row[1])
		pdf.Ln(7)
	}

	pdf.Ln(10)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.MultiCell(0, 5, "Weights recorded on a certified scale. Retain this ticket for diversion reporting.", "", "L", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render weigh ticket: %w", err)
	}
	return buf.Bytes(), nil
}
