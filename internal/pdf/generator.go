package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/aldanj/msp-engagements/internal/model"
)

type Generator struct {
	fontName string
}

func NewGenerator() *Generator {
	return &Generator{fontName: "Helvetica"}
}

// Generate renders a one-page proposal summary: the proposal header, its
// scope and contract, the commercial terms, and the lifecycle dates.
func (g *Generator) Generate(proposal *model.Proposal) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	pdf.SetFont(g.fontName, "B", 16)
	pdf.CellFormat(0, 10, "Proposal Summary", "", 1, "C", false, 0, "")

	pdf.SetFont(g.fontName, "", 11)
	title := "(untitled)"
	if proposal.Title != nil && strings.TrimSpace(*proposal.Title) != "" {
		title = *proposal.Title
	}
	pdf.CellFormat(0, 7, title, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	g.section(pdf, "Engagement")
	contractName, serviceName := "", ""
	if proposal.ServiceScope != nil {
		if proposal.ServiceScope.Contract != nil {
			contractName = proposal.ServiceScope.Contract.Name
		}
		if proposal.ServiceScope.Service != nil {
			serviceName = proposal.ServiceScope.Service.Name
		}
	}
	g.row(pdf, "Contract", contractName)
	g.row(pdf, "Service", serviceName)
	g.row(pdf, "Scope", proposal.ServiceScopeID.String())
	pdf.Ln(2)

	g.section(pdf, "Proposal")
	g.row(pdf, "Type", string(proposal.ProposalType))
	g.row(pdf, "Status", string(proposal.Status))
	if proposal.Version != nil {
		g.row(pdf, "Version", fmt.Sprintf("%d", *proposal.Version))
	}
	g.row(pdf, "Document", proposal.DocumentLink)
	if proposal.Assignee != nil {
		g.row(pdf, "Assignee", proposal.Assignee.FullName)
	}
	pdf.Ln(2)

	g.section(pdf, "Commercial terms")
	if proposal.ProposalValue != nil {
		currency := model.DefaultCurrency
		if proposal.Currency != nil {
			currency = *proposal.Currency
		}
		g.row(pdf, "Value", fmt.Sprintf("%.2f %s", *proposal.ProposalValue, currency))
	} else {
		g.row(pdf, "Value", "-")
	}
	if proposal.EstimatedDurationDays != nil {
		g.row(pdf, "Estimated duration", fmt.Sprintf("%d days", *proposal.EstimatedDurationDays))
	}
	pdf.Ln(2)

	g.section(pdf, "Dates")
	g.row(pdf, "Submitted", formatDate(proposal.SubmittedAt))
	g.row(pdf, "Approved", formatDate(proposal.ApprovedAt))
	g.row(pdf, "Valid until", formatDate(proposal.ValidUntilDate))

	if proposal.Description != nil && strings.TrimSpace(*proposal.Description) != "" {
		pdf.Ln(4)
		g.section(pdf, "Description")
		pdf.SetFont(g.fontName, "", 10)
		pdf.MultiCell(0, 5, *proposal.Description, "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) section(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
}

func (g *Generator) row(pdf *gofpdf.Fpdf, label, value string) {
	pdf.SetFont(g.fontName, "B", 10)
	pdf.CellFormat(45, 6, label, "", 0, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 10)
	if strings.TrimSpace(value) == "" {
		value = "-"
	}
	pdf.MultiCell(0, 6, value, "", "L", false)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("2006-01-02")
}
