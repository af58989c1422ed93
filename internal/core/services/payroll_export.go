package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/finacore/finacore_backend/internal/apperrors"
	"github.com/finacore/finacore_backend/internal/core/domain"
	portssvc "github.com/finacore/finacore_backend/internal/core/ports/services"
	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// ExportPayrollRun renders a read-only serialization of a run and its items.
// Exporting never mutates the run; any status may be exported.
func (s *payrollService) ExportPayrollRun(ctx context.Context, organizationID, runID string, format portssvc.ExportFormat) (*portssvc.PayrollExport, error) {
	run, err := s.GetPayrollRun(ctx, organizationID, runID, true)
	if err != nil {
		return nil, err
	}

	var export *portssvc.PayrollExport
	switch format {
	case portssvc.ExportCSV:
		export, err = exportRunCSV(run)
	case portssvc.ExportPDF:
		export, err = exportRunPDF(run)
	case portssvc.ExportJSON:
		export, err = exportRunJSON(run)
	default:
		return nil, fmt.Errorf("%w: unsupported export format %q", apperrors.ErrValidation, format)
	}
	if err != nil {
		s.LogError(ctx, err, "Failed to export payroll run",
			slog.String("run_id", runID),
			slog.String("format", string(format)))
		return nil, err
	}

	s.LogInfo(ctx, "Payroll run exported",
		slog.String("run_id", runID),
		slog.String("format", string(format)))
	return export, nil
}

func exportFilename(run *domain.PayrollRun, ext string) string {
	name := strings.ReplaceAll(strings.ToLower(run.Name), " ", "_")
	if name == "" {
		name = run.RunID
	}
	return fmt.Sprintf("payroll_%s_%s.%s", name, run.PayDate.Format("2006-01-02"), ext)
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func exportRunCSV(run *domain.PayrollRun) (*portssvc.PayrollExport, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"employee_name", "employee_ref", "gross_salary", "tax_amount", "deductions", "deduction_amount", "net_salary", "status"}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, item := range run.Items {
		record := []string{
			item.EmployeeName,
			item.EmployeeRef,
			money(item.GrossSalary),
			money(item.TaxAmount),
			money(item.Deductions),
			money(item.DeductionAmount),
			money(item.NetSalary),
			string(item.Status),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write csv record: %w", err)
		}
	}
	totals := []string{
		"TOTAL", "",
		money(run.GrossAmount),
		money(run.TaxAmount),
		"",
		money(run.DeductionAmount),
		money(run.NetAmount),
		string(run.Status),
	}
	if err := w.Write(totals); err != nil {
		return nil, fmt.Errorf("failed to write csv totals: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}

	return &portssvc.PayrollExport{
		ContentType: "text/csv",
		Filename:    exportFilename(run, "csv"),
		Data:        buf.Bytes(),
	}, nil
}

func exportRunJSON(run *domain.PayrollRun) (*portssvc.PayrollExport, error) {
	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payroll run: %w", err)
	}
	return &portssvc.PayrollExport{
		ContentType: "application/json",
		Filename:    exportFilename(run, "json"),
		Data:        data,
	}, nil
}

func exportRunPDF(run *domain.PayrollRun) (*portssvc.PayrollExport, error) {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, fmt.Sprintf("Payroll Run: %s", run.Name))
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Period: %s to %s    Pay date: %s    Status: %s",
		run.PeriodStart.Format("2006-01-02"),
		run.PeriodEnd.Format("2006-01-02"),
		run.PayDate.Format("2006-01-02"),
		run.Status))
	pdf.Ln(10)

	colWidths := []float64{60, 35, 32, 32, 32, 32, 32}
	headers := []string{"Employee", "Reference", "Gross", "Tax", "Deductions", "Withheld", "Net"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range headers {
		pdf.CellFormat(colWidths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, item := range run.Items {
		cells := []string{
			item.EmployeeName,
			item.EmployeeRef,
			money(item.GrossSalary),
			money(item.TaxAmount),
			money(item.Deductions),
			money(item.DeductionAmount),
			money(item.NetSalary),
		}
		for i, c := range cells {
			align := "R"
			if i < 2 {
				align = "L"
			}
			pdf.CellFormat(colWidths[i], 6, c, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.SetFont("Helvetica", "B", 9)
	totals := []string{
		fmt.Sprintf("Total (%d employees)", run.EmployeeCount),
		"",
		money(run.GrossAmount),
		money(run.TaxAmount),
		"",
		money(run.DeductionAmount),
		money(run.NetAmount),
	}
	for i, c := range totals {
		align := "R"
		if i < 2 {
			align = "L"
		}
		pdf.CellFormat(colWidths[i], 7, c, "1", 0, align, true, 0, "")
	}
	pdf.Ln(-1)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render payroll pdf: %w", err)
	}
	return &portssvc.PayrollExport{
		ContentType: "application/pdf",
		Filename:    exportFilename(run, "pdf"),
		Data:        buf.Bytes(),
	}, nil
}
