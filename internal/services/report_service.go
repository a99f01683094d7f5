package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"

	"premium-backend/internal/cache"
	"premium-backend/internal/ledger"
	"premium-backend/internal/models"
	"premium-backend/internal/repositories"
	"premium-backend/internal/timeutil"

	"github.com/jung-kurt/gofpdf/v2"
)

// CustomerStatementData holds everything printed on a customer statement
type CustomerStatementData struct {
	Customer    *models.Customer
	OpenDebts   []*models.Debt
	Payments    []*models.Payment
	TotalAmount float64
	TotalPaid   float64
	TotalDue    float64
}

// ReportService generates the printable outputs: customer statements as PDF
// and the debtors list as CSV
type ReportService struct {
	CustomerRepo *repositories.CustomerRepository
	DebtRepo     *repositories.DebtRepository
	PaymentRepo  *repositories.PaymentRepository
}

func NewReportService(
	customerRepo *repositories.CustomerRepository,
	debtRepo *repositories.DebtRepository,
	paymentRepo *repositories.PaymentRepository,
) *ReportService {
	return &ReportService{
		CustomerRepo: customerRepo,
		DebtRepo:     debtRepo,
		PaymentRepo:  paymentRepo,
	}
}

// GetCustomerStatementData fetches everything for one customer's statement
func (s *ReportService) GetCustomerStatementData(ctx context.Context, customerID int) (*CustomerStatementData, error) {
	customer, err := s.CustomerRepo.Get(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, &ledger.NotFoundError{Kind: "customer", ID: strconv.Itoa(customerID)}
	}

	debts, err := s.DebtRepo.ListOpenByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	payments, err := s.PaymentRepo.GetAll(ctx, &models.PaymentFilter{CustomerID: customerID, Limit: 50})
	if err != nil {
		return nil, err
	}

	data := &CustomerStatementData{
		Customer:  customer,
		OpenDebts: debts,
		Payments:  payments,
	}
	for _, d := range debts {
		data.TotalAmount += d.TotalAmount
		data.TotalPaid += d.AmountPaid
		data.TotalDue += d.AmountDue
	}
	data.TotalAmount = ledger.Round(data.TotalAmount)
	data.TotalPaid = ledger.Round(data.TotalPaid)
	data.TotalDue = ledger.Round(data.TotalDue)
	return data, nil
}

// GenerateCustomerStatementPDF renders one customer's statement. The bytes
// are cached until the next payment or checkout touches the customer.
func (s *ReportService) GenerateCustomerStatementPDF(ctx context.Context, customerID int) ([]byte, error) {
	key := cache.StatementKey(customerID)
	if cached, ok := cache.Get(ctx, key); ok {
		return cached, nil
	}

	data, err := s.GetCustomerStatementData(ctx, customerID)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, "Premium Distribution - Customer Statement", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, fmt.Sprintf("Generated: %s", timeutil.Now().Format("02-Jan-2006 03:04 PM")), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	// Customer Info Box
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Customer Information", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(95, 7, fmt.Sprintf("Name: %s", data.Customer.Name), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Phone: %s", data.Customer.Phone), "RB", 1, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Address: %s", data.Customer.Address), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Reliability: %.0f%%", data.Customer.ReliabilityScore), "RB", 1, "L", false, 0, "")
	pdf.Ln(5)

	// Open debts table
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Outstanding Debts", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(40, 7, "Receipt #", "1", 0, "C", true, 0, "")
	pdf.CellFormat(35, 7, "Due Date", "1", 0, "C", true, 0, "")
	pdf.CellFormat(35, 7, "Total", "1", 0, "C", true, 0, "")
	pdf.CellFormat(35, 7, "Paid", "1", 0, "C", true, 0, "")
	pdf.CellFormat(45, 7, "Balance", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	now := timeutil.Now()
	for _, d := range data.OpenDebts {
		dueDate := "-"
		if d.DueDate != nil {
			dueDate = timeutil.ToWAT(*d.DueDate).Format("02-Jan-2006")
		}
		balance := fmt.Sprintf("%.2f", d.AmountDue)
		if d.EffectiveStatus(now) == models.DebtStatusOverdue {
			balance += " (overdue)"
		}
		pdf.CellFormat(40, 6, d.ReceiptNumber, "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 6, dueDate, "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 6, fmt.Sprintf("%.2f", d.TotalAmount), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 6, fmt.Sprintf("%.2f", d.AmountPaid), "1", 0, "R", false, 0, "")
		pdf.CellFormat(45, 6, balance, "1", 1, "R", false, 0, "")
	}
	pdf.Ln(5)

	// Balance - highlight if outstanding
	if data.TotalDue > 0 {
		pdf.SetFillColor(255, 200, 200)
	} else {
		pdf.SetFillColor(200, 255, 200)
	}
	pdf.SetFont("Arial", "B", 14)
	balanceText := fmt.Sprintf("Balance Due: NGN %.2f", data.TotalDue)
	if data.TotalDue <= 0 {
		balanceText = "FULLY PAID"
	}
	pdf.CellFormat(190, 10, balanceText, "1", 1, "C", true, 0, "")

	// Payment history
	if len(data.Payments) > 0 {
		pdf.Ln(5)
		pdf.SetFont("Arial", "B", 12)
		pdf.SetFillColor(240, 240, 240)
		pdf.CellFormat(190, 8, "Payment History", "1", 1, "L", true, 0, "")

		pdf.SetFont("Arial", "B", 10)
		pdf.SetFillColor(200, 200, 200)
		pdf.CellFormat(45, 7, "Reference", "1", 0, "C", true, 0, "")
		pdf.CellFormat(40, 7, "Date", "1", 0, "C", true, 0, "")
		pdf.CellFormat(30, 7, "Method", "1", 0, "C", true, 0, "")
		pdf.CellFormat(35, 7, "Amount", "1", 0, "C", true, 0, "")
		pdf.CellFormat(40, 7, "Received By", "1", 1, "C", true, 0, "")

		pdf.SetFont("Arial", "", 10)
		for _, p := range data.Payments {
			pdf.CellFormat(45, 6, p.Reference, "1", 0, "C", false, 0, "")
			pdf.CellFormat(40, 6, timeutil.ToWAT(p.PaymentDate).Format("02-Jan-2006"), "1", 0, "C", false, 0, "")
			pdf.CellFormat(30, 6, string(p.Method), "1", 0, "C", false, 0, "")
			pdf.CellFormat(35, 6, fmt.Sprintf("%.2f", p.Amount), "1", 0, "R", false, 0, "")
			pdf.CellFormat(40, 6, p.ReceivedByName, "1", 1, "C", false, 0, "")
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	cache.Set(ctx, key, buf.Bytes())
	return buf.Bytes(), nil
}

// GenerateDebtorsCSV exports the debtor dashboard for the accountant
func (s *ReportService) GenerateDebtorsCSV(ctx context.Context) ([]byte, error) {
	summaries, err := s.DebtRepo.GetDebtorSummaries(ctx, timeutil.Now())
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Write([]string{"Customer", "Phone", "Open Debts", "Total", "Paid", "Due", "Overdue", "Oldest Due Date", "Reliability"})
	for _, s := range summaries {
		oldest := ""
		if s.OldestDueDate != nil {
			oldest = timeutil.ToWAT(*s.OldestDueDate).Format("2006-01-02")
		}
		w.Write([]string{
			s.CustomerName,
			s.CustomerPhone,
			strconv.Itoa(s.OpenDebts),
			fmt.Sprintf("%.2f", s.TotalAmount),
			fmt.Sprintf("%.2f", s.TotalPaid),
			fmt.Sprintf("%.2f", s.TotalDue),
			strconv.Itoa(s.OverdueCount),
			oldest,
			fmt.Sprintf("%.0f", s.ReliabilityScore),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
