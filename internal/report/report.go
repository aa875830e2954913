package report

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"time"

	"barbearia-backend/internal/domain"
	"barbearia-backend/internal/pricing"
	"github.com/gocarina/gocsv"
	"github.com/xuri/excelize/v2"
)

//go:embed templates/report.html
var templateFS embed.FS

var reportTemplate = template.Must(template.ParseFS(templateFS, "templates/report.html"))

const (
	FormatPDF  = "pdf"
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
)

var ErrUnknownFormat = errors.New("unknown report format")

// Data is the snapshot a report is rendered from.
type Data struct {
	GeneratedAt time.Time
	Products    []domain.Product
	Barbers     []domain.Barber
}

// File is a rendered report ready to download.
type File struct {
	Name        string
	ContentType string
	Body        []byte
}

// PDFRenderer turns an HTML document into a PDF.
type PDFRenderer interface {
	RenderHTML(ctx context.Context, html []byte) ([]byte, error)
}

type Exporter struct {
	PDF   PDFRenderer
	Money Money
}

// FileName is relatorio-barbearia-<date>.<ext>.
func FileName(at time.Time, ext string) string {
	return fmt.Sprintf("relatorio-barbearia-%s.%s", at.Format("2006-01-02"), ext)
}

func (e Exporter) Export(ctx context.Context, format string, data Data) (File, error) {
	switch format {
	case FormatPDF:
		body, err := e.pdf(ctx, data)
		if err != nil {
			return File{}, err
		}
		return File{Name: FileName(data.GeneratedAt, "pdf"), ContentType: "application/pdf", Body: body}, nil
	case FormatXLSX:
		body, err := e.xlsx(data)
		if err != nil {
			return File{}, err
		}
		return File{Name: FileName(data.GeneratedAt, "xlsx"), ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", Body: body}, nil
	case FormatCSV:
		body, err := e.csv(data)
		if err != nil {
			return File{}, err
		}
		return File{Name: FileName(data.GeneratedAt, "csv"), ContentType: "text/csv; charset=utf-8", Body: body}, nil
	}
	return File{}, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

type htmlProduct struct {
	Name       string
	Stock      int
	BasePrice  string
	TotalPrice string
	Commission string
}

type htmlBarber struct {
	Name    string
	Email   string
	Phone   string
	Unit    string
	Balance string
}

type htmlReport struct {
	GeneratedAt  string
	Products     []htmlProduct
	Barbers      []htmlBarber
	TotalStock   int
	TotalBalance string
}

// HTML renders the document that is sent to the PDF renderer.
func (e Exporter) HTML(data Data) ([]byte, error) {
	view := htmlReport{GeneratedAt: data.GeneratedAt.Format("02/01/2006 15:04")}
	var balance float64
	for _, p := range data.Products {
		pr := pricing.Compute(p.BasePrice)
		view.Products = append(view.Products, htmlProduct{
			Name:       p.Name,
			Stock:      p.Stock,
			BasePrice:  e.Money.Format(p.BasePrice),
			TotalPrice: e.Money.Format(pr.TotalPrice),
			Commission: e.Money.Format(pr.Commission),
		})
		view.TotalStock += p.Stock
	}
	for _, b := range data.Barbers {
		view.Barbers = append(view.Barbers, htmlBarber{Name: b.Name, Email: b.Email, Phone: b.Phone, Unit: b.Unit, Balance: e.Money.Format(b.Balance)})
		balance += b.Balance
	}
	view.TotalBalance = e.Money.Format(balance)

	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("render report html: %w", err)
	}
	return buf.Bytes(), nil
}

func (e Exporter) pdf(ctx context.Context, data Data) ([]byte, error) {
	if e.PDF == nil {
		return nil, errors.New("pdf renderer not configured")
	}
	html, err := e.HTML(data)
	if err != nil {
		return nil, err
	}
	body, err := e.PDF.RenderHTML(ctx, html)
	if err != nil {
		return nil, fmt.Errorf("render report pdf: %w", err)
	}
	return body, nil
}

func (e Exporter) xlsx(data Data) ([]byte, error) {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	products := [][]any{{"Nome", "Stock", "Preço Base", "Preço Total", "Comissão"}}
	for _, p := range data.Products {
		pr := pricing.Compute(p.BasePrice)
		products = append(products, []any{p.Name, p.Stock, p.BasePrice, pr.TotalPrice, pr.Commission})
	}
	barbers := [][]any{{"Nome", "Email", "Telefone", "Unidade", "Saldo"}}
	for _, b := range data.Barbers {
		barbers = append(barbers, []any{b.Name, b.Email, b.Phone, b.Unit, b.Balance})
	}

	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#1A2B4B"}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}
	for i, sheet := range []struct {
		name string
		rows [][]any
	}{{"Produtos", products}, {"Barbeiros", barbers}} {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet.name); err != nil {
				return nil, err
			}
		} else if _, err := f.NewSheet(sheet.name); err != nil {
			return nil, err
		}
		if err := writeRows(f, sheet.name, sheet.rows); err != nil {
			return nil, err
		}
		_ = f.SetColWidth(sheet.name, "A", "A", 28)
		_ = f.SetColWidth(sheet.name, "B", "E", 16)
		_ = f.SetCellStyle(sheet.name, "A1", "E1", style)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for r, values := range rows {
		for c, v := range values {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}

type csvProduct struct {
	Name       string  `csv:"nome"`
	Stock      int     `csv:"stock"`
	BasePrice  float64 `csv:"preco_base"`
	TotalPrice float64 `csv:"preco_total"`
	Commission float64 `csv:"comissao"`
}

type csvBarber struct {
	Name    string  `csv:"nome"`
	Email   string  `csv:"email"`
	Phone   string  `csv:"telefone"`
	Unit    string  `csv:"unidade"`
	Balance float64 `csv:"saldo"`
}

// csv writes the products table, a blank line, then the barbers table.
func (e Exporter) csv(data Data) ([]byte, error) {
	products := make([]csvProduct, 0, len(data.Products))
	for _, p := range data.Products {
		pr := pricing.Compute(p.BasePrice)
		products = append(products, csvProduct{Name: p.Name, Stock: p.Stock, BasePrice: p.BasePrice, TotalPrice: pr.TotalPrice, Commission: pr.Commission})
	}
	barbers := make([]csvBarber, 0, len(data.Barbers))
	for _, b := range data.Barbers {
		barbers = append(barbers, csvBarber{Name: b.Name, Email: b.Email, Phone: b.Phone, Unit: b.Unit, Balance: b.Balance})
	}

	var buf bytes.Buffer
	if err := gocsv.Marshal(&products, &buf); err != nil {
		return nil, fmt.Errorf("write products csv: %w", err)
	}
	buf.WriteString("\n")
	if err := gocsv.Marshal(&barbers, &buf); err != nil {
		return nil, fmt.Errorf("write barbers csv: %w", err)
	}
	return buf.Bytes(), nil
}
