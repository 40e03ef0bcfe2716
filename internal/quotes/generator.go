package quotes

import (
	"bytes"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// vatRate is the Ethiopian VAT applied on quotation totals.
var vatRate = decimal.NewFromFloat(0.15)

// layout describes where a form type places its sections on the sheet.
type layout struct {
	productStartRow int
	descCol         string
	qtyCol          string
	priceCol        string
	totalCol        string
	companyRow      int
	companyCol      string
	headerRow       int
}

var layouts = map[FormType]layout{
	FormBaracoda: {
		productStartRow: 19,
		descCol:         "B",
		priceCol:        "C",
		qtyCol:          "D",
		totalCol:        "E",
		companyRow:      11,
		companyCol:      "B",
		headerRow:       18,
	},
	FormBetchem: {
		productStartRow: 17,
		descCol:         "C",
		qtyCol:          "D",
		priceCol:        "E",
		totalCol:        "F",
		companyRow:      11,
		companyCol:      "C",
		headerRow:       16,
	},
	FormNyumbchem: {
		productStartRow: 10,
		descCol:         "A",
		priceCol:        "C",
		qtyCol:          "D",
		totalCol:        "E",
		companyRow:      7,
		companyCol:      "D",
		headerRow:       9,
	},
}

type totals struct {
	subtotal decimal.Decimal
	total    decimal.Decimal
}

// computeTotals sums the line amounts and applies VAT using decimal
// arithmetic so float rounding never leaks into the quote.
func computeTotals(products []QuoteProduct) totals {
	subtotal := decimal.Zero
	for _, p := range products {
		line := decimal.NewFromFloat(p.UnitPrice).Mul(decimal.NewFromFloat(p.Quantity))
		subtotal = subtotal.Add(line)
	}
	subtotal = subtotal.Round(2)
	total := subtotal.Add(subtotal.Mul(vatRate)).Round(2)
	return totals{subtotal: subtotal, total: total}
}

// renderWorkbook builds the quotation workbook for one form type.
func renderWorkbook(form FormType, invoiceNumber, companyName string, products []QuoteProduct, paymentOption int, now time.Time) ([]byte, totals, error) {
	l := layouts[form]
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	moneyStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: strPtr("#,##0.00")})
	if err != nil {
		return nil, totals{}, fmt.Errorf("creating money style: %w", err)
	}
	qtyStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: strPtr("#,##0")})
	if err != nil {
		return nil, totals{}, fmt.Errorf("creating quantity style: %w", err)
	}
	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, totals{}, fmt.Errorf("creating bold style: %w", err)
	}
	boldMoneyStyle, err := f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Bold: true},
		CustomNumFmt: strPtr("#,##0.00"),
	})
	if err != nil {
		return nil, totals{}, fmt.Errorf("creating total style: %w", err)
	}

	setCell := func(col string, row int, value any) error {
		return f.SetCellValue(sheet, fmt.Sprintf("%s%d", col, row), value)
	}
	setStyle := func(col string, row, style int) error {
		cell := fmt.Sprintf("%s%d", col, row)
		return f.SetCellStyle(sheet, cell, cell, style)
	}

	// Header block: invoice number, date, consignee.
	date := now.Format("02/01/2006")
	switch form {
	case FormBetchem:
		_ = setCell("D", 9, fmt.Sprintf("DATE: %s", date))
		_ = setCell("D", 10, fmt.Sprintf("Invoice No. %s", invoiceNumber))
	case FormNyumbchem:
		_ = setCell("A", 3, fmt.Sprintf("Invoice no.: #%s", invoiceNumber))
		_ = setCell("A", 4, fmt.Sprintf("Date : %s", date))
	default:
		_ = setCell("D", 7, fmt.Sprintf("INVOICE NUMBER: #%s", invoiceNumber))
		_ = setCell("D", 8, fmt.Sprintf("DATE: %s", date))
	}

	if companyName != "" {
		switch form {
		case FormBetchem:
			_ = setCell(l.companyCol, l.companyRow, companyName)
		case FormNyumbchem:
			_ = setCell(l.companyCol, l.companyRow, fmt.Sprintf("COMPANY NAME:\n%s", companyName))
		default:
			_ = setCell(l.companyCol, l.companyRow, fmt.Sprintf("To: %s", companyName))
		}
	}

	// Product table header.
	switch form {
	case FormNyumbchem:
		_ = setCell("A", l.headerRow, "ITEM DESCRIPTION")
		_ = setCell("B", l.headerRow, "UNIT")
		_ = setCell("C", l.headerRow, "UNIT PRICE")
		_ = setCell("D", l.headerRow, "QTY")
		_ = setCell("E", l.headerRow, "TOTAL")
	case FormBetchem:
		_ = setCell("C", l.headerRow, "DESCRIPTION")
		_ = setCell("D", l.headerRow, "QTY")
		_ = setCell("E", l.headerRow, "UNIT PRICE")
		_ = setCell("F", l.headerRow, "TOTAL")
	default:
		_ = setCell("B", l.headerRow, "DESCRIPTION")
		_ = setCell("C", l.headerRow, "UNIT PRICE")
		_ = setCell("D", l.headerRow, "QTY")
		_ = setCell("E", l.headerRow, "AMOUNT")
	}
	for _, col := range []string{l.descCol, l.qtyCol, l.priceCol, l.totalCol} {
		_ = setStyle(col, l.headerRow, boldStyle)
	}

	// Product rows with a live formula for each line total.
	for i, p := range products {
		row := l.productStartRow + i
		name := p.ProductName
		if p.VendorName != "" {
			name = fmt.Sprintf("%s, %s", p.ProductName, p.VendorName)
		}
		if err := setCell(l.descCol, row, name); err != nil {
			return nil, totals{}, fmt.Errorf("writing product row %d: %w", row, err)
		}
		_ = setCell(l.priceCol, row, p.UnitPrice)
		_ = setStyle(l.priceCol, row, moneyStyle)
		_ = setCell(l.qtyCol, row, p.Quantity)
		_ = setStyle(l.qtyCol, row, qtyStyle)

		formula := fmt.Sprintf("%s%d*%s%d", l.priceCol, row, l.qtyCol, row)
		cell := fmt.Sprintf("%s%d", l.totalCol, row)
		if err := f.SetCellFormula(sheet, cell, formula); err != nil {
			return nil, totals{}, fmt.Errorf("writing line formula: %w", err)
		}
		_ = setStyle(l.totalCol, row, moneyStyle)
	}

	lastProductRow := l.productStartRow + len(products) - 1
	subtotalRow := lastProductRow + 2
	totalRow := subtotalRow + 1

	sums := computeTotals(products)
	labelCol, valueCol := labelColumns(form)

	_ = setCell(labelCol, subtotalRow, "Subtotal")
	_ = setStyle(labelCol, subtotalRow, boldStyle)
	sumFormula := fmt.Sprintf("SUM(%s%d:%s%d)", l.totalCol, l.productStartRow, l.totalCol, lastProductRow)
	subtotalCell := fmt.Sprintf("%s%d", valueCol, subtotalRow)
	if err := f.SetCellFormula(sheet, subtotalCell, sumFormula); err != nil {
		return nil, totals{}, fmt.Errorf("writing subtotal formula: %w", err)
	}
	_ = setStyle(valueCol, subtotalRow, boldMoneyStyle)

	_ = setCell(labelCol, totalRow, "Total (incl. 15% VAT)")
	_ = setStyle(labelCol, totalRow, boldStyle)
	totalCell := fmt.Sprintf("%s%d", valueCol, totalRow)
	if err := f.SetCellFormula(sheet, totalCell, fmt.Sprintf("%s%d*1.15", valueCol, subtotalRow)); err != nil {
		return nil, totals{}, fmt.Errorf("writing total formula: %w", err)
	}
	_ = setStyle(valueCol, totalRow, boldMoneyStyle)

	// Payment terms below the totals block.
	termsRow := totalRow + 3
	terms := PaymentTermsOptions[paymentOption-1]
	switch form {
	case FormBetchem:
		_ = setCell("C", termsRow, "Terms and Conditions")
		_ = setStyle("C", termsRow, boldStyle)
		_ = setCell("C", termsRow+1, terms)
	case FormNyumbchem:
		_ = setCell("A", termsRow, "Term of payment")
		_ = setStyle("A", termsRow, boldStyle)
		_ = setCell("B", termsRow, terms)
	default:
		_ = setCell("B", termsRow, "TRADE TERMS & CONDITIONS")
		_ = setStyle("B", termsRow, boldStyle)
		_ = setCell("B", termsRow+2, fmt.Sprintf("2. Payment: %s", terms))
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, totals{}, fmt.Errorf("writing workbook: %w", err)
	}
	return buf.Bytes(), sums, nil
}

// labelColumns returns the label and value columns for the totals block.
func labelColumns(form FormType) (label, value string) {
	switch form {
	case FormBetchem:
		return "E", "F"
	case FormNyumbchem:
		return "D", "E"
	default:
		return "D", "E"
	}
}

func strPtr(s string) *string {
	return &s
}
