package quotes

// FormType selects which business unit's quotation layout to render.
type FormType string

const (
	FormBaracoda  FormType = "Baracoda"
	FormBetchem   FormType = "Bet-chem"
	FormNyumbchem FormType = "Nyumb-Chem"
)

var formTypes = []FormType{FormBaracoda, FormBetchem, FormNyumbchem}

func (f FormType) IsValid() bool {
	for _, v := range formTypes {
		if f == v {
			return true
		}
	}
	return false
}

// PaymentTermsOptions are the payment schedules offered on quotations,
// selected by 1-based index.
var PaymentTermsOptions = []string{
	"Option 1: 50% advance upon signing, 50% upon final delivery",
	"Option 2: 50% advance, 30% at dry port, 20% upon delivery",
	"Option 3: 60% advance upon signing, 40% upon final delivery",
	"Option 4: 30% advance, 40% at dry port, 30% upon delivery",
	"Option 5: 50% advance, 25% at dry port, 25% upon delivery",
}

type QuoteProduct struct {
	ProductName string  `json:"product_name" validate:"required"`
	VendorName  string  `json:"vendor_name"`
	UnitPrice   float64 `json:"unit_price" validate:"gte=0"`
	Quantity    float64 `json:"quantity" validate:"gte=0"`
}

type GenerateQuoteInput struct {
	CompanyName   string         `json:"company_name"`
	FormType      string         `json:"form_type"`
	PaymentOption int            `json:"payment_option"`
	Products      []QuoteProduct `json:"products" validate:"required,min=1,dive"`
}

// Quote is a rendered quotation workbook ready for download.
type Quote struct {
	InvoiceNumber string   `json:"invoice_number"`
	FileName      string   `json:"file_name"`
	FormType      FormType `json:"form_type"`
	Subtotal      float64  `json:"subtotal"`
	Total         float64  `json:"total"`
	Content       []byte   `json:"-"`
}
