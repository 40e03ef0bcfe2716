package quotes

import (
	"context"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/leanchem/leanchem-backend/pkg/errors"
	"github.com/leanchem/leanchem-backend/pkg/logger"
)

// sequence hands out monotonically increasing invoice numbers.
type sequence interface {
	Next(ctx context.Context) (int64, error)
}

type Service struct {
	seq sequence
	now func() time.Time
	log *logger.Logger
}

func NewService(seq sequence, log *logger.Logger) *Service {
	return &Service{seq: seq, now: time.Now, log: log}
}

func (s *Service) Generate(ctx context.Context, input GenerateQuoteInput) (*Quote, error) {
	form := FormBaracoda
	if strings.TrimSpace(input.FormType) != "" {
		form = FormType(input.FormType)
		if !form.IsValid() {
			return nil, apperrors.New(apperrors.CodeValidation,
				fmt.Sprintf("form_type must be one of: %s, %s, %s", FormBaracoda, FormBetchem, FormNyumbchem))
		}
	}

	option := input.PaymentOption
	if option == 0 {
		option = 1
	}
	if option < 1 || option > len(PaymentTermsOptions) {
		return nil, apperrors.New(apperrors.CodeValidation,
			fmt.Sprintf("payment_option must be between 1 and %d", len(PaymentTermsOptions)))
	}

	if len(input.Products) == 0 {
		return nil, apperrors.New(apperrors.CodeValidation, "at least one product is required")
	}
	for i, p := range input.Products {
		if strings.TrimSpace(p.ProductName) == "" {
			return nil, apperrors.New(apperrors.CodeValidation,
				fmt.Sprintf("products[%d].product_name is required", i))
		}
		if p.UnitPrice < 0 || p.Quantity < 0 {
			return nil, apperrors.New(apperrors.CodeValidation,
				fmt.Sprintf("products[%d] price and quantity cannot be negative", i))
		}
	}

	number, err := s.seq.Next(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "failed to allocate invoice number")
	}
	invoiceNumber := fmt.Sprintf("%03d", number)

	content, sums, err := renderWorkbook(form, invoiceNumber, strings.TrimSpace(input.CompanyName),
		input.Products, option, s.now())
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to render quotation")
	}

	quote := &Quote{
		InvoiceNumber: invoiceNumber,
		FileName:      fmt.Sprintf("quotation_%s_%s.xlsx", form, invoiceNumber),
		FormType:      form,
		Subtotal:      sums.subtotal.InexactFloat64(),
		Total:         sums.total.InexactFloat64(),
		Content:       content,
	}

	s.log.Info(s.log.WithFields(ctx, map[string]any{
		"invoice_number": invoiceNumber,
		"form_type":      form.String(),
		"products":       len(input.Products),
	}), "quotation generated")
	return quote, nil
}

func (f FormType) String() string {
	return string(f)
}

// RedisSequence allocates invoice numbers from a redis counter so they
// stay sequential across instances.
type RedisSequence struct {
	incr interface {
		Incr(ctx context.Context, key string) (int64, error)
	}
}

func NewRedisSequence(incr interface {
	Incr(ctx context.Context, key string) (int64, error)
}) *RedisSequence {
	return &RedisSequence{incr: incr}
}

func (s *RedisSequence) Next(ctx context.Context) (int64, error) {
	return s.incr.Incr(ctx, "quotes:invoice_seq")
}
