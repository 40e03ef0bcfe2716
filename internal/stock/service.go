package stock

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/leanchem/leanchem-backend/pkg/db"
	"github.com/leanchem/leanchem-backend/pkg/db/models"
	"github.com/leanchem/leanchem-backend/pkg/enums"
	apperrors "github.com/leanchem/leanchem-backend/pkg/errors"
	"github.com/leanchem/leanchem-backend/pkg/logger"
	"github.com/leanchem/leanchem-backend/pkg/pagination"
)

// txRunner runs a function inside a database transaction.
type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// tdsLoader, partnerLoader and customerLoader resolve references held
// on movements. They are satisfied by the pms and crm services.
type tdsLoader interface {
	TdsExists(ctx context.Context, id uuid.UUID) (bool, error)
}

type partnerLoader interface {
	PartnerName(ctx context.Context, id uuid.UUID) (string, error)
}

type customerLoader interface {
	CustomerName(ctx context.Context, id uuid.UUID) (string, error)
}

// Service owns the stock ledger: products, movements and the running
// balance recalculation that keeps each (product, location) ledger
// consistent after any mutation.
type Service struct {
	repo      Repository
	tx        txRunner
	tds       tdsLoader
	partners  partnerLoader
	customers customerLoader
	cache     *Cache
	log       *logger.Logger
}

func NewService(repo Repository, tx txRunner, tds tdsLoader, partners partnerLoader, customers customerLoader, cache *Cache, log *logger.Logger) *Service {
	return &Service{
		repo:      repo,
		tx:        tx,
		tds:       tds,
		partners:  partners,
		customers: customers,
		cache:     cache,
		log:       log,
	}
}

// =============================
// Products
// =============================

func (s *Service) CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	useCase, err := enums.ParseUseCase(input.UseCase)
	if err != nil {
		return nil, apperrors.New(apperrors.CodeValidation, err.Error())
	}
	if input.KgPerUnit <= 0 {
		return nil, apperrors.New(apperrors.CodeValidation, "kg_per_unit must be greater than zero")
	}
	if err := s.checkTds(ctx, input.TdsID); err != nil {
		return nil, err
	}

	product := &models.Product{
		ID:           uuid.New(),
		Chemical:     strings.TrimSpace(input.Chemical),
		ChemicalType: strings.TrimSpace(input.ChemicalType),
		Brand:        strings.TrimSpace(input.Brand),
		Packaging:    strings.TrimSpace(input.Packaging),
		KgPerUnit:    input.KgPerUnit,
		UseCase:      useCase,
		TdsID:        input.TdsID,
		TdsLink:      input.TdsLink,
	}
	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "creating product")
	}
	s.log.Info(s.log.WithField(ctx, "product_id", product.ID.String()), "product created")
	return product, nil
}

func (s *Service) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, apperrors.New(apperrors.CodeNotFound, "product not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "loading product")
	}
	if err := s.computeStock(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *Service) GetProductByTdsID(ctx context.Context, tdsID uuid.UUID) (*models.Product, error) {
	product, err := s.repo.GetProductByTdsID(ctx, tdsID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, apperrors.New(apperrors.CodeNotFound, "product not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "loading product")
	}
	if err := s.computeStock(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *Service) ListProducts(ctx context.Context, filter ProductFilter, page pagination.Page) ([]models.Product, int64, error) {
	products, total, err := s.repo.ListProducts(ctx, filter, page)
	if err != nil {
		return nil, 0, apperrors.Wrap(apperrors.CodeInternal, err, "listing products")
	}
	for i := range products {
		if err := s.computeStock(ctx, &products[i]); err != nil {
			return nil, 0, err
		}
	}
	return products, total, nil
}

func (s *Service) UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*models.Product, error) {
	product, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, apperrors.New(apperrors.CodeNotFound, "product not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "loading product")
	}

	if input.Chemical != nil {
		product.Chemical = strings.TrimSpace(*input.Chemical)
	}
	if input.ChemicalType != nil {
		product.ChemicalType = strings.TrimSpace(*input.ChemicalType)
	}
	if input.Brand != nil {
		product.Brand = strings.TrimSpace(*input.Brand)
	}
	if input.Packaging != nil {
		product.Packaging = strings.TrimSpace(*input.Packaging)
	}
	if input.KgPerUnit != nil {
		if *input.KgPerUnit <= 0 {
			return nil, apperrors.New(apperrors.CodeValidation, "kg_per_unit must be greater than zero")
		}
		product.KgPerUnit = *input.KgPerUnit
	}
	if input.UseCase != nil {
		useCase, err := enums.ParseUseCase(*input.UseCase)
		if err != nil {
			return nil, apperrors.New(apperrors.CodeValidation, err.Error())
		}
		product.UseCase = useCase
	}
	if input.TdsID != nil {
		if err := s.checkTds(ctx, input.TdsID); err != nil {
			return nil, err
		}
		product.TdsID = input.TdsID
	}
	if input.TdsLink != nil {
		product.TdsLink = input.TdsLink
	}

	if err := s.repo.UpdateProduct(ctx, product); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "updating product")
	}
	if err := s.computeStock(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *Service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetProduct(ctx, id); err != nil {
		if db.IsNotFound(err) {
			return apperrors.New(apperrors.CodeNotFound, "product not found")
		}
		return apperrors.Wrap(apperrors.CodeInternal, err, "loading product")
	}
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, err, "deleting product")
	}
	s.cache.Invalidate(ctx, id)
	s.log.Info(s.log.WithField(ctx, "product_id", id.String()), "product deleted")
	return nil
}

// computeStock fills the product's transient per-location stock fields
// from its movement ledger.
func (s *Service) computeStock(ctx context.Context, product *models.Product) error {
	if totals, ok := s.cache.Lookup(ctx, product.ID); ok {
		applyStock(product, totals)
		return nil
	}
	movements, err := s.repo.ListProductMovements(ctx, product.ID)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, err, "loading movements")
	}
	totals := aggregateStock(movements)
	s.cache.Store(ctx, product.ID, totals)
	applyStock(product, totals)
	return nil
}

// =============================
// Movements
// =============================

func (s *Service) CreateMovement(ctx context.Context, input CreateMovementInput) (*models.StockMovement, error) {
	location, err := enums.ParseLocation(input.Location)
	if err != nil {
		return nil, apperrors.New(apperrors.CodeValidation, err.Error())
	}
	txType, err := enums.ParseTransactionType(input.TransactionType)
	if err != nil {
		return nil, apperrors.New(apperrors.CodeValidation, err.Error())
	}
	unit := enums.UnitKg
	if input.Unit != "" {
		if unit, err = enums.ParseStockUnit(input.Unit); err != nil {
			return nil, apperrors.New(apperrors.CodeValidation, err.Error())
		}
	}
	if err := validateLocationType(location, txType); err != nil {
		return nil, err
	}
	if err := validateQuantities(
		input.BeginningBalance, input.PurchaseKg, input.SoldKg,
		input.PurchaseDirectShipmentKg, input.SoldDirectShipmentKg,
		input.SampleOrDamageKg, input.InterCompanyTransferKg,
	); err != nil {
		return nil, err
	}

	var transferTo *enums.Location
	if input.TransferToLocation != nil {
		dest, err := enums.ParseLocation(*input.TransferToLocation)
		if err != nil {
			return nil, apperrors.New(apperrors.CodeValidation, err.Error())
		}
		transferTo = &dest
	}

	var businessModel *enums.BusinessModel
	if input.BusinessModel != nil {
		bm, err := enums.ParseBusinessModel(*input.BusinessModel)
		if err != nil {
			return nil, apperrors.New(apperrors.CodeValidation, err.Error())
		}
		businessModel = &bm
	}

	if _, err := s.repo.GetProduct(ctx, input.ProductID); err != nil {
		if db.IsNotFound(err) {
			return nil, apperrors.New(apperrors.CodeNotFound, "product not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "loading product")
	}
	if err := s.checkTds(ctx, input.TdsID); err != nil {
		return nil, err
	}

	supplierName := input.SupplierName
	if input.SupplierID != nil {
		name, err := s.partners.PartnerName(ctx, *input.SupplierID)
		if err != nil {
			return nil, err
		}
		if supplierName == nil && name != "" {
			supplierName = &name
		}
	}

	customerName := input.CustomerName
	if input.CustomerID != nil {
		name, err := s.customers.CustomerName(ctx, *input.CustomerID)
		if err != nil {
			return nil, err
		}
		if customerName == nil && name != "" {
			customerName = &name
		}
	}

	movements, err := s.repo.ListProductMovements(ctx, input.ProductID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "loading movements")
	}

	beginning := input.BeginningBalance
	if beginning == 0 && !txType.IsSnapshot() {
		beginning = deriveBeginningBalance(movements, location, input.Date)
	}

	now := time.Now().UTC()
	movement := &models.StockMovement{
		ID:                       uuid.New(),
		ProductID:                input.ProductID,
		TdsID:                    input.TdsID,
		Date:                     input.Date,
		Location:                 location,
		TransactionType:          txType,
		Unit:                     unit,
		BeginningBalance:         beginning,
		PurchaseKg:               input.PurchaseKg,
		SoldKg:                   input.SoldKg,
		PurchaseDirectShipmentKg: input.PurchaseDirectShipmentKg,
		SoldDirectShipmentKg:     input.SoldDirectShipmentKg,
		SampleOrDamageKg:         input.SampleOrDamageKg,
		InterCompanyTransferKg:   input.InterCompanyTransferKg,
		TransferToLocation:       transferTo,
		SupplierID:               input.SupplierID,
		SupplierName:             supplierName,
		CustomerID:               input.CustomerID,
		CustomerName:             customerName,
		BusinessModel:            businessModel,
		Brand:                    trimPtr(input.Brand),
		Reference:                input.Reference,
		Remark:                   input.Remark,
		Warehouse:                input.Warehouse,
		CreatedAt:                &now,
		UpdatedAt:                &now,
	}
	movement.BalanceKg = initialBalance(movement)

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.CreateMovement(ctx, movement); err != nil {
			return apperrors.Wrap(apperrors.CodeInternal, err, "creating stock movement")
		}
		return s.recalcLocations(ctx, repo, movement.ProductID, affectedLocations(movement))
	})
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, movement.ProductID)

	s.log.Info(s.log.WithFields(ctx, map[string]any{
		"movement_id": movement.ID.String(),
		"product_id":  movement.ProductID.String(),
		"location":    movement.Location.String(),
		"type":        movement.TransactionType.String(),
	}), "stock movement created")

	return s.reloadMovement(ctx, movement.ID)
}

func (s *Service) GetMovement(ctx context.Context, id uuid.UUID) (*models.StockMovement, error) {
	movement, err := s.repo.GetMovement(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, apperrors.New(apperrors.CodeNotFound, "stock movement not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "loading stock movement")
	}
	return movement, nil
}

func (s *Service) ListMovements(ctx context.Context, filter MovementFilter, page pagination.Page) ([]models.StockMovement, int64, error) {
	movements, total, err := s.repo.ListMovements(ctx, filter, page)
	if err != nil {
		return nil, 0, apperrors.Wrap(apperrors.CodeInternal, err, "listing stock movements")
	}
	return movements, total, nil
}

func (s *Service) UpdateMovement(ctx context.Context, id uuid.UUID, input UpdateMovementInput) (*models.StockMovement, error) {
	movement, err := s.GetMovement(ctx, id)
	if err != nil {
		return nil, err
	}

	// Both the old and new ledgers need recalculation when the
	// location or destination changes.
	locations := affectedLocations(movement)

	if input.Date != nil {
		movement.Date = *input.Date
	}
	if input.Location != nil {
		loc, err := enums.ParseLocation(*input.Location)
		if err != nil {
			return nil, apperrors.New(apperrors.CodeValidation, err.Error())
		}
		movement.Location = loc
	}
	if input.TransactionType != nil {
		txType, err := enums.ParseTransactionType(*input.TransactionType)
		if err != nil {
			return nil, apperrors.New(apperrors.CodeValidation, err.Error())
		}
		movement.TransactionType = txType
	}
	if input.Unit != nil {
		unit, err := enums.ParseStockUnit(*input.Unit)
		if err != nil {
			return nil, apperrors.New(apperrors.CodeValidation, err.Error())
		}
		movement.Unit = unit
	}
	if input.TransferToLocation != nil {
		dest, err := enums.ParseLocation(*input.TransferToLocation)
		if err != nil {
			return nil, apperrors.New(apperrors.CodeValidation, err.Error())
		}
		movement.TransferToLocation = &dest
	}
	if input.BusinessModel != nil {
		bm, err := enums.ParseBusinessModel(*input.BusinessModel)
		if err != nil {
			return nil, apperrors.New(apperrors.CodeValidation, err.Error())
		}
		movement.BusinessModel = &bm
	}

	if input.BeginningBalance != nil {
		movement.BeginningBalance = *input.BeginningBalance
	}
	if input.PurchaseKg != nil {
		movement.PurchaseKg = *input.PurchaseKg
	}
	if input.SoldKg != nil {
		movement.SoldKg = *input.SoldKg
	}
	if input.PurchaseDirectShipmentKg != nil {
		movement.PurchaseDirectShipmentKg = *input.PurchaseDirectShipmentKg
	}
	if input.SoldDirectShipmentKg != nil {
		movement.SoldDirectShipmentKg = *input.SoldDirectShipmentKg
	}
	if input.SampleOrDamageKg != nil {
		movement.SampleOrDamageKg = *input.SampleOrDamageKg
	}
	if input.InterCompanyTransferKg != nil {
		movement.InterCompanyTransferKg = *input.InterCompanyTransferKg
	}

	if input.SupplierID != nil {
		name, err := s.partners.PartnerName(ctx, *input.SupplierID)
		if err != nil {
			return nil, err
		}
		movement.SupplierID = input.SupplierID
		if input.SupplierName == nil && name != "" {
			movement.SupplierName = &name
		}
	}
	if input.SupplierName != nil {
		movement.SupplierName = input.SupplierName
	}
	if input.CustomerID != nil {
		name, err := s.customers.CustomerName(ctx, *input.CustomerID)
		if err != nil {
			return nil, err
		}
		movement.CustomerID = input.CustomerID
		if input.CustomerName == nil && name != "" {
			movement.CustomerName = &name
		}
	}
	if input.CustomerName != nil {
		movement.CustomerName = input.CustomerName
	}
	if input.Brand != nil {
		movement.Brand = trimPtr(input.Brand)
	}
	if input.Reference != nil {
		movement.Reference = input.Reference
	}
	if input.Remark != nil {
		movement.Remark = input.Remark
	}
	if input.Warehouse != nil {
		movement.Warehouse = input.Warehouse
	}

	if err := validateLocationType(movement.Location, movement.TransactionType); err != nil {
		return nil, err
	}
	if err := validateQuantities(
		movement.BeginningBalance, movement.PurchaseKg, movement.SoldKg,
		movement.PurchaseDirectShipmentKg, movement.SoldDirectShipmentKg,
		movement.SampleOrDamageKg, movement.InterCompanyTransferKg,
	); err != nil {
		return nil, err
	}

	locations = mergeLocations(locations, affectedLocations(movement))
	now := time.Now().UTC()
	movement.UpdatedAt = &now

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.UpdateMovement(ctx, movement); err != nil {
			return apperrors.Wrap(apperrors.CodeInternal, err, "updating stock movement")
		}
		return s.recalcLocations(ctx, repo, movement.ProductID, locations)
	})
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, movement.ProductID)
	return s.reloadMovement(ctx, movement.ID)
}

func (s *Service) DeleteMovement(ctx context.Context, id uuid.UUID) error {
	movement, err := s.GetMovement(ctx, id)
	if err != nil {
		return err
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.DeleteMovement(ctx, id); err != nil {
			return apperrors.Wrap(apperrors.CodeInternal, err, "deleting stock movement")
		}
		return s.recalcLocations(ctx, repo, movement.ProductID, affectedLocations(movement))
	})
	if err != nil {
		return err
	}
	s.cache.Invalidate(ctx, movement.ProductID)

	s.log.Info(s.log.WithField(ctx, "movement_id", id.String()), "stock movement deleted")
	return nil
}

// AvailabilitySummaries reports per-location stock for each product.
func (s *Service) AvailabilitySummaries(ctx context.Context, filter ProductFilter, page pagination.Page) ([]AvailabilitySummary, int64, error) {
	products, total, err := s.ListProducts(ctx, filter, page)
	if err != nil {
		return nil, 0, err
	}

	summaries := make([]AvailabilitySummary, 0, len(products))
	for _, p := range products {
		summaries = append(summaries, summarize(&p))
	}
	return summaries, total, nil
}

// ProductStock reports the per-location stock breakdown for one product.
func (s *Service) ProductStock(ctx context.Context, id uuid.UUID) (*AvailabilitySummary, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	summary := summarize(product)
	return &summary, nil
}

func summarize(p *models.Product) AvailabilitySummary {
	return AvailabilitySummary{
		ProductID:               p.ID,
		ProductName:             fmt.Sprintf("%s - %s", p.Chemical, p.Brand),
		Chemical:                p.Chemical,
		Brand:                   p.Brand,
		AddisAbabaStock:         p.TotalStockAddisAbaba,
		SEZKenyaStock:           p.TotalStockSEZKenya,
		NairobiPartnerStock:     p.TotalStockNairobiPartner,
		TotalStock:              p.TotalStock(),
		AddisAbabaReserved:      p.ReservedStockAddisAbaba,
		SEZKenyaReserved:        p.ReservedStockSEZKenya,
		NairobiPartnerReserved:  p.ReservedStockNairobiPartner,
		TotalReserved:           p.TotalReservedStock(),
		AddisAbabaAvailable:     p.TotalStockAddisAbaba - p.ReservedStockAddisAbaba,
		SEZKenyaAvailable:       p.TotalStockSEZKenya - p.ReservedStockSEZKenya,
		NairobiPartnerAvailable: p.TotalStockNairobiPartner - p.ReservedStockNairobiPartner,
		TotalAvailable:          p.TotalAvailableStock(),
	}
}

// =============================
// Helpers
// =============================

func (s *Service) checkTds(ctx context.Context, id *uuid.UUID) error {
	if id == nil {
		return nil
	}
	ok, err := s.tds.TdsExists(ctx, *id)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.New(apperrors.CodeValidation, "TDS not found")
	}
	return nil
}

func (s *Service) recalcLocations(ctx context.Context, repo Repository, productID uuid.UUID, locations []enums.Location) error {
	movements, err := repo.ListProductMovements(ctx, productID)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, err, "loading movements for recalculation")
	}
	for _, loc := range locations {
		updates := recalculate(movements, loc)
		if err := repo.ApplyBalanceUpdates(ctx, updates); err != nil {
			return apperrors.Wrap(apperrors.CodeInternal, err, "applying balance updates")
		}
		// Later ledgers must see the balances just written.
		applyUpdatesInMemory(movements, updates)
	}
	return nil
}

func (s *Service) reloadMovement(ctx context.Context, id uuid.UUID) (*models.StockMovement, error) {
	movement, err := s.repo.GetMovement(ctx, id)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "reloading stock movement")
	}
	return movement, nil
}

func applyUpdatesInMemory(movements []models.StockMovement, updates []BalanceUpdate) {
	byID := make(map[uuid.UUID]BalanceUpdate, len(updates))
	for _, u := range updates {
		byID[u.ID] = u
	}
	for i := range movements {
		if u, ok := byID[movements[i].ID]; ok {
			movements[i].BeginningBalance = u.BeginningBalance
			movements[i].BalanceKg = u.BalanceKg
		}
	}
}

// validateLocationType enforces the Nairobi Partner snapshot policy:
// that location records only Stock Availability entries, and no other
// location may record them.
func validateLocationType(loc enums.Location, txType enums.TransactionType) error {
	if loc == enums.LocationNairobiPartner && !txType.IsSnapshot() {
		return apperrors.New(apperrors.CodeValidation,
			"Nairobi Partner location can only have 'Stock Availability' transaction type")
	}
	if loc != enums.LocationNairobiPartner && txType.IsSnapshot() {
		return apperrors.New(apperrors.CodeValidation,
			"'Stock Availability' transaction type is only allowed for Nairobi Partner location")
	}
	return nil
}

func validateQuantities(values ...float64) error {
	for _, v := range values {
		if v < 0 {
			return apperrors.New(apperrors.CodeValidation, "quantity fields must be non-negative")
		}
	}
	return nil
}

// deriveBeginningBalance finds the starting balance for a new entry at
// a location: the latest prior direct entry's balance if one exists,
// otherwise the sum of inbound transfers recorded so far.
func deriveBeginningBalance(movements []models.StockMovement, loc enums.Location, date time.Time) float64 {
	entries := entriesFor(movements, loc)
	sortEntries(entries)

	var previous []ledgerEntry
	for _, e := range entries {
		if !e.movement.Date.After(date) {
			previous = append(previous, e)
		}
	}
	if len(previous) == 0 {
		return 0
	}

	for i := len(previous) - 1; i >= 0; i-- {
		if previous[i].kind == entryDirect {
			return previous[i].movement.BalanceKg
		}
	}

	var fromTransfers float64
	for _, e := range previous {
		if e.kind == entryInbound {
			fromTransfers += e.movement.InterCompanyTransferKg
		}
	}
	return fromTransfers
}

// initialBalance computes the balance stored on a movement at create
// time. The recalculation pass then rewrites the whole ledger, but the
// row is never persisted with a stale balance.
func initialBalance(m *models.StockMovement) float64 {
	var balance float64
	switch {
	case m.TransactionType.IsSnapshot():
		balance = m.BeginningBalance
	case m.IsTransfer():
		balance = m.BeginningBalance - m.InterCompanyTransferKg
		if m.DestinedTo(m.Location) {
			balance += m.InterCompanyTransferKg
		}
	default:
		balance = m.BeginningBalance + m.PurchaseKg + m.PurchaseDirectShipmentKg -
			m.SoldKg - m.SoldDirectShipmentKg - m.SampleOrDamageKg
	}
	if balance < 0 {
		balance = 0
	}
	return balance
}

// affectedLocations lists the ledgers a movement touches: its own
// location plus the transfer destination when present.
func affectedLocations(m *models.StockMovement) []enums.Location {
	locations := []enums.Location{m.Location}
	if m.IsTransfer() && m.TransferToLocation != nil && *m.TransferToLocation != m.Location {
		locations = append(locations, *m.TransferToLocation)
	}
	return locations
}

func mergeLocations(a, b []enums.Location) []enums.Location {
	seen := map[enums.Location]bool{}
	var out []enums.Location
	for _, loc := range append(a, b...) {
		if !seen[loc] {
			seen[loc] = true
			out = append(out, loc)
		}
	}
	return out
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
