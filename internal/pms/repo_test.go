package pms

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/leanchem/leanchem-backend/pkg/db/models"
	"github.com/leanchem/leanchem-backend/pkg/pagination"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&models.ChemicalType{},
		&models.Tds{},
		&models.Partner{},
		&models.CostingPricing{},
	))
	t.Cleanup(func() {
		sqlDB, err := conn.DB()
		require.NoError(t, err)
		sqlDB.Close()
	})
	return conn
}

func TestChemicalTypeCRUD(t *testing.T) {
	repo := NewRepository(testDB(t))
	ctx := context.Background()

	ct := &models.ChemicalType{
		ID:           uuid.New(),
		Name:         "Titanium Dioxide",
		Applications: pq.StringArray{"paints", "plastics"},
		SpecTemplate: json.RawMessage(`{"purity":"min 93%"}`),
	}
	require.NoError(t, repo.CreateChemicalType(ctx, ct))

	got, err := repo.GetChemicalType(ctx, ct.ID)
	require.NoError(t, err)
	require.Equal(t, "Titanium Dioxide", got.Name)
	require.Len(t, got.Applications, 2)

	got.Name = "TiO2"
	require.NoError(t, repo.UpdateChemicalType(ctx, got))

	list, total, err := repo.ListChemicalTypes(ctx, "", pagination.Normalize(0, 0))
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Equal(t, "TiO2", list[0].Name)

	require.NoError(t, repo.DeleteChemicalType(ctx, ct.ID))
	_, err = repo.GetChemicalType(ctx, ct.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestTdsListFiltersByChemicalType(t *testing.T) {
	repo := NewRepository(testDB(t))
	ctx := context.Background()

	ctID := uuid.New()
	brand := "Kronos 2190"
	require.NoError(t, repo.CreateTds(ctx, &models.Tds{
		ID: uuid.New(), ChemicalTypeID: &ctID, Brand: &brand,
	}))
	require.NoError(t, repo.CreateTds(ctx, &models.Tds{ID: uuid.New()}))

	records, total, err := repo.ListTds(ctx, TdsFilter{ChemicalTypeID: &ctID}, pagination.Normalize(0, 0))
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Equal(t, &brand, records[0].Brand)
}

func TestCostingUpsertOverwritesRows(t *testing.T) {
	repo := NewRepository(testDB(t))
	ctx := context.Background()

	partnerID, tdsID := uuid.New(), uuid.New()
	first := &models.CostingPricing{
		PartnerID: partnerID,
		TdsID:     tdsID,
		Rows:      json.RawMessage(`[{"item":"freight","usd":120}]`),
	}
	require.NoError(t, repo.UpsertCosting(ctx, first))

	second := &models.CostingPricing{
		PartnerID: partnerID,
		TdsID:     tdsID,
		Rows:      json.RawMessage(`[{"item":"freight","usd":140}]`),
	}
	require.NoError(t, repo.UpsertCosting(ctx, second))

	got, err := repo.GetCosting(ctx, partnerID, tdsID)
	require.NoError(t, err)
	require.JSONEq(t, `[{"item":"freight","usd":140}]`, string(got.Rows))

	_, total, err := repo.ListCosting(ctx, &partnerID, pagination.Normalize(0, 0))
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
}

func TestPartnerCRUD(t *testing.T) {
	repo := NewRepository(testDB(t))
	ctx := context.Background()

	name := "Hayat Chemicals"
	country := "Turkey"
	partner := &models.Partner{ID: uuid.New(), Partner: &name, PartnerCountry: &country}
	require.NoError(t, repo.CreatePartner(ctx, partner))

	got, err := repo.GetPartner(ctx, partner.ID)
	require.NoError(t, err)
	require.Equal(t, &name, got.Partner)

	require.NoError(t, repo.DeletePartner(ctx, partner.ID))
	_, err = repo.GetPartner(ctx, partner.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
