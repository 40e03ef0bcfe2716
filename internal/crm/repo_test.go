package crm

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
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
		&models.Customer{},
		&models.Interaction{},
	))
	t.Cleanup(func() {
		sqlDB, err := conn.DB()
		require.NoError(t, err)
		sqlDB.Close()
	})
	return conn
}

func strPtr(s string) *string { return &s }

func TestCustomerCRUD(t *testing.T) {
	repo := NewRepository(testDB(t))
	ctx := context.Background()

	customer := &models.Customer{
		CustomerID:   uuid.New(),
		CustomerName: "Derba Cement",
		DisplayID:    strPtr("LC-2026-CUST-0001"),
	}
	require.NoError(t, repo.CreateCustomer(ctx, customer))

	got, err := repo.GetCustomer(ctx, customer.CustomerID)
	require.NoError(t, err)
	require.Equal(t, "Derba Cement", got.CustomerName)
	require.Equal(t, "LC-2026-CUST-0001", *got.DisplayID)

	got.SalesStage = strPtr("Prospect")
	require.NoError(t, repo.UpdateCustomer(ctx, got))

	list, total, err := repo.ListCustomers(ctx, "", pagination.Normalize(0, 0))
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Len(t, list, 1)
	require.Equal(t, "Prospect", *list[0].SalesStage)

	require.NoError(t, repo.DeleteCustomer(ctx, customer.CustomerID))
	_, err = repo.GetCustomer(ctx, customer.CustomerID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestListDisplayIDsFiltersByPrefix(t *testing.T) {
	repo := NewRepository(testDB(t))
	ctx := context.Background()

	for _, id := range []string{"LC-2025-CUST-0001", "LC-2026-CUST-0001", "LC-2026-CUST-0002"} {
		require.NoError(t, repo.CreateCustomer(ctx, &models.Customer{
			CustomerID:   uuid.New(),
			CustomerName: "Customer " + id,
			DisplayID:    strPtr(id),
		}))
	}

	ids, err := repo.ListDisplayIDs(ctx, "LC-2026-CUST-")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"LC-2026-CUST-0001", "LC-2026-CUST-0002"}, ids)
}

func TestCustomersWithoutStage(t *testing.T) {
	repo := NewRepository(testDB(t))
	ctx := context.Background()

	staged := &models.Customer{CustomerID: uuid.New(), CustomerName: "Staged", SalesStage: strPtr("Lead")}
	unstaged := &models.Customer{CustomerID: uuid.New(), CustomerName: "Unstaged"}
	require.NoError(t, repo.CreateCustomer(ctx, staged))
	require.NoError(t, repo.CreateCustomer(ctx, unstaged))

	missing, err := repo.CustomersWithoutStage(ctx)
	require.NoError(t, err)
	require.Len(t, missing, 1)
	require.Equal(t, unstaged.CustomerID, missing[0].CustomerID)
}

func TestInteractionLifecycle(t *testing.T) {
	repo := NewRepository(testDB(t))
	ctx := context.Background()

	customer := &models.Customer{CustomerID: uuid.New(), CustomerName: "Mekelle Paints"}
	require.NoError(t, repo.CreateCustomer(ctx, customer))

	first := &models.Interaction{
		ID:         uuid.New(),
		CustomerID: customer.CustomerID,
		InputText:  strPtr("asked about HPMC grades"),
		CreatedAt:  time.Now().Add(-2 * time.Hour),
	}
	second := &models.Interaction{
		ID:         uuid.New(),
		CustomerID: customer.CustomerID,
		InputText:  strPtr("sent TDS for review"),
		AIResponse: strPtr("Recommend the 200k viscosity grade."),
		CreatedAt:  time.Now().Add(-1 * time.Hour),
	}
	require.NoError(t, repo.CreateInteraction(ctx, first))
	require.NoError(t, repo.CreateInteraction(ctx, second))

	// Newest first.
	list, total, err := repo.ListInteractions(ctx, customer.CustomerID, InteractionFilter{}, pagination.Normalize(0, 0))
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
	require.Equal(t, second.ID, list[0].ID)

	got, err := repo.GetInteraction(ctx, first.ID)
	require.NoError(t, err)
	got.InputText = strPtr("asked about HPMC and RDP grades")
	require.NoError(t, repo.UpdateInteraction(ctx, got))

	require.NoError(t, repo.DeleteInteraction(ctx, second.ID))
	_, total, err = repo.ListInteractions(ctx, customer.CustomerID, InteractionFilter{}, pagination.Normalize(0, 0))
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
}

func TestInteractionDateFilter(t *testing.T) {
	repo := NewRepository(testDB(t))
	ctx := context.Background()

	customer := &models.Customer{CustomerID: uuid.New(), CustomerName: "Awash Traders"}
	require.NoError(t, repo.CreateCustomer(ctx, customer))

	old := &models.Interaction{
		ID:         uuid.New(),
		CustomerID: customer.CustomerID,
		InputText:  strPtr("old note"),
		CreatedAt:  time.Now().AddDate(0, -2, 0),
	}
	recent := &models.Interaction{
		ID:         uuid.New(),
		CustomerID: customer.CustomerID,
		InputText:  strPtr("recent note"),
		CreatedAt:  time.Now().Add(-time.Hour),
	}
	require.NoError(t, repo.CreateInteraction(ctx, old))
	require.NoError(t, repo.CreateInteraction(ctx, recent))

	start := time.Now().AddDate(0, -1, 0)
	filter := InteractionFilter{Start: &start}

	list, total, err := repo.ListInteractions(ctx, customer.CustomerID, filter, pagination.Normalize(0, 0))
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Equal(t, recent.ID, list[0].ID)

	n, err := repo.CountInteractions(ctx, filter)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}

func TestDashboardCounts(t *testing.T) {
	repo := NewRepository(testDB(t))
	ctx := context.Background()

	active := &models.Customer{CustomerID: uuid.New(), CustomerName: "Active", SalesStage: strPtr("Negotiation")}
	quiet := &models.Customer{CustomerID: uuid.New(), CustomerName: "Quiet", SalesStage: strPtr("Lead")}
	lead := &models.Customer{CustomerID: uuid.New(), CustomerName: "Lead Two", SalesStage: strPtr("Lead")}
	require.NoError(t, repo.CreateCustomer(ctx, active))
	require.NoError(t, repo.CreateCustomer(ctx, quiet))
	require.NoError(t, repo.CreateCustomer(ctx, lead))

	for i := 0; i < 2; i++ {
		require.NoError(t, repo.CreateInteraction(ctx, &models.Interaction{
			ID:         uuid.New(),
			CustomerID: active.CustomerID,
			InputText:  strPtr("note"),
		}))
	}

	customers, err := repo.CountCustomers(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 3, customers)

	interactions, err := repo.CountInteractions(ctx, InteractionFilter{})
	require.NoError(t, err)
	require.EqualValues(t, 2, interactions)

	engaged, err := repo.CountCustomersWithInteractions(ctx, InteractionFilter{})
	require.NoError(t, err)
	require.EqualValues(t, 1, engaged)

	stages, err := repo.StageDistribution(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 2, stages["Lead"])
	require.EqualValues(t, 1, stages["Negotiation"])
}
