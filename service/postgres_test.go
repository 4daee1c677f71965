package service

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/brunomainardes-tech/v0-contract-management-system/config"
	"github.com/brunomainardes-tech/v0-contract-management-system/model"
)

// newTestPostgresStore connects to the database named by
// TEST_DATABASE_URL, skipping the test when it is unset.
func newTestPostgresStore(t *testing.T) *PostgresStore {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	store, err := NewPostgresStore(context.Background(), &config.DatabaseConfig{URL: url, MaxConns: 2})
	if err != nil {
		t.Fatalf("NewPostgresStore failed: %v", err)
	}
	t.Cleanup(func() {
		store.DeleteAll(context.Background())
		store.Close()
	})

	if err := store.DeleteAll(context.Background()); err != nil {
		t.Fatalf("Failed to reset contracts table: %v", err)
	}
	return store
}

func TestPostgresStoreRoundTrip(t *testing.T) {
	store := newTestPostgresStore(t)
	ctx := context.Background()

	contract := &model.Contract{
		ContractNumber: "001/2024",
		Description:    "Limpeza predial",
		Contractor:     "Alfa Ltda",
		Value:          15660.50,
		StartDate:      "2024-01-01",
		EndDate:        "2024-12-31",
		Status:         model.StatusActive,
		Category:       "Serviços",
		ManagerName:    "Maria Souza",
	}

	if err := store.Insert(ctx, contract); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if contract.ID == "" {
		t.Fatal("Expected Insert to return the generated ID")
	}

	got, err := store.Get(ctx, contract.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.ContractNumber != "001/2024" || got.Value != 15660.50 {
		t.Errorf("Round trip mismatch: %+v", got)
	}
	if got.StartDate != "2024-01-01" || got.EndDate != "2024-12-31" {
		t.Errorf("Expected dates preserved, got %s / %s", got.StartDate, got.EndDate)
	}
	if got.ManagerName != "Maria Souza" {
		t.Errorf("Expected manager name preserved, got %q", got.ManagerName)
	}
	// Empty optionals survive the NULL round trip as empty strings
	if got.Observations != "" || got.ExtensionForecast != "" {
		t.Errorf("Expected empty optionals, got %q / %q", got.Observations, got.ExtensionForecast)
	}
}

func TestPostgresStoreInsertBatchAndStats(t *testing.T) {
	store := newTestPostgresStore(t)
	ctx := context.Background()

	contracts := []model.Contract{
		{ContractNumber: "010/2024", Description: "A", Contractor: "X", Value: 100,
			StartDate: "2024-01-01", EndDate: "2024-06-30", Status: model.StatusActive},
		{ContractNumber: "011/2024", Description: "B", Contractor: "Y", Value: 200,
			StartDate: "2024-01-01", EndDate: "2024-06-30", Status: model.StatusCompleted},
	}
	if err := store.InsertBatch(ctx, contracts); err != nil {
		t.Fatalf("InsertBatch failed: %v", err)
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.TotalContracts != 2 || stats.TotalValue != 300 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
	if stats.ActiveContracts != 1 || stats.CompletedContracts != 1 {
		t.Errorf("Unexpected status counts: %+v", stats)
	}
}

func TestPostgresStoreListFilters(t *testing.T) {
	store := newTestPostgresStore(t)
	ctx := context.Background()

	seed := []model.Contract{
		{ContractNumber: "001/2024", Description: "Vigilância armada", Contractor: "Gama",
			StartDate: "2024-01-01", EndDate: "2024-12-31", Status: model.StatusActive, Category: "Serviços"},
		{ContractNumber: "002/2024", Description: "Reforma do bloco B", Contractor: "Beta",
			StartDate: "2024-01-01", EndDate: "2024-12-31", Status: model.StatusCompleted, Category: "Obras"},
	}
	if err := store.InsertBatch(ctx, seed); err != nil {
		t.Fatalf("InsertBatch failed: %v", err)
	}

	active, err := store.List(ctx, ListFilter{Status: model.StatusActive})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(active) != 1 || active[0].ContractNumber != "001/2024" {
		t.Errorf("Expected only 001/2024 active, got %v", active)
	}

	// ILIKE search is case-insensitive
	found, err := store.List(ctx, ListFilter{Search: "VIGIL"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(found) != 1 {
		t.Errorf("Expected 1 search hit, got %d", len(found))
	}
}

func TestPostgresStoreUpdateDelete(t *testing.T) {
	store := newTestPostgresStore(t)
	ctx := context.Background()

	contract := &model.Contract{
		ContractNumber: "005/2024", Description: "D", Contractor: "Z",
		StartDate: "2024-01-01", EndDate: "2024-12-31", Status: model.StatusActive,
	}
	if err := store.Insert(ctx, contract); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	contract.Status = model.StatusCancelled
	if err := store.Update(ctx, contract); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	got, _ := store.Get(ctx, contract.ID)
	if got.Status != model.StatusCancelled {
		t.Errorf("Expected status %s, got %s", model.StatusCancelled, got.Status)
	}

	if err := store.Delete(ctx, contract.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Get(ctx, contract.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
	if err := store.Delete(ctx, contract.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound on second delete, got %v", err)
	}
}

func TestPostgresStoreExpiringWithin(t *testing.T) {
	store := newTestPostgresStore(t)
	ctx := context.Background()

	date := func(days int) string {
		return time.Now().UTC().AddDate(0, 0, days).Format("2006-01-02")
	}

	seed := []model.Contract{
		{ContractNumber: "soon", Description: "A", Contractor: "X",
			StartDate: "2024-01-01", EndDate: date(10), Status: model.StatusActive},
		{ContractNumber: "far", Description: "B", Contractor: "Y",
			StartDate: "2024-01-01", EndDate: date(300), Status: model.StatusActive},
		{ContractNumber: "expired", Description: "C", Contractor: "Z",
			StartDate: "2024-01-01", EndDate: date(-3), Status: model.StatusActive},
	}
	if err := store.InsertBatch(ctx, seed); err != nil {
		t.Fatalf("InsertBatch failed: %v", err)
	}

	expiring, err := store.ExpiringWithin(ctx, 90)
	if err != nil {
		t.Fatalf("ExpiringWithin failed: %v", err)
	}
	if len(expiring) != 1 || expiring[0].ContractNumber != "soon" {
		t.Errorf("Expected only 'soon' to be expiring, got %v", expiring)
	}
}
