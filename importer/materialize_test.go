package importer

import (
	"strings"
	"testing"
	"time"
)

var testNow = time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

func standardMapping() ColumnMapping {
	return ClassifyHeader([]string{
		"Categoria", "Nº GMS", "Nº Contrato UENP", "Modalidade", "Objeto",
		"Contratada", "Valor", "Início da Vigência", "Fim da Vigência", "Status",
	})
}

func TestMaterializeRowFullRecord(t *testing.T) {
	row := []string{
		"LOCAÇÃO", "650/2024", "068/2023", "INEX", "Locação de imóvel",
		"EMPRESA XYZ", "R$ 15.660,00", "27/10/2023", "30/10/2025", "ATIVO",
	}

	contract, warnings, err := materializeRow(row, standardMapping(), 3, testNow, false)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("Unexpected warnings: %v", warnings)
	}

	if contract.ContractNumber != "068/2023" {
		t.Errorf("Expected contract number 068/2023, got %s", contract.ContractNumber)
	}
	if contract.Description != "Locação de imóvel" {
		t.Errorf("Expected object as description, got %s", contract.Description)
	}
	if contract.Contractor != "EMPRESA XYZ" {
		t.Errorf("Expected contractor EMPRESA XYZ, got %s", contract.Contractor)
	}
	if contract.Value != 15660.00 {
		t.Errorf("Expected value 15660, got %v", contract.Value)
	}
	if contract.StartDate != "2023-10-27" || contract.EndDate != "2025-10-30" {
		t.Errorf("Unexpected dates: %s / %s", contract.StartDate, contract.EndDate)
	}
	if contract.Status != "Ativo" {
		t.Errorf("Expected status Ativo, got %s", contract.Status)
	}
	if contract.Category != "LOCAÇÃO" || contract.GMSNumber != "650/2024" || contract.Modality != "INEX" {
		t.Errorf("Unexpected optional fields: %s / %s / %s", contract.Category, contract.GMSNumber, contract.Modality)
	}
}

func TestMaterializeRowDefaults(t *testing.T) {
	// Only a value column mapped; everything else synthesized.
	mapping := ColumnMapping{FieldValue: 0}
	contract, _, err := materializeRow([]string{"100", "x", "y"}, mapping, 7, testNow, false)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !strings.HasPrefix(contract.ContractNumber, "IMPORT-") || !strings.HasSuffix(contract.ContractNumber, "-7") {
		t.Errorf("Expected generated placeholder number, got %s", contract.ContractNumber)
	}
	if contract.Description != "Sem descrição" {
		t.Errorf("Expected default description, got %s", contract.Description)
	}
	if contract.Contractor != "Não informado" {
		t.Errorf("Expected default contractor, got %s", contract.Contractor)
	}
	if contract.StartDate != "2024-06-15" || contract.EndDate != "2024-06-15" {
		t.Errorf("Expected dates defaulted to today, got %s / %s", contract.StartDate, contract.EndDate)
	}
	if contract.Status != "Ativo" {
		t.Errorf("Expected default status Ativo, got %s", contract.Status)
	}
}

func TestMaterializeRowTruncation(t *testing.T) {
	long := strings.Repeat("x", 2000)
	mapping := ColumnMapping{
		FieldContractNumber: 0,
		FieldObject:         1,
		FieldContractor:     2,
	}

	contract, _, err := materializeRow([]string{long, long, long}, mapping, 3, testNow, false)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(contract.ContractNumber) != 200 {
		t.Errorf("Expected contract number capped at 200, got %d", len(contract.ContractNumber))
	}
	if len(contract.Description) != 1000 {
		t.Errorf("Expected description capped at 1000, got %d", len(contract.Description))
	}
	if len(contract.Contractor) != 500 {
		t.Errorf("Expected contractor capped at 500, got %d", len(contract.Contractor))
	}
}

func TestMaterializeRowLenientWarnings(t *testing.T) {
	mapping := ColumnMapping{FieldValue: 0, FieldStartDate: 1, FieldStatus: 2}
	contract, warnings, err := materializeRow([]string{"not-a-number", "not-a-date", "weird"}, mapping, 3, testNow, false)
	if err != nil {
		t.Fatalf("Unexpected error in lenient mode: %v", err)
	}

	if contract.Value != 0 {
		t.Errorf("Expected defaulted value 0, got %v", contract.Value)
	}
	if contract.StartDate != "2024-06-15" {
		t.Errorf("Expected defaulted start date, got %s", contract.StartDate)
	}
	if contract.Status != "Ativo" {
		t.Errorf("Expected defaulted status, got %s", contract.Status)
	}
	if len(warnings) != 3 {
		t.Errorf("Expected 3 warnings, got %v", warnings)
	}
}

func TestMaterializeRowStrictErrors(t *testing.T) {
	tests := []struct {
		name    string
		mapping ColumnMapping
		row     []string
		wantMsg string
	}{
		{"bad value", ColumnMapping{FieldValue: 0}, []string{"abc", "x", "y"}, "valor"},
		{"bad date", ColumnMapping{FieldStartDate: 0}, []string{"soon", "x", "y"}, "data"},
		{"bad status", ColumnMapping{FieldStatus: 0}, []string{"???", "x", "y"}, "status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := materializeRow(tt.row, tt.mapping, 4, testNow, true)
			if err == nil {
				t.Fatal("Expected error in strict mode")
			}
			if !strings.Contains(err.Error(), "Linha 5") {
				t.Errorf("Expected 1-based line reference, got %q", err.Error())
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Expected %q in error, got %q", tt.wantMsg, err.Error())
			}
		})
	}
}

func TestIsSkippableRow(t *testing.T) {
	tests := []struct {
		row  []string
		want bool
	}{
		{[]string{"a", "b"}, true},
		{[]string{"", "", ""}, true},
		{[]string{"  ", "", " "}, true},
		{[]string{"a", "b", "c"}, false},
	}

	for _, tt := range tests {
		if got := isSkippableRow(tt.row); got != tt.want {
			t.Errorf("isSkippableRow(%v) = %v, want %v", tt.row, got, tt.want)
		}
	}
}
