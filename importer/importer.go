package importer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/brunomainardes-tech/v0-contract-management-system/model"
)

// ContractInserter is the slice of the store the import pipeline needs:
// one bulk insert call plus the one-record-at-a-time fallback.
type ContractInserter interface {
	InsertBatch(ctx context.Context, contracts []model.Contract) error
	Insert(ctx context.Context, contract *model.Contract) error
}

// Mode selects how unparseable field values are handled.
type Mode string

const (
	// ModeLenient silently defaults unparseable values (0, today, Ativo)
	// and surfaces a warning. This matches the source institution's
	// import-something-over-reject policy.
	ModeLenient Mode = "lenient"
	// ModeStrict turns an unparseable value, date or status into a row
	// error.
	ModeStrict Mode = "strict"
)

// maxReportedErrors bounds the error detail in a result regardless of
// batch size.
const maxReportedErrors = 5

// Options configures an Importer.
type Options struct {
	Mode Mode
	// Now supplies the clock used for date defaults and generated
	// contract-number placeholders. Defaults to time.Now.
	Now func() time.Time
}

// Importer runs the CSV ingestion pipeline against a contract store.
type Importer struct {
	store ContractInserter
	mode  Mode
	now   func() time.Time
}

func New(store ContractInserter, opts Options) *Importer {
	mode := opts.Mode
	if mode == "" {
		mode = ModeLenient
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Importer{store: store, mode: mode, now: now}
}

// Result is the only value an import returns; every failure mode of the
// pipeline lands here, nothing is propagated as an error.
type Result struct {
	Success  bool     `json:"success"`
	Message  string   `json:"message"`
	Imported int      `json:"imported,omitempty"`
	Errors   string   `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// Import runs the full pipeline on raw CSV text: shape checks, tokenize,
// classify the header on line 3 (lines 1-2 are spreadsheet metadata),
// materialize rows 4+, then commit. Commit tries one bulk insert and on
// failure retries each record individually, accumulating errors in
// source-row order.
func (imp *Importer) Import(ctx context.Context, csvText string) Result {
	trimmed := strings.TrimSpace(csvText)
	if strings.HasPrefix(trimmed, "<!DOCTYPE") || strings.HasPrefix(trimmed, "<html") {
		return Result{
			Success: false,
			Message: "O link fornecido retornou uma página HTML ao invés de CSV. Para Google Sheets, use: Arquivo → Compartilhar → Publicar na web → selecione 'Valores separados por vírgula (.csv)' e copie o link gerado.",
		}
	}

	rows := Tokenize(csvText)
	if len(rows) < 4 {
		return Result{
			Success: false,
			Message: "Arquivo CSV inválido (precisa ter pelo menos 4 linhas: 2 linhas de metadados + cabeçalho + linha de dados)",
		}
	}

	headers := rows[2]
	if !hasValidHeaders(headers) {
		return Result{
			Success: false,
			Message: "Cabeçalhos do CSV estão vazios ou inválidos. Verifique se a terceira linha contém os nomes das colunas (CATEGORIA, Nº GMS, Nº CONTRATO UENP, MODALIDADE, OBJETO, CONTRATADA, VALOR, INÍCIO DA VIGÊNCIA, FIM DA VIGÊNCIA, STATUS, etc.)",
		}
	}

	mapping := ClassifyHeader(headers)
	now := imp.now()

	var contracts []model.Contract
	var rowErrors []string
	var warnings []string

	for i := 3; i < len(rows); i++ {
		if isSkippableRow(rows[i]) {
			continue
		}
		contract, rowWarnings, err := materializeRow(rows[i], mapping, i, now, imp.mode == ModeStrict)
		if err != nil {
			rowErrors = append(rowErrors, err.Error())
			continue
		}
		warnings = append(warnings, rowWarnings...)
		contracts = append(contracts, contract)
	}

	if len(contracts) == 0 {
		return Result{
			Success:  false,
			Message:  "Nenhum contrato válido encontrado no arquivo",
			Errors:   capErrors(rowErrors),
			Warnings: warnings,
		}
	}

	if err := imp.store.InsertBatch(ctx, contracts); err == nil {
		return Result{
			Success:  true,
			Message:  "Contratos importados com sucesso!",
			Imported: len(contracts),
			Errors:   capErrors(rowErrors),
			Warnings: warnings,
		}
	}

	// The bulk insert is not uniformly recoverable; retry one by one so a
	// single bad record cannot sink the whole batch.
	imported := 0
	insertErrors := make([]string, 0)
	for i := range contracts {
		if err := imp.store.Insert(ctx, &contracts[i]); err != nil {
			insertErrors = append(insertErrors, fmt.Sprintf("Contrato %s: %s", contracts[i].ContractNumber, err.Error()))
		} else {
			imported++
		}
	}

	if len(insertErrors) > 0 {
		return Result{
			Success:  imported > 0,
			Message:  fmt.Sprintf("%d contratos importados. %d erros encontrados.", imported, len(insertErrors)),
			Imported: imported,
			Errors:   capErrors(append(rowErrors, insertErrors...)),
			Warnings: warnings,
		}
	}

	return Result{
		Success:  true,
		Message:  "Contratos importados com sucesso!",
		Imported: imported,
		Errors:   capErrors(rowErrors),
		Warnings: warnings,
	}
}

// hasValidHeaders reports whether the header row has at least one usable
// label. "#REF!" is what broken spreadsheet references export as.
func hasValidHeaders(headers []string) bool {
	for _, h := range headers {
		if h != "" && strings.TrimSpace(h) != "" && h != "#REF!" {
			return true
		}
	}
	return false
}

// capErrors joins at most maxReportedErrors entries, marking truncation
// with an ellipsis.
func capErrors(errs []string) string {
	if len(errs) == 0 {
		return ""
	}
	if len(errs) > maxReportedErrors {
		return strings.Join(errs[:maxReportedErrors], "; ") + "..."
	}
	return strings.Join(errs, "; ")
}
