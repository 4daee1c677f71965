package importer

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/brunomainardes-tech/v0-contract-management-system/model"
)

// Storage length caps by semantic role.
const (
	maxShortField  = 200  // numbers, categories, modalities
	maxMediumField = 500  // names, contacts, contractors
	maxLongField   = 1000 // descriptions
)

// fieldValue pulls the raw value for a logical field, empty when the
// field is unmapped or the row is short.
func fieldValue(values []string, mapping ColumnMapping, f Field) string {
	idx, ok := mapping.Index(f)
	if !ok || idx < 0 || idx >= len(values) {
		return ""
	}
	return values[idx]
}

// truncate caps a string at n runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// isSkippableRow reports whether a data row should be silently skipped:
// too few fields to be a contract, or entirely blank.
func isSkippableRow(values []string) bool {
	if len(values) < 3 {
		return true
	}
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// materializeRow assembles one contract record from a data row. rowIdx is
// the zero-based index of the row in the tokenized CSV; error messages
// reference the 1-based source line. In strict mode an unparseable value,
// date or status fails the row; in lenient mode it is defaulted and a
// warning recorded. A panic inside assembly is converted into a row error
// so one bad row never aborts the import.
func materializeRow(values []string, mapping ColumnMapping, rowIdx int, now time.Time, strict bool) (contract model.Contract, warnings []string, err error) {
	line := rowIdx + 1

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("Linha %d: %v", line, r)
		}
	}()

	warn := func(field, fallback string) {
		warnings = append(warnings, fmt.Sprintf("Linha %d: campo %q ilegível, assumido %s", line, field, fallback))
	}

	number := fieldValue(values, mapping, FieldContractNumber)
	if number == "" {
		number = fmt.Sprintf("IMPORT-%d-%d", now.UnixMilli(), rowIdx)
	}

	description := fieldValue(values, mapping, FieldDescription)
	if description == "" {
		description = fieldValue(values, mapping, FieldObject)
	}
	if description == "" {
		description = "Sem descrição"
	}

	contractor := fieldValue(values, mapping, FieldContractor)
	if contractor == "" {
		contractor = "Não informado"
	}

	rawValue := fieldValue(values, mapping, FieldValue)
	value, valueOK := parseValueChecked(rawValue)
	if !valueOK {
		if strict {
			return contract, nil, fmt.Errorf("Linha %d: valor %q não é um número válido", line, rawValue)
		}
		warn("valor", "0")
	}

	rawStart := fieldValue(values, mapping, FieldStartDate)
	startDate, startOK := formatDateChecked(rawStart, now)
	rawEnd := fieldValue(values, mapping, FieldEndDate)
	endDate, endOK := formatDateChecked(rawEnd, now)
	if !startOK || !endOK {
		bad := rawStart
		if startOK {
			bad = rawEnd
		}
		if strict {
			return contract, nil, fmt.Errorf("Linha %d: data %q não reconhecida", line, bad)
		}
		warn("vigência", "data atual")
	}

	rawStatus := fieldValue(values, mapping, FieldStatus)
	status, statusOK := normalizeStatusChecked(rawStatus)
	if !statusOK {
		if strict {
			return contract, nil, fmt.Errorf("Linha %d: status %q não reconhecido", line, rawStatus)
		}
		warn("status", model.StatusActive)
	}

	contract = model.Contract{
		ContractNumber: truncate(number, maxShortField),
		Description:    truncate(description, maxLongField),
		Contractor:     truncate(contractor, maxMediumField),
		Value:          value,
		StartDate:      startDate,
		EndDate:        endDate,
		Status:         status,

		Category:      truncate(fieldValue(values, mapping, FieldCategory), maxShortField),
		GMSNumber:     truncate(fieldValue(values, mapping, FieldGMSNumber), maxShortField),
		Modality:      truncate(fieldValue(values, mapping, FieldModality), maxShortField),
		ProcessNumber: truncate(fieldValue(values, mapping, FieldProcessNumber), maxShortField),

		ManagerName:          truncate(fieldValue(values, mapping, FieldManagerName), maxMediumField),
		ManagerContact:       truncate(fieldValue(values, mapping, FieldManagerContact), maxMediumField),
		ManagerAppointment:   truncate(fieldValue(values, mapping, FieldManagerAppointment), maxMediumField),
		InspectorName:        truncate(fieldValue(values, mapping, FieldInspectorName), maxMediumField),
		InspectorContact:     truncate(fieldValue(values, mapping, FieldInspectorContact), maxMediumField),
		InspectorAppointment: truncate(fieldValue(values, mapping, FieldInspectorAppointment), maxMediumField),
	}

	return contract, warnings, nil
}

// parseValueChecked is ParseValue plus a flag telling whether non-empty
// input actually parsed, so strict mode can reject instead of defaulting.
func parseValueChecked(raw string) (float64, bool) {
	if strings.TrimSpace(raw) == "" {
		return 0, true
	}
	cleaned := strings.NewReplacer("R", "", "$", "", " ", "", "\t", "", " ", "").Replace(raw)
	if strings.LastIndex(cleaned, ",") > strings.LastIndex(cleaned, ".") {
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.Replace(cleaned, ",", ".", 1)
	} else {
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// formatDateChecked is FormatDate plus a flag telling whether non-empty
// input was recognized.
func formatDateChecked(raw string, now time.Time) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return now.Format("2006-01-02"), true
	}
	if parts := strings.Split(raw, "/"); len(parts) == 3 {
		return parts[2] + "-" + pad2(parts[1]) + "-" + pad2(parts[0]), true
	}
	for _, layout := range genericDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	return now.Format("2006-01-02"), false
}

// normalizeStatusChecked is NormalizeStatus plus a recognition flag.
func normalizeStatusChecked(raw string) (string, bool) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if normalized == "" {
		return model.StatusActive, true
	}
	if canonical, ok := statusSynonyms[normalized]; ok {
		return canonical, true
	}
	return model.StatusActive, false
}
