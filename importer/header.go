package importer

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Field is a logical contract attribute the classifier locates in the
// header row.
type Field string

const (
	FieldContractNumber       Field = "contract_number"
	FieldDescription          Field = "description"
	FieldObject               Field = "object"
	FieldContractor           Field = "contractor"
	FieldValue                Field = "value"
	FieldStartDate            Field = "start_date"
	FieldEndDate              Field = "end_date"
	FieldStatus               Field = "status"
	FieldCategory             Field = "category"
	FieldGMSNumber            Field = "gms_number"
	FieldModality             Field = "modality"
	FieldProcessNumber        Field = "process_number"
	FieldManagerName          Field = "manager_name"
	FieldManagerContact       Field = "manager_contact"
	FieldManagerAppointment   Field = "manager_appointment"
	FieldInspectorName        Field = "inspector_name"
	FieldInspectorContact     Field = "inspector_contact"
	FieldInspectorAppointment Field = "inspector_appointment"
)

// ColumnMapping maps logical fields to zero-based column indices. A field
// absent from the map is unmapped; there is no sentinel index.
type ColumnMapping map[Field]int

// Index returns the column index for a field and whether it was resolved.
func (m ColumnMapping) Index(f Field) (int, bool) {
	i, ok := m[f]
	return i, ok
}

var accentFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// normalizeHeader lowercases, trims and strips combining accent marks, so
// "Início da Vigência" and "INICIO DA VIGENCIA" normalize identically.
// Ordinal signs (º, °) survive folding and are listed per-variant in the
// rule table.
func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	folded, _, err := transform.String(accentFolder, h)
	if err != nil {
		return h
	}
	return folded
}

// headerRule matches a normalized header exactly. Rule order encodes
// precedence: the first matching rule claims the header.
type headerRule struct {
	field  Field
	labels []string
}

var exactRules = []headerRule{
	{FieldCategory, []string{"categoria"}},
	{FieldGMSNumber, []string{"nº gms", "n° gms"}},
	{FieldContractNumber, []string{"nº contrato uenp", "n° contrato uenp"}},
	{FieldModality, []string{"modalidade"}},
	{FieldObject, []string{"objeto"}},
	{FieldContractor, []string{"contratada"}},
	{FieldValue, []string{"valor"}},
	{FieldStartDate, []string{"inicio da vigencia"}},
	{FieldEndDate, []string{"fim da vigencia"}},
	{FieldStatus, []string{"status"}},
	{FieldProcessNumber, []string{"processo"}},
	{FieldManagerName, []string{"gestor do contrato"}},
	{FieldInspectorName, []string{"fiscal do contrato"}},
}

// substringField applies the looser heuristics used when no exact rule
// matched the header.
func substringField(normalized string) (Field, bool) {
	switch {
	case strings.Contains(normalized, "contrato") && strings.Contains(normalized, "n"):
		return FieldContractNumber, true
	case strings.Contains(normalized, "descricao"):
		return FieldDescription, true
	case strings.Contains(normalized, "empresa"), strings.Contains(normalized, "fornecedor"):
		return FieldContractor, true
	}
	return "", false
}

// ClassifyHeader resolves the column mapping for a header row.
//
// Pass 1 walks the headers against the ordered exact-rule table, falling
// through to substring heuristics. Pass 2 resolves the generic "Contato"
// and "Nomeação" labels, which legitimately appear twice: the first
// occurrence after the manager-name column belongs to the manager block,
// a later occurrence after the inspector-name column to the inspector
// block. With no manager-name column the label falls to the inspector.
// Classification never fails; unmatched fields stay unmapped.
func ClassifyHeader(headers []string) ColumnMapping {
	mapping := make(ColumnMapping)

	for idx, h := range headers {
		normalized := normalizeHeader(h)

		matched := false
		for _, rule := range exactRules {
			for _, label := range rule.labels {
				if normalized == label {
					mapping[rule.field] = idx
					matched = true
					break
				}
			}
			if matched {
				break
			}
		}
		if matched {
			continue
		}
		if f, ok := substringField(normalized); ok {
			mapping[f] = idx
		}
	}

	resolveDuplicate(headers, mapping, "contato", FieldManagerContact, FieldInspectorContact)
	resolveDuplicate(headers, mapping, "nomeacao", FieldManagerAppointment, FieldInspectorAppointment)

	return mapping
}

// resolveDuplicate positionally assigns a repeated generic label to the
// manager and inspector variants of a field.
func resolveDuplicate(headers []string, mapping ColumnMapping, label string, managerField, inspectorField Field) {
	managerName, hasManager := mapping.Index(FieldManagerName)
	inspectorName, hasInspector := mapping.Index(FieldInspectorName)

	managerFound := false
	for idx, h := range headers {
		if normalizeHeader(h) != label {
			continue
		}
		if hasManager && idx > managerName && !managerFound {
			mapping[managerField] = idx
			managerFound = true
		} else if hasInspector && idx > inspectorName {
			mapping[inspectorField] = idx
		}
	}
}
