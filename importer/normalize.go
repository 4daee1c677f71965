package importer

import (
	"time"
)

// ParseValue parses a currency amount that may use either Brazilian
// ("R$ 15.660,00") or plain ("1,234.56") separator conventions. The
// separator appearing last is taken as the decimal separator; the other
// kind is stripped as grouping. Unparseable or empty input yields 0.
func ParseValue(raw string) float64 {
	v, _ := parseValueChecked(raw)
	return v
}

// genericDateLayouts are tried in order when the input is not in the
// slash-separated day/month/year form.
var genericDateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"02-01-2006",
	"Jan 2, 2006",
}

// FormatDate converts a source date to YYYY-MM-DD. Input in DD/MM/YYYY
// form is reassembled positionally; anything else goes through generic
// layout parsing. Unparseable input falls back to now's date.
func FormatDate(raw string, now time.Time) string {
	s, _ := formatDateChecked(raw, now)
	return s
}

func pad2(s string) string {
	if len(s) < 2 {
		return "0" + s
	}
	return s
}

// statusSynonyms maps lowercased source statuses, including English
// equivalents and accentless spellings, to the canonical vocabulary.
var statusSynonyms = map[string]string{
	"ativo":      "Ativo",
	"active":     "Ativo",
	"concluido":  "Concluído",
	"concluído":  "Concluído",
	"completed":  "Concluído",
	"finalizado": "Concluído",
	"cancelado":  "Cancelado",
	"cancelled":  "Cancelado",
	"canceled":   "Cancelado",
	"em analise": "Em Análise",
	"em análise": "Em Análise",
	"analysis":   "Em Análise",
	"suspenso":   "Suspenso",
	"suspended":  "Suspenso",
	"renovado":   "Renovado",
	"renewed":    "Renovado",
	"vencido":    "Vencido",
	"expired":    "Vencido",
}

// NormalizeStatus maps free-text status to the fixed vocabulary,
// defaulting to "Ativo" for empty or unrecognized input.
func NormalizeStatus(raw string) string {
	s, _ := normalizeStatusChecked(raw)
	return s
}
