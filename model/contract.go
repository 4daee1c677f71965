package model

import (
	"time"
)

// Contract represents an administrative contract
type Contract struct {
	ID             string  `json:"id"`
	ContractNumber string  `json:"contract_number"`
	Description    string  `json:"description"`
	Contractor     string  `json:"contractor"`
	Value          float64 `json:"value"`
	StartDate      string  `json:"start_date"` // YYYY-MM-DD
	EndDate        string  `json:"end_date"`   // YYYY-MM-DD
	Status         string  `json:"status"`

	// Additional UENP fields
	Category      string `json:"category,omitempty"`
	GMSNumber     string `json:"gms_number,omitempty"`
	Modality      string `json:"modality,omitempty"`
	ProcessNumber string `json:"process_number,omitempty"`
	Observations  string `json:"observations,omitempty"`

	ManagerName          string `json:"manager_name,omitempty"`
	ManagerContact       string `json:"manager_contact,omitempty"`
	ManagerAppointment   string `json:"manager_appointment,omitempty"`
	InspectorName        string `json:"inspector_name,omitempty"`
	InspectorContact     string `json:"inspector_contact,omitempty"`
	InspectorAppointment string `json:"inspector_appointment,omitempty"`

	ExtensionForecast string `json:"extension_forecast,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Canonical status vocabulary
const (
	StatusActive      = "Ativo"
	StatusCompleted   = "Concluído"
	StatusCancelled   = "Cancelado"
	StatusUnderReview = "Em Análise"
	StatusSuspended   = "Suspenso"
	StatusRenewed     = "Renovado"
	StatusExpired     = "Vencido"
)

// DashboardStats aggregates contract counts and totals for the dashboard
type DashboardStats struct {
	TotalContracts     int     `json:"total_contracts"`
	TotalValue         float64 `json:"total_value"`
	ActiveContracts    int     `json:"active_contracts"`
	CompletedContracts int     `json:"completed_contracts"`
}

// DaysUntilExpiration returns the number of whole days between now and the
// contract's end date. Negative when already expired, 0 when the end date
// cannot be parsed.
func (c *Contract) DaysUntilExpiration(now time.Time) int {
	end, err := time.Parse("2006-01-02", c.EndDate)
	if err != nil {
		return 0
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return int(end.Sub(today).Hours() / 24)
}
