package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/brunomainardes-tech/v0-contract-management-system/config"
	"github.com/brunomainardes-tech/v0-contract-management-system/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const contractsDDL = `
CREATE TABLE IF NOT EXISTS contracts (
	id                    uuid PRIMARY KEY DEFAULT gen_random_uuid(),
	contract_number       varchar(200)  NOT NULL,
	description           varchar(1000) NOT NULL,
	contractor            varchar(500)  NOT NULL,
	value                 numeric       NOT NULL DEFAULT 0,
	start_date            date          NOT NULL,
	end_date              date          NOT NULL,
	status                varchar(50)   NOT NULL,
	category              varchar(200),
	gms_number            varchar(200),
	modality              varchar(200),
	process_number        varchar(200),
	observations          text,
	manager_name          varchar(500),
	manager_contact       varchar(500),
	manager_appointment   varchar(500),
	inspector_name        varchar(500),
	inspector_contact     varchar(500),
	inspector_appointment varchar(500),
	extension_forecast    date,
	created_at            timestamptz NOT NULL DEFAULT now(),
	updated_at            timestamptz NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS contracts_status_idx ON contracts (status);
CREATE INDEX IF NOT EXISTS contracts_end_date_idx ON contracts (end_date);
`

var contractColumns = []string{
	"contract_number", "description", "contractor", "value",
	"start_date", "end_date", "status",
	"category", "gms_number", "modality", "process_number", "observations",
	"manager_name", "manager_contact", "manager_appointment",
	"inspector_name", "inspector_contact", "inspector_appointment",
	"extension_forecast",
}

const selectColumns = `id, contract_number, description, contractor, value,
	to_char(start_date, 'YYYY-MM-DD'), to_char(end_date, 'YYYY-MM-DD'), status,
	coalesce(category, ''), coalesce(gms_number, ''), coalesce(modality, ''),
	coalesce(process_number, ''), coalesce(observations, ''),
	coalesce(manager_name, ''), coalesce(manager_contact, ''), coalesce(manager_appointment, ''),
	coalesce(inspector_name, ''), coalesce(inspector_contact, ''), coalesce(inspector_appointment, ''),
	coalesce(to_char(extension_forecast, 'YYYY-MM-DD'), ''), created_at, updated_at`

// PostgresStore is the ContractStore backed by Postgres through pgx.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to the database and applies the contracts
// schema.
func NewPostgresStore(ctx context.Context, cfg *config.DatabaseConfig) (*PostgresStore, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database url: %w", err)
	}
	poolCfg.MaxConns = int32(cfg.MaxConns)

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, contractsDDL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// rowValues orders a contract's fields like contractColumns, mapping
// empty optionals to NULL so the schema's caps and coalesces line up.
func rowValues(c *model.Contract) ([]any, error) {
	startDate, err := time.Parse("2006-01-02", c.StartDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start date %q: %w", c.StartDate, err)
	}
	endDate, err := time.Parse("2006-01-02", c.EndDate)
	if err != nil {
		return nil, fmt.Errorf("invalid end date %q: %w", c.EndDate, err)
	}

	var extension any
	if c.ExtensionForecast != "" {
		t, err := time.Parse("2006-01-02", c.ExtensionForecast)
		if err != nil {
			return nil, fmt.Errorf("invalid extension forecast %q: %w", c.ExtensionForecast, err)
		}
		extension = t
	}

	return []any{
		c.ContractNumber, c.Description, c.Contractor, c.Value,
		startDate, endDate, c.Status,
		nullable(c.Category), nullable(c.GMSNumber), nullable(c.Modality),
		nullable(c.ProcessNumber), nullable(c.Observations),
		nullable(c.ManagerName), nullable(c.ManagerContact), nullable(c.ManagerAppointment),
		nullable(c.InspectorName), nullable(c.InspectorContact), nullable(c.InspectorAppointment),
		extension,
	}, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func (s *PostgresStore) Insert(ctx context.Context, contract *model.Contract) error {
	values, err := rowValues(contract)
	if err != nil {
		return err
	}

	placeholders := make([]string, len(contractColumns))
	for i := range placeholders {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	query := fmt.Sprintf(
		"INSERT INTO contracts (%s) VALUES (%s) RETURNING id, created_at, updated_at",
		strings.Join(contractColumns, ", "), strings.Join(placeholders, ", "),
	)

	row := s.pool.QueryRow(ctx, query, values...)
	if err := row.Scan(&contract.ID, &contract.CreatedAt, &contract.UpdatedAt); err != nil {
		return fmt.Errorf("failed to insert contract: %w", err)
	}
	return nil
}

// InsertBatch inserts all records in a single COPY. The copy is atomic:
// one bad record fails the whole call, which is what lets the import
// pipeline fall back to record-by-record inserts.
func (s *PostgresStore) InsertBatch(ctx context.Context, contracts []model.Contract) error {
	rows := make([][]any, 0, len(contracts))
	for i := range contracts {
		values, err := rowValues(&contracts[i])
		if err != nil {
			return err
		}
		rows = append(rows, values)
	}

	_, err := s.pool.CopyFrom(ctx, pgx.Identifier{"contracts"}, contractColumns, pgx.CopyFromRows(rows))
	if err != nil {
		return fmt.Errorf("bulk insert failed: %w", err)
	}
	return nil
}

func scanContract(row pgx.Row) (*model.Contract, error) {
	var c model.Contract
	err := row.Scan(
		&c.ID, &c.ContractNumber, &c.Description, &c.Contractor, &c.Value,
		&c.StartDate, &c.EndDate, &c.Status,
		&c.Category, &c.GMSNumber, &c.Modality, &c.ProcessNumber, &c.Observations,
		&c.ManagerName, &c.ManagerContact, &c.ManagerAppointment,
		&c.InspectorName, &c.InspectorContact, &c.InspectorAppointment,
		&c.ExtensionForecast, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*model.Contract, error) {
	row := s.pool.QueryRow(ctx, "SELECT "+selectColumns+" FROM contracts WHERE id = $1", id)
	c, err := scanContract(row)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contract: %w", err)
	}
	return c, nil
}

func (s *PostgresStore) List(ctx context.Context, filter ListFilter) ([]*model.Contract, error) {
	query := "SELECT " + selectColumns + " FROM contracts"
	var conditions []string
	var args []any

	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf(
			"(contract_number ILIKE $%d OR description ILIKE $%d OR contractor ILIKE $%d)", n, n, n))
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC, contract_number"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list contracts: %w", err)
	}
	defer rows.Close()

	result := make([]*model.Contract, 0)
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contract: %w", err)
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func (s *PostgresStore) Update(ctx context.Context, contract *model.Contract) error {
	values, err := rowValues(contract)
	if err != nil {
		return err
	}

	assignments := make([]string, len(contractColumns))
	for i, col := range contractColumns {
		assignments[i] = fmt.Sprintf("%s = $%d", col, i+1)
	}
	query := fmt.Sprintf(
		"UPDATE contracts SET %s, updated_at = now() WHERE id = $%d",
		strings.Join(assignments, ", "), len(contractColumns)+1,
	)

	tag, err := s.pool.Exec(ctx, query, append(values, contract.ID)...)
	if err != nil {
		return fmt.Errorf("failed to update contract: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM contracts WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete contract: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteAll(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, "DELETE FROM contracts"); err != nil {
		return fmt.Errorf("failed to clear contracts: %w", err)
	}
	return nil
}

func (s *PostgresStore) Stats(ctx context.Context) (*model.DashboardStats, error) {
	var stats model.DashboardStats
	err := s.pool.QueryRow(ctx, `
		SELECT count(*),
		       coalesce(sum(value), 0),
		       count(*) FILTER (WHERE status = $1),
		       count(*) FILTER (WHERE status = $2)
		FROM contracts`, model.StatusActive, model.StatusCompleted,
	).Scan(&stats.TotalContracts, &stats.TotalValue, &stats.ActiveContracts, &stats.CompletedContracts)
	if err != nil {
		return nil, fmt.Errorf("failed to compute stats: %w", err)
	}
	return &stats, nil
}

func (s *PostgresStore) ExpiringWithin(ctx context.Context, days int) ([]*model.Contract, error) {
	rows, err := s.pool.Query(ctx, "SELECT "+selectColumns+` FROM contracts
		WHERE status = $1 AND end_date > current_date AND end_date <= current_date + $2
		ORDER BY end_date`, model.StatusActive, days)
	if err != nil {
		return nil, fmt.Errorf("failed to list expiring contracts: %w", err)
	}
	defer rows.Close()

	result := make([]*model.Contract, 0)
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contract: %w", err)
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}
