package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/vfg2006/marketplace-report-api/infrastructure/database/postgres"
	"github.com/vfg2006/marketplace-report-api/internal/domain"
)

const (
	reportRunsTable = "report_runs rr"
)

type ReportRunRepository interface {
	Save(run *domain.ReportRun) error
	GetByID(id string) (*domain.ReportRun, error)
	List(limit int) ([]*domain.ReportRun, error)
}

type reportRunRepository struct {
	conn *postgres.Connection
}

func NewReportRunRepository(conn *postgres.Connection) ReportRunRepository {
	return &reportRunRepository{
		conn: conn,
	}
}

func (r *reportRunRepository) Save(run *domain.ReportRun) error {
	var bundleJSON []byte
	var err error

	if run.Bundle != nil {
		bundleJSON, err = json.Marshal(run.Bundle)
		if err != nil {
			return fmt.Errorf("failed to serialize report bundle: %w", err)
		}
	}

	query := squirrel.StatementBuilder.
		Insert("report_runs").
		Columns("id", "external_id", "brand", "period_start", "period_end", "detailed", "bundle", "report_path").
		Values(
			run.ID,
			run.ExternalID,
			run.Brand,
			run.PeriodStart.Format("2006-01-02"),
			run.PeriodEnd.Format("2006-01-02"),
			run.Detailed,
			bundleJSON,
			run.ReportPath,
		).
		Suffix(`
			ON CONFLICT (id) DO UPDATE SET
				bundle = EXCLUDED.bundle,
				report_path = EXCLUDED.report_path,
				updated_at = NOW()
		`).
		PlaceholderFormat(squirrel.Dollar)

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build the query: %w", err)
	}

	_, err = r.conn.Exec(sqlQuery, args...)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return fmt.Errorf("database error: %w (code: %s)", pqErr, pqErr.Code)
		}
		return fmt.Errorf("failed to execute the query: %w", err)
	}

	return nil
}

func (r *reportRunRepository) GetByID(id string) (*domain.ReportRun, error) {
	query, args, err := squirrel.
		Select("rr.id, rr.external_id, rr.brand, rr.period_start, rr.period_end, rr.detailed, rr.bundle, rr.report_path, rr.created_at, rr.updated_at").
		From(reportRunsTable).
		Where(squirrel.Eq{"rr.id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build the query: %w", err)
	}

	row := r.conn.QueryRow(query, args...)
	run, err := r.scanRun(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan report run: %w", err)
	}

	return run, nil
}

func (r *reportRunRepository) List(limit int) ([]*domain.ReportRun, error) {
	builder := squirrel.
		Select("rr.id, rr.external_id, rr.brand, rr.period_start, rr.period_end, rr.detailed, rr.bundle, rr.report_path, rr.created_at, rr.updated_at").
		From(reportRunsTable).
		OrderBy("rr.created_at DESC").
		PlaceholderFormat(squirrel.Dollar)
	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build the query: %w", err)
	}

	rows, err := r.conn.Query(query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to execute the query: %w", err)
	}
	defer rows.Close()

	runs := make([]*domain.ReportRun, 0)
	for rows.Next() {
		run, err := r.scanRunRows(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report runs: %w", err)
		}
		runs = append(runs, run)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return runs, nil
}

func (r *reportRunRepository) scanRun(row *sql.Row) (*domain.ReportRun, error) {
	run := &domain.ReportRun{}
	var bundleJSON []byte

	err := row.Scan(
		&run.ID,
		&run.ExternalID,
		&run.Brand,
		&run.PeriodStart,
		&run.PeriodEnd,
		&run.Detailed,
		&bundleJSON,
		&run.ReportPath,
		&run.CreatedAt,
		&run.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if bundleJSON != nil {
		bundle := &domain.ReportBundle{}
		if err := json.Unmarshal(bundleJSON, bundle); err != nil {
			return nil, fmt.Errorf("failed to deserialize report bundle: %w", err)
		}
		run.Bundle = bundle
	}

	return run, nil
}

func (r *reportRunRepository) scanRunRows(rows *sql.Rows) (*domain.ReportRun, error) {
	run := &domain.ReportRun{}
	var bundleJSON []byte

	err := rows.Scan(
		&run.ID,
		&run.ExternalID,
		&run.Brand,
		&run.PeriodStart,
		&run.PeriodEnd,
		&run.Detailed,
		&bundleJSON,
		&run.ReportPath,
		&run.CreatedAt,
		&run.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if bundleJSON != nil {
		bundle := &domain.ReportBundle{}
		if err := json.Unmarshal(bundleJSON, bundle); err != nil {
			return nil, fmt.Errorf("failed to deserialize report bundle: %w", err)
		}
		run.Bundle = bundle
	}

	return run, nil
}
