package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	gomysql "github.com/go-sql-driver/mysql"

	"landlord_rep/internal/domain"
)

const (
	errDuplicateEntry  = 1062
	errNoReferencedRow = 1452
)

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) AppendLandlord(ctx context.Context, l domain.Landlord) error {
	var lat, lon any
	if l.Coords != nil {
		lat, lon = l.Coords.Lat, l.Coords.Lon
	}
	_, err := r.db.ExecContext(ctx, insertLandlordSQL,
		l.ID,
		l.Name,
		valStr(l.Entity),
		l.Address.Street,
		valStr(l.Address.Unit),
		l.Address.City,
		l.Address.State,
		valStr(l.Region),
		lat,
		lon,
		l.Verified,
		l.Top,
		l.CreatedAt.UTC(),
	)
	return mapWriteErr(err, "landlord "+l.ID)
}

func (r *Repo) AppendReview(ctx context.Context, rv domain.Review) error {
	_, err := r.db.ExecContext(ctx, insertReviewSQL,
		rv.ID,
		rv.LandlordID,
		rv.Stars,
		rv.Body,
		rv.CreatedAt.UTC(),
	)
	return mapWriteErr(err, "review "+rv.ID)
}

func (r *Repo) UpsertReport(ctx context.Context, rp domain.Report) error {
	_, err := r.db.ExecContext(ctx, upsertReportSQL,
		rp.LandlordID,
		rp.UpdatedAt.UTC(),
		rp.Violations,
		rp.OpenViolations,
		rp.Complaints,
		rp.Litigations,
		rp.Evictions,
		valStr(rp.Notes),
	)
	return mapWriteErr(err, "report "+rp.LandlordID)
}

func (r *Repo) LogMiss(ctx context.Context, landlordID string, status int, reason string) error {
	_, err := r.db.ExecContext(ctx, insertMissSQL, landlordID, status, reason)
	return err
}

func (r *Repo) GetLandlord(ctx context.Context, id string) (domain.Landlord, error) {
	l, err := scanLandlord(r.db.QueryRowContext(ctx, getLandlordSQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Landlord{}, fmt.Errorf("landlord %s: %w", id, domain.ErrNotFound)
	}
	return l, err
}

func (r *Repo) ListLandlords(ctx context.Context, q domain.LandlordsQuery) ([]domain.Landlord, error) {
	var (
		where []string
		args  []any
	)
	if q.Region != nil {
		where = append(where, "region = ?")
		args = append(args, *q.Region)
	}
	query := listLandlordsSQL
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY name, id"
	if q.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, q.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Landlord, 0)
	for rows.Next() {
		l, err := scanLandlord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) ListReviewsForLandlord(ctx context.Context, id string) ([]domain.Review, error) {
	rows, err := r.db.QueryContext(ctx, listReviewsSQL, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Review, 0)
	for rows.Next() {
		var rv domain.Review
		if err := rows.Scan(&rv.ID, &rv.LandlordID, &rv.Stars, &rv.Body, &rv.CreatedAt); err != nil {
			return nil, err
		}
		rv.CreatedAt = rv.CreatedAt.UTC()
		out = append(out, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) GetReport(ctx context.Context, id string) (domain.Report, error) {
	var (
		rp    domain.Report
		notes sql.NullString
	)
	err := r.db.QueryRowContext(ctx, getReportSQL, id).Scan(
		&rp.LandlordID,
		&rp.UpdatedAt,
		&rp.Violations,
		&rp.OpenViolations,
		&rp.Complaints,
		&rp.Litigations,
		&rp.Evictions,
		&notes,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Report{}, fmt.Errorf("report %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Report{}, err
	}
	rp.UpdatedAt = rp.UpdatedAt.UTC()
	if notes.Valid {
		n := notes.String
		rp.Notes = &n
	}
	return rp, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanLandlord(s scanner) (domain.Landlord, error) {
	var (
		l                    domain.Landlord
		entity, unit, region sql.NullString
		lat, lon             sql.NullFloat64
	)
	if err := s.Scan(
		&l.ID,
		&l.Name,
		&entity,
		&l.Address.Street,
		&unit,
		&l.Address.City,
		&l.Address.State,
		&region,
		&lat, &lon,
		&l.Verified,
		&l.Top,
		&l.CreatedAt,
	); err != nil {
		return domain.Landlord{}, err
	}
	if entity.Valid {
		e := entity.String
		l.Entity = &e
	}
	if unit.Valid {
		u := unit.String
		l.Address.Unit = &u
	}
	if region.Valid {
		rg := region.String
		l.Region = &rg
	}
	if lat.Valid && lon.Valid {
		l.Coords = &domain.Coords{Lat: lat.Float64, Lon: lon.Float64}
	}
	l.CreatedAt = l.CreatedAt.UTC()
	return l, nil
}

// mapWriteErr turns driver errors the caller can act on into domain errors.
func mapWriteErr(err error, what string) error {
	if err == nil {
		return nil
	}
	var me *gomysql.MySQLError
	if errors.As(err, &me) {
		switch me.Number {
		case errDuplicateEntry:
			return fmt.Errorf("%s already exists: %w", what, domain.ErrInvalid)
		case errNoReferencedRow:
			return fmt.Errorf("%s references a missing landlord: %w", what, domain.ErrNotFound)
		}
	}
	return err
}
