package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/ahmedNJ467/peace-keeper-dashboard-sub002/internal/domain"
)

// DriverRepo reads drivers. Driver CRUD lives outside the dispatch core.
type DriverRepo interface {
	// GetByID returns domain.ErrNotFound if no driver with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Driver, error)
	// ListActive returns active drivers ordered by name.
	ListActive(ctx context.Context) ([]domain.Driver, error)
}

// VehicleRepo reads vehicles.
type VehicleRepo interface {
	// GetByID returns domain.ErrNotFound if no vehicle with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Vehicle, error)
}

// ClientRepo reads clients.
type ClientRepo interface {
	// GetByID returns domain.ErrNotFound if no client with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Client, error)
}

type pgDriverRepo struct{ db db }
type pgVehicleRepo struct{ db db }
type pgClientRepo struct{ db db }

// NewDriverRepo constructs a DriverRepo backed by the provided db connection.
func NewDriverRepo(db db) DriverRepo { return &pgDriverRepo{db: db} }

// NewVehicleRepo constructs a VehicleRepo backed by the provided db connection.
func NewVehicleRepo(db db) VehicleRepo { return &pgVehicleRepo{db: db} }

// NewClientRepo constructs a ClientRepo backed by the provided db connection.
func NewClientRepo(db db) ClientRepo { return &pgClientRepo{db: db} }

func (r *pgDriverRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Driver, error) {
	const q = `SELECT id, name, phone, active, created_at FROM drivers WHERE id = @id`

	d, err := scanDriver(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Driver{}, fmt.Errorf("repo.DriverRepo.GetByID: %w", err)
	}
	return d, nil
}

func (r *pgDriverRepo) ListActive(ctx context.Context) ([]domain.Driver, error) {
	const q = `
		SELECT id, name, phone, active, created_at
		FROM drivers
		WHERE active
		ORDER BY name, id`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.DriverRepo.ListActive: %w", err)
	}
	defer rows.Close()

	drivers := []domain.Driver{}
	for rows.Next() {
		d, err := scanDriver(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.DriverRepo.ListActive: scan: %w", err)
		}
		drivers = append(drivers, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.DriverRepo.ListActive: rows: %w", err)
	}
	return drivers, nil
}

func (r *pgVehicleRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Vehicle, error) {
	const q = `SELECT id, make, model, registration, active, created_at FROM vehicles WHERE id = @id`

	var (
		v   domain.Vehicle
		vid pgtype.UUID
	)
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}).
		Scan(&vid, &v.Make, &v.Model, &v.Registration, &v.Active, &v.CreatedAt)
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("repo.VehicleRepo.GetByID: %w", noRows(err))
	}
	v.ID = uuid.UUID(vid.Bytes)
	return v, nil
}

func (r *pgClientRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Client, error) {
	const q = `SELECT id, name, type, created_at FROM clients WHERE id = @id`

	var (
		c    domain.Client
		cid  pgtype.UUID
		kind string
	)
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}).Scan(&cid, &c.Name, &kind, &c.CreatedAt)
	if err != nil {
		return domain.Client{}, fmt.Errorf("repo.ClientRepo.GetByID: %w", noRows(err))
	}
	c.ID = uuid.UUID(cid.Bytes)
	c.Type = domain.ClientType(kind)
	return c, nil
}

func scanDriver(s scanner) (domain.Driver, error) {
	var (
		d  domain.Driver
		id pgtype.UUID
	)
	if err := s.Scan(&id, &d.Name, &d.Phone, &d.Active, &d.CreatedAt); err != nil {
		return domain.Driver{}, noRows(err)
	}
	d.ID = uuid.UUID(id.Bytes)
	return d, nil
}

// noRows translates pgx.ErrNoRows into domain.ErrNotFound.
func noRows(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}
