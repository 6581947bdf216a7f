package data

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5"

	"github.com/sarpras/portal/internal/data/pgxutil"
	"github.com/sarpras/portal/internal/domain/model"
	apperrors "github.com/sarpras/portal/internal/errors"
)

// BookingRepo serves the read projections behind the protected sample
// endpoints. It implements ports.BookingReader and ports.ServiceCatalog.
type BookingRepo struct {
	DB *sql.DB
}

// NewBookingRepo creates a new BookingRepo.
func NewBookingRepo(db *sql.DB) *BookingRepo {
	return &BookingRepo{DB: db}
}

const bookingsForUserQuery = `
	SELECT id, namespace, user_id, service_id, kind, status, starts_at, created_at
	FROM bookings
	WHERE namespace = $1 AND user_id = $2
	ORDER BY starts_at DESC
	LIMIT 200`

// ListForUser returns the user's bookings in the given namespace,
// newest first.
func (r *BookingRepo) ListForUser(ctx context.Context, ns string, userID int) ([]model.Booking, error) {
	var bookings []model.Booking
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, bookingsForUserQuery, ns, userID)
		if err != nil {
			return err
		}
		defer rows.Close()
		bookings, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Booking])
		return err
	})
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return bookings, nil
}

const servicesQuery = `
	SELECT id, namespace, name, enabled
	FROM services
	WHERE namespace = $1
	ORDER BY name`

// ListServices returns the namespace's bookable catalog.
func (r *BookingRepo) ListServices(ctx context.Context, ns string) ([]model.Service, error) {
	var services []model.Service
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, servicesQuery, ns)
		if err != nil {
			return err
		}
		defer rows.Close()
		services, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Service])
		return err
	})
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return services, nil
}
