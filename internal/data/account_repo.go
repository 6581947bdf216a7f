package data

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/sarpras/portal/internal/data/pgxutil"
	"github.com/sarpras/portal/internal/domain/model"
	apperrors "github.com/sarpras/portal/internal/errors"
	"github.com/sarpras/portal/internal/ports"
)

// AccountRepo provides database operations for portal accounts.
// It implements ports.AccountRepository.
type AccountRepo struct {
	DB *sql.DB
}

// NewAccountRepo creates a new AccountRepo.
func NewAccountRepo(db *sql.DB) *AccountRepo {
	return &AccountRepo{DB: db}
}

const accountByUsernameQuery = `
	SELECT id, namespace, username, display_name, password_hash, role, role_id, service_ids, active, created_at
	FROM accounts
	WHERE namespace = $1 AND username = $2`

// FindByUsername retrieves an account by namespace and username.
func (r *AccountRepo) FindByUsername(ctx context.Context, ns, username string) (*model.Account, error) {
	var acc model.Account
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, accountByUsernameQuery, strings.TrimSpace(ns), strings.TrimSpace(username))
		if err != nil {
			return err
		}
		defer rows.Close()
		acc, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Account])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ports.ErrAccountNotFound
		}
		return nil, apperrors.MapDBError(err)
	}
	return &acc, nil
}

// Create inserts a new account, returning the stored row.
func (r *AccountRepo) Create(ctx context.Context, acc *model.Account) (*model.Account, error) {
	if acc == nil {
		return nil, errors.New("account is required")
	}
	if err := acc.Validate(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid account")
	}

	var out model.Account
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO accounts (namespace, username, display_name, password_hash, role, role_id, service_ids, active)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id, namespace, username, display_name, password_hash, role, role_id, service_ids, active, created_at`,
			strings.TrimSpace(acc.Namespace),
			strings.TrimSpace(acc.Username),
			acc.DisplayName,
			acc.PasswordHash,
			acc.Role,
			acc.RoleID,
			acc.ServiceIDs,
			acc.Active,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Account])
		return err
	})
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}
