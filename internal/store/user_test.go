package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront/internal/database"
	"storefront/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func userRow(u model.User) valueRow {
	return valueRow{vals: []any{
		u.ID, u.Username, u.Email, u.PasswordHash, u.Role,
		u.FirstName, u.LastName, u.CreatedAt, u.UpdatedAt,
	}}
}

func TestGetUser(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()
	sample := model.User{ID: 7, Username: "alice", Email: "a@x.com", PasswordHash: "h", Role: model.RoleCustomer, CreatedAt: now, UpdatedAt: now}

	var gotSQL string
	var gotArgs []any
	db := &database.FakeDB{QueryRowFn: func(_ context.Context, sql string, args ...any) pgx.Row {
		gotSQL, gotArgs = sql, args
		return userRow(sample)
	}}

	u, err := GetUserByID(ctx, db, 7)
	require.NoError(t, err)
	require.Equal(t, sample, *u)
	require.Contains(t, gotSQL, "WHERE id = $1")
	require.Equal(t, []any{int64(7)}, gotArgs)

	u, err = GetUserByUsername(ctx, db, "alice")
	require.NoError(t, err)
	require.Equal(t, "alice", u.Username)
	require.Contains(t, gotSQL, "WHERE username = $1")

	u, err = GetUserByEmail(ctx, db, "A@X.com")
	require.NoError(t, err)
	require.Equal(t, int64(7), u.ID)
	require.Contains(t, gotSQL, "lower(email) = lower($1)")

	missing := &database.FakeDB{QueryRowFn: func(context.Context, string, ...any) pgx.Row {
		return valueRow{err: pgx.ErrNoRows}
	}}
	_, err = GetUserByID(ctx, missing, 1)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = GetUserByUsername(ctx, missing, "x")
	require.ErrorIs(t, err, ErrNotFound)
	_, err = GetUserByEmail(ctx, missing, "x@y.z")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUsernameExists(t *testing.T) {
	ctx := context.Background()
	db := &database.FakeDB{QueryRowFn: func(context.Context, string, ...any) pgx.Row {
		return valueRow{vals: []any{true}}
	}}
	ok, err := UsernameExists(ctx, db, "alice")
	require.NoError(t, err)
	require.True(t, ok)

	db.QueryRowFn = func(context.Context, string, ...any) pgx.Row { return valueRow{err: errors.New("db")} }
	_, err = UsernameExists(ctx, db, "alice")
	require.Error(t, err)
}

func TestCreateUser(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("ok defaults role", func(t *testing.T) {
		var gotArgs []any
		db := &database.FakeDB{QueryRowFn: func(_ context.Context, _ string, args ...any) pgx.Row {
			gotArgs = args
			return valueRow{vals: []any{int64(3), now, now}}
		}}
		u, err := CreateUser(ctx, db, &model.User{Username: "bob", Email: "b@x.com", PasswordHash: "h"})
		require.NoError(t, err)
		require.Equal(t, int64(3), u.ID)
		require.Equal(t, model.RoleCustomer, u.Role)
		require.Equal(t, "customer", gotArgs[3])
	})

	t.Run("duplicate", func(t *testing.T) {
		db := &database.FakeDB{QueryRowFn: func(context.Context, string, ...any) pgx.Row {
			return valueRow{err: &pgconn.PgError{Code: "23505"}}
		}}
		_, err := CreateUser(ctx, db, &model.User{Username: "bob"})
		require.ErrorIs(t, err, ErrConflict)
	})
}

func TestUpdateUser(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	db := &database.FakeDB{QueryRowFn: func(context.Context, string, ...any) pgx.Row {
		return valueRow{vals: []any{now}}
	}}
	u := &model.User{ID: 1, Email: "n@x.com"}
	require.NoError(t, UpdateUserProfile(ctx, db, u))
	require.Equal(t, now, u.UpdatedAt)

	db.QueryRowFn = func(context.Context, string, ...any) pgx.Row { return valueRow{err: pgx.ErrNoRows} }
	require.ErrorIs(t, UpdateUserProfile(ctx, db, u), ErrNotFound)

	db.ExecFn = func(context.Context, string, ...any) (pgconn.CommandTag, error) {
		return pgconn.NewCommandTag("UPDATE 1"), nil
	}
	require.NoError(t, UpdateUserPassword(ctx, db, 1, "h"))

	db.ExecFn = func(context.Context, string, ...any) (pgconn.CommandTag, error) {
		return pgconn.NewCommandTag("UPDATE 0"), nil
	}
	require.ErrorIs(t, UpdateUserPassword(ctx, db, 1, "h"), ErrNotFound)

	db.ExecFn = func(context.Context, string, ...any) (pgconn.CommandTag, error) {
		return pgconn.CommandTag{}, errors.New("db")
	}
	require.Error(t, UpdateUserPassword(ctx, db, 1, "h"))
}
