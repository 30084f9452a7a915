package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/lib/pq"

    appErrors "github.com/unclebandit/ggph-smms/internal/errors"
    "github.com/unclebandit/ggph-smms/internal/model"
)

type UserRepositoryInterface interface {
    List(ctx context.Context) ([]model.User, error)
    GetByID(ctx context.Context, id string) (*model.User, error)
    GetByUsername(ctx context.Context, username string) (*model.User, error)
    Create(ctx context.Context, u *model.User) error
    Update(ctx context.Context, u *model.User) error
    Delete(ctx context.Context, id string) error
}

type UserRepository struct {
    DB *sql.DB
}

const uniqueViolation = "23505"

// conflict maps a unique violation on users.username to ErrConflict.
func conflict(err error) error {
    var pqErr *pq.Error
    if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
        return &appErrors.ErrConflict{Entity: "user", Field: "username"}
    }
    return err
}

func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
    rows, err := r.DB.QueryContext(ctx, `SELECT id, username, name, role, password_hash FROM users ORDER BY username`)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    users := []model.User{}
    for rows.Next() {
        var u model.User
        if err := rows.Scan(&u.ID, &u.Username, &u.Name, &u.Role, &u.PasswordHash); err != nil {
            return nil, err
        }
        users = append(users, u)
    }
    return users, rows.Err()
}

func (r *UserRepository) getOne(ctx context.Context, where, arg string) (*model.User, error) {
    var u model.User
    err := r.DB.QueryRowContext(ctx, `SELECT id, username, name, role, password_hash FROM users WHERE `+where+`=$1`, arg).
        Scan(&u.ID, &u.Username, &u.Name, &u.Role, &u.PasswordHash)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, appErrors.NewNotFound("user", arg)
        }
        return nil, err
    }
    return &u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
    return r.getOne(ctx, "id", id)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
    return r.getOne(ctx, "username", username)
}

func (r *UserRepository) Create(ctx context.Context, u *model.User) error {
    _, err := r.DB.ExecContext(ctx,
        `INSERT INTO users (id, username, name, role, password_hash) VALUES ($1, $2, $3, $4, $5)`,
        u.ID, u.Username, u.Name, u.Role, u.PasswordHash)
    return conflict(err)
}

func (r *UserRepository) Update(ctx context.Context, u *model.User) error {
    res, err := r.DB.ExecContext(ctx,
        `UPDATE users SET username=$1, name=$2, role=$3, password_hash=$4 WHERE id=$5`,
        u.Username, u.Name, u.Role, u.PasswordHash, u.ID)
    if err != nil {
        return conflict(err)
    }
    return expectRow(res, appErrors.NewNotFound("user", u.ID))
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
    return deleteByID(ctx, r.DB, "users", "user", id)
}

var _ UserRepositoryInterface = (*UserRepository)(nil)
