package repository

import (
    "context"
    "database/sql"
    "errors"

    appErrors "github.com/unclebandit/ggph-smms/internal/errors"
    "github.com/unclebandit/ggph-smms/internal/model"
)

type BranchRepositoryInterface interface {
    List(ctx context.Context) ([]model.Branch, error)
    GetByID(ctx context.Context, id string) (*model.Branch, error)
    Create(ctx context.Context, b *model.Branch) error
    Update(ctx context.Context, b *model.Branch) error
    Delete(ctx context.Context, id string) error
}

type CategoryRepositoryInterface interface {
    List(ctx context.Context) ([]model.Category, error)
    GetByID(ctx context.Context, id string) (*model.Category, error)
    Create(ctx context.Context, c *model.Category) error
    Update(ctx context.Context, c *model.Category) error
    Delete(ctx context.Context, id string) error
}

type EventTypeRepositoryInterface interface {
    List(ctx context.Context) ([]model.EventType, error)
    GetByID(ctx context.Context, id string) (*model.EventType, error)
    Create(ctx context.Context, e *model.EventType) error
    Update(ctx context.Context, e *model.EventType) error
    Delete(ctx context.Context, id string) error
}

// ====================== Branches ======================

type BranchRepository struct {
    DB *sql.DB
}

func (r *BranchRepository) List(ctx context.Context) ([]model.Branch, error) {
    rows, err := r.DB.QueryContext(ctx, `SELECT id, name, location FROM branches ORDER BY name, id`)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    branches := []model.Branch{}
    for rows.Next() {
        var b model.Branch
        if err := rows.Scan(&b.ID, &b.Name, &b.Location); err != nil {
            return nil, err
        }
        branches = append(branches, b)
    }
    return branches, rows.Err()
}

func (r *BranchRepository) GetByID(ctx context.Context, id string) (*model.Branch, error) {
    var b model.Branch
    err := r.DB.QueryRowContext(ctx, `SELECT id, name, location FROM branches WHERE id=$1`, id).Scan(&b.ID, &b.Name, &b.Location)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, appErrors.NewNotFound("branch", id)
        }
        return nil, err
    }
    return &b, nil
}

func (r *BranchRepository) Create(ctx context.Context, b *model.Branch) error {
    _, err := r.DB.ExecContext(ctx, `INSERT INTO branches (id, name, location) VALUES ($1, $2, $3)`, b.ID, b.Name, b.Location)
    return err
}

func (r *BranchRepository) Update(ctx context.Context, b *model.Branch) error {
    res, err := r.DB.ExecContext(ctx, `UPDATE branches SET name=$1, location=$2 WHERE id=$3`, b.Name, b.Location, b.ID)
    if err != nil {
        return err
    }
    return expectRow(res, appErrors.NewNotFound("branch", b.ID))
}

func (r *BranchRepository) Delete(ctx context.Context, id string) error {
    return deleteByID(ctx, r.DB, "branches", "branch", id)
}

// ====================== Categories & event types ======================

// namedTable serves the id/name lookup tables.
type namedTable struct {
    db     *sql.DB
    table  string
    entity string
}

func (t namedTable) list(ctx context.Context) ([][2]string, error) {
    rows, err := t.db.QueryContext(ctx, `SELECT id, name FROM `+t.table+` ORDER BY name, id`)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    out := [][2]string{}
    for rows.Next() {
        var id, name string
        if err := rows.Scan(&id, &name); err != nil {
            return nil, err
        }
        out = append(out, [2]string{id, name})
    }
    return out, rows.Err()
}

func (t namedTable) get(ctx context.Context, id string) (string, error) {
    var name string
    err := t.db.QueryRowContext(ctx, `SELECT name FROM `+t.table+` WHERE id=$1`, id).Scan(&name)
    if errors.Is(err, sql.ErrNoRows) {
        return "", appErrors.NewNotFound(t.entity, id)
    }
    return name, err
}

func (t namedTable) create(ctx context.Context, id, name string) error {
    _, err := t.db.ExecContext(ctx, `INSERT INTO `+t.table+` (id, name) VALUES ($1, $2)`, id, name)
    return err
}

func (t namedTable) update(ctx context.Context, id, name string) error {
    res, err := t.db.ExecContext(ctx, `UPDATE `+t.table+` SET name=$1 WHERE id=$2`, name, id)
    if err != nil {
        return err
    }
    return expectRow(res, appErrors.NewNotFound(t.entity, id))
}

type CategoryRepository struct {
    DB *sql.DB
}

func (r *CategoryRepository) t() namedTable {
    return namedTable{db: r.DB, table: "categories", entity: "category"}
}

func (r *CategoryRepository) List(ctx context.Context) ([]model.Category, error) {
    rows, err := r.t().list(ctx)
    if err != nil {
        return nil, err
    }
    out := make([]model.Category, 0, len(rows))
    for _, row := range rows {
        out = append(out, model.Category{ID: row[0], Name: row[1]})
    }
    return out, nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, id string) (*model.Category, error) {
    name, err := r.t().get(ctx, id)
    if err != nil {
        return nil, err
    }
    return &model.Category{ID: id, Name: name}, nil
}

func (r *CategoryRepository) Create(ctx context.Context, c *model.Category) error {
    return r.t().create(ctx, c.ID, c.Name)
}

func (r *CategoryRepository) Update(ctx context.Context, c *model.Category) error {
    return r.t().update(ctx, c.ID, c.Name)
}

func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
    return deleteByID(ctx, r.DB, "categories", "category", id)
}

type EventTypeRepository struct {
    DB *sql.DB
}

func (r *EventTypeRepository) t() namedTable {
    return namedTable{db: r.DB, table: "event_types", entity: "event type"}
}

func (r *EventTypeRepository) List(ctx context.Context) ([]model.EventType, error) {
    rows, err := r.t().list(ctx)
    if err != nil {
        return nil, err
    }
    out := make([]model.EventType, 0, len(rows))
    for _, row := range rows {
        out = append(out, model.EventType{ID: row[0], Name: row[1]})
    }
    return out, nil
}

func (r *EventTypeRepository) GetByID(ctx context.Context, id string) (*model.EventType, error) {
    name, err := r.t().get(ctx, id)
    if err != nil {
        return nil, err
    }
    return &model.EventType{ID: id, Name: name}, nil
}

func (r *EventTypeRepository) Create(ctx context.Context, e *model.EventType) error {
    return r.t().create(ctx, e.ID, e.Name)
}

func (r *EventTypeRepository) Update(ctx context.Context, e *model.EventType) error {
    return r.t().update(ctx, e.ID, e.Name)
}

func (r *EventTypeRepository) Delete(ctx context.Context, id string) error {
    return deleteByID(ctx, r.DB, "event_types", "event type", id)
}

func deleteByID(ctx context.Context, db *sql.DB, table, entity, id string) error {
    res, err := db.ExecContext(ctx, `DELETE FROM `+table+` WHERE id=$1`, id)
    if err != nil {
        return err
    }
    return expectRow(res, appErrors.NewNotFound(entity, id))
}

var (
    _ BranchRepositoryInterface    = (*BranchRepository)(nil)
    _ CategoryRepositoryInterface  = (*CategoryRepository)(nil)
    _ EventTypeRepositoryInterface = (*EventTypeRepository)(nil)
)
