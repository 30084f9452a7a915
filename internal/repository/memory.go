package repository

import (
    "context"
    "sync"
    "time"

    appErrors "github.com/unclebandit/ggph-smms/internal/errors"
    "github.com/unclebandit/ggph-smms/internal/model"
)

// memTable keeps rows in insertion order and hands out copies so callers
// can never mutate stored state.
type memTable[T any] struct {
    mu     sync.RWMutex
    order  []string
    rows   map[string]T
    clone  func(T) T
    entity string
}

func newMemTable[T any](entity string, clone func(T) T) *memTable[T] {
    if clone == nil {
        clone = func(v T) T { return v }
    }
    return &memTable[T]{rows: make(map[string]T), clone: clone, entity: entity}
}

func (t *memTable[T]) notFound(id string) error {
    if t.entity == "campaign" {
        return appErrors.NewCampaignNotFound(id)
    }
    return appErrors.NewNotFound(t.entity, id)
}

func (t *memTable[T]) list(ctx context.Context) ([]T, error) {
    if err := ctx.Err(); err != nil {
        return nil, err
    }
    t.mu.RLock()
    defer t.mu.RUnlock()
    out := make([]T, 0, len(t.order))
    for _, id := range t.order {
        out = append(out, t.clone(t.rows[id]))
    }
    return out, nil
}

func (t *memTable[T]) get(ctx context.Context, id string) (*T, error) {
    if err := ctx.Err(); err != nil {
        return nil, err
    }
    t.mu.RLock()
    defer t.mu.RUnlock()
    v, ok := t.rows[id]
    if !ok {
        return nil, t.notFound(id)
    }
    c := t.clone(v)
    return &c, nil
}

func (t *memTable[T]) put(ctx context.Context, id string, v T, create bool) error {
    if err := ctx.Err(); err != nil {
        return err
    }
    t.mu.Lock()
    defer t.mu.Unlock()
    _, exists := t.rows[id]
    switch {
    case create && !exists:
        t.order = append(t.order, id)
    case !create && !exists:
        return t.notFound(id)
    }
    t.rows[id] = t.clone(v)
    return nil
}

func (t *memTable[T]) update(ctx context.Context, id string, edit func(*T)) error {
    if err := ctx.Err(); err != nil {
        return err
    }
    t.mu.Lock()
    defer t.mu.Unlock()
    v, ok := t.rows[id]
    if !ok {
        return t.notFound(id)
    }
    edit(&v)
    t.rows[id] = v
    return nil
}

func (t *memTable[T]) delete(ctx context.Context, id string) error {
    if err := ctx.Err(); err != nil {
        return err
    }
    t.mu.Lock()
    defer t.mu.Unlock()
    if _, ok := t.rows[id]; !ok {
        return t.notFound(id)
    }
    delete(t.rows, id)
    for i, o := range t.order {
        if o == id {
            t.order = append(t.order[:i], t.order[i+1:]...)
            break
        }
    }
    return nil
}

// ====================== Campaigns ======================

type MemoryCampaignRepository struct{ t *memTable[model.Campaign] }

func NewMemoryCampaignRepository(seed ...model.Campaign) *MemoryCampaignRepository {
    r := &MemoryCampaignRepository{t: newMemTable("campaign", model.Campaign.Clone)}
    for _, c := range seed {
        _ = r.Create(context.Background(), &c)
    }
    return r
}

func (r *MemoryCampaignRepository) ListCampaigns(ctx context.Context) ([]model.Campaign, error) {
    return r.t.list(ctx)
}

func (r *MemoryCampaignRepository) GetByID(ctx context.Context, id string) (*model.Campaign, error) {
    return r.t.get(ctx, id)
}

func (r *MemoryCampaignRepository) Create(ctx context.Context, c *model.Campaign) error {
    return r.t.put(ctx, c.ID, *c, true)
}

func (r *MemoryCampaignRepository) Update(ctx context.Context, c *model.Campaign) error {
    return r.t.put(ctx, c.ID, *c, false)
}

func (r *MemoryCampaignRepository) UpdateStatus(ctx context.Context, id string, status model.CampaignStatus) error {
    return r.t.update(ctx, id, func(c *model.Campaign) { c.Status = status })
}

func (r *MemoryCampaignRepository) Delete(ctx context.Context, id string) error {
    return r.t.delete(ctx, id)
}

// ====================== Reference data ======================

type MemoryBranchRepository struct{ t *memTable[model.Branch] }

func NewMemoryBranchRepository(seed ...model.Branch) *MemoryBranchRepository {
    r := &MemoryBranchRepository{t: newMemTable[model.Branch]("branch", nil)}
    for _, b := range seed {
        _ = r.Create(context.Background(), &b)
    }
    return r
}

func (r *MemoryBranchRepository) List(ctx context.Context) ([]model.Branch, error) { return r.t.list(ctx) }
func (r *MemoryBranchRepository) GetByID(ctx context.Context, id string) (*model.Branch, error) {
    return r.t.get(ctx, id)
}
func (r *MemoryBranchRepository) Create(ctx context.Context, b *model.Branch) error {
    return r.t.put(ctx, b.ID, *b, true)
}
func (r *MemoryBranchRepository) Update(ctx context.Context, b *model.Branch) error {
    return r.t.put(ctx, b.ID, *b, false)
}
func (r *MemoryBranchRepository) Delete(ctx context.Context, id string) error { return r.t.delete(ctx, id) }

type MemoryCategoryRepository struct{ t *memTable[model.Category] }

func NewMemoryCategoryRepository(seed ...model.Category) *MemoryCategoryRepository {
    r := &MemoryCategoryRepository{t: newMemTable[model.Category]("category", nil)}
    for _, c := range seed {
        _ = r.Create(context.Background(), &c)
    }
    return r
}

func (r *MemoryCategoryRepository) List(ctx context.Context) ([]model.Category, error) {
    return r.t.list(ctx)
}
func (r *MemoryCategoryRepository) GetByID(ctx context.Context, id string) (*model.Category, error) {
    return r.t.get(ctx, id)
}
func (r *MemoryCategoryRepository) Create(ctx context.Context, c *model.Category) error {
    return r.t.put(ctx, c.ID, *c, true)
}
func (r *MemoryCategoryRepository) Update(ctx context.Context, c *model.Category) error {
    return r.t.put(ctx, c.ID, *c, false)
}
func (r *MemoryCategoryRepository) Delete(ctx context.Context, id string) error {
    return r.t.delete(ctx, id)
}

type MemoryEventTypeRepository struct{ t *memTable[model.EventType] }

func NewMemoryEventTypeRepository(seed ...model.EventType) *MemoryEventTypeRepository {
    r := &MemoryEventTypeRepository{t: newMemTable[model.EventType]("event type", nil)}
    for _, e := range seed {
        _ = r.Create(context.Background(), &e)
    }
    return r
}

func (r *MemoryEventTypeRepository) List(ctx context.Context) ([]model.EventType, error) {
    return r.t.list(ctx)
}
func (r *MemoryEventTypeRepository) GetByID(ctx context.Context, id string) (*model.EventType, error) {
    return r.t.get(ctx, id)
}
func (r *MemoryEventTypeRepository) Create(ctx context.Context, e *model.EventType) error {
    return r.t.put(ctx, e.ID, *e, true)
}
func (r *MemoryEventTypeRepository) Update(ctx context.Context, e *model.EventType) error {
    return r.t.put(ctx, e.ID, *e, false)
}
func (r *MemoryEventTypeRepository) Delete(ctx context.Context, id string) error {
    return r.t.delete(ctx, id)
}

// ====================== Users ======================

type MemoryUserRepository struct {
    mu sync.Mutex // serialises the username uniqueness check with the write
    t  *memTable[model.User]
}

func NewMemoryUserRepository(seed ...model.User) *MemoryUserRepository {
    r := &MemoryUserRepository{t: newMemTable[model.User]("user", nil)}
    for _, u := range seed {
        _ = r.Create(context.Background(), &u)
    }
    return r
}

func (r *MemoryUserRepository) List(ctx context.Context) ([]model.User, error) { return r.t.list(ctx) }
func (r *MemoryUserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
    return r.t.get(ctx, id)
}

func (r *MemoryUserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
    users, err := r.t.list(ctx)
    if err != nil {
        return nil, err
    }
    for _, u := range users {
        if u.Username == username {
            return &u, nil
        }
    }
    return nil, appErrors.NewNotFound("user", username)
}

func (r *MemoryUserRepository) taken(ctx context.Context, u *model.User) (bool, error) {
    existing, err := r.GetByUsername(ctx, u.Username)
    if appErrors.IsNotFound(err) {
        return false, nil
    }
    if err != nil {
        return false, err
    }
    return existing.ID != u.ID, nil
}

func (r *MemoryUserRepository) Create(ctx context.Context, u *model.User) error {
    r.mu.Lock()
    defer r.mu.Unlock()
    if taken, err := r.taken(ctx, u); err != nil || taken {
        if err == nil {
            err = &appErrors.ErrConflict{Entity: "user", Field: "username"}
        }
        return err
    }
    return r.t.put(ctx, u.ID, *u, true)
}

func (r *MemoryUserRepository) Update(ctx context.Context, u *model.User) error {
    r.mu.Lock()
    defer r.mu.Unlock()
    if taken, err := r.taken(ctx, u); err != nil || taken {
        if err == nil {
            err = &appErrors.ErrConflict{Entity: "user", Field: "username"}
        }
        return err
    }
    return r.t.put(ctx, u.ID, *u, false)
}

func (r *MemoryUserRepository) Delete(ctx context.Context, id string) error { return r.t.delete(ctx, id) }

// ====================== Audit ======================

type MemoryAuditRepository struct {
    mu      sync.Mutex
    nextID  int64
    entries []model.AuditEntry
}

func NewMemoryAuditRepository() *MemoryAuditRepository { return &MemoryAuditRepository{} }

func (r *MemoryAuditRepository) Append(ctx context.Context, e *model.AuditEntry) error {
    if err := ctx.Err(); err != nil {
        return err
    }
    r.mu.Lock()
    defer r.mu.Unlock()
    if e.OccurredAt.IsZero() {
        e.OccurredAt = time.Now().UTC()
    }
    r.nextID++
    e.ID = r.nextID
    r.entries = append(r.entries, *e)
    return nil
}

func (r *MemoryAuditRepository) ListByCampaign(ctx context.Context, campaignID string) ([]model.AuditEntry, error) {
    if err := ctx.Err(); err != nil {
        return nil, err
    }
    r.mu.Lock()
    defer r.mu.Unlock()
    out := []model.AuditEntry{}
    for _, e := range r.entries {
        if e.CampaignID == campaignID {
            out = append(out, e)
        }
    }
    return out, nil
}

var (
    _ CampaignRepositoryInterface  = (*MemoryCampaignRepository)(nil)
    _ BranchRepositoryInterface    = (*MemoryBranchRepository)(nil)
    _ CategoryRepositoryInterface  = (*MemoryCategoryRepository)(nil)
    _ EventTypeRepositoryInterface = (*MemoryEventTypeRepository)(nil)
    _ UserRepositoryInterface      = (*MemoryUserRepository)(nil)
    _ AuditRepositoryInterface     = (*MemoryAuditRepository)(nil)
)
