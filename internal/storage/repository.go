package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"mybudget/internal/core"

	_ "modernc.org/sqlite"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
)

// timeLayout is a fixed-width UTC layout so lexicographic ordering of the
// stored strings matches chronological ordering in range queries.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func encodeTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func decodeTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}

// Repository is the SQLite-backed store for transactions, categories and
// budgets. All reads and writes are scoped to an owner id.
type Repository struct {
	db *sql.DB
}

func NewRepository(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	// The pragma rides on the DSN so every pooled connection enforces
	// foreign keys, not just the one that ran a PRAGMA statement.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func mapWriteError(err error) error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return ErrConflict
	}
	if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
		return core.ErrUnknownCategory
	}
	return err
}

// checkCategoryUse verifies that the owner's category exists and carries the
// expected type. Referential errors surface as domain errors, not SQL ones.
func (r *Repository) checkCategoryUse(ctx context.Context, ownerID, categoryID string, want core.TransactionType) error {
	var typ string
	err := r.db.QueryRowContext(ctx,
		"SELECT type FROM categories WHERE id = ? AND owner_id = ?", categoryID, ownerID).Scan(&typ)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("category %q: %w", categoryID, core.ErrUnknownCategory)
	}
	if err != nil {
		return fmt.Errorf("look up category: %w", err)
	}
	if core.TransactionType(typ) != want {
		return fmt.Errorf("category %q is %s: %w", categoryID, typ, core.ErrCategoryType)
	}
	return nil
}

// CreateTransaction validates and stores a transaction, assigning its id and
// timestamps.
func (r *Repository) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	now := time.Now().UTC()
	t.ID = uuid.NewString()
	t.CreatedAt = now
	t.UpdatedAt = now

	var categoryID sql.NullString
	if id, ok := t.Category.ID(); ok {
		if err := r.checkCategoryUse(ctx, t.OwnerID, id, t.Type); err != nil {
			return core.Transaction{}, err
		}
		categoryID = sql.NullString{String: id, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (id, owner_id, amount_cents, type, date, description, notes, payment_method, category_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.OwnerID, t.Amount.Cents, string(t.Type), encodeTime(t.Date),
		t.Description, t.Notes, t.PaymentMethod, categoryID,
		encodeTime(t.CreatedAt), encodeTime(t.UpdatedAt))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", mapWriteError(err))
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", t.ID,
		"owner_id", t.OwnerID,
		"type", string(t.Type),
		"amount_cents", t.Amount.Cents)

	return t, nil
}

// UpdateTransaction rewrites the mutable fields of an owned transaction.
func (r *Repository) UpdateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	t.UpdatedAt = time.Now().UTC()

	var categoryID sql.NullString
	if id, ok := t.Category.ID(); ok {
		if err := r.checkCategoryUse(ctx, t.OwnerID, id, t.Type); err != nil {
			return core.Transaction{}, err
		}
		categoryID = sql.NullString{String: id, Valid: true}
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE transactions
		SET amount_cents = ?, type = ?, date = ?, description = ?, notes = ?, payment_method = ?, category_id = ?, updated_at = ?
		WHERE id = ? AND owner_id = ?`,
		t.Amount.Cents, string(t.Type), encodeTime(t.Date), t.Description,
		t.Notes, t.PaymentMethod, categoryID, encodeTime(t.UpdatedAt),
		t.ID, t.OwnerID)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", mapWriteError(err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.Transaction{}, ErrNotFound
	}

	return r.GetTransaction(ctx, t.OwnerID, t.ID)
}

func (r *Repository) DeleteTransaction(ctx context.Context, ownerID, id string) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM transactions WHERE id = ? AND owner_id = ?", id, ownerID)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

const transactionColumns = "id, owner_id, amount_cents, type, date, description, notes, payment_method, category_id, created_at, updated_at"

func (r *Repository) GetTransaction(ctx context.Context, ownerID, id string) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE id = ? AND owner_id = ?", id, ownerID)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

// ListTransactions returns every transaction of the owner, newest first.
func (r *Repository) ListTransactions(ctx context.Context, ownerID string) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE owner_id = ? ORDER BY date DESC, id", ownerID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()
	return collectTransactions(rows)
}

// TransactionsInRange returns the owner's transactions dated within
// [start, end], both ends inclusive.
func (r *Repository) TransactionsInRange(ctx context.Context, ownerID string, start, end time.Time) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE owner_id = ? AND date >= ? AND date <= ? ORDER BY date DESC, id",
		ownerID, encodeTime(start), encodeTime(end))
	if err != nil {
		return nil, fmt.Errorf("list transactions in range: %w", err)
	}
	defer rows.Close()
	return collectTransactions(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		t          core.Transaction
		typ        string
		date       string
		categoryID sql.NullString
		createdAt  string
		updatedAt  string
	)
	err := row.Scan(&t.ID, &t.OwnerID, &t.Amount.Cents, &typ, &date,
		&t.Description, &t.Notes, &t.PaymentMethod, &categoryID, &createdAt, &updatedAt)
	if err != nil {
		return core.Transaction{}, err
	}

	t.Type = core.TransactionType(typ)
	if categoryID.Valid {
		t.Category = core.CategoryID(categoryID.String)
	}
	if t.Date, err = decodeTime(date); err != nil {
		return core.Transaction{}, fmt.Errorf("decode date: %w", err)
	}
	if t.CreatedAt, err = decodeTime(createdAt); err != nil {
		return core.Transaction{}, fmt.Errorf("decode created_at: %w", err)
	}
	if t.UpdatedAt, err = decodeTime(updatedAt); err != nil {
		return core.Transaction{}, fmt.Errorf("decode updated_at: %w", err)
	}
	return t, nil
}

func collectTransactions(rows *sql.Rows) ([]core.Transaction, error) {
	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

// CreateCategory stores a category. Names are unique per owner and type.
func (r *Repository) CreateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}

	c.ID = uuid.NewString()
	c.CreatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO categories (id, owner_id, name, type, color, parent_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.OwnerID, c.Name, string(c.Type), c.Color, c.ParentID, encodeTime(c.CreatedAt))
	if err != nil {
		return core.Category{}, fmt.Errorf("insert category: %w", mapWriteError(err))
	}

	slog.InfoContext(ctx, "Category created",
		"id", c.ID, "owner_id", c.OwnerID, "name", c.Name, "type", string(c.Type))

	return c, nil
}

// ListCategories returns every category of the owner, newest first.
func (r *Repository) ListCategories(ctx context.Context, ownerID string) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, owner_id, name, type, color, parent_id, created_at
		FROM categories WHERE owner_id = ? ORDER BY created_at DESC, id`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []core.Category
	for rows.Next() {
		var (
			c         core.Category
			typ       string
			createdAt string
		)
		if err := rows.Scan(&c.ID, &c.OwnerID, &c.Name, &typ, &c.Color, &c.ParentID, &createdAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		c.Type = core.TransactionType(typ)
		if c.CreatedAt, err = decodeTime(createdAt); err != nil {
			return nil, fmt.Errorf("decode created_at: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return out, nil
}

// DeleteCategory removes a category. Transactions that referenced it become
// uncategorized, and its budgets are removed.
func (r *Repository) DeleteCategory(ctx context.Context, ownerID, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete category: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"DELETE FROM categories WHERE id = ? AND owner_id = ?", id, ownerID)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM budgets WHERE category_id = ? AND owner_id = ?", id, ownerID); err != nil {
		return fmt.Errorf("delete category budgets: %w", err)
	}

	return tx.Commit()
}

// UpsertBudget stores a budget, replacing the amount when one already exists
// for the same owner, month and scope.
func (r *Repository) UpsertBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}

	now := time.Now().UTC()
	b.ID = uuid.NewString()
	b.CreatedAt = now
	b.UpdatedAt = now

	categoryID, scoped := b.Scope.CategoryID()
	if scoped {
		// Budgets only make sense against expense categories.
		if err := r.checkCategoryUse(ctx, b.OwnerID, categoryID, core.Expense); err != nil {
			return core.Budget{}, err
		}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO budgets (id, owner_id, amount_cents, month, category_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (owner_id, month, category_id)
		DO UPDATE SET amount_cents = excluded.amount_cents, updated_at = excluded.updated_at`,
		b.ID, b.OwnerID, b.Amount.Cents, b.Month, categoryID,
		encodeTime(b.CreatedAt), encodeTime(b.UpdatedAt))
	if err != nil {
		return core.Budget{}, fmt.Errorf("upsert budget: %w", err)
	}

	stored, err := r.budgetByScope(ctx, b.OwnerID, b.Month, categoryID)
	if err != nil {
		return core.Budget{}, err
	}

	slog.InfoContext(ctx, "Budget saved",
		"id", stored.ID, "owner_id", stored.OwnerID, "month", stored.Month,
		"amount_cents", stored.Amount.Cents, "overall", stored.Scope.IsOverall())

	return stored, nil
}

func (r *Repository) budgetByScope(ctx context.Context, ownerID, month, categoryID string) (core.Budget, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, owner_id, amount_cents, month, category_id, created_at, updated_at
		FROM budgets WHERE owner_id = ? AND month = ? AND category_id = ?`,
		ownerID, month, categoryID)
	b, err := scanBudget(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Budget{}, ErrNotFound
	}
	if err != nil {
		return core.Budget{}, fmt.Errorf("get budget: %w", err)
	}
	return b, nil
}

// BudgetsForMonth returns the owner's budgets for one month key, the overall
// budget first.
func (r *Repository) BudgetsForMonth(ctx context.Context, ownerID, month string) ([]core.Budget, error) {
	if !core.ValidMonthKey(month) {
		return nil, core.ErrInvalidMonthKey
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, owner_id, amount_cents, month, category_id, created_at, updated_at
		FROM budgets WHERE owner_id = ? AND month = ? ORDER BY category_id, id`,
		ownerID, month)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var out []core.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate budgets: %w", err)
	}
	return out, nil
}

func (r *Repository) DeleteBudget(ctx context.Context, ownerID, id string) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM budgets WHERE id = ? AND owner_id = ?", id, ownerID)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanBudget(row rowScanner) (core.Budget, error) {
	var (
		b          core.Budget
		categoryID string
		createdAt  string
		updatedAt  string
	)
	err := row.Scan(&b.ID, &b.OwnerID, &b.Amount.Cents, &b.Month, &categoryID, &createdAt, &updatedAt)
	if err != nil {
		return core.Budget{}, err
	}
	if categoryID != "" {
		b.Scope = core.ScopeCategory(categoryID)
	}
	if b.CreatedAt, err = decodeTime(createdAt); err != nil {
		return core.Budget{}, fmt.Errorf("decode created_at: %w", err)
	}
	if b.UpdatedAt, err = decodeTime(updatedAt); err != nil {
		return core.Budget{}, fmt.Errorf("decode updated_at: %w", err)
	}
	return b, nil
}
