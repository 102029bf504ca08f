package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for product persistence. The SQLite
// implementation below is the only production one; tests may substitute
// their own.
type Repository interface {
	// GetByID retrieves a product by its unique identifier.
	// Returns ErrProductNotFound if the product does not exist.
	GetByID(ctx context.Context, id string) (*Product, error)

	// List retrieves one page of the catalogue, optionally filtered by a
	// free-text search over name and description.
	List(ctx context.Context, filter ListFilter) (*Page, error)

	// ListByOwner retrieves all products created by a specific user.
	ListByOwner(ctx context.Context, ownerID string) ([]Product, error)

	// Create validates and inserts a new product, assigning its ID and
	// timestamps.
	Create(ctx context.Context, p *Product) error

	// Update applies a partial patch and returns the updated product.
	// Returns ErrProductNotFound if the product does not exist.
	Update(ctx context.Context, id string, patch Update) (*Product, error)

	// Delete removes a product by ID.
	// Returns ErrProductNotFound if the product does not exist.
	Delete(ctx context.Context, id string) error
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewRepository creates a SQLite-backed product repository.
func NewRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Reads join the owning user so responses can carry the creator's display
// name without a second query.
const (
	productColumns = "p.id, p.name, p.description, p.price, p.stock, p.owner_id, u.name, p.created_at, p.updated_at"
	productFrom    = "products p LEFT JOIN users u ON u.id = p.owner_id"
)

// GetByID retrieves a product by its unique identifier.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*Product, error) {
	query := "SELECT " + productColumns + " FROM " + productFrom + " WHERE p.id = ?"

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("querying product by id: %w", err)
	}
	return p, nil
}

// List retrieves one page of the catalogue.
func (r *SQLiteRepository) List(ctx context.Context, filter ListFilter) (*Page, error) {
	filter = filter.normalize()

	where := ""
	args := []any{}
	if filter.Search != "" {
		// LIKE is case-insensitive for ASCII in SQLite.
		where = ` WHERE p.name LIKE ? ESCAPE '\' OR p.description LIKE ? ESCAPE '\'`
		pattern := "%" + escapeLike(filter.Search) + "%"
		args = append(args, pattern, pattern)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM products p"+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("counting products: %w", err)
	}

	query := "SELECT " + productColumns + " FROM " + productFrom + where +
		" ORDER BY p.created_at DESC, p.id LIMIT ? OFFSET ?"
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	products, err := r.queryProducts(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	return &Page{
		Products:   products,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: (total + filter.Limit - 1) / filter.Limit,
	}, nil
}

// ListByOwner retrieves all products created by a specific user.
func (r *SQLiteRepository) ListByOwner(ctx context.Context, ownerID string) ([]Product, error) {
	query := "SELECT " + productColumns + " FROM " + productFrom +
		" WHERE p.owner_id = ? ORDER BY p.created_at DESC, p.id"
	return r.queryProducts(ctx, query, ownerID)
}

// Create validates and inserts a new product.
func (r *SQLiteRepository) Create(ctx context.Context, p *Product) error {
	p.Name = strings.TrimSpace(p.Name)
	if err := Validate(p); err != nil {
		return err
	}

	p.ID = "prd-" + uuid.NewString()[:8]
	now := time.Now().UTC().Truncate(time.Second)
	p.CreatedAt = now
	p.UpdatedAt = now

	query := `
		INSERT INTO products (id, name, description, price, stock, owner_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.Name, p.Description, p.Price, p.Stock, p.OwnerID,
		p.CreatedAt.Format(time.RFC3339), p.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting product: %w", err)
	}
	return nil
}

// Update applies a partial patch. Absent fields keep their stored values
// via COALESCE, so the patch and the read-modify-write race disappear into
// a single statement.
func (r *SQLiteRepository) Update(ctx context.Context, id string, patch Update) (*Product, error) {
	if patch.Name != nil {
		trimmed := strings.TrimSpace(*patch.Name)
		patch.Name = &trimmed
	}
	if err := ValidateUpdate(patch); err != nil {
		return nil, err
	}

	query := `
		UPDATE products
		SET name        = COALESCE(?, name),
			description = COALESCE(?, description),
			price       = COALESCE(?, price),
			stock       = COALESCE(?, stock),
			updated_at  = ?
		WHERE id = ?`

	now := time.Now().UTC().Truncate(time.Second)
	res, err := r.db.ExecContext(ctx, query,
		patch.Name, patch.Description, patch.Price, patch.Stock,
		now.Format(time.RFC3339), id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating product: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("checking update result: %w", err)
	}
	if affected == 0 {
		return nil, ErrProductNotFound
	}

	return r.GetByID(ctx, id)
}

// Delete removes a product by ID.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM products WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting product: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *SQLiteRepository) queryProducts(ctx context.Context, query string, args ...any) ([]Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying products: %w", err)
	}
	defer rows.Close()

	products := []Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning product row: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating product rows: %w", err)
	}
	return products, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(row scanner) (*Product, error) {
	var p Product
	var creator sql.NullString
	var createdAt, updatedAt string

	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.OwnerID, &creator, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	p.CreatorName = creator.String

	if p.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if p.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &p, nil
}

// escapeLike protects LIKE metacharacters in user-supplied search terms.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}
