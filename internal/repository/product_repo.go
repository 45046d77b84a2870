package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"skincare_service/internal/domain"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

const productColumns = `id, name, image_kind, image_ref, price, brand, purchase_link, rating, skin_issue`

type postgresProductRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresProductRepository(db *sql.DB, logger *logrus.Logger) domain.ProductRepository {
	return &postgresProductRepository{
		db:  db,
		log: logger,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var (
		product domain.Product
		kind    string
		ref     string
		rating  sql.NullFloat64
		issue   string
	)
	if err := row.Scan(&product.ID, &product.Name, &kind, &ref, &product.Price,
		&product.Brand, &product.PurchaseLink, &rating, &issue); err != nil {
		return nil, err
	}
	if domain.ImageKind(kind) == domain.ImageRemote {
		product.Image = domain.RemoteImage(ref)
	} else {
		product.Image = domain.LocalImage(ref)
	}
	if rating.Valid {
		r := rating.Float64
		product.Rating = &r
	}
	product.SkinIssue = domain.SkinIssue(issue)
	return &product, nil
}

func productArgs(p *domain.Product) []any {
	var rating sql.NullFloat64
	if p.Rating != nil {
		rating = sql.NullFloat64{Float64: *p.Rating, Valid: true}
	}
	return []any{p.ID, p.Name, string(p.Image.Kind), p.Image.Value(), p.Price,
		p.Brand, p.PurchaseLink, rating, string(p.SkinIssue)}
}

func (r *postgresProductRepository) classify(err error, p *domain.Product) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			r.log.Warnf("Repository: Duplicate product ID %s", p.ID)
			return fmt.Errorf("product with id %s: %w", p.ID, domain.ErrConflict)
		case "23514":
			r.log.Warnf("Repository: Check constraint violation for product '%s': %s", p.Name, pqErr.Message)
			return fmt.Errorf("%w: constraint violation: %s", domain.ErrInvalidProduct, pqErr.Message)
		}
	}
	return nil
}

func (r *postgresProductRepository) CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	query := `
        INSERT INTO products (` + productColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	if _, err := r.db.ExecContext(ctx, query, productArgs(product)...); err != nil {
		if classified := r.classify(err, product); classified != nil {
			return nil, classified
		}
		r.log.Errorf("Repository: Failed to create product '%s': %v", product.Name, err)
		return nil, fmt.Errorf("could not create product: %w", err)
	}
	r.log.Infof("Repository: Product created successfully with ID: %s, Name: %s", product.ID, product.Name)
	return product, nil
}

func (r *postgresProductRepository) UpsertProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	query := `
        INSERT INTO products (` + productColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        ON CONFLICT (id) DO UPDATE SET
            name = EXCLUDED.name,
            image_kind = EXCLUDED.image_kind,
            image_ref = EXCLUDED.image_ref,
            price = EXCLUDED.price,
            brand = EXCLUDED.brand,
            purchase_link = EXCLUDED.purchase_link,
            rating = EXCLUDED.rating,
            skin_issue = EXCLUDED.skin_issue,
            updated_at = now()`

	if _, err := r.db.ExecContext(ctx, query, productArgs(product)...); err != nil {
		if classified := r.classify(err, product); classified != nil {
			return nil, classified
		}
		r.log.Errorf("Repository: Failed to upsert product '%s': %v", product.ID, err)
		return nil, fmt.Errorf("could not upsert product: %w", err)
	}
	r.log.Debugf("Repository: Product upserted with ID: %s", product.ID)
	return product, nil
}

func (r *postgresProductRepository) GetProductByID(ctx context.Context, id string) (*domain.Product, error) {
	query := `
        SELECT ` + productColumns + `
        FROM products
        WHERE id = $1`

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Repository: Product with ID %s not found", id)
			return nil, fmt.Errorf("product with id %s: %w", id, domain.ErrNotFound)
		}
		r.log.Errorf("Repository: Failed to get product by ID %s: %v", id, err)
		return nil, fmt.Errorf("could not get product by id: %w", err)
	}

	r.log.Infof("Repository: Product retrieved successfully with ID: %s", id)
	return product, nil
}

func (r *postgresProductRepository) UpdateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	query := `
        UPDATE products SET
            name = $2, image_kind = $3, image_ref = $4, price = $5, brand = $6,
            purchase_link = $7, rating = $8, skin_issue = $9, updated_at = now()
        WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, productArgs(product)...)
	if err != nil {
		if classified := r.classify(err, product); classified != nil {
			return nil, classified
		}
		r.log.Errorf("Repository: Failed to update product ID %s: %v", product.ID, err)
		return nil, fmt.Errorf("could not update product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.log.Errorf("Repository: Failed to get rows affected after update for ID %s: %v", product.ID, err)
		return nil, fmt.Errorf("could not confirm product update: %w", err)
	}
	if rowsAffected == 0 {
		r.log.Warnf("Repository: Product with ID %s not found for update (0 rows affected)", product.ID)
		return nil, fmt.Errorf("product with id %s: %w", product.ID, domain.ErrNotFound)
	}

	r.log.Infof("Repository: Update successful for product ID %s", product.ID)
	return product, nil
}

func (r *postgresProductRepository) DeleteProduct(ctx context.Context, id string) error {
	query := `DELETE FROM products WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		r.log.Errorf("Repository: Failed to delete product ID %s: %v", id, err)
		return fmt.Errorf("could not delete product: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.log.Errorf("Repository: Failed to get rows affected after deleting product ID %s: %v", id, err)
		return fmt.Errorf("could not confirm product deletion: %w", err)
	}
	if rowsAffected == 0 {
		r.log.Warnf("Repository: Attempted to delete non-existent product ID %s", id)
		return fmt.Errorf("product with id %s: %w", id, domain.ErrNotFound)
	}
	r.log.Infof("Repository: Product deleted successfully with ID: %s", id)
	return nil
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func (r *postgresProductRepository) ListProducts(ctx context.Context, limit, offset int) ([]domain.Product, error) {
	limit, offset = clampPage(limit, offset)

	query := `
        SELECT ` + productColumns + `
        FROM products
        ORDER BY created_at ASC, id ASC
        LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		r.log.Errorf("Repository: Failed to list products with limit %d, offset %d: %v", limit, offset, err)
		return nil, fmt.Errorf("could not list products: %w", err)
	}
	defer rows.Close()

	products, err := r.collect(rows)
	if err != nil {
		return nil, err
	}
	r.log.Infof("Repository: Retrieved %d products (limit: %d, offset: %d)", len(products), limit, offset)
	return products, nil
}

func (r *postgresProductRepository) ListProductsBySkinIssue(ctx context.Context, issue domain.SkinIssue, limit, offset int) ([]domain.Product, error) {
	limit, offset = clampPage(limit, offset)

	query := `
        SELECT ` + productColumns + `
        FROM products
        WHERE skin_issue = $1
        ORDER BY rating DESC NULLS LAST, id ASC
        LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, string(issue), limit, offset)
	if err != nil {
		r.log.Errorf("Repository: Failed to list products for skin issue %s (limit %d, offset %d): %v", issue, limit, offset, err)
		return nil, fmt.Errorf("could not list products by skin issue: %w", err)
	}
	defer rows.Close()

	products, err := r.collect(rows)
	if err != nil {
		return nil, err
	}
	r.log.Infof("Repository: Retrieved %d products for skin issue %s (limit: %d, offset: %d)", len(products), issue, limit, offset)
	return products, nil
}

func (r *postgresProductRepository) collect(rows *sql.Rows) ([]domain.Product, error) {
	products := []domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			r.log.Errorf("Repository: Failed to scan product row: %v", err)
			return nil, fmt.Errorf("error scanning product data: %w", err)
		}
		products = append(products, *product)
	}
	if err := rows.Err(); err != nil {
		r.log.Errorf("Repository: Error during products list iteration: %v", err)
		return nil, fmt.Errorf("error iterating products: %w", err)
	}
	return products, nil
}
