package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"powerloop-backend/internal/domain"
	"powerloop-backend/internal/repository"
)

type productRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) repository.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) List(ctx context.Context) ([]domain.Product, error) {
	query := `SELECT id, name, description, price_cents, stock, active, created_on, updated_on
	          FROM products WHERE active = true ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.PriceCents, &p.Stock, &p.Active, &p.CreatedOn, &p.UpdatedOn); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *productRepository) GetByID(ctx context.Context, id int32) (*domain.Product, error) {
	p := &domain.Product{}
	query := `SELECT id, name, description, price_cents, stock, active, created_on, updated_on FROM products WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Name, &p.Description, &p.PriceCents, &p.Stock, &p.Active, &p.CreatedOn, &p.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *productRepository) AdjustStock(ctx context.Context, id int32, delta int32) error {
	query := `UPDATE products SET stock = stock + $1 WHERE id = $2 AND stock + $1 >= 0`
	res, err := r.db.ExecContext(ctx, query, delta, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("product %d stock adjustment by %d would go negative", id, delta)
	}
	return nil
}
