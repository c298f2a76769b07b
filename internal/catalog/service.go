// Package catalog serves the garment catalog: products, their per-side
// mockup photos, and the designer-configured print areas the placement
// engine uses for defaults.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inkthread/inkthread/backend-go/internal/placement"
)

var ErrNotFound = errors.New("product not found")

type Service struct {
	pool *pgxpool.Pool
}

func NewService(pool *pgxpool.Pool) *Service {
	return &Service{pool: pool}
}

type Product struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	PriceCents  int           `json:"priceCents"`
	Sides       []ProductSide `json:"sides"`
}

// ProductSide is one printable garment view: the mockup photo the shopper
// designs over plus its print area in fractional coordinates.
type ProductSide struct {
	Side      string              `json:"side"`
	MockupURL string              `json:"mockupUrl"`
	PrintArea placement.PrintArea `json:"printArea"`
}

func (s *Service) List(ctx context.Context) ([]Product, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, description, price_cents FROM products WHERE active ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.PriceCents); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	for i := range products {
		sides, err := s.sides(ctx, products[i].ID)
		if err != nil {
			return nil, err
		}
		products[i].Sides = sides
	}
	return products, nil
}

func (s *Service) Get(ctx context.Context, productID string) (*Product, error) {
	var p Product
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, description, price_cents FROM products WHERE id = $1 AND active`,
		productID,
	).Scan(&p.ID, &p.Name, &p.Description, &p.PriceCents)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}

	sides, err := s.sides(ctx, productID)
	if err != nil {
		return nil, err
	}
	p.Sides = sides
	return &p, nil
}

// PrintAreas loads a product's print areas keyed by side, ready for
// placement.NewRegistryWithAreas. Sides the product does not configure keep
// the engine's built-in defaults.
func (s *Service) PrintAreas(ctx context.Context, productID string) (map[placement.Side]placement.PrintArea, error) {
	sides, err := s.sides(ctx, productID)
	if err != nil {
		return nil, err
	}
	areas := make(map[placement.Side]placement.PrintArea, len(sides))
	for _, side := range sides {
		areas[placement.ParseSide(side.Side)] = side.PrintArea
	}
	return areas, nil
}

func (s *Service) sides(ctx context.Context, productID string) ([]ProductSide, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT side, mockup_url, area_center_x, area_center_y, area_width, area_height
		 FROM product_sides WHERE product_id = $1 ORDER BY side`,
		productID,
	)
	if err != nil {
		return nil, fmt.Errorf("list product sides: %w", err)
	}
	defer rows.Close()

	var sides []ProductSide
	for rows.Next() {
		var ps ProductSide
		if err := rows.Scan(
			&ps.Side, &ps.MockupURL,
			&ps.PrintArea.CenterX, &ps.PrintArea.CenterY,
			&ps.PrintArea.Width, &ps.PrintArea.Height,
		); err != nil {
			return nil, fmt.Errorf("scan product side: %w", err)
		}
		sides = append(sides, ps)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list product sides: %w", err)
	}
	return sides, nil
}
