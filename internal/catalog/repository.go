package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrWoodTypeNotFound  = errors.New("wood type not found")
	ErrFinishNotFound    = errors.New("finish not found")
	ErrCostSheetNotFound = errors.New("no active cost sheet")
)

// ProductFilter narrows ListProducts. Zero value lists every active product.
type ProductFilter struct {
	Category     FurnitureCategory
	FeaturedOnly bool
}

type Repository interface {
	ListWoodTypes(ctx context.Context) ([]WoodType, error)
	ListFinishes(ctx context.Context) ([]Finish, error)
	ListExtras(ctx context.Context) ([]Extra, error)
	GetWoodTypeByID(ctx context.Context, id uuid.UUID) (*WoodType, error)
	GetFinishByID(ctx context.Context, id uuid.UUID) (*Finish, error)
	GetExtrasByIDs(ctx context.Context, ids []uuid.UUID) ([]Extra, error)
	ListProducts(ctx context.Context, filter ProductFilter) ([]Product, error)
	GetProductByID(ctx context.Context, id uuid.UUID) (*Product, error)
	GetActiveCostSheet(ctx context.Context) (*CostSheet, error)
}

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) ListWoodTypes(ctx context.Context) ([]WoodType, error) {
	query := `
		SELECT id, name, description, price_multiplier, cost_per_cubic_meter, image_url, is_active, created_at
		FROM wood_types
		WHERE is_active = true
		ORDER BY name
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query wood types: %w", err)
	}
	defer rows.Close()

	woodTypes := make([]WoodType, 0)
	for rows.Next() {
		var wt WoodType
		err := rows.Scan(&wt.ID, &wt.Name, &wt.Description, &wt.PriceMultiplier, &wt.CostPerCubicMeter, &wt.ImageURL, &wt.IsActive, &wt.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan wood type: %w", err)
		}
		woodTypes = append(woodTypes, wt)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating wood types: %w", err)
	}

	return woodTypes, nil
}

func (r *postgresRepository) ListFinishes(ctx context.Context) ([]Finish, error) {
	query := `
		SELECT id, name, description, cost_per_square_meter, is_active, created_at
		FROM finishes
		WHERE is_active = true
		ORDER BY name
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query finishes: %w", err)
	}
	defer rows.Close()

	finishes := make([]Finish, 0)
	for rows.Next() {
		var f Finish
		err := rows.Scan(&f.ID, &f.Name, &f.Description, &f.CostPerSquareMeter, &f.IsActive, &f.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan finish: %w", err)
		}
		finishes = append(finishes, f)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating finishes: %w", err)
	}

	return finishes, nil
}

func (r *postgresRepository) ListExtras(ctx context.Context) ([]Extra, error) {
	query := `
		SELECT id, name, description, base_price, is_active, created_at
		FROM extras
		WHERE is_active = true
		ORDER BY name
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query extras: %w", err)
	}
	defer rows.Close()

	return scanExtras(rows)
}

func (r *postgresRepository) GetWoodTypeByID(ctx context.Context, id uuid.UUID) (*WoodType, error) {
	query := `
		SELECT id, name, description, price_multiplier, cost_per_cubic_meter, image_url, is_active, created_at
		FROM wood_types
		WHERE id = $1
	`

	var wt WoodType
	err := r.db.QueryRow(ctx, query, id).Scan(&wt.ID, &wt.Name, &wt.Description, &wt.PriceMultiplier, &wt.CostPerCubicMeter, &wt.ImageURL, &wt.IsActive, &wt.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrWoodTypeNotFound
		}
		return nil, fmt.Errorf("repository: failed to select wood type %s: %w", id, err)
	}

	return &wt, nil
}

func (r *postgresRepository) GetFinishByID(ctx context.Context, id uuid.UUID) (*Finish, error) {
	query := `
		SELECT id, name, description, cost_per_square_meter, is_active, created_at
		FROM finishes
		WHERE id = $1
	`

	var f Finish
	err := r.db.QueryRow(ctx, query, id).Scan(&f.ID, &f.Name, &f.Description, &f.CostPerSquareMeter, &f.IsActive, &f.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrFinishNotFound
		}
		return nil, fmt.Errorf("repository: failed to select finish %s: %w", id, err)
	}

	return &f, nil
}

func (r *postgresRepository) GetExtrasByIDs(ctx context.Context, ids []uuid.UUID) ([]Extra, error) {
	if len(ids) == 0 {
		return []Extra{}, nil
	}

	query := `
		SELECT id, name, description, base_price, is_active, created_at
		FROM extras
		WHERE id = ANY($1)
	`

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query extras by ids: %w", err)
	}
	defer rows.Close()

	return scanExtras(rows)
}

func (r *postgresRepository) ListProducts(ctx context.Context, filter ProductFilter) ([]Product, error) {
	query := `
		SELECT p.id, p.name, p.description, p.category, p.base_price,
		       p.wood_type_id, p.finish_id,
		       p.dimensions_length, p.dimensions_width, p.dimensions_height,
		       p.stock_quantity, p.is_featured, p.is_active, p.images,
		       p.created_at, p.updated_at
		FROM products p
		WHERE p.is_active = true
	`
	args := []any{}
	if filter.Category != "" {
		args = append(args, string(filter.Category))
		query += fmt.Sprintf(" AND p.category = $%d", len(args))
	}
	if filter.FeaturedOnly {
		query += " AND p.is_featured = true"
	}
	query += " ORDER BY p.name"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query products: %w", err)
	}
	defer rows.Close()

	products := make([]Product, 0)
	for rows.Next() {
		var p Product
		err := rows.Scan(
			&p.ID, &p.Name, &p.Description, &p.Category, &p.BasePrice,
			&p.WoodTypeID, &p.FinishID,
			&p.DimensionsLength, &p.DimensionsWidth, &p.DimensionsHeight,
			&p.StockQuantity, &p.IsFeatured, &p.IsActive, &p.Images,
			&p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating products: %w", err)
	}

	if err := r.attachReferences(ctx, products); err != nil {
		return nil, err
	}

	return products, nil
}

func (r *postgresRepository) GetProductByID(ctx context.Context, id uuid.UUID) (*Product, error) {
	query := `
		SELECT p.id, p.name, p.description, p.category, p.base_price,
		       p.wood_type_id, p.finish_id,
		       p.dimensions_length, p.dimensions_width, p.dimensions_height,
		       p.stock_quantity, p.is_featured, p.is_active, p.images,
		       p.created_at, p.updated_at
		FROM products p
		WHERE p.id = $1
	`

	var p Product
	err := r.db.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Description, &p.Category, &p.BasePrice,
		&p.WoodTypeID, &p.FinishID,
		&p.DimensionsLength, &p.DimensionsWidth, &p.DimensionsHeight,
		&p.StockQuantity, &p.IsFeatured, &p.IsActive, &p.Images,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("repository: failed to select product %s: %w", id, err)
	}

	products := []Product{p}
	if err := r.attachReferences(ctx, products); err != nil {
		return nil, err
	}

	return &products[0], nil
}

func (r *postgresRepository) GetActiveCostSheet(ctx context.Context) (*CostSheet, error) {
	query := `
		SELECT id, name, labor_rate_per_hour, profit_margin_percentage, overhead_percentage,
		       complexity_multiplier_dining_table, complexity_multiplier_coffee_table,
		       complexity_multiplier_bookshelf, complexity_multiplier_bed_frame,
		       complexity_multiplier_desk, complexity_multiplier_cabinet,
		       is_active, created_at, updated_at
		FROM cost_sheets
		WHERE is_active = true
		ORDER BY updated_at DESC
		LIMIT 1
	`

	var cs CostSheet
	err := r.db.QueryRow(ctx, query).Scan(
		&cs.ID, &cs.Name, &cs.LaborRatePerHour, &cs.ProfitMarginPercentage, &cs.OverheadPercentage,
		&cs.ComplexityMultiplierDiningTable, &cs.ComplexityMultiplierCoffeeTable,
		&cs.ComplexityMultiplierBookshelf, &cs.ComplexityMultiplierBedFrame,
		&cs.ComplexityMultiplierDesk, &cs.ComplexityMultiplierCabinet,
		&cs.IsActive, &cs.CreatedAt, &cs.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCostSheetNotFound
		}
		return nil, fmt.Errorf("repository: failed to select active cost sheet: %w", err)
	}

	return &cs, nil
}

// attachReferences joins the referenced wood types and finishes onto the
// given products in two batched queries.
func (r *postgresRepository) attachReferences(ctx context.Context, products []Product) error {
	woodIDs := make([]uuid.UUID, 0)
	finishIDs := make([]uuid.UUID, 0)
	for i := range products {
		if products[i].WoodTypeID != nil {
			woodIDs = append(woodIDs, *products[i].WoodTypeID)
		}
		if products[i].FinishID != nil {
			finishIDs = append(finishIDs, *products[i].FinishID)
		}
	}

	woodByID := make(map[uuid.UUID]WoodType)
	if len(woodIDs) > 0 {
		query := `
			SELECT id, name, description, price_multiplier, cost_per_cubic_meter, image_url, is_active, created_at
			FROM wood_types
			WHERE id = ANY($1)
		`
		rows, err := r.db.Query(ctx, query, woodIDs)
		if err != nil {
			return fmt.Errorf("repository: failed to query product wood types: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var wt WoodType
			err := rows.Scan(&wt.ID, &wt.Name, &wt.Description, &wt.PriceMultiplier, &wt.CostPerCubicMeter, &wt.ImageURL, &wt.IsActive, &wt.CreatedAt)
			if err != nil {
				return fmt.Errorf("repository: failed to scan product wood type: %w", err)
			}
			woodByID[wt.ID] = wt
		}
		if err = rows.Err(); err != nil {
			return fmt.Errorf("repository: error iterating product wood types: %w", err)
		}
	}

	finishByID := make(map[uuid.UUID]Finish)
	if len(finishIDs) > 0 {
		query := `
			SELECT id, name, description, cost_per_square_meter, is_active, created_at
			FROM finishes
			WHERE id = ANY($1)
		`
		rows, err := r.db.Query(ctx, query, finishIDs)
		if err != nil {
			return fmt.Errorf("repository: failed to query product finishes: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var f Finish
			err := rows.Scan(&f.ID, &f.Name, &f.Description, &f.CostPerSquareMeter, &f.IsActive, &f.CreatedAt)
			if err != nil {
				return fmt.Errorf("repository: failed to scan product finish: %w", err)
			}
			finishByID[f.ID] = f
		}
		if err = rows.Err(); err != nil {
			return fmt.Errorf("repository: error iterating product finishes: %w", err)
		}
	}

	for i := range products {
		if products[i].WoodTypeID != nil {
			if wt, ok := woodByID[*products[i].WoodTypeID]; ok {
				woodCopy := wt
				products[i].WoodType = &woodCopy
			}
		}
		if products[i].FinishID != nil {
			if f, ok := finishByID[*products[i].FinishID]; ok {
				finishCopy := f
				products[i].Finish = &finishCopy
			}
		}
	}

	return nil
}

func scanExtras(rows pgx.Rows) ([]Extra, error) {
	extras := make([]Extra, 0)
	for rows.Next() {
		var e Extra
		err := rows.Scan(&e.ID, &e.Name, &e.Description, &e.BasePrice, &e.IsActive, &e.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan extra: %w", err)
		}
		extras = append(extras, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating extras: %w", err)
	}

	return extras, nil
}
