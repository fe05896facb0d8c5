package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/Mizanur7464/home-depot/infrastructure/database/postgres"
	"github.com/Mizanur7464/home-depot/internal/domain"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

const dealsTable = "deals"

const dealColumns = `id, sku, title, description, image_url, current_price, original_price,
	discount_percent, price_ending, category_id, online_available, in_store_available,
	availability_data, store_locations, is_featured, source, last_updated, created_at`

type DealRepository interface {
	SaveOrUpdate(deals []*domain.Deal) (int, error)
	GetBySKU(sku string) (*domain.Deal, error)
	GetByID(id string) (*domain.Deal, error)
	List(filters domain.DealFilters) ([]*domain.Deal, error)
	MarkUnavailableExcept(seenSKUs []string) (int64, error)
	SetFeatured(id string, featured bool) error
}

type dealRepository struct {
	conn *postgres.Connection
}

func NewDealRepository(conn *postgres.Connection) DealRepository {
	return &dealRepository{
		conn: conn,
	}
}

// SaveOrUpdate upserts deals keyed by SKU. A refresh must never clobber
// editorial state: created_at and is_featured survive updates. Returns the
// number of rows written.
func (r *dealRepository) SaveOrUpdate(deals []*domain.Deal) (int, error) {
	if len(deals) == 0 {
		return 0, nil
	}

	query := squirrel.StatementBuilder.
		Insert(dealsTable).
		Columns(
			"id", "sku", "title", "description", "image_url", "current_price",
			"original_price", "discount_percent", "price_ending", "category_id",
			"online_available", "in_store_available", "availability_data",
			"store_locations", "source", "last_updated",
		).
		PlaceholderFormat(squirrel.Dollar)

	count := 0
	for _, deal := range deals {
		if deal.SKU == "" {
			continue
		}

		availabilityData, err := marshalJSONB(deal.AvailabilityData)
		if err != nil {
			return count, fmt.Errorf("failed to encode availability data for sku %s: %w", deal.SKU, err)
		}

		storeLocations, err := marshalJSONB(deal.StoreLocations)
		if err != nil {
			return count, fmt.Errorf("failed to encode store locations for sku %s: %w", deal.SKU, err)
		}

		id := deal.ID
		if id == "" {
			id = uuid.NewString()
		}

		query = query.Values(
			id,
			deal.SKU,
			deal.Title,
			nullString(deal.Description),
			nullString(deal.ImageURL),
			deal.CurrentPrice,
			deal.OriginalPrice,
			deal.DiscountPercent,
			nullString(deal.PriceEnding),
			deal.CategoryID,
			deal.OnlineAvailable,
			deal.InStoreAvailable,
			availabilityData,
			storeLocations,
			deal.Source,
			deal.LastUpdatedAt,
		)
		count++
	}

	if count == 0 {
		return 0, nil
	}

	query = query.Suffix(`
		ON CONFLICT (sku) DO UPDATE SET
			title = EXCLUDED.title,
			description = COALESCE(EXCLUDED.description, deals.description),
			image_url = COALESCE(EXCLUDED.image_url, deals.image_url),
			current_price = EXCLUDED.current_price,
			original_price = EXCLUDED.original_price,
			discount_percent = EXCLUDED.discount_percent,
			price_ending = EXCLUDED.price_ending,
			category_id = COALESCE(EXCLUDED.category_id, deals.category_id),
			online_available = EXCLUDED.online_available,
			in_store_available = EXCLUDED.in_store_available,
			availability_data = EXCLUDED.availability_data,
			store_locations = EXCLUDED.store_locations,
			source = EXCLUDED.source,
			last_updated = EXCLUDED.last_updated
	`)

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build query: %w", err)
	}

	_, err = r.conn.Exec(sqlQuery, args...)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return 0, fmt.Errorf("database error: %w (code: %s)", pqErr, pqErr.Code)
		}
		return 0, fmt.Errorf("failed to execute query: %w", err)
	}

	return count, nil
}

func (r *dealRepository) GetBySKU(sku string) (*domain.Deal, error) {
	return r.getOne(squirrel.Eq{"sku": sku})
}

func (r *dealRepository) GetByID(id string) (*domain.Deal, error) {
	return r.getOne(squirrel.Eq{"id": id})
}

func (r *dealRepository) getOne(whereClause map[string]interface{}) (*domain.Deal, error) {
	dealSQL, dealArgs, err := squirrel.
		Select(dealColumns).
		From(dealsTable).
		Where(whereClause).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	row := r.conn.QueryRow(dealSQL, dealArgs...)

	deal, err := deserializeDeal(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return deal, nil
}

// List fetches deals for the read path. Unless the caller opts out via
// ShowAll or an explicit price ending, only clearance-ending items in stock
// on at least one channel are returned. Fetches twice the requested limit so
// the caller can deduplicate by SKU before slicing.
func (r *dealRepository) List(filters domain.DealFilters) ([]*domain.Deal, error) {
	queryBuilder := squirrel.
		Select(dealColumns).
		From(dealsTable).
		OrderBy("is_featured DESC", "last_updated DESC").
		PlaceholderFormat(squirrel.Dollar)

	if filters.SKU != "" {
		queryBuilder = queryBuilder.Where(squirrel.Eq{"sku": filters.SKU})
	}

	switch {
	case filters.PriceEnding != "":
		queryBuilder = queryBuilder.Where(squirrel.Eq{"price_ending": filters.PriceEnding})
	case !filters.ShowAll:
		queryBuilder = queryBuilder.Where(squirrel.Eq{"price_ending": domain.ClearanceEndings})
	}

	if filters.CategoryID != "" {
		queryBuilder = queryBuilder.Where(squirrel.Eq{"category_id": filters.CategoryID})
	}

	if filters.MinDiscount != nil {
		queryBuilder = queryBuilder.Where(squirrel.GtOrEq{"discount_percent": *filters.MinDiscount})
	}

	if filters.MaxDiscount != nil {
		queryBuilder = queryBuilder.Where(squirrel.LtOrEq{"discount_percent": *filters.MaxDiscount})
	}

	if filters.ZipCode != "" {
		queryBuilder = queryBuilder.Where(squirrel.Expr("store_locations::text LIKE ?", "%"+filters.ZipCode+"%"))
	}

	switch {
	case filters.OnlineOnly:
		queryBuilder = queryBuilder.Where(squirrel.Eq{"online_available": true})
	case filters.InStoreOnly:
		queryBuilder = queryBuilder.Where(squirrel.Eq{"in_store_available": true})
	case !filters.ShowAll:
		queryBuilder = queryBuilder.Where(squirrel.Or{
			squirrel.Eq{"online_available": true},
			squirrel.Eq{"in_store_available": true},
		})
	}

	if filters.FeaturedOnly {
		queryBuilder = queryBuilder.Where(squirrel.Eq{"is_featured": true})
	}

	limit := filters.Limit
	if limit <= 0 {
		limit = 30
	}
	page := filters.Page
	if page <= 0 {
		page = 1
	}

	queryBuilder = queryBuilder.
		Limit(uint64(limit * 2)).
		Offset(uint64((page - 1) * limit))

	dealsSQL, dealsArgs, err := queryBuilder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.conn.Query(dealsSQL, dealsArgs...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	defer rows.Close()

	deals := make([]*domain.Deal, 0)

	for rows.Next() {
		deal, err := deserializeDeal(rows)
		if err != nil {
			return nil, err
		}
		deals = append(deals, deal)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return deals, nil
}

// MarkUnavailableExcept flips availability off for every deal whose SKU was
// not seen in the current refresh. Runs as a single statement so the barrier
// is atomic. Returns the number of deals marked.
func (r *dealRepository) MarkUnavailableExcept(seenSKUs []string) (int64, error) {
	if len(seenSKUs) == 0 {
		// An empty seen set means the refresh produced nothing; wiping the
		// whole catalog on a bad cycle is worse than staleness.
		return 0, nil
	}

	sqlQuery, args, err := squirrel.
		Update(dealsTable).
		Set("online_available", false).
		Set("in_store_available", false).
		Set("last_updated", squirrel.Expr("NOW()")).
		Where(squirrel.Expr("NOT (sku = ANY(?))", pq.Array(seenSKUs))).
		Where(squirrel.Or{
			squirrel.Eq{"online_available": true},
			squirrel.Eq{"in_store_available": true},
		}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build query: %w", err)
	}

	result, err := r.conn.Exec(sqlQuery, args...)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return 0, fmt.Errorf("database error: %w (code: %s)", pqErr, pqErr.Code)
		}
		return 0, fmt.Errorf("failed to execute query: %w", err)
	}

	return result.RowsAffected()
}

func (r *dealRepository) SetFeatured(id string, featured bool) error {
	sqlQuery, args, err := squirrel.
		Update(dealsTable).
		Set("is_featured", featured).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	result, err := r.conn.Exec(sqlQuery, args...)
	if err != nil {
		return fmt.Errorf("failed to execute query: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func deserializeDeal(row rowScanner) (*domain.Deal, error) {
	deal := &domain.Deal{}

	var (
		description      sql.NullString
		imageURL         sql.NullString
		originalPrice    sql.NullFloat64
		discountPercent  sql.NullFloat64
		priceEnding      sql.NullString
		categoryID       sql.NullString
		availabilityData []byte
		storeLocations   []byte
	)

	if err := row.Scan(
		&deal.ID,
		&deal.SKU,
		&deal.Title,
		&description,
		&imageURL,
		&deal.CurrentPrice,
		&originalPrice,
		&discountPercent,
		&priceEnding,
		&categoryID,
		&deal.OnlineAvailable,
		&deal.InStoreAvailable,
		&availabilityData,
		&storeLocations,
		&deal.IsFeatured,
		&deal.Source,
		&deal.LastUpdatedAt,
		&deal.CreatedAt,
	); err != nil {
		return nil, err
	}

	deal.Description = description.String
	deal.ImageURL = imageURL.String
	deal.PriceEnding = priceEnding.String
	if originalPrice.Valid {
		deal.OriginalPrice = &originalPrice.Float64
	}
	if discountPercent.Valid {
		deal.DiscountPercent = &discountPercent.Float64
	}
	if categoryID.Valid {
		deal.CategoryID = &categoryID.String
	}
	if len(availabilityData) > 0 {
		if err := json.Unmarshal(availabilityData, &deal.AvailabilityData); err != nil {
			return nil, fmt.Errorf("failed to decode availability data: %w", err)
		}
	}
	if len(storeLocations) > 0 {
		if err := json.Unmarshal(storeLocations, &deal.StoreLocations); err != nil {
			return nil, fmt.Errorf("failed to decode store locations: %w", err)
		}
	}

	return deal, nil
}

func marshalJSONB(v any) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
