package repository

import (
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/Mizanur7464/home-depot/infrastructure/database/postgres"
	"github.com/Mizanur7464/home-depot/internal/domain"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

const categoriesTable = "categories"

type CategoryRepository interface {
	ListCategories(onlyActive bool) ([]*domain.Category, error)
	GetCategoryByID(id string) (*domain.Category, error)
	CreateCategory(category *domain.Category) error
	UpdateCategory(category *domain.UpdateCategoryRequest) error
	DeleteCategory(id string) error
}

type categoryRepository struct {
	conn *postgres.Connection
}

func NewCategoryRepository(conn *postgres.Connection) CategoryRepository {
	return &categoryRepository{
		conn: conn,
	}
}

func (r *categoryRepository) ListCategories(onlyActive bool) ([]*domain.Category, error) {
	queryBuilder := squirrel.
		Select("id, name, slug, is_active, created_at").
		From(categoriesTable).
		OrderBy("name ASC").
		PlaceholderFormat(squirrel.Dollar)

	if onlyActive {
		queryBuilder = queryBuilder.Where(squirrel.Eq{"is_active": true})
	}

	categoriesSQL, categoriesArgs, err := queryBuilder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.conn.Query(categoriesSQL, categoriesArgs...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	defer rows.Close()

	categories := make([]*domain.Category, 0)

	for rows.Next() {
		category := &domain.Category{}
		if err := rows.Scan(
			&category.ID,
			&category.Name,
			&category.Slug,
			&category.IsActive,
			&category.CreatedAt,
		); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return categories, nil
}

func (r *categoryRepository) GetCategoryByID(id string) (*domain.Category, error) {
	categorySQL, categoryArgs, err := squirrel.
		Select("id, name, slug, is_active, created_at").
		From(categoriesTable).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	category := &domain.Category{}
	row := r.conn.QueryRow(categorySQL, categoryArgs...)
	if err := row.Scan(
		&category.ID,
		&category.Name,
		&category.Slug,
		&category.IsActive,
		&category.CreatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return category, nil
}

func (r *categoryRepository) CreateCategory(category *domain.Category) error {
	if category.ID == "" {
		category.ID = uuid.NewString()
	}

	sqlQuery, args, err := squirrel.StatementBuilder.
		Insert(categoriesTable).
		Columns("id", "name", "slug", "is_active").
		Values(category.ID, category.Name, category.Slug, category.IsActive).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	_, err = r.conn.Exec(sqlQuery, args...)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return domain.ErrCategoryAlreadyExists
		}
		return fmt.Errorf("failed to execute query: %w", err)
	}

	return nil
}

func (r *categoryRepository) UpdateCategory(category *domain.UpdateCategoryRequest) error {
	if category.ID == "" {
		return fmt.Errorf("ID is required")
	}

	queryBuilder := squirrel.
		Update(categoriesTable).
		Where(squirrel.Eq{"id": category.ID}).
		PlaceholderFormat(squirrel.Dollar)

	if category.Name != nil {
		queryBuilder = queryBuilder.Set("name", *category.Name)
	}

	if category.Slug != nil {
		queryBuilder = queryBuilder.Set("slug", *category.Slug)
	}

	if category.IsActive != nil {
		queryBuilder = queryBuilder.Set("is_active", *category.IsActive)
	}

	sqlQuery, args, err := queryBuilder.ToSql()
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

// DeleteCategory removes the category. Deals keep running with a dangling
// reference cleared by the FK's ON DELETE SET NULL.
func (r *categoryRepository) DeleteCategory(id string) error {
	sqlQuery, args, err := squirrel.
		Delete(categoriesTable).
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
