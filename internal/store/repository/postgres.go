package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/vroong/store-onboarding-service/internal/model"
	"github.com/vroong/store-onboarding-service/internal/store/dto"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

const insertStoreQuery = `
    INSERT INTO stores (id, name, address, phone, category, image_url, business_number, onboarded_at, created_at)
    VALUES (:id, :name, :address, :phone, :category, :image_url, :business_number, :onboarded_at, :created_at)
`

const insertMenuQuery = `
    INSERT INTO menus (
        id, restaurant_id, restaurant_name, menu_name, price, original_price,
        image_url, category, order_method, payment_method, phone_number,
        description, address, rating, delivery_time, created_at
    )
    VALUES (
        :id, :restaurant_id, :restaurant_name, :menu_name, :price, :original_price,
        :image_url, :category, :order_method, :payment_method, :phone_number,
        :description, :address, :rating, :delivery_time, :created_at
    )
`

// Onboard writes the store row and all menu rows inside one transaction.
// Partial writes are never visible: any failure rolls the whole batch back.
func (r *PGRepository) Onboard(ctx context.Context, s *model.Store, menus []model.Menu) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.NamedExecContext(ctx, insertStoreQuery, s); err != nil {
		return err
	}

	for i := range menus {
		if _, err := tx.NamedExecContext(ctx, insertMenuQuery, &menus[i]); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *PGRepository) FindStoreByID(ctx context.Context, id string) (*model.Store, error) {
	var s model.Store
	query := `SELECT * FROM stores WHERE id = $1 LIMIT 1`
	err := r.DB.GetContext(ctx, &s, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *PGRepository) FindAllStores(ctx context.Context, f *dto.StoreFilters) ([]model.Store, int, error) {
	stores := []model.Store{}
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.SearchQuery != "" {
		conditions = append(conditions, "(name ILIKE :search OR address ILIKE :search)")
		args["search"] = "%" + f.SearchQuery + "%"
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM stores" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	query := "SELECT * FROM stores" + whereClause + " ORDER BY onboarded_at DESC"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	if err := nstmt.SelectContext(ctx, &stores, args); err != nil {
		return nil, 0, err
	}

	return stores, count, nil
}

func (r *PGRepository) FindMenusByStoreID(ctx context.Context, storeID string) ([]model.Menu, error) {
	menus := []model.Menu{}
	query := `SELECT * FROM menus WHERE restaurant_id = $1 ORDER BY created_at ASC, id ASC`
	if err := r.DB.SelectContext(ctx, &menus, query, storeID); err != nil {
		return nil, err
	}
	return menus, nil
}

func (r *PGRepository) FindAllMenus(ctx context.Context, f *dto.MenuFilters) ([]model.Menu, int, error) {
	menus := []model.Menu{}
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.Category != "" {
		conditions = append(conditions, "category = :category")
		args["category"] = f.Category
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM menus" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	query := "SELECT * FROM menus" + whereClause + " ORDER BY restaurant_id, created_at ASC"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	if err := nstmt.SelectContext(ctx, &menus, args); err != nil {
		return nil, 0, err
	}

	return menus, count, nil
}

// DeleteStore relies on the menus.restaurant_id ON DELETE CASCADE constraint
// to remove the store's menus with it.
func (r *PGRepository) DeleteStore(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM stores WHERE id = $1", id)
	return err
}
