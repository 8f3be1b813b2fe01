package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/greenleaf/plant-notes/internal/model"
)

type CustomersRepository interface {
	Insert(ctx context.Context, c model.Customer) error
	List(ctx context.Context) ([]model.Customer, error)
	GetByID(ctx context.Context, id string) (*model.Customer, error)
}

type CustomersRepositoryImpl struct {
	db *sqlx.DB
}

func NewCustomersRepository(db *sqlx.DB) *CustomersRepositoryImpl {
	return &CustomersRepositoryImpl{db: db}
}

var _ CustomersRepository = (*CustomersRepositoryImpl)(nil)

// Insert writes a new customer row. A UNIQUE violation on name maps to
// ErrDuplicateName.
func (r *CustomersRepositoryImpl) Insert(ctx context.Context, c model.Customer) error {
	const q = `
		INSERT INTO customers (id, name, email, phone, address, date_created)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, q, c.ID, c.Name, c.Email, c.Phone, c.Address, c.DateCreated)
	if err != nil {
		var se *sqlite.Error
		if errors.As(err, &se) && se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
			return ErrDuplicateName
		}
		return err
	}
	return nil
}

// List returns all customers ordered by name ascending.
func (r *CustomersRepositoryImpl) List(ctx context.Context) ([]model.Customer, error) {
	customers := []model.Customer{}
	const q = `
		SELECT id, name, email, phone, address, date_created
		  FROM customers
		 ORDER BY name
	`
	if err := r.db.SelectContext(ctx, &customers, q); err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *CustomersRepositoryImpl) GetByID(ctx context.Context, id string) (*model.Customer, error) {
	var c model.Customer
	const q = `
		SELECT id, name, email, phone, address, date_created
		  FROM customers
		 WHERE id = ? LIMIT 1
	`
	err := r.db.GetContext(ctx, &c, q, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}
