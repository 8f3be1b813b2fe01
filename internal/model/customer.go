package model

// Customer is the DB entity persisted in the customers table.
// Name is unique across the system; email, phone, and address are optional free text.
type Customer struct {
	ID          string  `db:"id" json:"id"`
	Name        string  `db:"name" json:"name"`
	Email       *string `db:"email" json:"email"`
	Phone       *string `db:"phone" json:"phone"`
	Address     *string `db:"address" json:"address"`
	DateCreated string  `db:"date_created" json:"date_created"`
}
