package users

import (
	"database/sql"
)

// usersRepo implements the users repository over Postgres. Single-row
// reads go through db; balance mutations take the caller's transaction.
type usersRepo struct{ db *sql.DB }

func New(db *sql.DB) *usersRepo {
	return &usersRepo{db: db}
}
