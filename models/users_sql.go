package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"seminarhub/utils"
)

type sqlUserRepo struct{ db *sql.DB }

func NewSQLUserRepository(db *sql.DB) UserRepository { return &sqlUserRepo{db} }

func (r *sqlUserRepo) Create(ctx context.Context, u *User) error {
	hashed, err := utils.HashPassword(u.Password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u.Password = hashed

	err = r.db.QueryRowContext(ctx,
		`INSERT INTO users(email, password, first_name, last_name, phone, address)
		 VALUES ($1,$2,$3,$4,$5,$6) RETURNING id`,
		u.Email, u.Password, u.FirstName, u.LastName, u.Phone, u.Address,
	).Scan(&u.ID)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *sqlUserRepo) ValidateCredentials(ctx context.Context, email, plain string) (User, error) {
	var u User
	err := r.db.QueryRowContext(ctx,
		`SELECT id, email, password, first_name, last_name, phone, address FROM users WHERE email=$1`,
		email,
	).Scan(&u.ID, &u.Email, &u.Password, &u.FirstName, &u.LastName, &u.Phone, &u.Address)
	if err != nil {
		return User{}, errors.New("invalid credentials")
	}

	if !utils.CheckPasswordHash(plain, u.Password) {
		return User{}, errors.New("invalid credentials")
	}
	return u, nil
}

func (r *sqlUserRepo) GetByID(ctx context.Context, id int64) (User, error) {
	var u User
	err := r.db.QueryRowContext(ctx,
		`SELECT id, email, first_name, last_name, phone, address, last_seen
		 FROM users WHERE id=$1`,
		id,
	).Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.Phone, &u.Address, &u.LastSeen)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// SearchByName matches first or last name only. Email, phone and address
// stay out of the search surface.
func (r *sqlUserRepo) SearchByName(ctx context.Context, query string) ([]User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, email, first_name, last_name, phone, address, last_seen
		 FROM users
		 WHERE first_name ILIKE '%' || $1 || '%' OR last_name ILIKE '%' || $1 || '%'
		 ORDER BY id`,
		query,
	)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.Phone, &u.Address, &u.LastSeen); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *sqlUserRepo) TouchLastSeen(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET last_seen=$1 WHERE id=$2`, time.Now().UTC(), id)
	return err
}
