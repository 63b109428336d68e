package accounts

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrEmailTaken = errors.New("email already registered")
)

const pqUniqueViolation = "23505"

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const userColumns = `id, email, first_name, last_name, password_hash, profile_picture,
	date_of_birth, subscription_status, subscription_start_date, subscription_end_date,
	preferred_language, is_staff, last_login, date_joined`

func scanUser(row interface{ Scan(...interface{}) error }) (*User, error) {
	var u User
	err := row.Scan(
		&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.PasswordHash, &u.ProfilePicture,
		&u.DateOfBirth, &u.SubscriptionStatus, &u.SubscriptionStartDate, &u.SubscriptionEndDate,
		&u.PreferredLanguage, &u.IsStaff, &u.LastLogin, &u.DateJoined,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create registers a user. The unique email constraint does the duplicate
// check; a violation surfaces as ErrEmailTaken.
func (r *Repository) Create(u *User) error {
	err := r.db.QueryRow(`
		INSERT INTO users (email, first_name, last_name, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING id, subscription_status, preferred_language, date_joined`,
		u.Email, u.FirstName, u.LastName, u.PasswordHash,
	).Scan(&u.ID, &u.SubscriptionStatus, &u.PreferredLanguage, &u.DateJoined)
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == pqUniqueViolation {
		return ErrEmailTaken
	}
	return err
}

func (r *Repository) GetByID(id int64) (*User, error) {
	u, err := scanUser(r.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	if err := r.loadPreferredGenres(u); err != nil {
		return nil, err
	}
	return u, nil
}

func (r *Repository) GetByEmail(email string) (*User, error) {
	return scanUser(r.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (r *Repository) TouchLastLogin(id int64) error {
	_, err := r.db.Exec(`UPDATE users SET last_login = NOW() WHERE id = $1`, id)
	return err
}

func (r *Repository) loadPreferredGenres(u *User) error {
	rows, err := r.db.Query(`
		SELECT genre_id FROM user_preferred_genres WHERE user_id = $1 ORDER BY genre_id`, u.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return err
		}
		u.PreferredGenreIDs = append(u.PreferredGenreIDs, id)
	}
	return rows.Err()
}

// UpdateProfile writes the caller-editable profile fields.
func (r *Repository) UpdateProfile(u *User) error {
	res, err := r.db.Exec(`
		UPDATE users
		SET first_name = $1, last_name = $2, profile_picture = $3,
		    date_of_birth = $4, preferred_language = $5
		WHERE id = $6`,
		u.FirstName, u.LastName, u.ProfilePicture, u.DateOfBirth, u.PreferredLanguage, u.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetPreferredGenres replaces the user's genre picks in one statement pair.
func (r *Repository) SetPreferredGenres(userID int64, genreIDs []int64) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM user_preferred_genres WHERE user_id = $1`, userID); err != nil {
		return err
	}
	if len(genreIDs) > 0 {
		_, err = tx.Exec(`
			INSERT INTO user_preferred_genres (user_id, genre_id)
			SELECT $1, unnest($2::bigint[])`,
			userID, pq.Array(genreIDs))
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}
