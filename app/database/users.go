package database

import (
	"database/sql"
	"errors"
	"school-admin/app/models"
	"time"
)

const userColumns = `id, email, password, first_name, last_name, role, is_active, created_at, updated_at`

// ErrDuplicateUser is returned when a user with the email already exists.
var ErrDuplicateUser = errors.New("user with this email already exists")

func scanUser(row rowScanner) (*models.User, error) {
	u := &models.User{}
	var role string
	err := row.Scan(&u.ID, &u.Email, &u.Password, &u.FirstName, &u.LastName,
		&role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	u.Role = models.UserRole(role)
	return u, nil
}

// GetUserByEmail returns the user with the given email.
func GetUserByEmail(db *sql.DB, email string) (*models.User, error) {
	row := db.QueryRow(`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

// GetUserByID returns one user.
func GetUserByID(db *sql.DB, userID string) (*models.User, error) {
	row := db.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = $1`, userID)
	return scanUser(row)
}

// CreateUser inserts a new user with an already-hashed password.
func CreateUser(db *sql.DB, u *models.User) error {
	err := db.QueryRow(`INSERT INTO users (email, password, first_name, last_name, role, is_active)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, created_at, updated_at`,
		u.Email, u.Password, u.FirstName, u.LastName, string(u.Role), u.IsActive,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateUser
	}
	return err
}

// GetAllUsers returns all users.
func GetAllUsers(db *sql.DB) ([]*models.User, error) {
	rows, err := db.Query(`SELECT ` + userColumns + ` FROM users ORDER BY first_name, last_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// UpdateUserPassword replaces a user's password hash.
func UpdateUserPassword(db *sql.DB, userID string, hashedPassword string) error {
	_, err := db.Exec(`UPDATE users SET password = $1, updated_at = NOW() WHERE id = $2`,
		hashedPassword, userID)
	return err
}

// CreateSession records a server-side session.
func CreateSession(db *sql.DB, sessionID, userID string, expiresAt time.Time) error {
	_, err := db.Exec(`INSERT INTO sessions (id, user_id, expires_at) VALUES ($1, $2, $3)`,
		sessionID, userID, expiresAt)
	return err
}

// DeleteSession removes a session on logout.
func DeleteSession(db *sql.DB, sessionID string) error {
	_, err := db.Exec(`DELETE FROM sessions WHERE id = $1`, sessionID)
	return err
}
