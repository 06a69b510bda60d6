package models

import "time"

// Organization is a hiring client. ClientLevel widens the interviewer level
// window during matching for levels 2 and 3.
type Organization struct {
	ID                string    `db:"id" json:"id"`
	Name              string    `db:"name" json:"name"`
	ClientLevel       int       `db:"client_level" json:"client_level"`
	AccountOwnerEmail string    `db:"account_owner_email" json:"account_owner_email"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}
