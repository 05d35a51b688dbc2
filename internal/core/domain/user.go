package domain

import "time"

// User is an interactive account. The password hash is an Argon2id PHC string
// and is never serialized.
type User struct {
	ID                   int64     `json:"id"`
	Username             string    `json:"username"`
	PasswordHash         string    `json:"-"`
	FirstName            string    `json:"firstName"`
	LastName             string    `json:"lastName"`
	Email                string    `json:"email"`
	NotifyOnRegistration bool      `json:"notifyOnRegistration"`
	NotifyOnChanges      bool      `json:"notifyOnChanges"`
	CreatedAt            time.Time `json:"createdAt"`
}
