package models

type User struct {
	ID           int    `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	PasswordHash string `json:"-"`
	IsActive     bool   `json:"is_active"` //nolint:tagliatelle
	IsStaff      bool   `json:"is_staff"`  //nolint:tagliatelle
}
