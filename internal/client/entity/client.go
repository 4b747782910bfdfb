// Package entity defines the client directory domain types.
package entity

import "github.com/google/uuid"

// Client is a directory record linking identity documents to the phone used
// for verification.
type Client struct {
	ID                           uuid.UUID
	PassportNumber               string
	MobilePhone                  string
	EmployerIdentificationNumber string
}
