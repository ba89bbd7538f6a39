// Package models defines the User model. Password hashes never leave the
// service layer: the field is excluded from JSON.
package models
