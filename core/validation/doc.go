// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator instance is shared by all features; it caches struct
// metadata and reports fields by their json names, so messages read
// "title is required" rather than "Title is required".
//
//	type registerRequest struct {
//	    Username string `json:"username" validate:"required,max=150"`
//	}
//
//	if err := validation.ValidateStruct(&req); err != nil {
//	    return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
//	}
package validation
