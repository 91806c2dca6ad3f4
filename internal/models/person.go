package models

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrMissingField is returned by constructors when a required identity field is empty.
var ErrMissingField = errors.New("missing required field")

// Person holds the attributes shared by students and instructors.
// Identity is the ID alone.
type Person struct {
	ID          string `json:"id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

// FullName joins first and last name.
func (p Person) FullName() string {
	return p.FirstName + " " + p.LastName
}

func newPerson(id, firstName, lastName, email, phone string) (Person, error) {
	if err := requireFields(map[string]string{"id": id, "first_name": firstName, "last_name": lastName}); err != nil {
		return Person{}, err
	}
	return Person{
		ID:          strings.TrimSpace(id),
		FirstName:   firstName,
		LastName:    lastName,
		Email:       email,
		PhoneNumber: phone,
	}, nil
}

func requireFields(fields map[string]string) error {
	var missing []string
	for name, value := range fields {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return fmt.Errorf("%w: %s", ErrMissingField, strings.Join(missing, ", "))
}
