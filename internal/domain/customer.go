package domain

import "time"

// Customer is owned by the directory component; this engine only reads it for
// identity and date of birth.
type Customer struct {
	ID          string
	Name        string
	DateOfBirth time.Time
}

// AgeAt returns the customer's age in whole years as of the given date.
func (c Customer) AgeAt(today time.Time) int {
	age := today.Year() - c.DateOfBirth.Year()
	if c.DateOfBirth.AddDate(age, 0, 0).After(today) {
		age--
	}
	return age
}
