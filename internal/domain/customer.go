package domain

import "strings"

type Customer struct {
	ID        int64
	Email     string
	FirstName string
	LastName  string
}

func (c *Customer) DisplayName() string {
	name := strings.TrimSpace(c.FirstName + " " + c.LastName)
	if name == "" {
		return c.Email
	}
	return name
}
