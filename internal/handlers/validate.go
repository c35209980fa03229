package handlers

import (
	"net/mail"
	"strings"
	"unicode/utf8"
)

// Validation limits for order fields.
const (
	minNameLen  = 2
	maxNameLen  = 200
	maxEmailLen = 320
)

// validateOrder checks order inputs and returns every problem found, in
// field order. An empty result means the input is valid.
func validateOrder(name, email string) []string {
	var errs []string

	name = strings.TrimSpace(name)
	switch n := utf8.RuneCountInString(name); {
	case n < minNameLen:
		errs = append(errs, "El nombre debe tener al menos 2 caracteres")
	case n > maxNameLen:
		errs = append(errs, "El nombre es demasiado largo (máximo 200 caracteres)")
	}

	if !validEmail(email) {
		errs = append(errs, "Email inválido")
	}
	return errs
}

// validEmail accepts a bare address (no display name) whose domain
// contains a dot.
func validEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" || len(email) > maxEmailLen {
		return false
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || addr.Name != "" {
		return false
	}
	at := strings.LastIndex(email, "@")
	domain := email[at+1:]
	return strings.Contains(domain, ".") && !strings.HasPrefix(domain, ".") && !strings.HasSuffix(domain, ".")
}
