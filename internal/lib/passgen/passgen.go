// Package passgen генерирует одноразовые пароли для автоматически создаваемых учётных записей.
package passgen

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	lower   = "abcdefghijkmnopqrstuvwxyz"
	upper   = "ABCDEFGHJKLMNPQRSTUVWXYZ"
	digits  = "23456789"
	symbols = "!@#$%&*?"

	// DefaultLength — длина пароля для учётных записей быстрого старта.
	DefaultLength = 12
)

var classes = []string{lower, upper, digits, symbols}

// Generate возвращает пароль длины n, в котором есть хотя бы один символ каждого класса.
func Generate(n int) (string, error) {
	const op = "passgen.Generate"
	if n < len(classes) {
		return "", fmt.Errorf("%s: length %d is shorter than %d", op, n, len(classes))
	}
	all := lower + upper + digits + symbols
	out := make([]byte, 0, n)
	for _, class := range classes {
		c, err := pick(class)
		if err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}
		out = append(out, c)
	}
	for len(out) < n {
		c, err := pick(all)
		if err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}
		out = append(out, c)
	}
	// Fisher-Yates, чтобы обязательные символы не стояли в начале.
	for i := len(out) - 1; i > 0; i-- {
		j, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}
		out[i], out[j.Int64()] = out[j.Int64()], out[i]
	}
	return string(out), nil
}

func pick(set string) (byte, error) {
	idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(set))))
	if err != nil {
		return 0, err
	}
	return set[idx.Int64()], nil
}
