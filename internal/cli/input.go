package cli

import (
	"fmt"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"golang.org/x/term"

	"epicevents.org/internal/auth"
)

// readRaw renders the prompt and reads one line. A blank or
// whitespace-only answer cancels the whole operation.
func (c *Console) readRaw(label string, required bool) (string, error) {
	if required {
		label += "*"
	}
	c.printf("     %s: ", promptStyle.Render(label))

	line, err := c.in.ReadString('\n')
	if err != nil && line == "" {
		return "", ErrAborted
	}
	value := strings.TrimRight(line, "\r\n")
	if strings.TrimSpace(value) == "" {
		c.NewLine()
		return "", ErrAborted
	}
	return strings.TrimSpace(value), nil
}

// TextInput captures a non-empty string.
func (c *Console) TextInput(label string, required bool) (string, error) {
	return c.readRaw(label, required)
}

// IntInput captures an integer, re-prompting on non-numeric input.
func (c *Console) IntInput(label string, required bool) (int, error) {
	for {
		value, err := c.readRaw(label, required)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			c.InvalidMessage("input! Number")
			continue
		}
		return n, nil
	}
}

// DecimalInput captures a fixed-point amount and returns it in minor
// units (cents). No floats.
func (c *Console) DecimalInput(label string, required bool) (int64, error) {
	for {
		value, err := c.readRaw(label, required)
		if err != nil {
			return 0, err
		}
		cents, err := ParseCents(value)
		if err != nil {
			c.InvalidMessage("input! Decimal")
			continue
		}
		return cents, nil
	}
}

// ChoiceStrInput captures one value from an enumerated option set.
func (c *Console) ChoiceStrInput(options []string, label string, required bool) (string, error) {
	for {
		value, err := c.TextInput(label, required)
		if err != nil {
			return "", err
		}
		for _, opt := range options {
			if value == opt {
				return value, nil
			}
		}
	}
}

// ChoiceIntInput captures one integer from an enumerated option set.
func (c *Console) ChoiceIntInput(options []int, label string, required bool) (int, error) {
	for {
		value, err := c.IntInput(label, required)
		if err != nil {
			return 0, err
		}
		for _, opt := range options {
			if value == opt {
				return value, nil
			}
		}
	}
}

// MultipleChoiceStrInput captures a string and extracts the option
// codes it contains, longest code first so that a two-letter code is
// not shadowed by a one-letter one. Anything else is dropped silently.
func (c *Console) MultipleChoiceStrInput(options []string, label string, required bool) ([]string, error) {
	value, err := c.TextInput(label, required)
	if err != nil {
		return nil, err
	}
	var picked []string
	for i := 0; i < len(value); {
		match := ""
		for _, opt := range options {
			if strings.HasPrefix(value[i:], opt) && len(opt) > len(match) {
				match = opt
			}
		}
		if match == "" {
			i++
			continue
		}
		picked = append(picked, match)
		i += len(match)
	}
	return picked, nil
}

// DateInput captures a DD/MM/YYYY date, normalized to UTC.
func (c *Console) DateInput(label string, required bool) (time.Time, error) {
	for {
		value, err := c.TextInput(label, required)
		if err != nil {
			return time.Time{}, err
		}
		t, err := time.ParseInLocation("02/01/2006", value, time.UTC)
		if err != nil {
			continue
		}
		return t, nil
	}
}

// EmailInput re-prompts until the value passes a structural email check.
func (c *Console) EmailInput(label string, required bool) (string, error) {
	for {
		value, err := c.TextInput(label, required)
		if err != nil {
			return "", err
		}
		addr, err := mail.ParseAddress(value)
		if err != nil || addr.Address != value {
			continue
		}
		return value, nil
	}
}

// PasswordInput captures a new password: masked when possible,
// re-prompted until it satisfies the account policy. The rejection
// reasons are displayed on failure.
func (c *Console) PasswordInput(label string, required bool) (string, error) {
	for {
		value, err := c.SecretInput(label, required)
		if err != nil {
			return "", err
		}
		reasons := auth.ValidatePolicy(value)
		if len(reasons) > 0 {
			c.ErrorMessage("Password " + strings.Join(reasons, ", "))
			continue
		}
		return value, nil
	}
}

// SecretInput reads a value without echoing it when stdin is a
// terminal. Used for login, where the stored policy must not be
// re-checked against an existing password.
func (c *Console) SecretInput(label string, required bool) (string, error) {
	if c.passwordFD < 0 {
		return c.readRaw(label, required)
	}
	display := label
	if required {
		display += "*"
	}
	c.printf("     %s: ", promptStyle.Render(display))
	raw, err := term.ReadPassword(c.passwordFD)
	c.NewLine()
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	value := strings.TrimSpace(string(raw))
	if value == "" {
		c.NewLine()
		return "", ErrAborted
	}
	return value, nil
}

// ParseCents parses a fixed-point decimal string ("1234", "1234.5",
// "1234.56") into minor units.
func ParseCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, fracPart, hasFrac := strings.Cut(s, ".")
	if intPart == "" {
		return 0, fmt.Errorf("invalid decimal %q", s)
	}
	whole, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid decimal %q", s)
	}
	var frac int64
	if hasFrac {
		if fracPart == "" || len(fracPart) > 2 {
			return 0, fmt.Errorf("invalid decimal %q", s)
		}
		for len(fracPart) < 2 {
			fracPart += "0"
		}
		frac, err = strconv.ParseInt(fracPart, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid decimal %q", s)
		}
	}
	cents := whole*100 + frac
	if neg {
		cents = -cents
	}
	return cents, nil
}
