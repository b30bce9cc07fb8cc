package profile

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/osse101/GuildStatsBot_Go/internal/domain"
)

// SetStatsInput replaces a user's record
type SetStatsInput struct {
	Attack      int `validate:"gte=0"`
	Defense     int `validate:"gte=0"`
	Accuracy    int `validate:"gte=0"`
	Class       string
	Username    string
	DisplayName string
}

// UpdateStatsInput changes only the provided stats
type UpdateStatsInput struct {
	Attack   *int `validate:"omitempty,gte=0"`
	Defense  *int `validate:"omitempty,gte=0"`
	Accuracy *int `validate:"omitempty,gte=0"`
}

// Empty reports whether no stat was provided
func (in UpdateStatsInput) Empty() bool {
	return in.Attack == nil && in.Defense == nil && in.Accuracy == nil
}

var validate = validator.New()

// validateInput maps validator failures onto ErrInvalidNumericInput, naming the fields
func validateInput(in interface{}) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", domain.ErrInvalidNumericInput, err)
	}

	fields := make([]string, 0, len(verrs))
	for _, e := range verrs {
		fields = append(fields, strings.ToLower(e.Field()))
	}
	return fmt.Errorf("%w: %s", domain.ErrInvalidNumericInput, strings.Join(fields, ", "))
}

// ParseYesNo accepts yes/no (and tak/nie), case-insensitively
func ParseYesNo(value string) (bool, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	switch {
	case yesValues[v]:
		return true, nil
	case noValues[v]:
		return false, nil
	}
	return false, fmt.Errorf("%w: %q", domain.ErrInvalidFlagValue, value)
}

// ParseFlag resolves a flag name such as "skin" or "legendary_familiar"
func ParseFlag(name string) (domain.Flag, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if canonical, ok := flagAliases[key]; ok {
		return domain.Flag(canonical), nil
	}
	return "", fmt.Errorf("%w: %q", domain.ErrInvalidFlag, name)
}

// CleanText drops non-ASCII characters from display names before they are stored
func CleanText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 128 {
			b.WriteRune(r)
		}
	}
	return b.String()
}
