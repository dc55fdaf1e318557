package validation

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// IsRequestValid validates req against its `validate` tags and returns a
// message describing the first failure.
func IsRequestValid(req any) (bool, string) {
	err := instance().Struct(req)
	if err == nil {
		return true, ""
	}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		fe := ve[0]
		if fe.Param() != "" {
			return false, fmt.Sprintf("%s failed on %s=%s", fe.Field(), fe.Tag(), fe.Param())
		}
		return false, fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag())
	}
	return false, err.Error()
}
