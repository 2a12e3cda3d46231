// internal/domain/homework/response.go
package homework

import (
	"errors"
	"fmt"
)

// ErrMalformedResponse marks an API response whose shape does not match the
// documented contract.
var ErrMalformedResponse = errors.New("некорректный формат ответа сервиса")

// CheckResponse validates the decoded API response against the documented
// shape and returns the homeworks list unchanged. Individual records are
// checked later, by ParseStatus.
func CheckResponse(body any) ([]any, error) {
	fields, ok := body.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: данные не соответствуют формату JSON", ErrMalformedResponse)
	}

	homeworks, hasHomeworks := fields["homeworks"]
	_, hasCurrentDate := fields["current_date"]
	if !hasHomeworks || !hasCurrentDate {
		return nil, fmt.Errorf("%w: отсутствуют ключи homeworks или current_date", ErrMalformedResponse)
	}

	list, ok := homeworks.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: данные не являются списком", ErrMalformedResponse)
	}

	return list, nil
}

// CurrentDate extracts the server's current_date echo, the value the next
// poll uses as its from_date cursor. A response without a usable echo is a
// data error for the whole iteration.
func CurrentDate(body any) (int64, error) {
	fields, ok := body.(map[string]any)
	if !ok {
		return 0, fmt.Errorf("%w: данные не соответствуют формату JSON", ErrMalformedResponse)
	}

	// encoding/json decodes numbers into float64 when the target is any.
	seconds, ok := fields["current_date"].(float64)
	if !ok || seconds == 0 {
		return 0, fmt.Errorf("%w: в данных не указана текущая дата", ErrBadRecord)
	}

	return int64(seconds), nil
}
