// internal/domain/homework/status.go
package homework

import (
	"errors"
	"fmt"
)

// Status is a review status code reported by the homework API.
type Status string

const (
	StatusApproved  Status = "approved"
	StatusReviewing Status = "reviewing"
	StatusRejected  Status = "rejected"
)

// Verdicts maps every known review status to its notification sentence.
// The texts are part of the user-facing contract and must not change.
var Verdicts = map[Status]string{
	StatusApproved:  "Работа проверена: ревьюеру всё понравилось. Ура!",
	StatusReviewing: "Работа взята на проверку ревьюером.",
	StatusRejected:  "Работа проверена: у ревьюера есть замечания.",
}

// ErrBadRecord marks a homework record that cannot be turned into a
// notification: a missing name, or a status outside of Verdicts.
var ErrBadRecord = errors.New("некорректные данные домашней работы")

// ParseStatus extracts the review status of a single homework record and
// returns the notification text prepared for sending. Pure function.
func ParseStatus(record any) (string, error) {
	fields, ok := record.(map[string]any)
	if !ok {
		return "", fmt.Errorf("%w: запись не является объектом", ErrBadRecord)
	}

	name, _ := fields["homework_name"].(string)
	if name == "" {
		return "", fmt.Errorf("%w: в данных не указано название домашки", ErrBadRecord)
	}

	status, _ := fields["status"].(string)
	verdict, known := Verdicts[Status(status)]
	if status == "" || !known {
		return "", fmt.Errorf("%w: что-то не так со статусом домашки %q", ErrBadRecord, status)
	}

	return fmt.Sprintf("Изменился статус проверки работы \"%s\". %s", name, verdict), nil
}
