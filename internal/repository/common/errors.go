package common

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// Общие классы ошибок хранилища. Репозитории оборачивают в них свои
// sentinel ошибки, чтобы вызывающий код мог классифицировать ошибку,
// не зная конкретного репозитория.
var (
	ErrNotFound      = errors.New("запись не найдена")
	ErrAlreadyExists = errors.New("запись уже существует")
	ErrInvalidInput  = errors.New("недопустимые данные")
)

// TranslateConstraint переводит нарушения ограничений PostgreSQL
// в общие классы ошибок: уникальность в ErrAlreadyExists, CHECK
// в ErrInvalidInput. Остальные ошибки возвращаются без изменений.
func TranslateConstraint(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch pqErr.Code {
	case "23505":
		return fmt.Errorf("%w (%s)", ErrAlreadyExists, pqErr.Constraint)
	case "23514":
		return fmt.Errorf("%w (%s)", ErrInvalidInput, pqErr.Constraint)
	}
	return err
}
