package postgres

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"todo-api/domain/repositories"
)

// translateError maps GORM's translated driver errors onto repository sentinels.
func translateError(op string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", op, repositories.ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w", op, repositories.ErrConflict)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%s: %w", op, repositories.ErrReferenced)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
