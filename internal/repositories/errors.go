package repositories

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrTxClosed  = errors.New("transaction already finished")
	ErrNotInTx   = errors.New("repository is not bound to a transaction")
	ErrDuplicate = errors.New("duplicate record")
)

// IsNotFoundError reports whether err means the requested record does not exist
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}
