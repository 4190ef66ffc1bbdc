package service

import (
	"errors"

	"github.com/hance08/leaf/internal/store"
)

func isNotFound(err error) bool {
	return errors.Is(err, store.ErrRecordNotFound)
}
