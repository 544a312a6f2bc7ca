package errs

import (
	"errors"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrDuplicateKey  = errors.New("book number already in catalog")
	ErrAlreadyIssued = errors.New("book already issued")
	ErrBadRequest    = errors.New("bad request")
)
