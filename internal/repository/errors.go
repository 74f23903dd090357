package repository

import "errors"

var (
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")
	ErrUpdateFailed  = errors.New("update failed")
	ErrStaleState    = errors.New("conditional update did not match: state already changed")
)
