package store

import "errors"

var (
	ErrNotFound     = errors.New("row not found")
	ErrUnknownTable = errors.New("unknown domain table")
	ErrMetaMissing  = errors.New("sync meta key not set")
)
