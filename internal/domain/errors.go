package domain

import "errors"

var (
	ErrAdNotFound    = errors.New("advertisement not found")
	ErrInvalidPeriod = errors.New("invalid period type")
	ErrInvalidMode   = errors.New("invalid stats mode")
	ErrInvalidRange  = errors.New("invalid date range")
	ErrNoData        = errors.New("no data for export")
	ErrSinkDisabled  = errors.New("export sink not configured")
)
