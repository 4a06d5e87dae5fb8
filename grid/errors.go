package grid

import "errors"

var (
	ErrNoPageSizes     = errors.New("no page size options")
	ErrInvalidPageSize = errors.New("invalid page size")
	ErrInvalidPage     = errors.New("invalid page")
	ErrUnknownAction   = errors.New("unknown action")
	ErrRowOutOfRange   = errors.New("row index out of range")
)
