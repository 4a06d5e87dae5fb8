package exceltable

import (
	"errors"

	"github.com/xuri/excelize/v2"
)

// ErrEmptySheet is returned for sheets without any non empty cell.
var ErrEmptySheet = errors.New("empty sheet")

type ErrSheetNotExist = excelize.ErrSheetNotExist
