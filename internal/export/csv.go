package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"healthreg/internal/model"
)

// WriteCSV streams residents as CSV with the shared header.
func WriteCSV(w io.Writer, residents []model.Resident) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, row := range Rows(residents) {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
