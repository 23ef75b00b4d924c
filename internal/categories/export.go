package categories

import (
	"bytes"
	"encoding/csv"
	"strconv"
)

// WriteCSV renders categories as a CSV document with upper-case column
// headers and dd.MM.yyyy dates.
func WriteCSV(list []Category) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"ID", "NAME", "IS ACTIVE", "CREATED AT"}); err != nil {
		return nil, err
	}
	for _, c := range list {
		active := "FALSE"
		if c.IsActive {
			active = "TRUE"
		}
		row := []string{
			strconv.FormatInt(c.ID, 10),
			c.Name,
			active,
			c.CreatedAt.UTC().Format("02.01.2006"),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
