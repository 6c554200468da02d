package export

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"outagecal/internal/model"
)

var csvHeader = []string{"suburb", "day", "start", "end", "level"}

// CSV renders sessions as tabular rows in the order given, one row per
// session plus a header line. The input is expected to be filtered/sorted
// already; the serializer does not reorder.
func CSV(suburb model.Suburb, sessions []model.Session) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, s := range sessions {
		row := []string{
			suburb.Name,
			string(s.Day),
			s.StartTime,
			s.EndTime,
			strconv.Itoa(s.Level),
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
