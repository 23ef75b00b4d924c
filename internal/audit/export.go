package audit

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"time"
)

// WriteCSV renders audit records as a CSV document.
func WriteCSV(records []Record) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"created_at", "level", "actor_email", "location", "action", "payload"}); err != nil {
		return nil, err
	}
	for _, rec := range records {
		var payload string
		if rec.Payload != nil {
			data, err := json.Marshal(rec.Payload)
			if err != nil {
				return nil, err
			}
			payload = string(data)
		}
		row := []string{
			rec.CreatedAt.UTC().Format(time.RFC3339),
			rec.Level,
			rec.ActorEmail,
			rec.Location,
			rec.Action,
			payload,
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
