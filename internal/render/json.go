package render

import (
	"encoding/json"
	"io"
	"time"

	"github.com/hostwatch/hostwatch/pkg/models"
)

type jsonRenderer struct{}

type jsonDoc struct {
	Timestamp string            `json:"timestamp"`
	Hostname  string            `json:"hostname"`
	Results   map[string]string `json:"results"`
}

// Render emits one object per cycle. Result keys carry no ordering
// guarantee; every value is a string by the metric contract.
func (r *jsonRenderer) Render(w io.Writer, snap *models.Snapshot) error {
	doc := jsonDoc{
		Timestamp: snap.Taken.Format(time.RFC3339),
		Hostname:  snap.Hostname,
		Results:   make(map[string]string, snap.Len()),
	}
	for _, m := range snap.Metrics() {
		doc.Results[m.Key] = m.Value
	}

	enc := json.NewEncoder(w)
	return enc.Encode(doc)
}
