// Package loki provides a client for the log backend API.
package loki

import (
	"strconv"
	"time"
)

// QueryRangeResponse represents the API response from the range-query
// endpoint, following the Loki HTTP API specification.
type QueryRangeResponse struct {
	Status string         `json:"status"`
	Data   QueryRangeData `json:"data"`
}

// IsSuccess returns true if the query was successful.
func (r *QueryRangeResponse) IsSuccess() bool {
	return r.Status == "success"
}

// QueryRangeData contains the result streams from a range query.
type QueryRangeData struct {
	ResultType string   `json:"resultType"` // streams
	Result     []Stream `json:"result"`
}

// Stream is a single log stream: a label set plus its entries.
type Stream struct {
	Stream map[string]string `json:"stream"` // Stream labels
	Values []Entry           `json:"values"` // [tsNanoseconds, rawLine] pairs
}

// Entry is a single [timestamp, line] pair. The timestamp is a string of
// Unix nanoseconds.
type Entry [2]string

// Timestamp parses the entry timestamp. Returns the zero time when the
// nanosecond string is malformed.
func (e Entry) Timestamp() time.Time {
	ns, err := strconv.ParseInt(e[0], 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(0, ns)
}

// Line returns the raw log line text.
func (e Entry) Line() string {
	return e[1]
}

// LabelValuesResponse represents the API response from the label-values
// endpoint.
type LabelValuesResponse struct {
	Status string   `json:"status"`
	Data   []string `json:"data"`
}
