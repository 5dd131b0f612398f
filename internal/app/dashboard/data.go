package dashboard

import (
	"encoding/json"
)

// Path is the API route the loader reads.
const Path = "/api/v1/dashboard"

// Statistics are the aggregate counters shown at the top of the dashboard.
type Statistics struct {
	ActiveHosts     int `json:"active_hosts"`
	TotalIperfTests int `json:"total_iperf_tests"`
	TotalSpeedTests int `json:"total_speed_tests"`
}

// Data is the typed view of the dashboard payload. Test records are kept raw;
// their shape belongs to the API.
type Data struct {
	RecentIperfTests []json.RawMessage `json:"recent_iperf_tests"`
	RecentSpeedTests []json.RawMessage `json:"recent_speed_tests"`
	Statistics       Statistics        `json:"statistics"`
}

// Page is what a server render hands to the template layer.
type Page struct {
	DashboardData json.RawMessage `json:"dashboardData"`

	// Fallback is true when DashboardData is the empty placeholder.
	Fallback bool `json:"-"`
}

// Empty returns the placeholder used when the API cannot be read: both lists
// present and empty, every counter zero.
func Empty() Data {
	return Data{
		RecentIperfTests: []json.RawMessage{},
		RecentSpeedTests: []json.RawMessage{},
	}
}

// fallbackJSON is Empty() marshalled once.
var fallbackJSON = func() json.RawMessage {
	b, err := json.Marshal(Empty())
	if err != nil {
		panic(err)
	}
	return b
}()

// FallbackJSON returns a fresh copy of the marshalled placeholder.
func FallbackJSON() json.RawMessage {
	out := make(json.RawMessage, len(fallbackJSON))
	copy(out, fallbackJSON)
	return out
}

// Decode returns a typed view of p for rendering. Payloads that do not fit
// the expected shape render as Empty(); missing lists are normalised to empty.
func Decode(p Page) Data {
	var d Data
	if err := json.Unmarshal(p.DashboardData, &d); err != nil {
		return Empty()
	}
	if d.RecentIperfTests == nil {
		d.RecentIperfTests = []json.RawMessage{}
	}
	if d.RecentSpeedTests == nil {
		d.RecentSpeedTests = []json.RawMessage{}
	}
	return d
}
