package domain

// RunStatus values reported by the actor-run endpoint.
const (
	RunStatusReady     = "READY"
	RunStatusRunning   = "RUNNING"
	RunStatusSucceeded = "SUCCEEDED"
	RunStatusFailed    = "FAILED"
	RunStatusAborted   = "ABORTED"
	RunStatusTimingOut = "TIMING-OUT"
	RunStatusTimedOut  = "TIMED-OUT"
)

// RunInput is the actor input payload. The exact shape matters: the actor
// rejects runs whose query is not an array.
type RunInput struct {
	DevDatasetClear bool        `json:"dev_dataset_clear"`
	DevNoStrip      bool        `json:"dev_no_strip"`
	DevProxyConfig  ProxyConfig `json:"dev_proxy_config"`
	IncludeDetails  bool        `json:"include_details"`
	Limit           int         `json:"limit"`
	Query           []string    `json:"query"`
	ReviewVerified  bool        `json:"review_verified"`
}

type ProxyConfig struct {
	UseApifyProxy     bool     `json:"useApifyProxy"`
	ApifyProxyGroups  []string `json:"apifyProxyGroups"`
	ApifyProxyCountry string   `json:"apifyProxyCountry"`
}

// Run describes the state of a submitted actor run.
type Run struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	StatusMessage string `json:"statusMessage"`
	DatasetID     string `json:"defaultDatasetId"`
}

// IsTerminal reports whether the run reached a final state.
func (r Run) IsTerminal() bool {
	switch r.Status {
	case RunStatusSucceeded, RunStatusFailed, RunStatusAborted, RunStatusTimedOut:
		return true
	}
	return false
}
