package domain

import "time"

// RateLimitInfo is the state of one client's write window
type RateLimitInfo struct {
	Scope        string        `json:"scope"`
	RequestCount int64         `json:"request_count"`
	Limit        int64         `json:"limit"`
	ResetIn      time.Duration `json:"reset_in"`
	IsAllowed    bool          `json:"is_allowed"`
}

// Remaining is how many more requests fit in the current window
func (r *RateLimitInfo) Remaining() int64 {
	if r.RequestCount >= r.Limit {
		return 0
	}
	return r.Limit - r.RequestCount
}
