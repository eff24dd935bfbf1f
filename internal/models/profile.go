package models

import "time"

// ProfileData represents LinkedIn profile information
type ProfileData struct {
	Name      string `json:"name"`
	Headline  string `json:"headline"`
	Location  string `json:"location"`
	SourceURL string `json:"source_url"`
}

// IsEmpty reports whether p is the zero record returned on failure
func (p ProfileData) IsEmpty() bool {
	return p == ProfileData{}
}

// ProfileResult is the outcome of a profile fetch. Profile is zero whenever
// Err is set.
type ProfileResult struct {
	Profile ProfileData
	Err     error
}

// OK reports whether the fetch produced a record
func (r ProfileResult) OK() bool {
	return r.Err == nil
}

// StoredProfile is a profile row read back from the database
type StoredProfile struct {
	ProfileData
	SessionID string
	FetchedAt time.Time
}
