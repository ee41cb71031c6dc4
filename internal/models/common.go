package models

// Pagination describes page metadata for list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}

// SchoolScope carries the school (tenant) a request acts on. Override, when set, wins over
// the session school resolved from the request.
type SchoolScope struct {
	Override string `json:"school_id,omitempty"`
	Session  string `json:"-"`
}

// SchoolID resolves the acting school, returning false when none is available.
func (s SchoolScope) SchoolID() (string, bool) {
	if s.Override != "" {
		return s.Override, true
	}
	if s.Session != "" {
		return s.Session, true
	}
	return "", false
}
