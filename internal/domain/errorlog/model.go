package errorlog

import "time"

const (
	TypeAPIError  = "API_ERROR"
	TypeSyncError = "SYNC_ERROR"
)

const (
	CodeNoToken             = "NO_TOKEN"
	CodeTransport           = "TRANSPORT_ERROR"
	CodeHTTPStatus          = "HTTP_ERROR"
	CodeDecode              = "JSON_DECODE_ERROR"
	CodeRemote              = "REMOTE_ERROR"
	CodeNoTeams             = "NO_TEAMS"
	CodeException           = "EXCEPTION"
	CodeParticipantsMissing = "PARTICIPANTS_MISSING"
	CodeMissingTeamNames    = "MISSING_TEAM_NAMES"
	CodeInvalidPayload      = "INVALID_PAYLOAD"
	CodeSyncDisabled        = "SYNC_DISABLED"
	CodeStoreError          = "STORE_ERROR"
)

const DefaultPerPage = 20

// Entry is one structured diagnostic record.
type Entry struct {
	ID             int64          `json:"id"`
	Timestamp      time.Time      `json:"timestamp"`
	Type           string         `json:"error_type"`
	Message        string         `json:"error_message"`
	Code           string         `json:"error_code,omitempty"`
	Context        map[string]any `json:"context,omitempty"`
	StackTrace     string         `json:"stack_trace,omitempty"`
	RequestDetails map[string]any `json:"request_details,omitempty"`
}

type Filter struct {
	Type    string
	From    *time.Time
	To      *time.Time
	Page    int
	PerPage int
}

// Normalize applies paging defaults.
func (f Filter) Normalize() Filter {
	if f.PerPage <= 0 {
		f.PerPage = DefaultPerPage
	}
	if f.Page <= 0 {
		f.Page = 1
	}
	return f
}

func (f Filter) Offset() int {
	n := f.Normalize()
	return (n.Page - 1) * n.PerPage
}
