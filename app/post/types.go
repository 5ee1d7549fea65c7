package post

// Queue record lifecycle. Pending is the only initial state; posted and
// failed are terminal for the automatic flow.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusPosted   = "posted"
	StatusFailed   = "failed"
)

const (
	ScheduleInterval = "interval"
	ScheduleCustom   = "custom"
)

// Breakdown holds the six sub-scores of a quality evaluation
type Breakdown struct {
	Length      int `json:"length"`      // 0-20
	Engagement  int `json:"engagement"`  // 0-20
	Readability int `json:"readability"` // 0-20
	Hashtags    int `json:"hashtags"`    // 0-15
	Hook        int `json:"hook"`        // 0-15
	Tone        int `json:"tone"`        // 0-10
}

// Score is the result of a quality evaluation of post text
type Score struct {
	Total       int       `json:"total"`
	Breakdown   Breakdown `json:"breakdown"`
	Suggestions []string  `json:"suggestions"`
	Passed      bool      `json:"passed"`
}
