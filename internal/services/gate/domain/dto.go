package domain

// CheckInput is the request body for POST /v1/messages/check.
// Text may be empty; an empty post still gets a verdict (no contact number)
type CheckInput struct {
	Text     string `json:"text"`
	SenderID string `json:"sender_id" validate:"required"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	GroupID  string `json:"group_id" validate:"required"`
}

// CheckOutput is the gate's decision for one message. Detection and
// Logistics are filled only for allowed messages, for the forwarding
// pipeline downstream
type CheckOutput struct {
	Allowed      bool       `json:"allowed"`
	Reason       string     `json:"reason"`
	Term         string     `json:"term,omitempty"`
	IsDispatcher bool       `json:"is_dispatcher"`
	AutoBlocked  bool       `json:"auto_blocked"`
	Detection    *Detection `json:"detection,omitempty"`
	Logistics    *Logistics `json:"logistics,omitempty"`
}

// AnalyzeInput is the request body for POST /v1/messages/analyze
type AnalyzeInput struct {
	Text string `json:"text" validate:"required"`
}

// AnalyzeOutput carries the soft score and the extracted logistics fields
type AnalyzeOutput struct {
	Detection Detection `json:"detection"`
	Logistics Logistics `json:"logistics"`
}

// RecentQuery bounds the verdict audit listing
type RecentQuery struct {
	Limit int `json:"limit"`
}
