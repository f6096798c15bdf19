package domain

import "time"

// InquiryStatus tracks an inquiry through the studio's follow-up process.
type InquiryStatus string

const (
	StatusPending   InquiryStatus = "pending"
	StatusContacted InquiryStatus = "contacted"
	StatusScheduled InquiryStatus = "scheduled"
	StatusCompleted InquiryStatus = "completed"
	StatusCancelled InquiryStatus = "cancelled"
)

// InquiryStatuses lists every status in workflow order.
var InquiryStatuses = []InquiryStatus{
	StatusPending,
	StatusContacted,
	StatusScheduled,
	StatusCompleted,
	StatusCancelled,
}

func (s InquiryStatus) Valid() bool {
	for _, v := range InquiryStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// ContactInquiry is a submission of the public contact form. Nil pointer
// fields were not provided.
type ContactInquiry struct {
	ID           int64         `json:"id"`
	Name         string        `json:"name"`
	Phone        string        `json:"phone"`
	Email        *string       `json:"email"`
	Address      *string       `json:"address"`
	ProjectType  *string       `json:"project_type"`
	PropertyType *string       `json:"property_type"`
	TotalArea    *string       `json:"total_area"`
	NumRooms     *string       `json:"num_rooms"`
	Budget       *string       `json:"budget"`
	Timeline     *string       `json:"timeline"`
	Message      *string       `json:"message"`
	Status       InquiryStatus `json:"status"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}
