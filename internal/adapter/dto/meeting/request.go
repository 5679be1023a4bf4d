package meeting

// ProcessRequest represents the request to extract tasks from a transcript
type ProcessRequest struct {
	Title      string `json:"title" validate:"omitempty,max=255"`
	Transcript string `json:"transcript" validate:"required"`
}

// UpdateTaskRequest carries the mutable task fields. Absent fields are left
// unchanged, matching PATCH semantics.
type UpdateTaskRequest struct {
	Status      *string `json:"status,omitempty"`
	Description *string `json:"description,omitempty"`
	DueDate     *string `json:"due_date,omitempty"`
}

// CommentRequest represents the request to add a comment to a task
type CommentRequest struct {
	Text string `json:"text" validate:"required"`
}

// ChangeRequestRequest represents the request to file a change request
type ChangeRequestRequest struct {
	Request string `json:"request" validate:"required"`
}

// ChangeRequestStatusRequest represents the request to decide a change request
type ChangeRequestStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=approved rejected"`
}

// EmailRequest represents the request to email a meeting summary
type EmailRequest struct {
	Emails []string `json:"emails" validate:"required,min=1,dive,email"`
	Type   string   `json:"type" validate:"omitempty,oneof=summary decisions actions full"`
}
