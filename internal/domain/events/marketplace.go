package events

import "github.com/maxaizer/jobmarket/internal/domain/models"

var (
	MessageSentTopic = "MessageSentEvent"
	JobPostedTopic   = "JobPostedEvent"
)

type MessageSent struct {
	Message models.Message
}

type JobPosted struct {
	Job models.Job
}
