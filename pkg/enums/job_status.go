package enums

import "fmt"

// JobStatus tracks a profile update job through the worker queue.
type JobStatus string

const (
	JobQueued     JobStatus = "queued"
	JobProcessing JobStatus = "processing"
	JobDone       JobStatus = "done"
	JobFailed     JobStatus = "failed"
)

var validJobStatuses = []JobStatus{JobQueued, JobProcessing, JobDone, JobFailed}

func (s JobStatus) String() string {
	return string(s)
}

func (s JobStatus) IsValid() bool {
	for _, v := range validJobStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the job will see no further transitions.
func (s JobStatus) IsTerminal() bool {
	return s == JobDone || s == JobFailed
}

func ParseJobStatus(s string) (JobStatus, error) {
	status := JobStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid job status %q", s)
	}
	return status, nil
}
