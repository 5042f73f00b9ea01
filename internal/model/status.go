package model

type Status string

const (
	StatusPending    Status = "PENDING"
	StatusProcessing Status = "PROCESSING"
	StatusReview     Status = "REVIEW"
	StatusApproved   Status = "APPROVED"
	StatusRejected   Status = "REJECTED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusReview, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Actor identifies who is driving a status transition. The pipeline owns the
// PENDING/PROCESSING edges, moderators own everything after.
type Actor string

const (
	ActorPipeline  Actor = "pipeline"
	ActorModerator Actor = "moderator"
)

type edge struct {
	from Status
	to   Status
}

var pipelineEdges = map[edge]bool{
	{StatusPending, StatusProcessing}:  true,
	{StatusProcessing, StatusReview}:   true,
	{StatusProcessing, StatusApproved}: true,
	{StatusProcessing, StatusRejected}: true,
}

var moderatorEdges = map[edge]bool{
	{StatusReview, StatusApproved}:   true,
	{StatusReview, StatusRejected}:   true,
	{StatusApproved, StatusReview}:   true,
	{StatusApproved, StatusRejected}: true,
	{StatusRejected, StatusReview}:   true,
	{StatusRejected, StatusApproved}: true,
}

// CanTransition reports whether the given actor may move a post from one
// status to another. Every edge not listed in the tables is illegal; nothing
// ever transitions back into PENDING or PROCESSING.
func CanTransition(from, to Status, actor Actor) bool {
	e := edge{from, to}
	switch actor {
	case ActorPipeline:
		return pipelineEdges[e]
	case ActorModerator:
		return moderatorEdges[e]
	}
	return false
}

// DisplayBucket groups raw statuses into the vocabulary the profile and
// moderation views render. Kept as an explicit table so the read boundary
// has one place that knows PENDING and PROCESSING look the same to users.
var displayBuckets = map[Status]string{
	StatusPending:    "pending",
	StatusProcessing: "pending",
	StatusReview:     "review",
	StatusApproved:   "approved",
	StatusRejected:   "rejected",
}

func DisplayBucket(s Status) string {
	return displayBuckets[s]
}

func DisplayBuckets() map[Status]string {
	buckets := make(map[Status]string, len(displayBuckets))
	for status, bucket := range displayBuckets {
		buckets[status] = bucket
	}
	return buckets
}
