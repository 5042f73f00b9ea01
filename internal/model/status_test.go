package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var allStatuses = []Status{StatusPending, StatusProcessing, StatusReview, StatusApproved, StatusRejected}

func TestCanTransition(t *testing.T) {
	type legal struct {
		from  Status
		to    Status
		actor Actor
	}

	legalEdges := []legal{
		{StatusPending, StatusProcessing, ActorPipeline},
		{StatusProcessing, StatusReview, ActorPipeline},
		{StatusProcessing, StatusApproved, ActorPipeline},
		{StatusProcessing, StatusRejected, ActorPipeline},
		{StatusReview, StatusApproved, ActorModerator},
		{StatusReview, StatusRejected, ActorModerator},
		{StatusApproved, StatusReview, ActorModerator},
		{StatusApproved, StatusRejected, ActorModerator},
		{StatusRejected, StatusReview, ActorModerator},
		{StatusRejected, StatusApproved, ActorModerator},
	}

	allowed := make(map[legal]bool, len(legalEdges))
	for _, e := range legalEdges {
		allowed[e] = true
		assert.True(t, CanTransition(e.from, e.to, e.actor), "%s -> %s by %s must be legal", e.from, e.to, e.actor)
	}

	// Everything outside the table is illegal, including legal edges
	// attempted by the wrong actor.
	for _, from := range allStatuses {
		for _, to := range allStatuses {
			for _, actor := range []Actor{ActorPipeline, ActorModerator} {
				if allowed[legal{from, to, actor}] {
					continue
				}
				assert.False(t, CanTransition(from, to, actor), "%s -> %s by %s must be illegal", from, to, actor)
			}
		}
	}
}

func TestNothingTransitionsIntoPendingOrProcessing(t *testing.T) {
	for _, from := range allStatuses {
		for _, actor := range []Actor{ActorPipeline, ActorModerator} {
			assert.False(t, CanTransition(from, StatusPending, actor))
			if from != StatusPending {
				assert.False(t, CanTransition(from, StatusProcessing, actor))
			}
		}
	}
}

func TestDisplayBuckets(t *testing.T) {
	assert.Equal(t, "pending", DisplayBucket(StatusPending))
	assert.Equal(t, "pending", DisplayBucket(StatusProcessing))
	assert.Equal(t, "review", DisplayBucket(StatusReview))
	assert.Equal(t, "approved", DisplayBucket(StatusApproved))
	assert.Equal(t, "rejected", DisplayBucket(StatusRejected))

	// The exported copy covers the full vocabulary and is detached from
	// the internal table.
	buckets := DisplayBuckets()
	assert.Len(t, buckets, len(allStatuses))
	buckets[StatusPending] = "mutated"
	assert.Equal(t, "pending", DisplayBucket(StatusPending))
}

func TestStatusValid(t *testing.T) {
	for _, status := range allStatuses {
		assert.True(t, status.Valid())
	}
	assert.False(t, Status("DRAFT").Valid())
	assert.False(t, Status("").Valid())
}
