package messaging

import (
	"context"

	"issuetracker/internal/ports"
)

// NopPublisher drops every event. It is used when no broker is configured.
type NopPublisher struct{}

var _ ports.EventPublisher = NopPublisher{}

func (NopPublisher) Publish(context.Context, ports.IssueEvent) error { return nil }
