package mqtt

import (
	"github.com/cptspacemanspiff/gamma-daemon/internal/daemon"
)

// FakePublisher records published decisions for test assertions.
type FakePublisher struct {
	// Decisions contains all decisions that were published.
	Decisions []daemon.Decision

	// Payloads contains the JSON payloads that were published.
	Payloads [][]byte

	// PublishError, if set, will be returned by Publish.
	PublishError error

	Closed bool
}

// NewFakePublisher creates a FakePublisher for testing.
func NewFakePublisher() *FakePublisher {
	return &FakePublisher{}
}

// Publish records the decision.
func (f *FakePublisher) Publish(d daemon.Decision) error {
	if f.PublishError != nil {
		return f.PublishError
	}

	payload, err := FormatPayload(d)
	if err != nil {
		return err
	}
	f.Decisions = append(f.Decisions, d)
	f.Payloads = append(f.Payloads, payload)

	return nil
}

// Close marks the publisher as closed.
func (f *FakePublisher) Close() error {
	f.Closed = true
	return nil
}
