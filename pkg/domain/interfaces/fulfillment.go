package interfaces

import (
	"context"

	"github.com/eventworks/taskflow/pkg/domain/model"
)

// Fulfiller executes the side-effecting fulfillment action of a task
// definition after a non-draft submission is accepted. A failure is
// surfaced to the caller; the engine does not retry or compensate.
type Fulfiller interface {
	Execute(ctx context.Context, req *model.FulfillmentRequest) error
}
