package fulfillment

import (
	"context"

	"github.com/eventworks/taskflow/pkg/domain/interfaces"
	"github.com/eventworks/taskflow/pkg/domain/model"
	"github.com/eventworks/taskflow/pkg/utils/logging"
)

// logClient records fulfillment requests in the log instead of
// delivering them. Used in development mode.
type logClient struct{}

var _ interfaces.Fulfiller = &logClient{}

// NewLog creates a fulfillment client that only logs deliveries
func NewLog() interfaces.Fulfiller {
	return &logClient{}
}

func (l *logClient) Execute(ctx context.Context, req *model.FulfillmentRequest) error {
	logging.From(ctx).Info("fulfillment executed",
		"task_id", req.Task.ID,
		"task_type", req.Task.Type,
		"definition", req.Definition.ID,
		"submission_id", req.Submission.ID,
		"version", req.Submission.Version,
	)
	return nil
}
