package fulfillment

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/eventworks/taskflow/pkg/domain/interfaces"
	"github.com/eventworks/taskflow/pkg/domain/model"
	"github.com/eventworks/taskflow/pkg/utils/safe"
	"github.com/m-mizutani/goerr/v2"
)

// DefaultTimeout bounds a single fulfillment delivery
const DefaultTimeout = 30 * time.Second

// webhookClient delivers fulfillment payloads to the endpoint the task
// definition names. A non-2xx response is a delivery failure.
type webhookClient struct {
	httpClient *http.Client
	timeout    time.Duration
}

var _ interfaces.Fulfiller = &webhookClient{}

// Option is a functional option for webhook client configuration
type Option func(*webhookClient)

// WithHTTPClient replaces the underlying HTTP client, mainly for tests
func WithHTTPClient(c *http.Client) Option {
	return func(w *webhookClient) {
		w.httpClient = c
	}
}

// WithTimeout sets the per-delivery timeout
func WithTimeout(d time.Duration) Option {
	return func(w *webhookClient) {
		w.timeout = d
	}
}

// NewWebhook creates a fulfillment client that POSTs payloads to the
// target URL of each task definition
func NewWebhook(opts ...Option) interfaces.Fulfiller {
	w := &webhookClient{
		httpClient: http.DefaultClient,
		timeout:    DefaultTimeout,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// payload is the wire format of a fulfillment delivery
type payload struct {
	EventID      string            `json:"eventId"`
	PersonID     string            `json:"personId"`
	TaskID       string            `json:"taskId"`
	TaskType     string            `json:"taskType"`
	Definition   string            `json:"definition"`
	SubmissionID string            `json:"submissionId"`
	Version      int               `json:"version"`
	ContentKind  string            `json:"contentKind"`
	Text         string            `json:"text,omitempty"`
	References   []string          `json:"references,omitempty"`
	Fields       map[string]string `json:"fields,omitempty"`
}

func (w *webhookClient) Execute(ctx context.Context, req *model.FulfillmentRequest) error {
	if req.Definition.FulfillmentTarget == "" {
		// Definition has no fulfillment side effect
		return nil
	}

	body, err := json.Marshal(payload{
		EventID:      req.Actor.EventID.String(),
		PersonID:     req.Actor.Person.ID.String(),
		TaskID:       req.Task.ID.String(),
		TaskType:     req.Task.Type.String(),
		Definition:   req.Definition.ID.String(),
		SubmissionID: req.Submission.ID.String(),
		Version:      req.Submission.Version,
		ContentKind:  req.Submission.Content.Kind.String(),
		Text:         req.Submission.Content.Text,
		References:   req.Submission.Content.References,
		Fields:       req.Submission.Content.Fields,
	})
	if err != nil {
		return goerr.Wrap(err, "failed to marshal fulfillment payload", goerr.V("task_id", req.Task.ID))
	}

	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, req.Definition.FulfillmentTarget, bytes.NewReader(body))
	if err != nil {
		return goerr.Wrap(err, "failed to build fulfillment request",
			goerr.V("target", req.Definition.FulfillmentTarget))
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(httpReq)
	if err != nil {
		return goerr.Wrap(err, "failed to deliver fulfillment",
			goerr.V("target", req.Definition.FulfillmentTarget),
			goerr.V("task_id", req.Task.ID))
	}
	defer safe.Close(ctx, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return goerr.New("fulfillment endpoint rejected delivery",
			goerr.V("target", req.Definition.FulfillmentTarget),
			goerr.V("task_id", req.Task.ID),
			goerr.V("status", resp.StatusCode))
	}

	return nil
}
