package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"

	"github.com/eventworks/taskflow/pkg/domain/model"
	"github.com/eventworks/taskflow/pkg/domain/types"
	"github.com/eventworks/taskflow/pkg/usecase"
	"github.com/eventworks/taskflow/pkg/utils/errutil"
)

type contentDTO struct {
	Kind       string            `json:"kind"`
	Text       string            `json:"text,omitempty"`
	References []string          `json:"references,omitempty"`
	Fields     map[string]string `json:"fields,omitempty"`
}

func (d *contentDTO) toModel() model.Content {
	return model.Content{
		Kind:       types.ContentKind(d.Kind),
		Text:       d.Text,
		References: d.References,
		Fields:     d.Fields,
	}
}

type upsertSubmissionRequest struct {
	TaskID  string      `json:"taskId"`
	Content *contentDTO `json:"content,omitempty"`
	IsDraft bool        `json:"isDraft"`
}

type addCommentRequest struct {
	TaskID string `json:"taskId"`
	Value  string `json:"value"`
}

type taskView struct {
	ID         string    `json:"id"`
	EventID    string    `json:"eventId"`
	Definition string    `json:"definition"`
	Type       string    `json:"type"`
	Status     string    `json:"status"`
	Draft      bool      `json:"draft"`
	Title      string    `json:"title"`
	Assignee   string    `json:"assignee,omitempty"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func newTaskView(t *model.Task) taskView {
	return taskView{
		ID:         t.ID.String(),
		EventID:    t.EventID.String(),
		Definition: t.TaskDefinitionID.String(),
		Type:       t.Type.String(),
		Status:     t.Status.String(),
		Draft:      t.Draft,
		Title:      t.Title,
		Assignee:   t.AssigneePersonID.String(),
		UpdatedAt:  t.UpdatedAt,
	}
}

type submissionView struct {
	ID        string     `json:"id"`
	TaskID    string     `json:"taskId"`
	EventID   string     `json:"eventId"`
	Owner     string     `json:"owner"`
	Version   int        `json:"version"`
	Active    bool       `json:"active"`
	Content   contentDTO `json:"content"`
	CreatedAt time.Time  `json:"createdAt"`
}

func newSubmissionView(s *model.Submission) submissionView {
	return submissionView{
		ID:      s.ID.String(),
		TaskID:  s.TaskID.String(),
		EventID: s.EventID.String(),
		Owner:   s.OwnerPersonID.String(),
		Version: s.Version,
		Active:  s.Active,
		Content: contentDTO{
			Kind:       s.Content.Kind.String(),
			Text:       s.Content.Text,
			References: s.Content.References,
			Fields:     s.Content.Fields,
		},
		CreatedAt: s.CreatedAt,
	}
}

type commentOwnerView struct {
	PersonID  string `json:"personId"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	RefID     string `json:"refId"`
}

type commentView struct {
	ID         string           `json:"id"`
	TargetID   string           `json:"targetId"`
	TargetType string           `json:"targetType"`
	Type       string           `json:"commentType"`
	Action     string           `json:"action,omitempty"`
	EventID    string           `json:"eventId"`
	Owner      commentOwnerView `json:"owner"`
	Comment    string           `json:"comment"`
	CreatedAt  time.Time        `json:"createdAt"`
}

func newCommentView(c *model.Comment) commentView {
	return commentView{
		ID:         c.ID.String(),
		TargetID:   c.TargetID.String(),
		TargetType: c.TargetType.String(),
		Type:       c.Type.String(),
		Action:     c.Action.String(),
		EventID:    c.EventID.String(),
		Owner: commentOwnerView{
			PersonID:  c.Owner.PersonID.String(),
			FirstName: c.Owner.FirstName,
			LastName:  c.Owner.LastName,
			RefID:     c.Owner.RefID.String(),
		},
		Comment:   c.Body,
		CreatedAt: c.CreatedAt,
	}
}

type upsertSubmissionResponse struct {
	Task       taskView        `json:"task"`
	Submission *submissionView `json:"submission,omitempty"`
}

func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

// handleError maps use case errors onto HTTP status codes
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	statusCode := http.StatusInternalServerError
	switch {
	case errors.Is(err, usecase.ErrTaskNotFound),
		errors.Is(err, usecase.ErrTaskDefinitionNotFound),
		errors.Is(err, usecase.ErrSubmissionNotFound):
		statusCode = http.StatusNotFound
	case errors.Is(err, usecase.ErrEventMismatch),
		errors.Is(err, usecase.ErrEmptyComment),
		errors.Is(err, model.ErrInvalidContent):
		statusCode = http.StatusBadRequest
	case errors.Is(err, usecase.ErrFulfillmentFailed):
		statusCode = http.StatusBadGateway
	}

	errutil.HandleHTTP(r.Context(), w, err, statusCode)
}

func upsertSubmissionHandler(uc *usecase.SubmissionUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := model.ActorFromContext(r.Context())
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusUnauthorized)
			return
		}

		var req upsertSubmissionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
			return
		}
		if req.TaskID == "" {
			errutil.HandleHTTP(r.Context(), w, goerr.New("taskId is required"), http.StatusBadRequest)
			return
		}

		input := usecase.UpsertSubmissionInput{
			TaskID:  types.TaskID(req.TaskID),
			IsDraft: req.IsDraft,
		}
		if req.Content != nil {
			input.Content = req.Content.toModel()
		}

		result, err := uc.UpsertSubmission(r.Context(), actor, input)
		if err != nil {
			handleError(w, r, err)
			return
		}

		resp := upsertSubmissionResponse{Task: newTaskView(result.Task)}
		if result.Submission == nil {
			// Reminder acknowledgment captures no submission
			writeJSON(w, http.StatusOK, resp)
			return
		}

		view := newSubmissionView(result.Submission)
		resp.Submission = &view
		writeJSON(w, http.StatusCreated, resp)
	}
}

func addCommentHandler(uc *usecase.CommentUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := model.ActorFromContext(r.Context())
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusUnauthorized)
			return
		}

		var req addCommentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
			return
		}
		if req.TaskID == "" {
			errutil.HandleHTTP(r.Context(), w, goerr.New("taskId is required"), http.StatusBadRequest)
			return
		}

		comment, err := uc.AddComment(r.Context(), actor, types.TaskID(req.TaskID), req.Value)
		if err != nil {
			handleError(w, r, err)
			return
		}

		writeJSON(w, http.StatusCreated, newCommentView(comment))
	}
}

func listTasksHandler(uc *usecase.TaskUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := model.ActorFromContext(r.Context())
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusUnauthorized)
			return
		}

		tasks, err := uc.ListTasks(r.Context(), actor)
		if err != nil {
			handleError(w, r, err)
			return
		}

		views := make([]taskView, 0, len(tasks))
		for _, t := range tasks {
			views = append(views, newTaskView(t))
		}
		writeJSON(w, http.StatusOK, views)
	}
}

func getTaskHandler(uc *usecase.TaskUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := model.ActorFromContext(r.Context())
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusUnauthorized)
			return
		}

		task, err := uc.GetTask(r.Context(), actor, types.TaskID(chi.URLParam(r, "taskID")))
		if err != nil {
			handleError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, newTaskView(task))
	}
}

func listSubmissionsHandler(uc *usecase.SubmissionUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := model.ActorFromContext(r.Context())
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusUnauthorized)
			return
		}

		subs, err := uc.ListSubmissions(r.Context(), actor, types.TaskID(chi.URLParam(r, "taskID")))
		if err != nil {
			handleError(w, r, err)
			return
		}

		views := make([]submissionView, 0, len(subs))
		for _, s := range subs {
			views = append(views, newSubmissionView(s))
		}
		writeJSON(w, http.StatusOK, views)
	}
}

func getSubmissionHandler(uc *usecase.SubmissionUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := model.ActorFromContext(r.Context())
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusUnauthorized)
			return
		}

		sub, err := uc.GetSubmission(r.Context(), actor, types.SubmissionID(chi.URLParam(r, "submissionID")))
		if err != nil {
			handleError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, newSubmissionView(sub))
	}
}

func listCommentsHandler(uc *usecase.CommentUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := model.ActorFromContext(r.Context())
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusUnauthorized)
			return
		}

		comments, err := uc.ListComments(r.Context(), actor, types.TaskID(chi.URLParam(r, "taskID")))
		if err != nil {
			handleError(w, r, err)
			return
		}

		views := make([]commentView, 0, len(comments))
		for _, c := range comments {
			views = append(views, newCommentView(c))
		}
		writeJSON(w, http.StatusOK, views)
	}
}
