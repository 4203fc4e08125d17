package types_test

import (
	"testing"

	"github.com/eventworks/taskflow/pkg/domain/types"
	"github.com/m-mizutani/gt"
)

func TestTaskTypeIsValid(t *testing.T) {
	for _, taskType := range types.AllTaskTypes() {
		gt.Bool(t, taskType.IsValid()).True()
	}

	gt.Bool(t, types.TaskType("").IsValid()).False()
	gt.Bool(t, types.TaskType("ReminderTask").IsValid()).False()
	gt.Bool(t, types.TaskType("surveyTask").IsValid()).False()
}

func TestParseTaskType(t *testing.T) {
	taskType, err := types.ParseTaskType("clientPassSelectionTask")
	gt.NoError(t, err)
	gt.Value(t, taskType).Equal(types.TaskTypeClientPassSelection)

	_, err = types.ParseTaskType("unknownTask")
	gt.Error(t, err)
}

func TestParseContentKind(t *testing.T) {
	kind, err := types.ParseContentKind("references")
	gt.NoError(t, err)
	gt.Value(t, kind).Equal(types.ContentKindReferences)

	_, err = types.ParseContentKind("blob")
	gt.Error(t, err)
}

func TestCommentAction(t *testing.T) {
	gt.Bool(t, types.CommentActionNone.IsValid()).True()
	gt.Bool(t, types.CommentActionDraft.IsValid()).True()
	gt.Bool(t, types.CommentAction("finalComment").IsValid()).False()
	gt.Value(t, types.CommentActionDraft.String()).Equal("draftComment")
}
