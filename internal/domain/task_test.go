package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validTask() *Task {
	return &Task{ID: "t1", Title: "Write report", Type: TaskTypeTask, Priority: PriorityMedium}
}

func TestTaskValidate(t *testing.T) {
	now := time.Now().UTC()
	self := "t1"

	tests := []struct {
		name   string
		mutate func(*Task)
		ok     bool
	}{
		{"valid", func(*Task) {}, true},
		{"blank title", func(t *Task) { t.Title = "  " }, false},
		{"unknown type", func(t *Task) { t.Type = "epic" }, false},
		{"unknown priority", func(t *Task) { t.Priority = "urgent" }, false},
		{"completed without date", func(t *Task) { t.IsCompleted = true }, false},
		{"date without completed", func(t *Task) { t.CompletedDate = &now }, false},
		{"completed with date", func(t *Task) { t.IsCompleted = true; t.CompletedDate = &now }, true},
		{"own parent", func(t *Task) { t.ParentTaskID = &self }, false},
		{"own project", func(t *Task) { t.ProjectID = &self }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := validTask()
			tt.mutate(task)
			err := task.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidInput)
			}
		})
	}
}

func TestTaskPatch_EmptyAndValidate(t *testing.T) {
	assert.True(t, TaskPatch{}.Empty())
	assert.False(t, TaskPatch{Description: Null[string]()}.Empty())

	assert.ErrorIs(t, TaskPatch{Title: Some(" ")}.Validate(), ErrInvalidInput)
	assert.ErrorIs(t, TaskPatch{Priority: Some(Priority("urgent"))}.Validate(), ErrInvalidInput)
	assert.NoError(t, TaskPatch{Title: Some("ok"), Type: Some(TaskTypeList)}.Validate())
}

func TestSiblingFilter(t *testing.T) {
	parent, project := "p", "proj"

	sub := validTask()
	sub.ParentTaskID = &parent
	f := SiblingFilter(sub)
	assert.True(t, f.ParentTaskID.Present)
	assert.Equal(t, &parent, f.ParentTaskID.Value)
	assert.False(t, f.ProjectID.Present)

	inProject := validTask()
	inProject.ProjectID = &project
	f = SiblingFilter(inProject)
	assert.Equal(t, &project, f.ProjectID.Value)
	assert.True(t, f.ParentTaskID.Present)
	assert.Nil(t, f.ParentTaskID.Value)

	top := validTask()
	top.Type = TaskTypeList
	f = SiblingFilter(top)
	if assert.NotNil(t, f.Type) {
		assert.Equal(t, TaskTypeList, *f.Type)
	}
	assert.True(t, f.ProjectID.Present)
	assert.Nil(t, f.ProjectID.Value)
}

func TestCommitmentValidate(t *testing.T) {
	c := &Commitment{TaskID: "t", Timeframe: TimeframeDaily, Section: SectionTodo, CommitmentDate: date(2026, 3, 11)}
	assert.NoError(t, c.Validate())

	zero := 0
	c.DurationMinutes = &zero
	assert.ErrorIs(t, c.Validate(), ErrInvalidInput)

	c.DurationMinutes = nil
	c.Section = "focus"
	assert.ErrorIs(t, c.Validate(), ErrInvalidInput)
}
