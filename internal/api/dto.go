package api

import (
	"time"

	"github.com/alexanderramin/tasker/internal/domain"
)

type taskResponse struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Description     *string    `json:"description"`
	Type            string     `json:"type"`
	IsCompleted     bool       `json:"is_completed"`
	CompletedDate   *time.Time `json:"completed_date"`
	CreatedDate     time.Time  `json:"created_date"`
	ModifiedDate    time.Time  `json:"modified_date"`
	SortOrder       int        `json:"sort_order"`
	IsInLibrary     bool       `json:"is_in_library"`
	SubtaskSnapshot []bool     `json:"previous_subtask_states"`
	Priority        string     `json:"priority"`
	CategoryID      *string    `json:"category_id"`
	ProjectID       *string    `json:"project_id"`
	ParentTaskID    *string    `json:"parent_task_id"`
}

func toTaskResponse(t *domain.Task) taskResponse {
	return taskResponse{
		ID:              t.ID,
		Title:           t.Title,
		Description:     t.Description,
		Type:            string(t.Type),
		IsCompleted:     t.IsCompleted,
		CompletedDate:   t.CompletedDate,
		CreatedDate:     t.CreatedDate,
		ModifiedDate:    t.ModifiedDate,
		SortOrder:       t.SortOrder,
		IsInLibrary:     t.IsInLibrary,
		SubtaskSnapshot: t.SubtaskSnapshot,
		Priority:        string(t.Priority),
		CategoryID:      t.CategoryID,
		ProjectID:       t.ProjectID,
		ParentTaskID:    t.ParentTaskID,
	}
}

func toTaskResponses(ts []*domain.Task) []taskResponse {
	out := make([]taskResponse, 0, len(ts))
	for _, t := range ts {
		out = append(out, toTaskResponse(t))
	}
	return out
}

type createTaskRequest struct {
	Title        string  `json:"title"`
	Description  *string `json:"description"`
	Type         string  `json:"type"`
	Priority     string  `json:"priority"`
	IsInLibrary  bool    `json:"is_in_library"`
	CategoryID   *string `json:"category_id"`
	ProjectID    *string `json:"project_id"`
	ParentTaskID *string `json:"parent_task_id"`
	// SortOrder, when set, is stored as given instead of appending.
	SortOrder *int `json:"sort_order"`
}

type categoryResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	SortOrder   int       `json:"sort_order"`
	Type        string    `json:"type,omitempty"`
	CreatedDate time.Time `json:"created_date"`
}

func toCategoryResponse(c *domain.Category) categoryResponse {
	return categoryResponse{ID: c.ID, Name: c.Name, SortOrder: c.SortOrder, Type: c.Type, CreatedDate: c.CreatedDate}
}

type commitmentResponse struct {
	ID                 string    `json:"id"`
	TaskID             string    `json:"task_id"`
	Timeframe          string    `json:"timeframe"`
	Section            string    `json:"section"`
	CommitmentDate     string    `json:"commitment_date"`
	SortOrder          int       `json:"sort_order"`
	CreatedDate        time.Time `json:"created_date"`
	ParentCommitmentID *string   `json:"parent_commitment_id"`
	ScheduledTime      *string   `json:"scheduled_time"`
	DurationMinutes    *int      `json:"duration_minutes"`
}

func toCommitmentResponse(c *domain.Commitment) commitmentResponse {
	out := commitmentResponse{
		ID:                 c.ID,
		TaskID:             c.TaskID,
		Timeframe:          string(c.Timeframe),
		Section:            string(c.Section),
		CommitmentDate:     c.CommitmentDate.Format(dateLayout),
		SortOrder:          c.SortOrder,
		CreatedDate:        c.CreatedDate,
		ParentCommitmentID: c.ParentCommitmentID,
		DurationMinutes:    c.DurationMinutes,
	}
	if c.ScheduledTime != nil {
		s := c.ScheduledTime.String()
		out.ScheduledTime = &s
	}
	return out
}

func toCommitmentResponses(cs []*domain.Commitment) []commitmentResponse {
	out := make([]commitmentResponse, 0, len(cs))
	for _, c := range cs {
		out = append(out, toCommitmentResponse(c))
	}
	return out
}

type createCommitmentRequest struct {
	TaskID          string  `json:"task_id"`
	Timeframe       string  `json:"timeframe"`
	Section         string  `json:"section"`
	Date            string  `json:"date"`
	ScheduledTime   *string `json:"scheduled_time"`
	DurationMinutes *int    `json:"duration_minutes"`
}

type breakdownRequest struct {
	Timeframe string `json:"timeframe"`
	Date      string `json:"date"`
	Section   string `json:"section"`
}

type scheduleRequest struct {
	Time            *string `json:"time"`
	DurationMinutes *int    `json:"duration_minutes"`
}

type idsRequest struct {
	IDs []string `json:"ids"`
}
