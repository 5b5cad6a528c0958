package domain

import (
	"fmt"
	"strings"
)

type TaskType string

const (
	TaskTypeTask    TaskType = "task"
	TaskTypeProject TaskType = "project"
	TaskTypeList    TaskType = "list"
)

// ValidTaskTypes is the canonical set of accepted task type strings.
var ValidTaskTypes = map[TaskType]bool{
	TaskTypeTask: true, TaskTypeProject: true, TaskTypeList: true,
}

func ParseTaskType(s string) (TaskType, error) {
	t := TaskType(strings.ToLower(strings.TrimSpace(s)))
	if !ValidTaskTypes[t] {
		return "", fmt.Errorf("%w: unknown task type %q", ErrInvalidInput, s)
	}
	return t, nil
}

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

var ValidPriorities = map[Priority]bool{
	PriorityHigh: true, PriorityMedium: true, PriorityLow: true,
}

func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	if !ValidPriorities[p] {
		return "", fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, s)
	}
	return p, nil
}

type Timeframe string

const (
	TimeframeDaily   Timeframe = "daily"
	TimeframeWeekly  Timeframe = "weekly"
	TimeframeMonthly Timeframe = "monthly"
	TimeframeYearly  Timeframe = "yearly"
)

// timeframeRank orders timeframes from finest (0) to coarsest.
var timeframeRank = map[Timeframe]int{
	TimeframeDaily:   0,
	TimeframeWeekly:  1,
	TimeframeMonthly: 2,
	TimeframeYearly:  3,
}

func ParseTimeframe(s string) (Timeframe, error) {
	tf := Timeframe(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := timeframeRank[tf]; !ok {
		return "", fmt.Errorf("%w: unknown timeframe %q", ErrInvalidInput, s)
	}
	return tf, nil
}

// FinerThan reports whether tf is a strictly finer planning grain than other.
func (tf Timeframe) FinerThan(other Timeframe) bool {
	a, okA := timeframeRank[tf]
	b, okB := timeframeRank[other]
	return okA && okB && a < b
}

type Section string

const (
	SectionTarget Section = "target"
	SectionTodo   Section = "todo"
)

// Legacy section names, renamed by a data migration.
const (
	legacySectionFocus = "focus"
	legacySectionExtra = "extra"
)

// ParseSection accepts current and legacy section names.
func ParseSection(s string) (Section, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(SectionTarget), legacySectionFocus:
		return SectionTarget, nil
	case string(SectionTodo), legacySectionExtra:
		return SectionTodo, nil
	default:
		return "", fmt.Errorf("%w: unknown section %q", ErrInvalidInput, s)
	}
}

type IdentityProvider string

const (
	ProviderApple  IdentityProvider = "apple"
	ProviderGoogle IdentityProvider = "google"
)

func ParseIdentityProvider(s string) (IdentityProvider, error) {
	switch p := IdentityProvider(strings.ToLower(strings.TrimSpace(s))); p {
	case ProviderApple, ProviderGoogle:
		return p, nil
	default:
		return "", fmt.Errorf("%w: unsupported identity provider %q", ErrInvalidInput, s)
	}
}
