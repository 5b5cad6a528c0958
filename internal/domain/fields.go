package domain

// TaskField names a persisted Task attribute. Storage layers map each field
// to a column through an explicit table.
type TaskField int

const (
	TaskFieldID TaskField = iota
	TaskFieldOwnerID
	TaskFieldTitle
	TaskFieldDescription
	TaskFieldType
	TaskFieldIsCompleted
	TaskFieldCompletedDate
	TaskFieldCreatedDate
	TaskFieldModifiedDate
	TaskFieldSortOrder
	TaskFieldIsInLibrary
	TaskFieldSubtaskSnapshot
	TaskFieldPriority
	TaskFieldCategoryID
	TaskFieldProjectID
	TaskFieldParentTaskID
)

// TaskFields lists every task field in canonical order.
var TaskFields = []TaskField{
	TaskFieldID, TaskFieldOwnerID, TaskFieldTitle, TaskFieldDescription, TaskFieldType,
	TaskFieldIsCompleted, TaskFieldCompletedDate, TaskFieldCreatedDate, TaskFieldModifiedDate,
	TaskFieldSortOrder, TaskFieldIsInLibrary, TaskFieldSubtaskSnapshot, TaskFieldPriority,
	TaskFieldCategoryID, TaskFieldProjectID, TaskFieldParentTaskID,
}

type CategoryField int

const (
	CategoryFieldID CategoryField = iota
	CategoryFieldOwnerID
	CategoryFieldName
	CategoryFieldSortOrder
	CategoryFieldType
	CategoryFieldCreatedDate
)

var CategoryFields = []CategoryField{
	CategoryFieldID, CategoryFieldOwnerID, CategoryFieldName,
	CategoryFieldSortOrder, CategoryFieldType, CategoryFieldCreatedDate,
}

type CommitmentField int

const (
	CommitmentFieldID CommitmentField = iota
	CommitmentFieldOwnerID
	CommitmentFieldTaskID
	CommitmentFieldTimeframe
	CommitmentFieldSection
	CommitmentFieldCommitmentDate
	CommitmentFieldSortOrder
	CommitmentFieldCreatedDate
	CommitmentFieldParentCommitmentID
	CommitmentFieldScheduledTime
	CommitmentFieldDurationMinutes
)

var CommitmentFields = []CommitmentField{
	CommitmentFieldID, CommitmentFieldOwnerID, CommitmentFieldTaskID, CommitmentFieldTimeframe,
	CommitmentFieldSection, CommitmentFieldCommitmentDate, CommitmentFieldSortOrder,
	CommitmentFieldCreatedDate, CommitmentFieldParentCommitmentID,
	CommitmentFieldScheduledTime, CommitmentFieldDurationMinutes,
}
