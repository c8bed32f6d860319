package domain

import "time"

// TaskKind identifies one of the two long-running automation workflows.
type TaskKind string

const (
	TaskSync      TaskKind = "sync"
	TaskAutoApply TaskKind = "auto_apply"
)

// TaskStatus is the tri-state lifecycle of an orchestrated task.
type TaskStatus string

const (
	TaskIdle    TaskStatus = "idle"
	TaskRunning TaskStatus = "running"
	TaskFailed  TaskStatus = "failed"
)

// TaskState is a point-in-time snapshot of one task kind. Reason is only
// populated when Status is TaskFailed; a subsequent start clears it
// (failures are not sticky).
type TaskState struct {
	Status    TaskStatus `json:"status"`
	Reason    string     `json:"reason,omitempty"`
	UpdatedAt time.Time  `json:"updated_at"`
}
