package model

// TriggerType indicates what started a comparison run.
type TriggerType string

const (
	TriggerScheduled TriggerType = "SCHEDULED"
	TriggerCommand   TriggerType = "COMMAND"
	TriggerStartup   TriggerType = "STARTUP"
	TriggerOneShot   TriggerType = "ONESHOT"
)

// RunStatus is the outcome of a comparison run.
type RunStatus string

const (
	RunOK     RunStatus = "OK"
	RunFailed RunStatus = "FAILED"
)
