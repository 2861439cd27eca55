package ecs

// System is a unit of per-frame behavior. Exported Query and Singleton
// fields are wired by the Scheduler when the system is registered; any other
// fields are private state that persists between frames.
type System interface {
	Execute(frame *UpdateFrame)
}

// Stage orders groups of systems within a frame. Lower stages run first;
// systems sharing a stage run in registration order.
type Stage int

// DefaultStage is used by Scheduler.Register.
const DefaultStage Stage = 0
