package ecs

// UpdateFrame is handed to every system during a single Scheduler pass.
type UpdateFrame struct {
	DeltaTime float64

	// Frame counts Once calls, starting at 1.
	Frame    int64
	Commands *Commands
	Storage  *Storage
	Stage    Stage

	err error
}

func newUpdateFrame(dt float64, frame int64, storage *Storage) *UpdateFrame {
	return &UpdateFrame{
		DeltaTime: dt,
		Frame:     frame,
		Commands:  newCommands(),
		Storage:   storage,
	}
}

// Fail records err as the result of this frame. The scheduler stops running
// systems once a failure is recorded, flushes queued commands and returns the
// error from Once. Only the first failure is kept.
func (f *UpdateFrame) Fail(err error) {
	if err != nil && f.err == nil {
		f.err = err
	}
}

// Err returns the failure recorded so far, if any.
func (f *UpdateFrame) Err() error {
	return f.err
}
