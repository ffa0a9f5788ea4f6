package interfaces

type SchedulerInterface interface {
	Init()
	Stop()
	// RunOnce performs one refresh round immediately.
	RunOnce()
}
