// Package rtos models task-scheduler introspection as an optional
// capability. A build with an RTOS injects an Introspector wired to its
// scheduler; a bare-metal build injects Absent(). The capture path calls
// the capability uniformly either way, and an early-boot fault before any
// scheduler exists is an expected, supported case rather than an error.
package rtos

// TaskInfo describes the task that was running when the fault hit.
type TaskInfo struct {
	// Name is the scheduler's task name. Stored truncated to the record
	// format's maximum name length.
	Name string
	// Priority is the task's current priority.
	Priority uint32
	// MinFreeStackBytes is the minimum free stack observed over the task's
	// lifetime (the stack high-water mark, in bytes).
	MinFreeStackBytes uint32
	// StackBase is the base address of the task's stack.
	StackBase uint32
}

// Introspector is the task-introspection capability.
type Introspector interface {
	// CurrentTask returns a snapshot of the running task. ok is false when
	// no snapshot is available, including when the scheduler has not been
	// started yet.
	CurrentTask() (info TaskInfo, ok bool)
}

// Absent returns the no-capability variant: CurrentTask always reports no
// snapshot. Used for bare-metal builds and early-boot configurations.
func Absent() Introspector {
	return absent{}
}

type absent struct{}

func (absent) CurrentTask() (TaskInfo, bool) {
	return TaskInfo{}, false
}

// IntrospectorFunc adapts a query function to the Introspector interface.
// An RTOS port supplies the function; it must be safe to call from the
// fault context (no allocation, no blocking).
type IntrospectorFunc func() (TaskInfo, bool)

// CurrentTask implements Introspector.
func (f IntrospectorFunc) CurrentTask() (TaskInfo, bool) {
	return f()
}

// Static returns an Introspector that always reports the given task.
// Test and host-tool helper.
func Static(info TaskInfo) Introspector {
	return IntrospectorFunc(func() (TaskInfo, bool) {
		return info, true
	})
}
