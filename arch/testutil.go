package arch

// FakeSystemControl implements SystemControl with recorded values. Tests
// use it in place of the SCB; Reset is observable instead of terminal.
type FakeSystemControl struct {
	Status FaultStatus
	MainSP uint32
	ProcSP uint32

	FaultReportingEnabled bool
	ResetCount            int

	// OnReset, if set, runs on every Reset call. A test that needs the
	// never-returns behavior can make it panic.
	OnReset func()
}

// FaultStatus implements SystemControl.
func (f *FakeSystemControl) FaultStatus() FaultStatus {
	return f.Status
}

// MSP implements SystemControl.
func (f *FakeSystemControl) MSP() uint32 {
	return f.MainSP
}

// PSP implements SystemControl.
func (f *FakeSystemControl) PSP() uint32 {
	return f.ProcSP
}

// EnableFaultReporting implements SystemControl.
func (f *FakeSystemControl) EnableFaultReporting() {
	f.FaultReportingEnabled = true
}

// Reset implements SystemControl.
func (f *FakeSystemControl) Reset() {
	f.ResetCount++
	if f.OnReset != nil {
		f.OnReset()
	}
}
