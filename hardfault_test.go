package hardfault_test

import (
	"bytes"
	"strings"
	"testing"

	hardfault "github.com/bspguy/hardfault-handler"
	"github.com/bspguy/hardfault-handler/arch"
	"github.com/bspguy/hardfault-handler/record"
	"github.com/bspguy/hardfault-handler/region"
	"github.com/bspguy/hardfault-handler/rtos"
)

const (
	stackBase = uint32(0x2000F000)
	stackTop  = uint32(0x20020000)
)

// newScene builds a Handler over a retained buffer, a fake SCB and a RAM
// image with a stacked frame at stackBase. The retained buffer is returned
// so a "reboot" can be simulated by building a second Handler over it.
func newScene(t *testing.T, retained []byte, tasks rtos.Introspector, sink func(string)) (*hardfault.Handler, *arch.FakeSystemControl) {
	t.Helper()

	ram := arch.NewMemoryImage(stackBase, bytes.Repeat([]byte{0xA5}, 4096))
	frame := []uint32{1, 2, 3, 4, 0x0C, 0x08001235, 0x08004A20, 0x21000000}
	for i, w := range frame {
		ram.SetWord(stackBase+uint32(i*4), w)
	}

	sys := &arch.FakeSystemControl{
		Status: arch.FaultStatus{CFSR: 0x00000400, HFSR: 0x40000000},
		MainSP: 0x2001FF00,
		ProcSP: stackBase,
	}

	h, err := hardfault.New(hardfault.Config{
		System:       sys,
		Memory:       ram,
		Tasks:        tasks,
		StackTop:     stackTop,
		RegionBuffer: retained,
		Sink:         sink,
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return h, sys
}

func TestFaultRebootReportCycle(t *testing.T) {
	// Retained memory survives the simulated reset; both Handler
	// instances share it, as both boots share the .noinit section.
	retained := bytes.Repeat([]byte{region.Sentinel}, 2048)

	// Boot 1: a fault hits while a task is running.
	task := rtos.TaskInfo{Name: "sensorTask", Priority: 5, MinFreeStackBytes: 512, StackBase: 0x2000E000}
	faulted, sys := newScene(t, retained, rtos.Static(task), nil)
	faulted.HandleFault(arch.EntryState{ActiveSP: stackBase, ExcReturn: 0xFFFFFFFD})
	if sys.ResetCount != 1 {
		t.Fatalf("ResetCount = %d after fault, want 1", sys.ResetCount)
	}

	// Boot 2: Init finds the dump, reports it, clears the region.
	var lines []string
	booted, sys2 := newScene(t, retained, rtos.Absent(), func(line string) {
		lines = append(lines, line)
	})
	if !booted.Available() {
		t.Fatal("Available() = false after a capture survived the reset")
	}
	booted.Init()

	if !sys2.FaultReportingEnabled {
		t.Error("Init() did not enable detailed fault reporting")
	}

	reportText := strings.Join(lines, "\n")
	for _, want := range []string{
		"===== HARD FAULT DUMP =====",
		" PC : 0x08004A20  PSR: 0x21000000",
		" Task : 'sensorTask'",
		"HF_ADDR PC=0x08004A20 LR=0x08001235",
	} {
		if !strings.Contains(reportText, want) {
			t.Errorf("report missing %q:\n%s", want, reportText)
		}
	}

	// The region is cleared and Init is now a no-op.
	if booted.Available() {
		t.Error("Available() = true after Init() cleared the region")
	}
	lines = nil
	booted.Init()
	if len(lines) != 0 {
		t.Errorf("second Init() emitted %d lines, want 0", len(lines))
	}
	for i, b := range retained {
		if b != region.Sentinel {
			t.Fatalf("retained byte %d = 0x%02X after clear, want sentinel", i, b)
		}
	}
}

func TestFaultDuringFault(t *testing.T) {
	retained := bytes.Repeat([]byte{region.Sentinel}, 2048)

	h, _ := newScene(t, retained, rtos.Absent(), nil)
	entry := arch.EntryState{ActiveSP: stackBase, ExcReturn: 0xFFFFFFF9}

	// First capture, then a second fault re-enters the trampoline before
	// the reset takes effect.
	h.HandleFault(entry)
	h.HandleFault(entry)

	booted, _ := newScene(t, retained, rtos.Absent(), nil)
	if !booted.Available() {
		t.Fatal("second capture did not produce a valid record")
	}
}

func TestInit_NoDumpIsSilent(t *testing.T) {
	retained := bytes.Repeat([]byte{region.Sentinel}, 2048)

	var lines []string
	h, _ := newScene(t, retained, rtos.Absent(), func(line string) {
		lines = append(lines, line)
	})
	h.Init()

	if len(lines) != 0 {
		t.Errorf("Init() with no dump emitted %d lines", len(lines))
	}
}

func TestNew_Validation(t *testing.T) {
	sys := &arch.FakeSystemControl{}
	ram := arch.NewMemoryImage(0, make([]byte, 16))

	tests := []struct {
		name string
		cfg  hardfault.Config
	}{
		{"missing system", hardfault.Config{Memory: ram}},
		{"missing memory", hardfault.Config{System: sys}},
		{"region too small", hardfault.Config{
			System:       sys,
			Memory:       ram,
			RegionBuffer: make([]byte, record.HeaderLen),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := hardfault.New(tt.cfg); err == nil {
				t.Error("New() should have failed")
			}
		})
	}
}
