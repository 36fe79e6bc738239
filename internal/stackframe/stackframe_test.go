package stackframe

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/bspguy/hardfault-handler/arch"
)

func TestRead(t *testing.T) {
	const base = uint32(0x2000F000)
	mem := arch.NewMemoryImage(base, make([]byte, 64))

	want := Frame{
		R0:  0x00000001,
		R1:  0x00000002,
		R2:  0x00000003,
		R3:  0x00000004,
		R12: 0x0000000C,
		LR:  0x08001235,
		PC:  0x08004A20,
		PSR: 0x21000000,
	}
	words := []uint32{want.R0, want.R1, want.R2, want.R3, want.R12, want.LR, want.PC, want.PSR}
	for i, w := range words {
		mem.SetWord(base+uint32(i*4), w)
	}

	got, err := Read(mem, base)
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Read() mismatch (-want +got):\n%s", diff)
	}
}

func TestRead_WildAddress(t *testing.T) {
	mem := arch.NewMemoryImage(0x20000000, make([]byte, 64))

	if _, err := Read(mem, 0xDEADBEEF); err == nil {
		t.Error("Read() at unmapped address should fail")
	}
}

func TestRead_ShortFrame(t *testing.T) {
	// Frame starts 4 bytes before the end of mapped memory.
	mem := arch.NewMemoryImage(0x20000000, make([]byte, 4))

	if _, err := Read(mem, 0x20000000); err == nil {
		t.Error("Read() of truncated frame should fail")
	}
}
