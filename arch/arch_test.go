package arch

import (
	"testing"
)

func TestEntryState_Decode(t *testing.T) {
	tests := []struct {
		name      string
		excReturn uint32
		wantPSP   bool
		wantFP    bool
	}{
		{"thread mode MSP no FP", 0xFFFFFFF9, false, false},
		{"thread mode PSP no FP", 0xFFFFFFFD, true, false},
		{"thread mode MSP with FP", 0xFFFFFFE9, false, true},
		{"thread mode PSP with FP", 0xFFFFFFED, true, true},
		{"handler mode no FP", 0xFFFFFFF1, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := EntryState{ExcReturn: tt.excReturn}
			if got := e.UsedPSP(); got != tt.wantPSP {
				t.Errorf("UsedPSP() = %v, want %v", got, tt.wantPSP)
			}
			if got := e.HasFPContext(); got != tt.wantFP {
				t.Errorf("HasFPContext() = %v, want %v", got, tt.wantFP)
			}
		})
	}
}

func TestMemoryImage_ReadMemory(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}
	mi := NewMemoryImage(0x20000000, data)

	tests := []struct {
		name      string
		addr      uint32
		size      int
		wantBytes []byte
		wantN     int
		wantErr   bool
	}{
		{
			name:      "read from start",
			addr:      0x20000000,
			size:      4,
			wantBytes: []byte{0x01, 0x02, 0x03, 0x04},
			wantN:     4,
		},
		{
			name:      "partial read beyond end",
			addr:      0x20000007,
			size:      4,
			wantBytes: []byte{0x08},
			wantN:     1,
		},
		{
			name:    "read before image",
			addr:    0x1FFFFFFF,
			size:    4,
			wantErr: true,
		},
		{
			name:    "read after image",
			addr:    0x20000008,
			size:    4,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := make([]byte, tt.size)
			n, err := mi.ReadMemory(tt.addr, buf)

			if (err != nil) != tt.wantErr {
				t.Errorf("ReadMemory() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if n != tt.wantN {
				t.Errorf("ReadMemory() n = %d, want %d", n, tt.wantN)
			}
			for i := 0; i < tt.wantN; i++ {
				if buf[i] != tt.wantBytes[i] {
					t.Errorf("ReadMemory() buf[%d] = 0x%02X, want 0x%02X", i, buf[i], tt.wantBytes[i])
				}
			}
		})
	}
}

func TestMemoryImage_SetWord(t *testing.T) {
	mi := NewMemoryImage(0x20000000, make([]byte, 16))
	mi.SetWord(0x20000004, 0xDEADBEEF)

	buf := make([]byte, 4)
	if _, err := mi.ReadMemory(0x20000004, buf); err != nil {
		t.Fatalf("ReadMemory() error: %v", err)
	}
	want := []byte{0xEF, 0xBE, 0xAD, 0xDE}
	for i := range want {
		if buf[i] != want[i] {
			t.Errorf("byte %d = 0x%02X, want 0x%02X", i, buf[i], want[i])
		}
	}

	// Out-of-range writes are ignored.
	mi.SetWord(0x2000000E, 0x12345678)
	mi.SetWord(0x10000000, 0x12345678)
}
