package particles

import (
	"errors"
	"testing"
)

func TestNewFlowField(t *testing.T) {
	tests := []struct {
		name    string
		vx, vy  int
		n       int
		wantErr error
	}{
		{"matching", 16, 16, 4, nil},
		{"empty", 0, 0, 0, nil},
		{"short vx", 15, 16, 4, ErrSizeMismatch},
		{"long vy", 16, 25, 4, ErrSizeMismatch},
		{"negative size", 0, 0, -1, ErrOutOfBounds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFlowField(make([]float32, tt.vx), make([]float32, tt.vy), tt.n)
			if tt.wantErr == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestFlowFieldActive(t *testing.T) {
	if (FlowField{}).Active() {
		t.Error("zero FlowField should be inactive")
	}
	f := FlowField{VX: make([]float32, 4), VY: make([]float32, 4), N: 2}
	if !f.Active() {
		t.Error("populated FlowField should be active")
	}
}

func TestFlowFieldCellMapping(t *testing.T) {
	f := FlowField{VX: make([]float32, 100), VY: make([]float32, 100), N: 10}

	tests := []struct {
		name   string
		x, y   float32
		wantX  int
		wantY  int
		wantOK bool
	}{
		{"center", 0, 0, 5, 5, true},
		{"top left", -100, 100, 0, 0, true},
		{"y inverted", 0, 90, 5, 0, true},
		{"just outside left truncates to 0", -100.5, 0, 0, 5, true},
		{"right edge excluded", 100, 0, 0, 0, false},
		{"far outside", -150, 0, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, ok := f.cell(tt.x, tt.y, 100)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && idx != tt.wantX+tt.wantY*10 {
				t.Errorf("index = %d, want %d", idx, tt.wantX+tt.wantY*10)
			}
		})
	}
}
