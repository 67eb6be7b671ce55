package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load defaults: %v", err)
	}

	if cfg.Fluid.Size != 128 {
		t.Errorf("fluid.size = %d, want 128", cfg.Fluid.Size)
	}
	if cfg.Fluid.Iterations != 4 {
		t.Errorf("fluid.iterations = %d, want 4", cfg.Fluid.Iterations)
	}
	if cfg.Particles.Count != 10000 {
		t.Errorf("particles.count = %d, want 10000", cfg.Particles.Count)
	}
	if cfg.Render.FluidTint != [3]uint8{168, 85, 247} {
		t.Errorf("render.fluid_tint = %v", cfg.Render.FluidTint)
	}
	if cfg.Derived.FluidDT32 != float32(0.1) {
		t.Errorf("derived dt = %v, want 0.1", cfg.Derived.FluidDT32)
	}
	if cfg.Derived.FrameDT32 != 1/float32(60) {
		t.Errorf("derived frame dt = %v", cfg.Derived.FrameDT32)
	}
}

func TestLoadOverridesOnlyPresentFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "override.yaml")
	data := "fluid:\n  size: 64\nparticles:\n  count: 500\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Fluid.Size != 64 || cfg.Particles.Count != 500 {
		t.Errorf("overrides not applied: size %d count %d", cfg.Fluid.Size, cfg.Particles.Count)
	}
	if cfg.Fluid.DT != 0.1 {
		t.Errorf("fluid.dt = %v, default should survive", cfg.Fluid.DT)
	}
	if cfg.Particles.RepelRadius != 30 {
		t.Errorf("particles.repel_radius = %v, default should survive", cfg.Particles.RepelRadius)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"tiny grid", "fluid:\n  size: 2\n", "fluid.size"},
		{"zero dt", "fluid:\n  dt: 0\n", "fluid.dt"},
		{"no particles", "particles:\n  count: 0\n", "particles.count"},
		{"inverted size clamp", "particles:\n  size_floor: 3\n  size_ceil: 1\n", "size_floor"},
		{"zero fps", "screen:\n  target_fps: 0\n", "target_fps"},
		{"bad yaml", "fluid: [", "parsing config file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.yaml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestWriteYAMLRoundtrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Fluid.Viscosity = 0.005

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if back.Fluid.Viscosity != 0.005 {
		t.Errorf("viscosity = %v after roundtrip", back.Fluid.Viscosity)
	}
}

func TestInitAndCfg(t *testing.T) {
	if err := Init(""); err != nil {
		t.Fatal(err)
	}
	if Cfg().Fluid.Size != 128 {
		t.Errorf("Cfg().Fluid.Size = %d", Cfg().Fluid.Size)
	}
}
