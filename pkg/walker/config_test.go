package walker

import (
	"math"
	"strings"
	"testing"

	"github.com/sudotliu/bonsai/pkg/errors"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
		wantMsg string
	}{
		{
			name: "Valid",
			cfg:  Config{SiblingSeparation: 4, SubtreeSeparation: 4, LevelSeparation: 1, MaxDepth: 10, NodeSize: 2},
		},
		{
			name: "ZeroValue",
			cfg:  Config{},
		},
		{
			name:    "NegativeSiblingSeparation",
			cfg:     Config{SiblingSeparation: -1},
			wantErr: true,
			wantMsg: "sibling_separation",
		},
		{
			name:    "NegativeSubtreeSeparation",
			cfg:     Config{SubtreeSeparation: -0.5},
			wantErr: true,
			wantMsg: "subtree_separation",
		},
		{
			name:    "NegativeLevelSeparation",
			cfg:     Config{LevelSeparation: -1},
			wantErr: true,
			wantMsg: "level_separation",
		},
		{
			name:    "NegativeMaxDepth",
			cfg:     Config{MaxDepth: -1},
			wantErr: true,
			wantMsg: "max_depth",
		},
		{
			name:    "NegativeNodeSize",
			cfg:     Config{NodeSize: -2},
			wantErr: true,
			wantMsg: "node_size",
		},
		{
			name:    "InvertedXBounds",
			cfg:     Config{MinX: 10, MaxX: -10},
			wantErr: true,
			wantMsg: "min_x",
		},
		{
			name:    "InvertedYBounds",
			cfg:     Config{MinY: 5, MaxY: 5},
			wantErr: true,
			wantMsg: "min_y",
		},
		{
			name:    "CollectsAllOffenders",
			cfg:     Config{SiblingSeparation: -1, NodeSize: -1},
			wantErr: true,
			wantMsg: "sibling_separation=-1; node_size=-1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatal("Validate: expected error, got nil")
				}
				if errors.GetCode(err) != errors.ErrCodeInvalidConfiguration {
					t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidConfiguration)
				}
				if !strings.Contains(err.Error(), tt.wantMsg) {
					t.Errorf("error %q does not mention %q", err.Error(), tt.wantMsg)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate: %v", err)
			}
		})
	}
}

func TestConfigBounds(t *testing.T) {
	unbounded := Config{}
	if min, max := unbounded.boundsX(); !math.IsInf(min, -1) || !math.IsInf(max, 1) {
		t.Errorf("boundsX = [%v, %v], want unbounded", min, max)
	}
	if min, max := unbounded.boundsY(); !math.IsInf(min, -1) || !math.IsInf(max, 1) {
		t.Errorf("boundsY = [%v, %v], want unbounded", min, max)
	}

	bounded := Config{MinX: -10, MaxX: 10, MinY: 0, MaxY: 100}
	if min, max := bounded.boundsX(); min != -10 || max != 10 {
		t.Errorf("boundsX = [%v, %v], want [-10, 10]", min, max)
	}
	if min, max := bounded.boundsY(); min != 0 || max != 100 {
		t.Errorf("boundsY = [%v, %v], want [0, 100]", min, max)
	}

	// Setting only one side makes the zero side an explicit bound.
	halfSet := Config{MaxX: 10}
	if min, max := halfSet.boundsX(); min != 0 || max != 10 {
		t.Errorf("boundsX = [%v, %v], want [0, 10]", min, max)
	}

	// A one-sided bound takes an explicit infinity on the open side.
	oneSided := Config{MinX: math.Inf(-1), MaxX: 10}
	if min, max := oneSided.boundsX(); !math.IsInf(min, -1) || max != 10 {
		t.Errorf("boundsX = [%v, %v], want [-Inf, 10]", min, max)
	}
}

func TestConfigCheckRange(t *testing.T) {
	cfg := Config{MinX: -10, MaxX: 10, MinY: 0, MaxY: 5}

	if err := cfg.checkRange("a", 0, 0); err != nil {
		t.Fatalf("checkRange inside bounds: %v", err)
	}
	if err := cfg.checkRange("a", -10, 5); err != nil {
		t.Fatalf("checkRange on bounds: %v", err)
	}

	err := cfg.checkRange("a", 11, 0)
	if errors.GetCode(err) != errors.ErrCodeOutOfRange {
		t.Errorf("x overflow code = %v, want %v", errors.GetCode(err), errors.ErrCodeOutOfRange)
	}
	err = cfg.checkRange("a", 0, -1)
	if errors.GetCode(err) != errors.ErrCodeOutOfRange {
		t.Errorf("y underflow code = %v, want %v", errors.GetCode(err), errors.ErrCodeOutOfRange)
	}
}
