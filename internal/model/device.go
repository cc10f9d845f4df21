// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package model

import (
	"os/exec"

	"github.com/pdiddy/notedistill/pkg/types"
)

// lookPath abstracts binary probing for tests.
var lookPath = exec.LookPath

// DetectDevice probes for an accelerator. A usable nvidia-smi on PATH is
// taken as CUDA being present; anything else runs on CPU.
func DetectDevice() types.Device {
	if _, err := lookPath("nvidia-smi"); err == nil {
		return types.DeviceCUDA
	}
	return types.DeviceCPU
}

// Resolve fills in auto device and precision settings: detected device, and
// half precision on an accelerator (throughput and memory) versus full
// precision on CPU. Explicit settings pass through untouched.
func Resolve(cfg types.ModelConfig) types.ModelConfig {
	if cfg.Device == types.DeviceAuto {
		cfg.Device = DetectDevice()
	}
	if cfg.Precision == types.PrecisionAuto {
		if cfg.Device == types.DeviceCUDA {
			cfg.Precision = types.PrecisionHalf
		} else {
			cfg.Precision = types.PrecisionFull
		}
	}
	return cfg
}
