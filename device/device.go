// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package device reports static hardware descriptors: architecture,
// available parallelism, the on-chip scratch budget, and detected ISA
// features. The descriptor is detected once per process.
package device

import (
	internaldevice "github.com/born-ml/bulk/internal/device"
)

// Properties describes the executing hardware.
type Properties = internaldevice.Properties

// Current returns the hardware descriptor for this host.
func Current() Properties {
	return internaldevice.Current()
}
