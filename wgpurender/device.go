// Copyright (c) 2025, Goldraw Developers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package wgpurender is the WebGPU backend: WGSL variant pipelines,
// bind groups from the shared binding table, uniform upload through
// the frame ring, and buffer-mapped readback for picking.
package wgpurender

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// Device bundles the logical device and its queue.
type Device struct {
	Device *wgpu.Device
	Queue  *wgpu.Queue
}

// NewDevice requests a device from the adapter.
func NewDevice(adapter *wgpu.Adapter) (*Device, error) {
	dev, err := adapter.RequestDevice(nil)
	if err != nil {
		return nil, fmt.Errorf("wgpurender: request device: %w", err)
	}
	return &Device{Device: dev, Queue: dev.GetQueue()}, nil
}

// WaitDone blocks until all submitted work completes.
func (dv *Device) WaitDone() {
	dv.Device.Poll(true, nil)
}

// Release releases the device.
func (dv *Device) Release() {
	if dv.Device != nil {
		dv.Device.Release()
		dv.Device = nil
	}
}
