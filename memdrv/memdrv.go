// Copyright 2024 The gorast authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package memdrv is a pure in-memory implementation of gorast.Engine. It
// backs the test suite and the bundled rastersave tool, and doubles as the
// reference for what an engine binding must provide: in-memory datasets,
// a virtual file registry, global configuration options, a last-error slot
// and a private on-disk container so that datasets survive a
// CreateCopy/Open round trip. The container is backend plumbing, not an
// interchange format.
package memdrv

import (
	"encoding/binary"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/geomys/gorast"
)

// Engine implements gorast.Engine.
type Engine struct {
	mu        sync.Mutex
	vsi       map[string][]byte
	config    map[string]string
	lastCat   gorast.ErrorCategory
	lastCode  int
	lastMsg   string
	lastCopy  CopyRecord
	transform func(src, dst string) (gorast.Transform, error)
}

// CopyRecord is the trace of the most recent CreateCopy call, kept so that
// callers can assert on the driver and creation options that were used.
type CopyRecord struct {
	Driver   string
	Name     string
	Creation []string
}

// Option configures an Engine
type Option func(e *Engine)

// WithTransform overrides the engine's coordinate transform factory. The
// default factory fails on an empty source projection and is the identity
// otherwise.
func WithTransform(fn func(srcProjection, dstProjection string) (gorast.Transform, error)) Option {
	return func(e *Engine) {
		e.transform = fn
	}
}

// New returns a ready to use engine with the MEM, GTiff, JPEG and PNG
// drivers registered.
func New(opts ...Option) *Engine {
	e := &Engine{
		vsi:    make(map[string][]byte),
		config: make(map[string]string),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

var drivers = map[string]bool{
	"MEM":   true,
	"GTiff": true,
	"JPEG":  true,
	"PNG":   true,
}

// HasDriver implements gorast.Engine
func (e *Engine) HasDriver(name string) bool {
	return drivers[name]
}

// Open implements gorast.Engine. A path that exists but does not start
// with the container magic yields (nil, nil): no driver claimed the file,
// which is not a hard failure.
func (e *Engine) Open(name string) (gorast.EngineDataset, error) {
	data, err := e.readFile(name)
	if err != nil {
		e.setLastError(gorast.CE_Failure, 4, err.Error())
		return nil, err
	}
	if !hasContainerMagic(data) {
		return nil, nil
	}
	ds, err := decodeContainer(data)
	if err != nil {
		e.setLastError(gorast.CE_Failure, 4, err.Error())
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	ds.eng = e
	ds.files = []string{name}
	return ds, nil
}

// Create implements gorast.Engine. Only the MEM driver supports empty
// allocation.
func (e *Engine) Create(driver, name string, width, height, nBands int, dtype gorast.DataType, creation []string) (gorast.EngineDataset, error) {
	if driver != "MEM" {
		return nil, fmt.Errorf("driver %s does not support creation", driver)
	}
	if width <= 0 || height <= 0 || nBands <= 0 {
		return nil, fmt.Errorf("invalid dataset dimensions %dx%dx%d", width, height, nBands)
	}
	ds := &dataset{
		eng:    e,
		width:  width,
		height: height,
		dtype:  dtype,
		gt:     [6]float64{0, 1, 0, 0, 0, 1},
		nodata: make(map[int]float64),
	}
	size := dtype.Size()
	ds.bands = make([][]byte, nBands)
	for b := range ds.bands {
		ds.bands[b] = make([]byte, width*height*size)
	}
	return ds, nil
}

// CreateCopy implements gorast.Engine. The copy is serialized to the
// engine's container format, honoring COMPRESS=DEFLATE and ZLEVEL creation
// options, and written either to the virtual filesystem or to disk. When
// the auxiliary-metadata config option is not disabled a .aux.xml side
// file is emitted next to on-disk outputs.
func (e *Engine) CreateCopy(driver, name string, src gorast.EngineDataset, creation []string) (gorast.EngineDataset, error) {
	e.mu.Lock()
	e.lastCopy = CopyRecord{Driver: driver, Name: name, Creation: append([]string(nil), creation...)}
	e.mu.Unlock()
	if !drivers[driver] {
		e.setLastError(gorast.CE_Failure, 6, fmt.Sprintf("no driver %s", driver))
		return nil, fmt.Errorf("no driver %s", driver)
	}
	sds, ok := src.(*dataset)
	if !ok || sds.released {
		e.setLastError(gorast.CE_Failure, 1, "source dataset is not usable")
		return nil, fmt.Errorf("source dataset is not usable")
	}
	data, err := encodeContainer(sds, creation)
	if err != nil {
		e.setLastError(gorast.CE_Failure, 1, err.Error())
		return nil, fmt.Errorf("encode %s: %w", name, err)
	}
	if err := e.writeFile(name, data); err != nil {
		e.setLastError(gorast.CE_Failure, 3, err.Error())
		return nil, err
	}
	if !strings.HasPrefix(name, gorast.VSIMemPrefix) && e.ConfigOption("GDAL_PAM_ENABLED") != "NO" {
		// side-file emission mirrors what pam-style engines do by default
		if err := os.WriteFile(name+".aux.xml", []byte("<PAMDataset/>\n"), 0644); err != nil {
			e.setLastError(gorast.CE_Warning, 3, err.Error())
		}
	}
	out, err := decodeContainer(data)
	if err != nil {
		return nil, err
	}
	out.eng = e
	out.files = []string{name}
	return out, nil
}

// CreateVirtual implements gorast.Engine
func (e *Engine) CreateVirtual(name string, data []byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.vsi[name]; ok {
		return fmt.Errorf("virtual file %s already exists", name)
	}
	e.vsi[name] = data
	return nil
}

// UnlinkVirtual implements gorast.Engine
func (e *Engine) UnlinkVirtual(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.vsi[name]; !ok {
		return fmt.Errorf("no virtual file %s", name)
	}
	delete(e.vsi, name)
	return nil
}

// HasVirtual reports wether a virtual file is currently registered.
func (e *Engine) HasVirtual(name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.vsi[name]
	return ok
}

// ConfigOption implements gorast.Engine
func (e *Engine) ConfigOption(key string) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.config[key]
}

// SetConfigOption implements gorast.Engine. Setting an empty value clears
// the option.
func (e *Engine) SetConfigOption(key, value string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if value == "" {
		delete(e.config, key)
		return
	}
	e.config[key] = value
}

// NewTransform implements gorast.Engine
func (e *Engine) NewTransform(srcProjection, dstProjection string) (gorast.Transform, error) {
	if e.transform != nil {
		return e.transform(srcProjection, dstProjection)
	}
	if srcProjection == "" {
		return nil, fmt.Errorf("no source projection")
	}
	return TransformFunc(func(x, y float64) (float64, float64) { return x, y }), nil
}

// LastError implements gorast.Engine
func (e *Engine) LastError() (gorast.ErrorCategory, int, string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastCat, e.lastCode, e.lastMsg
}

// ByteOrder implements gorast.Engine
func (e *Engine) ByteOrder() binary.ByteOrder {
	return binary.LittleEndian
}

// LastCopy returns the trace of the most recent CreateCopy call.
func (e *Engine) LastCopy() CopyRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastCopy
}

func (e *Engine) setLastError(cat gorast.ErrorCategory, code int, msg string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastCat, e.lastCode, e.lastMsg = cat, code, msg
}

func (e *Engine) readFile(name string) ([]byte, error) {
	if strings.HasPrefix(name, gorast.VSIMemPrefix) {
		e.mu.Lock()
		defer e.mu.Unlock()
		data, ok := e.vsi[name]
		if !ok {
			return nil, fmt.Errorf("no virtual file %s", name)
		}
		return data, nil
	}
	return os.ReadFile(name)
}

func (e *Engine) writeFile(name string, data []byte) error {
	if strings.HasPrefix(name, gorast.VSIMemPrefix) {
		e.mu.Lock()
		defer e.mu.Unlock()
		e.vsi[name] = data
		return nil
	}
	return os.WriteFile(name, data, 0644)
}

// TransformFunc adapts a per-point function into a gorast.Transform.
type TransformFunc func(x, y float64) (float64, float64)

// TransformEx implements gorast.Transform
func (f TransformFunc) TransformEx(x, y []float64) error {
	for i := range x {
		x[i], y[i] = f(x[i], y[i])
	}
	return nil
}

// Close implements gorast.Transform
func (f TransformFunc) Close() {}
