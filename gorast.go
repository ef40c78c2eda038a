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

// Package gorast bridges in-memory pixel-interleaved rasters and the dataset
// abstraction of a native raster engine, and persists datasets to disk or to
// a stream in georeferenced image formats.
//
// The engine itself (format drivers, reprojection, virtual file system) is
// consumed through the Engine capability interface, not bound at load time:
// any backend implementing Engine can be installed with RegisterEngine. The
// memdrv subpackage provides a pure in-memory backend used by the test suite
// and the bundled rastersave tool.
//
// All operations are synchronous. A Dataset handle must not be used from
// multiple goroutines concurrently; distinct handles are safe.
package gorast

import "sync"

var (
	engineMu     sync.RWMutex
	globalEngine Engine
)

// RegisterEngine installs eng as the process-wide raster engine backend.
// It replaces any previously registered engine, so it should normally be
// called once at startup before any dataset is opened.
func RegisterEngine(eng Engine) {
	engineMu.Lock()
	defer engineMu.Unlock()
	globalEngine = eng
}

func activeEngine() (Engine, error) {
	engineMu.RLock()
	defer engineMu.RUnlock()
	if globalEngine == nil {
		return nil, ErrNoEngine
	}
	return globalEngine, nil
}

// IOOperation determines wether Read or Write is performed on a dataset
// window.
type IOOperation int

const (
	// IORead makes IO copy pixels from the dataset into the provided buffer
	IORead IOOperation = iota
	// IOWrite makes IO copy pixels from the provided buffer into the dataset
	IOWrite
)
