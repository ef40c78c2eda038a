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

package gorast

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// VSIMemPrefix is the name prefix of virtual in-memory files registered
// with the engine. Files carrying it are unlinked when the dataset they
// back is closed.
const VSIMemPrefix = "/vsimem/"

var (
	handlerMu sync.RWMutex
	handlers  map[string]KeySizerReaderAt
)

// RegisterVSIHandler registers handler on the given prefix. When opening a
// name that is not a local file, e.g.
//
//	Open("gs://bucket/image.tif")
//
// the handler registered on "gs://" is asked for the resource's size and
// bytes, which are then staged as a virtual in-memory file before the
// engine opens them. osio.Adapter satisfies KeySizerReaderAt directly.
func RegisterVSIHandler(prefix string, handler KeySizerReaderAt) error {
	handlerMu.Lock()
	defer handlerMu.Unlock()
	if handlers == nil {
		handlers = make(map[string]KeySizerReaderAt)
	}
	if _, ok := handlers[prefix]; ok {
		return fmt.Errorf("handler already registered on prefix %s", prefix)
	}
	handlers[prefix] = handler
	return nil
}

func lookupHandler(name string) (KeySizerReaderAt, bool) {
	handlerMu.RLock()
	defer handlerMu.RUnlock()
	for prefix, h := range handlers {
		if strings.HasPrefix(name, prefix) {
			return h, true
		}
	}
	return nil, false
}

// Open opens the named raster resource.
//
// A name resolving to an existing local file is opened directly. Any other
// name is fetched through the handler registered on its prefix and staged
// as a virtual in-memory file first.
//
// Open may return (nil, nil): the engine reported no dataset but also no
// explicit failure. The engine's own diagnostics are the authoritative
// signal in that case and it is logged, not escalated to an error.
func Open(name string) (*Dataset, error) {
	eng, err := activeEngine()
	if err != nil {
		return nil, &DatasetOpenError{Name: name, Err: err}
	}
	if _, serr := os.Stat(name); serr == nil {
		return openDirect(eng, name)
	}
	handler, ok := lookupHandler(name)
	if !ok {
		return nil, &DatasetOpenError{Name: name, Err: os.ErrNotExist}
	}
	data, err := fetchBytes(handler, name)
	if err != nil {
		return nil, &DatasetOpenError{Name: name, Err: err}
	}
	return openStaged(eng, name, data, filepath.Ext(name))
}

// OpenBytes opens a raster resource held in memory by registering it as a
// virtual in-memory file under a generated random name.
func OpenBytes(data []byte) (*Dataset, error) {
	eng, err := activeEngine()
	if err != nil {
		return nil, &DatasetOpenError{Name: "<bytes>", Err: err}
	}
	return openStaged(eng, "<bytes>", data, "")
}

func openDirect(eng Engine, name string) (*Dataset, error) {
	handle, err := eng.Open(name)
	if err != nil {
		return nil, &DatasetOpenError{Name: name, Err: err}
	}
	if handle == nil {
		log.Printf("gorast: engine returned no dataset for %s", name)
		return nil, nil
	}
	return &Dataset{eng: eng, handle: handle}, nil
}

func openStaged(eng Engine, name string, data []byte, ext string) (*Dataset, error) {
	vsiname := VSIMemPrefix + uuid.NewString() + ext
	if err := eng.CreateVirtual(vsiname, data); err != nil {
		return nil, &DatasetOpenError{Name: name, Err: err}
	}
	handle, err := eng.Open(vsiname)
	if err != nil {
		_ = eng.UnlinkVirtual(vsiname)
		return nil, &DatasetOpenError{Name: name, Err: err}
	}
	if handle == nil {
		_ = eng.UnlinkVirtual(vsiname)
		log.Printf("gorast: engine returned no dataset for %s", name)
		return nil, nil
	}
	return &Dataset{eng: eng, handle: handle}, nil
}

func fetchBytes(handler KeySizerReaderAt, key string) ([]byte, error) {
	size, err := handler.Size(key)
	if err != nil {
		return nil, fmt.Errorf("size %s: %w", key, err)
	}
	data := make([]byte, size)
	n, err := handler.ReadAt(key, data, 0)
	// a reader may legitimately pair a full read with io.EOF
	if err != nil && !(errors.Is(err, io.EOF) && int64(n) == size) {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return data, nil
}
