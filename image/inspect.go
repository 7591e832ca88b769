package image

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/govm-net/riffs/core"
	"github.com/patrickmn/go-cache"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

var (
	ErrInvalidImage = errors.New("invalid image")
	ErrNoManifest   = errors.New("image has no contract manifest")
)

// Function is an imported or exported function signature.
type Function struct {
	Module  string   `json:"module,omitempty"`
	Name    string   `json:"name"`
	Params  []string `json:"params"`
	Results []string `json:"results"`
}

// Info is what inspection learns about an image.
type Info struct {
	Hash     string     `json:"hash"`
	Size     int        `json:"size"`
	Manifest *Manifest  `json:"manifest,omitempty"`
	Exports  []Function `json:"exports"`
	Imports  []Function `json:"imports"`
}

// Contract returns the manifest's contract name.
func (i *Info) Contract() (string, error) {
	if i.Manifest == nil {
		return "", ErrNoManifest
	}
	return i.Manifest.Contract, nil
}

// Inspector validates images with wazero and caches the result by code hash.
type Inspector struct {
	runtime wazero.Runtime
	cache   *cache.Cache
}

// NewInspector creates an inspector whose results live for ttl.
func NewInspector(ctx context.Context, ttl time.Duration) *Inspector {
	cfg := wazero.NewRuntimeConfigInterpreter().WithCustomSections(true)
	return &Inspector{
		runtime: wazero.NewRuntimeWithConfig(ctx, cfg),
		cache:   cache.New(ttl, 2*ttl),
	}
}

// Inspect compiles code and reports its manifest and functions.
func (i *Inspector) Inspect(ctx context.Context, code []byte) (*Info, error) {
	hash := core.Hash(code)
	if v, ok := i.cache.Get(hash); ok {
		return v.(*Info), nil
	}

	compiled, err := i.runtime.CompileModule(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	defer compiled.Close(ctx)

	info := &Info{Hash: hash, Size: len(code)}
	for _, s := range compiled.CustomSections() {
		if s.Name() != SectionName {
			continue
		}
		var m Manifest
		if err := json.Unmarshal(s.Data(), &m); err != nil {
			return nil, fmt.Errorf("%w: bad manifest: %v", ErrInvalidImage, err)
		}
		info.Manifest = &m
	}
	for name, def := range compiled.ExportedFunctions() {
		f := describe(def)
		f.Name = name
		info.Exports = append(info.Exports, f)
	}
	sort.Slice(info.Exports, func(a, b int) bool { return info.Exports[a].Name < info.Exports[b].Name })
	for _, def := range compiled.ImportedFunctions() {
		f := describe(def)
		f.Module, f.Name, _ = def.Import()
		info.Imports = append(info.Imports, f)
	}

	slog.Debug("image inspected", "hash", hash, "size", len(code), "exports", len(info.Exports))
	i.cache.Set(hash, info, cache.DefaultExpiration)
	return info, nil
}

// Close releases the wazero runtime.
func (i *Inspector) Close(ctx context.Context) error {
	i.cache.Flush()
	return i.runtime.Close(ctx)
}

// Inspect inspects code with a throwaway inspector.
func Inspect(ctx context.Context, code []byte) (*Info, error) {
	in := NewInspector(ctx, time.Minute)
	defer in.Close(ctx)
	return in.Inspect(ctx, code)
}

func describe(def api.FunctionDefinition) Function {
	f := Function{Params: []string{}, Results: []string{}}
	for _, t := range def.ParamTypes() {
		f.Params = append(f.Params, api.ValueTypeName(t))
	}
	for _, t := range def.ResultTypes() {
		f.Results = append(f.Results, api.ValueTypeName(t))
	}
	return f
}
