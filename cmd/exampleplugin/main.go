// Command exampleplugin is the loadable form of the example plugin. Build it
// as a shared object:
//
//	go build -buildmode=plugin -o example-plugin.so ./cmd/exampleplugin
//
// The host resolves PluginCreate and PluginDestroy by name (see plugin.yaml).
package main

import (
	"github.com/alexisbeaulieu97/timetracker-plugin-template/internal/example"
	"github.com/alexisbeaulieu97/timetracker-plugin-template/pkg/sdk"
)

// PluginCreate builds a plugin instance and hands ownership to the host.
func PluginCreate() *sdk.Handle {
	return sdk.NewHandle(example.Factory())
}

// PluginDestroy takes ownership back from the host and releases the instance.
func PluginDestroy(h *sdk.Handle) error {
	return h.Release()
}

func main() {}
