// Package sdk defines the contract between the TimeTracker host application
// and its plugins.
//
// A plugin is a value implementing Plugin. The host obtains one through the
// exported PluginCreate entry point, which returns a single-owner Handle, and
// hands the Handle back through PluginDestroy when unloading:
//
//	h := PluginCreate()
//	p, _ := h.Plugin()
//	_ = p.Initialize(ctx, api)
//	out, err := p.InvokeCommand(ctx, "get_example_data", params, api)
//	_ = p.Shutdown(ctx)
//	_ = PluginDestroy(h)
//
// The records in this package (Activity, Category, Migration, SchemaChange,
// SchemaExtension, Event) are plain data. Plugins declare schema changes and
// the host decides when and how to apply them; nothing here talks to a
// database.
package sdk
