// Package example is a minimal plugin that demonstrates the sdk contract.
// Replace it with your own plugin logic.
package example

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/alexisbeaulieu97/timetracker-plugin-template/internal/logger"
	apperrors "github.com/alexisbeaulieu97/timetracker-plugin-template/pkg/errors"
	"github.com/alexisbeaulieu97/timetracker-plugin-template/pkg/sdk"
)

const (
	// CommandGetExampleData forwards its parameters to the host activity accessor.
	CommandGetExampleData = "get_example_data"

	// ActivitiesMethod is the host data accessor CommandGetExampleData calls.
	ActivitiesMethod = "get_activities"

	notesTable = "example_plugin_notes"
)

// Plugin is the example implementation of sdk.Plugin.
type Plugin struct {
	info          sdk.PluginInfo
	log           *logger.Logger
	api           sdk.PluginAPI
	subscriptions []sdk.SubscriptionID
	initialized   bool
}

// Option customises a Plugin.
type Option func(*Plugin)

// WithLogger replaces the default stdout logger.
func WithLogger(log *logger.Logger) Option {
	return func(p *Plugin) {
		p.log = log
	}
}

// New creates an example plugin that logs to standard output.
func New(opts ...Option) *Plugin {
	p := &Plugin{
		info: sdk.PluginInfo{
			ID:          "example-plugin",
			Name:        "Example Plugin",
			Version:     "1.0.0",
			Description: "Logs host notifications and echoes activity data",
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.log == nil {
		log, err := logger.New(logger.Options{Plugin: p.info.ID})
		if err != nil {
			log = logger.Discard()
		}
		p.log = log
	}
	return p
}

// Factory returns New as an sdk.Factory.
func Factory(opts ...Option) sdk.Factory {
	return func() sdk.Plugin {
		return New(opts...)
	}
}

var _ sdk.Plugin = (*Plugin)(nil)

// Info returns the static plugin identity.
func (p *Plugin) Info() sdk.PluginInfo {
	return p.info
}

// Initialize registers the notes table and subscribes to activity and
// category notifications.
func (p *Plugin) Initialize(ctx context.Context, api sdk.PluginAPI) error {
	if p.initialized {
		return nil
	}
	if api == nil {
		return apperrors.NewPluginError(p.info.ID, errors.New("host api is nil"))
	}

	for _, ext := range p.SchemaExtensions() {
		if err := api.RegisterSchemaExtension(ctx, ext.EntityType, ext.Changes); err != nil {
			return fmt.Errorf("register schema extension for %s: %w", ext.EntityType, err)
		}
	}

	handlers := map[sdk.EventType]sdk.EventHandler{
		sdk.EventActivityRecorded: p.onActivityRecorded,
		sdk.EventCategoryCreated:  p.onCategoryCreated,
	}
	for _, eventType := range []sdk.EventType{sdk.EventActivityRecorded, sdk.EventCategoryCreated} {
		id, err := api.Subscribe(eventType, handlers[eventType])
		if err != nil {
			p.unsubscribeAll(api)
			return fmt.Errorf("subscribe to %s: %w", eventType, err)
		}
		p.subscriptions = append(p.subscriptions, id)
	}

	p.api = api
	p.initialized = true
	p.log.Info("ExamplePlugin: Initialized")
	return nil
}

// InvokeCommand serves CommandGetExampleData and rejects everything else.
func (p *Plugin) InvokeCommand(ctx context.Context, name string, params json.RawMessage, api sdk.PluginAPI) (json.RawMessage, error) {
	switch name {
	case CommandGetExampleData:
		if api == nil {
			return nil, apperrors.NewCommandError(p.info.ID, name, errors.New("host api is nil"))
		}
		p.log.WithFields(map[string]any{"command": name}).Debug("ExamplePlugin: forwarding to host")
		result, err := api.CallDBMethod(ctx, ActivitiesMethod, params)
		if err != nil {
			return nil, apperrors.NewCommandError(p.info.ID, name, err)
		}
		return result, nil
	default:
		return nil, sdk.NewUnknownCommandError(name)
	}
}

// Shutdown removes event subscriptions. Later calls do nothing.
func (p *Plugin) Shutdown(context.Context) error {
	if !p.initialized {
		return nil
	}
	p.unsubscribeAll(p.api)
	p.api = nil
	p.initialized = false
	p.log.Info("ExamplePlugin: Stopped")
	return nil
}

// SchemaExtensions declares one plugin-owned table linked to activities.
func (p *Plugin) SchemaExtensions() []sdk.SchemaExtension {
	return []sdk.SchemaExtension{
		{
			EntityType: sdk.EntityPlugin,
			Changes: []sdk.SchemaChange{
				sdk.CreateTable(notesTable,
					sdk.Column{Name: "id", Type: sdk.ColumnInteger, PrimaryKey: true, AutoIncrement: true},
					sdk.Column{Name: "activity_id", Type: sdk.ColumnInteger, NotNull: true, ForeignKey: &sdk.ForeignKey{Table: "activities", Column: "id"}},
					sdk.Column{Name: "note", Type: sdk.ColumnText, NotNull: true},
					sdk.Column{Name: "created_at", Type: sdk.ColumnTimestamp, NotNull: true},
				),
				sdk.AddIndex(notesTable, "idx_example_plugin_notes_activity", "activity_id"),
			},
		},
	}
}

// FrontendBundle returns nil; the example has no UI.
func (p *Plugin) FrontendBundle() []byte {
	return nil
}

func (p *Plugin) onActivityRecorded(_ context.Context, evt sdk.Event) error {
	var activity sdk.Activity
	if err := evt.Decode(&activity); err != nil {
		return err
	}
	p.log.WithFields(map[string]any{
		"app_name":     activity.AppName,
		"window_title": activity.WindowTitle,
	}).Info("ExamplePlugin: Activity recorded")
	return nil
}

func (p *Plugin) onCategoryCreated(_ context.Context, evt sdk.Event) error {
	var category sdk.Category
	if err := evt.Decode(&category); err != nil {
		return err
	}
	p.log.WithFields(map[string]any{"category": category.Name}).Info("ExamplePlugin: Category created")
	return nil
}

func (p *Plugin) unsubscribeAll(api sdk.PluginAPI) {
	if api != nil {
		for _, id := range p.subscriptions {
			if err := api.Unsubscribe(id); err != nil {
				p.log.Error(err, "ExamplePlugin: unsubscribe failed")
			}
		}
	}
	p.subscriptions = nil
}
