package main

import (
	"context"
	"encoding/json"
	"time"

	"github.com/alexisbeaulieu97/timetracker-plugin-template/pkg/plugintest"
	"github.com/alexisbeaulieu97/timetracker-plugin-template/pkg/sdk"
)

// sampleActivities is what the development host answers to get_activities.
func sampleActivities() []sdk.Activity {
	start := time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC)
	end := start.Add(45 * time.Minute)
	id1, id2, category := int64(1), int64(2), int64(1)

	return []sdk.Activity{
		{ID: &id1, AppName: "code", WindowTitle: "main.go - plugin", StartedAt: start, EndedAt: &end, CategoryID: &category},
		{ID: &id2, AppName: "firefox", WindowTitle: "TimeTracker docs", StartedAt: end},
	}
}

func sampleCategories() []sdk.Category {
	id := int64(1)
	return []sdk.Category{{ID: &id, Name: "Development", Color: "#3b82f6"}}
}

func fixtureMethod(v any) plugintest.DBMethod {
	return func(context.Context, json.RawMessage) (json.RawMessage, error) {
		return json.Marshal(v)
	}
}

func devHostOptions() []plugintest.HostOption {
	return []plugintest.HostOption{
		plugintest.WithDBMethod("get_activities", fixtureMethod(sampleActivities())),
		plugintest.WithDBMethod("get_categories", fixtureMethod(sampleCategories())),
	}
}
