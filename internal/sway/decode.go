package sway

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cpuguy83/way-shell/internal/wm"
)

var (
	ErrMissingField     = errors.New("sway: missing required field")
	ErrUnknownChange    = errors.New("sway: unknown workspace change")
	ErrSkippedWorkspace = errors.New("sway: event workspace has no id")
	ErrMalformed        = errors.New("sway: malformed json")
)

type object map[string]json.RawMessage

func (o object) has(key string) bool {
	v, ok := o[key]
	return ok && string(v) != "null"
}

// field decodes a required field into dst.
func (o object) field(key string, dst any) error {
	if !o.has(key) {
		return fmt.Errorf("%w: %q", ErrMissingField, key)
	}
	if err := json.Unmarshal(o[key], dst); err != nil {
		return fmt.Errorf("%w: field %q: %w", ErrMalformed, key, err)
	}
	return nil
}

// optional decodes key into dst when present and not null.
func (o object) optional(key string, dst any) error {
	if !o.has(key) {
		return nil
	}
	if err := json.Unmarshal(o[key], dst); err != nil {
		return fmt.Errorf("%w: field %q: %w", ErrMalformed, key, err)
	}
	return nil
}

func decodeArray(payload []byte) ([]object, error) {
	var items []object
	if err := json.Unmarshal(payload, &items); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return items, nil
}

// decodeWorkspace returns ok == false when the object has no id.
func decodeWorkspace(o object) (wm.Workspace, bool, error) {
	var ws wm.Workspace
	if !o.has("id") {
		return ws, false, nil
	}
	if err := o.field("id", &ws.ID); err != nil {
		return ws, false, err
	}

	for _, f := range []struct {
		key string
		dst any
	}{
		{"num", &ws.Num},
		{"name", &ws.Name},
		{"urgent", &ws.Urgent},
		{"output", &ws.Output},
		{"focused", &ws.Focused},
	} {
		if err := o.field(f.key, f.dst); err != nil {
			return ws, false, fmt.Errorf("workspace %d: %w", ws.ID, err)
		}
	}
	if err := o.optional("visible", &ws.Visible); err != nil {
		return ws, false, err
	}
	return ws, true, nil
}

// DecodeWorkspaces parses a GET_WORKSPACES reply. Items without an id are
// skipped; any other missing required field fails the whole reply.
func DecodeWorkspaces(payload []byte) ([]wm.Workspace, error) {
	items, err := decodeArray(payload)
	if err != nil {
		return nil, err
	}

	out := make([]wm.Workspace, 0, len(items))
	for i, item := range items {
		ws, ok, err := decodeWorkspace(item)
		if err != nil {
			return nil, err
		}
		if !ok {
			slog.Warn("skipping workspace without id", "index", i)
			continue
		}
		out = append(out, ws)
	}
	return out, nil
}

var changes = map[string]wm.WorkspaceChange{
	"init":   wm.Created,
	"empty":  wm.Destroyed,
	"focus":  wm.Focused,
	"move":   wm.Moved,
	"rename": wm.Renamed,
	"urgent": wm.Urgent,
	"reload": wm.Reload,
}

// DecodeWorkspaceEvent parses a workspace event payload.
func DecodeWorkspaceEvent(payload []byte) (wm.WorkspaceEvent, error) {
	var o object
	if err := json.Unmarshal(payload, &o); err != nil {
		return wm.WorkspaceEvent{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	var name string
	if !o.has("change") {
		return wm.WorkspaceEvent{}, fmt.Errorf("%w: event without change", ErrMalformed)
	}
	if err := o.field("change", &name); err != nil {
		return wm.WorkspaceEvent{}, err
	}
	change, ok := changes[name]
	if !ok {
		return wm.WorkspaceEvent{}, fmt.Errorf("%w: %q", ErrUnknownChange, name)
	}

	ev := wm.WorkspaceEvent{Change: change}
	if change == wm.Reload {
		return ev, nil
	}

	var current object
	if !o.has("current") {
		return wm.WorkspaceEvent{}, fmt.Errorf("%w: %q event without current", ErrMalformed, name)
	}
	if err := o.field("current", &current); err != nil {
		return wm.WorkspaceEvent{}, err
	}
	ws, ok, err := decodeWorkspace(current)
	if err != nil {
		return wm.WorkspaceEvent{}, err
	}
	if !ok {
		return wm.WorkspaceEvent{}, fmt.Errorf("%w: change %q", ErrSkippedWorkspace, name)
	}
	ev.Workspace = ws
	return ev, nil
}

// DecodeSubscribeAck parses a SUBSCRIBE reply.
func DecodeSubscribeAck(payload []byte) (bool, error) {
	var ack struct {
		Success bool `json:"success"`
	}
	if err := json.Unmarshal(payload, &ack); err != nil {
		return false, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return ack.Success, nil
}

// DecodeOutputs parses a GET_OUTPUTS reply. Outputs without a name are skipped.
func DecodeOutputs(payload []byte) ([]wm.Output, error) {
	items, err := decodeArray(payload)
	if err != nil {
		return nil, err
	}

	out := make([]wm.Output, 0, len(items))
	for i, item := range items {
		var o wm.Output
		if !item.has("name") {
			slog.Warn("skipping output without name", "index", i)
			continue
		}
		if err := item.field("name", &o.Name); err != nil {
			return nil, err
		}
		for key, dst := range map[string]*string{
			"make":              &o.Make,
			"model":             &o.Model,
			"serial":            &o.Serial,
			"current_workspace": &o.CurrentWorkspace,
		} {
			if err := item.optional(key, dst); err != nil {
				return nil, fmt.Errorf("output %s: %w", o.Name, err)
			}
		}
		out = append(out, o)
	}
	return out, nil
}

// CommandResult is one entry of a RUN_COMMAND reply.
type CommandResult struct {
	Success    bool   `json:"success"`
	ParseError bool   `json:"parse_error,omitempty"`
	Error      string `json:"error,omitempty"`
}

// DecodeCommandResults parses a RUN_COMMAND reply.
func DecodeCommandResults(payload []byte) ([]CommandResult, error) {
	var results []CommandResult
	if err := json.Unmarshal(payload, &results); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return results, nil
}

// Version is a GET_VERSION reply.
type Version struct {
	Major                int    `json:"major"`
	Minor                int    `json:"minor"`
	Patch                int    `json:"patch"`
	HumanReadable        string `json:"human_readable"`
	LoadedConfigFileName string `json:"loaded_config_file_name"`
}

// DecodeVersion parses a GET_VERSION reply.
func DecodeVersion(payload []byte) (Version, error) {
	var v Version
	if err := json.Unmarshal(payload, &v); err != nil {
		return v, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return v, nil
}
