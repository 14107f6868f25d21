package results

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned for record files with an unknown extension.
var ErrUnsupportedFormat = errors.New("unsupported results format")

// cborDecMode decodes CBOR maps with string keys so they look like JSON/YAML input.
var cborDecMode, _ = cbor.DecOptions{
	DefaultMapType: reflect.TypeOf(map[string]any(nil)),
}.DecMode()

// Load reads a record stream from path and returns it as a Store. The format is
// chosen by extension: .yaml/.yml, .json or .cbor.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read results: %w", err)
	}

	var doc any
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &doc)
	case ".json":
		err = json.Unmarshal(data, &doc)
	case ".cbor":
		err = cborDecMode.Unmarshal(data, &doc)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}

	records, err := Decode(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return NewStore(records), nil
}

// Decode converts a generically decoded document into frame records. The
// document is either a list of records or a mapping with a "frames" list.
func Decode(doc any) ([]FrameRecord, error) {
	doc = normalize(doc)
	if m, ok := doc.(map[string]any); ok {
		doc = m["frames"]
	}
	if doc == nil {
		return []FrameRecord{}, nil
	}
	list, ok := doc.([]any)
	if !ok {
		return nil, fmt.Errorf("expected a list of frame records, got %T", doc)
	}

	records := make([]FrameRecord, len(list))
	for i, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("frame %d: expected a mapping, got %T", i, item)
		}
		rec, err := decodeRecord(m)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		records[i] = rec
	}
	return records, nil
}

func decodeRecord(m map[string]any) (FrameRecord, error) {
	var rec FrameRecord
	var err error

	for key, raw := range m {
		if raw == nil {
			// A null is the same as the key not being there.
			continue
		}
		switch key {
		case KeyBinaryBoard:
			rec.BinaryBoard, err = stringPtr(key, raw)
		case KeyStableBoard:
			rec.StableBoard, err = stringPtr(key, raw)
		case KeyNextGrid:
			rec.NextGrid, err = stringPtr(key, raw)
		case KeyNextType:
			rec.NextType, err = stringPtr(key, raw)
		case KeyBoardOnlyType:
			rec.BoardOnlyType, err = stringPtr(key, raw)
		case KeyStateID:
			rec.StateID, err = stringPtr(key, raw)
		case KeyBoardNoise:
			var f float64
			if f, err = toFloat(key, raw); err == nil {
				rec.BoardNoise = &f
			}
		case KeyLevel:
			rec.Level, err = intPtr(key, raw)
		case KeyStateCount:
			rec.StateCount, err = intPtr(key, raw)
		case KeyStateFrameCount:
			rec.StateFrameCount, err = intPtr(key, raw)
		case KeyEventStatuses:
			rec.EventStatuses, err = decodeEvents(raw)
		case KeyPackets:
			rec.Packets, err = stringList(key, raw)
		case KeyPacket:
			// The plural key wins when a record carries both.
			if plural, both := m[KeyPackets]; both && plural != nil {
				continue
			}
			rec.Packets, err = stringList(key, raw)
		case KeyLogs:
			rec.Logs, err = stringList(key, raw)
		default:
			if rec.Attributes == nil {
				rec.Attributes = make(map[string]Value)
			}
			rec.Attributes[key] = toValue(raw)
		}
		if err != nil {
			return FrameRecord{}, err
		}
	}
	return rec, nil
}

func decodeEvents(raw any) ([]EventStatus, error) {
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%s: expected a list, got %T", KeyEventStatuses, raw)
	}
	events := make([]EventStatus, 0, len(list))
	for i, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%s[%d]: expected a mapping, got %T", KeyEventStatuses, i, item)
		}
		name, _ := m["name"].(string)
		pre, _ := m["preconditionMet"].(bool)
		per, _ := m["persistenceMet"].(bool)
		events = append(events, EventStatus{Name: name, PreconditionMet: pre, PersistenceMet: per})
	}
	return events, nil
}

func stringPtr(key string, raw any) (*string, error) {
	s, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("%s: expected a string, got %T", key, raw)
	}
	return &s, nil
}

func intPtr(key string, raw any) (*int, error) {
	f, err := toFloat(key, raw)
	if err != nil {
		return nil, err
	}
	if f != math.Trunc(f) {
		return nil, fmt.Errorf("%s: expected an integer, got %v", key, f)
	}
	n := int(f)
	return &n, nil
}

func stringList(key string, raw any) ([]string, error) {
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%s: expected a list, got %T", key, raw)
	}
	out := make([]string, len(list))
	for i, item := range list {
		out[i] = toValue(item).String()
	}
	return out, nil
}

func toFloat(key string, raw any) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case uint32:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("%s: expected a number, got %T", key, raw)
	}
}

func toValue(raw any) Value {
	switch v := raw.(type) {
	case string:
		return StringOf(v)
	case bool:
		return BoolOf(v)
	case []any:
		items := make([]Value, len(v))
		for i, item := range v {
			items[i] = toValue(item)
		}
		return ListOf(items...)
	case map[string]any:
		// Nested mappings are rare; keep them readable rather than typed.
		b, _ := json.Marshal(v)
		return StringOf(string(b))
	}
	if f, err := toFloat("", raw); err == nil {
		return NumberOf(f)
	}
	return StringOf(fmt.Sprint(raw))
}

// normalize rewrites map[any]any (as produced by some decoders) into
// map[string]any, recursively.
func normalize(v any) any {
	switch t := v.(type) {
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[fmt.Sprint(k)] = normalize(val)
		}
		return m
	case map[string]any:
		for k, val := range t {
			t[k] = normalize(val)
		}
		return t
	case []any:
		for i, val := range t {
			t[i] = normalize(val)
		}
		return t
	default:
		return v
	}
}
