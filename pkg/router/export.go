package router

import (
	"encoding/json"
	"fmt"
	"os"
)

// cacheVersion is bumped whenever the on-disk shape changes; a mismatch is
// treated as a cache miss (§6 Route cache file format).
const cacheVersion = 1

// ExportedRoute is §6's serialized route descriptor.
type ExportedRoute struct {
	Methods       []string       `json:"methods"`
	Path          string         `json:"path"`
	Pattern       string         `json:"pattern"`
	ActionClass   string         `json:"action_class,omitempty"`
	ActionMethod  string         `json:"action_method,omitempty"`
	Action        string         `json:"action,omitempty"`
	Middleware    []string       `json:"middleware"`
	Defaults      map[string]any `json:"defaults"`
	Attributes    map[string]any `json:"attributes"`
	Domain        string         `json:"domain,omitempty"`
	Name          string         `json:"name,omitempty"`
	Authorization string         `json:"authorization,omitempty"`
}

type cacheFile struct {
	Version int             `json:"version"`
	Routes  []ExportedRoute `json:"routes"`
}

// IsExportable implements §4.8's exportability predicate.
func IsExportable(def *Definition) (bool, string) {
	if def.Action.Action == "" && !def.Action.isTuple() {
		return false, "action is empty"
	}
	if def.Action.isTuple() && (def.Action.Class == "" || def.Action.Method == "") {
		return false, "action tuple missing class or method"
	}
	for _, v := range def.Defaults {
		if !isScalarOrScalarSlice(v) {
			return false, "defaults contains a non-scalar value"
		}
	}
	for _, v := range def.Attributes {
		if !isScalarOrScalarSlice(v) {
			return false, "attributes contains a non-scalar value"
		}
	}
	return true, ""
}

func isScalarOrScalarSlice(v any) bool {
	switch t := v.(type) {
	case nil, string, bool, int, int64, float64:
		return true
	case []any:
		for _, e := range t {
			if !isScalarOrScalarSlice(e) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Export filters defs down to the exportable subset, in declaration order.
// Non-exportable routes are skipped; the caller is expected to warn.
func Export(defs []*Definition) ([]ExportedRoute, []string) {
	var out []ExportedRoute
	var warnings []string
	for _, def := range defs {
		ok, reason := IsExportable(def)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("route %q skipped: %s", def.Path, reason))
			continue
		}
		methods := make([]string, 0, len(def.Methods))
		for m := range def.Methods {
			methods = append(methods, string(m))
		}
		er := ExportedRoute{
			Methods:       methods,
			Path:          def.Path,
			Pattern:       def.PathPattern.raw,
			Middleware:    def.Middleware,
			Defaults:      def.Defaults,
			Attributes:    def.Attributes,
			Domain:        def.Domain,
			Name:          def.Name,
			Authorization: def.Authorization,
		}
		if def.Action.isTuple() {
			er.ActionClass, er.ActionMethod = def.Action.Class, def.Action.Method
		} else {
			er.Action = def.Action.Action
		}
		out = append(out, er)
	}
	return out, warnings
}

// SaveCache writes the exportable subset of defs to path, atomically.
func SaveCache(path string, defs []*Definition) ([]string, error) {
	routes, warnings := Export(defs)
	data, err := json.MarshalIndent(cacheFile{Version: cacheVersion, Routes: routes}, "", "  ")
	if err != nil {
		return warnings, fmt.Errorf("router: marshal route cache: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return warnings, fmt.Errorf("router: write route cache: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return warnings, fmt.Errorf("router: rename route cache: %w", err)
	}
	return warnings, nil
}

// LoadCache reads path and rebuilds Definitions. A version mismatch, a
// missing file, or a deserialization error are all treated as a miss
// (ok=false), never a hard error.
func LoadCache(path string) (defs []*Definition, ok bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	var cf cacheFile
	if err := json.Unmarshal(data, &cf); err != nil {
		return nil, false
	}
	if cf.Version != cacheVersion {
		return nil, false
	}
	defs = make([]*Definition, 0, len(cf.Routes))
	for _, er := range cf.Routes {
		pattern, _, err := CompilePath(er.Path)
		if err != nil {
			return nil, false
		}
		def := &Definition{
			Methods:     make(map[Method]struct{}, len(er.Methods)),
			Path:        er.Path,
			PathPattern: pattern,
			Middleware:  er.Middleware,
			Defaults:    er.Defaults,
			Attributes:  er.Attributes,
			Domain:      er.Domain,
			Name:        er.Name,
			Authorization: er.Authorization,
		}
		for _, m := range er.Methods {
			def.Methods[Method(m)] = struct{}{}
		}
		if er.ActionClass != "" || er.ActionMethod != "" {
			def.Action = HandlerRef{Class: er.ActionClass, Method: er.ActionMethod}
		} else {
			def.Action = HandlerRef{Action: er.Action}
		}
		if def.Domain != "" {
			dp, err := CompileDomain(def.Domain)
			if err != nil {
				return nil, false
			}
			def.DomainPattern = dp
		}
		defs = append(defs, def)
	}
	return defs, true
}
