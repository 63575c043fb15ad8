package kernel

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/aras-services/corefw/pkg/blueprintcache"
)

// Analyzer implements §4.1: it extracts a ServicePrototype from a Go type
// without constructing it. There is no runtime constructor reflection in
// Go, so the prototype carries no constructor parameters: factory-backed
// definitions are built by calling their Factory directly, and the
// analyzer only covers type-backed definitions (autowiring), whose
// injected properties come from exported struct fields carrying an
// `inject:"<serviceId>[,optional]"` tag.
//
// Injected methods are not discovered by reflection (Go attaches no
// metadata to methods); they are whatever Definition.InjectMethods names,
// and the analyzer only resolves their parameter specs.
type Analyzer struct{}

func NewAnalyzer() *Analyzer { return &Analyzer{} }

// AnalyzeType produces the property-injection and nothing else: the plan
// for a struct constructed via reflect.New and then field/method injected.
func (a *Analyzer) AnalyzeType(t reflect.Type) (*blueprintcache.ServicePrototype, error) {
	elem := t
	for elem.Kind() == reflect.Ptr {
		elem = elem.Elem()
	}
	if elem.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s is not instantiable via reflection", errNotInstantiable, elem)
	}

	proto := &blueprintcache.ServicePrototype{TargetClass: qualifiedName(elem)}

	for i := 0; i < elem.NumField(); i++ {
		f := elem.Field(i)
		if !f.IsExported() {
			continue // unexported fields cannot be mutated post-construction, same as read-only/final properties
		}
		tag, ok := f.Tag.Lookup("inject")
		if !ok {
			continue
		}
		parts := strings.Split(tag, ",")
		serviceID := parts[0]
		if serviceID == "" || serviceID == "auto" {
			serviceID = qualifiedName(f.Type)
		}
		optional := false
		for _, p := range parts[1:] {
			if p == "optional" {
				optional = true
			}
		}
		proto.InjectedProperties = append(proto.InjectedProperties, blueprintcache.PropertySpec{
			Name:      f.Name,
			ServiceID: serviceID,
			Optional:  optional,
		})
	}

	return proto, nil
}

// AnalyzeMethod resolves the parameter specs for one named setter method.
func (a *Analyzer) AnalyzeMethod(instanceType reflect.Type, methodName string) (*blueprintcache.MethodSpec, error) {
	m, ok := instanceType.MethodByName(methodName)
	if !ok {
		return nil, fmt.Errorf("%w: no method %s on %s", errNotInstantiable, methodName, instanceType)
	}
	spec := &blueprintcache.MethodSpec{Name: methodName}
	// Skip receiver (index 0).
	for i := 1; i < m.Type.NumIn(); i++ {
		pt := m.Type.In(i)
		spec.Params = append(spec.Params, blueprintcache.ParamSpec{
			Name:      fmt.Sprintf("arg%d", i-1),
			ServiceID: qualifiedName(pt),
			Optional:  pt.Kind() == reflect.Ptr || pt.Kind() == reflect.Interface,
		})
	}
	return spec, nil
}

func qualifiedName(t reflect.Type) string {
	if t.PkgPath() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}
