package notify

import (
	"reflect"
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
)

// Declaration lists the base properties whose change implies a change of
// the declared property.
type Declaration struct {
	// Bases are the properties this property is notified by.
	Bases []string

	// Inherit also pulls in the declaration of the same property on the
	// embedded base type.
	Inherit bool
}

// By declares a property as notified by bases.
func By(bases ...string) Declaration {
	return Declaration{Bases: bases}
}

// Inherited returns d with the Inherit flag set.
func (d Declaration) Inherited() Declaration {
	d.Inherit = true
	return d
}

// Dependencies maps a property name to its declaration.
type Dependencies map[string]Declaration

// Declarer is implemented by notifiable types that declare dependent
// properties. NotifiedBy is called once per type, on a zero value, so it
// must not depend on instance state.
//
// The base of a declaring struct type is its first embedded field whose
// type also implements Declarer.
type Declarer interface {
	NotifiedBy() Dependencies
}

var declarerType = reflect.TypeFor[Declarer]()

// dependencyIndex maps a declared type to "base property -> dependents".
var dependencyIndex = newTypeCache(buildDependencyIndex)

// DependentsOf returns the properties that must also be notified when
// property changes on an instance of t. The slice is shared; do not modify it.
func DependentsOf(t reflect.Type, property string) []string {
	t = indirect(t)
	if t == nil {
		return nil
	}
	return dependencyIndex.get(t)[property]
}

// DependencyGraph returns a copy of the inverse dependency edges of t:
// each base property mapped to the properties that depend on it directly.
func DependencyGraph(t reflect.Type) map[string][]string {
	t = indirect(t)
	if t == nil {
		return nil
	}
	src := dependencyIndex.get(t)
	out := make(map[string][]string, len(src))
	for k, v := range src {
		out[k] = slices.Clone(v)
	}
	return out
}

// buildDependencyIndex inverts the declarations of t and its embedded
// base chain. Transitive dependents are not expanded here; the cascade
// walks them.
func buildDependencyIndex(t reflect.Type) map[string][]string {
	edges := make(map[string]mapset.Set[string])

	for property, owner := range declaringTypes(t) {
		for _, base := range resolveBases(owner, property, mapset.NewThreadUnsafeSet[reflect.Type]()) {
			if base == property {
				continue
			}
			set, ok := edges[base]
			if !ok {
				set = mapset.NewThreadUnsafeSet[string]()
				edges[base] = set
			}
			set.Add(property)
		}
	}

	index := make(map[string][]string, len(edges))
	count := 0
	for base, set := range edges {
		dependents := set.ToSlice()
		slices.Sort(dependents)
		index[base] = dependents
		count += len(dependents)
	}

	logger().Debug("notify: dependency index built", "type", t.String(), "edges", count)
	return index
}

// declaringTypes maps every property declared by t or one of its bases to
// the most derived type in the chain that declares it.
func declaringTypes(t reflect.Type) map[string]reflect.Type {
	var chain []reflect.Type
	seen := mapset.NewThreadUnsafeSet[reflect.Type]()
	for cur := t; cur != nil && seen.Add(cur); cur = baseOf(cur) {
		chain = append(chain, cur)
	}

	owners := make(map[string]reflect.Type)
	for i := len(chain) - 1; i >= 0; i-- {
		for property := range declarationsOf(chain[i]) {
			owners[property] = chain[i]
		}
	}
	return owners
}

// resolveBases returns the base list of property as declared on t,
// followed by the inherited lists of its bases while Inherit is set.
// A base type that does not declare the property ends the walk.
func resolveBases(t reflect.Type, property string, visited mapset.Set[reflect.Type]) []string {
	if t == nil || !visited.Add(t) {
		return nil
	}
	decl, ok := declarationsOf(t)[property]
	if !ok {
		return nil
	}

	bases := slices.Clone(decl.Bases)
	if decl.Inherit {
		bases = append(bases, resolveBases(baseOf(t), property, visited)...)
	}
	return bases
}

// declarationsOf calls NotifiedBy on a zero value of t. Types that do not
// implement Declarer, or whose NotifiedBy panics on a zero value, declare
// nothing.
func declarationsOf(t reflect.Type) (deps Dependencies) {
	if t.Kind() != reflect.Struct || !reflect.PointerTo(t).Implements(declarerType) {
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			logger().Warn("notify: NotifiedBy panicked on zero value", "type", t.String(), "panic", r)
			deps = nil
		}
	}()
	return reflect.New(t).Interface().(Declarer).NotifiedBy()
}

// baseOf returns the first embedded struct type of t that implements
// Declarer, or nil.
func baseOf(t reflect.Type) reflect.Type {
	if t.Kind() != reflect.Struct {
		return nil
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.Anonymous {
			continue
		}
		ft := indirect(f.Type)
		if ft.Kind() == reflect.Struct && reflect.PointerTo(ft).Implements(declarerType) {
			return ft
		}
	}
	return nil
}
