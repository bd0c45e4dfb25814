package translate

import (
	"fmt"
	"sort"
)

// Registry holds all translators for the process. Registration happens
// once at startup and the set is immutable afterwards, so the dependency
// graph is validated eagerly: a duplicate table, a dangling dependency
// or a cycle is a configuration error, not a runtime condition.
type Registry struct {
	byTable    map[string]Translator
	byCategory map[string]Translator
	pullOrder  []Translator
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byTable:    make(map[string]Translator),
		byCategory: make(map[string]Translator),
	}
}

// Register adds a translator. Returns an error on a duplicate wire table
// or a duplicate changelog category.
func (r *Registry) Register(t Translator) error {
	table := t.Table()
	if _, exists := r.byTable[table]; exists {
		return fmt.Errorf("translator already registered for table %q", table)
	}
	if cat := t.ChangelogCategory(); cat != "" {
		if _, exists := r.byCategory[cat]; exists {
			return fmt.Errorf("translator already registered for changelog category %q", cat)
		}
		r.byCategory[cat] = t
	}
	r.byTable[table] = t
	r.pullOrder = nil
	return nil
}

// MustRegister is Register for startup wiring.
func (r *Registry) MustRegister(translators ...Translator) {
	for _, t := range translators {
		if err := r.Register(t); err != nil {
			panic(err)
		}
	}
}

// Resolve returns the translator owning the given wire table.
func (r *Registry) Resolve(table string) (Translator, bool) {
	t, ok := r.byTable[table]
	return t, ok
}

// ResolveCategory returns the translator pushing the given domain table.
func (r *Registry) ResolveCategory(domainTable string) (Translator, bool) {
	t, ok := r.byCategory[domainTable]
	return t, ok
}

// Tables returns all registered wire tables, sorted.
func (r *Registry) Tables() []string {
	tables := make([]string, 0, len(r.byTable))
	for table := range r.byTable {
		tables = append(tables, table)
	}
	sort.Strings(tables)
	return tables
}

// PullOrder returns translators topologically sorted by their declared
// pull dependencies, so that a table is integrated only after every
// table it references. The order is deterministic (ties broken by table
// name). Errors on a dependency with no registered translator or on a
// cycle; both are startup-fatal configuration mistakes.
func (r *Registry) PullOrder() ([]Translator, error) {
	if r.pullOrder != nil {
		return r.pullOrder, nil
	}

	inDegree := make(map[string]int, len(r.byTable))
	dependents := make(map[string][]string, len(r.byTable))

	for table, t := range r.byTable {
		if _, exists := inDegree[table]; !exists {
			inDegree[table] = 0
		}
		for _, dep := range t.PullDependencies() {
			if _, registered := r.byTable[dep]; !registered {
				return nil, fmt.Errorf("table %q depends on %q which has no registered translator", table, dep)
			}
			inDegree[table]++
			dependents[dep] = append(dependents[dep], table)
		}
	}

	// Kahn's algorithm with a sorted frontier for determinism.
	var frontier []string
	for table, deg := range inDegree {
		if deg == 0 {
			frontier = append(frontier, table)
		}
	}
	sort.Strings(frontier)

	order := make([]Translator, 0, len(r.byTable))
	for len(frontier) > 0 {
		table := frontier[0]
		frontier = frontier[1:]
		order = append(order, r.byTable[table])

		released := dependents[table]
		sort.Strings(released)
		for _, next := range released {
			inDegree[next]--
			if inDegree[next] == 0 {
				frontier = append(frontier, next)
			}
		}
		sort.Strings(frontier)
	}

	if len(order) != len(r.byTable) {
		var stuck []string
		for table, deg := range inDegree {
			if deg > 0 {
				stuck = append(stuck, table)
			}
		}
		sort.Strings(stuck)
		return nil, fmt.Errorf("dependency cycle among tables %v", stuck)
	}

	r.pullOrder = order
	return order, nil
}

// NewDefaultRegistry registers every entity translator this site syncs.
// Panics on misconfiguration, since the set is fixed at compile time.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister(
		NewNameTranslator(),
		NewStoreTranslator(),
		NewUnitTranslator(),
		NewItemTranslator(),
		NewStockLineTranslator(),
		NewInvoiceTranslator(),
		NewInvoiceLineTranslator(),
		NewRequisitionTranslator(),
		NewRequisitionLineTranslator(),
		NewPurchaseOrderTranslator(),
		NewPurchaseOrderLineTranslator(),
		NewProgramEventTranslator(),
	)
	if _, err := r.PullOrder(); err != nil {
		panic(err)
	}
	return r
}
