package cask

// Source yields component definitions for scanning. Sources must not
// construct the underlying components; they only describe them.
type Source interface {
	Definitions() ([]*Definition, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func() ([]*Definition, error)

func (f SourceFunc) Definitions() ([]*Definition, error) {
	return f()
}

// Defs builds a static Source from a fixed definition set.
func Defs(defs ...*Definition) Source {
	return SourceFunc(func() ([]*Definition, error) {
		return defs, nil
	})
}

// Scanner discovers candidate definitions from a set of sources and
// populates a registry with them. Scanning has no side effects beyond
// registry population, and the result set does not depend on source
// order; only the resolver determines instantiation order.
type Scanner struct {
	sources []Source
}

// NewScanner creates a scanner over the given sources.
func NewScanner(sources ...Source) *Scanner {
	return &Scanner{sources: sources}
}

// Add appends a source to the scan set.
func (s *Scanner) Add(src Source) {
	if src != nil {
		s.sources = append(s.sources, src)
	}
}

// Scan collects definitions from every source and registers them.
// A duplicate identity anywhere in the source set is fatal.
func (s *Scanner) Scan(reg *Registry) error {
	for _, src := range s.sources {
		defs, err := src.Definitions()
		if err != nil {
			return err
		}
		for _, def := range defs {
			if err := reg.Register(def); err != nil {
				return err
			}
		}
	}
	return nil
}
