package report

import (
	"errors"
	"fmt"
)

// Validate checks report linkage: ids are unique and every stage input and
// output refers to a known file. All problems are returned joined.
func (r *Report) Validate() error {
	var errs []error
	files := make(map[string]struct{}, len(r.Files))
	for _, f := range r.Files {
		if f.ID == "" {
			errs = append(errs, fmt.Errorf("file %q has empty id", f.Name))
			continue
		}
		if _, dup := files[f.ID]; dup {
			errs = append(errs, fmt.Errorf("duplicate file id %s", f.ID))
		}
		files[f.ID] = struct{}{}
	}
	stages := make(map[string]struct{}, len(r.Stages))
	for _, s := range r.Stages {
		if _, dup := stages[s.ID]; dup {
			errs = append(errs, fmt.Errorf("duplicate stage id %s", s.ID))
		}
		stages[s.ID] = struct{}{}
		for _, id := range s.Inputs {
			if _, ok := files[id]; !ok {
				errs = append(errs, fmt.Errorf("stage %s: unknown input %s", s.ID, id))
			}
		}
		for _, id := range s.Outputs {
			if _, ok := files[id]; !ok {
				errs = append(errs, fmt.Errorf("stage %s: unknown output %s", s.ID, id))
			}
		}
	}
	return errors.Join(errs...)
}
