package flows

import (
	"errors"
	"fmt"

	"github.com/aretw0/jobflow/internal/runtime"
	"github.com/aretw0/jobflow/pkg/domain"
	"github.com/aretw0/jobflow/pkg/registry"
)

// Entry describes one flow of the catalog independently of its Context type.
type Entry struct {
	ID          string
	Description string

	blueprint func() domain.Blueprint
	validate  func() error
}

// Blueprint returns the serializable shape of the flow.
func (e Entry) Blueprint() domain.Blueprint { return e.blueprint() }

// Validate checks the flow against its handler registry.
func (e Entry) Validate() error { return e.validate() }

func entry[C any](flow *domain.Flow[C], handlers func() *registry.Registry[C], description string) Entry {
	return Entry{
		ID:          flow.ID,
		Description: description,
		blueprint:   flow.Blueprint,
		validate:    func() error { return runtime.Validate(flow, handlers()) },
	}
}

// Catalog lists every flow in the order a user meets them.
func Catalog() []Entry {
	return []Entry{
		entry(Browse(), BrowseHandlers, "pick a job and an action on it"),
		entry(PreBuild(), PreBuildHandlers, "collect job, branch and parameters before a build"),
		entry(PostBuild(), PostBuildHandlers, "follow up on a triggered build"),
		entry(PostStatus(), PostStatusHandlers, "follow up on a status check"),
	}
}

// Lookup finds a catalog entry by flow id.
func Lookup(id string) (Entry, error) {
	for _, e := range Catalog() {
		if e.ID == id {
			return e, nil
		}
	}
	return Entry{}, fmt.Errorf("flow %s: %w", id, domain.ErrNotFound)
}

// ValidateAll validates every flow and joins the failures.
func ValidateAll() error {
	var errs []error
	for _, e := range Catalog() {
		if err := e.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
