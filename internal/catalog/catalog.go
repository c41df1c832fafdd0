// Package catalog holds the fixed status / sub-status taxonomy and is
// the single place slugs are resolved. Transition logic never compares
// raw ids or hardcodes slugs outside the engine's transition table.
package catalog

import (
	"context"
	"fmt"

	"github.com/spec-kit/field-service/internal/domain"
	apperrors "github.com/spec-kit/field-service/pkg/util"
)

// StatusLister loads all seeded status records.
type StatusLister interface {
	ListAll(ctx context.Context) ([]domain.Status, error)
}

// Catalog is an immutable in-memory index of the status taxonomy.
type Catalog struct {
	byID   map[int64]domain.Status
	bySlug map[string]domain.Status
}

// Load reads the taxonomy once at startup.
func Load(ctx context.Context, statuses StatusLister) (*Catalog, error) {
	records, err := statuses.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load status catalog: %w", err)
	}
	return New(records), nil
}

// New builds a catalog from status records.
func New(records []domain.Status) *Catalog {
	c := &Catalog{
		byID:   make(map[int64]domain.Status, len(records)),
		bySlug: make(map[string]domain.Status, len(records)),
	}
	for _, record := range records {
		c.byID[record.ID] = record
		c.bySlug[record.Slug] = record
	}
	return c
}

// Resolve maps a top-level slug, and optionally a sub-status slug, to
// status records. subSlug may be empty when the transition clears the
// sub-status.
func (c *Catalog) Resolve(topSlug, subSlug string) (domain.Status, *domain.Status, error) {
	top, ok := c.bySlug[topSlug]
	if !ok || !top.IsTop() {
		return domain.Status{}, nil, apperrors.NewNotFound("status", map[string]any{"slug": topSlug})
	}
	if subSlug == "" {
		return top, nil, nil
	}
	sub, ok := c.bySlug[subSlug]
	if !ok {
		return domain.Status{}, nil, apperrors.NewNotFound("sub-status", map[string]any{"slug": subSlug})
	}
	if sub.ParentID == nil || *sub.ParentID != top.ID {
		return domain.Status{}, nil, apperrors.NewValidationError(
			fmt.Sprintf("sub-status %q does not belong to status %q", subSlug, topSlug), nil)
	}
	return top, &sub, nil
}

// ByID returns the status record for a catalog id.
func (c *Catalog) ByID(id int64) (domain.Status, bool) {
	status, ok := c.byID[id]
	return status, ok
}

// SlugOf returns the slug for a catalog id, or empty when unknown.
func (c *Catalog) SlugOf(id int64) string {
	if status, ok := c.byID[id]; ok {
		return status.Slug
	}
	return ""
}

// Label returns the display name for a catalog id, falling back to the
// raw id when unknown.
func (c *Catalog) Label(id int64) string {
	if status, ok := c.byID[id]; ok {
		return status.Name
	}
	return fmt.Sprintf("%d", id)
}
