package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/field-service/internal/domain"
	apperrors "github.com/spec-kit/field-service/pkg/util"
)

func fixture() *Catalog {
	parent := int64(2)
	other := int64(3)
	return New([]domain.Status{
		{ID: 2, Slug: "dispatched", Name: "Dispatched"},
		{ID: 3, Slug: "in-progress", Name: "In Progress"},
		{ID: 11, Slug: "technician-accepted", Name: "Technician Accepted", ParentID: &parent},
		{ID: 14, Slug: "work-started", Name: "Work Started", ParentID: &other},
	})
}

func TestResolveTopOnly(t *testing.T) {
	cat := fixture()
	top, sub, err := cat.Resolve("dispatched", "")
	require.NoError(t, err)
	assert.Equal(t, int64(2), top.ID)
	assert.Nil(t, sub)
}

func TestResolveWithSub(t *testing.T) {
	cat := fixture()
	top, sub, err := cat.Resolve("dispatched", "technician-accepted")
	require.NoError(t, err)
	assert.Equal(t, int64(2), top.ID)
	require.NotNil(t, sub)
	assert.Equal(t, int64(11), sub.ID)
}

func TestResolveUnknownTop(t *testing.T) {
	cat := fixture()
	_, _, err := cat.Resolve("nope", "")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}

func TestResolveSubSlugAsTopRejected(t *testing.T) {
	cat := fixture()
	_, _, err := cat.Resolve("technician-accepted", "")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}

func TestResolveSubUnderWrongParent(t *testing.T) {
	cat := fixture()
	_, _, err := cat.Resolve("dispatched", "work-started")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidationFailed))
}

func TestSlugOfAndLabel(t *testing.T) {
	cat := fixture()
	assert.Equal(t, "in-progress", cat.SlugOf(3))
	assert.Equal(t, "", cat.SlugOf(99))
	assert.Equal(t, "In Progress", cat.Label(3))
	assert.Equal(t, "99", cat.Label(99))
}
