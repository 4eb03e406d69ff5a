package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefinitionSetCaseInsensitive(t *testing.T) {
	rec := &BookRecord{ID: "b1"}

	rec.Definitions = rec.WithDefinitions("Apple")
	assert.True(t, rec.IsDefined("apple"))
	assert.True(t, rec.IsDefined("APPLE"))
	assert.False(t, rec.IsDefined("pear"))

	rec.Definitions = rec.WithoutDefinition("APPLE")
	assert.False(t, rec.IsDefined("apple"))
	assert.Empty(t, rec.Definitions)
}

func TestWithoutDefinitionRemovesAllVariants(t *testing.T) {
	rec := &BookRecord{Definitions: []string{"Apple", "apple", "pear", "APPLE"}}

	got := rec.WithoutDefinition("aPpLe")

	assert.Equal(t, []string{"pear"}, got)
}

func TestApplyPartialUpdate(t *testing.T) {
	rec := &BookRecord{ID: "b1", CFI: "old", Percentage: 0.5, PageCount: 120}

	cfi := "epubcfi(/6/0004!/00000100)"
	pct := 0.75
	rec.Apply(BookUpdate{CFI: &cfi, Percentage: &pct})

	assert.Equal(t, cfi, rec.CFI)
	assert.InDelta(t, 0.75, rec.Percentage, 1e-9)
	// untouched fields survive
	assert.Equal(t, 120, rec.PageCount)
}

func TestApplyClampsPercentage(t *testing.T) {
	rec := &BookRecord{}

	over := 1.5
	rec.Apply(BookUpdate{Percentage: &over})
	assert.Equal(t, 1.0, rec.Percentage)

	under := -0.1
	rec.Apply(BookUpdate{Percentage: &under})
	assert.Equal(t, 0.0, rec.Percentage)
}

func TestApplyReplacesSetsOnlyWhenNonNil(t *testing.T) {
	rec := &BookRecord{
		Annotations: []Annotation{{ID: "a1", CFI: "x"}},
		Definitions: []string{"word"},
	}

	rec.Apply(BookUpdate{})
	assert.Len(t, rec.Annotations, 1)
	assert.Len(t, rec.Definitions, 1)

	rec.Apply(BookUpdate{Annotations: []Annotation{}, Definitions: []string{}})
	assert.Empty(t, rec.Annotations)
	assert.Empty(t, rec.Definitions)
}

func TestFindAnnotation(t *testing.T) {
	annotations := []Annotation{
		{ID: "a1", CFI: "epubcfi(/6/0002!/00000010)"},
		{ID: "a2", CFI: "epubcfi(/6/0002!/00000020)"},
	}

	assert.Equal(t, 1, FindAnnotation(annotations, "epubcfi(/6/0002!/00000020)"))
	assert.Equal(t, -1, FindAnnotation(annotations, "epubcfi(/6/0002!/00000030)"))
}

func TestTotalLengthAndFindSection(t *testing.T) {
	sections := []Section{
		{Index: 0, Href: "OEBPS/cover.xhtml", Length: 100},
		{Index: 1, Href: "OEBPS/ch1.xhtml", Length: 2400},
	}

	assert.Equal(t, 2500, TotalLength(sections))

	found := FindSection(sections, "ch1.xhtml")
	assert.NotNil(t, found)
	assert.Equal(t, 1, found.Index)

	assert.Nil(t, FindSection(sections, "missing.xhtml"))

	assert.Equal(t, 1, FindSectionIndex(sections, "ch1.xhtml"))
	assert.Equal(t, -1, FindSectionIndex(sections, "missing.xhtml"))
}
