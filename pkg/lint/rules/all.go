package rules

import (
	"github.com/framelint/framelint/pkg/lint"
)

// All returns the built-in catalog. The catalog is immutable; callers
// that want a subset disable rules through lint.Config instead.
func All() lint.Catalog {
	return lint.MustCatalog(
		AttributeAccess,
		InplaceMutation,
		BooleanMask,
		UnpinnedSchema,
		MergeContract,
		FillerValue,
		ParamMutation,
	)
}
