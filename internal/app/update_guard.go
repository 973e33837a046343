package app

import (
	"fmt"

	"seenjeem-admin/internal/domain"
)

// UpdateGuard decides when an update re-validates the one-question-per-tier rule.
type UpdateGuard string

const (
	// GuardEffectiveTier re-checks whenever the stored (sub-category, points) pair would change.
	GuardEffectiveTier UpdateGuard = "effective-tier"
	// GuardExplicitPair re-checks only when the patch carries both sub-category and points.
	GuardExplicitPair UpdateGuard = "explicit-pair"
)

// ParseUpdateGuard maps a config value to a policy. Empty selects GuardEffectiveTier.
func ParseUpdateGuard(raw string) (UpdateGuard, error) {
	switch UpdateGuard(raw) {
	case "", GuardEffectiveTier:
		return GuardEffectiveTier, nil
	case GuardExplicitPair:
		return GuardExplicitPair, nil
	}
	return "", fmt.Errorf("unknown update guard %q", raw)
}

func (g UpdateGuard) requiresCheck(before domain.Question, patch QuestionPatch, after domain.Question) bool {
	switch g {
	case GuardExplicitPair:
		return patch.SubCategoryID != nil && *patch.SubCategoryID != "" && patch.Points != nil && *patch.Points != 0
	default:
		return before.SubCategoryID != after.SubCategoryID || before.Points != after.Points
	}
}
