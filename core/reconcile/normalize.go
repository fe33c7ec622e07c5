package reconcile

import (
	"strings"

	"dog-inventory/core/utils"
)

// FactPrefix namespaces every host fact so it cannot collide with
// orchestration-reserved variable names.
const FactPrefix = "dog_"

var groupNameReplacer = strings.NewReplacer("-", "_", "+", "_", ".", "_")

// SlugifyFact turns a raw field name into a host fact key.
// Runes outside [A-Za-z0-9_-] become underscores, the result is lowercased,
// leading underscores are stripped and FactPrefix is prepended.
func SlugifyFact(v any) string {
	s := utils.ToString(v)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		default:
			b.WriteByte('_')
		}
	}
	return FactPrefix + strings.TrimLeft(b.String(), "_")
}

// FixGroupName replaces the characters that are not allowed in group names.
func FixGroupName(v any) string {
	return groupNameReplacer.Replace(utils.ToString(v))
}
