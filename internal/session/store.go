// Package session holds the per-user wizard context: which course is being edited
// and which submodule generation is current for each module.
package session

import (
	"context"
	"sort"
	"strings"
)

// Fixed keys of the wizard context.
const (
	KeyCourseID        = "course_id"
	KeyModuleVersionID = "module_version_id"

	submoduleVersionPrefix = "submodule_version_"
)

// SubmoduleVersionKey returns the key under which a module's submodule version is cached.
func SubmoduleVersionKey(moduleID string) string {
	return submoduleVersionPrefix + moduleID
}

// moduleIDFromKey is the inverse of SubmoduleVersionKey.
func moduleIDFromKey(key string) (string, bool) {
	if !strings.HasPrefix(key, submoduleVersionPrefix) {
		return "", false
	}
	return strings.TrimPrefix(key, submoduleVersionPrefix), true
}

// Store is a string key-value store scoped to one user session. Implementations
// must be safe for concurrent use.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
}

// Backend hands out the Store of a server-side session.
type Backend interface {
	Open(sessionID string) Store
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func cloneValues(m map[string]string) map[string]string {
	out := make(map[string]string, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}
