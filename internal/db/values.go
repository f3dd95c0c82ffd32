package db

import (
	"slices"

	"github.com/lotuss-academy/lms-admin/internal/store"
)

// pick keeps only the allowed keys of v.
func pick(v store.Values, allowed []string) store.Values {
	out := store.Values{}
	for k, val := range v {
		if slices.Contains(allowed, k) {
			out[k] = val
		}
	}
	return out
}

func setDefault(v store.Values, key string, def any) {
	if cur, ok := v[key]; !ok || cur == nil {
		v[key] = def
	}
}
