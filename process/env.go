package process

import (
	"sort"

	"github.com/bitrise-io/go-utils/v2/env"
)

// Environment keys ...
const (
	PathEnvKey       = "PATH"
	ForceColorEnvKey = "FORCE_COLOR"
)

type restrictedRepository struct {
	values map[string]string
}

// NewRestrictedEnvRepository returns a repository holding only PATH and the
// extra allowlisted keys copied from source, plus FORCE_COLOR=true.
// Its List() is the complete environment of every command the runner starts.
func NewRestrictedEnvRepository(source env.Repository, allowlist ...string) env.Repository {
	values := map[string]string{}
	for _, key := range append([]string{PathEnvKey}, allowlist...) {
		if value := source.Get(key); value != "" {
			values[key] = value
		}
	}
	values[ForceColorEnvKey] = "true"

	return restrictedRepository{values: values}
}

func (r restrictedRepository) List() []string {
	keys := make([]string, 0, len(r.values))
	for key := range r.values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	envs := make([]string, 0, len(keys))
	for _, key := range keys {
		envs = append(envs, key+"="+r.values[key])
	}
	return envs
}

func (r restrictedRepository) Unset(key string) error {
	delete(r.values, key)
	return nil
}

func (r restrictedRepository) Get(key string) string {
	return r.values[key]
}

func (r restrictedRepository) Set(key, value string) error {
	r.values[key] = value
	return nil
}
