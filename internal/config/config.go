// Package config loads predefined macros from outside the compile call
// itself: an optional config file plus LCPP_DEFINE_* environment
// variables. It is grounded on gitea's viper-based setting.NewContext
// (config file discovery and env-var binding pattern), adapted from
// gitea's general key=value settings onto lcpp's macro predefines.
package config

import (
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/gopherpp/lcpp/macro"
)

// EnvPrefix is the prefix stripped from environment variables that define
// a predefined macro: LCPP_DEFINE_FOO=1 predefines FOO as Number(1).
const EnvPrefix = "LCPP_DEFINE_"

// Load builds a macro.Table of predefines from an optional config file
// and the process environment. path may be empty, in which case only the
// environment is consulted. The config file, when given, is read through
// viper so any format viper supports (YAML, TOML, JSON, .env, ...) works;
// it is expected to declare a top-level "defines" list of "NAME" or
// "NAME=VALUE" entries, the same shape cmd/lcpp's --define flag accepts.
// A list, not a nested map, is used deliberately: viper lower-cases map
// keys when decoding (see github.com/spf13/viper issue on case-sensitive
// keys), which would silently rewrite conventionally-uppercase macro
// names; list entries are plain strings and are not touched.
func Load(path string) (*macro.Table, error) {
	table := macro.NewTable()

	if path != "" {
		v := viper.New()
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "config: reading %s", path)
		}
		for _, entry := range v.GetStringSlice("defines") {
			name, value := macro.ParseAssignment(entry)
			if err := table.Define(name, value, true); err != nil {
				return nil, errors.Wrapf(err, "config: predefine %q from %s", name, path)
			}
		}
	}

	for _, name := range sortedEnvNames() {
		body := os.Getenv(EnvPrefix + name)
		if err := table.Define(name, macro.ParseLiteral(body), true); err != nil {
			return nil, errors.Wrapf(err, "config: predefine %q from environment", name)
		}
	}

	return table, nil
}

// sortedEnvNames scans the process environment for LCPP_DEFINE_* names,
// stripped of their prefix, in a stable order.
func sortedEnvNames() []string {
	var names []string
	for _, kv := range os.Environ() {
		key, _, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(key, EnvPrefix) {
			continue
		}
		names = append(names, strings.TrimPrefix(key, EnvPrefix))
	}
	sort.Strings(names)
	return names
}
