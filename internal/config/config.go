// Copyright 2025 Florian Zenker (flo@znkr.io)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config provides shared configuration mechanisms for packages this module.
//
// This package is an implementation detail, the configuration surface for users is provided via
// listdiff.Option.
package config

// Repr selects the representation used to store diagonals and pending ranges during a diff.
type Repr int

const (
	// Use the packed representation whenever both inputs are small enough, otherwise use the wide
	// representation.
	ReprAuto Repr = iota

	// Always use the packed representation with 16 bit fields. Panics if an input is too large.
	ReprPacked

	// Always use the wide representation.
	ReprWide
)

// Config collects all configurable parameters for comparison functions in this module.
type Config struct {
	// If set, contents are never compared and no changes are reported.
	IgnoreContents bool

	// Representation of diagonals and ranges. This configuration is not exposed via the public
	// option API, it's main use is for testing both representations against each other.
	Repr Repr
}

// Default is the default configuration.
var Default = Config{
	IgnoreContents: false,
	Repr:           ReprAuto,
}

// Flag describes a single config entry. This is used to detect if configurations are being set
// that are not supported by a function.
type Flag int

const (
	IgnoreContents Flag = 1 << iota
	ForcedRepr
)

// Option is the mechanism used to expose the configuration to users.
type Option func(*Config) Flag

// ForceRepr forces the representation used by the diff algorithm.
func ForceRepr(r Repr) Option {
	return func(cfg *Config) Flag {
		cfg.Repr = r
		return ForcedRepr
	}
}

// FromOptions creates a configuration from a set of options.
func FromOptions(opts []Option, allowed Flag) Config {
	cfg := Default
	for _, opt := range opts {
		flag := opt(&cfg)
		if flag & ^allowed != 0 {
			panic("Option " + printFlag(flag) + " not allowed here")
		}
	}
	if cfg.Repr < ReprAuto || cfg.Repr > ReprWide {
		panic("invalid representation")
	}
	return cfg
}

func printFlag(flag Flag) string {
	switch flag {
	case IgnoreContents:
		return "listdiff.IgnoreContents"
	case ForcedRepr:
		return "config.ForceRepr"
	default:
		panic("never reached")
	}
}
