// Copyright 2025 walteh LLC
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

// Package catalog holds the table of style rules that drive the suggestion
// engine. Rules are data: adding one is a catalog-file change, never a code
// change.
package catalog

import (
	"context"
	"regexp"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📏 Definition is the raw, uncompiled form of a style rule as it appears in
// catalog files and the built-in table.
type Definition struct {
	ID          string `json:"id" yaml:"id" hcl:"id,label"`
	Description string `json:"description" yaml:"description" hcl:"description"`
	Pattern     string `json:"pattern" yaml:"pattern" hcl:"pattern"`
	Replacement string `json:"replacement" yaml:"replacement" hcl:"replacement"`
	Scope       string `json:"scope,omitempty" yaml:"scope,omitempty" hcl:"scope,optional"`
}

// 🔍 Validate checks the fields a definition must carry before compilation
func (d Definition) Validate() error {
	if d.ID == "" {
		return errors.Errorf("rule id is required")
	}
	if d.Pattern == "" {
		return errors.Errorf("rule %s: pattern is required", d.ID)
	}
	return nil
}

// 📐 Rule is a compiled style rule. Replacement may reference capture groups
// with $1-style templates (regexp.Expand syntax).
type Rule struct {
	ID          string
	Description string
	Pattern     *regexp.Regexp
	Replacement string
	Scope       string // optional doublestar glob limiting the rule to matching document names
}

// AppliesTo reports whether the rule is in scope for the given document name.
// Rules without a scope apply everywhere; an unmatchable glob is treated as
// out of scope rather than an error.
func (r Rule) AppliesTo(name string) bool {
	if r.Scope == "" {
		return true
	}
	ok, err := doublestar.Match(r.Scope, name)
	if err != nil {
		return false
	}
	return ok
}

// 📚 Catalog is an ordered, immutable set of compiled rules
type Catalog struct {
	rules []Rule
}

// 🏭 Compile compiles definitions into a catalog. A malformed pattern or a
// duplicate id excludes that entry and logs a warning; it never aborts the
// load (the remaining rules still scan).
func Compile(ctx context.Context, defs []Definition) *Catalog {
	logger := zerolog.Ctx(ctx)

	rules := make([]Rule, 0, len(defs))
	seen := make(map[string]bool, len(defs))
	for _, def := range defs {
		if err := def.Validate(); err != nil {
			logger.Warn().Err(err).Msg("skipping invalid rule definition")
			continue
		}
		if seen[def.ID] {
			logger.Warn().Str("rule", def.ID).Msg("skipping duplicate rule id")
			continue
		}
		re, err := regexp.Compile(def.Pattern)
		if err != nil {
			logger.Warn().
				Str("rule", def.ID).
				Str("pattern", def.Pattern).
				Err(err).
				Msg("skipping rule with malformed pattern")
			continue
		}
		if def.Scope != "" {
			if !doublestar.ValidatePattern(def.Scope) {
				logger.Warn().
					Str("rule", def.ID).
					Str("scope", def.Scope).
					Msg("skipping rule with malformed scope glob")
				continue
			}
		}
		seen[def.ID] = true
		rules = append(rules, Rule{
			ID:          def.ID,
			Description: def.Description,
			Pattern:     re,
			Replacement: def.Replacement,
			Scope:       def.Scope,
		})
	}

	logger.Debug().Int("rules", len(rules)).Int("skipped", len(defs)-len(rules)).Msg("compiled rule catalog")
	return &Catalog{rules: rules}
}

// 📋 Rules returns the compiled rules in catalog order
func (c *Catalog) Rules() []Rule {
	return c.rules
}

// 🎯 RulesFor returns the rules in scope for the given document name,
// preserving catalog order
func (c *Catalog) RulesFor(name string) []Rule {
	out := make([]Rule, 0, len(c.rules))
	for _, r := range c.rules {
		if r.AppliesTo(name) {
			out = append(out, r)
		}
	}
	return out
}

// Len returns the number of usable rules
func (c *Catalog) Len() int {
	return len(c.rules)
}
