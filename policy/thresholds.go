// Copyright 2025 Poiesic Systems
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


package policy

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v10"

	"github.com/poiesic/kbforge/core"
)

// ErrInvalidThresholds indicates an out-of-range threshold value.
var ErrInvalidThresholds = errors.New("invalid policy thresholds")

// Thresholds are the minimum metric values a run must clear. They come from
// the environment so that deployments can tighten or relax the gate without
// a code change; call sites never hard-code them.
type Thresholds struct {
	TrustScore       float64 `env:"MIN_TRUST_SCORE" envDefault:"50"`
	Security         float64 `env:"MIN_SECURE" envDefault:"90"`
	MetadataPresence float64 `env:"MIN_METADATA_PRESENCE" envDefault:"80"`
	KBReady          float64 `env:"MIN_KB_READY" envDefault:"50"`

	// WarnMargin is the soft-pass band: a metric that passes by less than
	// this margin turns a PASSED verdict into WARNINGS. Zero disables the
	// band.
	WarnMargin float64 `env:"POLICY_WARN_MARGIN" envDefault:"0"`
}

// LoadThresholds reads thresholds from the environment, falling back to the
// defaults for unset variables.
func LoadThresholds() (*Thresholds, error) {
	t := &Thresholds{}
	if err := env.Parse(t); err != nil {
		return nil, fmt.Errorf("failed to parse policy thresholds: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// DefaultThresholds returns the built-in defaults without touching the
// environment.
func DefaultThresholds() *Thresholds {
	return &Thresholds{
		TrustScore:       50,
		Security:         90,
		MetadataPresence: 80,
		KBReady:          50,
	}
}

// Validate checks every threshold is a percentage.
func (t *Thresholds) Validate() error {
	for name, v := range map[string]float64{
		"MIN_TRUST_SCORE":       t.TrustScore,
		"MIN_SECURE":            t.Security,
		"MIN_METADATA_PRESENCE": t.MetadataPresence,
		"MIN_KB_READY":          t.KBReady,
	} {
		if v < 0 || v > 100 {
			return fmt.Errorf("%w: %s=%v outside [0,100]", ErrInvalidThresholds, name, v)
		}
	}
	if t.WarnMargin < 0 {
		return fmt.Errorf("%w: POLICY_WARN_MARGIN=%v negative", ErrInvalidThresholds, t.WarnMargin)
	}
	return nil
}

// Snapshot captures the thresholds for inclusion in a PolicyResult.
func (t *Thresholds) Snapshot() core.ThresholdSnapshot {
	return core.ThresholdSnapshot{
		TrustScore:       t.TrustScore,
		Security:         t.Security,
		MetadataPresence: t.MetadataPresence,
		KBReady:          t.KBReady,
		WarnMargin:       t.WarnMargin,
	}
}
