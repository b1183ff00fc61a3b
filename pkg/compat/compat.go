// Package compat gates experiments on the host distribution. Replacement
// packages only exist in the archives of specific releases, so enabling an
// experiment on an unsupported system would fail halfway through; the gate
// rejects it before anything is touched.
package compat

import (
	"fmt"
	"strings"

	goversion "github.com/hashicorp/go-version"

	"github.com/arthur-debert/oxidizr/pkg/logging"
	"github.com/arthur-debert/oxidizr/pkg/system"
)

// Rule declares which systems an experiment supports. Distribution is
// matched case-insensitively. When Releases is non-empty it is an exact
// allow-list and MinRelease is ignored; otherwise MinRelease is an
// inclusive lower bound.
type Rule struct {
	Distribution string
	MinRelease   string
	Releases     []string
}

// Decision is the outcome of evaluating a rule against a host.
type Decision struct {
	Allowed bool
	Reason  string
}

// String renders the rule for catalog listings, e.g. "Ubuntu >= 24.04"
// or "Ubuntu 24.04, 24.10, 25.04".
func (r Rule) String() string {
	if len(r.Releases) > 0 {
		return fmt.Sprintf("%s %s", r.Distribution, strings.Join(r.Releases, ", "))
	}
	return fmt.Sprintf("%s >= %s", r.Distribution, r.MinRelease)
}

// Evaluate checks a rule against the observed host info. It is pure apart
// from one warn line when the bypass flag suppresses a check; callers
// decide what to do with the decision.
func Evaluate(rule Rule, info system.Info, bypass bool) Decision {
	if bypass {
		logger := logging.GetLogger("compat")
		logger.Warn().
			Str("distribution", info.ID).
			Str("release", info.Release).
			Str("rule", rule.String()).
			Msg("Compatibility check bypassed; proceeding on an unverified system")
		return Decision{Allowed: true, Reason: "compatibility check bypassed"}
	}

	if !strings.EqualFold(rule.Distribution, info.ID) {
		return Decision{
			Allowed: false,
			Reason:  fmt.Sprintf("requires %s, system is %s", rule.Distribution, info.ID),
		}
	}

	if len(rule.Releases) > 0 {
		for _, release := range rule.Releases {
			if release == info.Release {
				return Decision{Allowed: true, Reason: fmt.Sprintf("release %s is supported", info.Release)}
			}
		}
		return Decision{
			Allowed: false,
			Reason: fmt.Sprintf("release %s not in supported set [%s]",
				info.Release, strings.Join(rule.Releases, ", ")),
		}
	}

	min, err := goversion.NewVersion(rule.MinRelease)
	if err != nil {
		return Decision{
			Allowed: false,
			Reason:  fmt.Sprintf("unparseable minimum release %q", rule.MinRelease),
		}
	}

	have, err := goversion.NewVersion(info.Release)
	if err != nil {
		// An unreadable system version is treated as unsupported rather
		// than guessed at.
		return Decision{
			Allowed: false,
			Reason:  fmt.Sprintf("unparseable system release %q", info.Release),
		}
	}

	if have.LessThan(min) {
		return Decision{
			Allowed: false,
			Reason:  fmt.Sprintf("release %s is older than required %s", info.Release, rule.MinRelease),
		}
	}

	return Decision{Allowed: true, Reason: fmt.Sprintf("release %s meets minimum %s", info.Release, rule.MinRelease)}
}
