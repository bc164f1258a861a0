package seed

import (
	"context"
	"fmt"
	"strings"

	"github.com/frahmantamala/expense-ledger/internal"
)

type CheckResult struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail,omitempty"`
}

type Report struct {
	Passed bool          `json:"passed"`
	Admins int           `json:"admins"`
	Staff  int           `json:"staff"`
	Checks []CheckResult `json:"checks"`
}

// Failed returns the checks that did not pass.
func (r *Report) Failed() []CheckResult {
	var out []CheckResult
	for _, c := range r.Checks {
		if !c.Passed {
			out = append(out, c)
		}
	}
	return out
}

func (r *Report) add(name string, passed bool, detail string) {
	r.Checks = append(r.Checks, CheckResult{Name: name, Passed: passed, Detail: detail})
	if !passed {
		r.Passed = false
	}
}

// Check inspects the persisted users without changing anything.
func (s *Seeder) Check(ctx context.Context) (*Report, error) {
	users, err := s.users.List(ctx, "")
	if err != nil {
		return nil, err
	}

	report := &Report{Passed: true}
	var incomplete []string
	for _, u := range users {
		switch u.Role {
		case internal.RoleAdmin:
			report.Admins++
		case internal.RoleStaff:
			report.Staff++
		}
		if appErr := u.Validate(); appErr != nil {
			incomplete = append(incomplete, fmt.Sprintf("user %d: %s", u.ID, appErr.Error()))
		}
	}

	report.add("exactly one admin", report.Admins == ExpectedAdmins,
		fmt.Sprintf("found %d admin(s)", report.Admins))
	report.add("exactly five staff", report.Staff == ExpectedStaff,
		fmt.Sprintf("found %d staff", report.Staff))
	report.add("required fields populated", len(incomplete) == 0, strings.Join(incomplete, "; "))

	s.logger.Info("seed check complete", "passed", report.Passed, "admins", report.Admins, "staff", report.Staff)
	return report, nil
}
