// Package lifecycle defines the contract state machine as data: a map of
// legal transitions to the roles allowed to trigger them and the
// notification each one produces. It holds no state and performs no I/O;
// the service layer walks it.
package lifecycle

import (
	"fmt"

	"github.com/lancebay/contracts-service/internal/model"
)

// Edge is a directed (from, to) pair of contract statuses. Any pair absent
// from the table is an illegal transition regardless of caller role.
type Edge struct {
	From model.ContractStatus
	To   model.ContractStatus
}

// Rule is the policy attached to a legal edge. The notification recipient is
// always the counter-party of the triggering role, so only the title varies
// per edge.
type Rule struct {
	Roles []model.Role
	Title func(contractTitle string, actor model.Role) string

	// StaffProject marks the single edge that flips the originating
	// project to STAFFED.
	StaffProject bool
}

// Allows reports whether the given role may trigger the edge.
func (r Rule) Allows(role model.Role) bool {
	for _, allowed := range r.Roles {
		if allowed == role {
			return true
		}
	}
	return false
}

func employer() []model.Role   { return []model.Role{model.RoleEmployer} }
func freelancer() []model.Role { return []model.Role{model.RoleFreelancer} }
func either() []model.Role     { return []model.Role{model.RoleEmployer, model.RoleFreelancer} }

func title(format string) func(string, model.Role) string {
	return func(contractTitle string, _ model.Role) string {
		return fmt.Sprintf(format, contractTitle)
	}
}

var transitions = map[Edge]Rule{
	// Signing and negotiation-phase termination.
	{model.ContractStatusNegotiating, model.ContractStatusActive}: {
		Roles:        freelancer(),
		Title:        title("Freelancer signed contract %q"),
		StaffProject: true,
	},
	{model.ContractStatusNegotiating, model.ContractStatusTerminated}: {
		Roles: either(),
		Title: func(contractTitle string, actor model.Role) string {
			who := "employer"
			if actor == model.RoleFreelancer {
				who = "freelancer"
			}
			return fmt.Sprintf("Contract %q was terminated during negotiation by the %s", contractTitle, who)
		},
	},

	// Employer-initiated revision.
	{model.ContractStatusActive, model.ContractStatusEmployerRequestsRevision}: {
		Roles: employer(),
		Title: title("Employer requested changes to contract %q"),
	},
	{model.ContractStatusEmployerRequestsRevision, model.ContractStatusNegotiating}: {
		Roles: freelancer(),
		Title: title("Freelancer agreed to renegotiate contract %q"),
	},
	{model.ContractStatusEmployerRequestsRevision, model.ContractStatusActive}: {
		Roles: freelancer(),
		Title: title("Freelancer declined changes to contract %q"),
	},

	// Freelancer-initiated revision.
	{model.ContractStatusActive, model.ContractStatusFreelancerRequestsRevision}: {
		Roles: freelancer(),
		Title: title("Freelancer requested changes to contract %q"),
	},
	{model.ContractStatusFreelancerRequestsRevision, model.ContractStatusNegotiating}: {
		Roles: employer(),
		Title: title("Employer agreed to renegotiate contract %q"),
	},
	{model.ContractStatusFreelancerRequestsRevision, model.ContractStatusActive}: {
		Roles: employer(),
		Title: title("Employer declined changes to contract %q"),
	},

	// Employer-initiated termination.
	{model.ContractStatusActive, model.ContractStatusEmployerRequestsTermination}: {
		Roles: employer(),
		Title: title("Employer requested termination of contract %q"),
	},
	{model.ContractStatusEmployerRequestsTermination, model.ContractStatusTerminated}: {
		Roles: freelancer(),
		Title: title("Freelancer agreed to terminate contract %q"),
	},
	{model.ContractStatusEmployerRequestsTermination, model.ContractStatusActive}: {
		Roles: freelancer(),
		Title: title("Freelancer declined to terminate contract %q"),
	},

	// Freelancer-initiated termination.
	{model.ContractStatusActive, model.ContractStatusFreelancerRequestsTermination}: {
		Roles: freelancer(),
		Title: title("Freelancer requested termination of contract %q"),
	},
	{model.ContractStatusFreelancerRequestsTermination, model.ContractStatusTerminated}: {
		Roles: employer(),
		Title: title("Employer agreed to terminate contract %q"),
	},
	{model.ContractStatusFreelancerRequestsTermination, model.ContractStatusActive}: {
		Roles: employer(),
		Title: title("Employer declined to terminate contract %q"),
	},

	// Acceptance flow.
	{model.ContractStatusActive, model.ContractStatusFreelancerRequestsAcceptance}: {
		Roles: freelancer(),
		Title: title("Freelancer submitted contract %q for acceptance"),
	},
	{model.ContractStatusFreelancerRequestsAcceptance, model.ContractStatusCompleted}: {
		Roles: employer(),
		Title: title("Employer accepted the work on contract %q"),
	},
	{model.ContractStatusFreelancerRequestsAcceptance, model.ContractStatusActive}: {
		Roles: employer(),
		Title: title("Employer returned the acceptance request for contract %q"),
	},

	// Direct completion for work that needs no acceptance round.
	{model.ContractStatusActive, model.ContractStatusCompleted}: {
		Roles: employer(),
		Title: title("Employer marked contract %q as completed"),
	},
}

// Lookup returns the rule for a (from, to) pair, if the pair is a legal
// edge.
func Lookup(from, to model.ContractStatus) (Rule, bool) {
	rule, ok := transitions[Edge{From: from, To: to}]
	return rule, ok
}

// Edges returns every legal edge. The slice is rebuilt on each call so
// callers cannot mutate the table.
func Edges() []Edge {
	edges := make([]Edge, 0, len(transitions))
	for edge := range transitions {
		edges = append(edges, edge)
	}
	return edges
}

// IsTerminal reports whether the status has no outgoing edges.
func IsTerminal(status model.ContractStatus) bool {
	return status == model.ContractStatusCompleted || status == model.ContractStatusTerminated
}
