package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/lancebay/contracts-service/internal/model"
)

// defaultAmount picks the contract amount from the project budget: ceiling
// first, then floor, then zero.
func defaultAmount(project model.Project) float64 {
	if project.BudgetMax != nil {
		return *project.BudgetMax
	}
	if project.BudgetMin != nil {
		return *project.BudgetMin
	}
	return 0
}

// renderContractDraft synthesizes the initial contract body from the project
// and proposal. The employer edits this text freely while the contract is
// NEGOTIATING, so the exact formatting is presentation, not policy.
func renderContractDraft(project model.Project, proposal model.Proposal) string {
	deadline := "unspecified"
	if project.CompletionDeadline != nil {
		deadline = project.CompletionDeadline.Format("2006-01-02")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Contract draft (v1)\n\n")
	fmt.Fprintf(&b, "## Project\n")
	fmt.Fprintf(&b, "* **Title**: %s\n", project.Title)
	fmt.Fprintf(&b, "* **Project ID**: %s\n", project.ID)
	fmt.Fprintf(&b, "* **Work type**: %s\n", project.WorkType)
	fmt.Fprintf(&b, "* **Amount**: %.2f\n", defaultAmount(project))
	fmt.Fprintf(&b, "* **Completion deadline**: %s\n\n", deadline)
	fmt.Fprintf(&b, "## Parties\n")
	fmt.Fprintf(&b, "* **Employer**: %s (User ID: %s)\n", project.Employer.Email, project.EmployerID)
	fmt.Fprintf(&b, "* **Freelancer**: %s (User ID: %s)\n\n", proposal.Freelancer.Email, proposal.FreelancerID)
	fmt.Fprintf(&b, "## Scope of work\n")
	fmt.Fprintf(&b, "(Filled in by the employer; seeded from the project description.)\n\n")
	fmt.Fprintf(&b, "%s\n\n", project.Description)
	fmt.Fprintf(&b, "## Delivery\n\n...\n\n")
	fmt.Fprintf(&b, "## Additional terms\n\n...\n\n")
	fmt.Fprintf(&b, "---\n")
	fmt.Fprintf(&b, "Generated on %s. The employer may edit this draft while the contract is negotiating.\n",
		time.Now().Format("2006-01-02 15:04"))
	return b.String()
}
