package model

// Company is the working state for a single organization number while it
// moves through the pipeline. Steps fill it in; the Aggregator turns it
// into an Outcome once all steps have run.
type Company struct {
	// OrgNumber is the identifier being processed.
	OrgNumber OrgNumber

	// Response is the decoded registry payload, set by the fetch step.
	Response OwnerResponse

	// Records are the rows extracted from Response.
	Records []OwnershipRecord

	// PerformedSteps lists the names of the steps that ran, in order.
	PerformedSteps []string
}

// NewCompany creates the working state for one organization number.
func NewCompany(org OrgNumber) *Company {
	return &Company{
		OrgNumber: org,
	}
}

// DisplayName returns the company name reported by the registry, falling
// back to "Company <id>" when the response carries none.
func (c *Company) DisplayName() string {
	if c.Response != nil {
		if name := c.Response.CompanyName(); name != "" {
			return name
		}
	}
	return "Company " + c.OrgNumber.String()
}
