package taxonomy

import "github.com/legisdesk/casetriage/pkg/domain/types"

// Default returns the built-in agency taxonomy
func Default() *Taxonomy {
	return &Taxonomy{
		Agencies: []Agency{
			{
				Name:      "Department of Veterans Affairs",
				IssueArea: types.IssueAreaVeterans,
				Subagencies: []Subagency{
					{
						Name: "Veterans Benefits Administration",
						Programs: []Program{
							{
								Name:     "GI Bill Benefits",
								Problems: []string{"Payment Delay", "Eligibility", "Records Request"},
							},
							{
								Name:     "Disability Compensation",
								Problems: []string{"Claims Processing", "Appeal Status", "Payment Delay"},
							},
						},
					},
				},
			},
			{
				Name:      "Department of Health and Human Services",
				IssueArea: types.IssueAreaHealthcare,
				Subagencies: []Subagency{
					{
						Name: "Centers for Medicare & Medicaid Services",
						Programs: []Program{
							{
								Name:     "Medicare Part A",
								Problems: []string{"Claims Processing", "Eligibility", "Appeal Status"},
							},
							{
								Name:     "Medicare Part B",
								Problems: []string{"Claims Processing", "Coverage Denial", "Eligibility"},
							},
						},
					},
				},
			},
			{
				Name:      "Department of Homeland Security",
				IssueArea: types.IssueAreaImmigration,
				Subagencies: []Subagency{
					{
						Name: "U.S. Citizenship and Immigration Services",
						Programs: []Program{
							{
								Name:     "Visa Processing",
								Problems: []string{"Processing Delay", "Documentation Issue", "Status Inquiry"},
							},
							{
								Name:     "Naturalization",
								Problems: []string{"Processing Delay", "Interview Scheduling", "Records Request"},
							},
						},
					},
				},
			},
			{
				Name:      "Social Security Administration",
				IssueArea: types.IssueAreaBenefits,
				Subagencies: []Subagency{
					{
						Name: "SSA Programs",
						Programs: []Program{
							{
								Name:     "Social Security Disability Insurance",
								Problems: []string{"Claims Processing", "Appeal Status", "Payment Delay"},
							},
							{
								Name:     "Retirement Benefits",
								Problems: []string{"Eligibility", "Payment Delay", "Records Request"},
							},
						},
					},
				},
			},
		},
	}
}
