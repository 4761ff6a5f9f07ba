package validation

import (
	"lendease/internal/adapters/persistence/models"
)

// CheckClientRecord evaluates the cross-field rules that must hold on any
// client record, whether it comes from registration or a later update:
// employed/self_employed records need employer, job title and monthly income;
// unemployed/student/retired records need a source of income.
func CheckClientRecord(c *models.Client) FieldErrors {
	var errs FieldErrors
	switch c.EmploymentStatus {
	case "employed", "self_employed":
		if c.EmployerName == nil {
			errs.add("employer_name", "This field is required for employed applicants.")
		}
		if c.JobTitle == nil {
			errs.add("job_title", "This field is required for employed applicants.")
		}
		if c.MonthlyIncome == nil {
			errs.add("monthly_income", "This field is required for employed applicants.")
		}
	case "unemployed", "student", "retired":
		if c.SourceOfIncome == nil {
			errs.add("source_of_income", "This field is required when not employed.")
		}
	}
	return errs
}

// NormalizeClientEmployment nulls the employment fields the record's status
// makes meaningless, so a stored record never carries both sides.
func NormalizeClientEmployment(c *models.Client) {
	switch c.EmploymentStatus {
	case "employed", "self_employed":
		c.SourceOfIncome = nil
	default:
		c.EmployerName = nil
		c.JobTitle = nil
		c.MonthlyIncome = nil
	}
}

// CheckCompanyRecord evaluates the pairwise numeric bounds on a company
// record. Stored records always carry both interest rates; loan-amount and
// loan-term bounds are checked only when both ends are set.
func CheckCompanyRecord(c *models.Company) FieldErrors {
	var errs FieldErrors
	if c.MinimumInterestRate >= c.MaximumInterestRate {
		errs.add("maximum_interest_rate", "Must be greater than the minimum interest rate.")
	}
	errs = append(errs, checkLoanBounds(c)...)
	return errs
}

// checkLoanBounds evaluates the optional loan-amount and loan-term pairs.
// Each pair is independent; a pair with a missing end is skipped.
func checkLoanBounds(c *models.Company) FieldErrors {
	var errs FieldErrors
	if c.MinimumLoanAmount != nil && c.MaximumLoanAmount != nil &&
		*c.MinimumLoanAmount >= *c.MaximumLoanAmount {
		errs.add("maximum_loan_amount", "Must be greater than the minimum loan amount.")
	}
	if c.LoanTermMinimumMonths != nil && c.LoanTermMaximumMonths != nil &&
		*c.LoanTermMinimumMonths >= *c.LoanTermMaximumMonths {
		errs.add("loan_term_maximum_months", "Must be greater than the minimum loan term.")
	}
	return errs
}
