package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"lendease/internal/adapters/persistence/models"
	"lendease/internal/core/domain"
	"lendease/internal/core/validation"
)

// Profile updates merge a partial payload into the stored record and
// re-validate the merged record under the same conditional rules as
// registration. Legal identifiers (company name, SEC number, TIN) and the
// owning user's kind are not updatable here.

// ClientProfileUpdateInput is a partial borrower-profile update; nil fields
// are left unchanged.
type ClientProfileUpdateInput struct {
	MiddleName    *string `json:"middle_name"`
	MaritalStatus *string `json:"marital_status"`
	PhoneNumber   *string `json:"phone_number"`

	CurrentStreet     *string `json:"current_street"`
	CurrentBarangay   *string `json:"current_barangay"`
	CurrentCity       *string `json:"current_city"`
	CurrentRegion     *string `json:"current_region"`
	PermanentStreet   *string `json:"permanent_street"`
	PermanentBarangay *string `json:"permanent_barangay"`
	PermanentCity     *string `json:"permanent_city"`
	PermanentRegion   *string `json:"permanent_region"`

	EmploymentStatus *string  `json:"employment_status"`
	EmployerName     *string  `json:"employer_name"`
	JobTitle         *string  `json:"job_title"`
	MonthlyIncome    *float64 `json:"monthly_income"`
	SourceOfIncome   *string  `json:"source_of_income"`

	BankName          *string `json:"bank_name"`
	BankAccountNumber *string `json:"bank_account_number"`
	BankAccountName   *string `json:"bank_account_name"`
}

// UpdateClientProfile updates a borrower profile scoped to its owner or an
// admin. The merged record must satisfy the registration-time invariants.
func (s *UserService) UpdateClientProfile(ctx context.Context, req Requester, userID uint, input *ClientProfileUpdateInput) (*models.Client, error) {
	if !req.canSee(userID) {
		return nil, domain.ErrForbidden
	}

	client, err := s.clientRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProfileMissing
		}
		return nil, err
	}

	var errs validation.FieldErrors

	if input.MaritalStatus != nil && !validation.ValidMaritalStatus(*input.MaritalStatus) {
		errs = append(errs, validation.FieldError{Field: "marital_status", Message: "Select a valid choice."})
	}
	if input.CurrentRegion != nil && !validation.ValidRegion(*input.CurrentRegion) {
		errs = append(errs, validation.FieldError{Field: "current_region", Message: "Select a valid choice."})
	}
	if input.PermanentRegion != nil && !validation.ValidRegion(*input.PermanentRegion) {
		errs = append(errs, validation.FieldError{Field: "permanent_region", Message: "Select a valid choice."})
	}
	if input.EmploymentStatus != nil && !validation.ValidEmploymentStatus(*input.EmploymentStatus) {
		errs = append(errs, validation.FieldError{Field: "employment_status", Message: "Select a valid choice."})
	}
	if len(errs) > 0 {
		return nil, errs
	}

	merged := *client
	if input.MiddleName != nil {
		merged.MiddleName = input.MiddleName
	}
	if input.MaritalStatus != nil {
		merged.MaritalStatus = input.MaritalStatus
	}
	if input.PhoneNumber != nil {
		merged.PhoneNumber = input.PhoneNumber
	}
	setString(&merged.CurrentStreet, input.CurrentStreet)
	setString(&merged.CurrentBarangay, input.CurrentBarangay)
	setString(&merged.CurrentCity, input.CurrentCity)
	setString(&merged.CurrentRegion, input.CurrentRegion)
	setString(&merged.PermanentStreet, input.PermanentStreet)
	setString(&merged.PermanentBarangay, input.PermanentBarangay)
	setString(&merged.PermanentCity, input.PermanentCity)
	setString(&merged.PermanentRegion, input.PermanentRegion)
	if input.EmploymentStatus != nil {
		merged.EmploymentStatus = *input.EmploymentStatus
	}
	if input.EmployerName != nil {
		merged.EmployerName = input.EmployerName
	}
	if input.JobTitle != nil {
		merged.JobTitle = input.JobTitle
	}
	if input.MonthlyIncome != nil {
		merged.MonthlyIncome = input.MonthlyIncome
	}
	if input.SourceOfIncome != nil {
		merged.SourceOfIncome = input.SourceOfIncome
	}
	setString(&merged.BankName, input.BankName)
	setString(&merged.BankAccountNumber, input.BankAccountNumber)
	setString(&merged.BankAccountName, input.BankAccountName)

	if errs := validation.CheckClientRecord(&merged); len(errs) > 0 {
		return nil, errs
	}
	validation.NormalizeClientEmployment(&merged)

	if err := s.clientRepo.Update(ctx, &merged); err != nil {
		return nil, err
	}
	return &merged, nil
}

// CompanyProfileUpdateInput is a partial company-profile update; nil fields
// are left unchanged.
type CompanyProfileUpdateInput struct {
	BusinessStreet   *string `json:"business_street"`
	BusinessBarangay *string `json:"business_barangay"`
	BusinessCity     *string `json:"business_city"`
	BusinessRegion   *string `json:"business_region"`

	ContactPersonName  *string `json:"contact_person_name"`
	ContactPersonEmail *string `json:"contact_person_email"`
	ContactPersonPhone *string `json:"contact_person_phone"`
	CompanyPhone       *string `json:"company_phone"`

	BusinessType  *string `json:"business_type"`
	LicenseNumber *string `json:"license_number"`

	LoanProducts        []string `json:"loan_products"`
	MinimumInterestRate *float64 `json:"minimum_interest_rate"`
	MaximumInterestRate *float64 `json:"maximum_interest_rate"`
	ProcessingFee       *float64 `json:"processing_fee"`
	LatePaymentFee      *float64 `json:"late_payment_fee"`
	LendingPolicy       *string  `json:"lending_policy"`

	MinimumLoanAmount     *float64 `json:"minimum_loan_amount"`
	MaximumLoanAmount     *float64 `json:"maximum_loan_amount"`
	LoanTermMinimumMonths *int     `json:"loan_term_minimum_months"`
	LoanTermMaximumMonths *int     `json:"loan_term_maximum_months"`

	BankName          *string `json:"bank_name"`
	BankBranch        *string `json:"bank_branch"`
	BankAccountNumber *string `json:"bank_account_number"`
	BankAccountName   *string `json:"bank_account_name"`
}

// UpdateCompanyProfile updates a company profile scoped to its owner or an
// admin. The merged record must satisfy the registration-time bounds.
func (s *UserService) UpdateCompanyProfile(ctx context.Context, req Requester, userID uint, input *CompanyProfileUpdateInput) (*models.Company, error) {
	if !req.canSee(userID) {
		return nil, domain.ErrForbidden
	}

	company, err := s.companyRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProfileMissing
		}
		return nil, err
	}

	var errs validation.FieldErrors

	if input.BusinessRegion != nil && !validation.ValidRegion(*input.BusinessRegion) {
		errs = append(errs, validation.FieldError{Field: "business_region", Message: "Select a valid choice."})
	}
	if input.LoanProducts != nil {
		if len(input.LoanProducts) == 0 {
			errs = append(errs, validation.FieldError{Field: "loan_products", Message: "This list may not be empty."})
		}
		for _, code := range input.LoanProducts {
			if !validation.ValidLoanProduct(code) {
				errs = append(errs, validation.FieldError{Field: "loan_products", Message: "Select a valid choice."})
				break
			}
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}

	merged := *company
	setString(&merged.BusinessStreet, input.BusinessStreet)
	setString(&merged.BusinessBarangay, input.BusinessBarangay)
	setString(&merged.BusinessCity, input.BusinessCity)
	setString(&merged.BusinessRegion, input.BusinessRegion)
	setString(&merged.ContactPersonName, input.ContactPersonName)
	setString(&merged.ContactPersonPhone, input.ContactPersonPhone)
	setString(&merged.CompanyPhone, input.CompanyPhone)
	setString(&merged.BusinessType, input.BusinessType)
	setString(&merged.LicenseNumber, input.LicenseNumber)
	setString(&merged.LendingPolicy, input.LendingPolicy)
	setString(&merged.BankName, input.BankName)
	setString(&merged.BankAccountNumber, input.BankAccountNumber)
	setString(&merged.BankAccountName, input.BankAccountName)
	if input.ContactPersonEmail != nil {
		merged.ContactPersonEmail = validation.NormalizeEmail(*input.ContactPersonEmail)
	}
	if input.LoanProducts != nil {
		merged.LoanProducts = input.LoanProducts
	}
	if input.MinimumInterestRate != nil {
		merged.MinimumInterestRate = *input.MinimumInterestRate
	}
	if input.MaximumInterestRate != nil {
		merged.MaximumInterestRate = *input.MaximumInterestRate
	}
	if input.ProcessingFee != nil {
		merged.ProcessingFee = *input.ProcessingFee
	}
	if input.LatePaymentFee != nil {
		merged.LatePaymentFee = *input.LatePaymentFee
	}
	if input.MinimumLoanAmount != nil {
		merged.MinimumLoanAmount = input.MinimumLoanAmount
	}
	if input.MaximumLoanAmount != nil {
		merged.MaximumLoanAmount = input.MaximumLoanAmount
	}
	if input.LoanTermMinimumMonths != nil {
		merged.LoanTermMinimumMonths = input.LoanTermMinimumMonths
	}
	if input.LoanTermMaximumMonths != nil {
		merged.LoanTermMaximumMonths = input.LoanTermMaximumMonths
	}
	if input.BankBranch != nil {
		merged.BankBranch = input.BankBranch
	}

	if errs := validation.CheckCompanyRecord(&merged); len(errs) > 0 {
		return nil, errs
	}

	if err := s.companyRepo.Update(ctx, &merged); err != nil {
		return nil, err
	}
	return &merged, nil
}

// setString overwrites dst when src is set.
func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
