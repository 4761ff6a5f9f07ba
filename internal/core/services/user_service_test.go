package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lendease/internal/adapters/persistence/models"
	"lendease/internal/adapters/persistence/repositories"
	"lendease/internal/core/domain"
	"lendease/internal/core/validation"
)

func strPtr(s string) *string { return &s }

// newTestUserService seeds an admin with a company profile and a borrower
// with a client profile, and returns the service plus both requesters.
func newTestUserService(t *testing.T) (*UserService, *memStore, Requester, Requester) {
	t.Helper()
	store := newMemStore()
	repos := store.repos()
	svc := NewUserService(repos.Users, repos.Clients, repos.Companies)
	ctx := context.Background()

	admin := &models.User{
		Email: "admin@fastcash.ph", Username: "fastadmin",
		Kind: domain.KindLendingCompany, Role: domain.RoleAdmin, IsActive: true,
	}
	require.NoError(t, repos.Users.Create(ctx, admin))
	require.NoError(t, repos.Companies.Create(ctx, &models.Company{
		UserID:                  admin.ID,
		CompanyName:             "FastCash Lending Corp",
		SECRegistrationNumber:   "CS201912345",
		TaxIdentificationNumber: "123-456-789-000",
		MinimumInterestRate:     2.5,
		MaximumInterestRate:     8.0,
	}))

	income := 45000.0
	borrower := &models.User{
		Email: "juan@example.com", Username: "juandc",
		Kind: domain.KindBorrower, Role: domain.RoleBorrower, IsActive: true,
	}
	require.NoError(t, repos.Users.Create(ctx, borrower))
	require.NoError(t, repos.Clients.Create(ctx, &models.Client{
		UserID:           borrower.ID,
		Gender:           "male",
		EmploymentStatus: "employed",
		EmployerName:     strPtr("Acme Corp"),
		JobTitle:         strPtr("Analyst"),
		MonthlyIncome:    &income,
		CurrentRegion:    "ncr",
		PermanentRegion:  "ncr",
	}))

	adminReq := Requester{ID: admin.ID, Kind: admin.Kind, Role: admin.Role}
	borrowerReq := Requester{ID: borrower.ID, Kind: borrower.Kind, Role: borrower.Role}
	return svc, store, adminReq, borrowerReq
}

func TestListUsers_BorrowerSeesOnlySelf(t *testing.T) {
	svc, _, _, borrowerReq := newTestUserService(t)

	users, total, err := svc.ListUsers(context.Background(), borrowerReq, 0, 20)
	require.NoError(t, err)

	assert.Equal(t, int64(1), total)
	require.Len(t, users, 1)
	assert.Equal(t, borrowerReq.ID, users[0].ID)
}

func TestListUsers_AdminSeesAll(t *testing.T) {
	svc, _, adminReq, _ := newTestUserService(t)

	users, total, err := svc.ListUsers(context.Background(), adminReq, 0, 20)
	require.NoError(t, err)

	assert.Equal(t, int64(2), total)
	assert.Len(t, users, 2)
}

func TestGetUser_VisibilityRule(t *testing.T) {
	svc, _, adminReq, borrowerReq := newTestUserService(t)
	ctx := context.Background()

	_, err := svc.GetUser(ctx, borrowerReq, adminReq.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	own, err := svc.GetUser(ctx, borrowerReq, borrowerReq.ID)
	require.NoError(t, err)
	assert.Equal(t, borrowerReq.ID, own.ID)

	other, err := svc.GetUser(ctx, adminReq, borrowerReq.ID)
	require.NoError(t, err)
	assert.Equal(t, borrowerReq.ID, other.ID)
}

func TestGetProfile_MatchesKind(t *testing.T) {
	svc, _, adminReq, borrowerReq := newTestUserService(t)
	ctx := context.Background()

	profile, err := svc.GetProfile(ctx, borrowerReq.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.KindBorrower, profile.Kind)
	require.NotNil(t, profile.Client)
	assert.Nil(t, profile.Company)

	profile, err = svc.GetProfile(ctx, adminReq.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.KindLendingCompany, profile.Kind)
	require.NotNil(t, profile.Company)
	assert.Nil(t, profile.Client)
}

func TestGetProfile_MissingRow(t *testing.T) {
	svc, store, _, _ := newTestUserService(t)
	ctx := context.Background()

	orphan := &models.User{
		Email: "orphan@example.com", Username: "orphan",
		Kind: domain.KindBorrower, Role: domain.RoleBorrower, IsActive: true,
	}
	require.NoError(t, (&memUserRepo{store: store}).Create(ctx, orphan))

	_, err := svc.GetProfile(ctx, orphan.ID)
	assert.ErrorIs(t, err, domain.ErrProfileMissing)
}

func TestGetProfile_UnknownKind(t *testing.T) {
	svc, store, _, _ := newTestUserService(t)
	ctx := context.Background()

	stray := &models.User{
		Email: "stray@example.com", Username: "stray",
		Kind: domain.Kind("guarantor"), Role: domain.RoleBorrower, IsActive: true,
	}
	require.NoError(t, (&memUserRepo{store: store}).Create(ctx, stray))

	_, err := svc.GetProfile(ctx, stray.ID)
	assert.ErrorIs(t, err, domain.ErrProfileMissing)
}

func TestUpdateUser_FlagsAreAdminOnly(t *testing.T) {
	svc, _, _, borrowerReq := newTestUserService(t)

	active := false
	_, err := svc.UpdateUser(context.Background(), borrowerReq, borrowerReq.ID, &UpdateUserInput{
		IsActive: &active,
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestUpdateUser_AdminCannotChangeOwnRole(t *testing.T) {
	svc, _, adminReq, _ := newTestUserService(t)

	role := string(domain.RoleManager)
	_, err := svc.UpdateUser(context.Background(), adminReq, adminReq.ID, &UpdateUserInput{
		Role: &role,
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestUpdateUser_AdminChangesOtherRole(t *testing.T) {
	svc, _, adminReq, borrowerReq := newTestUserService(t)

	role := string(domain.RoleEmployee)
	updated, err := svc.UpdateUser(context.Background(), adminReq, borrowerReq.ID, &UpdateUserInput{
		Role: &role,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleEmployee, updated.Role)
}

func TestUpdateUser_EmailConflict(t *testing.T) {
	svc, _, _, borrowerReq := newTestUserService(t)

	taken := "admin@fastcash.ph"
	_, err := svc.UpdateUser(context.Background(), borrowerReq, borrowerReq.ID, &UpdateUserInput{
		Email: &taken,
	})

	var errs validation.FieldErrors
	require.ErrorAs(t, err, &errs)
	assert.True(t, errs.Has("email"))
}

// blindUserRepo reports every email as free, so the duplicate only surfaces
// from the write itself, like a conflicting update landing in between.
type blindUserRepo struct {
	repositories.UserRepository
}

func (r blindUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return false, nil
}

func TestUpdateUser_EmailConflictLostRace(t *testing.T) {
	svc, store, _, borrowerReq := newTestUserService(t)
	repos := store.repos()
	svc = NewUserService(blindUserRepo{repos.Users}, repos.Clients, repos.Companies)

	taken := "admin@fastcash.ph"
	_, err := svc.UpdateUser(context.Background(), borrowerReq, borrowerReq.ID, &UpdateUserInput{
		Email: &taken,
	})

	var errs validation.FieldErrors
	require.ErrorAs(t, err, &errs)
	assert.True(t, errs.Has("email"), "duplicate key from the write is re-attributed to email")
}

func TestDeleteUser_Rules(t *testing.T) {
	svc, store, adminReq, borrowerReq := newTestUserService(t)
	ctx := context.Background()

	assert.ErrorIs(t, svc.DeleteUser(ctx, borrowerReq, adminReq.ID), domain.ErrForbidden)
	assert.ErrorIs(t, svc.DeleteUser(ctx, adminReq, adminReq.ID), domain.ErrCannotDeleteSelf)

	require.NoError(t, svc.DeleteUser(ctx, adminReq, borrowerReq.ID))
	_, ok := store.users[borrowerReq.ID]
	assert.False(t, ok)
	_, ok = store.clients[borrowerReq.ID]
	assert.False(t, ok, "profile row cascades with its owner")
}

func TestUpdateClientProfile_ReappliesConditionalRules(t *testing.T) {
	svc, _, _, borrowerReq := newTestUserService(t)
	ctx := context.Background()

	// Switching to unemployed without a source of income must fail on the
	// merged record.
	status := "unemployed"
	_, err := svc.UpdateClientProfile(ctx, borrowerReq, borrowerReq.ID, &ClientProfileUpdateInput{
		EmploymentStatus: &status,
	})
	var errs validation.FieldErrors
	require.ErrorAs(t, err, &errs)
	assert.True(t, errs.Has("source_of_income"))

	// With a source of income the same switch succeeds, and the employed
	// fields are nulled.
	source := "pension"
	updated, err := svc.UpdateClientProfile(ctx, borrowerReq, borrowerReq.ID, &ClientProfileUpdateInput{
		EmploymentStatus: &status,
		SourceOfIncome:   &source,
	})
	require.NoError(t, err)
	assert.Nil(t, updated.EmployerName)
	assert.Nil(t, updated.JobTitle)
	assert.Nil(t, updated.MonthlyIncome)
	require.NotNil(t, updated.SourceOfIncome)
	assert.Equal(t, "pension", *updated.SourceOfIncome)
}

func TestUpdateClientProfile_RejectsBadEnum(t *testing.T) {
	svc, _, _, borrowerReq := newTestUserService(t)

	region := "region99"
	_, err := svc.UpdateClientProfile(context.Background(), borrowerReq, borrowerReq.ID, &ClientProfileUpdateInput{
		CurrentRegion: &region,
	})

	var errs validation.FieldErrors
	require.ErrorAs(t, err, &errs)
	assert.True(t, errs.Has("current_region"))
}

func TestUpdateCompanyProfile_BoundsOnMergedRecord(t *testing.T) {
	svc, _, adminReq, _ := newTestUserService(t)
	ctx := context.Background()

	// Lowering the maximum below the stored minimum must fail.
	badMax := 1.0
	_, err := svc.UpdateCompanyProfile(ctx, adminReq, adminReq.ID, &CompanyProfileUpdateInput{
		MaximumInterestRate: &badMax,
	})
	var errs validation.FieldErrors
	require.ErrorAs(t, err, &errs)
	assert.True(t, errs.Has("maximum_interest_rate"))

	newMax := 10.0
	updated, err := svc.UpdateCompanyProfile(ctx, adminReq, adminReq.ID, &CompanyProfileUpdateInput{
		MaximumInterestRate: &newMax,
	})
	require.NoError(t, err)
	assert.Equal(t, 10.0, updated.MaximumInterestRate)
}

func TestUpdateProfile_OwnerScoped(t *testing.T) {
	svc, _, _, borrowerReq := newTestUserService(t)

	phone := "+639170000000"
	_, err := svc.UpdateClientProfile(context.Background(), borrowerReq, borrowerReq.ID+100, &ClientProfileUpdateInput{
		PhoneNumber: &phone,
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
