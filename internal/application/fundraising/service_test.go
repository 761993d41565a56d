package fundraising

import (
	"context"
	"testing"
	"time"

	"github.com/community/backend/internal/domain/fundraising"
	"github.com/community/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCrud[T any] struct {
	mock.Mock
}

func (m *MockCrud[T]) FindAll(ctx context.Context) ([]T, error) {
	args := m.Called(ctx)
	return args.Get(0).([]T), args.Error(1)
}

func (m *MockCrud[T]) FindByID(ctx context.Context, id int64) (*T, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *MockCrud[T]) ExistsByID(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockCrud[T]) Create(ctx context.Context, entity *T) error {
	return m.Called(ctx, entity).Error(0)
}

func (m *MockCrud[T]) Update(ctx context.Context, entity *T) error {
	return m.Called(ctx, entity).Error(0)
}

func (m *MockCrud[T]) DeleteByID(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type MockDonationRepository struct {
	MockCrud[fundraising.Donation]
}

func (m *MockDonationRepository) FindAllDetails(ctx context.Context) ([]fundraising.DonationDetails, error) {
	args := m.Called(ctx)
	return args.Get(0).([]fundraising.DonationDetails), args.Error(1)
}

func (m *MockDonationRepository) FindDetailsByID(ctx context.Context, id int64) (*fundraising.DonationDetails, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fundraising.DonationDetails), args.Error(1)
}

func (m *MockDonationRepository) FindDetailsBy(ctx context.Context, column string, id int64) ([]fundraising.DonationDetails, error) {
	args := m.Called(ctx, column, id)
	return args.Get(0).([]fundraising.DonationDetails), args.Error(1)
}

type donationFixture struct {
	donations *MockDonationRepository
	donors    *MockCrud[fundraising.Donor]
	campaigns *MockCrud[fundraising.Campaign]
	companies *MockCrud[struct{}]
	svc       *DonationService
}

func newDonationFixture() *donationFixture {
	f := &donationFixture{
		donations: new(MockDonationRepository),
		donors:    new(MockCrud[fundraising.Donor]),
		campaigns: new(MockCrud[fundraising.Campaign]),
		companies: new(MockCrud[struct{}]),
	}
	f.svc = NewDonationService(f.donations, f.donors, f.campaigns, f.companies)
	return f
}

func validDonationRequest() DonationRequest {
	return DonationRequest{
		DonationAmount: decimal.RequireFromString("25.00"),
		DonationDate:   time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC),
		DonorID:        1,
		CampaignID:     2,
		CompanyID:      3,
	}
}

func TestDonationService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the stored donation with names", func(t *testing.T) {
		f := newDonationFixture()
		f.donors.On("ExistsByID", ctx, int64(1)).Return(true, nil)
		f.campaigns.On("ExistsByID", ctx, int64(2)).Return(true, nil)
		f.companies.On("ExistsByID", ctx, int64(3)).Return(true, nil)
		f.donations.On("Create", ctx, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
			args.Get(1).(*fundraising.Donation).ID = 12
		})

		stored := &fundraising.DonationDetails{DonorName: "Ada", CampaignName: "Coats", CompanyName: "Acme"}
		stored.ID = 12
		stored.Version = 1
		stored.DonationAmount = decimal.RequireFromString("25.00")
		f.donations.On("FindDetailsByID", ctx, int64(12)).Return(stored, nil)

		resp, err := f.svc.Create(ctx, validDonationRequest())
		require.NoError(t, err)
		assert.Equal(t, int64(12), resp.ID)
		assert.Equal(t, "Ada", resp.DonorName)
		assert.Equal(t, "Coats", resp.CampaignName)
		assert.Equal(t, "Acme", resp.CompanyName)
	})

	t.Run("missing donor is a donorId field error", func(t *testing.T) {
		f := newDonationFixture()
		f.donors.On("ExistsByID", ctx, int64(1)).Return(false, nil)
		f.campaigns.On("ExistsByID", ctx, int64(2)).Return(true, nil)
		f.companies.On("ExistsByID", ctx, int64(3)).Return(true, nil)

		_, err := f.svc.Create(ctx, validDonationRequest())
		var verr *shared.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []shared.FieldError{{Field: "donorId", Message: "refers to a record that does not exist"}}, verr.Fields)
		f.donations.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("non-positive amount is rejected", func(t *testing.T) {
		f := newDonationFixture()
		req := validDonationRequest()
		req.DonationAmount = decimal.Zero

		_, err := f.svc.Create(ctx, req)
		var verr *shared.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "donationAmount", verr.Fields[0].Field)
	})
}

func TestDonationService_Lookups(t *testing.T) {
	ctx := context.Background()
	f := newDonationFixture()
	f.donations.On("FindDetailsBy", ctx, fundraising.DonorColumn, int64(1)).Return([]fundraising.DonationDetails{{DonorName: "Ada"}}, nil)
	f.donations.On("FindDetailsBy", ctx, fundraising.CampaignColumn, int64(2)).Return([]fundraising.DonationDetails{}, nil)
	f.donations.On("FindDetailsBy", ctx, fundraising.CompanyColumn, int64(3)).Return([]fundraising.DonationDetails{}, nil)

	byDonor, err := f.svc.ListByDonor(ctx, 1)
	require.NoError(t, err)
	require.Len(t, byDonor, 1)
	assert.Equal(t, "Ada", byDonor[0].DonorName)

	byCampaign, err := f.svc.ListByCampaign(ctx, 2)
	require.NoError(t, err)
	assert.NotNil(t, byCampaign)
	assert.Empty(t, byCampaign)

	byCompany, err := f.svc.ListByCompany(ctx, 3)
	require.NoError(t, err)
	assert.Empty(t, byCompany)
	f.donations.AssertExpectations(t)
}

func TestDonationService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the removed donation", func(t *testing.T) {
		f := newDonationFixture()
		details := &fundraising.DonationDetails{DonorName: "Ada"}
		details.ID = 5
		f.donations.On("FindDetailsByID", ctx, int64(5)).Return(details, nil)
		f.donations.On("DeleteByID", ctx, int64(5)).Return(nil)

		resp, err := f.svc.Delete(ctx, 5)
		require.NoError(t, err)
		assert.Equal(t, int64(5), resp.ID)
	})

	t.Run("second delete is not found", func(t *testing.T) {
		f := newDonationFixture()
		f.donations.On("FindDetailsByID", ctx, int64(5)).Return(nil, shared.ErrNotFound)

		_, err := f.svc.Delete(ctx, 5)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestCampaignService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("normalizes dates to UTC", func(t *testing.T) {
		repo := new(MockCrud[fundraising.Campaign])
		repo.On("Create", ctx, mock.Anything).Return(nil)

		start := time.Date(2024, 1, 1, 9, 0, 0, 0, time.FixedZone("EST", -5*3600))
		resp, err := NewCampaignService(repo).Create(ctx, CampaignRequest{Name: "Coats", StartDate: &start, Goal: decimal.NewFromInt(100)})
		require.NoError(t, err)
		require.NotNil(t, resp.StartDate)
		assert.Equal(t, time.UTC, resp.StartDate.Location())
		assert.True(t, start.Equal(*resp.StartDate))
		assert.Nil(t, resp.EndDate)
	})

	t.Run("end before start is rejected", func(t *testing.T) {
		repo := new(MockCrud[fundraising.Campaign])
		start := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(0, 0, -1)

		_, err := NewCampaignService(repo).Create(ctx, CampaignRequest{Name: "Coats", StartDate: &start, EndDate: &end})
		var verr *shared.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "endDate", verr.Fields[0].Field)
	})
}

func TestDonorService_Update_Conflict(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCrud[fundraising.Donor])
	repo.On("Update", ctx, mock.Anything).Return(shared.ErrConcurrencyConflict)
	repo.On("ExistsByID", ctx, int64(3)).Return(true, nil)

	err := NewDonorService(repo).Update(ctx, 3, DonorRequest{ID: 3, Name: "Ada", Version: 1})
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
}
