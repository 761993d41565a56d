package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/community/backend/internal/domain/fundraising"
	"github.com/community/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormDonorRepository implements DonorRepository using GORM
type GormDonorRepository struct {
	crudRepository[fundraising.Donor, *fundraising.Donor]
}

// NewGormDonorRepository creates a new GormDonorRepository
func NewGormDonorRepository(db *gorm.DB) *GormDonorRepository {
	return &GormDonorRepository{newCrudRepository[fundraising.Donor, *fundraising.Donor](db)}
}

// GormCampaignRepository implements CampaignRepository using GORM
type GormCampaignRepository struct {
	crudRepository[fundraising.Campaign, *fundraising.Campaign]
}

// NewGormCampaignRepository creates a new GormCampaignRepository
func NewGormCampaignRepository(db *gorm.DB) *GormCampaignRepository {
	return &GormCampaignRepository{newCrudRepository[fundraising.Campaign, *fundraising.Campaign](db)}
}

// GormDonationRepository implements DonationRepository using GORM
type GormDonationRepository struct {
	crudRepository[fundraising.Donation, *fundraising.Donation]
}

// NewGormDonationRepository creates a new GormDonationRepository
func NewGormDonationRepository(db *gorm.DB) *GormDonationRepository {
	return &GormDonationRepository{newCrudRepository[fundraising.Donation, *fundraising.Donation](db)}
}

// detailsQuery joins each donation with the names of its donor, campaign and company
func (r *GormDonationRepository) detailsQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("donations AS d").
		Select("d.*, dn.name AS donor_name, cp.name AS campaign_name, co.name AS company_name").
		Joins("JOIN donors AS dn ON dn.id = d.donor_id").
		Joins("JOIN campaigns AS cp ON cp.id = d.campaign_id").
		Joins("JOIN companies AS co ON co.id = d.company_id")
}

// FindAllDetails returns every donation with the referenced names
func (r *GormDonationRepository) FindAllDetails(ctx context.Context) ([]fundraising.DonationDetails, error) {
	items := make([]fundraising.DonationDetails, 0)
	if err := r.detailsQuery(ctx).Order("d.id ASC").Scan(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// FindDetailsByID returns one donation with the referenced names
func (r *GormDonationRepository) FindDetailsByID(ctx context.Context, id int64) (*fundraising.DonationDetails, error) {
	var item fundraising.DonationDetails
	result := r.detailsQuery(ctx).Where("d.id = ?", id).Limit(1).Scan(&item)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, shared.ErrNotFound
	}
	return &item, nil
}

// FindDetailsBy returns the donations referencing a donor, campaign or company
func (r *GormDonationRepository) FindDetailsBy(ctx context.Context, column string, id int64) ([]fundraising.DonationDetails, error) {
	switch column {
	case fundraising.DonorColumn, fundraising.CampaignColumn, fundraising.CompanyColumn:
	default:
		return nil, errors.New("unsupported donation filter column: " + column)
	}

	items := make([]fundraising.DonationDetails, 0)
	if err := r.detailsQuery(ctx).Where(fmt.Sprintf("d.%s = ?", column), id).Order("d.id ASC").Scan(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Ensure interfaces are implemented
var (
	_ fundraising.DonorRepository    = (*GormDonorRepository)(nil)
	_ fundraising.CampaignRepository = (*GormCampaignRepository)(nil)
	_ fundraising.DonationRepository = (*GormDonationRepository)(nil)
)
