// Package seed loads demonstration data from a YAML fixtures file and adds
// it through the application services, so every record passes the same
// validation and reference checks as an API write.
package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	appcontent "github.com/community/backend/internal/application/content"
	appemployment "github.com/community/backend/internal/application/employment"
	appfundraising "github.com/community/backend/internal/application/fundraising"
	"github.com/community/backend/internal/interfaces/http/handler"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Errors returned by the seed package.
var (
	// ErrInvalidFixtures is returned when a fixture is malformed.
	ErrInvalidFixtures = errors.New("seed: invalid fixtures")
	// ErrUnknownReference is returned when a fixture names a record the file does not define.
	ErrUnknownReference = errors.New("seed: unknown reference")
)

//go:embed default.yaml
var defaultFixtures []byte

// Fixtures is the root of a fixtures file. References between records use
// the name (or title) of the referenced record rather than an id.
type Fixtures struct {
	Categories    []Category    `yaml:"categories"`
	Articles      []Article     `yaml:"articles"`
	Companies     []Company     `yaml:"companies"`
	JobCategories []JobCategory `yaml:"jobCategories"`
	Jobs          []Job         `yaml:"jobs"`
	Donors        []Donor       `yaml:"donors"`
	Campaigns     []Campaign    `yaml:"campaigns"`
	Donations     []Donation    `yaml:"donations"`
}

type Category struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
}

type Article struct {
	Title         string    `yaml:"title"`
	Content       string    `yaml:"content,omitempty"`
	PublishedDate time.Time `yaml:"publishedDate,omitempty"`
	// Category is the name of a category in the same file
	Category string `yaml:"category"`
}

type Company struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Website     string `yaml:"website,omitempty"`
}

type JobCategory struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
}

type Job struct {
	Title       string    `yaml:"title"`
	Description string    `yaml:"description,omitempty"`
	PostedDate  time.Time `yaml:"postedDate,omitempty"`
	Company     string    `yaml:"company"`
	JobCategory string    `yaml:"jobCategory"`
	// Article is the title of the article announcing the job
	Article string `yaml:"article"`
}

type Donor struct {
	Name  string `yaml:"name"`
	Email string `yaml:"email,omitempty"`
	Phone string `yaml:"phone,omitempty"`
}

type Campaign struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description,omitempty"`
	StartDate   *time.Time `yaml:"startDate,omitempty"`
	EndDate     *time.Time `yaml:"endDate,omitempty"`
	// Goal is a decimal string such as "5000.00"
	Goal string `yaml:"goal,omitempty"`
}

type Donation struct {
	Amount   string    `yaml:"amount"`
	Date     time.Time `yaml:"date,omitempty"`
	Donor    string    `yaml:"donor"`
	Campaign string    `yaml:"campaign"`
	Company  string    `yaml:"company"`
}

// Summary counts the records added per entity
type Summary struct {
	Categories    int
	Articles      int
	Companies     int
	JobCategories int
	Jobs          int
	Donors        int
	Campaigns     int
	Donations     int
}

// Total is the number of records added
func (s Summary) Total() int {
	return s.Categories + s.Articles + s.Companies + s.JobCategories +
		s.Jobs + s.Donors + s.Campaigns + s.Donations
}

// Load decodes fixtures from r. Unknown keys are rejected.
func Load(r io.Reader) (*Fixtures, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var fx Fixtures
	if err := dec.Decode(&fx); err != nil {
		if errors.Is(err, io.EOF) {
			return &fx, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidFixtures, err)
	}
	return &fx, nil
}

// LoadFile decodes the fixtures file at path
func LoadFile(path string) (*Fixtures, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open fixtures: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Default returns the fixtures bundled with the binary
func Default() *Fixtures {
	var fx Fixtures
	if err := yaml.Unmarshal(defaultFixtures, &fx); err != nil {
		panic(fmt.Sprintf("seed: bundled fixtures are invalid: %v", err))
	}
	return &fx
}

// Apply adds every fixture through svc, parents first. It stops at the
// first failure; records added before it stay.
func Apply(ctx context.Context, svc handler.Services, fx *Fixtures) (Summary, error) {
	var sum Summary

	categories := make(map[string]int64, len(fx.Categories))
	for _, c := range fx.Categories {
		resp, err := svc.Categories.Create(ctx, appcontent.CategoryRequest{Name: c.Name, Description: c.Description})
		if err != nil {
			return sum, fmt.Errorf("category %q: %w", c.Name, err)
		}
		categories[c.Name] = resp.ID
		sum.Categories++
	}

	articles := make(map[string]int64, len(fx.Articles))
	for _, a := range fx.Articles {
		categoryID, err := resolve(categories, "category", a.Category)
		if err != nil {
			return sum, fmt.Errorf("article %q: %w", a.Title, err)
		}
		resp, err := svc.Articles.Create(ctx, appcontent.ArticleRequest{
			Title:         a.Title,
			Content:       a.Content,
			PublishedDate: a.PublishedDate,
			CategoryID:    categoryID,
		})
		if err != nil {
			return sum, fmt.Errorf("article %q: %w", a.Title, err)
		}
		articles[a.Title] = resp.ID
		sum.Articles++
	}

	companies := make(map[string]int64, len(fx.Companies))
	for _, c := range fx.Companies {
		resp, err := svc.Companies.Create(ctx, appemployment.CompanyRequest{
			Name:        c.Name,
			Description: c.Description,
			Website:     c.Website,
		})
		if err != nil {
			return sum, fmt.Errorf("company %q: %w", c.Name, err)
		}
		companies[c.Name] = resp.ID
		sum.Companies++
	}

	jobCategories := make(map[string]int64, len(fx.JobCategories))
	for _, jc := range fx.JobCategories {
		resp, err := svc.JobCategories.Create(ctx, appemployment.JobCategoryRequest{Name: jc.Name, Description: jc.Description})
		if err != nil {
			return sum, fmt.Errorf("job category %q: %w", jc.Name, err)
		}
		jobCategories[jc.Name] = resp.ID
		sum.JobCategories++
	}

	for _, j := range fx.Jobs {
		req := appemployment.JobRequest{Title: j.Title, Description: j.Description, PostedDate: j.PostedDate}
		var err error
		if req.CompanyID, err = resolve(companies, "company", j.Company); err != nil {
			return sum, fmt.Errorf("job %q: %w", j.Title, err)
		}
		if req.JobCategoryID, err = resolve(jobCategories, "job category", j.JobCategory); err != nil {
			return sum, fmt.Errorf("job %q: %w", j.Title, err)
		}
		if req.ArticleID, err = resolve(articles, "article", j.Article); err != nil {
			return sum, fmt.Errorf("job %q: %w", j.Title, err)
		}
		if _, err := svc.Jobs.Create(ctx, req); err != nil {
			return sum, fmt.Errorf("job %q: %w", j.Title, err)
		}
		sum.Jobs++
	}

	donors := make(map[string]int64, len(fx.Donors))
	for _, d := range fx.Donors {
		resp, err := svc.Donors.Create(ctx, appfundraising.DonorRequest{Name: d.Name, Email: d.Email, Phone: d.Phone})
		if err != nil {
			return sum, fmt.Errorf("donor %q: %w", d.Name, err)
		}
		donors[d.Name] = resp.ID
		sum.Donors++
	}

	campaigns := make(map[string]int64, len(fx.Campaigns))
	for _, c := range fx.Campaigns {
		goal, err := parseAmount(c.Goal)
		if err != nil {
			return sum, fmt.Errorf("campaign %q goal: %w", c.Name, err)
		}
		resp, err := svc.Campaigns.Create(ctx, appfundraising.CampaignRequest{
			Name:        c.Name,
			Description: c.Description,
			StartDate:   c.StartDate,
			EndDate:     c.EndDate,
			Goal:        goal,
		})
		if err != nil {
			return sum, fmt.Errorf("campaign %q: %w", c.Name, err)
		}
		campaigns[c.Name] = resp.ID
		sum.Campaigns++
	}

	for i, d := range fx.Donations {
		amount, err := parseAmount(d.Amount)
		if err != nil {
			return sum, fmt.Errorf("donation %d amount: %w", i+1, err)
		}
		req := appfundraising.DonationRequest{DonationAmount: amount, DonationDate: d.Date}
		if req.DonorID, err = resolve(donors, "donor", d.Donor); err != nil {
			return sum, fmt.Errorf("donation %d: %w", i+1, err)
		}
		if req.CampaignID, err = resolve(campaigns, "campaign", d.Campaign); err != nil {
			return sum, fmt.Errorf("donation %d: %w", i+1, err)
		}
		if req.CompanyID, err = resolve(companies, "company", d.Company); err != nil {
			return sum, fmt.Errorf("donation %d: %w", i+1, err)
		}
		if _, err := svc.Donations.Create(ctx, req); err != nil {
			return sum, fmt.Errorf("donation %d: %w", i+1, err)
		}
		sum.Donations++
	}

	return sum, nil
}

func resolve(ids map[string]int64, kind, name string) (int64, error) {
	id, ok := ids[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s %q", ErrUnknownReference, kind, name)
	}
	return id, nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not a number", ErrInvalidFixtures, s)
	}
	return d, nil
}
