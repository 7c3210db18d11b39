package services

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/calculoss/career-pathway-explorer-sub000/internal/logger"
	"github.com/calculoss/career-pathway-explorer-sub000/internal/repos"
	"github.com/calculoss/career-pathway-explorer-sub000/internal/types"
)

//go:embed career_fields.yaml
var careerFieldsYAML []byte

const (
	labourCacheTTL     = 24 * time.Hour
	labourDBFreshness  = 7 * 24 * time.Hour
	labourFetchTimeout = 15 * time.Second
)

type seedField struct {
	Slug            string   `yaml:"slug"`
	Title           string   `yaml:"title"`
	Keywords        []string `yaml:"keywords"`
	MedianPay       float64  `yaml:"median_pay"`
	OutlookGrowth   float64  `yaml:"outlook_growth"`
	OpeningsPerYear int      `yaml:"openings_per_year"`
	EducationLevel  string   `yaml:"education_level"`
	Summary         string   `yaml:"summary"`
}

type seedCatalog struct {
	Fields []seedField `yaml:"fields"`
}

type LabourMarketService interface {
	// MatchFields maps free-text interests onto catalog slugs.
	MatchFields(interests []string) []string
	// Snapshot returns the freshest available data for a field: redis, then
	// a recent DB row, then the outlook API, then the embedded seed.
	Snapshot(ctx context.Context, slug string) (*types.CareerField, error)
	ListFields(ctx context.Context) ([]*types.CareerField, error)
}

type labourMarketService struct {
	db        *gorm.DB
	log       *logger.Logger
	fieldRepo repos.CareerFieldRepo
	rdb       *goredis.Client
	apiURL    string
	http      *http.Client
	catalog   []seedField
}

func NewLabourMarketService(db *gorm.DB, baseLog *logger.Logger, fieldRepo repos.CareerFieldRepo, rdb *goredis.Client, apiURL string) (LabourMarketService, error) {
	var catalog seedCatalog
	if err := yaml.Unmarshal(careerFieldsYAML, &catalog); err != nil {
		return nil, fmt.Errorf("parse career field catalog: %w", err)
	}
	return &labourMarketService{
		db:        db,
		log:       baseLog.With("service", "LabourMarketService"),
		fieldRepo: fieldRepo,
		rdb:       rdb,
		apiURL:    strings.TrimRight(apiURL, "/"),
		http:      &http.Client{Timeout: labourFetchTimeout},
		catalog:   catalog.Fields,
	}, nil
}

func (s *labourMarketService) MatchFields(interests []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, interest := range interests {
		interest = strings.ToLower(strings.TrimSpace(interest))
		if interest == "" {
			continue
		}
		for _, field := range s.catalog {
			if seen[field.Slug] {
				continue
			}
			for _, kw := range field.Keywords {
				if strings.Contains(interest, kw) || strings.Contains(kw, interest) {
					seen[field.Slug] = true
					out = append(out, field.Slug)
					break
				}
			}
		}
	}
	return out
}

func (s *labourMarketService) ListFields(ctx context.Context) ([]*types.CareerField, error) {
	rows, err := s.fieldRepo.GetAll(ctx, nil)
	if err != nil {
		return nil, err
	}
	if len(rows) > 0 {
		return rows, nil
	}
	out := make([]*types.CareerField, 0, len(s.catalog))
	for _, f := range s.catalog {
		out = append(out, s.fromSeed(f))
	}
	return out, nil
}

func (s *labourMarketService) Snapshot(ctx context.Context, slug string) (*types.CareerField, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, fmt.Errorf("field slug is required")
	}

	if cached := s.cacheGet(ctx, slug); cached != nil {
		return cached, nil
	}

	rows, err := s.fieldRepo.GetBySlugs(ctx, nil, []string{slug})
	if err == nil && len(rows) > 0 && time.Since(rows[0].FetchedAt) < labourDBFreshness {
		s.cacheSet(ctx, rows[0])
		return rows[0], nil
	}

	if fetched, fErr := s.fetchRemote(ctx, slug); fErr == nil {
		if uErr := s.fieldRepo.Upsert(ctx, nil, fetched); uErr != nil {
			s.log.Warn("Could not store labour market snapshot", "slug", slug, "error", uErr)
		}
		s.cacheSet(ctx, fetched)
		return fetched, nil
	} else {
		s.log.Warn("Labour market fetch failed, using fallback", "slug", slug, "error", fErr)
	}

	// stale DB row beats the seed, seed beats nothing
	if len(rows) > 0 {
		return rows[0], nil
	}
	for _, f := range s.catalog {
		if f.Slug == slug {
			return s.fromSeed(f), nil
		}
	}
	return nil, fmt.Errorf("unknown career field %q", slug)
}

func (s *labourMarketService) fromSeed(f seedField) *types.CareerField {
	return &types.CareerField{
		Slug:            f.Slug,
		Title:           f.Title,
		MedianPay:       f.MedianPay,
		OutlookGrowth:   f.OutlookGrowth,
		OpeningsPerYear: f.OpeningsPerYear,
		EducationLevel:  f.EducationLevel,
		Summary:         f.Summary,
		FetchedAt:       time.Time{},
	}
}

type outlookAPIField struct {
	Slug            string  `json:"slug"`
	Title           string  `json:"title"`
	MedianPay       float64 `json:"median_pay"`
	OutlookGrowth   float64 `json:"outlook_growth_pct"`
	OpeningsPerYear int     `json:"openings_per_year"`
	EducationLevel  string  `json:"education_level"`
	Summary         string  `json:"summary"`
}

func (s *labourMarketService) fetchRemote(ctx context.Context, slug string) (*types.CareerField, error) {
	if s.apiURL == "" {
		return nil, fmt.Errorf("no outlook API configured")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.apiURL+"/fields/"+slug, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := s.http.Do(req)
	if err != nil {
		return nil, err
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return nil, readErr
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("outlook api http %d", resp.StatusCode)
	}
	var payload outlookAPIField
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("outlook api decode: %w", err)
	}
	if payload.Title == "" {
		return nil, fmt.Errorf("outlook api returned no data for %q", slug)
	}
	return &types.CareerField{
		Slug:            slug,
		Title:           payload.Title,
		MedianPay:       payload.MedianPay,
		OutlookGrowth:   payload.OutlookGrowth,
		OpeningsPerYear: payload.OpeningsPerYear,
		EducationLevel:  payload.EducationLevel,
		Summary:         payload.Summary,
		FetchedAt:       time.Now(),
	}, nil
}

func labourCacheKey(slug string) string {
	return "career_field:" + slug
}

func (s *labourMarketService) cacheGet(ctx context.Context, slug string) *types.CareerField {
	if s.rdb == nil {
		return nil
	}
	raw, err := s.rdb.Get(ctx, labourCacheKey(slug)).Bytes()
	if err != nil {
		return nil
	}
	var field types.CareerField
	if err := json.Unmarshal(raw, &field); err != nil {
		return nil
	}
	return &field
}

func (s *labourMarketService) cacheSet(ctx context.Context, field *types.CareerField) {
	if s.rdb == nil || field == nil {
		return
	}
	raw, err := json.Marshal(field)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, labourCacheKey(field.Slug), raw, labourCacheTTL).Err(); err != nil {
		s.log.Debug("Redis set failed", "slug", field.Slug, "error", err)
	}
}
