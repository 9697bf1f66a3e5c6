package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nao1215/shareholders/internal/age"
	"github.com/nao1215/shareholders/internal/model"
)

// DefaultCountry is the jurisdiction queried when none is configured.
const DefaultCountry = "NO"

// OwnerFetcher retrieves the registry payload for one company.
// *registry.Client implements it; tests substitute stubs.
type OwnerFetcher interface {
	FetchOwners(ctx context.Context, country, orgID string) (model.OwnerResponse, error)
}

// FetchStep requests the owner payload from the registry.
type FetchStep struct {
	fetcher OwnerFetcher
	country string
	logger  *slog.Logger
}

// NewFetchStep creates a fetch step querying country.
func NewFetchStep(fetcher OwnerFetcher, country string, logger *slog.Logger) *FetchStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &FetchStep{
		fetcher: fetcher,
		country: country,
		logger:  logger,
	}
}

// Name returns the step name.
func (s *FetchStep) Name() string {
	return "fetch_owners"
}

// Do executes the fetch step.
func (s *FetchStep) Do(ctx context.Context, company *model.Company) error {
	resp, err := s.fetcher.FetchOwners(ctx, s.country, company.OrgNumber.String())
	if err != nil {
		return fmt.Errorf("fetch owners for %s: %w", company.OrgNumber, err)
	}
	if resp == nil {
		return ErrNoResponse
	}
	company.Response = resp
	return nil
}

// ExtractStep normalizes each shareholder entry into an OwnershipRecord.
type ExtractStep struct {
	collection model.Field
	calculator *age.Calculator
	logger     *slog.Logger
}

// NewExtractStep creates an extract step reading entries from collection.
func NewExtractStep(collection model.Field, calculator *age.Calculator, logger *slog.Logger) *ExtractStep {
	if calculator == nil {
		calculator = age.New()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ExtractStep{
		collection: collection,
		calculator: calculator,
		logger:     logger,
	}
}

// Name returns the step name.
func (s *ExtractStep) Name() string {
	return "extract_shareholders"
}

// Do executes the extract step.
func (s *ExtractStep) Do(_ context.Context, company *model.Company) error {
	if company.Response == nil {
		return ErrNoResponse
	}

	entries, ok := company.Response.Entries(s.collection)
	if !ok {
		s.logger.Debug("shareholder collection missing",
			"org", company.OrgNumber,
			"collection", s.collection.Name,
			"keys", company.Response.Keys(),
		)
		return ErrNoShareholders
	}
	if len(entries) == 0 {
		return ErrEmptyShareholders
	}

	name := company.DisplayName()
	records := make([]model.OwnershipRecord, 0, len(entries))
	for _, entry := range entries {
		records = append(records, s.buildRecord(company.OrgNumber, name, entry))
	}
	company.Records = records
	return nil
}

// buildRecord maps one shareholder entry to a record through the field aliases.
func (s *ExtractStep) buildRecord(org model.OrgNumber, companyName string, entry map[string]any) model.OwnershipRecord {
	rec := model.OwnershipRecord{
		CompanyID:       org.String(),
		CompanyName:     companyName,
		ShareholderName: model.LookupString(entry, model.FieldName),
		EntityType:      model.LookupString(entry, model.FieldEntityType),
	}

	if v, ok := model.Lookup(entry, model.FieldBirthYear); ok {
		if year, ok := age.ParseYear(v); ok {
			rec.BirthYear = &year
		}
		if a, ok := s.calculator.Age(v); ok {
			rec.Age = &a
		}
	}

	rec.DirectOwnership = percentage(entry, model.FieldDirectOwnership)
	rec.IndirectOwnership = percentage(entry, model.FieldIndirectOwnership)
	rec.OwnershipPercentage = percentage(entry, model.FieldOwnershipPercentage)

	if v, ok := model.Lookup(entry, model.FieldCountry); ok {
		rec.Country = model.ValueString(v)
	}

	return rec
}

// percentage resolves field in entry as an optional percentage.
func percentage(entry map[string]any, field model.Field) *float64 {
	v, ok := model.Lookup(entry, field)
	if !ok {
		return nil
	}
	f, ok := model.ParsePercentage(v)
	if !ok {
		return nil
	}
	return &f
}

// defaultPipelineConfig holds configuration for DefaultPipeline.
type defaultPipelineConfig struct {
	country    string
	collection model.Field
	calculator *age.Calculator
	logger     *slog.Logger
}

// DefaultPipelineOption configures DefaultPipeline.
type DefaultPipelineOption func(*defaultPipelineConfig)

// WithCountry sets the country code sent to the registry.
func WithCountry(country string) DefaultPipelineOption {
	return func(c *defaultPipelineConfig) {
		c.country = country
	}
}

// WithCollection sets the payload key aliases holding the shareholder list.
func WithCollection(collection model.Field) DefaultPipelineOption {
	return func(c *defaultPipelineConfig) {
		c.collection = collection
	}
}

// WithCalculator sets the age calculator.
func WithCalculator(calculator *age.Calculator) DefaultPipelineOption {
	return func(c *defaultPipelineConfig) {
		c.calculator = calculator
	}
}

// WithPipelineLogger sets the logger shared by the pipeline and its steps.
func WithPipelineLogger(logger *slog.Logger) DefaultPipelineOption {
	return func(c *defaultPipelineConfig) {
		c.logger = logger
	}
}

// DefaultPipeline creates the fetch → extract pipeline.
func DefaultPipeline(fetcher OwnerFetcher, opts ...DefaultPipelineOption) *Pipeline {
	cfg := &defaultPipelineConfig{
		country:    DefaultCountry,
		collection: model.CollectionShareholders,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	if cfg.calculator == nil {
		cfg.calculator = age.New()
	}

	p := New(WithLogger(cfg.logger))
	p.AddSteps(
		NewFetchStep(fetcher, cfg.country, cfg.logger),
		NewExtractStep(cfg.collection, cfg.calculator, cfg.logger),
	)
	return p
}
