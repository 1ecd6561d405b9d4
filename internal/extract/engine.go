package extract

import (
	"fmt"
	"runtime"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"insights/internal/logger"
	"insights/pkg/models"
)

// Input is everything the engine needs for one document. Summary and
// DocumentType come from collaborators and are passed through unchanged.
type Input struct {
	Text         string
	Summary      string
	DocumentType *models.DocumentType
	FileMetadata models.FileMetadata
}

// Engine runs the rule set over a document and assembles the result. An
// Engine is immutable after construction and safe for concurrent use.
type Engine struct {
	vocab      *Vocabulary
	classifier *Classifier
	rules      []Rule
	workers    int
	log        zerolog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithVocabulary replaces the built-in keyword tables.
func WithVocabulary(v *Vocabulary) Option {
	return func(e *Engine) {
		if v != nil {
			e.vocab = v
		}
	}
}

// WithRules appends extra rules after the built-in set. Their matches follow
// the Groups conventions of the family they report.
func WithRules(rules ...Rule) Option {
	return func(e *Engine) {
		e.rules = append(e.rules, rules...)
	}
}

// WithWorkers bounds how many rules run at once. One runs them sequentially.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithLogger sets the logger used for rule failures.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) {
		e.log = l
	}
}

// NewEngine compiles the vocabulary into the built-in rule set.
func NewEngine(opts ...Option) (*Engine, error) {
	const op = "NewEngine"

	e := &Engine{
		vocab:   DefaultVocabulary(),
		workers: runtime.NumCPU(),
		log:     logger.WithComponent("extract"),
	}
	for _, opt := range opts {
		opt(e)
	}
	extra := e.rules
	e.rules = nil

	classifier, err := NewClassifier(e.vocab)
	if err != nil {
		return nil, err
	}
	e.classifier = classifier

	builtins := []func() (Rule, error){
		func() (Rule, error) { return newDimensionRule(), nil },
		func() (Rule, error) { return newFormatRule(e.vocab) },
		func() (Rule, error) { return newFileSizeRule(), nil },
		func() (Rule, error) { return newColorRule(e.vocab) },
		func() (Rule, error) { return newFontRule(e.vocab) },
		func() (Rule, error) { return newToneRule(e.vocab) },
		func() (Rule, error) { return newKPIRule(e.vocab) },
		func() (Rule, error) { return newDeadlineRule(e.vocab) },
		func() (Rule, error) { return newActionRule(e.vocab, classifier) },
		func() (Rule, error) { return newWarningRule(e.vocab, classifier) },
		func() (Rule, error) { return newCreativeRule(e.vocab, classifier) },
	}
	for _, build := range builtins {
		rule, err := build()
		if err != nil {
			return nil, WrapConfigError(op, err, "compile rules")
		}
		e.rules = append(e.rules, rule)
	}
	e.rules = append(e.rules, extra...)

	e.log.Debug().
		Str("vocabulary", e.vocab.Version).
		Int("rules", len(e.rules)).
		Int("workers", e.workers).
		Msg("Extraction engine ready")

	return e, nil
}

// Rules returns the rule set in execution order.
func (e *Engine) Rules() []Rule {
	return append([]Rule(nil), e.rules...)
}

// Classifier returns the priority and severity classifier.
func (e *Engine) Classifier() *Classifier {
	return e.classifier
}

// Vocabulary returns the tables the engine was built from.
func (e *Engine) Vocabulary() *Vocabulary {
	return e.vocab
}

// Extract runs every rule once over in.Text and assembles the result.
// It never fails: a failing rule leaves its category empty.
func (e *Engine) Extract(in Input) *models.InsightsResult {
	result, _ := e.ExtractWithDiagnostics(in)
	return result
}

// ExtractWithDiagnostics is Extract plus the rule failures that were
// recovered during the run, as *RuleError values.
func (e *Engine) ExtractWithDiagnostics(in Input) (*models.InsightsResult, []error) {
	result := emptyResult(in)
	if strings.TrimSpace(in.Text) == "" {
		return result, nil
	}

	doc := Normalize(in.Text)
	if result.FileMetadata.TextLength == 0 {
		result.FileMetadata.TextLength = utf8.RuneCountInString(in.Text)
	}
	if result.FileMetadata.WordCount == 0 {
		result.FileMetadata.WordCount = doc.WordCount()
	}

	matches, failures := e.run(doc)

	failed := make(map[Family]bool)
	var errs []error
	for i, err := range failures {
		if err == nil {
			continue
		}
		rule := e.rules[i]
		failed[rule.Family()] = true
		errs = append(errs, err)
		e.log.Error().
			Err(err).
			Str("rule", rule.ID()).
			Str("family", string(rule.Family())).
			Msg("Extraction rule failed, emitting empty category")
	}

	// Group by family in rule order, then by position, so the outcome does
	// not depend on which goroutine finished first.
	byFamily := make(map[Family][]canonicalMatch)
	for i, rule := range e.rules {
		if failed[rule.Family()] {
			continue
		}
		for _, m := range matches[i] {
			byFamily[rule.Family()] = append(byFamily[rule.Family()], canonicalMatch{RawMatch: m, value: canonical(rule, m)})
		}
	}
	for family := range byFamily {
		sort.SliceStable(byFamily[family], func(a, b int) bool {
			return byFamily[family][a].Start < byFamily[family][b].Start
		})
	}

	e.assemble(result, byFamily)
	return result, errs
}

type canonicalMatch struct {
	RawMatch
	value string
}

func canonical(rule Rule, m RawMatch) string {
	if c, ok := rule.(Canonicalizer); ok {
		return c.Canonical(m)
	}
	return m.Text
}

// run fans the rules out over at most e.workers goroutines. Results are
// stored by rule index.
func (e *Engine) run(doc *Document) ([][]RawMatch, []error) {
	matches := make([][]RawMatch, len(e.rules))
	failures := make([]error, len(e.rules))

	var g errgroup.Group
	g.SetLimit(e.workers)
	for i, rule := range e.rules {
		g.Go(func() error {
			matches[i], failures[i] = runRule(rule, doc)
			return nil
		})
	}
	_ = g.Wait()

	return matches, failures
}

func runRule(rule Rule, doc *Document) (matches []RawMatch, err error) {
	defer func() {
		if r := recover(); r != nil {
			matches = nil
			err = NewRuleError(rule.ID(), rule.Family(), fmt.Errorf("%w: panic: %v", ErrRuleFailed, r))
		}
	}()
	return rule.Find(doc), nil
}

func emptyResult(in Input) *models.InsightsResult {
	docType := models.UnknownDocumentType()
	if in.DocumentType != nil && in.DocumentType.Type != "" {
		docType = *in.DocumentType
		docType.Confidence = min(max(docType.Confidence, 0), 1)
	}
	return &models.InsightsResult{
		Summary:      in.Summary,
		DocumentType: docType,
		CreativeRequirements: models.CreativeRequirements{
			MustHave: []string{},
			Optional: []string{},
		},
		TechnicalSpecs: models.TechnicalSpecs{
			Dimensions: []string{},
			Formats:    []string{},
			FileSizes:  []string{},
		},
		BrandGuidelines: models.BrandGuidelines{
			Colors: []string{},
			Fonts:  []string{},
			Tone:   []string{},
		},
		KPIs:         models.KPIs{},
		Deadlines:    []models.Deadline{},
		ActionItems:  []models.ActionItem{},
		Warnings:     []models.Warning{},
		FileMetadata: in.FileMetadata,
	}
}
