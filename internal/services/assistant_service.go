package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	apierrors "cellsense/internal/errors"
	"cellsense/internal/infrastructure"
	"cellsense/pkg/contracts/domain"
)

// Answer sources.
const (
	SourceDataset = "dataset"
	SourceGeneral = "general"
)

// topic routes a question by substring. Order matters: the first topic
// with a matching keyword answers.
type topic struct {
	name     string
	keywords []string
	answer   func(a *domain.AnalysisResult) string
}

// AssistantService answers questions about an uploaded dataset with canned,
// keyword-routed responses built from its analysis.
type AssistantService struct {
	datasets *AnalysisService
	metrics  *infrastructure.BusinessMetrics
	logger   *slog.Logger
	topics   []topic
}

// NewAssistantService creates the assistant on top of the analysis service's store.
func NewAssistantService(datasets *AnalysisService, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *AssistantService {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = infrastructure.NoopBusinessMetrics()
	}
	return &AssistantService{
		datasets: datasets,
		metrics:  metrics,
		logger:   logger.With(slog.String("component", "assistant_service")),
		topics: []topic{
			{name: "category", keywords: []string{"categor"}, answer: answerCategories},
			{name: "income", keywords: []string{"income", "earn", "revenue"}, answer: answerIncome},
			{name: "expense", keywords: []string{"expense", "spend", "spent", "cost"}, answer: answerExpenses},
			{name: "balance", keywords: []string{"balance", "net", "save", "saving"}, answer: answerBalance},
			{name: "trend", keywords: []string{"trend", "month"}, answer: answerTrends},
			{name: "keyword", keywords: []string{"keyword", "investment", "loan"}, answer: answerKeywords},
		},
	}
}

// Ask answers question. When dataID is empty the answer is general guidance;
// an unknown dataID is a not-found error.
func (s *AssistantService) Ask(ctx context.Context, dataID, question string) (domain.Answer, error) {
	q := strings.TrimSpace(question)
	if q == "" {
		return domain.Answer{}, apierrors.NewAppValidationError("question must not be empty", ErrEmptyQuestion)
	}

	var analysis *domain.AnalysisResult
	if dataID != "" {
		ds, err := s.datasets.GetDataset(ctx, dataID)
		if err != nil {
			return domain.Answer{}, err
		}
		analysis = ds.Analysis
	}

	t := s.route(q)
	s.metrics.QuestionsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("topic", t.name)))
	s.logger.DebugContext(ctx, "question routed",
		slog.String("topic", t.name),
		slog.Bool("has_dataset", analysis != nil))

	if analysis == nil {
		return domain.Answer{
			Question: question,
			Answer:   "Upload a spreadsheet first and I can tell you about your income, spending, balance, categories and monthly trends.",
			Source:   SourceGeneral,
		}, nil
	}

	return domain.Answer{
		Question: question,
		Answer:   t.answer(analysis),
		Source:   SourceDataset,
	}, nil
}

func (s *AssistantService) route(question string) topic {
	lower := strings.ToLower(question)
	for _, t := range s.topics {
		for _, kw := range t.keywords {
			if strings.Contains(lower, kw) {
				return t
			}
		}
	}
	return topic{name: "overview", answer: answerOverview}
}

func money(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

func answerIncome(a *domain.AnalysisResult) string {
	return fmt.Sprintf("Your total income is %s.", money(a.FinancialSummary.TotalIncome))
}

func answerExpenses(a *domain.AnalysisResult) string {
	return fmt.Sprintf("Your total expenses are %s.", money(a.FinancialSummary.TotalExpenses))
}

func answerBalance(a *domain.AnalysisResult) string {
	net := a.FinancialSummary.NetBalance
	switch {
	case net > 0:
		return fmt.Sprintf("Your net balance is %s. You saved more than you spent.", money(net))
	case net < 0:
		return fmt.Sprintf("Your net balance is %s. You spent more than you earned.", money(net))
	default:
		return "Your net balance is 0.00. Income and expenses are even."
	}
}

func answerCategories(a *domain.AnalysisResult) string {
	if len(a.CategorizedExpenses) == 0 {
		return "I could not find a category column with amounts in your data."
	}
	top := make([]domain.CategoryAmount, len(a.CategorizedExpenses))
	copy(top, a.CategorizedExpenses)
	sort.SliceStable(top, func(i, j int) bool { return top[i].Amount > top[j].Amount })
	if len(top) > 3 {
		top = top[:3]
	}
	parts := make([]string, len(top))
	for i, c := range top {
		parts[i] = fmt.Sprintf("%s (%s)", c.Category, money(c.Amount))
	}
	return "Your top categories are " + strings.Join(parts, ", ") + "."
}

func answerTrends(a *domain.AnalysisResult) string {
	months := a.Trends.ByMonth
	if len(months) == 0 {
		return "I could not find a date column to build monthly trends."
	}
	first, last := months[0], months[len(months)-1]
	if len(months) == 1 {
		return fmt.Sprintf("Your data covers one month, %s, totalling %s.", first.Month, money(first.Value))
	}
	direction := "stayed flat"
	switch {
	case last.Value > first.Value:
		direction = "went up"
	case last.Value < first.Value:
		direction = "went down"
	}
	return fmt.Sprintf("Across %d months the total %s, from %s in %s to %s in %s.",
		len(months), direction, money(first.Value), first.Month, money(last.Value), last.Month)
}

func answerKeywords(a *domain.AnalysisResult) string {
	if len(a.DetectedKeywords) == 0 {
		return "I did not detect any financial keywords in your data."
	}
	return "I detected these financial keywords: " + strings.Join(a.DetectedKeywords, ", ") + "."
}

func answerOverview(a *domain.AnalysisResult) string {
	fs := a.FinancialSummary
	return fmt.Sprintf("Your data has %d rows across %d columns. Income %s, expenses %s, net balance %s.",
		a.TotalRows, len(a.Columns), money(fs.TotalIncome), money(fs.TotalExpenses), money(fs.NetBalance))
}
