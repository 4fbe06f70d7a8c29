package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"datadash/ai"
	"datadash/domain/core"
	"datadash/domain/dataset"
	"datadash/internal"
	"datadash/internal/profiling"
	"datadash/internal/visualization"
	"datadash/models"
	"datadash/ports"

	"golang.org/x/sync/errgroup"
)

// DefaultPreviewRows bounds the rows sent to the dataset preview grid
const DefaultPreviewRows = 200

// NoNumericColumnsNotice replaces the heatmap when a table has no numeric columns
const NoNumericColumnsNotice = "No numerical columns available for correlation heatmap."

// TruncatedWarning is shown when an upload was cut at the row limit
const TruncatedWarning = "Only the first %d rows were loaded; the file has more rows than the configured limit."

// Preview is the leading slice of a table for display
type Preview struct {
	Columns   []string   `json:"columns"`
	Rows      [][]string `json:"rows"`
	Truncated bool       `json:"truncated"`
}

// CorrelationView is a correlation matrix with its heatmap
type CorrelationView struct {
	Matrix  *dataset.CorrelationMatrix `json:"matrix"`
	Heatmap *dataset.Figure            `json:"heatmap"`
}

// Overview is everything the dashboard shows right after an upload
type Overview struct {
	Source         string                 `json:"source"`
	Summary        *dataset.SummaryReport `json:"summary"`
	Classification dataset.Classification `json:"classification"`
	Preview        Preview                `json:"preview"`
	PlotKinds      []dataset.PlotKind     `json:"plot_kinds"`
	Correlation    *CorrelationView       `json:"correlation,omitempty"`
	Notice         string                 `json:"notice,omitempty"`

	// RowsTruncated is set when the upload held more rows than the loader's
	// limit; every figure then describes the loaded rows only.
	RowsTruncated bool   `json:"rows_truncated"`
	Warning       string `json:"warning,omitempty"`
}

// DashboardService sequences calls into the analysis core for one session
// at a time. It holds no per-session state of its own; the table lives in
// the TableStore.
type DashboardService struct {
	store       ports.TableStore
	reader      ports.TableReader
	selector    *visualization.Selector
	responder   *ai.QueryResponder
	questionLog ports.QuestionLogRepository
	previewRows int
}

// NewDashboardService creates the service. responder and questionLog may be
// nil, which disables question answering and the question log respectively.
func NewDashboardService(
	store ports.TableStore,
	reader ports.TableReader,
	selector *visualization.Selector,
	responder *ai.QueryResponder,
	questionLog ports.QuestionLogRepository,
) *DashboardService {
	return &DashboardService{
		store:       store,
		reader:      reader,
		selector:    selector,
		responder:   responder,
		questionLog: questionLog,
		previewRows: DefaultPreviewRows,
	}
}

// QuestionsEnabled reports whether a text generator is configured
func (s *DashboardService) QuestionsEnabled() bool {
	return s.responder != nil
}

// Upload parses r and replaces the session's table. A parse failure leaves
// the previous table in place.
func (s *DashboardService) Upload(ctx context.Context, sessionID core.SessionID, filename string, r io.Reader) (*Overview, error) {
	start := time.Now()

	table, err := s.reader.Read(r, filename)
	if err != nil {
		internal.DefaultLogger.Warn("[DashboardService] Upload %s rejected: %v", filename, err)
		return nil, err
	}

	overview, err := s.overview(ctx, table)
	if err != nil {
		return nil, err
	}

	if err := s.store.Put(ctx, sessionID, table); err != nil {
		return nil, fmt.Errorf("failed to store table: %w", err)
	}

	internal.DefaultLogger.Info("[DashboardService] Loaded %s (%d rows, %d columns) in %v",
		filename, table.RowCount(), table.ColumnCount(), time.Since(start))
	return overview, nil
}

// Overview recomputes the overview of the session's table
func (s *DashboardService) Overview(ctx context.Context, sessionID core.SessionID) (*Overview, error) {
	table, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.overview(ctx, table)
}

// overview fans out over the read-only table; every part is a pure
// function of it
func (s *DashboardService) overview(ctx context.Context, table *dataset.Table) (*Overview, error) {
	out := &Overview{
		Source:    table.Source,
		Preview:   s.preview(table),
		PlotKinds: dataset.PlotKinds,
	}
	if table.Truncated {
		out.RowsTruncated = true
		out.Warning = fmt.Sprintf(TruncatedWarning, table.RowCount())
	}

	eg, _ := errgroup.WithContext(ctx)

	eg.Go(func() error {
		report, err := profiling.Summarize(table)
		if err != nil {
			return fmt.Errorf("summary failed: %w", err)
		}
		out.Summary = report
		return nil
	})

	eg.Go(func() error {
		out.Classification = profiling.Classify(table)
		return nil
	})

	eg.Go(func() error {
		view, err := s.correlation(table)
		if core.IsInsufficientDataError(err) {
			out.Notice = NoNumericColumnsNotice
			return nil
		}
		if err != nil {
			return err
		}
		out.Correlation = view
		return nil
	})

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *DashboardService) preview(table *dataset.Table) Preview {
	return Preview{
		Columns:   table.ColumnNames(),
		Rows:      table.Head(s.previewRows),
		Truncated: table.RowCount() > s.previewRows,
	}
}

// Plot renders a chart of two numeric columns
func (s *DashboardService) Plot(ctx context.Context, sessionID core.SessionID, req dataset.PlotRequest) (*dataset.Figure, error) {
	table, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.selector.Plot(table, req)
}

// ValueCounts returns the frequency table of a categorical column
func (s *DashboardService) ValueCounts(ctx context.Context, sessionID core.SessionID, column string) (*dataset.ValueCounts, error) {
	table, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.selector.ValueCounts(table, column)
}

// Correlation computes the correlation matrix of every numeric column and
// its heatmap. Tables without numeric columns fail with
// core.ErrInsufficientData.
func (s *DashboardService) Correlation(ctx context.Context, sessionID core.SessionID) (*CorrelationView, error) {
	table, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.correlation(table)
}

func (s *DashboardService) correlation(table *dataset.Table) (*CorrelationView, error) {
	matrix, err := profiling.Correlate(table, profiling.Classify(table).Numeric)
	if err != nil {
		return nil, err
	}
	heatmap, err := s.selector.Heatmap(matrix)
	if err != nil {
		return nil, fmt.Errorf("failed to render heatmap: %w", err)
	}
	return &CorrelationView{Matrix: matrix, Heatmap: heatmap}, nil
}

// Ask answers a question about the session's table. The answer is recorded
// in the question log when one is configured; a logging failure does not
// fail the request.
func (s *DashboardService) Ask(ctx context.Context, sessionID core.SessionID, question string) (*ai.Answer, error) {
	if s.responder == nil {
		return nil, ErrQuestionsDisabled
	}

	table, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	answer, err := s.responder.Ask(ctx, table, question)
	if err != nil {
		return nil, err
	}

	if s.questionLog != nil {
		entry := &models.QuestionLog{
			SessionID:   sessionID.String(),
			Source:      table.Source,
			Question:    answer.Question,
			Answer:      answer.Text,
			Model:       answer.Model,
			PromptChars: answer.PromptChars,
		}
		if err := s.questionLog.Record(ctx, entry); err != nil {
			internal.DefaultLogger.Warn("[DashboardService] Failed to record question: %v", err)
		}
	}

	return answer, nil
}

// RecentQuestions lists the session's logged questions, newest first. It
// returns an empty list when the question log is disabled.
func (s *DashboardService) RecentQuestions(ctx context.Context, sessionID core.SessionID, limit int) ([]*models.QuestionLog, error) {
	if s.questionLog == nil {
		return []*models.QuestionLog{}, nil
	}
	return s.questionLog.ListBySession(ctx, sessionID, limit)
}

// Reset drops the session's table
func (s *DashboardService) Reset(ctx context.Context, sessionID core.SessionID) error {
	return s.store.Delete(ctx, sessionID)
}
