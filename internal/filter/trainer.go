package filter

import (
	"go.uber.org/zap"

	"github.com/varscope/evf/internal/duckdb"
	"github.com/varscope/evf/internal/features"
	"github.com/varscope/evf/internal/model"
	"github.com/varscope/evf/internal/train"
)

// DefaultJobs is the fallback worker count for training.
const DefaultJobs = 2

// TrainOptions configures one training run.
type TrainOptions struct {
	// TruePos and FalsePos are comma-separated VCF path lists of equal length.
	TruePos  string
	FalsePos string
	// Type selects the SNP or indel hyperparameter set.
	Type features.VariantType
	// Out is the model artifact path; empty means <TYPE>.filter.model.json.
	Out string
	// Jobs bounds both the pair worker pool and the classifier's internal
	// parallelism.
	Jobs int
	// TableOut optionally exports the labeled training table to a DuckDB
	// database for inspection.
	TableOut string
}

// Trainer runs the train workflow: build labeled tables, fit, persist.
type Trainer struct {
	logger *zap.Logger
}

// NewTrainer returns a Trainer with no-op logging.
func NewTrainer() *Trainer {
	return &Trainer{logger: zap.NewNop()}
}

// SetLogger sets the logger for progress messages.
func (t *Trainer) SetLogger(l *zap.Logger) {
	t.logger = l
}

// Run trains one classifier and returns the artifact path it wrote.
// Configuration problems (bad variant type, mismatched path lists) fail
// before any file is opened.
func (t *Trainer) Run(opts TrainOptions) (string, error) {
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = DefaultJobs
	}

	cfg, err := model.ConfigFor(opts.Type, jobs)
	if err != nil {
		return "", err
	}
	pairs, err := train.SplitPathList(opts.TruePos, opts.FalsePos)
	if err != nil {
		return "", err
	}

	table, err := train.BuildTrainingSet(pairs, jobs)
	if err != nil {
		return "", err
	}
	t.logger.Info("training table built",
		zap.Int("pairs", len(pairs)),
		zap.Int("rows", table.Len()))

	if opts.TableOut != "" {
		if err := t.exportTable(opts.TableOut, table); err != nil {
			return "", err
		}
	}

	m, err := model.Train(table.X, table.Y, opts.Type, cfg)
	if err != nil {
		return "", err
	}

	out := opts.Out
	if out == "" {
		out = model.DefaultArtifactName(opts.Type)
	}
	if err := model.Save(m, out); err != nil {
		return "", err
	}

	t.logger.Info("model trained",
		zap.String("type", string(opts.Type)),
		zap.Int("trees", cfg.Trees),
		zap.String("output", out))

	return out, nil
}

func (t *Trainer) exportTable(path string, table *train.Table) error {
	store, err := duckdb.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.WriteTable(table); err != nil {
		return err
	}
	t.logger.Info("training table exported",
		zap.String("path", path),
		zap.Int("rows", table.Len()))
	return nil
}
