package compress

import (
	"log/slog"
	"sync"
	"time"

	"github.com/dgraph-io/ristretto"

	"github.com/strataco/strata/pkg/record"
)

// Config holds the engine's eligibility tuning.
type Config struct {
	// ImportanceThreshold selects records whose importance score is below
	// this value. Defaults to the high importance score, so medium and lower
	// records are eligible.
	ImportanceThreshold int

	// TemporalWindow selects records older than this age regardless of
	// importance. Defaults to 7 days.
	TemporalWindow time.Duration

	// Logger receives per-run diagnostics. Defaults to slog.Default().
	Logger *slog.Logger
}

const defaultTemporalWindow = 7 * 24 * time.Hour

// Stats summarizes one compression run.
type Stats struct {
	OriginalCount       int                   `json:"original_count"`
	CompressedCount     int                   `json:"compressed_count"`
	OriginalSizeBytes   int                   `json:"original_size_bytes"`
	CompressedSizeBytes int                   `json:"compressed_size_bytes"`
	Ratio               float64               `json:"compression_ratio"`
	ProcessingTimeMs    int64                 `json:"processing_time_ms"`
	ByStrategy          map[record.Method]int `json:"by_strategy"`
}

// Result is the output of one compression run.
type Result struct {
	Compressed []record.Compressed

	// SupersededIDs are the original record ids replaced by compressed
	// records; the caller decides whether to delete them from its store.
	SupersededIDs []string

	Stats Stats
}

// Engine runs the Select/Group/Compress/Aggregate pipeline. The strategy set
// is closed and registration order is fixed: semantic merge, redundancy
// removal, temporal decay, content summary.
type Engine struct {
	config     Config
	strategies []Strategy
	cache      *ristretto.Cache
	logger     *slog.Logger
}

// NewEngine creates an engine with the fixed strategy registration order and
// a decompression cache.
func NewEngine(config Config) (*Engine, error) {
	if config.ImportanceThreshold == 0 {
		config.ImportanceThreshold = record.ImportanceHigh.Score()
	}
	if config.TemporalWindow == 0 {
		config.TemporalWindow = defaultTemporalWindow
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e4,
		MaxCost:     1 << 26,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}

	return &Engine{
		config: config,
		strategies: []Strategy{
			SemanticStrategy{},
			RedundancyStrategy{},
			NewTemporalStrategy(config.TemporalWindow),
			SummaryStrategy{},
		},
		cache:  cache,
		logger: config.Logger,
	}, nil
}

// Run executes one compression pass over the given records.
func (e *Engine) Run(records []record.Record) Result {
	start := time.Now()

	eligible := e.selectEligible(records)
	groups := e.group(eligible)

	// Strategy groups operate on disjoint record subsets, so they compress
	// in parallel; each strategy is internally sequential.
	var (
		mu         sync.Mutex
		wg         sync.WaitGroup
		compressed []record.Compressed
	)
	for _, strategy := range e.strategies {
		group := groups[strategy.Method()]
		if len(group) == 0 {
			continue
		}

		wg.Add(1)
		go func(s Strategy, group []record.Record) {
			defer wg.Done()
			out := s.Compress(group)

			mu.Lock()
			compressed = append(compressed, out...)
			mu.Unlock()
		}(strategy, group)
	}
	wg.Wait()

	result := e.aggregate(records, groups, compressed, start)

	e.logger.Debug("compression run complete",
		"eligible", len(eligible),
		"compressed", result.Stats.CompressedCount,
		"ratio", result.Stats.Ratio,
		"elapsed_ms", result.Stats.ProcessingTimeMs,
	)

	return result
}

// selectEligible filters for records that are not compression outputs and
// either fall below the importance threshold or have aged past the temporal
// window.
func (e *Engine) selectEligible(records []record.Record) []record.Record {
	cutoff := time.Now().Add(-e.config.TemporalWindow)

	var eligible []record.Record
	for _, r := range records {
		if IsCompressed(r) {
			continue
		}
		if r.Importance.Score() < e.config.ImportanceThreshold || r.CreatedAt.Before(cutoff) {
			eligible = append(eligible, r)
		}
	}
	return eligible
}

// group assigns each eligible record to the first strategy that supports it.
func (e *Engine) group(eligible []record.Record) map[record.Method][]record.Record {
	groups := make(map[record.Method][]record.Record)
	for _, r := range eligible {
		for _, s := range e.strategies {
			if s.Supports(r) {
				groups[s.Method()] = append(groups[s.Method()], r)
				break
			}
		}
	}
	return groups
}

// aggregate merges strategy outputs into a Result and caches every produced
// compressed record for decompression.
func (e *Engine) aggregate(input []record.Record, groups map[record.Method][]record.Record, compressed []record.Compressed, start time.Time) Result {
	stats := Stats{
		OriginalCount:   len(input),
		CompressedCount: len(compressed),
		ByStrategy:      make(map[record.Method]int, len(groups)),
	}
	for method, group := range groups {
		stats.ByStrategy[method] = len(group)
	}

	var superseded []string
	for _, r := range input {
		stats.OriginalSizeBytes += len(r.Content)
	}

	for _, c := range compressed {
		stats.CompressedSizeBytes += len(c.Content)
		superseded = append(superseded, c.OriginalIDs...)
		e.cache.Set(c.ID, c, int64(len(c.Content)))
	}
	e.cache.Wait()

	// The run ratio is compressed bytes over original bytes, 1.0 when
	// nothing was compressed.
	if len(compressed) == 0 || stats.OriginalSizeBytes == 0 {
		stats.Ratio = 1.0
	} else {
		stats.Ratio = float64(stats.CompressedSizeBytes) / float64(stats.OriginalSizeBytes)
	}

	stats.ProcessingTimeMs = time.Since(start).Milliseconds()

	return Result{
		Compressed:    compressed,
		SupersededIDs: superseded,
		Stats:         stats,
	}
}

// Cached returns a previously produced compressed record by id.
func (e *Engine) Cached(id string) (record.Compressed, bool) {
	v, ok := e.cache.Get(id)
	if !ok {
		return record.Compressed{}, false
	}
	c, ok := v.(record.Compressed)
	return c, ok
}

// EvictCached removes one compressed record from the decompression cache.
// The record itself is immutable; only its cache entry goes away.
func (e *Engine) EvictCached(id string) {
	e.cache.Del(id)
}

// ClearCache drops the whole decompression cache, independent of any primary
// store.
func (e *Engine) ClearCache() {
	e.cache.Clear()
}
