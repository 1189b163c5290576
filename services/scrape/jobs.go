package scrape

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"persian-pages/config"
	"persian-pages/constants"
	"persian-pages/logger"
	"persian-pages/models/scrape"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// JobState is the status of a background scrape as reported to callers.
type JobState struct {
	ID        string    `json:"jobId"`
	Status    string    `json:"status"`
	City      string    `json:"city"`
	Result    *Result   `json:"result,omitempty"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// JobStore keeps job states. Get returns ErrJobNotFound for unknown ids.
type JobStore interface {
	Get(ctx context.Context, id string) (*JobState, error)
	Set(ctx context.Context, state *JobState) error
}

// NewJobStore picks the store named by SCRAPE_JOB_STORE. Anything other
// than "database" keeps jobs in process memory.
func NewJobStore(cfg config.Config, db *gorm.DB) JobStore {
	if cfg.ScrapeJobStore == "database" && db != nil {
		return &GormJobStore{DB: db}
	}
	return NewMemoryJobStore()
}

type MemoryJobStore struct {
	mu   sync.RWMutex
	jobs map[string]JobState
}

func NewMemoryJobStore() *MemoryJobStore {
	return &MemoryJobStore{jobs: make(map[string]JobState)}
}

func (m *MemoryJobStore) Get(_ context.Context, id string) (*JobState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	state, ok := m.jobs[id]
	if !ok {
		return nil, ErrJobNotFound
	}
	return &state, nil
}

func (m *MemoryJobStore) Set(_ context.Context, state *JobState) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.jobs[state.ID] = *state
	return nil
}

// GormJobStore persists job states in scrape_jobs so any instance can
// answer status requests.
type GormJobStore struct {
	DB *gorm.DB
}

func (g *GormJobStore) Get(ctx context.Context, id string) (*JobState, error) {
	var row scrape.Job
	if err := g.DB.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to load scrape job: %w", err)
	}

	state := &JobState{
		ID:        row.ID,
		Status:    row.Status,
		City:      row.City,
		Error:     row.Error,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
	if len(row.Result) > 0 {
		var result Result
		if err := json.Unmarshal(row.Result, &result); err != nil {
			return nil, fmt.Errorf("failed to decode scrape job result: %w", err)
		}
		state.Result = &result
	}
	return state, nil
}

func (g *GormJobStore) Set(ctx context.Context, state *JobState) error {
	row := scrape.Job{
		ID:        state.ID,
		Status:    state.Status,
		City:      state.City,
		Error:     state.Error,
		CreatedAt: state.CreatedAt,
		UpdatedAt: state.UpdatedAt,
	}
	if state.Result != nil {
		encoded, err := json.Marshal(state.Result)
		if err != nil {
			return fmt.Errorf("failed to encode scrape job result: %w", err)
		}
		row.Result = encoded
	}

	return g.DB.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&row).Error
}

// RunFunc executes one scrape. Pipeline.Run satisfies it.
type RunFunc func(ctx context.Context, opts Options) (*Result, error)

// JobRunner starts scrapes in the background and records their outcome.
type JobRunner struct {
	Store JobStore
	Run   RunFunc
	Now   func() time.Time

	wg sync.WaitGroup
}

func NewJobRunner(store JobStore, run RunFunc) *JobRunner {
	return &JobRunner{Store: store, Run: run, Now: time.Now}
}

// Start records a running job and returns it immediately. The scrape runs
// detached from ctx so it outlives the request that started it.
func (r *JobRunner) Start(ctx context.Context, opts Options) (*JobState, error) {
	city := opts.City
	if city == "" {
		city = "auto"
	}

	now := r.now()
	state := &JobState{
		ID:        "scrape-" + uuid.NewString(),
		Status:    constants.JobRunning,
		City:      city,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.Store.Set(ctx, state); err != nil {
		return nil, fmt.Errorf("failed to record scrape job: %w", err)
	}

	started := *state
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.execute(started, opts)
	}()
	return state, nil
}

func (r *JobRunner) execute(state JobState, opts Options) {
	ctx := context.Background()

	result, err := r.Run(ctx, opts)
	state.UpdatedAt = r.now()
	if err != nil {
		logger.Error(fmt.Sprintf("Scrape job %s failed", state.ID), err)
		state.Status = constants.JobFailed
		state.Error = err.Error()
	} else {
		logger.Success(fmt.Sprintf("Scrape job %s completed", state.ID))
		state.Status = constants.JobCompleted
		state.Result = result
		if result != nil && result.City != "" {
			state.City = result.City
		}
	}

	if err := r.Store.Set(ctx, &state); err != nil {
		logger.Error(fmt.Sprintf("Failed to store outcome of scrape job %s", state.ID), err)
	}
}

// Wait blocks until every started job has finished.
func (r *JobRunner) Wait() {
	r.wg.Wait()
}

func (r *JobRunner) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}
