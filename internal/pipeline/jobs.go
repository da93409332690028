package pipeline

import (
	"sync"
	"time"
)

// JobStatus represents the state of a conversion job.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusParsing    JobStatus = "parsing"
	StatusAnalyzing  JobStatus = "analyzing"
	StatusPlanning   JobStatus = "planning"
	StatusWriting    JobStatus = "writing"
	StatusPreviewing JobStatus = "previewing"
	StatusCompleted  JobStatus = "completed"
	StatusPartial    JobStatus = "partial"
	StatusFailed     JobStatus = "failed"
)

// Job tracks the state of a single document conversion.
type Job struct {
	mu sync.Mutex

	ID       string `json:"job_id"`
	Filename string `json:"filename"`

	Status JobStatus `json:"status"`
	Phase  string    `json:"phase"`

	Progress Progress `json:"progress"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Internal: not serialized.
	fileData     []byte
	templateData []byte
	outputDir    string
	deckPath     string
	previewPaths []string
	errors       []string
}

// Progress tracks conversion progress.
type Progress struct {
	Encoding      string   `json:"encoding,omitempty"`
	SlideCount    int      `json:"slide_count"`
	ChapterSlides int      `json:"chapter_slides"`
	PreviewCount  int      `json:"preview_count"`
	Errors        []string `json:"errors"`
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.UpdatedAt) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// SetEncoding records the detected input encoding.
func (j *Job) SetEncoding(enc string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.Encoding = enc
	j.UpdatedAt = time.Now()
}

// SetSlideCounts records the planned slide totals.
func (j *Job) SetSlideCounts(total, chapters int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.SlideCount = total
	j.Progress.ChapterSlides = chapters
	j.UpdatedAt = time.Now()
}

// SetInputs attaches the raw document and template bytes and the
// output directory for generated files.
func (j *Job) SetInputs(doc, template []byte, outputDir string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.fileData = doc
	j.templateData = template
	j.outputDir = outputDir
}

// SetDeckPath records where the finished deck was written.
func (j *Job) SetDeckPath(path string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.deckPath = path
	j.UpdatedAt = time.Now()
}

// DeckPath returns the finished deck location, empty until written.
func (j *Job) DeckPath() string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.deckPath
}

// SetPreviewPaths records the rendered thumbnail files.
func (j *Job) SetPreviewPaths(paths []string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.previewPaths = paths
	j.Progress.PreviewCount = len(paths)
	j.UpdatedAt = time.Now()
}

// PreviewPath returns the thumbnail file for a 1-based slide number,
// or empty when not rendered.
func (j *Job) PreviewPath(n int) string {
	j.mu.Lock()
	defer j.mu.Unlock()
	if n < 1 || n > len(j.previewPaths) {
		return ""
	}
	return j.previewPaths[n-1]
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID        string    `json:"job_id"`
	Filename  string    `json:"filename"`
	Status    JobStatus `json:"status"`
	Phase     string    `json:"phase"`
	Progress  Progress  `json:"progress"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := j.Progress.Errors
	if errs == nil {
		errs = []string{}
	}
	return JobSnapshot{
		ID:        j.ID,
		Filename:  j.Filename,
		Status:    j.Status,
		Phase:     j.Phase,
		CreatedAt: j.CreatedAt,
		UpdatedAt: j.UpdatedAt,
		Progress: Progress{
			Encoding:      j.Progress.Encoding,
			SlideCount:    j.Progress.SlideCount,
			ChapterSlides: j.Progress.ChapterSlides,
			PreviewCount:  j.Progress.PreviewCount,
			Errors:        errs,
		},
	}
}
