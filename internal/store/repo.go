package store

import (
	"context"
	"time"

	"github.com/abhisek/quizy/internal/progression"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// ProgressSnapshot is a point-in-time copy of the learner's progress.
type ProgressSnapshot struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	Progress  progression.UserProgress
}

// ProgressRepo persists progress snapshots. The newest snapshot is the
// current progress.
type ProgressRepo interface {
	// Save stores a new snapshot.
	Save(ctx context.Context, snap *ProgressSnapshot) error

	// Latest returns the most recent snapshot, or nil if none exist.
	Latest(ctx context.Context) (*ProgressSnapshot, error)

	// Prune deletes all but the N most recent snapshots.
	Prune(ctx context.Context, keep int) error

	// Count returns the number of stored snapshots.
	Count(ctx context.Context) (int, error)
}

// Quiz event actions.
const (
	QuizActionStart    = "start"
	QuizActionComplete = "complete"
	QuizActionAbandon  = "abandon"
)

// QuizEventData records a quiz lifecycle transition.
type QuizEventData struct {
	SessionID  string
	Subject    string
	Action     string
	Score      int
	Questions  int
	XPGained   int
	NewStreak  int
	Multiplier float64
	Level      string
}

// AnswerEventData records one answered question.
type AnswerEventData struct {
	SessionID     string
	Subject       string
	QuestionIndex int
	QuestionText  string
	Selected      int
	CorrectIndex  int
	Correct       bool
}

// BadgeEventData records a badge unlock.
type BadgeEventData struct {
	BadgeID   string
	BadgeName string
	SessionID string
	XP        int
	Streak    int
}

// Media kinds.
const (
	MediaSpeech  = "speech"
	MediaArtwork = "artwork"
)

// MediaEventData records a speech or artwork generation attempt.
type MediaEventData struct {
	Kind         string
	Backend      string
	Subject      string // narrated text or badge id
	Path         string
	Bytes        int64
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	Subject      string
	InputTokens  int
	OutputTokens int
	CostUSD      float64
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEventRecord is a stored LLM request event.
type LLMRequestEventRecord struct {
	ID           int       `sql:"id"`
	Sequence     int64     `sql:"sequence"`
	Timestamp    time.Time `sql:"timestamp"`
	Provider     string    `sql:"provider"`
	Model        string    `sql:"model"`
	Purpose      string    `sql:"purpose"`
	Subject      string    `sql:"subject"`
	InputTokens  int       `sql:"input_tokens"`
	OutputTokens int       `sql:"output_tokens"`
	CostUSD      float64   `sql:"cost_usd"`
	LatencyMs    int64     `sql:"latency_ms"`
	Success      bool      `sql:"success"`
	ErrorMessage string    `sql:"error_message"`
	RequestBody  string    `sql:"request_body"`
	ResponseBody string    `sql:"response_body"`
}

// PurposeUsage aggregates LLM calls for one purpose.
type PurposeUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	CostUSD      float64
	AvgLatencyMs int64
}

// SubjectUsage aggregates question generation calls for one quiz subject.
type SubjectUsage struct {
	Subject  string
	Calls    int
	Failures int
	CostUSD  float64
}

// ModelUsage aggregates LLM calls for one model.
type ModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// QuizSummary is a completed quiz as shown in history views.
type QuizSummary struct {
	Sequence   int64     `sql:"sequence"`
	Timestamp  time.Time `sql:"timestamp"`
	SessionID  string    `sql:"session_id"`
	Subject    string    `sql:"subject"`
	Score      int       `sql:"score"`
	Questions  int       `sql:"questions"`
	XPGained   int       `sql:"xp_gained"`
	NewStreak  int       `sql:"new_streak"`
	Multiplier float64   `sql:"multiplier"`
	Level      string    `sql:"level"`
}

// BadgeEventRecord is a stored badge unlock.
type BadgeEventRecord struct {
	Sequence  int64     `sql:"sequence"`
	Timestamp time.Time `sql:"timestamp"`
	BadgeID   string    `sql:"badge_id"`
	BadgeName string    `sql:"badge_name"`
	SessionID string    `sql:"session_id"`
	XP        int       `sql:"xp"`
	Streak    int       `sql:"streak"`
}

// MediaEventRecord is a stored media generation attempt.
type MediaEventRecord struct {
	Sequence     int64     `sql:"sequence"`
	Timestamp    time.Time `sql:"timestamp"`
	Kind         string    `sql:"kind"`
	Backend      string    `sql:"backend"`
	Subject      string    `sql:"subject"`
	Path         string    `sql:"path"`
	Bytes        int64     `sql:"bytes"`
	LatencyMs    int64     `sql:"latency_ms"`
	Success      bool      `sql:"success"`
	ErrorMessage string    `sql:"error_message"`
}

// SubjectStats aggregates answers for one subject.
type SubjectStats struct {
	Subject  string
	Answered int
	Correct  int
}

// Accuracy returns Correct/Answered, or 0 when nothing was answered.
func (s SubjectStats) Accuracy() float64 {
	if s.Answered == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Answered)
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns LLM events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEventRecord, error)

	// GetLLMEvent returns a single LLM event by ID, or nil if not found.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEventRecord, error)

	// LLMUsageByPurpose aggregates token usage grouped by purpose.
	LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error)

	// LLMUsageBySubject aggregates question generation calls by subject.
	LLMUsageBySubject(ctx context.Context) ([]SubjectUsage, error)

	// LLMUsageByModel aggregates token usage grouped by model.
	LLMUsageByModel(ctx context.Context) ([]ModelUsage, error)

	// AppendQuizEvent records a quiz start, completion, or abandonment.
	AppendQuizEvent(ctx context.Context, data QuizEventData) error

	// AppendAnswerEvent records one answered question.
	AppendAnswerEvent(ctx context.Context, data AnswerEventData) error

	// AppendBadgeEvent records a badge unlock.
	AppendBadgeEvent(ctx context.Context, data BadgeEventData) error

	// AppendMediaEvent records a speech or artwork generation attempt.
	AppendMediaEvent(ctx context.Context, data MediaEventData) error

	// QueryQuizSummaries returns completed quizzes, newest first.
	QueryQuizSummaries(ctx context.Context, opts QueryOpts) ([]QuizSummary, error)

	// QueryBadgeEvents returns badge unlocks, newest first.
	QueryBadgeEvents(ctx context.Context, opts QueryOpts) ([]BadgeEventRecord, error)

	// QueryMediaEvents returns media events of the given kind (all kinds if
	// empty), newest first.
	QueryMediaEvents(ctx context.Context, kind string, opts QueryOpts) ([]MediaEventRecord, error)

	// SubjectAccuracy aggregates answer events by subject.
	SubjectAccuracy(ctx context.Context) ([]SubjectStats, error)
}
