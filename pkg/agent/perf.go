package agent

import (
	"sort"
	"time"
)

// EMA smoothing for per-task-type average duration.
const (
	emaKeepWeight = 0.9
	emaNewWeight  = 0.1
)

// PerformanceReport aggregates an agent's execution metrics and knowledge
// coverage.
type PerformanceReport struct {
	AgentID string `json:"agent_id"`

	TotalExecutions      int `json:"total_executions"`
	SuccessfulExecutions int `json:"successful_executions"`

	// SuccessRate is a percentage; 0 when nothing has been recorded.
	SuccessRate float64 `json:"success_rate"`

	// AvgResponseTime is totalTime/total; 0 when nothing has been recorded.
	AvgResponseTime time.Duration `json:"avg_response_time"`

	// DomainCoverage is every distinct tag across knowledge records.
	DomainCoverage []string `json:"domain_coverage,omitempty"`

	// TaskDistribution counts executions per task type.
	TaskDistribution map[string]int `json:"task_distribution,omitempty"`
}

// RecordTaskExecution logs one task run: counters, accumulated time, and the
// per-task exponential moving average (avg*0.9 + duration*0.1, seeded at the
// first duration).
func (s *Store) RecordTaskExecution(taskType string, duration time.Duration, success bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.totalExecs++
	if success {
		s.successExecs++
	}
	s.totalTime += duration

	if avg, ok := s.avgByTask[taskType]; ok {
		s.avgByTask[taskType] = time.Duration(float64(avg)*emaKeepWeight + float64(duration)*emaNewWeight)
	} else {
		s.avgByTask[taskType] = duration
	}

	s.executions = append(s.executions, Execution{
		TaskType: taskType,
		Duration: duration,
		Success:  success,
		At:       time.Now(),
	})
}

// AvgTaskDuration returns the moving-average duration for a task type.
func (s *Store) AvgTaskDuration(taskType string) (time.Duration, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	avg, ok := s.avgByTask[taskType]
	return avg, ok
}

// GeneratePerformanceReport computes the metrics snapshot. Rates and
// averages are zero when no executions have been recorded.
func (s *Store) GeneratePerformanceReport() PerformanceReport {
	s.mu.RLock()
	defer s.mu.RUnlock()

	report := PerformanceReport{
		AgentID:              s.id,
		TotalExecutions:      s.totalExecs,
		SuccessfulExecutions: s.successExecs,
		TaskDistribution:     make(map[string]int),
	}

	if s.totalExecs > 0 {
		report.SuccessRate = float64(s.successExecs) / float64(s.totalExecs) * 100
		report.AvgResponseTime = s.totalTime / time.Duration(s.totalExecs)
	}

	for _, e := range s.executions {
		report.TaskDistribution[e.TaskType]++
	}

	coverage := make([]string, 0, len(s.tagIndex))
	for tag := range s.tagIndex {
		coverage = append(coverage, tag)
	}
	sort.Strings(coverage)
	report.DomainCoverage = coverage

	return report
}
