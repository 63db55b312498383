package agent

import (
	"time"

	"github.com/strataco/strata/pkg/record"
)

// Backup is a point-in-time snapshot of an agent's knowledge base, safe to
// serialize and restore independently of the live store.
type Backup struct {
	AgentID   string    `json:"agent_id"`
	AgentName string    `json:"agent_name"`
	TakenAt   time.Time `json:"taken_at"`

	Role        Role                     `json:"role"`
	Knowledge   map[string]record.Record `json:"knowledge"`
	Templates   map[string]record.Record `json:"templates"`
	Practices   map[string]record.Record `json:"practices"`
	CaseStudies map[string]record.Record `json:"case_studies"`

	Executions []Execution  `json:"executions,omitempty"`
	Connected  []string     `json:"connected,omitempty"`
	ShareLog   []ShareEvent `json:"share_log,omitempty"`
}

// CreateBackup snapshots the store. Maps and slices are copied so the backup
// is immune to later mutations.
func (s *Store) CreateBackup() Backup {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b := Backup{
		AgentID:     s.id,
		AgentName:   s.name,
		TakenAt:     time.Now(),
		Role:        s.role,
		Knowledge:   copyRecords(s.knowledge),
		Templates:   copyRecords(s.templates),
		Practices:   copyRecords(s.practices),
		CaseStudies: copyRecords(s.caseStudies),
	}

	b.Executions = make([]Execution, len(s.executions))
	copy(b.Executions, s.executions)

	for id := range s.connected {
		b.Connected = append(b.Connected, id)
	}

	b.ShareLog = make([]ShareEvent, len(s.shareLog))
	copy(b.ShareLog, s.shareLog)

	return b
}

func copyRecords(in map[string]record.Record) map[string]record.Record {
	out := make(map[string]record.Record, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
