package core

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// AuditAction represents the type of action being audited.
type AuditAction string

const (
	ActionRowDelete      AuditAction = "row_delete"
	ActionBulkDeleteIDs  AuditAction = "bulk_delete_ids"
	ActionBulkDeleteView AuditAction = "bulk_delete_filter"
	ActionTableClear     AuditAction = "table_clear"
)

// AuditSeverity represents the severity level of an audit entry.
type AuditSeverity string

const (
	SeverityMedium   AuditSeverity = "medium"
	SeverityHigh     AuditSeverity = "high"
	SeverityCritical AuditSeverity = "critical"
)

// DefaultAuditCapacity is how many entries the audit log keeps.
const DefaultAuditCapacity = 500

// AuditEntry records one mutation. Entries live in memory for the process
// lifetime, like the data they describe.
type AuditEntry struct {
	ID           string        `json:"id"`
	Action       AuditAction   `json:"action"`
	Severity     AuditSeverity `json:"severity"`
	TableKey     string        `json:"tableKey"`
	IPAddress    string        `json:"ipAddress,omitempty"`
	UserAgent    string        `json:"userAgent,omitempty"`
	RowKeys      []int64       `json:"rowKeys,omitempty"`
	SearchField  string        `json:"searchField,omitempty"`
	Search       string        `json:"search,omitempty"`
	RowsAffected int           `json:"rowsAffected"`
	CreatedAt    time.Time     `json:"createdAt"`
}

// determineSeverity returns the appropriate severity for an action.
func determineSeverity(action AuditAction) AuditSeverity {
	switch action {
	case ActionTableClear:
		return SeverityCritical
	case ActionBulkDeleteIDs, ActionBulkDeleteView:
		return SeverityHigh
	default:
		return SeverityMedium
	}
}

// AuditLog is a bounded, newest-first log of mutations.
type AuditLog struct {
	mu       sync.RWMutex
	entries  []AuditEntry // ring buffer
	next     int
	full     bool
	now      func() time.Time
	capacity int
}

// NewAuditLog creates an audit log that keeps the last capacity entries.
func NewAuditLog(capacity int) *AuditLog {
	if capacity <= 0 {
		capacity = DefaultAuditCapacity
	}
	return &AuditLog{
		entries:  make([]AuditEntry, capacity),
		now:      time.Now,
		capacity: capacity,
	}
}

// Record stores entry, filling in ID, Severity and CreatedAt.
func (a *AuditLog) Record(entry AuditEntry) AuditEntry {
	entry.ID = uuid.NewString()
	entry.Severity = determineSeverity(entry.Action)

	a.mu.Lock()
	defer a.mu.Unlock()

	entry.CreatedAt = a.now().UTC()
	a.entries[a.next] = entry
	a.next = (a.next + 1) % a.capacity
	if a.next == 0 {
		a.full = true
	}
	return entry
}

// Entries returns up to limit entries, newest first, optionally restricted
// to one table. A limit <= 0 returns everything retained.
func (a *AuditLog) Entries(tableKey string, limit int) []AuditEntry {
	a.mu.RLock()
	defer a.mu.RUnlock()

	n := a.next
	if a.full {
		n = a.capacity
	}

	result := make([]AuditEntry, 0, n)
	for i := 1; i <= n; i++ {
		e := a.entries[(a.next-i+a.capacity)%a.capacity]
		if tableKey != "" && e.TableKey != tableKey {
			continue
		}
		result = append(result, e)
		if limit > 0 && len(result) == limit {
			break
		}
	}
	return result
}
