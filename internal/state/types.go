// Package state folds domain events into a bounded application state snapshot
// and notifies subscribers on every change. The state root is replaced
// wholesale per event, so snapshots handed to subscribers are never mutated
// after delivery.
package state

import "time"

// List caps. Oldest entries are trimmed once a cap is exceeded.
const (
	maxNotifications  = 30
	maxRiskAlerts     = 20
	maxAIInsights     = 15
	maxPatientUpdates = 50
)

// NotificationType classifies a notification for display.
type NotificationType string

const (
	NotifyInfo    NotificationType = "info"
	NotifyWarning NotificationType = "warning"
	NotifyError   NotificationType = "error"
	NotifySuccess NotificationType = "success"
)

// Notification is a dashboard notification entry.
type Notification struct {
	ID         string           `json:"id"`
	Type       NotificationType `json:"type"`
	Title      string           `json:"title"`
	Message    string           `json:"message"`
	Timestamp  time.Time        `json:"timestamp"`
	Urgent     bool             `json:"urgent"`
	UserID     string           `json:"user_id,omitempty"`
	Actionable bool             `json:"actionable"`
	Read       bool             `json:"read"`
}

// RiskAlert is an active patient risk escalation.
type RiskAlert struct {
	ID                string    `json:"id"`
	PatientID         string    `json:"patient_id"`
	PatientName       string    `json:"patient_name"`
	RiskLevel         string    `json:"risk_level"`
	RiskScore         float64   `json:"risk_score"`
	PrimaryConcern    string    `json:"primary_concern"`
	RecommendedAction string    `json:"recommended_action"`
	DoctorID          string    `json:"doctor_id"`
	HospitalID        string    `json:"hospital_id"`
	Timestamp         time.Time `json:"timestamp"`
	Acknowledged      bool      `json:"acknowledged"`
}

// InsightImpact bands an insight's confidence for display.
type InsightImpact string

const (
	ImpactLow    InsightImpact = "low"
	ImpactMedium InsightImpact = "medium"
	ImpactHigh   InsightImpact = "high"
)

// AIInsight is a generated insight surfaced on the dashboard.
type AIInsight struct {
	ID               string        `json:"id"`
	Title            string        `json:"title"`
	Description      string        `json:"description"`
	Category         string        `json:"category"`
	Confidence       int           `json:"confidence"`
	Impact           InsightImpact `json:"impact"`
	AffectedEntities int           `json:"affected_entities"`
	ActionItems      []string      `json:"action_items"`
	Timestamp        time.Time     `json:"timestamp"`
	Implemented      bool          `json:"implemented"`
}

// PatientUpdate records a single medication or status change for a patient.
type PatientUpdate struct {
	ID             string    `json:"id"`
	PatientID      string    `json:"patient_id"`
	PatientName    string    `json:"patient_name"`
	UpdateType     string    `json:"update_type"`
	Details        string    `json:"details"`
	Impact         string    `json:"impact"`
	Timestamp      time.Time `json:"timestamp"`
	RequiresAction bool      `json:"requires_action"`
}

// ActionPriority ranks a care action.
type ActionPriority string

const (
	PriorityLow    ActionPriority = "Low"
	PriorityMedium ActionPriority = "Medium"
	PriorityHigh   ActionPriority = "High"
	PriorityUrgent ActionPriority = "Urgent"
)

// ActionStatus is the lifecycle state of a care action.
type ActionStatus string

const (
	StatusPending    ActionStatus = "pending"
	StatusInProgress ActionStatus = "in_progress"
	StatusCompleted  ActionStatus = "completed"
	StatusOverdue    ActionStatus = "overdue"
)

// ActionCategory classifies a care action.
type ActionCategory string

const (
	ActionMedication ActionCategory = "medication"
	ActionFollowUp   ActionCategory = "follow_up"
	ActionMonitoring ActionCategory = "monitoring"
	ActionEducation  ActionCategory = "education"
)

// CareAction is a task for the care team. The list is unbounded; actions are
// only ever completed via status updates, never expired.
type CareAction struct {
	ID            string         `json:"id"`
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	Priority      ActionPriority `json:"priority"`
	AssignedTo    string         `json:"assigned_to"`
	PatientID     string         `json:"patient_id,omitempty"`
	DueDate       time.Time      `json:"due_date"`
	Status        ActionStatus   `json:"status"`
	EstimatedTime int            `json:"estimated_time"` // minutes
	Category      ActionCategory `json:"category"`
}

// SystemMetrics is the dashboard headline metric block, recomputed after
// every fold.
type SystemMetrics struct {
	TotalPatients    int       `json:"total_patients"`
	ActiveAlerts     int       `json:"active_alerts"`
	ComplianceRate   int       `json:"compliance_rate"`
	AverageRiskScore int       `json:"average_risk_score"`
	AIInsightCount   int       `json:"ai_insight_count"`
	PendingActions   int       `json:"pending_actions"`
	LastDataRefresh  time.Time `json:"last_data_refresh"`
}

// AppState is the full application state snapshot. Lists are newest-first.
type AppState struct {
	Notifications  []Notification  `json:"notifications"`
	RiskAlerts     []RiskAlert     `json:"risk_alerts"`
	AIInsights     []AIInsight     `json:"ai_insights"`
	PatientUpdates []PatientUpdate `json:"patient_updates"`
	CareActions    []CareAction    `json:"care_actions"`
	SystemMetrics  SystemMetrics   `json:"system_metrics"`
	LastUpdated    time.Time       `json:"last_updated"`
}

// clone returns a deep-enough copy: new slice headers and backing arrays so
// the receiver can be mutated without affecting snapshots already handed out.
// Element-level strings and nested slices are shared since they are treated
// as immutable once folded in.
func (s AppState) clone() AppState {
	out := s
	out.Notifications = append([]Notification(nil), s.Notifications...)
	out.RiskAlerts = append([]RiskAlert(nil), s.RiskAlerts...)
	out.AIInsights = append([]AIInsight(nil), s.AIInsights...)
	out.PatientUpdates = append([]PatientUpdate(nil), s.PatientUpdates...)
	out.CareActions = append([]CareAction(nil), s.CareActions...)
	return out
}
