package state

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/mediminder/pulse/internal/clock"
	"github.com/mediminder/pulse/internal/dataset"
	"github.com/mediminder/pulse/internal/eventbus"
	"github.com/mediminder/pulse/pkg/circuitbreaker"
)

// Listener receives a fresh state snapshot after every change.
type Listener func(AppState)

// Hooks are optional instrumentation callbacks invoked during folding.
type Hooks struct {
	FoldDuration    func(time.Duration)
	ListenerFailure func()
}

// RiskScorer supplies the cached population average for the metrics block.
type RiskScorer interface {
	AverageRiskScore() int
}

type subscriber struct {
	listener Listener
	breaker  *circuitbreaker.Breaker
}

// Manager owns the application state. Every event or mutator call computes a
// complete next state, swaps it in, and notifies subscribers synchronously.
type Manager struct {
	store  *dataset.Store
	scorer RiskScorer
	bus    *eventbus.Bus
	clk    clock.Clock
	logger *zap.Logger

	mu          sync.Mutex
	rng         *rand.Rand
	state       AppState
	subs        map[int]*subscriber
	nextSub     int
	notifSeq    int
	unsubscribe func()
	hooks       Hooks
}

// SetHooks installs instrumentation callbacks. Call before the bus starts
// delivering events.
func (m *Manager) SetHooks(h Hooks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks = h
}

// New creates a Manager seeded with initial care actions and wires it to the
// bus as an all-events subscriber.
func New(store *dataset.Store, scorer RiskScorer, bus *eventbus.Bus, clk clock.Clock, rng *rand.Rand, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Manager{
		store:  store,
		scorer: scorer,
		bus:    bus,
		clk:    clk,
		logger: logger,
		rng:    rng,
		subs:   make(map[int]*subscriber),
	}
	m.state = AppState{
		CareActions: m.seedCareActions(),
		LastUpdated: clk.Now(),
	}
	m.state.SystemMetrics = m.metricsFor(m.state)
	if bus != nil {
		m.unsubscribe = bus.Subscribe(eventbus.TypeAll, m.HandleEvent)
	}
	return m
}

// Close detaches the manager from the event bus.
func (m *Manager) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

// GetState returns a snapshot safe to retain and read concurrently.
func (m *Manager) GetState() AppState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.clone()
}

// Subscribe registers a listener and returns its unsubscribe function. Each
// listener gets its own circuit breaker so one persistently failing listener
// is skipped rather than blocking the rest of the fan-out.
func (m *Manager) Subscribe(l Listener) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = &subscriber{
		listener: l,
		breaker:  circuitbreaker.New(circuitbreaker.DefaultConfig(fmt.Sprintf("state-listener-%d", id)), m.logger),
	}
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subs, id)
	}
}

// HandleEvent folds one domain event into the state. It is the handler
// registered on the event bus.
func (m *Manager) HandleEvent(event eventbus.Event) {
	start := time.Now()
	m.mu.Lock()
	next := m.state.clone()
	next.LastUpdated = m.clk.Now()

	switch event.Type {
	case eventbus.TypePatientRiskChange:
		m.foldPatientRiskChange(event, &next)
	case eventbus.TypeMedicationMissed, eventbus.TypeMedicationTaken:
		m.foldMedicationEvent(event, &next)
	case eventbus.TypeAIInsightGenerated:
		m.foldAIInsight(event, &next)
	case eventbus.TypeComplianceAlert:
		m.foldComplianceAlert(event, &next)
	default:
		m.foldGenericEvent(event, &next)
	}

	next.SystemMetrics = m.metricsFor(next)
	m.state = next
	subs := m.subscribersLocked()
	snapshot := next.clone()
	foldDuration := m.hooks.FoldDuration
	m.mu.Unlock()

	m.notify(subs, snapshot)
	if foldDuration != nil {
		foldDuration(time.Since(start))
	}
}

// AcknowledgeRiskAlert marks an alert acknowledged. Unknown ids are ignored.
func (m *Manager) AcknowledgeRiskAlert(alertID string) {
	m.mutate(func(next *AppState) bool {
		for i := range next.RiskAlerts {
			if next.RiskAlerts[i].ID == alertID {
				next.RiskAlerts[i].Acknowledged = true
				return true
			}
		}
		return false
	})
}

// MarkNotificationAsRead marks a notification read. Unknown ids are ignored.
func (m *Manager) MarkNotificationAsRead(notificationID string) {
	m.mutate(func(next *AppState) bool {
		for i := range next.Notifications {
			if next.Notifications[i].ID == notificationID {
				next.Notifications[i].Read = true
				return true
			}
		}
		return false
	})
}

// UpdateCareActionStatus sets a care action's status. Unknown ids are ignored.
func (m *Manager) UpdateCareActionStatus(actionID string, status ActionStatus) {
	m.mutate(func(next *AppState) bool {
		for i := range next.CareActions {
			if next.CareActions[i].ID == actionID {
				next.CareActions[i].Status = status
				return true
			}
		}
		return false
	})
}

// ClearAllNotifications empties the notification list.
func (m *Manager) ClearAllNotifications() {
	m.mutate(func(next *AppState) bool {
		next.Notifications = nil
		return true
	})
}

// TriggerDemoScenario fires the canned event combination for a named demo
// scenario. Returns false for an unknown name.
func (m *Manager) TriggerDemoScenario(scenario string) bool {
	switch scenario {
	case "high_risk_patient":
		m.bus.TriggerPatientRiskEvent("patient1", eventbus.SeverityCritical)
	case "medication_crisis":
		m.bus.TriggerMedicationEvent("patient2", eventbus.TypeMedicationMissed)
		m.clk.AfterFunc(2*time.Second, func() {
			m.bus.TriggerMedicationEvent("patient3", eventbus.TypeMedicationMissed)
		})
	case "ai_insights":
		m.bus.TriggerAIInsight(eventbus.CategoryPrediction)
		m.clk.AfterFunc(3*time.Second, func() {
			m.bus.TriggerAIInsight(eventbus.CategoryRecommendation)
		})
	default:
		m.logger.Warn("unknown demo scenario", zap.String("scenario", scenario))
		return false
	}
	return true
}

// mutate applies fn to a cloned state and commits it when fn reports a
// change. Subscribers are notified outside the lock.
func (m *Manager) mutate(fn func(*AppState) bool) {
	m.mu.Lock()
	next := m.state.clone()
	if !fn(&next) {
		m.mu.Unlock()
		return
	}
	next.LastUpdated = m.clk.Now()
	next.SystemMetrics = m.metricsFor(next)
	m.state = next
	subs := m.subscribersLocked()
	snapshot := next.clone()
	m.mu.Unlock()

	m.notify(subs, snapshot)
}

func (m *Manager) subscribersLocked() []*subscriber {
	out := make([]*subscriber, 0, len(m.subs))
	for _, s := range m.subs {
		out = append(out, s)
	}
	return out
}

// notify fans a snapshot out to subscribers. Panics are converted to errors
// and fed to the listener's breaker so a repeat offender gets skipped.
func (m *Manager) notify(subs []*subscriber, snapshot AppState) {
	for _, sub := range subs {
		s := sub
		err := s.breaker.Execute(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("listener panic: %v", r)
				}
			}()
			s.listener(snapshot.clone())
			return nil
		})
		if err != nil {
			m.logger.Error("state listener failed", zap.Error(err))
			if m.hooks.ListenerFailure != nil {
				m.hooks.ListenerFailure()
			}
		}
	}
}

func (m *Manager) foldPatientRiskChange(event eventbus.Event, next *AppState) {
	data, ok := event.Data.(*eventbus.PatientRiskData)
	if !ok {
		return
	}

	primaryConcern := "General compliance concern"
	if len(data.Factors) > 0 {
		primaryConcern = data.Factors[0]
	}
	recommended := "Review patient status"
	if len(data.RecommendedActions) > 0 {
		recommended = data.RecommendedActions[0]
	}

	alert := RiskAlert{
		ID:                "risk_" + event.ID,
		PatientID:         data.PatientID,
		PatientName:       data.PatientName,
		RiskLevel:         data.NewRiskLevel,
		RiskScore:         m.scoreForLevel(data.NewRiskLevel),
		PrimaryConcern:    primaryConcern,
		RecommendedAction: recommended,
		DoctorID:          data.DoctorID,
		HospitalID:        data.HospitalID,
		Timestamp:         event.Timestamp,
	}
	next.RiskAlerts = prepend(next.RiskAlerts, alert, maxRiskAlerts)

	notifType := NotifyWarning
	if event.Severity == eventbus.SeverityCritical {
		notifType = NotifyError
	}
	m.addNotification(next, Notification{
		Type:       notifType,
		Title:      "Patient Risk Alert",
		Message:    fmt.Sprintf("%s risk level changed to %s", data.PatientName, data.NewRiskLevel),
		Urgent:     event.Severity == eventbus.SeverityCritical,
		Actionable: true,
	})

	if data.NewRiskLevel == "High" || data.NewRiskLevel == "Critical" {
		priority := PriorityHigh
		due := 24 * time.Hour
		if data.NewRiskLevel == "Critical" {
			priority = PriorityUrgent
			due = 2 * time.Hour
		}
		action := CareAction{
			ID:            fmt.Sprintf("action_%d", m.clk.Now().UnixMilli()),
			Title:         "Review High-Risk Patient: " + data.PatientName,
			Description:   "Patient risk elevated due to: " + strings.Join(data.Factors, ", "),
			Priority:      priority,
			AssignedTo:    data.DoctorID,
			PatientID:     data.PatientID,
			DueDate:       m.clk.Now().Add(due),
			Status:        StatusPending,
			EstimatedTime: 30,
			Category:      ActionMonitoring,
		}
		next.CareActions = append([]CareAction{action}, next.CareActions...)
	}
}

func (m *Manager) foldMedicationEvent(event eventbus.Event, next *AppState) {
	data, ok := event.Data.(*eventbus.MedicationData)
	if !ok {
		return
	}

	update := PatientUpdate{
		ID:             "update_" + event.ID,
		PatientID:      data.PatientID,
		PatientName:    data.PatientName,
		UpdateType:     string(event.Type),
		Details:        fmt.Sprintf("%s at %s", data.MedicationName, data.ScheduledTime),
		Impact:         data.Impact,
		Timestamp:      event.Timestamp,
		RequiresAction: event.Type == eventbus.TypeMedicationMissed,
	}
	next.PatientUpdates = prepend(next.PatientUpdates, update, maxPatientUpdates)

	if event.Type == eventbus.TypeMedicationMissed {
		m.addNotification(next, Notification{
			Type:       NotifyWarning,
			Title:      "Medication Missed",
			Message:    fmt.Sprintf("%s missed %s", data.PatientName, data.MedicationName),
			Actionable: true,
		})
	}
}

func (m *Manager) foldAIInsight(event eventbus.Event, next *AppState) {
	data, ok := event.Data.(*eventbus.AIInsightData)
	if !ok {
		return
	}

	insight := AIInsight{
		ID:               "insight_" + event.ID,
		Title:            "AI-Generated Insight",
		Description:      data.Insight,
		Category:         string(data.Category),
		Confidence:       data.Confidence,
		Impact:           impactForConfidence(data.Confidence),
		AffectedEntities: data.AffectedPatients,
		ActionItems:      data.ActionableSteps,
		Timestamp:        event.Timestamp,
	}
	next.AIInsights = prepend(next.AIInsights, insight, maxAIInsights)

	if data.Confidence >= 80 {
		m.addNotification(next, Notification{
			Type:       NotifyInfo,
			Title:      "AI Insight",
			Message:    truncate(data.Insight, 100),
			Actionable: true,
		})
	}
}

func (m *Manager) foldComplianceAlert(event eventbus.Event, next *AppState) {
	data, ok := event.Data.(*eventbus.ComplianceData)
	if !ok {
		return
	}

	notifType := NotifyWarning
	if data.ComplianceRate < 70 {
		notifType = NotifyError
	}
	m.addNotification(next, Notification{
		Type:       notifType,
		Title:      "Compliance Alert",
		Message:    fmt.Sprintf("Overall compliance rate: %d%% (%d critical cases)", data.ComplianceRate, data.CriticalCases),
		Urgent:     data.ComplianceRate < 60,
		Actionable: true,
	})
}

func (m *Manager) foldGenericEvent(event eventbus.Event, next *AppState) {
	message := fmt.Sprintf("%s event occurred", event.Type)
	if data, ok := event.Data.(*eventbus.GenericData); ok && data.Message != "" {
		message = data.Message
	}
	m.addNotification(next, Notification{
		Type:    NotifyInfo,
		Title:   "System Update",
		Message: message,
	})
}

// addNotification assigns a sequential id and prepends. Callers hold m.mu.
func (m *Manager) addNotification(next *AppState, n Notification) {
	m.notifSeq++
	n.ID = fmt.Sprintf("notification_%d", m.notifSeq)
	n.Timestamp = m.clk.Now()
	next.Notifications = prepend(next.Notifications, n, maxNotifications)
}

// metricsFor recomputes the headline metrics. The compliance rate is always
// taken from the static dataset rather than derived from events. Callers
// hold m.mu.
func (m *Manager) metricsFor(s AppState) SystemMetrics {
	active := 0
	for _, a := range s.RiskAlerts {
		if !a.Acknowledged {
			active++
		}
	}
	pending := 0
	for _, a := range s.CareActions {
		if a.Status == StatusPending {
			pending++
		}
	}
	avg := 0
	if m.scorer != nil {
		avg = m.scorer.AverageRiskScore()
	}
	return SystemMetrics{
		TotalPatients:    m.store.TotalPatients(),
		ActiveAlerts:     active,
		ComplianceRate:   m.store.ComplianceRate(),
		AverageRiskScore: avg,
		AIInsightCount:   len(s.AIInsights),
		PendingActions:   pending,
		LastDataRefresh:  m.clk.Now(),
	}
}

// scoreForLevel samples a plausible score within the level's band. Callers
// hold m.mu.
func (m *Manager) scoreForLevel(level string) float64 {
	switch level {
	case "Critical":
		return 85 + m.rng.Float64()*15
	case "High":
		return 60 + m.rng.Float64()*25
	case "Medium":
		return 30 + m.rng.Float64()*30
	case "Low":
		return m.rng.Float64() * 30
	default:
		return 0
	}
}

// seedCareActions builds the initial demo care actions. Callers need not
// hold m.mu; runs once from New.
func (m *Manager) seedCareActions() []CareAction {
	samples := []struct {
		title         string
		description   string
		priority      ActionPriority
		category      ActionCategory
		estimatedTime int
	}{
		{"Review Medication Adherence - John Smith", "Patient has missed 3 doses in the past week", PriorityHigh, ActionMedication, 20},
		{"Schedule Follow-up Call - Mary Johnson", "Post-discharge medication review needed", PriorityMedium, ActionFollowUp, 15},
		{"Patient Education Session - Robert Brown", "Diabetes medication management training", PriorityMedium, ActionEducation, 45},
	}

	actions := make([]CareAction, 0, len(samples))
	for i, s := range samples {
		actions = append(actions, CareAction{
			ID:            fmt.Sprintf("initial_action_%d", i),
			Title:         s.title,
			Description:   s.description,
			Priority:      s.priority,
			AssignedTo:    fmt.Sprintf("doctor%d", 1+m.rng.Intn(10)),
			PatientID:     fmt.Sprintf("patient%d", 1+m.rng.Intn(50)),
			DueDate:       m.clk.Now().Add(time.Duration(i+1) * 24 * time.Hour),
			Status:        StatusPending,
			EstimatedTime: s.estimatedTime,
			Category:      s.category,
		})
	}
	return actions
}

func prepend[T any](list []T, item T, limit int) []T {
	out := append([]T{item}, list...)
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func impactForConfidence(confidence int) InsightImpact {
	switch {
	case confidence >= 85:
		return ImpactHigh
	case confidence >= 70:
		return ImpactMedium
	default:
		return ImpactLow
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	// Back up to a rune boundary so the cut never splits a multi-byte rune.
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
