package editor

import "time"

type (
	// Alert is a brief toast shown to the user: loading errors, export
	// progress and similar. Alerts are never the only channel for anything
	// important; the model state stays consistent whether or not anyone
	// looks at them.
	Alert struct {
		Name      string // named alerts replace any previous alert of the same name
		Priority  AlertPriority
		Message   string
		Duration  time.Duration
		FadeLevel float64 // 0 hidden, 1 fully shown; animated by Update
	}

	AlertPriority int

	Alerts Model
)

const (
	Info AlertPriority = iota
	Warning
	Error
)

const defaultAlertDuration = 3 * time.Second
const alertFadeDuration = 150 * time.Millisecond

func (m *Model) Alerts() *Alerts { return (*Alerts)(m) }

func (m *Alerts) Add(message string, priority AlertPriority) {
	m.AddAlert(Alert{Message: message, Priority: priority, Duration: defaultAlertDuration})
}

func (m *Alerts) AddNamed(name, message string, priority AlertPriority) {
	m.AddAlert(Alert{Name: name, Message: message, Priority: priority, Duration: defaultAlertDuration})
}

func (m *Alerts) AddAlert(a Alert) {
	if a.Duration == 0 {
		a.Duration = defaultAlertDuration
	}
	if a.Name != "" {
		for i := range m.alerts {
			if m.alerts[i].Name == a.Name {
				a.FadeLevel = m.alerts[i].FadeLevel
				m.alerts[i] = a
				return
			}
		}
	}
	m.alerts = append(m.alerts, a)
}

// Update advances the fade animations by d, dropping alerts that have faded
// out. Returns true if something is still animating and the caller should
// keep repainting.
func (m *Alerts) Update(d time.Duration) (animating bool) {
	for i := 0; i < len(m.alerts); i++ {
		a := &m.alerts[i]
		if a.Duration > 0 {
			a.Duration -= d
			if a.FadeLevel < 1 {
				a.FadeLevel = min(a.FadeLevel+float64(d)/float64(alertFadeDuration), 1)
				animating = true
			}
		} else {
			a.FadeLevel -= float64(d) / float64(alertFadeDuration)
			animating = true
			if a.FadeLevel < 0 {
				m.alerts = append(m.alerts[:i], m.alerts[i+1:]...)
				i--
			}
		}
	}
	return animating
}

// Iterate is a range func over the current alerts, oldest first.
func (m *Alerts) Iterate(yield func(index int, alert Alert) bool) {
	for i, a := range m.alerts {
		if !yield(i, a) {
			break
		}
	}
}
