package logger

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// FilterHook marks entries outside the configured module / level allow lists
// so AsyncHook skips them. Entries without a module field always pass the
// module check. Error and fatal entries are never filtered.
type FilterHook struct {
	modules map[string]bool
	levels  map[string]bool
}

// NewFilterHook builds the allow lists from cfg.
func NewFilterHook(cfg *LogConfig) *FilterHook {
	return &FilterHook{
		modules: parseFilter(cfg.FilterModules),
		levels:  parseFilter(cfg.FilterLevels),
	}
}

// parseFilter returns nil for "allow everything".
func parseFilter(value string) map[string]bool {
	value = strings.TrimSpace(value)
	if value == "" || value == "*" {
		return nil
	}
	set := make(map[string]bool)
	for _, part := range strings.Split(value, ",") {
		if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
			set[part] = true
		}
	}
	if set["*"] {
		return nil
	}
	return set
}

// Levels implements logrus.Hook.
func (h *FilterHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire implements logrus.Hook.
func (h *FilterHook) Fire(entry *logrus.Entry) error {
	if !h.allowed(entry) {
		entry.Data[filteredKey] = true
	}
	return nil
}

func (h *FilterHook) allowed(entry *logrus.Entry) bool {
	if entry.Level <= logrus.ErrorLevel {
		return true
	}
	if h.levels != nil && !h.levels[entry.Level.String()] {
		return false
	}
	if h.modules != nil {
		if module, ok := entry.Data["module"].(string); ok && !h.modules[strings.ToLower(module)] {
			return false
		}
	}
	return true
}
