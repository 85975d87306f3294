package ui

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// PrefsFileName is the preferences file kept next to the database.
const PrefsFileName = "ui_prefs.json"

// TablePrefs stores per-table UI preferences.
type TablePrefs struct {
	SortKey       string         `json:"sort_key,omitempty"`
	SortOrder     string         `json:"sort_order,omitempty"`
	HiddenColumns []string       `json:"hidden_columns"`
	ActiveColumn  string         `json:"active_column,omitempty"`
	ColumnOrder   []string       `json:"column_order,omitempty"`
	Widths        map[string]int `json:"widths,omitempty"`
}

// UIPreferences stores persisted app preferences.
type UIPreferences struct {
	QcDocs       TablePrefs `json:"qc_docs"`
	OperationLog TablePrefs `json:"operation_log"`
}

// PrefsPath returns the preferences path for a database file.
func PrefsPath(dbPath string) string {
	return filepath.Join(filepath.Dir(dbPath), PrefsFileName)
}

func loadUIPreferences(path string) UIPreferences {
	if path == "" {
		return UIPreferences{}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return UIPreferences{}
	}

	var prefs UIPreferences
	if err := json.Unmarshal(data, &prefs); err != nil {
		return UIPreferences{}
	}
	return prefs
}

func saveUIPreferences(path string, prefs UIPreferences) error {
	if path == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create prefs dir: %w", err)
	}

	data, err := json.MarshalIndent(prefs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal prefs: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write prefs: %w", err)
	}
	return nil
}
