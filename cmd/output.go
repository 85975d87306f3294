package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/thediveo/enumflag"
	"gopkg.in/yaml.v3"

	"qcreg/internal/model"
	"qcreg/internal/sortheader"
)

type outputFormat enumflag.Flag

const (
	outputTable outputFormat = iota
	outputJSON
	outputYAML
)

var outputFormatIds = map[outputFormat][]string{
	outputTable: {"table"},
	outputJSON:  {"json"},
	outputYAML:  {"yaml", "yml"},
}

type orderFlag enumflag.Flag

const (
	orderAsc orderFlag = iota
	orderDesc
	orderNone
)

var orderFlagIds = map[orderFlag][]string{
	orderAsc:  {sortheader.Ascending.String(), "ascending"},
	orderDesc: {sortheader.Descending.String(), "descending"},
	orderNone: {sortheader.None.String()},
}

func (o orderFlag) order() sortheader.Order {
	switch o {
	case orderDesc:
		return sortheader.Descending
	case orderNone:
		return sortheader.None
	default:
		return sortheader.Ascending
	}
}

type qcDocOutput struct {
	Seq          int64    `json:"seq" yaml:"seq"`
	Name         string   `json:"name" yaml:"name"`
	Lot          string   `json:"lot" yaml:"lot"`
	Level        string   `json:"level,omitempty" yaml:"level,omitempty"`
	Assay        string   `json:"assay,omitempty" yaml:"assay,omitempty"`
	Position     string   `json:"position,omitempty" yaml:"position,omitempty"`
	TargetMean   *float64 `json:"target_mean,omitempty" yaml:"target_mean,omitempty"`
	TargetSD     *float64 `json:"target_sd,omitempty" yaml:"target_sd,omitempty"`
	ExpiresOn    string   `json:"expires_on,omitempty" yaml:"expires_on,omitempty"`
	Selected     bool     `json:"selected" yaml:"selected"`
	RegisteredAt string   `json:"registered_at" yaml:"registered_at"`
}

func newQcDocOutputs(docs []model.QcDocRow) []qcDocOutput {
	out := make([]qcDocOutput, 0, len(docs))
	for _, d := range docs {
		out = append(out, qcDocOutput{
			Seq:          d.Seq,
			Name:         d.Name,
			Lot:          d.Lot,
			Level:        d.Level,
			Assay:        d.Assay,
			Position:     d.Position,
			TargetMean:   d.TargetMean,
			TargetSD:     d.TargetSD,
			ExpiresOn:    d.ExpiresOn,
			Selected:     d.Selected,
			RegisteredAt: formatTimestamp(d.RegisteredAt),
		})
	}
	return out
}

type operationLogOutput struct {
	ID       int64  `json:"id" yaml:"id"`
	Time     string `json:"time" yaml:"time"`
	Operator string `json:"operator" yaml:"operator"`
	Action   string `json:"action" yaml:"action"`
	Detail   string `json:"detail,omitempty" yaml:"detail,omitempty"`
}

func newOperationLogOutputs(logs []model.OperationLog) []operationLogOutput {
	out := make([]operationLogOutput, 0, len(logs))
	for _, l := range logs {
		out = append(out, operationLogOutput{
			ID:       l.ID,
			Time:     formatTimestamp(l.CreatedAt),
			Operator: l.Operator,
			Action:   l.Action,
			Detail:   l.Detail,
		})
	}
	return out
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// writeStructured writes data as JSON or YAML.
func writeStructured(out io.Writer, format outputFormat, data any) error {
	switch format {
	case outputJSON:
		d, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal json: %w", err)
		}
		_, err = fmt.Fprintln(out, string(d))
		return err
	case outputYAML:
		d, err := yaml.Marshal(data)
		if err != nil {
			return fmt.Errorf("failed to marshal yaml: %w", err)
		}
		_, err = out.Write(d)
		return err
	default:
		return fmt.Errorf("unsupported output format")
	}
}
