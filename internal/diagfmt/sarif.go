package diagfmt

import (
	"encoding/json"
	"io"

	"rebuild/internal/diag"
	"rebuild/internal/source"
)

const sarifSchema = "https://json.schemastore.org/sarif-2.1.0.json"
const sarifVersion = "2.1.0"

type sarifLog struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool        sarifTool         `json:"tool"`
	Invocations []sarifInvocation `json:"invocations,omitempty"`
	Results     []sarifResult     `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version,omitempty"`
	InformationURI string      `json:"informationUri,omitempty"`
	Rules          []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string                `json:"id"`
	ShortDescription sarifMessage          `json:"shortDescription"`
	DefaultConfig    sarifRuleConfig       `json:"defaultConfiguration,omitempty"`
}

type sarifRuleConfig struct {
	Level string `json:"level"`
}

type sarifInvocation struct {
	Arguments           []string `json:"arguments,omitempty"`
	ExecutionSuccessful bool     `json:"executionSuccessful"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifResult struct {
	RuleID    string           `json:"ruleId"`
	Level     string           `json:"level"`
	Message   sarifMessage     `json:"message"`
	Locations []sarifLocation  `json:"locations,omitempty"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           sarifRegion           `json:"region"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   uint32 `json:"startLine"`
	StartColumn uint32 `json:"startColumn,omitempty"`
	EndLine     uint32 `json:"endLine,omitempty"`
	EndColumn   uint32 `json:"endColumn,omitempty"`
}

func sarifLevel(sev diag.Severity) string {
	switch sev {
	case diag.SevError:
		return "error"
	case diag.SevWarning:
		return "warning"
	default:
		return "note"
	}
}

// Sarif writes bag's diagnostics as a SARIF 2.1.0 log, with one rule per
// distinct diag.Code encountered and one result per diagnostic.
func Sarif(w io.Writer, bag *diag.Bag, fs *source.FileSet, meta SarifRunMeta) {
	rules := make([]sarifRule, 0)
	seen := make(map[diag.Code]bool)

	results := make([]sarifResult, 0, bag.Len())
	for _, d := range bag.Items() {
		if !seen[d.Code] {
			seen[d.Code] = true
			rules = append(rules, sarifRule{
				ID:               d.Code.String(),
				ShortDescription: sarifMessage{Text: d.Code.Title()},
				DefaultConfig:    sarifRuleConfig{Level: sarifLevel(d.Severity())},
			})
		}

		result := sarifResult{
			RuleID:  d.Code.String(),
			Level:   sarifLevel(d.Severity()),
			Message: sarifMessage{Text: d.Summary()},
		}
		if sp, ok := d.PrimarySpan(); ok {
			f := fs.Get(sp.File)
			start, end := fs.Resolve(sp)
			result.Locations = []sarifLocation{{
				PhysicalLocation: sarifPhysicalLocation{
					ArtifactLocation: sarifArtifactLocation{URI: f.FormatPath("relative", fs.BaseDir())},
					Region: sarifRegion{
						StartLine:   start.Line,
						StartColumn: start.Col,
						EndLine:     end.Line,
						EndColumn:   end.Col,
					},
				},
			}}
		}
		results = append(results, result)
	}

	log := sarifLog{
		Schema:  sarifSchema,
		Version: sarifVersion,
		Runs: []sarifRun{{
			Tool: sarifTool{Driver: sarifDriver{
				Name:    meta.ToolName,
				Version: meta.ToolVersion,
				Rules:   rules,
			}},
			Invocations: []sarifInvocation{{
				Arguments:           meta.InvocationArgs,
				ExecutionSuccessful: !bag.HasErrors(),
			}},
			Results: results,
		}},
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	_ = encoder.Encode(log)
}
