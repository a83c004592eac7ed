package driver

import (
	"encoding/json"
	"fmt"

	"rebuild/internal/diag"
)

// PhaseDuration names one named stage of a tokenize run and how long it
// took, for the JSON payload folded into the timing diagnostic.
type PhaseDuration struct {
	Name string  `json:"name"`
	MS   float64 `json:"ms"`
}

type timingPayload struct {
	Kind    string          `json:"kind"`
	Path    string          `json:"path,omitempty"`
	TotalMS float64         `json:"total_ms"`
	Phases  []PhaseDuration `json:"phases"`
}

// appendTimingDiagnostic folds a run's timing summary into bag as a
// low-severity operational Diagnostic (group rebuild-driver), so
// timing data flows through the same sink as lexical diagnostics
// rather than a separate side channel.
func appendTimingDiagnostic(bag *diag.Bag, payload timingPayload) {
	if bag == nil {
		return
	}
	if payload.Kind == "" {
		payload.Kind = "pipeline"
	}
	msg := fmt.Sprintf("timings (%s): total %.2f ms", payload.Kind, payload.TotalMS)
	if payload.Path != "" {
		msg = fmt.Sprintf("%s - %s", msg, payload.Path)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return
	}

	entry := diag.New(diag.DriverTimings, diag.Explanation{
		Title: "Pipeline timings",
		Document: diag.Document{
			diag.Para(msg),
			diag.Para(string(data)),
		},
	})

	if bag.Add(entry) {
		return
	}
	overflow := diag.NewBag(len(bag.Items()) + 1)
	overflow.Add(entry)
	bag.Merge(overflow)
}
