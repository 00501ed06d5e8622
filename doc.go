// Package ccfraud provides the validated configuration layer of the
// credit-card-fraud detection pipeline.
//
// The pipeline itself (data loading, preprocessing, feature selection,
// training and experiment tracking) consumes two immutable values built here:
// a schema.Config that parametrizes every stage, and a schema.FeatureSelection
// that records which features the selection step kept and dropped.
//
// # Quick Start
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/ccfraud/schema"
//	)
//
//	func main() {
//	    cfg, err := schema.Construct(map[string]any{
//	        "model": map[string]any{"name": "lgbm-baseline", "model_type": "lightgbm"},
//	    })
//	    if err != nil {
//	        log.Fatal(err) // every offending field path is listed
//	    }
//	    fmt.Println(cfg.Features().CorrelationThreshold()) // 0.75
//	}
//
// # Packages
//
//   - types: closed vocabularies (scaling, imputation, outliers, feature selection, model type)
//     and constrained primitives
//   - schema: Config, its sections and FeatureSelection, plus the construction engine
//   - pkg/configfile: YAML/JSON loading with environment overrides
//   - pkg/errors: aggregated validation errors and warnings
//   - pkg/log: structured logging
//   - core/model: classifier contracts the training driver plugs in
//
// # Validation
//
// Construction validates every field exactly once and either returns a fully
// populated value or a single error listing every violation with its dotted
// path (for example "features.correlation_threshold"). Values are frozen:
// there are no setters, and Assign always reports an ImmutabilityError.
package ccfraud
