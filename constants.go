package ccfraud

// Dataset
const (
	// OpenMLDatasetID is the OpenML id of the credit card fraud dataset.
	OpenMLDatasetID = 1597

	// Target is the label column of the dataset.
	Target = "Class"
)

// Experiment tracking
const (
	MLflowExperimentName = "Credit card fraud"
	MLflowTrackingURI    = "http://localhost:5000"
)

// MaxRandomState is the largest seed accepted by the numerical backends
// (2^31 - 1). The schema only enforces it when asked to, see
// schema.WithRandomStateBound.
const MaxRandomState int64 = 1<<31 - 1
