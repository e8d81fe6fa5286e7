package logg

const (
	Layer     = "layer"
	Operation = "op"
	RunID     = "run_id"
	URL       = "url"
	XPath     = "xpath"
	StepIndex = "step_index"
	StepType  = "step_type"
	Element   = "element_type"
	Model     = "model"
)
