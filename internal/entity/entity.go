package entity

import (
	"time"

	"github.com/google/uuid"
)

type TestRun struct {
	ID          uuid.UUID
	URL         string
	Intent      string
	Status      RunStatus
	CreatedAt   time.Time
	CompletedAt *time.Time
	Log         []PhaseLog
	Result      string
	Error       string
}

type RunStatus string

const (
	RunStatusPending    RunStatus = "pending"
	RunStatusInProgress RunStatus = "in_progress"
	RunStatusCompleted  RunStatus = "completed"
	RunStatusFailed     RunStatus = "failed"
)

type PhaseLog struct {
	Phase     string
	Timestamp time.Time
	Success   bool
	Detail    string
}

type ElementType string

const (
	ElementTypeInput  ElementType = "input"
	ElementTypeButton ElementType = "button"
	ElementTypeSelect ElementType = "select"
	ElementTypeLink   ElementType = "link"
)

// ElementTypes is the scan order; inventory grouping and prompt rendering
// both follow it.
var ElementTypes = []ElementType{
	ElementTypeInput,
	ElementTypeButton,
	ElementTypeSelect,
	ElementTypeLink,
}

// ElementRecord captures one discovered DOM node. Immutable once captured.
// XPath is empty when synthesis failed for the node.
type ElementRecord struct {
	Type  ElementType
	ID    string
	Name  string
	Class string
	Text  string
	XPath string
}

// Inventory groups records per element type, ordered by discovery within
// each type.
type Inventory struct {
	byType map[ElementType][]ElementRecord
}

func NewInventory() *Inventory {
	return &Inventory{
		byType: make(map[ElementType][]ElementRecord, len(ElementTypes)),
	}
}

func (inv *Inventory) Add(record ElementRecord) {
	inv.byType[record.Type] = append(inv.byType[record.Type], record)
}

func (inv *Inventory) Records(elementType ElementType) []ElementRecord {
	return inv.byType[elementType]
}

func (inv *Inventory) Len() int {
	total := 0
	for _, records := range inv.byType {
		total += len(records)
	}

	return total
}

type StepType string

const (
	StepTypeInput  StepType = "input"
	StepTypeClick  StepType = "click"
	StepTypeSelect StepType = "select"
	StepTypeScroll StepType = "scroll"
)

// TestStep is one atomic locate-and-act instruction. Field names follow the
// wire contract the model is asked to honor.
type TestStep struct {
	Action     string   `json:"action"`
	By         string   `json:"by"`
	Value      string   `json:"value"`
	StepType   StepType `json:"step_type"`
	InputValue string   `json:"input_value,omitempty"`
}

// NeedsInputValue reports whether the step type carries a payload value.
func (s TestStep) NeedsInputValue() bool {
	return s.StepType == StepTypeInput || s.StepType == StepTypeSelect
}

type TestCase struct {
	Steps []TestStep `json:"steps"`
}

type ExecutionResult struct {
	Success       bool
	Message       string
	StepsExecuted int
}

// DetectionResult pairs the inventory with the screenshot side artifact.
// ScreenshotPath is empty when the capture failed.
type DetectionResult struct {
	Inventory      *Inventory
	ScreenshotPath string
}
