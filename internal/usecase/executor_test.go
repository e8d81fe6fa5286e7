package usecase

import (
	"context"
	"errors"
	"testing"

	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"webtest-pilot/internal/entity"
)

func newExecutorUnderTest(factory *fakeFactory) *ExecutorService {
	return NewExecutorService(ExecutorServiceParams{
		Config:   testConfig(),
		Logger:   zap.NewNop(),
		Sessions: factory,
	})
}

func fourStepCase() *entity.TestCase {
	return &entity.TestCase{
		Steps: []entity.TestStep{
			{Action: "find_element", By: "xpath", Value: `//*[@id="amount"]`, StepType: entity.StepTypeClick},
			{Action: "find_element", By: "xpath", Value: `//*[@id="amount"]`, StepType: entity.StepTypeInput, InputValue: "2500000"},
			{Action: "find_element", By: "xpath", Value: "//body/div[1]/select[1]", StepType: entity.StepTypeSelect, InputValue: "24 months"},
			{Action: "find_element", By: "xpath", Value: "//body/div[1]/button[1]", StepType: entity.StepTypeClick},
		},
	}
}

func TestExecute_RunsStepsInOrder(t *testing.T) {
	g := NewWithT(t)

	session := newFakeSession()
	factory := &fakeFactory{session: session}

	result, err := newExecutorUnderTest(factory).Execute(context.Background(), "https://example.test/calc", fourStepCase())

	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(result.Success).To(BeTrue())
	g.Expect(result.Message).To(Equal("Test executed successfully"))
	g.Expect(result.StepsExecuted).To(Equal(4))

	g.Expect(session.actions).To(Equal([]string{
		"launch",
		"navigate https://example.test/calc",
		`wait //*[@id="amount"]`,
		`click //*[@id="amount"]`,
		`wait //*[@id="amount"]`,
		`fill //*[@id="amount"] 2500000`,
		"wait //body/div[1]/select[1]",
		"select //body/div[1]/select[1] 24 months",
		"wait //body/div[1]/button[1]",
		"click //body/div[1]/button[1]",
		"close",
	}))

	// executor always replays in a headful session
	g.Expect(factory.headless).To(Equal([]bool{false}))
}

func TestExecute_HaltsOnFirstFailure(t *testing.T) {
	g := NewWithT(t)

	session := newFakeSession()
	session.waitXPathErr["//body/div[1]/select[1]"] = errors.New("timeout waiting for selector")
	factory := &fakeFactory{session: session}

	result, err := newExecutorUnderTest(factory).Execute(context.Background(), "https://example.test/calc", fourStepCase())

	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(result.Success).To(BeFalse())
	g.Expect(result.Message).To(ContainSubstring("timeout waiting for selector"))
	g.Expect(result.StepsExecuted).To(Equal(2))

	// nothing after the failing step ran
	g.Expect(session.actions).ToNot(ContainElement("wait //body/div[1]/button[1]"))
	g.Expect(session.actions).ToNot(ContainElement("click //body/div[1]/button[1]"))
	g.Expect(session.closed).To(BeTrue())
}

func TestExecute_UnrecognizedStepTypeReported(t *testing.T) {
	g := NewWithT(t)

	session := newFakeSession()
	factory := &fakeFactory{session: session}

	testCase := &entity.TestCase{
		Steps: []entity.TestStep{
			{Action: "find_element", By: "xpath", Value: "//a[1]", StepType: entity.StepType("hover")},
		},
	}

	result, err := newExecutorUnderTest(factory).Execute(context.Background(), "https://example.test", testCase)

	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(result.Success).To(BeFalse())
	g.Expect(result.Message).To(ContainSubstring("unrecognized step type"))
	g.Expect(result.Message).To(ContainSubstring("hover"))
}

func TestExecute_UnsupportedLocatorStrategyReported(t *testing.T) {
	g := NewWithT(t)

	session := newFakeSession()
	factory := &fakeFactory{session: session}

	testCase := &entity.TestCase{
		Steps: []entity.TestStep{
			{Action: "find_element", By: "css", Value: "#amount", StepType: entity.StepTypeClick},
		},
	}

	result, err := newExecutorUnderTest(factory).Execute(context.Background(), "https://example.test", testCase)

	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(result.Success).To(BeFalse())
	g.Expect(result.Message).To(ContainSubstring("unsupported locator strategy"))
}

func TestExecute_NavigateFailureReported(t *testing.T) {
	g := NewWithT(t)

	session := newFakeSession()
	session.navigateErr = errors.New("net::ERR_NAME_NOT_RESOLVED")
	factory := &fakeFactory{session: session}

	result, err := newExecutorUnderTest(factory).Execute(context.Background(), "https://bad.test", fourStepCase())

	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(result.Success).To(BeFalse())
	g.Expect(result.StepsExecuted).To(Equal(0))
}

func TestExecute_LaunchFailureIsError(t *testing.T) {
	g := NewWithT(t)

	session := newFakeSession()
	session.launchErr = errors.New("chromium not installed")
	factory := &fakeFactory{session: session}

	result, err := newExecutorUnderTest(factory).Execute(context.Background(), "https://example.test", fourStepCase())

	g.Expect(err).To(HaveOccurred())
	g.Expect(result).To(BeNil())
}
