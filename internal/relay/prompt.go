package relay

const (
	// TestCasePersona steers the model towards QA-style test cases for a screen description.
	TestCasePersona = "Imagine you are a QA Engineer. You are given a screen description. " +
		"Generate around 3-5 test cases for the screen. Ensure that the details in the requirement " +
		"are covered in the test cases including specific names, colors etc. " +
		"Also be mindful of overflow of elements etc."
	TestCaseInstruction = "Return the test cases as sentences seperated by /n. " +
		"Do not include any other text like 'Here are the test cases' or 'Test cases:' in your response."

	ReactPersona = "Imagine you are a React Developer. You are given a screen requirement. " +
		"Generate the react code for the screen."
	ReactInstruction = "Return the react code and nothing else."
)

// Token ceilings per route.
const (
	TestCaseMaxTokens        = 200
	ReactCodeMaxTokens       = 2000
	ImageEvaluationMaxTokens = 2000
)

// BuildPrompt wraps the caller input between a persona and an output instruction,
// separated by blank lines. The input is inserted verbatim.
func BuildPrompt(persona, instruction, input string) string {
	return persona + "\n\n" + input + "\n\n" + instruction
}
