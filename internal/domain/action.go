package domain

// Tool names recognised by the control loop.
const (
	ToolSearch = "search"
	ToolFinish = "finish"
)

// ActionKind discriminates the closed set of parsed tool calls.
type ActionKind int

const (
	// ActionSearch is a retrieval request against the corpus.
	ActionSearch ActionKind = iota
	// ActionFinish ends the run with a final answer.
	ActionFinish
	// ActionUnknown is a syntactically valid call to an unrecognised tool.
	ActionUnknown
)

// Action is the tagged variant produced by the action parser. The control
// loop switches exhaustively over Kind; only the fields of the matching
// variant are meaningful.
type Action struct {
	Kind ActionKind

	// ActionSearch
	Query string
	K     int

	// ActionFinish
	Answer string

	// ActionUnknown
	Name string
}

// SearchAction creates a search variant.
func SearchAction(query string, k int) Action {
	return Action{Kind: ActionSearch, Query: query, K: k}
}

// FinishAction creates a finish variant.
func FinishAction(answer string) Action {
	return Action{Kind: ActionFinish, Answer: answer}
}

// UnknownAction creates an unknown-tool variant.
func UnknownAction(name string) Action {
	return Action{Kind: ActionUnknown, Name: name}
}
