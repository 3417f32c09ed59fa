package host

// Exception is an error thrown by script code.
type Exception struct {
	// Value is the thrown value converted to a wire value, when possible.
	Value   Value
	Name    string
	Message string
	Stack   string
}

func (e *Exception) Error() string {
	if e.Name == "" {
		return e.Message
	}
	if e.Message == "" {
		return e.Name
	}
	return e.Name + ": " + e.Message
}
