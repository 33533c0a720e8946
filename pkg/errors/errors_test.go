package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeMissingInput, "missing input %q", "value")

	if err.Code != ErrCodeMissingInput {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeMissingInput)
	}

	if err.Message != `missing input "value"` {
		t.Errorf("Message = %v, want %v", err.Message, `missing input "value"`)
	}

	expected := `MISSING_INPUT: missing input "value"`
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("deadline exceeded")
	err := Wrap(ErrCodeTimeout, cause, "generation aborted")

	if err.Code != ErrCodeTimeout {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeTimeout)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	if unwrapped := errors.Unwrap(err); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeSelfLoop, "test"),
			code:     ErrCodeSelfLoop,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeSelfLoop, "test"),
			code:     ErrCodeGraphCycle,
			expected: false,
		},
		{
			name:     "outer code of wrapped error",
			err:      Wrap(ErrCodeInvalidGraph, New(ErrCodeMissingInput, "inner"), "outer"),
			code:     ErrCodeInvalidGraph,
			expected: true,
		},
		{
			name:     "inner code of wrapped error",
			err:      Wrap(ErrCodeInvalidGraph, New(ErrCodeMissingInput, "inner"), "outer"),
			code:     ErrCodeMissingInput,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidInput,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{"Error type", New(ErrCodeInvalidPreset, "test"), ErrCodeInvalidPreset},
		{"wrapped", Wrap(ErrCodeTimeout, New(ErrCodeCanceled, "x"), "y"), ErrCodeTimeout},
		{"plain error", errors.New("plain"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestAnnotate(t *testing.T) {
	if Annotate(nil, "ctx") != nil {
		t.Error("Annotate(nil) should return nil")
	}

	err := Annotate(New(ErrCodeMissingInput, "missing input %q", "value"), "node %d", 3)
	if GetCode(err) != ErrCodeMissingInput {
		t.Errorf("Annotate should keep the code, got %v", GetCode(err))
	}
	want := `MISSING_INPUT: node 3: missing input "value"`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	nested := Annotate(Annotate(New(ErrCodeSelfLoop, "loop"), "link %d", 2), "graph")
	if want := "SELF_LOOP: graph: link 2: loop"; nested.Error() != want {
		t.Errorf("Error() = %q, want %q", nested.Error(), want)
	}

	mixed := Wrap(ErrCodeInternal, New(ErrCodeTimeout, "slow"), "render")
	if want := "INTERNAL_ERROR: render: TIMEOUT: slow"; mixed.Error() != want {
		t.Errorf("Error() = %q, want %q", mixed.Error(), want)
	}

	plain := Annotate(errors.New("boom"), "node %d", 1)
	if GetCode(plain) != ErrCodeInternal {
		t.Errorf("plain errors should be annotated as internal, got %v", GetCode(plain))
	}
}

func TestCategories(t *testing.T) {
	if !IsConfiguration(New(ErrCodeGraphCycle, "x")) {
		t.Error("GRAPH_CYCLE should be a configuration error")
	}
	if IsConfiguration(New(ErrCodeTimeout, "x")) {
		t.Error("TIMEOUT should not be a configuration error")
	}
	if !IsInput(New(ErrCodeInvalidFormat, "x")) {
		t.Error("INVALID_FORMAT should be an input error")
	}
	if IsInput(errors.New("plain")) {
		t.Error("plain errors have no category")
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"Error type", New(ErrCodeInvalidInput, "user-friendly message"), "user-friendly message"},
		{"nested", Wrap(ErrCodeInvalidGraph, New(ErrCodeSelfLoop, "node 2"), "add link"), "add link: node 2"},
		{"plain error", errors.New("plain error message"), "plain error message"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %q, want %q", got, tt.expected)
			}
		})
	}
}
