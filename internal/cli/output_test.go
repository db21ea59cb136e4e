package cli

import (
	"bytes"
	"strings"
	"testing"
)

func newTestOutput(jsonMode bool) (*Output, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return &Output{jsonMode: jsonMode, w: &out, errW: &errOut}, &out, &errOut
}

func TestPrintTableMode(t *testing.T) {
	o, out, _ := newTestOutput(false)

	o.Print(
		[]string{"ID", "STATUS"},
		[][]string{{"q-1", "open"}, {"q-2", "answered"}},
		nil,
	)

	got := out.String()
	for _, want := range []string{"ID", "STATUS", "--", "q-1", "open", "q-2", "answered"} {
		if !strings.Contains(got, want) {
			t.Errorf("table output missing %q:\n%s", want, got)
		}
	}
}

func TestPrintJSONMode(t *testing.T) {
	o, out, _ := newTestOutput(true)

	o.Print(
		[]string{"ID"},
		[][]string{{"ignored"}},
		map[string]string{"id": "q-1"},
	)

	got := out.String()
	if !strings.Contains(got, `"id": "q-1"`) {
		t.Errorf("json output = %q", got)
	}
	// Табличные данные в JSON-режиме не выводятся.
	if strings.Contains(got, "ignored") {
		t.Errorf("json output leaked table rows: %q", got)
	}
}

func TestMessagesGoToStderr(t *testing.T) {
	o, out, errOut := newTestOutput(false)

	o.Success("done")
	o.Error("broke")

	if out.Len() != 0 {
		t.Errorf("stdout must stay clean, got %q", out.String())
	}
	got := errOut.String()
	if !strings.Contains(got, "done") || !strings.Contains(got, "Error: broke") {
		t.Errorf("stderr = %q", got)
	}
}
