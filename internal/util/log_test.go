package util

import (
	"bytes"
	"testing"
)

func TestStatusTable(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	var buf bytes.Buffer
	StatusTable(&buf, []StatusTableRow{
		{Name: "namenode", Status: "running", Detail: "pid 4242", Ok: true},
		{Name: "historyserver", Status: "stopped"},
	})

	want := "  namenode       running  pid 4242\n" +
		"  historyserver  stopped  \n"
	if got := buf.String(); got != want {
		t.Errorf("StatusTable() =\n%q\nwant\n%q", got, want)
	}
}

func TestStatusTable_Empty(t *testing.T) {
	var buf bytes.Buffer
	StatusTable(&buf, nil)
	if buf.Len() != 0 {
		t.Errorf("StatusTable(nil) wrote %q", buf.String())
	}
}

func TestError(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	var buf bytes.Buffer
	Error(&buf, "failed to start %s: %v", "namenode", "exit status 1")
	if got, want := buf.String(), "ERROR: failed to start namenode: exit status 1\n"; got != want {
		t.Errorf("Error() wrote %q, want %q", got, want)
	}
}
