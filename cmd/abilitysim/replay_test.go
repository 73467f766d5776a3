package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/milk9111/abilitysystem/prefabs"
)

func TestRunTraceFireAim(t *testing.T) {
	trace, err := prefabs.LoadTraceSpec("../../prefabs/fire_aim_trace.yaml")
	if err != nil {
		t.Fatalf("load trace: %v", err)
	}

	var out bytes.Buffer
	report, err := runTrace(simConfig{Character: "character.yaml"}, trace, "", &out)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	var got []string
	for _, line := range report.Lines {
		fields := strings.Fields(line)
		if len(fields) != 3 {
			t.Fatalf("malformed line %q", line)
		}
		got = append(got, fields[1]+" "+fields[2])
	}
	want := []string{
		"activated regen",
		"activated fire",
		"activated aim",
		"ended fire",
		"canceled aim",
		"activated aim",
		"ended aim",
		"activated dash",
	}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("trace =\n%s\nwant\n%s", strings.Join(got, "\n"), strings.Join(want, "\n"))
	}

	if report.Character != "player" || report.Ticks != 12 || report.RunID == "" {
		t.Fatalf("unexpected report header %+v", report)
	}
	if strings.Join(report.Active, ",") != "dash,regen" && strings.Join(report.Active, ",") != "regen,dash" {
		t.Fatalf("active = %v", report.Active)
	}
	if len(report.Replicated) != 1 || !strings.HasPrefix(report.Replicated[0], "cancel aim") {
		t.Fatalf("replicated = %v", report.Replicated)
	}
	if strings.Count(out.String(), "\n") != len(report.Lines) {
		t.Fatalf("writer must receive every line")
	}
}

func TestApplyCancelRejectsUnknownGroup(t *testing.T) {
	trace := prefabs.TraceSpec{Ticks: 1, Steps: []prefabs.TraceStep{{Tick: 0, Cancel: "everything"}}}
	report, err := runTrace(simConfig{Character: "character.yaml"}, trace, "", nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(report.Lines) != 1 {
		t.Fatalf("only the on-spawn activation is expected, got %v", report.Lines)
	}
}
