package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/viant/cpusched/model"
	"github.com/viant/cpusched/service/comparator"
)

func title(w io.Writer, text string) {
	_, _ = fmt.Fprintln(w, text)
	_, _ = fmt.Fprintln(w, strings.Repeat("-", len(text)))
}

func orDash(value int) string {
	if value < 0 {
		return "-"
	}
	return strconv.Itoa(value)
}

func float(value float64) string {
	return strconv.FormatFloat(value, 'f', 2, 64)
}

// Processes writes the per-process table with averages in the footer
func Processes(w io.Writer, snapshot *model.Snapshot) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"PID", "Arrival", "Burst", "Priority", "State", "Start", "Finish", "Wait", "Response", "Turnaround"})
	rows := make([][]string, 0, len(snapshot.Processes))
	for _, p := range snapshot.Processes {
		rows = append(rows, []string{
			strconv.Itoa(p.PID),
			strconv.Itoa(p.Arrival),
			strconv.Itoa(p.Burst),
			strconv.Itoa(p.Priority),
			p.State.String(),
			orDash(p.Start),
			orDash(p.Finish),
			strconv.Itoa(p.Wait),
			orDash(p.Response),
			strconv.Itoa(p.Turnaround),
		})
	}
	table.AppendBulk(rows)
	metrics := snapshot.Metrics
	table.SetFooter([]string{"", "", "", "", "", "", "",
		"Average\n" + float(metrics.AvgWait),
		"Average\n" + float(metrics.AvgResponse),
		"Average\n" + float(metrics.AvgTurnaround)})
	table.Render()
}

// Gantt writes the timeline as one bar row and one boundary row
func Gantt(w io.Writer, gantt []model.GanttEntry) {
	if len(gantt) == 0 {
		_, _ = fmt.Fprintln(w, "(empty)")
		return
	}
	bar := &strings.Builder{}
	ticks := &strings.Builder{}
	bar.WriteString("|")
	for _, entry := range gantt {
		label := "idle"
		if !entry.Idle() {
			label = "P" + strconv.Itoa(entry.PID)
		}
		width := len(label) + 2
		if span := entry.Len() * 2; span > width {
			width = span
		}
		padding := width - len(label)
		bar.WriteString(strings.Repeat(" ", padding/2) + label + strings.Repeat(" ", padding-padding/2) + "|")
		start := strconv.Itoa(entry.Start)
		ticks.WriteString(start + strings.Repeat(" ", width+1-len(start)))
	}
	ticks.WriteString(strconv.Itoa(gantt[len(gantt)-1].End))
	_, _ = fmt.Fprintln(w, bar.String())
	_, _ = fmt.Fprintln(w, ticks.String())
}

// Metrics writes aggregate metrics as a two column table
func Metrics(w io.Writer, metrics model.Metrics) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Metric", "Value"})
	table.AppendBulk([][]string{
		{"Average wait", float(metrics.AvgWait)},
		{"Average turnaround", float(metrics.AvgTurnaround)},
		{"Average response", float(metrics.AvgResponse)},
		{"CPU utilization %", float(metrics.CPUUtilization)},
		{"Throughput /tick", float(metrics.Throughput)},
		{"Busy ticks", strconv.Itoa(metrics.BusyTime)},
		{"Idle ticks", strconv.Itoa(metrics.TotalIdle)},
		{"Elapsed ticks", strconv.Itoa(metrics.TotalTime)},
		{"Context switches", strconv.Itoa(metrics.ContextSwitches)},
		{"Completed", strconv.Itoa(metrics.Completed)},
	})
	table.Render()
}

// Snapshot writes every section of a simulation state
func Snapshot(w io.Writer, snapshot *model.Snapshot) {
	header := fmt.Sprintf("%v", snapshot.Algorithm)
	if snapshot.Algorithm.UsesQuantum() {
		header += fmt.Sprintf(" (quantum %d)", snapshot.Quantum)
	}
	title(w, header)
	Processes(w, snapshot)
	_, _ = fmt.Fprintln(w)
	Gantt(w, snapshot.Gantt)
	_, _ = fmt.Fprintln(w)
	Metrics(w, snapshot.Metrics)
}

// Comparison writes one row per algorithm
func Comparison(w io.Writer, results []*comparator.Result) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Algorithm", "Avg wait", "Avg turnaround", "Avg response", "CPU %", "Throughput", "Switches", "Ticks", "Error"})
	rows := make([][]string, 0, len(results))
	for _, result := range results {
		if result == nil {
			continue
		}
		metrics := result.Metrics
		rows = append(rows, []string{
			result.Algorithm.String(),
			float(metrics.AvgWait),
			float(metrics.AvgTurnaround),
			float(metrics.AvgResponse),
			float(metrics.CPUUtilization),
			float(metrics.Throughput),
			strconv.Itoa(metrics.ContextSwitches),
			strconv.Itoa(result.Ticks),
			result.Error,
		})
	}
	table.AppendBulk(rows)
	if best := comparator.Best(results, func(m model.Metrics) float64 { return m.AvgWait }); best != nil {
		table.SetFooter([]string{"Lowest wait", best.Algorithm.String(), "", "", "", "", "", "", ""})
	}
	table.Render()
}
