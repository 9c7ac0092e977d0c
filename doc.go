// Package cpusched simulates single-CPU process scheduling.
//
// A Session drives one deterministic simulation tick by tick under one of
// the supported algorithms (FCFS, SJF, SRTF, Priority, RR, LJF, LRTF and
// MLFQ) and exposes a full snapshot after every step: process table,
// ready queues, Gantt chart, kernel log and aggregate metrics.
//
// The Service façade owns sessions, loads workloads through afs and
// compares algorithms over the same workload:
//
//	srv := cpusched.New()
//	wl, _ := srv.LoadWorkload(ctx, "workload.yaml")
//	session, _ := srv.NewSessionFromWorkload(ctx, wl)
//	snapshot, _ := session.RunToCompletion(ctx)
//	results, _ := srv.Compare(ctx, wl)
//
// Sub-packages carry the building blocks: engine for the tick pipeline,
// service/dispatcher for the selection policies, service/metrics and
// service/recorder for derived outputs.
package cpusched
