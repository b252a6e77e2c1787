// Package procdoc is a toolkit for process and automation documents: BPMN
// process definitions, CI pipeline definitions and pull-request automation
// rule sets.  It loads documents from any abstract-file-system location,
// validates them against named structural rules, diffs revisions and audits
// whole repository trees.  Nothing in this module executes a process,
// schedules a pipeline or acts on a pull request.
package procdoc
