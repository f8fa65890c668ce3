// Package core provides the business logic for museum object counts.
//
// The package turns a flat table of museum object records into a summary
// counting objects by region, country, creation decade and medium group. It
// contains all domain logic independent of any UI or transport layer and is
// used by the command line tool, the web upload page and tests without
// modification.
//
// # Pipeline
//
// Data flows strictly in one direction:
//
//  1. [LoadTable] reads the master table and the optional region lookup table
//  2. [ResolveRegions] builds the country→region map by majority vote
//  3. [DecadeBounds.Decade] derives a decade per record, dropping undated ones
//  4. [Classifier.Classify] maps classification and medium text to a group
//  5. [Aggregate] counts records per (region, country, decade, medium group)
//  6. [WriteAggregates] writes the summary table
//
// [Pipeline.Transform] runs steps 2-5 on loaded tables. [Service.Run] runs the
// whole sequence against an [Operator], the capability interface that stands
// in for file pickers and message boxes.
//
// # Configuration
//
// Column names are not globals. They travel in a [Columns] value built once at
// the program boundary:
//
//	p := core.NewPipeline(core.DefaultColumns())
//	p.Bounds = core.DecadeBounds{Min: 1400, Max: 2020}
//	res, err := p.Transform(master, lookup)
//
// # Medium Groups
//
// [MediumRules] is an ordered list; the first rule with a matching keyword
// wins. A record mentioning both "print" and "bronze" is a print because
// Prints is checked before Sculpture.
//
// # Error Handling
//
// Fatal conditions are typed: [ReadError], [SchemaError] and [WriteError].
// [ErrEmptyResult] halts a run before anything is written. A
// [LookupSchemaWarning] only disables region mapping. [MapError] turns any of
// them into an operator-facing message with a support code.
package core
