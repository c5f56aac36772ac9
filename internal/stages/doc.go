// Package stages contains the enrichment pipeline stages. Each stage
// implements driven.PipelineStage, mutates the asset in place and
// treats a missing prerequisite as a silent no-op so a degraded
// pipeline still produces partial results.
package stages
