// Package diagnostic collects non-fatal findings of a mapping run and
// renders run reports.
//
// Key capabilities:
//   - Warnings for deterministic conflict resolution during completion
//   - Infos for dropped or rewritten mappings
//   - Safe concurrent collection from parallel contributor passes
//   - YAML run reports with per-stage mapping counts and fingerprints
package diagnostic
