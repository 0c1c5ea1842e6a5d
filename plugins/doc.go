// Package plugins hosts schema variant subpackages. It contains no production
// code itself; the architecture guard in this directory keeps variants
// limited to the registry surface in internal/core and the records in
// pkg/domain.
//
// Each subpackage exposes a core.Variant that registers one creator per
// entity kind under its schema name:
//
//	plugins/standard  the "Default" schema built from the base wrappers
//	plugins/nordic    the "Nordic" extension composing the Default wrappers
package plugins
